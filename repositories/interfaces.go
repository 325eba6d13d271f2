package repositories

import (
	"context"
	"time"
)

// SealedRun is one sealed run's summary row in the run index
type SealedRun struct {
	RunID              string
	SealedAt           time.Time
	SealReason         string
	DatasetFingerprint string
	OverallConfidence  *float64 // nil when the run sealed without a trust result
}

// RunIndexRepository records sealed runs for operator queries. The index is
// supplementary: the file-backed manifest stays the source of truth.
type RunIndexRepository interface {
	// Record inserts the sealed-run summary. Re-recording the same run is a
	// no-op; the first seal wins, matching seal idempotence.
	Record(ctx context.Context, run *SealedRun) error

	// GetByRunID retrieves one sealed-run summary
	GetByRunID(ctx context.Context, runID string) (*SealedRun, error)

	// ListRecent returns the most recently sealed runs, newest first
	ListRecent(ctx context.Context, limit int) ([]*SealedRun, error)
}
