package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jashshah854-a11y/ACE-V4-sub001/repositories"
)

// RunIndexRepository implements repositories.RunIndexRepository on Postgres
type RunIndexRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRunIndexRepository creates a new run index repository
func NewRunIndexRepository(db *DB, logger *zap.Logger) repositories.RunIndexRepository {
	return &RunIndexRepository{db: db.DB, logger: logger}
}

// newRunIndexRepositoryFromSQL wires a raw *sql.DB, used by tests with sqlmock
func newRunIndexRepositoryFromSQL(db *sql.DB, logger *zap.Logger) *RunIndexRepository {
	return &RunIndexRepository{db: db, logger: logger}
}

// Record inserts the sealed-run summary. ON CONFLICT DO NOTHING keeps the
// first seal's row, matching seal idempotence.
func (r *RunIndexRepository) Record(ctx context.Context, run *repositories.SealedRun) error {
	query := `
		INSERT INTO sealed_runs (
			run_id, sealed_at, seal_reason, dataset_fingerprint, overall_confidence
		) VALUES (
			$1, $2, $3, $4, $5
		)
		ON CONFLICT (run_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		run.RunID,
		run.SealedAt,
		run.SealReason,
		run.DatasetFingerprint,
		run.OverallConfidence,
	)
	if err != nil {
		return fmt.Errorf("failed to record sealed run: %w", err)
	}

	r.logger.Debug("sealed run recorded", zap.String("run_id", run.RunID))
	return nil
}

// GetByRunID retrieves one sealed-run summary
func (r *RunIndexRepository) GetByRunID(ctx context.Context, runID string) (*repositories.SealedRun, error) {
	query := `
		SELECT run_id, sealed_at, seal_reason, dataset_fingerprint, overall_confidence
		FROM sealed_runs
		WHERE run_id = $1
	`

	run := &repositories.SealedRun{}
	err := r.db.QueryRowContext(ctx, query, runID).Scan(
		&run.RunID,
		&run.SealedAt,
		&run.SealReason,
		&run.DatasetFingerprint,
		&run.OverallConfidence,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sealed run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sealed run: %w", err)
	}
	return run, nil
}

// ListRecent returns the most recently sealed runs, newest first
func (r *RunIndexRepository) ListRecent(ctx context.Context, limit int) ([]*repositories.SealedRun, error) {
	query := `
		SELECT run_id, sealed_at, seal_reason, dataset_fingerprint, overall_confidence
		FROM sealed_runs
		ORDER BY sealed_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sealed runs: %w", err)
	}
	defer rows.Close()

	var runs []*repositories.SealedRun
	for rows.Next() {
		run := &repositories.SealedRun{}
		if err := rows.Scan(
			&run.RunID,
			&run.SealedAt,
			&run.SealReason,
			&run.DatasetFingerprint,
			&run.OverallConfidence,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sealed run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sealed runs: %w", err)
	}
	return runs, nil
}
