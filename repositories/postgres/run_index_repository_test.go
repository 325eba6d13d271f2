package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jashshah854-a11y/ACE-V4-sub001/repositories"
)

func newMockRepo(t *testing.T) (*RunIndexRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return newRunIndexRepositoryFromSQL(db, zap.NewNop()), mock
}

func TestRecord(t *testing.T) {
	repo, mock := newMockRepo(t)

	sealedAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	confidence := 72.5
	run := &repositories.SealedRun{
		RunID:              "run-1",
		SealedAt:           sealedAt,
		SealReason:         "pipeline complete",
		DatasetFingerprint: "abc123-c12-r5000",
		OverallConfidence:  &confidence,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sealed_runs")).
		WithArgs("run-1", sealedAt, "pipeline complete", "abc123-c12-r5000", &confidence).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Record(context.Background(), run)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_Duplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	run := &repositories.SealedRun{
		RunID:    "run-1",
		SealedAt: time.Now().UTC(),
	}

	// ON CONFLICT DO NOTHING: zero rows affected is still success.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sealed_runs")).
		WithArgs("run-1", run.SealedAt, "", "", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Record(context.Background(), run)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByRunID(t *testing.T) {
	repo, mock := newMockRepo(t)

	sealedAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"run_id", "sealed_at", "seal_reason", "dataset_fingerprint", "overall_confidence",
	}).AddRow("run-1", sealedAt, "pipeline complete", "abc123-c12-r5000", 72.5)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sealed_runs")).
		WithArgs("run-1").
		WillReturnRows(rows)

	run, err := repo.GetByRunID(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.RunID)
	assert.Equal(t, sealedAt, run.SealedAt)
	assert.Equal(t, "abc123-c12-r5000", run.DatasetFingerprint)
	require.NotNil(t, run.OverallConfidence)
	assert.Equal(t, 72.5, *run.OverallConfidence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByRunID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sealed_runs")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"run_id", "sealed_at", "seal_reason", "dataset_fingerprint", "overall_confidence",
		}))

	_, err := repo.GetByRunID(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListRecent(t *testing.T) {
	repo, mock := newMockRepo(t)

	newer := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)
	rows := sqlmock.NewRows([]string{
		"run_id", "sealed_at", "seal_reason", "dataset_fingerprint", "overall_confidence",
	}).
		AddRow("run-2", newer, "pipeline complete", "def456-c8-r120", nil).
		AddRow("run-1", older, "operator seal", "abc123-c12-r5000", 55.0)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY sealed_at DESC")).
		WithArgs(10).
		WillReturnRows(rows)

	runs, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Nil(t, runs[0].OverallConfidence)
	assert.Equal(t, "run-1", runs[1].RunID)
	require.NotNil(t, runs[1].OverallConfidence)
	assert.NoError(t, mock.ExpectationsWereMet())
}
