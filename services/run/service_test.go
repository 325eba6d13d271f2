package run

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jashshah854-a11y/ACE-V4-sub001/config"
	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
	"github.com/jashshah854-a11y/ACE-V4-sub001/services/render"
	"github.com/jashshah854-a11y/ACE-V4-sub001/services/trust"
	"github.com/jashshah854-a11y/ACE-V4-sub001/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	logger := zap.NewNop()
	pipeline := config.DefaultPipeline()
	st := store.NewStore(t.TempDir(), "", logger)
	ts := trust.NewService(trust.DefaultWeights(), logger)
	rd := render.NewDeriver(pipeline, logger)
	return NewService(st, ts, rd, pipeline, nil, logger), st
}

func TestInitialize_FreshRun(t *testing.T) {
	svc, _ := newTestService(t)

	m, err := svc.Initialize("r1", "abc123", "4.0.0", "deadbeef")
	require.NoError(t, err)

	assert.Equal(t, "r1", m.RunID)
	assert.Equal(t, "abc123", m.DatasetFingerprint)
	for name, step := range m.Steps {
		assert.Equal(t, models.StepNotStarted, step.Status, "step %s", name)
	}
	assert.False(t, m.RenderPolicy.Allows(models.FlagAllowReport),
		"allow_report must be false on a fresh manifest")
}

func TestUpdateStepStatus_Lifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Initialize("r1", "abc123", "4.0.0", "")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStepStatus("r1", config.StepValidator, models.StepRunning, "", ""))
	m, err := svc.Get("r1")
	require.NoError(t, err)
	entry := m.Step(config.StepValidator)
	require.NotNil(t, entry.StartedAt)
	assert.Nil(t, entry.EndedAt)
	firstStart := *entry.StartedAt

	// running again must not move started_at
	require.NoError(t, svc.UpdateStepStatus("r1", config.StepValidator, models.StepRunning, "", ""))
	m, err = svc.Get("r1")
	require.NoError(t, err)
	assert.True(t, firstStart.Equal(*m.Step(config.StepValidator).StartedAt))

	require.NoError(t, svc.UpdateStepStatus("r1", config.StepValidator, models.StepSuccess, "", ""))
	m, err = svc.Get("r1")
	require.NoError(t, err)
	entry = m.Step(config.StepValidator)
	assert.Equal(t, models.StepSuccess, entry.Status)
	require.NotNil(t, entry.EndedAt)
	assert.Empty(t, entry.ErrorCode)

	// terminal states never transition again
	require.NoError(t, svc.UpdateStepStatus("r1", config.StepValidator, models.StepFailed, "E1", "late failure"))
	m, err = svc.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, models.StepSuccess, m.Step(config.StepValidator).Status)
}

func TestUpdateStepStatus_FailureRecordsError(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Initialize("r1", "abc123", "4.0.0", "")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStepStatus("r1", config.StepRegression, models.StepFailed, "SINGULAR_MATRIX", "design matrix is singular"))
	m, err := svc.Get("r1")
	require.NoError(t, err)
	entry := m.Step(config.StepRegression)
	assert.Equal(t, models.StepFailed, entry.Status)
	assert.Equal(t, "SINGULAR_MATRIX", entry.ErrorCode)
	assert.Equal(t, "design matrix is singular", entry.ErrorMessage)
	require.NotNil(t, entry.EndedAt)
}

func TestScenarioB_DataQualityEighty(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Initialize("r1", "abc123", "4.0.0", "")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStepStatus("r1", config.StepValidator, models.StepSuccess, "", ""))
	for _, id := range []string{models.ArtifactDatasetIdentityCard, models.ArtifactQualityMetrics} {
		require.NoError(t, svc.RegisterArtifact("r1", id, ArtifactParams{
			ArtifactType:   "validation",
			ProducedByStep: config.StepValidator,
			Status:         models.ArtifactSuccess,
			Valid:          true,
		}))
	}

	result, err := svc.ComputeTrust("r1")
	require.NoError(t, err)
	dq := result.Component(models.ComponentDataQuality)
	require.NotNil(t, dq)
	require.NotNil(t, dq.Score)
	assert.Equal(t, 80.0, *dq.Score)
}

func TestTrustPresenceTracksTrustStep(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Initialize("r1", "abc123", "4.0.0", "")
	require.NoError(t, err)

	m, err := svc.Get("r1")
	require.NoError(t, err)
	assert.Nil(t, m.Trust, "trust must be absent before trust evaluation succeeds")

	require.NoError(t, svc.UpdateStepStatus("r1", config.StepTrustEvaluator, models.StepSuccess, "", ""))
	m, err = svc.Get("r1")
	require.NoError(t, err)
	require.NotNil(t, m.Trust)
	assert.NotEmpty(t, m.Trust.Components)
}

func TestAddWarning_FirstWriteWins(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Initialize("r1", "abc123", "4.0.0", "")
	require.NoError(t, err)

	require.NoError(t, svc.AddWarning("r1", "HIGH_MISSINGNESS", models.SeverityMedium, "first message", config.StepValidator, false))
	require.NoError(t, svc.AddWarning("r1", "HIGH_MISSINGNESS", models.SeverityCritical, "second message", "", true))

	m, err := svc.Get("r1")
	require.NoError(t, err)
	require.Len(t, m.Warnings, 1)
	assert.Equal(t, "first message", m.Warnings[0].Message)
	assert.Equal(t, models.SeverityMedium, m.Warnings[0].Severity)
	assert.False(t, m.Warnings[0].Blocking)
}

func TestRemoveArtifact_RecomputesRenderPolicy(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Initialize("r1", "abc123", "4.0.0", "")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStepStatus("r1", config.StepExpositor, models.StepSuccess, "", ""))
	require.NoError(t, svc.RegisterArtifact("r1", models.ArtifactFinalReport, ArtifactParams{
		ArtifactType:   "report",
		ProducedByStep: config.StepExpositor,
		Status:         models.ArtifactSuccess,
		Valid:          true,
	}))

	m, err := svc.Get("r1")
	require.NoError(t, err)
	assert.True(t, m.RenderPolicy.Allows(models.FlagAllowReport))

	require.NoError(t, svc.RemoveArtifact("r1", models.ArtifactFinalReport))
	m, err = svc.Get("r1")
	require.NoError(t, err)
	assert.False(t, m.RenderPolicy.Allows(models.FlagAllowReport))
}

func TestSetRouting(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Initialize("r1", "abc123", "4.0.0", "")
	require.NoError(t, err)

	require.NoError(t, svc.SetRouting("r1", []string{"regression"}, map[string]string{
		"personas": "too few rows for clustering",
	}))

	m, err := svc.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"regression"}, m.AnalysisAllowed)
	assert.Equal(t, "too few rows for clustering", m.AnalysisSuppressed["personas"])
}

func TestScenarioD_SealThenMutate(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Initialize("r1", "abc123", "4.0.0", "")
	require.NoError(t, err)
	require.NoError(t, svc.Seal(context.Background(), "r1", "run_complete"))

	before, err := svc.Get("r1")
	require.NoError(t, err)

	err = svc.UpdateStepStatus("r1", config.StepValidator, models.StepSuccess, "", "")
	require.NoError(t, err, "mutating a sealed run must not raise")

	after, err := svc.Get("r1")
	require.NoError(t, err)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("sealed manifest changed (-before +after):\n%s", diff)
	}
}

func TestProfileFeedsTrust(t *testing.T) {
	svc, st := newTestService(t)
	_, err := svc.Initialize("r1", "abc123", "4.0.0", "")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStepStatus("r1", config.StepProfiler, models.StepSuccess, "", ""))
	require.NoError(t, svc.RegisterArtifact("r1", models.ArtifactDataProfile, ArtifactParams{
		ArtifactType:   "profile",
		ProducedByStep: config.StepProfiler,
		Status:         models.ArtifactSuccess,
		Valid:          true,
	}))

	profile := models.DataProfile{RowCount: 50000, MissingCellRatio: 0, ConstantColumns: 0}
	data, err := json.Marshal(profile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(st.RunDir("r1"), DocDataProfile), data, 0o644))

	result, err := svc.ComputeTrust("r1")
	require.NoError(t, err)
	dq := result.Component(models.ComponentDataQuality)
	require.NotNil(t, dq.Score)
	assert.Equal(t, 100.0, *dq.Score, "clean large profile scores full marks")
	assert.Equal(t, "recomputed from data profile", dq.Notes)
}

func TestAddWarning_InvalidSeverityNeverPersists(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Initialize("r1", "abc123", "4.0.0", "")
	require.NoError(t, err)

	err = svc.AddWarning("r1", "W1", models.Severity("bogus"), "msg", "", false)
	require.Error(t, err)

	// The run stays readable and the bad warning never landed.
	m, err := svc.Get("r1")
	require.NoError(t, err)
	assert.False(t, m.HasWarning("W1"))
}

func TestRegisterArtifact_InvalidStatusNeverPersists(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Initialize("r1", "abc123", "4.0.0", "")
	require.NoError(t, err)

	err = svc.RegisterArtifact("r1", models.ArtifactFinalReport, ArtifactParams{
		ArtifactType:   "report",
		ProducedByStep: config.StepExpositor,
		Status:         models.ArtifactStatus("bogus"),
	})
	require.Error(t, err)

	m, err := svc.Get("r1")
	require.NoError(t, err)
	assert.Nil(t, m.Artifact(models.ArtifactFinalReport))
}
