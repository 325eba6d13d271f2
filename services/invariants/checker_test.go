package invariants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jashshah854-a11y/ACE-V4-sub001/config"
	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
)

func newChecker() *Checker {
	return NewChecker(config.DefaultPipeline())
}

func newManifest() *models.Manifest {
	return models.NewManifest("r1", "abc123", "4.0.0", "", config.DefaultPipeline().Steps)
}

func violationIDs(report *models.InvariantReport) []string {
	ids := make([]string, 0, len(report.Violations))
	for _, v := range report.Violations {
		ids = append(ids, v.InvariantID)
	}
	return ids
}

func TestRun_CleanManifest(t *testing.T) {
	report := newChecker().Run(newManifest())
	assert.True(t, report.OK)
	assert.Empty(t, report.Violations)
}

func TestScenarioE_ArtifactFromFailedStep(t *testing.T) {
	m := newManifest()
	m.Steps[config.StepRegression].Status = models.StepFailed
	m.Artifacts[models.ArtifactModelSummary] = &models.ArtifactEntry{
		ArtifactType:   "model",
		ProducedByStep: config.StepRegression,
		Status:         models.ArtifactSuccess,
		Valid:          false,
		CreatedAt:      time.Now().UTC(),
	}

	report := newChecker().Run(m)

	assert.False(t, report.OK)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, models.InvArtifactStepSuccess, report.Violations[0].InvariantID)
}

func TestArtifactFromRunningStep_Allowed(t *testing.T) {
	m := newManifest()
	m.Steps[config.StepRegression].Status = models.StepRunning
	m.Artifacts[models.ArtifactModelSummary] = &models.ArtifactEntry{
		ArtifactType:   "model",
		ProducedByStep: config.StepRegression,
		Status:         models.ArtifactSuccess,
		Valid:          false,
		CreatedAt:      time.Now().UTC(),
	}
	assert.True(t, newChecker().Run(m).OK)
}

func TestArtifactValidStatus(t *testing.T) {
	m := newManifest()
	m.Steps[config.StepValidator].Status = models.StepSuccess
	m.Artifacts[models.ArtifactQualityMetrics] = &models.ArtifactEntry{
		ArtifactType:   "metrics",
		ProducedByStep: config.StepValidator,
		Status:         models.ArtifactFailed,
		Valid:          true,
		CreatedAt:      time.Now().UTC(),
	}

	report := newChecker().Run(m)
	assert.Contains(t, violationIDs(report), models.InvArtifactValidStatus)
}

func TestMetricBoundsEnforced(t *testing.T) {
	m := newManifest()
	m.Steps[config.StepRegression].Status = models.StepSuccess
	m.Artifacts[models.ArtifactModelSummary] = &models.ArtifactEntry{
		ArtifactType:     "model",
		ProducedByStep:   config.StepRegression,
		Status:           models.ArtifactSuccess,
		Valid:            true,
		ValidationErrors: []string{"METRIC_OUT_OF_BOUNDS: r_squared=1.4"},
		CreatedAt:        time.Now().UTC(),
	}

	report := newChecker().Run(m)
	assert.Contains(t, violationIDs(report), models.InvMetricBoundsEnforced)

	// The same error on an invalid artifact is fine: it was not tolerated.
	m.Artifacts[models.ArtifactModelSummary].Valid = false
	report = newChecker().Run(m)
	assert.NotContains(t, violationIDs(report), models.InvMetricBoundsEnforced)
}

func TestTrustStepConsistency(t *testing.T) {
	// Trust present without a successful trust evaluation step.
	m := newManifest()
	m.Trust = &models.TrustResult{Components: map[string]*models.TrustComponent{}}
	report := newChecker().Run(m)
	assert.Contains(t, violationIDs(report), models.InvTrustStepConsistency)

	// Step success without a trust result.
	m = newManifest()
	m.Steps[config.StepTrustEvaluator].Status = models.StepSuccess
	report = newChecker().Run(m)
	assert.Contains(t, violationIDs(report), models.InvTrustStepConsistency)

	// Consistent both ways.
	m.Trust = &models.TrustResult{Components: map[string]*models.TrustComponent{}}
	report = newChecker().Run(m)
	assert.NotContains(t, violationIDs(report), models.InvTrustStepConsistency)
}

func TestRoutingPopulated(t *testing.T) {
	m := newManifest()
	m.Steps[config.StepClassifier].Status = models.StepSuccess

	report := newChecker().Run(m)
	assert.Contains(t, violationIDs(report), models.InvRoutingPopulated)

	m.AnalysisAllowed = []string{"regression"}
	m.AnalysisSuppressed = map[string]string{}
	report = newChecker().Run(m)
	assert.NotContains(t, violationIDs(report), models.InvRoutingPopulated)
}

func TestRenderPolicyArtifacts(t *testing.T) {
	m := newManifest()
	m.Steps[config.StepExpositor].Status = models.StepSuccess
	// A flag forced on without its required artifact is a critical violation.
	m.RenderPolicy[models.FlagAllowReport] = true

	report := newChecker().Run(m)
	require.Contains(t, violationIDs(report), models.InvRenderPolicyArtifacts)
	for _, v := range report.Violations {
		if v.InvariantID == models.InvRenderPolicyArtifacts {
			assert.Equal(t, models.SeverityCritical, v.Severity)
		}
	}
}

func TestRun_NeverMutates(t *testing.T) {
	m := newManifest()
	m.Steps[config.StepClassifier].Status = models.StepSuccess
	before := len(m.Warnings)

	_ = newChecker().Run(m)

	assert.Len(t, m.Warnings, before)
	assert.Nil(t, m.Trust)
	assert.Equal(t, models.StepSuccess, m.Steps[config.StepClassifier].Status)
}
