package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jashshah854-a11y/ACE-V4-sub001/config"
	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
)

func newTestDeriver() *Deriver {
	return NewDeriver(config.DefaultPipeline(), zap.NewNop())
}

func newManifest() *models.Manifest {
	return models.NewManifest("r1", "abc123", "4.0.0", "", config.DefaultPipeline().Steps)
}

func succeed(m *models.Manifest, step string) {
	now := time.Now().UTC()
	m.Steps[step].Status = models.StepSuccess
	m.Steps[step].EndedAt = &now
}

func register(m *models.Manifest, id, step string, valid bool, status models.ArtifactStatus) {
	m.Artifacts[id] = &models.ArtifactEntry{
		ArtifactType:   id,
		ProducedByStep: step,
		Status:         status,
		Valid:          valid,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestDerive_FreshManifestAllFalse(t *testing.T) {
	d := newTestDeriver()
	policy := d.Derive(newManifest())
	for flag, allowed := range policy {
		assert.False(t, allowed, "flag %s must be false on a fresh manifest", flag)
	}
}

func TestDerive_AllowReportConjunction(t *testing.T) {
	d := newTestDeriver()

	// Both conditions met: flag on.
	m := newManifest()
	succeed(m, config.StepExpositor)
	register(m, models.ArtifactFinalReport, config.StepExpositor, true, models.ArtifactSuccess)
	assert.True(t, d.Derive(m).Allows(models.FlagAllowReport))

	// Step success but artifact invalid: flag off.
	m = newManifest()
	succeed(m, config.StepExpositor)
	register(m, models.ArtifactFinalReport, config.StepExpositor, false, models.ArtifactSuccess)
	assert.False(t, d.Derive(m).Allows(models.FlagAllowReport))

	// Step success but artifact status failed: flag off.
	m = newManifest()
	succeed(m, config.StepExpositor)
	register(m, models.ArtifactFinalReport, config.StepExpositor, true, models.ArtifactFailed)
	assert.False(t, d.Derive(m).Allows(models.FlagAllowReport))

	// Artifact fine but step failed: flag off.
	m = newManifest()
	m.Steps[config.StepExpositor].Status = models.StepFailed
	register(m, models.ArtifactFinalReport, config.StepExpositor, true, models.ArtifactSuccess)
	assert.False(t, d.Derive(m).Allows(models.FlagAllowReport))
}

func TestDerive_RoutingGates(t *testing.T) {
	d := newTestDeriver()
	m := newManifest()
	succeed(m, config.StepRegression)
	register(m, models.ArtifactModelSummary, config.StepRegression, true, models.ArtifactSuccess)

	// Routing unset: capability gate does not apply.
	assert.True(t, d.Derive(m).Allows(models.FlagAllowRegressionSections))

	// Routing set without the capability: flag off.
	m.AnalysisAllowed = []string{"personas"}
	m.AnalysisSuppressed = map[string]string{"regression": "target column is constant"}
	assert.False(t, d.Derive(m).Allows(models.FlagAllowRegressionSections))

	// Capability admitted: flag on.
	m.AnalysisAllowed = []string{"regression"}
	assert.True(t, d.Derive(m).Allows(models.FlagAllowRegressionSections))
}

func TestDerive_SimulationRequiresBusinessIntelligence(t *testing.T) {
	d := newTestDeriver()
	m := newManifest()
	succeed(m, config.StepSimulator)
	register(m, models.ArtifactSimulationResults, config.StepSimulator, true, models.ArtifactSuccess)

	// Simulation evidence alone is not enough.
	assert.False(t, d.Derive(m).Allows(models.FlagAllowSimulation))

	succeed(m, config.StepBusinessAnalyzer)
	register(m, models.ArtifactBusinessInsights, config.StepBusinessAnalyzer, true, models.ArtifactSuccess)
	policy := d.Derive(m)
	assert.True(t, policy.Allows(models.FlagAllowBusinessIntelligence))
	assert.True(t, policy.Allows(models.FlagAllowSimulation))
}

func TestViewPolicies(t *testing.T) {
	d := newTestDeriver()
	m := newManifest()
	succeed(m, config.StepExpositor)
	register(m, models.ArtifactFinalReport, config.StepExpositor, true, models.ArtifactSuccess)
	succeed(m, config.StepTrustEvaluator)
	succeed(m, config.StepBusinessAnalyzer)
	register(m, models.ArtifactBusinessInsights, config.StepBusinessAnalyzer, true, models.ArtifactSuccess)

	policy := d.Derive(m)
	views := d.ViewPolicies(policy)

	analyst, ok := views[models.RoleAnalyst]
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"overview", "trust_summary", "business_intelligence"}, analyst.AllowedSections)
	assert.Equal(t, []string{"trust_summary"}, analyst.DefaultCollapsedSections)

	executive := views[models.RoleExecutive]
	assert.ElementsMatch(t, []string{"overview", "business_intelligence", "trust_summary"}, executive.AllowedSections)

	viewer := views[models.RoleViewer]
	assert.Equal(t, []string{"overview"}, viewer.AllowedSections)
	assert.Empty(t, viewer.DefaultCollapsedSections)
}

func TestViewPolicies_NeverWiden(t *testing.T) {
	d := newTestDeriver()
	policy := d.Derive(newManifest())
	for role, view := range d.ViewPolicies(policy) {
		assert.Empty(t, view.AllowedSections, "role %s must see nothing on a fresh run", role)
	}
}
