// Package invariants audits a whole manifest against a fixed registry of
// structural consistency rules. The checker is a post-hoc reporter: it never
// mutates state and never blocks the run it inspects.
package invariants

import (
	"fmt"
	"strings"

	"github.com/jashshah854-a11y/ACE-V4-sub001/config"
	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
)

// metricBoundsPrefix marks caller-supplied validation errors for metrics that
// fell outside their allowed range. Such an error must never coexist with a
// valid=true verdict.
const metricBoundsPrefix = "METRIC_OUT_OF_BOUNDS"

// check is one registered invariant: a pure function over the full manifest
type check struct {
	id string
	fn func(*Checker, *models.Manifest) []models.Violation
}

// Checker runs the registry in fixed order
type Checker struct {
	pipeline *config.Pipeline
	registry []check
}

// NewChecker creates a Checker bound to the pipeline catalog (needed to
// resolve render-flag artifact requirements).
func NewChecker(pipeline *config.Pipeline) *Checker {
	c := &Checker{pipeline: pipeline}
	c.registry = []check{
		{models.InvArtifactStepSuccess, (*Checker).artifactStepSuccess},
		{models.InvArtifactValidStatus, (*Checker).artifactValidStatus},
		{models.InvMetricBoundsEnforced, (*Checker).metricBoundsEnforced},
		{models.InvTrustStepConsistency, (*Checker).trustStepConsistency},
		{models.InvRoutingPopulated, (*Checker).routingPopulated},
		{models.InvRenderPolicyArtifacts, (*Checker).renderPolicyArtifacts},
	}
	return c
}

// Run evaluates every registered invariant against the manifest
func (c *Checker) Run(m *models.Manifest) *models.InvariantReport {
	violations := make([]models.Violation, 0)
	for _, chk := range c.registry {
		violations = append(violations, chk.fn(c, m)...)
	}
	return &models.InvariantReport{
		OK:         len(violations) == 0,
		Violations: violations,
	}
}

// artifactStepSuccess: no artifact may reference a producing step that is not
// success or running.
func (c *Checker) artifactStepSuccess(m *models.Manifest) []models.Violation {
	var out []models.Violation
	for id, a := range m.Artifacts {
		status := m.StepStatusOf(a.ProducedByStep)
		if status == models.StepSuccess || status == models.StepRunning {
			continue
		}
		out = append(out, models.Violation{
			InvariantID: models.InvArtifactStepSuccess,
			Severity:    models.SeverityHigh,
			Description: fmt.Sprintf("artifact %s produced by step %s with status %s", id, a.ProducedByStep, status),
			Details: map[string]any{
				"artifact_id": id,
				"step":        a.ProducedByStep,
				"step_status": string(status),
			},
		})
	}
	return out
}

// artifactValidStatus: valid=true requires artifact status success
func (c *Checker) artifactValidStatus(m *models.Manifest) []models.Violation {
	var out []models.Violation
	for id, a := range m.Artifacts {
		if !a.Valid || a.Status == models.ArtifactSuccess {
			continue
		}
		out = append(out, models.Violation{
			InvariantID: models.InvArtifactValidStatus,
			Severity:    models.SeverityHigh,
			Description: fmt.Sprintf("artifact %s is valid=true but status=%s", id, a.Status),
			Details:     map[string]any{"artifact_id": id, "status": string(a.Status)},
		})
	}
	return out
}

// metricBoundsEnforced: an out-of-bounds metric validation error must never
// be tolerated by a valid=true verdict.
func (c *Checker) metricBoundsEnforced(m *models.Manifest) []models.Violation {
	var out []models.Violation
	for id, a := range m.Artifacts {
		if !a.Valid {
			continue
		}
		for _, e := range a.ValidationErrors {
			if !strings.HasPrefix(e, metricBoundsPrefix) {
				continue
			}
			out = append(out, models.Violation{
				InvariantID: models.InvMetricBoundsEnforced,
				Severity:    models.SeverityMedium,
				Description: fmt.Sprintf("artifact %s tolerates out-of-bounds metric error %q", id, e),
				Details:     map[string]any{"artifact_id": id, "validation_error": e},
			})
		}
	}
	return out
}

// trustStepConsistency: a trust result is present exactly when the
// trust-evaluation step is success.
func (c *Checker) trustStepConsistency(m *models.Manifest) []models.Violation {
	stepOK := m.StepStatusOf(config.StepTrustEvaluator) == models.StepSuccess
	hasTrust := m.Trust != nil
	if stepOK == hasTrust {
		return nil
	}
	return []models.Violation{{
		InvariantID: models.InvTrustStepConsistency,
		Severity:    models.SeverityHigh,
		Description: fmt.Sprintf("trust present=%t but trust evaluation step success=%t", hasTrust, stepOK),
		Details: map[string]any{
			"trust_present": hasTrust,
			"step_status":   string(m.StepStatusOf(config.StepTrustEvaluator)),
		},
	}}
}

// routingPopulated: once classification succeeds the routing fields must be set
func (c *Checker) routingPopulated(m *models.Manifest) []models.Violation {
	if m.StepStatusOf(config.StepClassifier) != models.StepSuccess {
		return nil
	}
	if m.AnalysisAllowed != nil && m.AnalysisSuppressed != nil {
		return nil
	}
	return []models.Violation{{
		InvariantID: models.InvRoutingPopulated,
		Severity:    models.SeverityMedium,
		Description: "classification succeeded but analysis routing is not populated",
		Details: map[string]any{
			"analysis_allowed_set":    m.AnalysisAllowed != nil,
			"analysis_suppressed_set": m.AnalysisSuppressed != nil,
		},
	}}
}

// renderPolicyArtifacts: every true flag's required artifacts must all be
// valid and success.
func (c *Checker) renderPolicyArtifacts(m *models.Manifest) []models.Violation {
	var out []models.Violation
	for _, rule := range c.pipeline.Flags {
		if !m.RenderPolicy.Allows(rule.Flag) {
			continue
		}
		for _, id := range rule.Artifacts {
			a := m.Artifact(id)
			if a != nil && a.Usable() {
				continue
			}
			out = append(out, models.Violation{
				InvariantID: models.InvRenderPolicyArtifacts,
				Severity:    models.SeverityCritical,
				Description: fmt.Sprintf("flag %s is enabled but required artifact %s is not usable", rule.Flag, id),
				Details:     map[string]any{"flag": rule.Flag, "artifact_id": id},
			})
		}
	}
	return out
}
