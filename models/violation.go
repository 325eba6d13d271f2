package models

// Invariant identifiers, in registry order
const (
	InvArtifactStepSuccess   = "artifact_step_success"
	InvArtifactValidStatus   = "artifact_valid_status"
	InvMetricBoundsEnforced  = "metric_bounds_enforced"
	InvTrustStepConsistency  = "trust_step_consistency"
	InvRoutingPopulated      = "routing_populated"
	InvRenderPolicyArtifacts = "render_policy_artifacts"
)

// Violation is one structural inconsistency found by the invariant checker.
// The checker only reports; it never blocks or mutates the run it inspects.
type Violation struct {
	InvariantID string         `json:"invariant_id"`
	Severity    Severity       `json:"severity"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details,omitempty"`
}

// InvariantReport is the checker's full output for one manifest
type InvariantReport struct {
	OK         bool        `json:"ok"`
	Violations []Violation `json:"violations"`
}
