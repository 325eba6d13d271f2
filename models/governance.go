package models

// TaskContract declares, per agent, which report sections it must produce and
// which it must never touch. An overlap between the two is a contract defect
// that blocks the agent.
type TaskContract struct {
	Agent             string   `json:"agent"`
	RequiredSections  []string `json:"required_sections"`
	ForbiddenSections []string `json:"forbidden_sections"`
}

// OverlappingSections returns every section listed as both required and
// forbidden.
func (c *TaskContract) OverlappingSections() []string {
	forbidden := make(map[string]struct{}, len(c.ForbiddenSections))
	for _, s := range c.ForbiddenSections {
		forbidden[s] = struct{}{}
	}
	var overlap []string
	for _, s := range c.RequiredSections {
		if _, ok := forbidden[s]; ok {
			overlap = append(overlap, s)
		}
	}
	return overlap
}

// ValidationReport is the dataset-validation verdict consumed by the gate
type ValidationReport struct {
	Mode          string   `json:"mode"` // full, limitations, blocked
	BlockedAgents []string `json:"blocked_agents"`
	Passed        bool     `json:"passed"`
}

// Validation modes
const (
	ValidationModeFull        = "full"
	ValidationModeLimitations = "limitations"
	ValidationModeBlocked     = "blocked"
)

// Blocks reports whether the validation verdict names the agent
func (r *ValidationReport) Blocks(agent string) bool {
	if r.Mode == ValidationModeBlocked {
		return true
	}
	for _, a := range r.BlockedAgents {
		if a == agent {
			return true
		}
	}
	return false
}

// ConfidenceReport is the upstream confidence summary consumed by the gate.
// Score is on [0,1]; Label is the coarse bucket.
type ConfidenceReport struct {
	Score float64 `json:"score"`
	Label string  `json:"label"` // high, medium, low
}

// GateDecision is the governance gate's admission verdict for one agent.
// Reason concatenates every triggering condition.
type GateDecision struct {
	Agent   string `json:"agent"`
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason,omitempty"`
}
