package models

// TrustStatus labels one trust dimension
type TrustStatus string

const (
	TrustHigh    TrustStatus = "high"
	TrustMedium  TrustStatus = "medium"
	TrustLow     TrustStatus = "low"
	TrustUnknown TrustStatus = "unknown"
)

// Trust component names
const (
	ComponentDataQuality        = "data_quality"
	ComponentModelFit           = "model_fit"
	ComponentStability          = "stability"
	ComponentValidationStrength = "validation_strength"
	ComponentLeakageRisk        = "leakage_risk"
)

// TrustComponent is one scored dimension of run confidence. Score is nil when
// the dimension could not be evaluated (status unknown).
type TrustComponent struct {
	Name     string      `json:"name"`
	Score    *float64    `json:"score,omitempty"`
	Status   TrustStatus `json:"status"`
	Evidence []string    `json:"evidence"`
	Notes    string      `json:"notes,omitempty"`
}

// Known reports whether the component carries a usable score
func (c *TrustComponent) Known() bool {
	return c.Score != nil && c.Status != TrustUnknown
}

// AppliedCap records one hard ceiling that constrained the overall score
type AppliedCap struct {
	Code   string  `json:"code"`
	Max    float64 `json:"max"`
	Reason string  `json:"reason,omitempty"`
}

// TrustResult is the full derivation of a run's confidence: every component,
// every cap that fired, and the final clamped score. No score is surfaced
// without this trail.
type TrustResult struct {
	OverallConfidence float64                    `json:"overall_confidence"`
	Components        map[string]*TrustComponent `json:"components"`
	AppliedCaps       []AppliedCap               `json:"applied_caps"`
}

// Component returns the named component, or nil if absent
func (t *TrustResult) Component(name string) *TrustComponent {
	if t == nil {
		return nil
	}
	return t.Components[name]
}

// UnknownCount returns how many components could not be evaluated
func (t *TrustResult) UnknownCount() int {
	n := 0
	for _, c := range t.Components {
		if !c.Known() {
			n++
		}
	}
	return n
}

// Float64Ptr returns a pointer to v, for optional score fields
func Float64Ptr(v float64) *float64 {
	return &v
}
