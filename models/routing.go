package models

// AnalysisRouting records which analysis capabilities the classification step
// admitted for this dataset, and why the rest were suppressed. A nil routing
// means classification has not run; render policy then ignores routing gates.
type AnalysisRouting struct {
	Allowed    []string          `json:"allowed"`
	Suppressed map[string]string `json:"suppressed"`
}

// Permits reports whether the named capability was admitted
func (r *AnalysisRouting) Permits(capability string) bool {
	if r == nil {
		return true
	}
	for _, c := range r.Allowed {
		if c == capability {
			return true
		}
	}
	return false
}
