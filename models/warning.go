package models

// Severity grades a recorded warning
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is one of the closed set of severities
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Warning codes the trust model reacts to
const (
	WarnDataLeakagePossible   = "DATA_LEAKAGE_POSSIBLE"
	WarnMulticollinearityHigh = "MULTICOLLINEARITY_HIGH"
)

// WarningEntry is one deduplicated, severity-tagged issue recorded against a
// run. warning_code is the unique key; the first write wins.
type WarningEntry struct {
	WarningCode string   `json:"warning_code" validate:"required"`
	Severity    Severity `json:"severity" validate:"required,oneof=info low medium high critical"`
	Message     string   `json:"message"`
	RelatedStep string   `json:"related_step,omitempty"`
	Blocking    bool     `json:"blocking"`
}
