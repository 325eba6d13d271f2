package models

// Render-policy flag names. Every flag defaults to false and is enabled only
// on full evidence (producing step success plus every required artifact
// valid and success).
const (
	FlagAllowReport               = "allow_report"
	FlagAllowRegressionSections   = "allow_regression_sections"
	FlagAllowPersonas             = "allow_personas"
	FlagAllowTrustSummary         = "allow_trust_summary"
	FlagAllowSimulation           = "allow_simulation"
	FlagAllowBusinessIntelligence = "allow_business_intelligence"
	FlagAllowAnomalySections      = "allow_anomaly_sections"
)

// RenderPolicy maps flag name to whether the report section may be shown
type RenderPolicy map[string]bool

// Allows reports the value of a flag, treating absence as false
func (p RenderPolicy) Allows(flag string) bool {
	return p[flag]
}

// ViewPolicy restricts sections per consumer role
type ViewPolicy struct {
	AllowedSections          []string `json:"allowed_sections"`
	DefaultCollapsedSections []string `json:"default_collapsed_sections"`
}

// Consumer roles for view policies
const (
	RoleAnalyst   = "analyst"
	RoleExecutive = "executive"
	RoleViewer    = "viewer"
)
