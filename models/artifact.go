package models

import "time"

// ArtifactStatus represents the recorded outcome of producing an artifact
type ArtifactStatus string

const (
	ArtifactSuccess ArtifactStatus = "success"
	ArtifactFailed  ArtifactStatus = "failed"
	ArtifactPartial ArtifactStatus = "partial"
)

// Valid reports whether s is one of the closed set of artifact states
func (s ArtifactStatus) Valid() bool {
	switch s {
	case ArtifactSuccess, ArtifactFailed, ArtifactPartial:
		return true
	}
	return false
}

// Well-known artifact identifiers consumed by trust scoring and render policy
const (
	ArtifactDatasetIdentityCard = "dataset_identity_card"
	ArtifactQualityMetrics      = "quality_metrics"
	ArtifactDataProfile         = "data_profile"
	ArtifactModelSummary        = "model_summary"
	ArtifactFeatureImportance   = "feature_importance"
	ArtifactCorrelationMatrix   = "correlation_matrix"
	ArtifactFinalReport         = "final_report"
	ArtifactPersonaProfiles     = "persona_profiles"
	ArtifactSimulationResults   = "simulation_results"
	ArtifactBusinessInsights    = "business_insights"
)

// ArtifactEntry records one pipeline output's provenance and the producing
// agent's validity verdict. The engine never inspects artifact content.
type ArtifactEntry struct {
	ArtifactType       string         `json:"artifact_type" validate:"required"`
	ProducedByStep     string         `json:"produced_by_step" validate:"required"`
	Status             ArtifactStatus `json:"status" validate:"required,oneof=success failed partial"`
	Valid              bool           `json:"valid"`
	ValidationErrors   []string       `json:"validation_errors"`
	ValidationWarnings []string       `json:"validation_warnings"`
	InputFingerprint   string         `json:"input_fingerprint"`
	CreatedAt          time.Time      `json:"created_at"`
}

// Usable reports whether the artifact may back a render-policy flag:
// the caller's verdict was valid and the producing agent finished cleanly.
func (a *ArtifactEntry) Usable() bool {
	return a.Valid && a.Status == ArtifactSuccess
}
