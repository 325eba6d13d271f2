package models

import "time"

// ManifestVersion is the wire-contract version stamped into every manifest
const ManifestVersion = "4.0"

// Manifest is the single durable record of one run: step lifecycle, artifact
// provenance, warnings, derived trust and render policy. It is mutated only
// through a read-entire-document, mutate, atomic-replace cycle and becomes
// immutable once sealed.
type Manifest struct {
	ManifestVersion    string                    `json:"manifest_version" validate:"required"`
	RunID              string                    `json:"run_id" validate:"required"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
	PipelineVersion    string                    `json:"pipeline_version"`
	CodeCommitHash     string                    `json:"code_commit_hash"`
	DatasetFingerprint string                    `json:"dataset_fingerprint"`
	Steps              map[string]*StepEntry     `json:"steps" validate:"required,dive"`
	Artifacts          map[string]*ArtifactEntry `json:"artifacts" validate:"dive"`
	Warnings           []WarningEntry            `json:"warnings" validate:"dive"`
	Trust              *TrustResult              `json:"trust,omitempty"`
	// Routing fields stay omitted until classification runs. Routing()
	// reads absence as "permit everything" and an empty allowed list as
	// "suppress everything", so the omitempty encoding is load-bearing.
	AnalysisAllowed    []string              `json:"analysis_allowed,omitempty"`
	AnalysisSuppressed map[string]string     `json:"analysis_suppressed,omitempty"`
	RenderPolicy       RenderPolicy          `json:"render_policy"`
	ViewPolicies       map[string]ViewPolicy `json:"view_policies,omitempty"`
	SealedAt           *time.Time            `json:"sealed_at,omitempty"`
	SealReason         string                `json:"seal_reason,omitempty"`
}

// NewManifest creates the run record with every known step not_started and
// empty collections.
func NewManifest(runID, datasetFingerprint, pipelineVersion, commitHash string, stepNames []string) *Manifest {
	now := time.Now().UTC()
	steps := make(map[string]*StepEntry, len(stepNames))
	for _, name := range stepNames {
		steps[name] = NewStepEntry()
	}
	return &Manifest{
		ManifestVersion:    ManifestVersion,
		RunID:              runID,
		CreatedAt:          now,
		UpdatedAt:          now,
		PipelineVersion:    pipelineVersion,
		CodeCommitHash:     commitHash,
		DatasetFingerprint: datasetFingerprint,
		Steps:              steps,
		Artifacts:          make(map[string]*ArtifactEntry),
		Warnings:           make([]WarningEntry, 0),
		RenderPolicy:       make(RenderPolicy),
	}
}

// Sealed reports whether the embedded seal field is set. The store also
// consults the independent seal-marker file; this only covers the document.
func (m *Manifest) Sealed() bool {
	return m.SealedAt != nil
}

// Step returns the named step entry, or nil if the pipeline never declared it
func (m *Manifest) Step(name string) *StepEntry {
	return m.Steps[name]
}

// StepStatusOf returns the step's status, or not_started for unknown names
func (m *Manifest) StepStatusOf(name string) StepStatus {
	if s := m.Steps[name]; s != nil {
		return s.Status
	}
	return StepNotStarted
}

// Artifact returns the artifact entry by id, or nil
func (m *Manifest) Artifact(id string) *ArtifactEntry {
	return m.Artifacts[id]
}

// HasWarning reports whether a warning with the given code is recorded
func (m *Manifest) HasWarning(code string) bool {
	return m.Warning(code) != nil
}

// Warning returns the warning with the given code, or nil
func (m *Manifest) Warning(code string) *WarningEntry {
	for i := range m.Warnings {
		if m.Warnings[i].WarningCode == code {
			return &m.Warnings[i]
		}
	}
	return nil
}

// Routing returns the analysis routing surface, or nil when classification
// has not populated it yet.
func (m *Manifest) Routing() *AnalysisRouting {
	if m.AnalysisAllowed == nil && m.AnalysisSuppressed == nil {
		return nil
	}
	return &AnalysisRouting{Allowed: m.AnalysisAllowed, Suppressed: m.AnalysisSuppressed}
}

// Touch bumps updated_at
func (m *Manifest) Touch() {
	m.UpdatedAt = time.Now().UTC()
}
