// Package run is the single mutation façade over a run's manifest: step
// tracking, artifact registration, the warning ledger, routing and sealing.
// Every mutation re-derives trust and render policy from scratch before the
// document is atomically replaced.
package run

import (
	"context"
	"errors"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/jashshah854-a11y/ACE-V4-sub001/config"
	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
	"github.com/jashshah854-a11y/ACE-V4-sub001/repositories"
	"github.com/jashshah854-a11y/ACE-V4-sub001/services/render"
	"github.com/jashshah854-a11y/ACE-V4-sub001/services/trust"
	"github.com/jashshah854-a11y/ACE-V4-sub001/store"
)

// Governance document file names within a run directory
const (
	DocDataProfile      = "data_profile.json"
	DocValidationReport = "validation_report.json"
	DocConfidenceReport = "confidence_report.json"
	DocTaskContracts    = "task_contracts.json"
)

// Service coordinates all manifest mutation for runs
type Service struct {
	store    *store.Store
	trust    *trust.Service
	render   *render.Deriver
	pipeline *config.Pipeline
	runIndex repositories.RunIndexRepository // nil when the index is disabled
	logger   *zap.Logger
}

// NewService creates the run Service. runIndex may be nil.
func NewService(st *store.Store, ts *trust.Service, rd *render.Deriver, pipeline *config.Pipeline, runIndex repositories.RunIndexRepository, logger *zap.Logger) *Service {
	return &Service{
		store:    st,
		trust:    ts,
		render:   rd,
		pipeline: pipeline,
		runIndex: runIndex,
		logger:   logger,
	}
}

// Initialize creates the run manifest with every catalog step not_started and
// derives the initial (all-false) render policy.
func (s *Service) Initialize(runID, datasetFingerprint, pipelineVersion, commitHash string) (*models.Manifest, error) {
	if _, err := s.store.Initialize(runID, datasetFingerprint, pipelineVersion, commitHash, s.pipeline.Steps); err != nil {
		return nil, err
	}
	if err := s.mutate(runID, func(m *models.Manifest) error { return nil }); err != nil {
		return nil, err
	}
	return s.store.Read(runID)
}

// Get returns the current manifest document
func (s *Service) Get(runID string) (*models.Manifest, error) {
	return s.store.Read(runID)
}

// UpdateStepStatus records a step lifecycle transition. Terminal states never
// transition again; setting running stamps started_at only once. Error code
// and message are recorded only for failures. On a sealed run this is a
// silent no-op.
func (s *Service) UpdateStepStatus(runID, stepName string, status models.StepStatus, errorCode, errorMessage string) error {
	return s.mutate(runID, func(m *models.Manifest) error {
		entry := m.Step(stepName)
		if entry == nil {
			// A producer for a step the catalog never declared. Record it
			// rather than lose lifecycle history.
			s.logger.Warn("step not declared by pipeline catalog",
				zap.String("run_id", runID),
				zap.String("step", stepName))
			entry = models.NewStepEntry()
			m.Steps[stepName] = entry
		}
		if entry.Status.Terminal() {
			s.logger.Debug("ignoring transition from terminal step state",
				zap.String("run_id", runID),
				zap.String("step", stepName),
				zap.String("from", string(entry.Status)),
				zap.String("to", string(status)))
			return nil
		}

		now := time.Now().UTC()
		entry.Status = status
		switch {
		case status == models.StepRunning:
			if entry.StartedAt == nil {
				entry.StartedAt = &now
			}
		case status.Terminal():
			entry.EndedAt = &now
			if status == models.StepFailed {
				entry.ErrorCode = errorCode
				entry.ErrorMessage = errorMessage
			}
		}
		return nil
	})
}

// ArtifactParams carries the producing agent's verdict for registration
type ArtifactParams struct {
	ArtifactType       string
	ProducedByStep     string
	Status             models.ArtifactStatus
	Valid              bool
	ValidationErrors   []string
	ValidationWarnings []string
	InputFingerprint   string
}

// RegisterArtifact creates or overwrites an artifact entry. The engine
// records the caller's validity verdict; it never inspects content.
func (s *Service) RegisterArtifact(runID, artifactID string, p ArtifactParams) error {
	return s.mutate(runID, func(m *models.Manifest) error {
		m.Artifacts[artifactID] = &models.ArtifactEntry{
			ArtifactType:       p.ArtifactType,
			ProducedByStep:     p.ProducedByStep,
			Status:             p.Status,
			Valid:              p.Valid,
			ValidationErrors:   orEmpty(p.ValidationErrors),
			ValidationWarnings: orEmpty(p.ValidationWarnings),
			InputFingerprint:   p.InputFingerprint,
			CreatedAt:          time.Now().UTC(),
		}
		return nil
	})
}

// RemoveArtifact deletes an artifact entry, used when an output is
// superseded. Render policy is recomputed as with every mutation.
func (s *Service) RemoveArtifact(runID, artifactID string) error {
	return s.mutate(runID, func(m *models.Manifest) error {
		delete(m.Artifacts, artifactID)
		return nil
	})
}

// AddWarning records a warning once. A repeated code is a no-op: warnings are
// facts about a run, not counters.
func (s *Service) AddWarning(runID, code string, severity models.Severity, message, relatedStep string, blocking bool) error {
	return s.mutate(runID, func(m *models.Manifest) error {
		if m.HasWarning(code) {
			return nil
		}
		m.Warnings = append(m.Warnings, models.WarningEntry{
			WarningCode: code,
			Severity:    severity,
			Message:     message,
			RelatedStep: relatedStep,
			Blocking:    blocking,
		})
		return nil
	})
}

// SetRouting stores the classification step's capability routing
func (s *Service) SetRouting(runID string, allowed []string, suppressed map[string]string) error {
	return s.mutate(runID, func(m *models.Manifest) error {
		m.AnalysisAllowed = orEmpty(allowed)
		if suppressed == nil {
			suppressed = map[string]string{}
		}
		m.AnalysisSuppressed = suppressed
		return nil
	})
}

// Seal marks the run terminal. Idempotent; every later mutation becomes a
// silent no-op. When a run index is configured the sealed summary is
// recorded there; an index failure is logged but never blocks the seal.
func (s *Service) Seal(ctx context.Context, runID, reason string) error {
	mark, err := s.store.Seal(runID, reason)
	if err != nil {
		return err
	}
	if s.runIndex == nil {
		return nil
	}
	m, err := s.store.Read(runID)
	if err != nil {
		return err
	}
	summary := &repositories.SealedRun{
		RunID:              runID,
		SealedAt:           mark.SealedAt,
		SealReason:         mark.Reason,
		DatasetFingerprint: m.DatasetFingerprint,
	}
	if m.Trust != nil {
		summary.OverallConfidence = &m.Trust.OverallConfidence
	}
	if err := s.runIndex.Record(ctx, summary); err != nil {
		s.logger.Error("failed to record sealed run in index",
			zap.String("run_id", runID),
			zap.Error(err))
	}
	return nil
}

// mutate wraps the store's read-modify-replace cycle with the recompute
// lifecycle: after the caller's edit, trust, render policy and view policies
// are re-derived from scratch.
func (s *Service) mutate(runID string, fn func(*models.Manifest) error) error {
	return s.store.Mutate(runID, func(m *models.Manifest) error {
		if err := fn(m); err != nil {
			return err
		}
		s.recompute(runID, m)
		return nil
	})
}

// recompute re-derives every derived surface on the document. Trust is
// present only while the trust-evaluation step is success.
func (s *Service) recompute(runID string, m *models.Manifest) {
	if m.StepStatusOf(config.StepTrustEvaluator) == models.StepSuccess {
		m.Trust = s.trust.Compute(trust.Inputs{
			Manifest:   m,
			Profile:    s.loadProfile(runID, m),
			Validation: s.loadValidation(runID),
		})
	} else {
		m.Trust = nil
	}
	m.RenderPolicy = s.render.Derive(m)
	m.ViewPolicies = s.render.ViewPolicies(m.RenderPolicy)
}

// ComputeTrust derives trust for the current snapshot without mutating the
// manifest. Used by the inspector and the CLI.
func (s *Service) ComputeTrust(runID string) (*models.TrustResult, error) {
	m, err := s.store.Read(runID)
	if err != nil {
		return nil, err
	}
	return s.trust.Compute(trust.Inputs{
		Manifest:   m,
		Profile:    s.loadProfile(runID, m),
		Validation: s.loadValidation(runID),
	}), nil
}

// loadProfile reads the data profile document when the profiling artifact is
// registered and usable
func (s *Service) loadProfile(runID string, m *models.Manifest) *models.DataProfile {
	a := m.Artifact(models.ArtifactDataProfile)
	if a == nil || !a.Usable() {
		return nil
	}
	var profile models.DataProfile
	if err := s.store.ReadGovernanceDoc(runID, DocDataProfile, &profile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to load data profile",
				zap.String("run_id", runID),
				zap.Error(err))
		}
		return nil
	}
	return &profile
}

func (s *Service) loadValidation(runID string) *models.ValidationReport {
	var report models.ValidationReport
	if err := s.store.ReadGovernanceDoc(runID, DocValidationReport, &report); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to load validation report",
				zap.String("run_id", runID),
				zap.Error(err))
		}
		return nil
	}
	return &report
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
