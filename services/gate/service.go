// Package gate implements the per-agent admission check run before any
// analytics agent does work. Every condition is evaluated; nothing
// short-circuits, so a blocked decision carries the full set of reasons.
package gate

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
	"github.com/jashshah854-a11y/ACE-V4-sub001/services/run"
	"github.com/jashshah854-a11y/ACE-V4-sub001/store"
)

// ConfidenceCutoff is the hard admission floor on the upstream confidence
// score. At or below it, every agent is blocked.
const ConfidenceCutoff = 0.2

// Service evaluates agent admission against the run's governance documents
type Service struct {
	store  *store.Store
	logger *zap.Logger
}

// NewService creates a gate Service
func NewService(st *store.Store, logger *zap.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// ShouldRun decides whether the named agent may run. The decision is data,
// never an error: a blocked agent is a normal governance outcome.
func (s *Service) ShouldRun(runID, agent string) (*models.GateDecision, error) {
	m, err := s.store.Read(runID)
	if err != nil {
		return nil, err
	}

	var reasons []string

	if card := m.Artifact(models.ArtifactDatasetIdentityCard); card == nil || !card.Usable() {
		reasons = append(reasons, "dataset identity card missing or unusable")
	}

	if contract := s.loadContract(runID, agent); contract != nil {
		if overlap := contract.OverlappingSections(); len(overlap) > 0 {
			reasons = append(reasons, fmt.Sprintf(
				"task contract conflict: sections both required and forbidden: %s",
				strings.Join(overlap, ", ")))
		}
	}

	if report := s.loadValidation(runID); report != nil && report.Blocks(agent) {
		if report.Mode == models.ValidationModeBlocked {
			reasons = append(reasons, "validation mode is blocked")
		} else {
			reasons = append(reasons, fmt.Sprintf("agent %s is on the validation block list", agent))
		}
	}

	if conf := s.loadConfidence(runID); conf != nil {
		if conf.Score <= ConfidenceCutoff {
			reasons = append(reasons, fmt.Sprintf("confidence score %.2f at or below cutoff %.2f", conf.Score, ConfidenceCutoff))
		}
		if strings.EqualFold(conf.Label, "low") {
			reasons = append(reasons, "confidence label is low")
		}
	}

	decision := &models.GateDecision{
		Agent:   agent,
		Blocked: len(reasons) > 0,
		Reason:  strings.Join(reasons, "; "),
	}
	s.logger.Info("governance gate decision",
		zap.String("run_id", runID),
		zap.String("agent", agent),
		zap.Bool("blocked", decision.Blocked),
		zap.String("reason", decision.Reason))
	return decision, nil
}

// loadContract returns the agent's task contract, or nil when none is on file
func (s *Service) loadContract(runID, agent string) *models.TaskContract {
	var contracts map[string]*models.TaskContract
	if err := s.store.ReadGovernanceDoc(runID, run.DocTaskContracts, &contracts); err != nil {
		s.warnUnlessMissing(runID, run.DocTaskContracts, err)
		return nil
	}
	c := contracts[agent]
	if c != nil && c.Agent == "" {
		c.Agent = agent
	}
	return c
}

func (s *Service) loadValidation(runID string) *models.ValidationReport {
	var report models.ValidationReport
	if err := s.store.ReadGovernanceDoc(runID, run.DocValidationReport, &report); err != nil {
		s.warnUnlessMissing(runID, run.DocValidationReport, err)
		return nil
	}
	return &report
}

func (s *Service) loadConfidence(runID string) *models.ConfidenceReport {
	var report models.ConfidenceReport
	if err := s.store.ReadGovernanceDoc(runID, run.DocConfidenceReport, &report); err != nil {
		s.warnUnlessMissing(runID, run.DocConfidenceReport, err)
		return nil
	}
	return &report
}

func (s *Service) warnUnlessMissing(runID, doc string, err error) {
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	s.logger.Warn("failed to load governance document",
		zap.String("run_id", runID),
		zap.String("document", doc),
		zap.Error(err))
}
