// Package trust derives the run confidence score. Aggregation is conjunctive:
// each known component contributes its weighted score and the overall
// confidence is the minimum contribution, clamped by ordered hard caps. The
// full derivation (component scores, evidence, every applied cap) is retained.
package trust

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/jashshah854-a11y/ACE-V4-sub001/config"
	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
)

// Cap codes, in application order (strictly decreasing maxima)
const (
	CapLeakageRiskHigh    = "LEAKAGE_RISK_HIGH"
	CapModelingIncomplete = "MODELING_INCOMPLETE"
	CapStabilityLow       = "STABILITY_LOW"
	CapUnknownComponents  = "UNKNOWN_COMPONENTS"
)

// Weights carries the per-component aggregation weights. Leakage risk is a
// risk, not a strength: its contribution is 100 - weight*score.
type Weights struct {
	DataQuality        float64
	ModelFit           float64
	Stability          float64
	ValidationStrength float64
	LeakageRisk        float64
}

// DefaultWeights returns the production weight set
func DefaultWeights() Weights {
	return Weights{
		DataQuality:        1.0,
		ModelFit:           1.0,
		Stability:          1.0,
		ValidationStrength: 1.0,
		LeakageRisk:        0.5,
	}
}

// Inputs is the fixed snapshot the model computes from. Compute is pure:
// identical Inputs yield identical TrustResults.
type Inputs struct {
	Manifest   *models.Manifest
	Profile    *models.DataProfile      // nil when profiling has not produced one
	Validation *models.ValidationReport // nil when absent
}

// Service computes trust results from manifest snapshots
type Service struct {
	weights Weights
	logger  *zap.Logger
}

// NewService creates a trust Service with the given weights
func NewService(weights Weights, logger *zap.Logger) *Service {
	return &Service{weights: weights, logger: logger}
}

// Compute derives the five trust components and the capped overall score
func (s *Service) Compute(in Inputs) *models.TrustResult {
	m := in.Manifest

	dataQuality := s.dataQuality(m, in.Profile)
	components := map[string]*models.TrustComponent{
		models.ComponentDataQuality:        dataQuality,
		models.ComponentModelFit:           s.modelFit(m),
		models.ComponentStability:          s.stability(m, in.Profile),
		models.ComponentValidationStrength: s.validationStrength(m, in.Validation, dataQuality),
		models.ComponentLeakageRisk:        s.leakageRisk(m),
	}

	result := &models.TrustResult{
		Components:  components,
		AppliedCaps: make([]models.AppliedCap, 0),
	}

	overall := s.aggregate(components)
	overall = s.applyCaps(result, m, components, overall)
	result.OverallConfidence = clamp(overall, 0, 100)

	s.logger.Debug("computed trust",
		zap.String("run_id", m.RunID),
		zap.Float64("overall_confidence", result.OverallConfidence),
		zap.Int("applied_caps", len(result.AppliedCaps)))
	return result
}

// aggregate takes the minimum weighted contribution across known components.
// Unknown components do not contribute here; they are handled by caps.
func (s *Service) aggregate(components map[string]*models.TrustComponent) float64 {
	overall := 100.0
	for name, c := range components {
		if !c.Known() {
			continue
		}
		var contribution float64
		switch name {
		case models.ComponentDataQuality:
			contribution = s.weights.DataQuality * *c.Score
		case models.ComponentModelFit:
			contribution = s.weights.ModelFit * *c.Score
		case models.ComponentStability:
			contribution = s.weights.Stability * *c.Score
		case models.ComponentValidationStrength:
			contribution = s.weights.ValidationStrength * *c.Score
		case models.ComponentLeakageRisk:
			contribution = 100 - s.weights.LeakageRisk**c.Score
		}
		overall = math.Min(overall, contribution)
	}
	return overall
}

// applyCaps clamps overall by every triggered hard cap and records each one
func (s *Service) applyCaps(result *models.TrustResult, m *models.Manifest, components map[string]*models.TrustComponent, overall float64) float64 {
	apply := func(code string, max float64, reason string) {
		result.AppliedCaps = append(result.AppliedCaps, models.AppliedCap{Code: code, Max: max, Reason: reason})
		overall = math.Min(overall, max)
	}

	if lr := components[models.ComponentLeakageRisk]; lr.Status == models.TrustHigh {
		apply(CapLeakageRiskHigh, 40, "possible data leakage flagged as blocking or critical")
	}
	if m.StepStatusOf(config.StepRegression) != models.StepSuccess {
		apply(CapModelingIncomplete, 50, "modeling step did not complete successfully")
	}
	if st := components[models.ComponentStability]; st.Known() && st.Status == models.TrustLow {
		apply(CapStabilityLow, 60, "stability diagnostics indicate low robustness")
	}
	unknown := 0
	for _, c := range components {
		if !c.Known() {
			unknown++
		}
	}
	switch {
	case unknown >= 2:
		apply(CapUnknownComponents, 50, fmt.Sprintf("%d trust components could not be evaluated", unknown))
	case unknown == 1:
		apply(CapUnknownComponents, 60, "one trust component could not be evaluated")
	}
	return overall
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
