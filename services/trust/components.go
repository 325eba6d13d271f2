package trust

import (
	"fmt"
	"math"

	"github.com/jashshah854-a11y/ACE-V4-sub001/config"
	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
)

// dataQuality scores the dataset itself. Base 70 once validation succeeds,
// 80 when the quality-metrics artifact is valid, full profile-based recompute
// when a data profile is available.
func (s *Service) dataQuality(m *models.Manifest, profile *models.DataProfile) *models.TrustComponent {
	c := &models.TrustComponent{Name: models.ComponentDataQuality, Evidence: []string{}}

	if profile != nil {
		score := profileQualityScore(profile)
		c.Score = models.Float64Ptr(score)
		c.Status = strengthStatus(score)
		c.Evidence = append(c.Evidence,
			evStep(config.StepProfiler, m),
			fmt.Sprintf("profile:rows=%d missing=%.3f constant_columns=%d", profile.RowCount, profile.MissingCellRatio, profile.ConstantColumns))
		c.Notes = "recomputed from data profile"
		return c
	}

	if m.StepStatusOf(config.StepValidator) != models.StepSuccess {
		c.Status = models.TrustUnknown
		c.Notes = "validation has not succeeded"
		return c
	}

	score := 70.0
	c.Evidence = append(c.Evidence, evStep(config.StepValidator, m))
	if qm := m.Artifact(models.ArtifactQualityMetrics); qm != nil && qm.Usable() {
		score = 80.0
		c.Evidence = append(c.Evidence, evArtifact(models.ArtifactQualityMetrics, qm))
	}
	c.Score = models.Float64Ptr(score)
	c.Status = strengthStatus(score)
	return c
}

// profileQualityScore is the full recompute: 100 minus missingness, row-count
// tier, constant-column and volatility/skew penalties.
func profileQualityScore(p *models.DataProfile) float64 {
	missingness := math.Min(40, p.MissingCellRatio*100*0.5)

	var rowTier float64
	switch {
	case p.RowCount < 100:
		rowTier = 25
	case p.RowCount < 1000:
		rowTier = 15
	case p.RowCount < 10000:
		rowTier = 5
	}

	constant := math.Min(15, float64(p.ConstantColumns)*5)
	volatility := math.Min(20, p.Volatility*20+p.MeanAbsSkew*2)

	return clamp(100-missingness-rowTier-constant-volatility, 0, 100)
}

// modelFit is 70 when the modeling step succeeded and its summary artifact is
// valid; unknown otherwise.
func (s *Service) modelFit(m *models.Manifest) *models.TrustComponent {
	c := &models.TrustComponent{Name: models.ComponentModelFit, Evidence: []string{}}

	summary := m.Artifact(models.ArtifactModelSummary)
	if m.StepStatusOf(config.StepRegression) != models.StepSuccess || summary == nil || !summary.Usable() {
		c.Status = models.TrustUnknown
		c.Notes = "modeling incomplete or model summary unusable"
		return c
	}
	c.Score = models.Float64Ptr(70)
	c.Status = strengthStatus(70)
	c.Evidence = append(c.Evidence,
		evStep(config.StepRegression, m),
		evArtifact(models.ArtifactModelSummary, summary))
	return c
}

// stability bases on diagnostic coverage (importance > correlation > none),
// subtracts the profile volatility penalty, and is hard-capped on
// multicollinearity warnings.
func (s *Service) stability(m *models.Manifest, profile *models.DataProfile) *models.TrustComponent {
	c := &models.TrustComponent{Name: models.ComponentStability, Evidence: []string{}}

	score := 40.0
	c.Notes = "no stability diagnostics available"
	if imp := m.Artifact(models.ArtifactFeatureImportance); imp != nil && imp.Usable() {
		score = 70
		c.Notes = "feature importance diagnostics available"
		c.Evidence = append(c.Evidence, evArtifact(models.ArtifactFeatureImportance, imp))
	} else if corr := m.Artifact(models.ArtifactCorrelationMatrix); corr != nil && corr.Usable() {
		score = 60
		c.Notes = "correlation diagnostics available"
		c.Evidence = append(c.Evidence, evArtifact(models.ArtifactCorrelationMatrix, corr))
	}

	if profile != nil {
		penalty := math.Min(20, profile.Volatility*20)
		if penalty > 0 {
			score -= penalty
			c.Evidence = append(c.Evidence, fmt.Sprintf("profile:volatility=%.3f penalty=%.1f", profile.Volatility, penalty))
		}
	}

	if w := m.Warning(models.WarnMulticollinearityHigh); w != nil {
		switch w.Severity {
		case models.SeverityCritical:
			score = math.Min(score, 40)
			c.Evidence = append(c.Evidence, evWarning(w))
		case models.SeverityHigh:
			score = math.Min(score, 50)
			c.Evidence = append(c.Evidence, evWarning(w))
		}
	}

	score = clamp(score, 0, 100)
	c.Score = models.Float64Ptr(score)
	c.Status = stabilityStatus(score)
	return c
}

// stabilityStatus grades the stability score. 40 is the no-diagnostics floor
// and grades low, so the stability cap fires on it.
func stabilityStatus(score float64) models.TrustStatus {
	switch {
	case score >= 70:
		return models.TrustHigh
	case score > 40:
		return models.TrustMedium
	default:
		return models.TrustLow
	}
}

// validationStrength is 60 once validation succeeds, pulled down to the
// data-quality score in limitations mode, and 20 when validation failed.
func (s *Service) validationStrength(m *models.Manifest, report *models.ValidationReport, dataQuality *models.TrustComponent) *models.TrustComponent {
	c := &models.TrustComponent{Name: models.ComponentValidationStrength, Evidence: []string{}}

	switch m.StepStatusOf(config.StepValidator) {
	case models.StepSuccess:
		score := 60.0
		c.Evidence = append(c.Evidence, evStep(config.StepValidator, m))
		if report != nil && report.Mode == models.ValidationModeLimitations && dataQuality.Known() {
			score = math.Min(score, *dataQuality.Score)
			c.Evidence = append(c.Evidence, "validation:mode=limitations")
			c.Notes = "capped to data quality in limitations mode"
		}
		c.Score = models.Float64Ptr(score)
		c.Status = strengthStatus(score)
	case models.StepFailed:
		c.Score = models.Float64Ptr(20)
		c.Status = models.TrustLow
		c.Evidence = append(c.Evidence, evStep(config.StepValidator, m))
		c.Notes = "validation failed"
	default:
		c.Status = models.TrustUnknown
		c.Notes = "validation has not finished"
	}
	return c
}

// leakageRisk is 10 by default; a leakage warning raises it to 65, or 80 when
// the warning is critical or blocking. Status grades the risk, so high means
// bad here.
func (s *Service) leakageRisk(m *models.Manifest) *models.TrustComponent {
	c := &models.TrustComponent{Name: models.ComponentLeakageRisk, Evidence: []string{}}

	w := m.Warning(models.WarnDataLeakagePossible)
	if w == nil {
		c.Score = models.Float64Ptr(10)
		c.Status = models.TrustLow
		c.Notes = "no leakage warnings recorded"
		return c
	}
	score := 65.0
	status := models.TrustMedium
	if w.Blocking || w.Severity == models.SeverityCritical {
		score = 80
		status = models.TrustHigh
	}
	c.Score = models.Float64Ptr(score)
	c.Status = status
	c.Evidence = append(c.Evidence, evWarning(w))
	return c
}

// strengthStatus grades a strength-style score
func strengthStatus(score float64) models.TrustStatus {
	switch {
	case score >= 70:
		return models.TrustHigh
	case score >= 40:
		return models.TrustMedium
	default:
		return models.TrustLow
	}
}

func evStep(name string, m *models.Manifest) string {
	return fmt.Sprintf("step:%s=%s", name, m.StepStatusOf(name))
}

func evArtifact(id string, a *models.ArtifactEntry) string {
	return fmt.Sprintf("artifact:%s valid=%t status=%s", id, a.Valid, a.Status)
}

func evWarning(w *models.WarningEntry) string {
	return fmt.Sprintf("warning:%s severity=%s blocking=%t", w.WarningCode, w.Severity, w.Blocking)
}
