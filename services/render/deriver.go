// Package render derives the section-visibility surface for a manifest. The
// policy is recomputed from scratch after every mutation and is strictly
// conjunctive: no flag is true on partial evidence.
package render

import (
	"go.uber.org/zap"

	"github.com/jashshah854-a11y/ACE-V4-sub001/config"
	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
)

// sectionForFlag maps each policy flag to the report section it gates
var sectionForFlag = map[string]string{
	models.FlagAllowReport:               "overview",
	models.FlagAllowRegressionSections:   "regression",
	models.FlagAllowPersonas:             "personas",
	models.FlagAllowTrustSummary:         "trust_summary",
	models.FlagAllowSimulation:           "simulation",
	models.FlagAllowBusinessIntelligence: "business_intelligence",
	models.FlagAllowAnomalySections:      "anomalies",
}

// Deriver computes render policies from the pipeline catalog's flag rules
type Deriver struct {
	pipeline *config.Pipeline
	logger   *zap.Logger
}

// NewDeriver creates a Deriver for the given pipeline catalog
func NewDeriver(pipeline *config.Pipeline, logger *zap.Logger) *Deriver {
	return &Deriver{pipeline: pipeline, logger: logger}
}

// Derive computes every flag from the current manifest state. A flag is true
// only when its producing step is success, every required artifact is valid
// and success, the routing capability (if any) is admitted, and any
// prerequisite flag holds.
func (d *Deriver) Derive(m *models.Manifest) models.RenderPolicy {
	policy := make(models.RenderPolicy, len(d.pipeline.Flags))
	routing := m.Routing()

	for _, rule := range d.pipeline.Flags {
		policy[rule.Flag] = d.flagAllowed(m, routing, rule)
	}

	// Prerequisite flags resolve after the base pass; iterate to a fixed
	// point so rule order in the catalog does not matter.
	for changed := true; changed; {
		changed = false
		for _, rule := range d.pipeline.Flags {
			if rule.Requires == "" || !policy[rule.Flag] {
				continue
			}
			if !policy[rule.Requires] {
				policy[rule.Flag] = false
				changed = true
			}
		}
	}
	return policy
}

func (d *Deriver) flagAllowed(m *models.Manifest, routing *models.AnalysisRouting, rule config.FlagRule) bool {
	if m.StepStatusOf(rule.Step) != models.StepSuccess {
		return false
	}
	for _, id := range rule.Artifacts {
		a := m.Artifact(id)
		if a == nil || !a.Usable() {
			return false
		}
	}
	if rule.Capability != "" && routing != nil && !routing.Permits(rule.Capability) {
		return false
	}
	return true
}

// ViewPolicies derives the per-role section surfaces from a render policy.
// Roles only ever narrow what the flags already allow.
func (d *Deriver) ViewPolicies(policy models.RenderPolicy) map[string]models.ViewPolicy {
	allowed := make([]string, 0, len(sectionForFlag))
	for _, rule := range d.pipeline.Flags {
		if policy[rule.Flag] {
			if section, ok := sectionForFlag[rule.Flag]; ok {
				allowed = append(allowed, section)
			}
		}
	}

	executive := intersect(allowed, []string{"overview", "business_intelligence", "simulation", "trust_summary"})
	viewer := intersect(allowed, []string{"overview"})

	return map[string]models.ViewPolicy{
		models.RoleAnalyst: {
			AllowedSections:          allowed,
			DefaultCollapsedSections: intersect(allowed, []string{"trust_summary"}),
		},
		models.RoleExecutive: {
			AllowedSections:          executive,
			DefaultCollapsedSections: intersect(executive, []string{"trust_summary"}),
		},
		models.RoleViewer: {
			AllowedSections:          viewer,
			DefaultCollapsedSections: []string{},
		},
	}
}

func intersect(have, want []string) []string {
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[s] = struct{}{}
	}
	out := make([]string, 0, len(want))
	for _, s := range want {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
