package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
)

// Canonical pipeline step names
const (
	StepIngestion        = "ingestion"
	StepValidator        = "validator"
	StepProfiler         = "profiler"
	StepClassifier       = "classifier"
	StepRegression       = "regression"
	StepClustering       = "clustering"
	StepAnomalyDetector  = "anomaly_detector"
	StepBusinessAnalyzer = "business_analyzer"
	StepSimulator        = "simulator"
	StepTrustEvaluator   = "trust_evaluator"
	StepExpositor        = "expositor"
)

// FlagRule declares when one render-policy flag may be true: its producing
// step must be success, every listed artifact must be valid and success, the
// routing capability (when set) must be admitted, and the Requires flag (when
// set) must itself be true.
type FlagRule struct {
	Flag       string   `yaml:"flag"`
	Step       string   `yaml:"step"`
	Artifacts  []string `yaml:"artifacts,omitempty"`
	Capability string   `yaml:"capability,omitempty"`
	Requires   string   `yaml:"requires,omitempty"`
}

// Pipeline is the declared step catalog and render-flag requirements table
type Pipeline struct {
	Version string     `yaml:"version"`
	Steps   []string   `yaml:"steps"`
	Flags   []FlagRule `yaml:"flags"`
}

// DefaultPipeline returns the compiled-in ACE v4 pipeline catalog
func DefaultPipeline() *Pipeline {
	return &Pipeline{
		Version: "4.0.0",
		Steps: []string{
			StepIngestion,
			StepValidator,
			StepProfiler,
			StepClassifier,
			StepRegression,
			StepClustering,
			StepAnomalyDetector,
			StepBusinessAnalyzer,
			StepSimulator,
			StepTrustEvaluator,
			StepExpositor,
		},
		Flags: []FlagRule{
			{
				Flag:      models.FlagAllowReport,
				Step:      StepExpositor,
				Artifacts: []string{models.ArtifactFinalReport},
			},
			{
				Flag:       models.FlagAllowRegressionSections,
				Step:       StepRegression,
				Artifacts:  []string{models.ArtifactModelSummary},
				Capability: "regression",
			},
			{
				Flag:       models.FlagAllowPersonas,
				Step:       StepClustering,
				Artifacts:  []string{models.ArtifactPersonaProfiles},
				Capability: "personas",
			},
			{
				Flag: models.FlagAllowTrustSummary,
				Step: StepTrustEvaluator,
			},
			{
				Flag:       models.FlagAllowAnomalySections,
				Step:       StepAnomalyDetector,
				Capability: "anomaly_detection",
			},
			{
				Flag:       models.FlagAllowBusinessIntelligence,
				Step:       StepBusinessAnalyzer,
				Artifacts:  []string{models.ArtifactBusinessInsights},
				Capability: "business_intelligence",
			},
			{
				Flag:       models.FlagAllowSimulation,
				Step:       StepSimulator,
				Artifacts:  []string{models.ArtifactSimulationResults},
				Capability: "simulation",
				Requires:   models.FlagAllowBusinessIntelligence,
			},
		},
	}
}

// LoadPipeline reads a pipeline catalog from a YAML file. An empty path
// returns the default catalog.
func LoadPipeline(path string) (*Pipeline, error) {
	if path == "" {
		return DefaultPipeline(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline file: %w", err)
	}
	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline catalog: %w", err)
	}
	return &p, nil
}

// Validate checks the catalog's internal consistency: every flag rule must
// reference a declared step, and Requires must name another declared flag.
func (p *Pipeline) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("pipeline declares no steps")
	}
	steps := make(map[string]struct{}, len(p.Steps))
	for _, s := range p.Steps {
		if _, dup := steps[s]; dup {
			return fmt.Errorf("duplicate step %q", s)
		}
		steps[s] = struct{}{}
	}
	flags := make(map[string]struct{}, len(p.Flags))
	for _, f := range p.Flags {
		if f.Flag == "" {
			return fmt.Errorf("flag rule with empty name")
		}
		if _, ok := steps[f.Step]; !ok {
			return fmt.Errorf("flag %q references undeclared step %q", f.Flag, f.Step)
		}
		flags[f.Flag] = struct{}{}
	}
	for _, f := range p.Flags {
		if f.Requires == "" {
			continue
		}
		if _, ok := flags[f.Requires]; !ok {
			return fmt.Errorf("flag %q requires undeclared flag %q", f.Flag, f.Requires)
		}
	}
	return nil
}

// HasStep reports whether the catalog declares the named step
func (p *Pipeline) HasStep(name string) bool {
	for _, s := range p.Steps {
		if s == name {
			return true
		}
	}
	return false
}
