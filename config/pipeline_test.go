package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPipeline_Valid(t *testing.T) {
	p := DefaultPipeline()
	require.NoError(t, p.Validate())
	assert.True(t, p.HasStep(StepTrustEvaluator))
	assert.False(t, p.HasStep("compositor"))
}

func TestLoadPipeline_EmptyPathUsesDefault(t *testing.T) {
	p, err := LoadPipeline("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPipeline().Steps, p.Steps)
}

func TestLoadPipeline_FromYAML(t *testing.T) {
	catalog := `
version: "4.1.0"
steps:
  - ingestion
  - validator
  - expositor
flags:
  - flag: allow_report
    step: expositor
    artifacts:
      - final_report
`
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o644))

	p, err := LoadPipeline(path)
	require.NoError(t, err)
	assert.Equal(t, "4.1.0", p.Version)
	assert.Equal(t, []string{"ingestion", "validator", "expositor"}, p.Steps)
	require.Len(t, p.Flags, 1)
	assert.Equal(t, "allow_report", p.Flags[0].Flag)
	assert.Equal(t, []string{"final_report"}, p.Flags[0].Artifacts)
}

func TestLoadPipeline_MissingFile(t *testing.T) {
	_, err := LoadPipeline(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		pipeline Pipeline
		wantErr  string
	}{
		{
			name:     "no steps",
			pipeline: Pipeline{},
			wantErr:  "no steps",
		},
		{
			name: "duplicate step",
			pipeline: Pipeline{
				Steps: []string{"ingestion", "ingestion"},
			},
			wantErr: "duplicate step",
		},
		{
			name: "flag on undeclared step",
			pipeline: Pipeline{
				Steps: []string{"ingestion"},
				Flags: []FlagRule{{Flag: "allow_report", Step: "expositor"}},
			},
			wantErr: "undeclared step",
		},
		{
			name: "requires undeclared flag",
			pipeline: Pipeline{
				Steps: []string{"simulator"},
				Flags: []FlagRule{{
					Flag:     "allow_simulation",
					Step:     "simulator",
					Requires: "allow_business_intelligence",
				}},
			},
			wantErr: "requires undeclared flag",
		},
		{
			name: "empty flag name",
			pipeline: Pipeline{
				Steps: []string{"ingestion"},
				Flags: []FlagRule{{Step: "ingestion"}},
			},
			wantErr: "empty name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pipeline.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
