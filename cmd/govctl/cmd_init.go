package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jashshah854-a11y/ACE-V4-sub001/internal/fingerprint"
	"github.com/jashshah854-a11y/ACE-V4-sub001/internal/gitmeta"
)

var initFlags struct {
	runID       string
	dataset     string
	fingerprint string
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a fresh run manifest with every step not_started",
	RunE:  runInit,
}

func init() {
	f := initCmd.Flags()
	f.StringVar(&initFlags.runID, "run-id", "", "Run identifier (generated when omitted)")
	f.StringVar(&initFlags.dataset, "dataset", "", "CSV dataset to fingerprint")
	f.StringVar(&initFlags.fingerprint, "fingerprint", "", "Pre-computed dataset fingerprint from the intake layer")
}

func runInit(cmd *cobra.Command, _ []string) error {
	deps, err := loadDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	runID := initFlags.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	fp := initFlags.fingerprint
	if fp == "" && initFlags.dataset != "" {
		f, err := fingerprint.FromCSVFile(initFlags.dataset)
		if err != nil {
			return fmt.Errorf("fingerprint dataset: %w", err)
		}
		fp = f.String()
	}
	if fp == "" {
		return fmt.Errorf("either --fingerprint or --dataset is required")
	}

	m, err := deps.Runs.Initialize(runID, fp, deps.Pipeline.Version, gitmeta.CommitHash())
	if err != nil {
		return fmt.Errorf("initialize run: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized run %s\n", m.RunID)
	fmt.Fprintf(out, "Fingerprint: %s\n", m.DatasetFingerprint)
	fmt.Fprintf(out, "Steps:       %d (all not_started)\n", len(m.Steps))
	return nil
}
