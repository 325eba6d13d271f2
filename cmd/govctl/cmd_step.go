package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
)

var stepFlags struct {
	runID        string
	name         string
	status       string
	errorCode    string
	errorMessage string
}

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Record a step lifecycle transition",
	RunE:  runStep,
}

func init() {
	f := stepCmd.Flags()
	f.StringVar(&stepFlags.runID, "run-id", "", "Run identifier (required)")
	f.StringVar(&stepFlags.name, "name", "", "Step name (required)")
	f.StringVar(&stepFlags.status, "status", "", "New status: running|success|failed|skipped (required)")
	f.StringVar(&stepFlags.errorCode, "error-code", "", "Error code (failed only)")
	f.StringVar(&stepFlags.errorMessage, "error-message", "", "Error message (failed only)")

	_ = stepCmd.MarkFlagRequired("run-id")
	_ = stepCmd.MarkFlagRequired("name")
	_ = stepCmd.MarkFlagRequired("status")
}

func runStep(cmd *cobra.Command, _ []string) error {
	status := models.StepStatus(stepFlags.status)
	if !status.Valid() || status == models.StepNotStarted {
		return fmt.Errorf("invalid status %q", stepFlags.status)
	}

	deps, err := loadDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	if err := deps.Runs.UpdateStepStatus(stepFlags.runID, stepFlags.name, status, stepFlags.errorCode, stepFlags.errorMessage); err != nil {
		return fmt.Errorf("update step: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Step %s -> %s\n", stepFlags.name, status)
	return nil
}
