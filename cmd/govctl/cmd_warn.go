package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
)

var warnFlags struct {
	runID    string
	code     string
	severity string
	message  string
	step     string
	blocking bool
}

var warnCmd = &cobra.Command{
	Use:   "warn",
	Short: "Record a warning (first write per code wins)",
	RunE:  runWarn,
}

func init() {
	f := warnCmd.Flags()
	f.StringVar(&warnFlags.runID, "run-id", "", "Run identifier (required)")
	f.StringVar(&warnFlags.code, "code", "", "Warning code (required)")
	f.StringVar(&warnFlags.severity, "severity", "medium", "Severity: info|low|medium|high|critical")
	f.StringVar(&warnFlags.message, "message", "", "Human-readable message")
	f.StringVar(&warnFlags.step, "step", "", "Related step")
	f.BoolVar(&warnFlags.blocking, "blocking", false, "Whether the warning participates in trust capping")

	_ = warnCmd.MarkFlagRequired("run-id")
	_ = warnCmd.MarkFlagRequired("code")
}

func runWarn(cmd *cobra.Command, _ []string) error {
	severity := models.Severity(warnFlags.severity)
	if !severity.Valid() {
		return fmt.Errorf("invalid severity %q", warnFlags.severity)
	}

	deps, err := loadDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	err = deps.Runs.AddWarning(warnFlags.runID, warnFlags.code,
		severity, warnFlags.message, warnFlags.step, warnFlags.blocking)
	if err != nil {
		return fmt.Errorf("add warning: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded warning %s\n", warnFlags.code)
	return nil
}
