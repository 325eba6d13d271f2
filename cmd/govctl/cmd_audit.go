package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
)

var auditFlags struct {
	runID string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the invariant checker against a manifest",
	RunE:  runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditFlags.runID, "run-id", "", "Run identifier (required)")
	_ = auditCmd.MarkFlagRequired("run-id")
}

func runAudit(cmd *cobra.Command, _ []string) error {
	deps, err := loadDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	m, err := deps.Store.Read(auditFlags.runID)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	report := deps.Checker.Run(m)

	out := cmd.OutOrStdout()
	if report.OK {
		fmt.Fprintf(out, "OK: all invariants hold for run %s\n", auditFlags.runID)
	} else {
		fmt.Fprintf(out, "%d violation(s) for run %s:\n", len(report.Violations), auditFlags.runID)
		for _, v := range report.Violations {
			fmt.Fprintf(out, "  [%s] %s: %s\n", v.Severity, v.InvariantID, v.Description)
		}
	}

	// Stale running steps are surfaced as information only; how to treat a
	// step abandoned by a dead process is the calling pipeline's policy.
	if !m.Sealed() {
		for name, step := range m.Steps {
			if step.Status == models.StepRunning && step.StartedAt != nil {
				fmt.Fprintf(out, "note: step %s running for %s\n",
					name, time.Since(*step.StartedAt).Round(time.Second))
			}
		}
	}
	return nil
}
