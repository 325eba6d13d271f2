package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var gateFlags struct {
	runID string
	agent string
}

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Evaluate the governance gate for an agent",
	RunE:  runGate,
}

func init() {
	f := gateCmd.Flags()
	f.StringVar(&gateFlags.runID, "run-id", "", "Run identifier (required)")
	f.StringVar(&gateFlags.agent, "agent", "", "Agent name (required)")

	_ = gateCmd.MarkFlagRequired("run-id")
	_ = gateCmd.MarkFlagRequired("agent")
}

func runGate(cmd *cobra.Command, _ []string) error {
	deps, err := loadDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	decision, err := deps.Gate.ShouldRun(gateFlags.runID, gateFlags.agent)
	if err != nil {
		return fmt.Errorf("evaluate gate: %w", err)
	}

	out := cmd.OutOrStdout()
	if decision.Blocked {
		fmt.Fprintf(out, "BLOCKED: %s\n", decision.Reason)
	} else {
		fmt.Fprintf(out, "ALLOWED: agent %s may run\n", decision.Agent)
	}
	return nil
}
