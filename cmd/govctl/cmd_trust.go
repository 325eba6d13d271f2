package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var trustFlags struct {
	runID string
}

var trustCmd = &cobra.Command{
	Use:   "trust",
	Short: "Derive and print the trust result for the current snapshot",
	RunE:  runTrust,
}

func init() {
	trustCmd.Flags().StringVar(&trustFlags.runID, "run-id", "", "Run identifier (required)")
	_ = trustCmd.MarkFlagRequired("run-id")
}

func runTrust(cmd *cobra.Command, _ []string) error {
	deps, err := loadDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	result, err := deps.Runs.ComputeTrust(trustFlags.runID)
	if err != nil {
		return fmt.Errorf("compute trust: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), result)
}
