package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sealFlags struct {
	runID  string
	reason string
}

var sealCmd = &cobra.Command{
	Use:   "seal",
	Short: "Seal a run; every later mutation becomes a no-op",
	RunE:  runSeal,
}

func init() {
	f := sealCmd.Flags()
	f.StringVar(&sealFlags.runID, "run-id", "", "Run identifier (required)")
	f.StringVar(&sealFlags.reason, "reason", "run_complete", "Seal reason")

	_ = sealCmd.MarkFlagRequired("run-id")
}

func runSeal(cmd *cobra.Command, _ []string) error {
	deps, err := loadDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	if err := deps.Runs.Seal(cmd.Context(), sealFlags.runID, sealFlags.reason); err != nil {
		return fmt.Errorf("seal run: %w", err)
	}
	mark, err := deps.Store.ReadSealMark(sealFlags.runID)
	if err != nil {
		return fmt.Errorf("read seal marker: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sealed run %s\n", mark.RunID)
	fmt.Fprintf(out, "Sealed at: %s\n", mark.SealedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "Reason:    %s\n", mark.Reason)
	return nil
}
