package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statusFlags struct {
	runID string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current state of a run",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFlags.runID, "run-id", "", "Run identifier (required)")
	_ = statusCmd.MarkFlagRequired("run-id")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	deps, err := loadDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	m, err := deps.Store.Read(statusFlags.runID)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:         %s\n", m.RunID)
	fmt.Fprintf(out, "Fingerprint: %s\n", m.DatasetFingerprint)
	if m.Sealed() {
		fmt.Fprintf(out, "Sealed:      %s (%s)\n", m.SealedAt.Format("2006-01-02 15:04:05 MST"), m.SealReason)
	} else {
		fmt.Fprintf(out, "Sealed:      no\n")
	}
	if m.Trust != nil {
		fmt.Fprintf(out, "Confidence:  %.1f\n", m.Trust.OverallConfidence)
	}

	names := make([]string, 0, len(m.Steps))
	for name := range m.Steps {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(out, "Steps:\n")
	for _, name := range names {
		fmt.Fprintf(out, "  %-20s %s\n", name, m.Steps[name].Status)
	}

	fmt.Fprintf(out, "Artifacts:   %d\n", len(m.Artifacts))
	fmt.Fprintf(out, "Warnings:    %d\n", len(m.Warnings))

	flags := make([]string, 0, len(m.RenderPolicy))
	for flag := range m.RenderPolicy {
		flags = append(flags, flag)
	}
	sort.Strings(flags)
	fmt.Fprintf(out, "Render policy:\n")
	for _, flag := range flags {
		fmt.Fprintf(out, "  %-30s %t\n", flag, m.RenderPolicy[flag])
	}
	return nil
}
