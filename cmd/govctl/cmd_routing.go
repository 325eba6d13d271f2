package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var routingFlags struct {
	runID      string
	allowed    []string
	suppressed []string
}

var routingCmd = &cobra.Command{
	Use:   "routing",
	Short: "Record the classification step's capability routing",
	RunE:  runRouting,
}

func init() {
	f := routingCmd.Flags()
	f.StringVar(&routingFlags.runID, "run-id", "", "Run identifier (required)")
	f.StringSliceVar(&routingFlags.allowed, "allow", nil, "Admitted capability (repeatable)")
	f.StringSliceVar(&routingFlags.suppressed, "suppress", nil, "Suppressed capability as name=reason (repeatable)")

	_ = routingCmd.MarkFlagRequired("run-id")
}

func runRouting(cmd *cobra.Command, _ []string) error {
	suppressed := make(map[string]string, len(routingFlags.suppressed))
	for _, s := range routingFlags.suppressed {
		name, reason, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("invalid --suppress value %q, expected name=reason", s)
		}
		suppressed[name] = reason
	}

	deps, err := loadDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	if err := deps.Runs.SetRouting(routingFlags.runID, routingFlags.allowed, suppressed); err != nil {
		return fmt.Errorf("set routing: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Routing recorded: %d allowed, %d suppressed\n",
		len(routingFlags.allowed), len(suppressed))
	return nil
}
