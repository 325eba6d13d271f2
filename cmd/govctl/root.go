package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "govctl",
	Short: "Operate ACE run manifests from the command line",
	Long: "govctl drives the run governance engine: initialize manifests,\n" +
		"record step and artifact state, inspect trust and render policy,\n" +
		"audit invariants, and seal finished runs.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(stepCmd)
	rootCmd.AddCommand(artifactCmd)
	rootCmd.AddCommand(warnCmd)
	rootCmd.AddCommand(routingCmd)
	rootCmd.AddCommand(sealCmd)
	rootCmd.AddCommand(trustCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
