package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jashshah854-a11y/ACE-V4-sub001/app"
	"github.com/jashshah854-a11y/ACE-V4-sub001/config"
	"github.com/jashshah854-a11y/ACE-V4-sub001/internal/observability"
)

// loadDeps wires the engine for CLI use. The CLI logs at warn by default so
// command output stays readable.
func loadDeps() (*app.Dependencies, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger("warn", "console")
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	deps, err := app.NewDependencies(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("wire dependencies: %w", err)
	}
	return deps, nil
}

// printJSON renders a document for the operator
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
