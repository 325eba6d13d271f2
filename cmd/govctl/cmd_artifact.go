package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
	"github.com/jashshah854-a11y/ACE-V4-sub001/services/run"
)

var artifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Register or remove run artifacts",
}

var artifactAddFlags struct {
	runID        string
	id           string
	artifactType string
	step         string
	status       string
	valid        bool
	errors       []string
	warnings     []string
	fingerprint  string
}

var artifactAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register an artifact with the caller's validity verdict",
	RunE:  runArtifactAdd,
}

var artifactRmFlags struct {
	runID string
	id    string
}

var artifactRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Remove a superseded artifact",
	RunE:  runArtifactRm,
}

func init() {
	f := artifactAddCmd.Flags()
	f.StringVar(&artifactAddFlags.runID, "run-id", "", "Run identifier (required)")
	f.StringVar(&artifactAddFlags.id, "id", "", "Artifact identifier (required)")
	f.StringVar(&artifactAddFlags.artifactType, "type", "", "Artifact type (required)")
	f.StringVar(&artifactAddFlags.step, "step", "", "Producing step (required)")
	f.StringVar(&artifactAddFlags.status, "status", "success", "Artifact status: success|failed|partial")
	f.BoolVar(&artifactAddFlags.valid, "valid", false, "Caller's validity verdict")
	f.StringSliceVar(&artifactAddFlags.errors, "validation-error", nil, "Validation error (repeatable)")
	f.StringSliceVar(&artifactAddFlags.warnings, "validation-warning", nil, "Validation warning (repeatable)")
	f.StringVar(&artifactAddFlags.fingerprint, "input-fingerprint", "", "Fingerprint of the artifact's input")

	_ = artifactAddCmd.MarkFlagRequired("run-id")
	_ = artifactAddCmd.MarkFlagRequired("id")
	_ = artifactAddCmd.MarkFlagRequired("type")
	_ = artifactAddCmd.MarkFlagRequired("step")

	rf := artifactRmCmd.Flags()
	rf.StringVar(&artifactRmFlags.runID, "run-id", "", "Run identifier (required)")
	rf.StringVar(&artifactRmFlags.id, "id", "", "Artifact identifier (required)")
	_ = artifactRmCmd.MarkFlagRequired("run-id")
	_ = artifactRmCmd.MarkFlagRequired("id")

	artifactCmd.AddCommand(artifactAddCmd)
	artifactCmd.AddCommand(artifactRmCmd)
}

func runArtifactAdd(cmd *cobra.Command, _ []string) error {
	status := models.ArtifactStatus(artifactAddFlags.status)
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", artifactAddFlags.status)
	}

	deps, err := loadDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	err = deps.Runs.RegisterArtifact(artifactAddFlags.runID, artifactAddFlags.id, run.ArtifactParams{
		ArtifactType:       artifactAddFlags.artifactType,
		ProducedByStep:     artifactAddFlags.step,
		Status:             status,
		Valid:              artifactAddFlags.valid,
		ValidationErrors:   artifactAddFlags.errors,
		ValidationWarnings: artifactAddFlags.warnings,
		InputFingerprint:   artifactAddFlags.fingerprint,
	})
	if err != nil {
		return fmt.Errorf("register artifact: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Registered artifact %s\n", artifactAddFlags.id)
	return nil
}

func runArtifactRm(cmd *cobra.Command, _ []string) error {
	deps, err := loadDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	if err := deps.Runs.RemoveArtifact(artifactRmFlags.runID, artifactRmFlags.id); err != nil {
		return fmt.Errorf("remove artifact: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed artifact %s\n", artifactRmFlags.id)
	return nil
}
