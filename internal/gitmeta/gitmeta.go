// Package gitmeta resolves the code commit hash recorded in run manifests.
package gitmeta

import (
	"os"
	"path/filepath"
	"strings"
)

// CommitHash returns the current commit: the ACE_COMMIT env var when set,
// otherwise a best-effort read of .git/HEAD from the working directory.
// Returns "unknown" when neither source resolves.
func CommitHash() string {
	if v := os.Getenv("ACE_COMMIT"); v != "" {
		return v
	}
	head, err := os.ReadFile(filepath.Join(".git", "HEAD"))
	if err != nil {
		return "unknown"
	}
	ref := strings.TrimSpace(string(head))
	if !strings.HasPrefix(ref, "ref: ") {
		return ref
	}
	data, err := os.ReadFile(filepath.Join(".git", strings.TrimPrefix(ref, "ref: ")))
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(data))
}
