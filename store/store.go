// Package store implements the durable per-run manifest document: atomic
// replace on write, structural validation on read, and a terminal seal backed
// by an independent marker file. Mutation after seal is a silent no-op.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jashshah854-a11y/ACE-V4-sub001/internal/shared"
	"github.com/jashshah854-a11y/ACE-V4-sub001/models"
)

const (
	manifestFile = "manifest.json"
	sealFile     = "seal.json"
)

// Store is the file-backed manifest store. One subdirectory per run under
// the configured root. Safe to use from independent short-lived processes:
// every write is a whole-document atomic replace.
type Store struct {
	root       string
	sealSecret string
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewStore creates a Store rooted at dir. sealSecret may be empty, in which
// case seal markers are written unsigned.
func NewStore(dir, sealSecret string, logger *zap.Logger) *Store {
	return &Store{
		root:       dir,
		sealSecret: sealSecret,
		validate:   validator.New(),
		logger:     logger,
	}
}

// RunDir returns the directory holding the run's documents
func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.root, runID)
}

func (s *Store) manifestPath(runID string) string {
	return filepath.Join(s.RunDir(runID), manifestFile)
}

func (s *Store) sealPath(runID string) string {
	return filepath.Join(s.RunDir(runID), sealFile)
}

// Initialize creates the run record with every declared step not_started and
// empty collections, and persists it. It fails with ErrManifestExists when a
// sealed manifest already occupies the run directory.
func (s *Store) Initialize(runID, datasetFingerprint, pipelineVersion, commitHash string, stepNames []string) (*models.Manifest, error) {
	if s.IsSealed(runID) {
		return nil, fmt.Errorf("run %s: %w", runID, shared.ErrManifestExists)
	}
	if err := os.MkdirAll(s.RunDir(runID), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	m := models.NewManifest(runID, datasetFingerprint, pipelineVersion, commitHash, stepNames)
	if err := s.write(runID, m); err != nil {
		return nil, err
	}
	s.logger.Info("initialized run manifest",
		zap.String("run_id", runID),
		zap.String("dataset_fingerprint", datasetFingerprint),
		zap.Int("steps", len(stepNames)))
	return m, nil
}

// Read loads and structurally validates the manifest. A document that fails
// validation surfaces ErrManifestMalformed; mutation must be refused on it.
func (s *Store) Read(runID string) (*models.Manifest, error) {
	data, err := os.ReadFile(s.manifestPath(runID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("run %s: %w", runID, shared.ErrManifestNotFound)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m models.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrManifestMalformed, err)
	}
	if err := s.validate.Struct(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrManifestMalformed, err)
	}
	return &m, nil
}

// write persists the document with a temp-file write and atomic rename, so
// no reader ever observes a partial manifest. The document is validated
// first: a mutation that would produce a manifest Read refuses is returned
// as an error and nothing touches disk. An I/O failure here is the one
// error class that must bubble up to the caller.
func (s *Store) write(runID string, m *models.Manifest) error {
	if err := s.validate.Struct(m); err != nil {
		return fmt.Errorf("refusing to persist invalid manifest: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	dir := s.RunDir(runID)
	tmp, err := os.CreateTemp(dir, manifestFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp manifest: %w", err)
	}
	if err := os.Rename(tmpName, s.manifestPath(runID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace manifest: %w", err)
	}
	return nil
}

// Mutate runs the read-modify-atomic-replace cycle. When the run is sealed
// the mutation is silently skipped: sealing is a desired terminal state, not
// a failure condition. The mutator receives the live document and edits it
// in place; Mutate stamps updated_at and persists.
func (s *Store) Mutate(runID string, fn func(*models.Manifest) error) error {
	if s.IsSealed(runID) {
		s.logger.Debug("mutation ignored, run sealed", zap.String("run_id", runID))
		return nil
	}
	m, err := s.Read(runID)
	if err != nil {
		return err
	}
	// Second source of truth: the embedded field may be set even if the
	// marker write was lost.
	if m.Sealed() {
		s.logger.Debug("mutation ignored, manifest carries seal", zap.String("run_id", runID))
		return nil
	}
	if err := fn(m); err != nil {
		return err
	}
	m.Touch()
	return s.write(runID, m)
}

// IsSealed reports whether the run has reached its terminal state. The
// independent marker file is checked first; a manifest whose embedded
// sealed_at is set also counts.
func (s *Store) IsSealed(runID string) bool {
	if _, err := os.Stat(s.sealPath(runID)); err == nil {
		return true
	}
	m, err := s.Read(runID)
	if err != nil {
		return false
	}
	return m.Sealed()
}

// Exists reports whether a manifest document is present for the run
func (s *Store) Exists(runID string) bool {
	_, err := os.Stat(s.manifestPath(runID))
	return err == nil
}

// ListRuns returns every run id with a manifest under the store root
func (s *Store) ListRuns() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	var runs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(s.manifestPath(e.Name())); err == nil {
			runs = append(runs, e.Name())
		}
	}
	return runs, nil
}

// ReadGovernanceDoc decodes a JSON governance document (task contract,
// validation report, confidence report) from the run directory into out.
// Returns os.ErrNotExist when the document is absent.
func (s *Store) ReadGovernanceDoc(runID, name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.RunDir(runID), name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
