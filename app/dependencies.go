// Package app is the central wiring point for dependency injection.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jashshah854-a11y/ACE-V4-sub001/config"
	"github.com/jashshah854-a11y/ACE-V4-sub001/repositories"
	"github.com/jashshah854-a11y/ACE-V4-sub001/repositories/postgres"
	"github.com/jashshah854-a11y/ACE-V4-sub001/services/gate"
	"github.com/jashshah854-a11y/ACE-V4-sub001/services/invariants"
	"github.com/jashshah854-a11y/ACE-V4-sub001/services/render"
	"github.com/jashshah854-a11y/ACE-V4-sub001/services/run"
	"github.com/jashshah854-a11y/ACE-V4-sub001/services/trust"
	"github.com/jashshah854-a11y/ACE-V4-sub001/store"
)

// Dependencies holds the wired governance engine components
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Pipeline *config.Pipeline

	Store    *store.Store
	Runs     *run.Service
	Trust    *trust.Service
	Render   *render.Deriver
	Gate     *gate.Service
	Checker  *invariants.Checker
	RunIndex repositories.RunIndexRepository // nil when disabled

	db *postgres.DB
}

// NewDependencies wires every component from configuration
func NewDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	pipeline, err := config.LoadPipeline(cfg.PipelineFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline catalog: %w", err)
	}

	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Pipeline: pipeline,
	}

	deps.Store = store.NewStore(cfg.RunsDir, cfg.SealSecret, logger)
	deps.Trust = trust.NewService(trust.DefaultWeights(), logger)
	deps.Render = render.NewDeriver(pipeline, logger)
	deps.Gate = gate.NewService(deps.Store, logger)
	deps.Checker = invariants.NewChecker(pipeline)

	if cfg.RunIndex != nil {
		db, err := postgres.NewDB(*cfg.RunIndex, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect run index: %w", err)
		}
		deps.db = db
		deps.RunIndex = postgres.NewRunIndexRepository(db, logger)
	}

	deps.Runs = run.NewService(deps.Store, deps.Trust, deps.Render, pipeline, deps.RunIndex, logger)
	return deps, nil
}

// Close releases held resources
func (d *Dependencies) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
