// Package handlers serves the read-only governance surface of a run: the
// manifest document, trust derivation, render policy, invariant audit and
// gate decisions. No handler mutates pipeline state.
package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jashshah854-a11y/ACE-V4-sub001/app"
	"github.com/jashshah854-a11y/ACE-V4-sub001/internal/shared"
	"github.com/jashshah854-a11y/ACE-V4-sub001/utils"
)

// ListRunsHandler handles GET /api/v1/runs
func ListRunsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runs, err := deps.Store.ListRuns()
		if err != nil {
			deps.Logger.Error("failed to list runs", zap.Error(err))
			_ = utils.WriteInternalError(w, "")
			return
		}
		if runs == nil {
			runs = []string{}
		}
		_ = utils.WriteOK(w, map[string]any{"runs": runs})
	}
}

// GetManifestHandler handles GET /api/v1/runs/{runID}/manifest
func GetManifestHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "runID")
		m, err := deps.Store.Read(runID)
		if err != nil {
			writeReadError(w, deps, runID, err)
			return
		}
		_ = utils.WriteOK(w, m)
	}
}

// GetTrustHandler handles GET /api/v1/runs/{runID}/trust.
// Returns the freshly derived trust result for the current snapshot, which
// for a sealed run matches the embedded one.
func GetTrustHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "runID")
		result, err := deps.Runs.ComputeTrust(runID)
		if err != nil {
			writeReadError(w, deps, runID, err)
			return
		}
		_ = utils.WriteOK(w, result)
	}
}

// GetRenderPolicyHandler handles GET /api/v1/runs/{runID}/render-policy
func GetRenderPolicyHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "runID")
		m, err := deps.Store.Read(runID)
		if err != nil {
			writeReadError(w, deps, runID, err)
			return
		}
		_ = utils.WriteOK(w, map[string]any{
			"render_policy": m.RenderPolicy,
			"view_policies": m.ViewPolicies,
		})
	}
}

// GetInvariantsHandler handles GET /api/v1/runs/{runID}/invariants
func GetInvariantsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "runID")
		m, err := deps.Store.Read(runID)
		if err != nil {
			writeReadError(w, deps, runID, err)
			return
		}
		_ = utils.WriteOK(w, deps.Checker.Run(m))
	}
}

// GetGateDecisionHandler handles GET /api/v1/runs/{runID}/gate/{agent}
func GetGateDecisionHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "runID")
		agent := chi.URLParam(r, "agent")
		decision, err := deps.Gate.ShouldRun(runID, agent)
		if err != nil {
			writeReadError(w, deps, runID, err)
			return
		}
		_ = utils.WriteOK(w, decision)
	}
}

// GetSealHandler handles GET /api/v1/runs/{runID}/seal
func GetSealHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "runID")
		mark, err := deps.Store.ReadSealMark(runID)
		if err != nil {
			if errors.Is(err, shared.ErrSealTampered) {
				deps.Logger.Error("seal marker failed verification", zap.String("run_id", runID))
				_ = utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse{
					Error:   "seal_tampered",
					Message: "seal marker signature invalid",
				})
				return
			}
			_ = utils.WriteNotFound(w, "run is not sealed")
			return
		}
		_ = utils.WriteOK(w, mark)
	}
}

func writeReadError(w http.ResponseWriter, deps *app.Dependencies, runID string, err error) {
	switch {
	case errors.Is(err, shared.ErrManifestNotFound):
		_ = utils.WriteNotFound(w, "run not found")
	case errors.Is(err, shared.ErrManifestMalformed):
		deps.Logger.Error("malformed manifest on disk",
			zap.String("run_id", runID),
			zap.Error(err))
		_ = utils.WriteInternalError(w, "manifest malformed")
	default:
		deps.Logger.Error("failed to read manifest",
			zap.String("run_id", runID),
			zap.Error(err))
		_ = utils.WriteInternalError(w, "")
	}
}
