package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/jashshah854-a11y/ACE-V4-sub001/app"
	"github.com/jashshah854-a11y/ACE-V4-sub001/utils"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles GET /healthz; always 200 while the process runs
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ReadinessCheck handles GET /readyz; verifies the runs directory is reachable
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"runs_dir": "healthy"}
		status := http.StatusOK
		overall := "healthy"
		if _, err := os.Stat(deps.Config.RunsDir); err != nil {
			checks["runs_dir"] = "unhealthy"
			overall = "unhealthy"
			status = http.StatusServiceUnavailable
		}
		_ = utils.WriteJSON(w, status, HealthResponse{
			Status:    overall,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checks,
		})
	}
}
