// runreportd serves the read-only governance surface of runs over HTTP: the
// manifest wire document, trust derivations, render policy and invariant
// audits. It never mutates run state.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/jashshah854-a11y/ACE-V4-sub001/app"
	"github.com/jashshah854-a11y/ACE-V4-sub001/config"
	"github.com/jashshah854-a11y/ACE-V4-sub001/internal/observability"
	"github.com/jashshah854-a11y/ACE-V4-sub001/routes"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	deps, err := app.NewDependencies(cfg, logger)
	if err != nil {
		logger.Fatal("failed to wire dependencies", zap.Error(err))
	}
	defer deps.Close()

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      routes.SetupRoutes(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("runreportd listening",
			zap.String("addr", cfg.Server.Address()),
			zap.String("runs_dir", cfg.RunsDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
