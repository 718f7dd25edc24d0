// Package app wires the analysis pipeline together: snapshot loading, graph
// construction, metric analysis, diagram rendering and report generation.
package app

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"github.com/sgharlow/living-docs/internal/core/config"
	"github.com/sgharlow/living-docs/internal/core/errors"
	"github.com/sgharlow/living-docs/internal/shared/observability"
)

const Version = "0.3.0"

type App struct {
	Config *config.Config
	Logger *slog.Logger

	excludes []glob.Glob

	mu        sync.RWMutex
	lastRunID string
	lastRunAt time.Time
	lastCount int
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	excludes, err := cfg.CompileExcludes()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "compile exclude patterns")
	}
	return &App{Config: cfg, Logger: logger, excludes: excludes}, nil
}

// Health reports pipeline liveness for the observability endpoint.
func (a *App) Health() observability.HealthStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()

	status := observability.HealthStatus{
		Status:  "up",
		Modules: a.lastCount,
	}
	if a.lastRunID != "" {
		status.LastRunID = a.lastRunID
		status.LastRunUTC = a.lastRunAt.UTC().Format(time.RFC3339)
	}
	return status
}

func (a *App) recordRun(runID string, modules int) {
	a.mu.Lock()
	a.lastRunID = runID
	a.lastRunAt = time.Now()
	a.lastCount = modules
	a.mu.Unlock()
}
