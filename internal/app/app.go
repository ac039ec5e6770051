package app

import (
	"context"
	"log"

	"support_analytics/config"
	"support_analytics/internal/metrics"
	"support_analytics/internal/pipeline"
	"support_analytics/internal/watch"
)

// App wires the pipeline components together.
type App struct {
	cfg     config.Config
	metrics *metrics.Metrics
	watcher *watch.Watcher
}

func New(cfg config.Config) *App {
	a := &App{cfg: cfg, metrics: metrics.New()}
	a.watcher = watch.New(cfg, a.RunOnce)
	return a
}

// RunOnce executes a single pipeline pass.
func (a *App) RunOnce(ctx context.Context) error {
	return pipeline.Run(ctx, a.cfg, a.metrics)
}

// Run executes the pipeline once and, when watch mode is enabled, keeps
// re-running it on input changes until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.RunOnce(ctx); err != nil {
		return err
	}
	if !a.cfg.EnableWatcher {
		return nil
	}
	if err := a.watcher.Start(ctx); err != nil {
		return err
	}
	log.Printf("watching %s and %s", a.cfg.AccountsPath, a.cfg.CasesPath)
	<-ctx.Done()
	return nil
}

func (a *App) Metrics() *metrics.Metrics { return a.metrics }
