// Package pipeline runs the full analysis: load, normalize, aggregate,
// export, render, report. Control flow is strictly linear and one run
// recomputes everything from scratch.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"support_analytics/config"
	"support_analytics/internal/dataset"
	"support_analytics/internal/export"
	"support_analytics/internal/kpi"
	"support_analytics/internal/metrics"
	"support_analytics/internal/render"
	"support_analytics/internal/report"
)

// Run executes one pipeline pass. Load, schema, and export errors abort the
// run before any KPI file is finalized; chart failures only log warnings.
func Run(ctx context.Context, cfg config.Config, m *metrics.Metrics) error {
	if err := run(ctx, cfg, m); err != nil {
		m.RunFailed()
		return err
	}
	m.RunSucceeded()
	return nil
}

func run(ctx context.Context, cfg config.Config, m *metrics.Metrics) error {
	var accounts []dataset.Account
	var cases []dataset.Case

	err := step(m, "load", func() error {
		var err error
		if accounts, err = dataset.LoadAccounts(cfg.AccountsPath); err != nil {
			return err
		}
		cases, err = dataset.LoadCases(cfg.CasesPath)
		return err
	})
	if err != nil {
		return err
	}
	log.Printf("loaded %d accounts, %d cases", len(accounts), len(cases))

	engine, err := kpi.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open staging db: %w", err)
	}
	defer engine.Close()

	var res *kpi.Results
	err = step(m, "aggregate", func() error {
		if err := engine.LoadDataset(ctx, accounts, cases, cfg.Location); err != nil {
			return fmt.Errorf("stage dataset: %w", err)
		}
		var err error
		res, err = engine.Compute(ctx)
		return err
	})
	if err != nil {
		return err
	}

	err = step(m, "export", func() error {
		return export.WriteAll(cfg.ReportsDir, res)
	})
	if err != nil {
		return err
	}
	log.Printf("exported %d KPI tables to %s", len(export.Files), cfg.ReportsDir)

	_ = step(m, "render", func() error {
		renderer := &render.Renderer{
			Dir:            cfg.VizDir,
			Width:          cfg.ChartWidth,
			Height:         cfg.ChartHeight,
			TopNAccounts:   cfg.TopNAccounts,
			TopNCountries:  cfg.TopNCountries,
			TopNIndustries: cfg.TopNIndustries,
		}
		for _, rerr := range renderer.RenderAll(res) {
			log.Printf("warning: chart skipped: %v", rerr)
		}
		return nil
	})

	err = step(m, "report", func() error {
		if dir := filepath.Dir(cfg.ReportPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		return report.Write(cfg.ReportPath, report.Build(res))
	})
	if err != nil {
		return err
	}
	log.Printf("report written to %s", cfg.ReportPath)
	return nil
}

func step(m *metrics.Metrics, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	m.ObserveStage(name, time.Since(start))
	return err
}
