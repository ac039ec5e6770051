package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"support_analytics/config"
	"support_analytics/internal/app"
)

func main() {
	configPath := flag.String("config", "", "path to config file (overrides CONFIG_PATH)")
	watchMode := flag.Bool("watch", false, "re-run the pipeline when an input file changes")
	flag.Parse()

	if *configPath != "" {
		os.Setenv("CONFIG_PATH", *configPath)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *watchMode {
		cfg.EnableWatcher = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	application := app.New(cfg)
	if err := application.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
