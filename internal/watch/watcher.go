package watch

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"support_analytics/config"
)

const debounce = 500 * time.Millisecond

// Watcher monitors the two input files and re-runs the pipeline when either
// changes. Errors from a triggered run are logged, never fatal.
type Watcher struct {
	cfg config.Config
	run func(context.Context) error
}

func New(cfg config.Config, run func(context.Context) error) *Watcher {
	return &Watcher{cfg: cfg, run: run}
}

func (w *Watcher) Start(ctx context.Context) error {
	if !w.cfg.EnableWatcher {
		log.Println("watcher disabled")
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	targets := map[string]struct{}{
		filepath.Clean(w.cfg.AccountsPath): {},
		filepath.Clean(w.cfg.CasesPath):    {},
	}
	// Watch the parent directories: editors and atomic writers replace the
	// file, which drops a watch placed on the file itself.
	dirs := map[string]struct{}{}
	for path := range targets {
		dirs[filepath.Dir(path)] = struct{}{}
	}

	go func() {
		defer watcher.Close()
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-watcher.Events:
				if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				if _, ok := targets[filepath.Clean(evt.Name)]; !ok {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
					fire = timer.C
				} else {
					timer.Reset(debounce)
				}
			case <-fire:
				timer, fire = nil, nil
				log.Println("input changed, re-running pipeline")
				if err := w.run(ctx); err != nil {
					log.Printf("watch run failed: %v", err)
				}
			case err := <-watcher.Errors:
				log.Printf("watcher error: %v", err)
			}
		}
	}()

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}
	return nil
}
