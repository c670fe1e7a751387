package internal

import (
	"context"
	"fmt"
	"sync"

	"github.com/penwyp/claudestat/config"
	"github.com/penwyp/claudestat/fileio"
	"github.com/penwyp/claudestat/logging"
)

// RenderFunc displays one analysis result
type RenderFunc func(*Result) error

// Application keeps a report current: it renders once, then reloads everything and
// renders again whenever a log file under the data root changes.
type Application struct {
	config   *config.Config
	analyzer *Analyzer
	render   RenderFunc
	logger   logging.LoggerInterface

	mu      sync.Mutex
	running bool
	reloads int
}

// NewApplication creates a watch-mode application
func NewApplication(cfg *config.Config, render RenderFunc) (*Application, error) {
	if render == nil {
		return nil, fmt.Errorf("render function is required")
	}

	analyzer, err := NewAnalyzer(cfg)
	if err != nil {
		return nil, err
	}

	return &Application{
		config:   cfg,
		analyzer: analyzer,
		render:   render,
		logger:   logging.GetLogger().With(logging.F("component", "watch")),
	}, nil
}

// Run blocks until ctx is cancelled
func (a *Application) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return fmt.Errorf("application is already running")
	}
	a.running = true
	a.mu.Unlock()

	if err := a.refresh(ctx); err != nil {
		a.setStopped()
		return err
	}

	root, err := config.ResolveDataRoot(a.config)
	if err != nil {
		a.setStopped()
		return fmt.Errorf("cannot watch: %w", err)
	}

	watcher, err := fileio.NewWatcherWithConfig([]string{root}, fileio.WatcherConfig{
		DebounceTime: a.config.Watch.Debounce,
		Extension:    a.config.Data.Extension,
	})
	if err != nil {
		a.setStopped()
		return err
	}
	if err := watcher.Start(); err != nil {
		_ = watcher.Close()
		a.setStopped()
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	a.logger.Infof("watching %d directories under %s", len(watcher.GetWatchedPaths()), root)

	runErr := a.processFileEvents(ctx, watcher)
	if err := a.shutdown(watcher); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// processFileEvents reloads once per batch of change events
func (a *Application) processFileEvents(ctx context.Context, watcher *fileio.Watcher) error {
	events := watcher.Events()
	errs := watcher.Errors()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			a.logger.Debugf("%s %s", event.Type, event.Path)
			drain(events)

			if err := a.refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				a.logger.Errorf("reload failed: %v", err)
			}

		case err, ok := <-errs:
			if ok {
				a.logger.Warnf("watcher error: %v", err)
			}

		case <-ctx.Done():
			return nil
		}
	}
}

// drain discards events already queued so a burst triggers a single reload
func drain(events <-chan fileio.FileEvent) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (a *Application) refresh(ctx context.Context) error {
	result, err := a.analyzer.Analyze(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.reloads++
	a.mu.Unlock()

	return a.render(result)
}

func (a *Application) setStopped() {
	a.mu.Lock()
	a.running = false
	a.mu.Unlock()
}

// Reloads returns how many times the report has been rendered
func (a *Application) Reloads() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reloads
}

// IsRunning reports whether Run is active
func (a *Application) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}
