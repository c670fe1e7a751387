package internal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/claudestat/fileio"
)

// shutdownTimeout bounds how long stopping the watcher may take
const shutdownTimeout = 5 * time.Second

// SignalContext returns a context that is cancelled on SIGINT or SIGTERM
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// shutdown stops the application's components
func (a *Application) shutdown(watcher *fileio.Watcher) error {
	a.logger.Debug("shutting down")

	a.mu.Lock()
	a.running = false
	a.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- watcher.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			a.logger.Errorf("failed to stop file watcher: %v", err)
			return fmt.Errorf("file watcher: %w", err)
		}
	case <-time.After(shutdownTimeout):
		a.logger.Warn("shutdown timeout exceeded, forcing exit")
	}

	a.logger.Debug("shutdown completed")
	return nil
}
