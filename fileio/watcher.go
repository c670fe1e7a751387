package fileio

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/claudestat/logging"
	"github.com/penwyp/claudestat/models"
)

// EventType represents the type of file system event
type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
)

// String returns a string representation of the event type
func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "CREATE"
	case EventModify:
		return "MODIFY"
	case EventDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// FileEvent represents a change to a usage log file
type FileEvent struct {
	Path      string
	Type      EventType
	Timestamp time.Time
}

// Watcher reports changes to usage logs anywhere below its roots.
// fsnotify is not recursive, so every subdirectory is registered, including
// directories created after Start.
type Watcher struct {
	watcher     *fsnotify.Watcher
	roots       []string
	extension   string
	events      chan FileEvent
	errors      chan error
	stopCh      chan struct{}
	mu          sync.RWMutex
	running     bool
	closed      bool
	debounce    time.Duration
	debounceMap map[string]*time.Timer
	dirs        map[string]struct{}
}

// WatcherConfig holds configuration for the file watcher
type WatcherConfig struct {
	BufferSize   int           // Event buffer size
	DebounceTime time.Duration // Debounce duration per file
	Extension    string        // Only files with this extension produce events
}

// DefaultWatcherConfig returns default configuration
var DefaultWatcherConfig = WatcherConfig{
	BufferSize:   100,
	DebounceTime: models.DefaultDebounce,
	Extension:    models.LogFileExtension,
}

// NewWatcher creates a new file system watcher
func NewWatcher(roots []string) (*Watcher, error) {
	return NewWatcherWithConfig(roots, DefaultWatcherConfig)
}

// NewWatcherWithConfig creates a new file system watcher with custom configuration
func NewWatcherWithConfig(roots []string, config WatcherConfig) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if config.BufferSize <= 0 {
		config.BufferSize = DefaultWatcherConfig.BufferSize
	}
	if config.Extension == "" {
		config.Extension = DefaultWatcherConfig.Extension
	}

	w := &Watcher{
		watcher:     fsWatcher,
		roots:       make([]string, len(roots)),
		extension:   config.Extension,
		events:      make(chan FileEvent, config.BufferSize),
		errors:      make(chan error, config.BufferSize),
		stopCh:      make(chan struct{}),
		debounce:    config.DebounceTime,
		debounceMap: make(map[string]*time.Timer),
		dirs:        make(map[string]struct{}),
	}

	copy(w.roots, roots)
	return w, nil
}

// Start registers every directory below the roots and begins delivering events
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("watcher is closed")
	}
	if w.running {
		return fmt.Errorf("watcher is already running")
	}

	for _, root := range w.roots {
		if err := w.addTreeLocked(root); err != nil {
			return fmt.Errorf("failed to watch path %s: %w", root, err)
		}
	}

	w.running = true
	go w.processEvents()

	return nil
}

// Stop stops the file watcher
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	close(w.stopCh)
	w.running = false

	return w.watcher.Close()
}

// Close stops the watcher and closes all channels
func (w *Watcher) Close() error {
	err := w.Stop()

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return err
	}
	w.closed = true

	// Cancel any pending debounce timers
	for path, timer := range w.debounceMap {
		timer.Stop()
		delete(w.debounceMap, path)
	}

	// Stop never ran, so the fsnotify watcher is still open
	if err == nil {
		select {
		case <-w.stopCh:
		default:
			err = w.watcher.Close()
		}
	}

	close(w.events)
	close(w.errors)

	return err
}

// Events returns the channel for file events
func (w *Watcher) Events() <-chan FileEvent {
	return w.events
}

// Errors returns the channel for errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// GetWatchedPaths returns the watched directories, sorted
func (w *Watcher) GetWatchedPaths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	paths := make([]string, 0, len(w.dirs))
	for dir := range w.dirs {
		paths = append(paths, dir)
	}
	sort.Strings(paths)
	return paths
}

// IsRunning returns whether the watcher is currently running
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// addTreeLocked registers root and every directory below it
func (w *Watcher) addTreeLocked(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logging.LogDebugf("watcher: skipping %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if _, ok := w.dirs[path]; ok {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			if path == root {
				return err
			}
			logging.LogWarnf("watcher: cannot watch %s: %v", path, err)
			return nil
		}
		w.dirs[path] = struct{}{}
		return nil
	})
}

// processEvents handles the main event processing loop
func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)

		case <-w.stopCh:
			return
		}
	}
}

// handleEvent follows new directories and forwards log file changes
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.mu.Lock()
			err := w.addTreeLocked(event.Name)
			w.mu.Unlock()
			if err != nil {
				w.sendError(fmt.Errorf("failed to watch new directory %s: %w", event.Name, err))
			}
			// Files may have landed before the directory was registered
			w.emitExisting(event.Name)
			return
		}
	}

	if event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename {
		w.mu.Lock()
		delete(w.dirs, event.Name)
		w.mu.Unlock()
	}

	if !strings.HasSuffix(event.Name, w.extension) {
		return
	}

	if w.debounce > 0 {
		w.debounceEvent(event)
		return
	}
	w.sendEvent(event)
}

// emitExisting reports log files already present in a newly created directory tree
func (w *Watcher) emitExisting(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, w.extension) {
			w.sendEvent(fsnotify.Event{Name: path, Op: fsnotify.Create})
		}
		return nil
	})
}

// debounceEvent collapses bursts of events on one path into the last event
func (w *Watcher) debounceEvent(event fsnotify.Event) {
	path := event.Name

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	// Cancel existing timer for this path
	if timer, exists := w.debounceMap[path]; exists {
		timer.Stop()
	}

	w.debounceMap[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.debounceMap, path)
		w.mu.Unlock()
		w.sendEvent(event)
	})
}

// sendEvent converts fsnotify event to FileEvent and sends it
func (w *Watcher) sendEvent(event fsnotify.Event) {
	var eventType EventType

	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		eventType = EventCreate
	case event.Op&fsnotify.Write == fsnotify.Write:
		eventType = EventModify
	case event.Op&fsnotify.Remove == fsnotify.Remove, event.Op&fsnotify.Rename == fsnotify.Rename:
		eventType = EventDelete
	default:
		// Skip other event types (CHMOD, etc.)
		return
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}

	select {
	case w.events <- FileEvent{Path: event.Name, Type: eventType, Timestamp: time.Now()}:
	default:
		// Drop event if channel is full
	}
}

func (w *Watcher) sendError(err error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}

	select {
	case w.errors <- err:
	default:
		// Drop error if channel is full
	}
}
