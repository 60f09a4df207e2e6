// Package watcher reports changes to a state file on disk.
package watcher

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// EventType represents the type of file system event.
type EventType int

// Event types for state file changes.
const (
	EventStateChanged EventType = iota
	EventStateRemoved
)

// Event represents a settled change to the watched file.
type Event struct {
	Type EventType
	Path string
}

// Watcher watches a single state file. The parent directory is watched rather
// than the file itself, since atomic saves replace the file by rename.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	path       string
	logger     *slog.Logger
	delay      time.Duration
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once
	debounceMu sync.Mutex
	timer      *time.Timer
}

// New creates a watcher for the file at path.
func New(path string, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher:  fsWatcher,
		path:       abs,
		logger:     logger.With(slog.String("component", "watcher")),
		delay:      DefaultDebounce,
		eventsChan: make(chan Event, 16),
		done:       make(chan struct{}),
	}

	return w, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start begins watching. The file's directory must exist.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return err
	}
	w.logger.Debug("Watching state file", slog.String("path", w.path))

	go w.processEvents()

	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.debounceMu.Unlock()
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	w.logger.Debug("fsnotify", slog.String("op", event.Op.String()), slog.String("path", event.Name))

	// Saves land as Create (rename onto the target) or Write.
	var typ EventType
	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		typ = EventStateChanged
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		typ = EventStateRemoved
	default:
		return
	}

	w.debounceEvent(typ)
}

// debounceEvent coalesces a burst of events into the last one.
func (w *Watcher) debounceEvent(typ EventType) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.delay, func() {
		select {
		case w.eventsChan <- Event{Type: typ, Path: w.path}:
		case <-w.done:
		}
	})
}
