// Package tui implements the live watch dashboard for a nanny run.
package tui

import (
	"fmt"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/watchfire-io/nanny/internal/state"
	"github.com/watchfire-io/nanny/internal/watcher"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Run launches the dashboard for the run held by store and blocks until the
// user quits. The view reloads whenever the state file changes.
func Run(store *state.Store, logger *slog.Logger) error {
	if _, err := store.Load(); err != nil {
		return err
	}

	w, err := watcher.New(store.Path(), logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return fmt.Errorf("failed to watch %s: %w", store.Path(), err)
	}
	defer w.Stop()

	ref := &programRef{}
	p := tea.NewProgram(NewModel(store), tea.WithAltScreen())
	ref.Set(p)
	defer ref.Clear()

	done := make(chan struct{})
	defer close(done)
	go forwardEvents(w.Events(), done, ref)

	_, err = p.Run()
	return err
}

// forwardEvents turns watcher events into dashboard messages.
func forwardEvents(events <-chan watcher.Event, done <-chan struct{}, ref *programRef) {
	for {
		select {
		case <-done:
			return
		case ev := <-events:
			switch ev.Type {
			case watcher.EventStateChanged:
				ref.Send(StateChangedMsg{})
			case watcher.EventStateRemoved:
				ref.Send(StateRemovedMsg{})
			}
		}
	}
}
