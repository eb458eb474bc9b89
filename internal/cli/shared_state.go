package cli

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Terminal dimensions
	Width  int
	Height int

	// Flash is a transient message cleared by the next key press.
	Flash string

	instances int

	mu     sync.Mutex
	notify func(tea.Msg)
}

// nextInstance hands out view instance numbers for message targeting.
func (s *SharedState) nextInstance() int {
	s.instances++
	return s.instances
}

// SetNotifier registers the running program's Send so state changed off the
// UI goroutine can trigger a redraw.
func (s *SharedState) SetNotifier(fn func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

// Redraw asks the program to re-render. Safe from any goroutine.
func (s *SharedState) Redraw() {
	s.mu.Lock()
	fn := s.notify
	s.mu.Unlock()
	if fn != nil {
		fn(redrawMsg{})
	}
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
