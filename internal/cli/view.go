package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewHome ViewID = iota
	ViewLogin
	ViewList
	ViewProfile
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
}

// inputCapturer is implemented by views that own a focused text input and
// want every key, including q and esc.
type inputCapturer interface {
	CapturesInput() bool
}

// resumer is implemented by views that refresh when they become the top of
// the stack again.
type resumer interface {
	Resume() tea.Cmd
}

// closer is implemented by views holding timers or contexts that must stop
// when the view leaves the stack.
type closer interface {
	Close()
}

// instanced is implemented by views that receive targeted messages.
type instanced interface {
	Instance() int
}

// targetedMsg is delivered only to the view instance that issued it and is
// dropped once that view has left the stack.
type targetedMsg interface {
	target() int
}

func viewCapturesInput(v View) bool {
	c, ok := v.(inputCapturer)
	return ok && c.CapturesInput()
}
