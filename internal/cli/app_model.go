package cli

import (
	"strings"

	"github.com/alexanderramin/millennium/internal/cli/formatter"
	"github.com/alexanderramin/millennium/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

// appModel is the root bubbletea Model for the TUI. It owns the view stack
// and routes messages: keys and untargeted messages go to the top view,
// targeted messages go to the view instance that asked for them.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool
}

// newAppModel starts on the home view, with a list for each resource in
// open stacked above it.
func newAppModel(app *App, open ...domain.Resource) appModel {
	state := &SharedState{App: app}
	stack := []View{newHomeView(state)}
	for _, res := range open {
		stack = append(stack, newListView(state, res))
	}
	return appModel{state: state, viewStack: stack}
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
// If the stack is empty, this is a no-op.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func closeView(v View) {
	if c, ok := v.(closer); ok {
		c.Close()
	}
}

// pop removes the top view and resumes the one beneath it.
func (m *appModel) pop() tea.Cmd {
	if len(m.viewStack) <= 1 {
		return nil
	}
	closeView(m.activeView())
	m.viewStack = m.viewStack[:len(m.viewStack)-1]
	if r, ok := m.activeView().(resumer); ok {
		return r.Resume()
	}
	return nil
}

func (m *appModel) quit() tea.Cmd {
	for _, v := range m.viewStack {
		closeView(v)
	}
	m.quitting = true
	return tea.Quit
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.viewStack))
	for _, v := range m.viewStack {
		cmds = append(cmds, v.Init())
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		return m, m.pop()

	case replaceViewMsg:
		if v := m.activeView(); v != nil {
			closeView(v)
			m.setActiveView(msg.view)
		} else {
			m.viewStack = append(m.viewStack, msg.view)
		}
		return m, msg.view.Init()

	case flashMsg:
		m.state.Flash = msg.text
		return m, nil

	case redrawMsg:
		return m, nil

	case targetedMsg:
		for i, v := range m.viewStack {
			if in, ok := v.(instanced); ok && in.Instance() == msg.target() {
				updated, cmd := v.Update(msg)
				m.viewStack[i] = updated.(View)
				return m, cmd
			}
		}
		// The issuing view has left the stack.
		return m, nil
	}

	// Forward to active view
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, m.quit()
	}
	m.state.Flash = ""

	// Views with a focused input receive every key.
	if v := m.activeView(); v != nil && viewCapturesInput(v) {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	switch {
	case msg.String() == "q":
		return m, m.quit()

	case msg.Type == tea.KeyEsc:
		return m, m.pop()
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	return m, nil
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if m.state.Flash != "" {
		sections = append(sections, "  "+formatter.StyleGreen.Render(m.state.Flash))
	}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("millennium")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	if len(crumbs) > 0 {
		title += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return title + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	if len(m.viewStack) > 1 {
		hints = append(hints, formatter.Dim("esc: back"))
	}
	hints = append(hints, formatter.Dim("ctrl+c: quit"))

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}
