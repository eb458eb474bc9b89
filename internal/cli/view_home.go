package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/millennium/internal/cli/formatter"
	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// sessionCheckedMsg carries the result of a CurrentUser call.
type sessionCheckedMsg struct {
	inst int
	user *domain.User
	err  error
}

func (m sessionCheckedMsg) target() int { return m.inst }

// signedOutMsg carries the result of a SignOut call.
type signedOutMsg struct {
	inst int
	err  error
}

func (m signedOutMsg) target() int { return m.inst }

func checkSession(app *App, inst int) tea.Cmd {
	return func() tea.Msg {
		u, err := app.Services.Auth.CurrentUser(context.Background())
		return sessionCheckedMsg{inst: inst, user: u, err: err}
	}
}

type homeEntry struct {
	key   string
	label string
}

// homeView is the landing screen: who is signed in and where to go.
type homeView struct {
	state   *SharedState
	inst    int
	user    *domain.User
	checked bool
	err     string
	cursor  int
}

func newHomeView(state *SharedState) *homeView {
	return &homeView{state: state, inst: state.nextInstance()}
}

func (v *homeView) ID() ViewID    { return ViewHome }
func (v *homeView) Title() string { return "" }
func (v *homeView) Instance() int { return v.inst }

func (v *homeView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (v *homeView) Init() tea.Cmd {
	return checkSession(v.state.App, v.inst)
}

func (v *homeView) Resume() tea.Cmd {
	return checkSession(v.state.App, v.inst)
}

func (v *homeView) entries() []homeEntry {
	var out []homeEntry
	for _, res := range domain.Resources() {
		out = append(out, homeEntry{key: strings.ToLower(res.Plural[:1]), label: res.Plural})
	}
	out = append(out, homeEntry{key: "u", label: "Profile"})
	if v.user != nil {
		out = append(out, homeEntry{key: "o", label: "Sign out"})
	} else {
		out = append(out, homeEntry{key: "l", label: "Sign in"})
	}
	return out
}

func (v *homeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionCheckedMsg:
		v.checked = true
		v.user = nil
		if msg.err == nil {
			v.user = msg.user
		}
		v.cursor = min(v.cursor, len(v.entries())-1)
		return v, nil

	case signedOutMsg:
		if msg.err != nil {
			v.err = msg.err.Error()
			return v, nil
		}
		v.user = nil
		v.err = ""
		v.cursor = min(v.cursor, len(v.entries())-1)
		return v, flash(msgSignedOut)

	case tea.KeyMsg:
		entries := v.entries()
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
			return v, nil
		case "down", "j":
			if v.cursor < len(entries)-1 {
				v.cursor++
			}
			return v, nil
		case "enter":
			return v, v.open(entries[v.cursor].key)
		default:
			return v, v.open(msg.String())
		}
	}
	return v, nil
}

// open runs the entry bound to k.
func (v *homeView) open(k string) tea.Cmd {
	for _, res := range domain.Resources() {
		if k == strings.ToLower(res.Plural[:1]) {
			return pushView(newListView(v.state, res))
		}
	}
	switch k {
	case "u":
		return pushView(newProfileView(v.state))
	case "l":
		return pushView(newLoginView(v.state, nil))
	case "o":
		if v.user == nil {
			return nil
		}
		app, inst := v.state.App, v.inst
		return func() tea.Msg {
			return signedOutMsg{inst: inst, err: app.Services.Auth.SignOut(context.Background())}
		}
	}
	return nil
}

func (v *homeView) View() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case !v.checked:
		b.WriteString("  " + formatter.Dim("Checking session...") + "\n")
	default:
		b.WriteString("  " + formatter.FormatUser(v.user) + "\n")
	}
	if v.err != "" {
		b.WriteString("  " + formatter.Error(v.err) + "\n")
	}
	b.WriteString("\n")

	for i, e := range v.entries() {
		cursor := "  "
		label := formatter.StyleFg.Render(e.label)
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			label = formatter.Bold(e.label)
		}
		b.WriteString("  " + cursor + formatter.StyleYellow.Render(e.key) + "  " + label + "\n")
	}

	return b.String()
}
