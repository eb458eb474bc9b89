package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/millennium/internal/cli/formatter"
	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// authResultMsg carries the result of a SignIn or SignUp call.
type authResultMsg struct {
	inst  int
	mode  authMode
	email string
	user  *domain.User
	err   error
}

func (m authResultMsg) target() int { return m.inst }

// submitAuth signs in or signs up with c.
func submitAuth(app *App, inst int, c credentials) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var (
			u   *domain.User
			err error
		)
		if c.Mode == modeSignUp {
			u, err = app.Services.Auth.SignUp(ctx, c.Email, c.Password)
		} else {
			u, err = app.Services.Auth.SignIn(ctx, c.Email, c.Password)
		}
		return authResultMsg{inst: inst, mode: c.Mode, email: c.Email, user: u, err: err}
	}
}

// loginView wraps the credentials form. After a successful sign-in it
// replaces itself with the screen that redirected here, or pops back.
type loginView struct {
	state *SharedState
	inst  int
	creds *credentials
	form  *huh.Form
	next  func() View

	busy bool
	err  string
	info string
}

func newLoginView(state *SharedState, next func() View) *loginView {
	v := &loginView{
		state: state,
		inst:  state.nextInstance(),
		creds: &credentials{Mode: modeSignIn},
		next:  next,
	}
	v.form = credentialsForm(v.creds, true)
	return v
}

func (v *loginView) ID() ViewID          { return ViewLogin }
func (v *loginView) Title() string       { return "Sign in" }
func (v *loginView) Instance() int       { return v.inst }
func (v *loginView) CapturesInput() bool { return true }

func (v *loginView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (v *loginView) Init() tea.Cmd {
	return v.form.Init()
}

// resetForm rebuilds the form for another attempt with email prefilled.
func (v *loginView) resetForm(mode authMode, email string) tea.Cmd {
	v.creds = &credentials{Mode: mode, Email: email}
	v.form = credentialsForm(v.creds, true)
	return v.form.Init()
}

func (v *loginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		return v, v.applyResult(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return v, popView()
		}
		if v.busy {
			return v, nil
		}
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted && !v.busy {
		v.busy = true
		v.err = ""
		v.info = ""
		return v, tea.Batch(cmd, submitAuth(v.state.App, v.inst, *v.creds))
	}
	return v, cmd
}

func (v *loginView) applyResult(msg authResultMsg) tea.Cmd {
	v.busy = false
	if msg.err != nil {
		v.err = msg.err.Error()
		return v.resetForm(msg.mode, msg.email)
	}
	if msg.user == nil {
		v.info = msgConfirmPending
		return v.resetForm(modeSignIn, msg.email)
	}

	nav := popView()
	if v.next != nil {
		nav = replaceView(v.next())
	}
	return tea.Batch(flash(msgSignedIn), nav)
}

func (v *loginView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	if v.info != "" {
		b.WriteString("  " + formatter.StyleYellow.Render(v.info) + "\n\n")
	}
	if v.err != "" {
		b.WriteString("  " + formatter.Error(v.err) + "\n\n")
	}
	if v.busy {
		b.WriteString("  " + formatter.Dim("Signing in...") + "\n")
		return b.String()
	}
	b.WriteString(v.form.View())
	return b.String()
}
