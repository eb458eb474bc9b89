package cli

import (
	"fmt"

	"github.com/alexanderramin/millennium/internal/cli/formatter"
	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// profileView shows the signed-in account, redirecting to sign-in without
// a session.
type profileView struct {
	state *SharedState
	inst  int
	user  *domain.User
}

func newProfileView(state *SharedState) *profileView {
	return &profileView{state: state, inst: state.nextInstance()}
}

func (v *profileView) ID() ViewID    { return ViewProfile }
func (v *profileView) Title() string { return "Profile" }
func (v *profileView) Instance() int { return v.inst }

func (v *profileView) ShortHelp() []key.Binding { return nil }

func (v *profileView) Init() tea.Cmd {
	return checkSession(v.state.App, v.inst)
}

func (v *profileView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(sessionCheckedMsg); ok {
		if msg.err != nil || msg.user == nil {
			state := v.state
			return v, replaceView(newLoginView(state, func() View { return newProfileView(state) }))
		}
		v.user = msg.user
	}
	return v, nil
}

func (v *profileView) View() string {
	if v.user == nil {
		return "\n  " + formatter.Dim("Checking session...")
	}
	content := fmt.Sprintf("%s  %s\n%s  %s",
		formatter.Dim("Email"), formatter.Bold(v.user.Email),
		formatter.Dim("ID   "), formatter.StyleFg.Render(v.user.ID),
	)
	return formatter.RenderBox("Profile", content)
}
