// Package cli is the millennium front end: cobra subcommands for scripting and
// a bubbletea TUI for interactive editing.
package cli

import (
	"time"

	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/alexanderramin/millennium/internal/editor"
	"github.com/alexanderramin/millennium/internal/service"
	"github.com/spf13/cobra"
)

// DefaultNoticeDelay is how long success notices stay on a list screen.
const DefaultNoticeDelay = 3 * time.Second

// App holds the services and settings shared by commands and views.
type App struct {
	Services *service.Services

	// Editor configures every list editor the app creates.
	Editor editor.Options

	// NoticeDelay defaults to DefaultNoticeDelay when zero.
	NoticeDelay time.Duration

	// Interactive enables prompts, spinners and the TUI.
	Interactive bool
}

func (a *App) newEditor(res domain.Resource) *editor.Editor {
	return editor.New(a.Services.Auth, a.Services.Records(res), a.Editor)
}

func (a *App) noticeDelay() time.Duration {
	if a.NoticeDelay <= 0 {
		return DefaultNoticeDelay
	}
	return a.NoticeDelay
}

// NewRootCmd creates the top-level "millennium" command and registers all
// subcommands against the provided App. Without a subcommand it opens the TUI
// on a terminal and prints help otherwise.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "millennium",
		Short:         "Manage your projects and tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Interactive {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newLoginCmd(app),
		newSignupCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newTUICmd(app),
	)
	for _, res := range domain.Resources() {
		root.AddCommand(newRecordCmd(app, res))
	}

	return root
}
