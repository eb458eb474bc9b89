package cli

import (
	"fmt"

	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/alexanderramin/millennium/internal/exitcode"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [projects|tasks]",
		Short: "Open the interactive editor, optionally on a list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var open []domain.Resource
			if len(args) == 1 {
				res, ok := domain.LookupResource(args[0])
				if !ok {
					return exitcode.Wrap(exitcode.UserError, fmt.Errorf("unknown list %q", args[0]))
				}
				open = append(open, res)
			}
			return runTUI(app, open...)
		},
	}
}

// runTUI runs the app model until the user quits.
func runTUI(app *App, open ...domain.Resource) error {
	m := newAppModel(app, open...)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.state.SetNotifier(p.Send)
	defer m.state.SetNotifier(nil)

	_, err := p.Run()
	return err
}
