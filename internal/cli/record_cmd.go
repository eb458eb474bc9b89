package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alexanderramin/millennium/internal/cli/formatter"
	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/alexanderramin/millennium/internal/editor"
	"github.com/alexanderramin/millennium/internal/exitcode"
	"github.com/spf13/cobra"
)

// newRecordCmd builds "projects" or "tasks" with list/add/rename/rm. Every
// subcommand runs the same guarded editor the TUI uses.
func newRecordCmd(app *App, res domain.Resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:     res.Name,
		Aliases: []string{res.Noun()},
		Short:   "Manage your " + strings.ToLower(res.Plural),
	}

	cmd.AddCommand(
		newRecordListCmd(app, res),
		newRecordAddCmd(app, res),
		newRecordRenameCmd(app, res),
		newRecordRemoveCmd(app, res),
	)

	return cmd
}

// openEditor guards the session and, when load is set, fetches the rows.
func openEditor(ctx context.Context, app *App, res domain.Resource, w io.Writer, load bool) (*editor.Editor, error) {
	ed := app.newEditor(res)
	if _, err := ed.Guard(ctx); err != nil {
		return nil, err
	}
	if !load {
		return ed, nil
	}

	var spin io.Writer
	if app.Interactive {
		spin = w
	}
	stop := formatter.StartSpinner(spin, "Loading "+strings.ToLower(res.Plural)+"...")
	err := ed.Load(ctx)
	stop()
	if err != nil {
		return nil, err
	}
	return ed, nil
}

func parseRecordID(res domain.Resource, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, exitcode.Wrap(exitcode.UserError, fmt.Errorf("invalid %s id %q", res.Noun(), s))
	}
	return id, nil
}

func printNotice(w io.Writer, ed *editor.Editor) {
	if text, _ := ed.Notice(); text != "" {
		fmt.Fprintln(w, formatter.Success(text))
	}
}

func newRecordListCmd(app *App, res domain.Resource) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your " + strings.ToLower(res.Plural),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := openEditor(cmd.Context(), app, res, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecordList(res, ed.Items()))
			return nil
		},
	}
}

func newRecordAddCmd(app *App, res domain.Resource) *cobra.Command {
	return &cobra.Command{
		Use:   "add <" + res.DisplayField + ">",
		Short: "Add a " + res.Noun(),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := openEditor(cmd.Context(), app, res, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			if err := ed.Create(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}
			printNotice(cmd.OutOrStdout(), ed)
			items := ed.Items()
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecord(items[len(items)-1]))
			return nil
		},
	}
}

func newRecordRenameCmd(app *App, res domain.Resource) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <" + res.DisplayField + ">",
		Short: "Change a " + res.Noun() + "'s " + res.DisplayField,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecordID(res, args[0])
			if err != nil {
				return err
			}
			ed, err := openEditor(cmd.Context(), app, res, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			if err := ed.StartEdit(id); err != nil {
				return fmt.Errorf("%s %d: %w", res.Noun(), id, err)
			}
			ed.SetDraft(strings.Join(args[1:], " "))
			if err := ed.Save(cmd.Context()); err != nil {
				return err
			}
			printNotice(cmd.OutOrStdout(), ed)
			if rec, ok := ed.Find(id); ok {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecord(rec))
			}
			return nil
		},
	}
}

func newRecordRemoveCmd(app *App, res domain.Resource) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a " + res.Noun(),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecordID(res, args[0])
			if err != nil {
				return err
			}
			ed, err := openEditor(cmd.Context(), app, res, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			if err := ed.Delete(cmd.Context(), id); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("%s %d: %w", res.Noun(), id, err)
				}
				return err
			}
			printNotice(cmd.OutOrStdout(), ed)
			return nil
		},
	}
}
