package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/millennium/internal/cli/formatter"
	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/alexanderramin/millennium/internal/exitcode"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Messages shared by the auth commands and the login view.
const (
	msgSignedIn       = "Signed in."
	msgSignedOut      = "Signed out."
	msgConfirmPending = "Check your email to confirm your account."
)

var errCredentialsRequired = errors.New("--email and --password are required")

// promptCredentials fills missing flags through a huh form on a terminal.
func promptCredentials(app *App, c *credentials) error {
	if c.Email != "" && c.Password != "" {
		return nil
	}
	if !app.Interactive {
		return exitcode.Wrap(exitcode.UserError, errCredentialsRequired)
	}
	return credentialsForm(c, false).Run()
}

func addCredentialFlags(fs *pflag.FlagSet, c *credentials) {
	fs.StringVar(&c.Email, "email", "", "Account email")
	fs.StringVar(&c.Password, "password", "", "Account password")
}

func newLoginCmd(app *App) *cobra.Command {
	c := credentials{Mode: modeSignIn}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptCredentials(app, &c); err != nil {
				return err
			}
			u, err := app.Services.Auth.SignIn(cmd.Context(), c.Email, c.Password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(msgSignedIn))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUser(u))
			return nil
		},
	}
	addCredentialFlags(cmd.Flags(), &c)
	return cmd
}

func newSignupCmd(app *App) *cobra.Command {
	c := credentials{Mode: modeSignUp}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptCredentials(app, &c); err != nil {
				return err
			}
			u, err := app.Services.Auth.SignUp(cmd.Context(), c.Email, c.Password)
			if err != nil {
				return err
			}
			if u == nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleYellow.Render(msgConfirmPending))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(msgSignedIn))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUser(u))
			return nil
		},
	}
	addCredentialFlags(cmd.Flags(), &c)
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Services.Auth.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(msgSignedOut))
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := currentUser(cmd.Context(), app)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUser(u))
			return nil
		},
	}
}

// currentUser resolves the session, folding store failures into
// domain.ErrNoSession the way the list guard does.
func currentUser(ctx context.Context, app *App) (*domain.User, error) {
	u, err := app.Services.Auth.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrNoSession, err)
	}
	return u, nil
}
