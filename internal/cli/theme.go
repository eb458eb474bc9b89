package cli

import (
	"errors"
	"strings"

	"github.com/alexanderramin/millennium/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// millenniumHuhTheme returns a huh theme using the formatter's Gruvbox palette.
func millenniumHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// authMode selects between signing in and creating an account.
type authMode string

const (
	modeSignIn authMode = "signin"
	modeSignUp authMode = "signup"
)

// credentials is the value bag filled by the credentials form.
type credentials struct {
	Mode     authMode
	Email    string
	Password string
}

func validateEmail(s string) error {
	if !strings.Contains(strings.TrimSpace(s), "@") {
		return errors.New("enter an email address")
	}
	return nil
}

func validatePassword(s string) error {
	if s == "" {
		return errors.New("enter a password")
	}
	return nil
}

// credentialsForm builds the email/password form. With chooseMode the first
// field picks sign-in or sign-up.
func credentialsForm(c *credentials, chooseMode bool) *huh.Form {
	var fields []huh.Field
	if chooseMode {
		fields = append(fields, huh.NewSelect[authMode]().
			Title("Account").
			Options(
				huh.NewOption("Sign in", modeSignIn),
				huh.NewOption("Create an account", modeSignUp),
			).
			Value(&c.Mode))
	}
	fields = append(fields,
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&c.Email).
			Validate(validateEmail),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&c.Password).
			Validate(validatePassword),
	)

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(millenniumHuhTheme()).
		WithShowHelp(false)
}
