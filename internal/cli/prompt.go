package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/tasker/internal/cli/formatter"
	"github.com/alexanderramin/tasker/internal/domain"
)

// taskerHuhTheme returns a huh theme using the formatter palette.
func taskerHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validatePassword(s string) error {
	if len(s) == 0 {
		return fmt.Errorf("password is required")
	}
	return nil
}

// promptSecret reads a secret without echo. It refuses when stdin is not a
// terminal so scripts fail instead of hanging.
func promptSecret(app *App, title string) (string, error) {
	if !app.interactive() {
		return "", fmt.Errorf("%w: %s required (pass --password)", domain.ErrInvalidInput, title)
	}
	var value string
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			EchoMode(huh.EchoModePassword).
			Validate(validatePassword).
			Value(&value),
	)).WithTheme(taskerHuhTheme()).Run()
	if err != nil {
		return "", err
	}
	return value, nil
}

// confirm asks a yes/no question; non-interactive sessions need --yes.
func confirm(app *App, title string) (bool, error) {
	if !app.interactive() {
		return false, fmt.Errorf("%w: refusing to %s without --yes", domain.ErrInvalidInput, title)
	}
	ok := false
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title + "?").Value(&ok),
	)).WithTheme(taskerHuhTheme()).Run()
	return ok, err
}
