// Package tui wraps the interactive surface: terminal detection, the
// confirmation prompt, and the scan spinner.
package tui

import (
	"context"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// Confirm shows a yes/no confirmation prompt.
func Confirm(title, description string) (bool, error) {
	var answer bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&answer),
		),
	).WithTheme(huh.ThemeBase())

	if err := form.Run(); err != nil {
		return false, err
	}
	return answer, nil
}

// WithSpinner runs fn behind a spinner when the terminal is interactive,
// and plainly otherwise.
func WithSpinner(ctx context.Context, title string, fn func() error) error {
	if !IsInteractive() {
		return fn()
	}

	var runErr error
	if err := spinner.New().
		Title(title).
		Context(ctx).
		Action(func() { runErr = fn() }).
		Run(); err != nil {
		return err
	}
	return runErr
}
