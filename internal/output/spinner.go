package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// SpinnerOption configures a spinner.
type SpinnerOption func(*spinnerConfig)

type spinnerConfig struct {
	title string
}

// WithTitle sets the spinner title.
func WithTitle(title string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.title = title
	}
}

// RunWithSpinner executes action while showing a spinner on stderr.
// Without a terminal the action runs directly. The action's error is
// returned; cancelling ctx stops the spinner and is left to the action
// to observe.
func RunWithSpinner(ctx context.Context, action func(context.Context) error, opts ...SpinnerOption) error {
	cfg := &spinnerConfig{title: "Working..."}
	for _, opt := range opts {
		opt(cfg)
	}

	if !IsTTY() {
		return action(ctx)
	}

	var actionErr error
	err := spinner.New().
		Title(cfg.title).
		Context(ctx).
		Action(func() {
			actionErr = action(ctx)
		}).
		Run()
	if err != nil && actionErr == nil {
		return fmt.Errorf("spinner error: %w", err)
	}
	return actionErr
}
