package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Run starts the Bubble Tea TUI program and blocks until the user quits or
// ctx is cancelled. Any pending frame is cancelled on the way out.
func Run(ctx context.Context, opts Options) error {
	model := NewModel(opts)
	defer model.Timer().Stop()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Silence external logs during TUI to avoid corrupting the view.
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(prevOut)

	_, err := p.Run()
	if ctx.Err() != nil {
		// Cancellation is a normal way out, not a failure.
		return nil
	}
	return err
}
