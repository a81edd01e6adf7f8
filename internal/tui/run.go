package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run drives the TUI until the user quits or ctx ends.
func Run(ctx context.Context, svc Service) error {
	events, cancel := svc.Subscribe(64)
	defer cancel()
	p := tea.NewProgram(New(ctx, svc, events), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
