package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"chatd/internal/session"
	"chatd/pkg/types"
)

type (
	eventMsg      session.Event
	eventsDoneMsg struct{}
	loadStartMsg  types.LoadResponse
	actionErrMsg  struct{ err error }
	sendDoneMsg   struct {
		resp types.SendResponse
		err  error
	}
)

// waitEvent blocks for the next controller event.
func waitEvent(ch <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsDoneMsg{}
		}
		return eventMsg(ev)
	}
}

func selectAndLoad(svc Service, id string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Select(id); err != nil {
			return actionErrMsg{err}
		}
		resp, err := svc.Load()
		if err != nil {
			return actionErrMsg{err}
		}
		return loadStartMsg(resp)
	}
}

func send(ctx context.Context, svc Service, text string) tea.Cmd {
	return func() tea.Msg {
		resp, err := svc.Send(ctx, text)
		return sendDoneMsg{resp: resp, err: err}
	}
}
