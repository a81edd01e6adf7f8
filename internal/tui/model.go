package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"chatd/internal/chat"
	"chatd/internal/session"
	"chatd/pkg/types"
)

// Model is the bubbletea model. The screen follows the controller state:
// chat while an engine is ready, model selection otherwise.
type Model struct {
	ctx    context.Context
	svc    Service
	events <-chan session.Event

	models  []types.Model
	cursor  int
	status  types.StatusResponse
	entries []types.Entry
	pending string // text of the send in flight
	notice  string

	input    textinput.Model
	spinner  spinner.Model
	progress progress.Model
	width    int
	height   int
}

// New builds the model. events may be nil, in which case the screen refreshes
// only after its own actions.
func New(ctx context.Context, svc Service, events <-chan session.Event) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message"
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		ctx:      ctx,
		svc:      svc,
		events:   events,
		models:   svc.ListModels(),
		status:   svc.Status(),
		entries:  svc.Messages().Entries,
		input:    ti,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient()),
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.events != nil {
		cmds = append(cmds, waitEvent(m.events))
	}
	return tea.Batch(cmds...)
}

func (m Model) chatting() bool { return m.status.State == string(session.StateReady) }

func (m Model) loading() bool { return m.status.State == string(session.StateLoading) }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = max(10, msg.Width-10)
		m.input.Width = max(10, msg.Width-4)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.chatting() {
			return m.updateChat(msg)
		}
		return m.updateSelect(msg)

	case eventMsg:
		m.refresh()
		return m, waitEvent(m.events)

	case eventsDoneMsg:
		return m, nil

	case loadStartMsg:
		m.notice = ""
		m.refresh()
		return m, nil

	case actionErrMsg:
		m.notice = msg.err.Error()
		m.refresh()
		return m, nil

	case sendDoneMsg:
		m.pending = ""
		switch {
		case msg.err == nil:
			m.notice = ""
		case errors.Is(msg.err, chat.ErrDiscarded):
			m.notice = ""
		default:
			m.notice = msg.err.Error()
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.models)-1 {
			m.cursor++
		}
	case "enter":
		if m.loading() || len(m.models) == 0 {
			return m, nil
		}
		m.notice = ""
		return m, selectAndLoad(m.svc, m.models[m.cursor].ID)
	}
	return m, nil
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlR:
		m.svc.Reset()
		m.pending = ""
		m.notice = ""
		m.input.Reset()
		m.refresh()
		return m, nil
	case tea.KeyEnter:
		text := m.input.Value()
		if m.pending != "" || strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.pending = text
		m.input.Reset()
		return m, send(m.ctx, m.svc, text)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.svc.SetInput(m.input.Value())
	return m, cmd
}

// refresh pulls status and the conversation log from the service.
func (m *Model) refresh() {
	m.status = m.svc.Status()
	m.entries = m.svc.Messages().Entries
	if m.status.State == string(session.StateUnselected) {
		m.pending = ""
	}
}
