package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chatd/internal/session"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	spinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	frameStyle     = lipgloss.NewStyle().Padding(0, 1)
)

func (m Model) View() string {
	if m.chatting() {
		return frameStyle.Render(m.chatView())
	}
	return frameStyle.Render(m.selectView())
}

func (m Model) selectView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Select a model"))
	b.WriteString("\n\n")
	if len(m.models) == 0 {
		b.WriteString(dimStyle.Render("no models in catalog"))
		b.WriteString("\n")
	}
	for i, mdl := range m.models {
		marker := "  "
		line := mdl.ID
		if mdl.Name != "" && mdl.Name != mdl.ID {
			line = fmt.Sprintf("%s (%s)", mdl.Name, mdl.ID)
		}
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
			line = cursorStyle.Render(line)
		}
		b.WriteString(marker + line + "\n")
	}
	b.WriteString("\n")

	switch m.status.State {
	case string(session.StateLoading):
		frac := 0.0
		text := "starting"
		if p := m.status.Progress; p != nil {
			frac, text = p.Fraction, p.Text
		}
		fmt.Fprintf(&b, "%s Loading %s: %s\n", m.spinner.View(), m.status.Selected, text)
		b.WriteString(m.progress.ViewAs(frac))
		b.WriteString("\n")
	case string(session.StateFailed):
		b.WriteString(errorStyle.Render("✗ Failed to load " + m.status.Selected + ": " + m.status.LastError))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(errorStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("↑/↓ move • enter load • q quit"))
	return b.String()
}

func (m Model) chatView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Chat with " + m.status.Loaded))
	b.WriteString("\n\n")

	lines := make([]string, 0, len(m.entries)+1)
	for _, e := range m.entries {
		lines = append(lines, renderEntry(e.Speaker, e.Text))
	}
	if m.pending != "" && !m.entriesEndWith(m.pending) {
		lines = append(lines, renderEntry("user", m.pending))
	}
	if m.pending != "" {
		lines = append(lines, m.spinner.View()+dimStyle.Render(" thinking"))
	}
	// keep the tail visible; header, input and help take six lines
	if room := m.height - 6; room > 0 && len(lines) > room {
		lines = lines[len(lines)-room:]
	}
	for _, l := range lines {
		b.WriteString(l + "\n")
	}
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(errorStyle.Render(m.notice) + "\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter send • ctrl+r change model • ctrl+c quit"))
	return b.String()
}

func (m Model) entriesEndWith(text string) bool {
	n := len(m.entries)
	return n > 0 && m.entries[n-1].Speaker == "user" && m.entries[n-1].Text == text
}

func renderEntry(speaker, text string) string {
	switch speaker {
	case "user":
		return userStyle.Render("you: ") + text
	case "assistant":
		return assistantStyle.Render("model: ") + text
	default:
		return errorStyle.Render("! " + text)
	}
}
