// Package chat sequences single-turn completion requests against the ready
// engine and keeps the ordered conversation log.
package chat

import "chatd/pkg/types"

// Speaker tags who produced an entry.
type Speaker string

const (
	SpeakerUser        Speaker = "user"
	SpeakerAssistant   Speaker = "assistant"
	SpeakerSystemError Speaker = "system_error"
)

// Entry is one conversation log entry. Position is append order.
type Entry struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// View converts e to its wire form.
func (e Entry) View() types.Entry {
	return types.Entry{Speaker: string(e.Speaker), Text: e.Text}
}

// Views converts entries to their wire form.
func Views(entries []Entry) []types.Entry {
	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = e.View()
	}
	return out
}
