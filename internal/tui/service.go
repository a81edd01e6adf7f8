// Package tui is the terminal front end: a model-selection screen with load
// progress and a chat screen over the ready engine.
package tui

import (
	"context"

	"chatd/internal/session"
	"chatd/pkg/types"
)

// Service is what the TUI drives; *app.App satisfies it.
type Service interface {
	ListModels() []types.Model
	Status() types.StatusResponse
	Select(modelID string) error
	Load() (types.LoadResponse, error)
	Reset()
	Send(ctx context.Context, message string) (types.SendResponse, error)
	SetInput(text string)
	Messages() types.MessagesResponse
	Subscribe(buffer int) (<-chan session.Event, func())
}
