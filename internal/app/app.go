// Package app binds the engine lifecycle controller and the conversation
// coordinator into the surface the HTTP API, the TUI and the CLI share.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"chatd/internal/chat"
	"chatd/internal/engine"
	"chatd/internal/session"
	"chatd/pkg/types"
)

// Config wires an App.
type Config struct {
	Catalog     []types.Model
	Factory     engine.Factory
	Logger      *zerolog.Logger
	LoadTimeout time.Duration
	SendTimeout time.Duration
	// DropEmptyReplies is passed through to the coordinator.
	DropEmptyReplies bool
	// Publisher receives controller events in addition to the App's own
	// broadcaster. Optional.
	Publisher session.EventPublisher
}

// App owns one controller and one coordinator. A reset of the controller
// always clears the conversation.
type App struct {
	ctrl  *session.Controller
	conv  *chat.Coordinator
	bc    *session.Broadcaster
	start time.Time
}

// New builds an App in state unselected with an empty conversation.
func New(cfg Config) *App {
	bc := session.NewBroadcaster()
	pub := session.MultiPublisher{bc}
	if cfg.Publisher != nil {
		pub = append(pub, cfg.Publisher)
	}
	ctrl := session.New(session.Config{
		Catalog:     cfg.Catalog,
		Factory:     cfg.Factory,
		Publisher:   pub,
		Logger:      cfg.Logger,
		LoadTimeout: cfg.LoadTimeout,
	})
	conv := chat.New(ctrl, chat.Config{
		Logger:           cfg.Logger,
		SendTimeout:      cfg.SendTimeout,
		DropEmptyReplies: cfg.DropEmptyReplies,
	})
	ctrl.OnReset(conv.Clear)
	return &App{ctrl: ctrl, conv: conv, bc: bc, start: time.Now()}
}

func (a *App) ListModels() []types.Model { return a.ctrl.ListModels() }

// Status merges the lifecycle snapshot with conversation counters.
func (a *App) Status() types.StatusResponse {
	st := a.ctrl.Status()
	st.Pending = a.conv.Pending()
	st.Entries = a.conv.Len()
	st.UptimeSeconds = int64(time.Since(a.start).Seconds())
	st.ServerTimeUnix = time.Now().Unix()
	return st
}

func (a *App) Select(modelID string) error { return a.ctrl.Select(modelID) }

// Load starts loading the selected model and returns without waiting.
func (a *App) Load() (types.LoadResponse, error) {
	op, err := a.ctrl.Load()
	if err != nil {
		return types.LoadResponse{}, err
	}
	return types.LoadResponse{OperationID: op.ID, Generation: op.Generation, Model: op.ModelID}, nil
}

// LoadAndWait starts a load and blocks until it resolves or ctx ends.
func (a *App) LoadAndWait(ctx context.Context) error {
	op, err := a.ctrl.Load()
	if err != nil {
		return err
	}
	return op.Wait(ctx)
}

func (a *App) Reset() { a.ctrl.Reset() }

// Send sends message, or the pending input buffer when message is empty.
func (a *App) Send(ctx context.Context, message string) (types.SendResponse, error) {
	var (
		reply chat.Reply
		err   error
	)
	if message == "" {
		reply, err = a.conv.Submit(ctx)
	} else {
		reply, err = a.conv.Send(ctx, message)
	}
	if err != nil {
		return types.SendResponse{}, err
	}
	return types.SendResponse{Appended: chat.Views(reply.Appended)}, nil
}

func (a *App) SetInput(text string) { a.conv.SetInput(text) }

func (a *App) Messages() types.MessagesResponse {
	return types.MessagesResponse{
		Entries: chat.Views(a.conv.Entries()),
		Input:   a.conv.Input(),
		Pending: a.conv.Pending(),
	}
}

func (a *App) Ready() bool { return a.ctrl.Ready() }

// Subscribe streams controller events until cancel is called.
func (a *App) Subscribe(buffer int) (<-chan session.Event, func()) {
	return a.bc.Subscribe(buffer)
}

// Close resets the controller and waits for background work.
func (a *App) Close() error { return a.ctrl.Close() }
