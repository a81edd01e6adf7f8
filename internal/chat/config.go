package chat

import (
	"time"

	"github.com/rs/zerolog"
)

// Fixed completion parameters for every send.
const (
	MaxTokens   = 1000
	Temperature = float32(0.7)
	TopP        = float32(0.9)
)

// Placeholders shown instead of raw engine errors.
const (
	ErrorPlaceholder      = "Error generating response"
	EmptyReplyPlaceholder = "The model returned an empty response"
	SupersededPlaceholder = "The model was replaced before it replied"
)

// Config tunes a Coordinator.
type Config struct {
	// Logger for send logging. Defaults to zerolog.Nop().
	Logger *zerolog.Logger
	// SendTimeout bounds one completion; zero means no limit beyond the caller's ctx.
	SendTimeout time.Duration
	// DropEmptyReplies appends nothing when the engine returns no text instead
	// of a system_error entry.
	DropEmptyReplies bool
}
