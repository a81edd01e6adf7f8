package chat

import "errors"

// Send rejections. A rejected send appends nothing to the log.
var (
	// ErrEmptyMessage is returned for messages that are blank after trimming.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNotReady is returned when no engine is ready.
	ErrNotReady = errors.New("engine not ready")
	// ErrBusy is returned while another send is waiting on the engine.
	ErrBusy = errors.New("a message is already in flight")
	// ErrDiscarded is returned when the log was cleared or the engine replaced
	// while the completion ran. Its result was dropped. After a reload the
	// user entry is closed with SupersededPlaceholder.
	ErrDiscarded = errors.New("reply discarded: engine was reset or replaced")
)
