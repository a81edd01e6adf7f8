package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"chatd/internal/engine"
	"chatd/internal/session"
)

// Sessions is the part of the lifecycle controller the coordinator relies on.
type Sessions interface {
	Acquire() (*session.Lease, error)
}

// Coordinator owns the conversation log and the single-turn send protocol.
// Only one send may wait on the engine at a time; a second one is rejected
// with ErrBusy rather than queued.
type Coordinator struct {
	mu        sync.Mutex
	sessions  Sessions
	log       zerolog.Logger
	timeout   time.Duration
	dropEmpty bool

	entries  []Entry
	input    string
	epoch    uint64
	inflight bool
}

// Reply lists the entries appended by one send, in order.
type Reply struct {
	Appended []Entry
}

// New returns a Coordinator with an empty log.
func New(sessions Sessions, cfg Config) *Coordinator {
	c := &Coordinator{
		sessions:  sessions,
		timeout:   cfg.SendTimeout,
		dropEmpty: cfg.DropEmptyReplies,
	}
	if cfg.Logger != nil {
		c.log = cfg.Logger.With().Str("component", "chat").Logger()
	} else {
		c.log = zerolog.Nop()
	}
	return c
}

// Send appends a user entry for text, clears the pending input and asks the
// engine for exactly one completion of that single message. The reply (or a
// system_error placeholder) is appended when it arrives, unless the log was
// cleared or the engine replaced meanwhile.
func (c *Coordinator) Send(ctx context.Context, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		sendsTotal.WithLabelValues("rejected").Inc()
		return Reply{}, ErrEmptyMessage
	}
	lease, err := c.sessions.Acquire()
	if err != nil {
		sendsTotal.WithLabelValues("rejected").Inc()
		return Reply{}, ErrNotReady
	}
	defer lease.Release()

	c.mu.Lock()
	if c.inflight {
		c.mu.Unlock()
		sendsTotal.WithLabelValues("rejected").Inc()
		return Reply{}, ErrBusy
	}
	// A reset between Acquire and here has already cleared the log.
	if !lease.Current() {
		c.mu.Unlock()
		sendsTotal.WithLabelValues("rejected").Inc()
		return Reply{}, ErrNotReady
	}
	c.inflight = true
	user := Entry{Speaker: SpeakerUser, Text: text}
	c.entries = append(c.entries, user)
	c.input = ""
	epoch := c.epoch
	c.mu.Unlock()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	start := time.Now()
	resp, err := lease.Engine().Complete(ctx, engine.Request{
		Message:     text,
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
		TopP:        TopP,
	})
	dur := time.Since(start)
	completionDuration.Observe(dur.Seconds())

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		sendsTotal.WithLabelValues("discarded").Inc()
		c.log.Info().Str("event", "send_discarded").Str("model", lease.ModelID()).Uint64("gen", lease.Generation()).Send()
		return Reply{}, ErrDiscarded
	}
	if !lease.Current() {
		// The log survived a reload; close the user entry so it is not left unanswered.
		c.inflight = false
		sendsTotal.WithLabelValues("discarded").Inc()
		c.log.Info().Str("event", "send_discarded").Str("model", lease.ModelID()).Uint64("gen", lease.Generation()).Send()
		notice := Entry{Speaker: SpeakerSystemError, Text: SupersededPlaceholder}
		c.entries = append(c.entries, notice)
		return Reply{Appended: []Entry{user, notice}}, ErrDiscarded
	}
	c.inflight = false

	var reply Entry
	switch {
	case err != nil:
		sendsTotal.WithLabelValues("error").Inc()
		c.log.Warn().Str("event", "send_error").Str("model", lease.ModelID()).Dur("dur", dur).Err(err).Send()
		reply = Entry{Speaker: SpeakerSystemError, Text: ErrorPlaceholder}
	case resp.Text == "":
		sendsTotal.WithLabelValues("empty").Inc()
		c.log.Warn().Str("event", "send_empty_reply").Str("model", lease.ModelID()).Str("finish_reason", resp.FinishReason).Send()
		if c.dropEmpty {
			return Reply{Appended: []Entry{user}}, nil
		}
		reply = Entry{Speaker: SpeakerSystemError, Text: EmptyReplyPlaceholder}
	default:
		sendsTotal.WithLabelValues("reply").Inc()
		c.log.Info().Str("event", "send_reply").Str("model", lease.ModelID()).Dur("dur", dur).Int("chars", len(resp.Text)).Send()
		reply = Entry{Speaker: SpeakerAssistant, Text: resp.Text}
	}
	c.entries = append(c.entries, reply)
	return Reply{Appended: []Entry{user, reply}}, nil
}

// Submit sends the pending input buffer.
func (c *Coordinator) Submit(ctx context.Context) (Reply, error) {
	return c.Send(ctx, c.Input())
}

// Clear empties the log and the input buffer. Replies still in flight are
// discarded when they arrive.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	c.entries = nil
	c.input = ""
	c.epoch++
	c.inflight = false
	c.mu.Unlock()
	c.log.Debug().Str("event", "clear").Send()
}

// SetInput replaces the pending input buffer.
func (c *Coordinator) SetInput(s string) {
	c.mu.Lock()
	c.input = s
	c.mu.Unlock()
}

// Input returns the pending input buffer.
func (c *Coordinator) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Entries returns a copy of the log.
func (c *Coordinator) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of log entries.
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Pending reports whether a send is waiting on the engine.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight
}
