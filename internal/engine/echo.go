package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"chatd/pkg/types"
)

// EchoFactory builds engines that answer by echoing the message. Construction
// reports Steps progress ticks spaced by StepDelay.
type EchoFactory struct {
	Steps     int
	StepDelay time.Duration
}

// NewEchoFactory returns an EchoFactory with small defaults.
func NewEchoFactory() *EchoFactory {
	return &EchoFactory{Steps: 4, StepDelay: 100 * time.Millisecond}
}

func (f *EchoFactory) Construct(ctx context.Context, model types.Model, progress ProgressSink) (Engine, error) {
	start := time.Now()
	steps := f.Steps
	if steps <= 0 {
		steps = 1
	}
	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.StepDelay):
		}
		report(progress, start, float64(i)/float64(steps), fmt.Sprintf("echo warmup %d/%d", i, steps))
	}
	return &echoEngine{model: model.ID}, nil
}

type echoEngine struct {
	mu     sync.Mutex
	model  string
	closed bool
}

func (e *echoEngine) Complete(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return Response{}, ErrClosed
	}
	text := strings.TrimSpace(req.Message)
	words := len(strings.Fields(text))
	if req.MaxTokens > 0 && words > req.MaxTokens {
		text = strings.Join(strings.Fields(text)[:req.MaxTokens], " ")
		words = req.MaxTokens
	}
	return Response{
		Text:         text,
		FinishReason: "stop",
		Usage:        Usage{PromptTokens: words, CompletionTokens: words, TotalTokens: 2 * words},
	}, nil
}

func (e *echoEngine) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return nil
}
