// Package engine defines the inference capability consumed by the session
// controller and provides the concrete backends:
//
//   - llama.go / llama_stub.go: in-process go-llama.cpp, enabled with `-tags=llama`.
//   - genai.go: Google Gemini through google.golang.org/genai.
//   - echo.go: deterministic backend for development and tests.
//
// The session package treats an Engine as opaque: it builds one through a
// Factory, forwards progress, and calls Complete once per chat send.
package engine

import (
	"context"
	"time"

	"chatd/pkg/types"
)

// Progress is a best-effort load progress notification. Fraction is in [0,1]
// when the backend can estimate it, otherwise 0.
type Progress struct {
	Fraction float64
	Text     string
	Elapsed  time.Duration
}

// ProgressSink receives progress values while a Factory constructs an engine.
// It may be called zero or more times and must not block for long.
type ProgressSink func(Progress)

// Factory builds engines. Construct may run for minutes (weights, compilation)
// and must return when ctx is canceled.
type Factory interface {
	Construct(ctx context.Context, model types.Model, progress ProgressSink) (Engine, error)
}

// Engine is a constructed model runtime.
type Engine interface {
	// Complete runs one single-turn completion for req.Message.
	Complete(ctx context.Context, req Request) (Response, error)
	// Close releases any resources associated with the engine.
	Close() error
}

// Request is a single-message completion request with sampling parameters.
type Request struct {
	Message     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// Response is the result of a completion. Text may be empty.
type Response struct {
	Text         string
	FinishReason string
	Usage        Usage
}

// Usage contains token accounting when the backend reports it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// FactoryFunc adapts a plain function to the Factory interface.
type FactoryFunc func(ctx context.Context, model types.Model, progress ProgressSink) (Engine, error)

func (f FactoryFunc) Construct(ctx context.Context, model types.Model, progress ProgressSink) (Engine, error) {
	return f(ctx, model, progress)
}

// report calls sink if set.
func report(sink ProgressSink, start time.Time, fraction float64, text string) {
	if sink == nil {
		return
	}
	sink(Progress{Fraction: fraction, Text: text, Elapsed: time.Since(start)})
}
