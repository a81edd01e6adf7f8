//go:build llama

package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	llama "github.com/go-skynet/go-llama.cpp"

	"chatd/pkg/types"
)

// llamaBuilt indicates this binary was compiled with real llama support.
const llamaBuilt = true

// llamaFactory holds global config used to initialize a model.
type llamaFactory struct {
	ctxSize   int
	threads   int
	gpuLayers int
}

// NewLlamaFactory returns a Factory backed by in-process llama.cpp.
func NewLlamaFactory(ctxSize, threads, gpuLayers int) Factory {
	return &llamaFactory{ctxSize: ctxSize, threads: threads, gpuLayers: gpuLayers}
}

// llamaEngine owns the loaded model. Predict is not re-entrant, so calls are serialized.
type llamaEngine struct {
	mu      sync.Mutex
	model   *llama.LLama
	threads int
}

func (f *llamaFactory) Construct(ctx context.Context, model types.Model, progress ProgressSink) (Engine, error) {
	if strings.TrimSpace(model.Path) == "" {
		return nil, errors.New("model path is empty")
	}
	start := time.Now()
	report(progress, start, 0, "loading "+model.Path)
	mo := []llama.ModelOption{llama.SetContext(zn(f.ctxSize, 2048))}
	if f.gpuLayers > 0 {
		mo = append(mo, llama.SetGPULayers(f.gpuLayers))
	}
	// llama.New cannot be interrupted; honor cancellation once it returns.
	m, err := llama.New(model.Path, mo...)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		m.Free()
		return nil, err
	}
	report(progress, start, 1, "model loaded")
	return &llamaEngine{model: m, threads: f.threads}, nil
}

func (e *llamaEngine) Complete(ctx context.Context, req Request) (Response, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return Response{}, ErrClosed
	}
	// Bridge cancellation into the token callback; returning false stops generation.
	e.model.SetTokenCallback(func(string) bool {
		return ctx.Err() == nil
	})
	text, err := e.model.Predict(req.Message, predictOptions(req, e.threads)...)
	if err != nil {
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		return Response{}, err
	}
	return Response{Text: text, FinishReason: "stop"}, nil
}

func (e *llamaEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil {
		e.model.Free()
		e.model = nil
	}
	return nil
}

// predictOptions converts a Request into go-llama.cpp options.
func predictOptions(req Request, threads int) []llama.PredictOption {
	return []llama.PredictOption{
		llama.SetTokens(max(1, req.MaxTokens)),
		llama.SetThreads(max(1, threads)),
		llama.SetTopP(zf(req.TopP, llama.DefaultOptions.TopP)),
		llama.SetTopK(llama.DefaultOptions.TopK),
		llama.SetTemperature(zf(req.Temperature, llama.DefaultOptions.Temperature)),
		llama.SetPenalty(llama.DefaultOptions.Penalty),
	}
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func zf(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}
