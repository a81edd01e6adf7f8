package engine

import (
	"fmt"
	"strings"
	"time"
)

// Backend names accepted by New.
const (
	BackendLlama = "llama"
	BackendGenAI = "genai"
	BackendEcho  = "echo"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// llama
	LlamaCtx       int
	LlamaThreads   int
	LlamaGPULayers int
	// genai
	GenAIAPIKey string
	// echo
	EchoSteps     int
	EchoStepDelay time.Duration
}

// New returns the Factory for opts.Backend. An empty backend selects llama.
func New(opts Options) (Factory, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendLlama:
		return NewLlamaFactory(opts.LlamaCtx, opts.LlamaThreads, opts.LlamaGPULayers), nil
	case BackendGenAI:
		return NewGenAIFactory(opts.GenAIAPIKey), nil
	case BackendEcho:
		f := NewEchoFactory()
		if opts.EchoSteps > 0 {
			f.Steps = opts.EchoSteps
		}
		if opts.EchoStepDelay > 0 {
			f.StepDelay = opts.EchoStepDelay
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", opts.Backend)
	}
}

// LlamaBuilt reports whether this binary carries the in-process llama runtime.
func LlamaBuilt() bool { return llamaBuilt }
