//go:build !llama

package engine

// No-CGO stub for the llama backend, compiled when the 'llama' build tag is
// NOT set. Construction fails fast so default builds stay CGO-free and never
// pretend to run a model.

import (
	"context"

	"chatd/pkg/types"
)

const llamaBuilt = false

type llamaFactory struct{}

// NewLlamaFactory returns a Factory that always reports llama as unavailable.
func NewLlamaFactory(ctxSize, threads, gpuLayers int) Factory {
	return llamaFactory{}
}

func (llamaFactory) Construct(ctx context.Context, model types.Model, progress ProgressSink) (Engine, error) {
	return nil, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}
