package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"chatd/pkg/types"
)

// genaiFactory builds engines backed by the Gemini API. The catalog entry's
// Path names the remote model; when empty the entry ID is used.
type genaiFactory struct {
	apiKey string
}

// NewGenAIFactory returns a Factory for the Gemini API.
func NewGenAIFactory(apiKey string) Factory {
	return &genaiFactory{apiKey: apiKey}
}

func (f *genaiFactory) Construct(ctx context.Context, model types.Model, progress ProgressSink) (Engine, error) {
	if strings.TrimSpace(f.apiKey) == "" {
		return nil, ErrDependencyUnavailable("GenAI API key is required")
	}
	start := time.Now()
	report(progress, start, 0, "creating client")
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  f.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	name := remoteModelName(model)
	report(progress, start, 0.5, "resolving "+name)
	if _, err := client.Models.Get(ctx, name, nil); err != nil {
		return nil, fmt.Errorf("resolve model %q: %w", name, err)
	}
	report(progress, start, 1, "model ready")
	return &genaiEngine{client: client, model: name}, nil
}

func remoteModelName(model types.Model) string {
	if p := strings.TrimSpace(model.Path); p != "" {
		return p
	}
	return model.ID
}

type genaiEngine struct {
	mu     sync.Mutex
	client *genai.Client
	model  string
}

func (e *genaiEngine) Complete(ctx context.Context, req Request) (Response, error) {
	e.mu.Lock()
	client := e.client
	e.mu.Unlock()
	if client == nil {
		return Response{}, ErrClosed
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		TopP:            genai.Ptr(req.TopP),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	contents := []*genai.Content{genai.NewContentFromText(req.Message, genai.RoleUser)}
	resp, err := client.Models.GenerateContent(ctx, e.model, contents, cfg)
	if err != nil {
		return Response{}, fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return Response{}, errors.New("no candidates returned")
	}
	cand := resp.Candidates[0]
	var b strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
	}
	return Response{Text: b.String(), FinishReason: string(cand.FinishReason)}, nil
}

// Close drops the client reference; the SDK holds no per-engine native resources.
func (e *genaiEngine) Close() error {
	e.mu.Lock()
	e.client = nil
	e.mu.Unlock()
	return nil
}
