package e2e

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"chatd/internal/app"
	"chatd/internal/engine"
	"chatd/pkg/types"
)

// TestGenAI_Live sends one message through the Gemini backend.
// Skips unless GEMINI_API_KEY is set; CHATD_LIVE_MODEL overrides the model.
func TestGenAI_Live(t *testing.T) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		t.Skip("GEMINI_API_KEY not set; skipping live genai test")
	}
	model := os.Getenv("CHATD_LIVE_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}
	a := app.New(app.Config{Catalog: []types.Model{{ID: model}}, Factory: engine.NewGenAIFactory(key)})
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := a.Select(model); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := a.LoadAndWait(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	resp, err := a.Send(ctx, "Write a haiku about GPUs.")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	reply := resp.Appended[len(resp.Appended)-1]
	if reply.Speaker != "assistant" || strings.TrimSpace(reply.Text) == "" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	t.Logf("haiku:\n%s", reply.Text)
}
