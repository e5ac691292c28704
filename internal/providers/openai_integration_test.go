package providers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/aisdk/internal/llm"
)

func TestOpenAIIntegration(t *testing.T) {
	cfg := LoadTestConfig()
	if !cfg.HasOpenAI() {
		t.Skip("OPENAI_API_KEY not set")
	}
	model := cfg.NewOpenAIModel()

	opts, err := llm.NewGenerateTextOptions().
		Model(model).
		Prompt("Respond with the single word: pong").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := llm.GenerateText(ctx, nil, opts)
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if !strings.Contains(strings.ToLower(result.Text), "pong") {
		t.Errorf("unexpected response: %q", result.Text)
	}
}
