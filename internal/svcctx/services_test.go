package svcctx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackzampolin/aisdk/internal/aierr"
	"github.com/jackzampolin/aisdk/internal/config"
	"github.com/jackzampolin/aisdk/internal/home"
	"github.com/jackzampolin/aisdk/internal/llmcall"
	"github.com/jackzampolin/aisdk/internal/metrics"
	"github.com/jackzampolin/aisdk/internal/providers"
)

func newTestServices(t *testing.T, templates map[string]string) *Services {
	t.Helper()
	dir := t.TempDir()
	promptDir := filepath.Join(dir, "prompts")
	for name, content := range templates {
		path := filepath.Join(promptDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(promptDir, 0o755); err != nil {
		t.Fatal(err)
	}

	cfgFile := filepath.Join(dir, "config.yaml")
	cfgYAML := `
prompts:
  dir: ` + promptDir + `
llm_providers:
  openai:
    type: openai
    enabled: false
  mock:
    type: mock
    model: mock-model
    enabled: true
defaults:
  llm_provider: mock
llm_calls:
  capacity: 10
`
	if err := os.WriteFile(cfgFile, []byte(cfgYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PROMPT_DIR", "")

	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	h, _ := home.New(filepath.Join(dir, "home"))
	svc, err := New(mgr, h, metrics.NewProm("test"), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc
}

func TestNew(t *testing.T) {
	svc := newTestServices(t, map[string]string{"greet.prompt": "Hello, {{ name }}!"})

	if svc.Environment.Len() != 1 {
		t.Errorf("Environment.Len() = %d, want 1", svc.Environment.Len())
	}
	if !svc.Registry.Has("mock") {
		t.Error("expected mock model to be registered")
	}
	if svc.Registry.Has("openai") {
		t.Error("disabled openai model should not be registered")
	}
	if svc.Extension != "prompt" || svc.DefaultModel != "mock" {
		t.Errorf("unexpected defaults: ext=%q model=%q", svc.Extension, svc.DefaultModel)
	}
}

func TestNew_MissingDefaultDir(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PROMPT_DIR", "")

	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgFile, []byte("server:\n  port: \"1\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	svc, err := New(mgr, nil, nil, nil)
	if err != nil {
		t.Fatalf("New with missing ./prompts: %v", err)
	}
	_, err = svc.Render(svc.Prompt("anything", ""))
	if _, ok := aierr.IsTemplateNotFound(err); !ok {
		t.Errorf("expected TemplateNotFoundError, got %v", err)
	}
}

func TestServices_Render(t *testing.T) {
	svc := newTestServices(t, map[string]string{"greet.prompt": "Hello, {{ name }}!"})

	res, err := svc.Render(svc.Prompt("greet", "").With("name", "Ada").With("name", "Bob"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Text != "Hello, Ada!" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Hash == "" || res.Template != "greet.prompt" {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(res.Shadowed) != 1 || res.Shadowed[0] != "name" {
		t.Errorf("Shadowed = %v", res.Shadowed)
	}
}

func TestServices_Generate(t *testing.T) {
	svc := newTestServices(t, map[string]string{"greet.prompt": "Hello, {{ name }}!"})
	mock, _ := svc.Registry.Get("mock")
	mock.(*providers.MockModel).Latency = 0
	mock.(*providers.MockModel).Echo = true

	res, err := svc.Generate(context.Background(), svc.Prompt("greet", "").With("name", "Ada"), "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Model != "mock" || res.Provider != "mock" || res.RequestID == "" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Text != "Hello, Ada!" {
		t.Errorf("Text = %q, want echoed prompt", res.Text)
	}

	calls := svc.LLMCallStore.List(llmcall.QueryFilter{})
	if len(calls) != 1 {
		t.Fatalf("expected 1 recorded call, got %d", len(calls))
	}
	if calls[0].PromptKey != "greet.prompt" || calls[0].RequestID != res.RequestID || calls[0].PromptHash == "" {
		t.Errorf("unexpected call record: %+v", calls[0])
	}
}

func TestServices_GenerateErrors(t *testing.T) {
	svc := newTestServices(t, map[string]string{"greet.prompt": "Hello"})

	t.Run("unknown model", func(t *testing.T) {
		_, err := svc.Generate(context.Background(), svc.Prompt("greet", ""), "nope")
		if !errors.Is(err, providers.ErrModelNotFound) {
			t.Errorf("expected ErrModelNotFound, got %v", err)
		}
	})

	t.Run("missing template", func(t *testing.T) {
		_, err := svc.Generate(context.Background(), svc.Prompt("missing", ""), "mock")
		if _, ok := aierr.IsTemplateNotFound(err); !ok {
			t.Errorf("expected TemplateNotFoundError, got %v", err)
		}
		if svc.LLMCallStore.Len() != 0 {
			t.Error("no call should be recorded when rendering fails")
		}
	})

	t.Run("no default model", func(t *testing.T) {
		bare := *svc
		bare.DefaultModel = ""
		_, err := bare.Generate(context.Background(), svc.Prompt("greet", ""), "")
		if f, ok := aierr.IsMissingField(err); !ok || f.Field != "model" {
			t.Errorf("expected missing model field, got %v", err)
		}
	})
}

func TestContextExtractors(t *testing.T) {
	ctx := context.Background()
	if ServicesFrom(ctx) != nil || RegistryFrom(ctx) != nil || EnvironmentFrom(ctx) != nil {
		t.Error("expected nil services on a bare context")
	}
	if LoggerFrom(ctx) == nil {
		t.Error("LoggerFrom should fall back to the default logger")
	}

	svc := &Services{Registry: providers.NewRegistry(), LLMCallStore: llmcall.NewStore(1)}
	ctx = WithServices(ctx, svc)
	if RegistryFrom(ctx) != svc.Registry || LLMCallStoreFrom(ctx) != svc.LLMCallStore {
		t.Error("extractors did not return attached services")
	}
}
