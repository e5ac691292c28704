package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v2"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Prompts.Dir != "./prompts" || cfg.Prompts.Extension != "prompt" {
		t.Errorf("unexpected prompts defaults: %+v", cfg.Prompts)
	}
	openai, ok := cfg.LLMProviders["openai"]
	if !ok {
		t.Fatal("expected default openai provider")
	}
	if openai.APIKey != "${OPENAI_API_KEY}" {
		t.Errorf("expected openai API key placeholder, got %q", openai.APIKey)
	}
	if openai.Model != "gpt-4o" || openai.MaxTokens != 100 {
		t.Errorf("unexpected openai defaults: %+v", openai)
	}
	if cfg.Defaults.LLMProvider != "openai" {
		t.Errorf("default provider = %q", cfg.Defaults.LLMProvider)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")
		if got := ResolveEnvVars("${TEST_API_KEY}"); got != "secret123" {
			t.Errorf("expected secret123, got %s", got)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		if got := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}"); got != "" {
			t.Errorf("expected empty string, got %s", got)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		if got := ResolveEnvVars("literal-value"); got != "literal-value" {
			t.Errorf("expected literal-value, got %s", got)
		}
	})

	t.Run("expands inside a larger string", func(t *testing.T) {
		t.Setenv("TEST_HOST", "example.com")
		if got := ResolveEnvVars("https://${TEST_HOST}/v1"); got != "https://example.com/v1" {
			t.Errorf("got %s", got)
		}
	})
}

func TestConfig_ToProviderRegistryConfig(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-123")

	cfg := &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"fast": {Type: "openai", Model: "gpt-4o-mini", APIKey: "${TEST_OPENAI_KEY}", MaxTokens: 50, RateLimit: 2, MaxRetries: 5, RetryDelay: time.Second, Enabled: true},
			"fake": {Type: "mock", Model: "mock-model", Enabled: true},
		},
	}

	got := cfg.ToProviderRegistryConfig()
	if len(got.Models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(got.Models))
	}
	fast := got.Models["fast"]
	if fast.APIKey != "sk-123" {
		t.Errorf("APIKey = %q, want resolved key", fast.APIKey)
	}
	if fast.Model != "gpt-4o-mini" || fast.MaxTokens != 50 || fast.RateLimit != 2 || !fast.Enabled {
		t.Errorf("unexpected model config: %+v", fast)
	}
	if fast.MaxRetries != 5 || fast.RetryDelay != time.Second {
		t.Errorf("retry policy not carried over: %+v", fast)
	}
	if got.Models["fake"].Type != "mock" {
		t.Errorf("fake type = %q", got.Models["fake"].Type)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		path := writeConfig(t, `
prompts:
  dir: /srv/prompts
  strict: true
server:
  port: "9090"
`)
		mgr, err := NewManager(path)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Prompts.Dir != "/srv/prompts" || !cfg.Prompts.Strict {
			t.Errorf("unexpected prompts config: %+v", cfg.Prompts)
		}
		if cfg.Server.Port != "9090" {
			t.Errorf("port = %q, want 9090", cfg.Server.Port)
		}
		// Unset keys fall back to defaults.
		if cfg.Prompts.Extension != "prompt" || cfg.LLMCalls.Capacity != 500 {
			t.Errorf("defaults not applied: %+v", cfg)
		}
		if mgr.ConfigFile() != path {
			t.Errorf("ConfigFile() = %q, want %q", mgr.ConfigFile(), path)
		}
	})

	t.Run("parses retry settings", func(t *testing.T) {
		path := writeConfig(t, `
llm_providers:
  openai:
    max_retries: 7
    retry_delay: 5s
`)
		mgr, err := NewManager(path)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		openai := mgr.Get().LLMProviders["openai"]
		if openai.MaxRetries != 7 || openai.RetryDelay != 5*time.Second {
			t.Errorf("unexpected retry settings: %+v", openai)
		}
	})

	t.Run("PROMPT_DIR overrides file", func(t *testing.T) {
		path := writeConfig(t, "prompts:\n  dir: /from/file\n")
		t.Setenv("PROMPT_DIR", "/from/env")

		mgr, err := NewManager(path)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if got := mgr.Get().Prompts.Dir; got != "/from/env" {
			t.Errorf("prompts.dir = %q, want /from/env", got)
		}
	})

	t.Run("prefixed env override", func(t *testing.T) {
		path := writeConfig(t, "server:\n  host: 0.0.0.0\n")
		t.Setenv("AISDK_SERVER_HOST", "10.0.0.1")

		mgr, err := NewManager(path)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if got := mgr.Get().Server.Host; got != "10.0.0.1" {
			t.Errorf("server.host = %q, want 10.0.0.1", got)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "prompts: [unclosed\n")
		if _, err := NewManager(path); err == nil {
			t.Fatal("expected error for malformed config")
		}
	})

	t.Run("independent instances", func(t *testing.T) {
		a, err := NewManager(writeConfig(t, "server:\n  port: \"1111\"\n"))
		if err != nil {
			t.Fatal(err)
		}
		b, err := NewManager(writeConfig(t, "server:\n  port: \"2222\"\n"))
		if err != nil {
			t.Fatal(err)
		}
		if a.Get().Server.Port != "1111" || b.Get().Server.Port != "2222" {
			t.Errorf("managers share state: %q %q", a.Get().Server.Port, b.Get().Server.Port)
		}
	})
}

func TestManager_Settings(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "defaults:\n  max_concurrency: 9\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	values := make(map[string]any)
	for _, e := range mgr.Settings() {
		values[e.Key] = e.Value
	}
	if values["defaults.max_concurrency"] != 9 {
		t.Errorf("max_concurrency = %v (%T), want 9", values["defaults.max_concurrency"], values["defaults.max_concurrency"])
	}
	if values["prompts.dir"] != "./prompts" {
		t.Errorf("prompts.dir = %v", values["prompts.dir"])
	}
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "server:\n  port: \"8080\"\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "server:\n  port: \"8080\"\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cfg := mgr.Get()
				_ = cfg.Server.Port
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	path := writeConfig(t, "prompts:\n  dir: /initial\n")

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if got := mgr.Get().Prompts.Dir; got != "/initial" {
		t.Errorf("initial value mismatch: got %s", got)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value
	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.Prompts.Dir)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("prompts:\n  dir: /updated\n"), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 && mgr.Get().Prompts.Dir == "/updated" {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Error("callback was not invoked after config file change")
	}
	if got := mgr.Get().Prompts.Dir; got != "/updated" {
		t.Errorf("config not updated: got %s", got)
	}
	if v := lastValue.Load(); v != "/updated" {
		t.Errorf("callback received wrong value: %v", v)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var written Config
	if err := yaml.Unmarshal(data, &written); err != nil {
		t.Fatalf("written config is not valid yaml: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), &written); diff != "" {
		t.Errorf("written config mismatch (-want +got):\n%s", diff)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if mgr.Get().Defaults.MaxConcurrency != 4 {
		t.Errorf("max_concurrency = %d", mgr.Get().Defaults.MaxConcurrency)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("AISDK_TEST_DOTENV=from-file\nAISDK_TEST_KEEP=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AISDK_TEST_KEEP", "from-shell")
	t.Setenv("AISDK_TEST_DOTENV", "")
	os.Unsetenv("AISDK_TEST_DOTENV")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("AISDK_TEST_DOTENV"); got != "from-file" {
		t.Errorf("AISDK_TEST_DOTENV = %q, want from-file", got)
	}
	if got := os.Getenv("AISDK_TEST_KEEP"); got != "from-shell" {
		t.Errorf("existing variable overwritten: %q", got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "nope.env")); err != nil {
		t.Errorf("missing files should be skipped, got %v", err)
	}
}
