package svcctx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jackzampolin/aisdk/internal/aierr"
	"github.com/jackzampolin/aisdk/internal/config"
	"github.com/jackzampolin/aisdk/internal/home"
	"github.com/jackzampolin/aisdk/internal/llm"
	"github.com/jackzampolin/aisdk/internal/llmcall"
	"github.com/jackzampolin/aisdk/internal/metrics"
	"github.com/jackzampolin/aisdk/internal/prompts"
	"github.com/jackzampolin/aisdk/internal/providers"
)

// New builds the services described by the current configuration.
// m may be nil, in which case nothing is exported to Prometheus.
func New(cfgMgr *config.Manager, h *home.Dir, m *metrics.Prom, logger *slog.Logger) (*Services, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := cfgMgr.Get()

	env, err := openEnvironment(cfg.Prompts, h, m, logger)
	if err != nil {
		return nil, err
	}

	registry := providers.NewRegistry()
	registry.SetLogger(logger)
	registry.Reload(cfg.ToProviderRegistryConfig())

	ext := cfg.Prompts.Extension
	if ext == "" {
		ext = prompts.DefaultExtension
	}

	return &Services{
		Environment:  env,
		Registry:     registry,
		LLMCallStore: llmcall.NewStore(cfg.LLMCalls.Capacity),
		Metrics:      m,
		Config:       cfgMgr,
		Home:         h,
		Logger:       logger,
		Extension:    ext,
		DefaultModel: cfg.Defaults.LLMProvider,
	}, nil
}

// openEnvironment loads the configured template root. When the root is the
// unchanged default and does not exist, the home prompts directory is tried,
// and failing that an empty environment is used.
func openEnvironment(cfg config.PromptsCfg, h *home.Dir, m *metrics.Prom, logger *slog.Logger) (*prompts.Environment, error) {
	opts := []prompts.EnvOption{prompts.WithEnvLogger(logger)}
	if m != nil {
		opts = append(opts, prompts.WithMetrics(m))
	}
	if cfg.Strict {
		opts = append(opts, prompts.WithStrictVariables())
	}

	dir := cfg.Dir
	if dir == "" {
		dir = prompts.DefaultDir
	}
	if filepath.Clean(dir) != filepath.Clean(prompts.DefaultDir) || exists(dir) {
		return prompts.NewEnvironment(dir, opts...)
	}
	if h != nil && exists(h.PromptsPath()) {
		return prompts.NewEnvironment(h.PromptsPath(), opts...)
	}
	logger.Warn("prompt directory not found, no templates available", "root", dir)
	return prompts.Empty(dir, opts...), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// Prompt returns a prompt for name bound to the services' environment. An
// empty ext selects the configured extension.
func (s *Services) Prompt(name, ext string) prompts.Prompt {
	if ext == "" {
		ext = s.Extension
	}
	if ext == "" {
		ext = prompts.DefaultExtension
	}
	return prompts.New(name, prompts.WithEnvironment(s.Environment), prompts.WithLogger(s.Logger)).
		WithExtension(ext)
}

// Model returns the registered model for name wrapped in a call recorder.
// An empty name selects DefaultModel.
func (s *Services) Model(name string) (llm.LanguageModel, string, error) {
	if name == "" {
		name = s.DefaultModel
	}
	if name == "" {
		return nil, "", &aierr.MissingFieldError{Field: "model"}
	}
	model, err := s.Registry.Get(name)
	if err != nil {
		return nil, name, err
	}
	var sink metrics.Metrics
	if s.Metrics != nil {
		sink = s.Metrics
	}
	return llmcall.NewRecorder(model, s.LLMCallStore, sink, s.Logger), name, nil
}

// RenderResult is a rendered template.
type RenderResult struct {
	Template string   `json:"template"`
	Text     string   `json:"text"`
	Hash     string   `json:"hash,omitempty"`
	Shadowed []string `json:"shadowed,omitempty"`
}

// Render renders p.
func (s *Services) Render(p prompts.Prompt) (*RenderResult, error) {
	text, err := p.Generate()
	if err != nil {
		return nil, err
	}
	res := &RenderResult{Template: p.TemplateName(), Text: text, Shadowed: p.Shadowed()}
	if info, ok := s.Environment.Lookup(p.TemplateName()); ok {
		res.Hash = info.Hash
	}
	return res, nil
}

// GenerateResult is the outcome of one generation.
type GenerateResult struct {
	Template  string `json:"template"`
	Model     string `json:"model"`
	Provider  string `json:"provider"`
	Text      string `json:"text"`
	RequestID string `json:"request_id"`
}

// Generate renders p and sends it to the named model (DefaultModel when
// empty). The call is recorded under the template name.
func (s *Services) Generate(ctx context.Context, p prompts.Prompt, modelName string) (*GenerateResult, error) {
	model, name, err := s.Model(modelName)
	if err != nil {
		return nil, err
	}

	opts, err := llm.NewGenerateTextOptions().Model(model).PromptFrom(p).Build()
	if err != nil {
		return nil, fmt.Errorf("prompt %s: %w", p.TemplateName(), err)
	}

	rec := llmcall.RecordOptions{PromptKey: p.TemplateName(), RequestID: uuid.NewString()}
	if info, ok := s.Environment.Lookup(p.TemplateName()); ok {
		rec.PromptHash = info.Hash
	}
	ctx = llmcall.WithRecordOptions(ctx, rec)

	result, err := llm.GenerateText(ctx, nil, opts)
	if err != nil {
		return nil, err
	}
	return &GenerateResult{
		Template:  p.TemplateName(),
		Model:     name,
		Provider:  model.ProviderName(),
		Text:      result.Text,
		RequestID: rec.RequestID,
	}, nil
}

// WatchConfig reloads the model registry whenever the config file changes.
// The template environment is not reloaded.
func (s *Services) WatchConfig() {
	if s.Config == nil {
		return
	}
	s.Config.OnChange(func(c *config.Config) {
		s.Registry.Reload(c.ToProviderRegistryConfig())
		s.Logger.Info("model registry reloaded from config")
	})
	s.Config.WatchConfig()
}
