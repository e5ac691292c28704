package providers

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jackzampolin/aisdk/internal/llm"
)

// Registry holds named language models.
// It supports config-driven instantiation, hot-reload, and provides thread-safe access.
type Registry struct {
	mu     sync.RWMutex
	models map[string]llm.LanguageModel
	logger *slog.Logger
}

// NewRegistry creates a new empty model registry.
func NewRegistry() *Registry {
	return &Registry{
		models: make(map[string]llm.LanguageModel),
		logger: slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register registers a model by name, replacing any previous entry.
func (r *Registry) Register(name string, model llm.LanguageModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[name] = model
	if r.logger != nil {
		r.logger.Info("registered model", "name", name, "provider", model.ProviderName(), "model", model.ModelName())
	}
}

// Unregister removes a model by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.models, name)
	if r.logger != nil {
		r.logger.Info("unregistered model", "name", name)
	}
}

// ErrModelNotFound is returned by Get for names that are not registered.
var ErrModelNotFound = errors.New("model not found")

// Get returns a model by name.
func (r *Registry) Get(name string) (llm.LanguageModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	model, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	return model, nil
}

// Has checks if a model is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.models[name]
	return ok
}

// List returns all registered model names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns listing info for every registered model, sorted by name.
func (r *Registry) Describe() []ModelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ModelInfo, 0, len(r.models))
	for name, model := range r.models {
		out = append(out, Describe(name, model))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RegistryConfig defines the models to instantiate from config.
// This mirrors the config.Config structure for provider setup.
type RegistryConfig struct {
	Models map[string]ModelConfig
}

// ModelConfig matches config.LLMProviderCfg with a resolved API key.
type ModelConfig struct {
	Type       string  // "openai", "mock"
	Model      string  // Model name
	APIKey     string  // Resolved API key
	BaseURL    string  // Optional endpoint override
	MaxTokens  int     // Completion token cap
	RateLimit  float64 // Requests per second
	MaxRetries int
	RetryDelay time.Duration
	Enabled    bool
}

// usable reports whether cfg describes a model that can be instantiated.
func (cfg ModelConfig) usable() bool {
	if !cfg.Enabled {
		return false
	}
	return cfg.Type != "openai" || cfg.APIKey != ""
}

// NewRegistryFromConfig creates a registry with models based on configuration.
// Only enabled models (with an API key where one is needed) are registered.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.applyConfig(cfg)
	return r
}

// Reload updates the registry based on new configuration.
// Models that are no longer configured will be unregistered.
// Models with changed settings will be re-registered.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)
	for name, modelCfg := range cfg.Models {
		if !modelCfg.usable() {
			continue
		}
		want[name] = true

		existing, hasExisting := r.models[name]
		if hasExisting && !needsUpdate(existing, modelCfg) {
			continue
		}
		model := createModel(modelCfg, r.logger)
		if model == nil {
			if r.logger != nil {
				r.logger.Warn("unknown model type", "name", name, "type", modelCfg.Type)
			}
			continue
		}
		r.models[name] = model
		if r.logger != nil {
			if hasExisting {
				r.logger.Info("updated model", "name", name, "type", modelCfg.Type)
			} else {
				r.logger.Info("registered model", "name", name, "type", modelCfg.Type)
			}
		}
	}

	for name := range r.models {
		if !want[name] {
			delete(r.models, name)
			if r.logger != nil {
				r.logger.Info("unregistered model", "name", name)
			}
		}
	}
}

// applyConfig applies configuration without locking (used during init).
func (r *Registry) applyConfig(cfg RegistryConfig) {
	for name, modelCfg := range cfg.Models {
		if !modelCfg.usable() {
			continue
		}
		if model := createModel(modelCfg, r.logger); model != nil {
			r.models[name] = model
		}
	}
}

// createModel creates a model based on its type.
func createModel(cfg ModelConfig, logger *slog.Logger) llm.LanguageModel {
	switch cfg.Type {
	case "openai":
		return NewOpenAIModel(OpenAIConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			MaxTokens:  cfg.MaxTokens,
			RateLimit:  cfg.RateLimit,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
			BaseURL:    cfg.BaseURL,
			Logger:     logger,
		})
	case "mock":
		m := NewMockModel()
		if cfg.Model != "" {
			m.Model = cfg.Model
		}
		return m
	default:
		return nil
	}
}

// needsUpdate checks if a model needs to be recreated.
func needsUpdate(model llm.LanguageModel, cfg ModelConfig) bool {
	switch m := model.(type) {
	case *OpenAIModel:
		if cfg.Type != "openai" {
			return true
		}
		wantModel := cfg.Model
		if wantModel == "" {
			wantModel = OpenAIDefaultModel
		}
		wantRetries, wantDelay := retryPolicy(cfg.MaxRetries, cfg.RetryDelay)
		return m.apiKey != cfg.APIKey ||
			m.model != wantModel ||
			m.maxRetries != wantRetries ||
			m.retryDelay != wantDelay ||
			m.rateLimit != cfg.RateLimit ||
			m.baseURL != cfg.BaseURL ||
			(cfg.MaxTokens != 0 && m.maxTokens != cfg.MaxTokens)
	case *MockModel:
		return cfg.Type != "mock" || (cfg.Model != "" && m.ModelName() != cfg.Model)
	default:
		return true
	}
}
