package providers

import (
	"os"
)

// TestConfig holds provider configurations loaded from environment variables.
// This allows tests to use the same configuration pattern as production.
type TestConfig struct {
	OpenAIAPIKey string
	OpenAIModel  string
}

// LoadTestConfig loads provider API keys from environment variables.
// Returns a TestConfig with whatever keys are available.
func LoadTestConfig() TestConfig {
	return TestConfig{
		OpenAIAPIKey: os.Getenv(EnvOpenAIAPIKey),
		OpenAIModel:  os.Getenv("OPENAI_MODEL"),
	}
}

// HasOpenAI returns true if an OpenAI API key is configured.
func (c TestConfig) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

// NewOpenAIModel creates an OpenAI model from test config.
// Returns nil if not configured.
func (c TestConfig) NewOpenAIModel() *OpenAIModel {
	if !c.HasOpenAI() {
		return nil
	}
	return NewOpenAIModel(OpenAIConfig{
		APIKey: c.OpenAIAPIKey,
		Model:  c.OpenAIModel,
	})
}

// ToRegistryConfig converts test config to a RegistryConfig for the model registry.
// The mock model is always included; OpenAI only when a key is available.
func (c TestConfig) ToRegistryConfig() RegistryConfig {
	cfg := RegistryConfig{
		Models: map[string]ModelConfig{
			"mock": {Type: "mock", Model: MockDefaultModel, Enabled: true},
		},
	}
	if c.HasOpenAI() {
		cfg.Models["openai"] = ModelConfig{
			Type:      "openai",
			Model:     c.OpenAIModel,
			APIKey:    c.OpenAIAPIKey,
			RateLimit: 1,
			Enabled:   true,
		}
	}
	return cfg
}
