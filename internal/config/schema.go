package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Prompts      PromptsCfg                `mapstructure:"prompts" yaml:"prompts"`
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
	Server       ServerCfg                 `mapstructure:"server" yaml:"server"`
	LLMCalls     LLMCallsCfg               `mapstructure:"llm_calls" yaml:"llm_calls"`
}

// PromptsCfg configures the template environment.
type PromptsCfg struct {
	Dir       string `mapstructure:"dir" yaml:"dir"`
	Extension string `mapstructure:"extension" yaml:"extension"`
	Strict    bool   `mapstructure:"strict" yaml:"strict"`
}

// LLMProviderCfg configures a named language model backend.
type LLMProviderCfg struct {
	Type       string        `mapstructure:"type" yaml:"type"`
	Model      string        `mapstructure:"model" yaml:"model"`
	APIKey     string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url,omitempty"`
	MaxTokens  int           `mapstructure:"max_tokens" yaml:"max_tokens,omitempty"`
	RateLimit  float64       `mapstructure:"rate_limit" yaml:"rate_limit,omitempty"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries,omitempty"`
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay,omitempty"`
	Enabled    bool          `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg holds default selections.
type DefaultsCfg struct {
	LLMProvider    string `mapstructure:"llm_provider" yaml:"llm_provider"`
	MaxConcurrency int    `mapstructure:"max_concurrency" yaml:"max_concurrency"`
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// LLMCallsCfg configures the in-memory call log.
type LLMCallsCfg struct {
	Capacity int `mapstructure:"capacity" yaml:"capacity"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Prompts: PromptsCfg{
			Dir:       "./prompts",
			Extension: "prompt",
		},
		LLMProviders: map[string]LLMProviderCfg{
			"openai": {
				Type:       "openai",
				Model:      "gpt-4o",
				APIKey:     "${OPENAI_API_KEY}",
				MaxTokens:  100,
				RateLimit:  8,
				MaxRetries: 3,
				Enabled:    true,
			},
			"mock": {
				Type:    "mock",
				Model:   "mock-model",
				Enabled: false,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider:    "openai",
			MaxConcurrency: 4,
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		LLMCalls: LLMCallsCfg{
			Capacity: 500,
		},
	}
}
