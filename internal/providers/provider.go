// Package providers holds the concrete llm.LanguageModel backends and a
// config-driven registry of named model instances.
package providers

import "github.com/jackzampolin/aisdk/internal/llm"

// ModelInfo describes a registered model for listings.
type ModelInfo struct {
	Name     string  `json:"name"`
	Provider string  `json:"provider"`
	Model    string  `json:"model"`
	Type     string  `json:"type"`
	RPS      float64 `json:"rps,omitempty"`
}

// Describe returns listing info for a model registered under name.
func Describe(name string, m llm.LanguageModel) ModelInfo {
	info := ModelInfo{
		Name:     name,
		Provider: m.ProviderName(),
		Model:    m.ModelName(),
		Type:     "custom",
	}
	switch c := m.(type) {
	case *OpenAIModel:
		info.Type = "openai"
		info.RPS = c.rateLimit
	case *MockModel:
		info.Type = "mock"
	}
	return info
}
