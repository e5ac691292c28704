// Package llm defines the provider-neutral generation contract: the
// LanguageModel capability, validated call options and the GenerateText
// orchestrator.
package llm

import "context"

// LanguageModel is a text generation backend.
//
// Implementations must be safe for concurrent use: GenerateText may be
// called from many goroutines with the same model value.
type LanguageModel interface {
	// ModelName returns the model identifier (e.g., "gpt-4o").
	ModelName() string

	// ProviderName returns the provider identifier (e.g., "openai").
	ProviderName() string

	// Generate performs one non-streaming completion for the prompt in opts.
	// Failures are *aierr.APIError unless ctx was cancelled.
	Generate(ctx context.Context, opts CallOptions) (*Response, error)
}

// Response is a backend's normalized completion.
type Response struct {
	Text string `json:"text"`

	// Model is the model id reported by the backend, empty when not reported.
	Model string `json:"model,omitempty"`
}

// TextResult is what GenerateText returns to callers.
type TextResult struct {
	Text string `json:"text"`
}
