// Package llmcall provides LLM call recording and querying for traceability.
// Every generation is recorded with its prompt key, response, and latency.
package llmcall

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/aisdk/internal/aierr"
	"github.com/jackzampolin/aisdk/internal/llm"
)

// Call represents a recorded LLM API call.
type Call struct {
	// Unique identifier
	ID string `json:"id"`

	// Timing
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Prompt traceability
	PromptKey  string `json:"prompt_key,omitempty"`
	PromptHash string `json:"prompt_hash,omitempty"` // Hash of the template source the prompt was rendered from
	RequestID  string `json:"request_id,omitempty"`

	// Model info
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Request and response
	Prompt   string `json:"prompt"`
	Response string `json:"response"`

	// Status
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// RecordOptions identifies what a call was made for.
type RecordOptions struct {
	PromptKey  string
	PromptHash string
	RequestID  string
}

type optionsKey struct{}

// WithRecordOptions attaches record options to ctx. A Recorder reads them
// when it records the call made with ctx.
func WithRecordOptions(ctx context.Context, opts RecordOptions) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

// WithPromptKey attaches a prompt key to ctx, keeping any other options.
func WithPromptKey(ctx context.Context, key string) context.Context {
	opts := OptionsFrom(ctx)
	opts.PromptKey = key
	return WithRecordOptions(ctx, opts)
}

// OptionsFrom returns the record options attached to ctx, if any.
func OptionsFrom(ctx context.Context) RecordOptions {
	opts, _ := ctx.Value(optionsKey{}).(RecordOptions)
	return opts
}

// NewCall builds a Call from one generation attempt.
func NewCall(model llm.LanguageModel, opts llm.CallOptions, resp *llm.Response, err error, latency time.Duration, rec RecordOptions) *Call {
	call := &Call{
		ID:         uuid.New().String(),
		Timestamp:  time.Now(),
		LatencyMs:  int(latency.Milliseconds()),
		PromptKey:  rec.PromptKey,
		PromptHash: rec.PromptHash,
		RequestID:  rec.RequestID,
		Provider:   model.ProviderName(),
		Model:      model.ModelName(),
		Prompt:     opts.Prompt(),
		Success:    err == nil,
	}
	if resp != nil {
		call.Response = resp.Text
		if resp.Model != "" {
			call.Model = resp.Model
		}
	}
	if err != nil {
		call.Error = err.Error()
		call.ErrorKind = aierr.KindOf(err).String()
	}
	return call
}
