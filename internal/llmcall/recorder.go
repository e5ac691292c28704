package llmcall

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackzampolin/aisdk/internal/aierr"
	"github.com/jackzampolin/aisdk/internal/llm"
	"github.com/jackzampolin/aisdk/internal/metrics"
)

// Recorder wraps a LanguageModel and records every Generate call to a Store
// and to metrics. It is itself a LanguageModel.
type Recorder struct {
	model   llm.LanguageModel
	store   *Store
	metrics metrics.Metrics
	logger  *slog.Logger
}

var _ llm.LanguageModel = (*Recorder)(nil)

// NewRecorder wraps model. A nil store skips recording, a nil metrics
// discards observations.
func NewRecorder(model llm.LanguageModel, store *Store, m metrics.Metrics, logger *slog.Logger) *Recorder {
	if m == nil {
		m = metrics.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{model: model, store: store, metrics: m, logger: logger}
}

func (r *Recorder) ModelName() string { return r.model.ModelName() }

func (r *Recorder) ProviderName() string { return r.model.ProviderName() }

// Unwrap returns the wrapped model.
func (r *Recorder) Unwrap() llm.LanguageModel { return r.model }

// Generate delegates to the wrapped model and records the outcome. The
// wrapped model's response and error are returned unchanged.
func (r *Recorder) Generate(ctx context.Context, opts llm.CallOptions) (*llm.Response, error) {
	start := time.Now()
	resp, err := r.model.Generate(ctx, opts)
	latency := time.Since(start)

	status := "ok"
	if err != nil {
		status = aierr.KindOf(err).String()
	}
	r.metrics.ObserveGeneration(r.model.ProviderName(), r.model.ModelName(), status, latency.Seconds())

	call := NewCall(r.model, opts, resp, err, latency, OptionsFrom(ctx))
	if r.store != nil {
		r.store.Add(call)
	}
	r.logger.Debug("recorded llm call",
		"id", call.ID,
		"provider", call.Provider,
		"model", call.Model,
		"prompt_key", call.PromptKey,
		"latency_ms", call.LatencyMs,
		"success", call.Success)

	return resp, err
}
