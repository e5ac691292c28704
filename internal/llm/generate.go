package llm

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/aisdk/internal/aierr"
)

// GenerateText sends opts.Prompt() to model and returns the generated text.
//
// A nil model falls back to opts.Model(). Backend errors are returned
// unchanged; there is no retry or fallback at this layer. The model id a
// backend reports is not part of the result.
func GenerateText(ctx context.Context, model LanguageModel, opts GenerateTextOptions) (*TextResult, error) {
	if model == nil {
		model = opts.Model()
	}
	if model == nil {
		return nil, &aierr.MissingFieldError{Field: "model"}
	}

	callOpts, err := NewCallOptions().Prompt(opts.Prompt()).Build()
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "generating text",
		"provider", model.ProviderName(),
		"model", model.ModelName(),
		"prompt_len", len(callOpts.Prompt()))

	resp, err := model.Generate(ctx, callOpts)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, &aierr.APIError{Provider: model.ProviderName(), Message: "empty response"}
	}
	return &TextResult{Text: resp.Text}, nil
}
