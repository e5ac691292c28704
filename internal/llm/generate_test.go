package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jackzampolin/aisdk/internal/aierr"
)

// echoModel returns the prompt it was given, so concurrent callers can check
// they got their own request back.
type echoModel struct{}

func (echoModel) ModelName() string    { return "echo" }
func (echoModel) ProviderName() string { return "echo" }

func (echoModel) Generate(_ context.Context, opts CallOptions) (*Response, error) {
	return &Response{Text: opts.Prompt(), Model: "echo"}, nil
}

func TestGenerateText(t *testing.T) {
	ctx := context.Background()

	t.Run("returns text and drops model id", func(t *testing.T) {
		model := &stubModel{resp: &Response{Text: "ok", Model: "m1"}}
		opts, err := NewGenerateTextOptions().Model(model).Prompt("hi").Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}

		result, err := GenerateText(ctx, model, opts)
		if err != nil {
			t.Fatalf("GenerateText: %v", err)
		}
		if *result != (TextResult{Text: "ok"}) {
			t.Errorf("result = %+v, want {Text: ok}", *result)
		}
		if len(model.calls) != 1 || model.calls[0] != "hi" {
			t.Errorf("backend calls = %v, want [hi]", model.calls)
		}
	})

	t.Run("falls back to model in options", func(t *testing.T) {
		model := &stubModel{resp: &Response{Text: "from options"}}
		opts, _ := NewGenerateTextOptions().Model(model).Prompt("hi").Build()

		result, err := GenerateText(ctx, nil, opts)
		if err != nil {
			t.Fatalf("GenerateText: %v", err)
		}
		if result.Text != "from options" {
			t.Errorf("Text = %q", result.Text)
		}
	})

	t.Run("explicit model wins over options", func(t *testing.T) {
		inOpts := &stubModel{resp: &Response{Text: "options"}}
		explicit := &stubModel{resp: &Response{Text: "explicit"}}
		opts, _ := NewGenerateTextOptions().Model(inOpts).Prompt("hi").Build()

		result, err := GenerateText(ctx, explicit, opts)
		if err != nil {
			t.Fatalf("GenerateText: %v", err)
		}
		if result.Text != "explicit" || len(inOpts.calls) != 0 {
			t.Errorf("expected explicit model to be used, got %q", result.Text)
		}
	})

	t.Run("no model anywhere", func(t *testing.T) {
		_, err := GenerateText(ctx, nil, GenerateTextOptions{})
		if mf, ok := aierr.IsMissingField(err); !ok || mf.Field != "model" {
			t.Fatalf("expected MissingFieldError{model}, got %v", err)
		}
	})

	t.Run("backend error is returned unchanged", func(t *testing.T) {
		apiErr := &aierr.APIError{Provider: "stub", StatusCode: 401, Body: `{"error":"bad key"}`}
		model := &stubModel{err: apiErr}
		opts, _ := NewGenerateTextOptions().Model(model).Prompt("hi").Build()

		_, err := GenerateText(ctx, model, opts)
		if err != apiErr {
			t.Fatalf("expected the backend's error value, got %v", err)
		}
		if len(model.calls) != 1 {
			t.Errorf("expected exactly one backend call, got %d", len(model.calls))
		}
	})

	t.Run("nil response is an API error", func(t *testing.T) {
		model := &stubModel{}
		opts, _ := NewGenerateTextOptions().Model(model).Prompt("hi").Build()

		result, err := GenerateText(ctx, model, opts)
		if result != nil {
			t.Errorf("expected nil result, got %+v", result)
		}
		if _, ok := aierr.IsAPIError(err); !ok {
			t.Fatalf("expected APIError, got %v", err)
		}
	})

	t.Run("context cancellation reaches backend", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		model := &ctxModel{}
		opts, _ := NewGenerateTextOptions().Model(model).Prompt("hi").Build()

		_, err := GenerateText(cancelled, model, opts)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

type ctxModel struct{}

func (ctxModel) ModelName() string    { return "ctx" }
func (ctxModel) ProviderName() string { return "ctx" }

func (ctxModel) Generate(ctx context.Context, _ CallOptions) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Response{Text: "done"}, nil
}

func TestGenerateText_Concurrent(t *testing.T) {
	var model LanguageModel = echoModel{}
	const n = 50

	var wg sync.WaitGroup
	results := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			opts, err := NewGenerateTextOptions().Model(model).Prompt(fmt.Sprintf("prompt-%d", i)).Build()
			if err != nil {
				errs[i] = err
				return
			}
			res, err := GenerateText(context.Background(), nil, opts)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = res.Text
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("call %d: %v", i, errs[i])
		}
		if want := fmt.Sprintf("prompt-%d", i); results[i] != want {
			t.Errorf("call %d = %q, want %q", i, results[i], want)
		}
	}
}
