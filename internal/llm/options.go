package llm

import "github.com/jackzampolin/aisdk/internal/aierr"

// CallOptions is the backend-facing request. Build it with NewCallOptions.
type CallOptions struct {
	prompt string
}

// Prompt returns the prompt text sent to the backend.
func (o CallOptions) Prompt() string { return o.prompt }

// CallOptionsBuilder accumulates CallOptions fields.
type CallOptionsBuilder struct {
	prompt    string
	promptSet bool
}

// NewCallOptions starts a CallOptions draft.
func NewCallOptions() *CallOptionsBuilder {
	return &CallOptionsBuilder{}
}

// Prompt sets the prompt text. An empty string counts as set.
func (b *CallOptionsBuilder) Prompt(p string) *CallOptionsBuilder {
	b.prompt = p
	b.promptSet = true
	return b
}

// Build validates the draft. A missing prompt is a *aierr.MissingFieldError.
func (b *CallOptionsBuilder) Build() (CallOptions, error) {
	if !b.promptSet {
		return CallOptions{}, &aierr.MissingFieldError{Field: "prompt"}
	}
	return CallOptions{prompt: b.prompt}, nil
}

// GenerateTextOptions is the caller-facing request for GenerateText.
// Build it with NewGenerateTextOptions.
type GenerateTextOptions struct {
	model  LanguageModel
	prompt string
}

func (o GenerateTextOptions) Model() LanguageModel { return o.model }

func (o GenerateTextOptions) Prompt() string { return o.prompt }

// Generator is anything that renders to prompt text, such as prompts.Prompt.
type Generator interface {
	Generate() (string, error)
}

// GenerateTextOptionsBuilder accumulates GenerateTextOptions fields.
type GenerateTextOptionsBuilder struct {
	model     LanguageModel
	prompt    string
	promptSet bool
	promptErr error
}

// NewGenerateTextOptions starts a GenerateTextOptions draft.
func NewGenerateTextOptions() *GenerateTextOptionsBuilder {
	return &GenerateTextOptionsBuilder{}
}

// Model sets the backend. A nil model leaves the field unset.
func (b *GenerateTextOptionsBuilder) Model(m LanguageModel) *GenerateTextOptionsBuilder {
	b.model = m
	return b
}

// Prompt sets the prompt text. An empty string counts as set.
func (b *GenerateTextOptionsBuilder) Prompt(p string) *GenerateTextOptionsBuilder {
	b.prompt = p
	b.promptSet = true
	b.promptErr = nil
	return b
}

// PromptFrom renders src and uses the output as the prompt. A render failure
// is returned by Build.
func (b *GenerateTextOptionsBuilder) PromptFrom(src Generator) *GenerateTextOptionsBuilder {
	text, err := src.Generate()
	if err != nil {
		b.prompt, b.promptSet, b.promptErr = "", false, err
		return b
	}
	return b.Prompt(text)
}

// Build validates the draft. The first unset required field, in the order
// model then prompt, is reported as a *aierr.MissingFieldError.
func (b *GenerateTextOptionsBuilder) Build() (GenerateTextOptions, error) {
	if b.model == nil {
		return GenerateTextOptions{}, &aierr.MissingFieldError{Field: "model"}
	}
	if b.promptErr != nil {
		return GenerateTextOptions{}, b.promptErr
	}
	if !b.promptSet {
		return GenerateTextOptions{}, &aierr.MissingFieldError{Field: "prompt"}
	}
	return GenerateTextOptions{model: b.model, prompt: b.prompt}, nil
}
