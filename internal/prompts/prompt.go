package prompts

import (
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
)

// DefaultExtension is the template file extension used when none is set.
const DefaultExtension = "prompt"

// Promptable is anything that renders to prompt text and supports chained
// variable binding. P is the concrete type returned by the chaining methods.
type Promptable[P any] interface {
	Generate() (string, error)
	With(variable, value string) P
	WithOverwrite(variable, value string) P
	WithExtension(ext string) P
	FilePath() string
	Name() string
	Extension() string
	Variables() map[string]string
}

var _ Promptable[Prompt] = Prompt{}

// Prompt names a template file and the variables to render it with.
//
// Prompt is a value: every With* method returns a modified copy and leaves
// the receiver unchanged, so a base prompt can be shared across goroutines
// and specialized per request.
type Prompt struct {
	name      string
	extension string
	variables map[string]string
	shadowed  []string
	env       *Environment
	logger    *slog.Logger
}

// Option configures a Prompt.
type Option func(*Prompt)

// WithEnvironment renders the prompt against env instead of the default
// environment.
func WithEnvironment(env *Environment) Option {
	return func(p *Prompt) { p.env = env }
}

// WithLogger sets the logger that receives shadowed-variable warnings.
func WithLogger(l *slog.Logger) Option {
	return func(p *Prompt) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a prompt for the template name, e.g. "system/base", with the
// default extension and no variables.
func New(name string, opts ...Option) Prompt {
	p := Prompt{
		name:      name,
		extension: DefaultExtension,
		variables: map[string]string{},
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p Prompt) clone() Prompt {
	p.variables = maps.Clone(p.variables)
	if p.variables == nil {
		p.variables = map[string]string{}
	}
	p.shadowed = slices.Clone(p.shadowed)
	return p
}

func (p Prompt) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}

// With binds variable to value unless it is already bound. A repeated
// binding keeps the first value, logs a warning and is reported by Shadowed.
func (p Prompt) With(variable, value string) Prompt {
	next := p.clone()
	if _, exists := next.variables[variable]; exists {
		next.shadowed = append(next.shadowed, variable)
		next.log().Warn("prompt variable already set, use WithOverwrite to replace it",
			"prompt", p.name, "variable", variable)
		return next
	}
	next.variables[variable] = value
	return next
}

// WithOverwrite binds variable to value, replacing any previous binding.
func (p Prompt) WithOverwrite(variable, value string) Prompt {
	next := p.clone()
	next.variables[variable] = value
	return next
}

// WithExtension sets the template file extension.
func (p Prompt) WithExtension(ext string) Prompt {
	next := p.clone()
	next.extension = ext
	return next
}

// Generate renders the template with the bound variables. Errors are
// *aierr.TemplateNotFoundError, *aierr.TemplateRenderError or
// *aierr.ConfigurationError.
func (p Prompt) Generate() (string, error) {
	env := p.env
	if env == nil {
		var err error
		if env, err = Default(); err != nil {
			return "", err
		}
	}
	return env.Render(p.TemplateName(), p.variables)
}

// FilePath returns root/name.extension. It does not check the file exists.
func (p Prompt) FilePath() string {
	root := DefaultRoot()
	if p.env != nil {
		root = p.env.Root()
	}
	return filepath.Join(root, filepath.FromSlash(p.TemplateName()))
}

func (p Prompt) Name() string { return p.name }

func (p Prompt) Extension() string { return p.extension }

// TemplateName returns name.extension, the key used to look the template up.
func (p Prompt) TemplateName() string { return p.name + "." + p.extension }

// Variables returns a copy of the bound variables.
func (p Prompt) Variables() map[string]string {
	return maps.Clone(p.variables)
}

// Shadowed returns the variables whose With call was ignored because they
// were already bound, in call order.
func (p Prompt) Shadowed() []string {
	return slices.Clone(p.shadowed)
}
