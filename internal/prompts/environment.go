// Package prompts resolves named prompt templates from a directory and renders
// them with string variables.
//
// Templates live under a root directory as <logical-name>.<ext> files, where
// the logical name may contain "/" (system/base.prompt). The root comes from,
// in order:
//  1. An Environment bound explicitly to a Prompt (WithEnvironment)
//  2. The process default installed with SetDefault
//  3. The PROMPT_DIR environment variable
//  4. ./prompts
//
// Templates use Django syntax ({{ var }}, {% if %}, {% for %}, {% include %}),
// rendered by pongo2. Output is never HTML-escaped.
package prompts

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/jackzampolin/aisdk/internal/aierr"
	"github.com/jackzampolin/aisdk/internal/metrics"
)

const (
	// EnvPromptDir names the environment variable holding the template root.
	EnvPromptDir = "PROMPT_DIR"

	// DefaultDir is the template root used when nothing else is configured.
	DefaultDir = "./prompts"
)

// TemplateInfo describes one template file discovered under the root.
type TemplateInfo struct {
	Path      string   `json:"path"`
	Name      string   `json:"name"`
	Extension string   `json:"extension"`
	Variables []string `json:"variables,omitempty"`
	Hash      string   `json:"hash"`
}

// Environment is an immutable index of the templates under one root
// directory plus the engine that renders them. Safe for concurrent use.
//
// Every indexed template is compiled once when the environment is built.
// Render only executes compiled templates; pongo2 template sets are not
// safe for concurrent compilation, so setMu guards every later use of set.
type Environment struct {
	root     string
	index    map[string]TemplateInfo
	compiled map[string]compiledTemplate
	setMu    sync.Mutex
	set      *pongo2.TemplateSet
	strict   bool
	logger   *slog.Logger
	metrics  metrics.Metrics
}

// compiledTemplate holds the parse result of one indexed file. A template
// that fails to parse keeps its error and reports it on every render.
type compiledTemplate struct {
	tpl *pongo2.Template
	err error
}

// EnvOption configures an Environment.
type EnvOption func(*Environment)

// WithStrictVariables makes Render fail when a variable referenced by the
// template has no binding. By default unbound variables render as empty text.
func WithStrictVariables() EnvOption {
	return func(e *Environment) { e.strict = true }
}

// WithEnvLogger sets the logger used by the environment.
func WithEnvLogger(l *slog.Logger) EnvOption {
	return func(e *Environment) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records render outcomes to m.
func WithMetrics(m metrics.Metrics) EnvOption {
	return func(e *Environment) {
		if m != nil {
			e.metrics = m
		}
	}
}

// NewEnvironment walks root and indexes every template file below it.
// The root must exist and be a directory.
func NewEnvironment(root string, opts ...EnvOption) (*Environment, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &aierr.ConfigurationError{Setting: EnvPromptDir, Value: root, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &aierr.ConfigurationError{Setting: EnvPromptDir, Value: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &aierr.ConfigurationError{Setting: EnvPromptDir, Value: root, Err: errors.New("not a directory")}
	}

	env := newEnvironment(abs, opts...)
	if err := env.discover(); err != nil {
		return nil, &aierr.ConfigurationError{Setting: EnvPromptDir, Value: root, Err: err}
	}
	env.logger.Debug("prompt environment loaded", "root", abs, "templates", len(env.index))
	return env, nil
}

// Empty returns an environment rooted at root with no templates. Every
// render against it reports TemplateNotFoundError.
func Empty(root string, opts ...EnvOption) *Environment {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return newEnvironment(abs, opts...)
}

// newEnvironment creates an environment with an empty index.
func newEnvironment(abs string, opts ...EnvOption) *Environment {
	env := &Environment{
		root:     abs,
		index:    make(map[string]TemplateInfo),
		compiled: make(map[string]compiledTemplate),
		set:      pongo2.NewSet("prompts:"+abs, pongo2.NewFSLoader(os.DirFS(abs))),
		logger:   slog.Default(),
		metrics:  metrics.Noop{},
	}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

func (e *Environment) discover() error {
	fsys := os.DirFS(e.root)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		ext := strings.TrimPrefix(path.Ext(p), ".")
		text := string(data)
		e.index[p] = TemplateInfo{
			Path:      p,
			Name:      strings.TrimSuffix(p, path.Ext(p)),
			Extension: ext,
			Variables: ExtractVariables(text),
			Hash:      HashText(text),
		}
		return nil
	})
	if err != nil {
		return err
	}

	for name := range e.index {
		tpl, err := e.set.FromFile(name)
		e.compiled[name] = compiledTemplate{tpl: tpl, err: err}
		if err != nil {
			e.logger.Debug("prompt template failed to compile", "template", name, "error", err)
		}
	}
	return nil
}

// Root returns the absolute template root.
func (e *Environment) Root() string { return e.root }

// Len returns the number of indexed templates.
func (e *Environment) Len() int { return len(e.index) }

// Lookup returns the index entry for a template file name like "system/base.prompt".
func (e *Environment) Lookup(templateName string) (TemplateInfo, bool) {
	info, ok := e.index[templateName]
	return info, ok
}

// Templates returns every indexed template sorted by path.
func (e *Environment) Templates() []TemplateInfo {
	out := make([]TemplateInfo, 0, len(e.index))
	for _, info := range e.index {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Source returns the raw text of an indexed template.
func (e *Environment) Source(templateName string) (string, error) {
	if _, ok := e.index[templateName]; !ok {
		return "", &aierr.TemplateNotFoundError{Name: templateName, Root: e.root}
	}
	data, err := fs.ReadFile(os.DirFS(e.root), templateName)
	if err != nil {
		return "", &aierr.TemplateNotFoundError{Name: templateName, Root: e.root}
	}
	return string(data), nil
}

// Render renders the template file templateName ("name.ext") with vars.
func (e *Environment) Render(templateName string, vars map[string]string) (string, error) {
	info, ok := e.index[templateName]
	if !ok {
		e.metrics.IncTemplateRender("not_found")
		return "", &aierr.TemplateNotFoundError{Name: templateName, Root: e.root}
	}
	if err := e.checkBound(info.Variables, vars); err != nil {
		e.metrics.IncTemplateRender("error")
		return "", &aierr.TemplateRenderError{Name: templateName, Err: err}
	}

	c := e.compiled[templateName]
	if c.err != nil {
		e.metrics.IncTemplateRender("error")
		return "", &aierr.TemplateRenderError{Name: templateName, Err: c.err}
	}
	out, err := execute(c.tpl, vars)
	if err != nil {
		e.metrics.IncTemplateRender("error")
		return "", &aierr.TemplateRenderError{Name: templateName, Err: err}
	}

	e.metrics.IncTemplateRender("ok")
	e.logger.Debug("rendered prompt", "template", templateName, "vars", len(vars), "bytes", len(out))
	return out, nil
}

// RenderString renders ad-hoc template text against this environment, so
// includes resolve relative to the root.
func (e *Environment) RenderString(source string, vars map[string]string) (string, error) {
	if err := e.checkBound(rootVariables(ExtractVariables(source)), vars); err != nil {
		return "", &aierr.TemplateRenderError{Name: "<inline>", Err: err}
	}
	e.setMu.Lock()
	tpl, err := e.set.FromString(source)
	e.setMu.Unlock()
	if err != nil {
		return "", &aierr.TemplateRenderError{Name: "<inline>", Err: err}
	}
	out, err := execute(tpl, vars)
	if err != nil {
		return "", &aierr.TemplateRenderError{Name: "<inline>", Err: err}
	}
	return out, nil
}

func (e *Environment) checkBound(declared []string, vars map[string]string) error {
	if !e.strict {
		return nil
	}
	var missing []string
	for _, name := range rootVariables(declared) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("unbound variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func execute(tpl *pongo2.Template, vars map[string]string) (string, error) {
	ctx := make(pongo2.Context, len(vars))
	for k, v := range vars {
		ctx[k] = pongo2.AsSafeValue(v)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type envKey struct {
	root     string
	implicit bool
}

type envEntry struct {
	once sync.Once
	env  *Environment
	err  error
}

var (
	cacheMu sync.Mutex
	cache   = make(map[envKey]*envEntry)

	defaultMu       sync.RWMutex
	defaultOverride *Environment
)

// Resolve returns the environment for root, constructing it at most once per
// distinct root for the life of the process. An empty root selects the
// default (see the package doc).
//
// A missing explicitly configured root is a ConfigurationError. A missing
// ./prompts yields an empty environment, so every render reports
// TemplateNotFoundError.
func Resolve(root string) (*Environment, error) {
	implicit := false
	if root == "" {
		defaultMu.RLock()
		override := defaultOverride
		defaultMu.RUnlock()
		if override != nil {
			return override, nil
		}
		root = os.Getenv(EnvPromptDir)
		if root == "" {
			root, implicit = DefaultDir, true
		}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &aierr.ConfigurationError{Setting: EnvPromptDir, Value: root, Err: err}
	}
	key := envKey{root: abs, implicit: implicit}

	cacheMu.Lock()
	entry, ok := cache[key]
	if !ok {
		entry = &envEntry{}
		cache[key] = entry
	}
	cacheMu.Unlock()

	entry.once.Do(func() {
		entry.env, entry.err = NewEnvironment(abs)
		if entry.err != nil && implicit {
			if _, statErr := os.Stat(abs); errors.Is(statErr, fs.ErrNotExist) {
				slog.Default().Warn("prompt directory not found, no templates available", "root", abs)
				entry.env, entry.err = newEnvironment(abs), nil
			}
		}
	})
	return entry.env, entry.err
}

// Default returns the process-wide default environment.
func Default() (*Environment, error) {
	return Resolve("")
}

// SetDefault replaces the process-wide default environment. Passing nil
// restores discovery from PROMPT_DIR or ./prompts.
func SetDefault(env *Environment) {
	defaultMu.Lock()
	defaultOverride = env
	defaultMu.Unlock()
}

// DefaultRoot returns the absolute root the default environment uses,
// without reading the template directory.
func DefaultRoot() string {
	defaultMu.RLock()
	override := defaultOverride
	defaultMu.RUnlock()
	if override != nil {
		return override.root
	}
	root := os.Getenv(EnvPromptDir)
	if root == "" {
		root = DefaultDir
	}
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}
