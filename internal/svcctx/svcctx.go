// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/aisdk/internal/config"
	"github.com/jackzampolin/aisdk/internal/home"
	"github.com/jackzampolin/aisdk/internal/llmcall"
	"github.com/jackzampolin/aisdk/internal/metrics"
	"github.com/jackzampolin/aisdk/internal/prompts"
	"github.com/jackzampolin/aisdk/internal/providers"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Environment  *prompts.Environment
	Registry     *providers.Registry
	LLMCallStore *llmcall.Store
	Metrics      *metrics.Prom
	Config       *config.Manager
	Home         *home.Dir
	Logger       *slog.Logger

	// Extension is applied to prompts that do not set one.
	Extension string
	// DefaultModel is the registry name used when a caller names no model.
	DefaultModel string
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// EnvironmentFrom extracts the prompt environment from context.
func EnvironmentFrom(ctx context.Context) *prompts.Environment {
	if s := ServicesFrom(ctx); s != nil {
		return s.Environment
	}
	return nil
}

// RegistryFrom extracts the model registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// LLMCallStoreFrom extracts the LLM call store from context.
func LLMCallStoreFrom(ctx context.Context) *llmcall.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.LLMCallStore
	}
	return nil
}

// MetricsFrom extracts the Prometheus metrics from context.
func MetricsFrom(ctx context.Context) *metrics.Prom {
	if s := ServicesFrom(ctx); s != nil {
		return s.Metrics
	}
	return nil
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// LoggerFrom extracts the logger from context, falling back to slog.Default.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
