// Package aierr defines the closed set of failures surfaced by prompt
// rendering, call option construction and text generation.
//
// Every layer returns one of these types (possibly wrapped with %w), so
// callers can classify a failure with KindOf or extract it with errors.As.
package aierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies an error into the taxonomy.
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingField
	KindTemplateNotFound
	KindTemplateRender
	KindAPI
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindMissingField:
		return "missing_field"
	case KindTemplateNotFound:
		return "template_not_found"
	case KindTemplateRender:
		return "template_render"
	case KindAPI:
		return "api"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// KindOf walks the error chain and reports the taxonomy kind of err.
// Returns KindUnknown for nil or foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var (
		missing  *MissingFieldError
		notFound *TemplateNotFoundError
		render   *TemplateRenderError
		api      *APIError
		cfg      *ConfigurationError
	)
	switch {
	case errors.As(err, &missing):
		return KindMissingField
	case errors.As(err, &notFound):
		return KindTemplateNotFound
	case errors.As(err, &render):
		return KindTemplateRender
	case errors.As(err, &api):
		return KindAPI
	case errors.As(err, &cfg):
		return KindConfiguration
	default:
		return KindUnknown
	}
}

// MissingFieldError is returned by a builder's Build when a required field
// was never set.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("a required field is missing: %s", e.Field)
}

// TemplateNotFoundError means no file matched the requested template name
// under the environment root.
type TemplateNotFoundError struct {
	Name string
	Root string
}

func (e *TemplateNotFoundError) Error() string {
	if e.Root == "" {
		return fmt.Sprintf("template not found: %s", e.Name)
	}
	return fmt.Sprintf("template not found: %s (root %s)", e.Name, e.Root)
}

// TemplateRenderError wraps a failure of the rendering engine for a resolved
// template.
type TemplateRenderError struct {
	Name string
	Err  error
}

func (e *TemplateRenderError) Error() string {
	return fmt.Sprintf("failed to render template %s: %v", e.Name, e.Err)
}

func (e *TemplateRenderError) Unwrap() error { return e.Err }

// APIError is a failed backend call: a non-success status from the provider
// or a transport failure (StatusCode 0).
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	// Body is the provider's raw error payload, verbatim, when available.
	Body       string
	RetryAfter time.Duration
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = e.Body
	}
	switch {
	case e.Provider != "" && e.StatusCode != 0:
		return fmt.Sprintf("API error (%s, status %d): %s", e.Provider, e.StatusCode, msg)
	case e.Provider != "":
		return fmt.Sprintf("API error (%s): %s", e.Provider, msg)
	case e.StatusCode != 0:
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, msg)
	default:
		return fmt.Sprintf("API error: %s", msg)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// Retryable reports whether a later attempt of the same request may succeed:
// rate limiting, server errors, and transport failures that were not caused
// by context cancellation.
func (e *APIError) Retryable() bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	case e.StatusCode == 0:
		return !errors.Is(e.Err, context.Canceled) && !errors.Is(e.Err, context.DeadlineExceeded)
	default:
		return false
	}
}

// ConfigurationError means the template root (or another required setting)
// could not be established.
type ConfigurationError struct {
	Setting string
	Value   string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid configuration %s=%q: %v", e.Setting, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid configuration %s: %v", e.Setting, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// IsMissingField checks if err is (or wraps) a MissingFieldError.
func IsMissingField(err error) (*MissingFieldError, bool) {
	var target *MissingFieldError
	ok := errors.As(err, &target)
	return target, ok
}

// IsTemplateNotFound checks if err is (or wraps) a TemplateNotFoundError.
func IsTemplateNotFound(err error) (*TemplateNotFoundError, bool) {
	var target *TemplateNotFoundError
	ok := errors.As(err, &target)
	return target, ok
}

// IsTemplateRender checks if err is (or wraps) a TemplateRenderError.
func IsTemplateRender(err error) (*TemplateRenderError, bool) {
	var target *TemplateRenderError
	ok := errors.As(err, &target)
	return target, ok
}

// IsAPIError checks if err is (or wraps) an APIError.
func IsAPIError(err error) (*APIError, bool) {
	var target *APIError
	ok := errors.As(err, &target)
	return target, ok
}

// IsConfiguration checks if err is (or wraps) a ConfigurationError.
func IsConfiguration(err error) (*ConfigurationError, bool) {
	var target *ConfigurationError
	ok := errors.As(err, &target)
	return target, ok
}

// HTTPStatus maps an error to the status code the HTTP API reports for it.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindMissingField:
		return http.StatusBadRequest
	case KindTemplateNotFound:
		return http.StatusNotFound
	case KindTemplateRender:
		return http.StatusUnprocessableEntity
	case KindAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
