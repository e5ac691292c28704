package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Registry holds all registered endpoints.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry creates a new endpoint registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds endpoints to the registry.
func (r *Registry) Register(eps ...Endpoint) {
	r.endpoints = append(r.endpoints, eps...)
}

// RegisterRoutes registers all endpoint HTTP routes with the given mux.
// Every handler is wrapped by middleware, in order, when any are given.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, middleware ...func(http.HandlerFunc) http.HandlerFunc) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		for i := len(middleware) - 1; i >= 0; i-- {
			handler = middleware[i](handler)
		}
		mux.HandleFunc(method+" "+path, handler)
	}
}

// BuildCommands returns a cobra.Command tree for all registered endpoints.
// Commands annotated with AnnotationGroup are nested under a parent command
// of that name, e.g. "api prompts list".
func (r *Registry) BuildCommands(getServerURL func() string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running server",
		Long: `API commands call the running aisdk server via HTTP.

These commands require a running server (aisdk serve).
Use --server to specify a custom server URL.

Examples:
  aisdk api health                     # Check server health
  aisdk api prompts list               # List templates
  aisdk api render greet --var name=Ada
  aisdk api generate greet --model openai`,
	}

	groups := make(map[string]*cobra.Command)
	for _, ep := range r.endpoints {
		cmd := ep.Command(getServerURL)
		group := cmd.Annotations[AnnotationGroup]
		if group == "" {
			apiCmd.AddCommand(cmd)
			continue
		}
		g, ok := groups[group]
		if !ok {
			g = &cobra.Command{Use: group, Short: "Inspect " + group}
			groups[group] = g
			apiCmd.AddCommand(g)
		}
		g.AddCommand(cmd)
	}

	return apiCmd
}

// AnnotationGroup names the parent command an endpoint command is listed under.
const AnnotationGroup = "aisdk/group"

// Endpoints returns all registered endpoints.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}
