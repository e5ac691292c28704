package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/aisdk/internal/aierr"
	"github.com/jackzampolin/aisdk/internal/api"
	"github.com/jackzampolin/aisdk/internal/providers"
	"github.com/jackzampolin/aisdk/internal/svcctx"
)

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Status     string   `json:"status"`
	PromptRoot string   `json:"prompt_root,omitempty"`
	Templates  int      `json:"templates"`
	Models     []string `json:"models"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

// handler godoc
//
//	@Summary		Health check
//	@Description	Report server status, the template root and registered models
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Models: []string{}}
	if env := svcctx.EnvironmentFrom(r.Context()); env != nil {
		resp.PromptRoot = env.Root()
		resp.Templates = env.Len()
	}
	if registry := svcctx.RegistryFrom(r.Context()); registry != nil {
		resp.Models = registry.List()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Status:    %s\n", resp.Status)
			fmt.Fprintf(cmd.OutOrStdout(), "Prompts:   %s (%d templates)\n", resp.PromptRoot, resp.Templates)
			fmt.Fprintf(cmd.OutOrStdout(), "Models:    %v\n", resp.Models)
			return nil
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeErr writes err with the status its kind maps to.
func writeErr(w http.ResponseWriter, err error) {
	status := aierr.HTTPStatus(err)
	kind := aierr.KindOf(err)
	if errors.Is(err, providers.ErrModelNotFound) {
		status = http.StatusNotFound
	}
	resp := ErrorResponse{Error: err.Error()}
	if kind != aierr.KindUnknown {
		resp.Kind = kind.String()
	}
	writeJSON(w, status, resp)
}

// servicesOr500 returns the request's services or writes a 500.
func servicesOr500(w http.ResponseWriter, r *http.Request) *svcctx.Services {
	s := svcctx.ServicesFrom(r.Context())
	if s == nil {
		writeError(w, http.StatusInternalServerError, "services not available")
	}
	return s
}
