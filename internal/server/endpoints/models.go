package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/aisdk/internal/api"
	"github.com/jackzampolin/aisdk/internal/providers"
)

// ModelsResponse lists the registered models.
type ModelsResponse struct {
	Default string                `json:"default,omitempty"`
	Models  []providers.ModelInfo `json:"models"`
}

// ListModelsEndpoint handles GET /api/models.
type ListModelsEndpoint struct{}

func (e *ListModelsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/models", e.handler
}

// handler godoc
//
//	@Summary		List models
//	@Description	Get the models registered from configuration
//	@Tags			models
//	@Produce		json
//	@Success		200	{object}	ModelsResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/models [get]
func (e *ListModelsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s := servicesOr500(w, r)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, ModelsResponse{
		Default: s.DefaultModel,
		Models:  s.Registry.Describe(),
	})
}

func (e *ListModelsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List registered models",
		Annotations: map[string]string{api.AnnotationGroup: "models"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ModelsResponse
			if err := client.Get(cmd.Context(), "/api/models", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
