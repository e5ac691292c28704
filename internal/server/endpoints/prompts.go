package endpoints

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/aisdk/internal/aierr"
	"github.com/jackzampolin/aisdk/internal/api"
	"github.com/jackzampolin/aisdk/internal/prompts"
	"github.com/jackzampolin/aisdk/internal/svcctx"
)

// PromptsListResponse contains every template under the root.
type PromptsListResponse struct {
	Root    string                 `json:"root"`
	Prompts []prompts.TemplateInfo `json:"prompts"`
}

// PromptResponse is a single template with its source.
type PromptResponse struct {
	prompts.TemplateInfo `yaml:",inline"`
	Source               string `json:"source"`
}

// ListPromptsEndpoint handles GET /api/prompts.
type ListPromptsEndpoint struct{}

func (e *ListPromptsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompts", e.handler
}

// handler godoc
//
//	@Summary		List all prompts
//	@Description	Get every template under the prompt root with its declared variables
//	@Tags			prompts
//	@Produce		json
//	@Success		200	{object}	PromptsListResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/prompts [get]
func (e *ListPromptsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	env := svcctx.EnvironmentFrom(r.Context())
	if env == nil {
		writeError(w, http.StatusInternalServerError, "prompt environment not available")
		return
	}
	writeJSON(w, http.StatusOK, PromptsListResponse{Root: env.Root(), Prompts: env.Templates()})
}

func (e *ListPromptsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List all prompts",
		Annotations: map[string]string{api.AnnotationGroup: "prompts"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp PromptsListResponse
			if err := client.Get(cmd.Context(), "/api/prompts", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetPromptEndpoint handles GET /api/prompts/{name...}.
type GetPromptEndpoint struct{}

func (e *GetPromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompts/{name...}", e.handler
}

// handler godoc
//
//	@Summary		Get a prompt
//	@Description	Get a template by file name relative to the root (e.g. system/base.prompt)
//	@Tags			prompts
//	@Produce		json
//	@Param			name	path		string	true	"Template file name"
//	@Success		200		{object}	PromptResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/prompts/{name} [get]
func (e *GetPromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(r.PathValue("name"))
	if err != nil || name == "" {
		writeError(w, http.StatusBadRequest, "invalid prompt name")
		return
	}

	env := svcctx.EnvironmentFrom(r.Context())
	if env == nil {
		writeError(w, http.StatusInternalServerError, "prompt environment not available")
		return
	}

	info, ok := env.Lookup(name)
	if !ok {
		writeErr(w, &aierr.TemplateNotFoundError{Name: name, Root: env.Root()})
		return
	}
	source, err := env.Source(name)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PromptResponse{TemplateInfo: info, Source: source})
}

func (e *GetPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:         "get <file>",
		Short:       "Get a prompt template and its source",
		Annotations: map[string]string{api.AnnotationGroup: "prompts"},
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp PromptResponse
			if err := client.Get(cmd.Context(), "/api/prompts/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
