package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/aisdk/internal/api"
	"github.com/jackzampolin/aisdk/internal/svcctx"
)

// GenerateRequest renders a prompt and sends it to a model.
type GenerateRequest struct {
	PromptRequest
	// Model is a registry name; empty selects the configured default.
	Model string `json:"model,omitempty"`
}

// GenerateEndpoint handles POST /api/generate.
type GenerateEndpoint struct{}

func (e *GenerateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/generate", e.handler
}

// handler godoc
//
//	@Summary		Generate text
//	@Description	Render a named template and generate a completion from it
//	@Tags			generate
//	@Accept			json
//	@Produce		json
//	@Param			request	body		GenerateRequest	true	"Template, variables and model"
//	@Success		200		{object}	svcctx.GenerateResult
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/generate [post]
func (e *GenerateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s := servicesOr500(w, r)
	if s == nil {
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	p, err := req.Prompt(s)
	if err != nil {
		writeErr(w, err)
		return
	}

	res, err := s.Generate(r.Context(), p, req.Model)
	if err != nil {
		s.Logger.Warn("generation failed", "prompt", p.TemplateName(), "model", req.Model, "error", err)
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (e *GenerateEndpoint) Command(getServerURL func() string) *cobra.Command {
	var ext, model string
	var varFlags, setFlags []string
	var raw bool

	cmd := &cobra.Command{
		Use:   "generate <name>",
		Short: "Generate text from a prompt on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, sets, err := bindingMaps(varFlags, setFlags)
			if err != nil {
				return err
			}
			req := GenerateRequest{
				PromptRequest: PromptRequest{Name: args[0], Extension: ext, Vars: vars, Overwrite: sets},
				Model:         model,
			}

			client := api.NewClient(getServerURL())
			var resp svcctx.GenerateResult
			if err := client.Post(cmd.Context(), "/api/generate", req, &resp); err != nil {
				return err
			}
			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), resp.Text)
				return nil
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&ext, "ext", "", "Template extension (default from config)")
	cmd.Flags().StringVar(&model, "model", "", "Model name from the registry (default from config)")
	cmd.Flags().StringArrayVar(&varFlags, "var", nil, "Bind a variable, first value wins (name=value)")
	cmd.Flags().StringArrayVar(&setFlags, "set", nil, "Bind a variable, replacing earlier values (name=value)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print only the generated text")
	return cmd
}
