package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/aisdk/internal/api"
	"github.com/jackzampolin/aisdk/internal/svcctx"
)

// RenderEndpoint handles POST /api/render.
type RenderEndpoint struct{}

func (e *RenderEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/render", e.handler
}

// handler godoc
//
//	@Summary		Render a prompt
//	@Description	Render a named template with variables without calling a model
//	@Tags			prompts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PromptRequest	true	"Template name and variables"
//	@Success		200		{object}	svcctx.RenderResult
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/api/render [post]
func (e *RenderEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s := servicesOr500(w, r)
	if s == nil {
		return
	}

	var req PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	p, err := req.Prompt(s)
	if err != nil {
		writeErr(w, err)
		return
	}

	res, err := s.Render(p)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (e *RenderEndpoint) Command(getServerURL func() string) *cobra.Command {
	var ext string
	var varFlags, setFlags []string
	var raw bool

	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Render a prompt on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, sets, err := bindingMaps(varFlags, setFlags)
			if err != nil {
				return err
			}
			req := PromptRequest{Name: args[0], Extension: ext, Vars: vars, Overwrite: sets}

			client := api.NewClient(getServerURL())
			var resp svcctx.RenderResult
			if err := client.Post(cmd.Context(), "/api/render", req, &resp); err != nil {
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
	cmd.Flags().StringArrayVar(&varFlags, "var", nil, "Bind a variable, first value wins (name=value)")
	cmd.Flags().StringArrayVar(&setFlags, "set", nil, "Bind a variable, replacing earlier values (name=value)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print only the rendered text")
	return cmd
}
