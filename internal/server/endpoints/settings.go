package endpoints

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/aisdk/internal/api"
	"github.com/jackzampolin/aisdk/internal/config"
	"github.com/jackzampolin/aisdk/internal/svcctx"
)

// SettingsResponse contains the effective value of every scalar setting.
type SettingsResponse struct {
	ConfigFile string         `json:"config_file,omitempty"`
	Settings   []config.Entry `json:"settings"`
}

// SettingResponse contains a single setting.
type SettingResponse struct {
	Entry   config.Entry `json:"entry"`
	Default any          `json:"default"`
}

// ListSettingsEndpoint handles GET /api/settings.
type ListSettingsEndpoint struct{}

func (e *ListSettingsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings", e.handler
}

// handler godoc
//
//	@Summary		List all settings
//	@Description	Get the effective value of every configuration setting
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	SettingsResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/settings [get]
func (e *ListSettingsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	mgr := svcctx.ConfigFrom(r.Context())
	if mgr == nil {
		writeError(w, http.StatusInternalServerError, "config not available")
		return
	}
	writeJSON(w, http.StatusOK, SettingsResponse{ConfigFile: mgr.ConfigFile(), Settings: mgr.Settings()})
}

func (e *ListSettingsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List all settings",
		Annotations: map[string]string{api.AnnotationGroup: "settings"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SettingsResponse
			if err := client.Get(cmd.Context(), "/api/settings", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetSettingEndpoint handles GET /api/settings/{key}.
type GetSettingEndpoint struct{}

func (e *GetSettingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings/{key}", e.handler
}

// handler godoc
//
//	@Summary		Get a setting
//	@Description	Get the effective and default value of one setting (e.g. prompts.dir)
//	@Tags			settings
//	@Produce		json
//	@Param			key	path		string	true	"Setting key"
//	@Success		200	{object}	SettingResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/settings/{key} [get]
func (e *GetSettingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(r.PathValue("key"))
	if err != nil || key == "" {
		writeError(w, http.StatusBadRequest, "invalid setting key")
		return
	}

	mgr := svcctx.ConfigFrom(r.Context())
	if mgr == nil {
		writeError(w, http.StatusInternalServerError, "config not available")
		return
	}

	def := config.GetDefault(key)
	if def == nil {
		writeError(w, http.StatusNotFound, "unknown setting: "+key)
		return
	}
	for _, entry := range mgr.Settings() {
		if entry.Key == key {
			writeJSON(w, http.StatusOK, SettingResponse{Entry: entry, Default: def.Value})
			return
		}
	}
	writeError(w, http.StatusNotFound, "unknown setting: "+key)
}

func (e *GetSettingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:         "get <key>",
		Short:       "Get a setting",
		Annotations: map[string]string{api.AnnotationGroup: "settings"},
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SettingResponse
			if err := client.Get(cmd.Context(), "/api/settings/"+url.PathEscape(args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
