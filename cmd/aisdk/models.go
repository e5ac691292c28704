package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/aisdk/internal/api"
	"github.com/jackzampolin/aisdk/internal/server/endpoints"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect configured models",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List models registered from configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadServices(nil)
		if err != nil {
			return err
		}
		resp := endpoints.ModelsResponse{
			Default: svc.DefaultModel,
			Models:  svc.Registry.Describe(),
		}
		if structuredOutput() {
			return api.Output(resp)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPROVIDER\tMODEL\tDEFAULT")
		for _, m := range resp.Models {
			def := ""
			if m.Name == resp.Default {
				def = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Name, m.Provider, m.Model, def)
		}
		return w.Flush()
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	rootCmd.AddCommand(modelsCmd)
}
