package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/aisdk/internal/api"
	"github.com/jackzampolin/aisdk/internal/server/endpoints"
)

var (
	renderExt  string
	renderVars []string
	renderSets []string
)

var renderCmd = &cobra.Command{
	Use:   "render <name>",
	Short: "Render a prompt template locally",
	Long: `Render a template from the prompt root and print the result.

--var binds a variable unless it is already bound (first value wins).
--set always replaces. Pass -o yaml or -o json for structured output.

Examples:
  aisdk render greet --var name=Ada
  aisdk render system/base --ext md --set role=terse`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := endpoints.ParseBindings(renderVars)
		if err != nil {
			return err
		}
		sets, err := endpoints.ParseBindings(renderSets)
		if err != nil {
			return err
		}

		svc, err := loadServices(nil)
		if err != nil {
			return err
		}
		p := endpoints.Apply(svc.Prompt(args[0], renderExt), vars, sets)

		res, err := svc.Render(p)
		if err != nil {
			return err
		}
		if structuredOutput() {
			return api.Output(res)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderExt, "ext", "", "Template extension (default from config)")
	renderCmd.Flags().StringArrayVar(&renderVars, "var", nil, "Bind a variable, first value wins (name=value)")
	renderCmd.Flags().StringArrayVar(&renderSets, "set", nil, "Bind a variable, replacing earlier values (name=value)")

	rootCmd.AddCommand(renderCmd)
}
