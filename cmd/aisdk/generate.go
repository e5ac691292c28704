package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jackzampolin/aisdk/internal/api"
	"github.com/jackzampolin/aisdk/internal/server/endpoints"
	"github.com/jackzampolin/aisdk/internal/svcctx"
)

var (
	generateModel string
	generateExt   string
	generateVars  []string
	generateSets  []string
)

var generateCmd = &cobra.Command{
	Use:   "generate <name>...",
	Short: "Render prompt templates and generate text",
	Long: `Render each named template with the same variables and send it to a
model. Several templates run concurrently, bounded by
defaults.max_concurrency. Results print in argument order.

Examples:
  aisdk generate greet --var name=Ada
  aisdk generate summary critique --model mock --set text="$(cat notes.txt)"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := endpoints.ParseBindings(generateVars)
		if err != nil {
			return err
		}
		sets, err := endpoints.ParseBindings(generateSets)
		if err != nil {
			return err
		}

		svc, err := loadServices(nil)
		if err != nil {
			return err
		}

		results := make([]*svcctx.GenerateResult, len(args))
		g, ctx := errgroup.WithContext(cmd.Context())
		if limit := svc.Config.Get().Defaults.MaxConcurrency; limit > 0 {
			g.SetLimit(limit)
		}
		for i, name := range args {
			g.Go(func() error {
				p := endpoints.Apply(svc.Prompt(name, generateExt), vars, sets)
				res, err := svc.Generate(ctx, p, generateModel)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if structuredOutput() {
			return api.Output(results)
		}
		out := cmd.OutOrStdout()
		for i, res := range results {
			if len(results) > 1 {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "## %s (%s)\n", res.Template, res.Model)
			}
			fmt.Fprintln(out, res.Text)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateModel, "model", "m", "", "Model name (default: defaults.llm_provider)")
	generateCmd.Flags().StringVar(&generateExt, "ext", "", "Template extension (default from config)")
	generateCmd.Flags().StringArrayVar(&generateVars, "var", nil, "Bind a variable, first value wins (name=value)")
	generateCmd.Flags().StringArrayVar(&generateSets, "set", nil, "Bind a variable, replacing earlier values (name=value)")

	rootCmd.AddCommand(generateCmd)
}
