package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/aisdk/internal/api"
	"github.com/jackzampolin/aisdk/internal/server/endpoints"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Inspect the local prompt root",
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates under the prompt root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadServices(nil)
		if err != nil {
			return err
		}
		resp := endpoints.PromptsListResponse{
			Root:    svc.Environment.Root(),
			Prompts: svc.Environment.Templates(),
		}
		if structuredOutput() {
			return api.Output(resp)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "# %s\n", resp.Root)
		for _, tpl := range resp.Prompts {
			fmt.Fprintf(w, "%s\t%s\t%v\n", tpl.Name, tpl.Extension, tpl.Variables)
		}
		return w.Flush()
	},
}

var promptsShowCmd = &cobra.Command{
	Use:   "show <name.ext>",
	Short: "Print a template's source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadServices(nil)
		if err != nil {
			return err
		}
		src, err := svc.Environment.Source(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), src)
		return nil
	},
}

var promptsPathExt string

var promptsPathCmd = &cobra.Command{
	Use:   "path <name>",
	Short: "Print the file a template name resolves to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadServices(nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), svc.Prompt(args[0], promptsPathExt).FilePath())
		return nil
	},
}

func init() {
	promptsPathCmd.Flags().StringVar(&promptsPathExt, "ext", "", "Template extension (default from config)")

	promptsCmd.AddCommand(promptsListCmd, promptsShowCmd, promptsPathCmd)
	rootCmd.AddCommand(promptsCmd)
}
