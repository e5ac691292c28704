package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/aisdk/internal/api"
	"github.com/jackzampolin/aisdk/internal/config"
	"github.com/jackzampolin/aisdk/internal/home"
	"github.com/jackzampolin/aisdk/internal/metrics"
	"github.com/jackzampolin/aisdk/internal/svcctx"
	"github.com/jackzampolin/aisdk/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string

	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "aisdk",
	Short: "Render prompt templates and generate text with language models",
	Long: `aisdk renders named prompt templates from a directory and sends the
result to a configured language model.

Templates live under the prompt root (prompts.dir, PROMPT_DIR or ./prompts)
as <name>.<ext> files using Django syntax: {{ var }}, {% if %}, {% for %}
and {% include %}.

Examples:
  aisdk render greet --var name=Ada
  aisdk generate greet summary --model openai --var name=Ada
  aisdk serve`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := api.SetOutputFormat(outputFormat); err != nil {
			return err
		}

		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		envFiles := []string{".env"}
		if h, err := home.New(homeDir); err == nil {
			envFiles = append(envFiles, h.EnvPath())
		}
		return config.LoadDotEnv(envFiles...)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.aisdk/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "aisdk home directory (default: ~/.aisdk)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "warn", "log level: debug, info, warn or error",
	)

	rootCmd.AddCommand(versionCmd)
}

// structuredOutput reports whether --output was given explicitly. Commands
// that print plain text by default switch to yaml/json when it was.
func structuredOutput() bool {
	return rootCmd.PersistentFlags().Changed("output")
}

// loadServices reads configuration and builds the services for a local
// command. m may be nil.
func loadServices(m *metrics.Prom) (*svcctx.Services, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, err
	}
	mgr.SetLogger(logger)

	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	return svcctx.New(mgr, h, m, logger)
}
