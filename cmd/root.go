package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"booktranslator/internal/app"
	"booktranslator/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "booktranslator",
	Short: "Translate EPUB books with an OpenAI-compatible LLM",
	Long:  "booktranslator walks an EPUB's spine and metadata, translating page text while preserving markup.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		cfg, err := config.LoadConfig(cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		appInstance, err := app.NewApp(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
}

type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the App instance PersistentPreRunE stored.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(serveCmd)

	rootCmd.PersistentFlags().String("source_file", "", "path to the source EPUB")
	rootCmd.PersistentFlags().String("translated_file", "", "path to write the translated EPUB")
	rootCmd.PersistentFlags().String("language", "", "target language code")
	rootCmd.PersistentFlags().String("prompt", "", "extra system prompt text")
	rootCmd.PersistentFlags().Int("max_chunk_tokens", 0, "group_max_tokens budget")
	rootCmd.PersistentFlags().Int("max_paragraph", 0, "hard per-fragment character cap")
	rootCmd.PersistentFlags().Int("threads", 0, "number of parallel workers")
	rootCmd.PersistentFlags().Int("retry_times", 0, "LLM retry attempts")
	rootCmd.PersistentFlags().Float64("retry_interval_seconds", 0, "delay between LLM retry attempts")
	rootCmd.PersistentFlags().String("model", "", "LLM model name")
	rootCmd.PersistentFlags().Float64("top_p", 0, "LLM nucleus sampling parameter")
	rootCmd.PersistentFlags().Float64("temperature", 0, "LLM sampling temperature")
	rootCmd.PersistentFlags().String("api_key", "", "LLM API key")
	rootCmd.PersistentFlags().String("base_url", "", "LLM API base URL")
	rootCmd.PersistentFlags().String("work_dir", "", "workspace directory for unzip/cache/logs")
	rootCmd.PersistentFlags().String("cache_dir", "", "cache subdirectory name within the workspace")
	rootCmd.PersistentFlags().Bool("best_effort", false, "downgrade page failures to warnings")
	rootCmd.PersistentFlags().Bool("clean_format", false, "skip the default empty <span> indentation wrapper cleanup pass")
}
