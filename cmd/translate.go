package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"booktranslator/internal/app"
	"booktranslator/internal/book"
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate an EPUB into the target language",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		cfg := appInstance.Config
		destPath := cfg.TranslatedFile

		last := -1.0
		progress := func(fraction float64) {
			pct := int(fraction * 100)
			if pct == int(last*100) {
				return
			}
			last = fraction
			fmt.Fprintf(cmd.OutOrStdout(), "%s %3d%%\n", color.CyanString("translating"), pct)
		}

		if workspaceName, err := book.DeriveWorkspace(cfg.SourceFile); err == nil {
			workspaceDir := filepath.Join(cfg.WorkDir, workspaceName)
			if logErr := app.AttachWorkspaceLogging(appInstance.Logger, workspaceDir); logErr != nil {
				appInstance.Logger.WithError(logErr).Warn("continuing without per-exchange logging")
			}
		}

		out, err := appInstance.Orchestrator.TranslateBook(context.Background(), cfg.SourceFile, destPath, progress)
		if err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("done: %s", out))
		return nil
	},
}
