package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"booktranslator/internal/book"
	"booktranslator/internal/cache"
	"booktranslator/internal/config"
)

var gcMaxAgeHours float64

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clean the on-disk translation cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List cached translation batches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		dir, err := cacheDir(appInstance.Config)
		if err != nil {
			return err
		}
		entries, err := cache.Stats(dir)
		if err != nil {
			return fmt.Errorf("reading cache: %w", err)
		}

		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "cache is empty")
			return nil
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Hash", "Bytes", "Modified"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		var total int64
		for _, e := range entries {
			total += e.Bytes
			table.Append([]string{e.Hash, fmt.Sprintf("%d", e.Bytes), e.ModifiedAt.Format("2006-01-02 15:04:05")})
		}
		table.Render()
		fmt.Fprintf(cmd.OutOrStdout(), "%d entries, %d bytes total\n", len(entries), total)
		return nil
	},
}

var cacheGCCmd = &cobra.Command{
	Use:   "gc",
	Short: "Remove cache entries older than --max-age-hours",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		dir, err := cacheDir(appInstance.Config)
		if err != nil {
			return err
		}
		removed, err := cache.GC(dir, time.Duration(gcMaxAgeHours*float64(time.Hour)), time.Now())
		if err != nil {
			return fmt.Errorf("cache gc: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", removed)
		return nil
	},
}

// cacheDir resolves where cache.New rooted a run's translation cache for
// cfg.SourceFile: <workDir>/<workspace>/<cacheDir>, matching
// book.Orchestrator.TranslateBook's layout.
func cacheDir(cfg *config.Config) (string, error) {
	workspaceName, err := book.DeriveWorkspace(cfg.SourceFile)
	if err != nil {
		return "", fmt.Errorf("resolving workspace for %s: %w", cfg.SourceFile, err)
	}
	return filepath.Join(cfg.WorkDir, workspaceName, cfg.CacheDir), nil
}

func init() {
	cacheGCCmd.Flags().Float64Var(&gcMaxAgeHours, "max-age-hours", 24*7, "remove entries older than this many hours")

	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheGCCmd)
}
