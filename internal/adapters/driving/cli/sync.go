package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/plaide-labs/plaide-cli/internal/adapters/driven/watch"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Vérifier la cohérence corpus/index",
	Long: `Compare les documents enregistrés avec les sources indexées et
signale les écarts. Avec --watch, surveille un dossier et maintient le
corpus à jour au fil des ajouts, modifications et suppressions.`,
	RunE: runSync,
}

var watchDir string

func init() {
	syncCmd.Flags().StringVarP(&watchDir, "watch", "w", "", "dossier à surveiller en continu")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if watchDir != "" {
		return runWatch(cmd, watchDir)
	}

	ctx := cmd.Context()
	report, err := syncService.Report(ctx)
	if err != nil {
		return fmt.Errorf("comparing corpus and index: %w", err)
	}
	stats, err := syncService.Stats(ctx)
	if err != nil {
		return fmt.Errorf("reading corpus stats: %w", err)
	}

	cmd.Printf("Corpus: %d documents, index: %d sources (%d extraits)\n",
		stats.Documents, stats.IndexedSources, stats.IndexedChunks)

	if report.InSync {
		cmd.Println("Corpus et index sont synchronisés.")
		return nil
	}

	if len(report.Unindexed) > 0 {
		cmd.Println("\nDocuments non indexés:")
		for _, source := range report.Unindexed {
			cmd.Printf("  %s\n", source)
		}
	}
	if len(report.Stale) > 0 {
		cmd.Println("\nSources indexées sans document:")
		for _, source := range report.Stale {
			cmd.Printf("  %s\n", source)
		}
	}
	cmd.Println("\nLancez 'plaide docs rebuild' pour resynchroniser.")
	return nil
}

// runWatch keeps the corpus aligned with a directory until interrupted.
func runWatch(cmd *cobra.Command, dir string) error {
	watcher, err := watch.New(dir, []string{".txt", ".md", ".csv", ".html", ".htm"})
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	defer watcher.Close()

	ctx := cmd.Context()
	go watcher.Run(ctx)

	cmd.Printf("Surveillance de %s (Ctrl+C pour arrêter)...\n", dir)
	for change := range watcher.Changes() {
		handleChange(ctx, cmd, change)
	}
	return nil
}

func handleChange(ctx context.Context, cmd *cobra.Command, change watch.Change) {
	switch change.Type {
	case watch.ChangeCreated, watch.ChangeUpdated:
		count, err := docService.Ingest(ctx, change.Path)
		if err != nil {
			cmd.PrintErrf("Échec pour %s: %v\n", change.Path, err)
			return
		}
		cmd.Printf("%s: %d extraits indexés\n", change.Path, count)
	case watch.ChangeDeleted:
		source := filepath.Base(change.Path)
		count, err := docService.Remove(ctx, source)
		if err != nil {
			cmd.PrintErrf("Échec du retrait de %s: %v\n", source, err)
			return
		}
		cmd.Printf("%s retiré (%d extraits)\n", source, count)
	}
}
