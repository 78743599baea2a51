package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Gérer les documents du corpus",
	Long:  `Ajoute, liste, retire et réindexe les documents du corpus.`,
}

var docsAddCmd = &cobra.Command{
	Use:   "add [fichier...]",
	Short: "Ajouter des documents au corpus",
	Long: `Charge un ou plusieurs fichiers, nettoie et découpe leur texte,
extrait les étiquettes et indexe les extraits. Réajouter un fichier
déjà présent remplace sa version indexée.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDocsAdd,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lister les documents du corpus",
	RunE:  runDocsList,
}

var docsRemoveCmd = &cobra.Command{
	Use:     "rm [source]",
	Aliases: []string{"remove"},
	Short:   "Retirer un document du corpus",
	Args:    cobra.ExactArgs(1),
	RunE:    runDocsRemove,
}

var docsRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Réindexer tous les documents",
	Long: `Reconstruit l'index vectoriel à partir des textes enregistrés.
Utile après une perte de l'index ou un changement de découpage.`,
	RunE: runDocsRebuild,
}

func init() {
	docsCmd.AddCommand(docsAddCmd)
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsRemoveCmd)
	docsCmd.AddCommand(docsRebuildCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsAdd(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	ctx := cmd.Context()
	var failed int
	for _, path := range args {
		count, err := docService.Ingest(ctx, path)
		if err != nil {
			cmd.PrintErrf("Échec pour %s: %v\n", path, err)
			failed++
			continue
		}
		cmd.Printf("%s: %d extraits indexés\n", path, count)
	}

	if failed > 0 {
		return fmt.Errorf("%d document(s) non ajoutés", failed)
	}
	return nil
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	docs, err := docService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("Aucun document dans le corpus.")
		return nil
	}

	for _, doc := range docs {
		cmd.Printf("  %-40s %d extraits\n", doc.Source, doc.ChunkCount)
	}
	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

func runDocsRemove(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	source := args[0]
	count, err := docService.Remove(cmd.Context(), source)
	if err != nil {
		return fmt.Errorf("removing %s: %w", source, err)
	}

	cmd.Printf("%s retiré (%d extraits supprimés de l'index).\n", source, count)
	return nil
}

func runDocsRebuild(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	cmd.Println("Réindexation du corpus...")
	count, err := docService.Rebuild(cmd.Context())
	if err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}

	cmd.Printf("Réindexation terminée: %d extraits.\n", count)
	return nil
}
