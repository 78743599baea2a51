package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"conv"},
	Short:   "Gérer les conversations enregistrées",
}

var conversationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lister les conversations par ancienneté",
	RunE:  runConversationsList,
}

var conversationsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Afficher une conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsShow,
}

var conversationsExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Exporter une conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsExport,
}

var conversationsRenameCmd = &cobra.Command{
	Use:   "rename [id] [titre]",
	Short: "Renommer une conversation",
	Args:  cobra.ExactArgs(2),
	RunE:  runConversationsRename,
}

var conversationsDeleteCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"delete"},
	Short:   "Supprimer une conversation",
	Args:    cobra.ExactArgs(1),
	RunE:    runConversationsDelete,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	conversationsExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "text", "format d'export (text, markdown, json)")
	conversationsExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "fichier de sortie (défaut: stdout)")

	conversationsCmd.AddCommand(conversationsListCmd)
	conversationsCmd.AddCommand(conversationsShowCmd)
	conversationsCmd.AddCommand(conversationsExportCmd)
	conversationsCmd.AddCommand(conversationsRenameCmd)
	conversationsCmd.AddCommand(conversationsDeleteCmd)
	rootCmd.AddCommand(conversationsCmd)
}

func runConversationsList(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	groups, err := convService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing conversations: %w", err)
	}

	if len(groups) == 0 {
		cmd.Println("Aucune conversation enregistrée.")
		return nil
	}

	for _, group := range groups {
		cmd.Printf("%s\n", bucketLabel(group.Bucket))
		for _, conv := range group.Conversations {
			cmd.Printf("  %s  %s (%d messages)\n", conv.ID, conv.Title, conv.MessageCount)
		}
		cmd.Println()
	}
	return nil
}

func runConversationsShow(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	out, err := convService.Export(cmd.Context(), args[0], domain.ExportText)
	if err != nil {
		return fmt.Errorf("loading conversation: %w", err)
	}

	cmd.Print(string(out))
	return nil
}

func runConversationsExport(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	out, err := convService.Export(cmd.Context(), args[0], domain.ExportFormat(exportFormat))
	if err != nil {
		return fmt.Errorf("exporting conversation: %w", err)
	}

	if exportOutput == "" {
		cmd.Print(string(out))
		return nil
	}
	if err := os.WriteFile(exportOutput, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", exportOutput, err)
	}
	cmd.Printf("Conversation exportée vers %s\n", exportOutput)
	return nil
}

func runConversationsRename(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	if err := convService.Rename(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("renaming conversation: %w", err)
	}

	cmd.Printf("Conversation %s renommée.\n", args[0])
	return nil
}

func runConversationsDelete(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	if err := convService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}

	cmd.Printf("Conversation %s supprimée.\n", args[0])
	return nil
}

// bucketLabel renders a recency bucket heading.
func bucketLabel(b domain.RecencyBucket) string {
	switch b {
	case domain.BucketToday:
		return "Aujourd'hui"
	case domain.BucketYesterday:
		return "Hier"
	case domain.BucketLastWeek:
		return "7 derniers jours"
	default:
		return "Plus ancien"
	}
}
