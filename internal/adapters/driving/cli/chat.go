package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/plaide-labs/plaide-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat [id]",
	Short: "Ouvrir le chat interactif",
	Long: `Ouvre l'interface de chat en mode plein écran. Avec un ID de
conversation, reprend la conversation existante.

Raccourcis:
  Entrée      envoyer la question
  Ctrl+N      nouvelle conversation
  Ctrl+S      afficher/masquer les sources
  Esc, Ctrl+C quitter`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	// Stack traces beat a garbled terminal when the UI panics
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n%s\n", r, debug.Stack())
		}
	}()

	var conversationID string
	if len(args) > 0 {
		conversationID = args[0]
	}

	app, err := tui.NewApp(&tui.Ports{
		Ask:          askService,
		Conversation: convService,
	}, conversationID)
	if err != nil {
		return fmt.Errorf("creating chat UI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI: %w", err)
	}
	return nil
}
