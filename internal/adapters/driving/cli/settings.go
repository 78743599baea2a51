package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Afficher et modifier la configuration",
	Long: `Affiche et modifie la configuration: fournisseur de modèle, index
vectoriel, découpage et récupération. La configuration est stockée dans
un fichier TOML, les invites dans des fichiers texte éditables.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Afficher la configuration courante",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [clé] [valeur]",
	Short: "Modifier une clé de configuration",
	Long: `Modifie une clé de configuration en notation pointée.

Clés usuelles:
  llm.provider          openai ou ollama
  llm.model             modèle de génération
  llm.base_url          URL du serveur (ollama ou passerelle)
  embedding.model       modèle d'embedding
  index.url             URL du serveur Chroma
  index.collection      nom de la collection
  retrieval.top_k       nombre d'extraits récupérés
  chunking.size         taille des extraits (caractères)
  chunking.overlap      chevauchement entre extraits
  chat.history_window   nombre d'échanges gardés en contexte`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Enregistrer la clé API sans l'afficher",
	RunE:  runSettingsSetKey,
}

var settingsPromptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Afficher l'emplacement des invites",
	RunE:  runSettingsPrompts,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	settingsCmd.AddCommand(settingsPromptsCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := initConfig(); err != nil {
		return err
	}

	cmd.Printf("Configuration: %s\n\n", configStore.Path())

	cmd.Println("[llm]")
	cmd.Printf("  provider:  %s\n", orDefault(configStore.GetString("llm.provider"), "openai"))
	cmd.Printf("  model:     %s\n", orDefault(configStore.GetString("llm.model"), "(défaut du fournisseur)"))
	if url := configStore.GetString("llm.base_url"); url != "" {
		cmd.Printf("  base_url:  %s\n", url)
	}
	if key := configStore.GetString("llm.api_key"); key != "" {
		cmd.Printf("  api_key:   %s\n", maskAPIKey(key))
	} else {
		cmd.Printf("  api_key:   (non définie)\n")
	}
	cmd.Println()

	cmd.Println("[index]")
	cmd.Printf("  url:        %s\n", orDefault(configStore.GetString("index.url"), "http://localhost:8000"))
	cmd.Printf("  collection: %s\n", orDefault(configStore.GetString("index.collection"), "legal_docs"))
	cmd.Println()

	cmd.Println("[pipeline]")
	cmd.Printf("  chunking.size:       %d\n", settings.ChunkSize)
	cmd.Printf("  chunking.overlap:    %d\n", settings.ChunkOverlap)
	cmd.Printf("  retrieval.top_k:     %d\n", settings.TopK)
	cmd.Printf("  chat.history_window: %d\n", settings.HistoryWindow)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := initConfig(); err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := configStore.Set(key, coerceValue(value)); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}

	cmd.Printf("%s = %s\n", key, value)
	return nil
}

// coerceValue parses numeric and boolean literals so typed reads see
// their natural type rather than a string.
func coerceValue(value string) any {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}

func runSettingsSetKey(cmd *cobra.Command, _ []string) error {
	if err := initConfig(); err != nil {
		return err
	}

	cmd.Print("Clé API: ")
	key := readPassword()
	cmd.Println()
	if key == "" {
		return fmt.Errorf("aucune clé saisie")
	}

	if err := configStore.Set("llm.api_key", key); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}

	cmd.Printf("Clé enregistrée (%s).\n", maskAPIKey(key))
	return nil
}

func runSettingsPrompts(cmd *cobra.Command, _ []string) error {
	if err := initConfig(); err != nil {
		return err
	}

	cmd.Printf("Les invites sont modifiables dans %s\n", promptStore.Dir())
	cmd.Println("Fichiers: answer.txt, reformulate.txt, title.txt")
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
