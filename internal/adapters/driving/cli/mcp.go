package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plaide-labs/plaide-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serveur MCP",
	Long:  `Commandes du serveur Model Context Protocol (MCP).`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Démarrer le serveur MCP",
	Long: `Démarre le serveur Model Context Protocol pour l'intégration avec
les assistants IA.

Par défaut le serveur communique sur stdio en JSON-RPC. Avec --port il
écoute en HTTP, ce qui permet les tests avec MCP Inspector ou un accès
distant.

Exemple de configuration client (stdio):
  {
    "mcpServers": {
      "plaide": {
        "command": "/chemin/vers/plaide",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

var mcpPort int

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "port HTTP (0 = stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Ask:      askService,
		Document: docService,
		Sync:     syncService,
	})
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		cmd.Printf("Serveur MCP sur http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
