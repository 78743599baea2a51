// Package cli implements the plaide command-line interface. It is the
// composition root: adapters are constructed here from configuration
// and injected into the core services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/plaide-labs/plaide-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/plaide-labs/plaide-cli/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/plaide-labs/plaide-cli/internal/adapters/driven/embedding/openai"
	llmollama "github.com/plaide-labs/plaide-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/plaide-labs/plaide-cli/internal/adapters/driven/llm/openai"
	storagefile "github.com/plaide-labs/plaide-cli/internal/adapters/driven/storage/file"
	"github.com/plaide-labs/plaide-cli/internal/adapters/driven/storage/sqlite"
	"github.com/plaide-labs/plaide-cli/internal/adapters/driven/vectorstore/chroma"
	"github.com/plaide-labs/plaide-cli/internal/chunker"
	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driving"
	"github.com/plaide-labs/plaide-cli/internal/core/services"
	"github.com/plaide-labs/plaide-cli/internal/loaders/csv"
	"github.com/plaide-labs/plaide-cli/internal/loaders/html"
	"github.com/plaide-labs/plaide-cli/internal/loaders/plaintext"
	"github.com/plaide-labs/plaide-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "plaide",
	Short: "Assistant documentaire juridique",
	Long: `Plaide répond à des questions sur un corpus de documents juridiques.

Les documents sont découpés, étiquetés et indexés dans une base
vectorielle. Les questions sont filtrées par type de document et par
personne avant la recherche, et chaque réponse cite ses sources.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Injected services, constructed by initServices.
var (
	configStore driven.ConfigStore
	promptStore *configfile.PromptStore

	corpusStore driven.CorpusStore
	vectorIndex driven.VectorIndex
	generator   driven.TextGenerator

	settings domain.Settings

	askService  driving.AskService
	convService driving.ConversationService
	docService  driving.DocumentService
	syncService driving.SyncService
)

// Execute runs the CLI.
func Execute() {
	defer closeServices()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig opens the config and prompt stores. Light enough for
// every command.
func initConfig() error {
	if configStore != nil {
		return nil
	}

	var err error
	configStore, err = configfile.NewConfigStore(os.Getenv("PLAIDE_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("opening configuration: %w", err)
	}
	promptStore, err = configfile.NewPromptStore(os.Getenv("PLAIDE_PROMPT_DIR"))
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	settings = loadSettings(configStore)
	return settings.Validate()
}

// initServices wires the full pipeline. Commands that talk to the
// index or the model call this at the start of their RunE.
func initServices() error {
	if askService != nil {
		return nil
	}
	if err := initConfig(); err != nil {
		return err
	}

	var err error
	corpusStore, err = sqlite.New(os.Getenv("PLAIDE_DATA_DIR"))
	if err != nil {
		return fmt.Errorf("opening corpus store: %w", err)
	}

	conversationStore, err := storagefile.NewConversationStore(os.Getenv("PLAIDE_CONVERSATIONS_DIR"))
	if err != nil {
		return fmt.Errorf("opening conversation store: %w", err)
	}

	generator, err = buildGenerator()
	if err != nil {
		return err
	}

	embedder, err := buildEmbedder()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), settings.CallTimeout)
	defer cancel()
	vectorIndex, err = chroma.New(ctx, chroma.Config{
		BaseURL:    configStore.GetString("index.url"),
		Collection: configStore.GetString("index.collection"),
		Timeout:    settings.CallTimeout,
	}, embedder)
	if err != nil {
		return fmt.Errorf("connecting to the vector index: %w", err)
	}

	extractor := services.NewRegexExtractor()
	retriever := services.NewRetriever(vectorIndex, settings.TopK)
	reformulator := services.NewReformulator(generator, promptStore, settings.HistoryWindow)

	askService = services.NewAnswerer(extractor, reformulator, retriever, generator, promptStore)
	convService = services.NewConversationManager(conversationStore, generator, promptStore)
	docService = services.NewIngestor(
		[]driven.Loader{plaintext.New(), csv.New(), html.New()},
		extractor,
		corpusStore,
		vectorIndex,
		chunker.New(
			chunker.WithChunkSize(settings.ChunkSize),
			chunker.WithOverlap(settings.ChunkOverlap),
		),
	)
	syncService = services.NewSyncChecker(corpusStore, vectorIndex)
	return nil
}

func closeServices() {
	// Title generation runs asynchronously; drain it before exit
	if manager, ok := convService.(*services.ConversationManager); ok {
		manager.WaitTitles()
	}
	if vectorIndex != nil {
		_ = vectorIndex.Close()
	}
	if generator != nil {
		_ = generator.Close()
	}
	if corpusStore != nil {
		_ = corpusStore.Close()
	}
}

// loadSettings reads pipeline settings from configuration, falling
// back to defaults for absent keys.
func loadSettings(cfg driven.ConfigStore) domain.Settings {
	s := domain.DefaultSettings()
	if v := cfg.GetInt("chunking.size"); v > 0 {
		s.ChunkSize = v
	}
	if _, ok := cfg.Get("chunking.overlap"); ok {
		s.ChunkOverlap = cfg.GetInt("chunking.overlap")
	}
	if v := cfg.GetInt("retrieval.top_k"); v > 0 {
		s.TopK = v
	}
	if v := cfg.GetInt("chat.history_window"); v > 0 {
		s.HistoryWindow = v
	}
	if v := cfg.GetInt("llm.timeout_seconds"); v > 0 {
		s.CallTimeout = time.Duration(v) * time.Second
	}
	return s
}

// buildGenerator constructs the text generator selected by
// llm.provider (openai or ollama, default openai).
func buildGenerator() (driven.TextGenerator, error) {
	switch provider := configStore.GetString("llm.provider"); provider {
	case "", "openai":
		apiKey := configStore.GetString("llm.api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		gen, err := llmopenai.New(llmopenai.Config{
			APIKey:  apiKey,
			BaseURL: configStore.GetString("llm.base_url"),
			Model:   configStore.GetString("llm.model"),
			Timeout: settings.CallTimeout,
		})
		if err != nil {
			return nil, errors.Join(err,
				errors.New("configurez la clé avec: plaide settings set-key"))
		}
		return gen, nil
	case "ollama":
		return llmollama.New(llmollama.Config{
			BaseURL: configStore.GetString("llm.base_url"),
			Model:   configStore.GetString("llm.model"),
			Timeout: settings.CallTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", domain.ErrInvalidInput, provider)
	}
}

// buildEmbedder constructs the embedding service, following the LLM
// provider unless embedding.provider overrides it.
func buildEmbedder() (driven.EmbeddingService, error) {
	provider := configStore.GetString("embedding.provider")
	if provider == "" {
		provider = configStore.GetString("llm.provider")
	}

	switch provider {
	case "", "openai":
		apiKey := configStore.GetString("llm.api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return embeddingopenai.New(embeddingopenai.Config{
			APIKey: apiKey,
			Model:  configStore.GetString("embedding.model"),
		})
	case "ollama":
		return embeddingollama.New(embeddingollama.Config{
			BaseURL: configStore.GetString("llm.base_url"),
			Model:   configStore.GetString("embedding.model"),
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, provider)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output on stderr")
}
