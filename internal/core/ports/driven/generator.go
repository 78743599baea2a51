package driven

import "context"

// TextGenerator is the external text-generation collaborator. It is
// consumed as a black box for three purposes: query reformulation,
// grounded answer generation, and conversation title generation, all
// at deterministic sampling.
//
// Implementations may include:
//   - OpenAI-compatible chat completion APIs
//   - Ollama (local models)
type TextGenerator interface {
	// Complete produces a completion for a single prompt.
	Complete(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request that runs no inference.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures a completion call.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls sampling randomness. The pipeline always
	// passes 0; the adapter must transmit it explicitly rather than
	// relying on the provider's default.
	Temperature float64
}

// EmbeddingService converts text into vector representations for
// similarity search.
type EmbeddingService interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// Close releases resources.
	Close() error
}
