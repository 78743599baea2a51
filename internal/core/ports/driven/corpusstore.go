package driven

import (
	"context"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

// CorpusStore persists the raw document set.
// Backed by SQLite. The set of sources it holds is the raw side of the
// sync comparison against the vector index.
type CorpusStore interface {
	// SaveDocument stores or replaces a raw document.
	SaveDocument(ctx context.Context, doc *domain.RawDocument) error

	// GetDocument retrieves a raw document by source identifier.
	GetDocument(ctx context.Context, source string) (*domain.RawDocument, error)

	// ListSources returns all registered source identifiers.
	ListSources(ctx context.Context) ([]string, error)

	// DeleteDocument removes a raw document by source identifier.
	DeleteDocument(ctx context.Context, source string) error

	// Count returns the number of registered documents.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
