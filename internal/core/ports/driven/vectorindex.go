package driven

import (
	"context"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

// VectorIndex is the shared, externally-owned similarity index. The
// pipeline queries it read-only per turn; only the ingestion path
// writes to it. Reads are eventually consistent with the most recent
// write and carry no transactional guarantees; a query result is a
// snapshot valid for one turn only and is never cached across turns.
type VectorIndex interface {
	// Query runs a similarity search for the question text, restricted
	// to chunks whose metadata exactly matches every predicate key.
	// Results are ordered by descending relevance, length at most k.
	// An empty result is a valid outcome, not an error.
	Query(ctx context.Context, question string, predicate domain.FilterPredicate, k int) ([]domain.ScoredChunk, error)

	// Add indexes chunks with their metadata payloads.
	Add(ctx context.Context, chunks []domain.Chunk) error

	// DeleteBySource removes every chunk of a source document.
	// Returns the number of chunks removed.
	DeleteBySource(ctx context.Context, source string) (int, error)

	// Sources returns the distinct source identifiers present in the
	// index. This is the indexed side of the sync comparison.
	Sources(ctx context.Context) ([]string, error)

	// Count returns the total number of indexed chunks.
	Count(ctx context.Context) (int, error)

	// Close releases the index handle. The handle is owned by the
	// composition root: opened once, closed on shutdown.
	Close() error
}
