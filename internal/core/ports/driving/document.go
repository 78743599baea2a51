package driving

import (
	"context"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

// DocumentService manages corpus ingestion and removal.
type DocumentService interface {
	// Ingest loads one file, cleans and chunks its text, extracts
	// per-chunk metadata, registers it in the corpus store and indexes
	// the chunks. Returns the number of chunks indexed.
	Ingest(ctx context.Context, path string) (int, error)

	// Remove deletes a source document from both the corpus store and
	// the index. Returns the number of chunks removed from the index.
	Remove(ctx context.Context, source string) (int, error)

	// List returns the registered raw documents.
	List(ctx context.Context) ([]domain.RawDocument, error)

	// Rebuild clears the index and re-indexes every registered
	// document from its stored text. Returns total chunks indexed.
	Rebuild(ctx context.Context) (int, error)
}

// SyncService reports corpus/index drift.
type SyncService interface {
	// Report compares the corpus source set with the indexed source
	// set. Pure comparison, no mutation; the result is advisory.
	Report(ctx context.Context) (*domain.SyncReport, error)

	// Stats returns corpus and index counters for display.
	Stats(ctx context.Context) (*SyncStats, error)
}

// SyncStats are display counters for the sync status surface.
type SyncStats struct {
	// Documents is the number of registered raw documents.
	Documents int

	// IndexedChunks is the number of chunks in the vector index.
	IndexedChunks int

	// IndexedSources is the number of distinct indexed sources.
	IndexedSources int
}
