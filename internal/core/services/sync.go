package services

import (
	"context"
	"fmt"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driving"
)

// SyncChecker compares the corpus store's source set against the
// vector index's source set. It only reports drift; repairing it is
// the ingestion path's job (docs add or rebuild).
type SyncChecker struct {
	corpus driven.CorpusStore
	index  driven.VectorIndex
}

var _ driving.SyncService = (*SyncChecker)(nil)

func NewSyncChecker(corpus driven.CorpusStore, index driven.VectorIndex) *SyncChecker {
	return &SyncChecker{corpus: corpus, index: index}
}

// Report computes the corpus/index drift.
func (s *SyncChecker) Report(ctx context.Context) (*domain.SyncReport, error) {
	corpusSources, err := s.corpus.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing corpus sources: %w", err)
	}
	indexedSources, err := s.index.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing indexed sources: %w", domain.ErrIndexUnavailable, err)
	}
	report := domain.CompareSources(corpusSources, indexedSources)
	return &report, nil
}

// Stats returns display counters for the status surface.
func (s *SyncChecker) Stats(ctx context.Context) (*driving.SyncStats, error) {
	docs, err := s.corpus.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}
	chunks, err := s.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: counting indexed chunks: %w", domain.ErrIndexUnavailable, err)
	}
	sources, err := s.index.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing indexed sources: %w", domain.ErrIndexUnavailable, err)
	}
	return &driving.SyncStats{
		Documents:      docs,
		IndexedChunks:  chunks,
		IndexedSources: len(sources),
	}, nil
}
