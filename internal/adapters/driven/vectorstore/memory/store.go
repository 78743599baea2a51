// Package memory provides an in-memory vector index for tests and
// offline runs.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorIndex = (*Store)(nil)

type entry struct {
	chunk  domain.Chunk
	vector []float32
}

// Store keeps chunks and their embeddings in process memory, ranked by
// cosine similarity. Not persisted across runs.
type Store struct {
	mu       sync.RWMutex
	entries  []entry
	embedder driven.EmbeddingService
}

// New creates an empty in-memory index.
func New(embedder driven.EmbeddingService) *Store {
	return &Store{embedder: embedder}
}

// Query ranks matching chunks by cosine similarity to the question.
func (s *Store) Query(
	ctx context.Context, question string, predicate domain.FilterPredicate, k int,
) ([]domain.ScoredChunk, error) {
	queryVec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []domain.ScoredChunk
	for _, e := range s.entries {
		if !matches(e.chunk.Metadata, predicate) {
			continue
		}
		results = append(results, domain.ScoredChunk{
			Chunk: e.chunk,
			Score: cosine(queryVec, e.vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Add indexes chunks, embedding their content in one batch.
func (s *Store) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range chunks {
		s.entries = append(s.entries, entry{chunk: c, vector: vectors[i]})
	}
	return nil
}

// DeleteBySource removes every chunk of a source document.
func (s *Store) DeleteBySource(_ context.Context, source string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	removed := 0
	for _, e := range s.entries {
		if e.chunk.Metadata.Source == source {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed, nil
}

// Sources returns the distinct source identifiers present in the index.
func (s *Store) Sources(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var sources []string
	for _, e := range s.entries {
		src := e.chunk.Metadata.Source
		if !seen[src] {
			seen[src] = true
			sources = append(sources, src)
		}
	}
	return sources, nil
}

// Count returns the total number of indexed chunks.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.embedder.Close()
}

// matches reports whether metadata satisfies every predicate key with
// an exact value match.
func matches(md domain.Metadata, predicate domain.FilterPredicate) bool {
	values := md.Map()
	for k, want := range predicate {
		got, ok := values[k]
		if !ok || got != any(want) {
			return false
		}
	}
	return true
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
