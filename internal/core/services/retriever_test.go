package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

// mockVectorIndex implements driven.VectorIndex for testing. Results
// are keyed by predicate shape so ladder steps can be distinguished.
type mockVectorIndex struct {
	queries    []domain.FilterPredicate
	resultsFor func(predicate domain.FilterPredicate) []domain.ScoredChunk
	queryErr   error

	added   []domain.Chunk
	sources []string
	count   int
}

func (m *mockVectorIndex) Query(
	_ context.Context, _ string, predicate domain.FilterPredicate, k int,
) ([]domain.ScoredChunk, error) {
	m.queries = append(m.queries, predicate)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if m.resultsFor == nil {
		return nil, nil
	}
	results := m.resultsFor(predicate)
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (m *mockVectorIndex) Add(_ context.Context, chunks []domain.Chunk) error {
	m.added = append(m.added, chunks...)
	return nil
}

func (m *mockVectorIndex) DeleteBySource(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func (m *mockVectorIndex) Sources(_ context.Context) ([]string, error) {
	return m.sources, nil
}

func (m *mockVectorIndex) Count(_ context.Context) (int, error) {
	return m.count, nil
}

func (m *mockVectorIndex) Close() error { return nil }

func passages(n int, source string) []domain.ScoredChunk {
	out := make([]domain.ScoredChunk, n)
	for i := range out {
		out[i] = domain.ScoredChunk{
			Chunk: domain.Chunk{
				ID:       source + "-chunk",
				Content:  "extrait",
				Metadata: domain.Metadata{Source: source, ChunkID: i},
			},
			Score: 1.0 - float64(i)*0.1,
		}
	}
	return out
}

func TestRetriever_FirstStepHit(t *testing.T) {
	index := &mockVectorIndex{
		resultsFor: func(domain.FilterPredicate) []domain.ScoredChunk {
			return passages(3, "contrat_jean_dupont.txt")
		},
	}
	r := NewRetriever(index, 5)
	predicate := domain.FilterPredicate{domain.MetaDocType: "contrat", domain.MetaPerson: "Jean Dupont"}

	result, err := r.Retrieve(context.Background(), "question", predicate)

	require.NoError(t, err)
	assert.Len(t, result.Chunks, 3)
	assert.Equal(t, domain.LadderFullPredicate, result.Step)
	assert.Len(t, index.queries, 1)
}

func TestRetriever_FallsBackWithoutPerson(t *testing.T) {
	index := &mockVectorIndex{
		resultsFor: func(p domain.FilterPredicate) []domain.ScoredChunk {
			if p.HasPerson() {
				return nil
			}
			if p[domain.MetaDocType] == "contrat" {
				return passages(5, "contrat_cabinet.txt")
			}
			return nil
		},
	}
	r := NewRetriever(index, 5)
	predicate := domain.FilterPredicate{domain.MetaDocType: "contrat", domain.MetaPerson: "Jean Dupont"}

	result, err := r.Retrieve(context.Background(), "question", predicate)

	require.NoError(t, err)
	assert.Len(t, result.Chunks, 5)
	assert.Equal(t, domain.LadderNoPerson, result.Step)
	assert.Equal(t, domain.FilterPredicate{domain.MetaDocType: "contrat"}, result.Predicate)
	require.Len(t, index.queries, 2)
	// Second query kept type_doc, dropped personne only.
	assert.False(t, index.queries[1].HasPerson())
	assert.Equal(t, "contrat", index.queries[1][domain.MetaDocType])
}

func TestRetriever_UnfilteredLastStep(t *testing.T) {
	index := &mockVectorIndex{
		resultsFor: func(p domain.FilterPredicate) []domain.ScoredChunk {
			if len(p) == 0 {
				return passages(2, "note_interne.txt")
			}
			return nil
		},
	}
	r := NewRetriever(index, 5)
	predicate := domain.FilterPredicate{domain.MetaDocType: "facture", domain.MetaPerson: "Marie Martin"}

	result, err := r.Retrieve(context.Background(), "question", predicate)

	require.NoError(t, err)
	assert.Equal(t, domain.LadderUnfiltered, result.Step)
	assert.Len(t, result.Chunks, 2)
	assert.Len(t, index.queries, 3)
}

func TestRetriever_ExhaustedLadderIsNotAnError(t *testing.T) {
	index := &mockVectorIndex{}
	r := NewRetriever(index, 5)
	predicate := domain.FilterPredicate{domain.MetaDocType: "contrat", domain.MetaPerson: "Jean Dupont"}

	result, err := r.Retrieve(context.Background(), "question", predicate)

	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.Equal(t, domain.LadderUnfiltered, result.Step)
	assert.Len(t, index.queries, 3)
}

func TestRetriever_SkipsRedundantSteps(t *testing.T) {
	tests := []struct {
		name        string
		predicate   domain.FilterPredicate
		wantQueries int
	}{
		{"empty predicate collapses to one query", domain.FilterPredicate{}, 1},
		{"type only skips person drop", domain.FilterPredicate{domain.MetaDocType: "contrat"}, 2},
		{"person only skips duplicate unfiltered", domain.FilterPredicate{domain.MetaPerson: "Jean Dupont"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := &mockVectorIndex{}
			r := NewRetriever(index, 5)

			_, err := r.Retrieve(context.Background(), "question", tt.predicate)

			require.NoError(t, err)
			assert.Len(t, index.queries, tt.wantQueries)
		})
	}
}

func TestRetriever_MonotonicPredicates(t *testing.T) {
	index := &mockVectorIndex{}
	r := NewRetriever(index, 5)
	predicate := domain.FilterPredicate{domain.MetaDocType: "contrat", domain.MetaPerson: "Jean Dupont"}

	_, err := r.Retrieve(context.Background(), "question", predicate)

	require.NoError(t, err)
	require.Len(t, index.queries, 3)
	// Each step's predicate is a subset of the previous step's.
	for i := 1; i < len(index.queries); i++ {
		for k, v := range index.queries[i] {
			assert.Equal(t, v, index.queries[i-1][k])
		}
		assert.Less(t, len(index.queries[i]), len(index.queries[i-1]))
	}
}

func TestRetriever_IndexErrorIsTyped(t *testing.T) {
	index := &mockVectorIndex{queryErr: errors.New("connection refused")}
	r := NewRetriever(index, 5)

	_, err := r.Retrieve(context.Background(), "question", domain.FilterPredicate{})

	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestRetriever_TopKBound(t *testing.T) {
	index := &mockVectorIndex{
		resultsFor: func(domain.FilterPredicate) []domain.ScoredChunk {
			return passages(10, "contrat_cabinet.txt")
		},
	}
	r := NewRetriever(index, 4)

	result, err := r.Retrieve(context.Background(), "question", domain.FilterPredicate{})

	require.NoError(t, err)
	assert.Len(t, result.Chunks, 4)
}
