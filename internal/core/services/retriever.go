package services

import (
	"context"
	"fmt"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
	"github.com/plaide-labs/plaide-cli/internal/logger"
)

// Retriever queries the vector index with a filter predicate and a
// fallback ladder for over-constrained predicates. The index handle is
// injected and shared; the retriever only ever reads from it.
type Retriever struct {
	index driven.VectorIndex
	topK  int
}

// NewRetriever creates a retriever. topK bounds every query; values
// below 1 fall back to the default.
func NewRetriever(index driven.VectorIndex, topK int) *Retriever {
	if topK < 1 {
		topK = domain.DefaultTopK
	}
	return &Retriever{index: index, topK: topK}
}

// Retrieve runs the fallback ladder for the question:
//
//  1. the full predicate,
//  2. the predicate without the personne key,
//  3. no predicate at all.
//
// Each step is one full re-query, attempted at most once, and only if
// the previous step returned empty. A step whose effective predicate
// equals the previous step's is skipped rather than re-issued. The
// personne key is dropped first because an exact name match is the
// most likely extraction error; type_doc is comparatively reliable and
// is never dropped on its own.
//
// A terminal empty result is a valid outcome, not an error: it means
// no relevant documents, and the caller decides how to surface that.
func (r *Retriever) Retrieve(
	ctx context.Context, question string, predicate domain.FilterPredicate,
) (domain.RetrievalResult, error) {
	logger.Section("Retrieval")

	steps := []struct {
		step      domain.LadderStep
		predicate domain.FilterPredicate
	}{
		{domain.LadderFullPredicate, predicate},
		{domain.LadderNoPerson, predicate.WithoutPerson()},
		{domain.LadderUnfiltered, domain.FilterPredicate{}},
	}

	result := domain.RetrievalResult{Step: domain.LadderFullPredicate, Predicate: predicate}
	previous := domain.FilterPredicate(nil)

	for i, s := range steps {
		if i > 0 && s.predicate.Equal(previous) {
			logger.Debug("Ladder step %d: predicate unchanged, skipping", s.step)
			continue
		}
		previous = s.predicate

		logger.Debug("Ladder step %d: predicate=%v", s.step, s.predicate)
		chunks, err := r.index.Query(ctx, question, s.predicate, r.topK)
		if err != nil {
			return domain.RetrievalResult{}, fmt.Errorf("%w: ladder step %d: %w",
				domain.ErrIndexUnavailable, s.step, err)
		}

		result = domain.RetrievalResult{Chunks: chunks, Step: s.step, Predicate: s.predicate}
		if !result.Empty() {
			logger.Info("Ladder step %d: %d passages", s.step, len(chunks))
			return result, nil
		}
		logger.Debug("Ladder step %d: empty", s.step)
	}

	logger.Info("Ladder exhausted: no relevant documents")
	return result, nil
}
