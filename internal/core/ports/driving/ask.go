package driving

import (
	"context"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

// AskService answers one question against the corpus. One call is one
// user turn: reformulate, parse, retrieve with fallback, generate,
// validate citations. The stages are a sequential dependency chain;
// no internal parallelism and no partial-result streaming.
type AskService interface {
	// Ask answers the question. History is the prior conversation in
	// order; pass nil for a fresh question. A turn either completes
	// with an Answer (possibly OutcomeNoDocuments), or fails with a
	// typed error, never a silently fabricated answer.
	Ask(ctx context.Context, question string, history []domain.Message) (*domain.Answer, error)
}
