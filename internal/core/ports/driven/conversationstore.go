package driven

import (
	"context"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

// ConversationStore persists conversations. Each conversation is one
// independent, self-contained record: corruption or loss of one must
// never affect another. Save must be atomic with respect to process
// interruption (write-new-then-replace, never in-place partial writes).
type ConversationStore interface {
	// Save writes the full conversation record atomically.
	Save(ctx context.Context, conv *domain.Conversation) error

	// Get loads a conversation by ID. Returns domain.ErrNotFound when
	// it does not exist and domain.ErrConversationCorrupt when the
	// record cannot be parsed.
	Get(ctx context.Context, id string) (*domain.Conversation, error)

	// List returns summaries of all conversations, newest update first.
	// Unparsable records are skipped, never fatal to the listing.
	List(ctx context.Context) ([]domain.ConversationSummary, error)

	// Delete removes a conversation as an atomic unit.
	Delete(ctx context.Context, id string) error
}
