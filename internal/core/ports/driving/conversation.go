package driving

import (
	"context"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

// ConversationService manages the persisted conversation log.
type ConversationService interface {
	// Create starts a new conversation with a placeholder title.
	Create(ctx context.Context) (*domain.Conversation, error)

	// Append adds a message and advances updated_at. Appending a
	// message ID already present is a no-op, making retries of the
	// same logical write idempotent. After the first full exchange the
	// placeholder title is replaced asynchronously by a generated one.
	Append(ctx context.Context, id string, msg domain.Message) error

	// Get returns the full conversation.
	Get(ctx context.Context, id string) (*domain.Conversation, error)

	// List returns conversations grouped by recency bucket, ordered
	// newest-first within and across buckets.
	List(ctx context.Context) ([]ConversationGroup, error)

	// Rename sets a new title.
	Rename(ctx context.Context, id, title string) error

	// Export renders the conversation in the requested format without
	// altering stored state.
	Export(ctx context.Context, id string, format domain.ExportFormat) ([]byte, error)

	// Delete removes the conversation as a unit.
	Delete(ctx context.Context, id string) error
}

// ConversationGroup is one recency bucket with its summaries, ordered
// newest-first. Empty buckets are omitted from listings.
type ConversationGroup struct {
	Bucket        domain.RecencyBucket
	Conversations []domain.ConversationSummary
}
