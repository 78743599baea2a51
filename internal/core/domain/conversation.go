package domain

import "time"

// Role identifies the author of a conversation message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// PlaceholderTitle is the title given to a conversation at creation,
// before the model-generated title replaces it.
const PlaceholderTitle = "Nouvelle conversation"

// Message is a single exchange entry. Sources are present only on
// assistant messages and may be empty.
type Message struct {
	// ID is a unique message identifier. Appends are idempotent on it:
	// retrying the same logical write never duplicates the message.
	ID string `json:"id"`

	// Role is the author, user or assistant.
	Role Role `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// Sources are the cited passages for assistant messages.
	Sources []Chunk `json:"sources,omitempty"`
}

// Conversation is one persisted multi-turn exchange. Messages are
// append-only; the conversation is deletable only as a whole unit.
type Conversation struct {
	// ID is derived from the creation timestamp and unique.
	ID string `json:"id"`

	// Title is a short auto-generated label.
	Title string `json:"title"`

	// CreatedAt is the creation time.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt advances on every append and rename.
	UpdatedAt time.Time `json:"updated_at"`

	// Messages is the ordered exchange log.
	Messages []Message `json:"messages"`
}

// FirstUserMessage returns the content of the earliest user message,
// or "" if none exists yet.
func (c *Conversation) FirstUserMessage() string {
	for i := range c.Messages {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i].Content
		}
	}
	return ""
}

// HasMessage returns true if a message with the given ID was already
// appended.
func (c *Conversation) HasMessage(id string) bool {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return true
		}
	}
	return false
}

// RecencyBucket groups conversations by how recently they were updated.
type RecencyBucket string

// Recency buckets, newest-first ordering.
const (
	BucketToday     RecencyBucket = "today"
	BucketYesterday RecencyBucket = "yesterday"
	BucketLastWeek  RecencyBucket = "last_7_days"
	BucketOlder     RecencyBucket = "older"
)

// Buckets lists the buckets in display order.
func Buckets() []RecencyBucket {
	return []RecencyBucket{BucketToday, BucketYesterday, BucketLastWeek, BucketOlder}
}

// Label returns a human-readable bucket heading.
func (b RecencyBucket) Label() string {
	switch b {
	case BucketToday:
		return "Aujourd'hui"
	case BucketYesterday:
		return "Hier"
	case BucketLastWeek:
		return "7 derniers jours"
	case BucketOlder:
		return "Plus ancien"
	default:
		return string(b)
	}
}

// BucketFor classifies a timestamp relative to now.
func BucketFor(updatedAt, now time.Time) RecencyBucket {
	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	today := day(now)
	updated := day(updatedAt.In(now.Location()))

	switch {
	case !updated.Before(today):
		return BucketToday
	case updated.Equal(today.AddDate(0, 0, -1)):
		return BucketYesterday
	case updated.After(today.AddDate(0, 0, -7)):
		return BucketLastWeek
	default:
		return BucketOlder
	}
}

// ConversationSummary is the listing view of a conversation, without
// its message log.
type ConversationSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// ExportFormat selects a conversation export rendering.
type ExportFormat string

// Supported export formats.
const (
	// ExportText is a plain-text transcript.
	ExportText ExportFormat = "text"

	// ExportJSON is the lossless structured record.
	ExportJSON ExportFormat = "json"

	// ExportMarkdown is a line-formatted document.
	ExportMarkdown ExportFormat = "markdown"
)

// IsValid returns true if the export format is recognised.
func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportText, ExportJSON, ExportMarkdown:
		return true
	default:
		return false
	}
}
