// Package file provides the file-backed conversation store. Each
// conversation is one JSON file, so losing or corrupting one never
// affects the others.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
	"github.com/plaide-labs/plaide-cli/internal/logger"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore persists conversations as one JSON file each under
// a directory.
type ConversationStore struct {
	dir string
}

// NewConversationStore creates the store directory if needed. If dir is
// empty, defaults to ~/.plaide/conversations.
func NewConversationStore(dir string) (*ConversationStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".plaide", "conversations")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating conversations directory: %w", err)
	}
	return &ConversationStore{dir: dir}, nil
}

// Save writes the conversation atomically: the record lands in a
// temporary file first and replaces the previous one with a rename, so
// an interrupted write never leaves a half-written conversation.
func (s *ConversationStore) Save(_ context.Context, conv *domain.Conversation) error {
	if conv.ID == "" {
		return fmt.Errorf("%w: conversation without ID", domain.ErrInvalidInput)
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding conversation %s: %w", conv.ID, err)
	}

	final := s.path(conv.ID)
	tmp, err := os.CreateTemp(s.dir, conv.ID+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", conv.ID, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing conversation %s: %w", conv.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file for %s: %w", conv.ID, err)
	}

	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing conversation %s: %w", conv.ID, err)
	}
	return nil
}

// Get loads a conversation by ID.
func (s *ConversationStore) Get(_ context.Context, id string) (*domain.Conversation, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: conversation %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("reading conversation %s: %w", id, err)
	}

	var conv domain.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrConversationCorrupt, id, err)
	}
	return &conv, nil
}

// List returns summaries of all conversations, newest update first.
// Unparsable files are skipped with a warning; one bad record must
// never hide the rest of the log.
func (s *ConversationStore) List(ctx context.Context) ([]domain.ConversationSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading conversations directory: %w", err)
	}

	var summaries []domain.ConversationSummary
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		conv, err := s.Get(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			logger.Warn("skipping unreadable conversation file %s: %v", name, err)
			continue
		}
		summaries = append(summaries, domain.ConversationSummary{
			ID:           conv.ID,
			Title:        conv.Title,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
			MessageCount: len(conv.Messages),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// Delete removes a conversation file.
func (s *ConversationStore) Delete(_ context.Context, id string) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: conversation %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("deleting conversation %s: %w", id, err)
	}
	return nil
}

func (s *ConversationStore) path(id string) string {
	// IDs are timestamps, but never trust them as paths.
	return filepath.Join(s.dir, filepath.Base(id)+".json")
}
