package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

func newTestStore(t *testing.T) (*ConversationStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewConversationStore(dir)
	require.NoError(t, err)
	return s, dir
}

func sampleConversation(id string) *domain.Conversation {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	return &domain.Conversation{
		ID:        id,
		Title:     "Honoraires Dupont",
		CreatedAt: now,
		UpdatedAt: now,
		Messages: []domain.Message{
			{ID: "m1", Role: domain.RoleUser, Content: "Quels sont les honoraires ?"},
			{ID: "m2", Role: domain.RoleAssistant, Content: "5000 euros.",
				Sources: []domain.Chunk{{ID: "c1", Content: "extrait",
					Metadata: domain.Metadata{Source: "contrat.txt", ChunkID: 0}}}},
		},
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	conv := sampleConversation("20240315_100000")

	require.NoError(t, s.Save(ctx, conv))

	got, err := s.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.Title, got.Title)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, conv.Messages[1].Sources, got.Messages[1].Sources)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	s, dir := newTestStore(t)
	require.NoError(t, s.Save(context.Background(), sampleConversation("20240315_100000")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "20240315_100000.json", entries[0].Name())
}

func TestGet_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Get(context.Background(), "inconnu")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_CorruptFile(t *testing.T) {
	s, dir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o600))

	_, err := s.Get(context.Background(), "bad")

	assert.ErrorIs(t, err, domain.ErrConversationCorrupt)
}

func TestList_SkipsCorruptAndSortsNewestFirst(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	older := sampleConversation("20240314_090000")
	older.UpdatedAt = time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	newer := sampleConversation("20240315_100000")

	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, newer))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corrompu.json"), []byte("xx"), 0o600))

	summaries, err := s.List(ctx)

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "20240315_100000", summaries[0].ID)
	assert.Equal(t, "20240314_090000", summaries[1].ID)
	assert.Equal(t, 2, summaries[0].MessageCount)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	conv := sampleConversation("20240315_100000")
	require.NoError(t, s.Save(ctx, conv))

	require.NoError(t, s.Delete(ctx, conv.ID))

	_, err := s.Get(ctx, conv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.Delete(ctx, conv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
