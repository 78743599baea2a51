package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driving"
)

func TestConversationsCmd_HasSubcommands(t *testing.T) {
	commands := conversationsCmd.Commands()
	names := make([]string, 0, len(commands))
	for _, cmd := range commands {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "list")
	assert.Contains(t, names, "show")
	assert.Contains(t, names, "export")
	assert.Contains(t, names, "rename")
	assert.Contains(t, names, "rm")
}

func TestConversationsListCmd_GroupsByBucket(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()
	now := time.Now()
	mocks.conv.groups = []driving.ConversationGroup{
		{
			Bucket: domain.BucketToday,
			Conversations: []domain.ConversationSummary{
				{ID: "20250315_100000", Title: "Honoraires Dupont", UpdatedAt: now, MessageCount: 4},
			},
		},
		{
			Bucket: domain.BucketOlder,
			Conversations: []domain.ConversationSummary{
				{ID: "20250101_090000", Title: "Bail commercial", UpdatedAt: now.AddDate(0, -1, 0), MessageCount: 2},
			},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"conversations", "list"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Aujourd'hui")
	assert.Contains(t, buf.String(), "Honoraires Dupont (4 messages)")
	assert.Contains(t, buf.String(), "Plus ancien")
	assert.Contains(t, buf.String(), "Bail commercial")
}

func TestConversationsListCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"conversations", "list"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Aucune conversation")
}

func TestConversationsShowCmd_PrintsTranscript(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()
	mocks.conv.exported = []byte("Vous: Quels honoraires ?\nAssistant: 3 000 euros.\n")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"conversations", "show", "20250315_100000"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Vous: Quels honoraires ?")
}

func TestConversationsExportCmd_WritesFile(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()
	mocks.conv.exported = []byte("# Honoraires Dupont\n")

	outPath := filepath.Join(t.TempDir(), "export.md")
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"conversations", "export", "-f", "markdown", "-o", outPath, "20250315_100000"})
	defer func() {
		rootCmd.SetArgs(nil)
		exportFormat = "text"
		exportOutput = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "# Honoraires Dupont\n", string(content))
	assert.Contains(t, buf.String(), "exportée")
}

func TestConversationsRenameCmd_RenamesConversation(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"conversations", "rename", "20250315_100000", "Dossier Dupont"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "Dossier Dupont", mocks.conv.renamed)
	assert.Contains(t, buf.String(), "renommée")
}

func TestConversationsDeleteCmd_DeletesConversation(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"conversations", "rm", "20250315_100000"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "20250315_100000", mocks.conv.deleted)
	assert.Contains(t, buf.String(), "supprimée")
}
