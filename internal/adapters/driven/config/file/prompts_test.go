package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
)

func TestPromptStore_ServesDefaults(t *testing.T) {
	s, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{driven.PromptAnswer, driven.PromptReformulate, driven.PromptTitle} {
		prompt, err := s.Load(name)
		require.NoError(t, err)
		assert.NotEmpty(t, prompt)
		assert.Contains(t, prompt, "{question}")
	}
}

func TestPromptStore_CreatesEditableFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = s.Load(driven.PromptAnswer)
	require.NoError(t, err)

	for _, name := range []string{"answer.txt", "reformulate.txt", "title.txt", "README.md"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestPromptStore_UserFileOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	custom := "Réponds en une phrase.\n\n{context}\n\n{question}"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.txt"), []byte(custom), 0o600))

	s, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := s.Load(driven.PromptAnswer)
	require.NoError(t, err)
	assert.Equal(t, "Réponds en une phrase.\n\n{context}\n\n{question}", prompt)
}

func TestPromptStore_UnknownPrompt(t *testing.T) {
	s, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Load("inexistant")
	assert.Error(t, err)
}

func TestPromptStore_ReloadPicksUpEdits(t *testing.T) {
	dir := t.TempDir()
	s, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = s.Load(driven.PromptTitle)
	require.NoError(t, err)

	edited := "Titre court pour : {question}"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "title.txt"), []byte(edited), 0o600))
	s.Reload()

	prompt, err := s.Load(driven.PromptTitle)
	require.NoError(t, err)
	assert.Equal(t, edited, prompt)
}
