package plaintext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

func TestLoad_PassesTextThrough(t *testing.T) {
	got, err := New().Load([]byte("CONTRAT DE PRESTATION\n\nEntre les soussignés..."))

	require.NoError(t, err)
	assert.Equal(t, "CONTRAT DE PRESTATION\n\nEntre les soussignés...", got)
}

func TestLoad_ReplacesInvalidUTF8(t *testing.T) {
	got, err := New().Load([]byte{'a', 0xff, 'b'})

	require.NoError(t, err)
	assert.Equal(t, "a�b", got)
}

func TestLoad_BlankFile(t *testing.T) {
	_, err := New().Load([]byte("   \n\t\n"))

	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}
