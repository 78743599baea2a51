package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

func TestLoad_JoinsFields(t *testing.T) {
	input := "dossier,client,montant\nD-2024-01,Jean Dupont,5000\nD-2024-02,Marie Martin,1200\n"

	got, err := New().Load([]byte(input))

	require.NoError(t, err)
	assert.Equal(t,
		"dossier | client | montant\nD-2024-01 | Jean Dupont | 5000\nD-2024-02 | Marie Martin | 1200\n",
		got)
}

func TestLoad_RaggedRowsAccepted(t *testing.T) {
	input := "a,b,c\nd,e\n"

	got, err := New().Load([]byte(input))

	require.NoError(t, err)
	assert.Contains(t, got, "d | e")
}

func TestLoad_EmptyFile(t *testing.T) {
	_, err := New().Load([]byte(""))

	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}
