package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

func TestLoad_StripsMarkup(t *testing.T) {
	input := `<html><head><title>Jugement</title><style>p{color:red}</style></head>
<body><h1>Cour d'appel</h1><p>Le tribunal a jug&eacute; que la clause &eacute;tait abusive.</p>
<script>alert("x")</script><p>Appel rejet&eacute;.</p></body></html>`

	got, err := New().Load([]byte(input))

	require.NoError(t, err)
	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, "alert")
	assert.NotContains(t, got, "color:red")
	assert.NotContains(t, got, "Jugement") // head content dropped
	assert.Contains(t, got, "Cour d'appel")
	assert.Contains(t, got, "Le tribunal a jugé que la clause était abusive.")
	assert.Contains(t, got, "Appel rejeté.")
}

func TestLoad_BlockBoundariesBecomeNewlines(t *testing.T) {
	got, err := New().Load([]byte(`<p>Premier alinéa.</p><p>Second alinéa.</p>`))

	require.NoError(t, err)
	assert.Equal(t, "Premier alinéa.\nSecond alinéa.", got)
}

func TestLoad_EmptyAfterStripping(t *testing.T) {
	_, err := New().Load([]byte(`<div><script>x()</script></div>`))

	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}
