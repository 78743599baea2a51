package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

func contextPassages(n int) []domain.Chunk {
	out := make([]domain.Chunk, n)
	for i := range out {
		out[i] = domain.Chunk{
			ID:       "c" + string(rune('a'+i)),
			Content:  "extrait du document",
			Metadata: domain.Metadata{Source: "doc.txt", ChunkID: i},
		}
	}
	return out
}

func TestExtractCitations(t *testing.T) {
	passages := contextPassages(3)

	tests := []struct {
		name       string
		text       string
		wantChunks []int // 0-based indexes into passages
		wantText   string
	}{
		{
			name:       "single marker",
			text:       "Les honoraires sont de 5000 euros. [Sources: 1, 3]",
			wantChunks: []int{0, 2},
			wantText:   "Les honoraires sont de 5000 euros.",
		},
		{
			name:       "singular form and lowercase",
			text:       "La clause figure en annexe. [source: 2]",
			wantChunks: []int{1},
			wantText:   "La clause figure en annexe.",
		},
		{
			name:       "no marker attributes every passage",
			text:       "Le contrat prévoit une durée de trois ans.",
			wantChunks: []int{0, 1, 2},
			wantText:   "Le contrat prévoit une durée de trois ans.",
		},
		{
			name:       "out of range reference dropped",
			text:       "Voir le bail commercial. [Sources: 2, 7]",
			wantChunks: []int{1},
			wantText:   "Voir le bail commercial.",
		},
		{
			name:       "all references out of range",
			text:       "Rien à signaler. [Sources: 9]",
			wantChunks: nil,
			wantText:   "Rien à signaler.",
		},
		{
			name:       "duplicates deduplicated in first-seen order",
			text:       "Résumé. [Sources: 3, 1, 3, 1]",
			wantChunks: []int{2, 0},
			wantText:   "Résumé.",
		},
		{
			name:       "multiple markers merged",
			text:       "Premier point. [Sources: 1] Second point. [Sources: 2]",
			wantChunks: []int{0, 1},
			wantText:   "Premier point. Second point.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, cited := ExtractCitations(tt.text, passages)

			assert.Equal(t, tt.wantText, text)
			var want []domain.Chunk
			for _, i := range tt.wantChunks {
				want = append(want, passages[i])
			}
			assert.Equal(t, want, cited)
		})
	}
}

func TestExtractCitations_NoPassages(t *testing.T) {
	text, cited := ExtractCitations("Aucun document indexé. [Sources: 1]", nil)

	assert.Equal(t, "Aucun document indexé.", text)
	assert.Empty(t, cited)
}
