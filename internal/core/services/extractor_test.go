package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
)

func TestRegexExtractor_ImplementsInterface(t *testing.T) {
	var _ driven.TagExtractor = NewRegexExtractor()
}

func TestRegexExtractor_DocTypeFromFilename(t *testing.T) {
	e := NewRegexExtractor()

	tests := []struct {
		name   string
		source string
		want   domain.DocType
	}{
		{"contract", "contrat_jean_dupont.txt", domain.DocTypeContract},
		{"accord keyword", "accord_partenariat.txt", domain.DocTypeContract},
		{"note", "note_interne_fiscalite.txt", domain.DocTypeNote},
		{"case law", "jurisprudence_droit_societes.html", domain.DocTypeCaseLaw},
		{"dispute", "litige_client_z.csv", domain.DocTypeDispute},
		{"invoice", "facture_2024.txt", domain.DocTypeInvoice},
		{"consultation", "consultation_juridique.txt", domain.DocTypeConsultation},
		{"correspondence", "courrier_marie_martin.txt", domain.DocTypeCorrespondence},
		{"no keyword", "dossier_divers.txt", domain.DocTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := e.ExtractDocument(tt.source, "texte sans indice", 0)
			assert.Equal(t, tt.want, meta.Type)
		})
	}
}

func TestRegexExtractor_DocTypeFromContent(t *testing.T) {
	e := NewRegexExtractor()

	meta := e.ExtractDocument("document_001.txt", "La présente convention est conclue entre les parties.", 0)

	assert.Equal(t, domain.DocTypeContract, meta.Type)
}

func TestRegexExtractor_DocTypeContentScanIsBounded(t *testing.T) {
	e := NewRegexExtractor()

	// Keyword buried beyond the scan window is not picked up.
	content := strings.Repeat("x", 1500) + " contrat"
	meta := e.ExtractDocument("document_001.txt", content, 0)

	assert.Equal(t, domain.DocTypeUnknown, meta.Type)
}

func TestRegexExtractor_FilenameFirstWins(t *testing.T) {
	e := NewRegexExtractor()

	// Filename says invoice even though the content mentions a contract.
	meta := e.ExtractDocument("facture_honoraires.txt", "Suite au contrat signé...", 0)

	assert.Equal(t, domain.DocTypeInvoice, meta.Type)
}

func TestRegexExtractor_PersonFromFilename(t *testing.T) {
	e := NewRegexExtractor()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"simple name", "contrat_jean_dupont.txt", "Jean Dupont"},
		{"with timestamp", "20240115_093000_contrat_jean_dupont.txt", "Jean Dupont"},
		{"vocabulary only", "note_interne_fiscalite.txt", ""},
		{"single word left", "facture_martin.txt", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := e.ExtractDocument(tt.source, "", 0)
			assert.Equal(t, tt.want, meta.Personne)
		})
	}
}

func TestRegexExtractor_PersonFromContent(t *testing.T) {
	e := NewRegexExtractor()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"client label", "Client : Marie Martin\nObjet : consultation", "Marie Martin"},
		{"monsieur", "Monsieur Paul Durand est convoqué.", "Paul Durand"},
		{"madame", "Madame Sophie Bernard, demeurant à Lyon", "Sophie Bernard"},
		{"none", "Aucune personne mentionnée ici.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := e.ExtractDocument("document.txt", tt.content, 0)
			assert.Equal(t, tt.want, meta.Personne)
		})
	}
}

func TestRegexExtractor_Date(t *testing.T) {
	e := NewRegexExtractor()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"iso date kept", "Fait le 2024-03-15 à Paris", "2024-03-15"},
		{"slash date normalised", "Fait à Paris le 15/03/2024", "2024-03-15"},
		{"two digit year", "signé le 5/3/24", "2024-03-05"},
		{"no date", "Aucune date ici", ""},
		{"beyond scan window", strings.Repeat("y", 600) + " 15/03/2024", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := e.ExtractDocument("document.txt", tt.content, 0)
			assert.Equal(t, tt.want, meta.Date)
		})
	}
}

func TestRegexExtractor_PartialMetadataIsValid(t *testing.T) {
	e := NewRegexExtractor()

	meta := e.ExtractDocument("divers.txt", "Texte neutre sans indices.", 3)

	assert.Equal(t, "divers.txt", meta.Source)
	assert.Equal(t, 3, meta.ChunkID)
	assert.Equal(t, domain.DocTypeUnknown, meta.Type)
	assert.Empty(t, meta.Personne)
	assert.Empty(t, meta.Date)
	assert.Equal(t, len("Texte neutre sans indices."), meta.Length)
}

func TestRegexExtractor_ExtractQuery(t *testing.T) {
	e := NewRegexExtractor()

	tests := []struct {
		name     string
		question string
		want     domain.FilterPredicate
	}{
		{
			"type and person",
			"Quels sont les honoraires prévus dans le contrat de Jean Dupont ?",
			domain.FilterPredicate{domain.MetaDocType: "contrat", domain.MetaPerson: "Jean Dupont"},
		},
		{
			"type only",
			"Que dit la jurisprudence sur la rupture brutale ?",
			domain.FilterPredicate{domain.MetaDocType: "jurisprudence"},
		},
		{
			"person only",
			"Que sait-on de Marie Martin ?",
			domain.FilterPredicate{domain.MetaPerson: "Marie Martin"},
		},
		{
			"invoice keyword",
			"Montre-moi la facture du mois dernier",
			domain.FilterPredicate{domain.MetaDocType: "facture"},
		},
		{
			"no signal",
			"quels sont les risques ?",
			domain.FilterPredicate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ExtractQuery(tt.question))
		})
	}
}

func TestRegexExtractor_QueryCommonWordsNotNames(t *testing.T) {
	e := NewRegexExtractor()

	predicate := e.ExtractQuery("Madame, que contient le contrat ?")

	assert.False(t, predicate.HasPerson())
	assert.Equal(t, "contrat", predicate[domain.MetaDocType])
}

func TestRegexExtractor_QueryNoDateFilter(t *testing.T) {
	e := NewRegexExtractor()

	predicate := e.ExtractQuery("Que s'est-il passé le 15/03/2024 ?")

	assert.NotContains(t, predicate, domain.MetaDate)
}
