package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plaide-labs/plaide-cli/internal/chunker"
	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
	"github.com/plaide-labs/plaide-cli/internal/loaders/plaintext"
)

// mockCorpusStore is an in-memory driven.CorpusStore.
type mockCorpusStore struct {
	docs map[string]*domain.RawDocument
}

func newMockCorpusStore() *mockCorpusStore {
	return &mockCorpusStore{docs: make(map[string]*domain.RawDocument)}
}

func (m *mockCorpusStore) SaveDocument(_ context.Context, doc *domain.RawDocument) error {
	clone := *doc
	m.docs[doc.Source] = &clone
	return nil
}

func (m *mockCorpusStore) GetDocument(_ context.Context, source string) (*domain.RawDocument, error) {
	doc, ok := m.docs[source]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *doc
	return &clone, nil
}

func (m *mockCorpusStore) ListSources(_ context.Context) ([]string, error) {
	var out []string
	for s := range m.docs {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockCorpusStore) DeleteDocument(_ context.Context, source string) error {
	if _, ok := m.docs[source]; !ok {
		return domain.ErrNotFound
	}
	delete(m.docs, source)
	return nil
}

func (m *mockCorpusStore) Count(_ context.Context) (int, error) {
	return len(m.docs), nil
}

func (m *mockCorpusStore) Close() error { return nil }

// trackingIndex records Add/DeleteBySource calls on top of the query
// mock.
type trackingIndex struct {
	mockVectorIndex
	bySource map[string][]domain.Chunk
}

func newTrackingIndex() *trackingIndex {
	return &trackingIndex{bySource: make(map[string][]domain.Chunk)}
}

func (m *trackingIndex) Add(_ context.Context, chunks []domain.Chunk) error {
	for _, c := range chunks {
		m.bySource[c.Metadata.Source] = append(m.bySource[c.Metadata.Source], c)
	}
	return nil
}

func (m *trackingIndex) DeleteBySource(_ context.Context, source string) (int, error) {
	n := len(m.bySource[source])
	delete(m.bySource, source)
	return n, nil
}

func (m *trackingIndex) Sources(_ context.Context) ([]string, error) {
	var out []string
	for s := range m.bySource {
		out = append(out, s)
	}
	return out, nil
}

func (m *trackingIndex) Count(_ context.Context) (int, error) {
	n := 0
	for _, chunks := range m.bySource {
		n += len(chunks)
	}
	return n, nil
}

func writeTempDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestIngestor(corpus *mockCorpusStore, index *trackingIndex) *Ingestor {
	return NewIngestor(
		[]driven.Loader{plaintext.New()},
		NewRegexExtractor(),
		corpus,
		index,
		chunker.New(chunker.WithChunkSize(200), chunker.WithOverlap(40)),
	)
}

func legalContract() string {
	var b strings.Builder
	b.WriteString("CONTRAT DE PRESTATION DE SERVICES\n\n")
	b.WriteString("Entre : Jean Dupont, ci-après le Client,\n")
	b.WriteString("et le cabinet Plaide & Associés.\n\n")
	for i := 0; i < 8; i++ {
		b.WriteString("Article : les honoraires sont fixés à cinq mille euros hors taxes, payables à réception de la facture émise par le cabinet.\n")
		b.WriteString("La présente clause demeure applicable pendant toute la durée du contrat conclu entre les parties.\n")
	}
	return b.String()
}

func TestIngestor_IngestIndexesChunks(t *testing.T) {
	corpus := newMockCorpusStore()
	index := newTrackingIndex()
	g := newTestIngestor(corpus, index)
	path := writeTempDoc(t, "contrat_jean_dupont.txt", legalContract())

	n, err := g.Ingest(context.Background(), path)

	require.NoError(t, err)
	assert.Greater(t, n, 1)

	doc, err := corpus.GetDocument(context.Background(), "contrat_jean_dupont.txt")
	require.NoError(t, err)
	assert.Equal(t, n, doc.ChunkCount)

	indexed := index.bySource["contrat_jean_dupont.txt"]
	require.Len(t, indexed, n)
	for i, c := range indexed {
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, i, c.Metadata.ChunkID)
		assert.Equal(t, domain.DocTypeContract, c.Metadata.Type)
		assert.Equal(t, "Jean Dupont", c.Metadata.Personne)
	}
}

func TestIngestor_ReingestReplaces(t *testing.T) {
	corpus := newMockCorpusStore()
	index := newTrackingIndex()
	g := newTestIngestor(corpus, index)
	path := writeTempDoc(t, "contrat_jean_dupont.txt", legalContract())

	first, err := g.Ingest(context.Background(), path)
	require.NoError(t, err)
	second, err := g.Ingest(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, index.bySource["contrat_jean_dupont.txt"], second)

	count, err := corpus.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngestor_UnsupportedExtension(t *testing.T) {
	g := newTestIngestor(newMockCorpusStore(), newTrackingIndex())

	_, err := g.Ingest(context.Background(), "/tmp/report.xlsx")

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestIngestor_ShortFragmentsDropped(t *testing.T) {
	corpus := newMockCorpusStore()
	index := newTrackingIndex()
	g := newTestIngestor(corpus, index)
	path := writeTempDoc(t, "note.txt", "Trop court.")

	_, err := g.Ingest(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	assert.Empty(t, index.bySource)
}

func TestIngestor_RemoveClearsBothSides(t *testing.T) {
	corpus := newMockCorpusStore()
	index := newTrackingIndex()
	g := newTestIngestor(corpus, index)
	path := writeTempDoc(t, "contrat_jean_dupont.txt", legalContract())

	n, err := g.Ingest(context.Background(), path)
	require.NoError(t, err)

	removed, err := g.Remove(context.Background(), "contrat_jean_dupont.txt")
	require.NoError(t, err)
	assert.Equal(t, n, removed)
	assert.Empty(t, index.bySource)

	_, err = corpus.GetDocument(context.Background(), "contrat_jean_dupont.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestor_RemoveUnknownSource(t *testing.T) {
	g := newTestIngestor(newMockCorpusStore(), newTrackingIndex())

	_, err := g.Remove(context.Background(), "inconnu.txt")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestor_RebuildReindexesFromStoredText(t *testing.T) {
	corpus := newMockCorpusStore()
	index := newTrackingIndex()
	g := newTestIngestor(corpus, index)
	path := writeTempDoc(t, "contrat_jean_dupont.txt", legalContract())

	n, err := g.Ingest(context.Background(), path)
	require.NoError(t, err)

	// Simulate index loss.
	index.bySource = make(map[string][]domain.Chunk)

	total, err := g.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, n, total)
	assert.Len(t, index.bySource["contrat_jean_dupont.txt"], n)
}

func TestCleanText(t *testing.T) {
	input := "CABINET PLAIDE\r\nCABINET PLAIDE\nArticle  1\t:   objet\n\n\n\n\nFin."

	got := cleanText(input)

	assert.Equal(t, "CABINET PLAIDE\nArticle 1 : objet\n\nFin.", got)
}

func TestSyncChecker_Report(t *testing.T) {
	corpus := newMockCorpusStore()
	index := newTrackingIndex()
	g := newTestIngestor(corpus, index)
	s := NewSyncChecker(corpus, index)

	path := writeTempDoc(t, "contrat_jean_dupont.txt", legalContract())
	_, err := g.Ingest(context.Background(), path)
	require.NoError(t, err)

	report, err := s.Report(context.Background())
	require.NoError(t, err)
	assert.True(t, report.InSync)

	// A registered document missing from the index is unindexed.
	require.NoError(t, corpus.SaveDocument(context.Background(),
		&domain.RawDocument{Source: "note_interne.txt", Content: "x"}))

	report, err = s.Report(context.Background())
	require.NoError(t, err)
	assert.False(t, report.InSync)
	assert.Equal(t, []string{"note_interne.txt"}, report.Unindexed)
	assert.Empty(t, report.Stale)

	// An indexed source gone from the corpus is stale.
	require.NoError(t, corpus.DeleteDocument(context.Background(), "note_interne.txt"))
	require.NoError(t, corpus.DeleteDocument(context.Background(), "contrat_jean_dupont.txt"))

	report, err = s.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"contrat_jean_dupont.txt"}, report.Stale)
}

func TestSyncChecker_Stats(t *testing.T) {
	corpus := newMockCorpusStore()
	index := newTrackingIndex()
	g := newTestIngestor(corpus, index)
	s := NewSyncChecker(corpus, index)

	path := writeTempDoc(t, "contrat_jean_dupont.txt", legalContract())
	n, err := g.Ingest(context.Background(), path)
	require.NoError(t, err)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, n, stats.IndexedChunks)
	assert.Equal(t, 1, stats.IndexedSources)
}
