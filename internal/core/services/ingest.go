package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/plaide-labs/plaide-cli/internal/chunker"
	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driving"
	"github.com/plaide-labs/plaide-cli/internal/logger"
)

// minChunkLength drops fragments too short to carry retrievable
// meaning, typically the tail of an overlap walk.
const minChunkLength = 50

var (
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	blankLineRuns   = regexp.MustCompile(`\n{3,}`)
)

// Ingestor implements driving.DocumentService: it loads files, cleans
// and chunks their text, extracts metadata and writes to both the
// corpus store and the vector index.
type Ingestor struct {
	loaders   map[string]driven.Loader
	extractor driven.TagExtractor
	corpus    driven.CorpusStore
	index     driven.VectorIndex
	splitter  *chunker.Splitter
}

var _ driving.DocumentService = (*Ingestor)(nil)

// NewIngestor builds an Ingestor. The loader registry is keyed by the
// extensions each loader declares; a later loader claiming an already
// registered extension wins.
func NewIngestor(
	loaders []driven.Loader,
	extractor driven.TagExtractor,
	corpus driven.CorpusStore,
	index driven.VectorIndex,
	splitter *chunker.Splitter,
) *Ingestor {
	registry := make(map[string]driven.Loader)
	for _, l := range loaders {
		for _, ext := range l.Extensions() {
			registry[strings.ToLower(ext)] = l
		}
	}
	return &Ingestor{
		loaders:   registry,
		extractor: extractor,
		corpus:    corpus,
		index:     index,
		splitter:  splitter,
	}
}

// Ingest loads one file and indexes its chunks. The source identifier
// is the base filename; re-ingesting a file replaces its previous
// chunks instead of accumulating duplicates.
func (g *Ingestor) Ingest(ctx context.Context, path string) (int, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	loader, ok := g.loaders[ext]
	if !ok {
		return 0, fmt.Errorf("%w: no loader for extension %q", domain.ErrUnsupportedType, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	text, err := loader.Load(data)
	if err != nil {
		return 0, fmt.Errorf("loading %s: %w", path, err)
	}

	source := filepath.Base(path)
	text = cleanText(text)
	if text == "" {
		return 0, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, source)
	}

	chunks := g.buildChunks(source, text)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%w: %s holds no usable text", domain.ErrEmptyDocument, source)
	}

	if err := g.corpus.SaveDocument(ctx, &domain.RawDocument{
		Source:     source,
		Content:    text,
		ChunkCount: len(chunks),
	}); err != nil {
		return 0, fmt.Errorf("registering %s: %w", source, err)
	}

	// Replace, never accumulate: a stale copy may already be indexed.
	if _, err := g.index.DeleteBySource(ctx, source); err != nil {
		return 0, fmt.Errorf("%w: clearing stale chunks of %s: %w", domain.ErrIndexUnavailable, source, err)
	}
	if err := g.index.Add(ctx, chunks); err != nil {
		return 0, fmt.Errorf("%w: indexing %s: %w", domain.ErrIndexUnavailable, source, err)
	}

	logger.Info("indexed %s: %d chunks", source, len(chunks))
	return len(chunks), nil
}

// Remove deletes a source from both stores.
func (g *Ingestor) Remove(ctx context.Context, source string) (int, error) {
	if err := g.corpus.DeleteDocument(ctx, source); err != nil {
		return 0, err
	}
	removed, err := g.index.DeleteBySource(ctx, source)
	if err != nil {
		return 0, fmt.Errorf("%w: removing chunks of %s: %w", domain.ErrIndexUnavailable, source, err)
	}
	logger.Info("removed %s: %d chunks", source, removed)
	return removed, nil
}

// List returns the registered raw documents.
func (g *Ingestor) List(ctx context.Context) ([]domain.RawDocument, error) {
	sources, err := g.corpus.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	docs := make([]domain.RawDocument, 0, len(sources))
	for _, source := range sources {
		doc, err := g.corpus.GetDocument(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", source, err)
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// Rebuild re-indexes every registered document from its stored text.
// Each source is fully replaced in the index before the next one is
// processed, so an interrupted rebuild leaves earlier sources intact.
func (g *Ingestor) Rebuild(ctx context.Context) (int, error) {
	sources, err := g.corpus.ListSources(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing sources: %w", err)
	}

	total := 0
	for _, source := range sources {
		doc, err := g.corpus.GetDocument(ctx, source)
		if err != nil {
			return total, fmt.Errorf("loading %s: %w", source, err)
		}

		chunks := g.buildChunks(source, doc.Content)
		if _, err := g.index.DeleteBySource(ctx, source); err != nil {
			return total, fmt.Errorf("%w: clearing %s: %w", domain.ErrIndexUnavailable, source, err)
		}
		if err := g.index.Add(ctx, chunks); err != nil {
			return total, fmt.Errorf("%w: indexing %s: %w", domain.ErrIndexUnavailable, source, err)
		}

		if doc.ChunkCount != len(chunks) {
			doc.ChunkCount = len(chunks)
			if err := g.corpus.SaveDocument(ctx, doc); err != nil {
				return total, fmt.Errorf("updating %s: %w", source, err)
			}
		}

		logger.Debug("rebuilt %s: %d chunks", source, len(chunks))
		total += len(chunks)
	}

	logger.Info("rebuild complete: %d sources, %d chunks", len(sources), total)
	return total, nil
}

// buildChunks splits cleaned text and attaches per-chunk metadata.
// Chunk IDs restart from zero per source and are dense after short
// fragments are dropped.
func (g *Ingestor) buildChunks(source, text string) []domain.Chunk {
	var chunks []domain.Chunk
	chunkID := 0
	for _, segment := range g.splitter.Split(text) {
		segment = strings.TrimSpace(segment)
		if utf8.RuneCountInString(segment) < minChunkLength {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			Content:  segment,
			Metadata: g.extractor.ExtractDocument(source, segment, chunkID),
		})
		chunkID++
	}
	return chunks
}

// cleanText normalises whitespace and removes consecutive duplicate
// lines, a common artefact of headers repeated on every page of an
// exported document.
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = horizontalSpace.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	out := lines[:0]
	prev := ""
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && line == prev {
			continue
		}
		out = append(out, line)
		prev = line
	}

	text = strings.Join(out, "\n")
	text = blankLineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
