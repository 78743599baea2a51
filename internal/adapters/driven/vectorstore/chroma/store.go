// Package chroma provides a vector index adapter backed by a Chroma
// server over its REST API.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorIndex = (*Store)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:8000"
	DefaultCollection = "legal_docs"
	DefaultTimeout    = 60 * time.Second
)

// Config holds configuration for the Chroma store.
type Config struct {
	// BaseURL is the Chroma server URL (default: http://localhost:8000).
	BaseURL string

	// Collection is the collection name (default: legal_docs).
	Collection string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// Store is a VectorIndex backed by one Chroma collection. Texts are
// embedded client-side so the collection never depends on a server-side
// embedding function.
type Store struct {
	client       *http.Client
	baseURL      string
	collectionID string
	embedder     driven.EmbeddingService
}

type collectionRequest struct {
	Name        string `json:"name"`
	GetOrCreate bool   `json:"get_or_create"`
}

type collectionResponse struct {
	ID string `json:"id"`
}

type addRequest struct {
	IDs        []string         `json:"ids"`
	Embeddings [][]float32      `json:"embeddings"`
	Documents  []string         `json:"documents"`
	Metadatas  []map[string]any `json:"metadatas"`
}

type queryRequest struct {
	QueryEmbeddings [][]float32    `json:"query_embeddings"`
	NResults        int            `json:"n_results"`
	Where           map[string]any `json:"where,omitempty"`
	Include         []string       `json:"include"`
}

type queryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

type getRequest struct {
	Where   map[string]any `json:"where,omitempty"`
	Include []string       `json:"include"`
}

type getResponse struct {
	IDs       []string         `json:"ids"`
	Metadatas []map[string]any `json:"metadatas"`
}

type deleteRequest struct {
	Where map[string]any `json:"where"`
}

// New connects to the Chroma server and opens (or creates) the
// collection. The returned handle is owned by the caller and closed on
// shutdown.
func New(ctx context.Context, cfg Config, embedder driven.EmbeddingService) (*Store, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	s := &Store{
		client:   &http.Client{Timeout: cfg.Timeout},
		baseURL:  cfg.BaseURL,
		embedder: embedder,
	}

	var resp collectionResponse
	err := s.post(ctx, "/api/v1/collections", collectionRequest{
		Name:        cfg.Collection,
		GetOrCreate: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("opening collection %q: %w", cfg.Collection, err)
	}
	s.collectionID = resp.ID

	return s, nil
}

// Query runs a similarity search restricted to chunks whose metadata
// matches every predicate key exactly.
func (s *Store) Query(
	ctx context.Context, question string, predicate domain.FilterPredicate, k int,
) ([]domain.ScoredChunk, error) {
	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	var resp queryResponse
	err = s.post(ctx, s.collectionPath("query"), queryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        k,
		Where:           whereClause(predicate),
		Include:         []string{"documents", "metadatas", "distances"},
	}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.IDs) == 0 {
		return nil, nil
	}

	results := make([]domain.ScoredChunk, 0, len(resp.IDs[0]))
	for i, id := range resp.IDs[0] {
		chunk := domain.Chunk{ID: id}
		if i < len(resp.Documents[0]) {
			chunk.Content = resp.Documents[0][i]
		}
		if i < len(resp.Metadatas[0]) {
			chunk.Metadata = metadataFromMap(resp.Metadatas[0][i])
		}
		score := 0.0
		if i < len(resp.Distances[0]) {
			// Chroma returns distances; lower is closer.
			score = 1.0 / (1.0 + resp.Distances[0][i])
		}
		results = append(results, domain.ScoredChunk{Chunk: chunk, Score: score})
	}
	return results, nil
}

// Add indexes chunks with their metadata payloads.
func (s *Store) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}

	req := addRequest{
		IDs:        make([]string, len(chunks)),
		Embeddings: embeddings,
		Documents:  texts,
		Metadatas:  make([]map[string]any, len(chunks)),
	}
	for i, c := range chunks {
		req.IDs[i] = c.ID
		req.Metadatas[i] = c.Metadata.Map()
	}

	return s.post(ctx, s.collectionPath("add"), req, nil)
}

// DeleteBySource removes every chunk of a source document.
func (s *Store) DeleteBySource(ctx context.Context, source string) (int, error) {
	where := map[string]any{domain.MetaSource: map[string]any{"$eq": source}}

	// Chroma's delete endpoint does not report a count; fetch first.
	var existing getResponse
	err := s.post(ctx, s.collectionPath("get"), getRequest{
		Where:   where,
		Include: []string{},
	}, &existing)
	if err != nil {
		return 0, err
	}
	if len(existing.IDs) == 0 {
		return 0, nil
	}

	if err := s.post(ctx, s.collectionPath("delete"), deleteRequest{Where: where}, nil); err != nil {
		return 0, err
	}
	return len(existing.IDs), nil
}

// Sources returns the distinct source identifiers present in the index.
func (s *Store) Sources(ctx context.Context) ([]string, error) {
	var resp getResponse
	err := s.post(ctx, s.collectionPath("get"), getRequest{
		Include: []string{"metadatas"},
	}, &resp)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var sources []string
	for _, md := range resp.Metadatas {
		if src, ok := md[domain.MetaSource].(string); ok && !seen[src] {
			seen[src] = true
			sources = append(sources, src)
		}
	}
	return sources, nil
}

// Count returns the total number of indexed chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	url := s.baseURL + s.collectionPath("count")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("chroma error (status %d): %s", resp.StatusCode, string(body))
	}

	var count int
	if err := json.Unmarshal(body, &count); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	return count, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.embedder.Close()
}

func (s *Store) collectionPath(op string) string {
	return "/api/v1/collections/" + s.collectionID + "/" + op
}

// post sends a JSON request and decodes the response into out when out
// is non-nil.
func (s *Store) post(ctx context.Context, path string, payload any, out any) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chroma error (status %d): %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// whereClause translates a filter predicate into Chroma's where syntax.
// One key maps directly; several are joined under $and.
func whereClause(predicate domain.FilterPredicate) map[string]any {
	if len(predicate) == 0 {
		return nil
	}
	if len(predicate) == 1 {
		for k, v := range predicate {
			return map[string]any{k: map[string]any{"$eq": v}}
		}
	}

	clauses := make([]map[string]any, 0, len(predicate))
	for _, k := range []string{domain.MetaDocType, domain.MetaPerson, domain.MetaDate} {
		if v, ok := predicate[k]; ok {
			clauses = append(clauses, map[string]any{k: map[string]any{"$eq": v}})
		}
	}
	// Keys outside the known tag vocabulary still filter.
	for k, v := range predicate {
		switch k {
		case domain.MetaDocType, domain.MetaPerson, domain.MetaDate:
		default:
			clauses = append(clauses, map[string]any{k: map[string]any{"$eq": v}})
		}
	}
	return map[string]any{"$and": clauses}
}

// metadataFromMap rebuilds chunk metadata from a Chroma payload.
// Numbers arrive as float64 through JSON.
func metadataFromMap(m map[string]any) domain.Metadata {
	md := domain.Metadata{}
	if v, ok := m[domain.MetaSource].(string); ok {
		md.Source = v
	}
	if v, ok := m[domain.MetaChunkID].(float64); ok {
		md.ChunkID = int(v)
	}
	if v, ok := m[domain.MetaDocType].(string); ok {
		md.Type = domain.DocType(v)
	}
	if v, ok := m[domain.MetaPerson].(string); ok {
		md.Personne = v
	}
	if v, ok := m[domain.MetaDate].(string); ok {
		md.Date = v
	}
	if v, ok := m[domain.MetaLength].(float64); ok {
		md.Length = int(v)
	}
	return md
}
