// Package sqlite provides the SQLite-backed corpus store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/plaide-labs/plaide-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CorpusStore = (*Store)(nil)

// Store persists raw documents in SQLite. It is the raw side of the
// sync comparison; the vector index holds the derived side.
type Store struct {
	db   *sql.DB
	path string
}

// New creates a corpus store at the specified data directory. If
// dataDir is empty, defaults to ~/.plaide/data.
func New(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".plaide", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "corpus.db")

	// WAL mode for better concurrency between CLI invocations
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// SaveDocument stores or replaces a raw document.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.RawDocument) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (source, content, chunk_count)
		VALUES (?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
			content = excluded.content,
			chunk_count = excluded.chunk_count,
			updated_at = CURRENT_TIMESTAMP
	`, doc.Source, doc.Content, doc.ChunkCount)
	if err != nil {
		return fmt.Errorf("saving document %s: %w", doc.Source, err)
	}
	return nil
}

// GetDocument retrieves a raw document by source identifier.
func (s *Store) GetDocument(ctx context.Context, source string) (*domain.RawDocument, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT source, content, chunk_count FROM documents WHERE source = ?
	`, source)

	var doc domain.RawDocument
	if err := row.Scan(&doc.Source, &doc.Content, &doc.ChunkCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, source)
		}
		return nil, fmt.Errorf("loading document %s: %w", source, err)
	}
	return &doc, nil
}

// ListSources returns all registered source identifiers, sorted.
func (s *Store) ListSources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source FROM documents ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

// DeleteDocument removes a raw document by source identifier.
func (s *Store) DeleteDocument(ctx context.Context, source string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE source = ?`, source)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", source, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", source, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, source)
	}
	return nil
}

// Count returns the number of registered documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
