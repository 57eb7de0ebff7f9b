package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/sqlutil"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// DatabaseFile is the file name created inside the data directory.
const DatabaseFile = "documents.db"

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.pdfchat/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pdfchat", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL mode lets readers proceed while a write is in progress.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := sqlutil.Migrate(context.Background(), db, migrations.FS, sqlutil.SQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SaveDocument stores a new document.
// Returns domain.ErrAlreadyExists if the ID is taken.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("saving document: %w", domain.ErrInvalidInput)
	}

	metadataJSON, err := sqlutil.EncodeMetadata(doc.Metadata)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, doc.ID, doc.Title, doc.Content, metadataJSON, doc.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("saving document %s: %w", doc.ID, domain.ErrAlreadyExists)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, metadata, created_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// DeleteDocument removes a document.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListDocuments returns all documents in insertion order.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, metadata, created_at
		FROM documents ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// CountDocuments returns the number of stored documents.
func (s *Store) CountDocuments(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanDocument scans a document row. sql.ErrNoRows is returned unwrapped.
func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON string

	if err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &metadataJSON, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	metadata, err := sqlutil.DecodeMetadata([]byte(metadataJSON))
	if err != nil {
		return nil, err
	}
	doc.Metadata = metadata

	return &doc, nil
}
