// Package postgres provides a Postgres-backed DocumentStore using lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/postgres/migrations"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/sqlutil"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// connectTimeout bounds the initial connectivity check.
const connectTimeout = 5 * time.Second

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a Postgres-backed document store.
type Store struct {
	db *sql.DB
}

// NewStore connects to the database at dsn and applies migrations.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn: %w", domain.ErrInvalidInput)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := sqlutil.Migrate(ctx, db, migrations.FS, sqlutil.Postgres); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
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

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, doc.ID, doc.Title, doc.Content, metadataJSON, doc.CreatedAt.UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("saving document %s: %w", doc.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, metadata, created_at
		FROM documents WHERE id = $1
	`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// DeleteDocument removes a document.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
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

	var docs []domain.Document
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

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON []byte

	if err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &metadataJSON, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	metadata, err := sqlutil.DecodeMetadata(metadataJSON)
	if err != nil {
		return nil, err
	}
	doc.Metadata = metadata

	return &doc, nil
}
