// Package storage opens the configured document store backend.
package storage

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// OpenDocumentStore creates the document store selected by settings.
// An empty backend means memory.
func OpenDocumentStore(ctx context.Context, settings domain.StorageSettings) (driven.DocumentStore, error) {
	switch settings.Backend {
	case domain.StorageMemory, "":
		return memory.NewDocumentStore(), nil

	case domain.StorageSQLite:
		store, err := sqlite.NewStore(settings.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil

	case domain.StoragePostgres:
		store, err := postgres.NewStore(ctx, settings.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedBackend, settings.Backend)
	}
}
