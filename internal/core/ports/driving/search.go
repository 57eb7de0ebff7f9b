package driving

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search scores every stored document against the query.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
