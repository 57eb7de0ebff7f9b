package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService scores stored documents by query term overlap.
type SearchService struct {
	docStore     driven.DocumentStore
	defaultLimit int
}

// NewSearchService creates a new search service.
// A non-positive defaultLimit falls back to domain.DefaultSearchLimit.
func NewSearchService(docStore driven.DocumentStore, defaultLimit int) *SearchService {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultSearchLimit
	}
	return &SearchService{
		docStore:     docStore,
		defaultLimit: defaultLimit,
	}
}

// Search scores every stored document against the query.
//
// Results with a score above zero are returned best first, ties in store
// order. When documents exist but none match, the first stored document is
// returned alone with Fallback set.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search")
	logger.Debug("Query: %q", query)

	terms := QueryTerms(strings.TrimSpace(query))
	if len(terms) == 0 {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if len(docs) == 0 {
		logger.Debug("No documents stored")
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	logger.Debug("Terms: %v, limit: %d, documents: %d", terms, limit, len(docs))

	results := make([]domain.SearchResult, 0, len(docs))
	for i := range docs {
		score := TermScore(docs[i].Content, terms)
		if score > 0 {
			results = append(results, domain.SearchResult{Document: docs[i], Score: score})
		}
	}

	if len(results) == 0 {
		logger.Info("No document matched, falling back to %s", docs[0].ID)
		return []domain.SearchResult{{Document: docs[0], Fallback: true}}, nil
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}

	logger.Info("Found %d matching documents", len(results))
	return results, nil
}
