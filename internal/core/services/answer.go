package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// User-facing messages.
const (
	// NoDocumentsMessage is returned when a question arrives before any upload.
	NoDocumentsMessage = "Please upload a PDF document first so I can answer your questions."

	// NoResultsMessage is returned when a search yields nothing to answer from.
	NoResultsMessage = "I couldn't find relevant information about that. " +
		"Could you try asking something else about the document?"

	noMatchFormat = "I don't have specific information about that in the document. " +
		"The document contains information about %s..."
)

// AnswerSelector extracts an answer from searched documents.
// It never generates text: the answer is a paragraph of the source, verbatim.
type AnswerSelector struct {
	settings domain.AnswerSettings
}

// NewAnswerSelector creates a selector. Zero fields take their defaults.
func NewAnswerSelector(settings domain.AnswerSettings) *AnswerSelector {
	defaults := domain.DefaultAppSettings().Answer
	if settings.PreviewChars <= 0 {
		settings.PreviewChars = defaults.PreviewChars
	}
	if settings.ContextChars <= 0 {
		settings.ContextChars = defaults.ContextChars
	}
	if settings.ContextParagraphs <= 0 {
		settings.ContextParagraphs = defaults.ContextParagraphs
	}
	return &AnswerSelector{settings: settings}
}

// Select picks the best paragraph of the result documents for the query.
func (a *AnswerSelector) Select(query string, results []domain.SearchResult) domain.Answer {
	if len(results) == 0 {
		return domain.Answer{Text: NoDocumentsMessage}
	}

	ranked := a.Rank(query, results)

	if len(ranked) > 0 {
		best := ranked[0]
		top := ranked
		if len(top) > a.settings.ContextParagraphs {
			top = top[:a.settings.ContextParagraphs]
		}
		texts := make([]string, len(top))
		for i, p := range top {
			texts[i] = p.Text
		}
		return domain.Answer{
			Text:      strings.TrimSpace(best.Text),
			Paragraph: &best,
			Context:   strings.Join(texts, "\n"),
		}
	}

	allText := joinContents(results)
	preview := strings.TrimSpace(truncateRunes(allText, a.settings.PreviewChars))
	return domain.Answer{
		Text:    fmt.Sprintf(noMatchFormat, preview),
		Context: truncateRunes(allText, a.settings.ContextChars),
	}
}

// Rank scores every paragraph of the result documents and returns those
// scoring above zero, best first, ties in document order.
func (a *AnswerSelector) Rank(query string, results []domain.SearchResult) []domain.ScoredParagraph {
	terms := QueryTerms(query)

	var ranked []domain.ScoredParagraph
	for _, r := range results {
		for _, p := range Paragraphs(r.Document.Content) {
			score := ParagraphScore(p, query, terms)
			if score > 0 {
				ranked = append(ranked, domain.ScoredParagraph{
					Text:       p,
					Score:      score,
					DocumentID: r.Document.ID,
				})
			}
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func joinContents(results []domain.SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Document.Content
	}
	return strings.Join(parts, "\n\n")
}
