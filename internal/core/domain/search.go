package domain

// DefaultSearchLimit is the number of results returned when no limit is set.
const DefaultSearchLimit = 5

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero means DefaultSearchLimit.
	Limit int
}

// SearchResult represents a single scored document.
type SearchResult struct {
	// Document is the matched document.
	Document Document

	// Score is the number of distinct query terms found in the document.
	Score int

	// Fallback is true when no document matched and the first stored
	// document was returned instead.
	Fallback bool
}

// ScoredParagraph is a paragraph of a document with its relevance score.
type ScoredParagraph struct {
	// Text is the paragraph as it appears in the document.
	Text string

	// Score is 5 for an exact phrase match plus 1 per matching term.
	Score int

	// DocumentID identifies the document the paragraph came from.
	DocumentID string
}

// Answer is the response selected for a question.
type Answer struct {
	// Text is the answer shown to the user.
	Text string

	// Paragraph is the best scoring paragraph, nil when nothing matched.
	Paragraph *ScoredParagraph

	// Context is the text handed to a language model as supporting material.
	Context string

	// Generated is true when Text came from a language model.
	Generated bool
}

// Matched reports whether a paragraph matched the question.
func (a Answer) Matched() bool {
	return a.Paragraph != nil
}
