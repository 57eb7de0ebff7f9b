package services

import "strings"

// QueryTerms lower-cases a query and splits it on whitespace into distinct
// terms, keeping first-occurrence order.
func QueryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

// TermScore counts how many of the terms occur in text, ignoring case.
// Terms must already be lower-case.
func TermScore(text string, terms []string) int {
	if len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	score := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			score++
		}
	}
	return score
}

// phraseBonus is added to a paragraph's score when it contains the whole query.
const phraseBonus = 5

// ParagraphScore scores a paragraph for answer selection: phraseBonus when the
// whole lower-cased query occurs in it, plus one per matching term.
func ParagraphScore(paragraph, query string, terms []string) int {
	score := TermScore(paragraph, terms)
	phrase := strings.ToLower(strings.TrimSpace(query))
	if phrase != "" && strings.Contains(strings.ToLower(paragraph), phrase) {
		score += phraseBonus
	}
	return score
}

// Paragraphs splits text on blank lines and drops segments that are only
// whitespace. Segments are returned untrimmed.
func Paragraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// truncateRunes returns at most n characters of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
