package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryTerms(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"lower-cased", "Hello WORLD", []string{"hello", "world"}},
		{"duplicates removed", "cat dog Cat CAT", []string{"cat", "dog"}},
		{"extra whitespace", "  a \t b\n", []string{"a", "b"}},
		{"empty", "", []string{}},
		{"blank", "   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QueryTerms(tt.query))
		})
	}
}

func TestTermScore(t *testing.T) {
	terms := QueryTerms("revenue growth 2023")

	assert.Equal(t, 3, TermScore("Revenue GROWTH in 2023", terms))
	assert.Equal(t, 1, TermScore("revenues fell", terms), "substring match counts")
	assert.Equal(t, 0, TermScore("nothing here", terms))
	assert.Equal(t, 0, TermScore("anything", nil))
}

func TestTermScore_SupersetScoresAtLeastSubset(t *testing.T) {
	terms := QueryTerms("alpha beta gamma")
	all := "alpha beta gamma"
	subsets := []string{"alpha", "beta gamma", "gamma alpha", ""}

	for _, s := range subsets {
		assert.GreaterOrEqual(t, TermScore(all, terms), TermScore(s, terms), s)
	}
}

func TestParagraphScore(t *testing.T) {
	query := "Machine Learning"
	terms := QueryTerms(query)

	assert.Equal(t, 7, ParagraphScore("An intro to machine learning.", query, terms))
	assert.Equal(t, 2, ParagraphScore("Learning about a machine.", query, terms))
	assert.Equal(t, 1, ParagraphScore("Machines only", query, terms))
	assert.Equal(t, 0, ParagraphScore("Unrelated", query, terms))
}

func TestParagraphs(t *testing.T) {
	text := "first\n\n  \n\nsecond line\nstill second\n\n\n\nthird"

	got := Paragraphs(text)

	assert.Equal(t, []string{"first", "second line\nstill second", "third"}, got)
	assert.Empty(t, Paragraphs(""))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "héllo", truncateRunes("héllo", 10))
	assert.Equal(t, "", truncateRunes("héllo", 0))
}
