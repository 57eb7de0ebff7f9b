package chunker

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		assert.Equal(t, 1000, p.ChunkSize())
		assert.Equal(t, 200, p.Overlap())
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(500))
		assert.Equal(t, 500, p.ChunkSize())
	})

	t.Run("custom overlap", func(t *testing.T) {
		p := New(WithOverlap(100))
		assert.Equal(t, 100, p.Overlap())
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		assert.Equal(t, 25, p.Overlap())
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		assert.Equal(t, DefaultChunkSize, p.ChunkSize())
		assert.Equal(t, DefaultChunkOverlap, p.Overlap())
	})
}

func TestProcessor_Name(t *testing.T) {
	assert.Equal(t, "chunker", New().Name())
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	chunks, err := New().Process(context.Background(), &domain.Document{ID: "d"}, nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestProcessor_Process_SmallContent(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	doc := &domain.Document{ID: "test-doc", Content: "a short document"}

	chunks, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short document", chunks[0].Content)
	assert.Equal(t, "test-doc", chunks[0].DocumentID)
	assert.Equal(t, 0, chunks[0].Position)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 16, chunks[0].End)
	assert.NotEmpty(t, chunks[0].ID)
	assert.NotNil(t, chunks[0].Metadata)
}

func TestProcessor_Split_WordBoundaries(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(2))

	chunks := p.Split("hello world foo bar")

	require.NotEmpty(t, chunks)
	assert.Equal(t, "hello", chunks[0])
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 10)
	}
	// No chunk ends in the middle of a word unless the text ends there.
	for _, c := range chunks[:len(chunks)-1] {
		trimmed := strings.TrimSpace(c)
		assert.True(t, strings.HasSuffix(trimmed, "hello") ||
			strings.HasSuffix(trimmed, "world") ||
			strings.HasSuffix(trimmed, "foo") ||
			strings.HasSuffix(trimmed, "bar"), "chunk %q splits a word", c)
	}
}

func TestProcessor_Split_NoSpaceSplitsMidWord(t *testing.T) {
	p := New(WithChunkSize(4), WithOverlap(1))

	chunks := p.Split("abcdefghij")

	assert.Equal(t, []string{"abcd", "defg", "ghij"}, chunks)
}

func TestProcessor_Split_SpaceAtWindowStartIgnored(t *testing.T) {
	p := New(WithChunkSize(5), WithOverlap(0))

	// The second window starts on the space, which is not a usable break.
	chunks := p.Split("abcde fghijklmn")

	require.NotEmpty(t, chunks)
	assert.Equal(t, "abcde", chunks[0])
	assert.Equal(t, " fghi", chunks[1])
}

func TestProcessor_Split_Multibyte(t *testing.T) {
	p := New(WithChunkSize(3), WithOverlap(1))

	chunks := p.Split("ééééé")

	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 3)
	}
	assert.Equal(t, "ééé", chunks[0])
}

func TestProcessor_Spans_Reconstruct(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40) +
		"Supercalifragilisticexpialidocious" + strings.Repeat("x", 300) + " end"

	configs := []struct {
		name    string
		size    int
		overlap int
	}{
		{"defaults", 1000, 200},
		{"small", 50, 10},
		{"tiny", 7, 3},
		{"no overlap", 64, 0},
		{"overlap almost size", 20, 19},
	}

	for _, cfg := range configs {
		t.Run(cfg.name, func(t *testing.T) {
			p := New(WithChunkSize(cfg.size), WithOverlap(cfg.overlap))
			runes := []rune(text)
			spans := p.Spans(runes)
			require.NotEmpty(t, spans)

			var b strings.Builder
			prevEnd := 0
			for i, sp := range spans {
				assert.LessOrEqual(t, sp.End-sp.Start, cfg.size, "span %d too long", i)
				assert.Greater(t, sp.End, sp.Start, "span %d empty", i)
				if i == 0 {
					assert.Equal(t, 0, sp.Start)
				} else {
					assert.LessOrEqual(t, sp.Start, prevEnd, "span %d skips text", i)
					assert.Greater(t, sp.Start, spans[i-1].Start, "span %d does not advance", i)
				}
				if sp.End > prevEnd {
					b.WriteString(string(runes[prevEnd:sp.End]))
					prevEnd = sp.End
				}
			}
			assert.Equal(t, len(runes), spans[len(spans)-1].End)
			assert.Equal(t, text, b.String())
		})
	}
}

func TestProcessor_Process_ChunkOffsetsMatchContent(t *testing.T) {
	p := New(WithChunkSize(30), WithOverlap(5))
	doc := &domain.Document{ID: "doc", Content: strings.Repeat("lorem ipsum dolor sit amet ", 10)}

	chunks, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)

	runes := []rune(doc.Content)
	for i, c := range chunks {
		assert.Equal(t, i, c.Position)
		assert.Equal(t, string(runes[c.Start:c.End]), c.Content)
		assert.Equal(t, c.Len(), utf8.RuneCountInString(c.Content))
	}
}

func TestProcessor_Process_IgnoresInputChunks(t *testing.T) {
	p := New(WithChunkSize(100))
	doc := &domain.Document{ID: "doc", Content: "fresh content"}
	input := []domain.Chunk{{ID: "old", Content: "stale"}}

	chunks, err := p.Process(context.Background(), doc, input)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "fresh content", chunks[0].Content)
}

func TestProcessor_Process_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Process(ctx, &domain.Document{ID: "d", Content: "text"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
