// Package pdf extracts plain text from PDF files.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Header is the magic prefix of every PDF file.
const Header = "%PDF-"

// pageSeparator joins the text of consecutive pages.
const pageSeparator = "\n\n"

// Extractor reads text page by page.
type Extractor struct {
	// printableFallback scans raw bytes when the parser fails.
	printableFallback bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPrintableFallback enables recovering printable text from files the
// parser cannot open.
func WithPrintableFallback(enabled bool) Option {
	return func(e *Extractor) {
		e.printableFallback = enabled
	}
}

// New creates a PDF extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Supports reports whether the file has a .pdf extension and a PDF header.
func (e *Extractor) Supports(filename string, data []byte) bool {
	return IsPDFName(filename) && bytes.HasPrefix(data, []byte(Header))
}

// IsPDFName checks if the filename has a .pdf extension (case-insensitive).
func IsPDFName(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// Extract returns the text of every page joined by a blank line.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (*driven.Extraction, error) {
	if !bytes.HasPrefix(data, []byte(Header)) {
		return nil, fmt.Errorf("extract %s: %w", filename, domain.ErrNotPDF)
	}

	result, err := e.extractPages(ctx, data)
	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if e.printableFallback {
		if text := strings.TrimSpace(printableText(data)); text != "" {
			return &driven.Extraction{Text: text}, nil
		}
	}
	return nil, fmt.Errorf("extract %s: %w: %w", filename, domain.ErrExtractionFailed, err)
}

// extractPages reads each page in order. The parser panics on some
// malformed inputs, so panics are turned into errors.
func (e *Extractor) extractPages(ctx context.Context, data []byte) (result *driven.Extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	fonts := make(map[string]*pdflib.Font)

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := page.Font(name)
				fonts[name] = &font
			}
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	return &driven.Extraction{
		Text:  strings.Join(pages, pageSeparator),
		Pages: numPages,
	}, nil
}

// printableText keeps the printable runes of data, dropping invalid bytes
// other than printable ASCII.
func printableText(data []byte) string {
	var out strings.Builder
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			if isPrintableASCII(data[0]) {
				out.WriteByte(data[0])
			}
			data = data[1:]
			continue
		}
		data = data[size:]
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 && r != 127 {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func isPrintableASCII(b byte) bool {
	return b == '\n' || b == '\r' || b == '\t' || (b >= 32 && b < 127)
}
