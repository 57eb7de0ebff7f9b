package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/postprocessors"
)

var (
	chunkSize    int
	chunkOverlap int
	chunkJSON    bool
	extractStats bool
)

var extractCmd = &cobra.Command{
	Use:         "extract [file]",
	Short:       "Print the text of a PDF",
	Long:        `Extracts the text of a PDF without uploading it. Pages are separated by a blank line.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{noServices: "true"},
	RunE:        runExtract,
}

var chunkCmd = &cobra.Command{
	Use:   "chunk [file]",
	Short: "Split the text of a PDF into overlapping chunks",
	Long: `Extracts the text of a PDF and splits it into chunks of about --size
characters, each sharing --overlap characters with the previous one.
Chunks end on a word boundary where one is available.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{noServices: "true"},
	RunE:        runChunk,
}

func init() {
	extractCmd.Flags().BoolVar(&extractStats, "stats", false, "print page and character counts instead of the text")

	chunkCmd.Flags().IntVar(&chunkSize, "size", domain.DefaultChunkSize, "target chunk length in characters")
	chunkCmd.Flags().IntVar(&chunkOverlap, "overlap", domain.DefaultChunkOverlap, "characters shared by consecutive chunks")
	chunkCmd.Flags().BoolVar(&chunkJSON, "json", false, "output chunks as JSON")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(chunkCmd)
}

func extractFile(cmd *cobra.Command, path string) (*driven.Extraction, error) {
	if textExtractor == nil {
		return nil, fmt.Errorf("text extractor not configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	name := filepath.Base(path)
	if !textExtractor.Supports(name, data) {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotPDF)
	}
	extraction, err := textExtractor.Extract(cmd.Context(), name, data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", path, err)
	}
	return extraction, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	extraction, err := extractFile(cmd, args[0])
	if err != nil {
		return err
	}

	if extractStats {
		cmd.Printf("Pages:      %d\n", extraction.Pages)
		cmd.Printf("Characters: %d\n", utf8.RuneCountInString(extraction.Text))
		return nil
	}
	cmd.Println(extraction.Text)
	return nil
}

func runChunk(cmd *cobra.Command, args []string) error {
	if chunkSize <= 0 {
		return fmt.Errorf("--size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 {
		return fmt.Errorf("--overlap must not be negative, got %d", chunkOverlap)
	}

	pipeline, err := postprocessors.NewDefaultPipeline(domain.ChunkingSettings{
		Size:    chunkSize,
		Overlap: chunkOverlap,
	})
	if err != nil {
		return err
	}

	extraction, err := extractFile(cmd, args[0])
	if err != nil {
		return err
	}

	name := filepath.Base(args[0])
	chunks, err := pipeline.Process(cmd.Context(), &domain.Document{
		ID:       name,
		Title:    name,
		Content:  extraction.Text,
		Metadata: map[string]any{domain.MetaFilename: name},
	})
	if err != nil {
		return fmt.Errorf("failed to chunk %s: %w", args[0], err)
	}

	if chunkJSON {
		return printJSON(cmd, toChunkOutputs(chunks))
	}
	printChunks(cmd, chunks)
	return nil
}
