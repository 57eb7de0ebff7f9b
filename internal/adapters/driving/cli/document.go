package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc"},
	Short:   "Manage uploaded documents",
	Long:    `Add, list, view, chunk, or delete uploaded PDF documents.`,
}

var documentAddCmd = &cobra.Command{
	Use:   "add [file...]",
	Short: "Upload PDF files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocumentAdd,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print document content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "Print the chunks of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentChunks,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentChunksJSON bool

func init() {
	documentChunksCmd.Flags().BoolVar(&documentChunksJSON, "json", false, "output chunks as JSON")

	documentCmd.AddCommand(documentAddCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentChunksCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentAdd(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errDocumentServiceMissing
	}

	docs, err := uploadFiles(cmd.Context(), args)
	for _, doc := range docs {
		cmd.Printf("Added %s (%s, %d characters)\n", doc.Filename(), doc.ID, utf8.RuneCountInString(doc.Content))
	}
	return err
}

// uploadFiles uploads each path in order, stopping at the first failure.
func uploadFiles(ctx context.Context, paths []string) ([]*domain.Document, error) {
	docs := make([]*domain.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return docs, fmt.Errorf("failed to read %s: %w", path, err)
		}
		doc, err := documentService.Upload(ctx, filepath.Base(path), data)
		if err != nil {
			return docs, fmt.Errorf("failed to upload %s: %w", path, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errDocumentServiceMissing
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File:     %s\n", docs[i].Filename())
		cmd.Printf("    Uploaded: %s\n", docs[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errDocumentServiceMissing
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:      %s\n", doc.Title)
	cmd.Printf("  File:       %s\n", doc.Filename())
	cmd.Printf("  Characters: %d\n", utf8.RuneCountInString(doc.Content))
	cmd.Printf("  Uploaded:   %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))

	if len(doc.Metadata) > 0 {
		keys := make([]string, 0, len(doc.Metadata))
		for k := range doc.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		cmd.Println("\n  Metadata:")
		for _, k := range keys {
			cmd.Printf("    %s: %v\n", k, doc.Metadata[k])
		}
	}

	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errDocumentServiceMissing
	}

	content, err := documentService.GetContent(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}

	cmd.Println(content)
	return nil
}

func runDocumentChunks(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errDocumentServiceMissing
	}

	chunks, err := documentService.Chunks(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to chunk document: %w", err)
	}

	if documentChunksJSON {
		return printJSON(cmd, toChunkOutputs(chunks))
	}
	printChunks(cmd, chunks)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errDocumentServiceMissing
	}

	if err := documentService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}

func printChunks(cmd *cobra.Command, chunks []domain.Chunk) {
	if len(chunks) == 0 {
		cmd.Println("No chunks.")
		return
	}
	for i := range chunks {
		cmd.Printf("--- chunk %d [%d:%d] %d characters\n",
			chunks[i].Position, chunks[i].Start, chunks[i].End, utf8.RuneCountInString(chunks[i].Content))
		cmd.Println(chunks[i].Content)
	}
	cmd.Printf("\nTotal: %d chunks\n", len(chunks))
}

type chunkOutput struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Position   int    `json:"position"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Content    string `json:"content"`
}

func toChunkOutputs(chunks []domain.Chunk) []chunkOutput {
	out := make([]chunkOutput, len(chunks))
	for i := range chunks {
		out[i] = chunkOutput{
			ID:         chunks[i].ID,
			DocumentID: chunks[i].DocumentID,
			Position:   chunks[i].Position,
			Start:      chunks[i].Start,
			End:        chunks[i].End,
			Content:    chunks[i].Content,
		}
	}
	return out
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
