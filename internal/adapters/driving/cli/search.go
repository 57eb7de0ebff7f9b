package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search uploaded documents",
	Long: `Scores every uploaded document by how many distinct query words it
contains. When nothing matches, the first uploaded document is returned
as a fallback.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured limit)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errSearchServiceMissing
	}

	results, err := searchService.Search(cmd.Context(), args[0], domain.SearchOptions{Limit: searchLimit})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, toSearchOutputs(results))
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		doc := results[i].Document
		if results[i].Fallback {
			cmd.Printf("  [%d] %s (no match, first document)\n", i+1, doc.Filename())
		} else {
			cmd.Printf("  [%d] %s (%d terms)\n", i+1, doc.Filename(), results[i].Score)
		}
		cmd.Printf("      ID: %s\n", doc.ID)
		cmd.Println()
	}
	return nil
}

type searchOutput struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Score      int    `json:"score"`
	Fallback   bool   `json:"fallback,omitempty"`
}

func toSearchOutputs(results []domain.SearchResult) []searchOutput {
	out := make([]searchOutput, len(results))
	for i := range results {
		out[i] = searchOutput{
			DocumentID: results[i].Document.ID,
			Filename:   results[i].Document.Filename(),
			Score:      results[i].Score,
			Fallback:   results[i].Fallback,
		}
	}
	return out
}
