package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// defaultCLISession is the history session used by ask and line-mode chat.
const defaultCLISession = "cli"

var (
	askSession string
	askFiles   []string
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about uploaded documents",
	Long: `Finds the document that best matches the question and answers with
its most relevant paragraph. With an LLM configured, the answer is
generated from that paragraph instead.

Use --file to upload PDFs before asking. Uploads only persist when a
sqlite or postgres storage backend is configured.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", defaultCLISession, "conversation session ID")
	askCmd.Flags().StringSliceVarP(&askFiles, "file", "f", nil, "PDF files to upload first")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the reply as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errChatServiceMissing
	}
	if len(askFiles) > 0 {
		if documentService == nil {
			return errDocumentServiceMissing
		}
		if _, err := uploadFiles(cmd.Context(), askFiles); err != nil {
			return err
		}
	}

	question := strings.Join(args, " ")
	reply, err := chatService.Ask(cmd.Context(), askSession, question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return printJSON(cmd, toReplyOutput(reply))
	}
	printReply(cmd, reply)
	return nil
}

func printReply(cmd *cobra.Command, reply *domain.Reply) {
	cmd.Println(reply.Answer.Text)
	if names := sourceNames(reply.Sources); len(names) > 0 {
		cmd.Printf("\n  from %s\n", strings.Join(names, ", "))
	}
}

func sourceNames(sources []domain.SearchResult) []string {
	names := make([]string, 0, len(sources))
	for i := range sources {
		names = append(names, sources[i].Document.Filename())
	}
	return names
}

type replyOutput struct {
	SessionID string   `json:"session_id"`
	Answer    string   `json:"answer"`
	Matched   bool     `json:"matched"`
	Generated bool     `json:"generated"`
	Paragraph string   `json:"paragraph,omitempty"`
	Sources   []string `json:"sources"`
}

func toReplyOutput(reply *domain.Reply) replyOutput {
	out := replyOutput{
		SessionID: reply.SessionID,
		Answer:    reply.Answer.Text,
		Matched:   reply.Answer.Matched(),
		Generated: reply.Answer.Generated,
		Sources:   sourceNames(reply.Sources),
	}
	if reply.Answer.Paragraph != nil {
		out.Paragraph = reply.Answer.Paragraph.Text
	}
	return out
}
