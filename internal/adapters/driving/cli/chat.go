package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui"
)

var (
	chatSession  string
	chatLineMode bool
)

// stdinIsTerminal reports whether the TUI can take over the terminal.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var chatCmd = &cobra.Command{
	Use:   "chat [file...]",
	Short: "Chat with PDF documents",
	Long: `Uploads the given PDFs and starts an interactive chat about them.

In a terminal this opens the full screen interface. When input is piped,
or with --line, questions are read one per line.

Line mode commands:
  /clear  - Forget the conversation so far
  /quit   - Exit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "conversation session ID")
	chatCmd.Flags().BoolVar(&chatLineMode, "line", false, "read questions line by line instead of opening the TUI")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errChatServiceMissing
	}
	if documentService == nil {
		return errDocumentServiceMissing
	}

	docs, err := uploadFiles(cmd.Context(), args)
	if err != nil {
		return err
	}

	if chatLineMode || !stdinIsTerminal() {
		for _, doc := range docs {
			cmd.Printf("Loaded %s\n", doc.Filename())
		}
		session := chatSession
		if session == "" {
			session = defaultCLISession
		}
		return runLineChat(cmd, cmd.InOrStdin(), session)
	}

	return runTUI(cmd)
}

func runTUI(cmd *cobra.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(chatService, documentService), chatSession)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).StartInChat().Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func runLineChat(cmd *cobra.Command, in io.Reader, session string) error {
	ctx := cmd.Context()
	scanner := bufio.NewScanner(in)

	cmd.Print("> ")
	for scanner.Scan() {
		question := strings.TrimSpace(scanner.Text())
		switch question {
		case "":
		case "/quit", "/exit":
			return nil
		case "/clear":
			if err := chatService.Clear(ctx, session); err != nil {
				cmd.Printf("Error: %v\n", err)
			} else {
				cmd.Println("Conversation cleared.")
			}
		default:
			reply, err := chatService.Ask(ctx, session, question)
			if err != nil {
				cmd.Printf("Error: %v\n", err)
			} else {
				printReply(cmd, reply)
			}
			cmd.Println()
		}
		if ctx.Err() != nil {
			return nil
		}
		cmd.Print("> ")
	}
	cmd.Println()
	return scanner.Err()
}
