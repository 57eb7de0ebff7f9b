package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/watcher"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

var (
	serveAddr  string
	serveWatch string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API for uploading PDFs, searching, and chatting.

Endpoints:
  GET    /health
  POST   /documents              multipart field "file"
  GET    /documents
  GET    /documents/{id}
  GET    /documents/{id}/content
  GET    /documents/{id}/chunks
  DELETE /documents/{id}
  GET    /search?q=&limit=
  POST   /chat                   {"question": "..."}
  GET    /chat/history
  DELETE /chat/history
  GET    /llm/ping
  GET    /llm/models

Use --watch to ingest PDFs dropped into a directory while serving.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from server.addr)")
	serveCmd.Flags().StringVarP(&serveWatch, "watch", "w", "", "directory to watch for new PDFs")
	rootCmd.AddCommand(serveCmd)
}

// newHTTPServer builds the API server from the current services.
func newHTTPServer() (*httpapi.Server, error) {
	addr := serveAddr
	if addr == "" {
		addr = appSettings.Server.Addr
	}

	ports := httpapi.Ports{
		Document: documentService,
		Search:   searchService,
		Chat:     chatService,
	}
	if modelClient != nil {
		ports.Model = modelClient
	}

	return httpapi.NewServer(ports, httpapi.Config{
		Addr:              addr,
		MaxUploadBytes:    appSettings.Server.MaxUploadBytes,
		ChatRatePerSecond: appSettings.Server.ChatRatePerSecond,
		ChatBurst:         appSettings.Server.ChatBurst,
		LLMMode:           appSettings.LLM.Mode,
	})
}

func runServe(cmd *cobra.Command, _ []string) error {
	server, err := newHTTPServer()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	watchErr := make(chan error, 1)
	if serveWatch != "" {
		w, err := watcher.New(serveWatch, documentService)
		if err != nil {
			return err
		}
		go func() {
			watchErr <- w.Run(ctx)
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe(ctx)
	}()

	select {
	case err := <-serveErr:
		cancel()
		return err
	case err := <-watchErr:
		if err != nil {
			logger.Error("Watcher stopped: %v", err)
			cancel()
			<-serveErr
			return fmt.Errorf("watch %s: %w", serveWatch, err)
		}
		return <-serveErr
	}
}
