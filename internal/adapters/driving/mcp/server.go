package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// EndpointPath is where the streamable HTTP transport is mounted.
const EndpointPath = "/mcp"

const shutdownTimeout = 5 * time.Second

// Server exposes document search and question answering over MCP.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer validates ports and registers the tools and resources.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil {
		return nil, ErrMissingSearchService
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(&mcp.Implementation{Name: "pdfchat", Version: Version}, nil),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("MCP server on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP routes: the MCP endpoint and a health check.
func (s *Server) Handler() http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Handle(EndpointPath, streamable)
	return r
}

// RunHTTP serves on addr until ctx is cancelled, then shuts down.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("MCP server listening on %s%s", addr, EndpointPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
