// Package httpapi exposes upload, search and chat over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// ModelClient is the part of the model service the API reports on.
type ModelClient interface {
	ModelName() string
	Ping(ctx context.Context) error
	ListModels(ctx context.Context) ([]driven.ModelInfo, error)
}

// Ports holds the services the API calls.
type Ports struct {
	Document driving.DocumentService
	Search   driving.SearchService
	Chat     driving.ChatService

	// Model is optional. Nil means answers are extracted only.
	Model ModelClient
}

// Config configures the HTTP server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// MaxUploadBytes caps a PDF upload.
	MaxUploadBytes int64

	// ChatRatePerSecond and ChatBurst configure the /chat token bucket.
	// A zero rate disables limiting.
	ChatRatePerSecond float64
	ChatBurst         int

	// LLMMode is reported by /llm/ping.
	LLMMode domain.LLMMode
}

// Server serves the HTTP API.
type Server struct {
	ports   Ports
	cfg     Config
	limiter *rate.Limiter
	router  chi.Router
}

// NewServer creates a server. Document, Search and Chat ports are required.
func NewServer(ports Ports, cfg Config) (*Server, error) {
	if ports.Document == nil || ports.Search == nil || ports.Chat == nil {
		return nil, errors.New("document, search and chat services are required")
	}
	if cfg.Addr == "" {
		cfg.Addr = domain.DefaultServerAddr
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = domain.DefaultMaxUploadBytes
	}

	s := &Server{ports: ports, cfg: cfg}
	if cfg.ChatRatePerSecond > 0 {
		burst := max(cfg.ChatBurst, 1)
		s.limiter = rate.NewLimiter(rate.Limit(cfg.ChatRatePerSecond), burst)
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/documents", func(r chi.Router) {
		r.Post("/", s.handleUpload)
		r.Get("/", s.handleListDocuments)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDocument)
			r.Delete("/", s.handleDeleteDocument)
			r.Get("/content", s.handleDocumentContent)
			r.Get("/chunks", s.handleDocumentChunks)
		})
	})

	r.Get("/search", s.handleSearch)

	r.Route("/chat", func(r chi.Router) {
		r.With(s.rateLimit).Post("/", s.handleChat)
		r.Get("/history", s.handleHistory)
		r.Delete("/history", s.handleClearHistory)
	})

	r.Route("/llm", func(r chi.Router) {
		r.Get("/ping", s.handleLLMPing)
		r.Get("/models", s.handleLLMModels)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "pdfchat"})
}

// rateLimit rejects chat requests beyond the token bucket.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, domain.ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request in verbose mode.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond))
	})
}
