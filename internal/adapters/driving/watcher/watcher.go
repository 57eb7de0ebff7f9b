// Package watcher ingests PDFs dropped into a directory.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// DefaultSettle is how long a file must stay quiet before it is ingested.
const DefaultSettle = 500 * time.Millisecond

// ErrMissingDocumentService is returned when no document service is provided.
var ErrMissingDocumentService = errors.New("watcher: document service is required")

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle sets the quiet period before a written file is ingested.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.settle = d
		}
	}
}

// WithInitialScan controls whether PDFs already in the directory are
// ingested when Run starts.
func WithInitialScan(enabled bool) Option {
	return func(w *Watcher) {
		w.initialScan = enabled
	}
}

// WithOnIngest registers a callback run after each successful upload.
func WithOnIngest(fn func(*domain.Document)) Option {
	return func(w *Watcher) {
		w.onIngest = fn
	}
}

// Watcher uploads PDFs created or written in a directory and deletes the
// stored document when its file is removed or renamed away.
type Watcher struct {
	dir         string
	docs        driving.DocumentService
	settle      time.Duration
	initialScan bool
	onIngest    func(*domain.Document)

	mu       sync.Mutex
	stopped  bool
	pending  map[string]*time.Timer
	ingested map[string]string // path -> document ID

	// inflight counts settled ingests; Add only happens under mu while !stopped.
	inflight sync.WaitGroup
}

type action int

const (
	actionNone action = iota
	actionIngest
	actionForget
)

// New creates a watcher for dir.
func New(dir string, docs driving.DocumentService, opts ...Option) (*Watcher, error) {
	if docs == nil {
		return nil, ErrMissingDocumentService
	}
	w := &Watcher{
		dir:         dir,
		docs:        docs,
		settle:      DefaultSettle,
		initialScan: true,
		pending:     make(map[string]*time.Timer),
		ingested:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run watches the directory until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", w.dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s for PDFs", w.dir)

	w.mu.Lock()
	w.stopped = false
	w.mu.Unlock()

	if w.initialScan {
		w.scan(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			switch w.handleEvent(event) {
			case actionIngest:
				w.schedule(ctx, event.Name)
			case actionForget:
				w.forget(ctx, event.Name)
			case actionNone:
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleEvent decides what an event means for the file it names.
func (w *Watcher) handleEvent(event fsnotify.Event) action {
	if !isCandidate(event.Name) {
		return actionNone
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return actionForget
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return actionNone
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return actionNone
	}
	return actionIngest
}

func (w *Watcher) scan(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Warn("Scanning %s: %v", w.dir, err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isCandidate(entry.Name()) {
			continue
		}
		w.ingest(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

// schedule ingests path once it has been quiet for the settle period.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		if w.stopped {
			w.mu.Unlock()
			return
		}
		delete(w.pending, path)
		w.inflight.Add(1)
		w.mu.Unlock()

		defer w.inflight.Done()
		w.ingest(ctx, path)
	})
}

// stopPending cancels timers that have not fired and waits for running ingests.
func (w *Watcher) stopPending() {
	w.mu.Lock()
	w.stopped = true
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.inflight.Wait()
}

// forget drops a pending ingest for path and deletes the document stored from it.
func (w *Watcher) forget(ctx context.Context, path string) {
	w.mu.Lock()
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
		delete(w.pending, path)
	}
	id, ok := w.ingested[path]
	delete(w.ingested, path)
	w.mu.Unlock()

	if !ok {
		return
	}
	if err := w.docs.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Removing %s: %v", filepath.Base(path), err)
		return
	}
	logger.Info("Removed %s (%s)", filepath.Base(path), id)
}

// ingest uploads path, replacing the document previously ingested from it.
func (w *Watcher) ingest(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Reading %s: %v", path, err)
		return
	}

	name := filepath.Base(path)
	doc, err := w.docs.Upload(ctx, name, data)
	if err != nil {
		logger.Warn("Skipping %s: %v", name, err)
		return
	}

	w.mu.Lock()
	previous := w.ingested[path]
	w.ingested[path] = doc.ID
	w.mu.Unlock()

	if previous != "" {
		if err := w.docs.Delete(ctx, previous); err != nil && !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Removing previous version of %s: %v", name, err)
		}
	}

	logger.Info("Ingested %s as %s", name, doc.ID)
	if w.onIngest != nil {
		w.onIngest(doc)
	}
}

// Ingested returns the document ID currently stored for path.
func (w *Watcher) Ingested(path string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.ingested[path]
	return id, ok
}

// isCandidate skips hidden files and anything without a .pdf extension.
func isCandidate(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
