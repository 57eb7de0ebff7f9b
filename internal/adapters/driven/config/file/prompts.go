package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore serves model prompt templates from <dir>/<name>.txt.
// Missing, unreadable, or malformed files fall back to the built-in
// template. The directory is seeded on the first Load, never earlier.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.Mutex
	cache map[string]string
}

// defaultPrompts are used when user files don't exist and seed new files.
var defaultPrompts = map[string]string{
	driven.PromptAnswerWithContext: `Context information:
%s

Based on the above context, please answer the following question:
%s

If the question cannot be answered based on the provided context, please indicate that.`,

	driven.PromptSystem: `You are a helpful assistant that accurately answers questions based only on the provided context.`,
}

// DefaultPrompt returns the built-in template for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// NewPromptStore creates a prompt store over dir.
// An empty dir means <config dir>/prompts.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		base, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the template for name, reading it from disk once per Reload.
func (s *PromptStore) Load(name string) (string, error) {
	def, known := defaultPrompts[name]

	s.seedOnce.Do(func() { s.seedErr = s.seed() })
	if s.seedErr != nil {
		if known {
			return def, nil
		}
		return "", fmt.Errorf("prompt store: %w", s.seedErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.cache[name]; ok {
		return p, nil
	}

	p, err := s.read(name)
	switch {
	case err != nil && !known:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	case err != nil:
		p = def
	case known && placeholders(p) != placeholders(def):
		logger.Warn("Prompt %s.txt needs %d %%s placeholders, using the built-in one", name, placeholders(def))
		p = def
	}
	s.cache[name] = p
	return p, nil
}

// Reload drops cached templates so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// seed creates the directory and writes any missing default files.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	for name, content := range defaultPrompts {
		if err := writeIfMissing(s.path(name), content); err != nil {
			return fmt.Errorf("write default prompt %q: %w", name, err)
		}
	}
	return writeIfMissing(filepath.Join(s.dir, "README.md"), promptReadme)
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

// placeholders counts %s verbs, ignoring escaped percent signs.
func placeholders(tmpl string) int {
	return strings.Count(strings.ReplaceAll(tmpl, "%%", ""), "%s")
}

const promptReadme = `# pdfchat prompts

Templates used when llm.mode is "ollama".

- ` + "`answer_with_context.txt`" + ` - wraps the retrieved paragraphs and the question.
  Keep the two ` + "`%s`" + ` placeholders: context first, question second.
  A file with a different number of placeholders is ignored.
- ` + "`system.txt`" + ` - system prompt sent with every answer.

Edits take effect the next time pdfchat starts.
`
