package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// StageBuilder creates one pipeline stage from the chunking settings.
type StageBuilder func(settings domain.ChunkingSettings) (driven.PostProcessor, error)

// Stages is a named set of pipeline stages. Names keep registration order.
type Stages struct {
	builders map[string]StageBuilder
	order    []string
}

// NewStages creates an empty stage set.
func NewStages() *Stages {
	return &Stages{builders: make(map[string]StageBuilder)}
}

// Add registers a stage builder. Names must be unique.
func (s *Stages) Add(name string, builder StageBuilder) error {
	if name == "" || builder == nil {
		return fmt.Errorf("stage needs a name and a builder")
	}
	if _, exists := s.builders[name]; exists {
		return fmt.Errorf("stage %q already registered", name)
	}
	s.builders[name] = builder
	s.order = append(s.order, name)
	return nil
}

// Has reports whether a stage is registered under name.
func (s *Stages) Has(name string) bool {
	_, ok := s.builders[name]
	return ok
}

// Names returns the registered stage names in registration order.
func (s *Stages) Names() []string {
	return append([]string(nil), s.order...)
}

// Pipeline builds a pipeline running the named stages in the given order.
func (s *Stages) Pipeline(settings domain.ChunkingSettings, names ...string) (*Pipeline, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("pipeline needs at least one stage")
	}

	p := NewPipeline()
	for _, name := range names {
		builder, ok := s.builders[name]
		if !ok {
			return nil, fmt.Errorf("unknown stage: %s", name)
		}
		proc, err := builder(settings)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", name, err)
		}
		p.Add(proc)
	}
	return p, nil
}
