// Package template holds the canonical step sequences per scope category.
//
// A Registry is immutable after Load and safe for concurrent use. Callers
// receive copies of the sequences, never the backing slices.
package template

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
)

//go:embed templates.yaml
var defaultDocument []byte

type document struct {
	Sequences map[domain.Scope][]domain.Step `yaml:"sequences"`
}

// Registry maps a scope category to its ordered step list.
type Registry struct {
	sequences map[domain.Scope][]domain.Step
}

// Load parses a registry document and validates every sequence.
func Load(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse template document: %w", err)
	}

	seqs := make(map[domain.Scope][]domain.Step, len(doc.Sequences))
	for scope, steps := range doc.Sequences {
		if !scope.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownScope, scope)
		}
		if len(steps) == 0 {
			return nil, fmt.Errorf("sequence %s has no steps", scope)
		}
		for i, s := range steps {
			if strings.TrimSpace(s.Title) == "" {
				return nil, fmt.Errorf("sequence %s step %d: title required", scope, i+1)
			}
			if !s.Phase.Valid() {
				return nil, fmt.Errorf("sequence %s step %d: invalid phase %q", scope, i+1, s.Phase)
			}
			if !s.Surface.Valid() {
				return nil, fmt.Errorf("sequence %s step %d: invalid surface %q", scope, i+1, s.Surface)
			}
		}
		seqs[scope] = append([]domain.Step(nil), steps...)
	}

	for _, scope := range domain.Scopes {
		if _, ok := seqs[scope]; !ok {
			return nil, fmt.Errorf("missing sequence for scope %s", scope)
		}
	}

	return &Registry{sequences: seqs}, nil
}

// Default loads the embedded canonical registry.
func Default() (*Registry, error) {
	return Load(defaultDocument)
}

// MustDefault is like Default but panics on error.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// Steps returns a copy of the sequence for scope.
func (r *Registry) Steps(scope domain.Scope) ([]domain.Step, error) {
	steps, ok := r.sequences[scope]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownScope, scope)
	}
	out := make([]domain.Step, len(steps))
	copy(out, steps)
	return out, nil
}
