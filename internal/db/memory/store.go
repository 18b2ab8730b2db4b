// Package memory is an in-process store that evaluates filters as CEL programs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/kailas-cloud/insurefilter/internal/db"
	"github.com/kailas-cloud/insurefilter/internal/domain/search/filter"
)

const (
	costLimit         = 1_000_000
	maxCachedPrograms = 256
)

// Schema declares the fields a store can filter on.
type Schema struct {
	Tags     []string
	Numerics []string
}

// Document is a stored entry. Payload is returned untouched by Search.
type Document struct {
	Key      string
	Tags     map[string]string
	Numerics map[string]float64
	Payload  any
}

// Store keeps documents in memory and filters them with compiled CEL programs.
// Safe for concurrent use.
type Store struct {
	env    *cel.Env
	schema Schema

	mu       sync.RWMutex
	docs     map[string]Document
	programs map[string]cel.Program
}

// NewStore declares every schema field as a CEL variable.
func NewStore(schema Schema) (*Store, error) {
	opts := make([]cel.EnvOption, 0, len(schema.Tags)+len(schema.Numerics))
	for _, f := range schema.Tags {
		opts = append(opts, cel.Variable(f, cel.StringType))
	}
	for _, f := range schema.Numerics {
		opts = append(opts, cel.Variable(f, cel.DoubleType))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}
	return &Store{
		env:      env,
		schema:   schema,
		docs:     make(map[string]Document),
		programs: make(map[string]cel.Program),
	}, nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// Put inserts or replaces documents by key.
func (s *Store) Put(docs ...Document) error {
	for _, d := range docs {
		if d.Key == "" {
			return fmt.Errorf("document key is required")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		s.docs[d.Key] = d
	}
	return nil
}

// Get returns a document by key.
func (s *Store) Get(key string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[key]
	if !ok {
		return Document{}, db.ErrKeyNotFound
	}
	return d, nil
}

// Delete removes a document.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[key]; !ok {
		return db.ErrKeyNotFound
	}
	delete(s.docs, key)
	return nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Search returns documents matching expr in key order, at most limit (0 = unlimited).
func (s *Store) Search(ctx context.Context, expr filter.Expression, limit int) ([]Document, error) {
	prg, err := s.program(RenderCEL(expr))
	if err != nil {
		return nil, &db.Error{Op: db.OpEval, Err: err}
	}

	s.mu.RLock()
	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	docs := make([]Document, 0, len(keys))
	sort.Strings(keys)
	for _, k := range keys {
		docs = append(docs, s.docs[k])
	}
	s.mu.RUnlock()

	out := make([]Document, 0)
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		val, _, err := prg.Eval(s.activation(d))
		if err != nil {
			return nil, &db.Error{Op: db.OpEval, Err: fmt.Errorf("document %s: %w", d.Key, err)}
		}
		if matched, ok := val.Value().(bool); ok && matched {
			out = append(out, d)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// Compile type-checks a CEL source against the schema.
func (s *Store) Compile(src string) error {
	_, err := s.program(src)
	return err
}

func (s *Store) program(src string) (cel.Program, error) {
	s.mu.RLock()
	prg, ok := s.programs[src]
	s.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, issues := s.env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", src, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression %q must be boolean, got %s", src, ast.OutputType())
	}
	prg, err := s.env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", src, err)
	}

	s.mu.Lock()
	if len(s.programs) >= maxCachedPrograms {
		s.programs = make(map[string]cel.Program)
	}
	s.programs[src] = prg
	s.mu.Unlock()
	return prg, nil
}

// activation binds every schema field; missing tags are "" and missing numerics 0.
func (s *Store) activation(d Document) map[string]any {
	vars := make(map[string]any, len(s.schema.Tags)+len(s.schema.Numerics))
	for _, f := range s.schema.Tags {
		vars[f] = d.Tags[f]
	}
	for _, f := range s.schema.Numerics {
		vars[f] = d.Numerics[f]
	}
	return vars
}
