package options

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/emmet/logger"
	"github.com/teranos/emmet/syntax"
)

// Snapshot is the process-wide override state built from one extensions
// directory. It is never modified after publication.
type Snapshot struct {
	Generation uint64
	Path       string
	Syntaxes   *syntax.Table
	// Registry is nil when no extensions directory is loaded
	Registry Registry
	// Profiles maps syntax -> translated profile layer
	Profiles map[string]map[string]any
	// Variables are the global variables of the snippets file
	Variables map[string]string
	// SyntaxVariables maps syntax -> variables of its snippets section
	SyntaxVariables map[string]map[string]string
}

func emptySnapshot(generation uint64) *Snapshot {
	return &Snapshot{
		Generation: generation,
		Syntaxes:   syntax.Default(),
	}
}

// Store publishes Snapshots. Reads are lock-free; each reload builds a new
// snapshot and swaps it in whole.
type Store struct {
	current  atomic.Pointer[Snapshot]
	started  atomic.Uint64 // generation handed to the most recently started load
	inFlight sync.WaitGroup
	logger   *zap.SugaredLogger
}

// NewStore creates a store holding the built-in defaults
func NewStore() *Store {
	s := &Store{logger: logger.ComponentLogger("options.store")}
	s.current.Store(emptySnapshot(0))
	return s
}

// Current returns the published snapshot
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// UpdateAsync reloads from path in the background. An empty path clears
// every override. The channel yields one value when the load has finished
// (committed, or discarded because a later-started load already
// committed) and is then closed. Loads never fail, so the value is nil.
func (s *Store) UpdateAsync(path string) <-chan error {
	generation := s.started.Add(1)
	done := make(chan error, 1)

	s.inFlight.Add(1)
	go func() {
		defer s.inFlight.Done()
		defer close(done)

		start := time.Now()
		snap := s.build(generation, path)
		committed := s.commit(snap)

		s.logger.Infow("Extensions reload finished",
			logger.FieldPath, path,
			logger.FieldGeneration, generation,
			"committed", committed,
			logger.FieldDurationMS, time.Since(start).Milliseconds())
		done <- nil
	}()

	return done
}

// Update reloads from path and waits for the result. Cancelling ctx stops
// the wait only: the load still runs to completion and may commit.
func (s *Store) Update(ctx context.Context, path string) error {
	select {
	case err := <-s.UpdateAsync(path):
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until every started load has finished
func (s *Store) Wait() {
	s.inFlight.Wait()
}

// commit publishes snap unless a load that started later already did
func (s *Store) commit(snap *Snapshot) bool {
	for {
		cur := s.current.Load()
		if cur.Generation > snap.Generation {
			return false
		}
		if s.current.CompareAndSwap(cur, snap) {
			return true
		}
	}
}

func (s *Store) build(generation uint64, path string) *Snapshot {
	if path == "" {
		return emptySnapshot(generation)
	}

	// The load is detached from any caller: abandoning interest must not
	// leave a half-built snapshot behind
	src, err := Load(context.Background(), path)
	if err != nil {
		s.logger.Warnw("Extensions load aborted",
			logger.FieldPath, path,
			logger.FieldError, err)
		snap := emptySnapshot(generation)
		snap.Path = path
		snap.Registry = Registry{}
		return snap
	}
	return NewSnapshot(generation, src)
}

// NewSnapshot builds a snapshot from loaded source content
func NewSnapshot(generation uint64, src *Source) *Snapshot {
	snap := &Snapshot{
		Generation:      generation,
		Path:            src.Dir,
		Syntaxes:        syntax.Default().With(src.Extends()),
		Registry:        Registry{},
		Profiles:        make(map[string]map[string]any, len(src.Profiles)),
		Variables:       src.Variables,
		SyntaxVariables: make(map[string]map[string]string, len(src.Syntaxes)),
	}

	for id, syn := range src.Syntaxes {
		if syn.Snippets != nil {
			snap.Registry[id] = syn.Snippets
		}
		if syn.Variables != nil {
			snap.SyntaxVariables[id] = syn.Variables
		}
	}
	for id, value := range src.Profiles {
		if layer := TranslateProfile(value); layer != nil {
			snap.Profiles[id] = layer
		}
	}
	return snap
}
