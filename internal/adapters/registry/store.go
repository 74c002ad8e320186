package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// Store holds the current index. Reloads build a fresh index and swap it in
// atomically, so readers keep a consistent snapshot.
type Store struct {
	loader  usecase.RegistryLoader
	current atomic.Pointer[Index]
	log     *slog.Logger
}

// NewStore creates a store and performs the initial load
func NewStore(loader usecase.RegistryLoader, log *slog.Logger) (*Store, error) {
	s := &Store{
		loader: loader,
		log:    log.With("component", "RegistryStore"),
	}
	if _, err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStoreFromIndex wraps an already built index
func NewStoreFromIndex(idx *Index) *Store {
	s := &Store{log: slog.Default()}
	s.current.Store(idx)
	return s
}

// Snapshot returns the index in effect right now
func (s *Store) Snapshot() usecase.SelectorIndex {
	return s.current.Load()
}

// Reload loads the registry again and replaces the index. On failure the
// previous index stays in place.
func (s *Store) Reload(ctx context.Context) (usecase.SelectorIndex, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("registry store has no loader")
	}
	entries, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	idx := Build(entries)
	s.Swap(idx)
	s.log.Debug("registry indexed",
		"entries", len(entries),
		"definitions", len(idx.definitions),
		"namespaces", len(idx.namespaces),
		"ambiguous", len(idx.Ambiguous()))
	return idx, nil
}

// Swap installs idx as the current index
func (s *Store) Swap(idx *Index) {
	s.current.Store(idx)
}

var (
	_ usecase.IndexSource      = (*Store)(nil)
	_ usecase.RegistryReloader = (*Store)(nil)
)
