package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/medex/pkg/medex/catalog"
	"github.com/cognicore/medex/pkg/medex/internalerr"
)

// Store is an in-memory implementation of store.CatalogStore for tests.
type Store struct {
	mu  sync.RWMutex
	cat *catalog.Catalog
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{}
}

// Close implements store.CatalogStore.
func (s *Store) Close() error { return nil }

// SaveCatalog stores a private copy of c.
func (s *Store) SaveCatalog(ctx context.Context, c *catalog.Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cat = c.Clone()
	return nil
}

// LoadCatalog returns a copy of the stored catalog.
func (s *Store) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cat == nil {
		return nil, internalerr.ErrNotFound
	}
	return s.cat.Clone(), nil
}

// GetIllness returns an illness by name.
func (s *Store) GetIllness(ctx context.Context, name string) (catalog.Illness, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cat == nil {
		return catalog.Illness{}, false, nil
	}
	ill, ok := s.cat.Lookup(name)
	if !ok {
		return catalog.Illness{}, false, nil
	}
	return catalog.Illness{
		Name:     ill.Name,
		Symptoms: append([]string(nil), ill.Symptoms...),
	}, true, nil
}
