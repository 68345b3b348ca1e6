package store

import (
	"context"

	"github.com/cognicore/medex/pkg/medex/catalog"
)

// CatalogStore persists diagnostic catalogs between runs.
// A store holds at most one catalog; SaveCatalog replaces it wholesale.
type CatalogStore interface {
	Close() error

	// SaveCatalog validates c and replaces the stored catalog atomically
	SaveCatalog(ctx context.Context, c *catalog.Catalog) error

	// LoadCatalog returns the stored catalog with symptom, illness and rule
	// order preserved, or internalerr.ErrNotFound if nothing was saved yet
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)

	// GetIllness returns a single illness by name
	GetIllness(ctx context.Context, name string) (catalog.Illness, bool, error)
}
