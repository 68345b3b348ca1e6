package config

import (
	"fmt"

	"github.com/cognicore/medex/pkg/medex/catalog"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	CatalogPath string
	RulesPath   string
}

// Components holds all loaded configuration components
type Components struct {
	Catalog *catalog.Catalog
}

// Load reads all configuration files and returns initialized components.
// Without a catalog file the built-in catalog is used; a rules file, when
// given, replaces the catalog's rules.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.CatalogPath != "" {
		cat, err := LoadCatalog(l.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		comp.Catalog = cat
	} else {
		comp.Catalog = catalog.Default()
	}

	if l.RulesPath != "" {
		rules, err := LoadRules(l.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		comp.Catalog.Rules = rules
	}

	if err := comp.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	return comp, nil
}
