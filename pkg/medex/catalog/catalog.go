package catalog

import (
	"fmt"
	"strings"

	"github.com/cognicore/medex/pkg/medex/internalerr"
)

// Illness is a named diagnosis defined by the symptoms that must all be present.
type Illness struct {
	Name     string
	Symptoms []string
}

// Requires reports whether every symptom of the illness is in observed
func (i Illness) Requires(observed map[string]struct{}) bool {
	for _, s := range i.Symptoms {
		if _, ok := observed[s]; !ok {
			return false
		}
	}
	return true
}

// Catalog is the static configuration the engine diagnoses against:
// the symptom checklist shown to users, the illnesses in definition order,
// and the implication rules in rule-text form.
type Catalog struct {
	Symptoms  []string
	Illnesses []Illness
	Rules     []string
}

// Lookup returns the illness with the given name
func (c *Catalog) Lookup(name string) (Illness, bool) {
	for _, ill := range c.Illnesses {
		if ill.Name == name {
			return ill, true
		}
	}
	return Illness{}, false
}

// Names returns the illness names in catalog order
func (c *Catalog) Names() []string {
	out := make([]string, len(c.Illnesses))
	for i, ill := range c.Illnesses {
		out[i] = ill.Name
	}
	return out
}

// Clone returns a deep copy so callers can hold an immutable snapshot.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		Symptoms:  append([]string(nil), c.Symptoms...),
		Illnesses: make([]Illness, len(c.Illnesses)),
		Rules:     append([]string(nil), c.Rules...),
	}
	for i, ill := range c.Illnesses {
		out.Illnesses[i] = Illness{
			Name:     ill.Name,
			Symptoms: append([]string(nil), ill.Symptoms...),
		}
	}
	return out
}

// Validate checks the catalog invariants: every illness has a unique
// non-empty name and a non-empty symptom list without duplicates.
func (c *Catalog) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil catalog", internalerr.ErrInvalidCatalog)
	}

	names := make(map[string]struct{}, len(c.Illnesses))
	for i, ill := range c.Illnesses {
		if strings.TrimSpace(ill.Name) == "" {
			return fmt.Errorf("%w: illness %d has no name", internalerr.ErrInvalidCatalog, i)
		}
		if _, dup := names[ill.Name]; dup {
			return fmt.Errorf("%w: duplicate illness %q", internalerr.ErrInvalidCatalog, ill.Name)
		}
		names[ill.Name] = struct{}{}

		if len(ill.Symptoms) == 0 {
			return fmt.Errorf("%w: illness %q has no symptoms", internalerr.ErrInvalidCatalog, ill.Name)
		}
		seen := make(map[string]struct{}, len(ill.Symptoms))
		for _, s := range ill.Symptoms {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%w: illness %q has an empty symptom", internalerr.ErrInvalidCatalog, ill.Name)
			}
			if _, dup := seen[s]; dup {
				return fmt.Errorf("%w: illness %q lists %q twice", internalerr.ErrInvalidCatalog, ill.Name, s)
			}
			seen[s] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(c.Symptoms))
	for _, s := range c.Symptoms {
		if _, dup := seen[s]; dup {
			return fmt.Errorf("%w: symptom %q listed twice", internalerr.ErrInvalidCatalog, s)
		}
		seen[s] = struct{}{}
	}
	return nil
}

// UncollectableSymptoms returns required symptoms that are absent from the
// symptom checklist, grouped by illness in catalog order. Such illnesses can
// only be diagnosed by callers that pass symptom names outside the checklist.
func (c *Catalog) UncollectableSymptoms() map[string][]string {
	known := make(map[string]struct{}, len(c.Symptoms))
	for _, s := range c.Symptoms {
		known[s] = struct{}{}
	}

	out := make(map[string][]string)
	for _, ill := range c.Illnesses {
		for _, s := range ill.Symptoms {
			if _, ok := known[s]; !ok {
				out[ill.Name] = append(out[ill.Name], s)
			}
		}
	}
	return out
}
