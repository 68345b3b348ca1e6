package lexicon

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/medex/pkg/medex/catalog"
	"github.com/cognicore/medex/pkg/medex/internalerr"
)

// Lexicon maps loosely typed symptom names to the catalog's canonical names:
//   - spelling variants: "runny nose", "runny_nose", "RUNNY-NOSE" -> RunnyNose
//   - synonyms from a YAML file: "sniffles" -> RunnyNose
//
// Diagnosis itself matches names exactly; a Lexicon is applied to user input
// before it reaches the engine.
type Lexicon struct {
	// canonical -> registered variants, canonical first
	synonyms map[string][]string

	// folded variant -> canonical
	reverseIndex map[string]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		synonyms:     make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// FromCatalog registers every checklist and illness symptom of c under its
// own name, so spelling variants resolve without a synonyms file.
func FromCatalog(c *catalog.Catalog) *Lexicon {
	lex := New()
	for _, s := range c.Symptoms {
		lex.AddSynonymGroup(s, nil)
	}
	for _, ill := range c.Illnesses {
		for _, s := range ill.Symptoms {
			lex.AddSynonymGroup(s, nil)
		}
	}
	return lex
}

// LoadFromYAML adds synonym groups from a YAML file.
//
// Expected format:
//
//	synonyms:
//	  - canonical: RunnyNose
//	    variants: [sniffles, stuffy nose]
//	  - canonical: Fever
//	    variants: [pyrexia, high temperature]
func (l *Lexicon) LoadFromYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var config struct {
		Synonyms []struct {
			Canonical string   `yaml:"canonical"`
			Variants  []string `yaml:"variants"`
		} `yaml:"synonyms"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	for i, entry := range config.Synonyms {
		if strings.TrimSpace(entry.Canonical) == "" {
			return fmt.Errorf("%w: %s: synonym group %d has no canonical name", internalerr.ErrInvalidConfig, path, i+1)
		}
		l.AddSynonymGroup(entry.Canonical, entry.Variants)
	}
	return nil
}

// AddSynonymGroup registers variants for canonical. Canonical keeps its case;
// variants are matched case- and separator-insensitively. Re-adding a
// canonical merges the new variants into its group.
func (l *Lexicon) AddSynonymGroup(canonical string, variants []string) {
	group := l.synonyms[canonical]
	if group == nil {
		group = []string{canonical}
		l.reverseIndex[fold(canonical)] = canonical
	}

	for _, v := range variants {
		key := fold(v)
		if key == "" {
			continue
		}
		if _, taken := l.reverseIndex[key]; taken {
			continue
		}
		l.reverseIndex[key] = canonical
		group = append(group, v)
	}
	l.synonyms[canonical] = group
}

// Normalize returns the canonical name for name.
// Unknown names come back trimmed but otherwise unchanged, with ok false.
func (l *Lexicon) Normalize(name string) (canonical string, ok bool) {
	if c, found := l.reverseIndex[fold(name)]; found {
		return c, true
	}
	return strings.TrimSpace(name), false
}

// NormalizeAll normalizes every name, dropping duplicates after normalization.
func (l *Lexicon) NormalizeAll(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		c, _ := l.Normalize(n)
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Variants returns every registered spelling of name's group, canonical first.
func (l *Lexicon) Variants(name string) []string {
	c, ok := l.Normalize(name)
	if !ok {
		return []string{c}
	}
	return append([]string(nil), l.synonyms[c]...)
}

// Len is the number of canonical names.
func (l *Lexicon) Len() int {
	return len(l.synonyms)
}

// fold lower-cases and drops spaces, underscores and hyphens:
// "Runny nose", "runny_nose" and "RunnyNose" all fold to "runnynose".
func fold(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
