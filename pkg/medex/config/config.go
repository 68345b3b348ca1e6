package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/medex/pkg/medex/catalog"
	"github.com/cognicore/medex/pkg/medex/inference"
	"github.com/cognicore/medex/pkg/medex/internalerr"
)

// CatalogFile is the YAML form of a catalog.
// Illnesses are a list, not a map, so definition order survives a round trip.
type CatalogFile struct {
	Symptoms  []string      `yaml:"symptoms"`
	Illnesses []IllnessFile `yaml:"illnesses"`
	Rules     []string      `yaml:"rules,omitempty"`
}

// IllnessFile is one illness entry of a CatalogFile
type IllnessFile struct {
	Name     string   `yaml:"name"`
	Symptoms []string `yaml:"symptoms"`
}

// LoadCatalog loads a catalog from a YAML file
func LoadCatalog(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes YAML catalog data
func ParseCatalog(data []byte) (*catalog.Catalog, error) {
	var f CatalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	c := &catalog.Catalog{
		Symptoms:  f.Symptoms,
		Illnesses: make([]catalog.Illness, len(f.Illnesses)),
		Rules:     f.Rules,
	}
	for i, ill := range f.Illnesses {
		c.Illnesses[i] = catalog.Illness{Name: ill.Name, Symptoms: ill.Symptoms}
	}
	return c, nil
}

// MarshalCatalog encodes c as YAML
func MarshalCatalog(c *catalog.Catalog) ([]byte, error) {
	f := CatalogFile{
		Symptoms:  c.Symptoms,
		Illnesses: make([]IllnessFile, len(c.Illnesses)),
		Rules:     c.Rules,
	}
	for i, ill := range c.Illnesses {
		f.Illnesses[i] = IllnessFile{Name: ill.Name, Symptoms: ill.Symptoms}
	}
	return yaml.Marshal(f)
}

// WriteCatalog writes c to path as YAML
func WriteCatalog(path string, c *catalog.Catalog) error {
	data, err := MarshalCatalog(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadRules loads rule texts from a line-oriented rules file
// Format:
//
//	# comments
//	CommonCold(Fever) & CommonCold(Cough) ==> CommonCold(x)
//
// Every line is parsed up front so a malformed rule fails the load.
func LoadRules(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if _, err := inference.ParseRules(string(data)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var rules []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}
	return rules, nil
}

// WriteRules writes rule texts to path in the LoadRules format, one per line
// under a comment header. Rules are parsed first so a bad rule is never written.
func WriteRules(path, header string, rules []string) error {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(header), "\n") {
		if line != "" {
			b.WriteString("# " + line + "\n")
		}
	}
	for i, r := range rules {
		if _, err := inference.ParseRule(r); err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
		b.WriteString(r + "\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}
