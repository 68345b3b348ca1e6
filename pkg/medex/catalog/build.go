package catalog

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/medex/pkg/medex/inference"
)

// BuildOptions controls knowledge-base construction
type BuildOptions struct {
	// StrictRangeRestriction rejects rules whose conclusion variable does not
	// occur in any premise. The built-in rules all conclude P(x) from constant
	// premises, so strict mode is off by default.
	StrictRangeRestriction bool

	Logger *zap.Logger
}

// ParseRules parses the catalog's rule texts without building a knowledge base.
func (c *Catalog) ParseRules(opts BuildOptions) ([]inference.Rule, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rules := make([]inference.Rule, 0, len(c.Rules))
	for i, text := range c.Rules {
		rule, err := inference.ParseRule(text)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		if !rule.RangeRestricted() {
			if opts.StrictRangeRestriction {
				return nil, fmt.Errorf("rule %d: %w", i+1, &inference.MalformedRuleError{
					Text:   text,
					Offset: len(text),
					Reason: fmt.Sprintf("conclusion variable %s does not occur in any premise", rule.Conclusion.Arg),
				})
			}
			logger.Debug("rule is not range-restricted",
				zap.Int("rule", i+1),
				zap.String("text", text),
			)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// BuildKnowledgeBase derives a fresh knowledge base from the catalog: one fact
// per (illness, symptom) pair in catalog order, followed by the parsed rules.
// Any invalid illness or malformed rule aborts construction before anything is told.
func BuildKnowledgeBase(c *Catalog, opts BuildOptions) (*inference.KnowledgeBase, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	rules, err := c.ParseRules(opts)
	if err != nil {
		return nil, err
	}

	kb := inference.NewKnowledgeBase()
	for _, ill := range c.Illnesses {
		for _, symptom := range ill.Symptoms {
			kb.Tell(inference.Fact(ill.Name, symptom))
		}
	}
	for _, rule := range rules {
		kb.Tell(rule)
	}
	return kb, nil
}
