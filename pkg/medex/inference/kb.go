package inference

// KnowledgeBase stores rules indexed by conclusion predicate.
// Insertion order is preserved within each bucket and drives resolution order.
// A KnowledgeBase is not safe for concurrent Tell; concurrent readers are fine
// once construction is finished.
type KnowledgeBase struct {
	index      map[string][]Rule // predicate → rules concluding it
	predicates []string
	size       int
}

// NewKnowledgeBase creates an empty knowledge base
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		index: make(map[string][]Rule),
	}
}

// Tell appends rule to the bucket for its conclusion predicate.
// Identical rules are kept as separate entries.
func (kb *KnowledgeBase) Tell(rule Rule) {
	pred := rule.Conclusion.Predicate
	if _, ok := kb.index[pred]; !ok {
		kb.predicates = append(kb.predicates, pred)
	}
	kb.index[pred] = append(kb.index[pred], rule)
	kb.size++
}

// TellText parses text with ParseRule and tells the result
func (kb *KnowledgeBase) TellText(text string) error {
	rule, err := ParseRule(text)
	if err != nil {
		return err
	}
	kb.Tell(rule)
	return nil
}

// RulesFor returns the rules concluding predicate, in insertion order.
// Unknown predicates yield an empty slice. Callers must not modify the result.
func (kb *KnowledgeBase) RulesFor(predicate string) []Rule {
	rules := kb.index[predicate]
	return rules[:len(rules):len(rules)]
}

// Len returns the total number of rules told
func (kb *KnowledgeBase) Len() int { return kb.size }

// Predicates returns conclusion predicates in order of first insertion
func (kb *KnowledgeBase) Predicates() []string {
	out := make([]string, len(kb.predicates))
	copy(out, kb.predicates)
	return out
}
