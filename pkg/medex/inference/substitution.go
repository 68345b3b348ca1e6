package inference

import (
	"sort"
	"strings"
)

// Substitution maps variables to terms. The zero value is the empty substitution.
// A Substitution is never modified after construction; Bind returns a new one.
type Substitution struct {
	bindings map[Term]Term
}

// Len returns the number of bound variables
func (s Substitution) Len() int { return len(s.bindings) }

// Lookup returns the direct binding of v, if any
func (s Substitution) Lookup(v Term) (Term, bool) {
	t, ok := s.bindings[v]
	return t, ok
}

// Bind returns a copy of s extended with v→t. v must be a variable.
func (s Substitution) Bind(v, t Term) Substitution {
	next := make(map[Term]Term, len(s.bindings)+1)
	for k, val := range s.bindings {
		next[k] = val
	}
	next[v] = t
	return Substitution{bindings: next}
}

// Walk follows variable bindings until it reaches a constant or an unbound variable.
func (s Substitution) Walk(t Term) Term {
	for t.IsVar() {
		next, ok := s.bindings[t]
		if !ok {
			return t
		}
		t = next
	}
	return t
}

// Apply resolves the argument of a under s
func (s Substitution) Apply(a Atom) Atom {
	return Atom{Predicate: a.Predicate, Arg: s.Walk(a.Arg)}
}

// Compose returns the substitution equivalent to applying s and then o.
func (s Substitution) Compose(o Substitution) Substitution {
	next := make(map[Term]Term, len(s.bindings)+len(o.bindings))
	for k, v := range s.bindings {
		next[k] = o.Walk(v)
	}
	for k, v := range o.bindings {
		if _, ok := next[k]; !ok {
			next[k] = v
		}
	}
	return Substitution{bindings: next}
}

// String renders bindings sorted by variable, e.g. {x/Fever, y_2/x}
func (s Substitution) String() string {
	keys := make([]Term, 0, len(s.bindings))
	for k := range s.bindings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].before(keys[j]) })

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String() + "/" + s.bindings[k].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
