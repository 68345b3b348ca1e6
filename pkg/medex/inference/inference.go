package inference

import "iter"

// Prover answers goal queries against a knowledge base.
// This interface allows swapping resolution strategies (depth-first backward chaining,
// a tabled resolver, a bridge to an external Prolog, etc.)
type Prover interface {
	// Prove returns the lazy sequence of substitutions under which goal holds.
	// An empty sequence means no proof was found; it is never an error.
	Prove(goal Atom) iter.Seq[Substitution]

	// Provable reports whether at least one proof of goal exists.
	Provable(goal Atom) bool
}
