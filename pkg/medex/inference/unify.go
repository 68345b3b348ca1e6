package inference

// Unify computes the most general unifier of a and b extending s.
// It returns false when the terms cannot be made equal. Terms carry no compound
// structure, so no occurs check is needed.
func Unify(a, b Term, s Substitution) (Substitution, bool) {
	a = s.Walk(a)
	b = s.Walk(b)

	switch {
	case a == b:
		return s, true
	case a.IsVar() && b.IsVar():
		// Bind the later-introduced variable to the earlier one.
		if b.before(a) {
			return s.Bind(a, b), true
		}
		return s.Bind(b, a), true
	case a.IsVar():
		return s.Bind(a, b), true
	case b.IsVar():
		return s.Bind(b, a), true
	default:
		return Substitution{}, false
	}
}

// UnifyAtoms unifies two atoms: predicates must match exactly, arguments via Unify.
func UnifyAtoms(a, b Atom, s Substitution) (Substitution, bool) {
	if a.Predicate != b.Predicate {
		return Substitution{}, false
	}
	return Unify(a.Arg, b.Arg, s)
}
