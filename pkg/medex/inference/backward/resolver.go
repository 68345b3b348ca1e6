package backward

import (
	"iter"

	"github.com/cognicore/medex/pkg/medex/inference"
)

// Resolver proves goals by depth-first SLD resolution over a knowledge base.
// It never mutates the knowledge base, so one Resolver may serve concurrent
// queries as long as nobody calls Tell on the knowledge base meanwhile.
type Resolver struct {
	kb *inference.KnowledgeBase
}

// New creates a resolver over kb
func New(kb *inference.KnowledgeBase) *Resolver {
	return &Resolver{kb: kb}
}

var _ inference.Prover = (*Resolver)(nil)

// Prove returns the proofs of goal as a lazy sequence. Each range over the
// sequence restarts the search from scratch. Yielded substitutions bind only
// the goal's own variable, and only when the proof fixed it to a constant.
//
// Rules are tried in knowledge-base order and premises left to right. A
// subgoal that is a variant of one of its own ancestors is pruned, which keeps
// the sequence finite even when a rule's conclusion unifies with its premises.
func (r *Resolver) Prove(goal inference.Atom) iter.Seq[inference.Substitution] {
	return func(yield func(inference.Substitution) bool) {
		s := &search{kb: r.kb}
		renamed := inference.Atom{Predicate: goal.Predicate, Arg: goal.Arg.InScope(s.fresh())}

		s.yield = func(sub inference.Substitution) bool {
			answer := inference.Substitution{}
			if goal.Arg.IsVar() {
				if v := sub.Walk(renamed.Arg); !v.IsVar() {
					answer = answer.Bind(goal.Arg, v)
				}
			}
			return yield(answer)
		}

		s.solve([]pending{{atom: renamed}}, inference.Substitution{})
	}
}

// Provable reports whether goal has at least one proof
func (r *Resolver) Provable(goal inference.Atom) bool {
	for range r.Prove(goal) {
		return true
	}
	return false
}

// Solutions materializes up to limit proofs of goal. limit <= 0 means all.
func (r *Resolver) Solutions(goal inference.Atom, limit int) []inference.Substitution {
	var out []inference.Substitution
	for sub := range r.Prove(goal) {
		out = append(out, sub)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// ancestry is the chain of goals that led to a subgoal
type ancestry struct {
	atom   inference.Atom
	parent *ancestry
}

type pending struct {
	atom      inference.Atom
	ancestors *ancestry
}

type search struct {
	kb    *inference.KnowledgeBase
	scope int
	yield func(inference.Substitution) bool
}

func (s *search) fresh() int {
	s.scope++
	return s.scope
}

// solve proves goals in order under sub. It returns false once the consumer
// has stopped the iteration.
func (s *search) solve(goals []pending, sub inference.Substitution) bool {
	if len(goals) == 0 {
		return s.yield(sub)
	}

	g, rest := goals[0], goals[1:]
	current := sub.Apply(g.atom)

	for a := g.ancestors; a != nil; a = a.parent {
		if variant(current, sub.Apply(a.atom)) {
			return true
		}
	}
	chain := &ancestry{atom: g.atom, parent: g.ancestors}

	for _, rule := range s.kb.RulesFor(current.Predicate) {
		renamed := rule.Rename(s.fresh())

		next, ok := inference.UnifyAtoms(renamed.Conclusion, current, sub)
		if !ok {
			continue
		}

		goalsNext := make([]pending, 0, len(renamed.Premises)+len(rest))
		for _, p := range renamed.Premises {
			goalsNext = append(goalsNext, pending{atom: p, ancestors: chain})
		}
		goalsNext = append(goalsNext, rest...)

		if !s.solve(goalsNext, next) {
			return false
		}
	}
	return true
}

// variant reports whether two resolved atoms are equal up to variable renaming.
func variant(a, b inference.Atom) bool {
	if a.Predicate != b.Predicate {
		return false
	}
	if a.Arg.IsVar() || b.Arg.IsVar() {
		return a.Arg.IsVar() && b.Arg.IsVar()
	}
	return a.Arg == b.Arg
}
