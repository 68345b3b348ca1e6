package inference

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TermKind distinguishes constants from variables
type TermKind uint8

const (
	Constant TermKind = iota
	Variable
)

// Term is a constant (symptom or illness name) or a variable placeholder.
// Terms are comparable values: two constants are equal iff their names match,
// two variables are equal iff both name and scope match.
type Term struct {
	Kind  TermKind
	Name  string
	Scope int // 0 for variables as written; >0 once standardized apart
}

// Const returns a constant term
func Const(name string) Term {
	return Term{Kind: Constant, Name: name}
}

// Var returns a variable term in the source scope
func Var(name string) Term {
	return Term{Kind: Variable, Name: name}
}

// IsVar reports whether t is a variable
func (t Term) IsVar() bool { return t.Kind == Variable }

// InScope returns a copy of variable t renamed into scope. Constants are returned unchanged.
func (t Term) InScope(scope int) Term {
	if t.Kind != Variable {
		return t
	}
	return Term{Kind: Variable, Name: t.Name, Scope: scope}
}

// String renders variables bare (with a scope suffix once renamed) and constants
// bare when they read back as constants, quoted otherwise.
func (t Term) String() string {
	if t.Kind == Variable {
		if t.Scope == 0 {
			return t.Name
		}
		return t.Name + "_" + strconv.Itoa(t.Scope)
	}
	if isBareConstant(t.Name) {
		return t.Name
	}
	return quote(t.Name)
}

func (t Term) quoted() string {
	if t.Kind == Variable {
		return t.String()
	}
	return quote(t.Name)
}

// before orders variables by introduction: lower scope first, then name.
func (t Term) before(o Term) bool {
	if t.Scope != o.Scope {
		return t.Scope < o.Scope
	}
	return t.Name < o.Name
}

// Atom is a one-argument predicate application, e.g. CommonCold(Fever)
type Atom struct {
	Predicate string
	Arg       Term
}

// NewAtom builds an atom
func NewAtom(predicate string, arg Term) Atom {
	return Atom{Predicate: predicate, Arg: arg}
}

func (a Atom) String() string {
	return a.Predicate + "(" + a.Arg.String() + ")"
}

// Rule is a definite clause. A fact is a rule with no premises.
type Rule struct {
	Premises   []Atom
	Conclusion Atom
}

// Fact returns a premise-free rule
func Fact(predicate, arg string) Rule {
	return Rule{Conclusion: NewAtom(predicate, Const(arg))}
}

// IsFact reports whether r has no premises
func (r Rule) IsFact() bool { return len(r.Premises) == 0 }

// Variables returns the distinct variables of r in order of first appearance,
// premises first.
func (r Rule) Variables() []Term {
	seen := make(map[Term]struct{})
	var vars []Term
	add := func(t Term) {
		if !t.IsVar() {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		vars = append(vars, t)
	}
	for _, p := range r.Premises {
		add(p.Arg)
	}
	add(r.Conclusion.Arg)
	return vars
}

// RangeRestricted reports whether every variable in the conclusion also occurs in a premise.
func (r Rule) RangeRestricted() bool {
	if !r.Conclusion.Arg.IsVar() {
		return true
	}
	for _, p := range r.Premises {
		if p.Arg == r.Conclusion.Arg {
			return true
		}
	}
	return false
}

// Rename moves every variable of r into scope
func (r Rule) Rename(scope int) Rule {
	out := Rule{Conclusion: Atom{Predicate: r.Conclusion.Predicate, Arg: r.Conclusion.Arg.InScope(scope)}}
	if len(r.Premises) > 0 {
		out.Premises = make([]Atom, len(r.Premises))
		for i, p := range r.Premises {
			out.Premises[i] = Atom{Predicate: p.Predicate, Arg: p.Arg.InScope(scope)}
		}
	}
	return out
}

// Equal reports structural equality
func (r Rule) Equal(o Rule) bool {
	if r.Conclusion != o.Conclusion || len(r.Premises) != len(o.Premises) {
		return false
	}
	for i := range r.Premises {
		if r.Premises[i] != o.Premises[i] {
			return false
		}
	}
	return true
}

// String serializes r in the rule grammar accepted by ParseRule.
// Facts quote their constant argument: Flu('Fever').
func (r Rule) String() string {
	if r.IsFact() {
		return r.Conclusion.Predicate + "(" + r.Conclusion.Arg.quoted() + ")"
	}
	parts := make([]string, len(r.Premises))
	for i, p := range r.Premises {
		parts[i] = p.String()
	}
	return strings.Join(parts, " & ") + " ==> " + r.Conclusion.String()
}

func isBareConstant(name string) bool {
	first, _ := utf8.DecodeRuneInString(name)
	if name == "" || !unicode.IsUpper(first) {
		return false
	}
	for _, c := range name {
		if !isIdentPart(c) {
			return false
		}
	}
	return true
}

func quote(name string) string {
	if strings.ContainsRune(name, '\'') {
		return `"` + name + `"`
	}
	return "'" + name + "'"
}
