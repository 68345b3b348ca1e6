package inference

import (
	"bufio"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/medex/pkg/medex/internalerr"
)

// MalformedRuleError reports rule text that does not match the rule grammar.
type MalformedRuleError struct {
	Text   string
	Offset int
	Reason string
}

func (e *MalformedRuleError) Error() string {
	return fmt.Sprintf("malformed rule %q at offset %d: %s", e.Text, e.Offset, e.Reason)
}

// Unwrap lets errors.Is match internalerr.ErrMalformedRule
func (e *MalformedRuleError) Unwrap() error { return internalerr.ErrMalformedRule }

// ParseRule parses a single rule or fact.
// Grammar:
//
//	Pred(Arg) & Pred(Arg) ... ==> Pred(Arg)
//	Pred(Arg)
//
// Arg is an identifier or a quoted constant. Identifiers starting with a
// lower-case letter are variables; everything else is a constant.
func ParseRule(text string) (Rule, error) {
	p := &parser{src: text}

	first, err := p.atom()
	if err != nil {
		return Rule{}, err
	}
	atoms := []Atom{first}

	for {
		p.skipSpace()
		if !p.consume("&") {
			break
		}
		a, err := p.atom()
		if err != nil {
			return Rule{}, err
		}
		atoms = append(atoms, a)
	}

	p.skipSpace()
	if p.consume("==>") {
		conclusion, err := p.atom()
		if err != nil {
			return Rule{}, err
		}
		if err := p.end(); err != nil {
			return Rule{}, err
		}
		return Rule{Premises: atoms, Conclusion: conclusion}, nil
	}

	if err := p.end(); err != nil {
		return Rule{}, err
	}
	if len(atoms) > 1 {
		return Rule{}, p.fail("conjunction without '==>' conclusion")
	}
	return Rule{Conclusion: first}, nil
}

// MustParseRule is like ParseRule but panics on error. Intended for static tables.
func MustParseRule(text string) Rule {
	r, err := ParseRule(text)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseRules parses a rules file, one rule per line.
// Format:
//
//	# comments
//	CommonCold(Fever) & CommonCold(Cough) ==> CommonCold(x)
//	Allergies('RunnyNose')
func ParseRules(text string) ([]Rule, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNum := 0
	var rules []Rule

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rule, err := ParseRule(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		rules = append(rules, rule)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) fail(reason string) *MalformedRuleError {
	return &MalformedRuleError{Text: p.src, Offset: p.pos, Reason: reason}
}

func (p *parser) peek() (rune, int) {
	if p.pos >= len(p.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(p.src[p.pos:])
}

func (p *parser) skipSpace() {
	for {
		r, n := p.peek()
		if n == 0 || !unicode.IsSpace(r) {
			return
		}
		p.pos += n
	}
}

func (p *parser) consume(tok string) bool {
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *parser) expect(tok string) error {
	p.skipSpace()
	if !p.consume(tok) {
		return p.fail(fmt.Sprintf("expected %q", tok))
	}
	return nil
}

func (p *parser) end() error {
	p.skipSpace()
	if p.pos < len(p.src) {
		return p.fail("unexpected trailing input")
	}
	return nil
}

func (p *parser) ident() (string, bool) {
	p.skipSpace()
	start := p.pos
	r, n := p.peek()
	if n == 0 || !isIdentStart(r) {
		return "", false
	}
	p.pos += n
	for {
		r, n = p.peek()
		if n == 0 || !isIdentPart(r) {
			break
		}
		p.pos += n
	}
	return p.src[start:p.pos], true
}

func (p *parser) atom() (Atom, error) {
	pred, ok := p.ident()
	if !ok {
		return Atom{}, p.fail("expected predicate name")
	}
	if err := p.expect("("); err != nil {
		return Atom{}, err
	}
	arg, err := p.term()
	if err != nil {
		return Atom{}, err
	}
	if err := p.expect(")"); err != nil {
		return Atom{}, err
	}
	return Atom{Predicate: pred, Arg: arg}, nil
}

func (p *parser) term() (Term, error) {
	p.skipSpace()
	r, n := p.peek()
	if n == 0 {
		return Term{}, p.fail("expected argument")
	}

	if r == '\'' || r == '"' {
		start := p.pos
		p.pos += n
		end := strings.IndexRune(p.src[p.pos:], r)
		if end < 0 {
			p.pos = start
			return Term{}, p.fail("unterminated quoted constant")
		}
		name := p.src[p.pos : p.pos+end]
		p.pos += end + n
		if strings.TrimSpace(name) == "" {
			p.pos = start
			return Term{}, p.fail("empty quoted constant")
		}
		return Const(name), nil
	}

	name, ok := p.ident()
	if !ok {
		return Term{}, p.fail("expected argument")
	}
	if unicode.IsLower(r) {
		return Var(name), nil
	}
	return Const(name), nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
