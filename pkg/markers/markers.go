// Package markers implements PEP 508 environment marker expressions.
//
// A marker is a boolean condition over interpreter and platform
// attributes, e.g.:
//
//	python_version >= "3" and sys_platform == "linux"
//
// Markers gate whether a requirement applies in the current environment.
// Parsing is quote-aware: a ";" or comparison operator inside a quoted
// literal is part of the string, never a structural token.
package markers

import (
	"strings"

	"github.com/habnabit/pip/pkg/errors"
	"github.com/habnabit/pip/pkg/pep440"
)

// Environment supplies values for marker variables. Keys follow PEP 508
// variable names (python_version, sys_platform, os_name, ...).
type Environment map[string]string

// Lookup returns the value for a marker variable, or "" if unset.
func (e Environment) Lookup(name string) string { return e[name] }

// versionVars are variables compared with PEP 440 ordering when both
// operands parse as versions. Everything else compares as strings.
var versionVars = map[string]bool{
	"python_version":         true,
	"python_full_version":    true,
	"implementation_version": true,
}

// Expr is a parsed marker expression.
type Expr interface {
	// Eval evaluates the expression against env.
	Eval(env Environment) (bool, error)
}

// Parse parses a marker expression string into an evaluable Expr.
func Parse(s string) (Expr, error) {
	lex, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: lex}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, errors.New(errors.ErrCodeInvalidMarker, "trailing tokens in marker: %q", s)
	}
	return expr, nil
}

// Evaluate parses and evaluates a marker expression in one step.
func Evaluate(s string, env Environment) (bool, error) {
	expr, err := Parse(s)
	if err != nil {
		return false, err
	}
	return expr.Eval(env)
}

// boolExpr joins two subexpressions with "and" or "or".
type boolExpr struct {
	op    string
	left  Expr
	right Expr
}

func (b *boolExpr) Eval(env Environment) (bool, error) {
	l, err := b.left.Eval(env)
	if err != nil {
		return false, err
	}
	if b.op == "and" && !l {
		return false, nil
	}
	if b.op == "or" && l {
		return true, nil
	}
	return b.right.Eval(env)
}

// value is one side of a comparison: a variable reference or a literal.
type value struct {
	text    string
	literal bool
}

func (v value) resolve(env Environment) string {
	if v.literal {
		return v.text
	}
	return env.Lookup(v.text)
}

// cmpExpr is a single comparison between two values.
type cmpExpr struct {
	op    string
	left  value
	right value
}

func (c *cmpExpr) Eval(env Environment) (bool, error) {
	l := c.left.resolve(env)
	r := c.right.resolve(env)

	switch c.op {
	case "in":
		return strings.Contains(r, l), nil
	case "not in":
		return !strings.Contains(r, l), nil
	case "===":
		return l == r, nil
	}

	if c.versionCompare() {
		if cmp, err := pep440.CompareStrings(l, r); err == nil {
			return applyOp(c.op, cmp), nil
		}
		// Unparseable as versions: fall back to string ordering.
	}
	return applyOp(c.op, strings.Compare(l, r)), nil
}

// versionCompare reports whether either operand references a
// version-valued variable.
func (c *cmpExpr) versionCompare() bool {
	return (!c.left.literal && versionVars[c.left.text]) ||
		(!c.right.literal && versionVars[c.right.text])
}

func applyOp(op string, cmp int) bool {
	switch op {
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	case ">=":
		return cmp >= 0
	case "~=":
		// Rare in markers; approximate with equality of the parsed forms.
		return cmp == 0
	}
	return false
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) eof() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token {
	if p.eof() {
		return token{}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().is(tokIdent, "or") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &boolExpr{op: "or", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().is(tokIdent, "and") {
		p.next()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &boolExpr{op: "and", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	if p.peek().is(tokPunct, "(") {
		p.next()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.peek().is(tokPunct, ")") {
			return nil, errors.New(errors.ErrCodeInvalidMarker, "expected closing parenthesis")
		}
		p.next()
		return expr, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	op := p.next()
	var opText string
	switch {
	case op.kind == tokOp:
		opText = op.text
	case op.is(tokIdent, "in"):
		opText = "in"
	case op.is(tokIdent, "not"):
		if !p.peek().is(tokIdent, "in") {
			return nil, errors.New(errors.ErrCodeInvalidMarker, "expected 'in' after 'not'")
		}
		p.next()
		opText = "not in"
	default:
		return nil, errors.New(errors.ErrCodeInvalidMarker, "expected comparison operator, got %q", op.text)
	}

	right, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &cmpExpr{op: opText, left: left, right: right}, nil
}

func (p *parser) parseValue() (value, error) {
	t := p.next()
	switch t.kind {
	case tokString:
		return value{text: t.text, literal: true}, nil
	case tokIdent:
		return value{text: t.text}, nil
	}
	return value{}, errors.New(errors.ErrCodeInvalidMarker, "expected marker variable or string, got %q", t.text)
}
