package markers

import (
	"strings"
	"unicode"

	"github.com/habnabit/pip/pkg/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokOp
	tokPunct
)

type token struct {
	kind tokenKind
	text string
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

// tokenize splits a marker expression into tokens. String literals may
// use single or double quotes; the other quote kind (and any ";") is
// ordinary content inside them.
func tokenize(s string) ([]token, error) {
	var toks []token
	runes := []rune(s)
	i := 0

	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case r == '\'' || r == '"':
			quote := r
			j := i + 1
			for j < len(runes) && runes[j] != quote {
				j++
			}
			if j >= len(runes) {
				return nil, errors.New(errors.ErrCodeInvalidMarker, "unterminated string in marker: %q", s)
			}
			toks = append(toks, token{kind: tokString, text: string(runes[i+1 : j])})
			i = j + 1

		case r == '(' || r == ')':
			toks = append(toks, token{kind: tokPunct, text: string(r)})
			i++

		case strings.ContainsRune("<>=!~", r):
			j := i
			for j < len(runes) && strings.ContainsRune("<>=!~", runes[j]) {
				j++
			}
			op := string(runes[i:j])
			switch op {
			case "==", "!=", "<", ">", "<=", ">=", "~=", "===":
			default:
				return nil, errors.New(errors.ErrCodeInvalidMarker, "invalid operator %q in marker: %q", op, s)
			}
			toks = append(toks, token{kind: tokOp, text: op})
			i = j

		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_' || runes[j] == '.') {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[i:j])})
			i = j

		default:
			return nil, errors.New(errors.ErrCodeInvalidMarker, "unexpected character %q in marker: %q", string(r), s)
		}
	}

	return toks, nil
}
