package pep440

import (
	"regexp"
	"strings"

	"github.com/habnabit/pip/pkg/errors"
)

// clauseRE splits one specifier clause into operator and version text.
var clauseRE = regexp.MustCompile(`^\s*(===|~=|==|!=|<=|>=|<|>)\s*(\S+)\s*$`)

// Clause is a single version comparison, e.g. ">=1.6.10".
type Clause struct {
	Op      string
	Version string
}

// String renders the clause without surrounding whitespace.
func (c Clause) String() string { return c.Op + c.Version }

// Specifier is a comma-separated conjunction of clauses, per PEP 440.
// The empty specifier matches every version.
type Specifier []Clause

// ParseSpecifier parses a specifier string such as ">=1.6.10,<1.7".
// An empty or all-whitespace string yields an empty specifier.
func ParseSpecifier(s string) (Specifier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var spec Specifier
	for _, part := range strings.Split(s, ",") {
		m := clauseRE.FindStringSubmatch(part)
		if m == nil {
			return nil, errors.New(errors.ErrCodeInvalidSpecifier, "invalid specifier clause: %q", strings.TrimSpace(part))
		}
		spec = append(spec, Clause{Op: m[1], Version: m[2]})
	}
	return spec, nil
}

// String renders the specifier in its canonical comma-joined form.
func (s Specifier) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// Exact returns the version of a single strict "==" clause, or "" if the
// specifier is not an exact pin. Wildcard clauses ("==1.0.*") are not
// exact pins.
func (s Specifier) Exact() string {
	if len(s) != 1 {
		return ""
	}
	c := s[0]
	if c.Op != "==" || strings.HasSuffix(c.Version, ".*") {
		return ""
	}
	return c.Version
}

// Match reports whether v satisfies every clause of the specifier.
func (s Specifier) Match(v Version) (bool, error) {
	for _, c := range s {
		ok, err := c.match(v)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (c Clause) match(v Version) (bool, error) {
	if c.Op == "===" {
		return strings.TrimSpace(c.Version) == v.String(), nil
	}

	if wild, ok := strings.CutSuffix(c.Version, ".*"); ok && (c.Op == "==" || c.Op == "!=") {
		cv, err := Parse(wild)
		if err != nil {
			return false, err
		}
		matched := prefixMatch(cv, v)
		if c.Op == "!=" {
			matched = !matched
		}
		return matched, nil
	}

	cv, err := Parse(c.Version)
	if err != nil {
		return false, err
	}
	cmp := v.Compare(cv)
	switch c.Op {
	case "==":
		return cmp == 0, nil
	case "!=":
		return cmp != 0, nil
	case "<":
		return cmp < 0, nil
	case ">":
		return cmp > 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">=":
		return cmp >= 0, nil
	case "~=":
		// ~=2.2 is >=2.2, ==2.* — the last release digit floats.
		if cmp < 0 {
			return false, nil
		}
		if len(cv.Release) < 2 {
			return false, errors.New(errors.ErrCodeInvalidSpecifier, "~= requires at least two release segments: %q", c.Version)
		}
		prefix := Version{Epoch: cv.Epoch, Release: cv.Release[:len(cv.Release)-1], Post: -1, Dev: -1}
		return prefixMatch(prefix, v), nil
	}
	return false, errors.New(errors.ErrCodeInvalidSpecifier, "unknown operator: %q", c.Op)
}

// prefixMatch reports whether v's release starts with p's release
// (zero-padded), ignoring everything after the release segment.
func prefixMatch(p, v Version) bool {
	if p.Epoch != v.Epoch {
		return false
	}
	for i, n := range p.Release {
		var vn int
		if i < len(v.Release) {
			vn = v.Release[i]
		}
		if n != vn {
			return false
		}
	}
	return true
}
