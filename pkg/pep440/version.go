// Package pep440 implements Python version parsing, ordering, and
// specifier matching as defined by PEP 440.
//
// The aim is practical coverage of the versions that appear on PyPI:
// epochs, release segments, pre/post/dev releases, and local version
// labels. Arbitrary legacy versions are rejected with an error rather
// than sorted heuristically.
package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/habnabit/pip/pkg/errors"
)

// versionRE matches a PEP 440 version after the input has been
// lowercased and stripped of surrounding whitespace and a leading "v".
var versionRE = regexp.MustCompile(`^` +
	`(?:(\d+)!)?` + // 1: epoch
	`(\d+(?:\.\d+)*)` + // 2: release
	`(?:[-._]?(a|b|c|rc|alpha|beta|pre|preview)[-._]?(\d*))?` + // 3,4: pre-release
	`(?:(?:-(\d+))|(?:[-._]?(post|rev|r)[-._]?(\d*)))?` + // 5,6,7: post-release
	`(?:[-._]?(dev)[-._]?(\d*))?` + // 8,9: dev-release
	`(?:\+([a-z0-9]+(?:[-._][a-z0-9]+)*))?` + // 10: local
	`$`)

// Version is a parsed PEP 440 version.
type Version struct {
	Epoch   int
	Release []int
	// Pre-release phase: "" (none), "a", "b", or "rc" after normalization.
	PreKind string
	PreNum  int
	// Post and Dev use -1 to mean "absent".
	Post  int
	Dev   int
	Local string

	original string
}

// Parse parses a version string. The original spelling is retained and
// returned by String; ordering uses the normalized form.
func Parse(s string) (Version, error) {
	orig := s
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "v")

	m := versionRE.FindStringSubmatch(s)
	if m == nil {
		return Version{}, errors.New(errors.ErrCodeInvalidVersion, "invalid version: %q", orig)
	}

	v := Version{Post: -1, Dev: -1, original: orig}

	if m[1] != "" {
		v.Epoch, _ = strconv.Atoi(m[1])
	}
	for _, part := range strings.Split(m[2], ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, errors.New(errors.ErrCodeInvalidVersion, "invalid version: %q", orig)
		}
		v.Release = append(v.Release, n)
	}
	if m[3] != "" {
		v.PreKind = normalizePreKind(m[3])
		v.PreNum = atoiDefault(m[4], 0)
	}
	if m[5] != "" {
		v.Post = atoiDefault(m[5], 0)
	} else if m[6] != "" {
		v.Post = atoiDefault(m[7], 0)
	}
	if m[8] != "" {
		v.Dev = atoiDefault(m[9], 0)
	}
	v.Local = m[10]

	return v, nil
}

// MustParse is like Parse but panics on invalid input.
// Intended for tests and static version literals.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func normalizePreKind(kind string) string {
	switch kind {
	case "alpha":
		return "a"
	case "beta":
		return "b"
	case "c", "pre", "preview":
		return "rc"
	}
	return kind
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, _ := strconv.Atoi(s)
	return n
}

// String returns the original spelling of the version.
func (v Version) String() string { return v.original }

// Compare returns -1, 0, or +1 according to PEP 440 ordering.
// Local version labels are compared lexically as a tiebreaker, which is
// sufficient for equality checks; full local-segment ordering is not
// implemented.
func (v Version) Compare(o Version) int {
	if v.Epoch != o.Epoch {
		return cmpInt(v.Epoch, o.Epoch)
	}
	if c := cmpRelease(v.Release, o.Release); c != 0 {
		return c
	}
	// dev < pre < final/post within the same release
	if c := cmpInt(phaseRank(v), phaseRank(o)); c != 0 {
		return c
	}
	if v.PreKind != "" {
		if c := strings.Compare(v.PreKind, o.PreKind); c != 0 {
			return c
		}
		if c := cmpInt(v.PreNum, o.PreNum); c != 0 {
			return c
		}
	}
	if c := cmpInt(v.Post, o.Post); c != 0 {
		return c
	}
	if v.Dev != o.Dev {
		// An absent dev segment sorts after any present one.
		if v.Dev == -1 {
			return 1
		}
		if o.Dev == -1 {
			return -1
		}
		return cmpInt(v.Dev, o.Dev)
	}
	return strings.Compare(v.Local, o.Local)
}

// Equal reports whether two versions are equal under PEP 440 ordering.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// phaseRank orders the release phases: dev-only < pre < final/post.
func phaseRank(v Version) int {
	switch {
	case v.PreKind == "" && v.Post == -1 && v.Dev != -1:
		return 0
	case v.PreKind != "":
		return 1
	default:
		return 2
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// cmpRelease compares release tuples, padding the shorter with zeros
// (1.0 == 1.0.0).
func cmpRelease(a, b []int) int {
	n := max(len(a), len(b))
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			return cmpInt(av, bv)
		}
	}
	return 0
}

// CompareStrings parses and compares two version strings, returning an
// error if either fails to parse. Used by the marker evaluator for
// python_version comparisons.
func CompareStrings(a, b string) (int, error) {
	av, err := Parse(a)
	if err != nil {
		return 0, err
	}
	bv, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return av.Compare(bv), nil
}

// GoString renders the parsed structure, mainly for test failure output.
func (v Version) GoString() string {
	return fmt.Sprintf("pep440.Version{epoch: %d, release: %v, pre: %s%d, post: %d, dev: %d, local: %q}",
		v.Epoch, v.Release, v.PreKind, v.PreNum, v.Post, v.Dev, v.Local)
}
