package req

import (
	"regexp"
	"strings"

	"github.com/habnabit/pip/pkg/errors"
	"github.com/habnabit/pip/pkg/pep440"
)

// canonicalRE collapses runs of the separator characters that PEP 503
// treats as equivalent.
var canonicalRE = regexp.MustCompile(`[-_.]+`)

// CanonicalName normalizes a project name for comparison: lower case,
// runs of "-", "_", "." collapsed to a single "-".
func CanonicalName(name string) string {
	return canonicalRE.ReplaceAllString(strings.ToLower(name), "-")
}

// nameSpecRE splits a name-based requirement into project name,
// optional bracketed extras, and the specifier remainder.
var nameSpecRE = regexp.MustCompile(
	`^\s*([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)\s*(?:\[([^\]]*)\])?\s*(.*?)\s*$`)

// parseNameSpec parses the "name[extras]specifier" grammar shared by
// plain requirement lines and egg fragment values.
func parseNameSpec(s string) (name string, extras []string, spec pep440.Specifier, err error) {
	m := nameSpecRE.FindStringSubmatch(s)
	if m == nil {
		return "", nil, nil, errors.New(errors.ErrCodeInvalidRequirement, "invalid requirement: %q", s)
	}
	name = m[1]
	if m[2] != "" || strings.Contains(s, "[") {
		extras = parseExtras(m[2])
	}
	spec, err = pep440.ParseSpecifier(m[3])
	if err != nil {
		return "", nil, nil, errors.Wrap(errors.ErrCodeInvalidRequirement, err, "invalid requirement: %q", s)
	}
	return name, extras, spec, nil
}

// parseExtras parses a comma-separated extras list, trimming
// whitespace and collapsing duplicates while preserving first-seen
// order. An empty list yields an empty, non-nil slice.
func parseExtras(s string) []string {
	extras := []string{}
	seen := make(map[string]bool)
	for _, e := range strings.Split(s, ",") {
		e = strings.TrimSpace(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		extras = append(extras, e)
	}
	return extras
}

// mergeExtras unions two extras lists: existing entries first, then any
// new entries in the order they appear. The result is deduplicated.
func mergeExtras(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}
	merged := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]bool)
	for _, lists := range [][]string{existing, incoming} {
		for _, e := range lists {
			if !seen[e] {
				seen[e] = true
				merged = append(merged, e)
			}
		}
	}
	return merged
}
