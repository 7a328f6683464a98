package req

import (
	"fmt"
	"strings"
)

// Requirements is an insertion-order-preserving map from project name
// to requirement. Iteration order is first-seen order and is never
// disturbed by later merges into existing entries.
//
// The map is a dumb container: it stores keys exactly as given.
// Canonical-name normalization is the [RequirementSet]'s concern.
type Requirements struct {
	keys  []string
	index map[string]*Requirement
}

// NewRequirements creates an empty Requirements map.
func NewRequirements() *Requirements {
	return &Requirements{index: make(map[string]*Requirement)}
}

// Len returns the number of entries.
func (r *Requirements) Len() int { return len(r.keys) }

// Has reports whether key is present.
func (r *Requirements) Has(key string) bool {
	_, ok := r.index[key]
	return ok
}

// Get returns the requirement stored under key.
func (r *Requirements) Get(key string) (*Requirement, bool) {
	req, ok := r.index[key]
	return req, ok
}

// Set stores req under key. A first-time key appends to the iteration
// order; overwriting an existing key keeps its original position.
func (r *Requirements) Set(key string, req *Requirement) {
	if _, exists := r.index[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.index[key] = req
}

// Keys returns the keys in insertion order. The returned slice is a
// copy.
func (r *Requirements) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Values returns the requirements in insertion order.
func (r *Requirements) Values() []*Requirement {
	values := make([]*Requirement, len(r.keys))
	for i, key := range r.keys {
		values[i] = r.index[key]
	}
	return values
}

// String lists the entries as "key: requirement" pairs in insertion
// order.
func (r *Requirements) String() string {
	var b strings.Builder
	b.WriteString("Requirements({")
	for i, key := range r.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", key, r.index[key])
	}
	b.WriteString("})")
	return b.String()
}
