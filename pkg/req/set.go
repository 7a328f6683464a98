package req

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/habnabit/pip/pkg/errors"
	"github.com/habnabit/pip/pkg/markers"
	"github.com/habnabit/pip/pkg/observability"
)

// Finder supplies download candidates for requirements that need
// fetching. It is an opaque collaborator from this core's perspective;
// see the index package for the PyPI-backed implementation.
type Finder interface {
	// FindCandidates returns the known release files for a project.
	FindCandidates(ctx context.Context, name string) ([]Candidate, error)
}

// Candidate is one downloadable release file for a project.
type Candidate struct {
	Name     string
	Version  string
	Filename string
	URL      string
}

// AddResult is the outcome of RequirementSet.AddRequirement. Rejection
// by a non-matching marker is a routine filtering decision, not an
// error.
type AddResult int

const (
	// Accepted means the requirement entered the active map (or merged
	// its extras into an existing entry).
	Accepted AddResult = iota
	// RejectedByMarker means the requirement's marker evaluated false
	// for this environment.
	RejectedByMarker
)

// RequirementSet aggregates requirements for one installation run:
// it filters by environment markers, merges duplicate names, and
// guards build directories against stale reuse. It holds no state
// across runs.
//
// The set is not safe for concurrent use; the discovery pipeline adds
// requirements sequentially.
type RequirementSet struct {
	BuildDir    string
	SrcDir      string
	DownloadDir string

	finder Finder
	env    markers.Environment

	requirements *Requirements
	// aliases maps canonical names to the key under which the
	// requirement was first registered.
	aliases map[string]string
	// unnamed collects URL-only editables until metadata names them.
	unnamed []*Requirement
	// rejected records marker-filtered requirements for diagnostics.
	rejected []*Requirement
	// parents records provenance: canonical name of each requirement's
	// first registering parent.
	parents map[string]string
}

// Option configures a RequirementSet.
type Option func(*RequirementSet)

// WithFinder attaches the index finder used during preparation.
func WithFinder(f Finder) Option {
	return func(rs *RequirementSet) { rs.finder = f }
}

// WithEnvironment overrides the marker environment (defaults to the
// host environment).
func WithEnvironment(env markers.Environment) Option {
	return func(rs *RequirementSet) { rs.env = env }
}

// NewRequirementSet creates a set for one run. An empty buildDir gets a
// fresh per-run scratch directory under the system temp dir.
func NewRequirementSet(buildDir, srcDir, downloadDir string, opts ...Option) *RequirementSet {
	if buildDir == "" {
		buildDir = filepath.Join(os.TempDir(), "pip-build-"+uuid.NewString())
	}
	rs := &RequirementSet{
		BuildDir:     buildDir,
		SrcDir:       srcDir,
		DownloadDir:  downloadDir,
		env:          markers.DefaultEnvironment(),
		requirements: NewRequirements(),
		aliases:      make(map[string]string),
		parents:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// AddRequirement registers a requirement. Markers are evaluated first:
// a non-matching requirement lands in the rejected record and the
// result is RejectedByMarker. A duplicate project name merges extras
// into the first-registered requirement — the existing entry keeps its
// specifier, link, and editable flag; only extras union. parent names
// the requirement that pulled this one in ("" for direct requirements).
func (rs *RequirementSet) AddRequirement(r *Requirement, parent string) (AddResult, error) {
	match, err := r.MatchMarkers(rs.env)
	if err != nil {
		return 0, err
	}
	if !match {
		rs.rejected = append(rs.rejected, r)
		observability.Resolve().OnRequirementRejected(context.Background(), r.Name, r.Markers)
		return RejectedByMarker, nil
	}

	if r.Name == "" {
		rs.unnamed = append(rs.unnamed, r)
		return Accepted, nil
	}

	canonical := CanonicalName(r.Name)
	key, exists := rs.aliases[canonical]
	if !exists {
		rs.aliases[canonical] = r.Name
		rs.requirements.Set(r.Name, r)
		if parent != "" {
			rs.parents[canonical] = parent
		}
		observability.Resolve().OnRequirementAdded(context.Background(), r.Name)
		return Accepted, nil
	}

	existing, _ := rs.requirements.Get(key)
	existing.Extras = mergeExtras(existing.Extras, r.Extras)
	return Accepted, nil
}

// HasRequirement reports whether an accepted requirement exists under
// the given name (normalized comparison).
func (rs *RequirementSet) HasRequirement(name string) bool {
	_, ok := rs.aliases[CanonicalName(name)]
	return ok
}

// GetRequirement returns the accepted requirement for name.
func (rs *RequirementSet) GetRequirement(name string) (*Requirement, error) {
	key, ok := rs.aliases[CanonicalName(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeRequirementNotFound, "no project with the name %q", name)
	}
	r, _ := rs.requirements.Get(key)
	return r, nil
}

// Requirements returns the accepted requirements in registration order.
func (rs *RequirementSet) Requirements() []*Requirement {
	return rs.requirements.Values()
}

// Unnamed returns accepted requirements whose name is not yet known.
func (rs *RequirementSet) Unnamed() []*Requirement {
	return rs.unnamed
}

// Rejected returns the requirements filtered out by markers, for
// diagnostics only.
func (rs *RequirementSet) Rejected() []*Requirement {
	return rs.rejected
}

// Parent returns the name of the requirement that first pulled in the
// named requirement, or "" for direct requirements.
func (rs *RequirementSet) Parent(name string) string {
	return rs.parents[CanonicalName(name)]
}

// BuildLocation claims <BuildDir>/<name> for the requirement's build.
// A pre-existing non-empty directory there is a hard conflict: it holds
// source from an interrupted earlier run that may no longer match this
// requirement.
func (rs *RequirementSet) BuildLocation(r *Requirement) (string, error) {
	if r.Name == "" {
		return "", errors.New(errors.ErrCodeInternal, "cannot assign a build location to an unnamed requirement")
	}
	location := filepath.Join(rs.BuildDir, r.Name)

	entries, err := os.ReadDir(location)
	if err == nil && len(entries) > 0 {
		return "", errors.New(errors.ErrCodePreviousBuildDir,
			"pip can't proceed with requirement '%s' due to a pre-existing build directory (%s). "+
				"This is likely due to a previous installation that failed. pip is "+
				"being conservative and not assuming it can delete this. "+
				"Please delete it and try again.", r, location)
	}
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}

	if err := os.MkdirAll(location, 0755); err != nil {
		return "", err
	}
	r.SourceDir = location
	return location, nil
}

// Prepare walks the accepted requirements, claiming build directories
// and, when a finder is attached, resolving download candidates for
// everything that is not an editable local source. It returns the
// candidates chosen per requirement name.
func (rs *RequirementSet) Prepare(ctx context.Context) (found map[string][]Candidate, err error) {
	start := time.Now()
	defer func() {
		observability.Resolve().OnResolveComplete(ctx, rs.requirements.Len(), time.Since(start), err)
	}()

	found = make(map[string][]Candidate)
	for _, r := range rs.requirements.Values() {
		if r.Editable {
			// Editables build in place from their checkout.
			continue
		}
		if _, err := rs.BuildLocation(r); err != nil {
			return nil, err
		}
		if rs.finder == nil || r.Link != nil {
			continue
		}
		candidates, err := rs.finder.FindCandidates(ctx, r.Name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePackageNotFound, err, "could not find a download for %s", r)
		}
		found[r.Name] = candidates
	}
	return found, nil
}
