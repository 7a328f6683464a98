// Package req implements the requirement-resolution core of the
// installer: parsing textual requirement specifications, evaluating
// environment markers, and aggregating requirements into a deduplicated
// set with merged extras.
//
// A requirement enters through one of three constructors — [FromLine],
// [FromEditable], or [FromWheelFilename] — and is handed to a
// [RequirementSet], which filters it by markers, merges duplicates, and
// guards the build directory invariant.
package req

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/habnabit/pip/pkg/errors"
	"github.com/habnabit/pip/pkg/markers"
	"github.com/habnabit/pip/pkg/pep440"
	"github.com/habnabit/pip/pkg/wheel"
)

// InstalledProber answers whether a distribution is already installed.
// The default nil prober reports nothing installed; a real site-packages
// scanner can be injected by the calling pipeline.
type InstalledProber interface {
	// InstalledVersion returns the installed version of the named
	// project, or "" if it is not installed.
	InstalledVersion(name string) string
}

// Requirement is one parsed requirement: what to install, where from,
// and under which environment conditions. Parse-derived fields are
// fixed after construction; Extras grows under [RequirementSet] merges,
// and the build/metadata fields (SourceDir, EggInfoPath) are bound late
// by the preparation stage.
type Requirement struct {
	// Name is the project name as written, or "" for URL-only editable
	// requirements whose name is discovered later from build metadata.
	Name      string
	Specifier pep440.Specifier
	Extras    []string
	Link      *Link
	// Markers is the raw, unevaluated marker expression, or "".
	Markers  string
	Editable bool
	// ComesFrom records provenance for diagnostics, e.g.
	// "-r requirements.txt (line 3)".
	ComesFrom string
	// EditableOptions carries fragment options from an editable URL.
	EditableOptions map[string]string

	// SourceDir is the checkout/unpack location, assigned once the
	// build claims a directory.
	SourceDir string
	// EggInfoPath is the metadata directory discovered after a build.
	EggInfoPath string

	// Prober resolves InstalledVersion; nil means nothing installed.
	Prober InstalledProber

	line string
}

// ParseOptions adjusts parsing for the environment being installed into.
type ParseOptions struct {
	// ComesFrom is recorded as the requirement's provenance.
	ComesFrom string
	// SupportedTags is the environment's wheel tag set; defaults to
	// the tags for the default interpreter.
	SupportedTags []wheel.Tag
}

func (o ParseOptions) tags() []wheel.Tag {
	if o.SupportedTags != nil {
		return o.SupportedTags
	}
	return wheel.SupportedTags(markers.DefaultPythonVersion)
}

// FromLine parses one requirement line: a name with optional extras,
// specifier, and marker; a URL with an egg fragment; or a wheel
// filename.
func FromLine(line string, opts ParseOptions) (*Requirement, error) {
	text, markerText := splitMarker(line)

	r := &Requirement{
		Markers:   markerText,
		ComesFrom: opts.ComesFrom,
		line:      text,
	}

	switch {
	case looksLikeURL(text):
		r.Link = NewLink(text)
		if r.Link.IsWheel() {
			if err := r.fillFromWheel(r.Link.Filename(), opts); err != nil {
				return nil, err
			}
			break
		}
		if egg := r.Link.EggFragment(); egg != "" {
			name, extras, spec, err := parseNameSpec(egg)
			if err != nil {
				return nil, err
			}
			r.Name = name
			r.Extras = extras
			r.Specifier = spec
		}

	case wheel.IsFilename(text):
		r.Link = NewLink(text)
		if err := r.fillFromWheel(filepath.Base(text), opts); err != nil {
			return nil, err
		}

	default:
		name, extras, spec, err := parseNameSpec(text)
		if err != nil {
			return nil, err
		}
		r.Name = name
		r.Extras = extras
		r.Specifier = spec
	}

	return r, nil
}

// fillFromWheel validates a wheel filename and derives the exact-pinned
// requirement it denotes.
func (r *Requirement) fillFromWheel(filename string, opts ParseOptions) error {
	w, err := wheel.ParseFilename(filename)
	if err != nil {
		return err
	}
	if !w.Supported(opts.tags()) {
		return errors.New(errors.ErrCodeUnsupportedWheel,
			"%s is not a supported wheel on this platform", w.Filename)
	}
	r.Name = w.Name
	r.Specifier = pep440.Specifier{{Op: "==", Version: w.Version}}
	return nil
}

// FromEditable parses an editable source argument (local path or VCS
// URL) into a requirement with Editable set. The name may be empty
// until build metadata resolves it.
func FromEditable(arg, defaultVCS string, fs Filesystem, opts ParseOptions) (*Requirement, error) {
	name, url, extras, options, err := ParseEditable(arg, defaultVCS, fs)
	if err != nil {
		return nil, err
	}

	r := &Requirement{
		Editable:        true,
		Link:            NewLink(url),
		ComesFrom:       opts.ComesFrom,
		EditableOptions: options,
		line:            arg,
	}
	if strings.HasPrefix(strings.ToLower(url), "file:") {
		r.SourceDir = strings.TrimPrefix(url, "file://")
	}
	if name != "" {
		parsedName, parsedExtras, spec, err := parseNameSpec(name)
		if err != nil {
			return nil, err
		}
		r.Name = parsedName
		r.Extras = parsedExtras
		r.Specifier = spec
	}
	if extras != nil {
		r.Extras = extras
	}
	return r, nil
}

// FromWheelFilename parses a bare wheel filename into an exact-pinned
// requirement. The filename is validated and checked for platform
// compatibility like any wheel on a requirement line.
func FromWheelFilename(filename string, opts ParseOptions) (*Requirement, error) {
	if !wheel.IsFilename(filename) {
		return nil, errors.New(errors.ErrCodeInvalidWheelFilename, "%s is not a valid wheel filename", filename)
	}
	return FromLine(filename, opts)
}

// splitMarker separates a requirement line from its environment marker.
// The separator is the first ";", except that URL lines require a space
// before the ";" — VCS query strings legitimately contain bare
// semicolons (e.g. "?p=bar.git;a=snapshot"), so without the space the
// ";" belongs to the URL.
func splitMarker(line string) (text, marker string) {
	sep := ";"
	if looksLikeURL(line) {
		sep = "; "
	}
	if i := strings.Index(line, sep); i >= 0 {
		return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
	}
	return strings.TrimSpace(line), ""
}

// MatchMarkers evaluates the requirement's marker against env.
// Requirements without markers always apply.
func (r *Requirement) MatchMarkers(env markers.Environment) (bool, error) {
	if r.Markers == "" {
		return true, nil
	}
	return markers.Evaluate(r.Markers, env)
}

// InstalledVersion returns the already-installed version of this
// project, or "" when it is not installed or no prober is configured.
func (r *Requirement) InstalledVersion() string {
	if r.Prober == nil || r.Name == "" {
		return ""
	}
	return r.Prober.InstalledVersion(r.Name)
}

// Distribution is the metadata read back from an egg-info directory.
type Distribution struct {
	ProjectName string
	Location    string
}

// Dist derives the distribution identity from the requirement's
// egg-info path. A trailing separator on the path is accepted
// identically to the bare form.
func (r *Requirement) Dist() (*Distribution, error) {
	if r.EggInfoPath == "" {
		return nil, errors.New(errors.ErrCodeInternal, "no egg-info path recorded for %s", r)
	}
	path := strings.TrimRight(r.EggInfoPath, "/"+string(filepath.Separator))
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, ".egg-info")
	return &Distribution{
		ProjectName: name,
		Location:    filepath.Dir(path),
	}, nil
}

// String renders the requirement: "name==version" for an exact pin,
// the name and specifier otherwise, or the raw line when the name is
// still unknown.
func (r *Requirement) String() string {
	if r.Name == "" {
		return r.line
	}
	s := r.Name
	if len(r.Extras) > 0 {
		s += "[" + strings.Join(r.Extras, ",") + "]"
	}
	return s + r.Specifier.String()
}

// GoString renders the debug form, reporting the editable flag.
func (r *Requirement) GoString() string {
	return fmt.Sprintf("<Requirement %s editable=%v>", r, r.Editable)
}
