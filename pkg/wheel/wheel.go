// Package wheel parses built-distribution (wheel) filenames and decides
// environment compatibility from their PEP 425 tags.
//
// A wheel filename has the form
//
//	{name}-{version}(-{build})?-{python}-{abi}-{platform}.whl
//
// per PEP 427. The python/abi/platform fields may each be a compressed
// tag set ("py2.py3") that expands to a cross product of concrete tags.
package wheel

import (
	"strings"
	"unicode"

	"github.com/habnabit/pip/pkg/errors"
)

// Wheel holds the fields encoded in a wheel filename.
type Wheel struct {
	Filename string
	Name     string
	Version  string
	Build    string
	// Compressed tag sets exactly as they appear in the filename.
	PyVersions string
	ABIs       string
	Platforms  string
}

// ParseFilename parses a wheel filename. It fails with an
// INVALID_WHEEL_FILENAME error when the name does not follow the
// PEP 427 grammar; compatibility is not checked here (see [Wheel.Supported]).
func ParseFilename(filename string) (*Wheel, error) {
	base, ok := strings.CutSuffix(filename, ".whl")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidWheelFilename, "%s is not a valid wheel filename", filename)
	}

	parts := strings.Split(base, "-")
	if len(parts) != 5 && len(parts) != 6 {
		return nil, errors.New(errors.ErrCodeInvalidWheelFilename, "%s is not a valid wheel filename", filename)
	}

	w := &Wheel{
		Filename:   filename,
		Name:       parts[0],
		Version:    parts[1],
		PyVersions: parts[len(parts)-3],
		ABIs:       parts[len(parts)-2],
		Platforms:  parts[len(parts)-1],
	}
	if len(parts) == 6 {
		w.Build = parts[2]
		// Build tags must start with a digit so they sort numerically.
		if w.Build == "" || !unicode.IsDigit(rune(w.Build[0])) {
			return nil, errors.New(errors.ErrCodeInvalidWheelFilename, "%s is not a valid wheel filename", filename)
		}
	}
	if w.Name == "" || w.Version == "" || w.PyVersions == "" || w.ABIs == "" || w.Platforms == "" {
		return nil, errors.New(errors.ErrCodeInvalidWheelFilename, "%s is not a valid wheel filename", filename)
	}

	return w, nil
}

// IsFilename reports whether the string has a .whl suffix. It does not
// validate the grammar; use [ParseFilename] for that.
func IsFilename(s string) bool {
	return strings.HasSuffix(s, ".whl")
}

// Tags expands the wheel's compressed tag sets into concrete tags,
// following the cross-product rule from PEP 425.
func (w *Wheel) Tags() []Tag {
	return Tag{Python: w.PyVersions, ABI: w.ABIs, Platform: w.Platforms}.Expand()
}

// Supported reports whether any of the wheel's tags is in the supported
// set. The supported list is ordered most-preferred first; use
// [Wheel.Preference] to rank candidate wheels.
func (w *Wheel) Supported(supported []Tag) bool {
	return Intersect(w.Tags(), supported)
}

// Preference returns the rank of this wheel in the supported tag list:
// lower is more preferred. Wheels with no supported tag rank last at
// len(supported)+1.
func (w *Wheel) Preference(supported []Tag) int {
	tags := w.Tags()
	for i, s := range supported {
		if Intersect(tags, []Tag{s}) {
			return i + 1
		}
	}
	return len(supported) + 1
}
