package req

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/habnabit/pip/pkg/errors"
)

// Filesystem supplies the path probes ParseEditable needs. Injecting
// them keeps editable resolution deterministic in tests; the zero-config
// default is [OSFilesystem].
type Filesystem interface {
	// Getwd returns the directory relative editable paths resolve against.
	Getwd() (string, error)
	// IsDir reports whether path exists and is a directory.
	IsDir(path string) bool
	// NormCase normalizes a path per the host comparison convention
	// (identity on POSIX, lower-casing on Windows).
	NormCase(path string) string
}

// OSFilesystem is the live-process Filesystem.
type OSFilesystem struct{}

func (OSFilesystem) Getwd() (string, error) { return os.Getwd() }

func (OSFilesystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (OSFilesystem) NormCase(path string) string { return filepath.Clean(path) }

// extrasSuffixRE matches a trailing bracketed extras list on an
// editable argument.
var extrasSuffixRE = regexp.MustCompile(`^(.+)(\[[^]]*\])$`)

// optionRE matches key=value options in a URL's query or fragment.
var optionRE = regexp.MustCompile(`[?#&]([^&=]+)=([^&=]+)`)

// ParseEditable translates an editable source argument (a local path or
// a VCS URL) into its requirement parts:
//
//	name    — the egg fragment value, "[extras]" suffix included, or ""
//	url     — the normalized URL, fragment preserved verbatim
//	extras  — parsed extras for local paths with a bracket suffix, else nil
//	options — fragment/query key=value options ("egg" is the one this
//	          core interprets; others pass through)
//
// Local directory arguments become file:// URLs resolved against the
// filesystem's working directory. Other arguments are treated as VCS
// URLs; ones without an explicit VCS prefix get defaultVCS prepended.
func ParseEditable(arg, defaultVCS string, fs Filesystem) (name, url string, extras []string, options map[string]string, err error) {
	if fs == nil {
		fs = OSFilesystem{}
	}

	urlNoExtras := arg
	var extrasText string
	if m := extrasSuffixRE.FindStringSubmatch(arg); m != nil {
		urlNoExtras = m[1]
		extrasText = m[2]
	}

	if fs.IsDir(urlNoExtras) {
		path := urlNoExtras
		if !filepath.IsAbs(path) {
			cwd, err := fs.Getwd()
			if err != nil {
				return "", "", nil, nil, errors.Wrap(errors.ErrCodeInvalidEditable, err, "cannot resolve editable path %q", arg)
			}
			path = filepath.Join(cwd, path)
		}
		url = pathToURL(fs.NormCase(path))
		if extrasText != "" {
			return "", url, parseExtras(strings.Trim(extrasText, "[]")), map[string]string{}, nil
		}
		return "", url, nil, map[string]string{}, nil
	}

	// Not a local directory: a VCS requirement. The original argument,
	// extras suffix and all, is the URL from here on.
	url = arg
	hasPrefix := false
	lower := strings.ToLower(url)
	for _, vcs := range vcsSchemes {
		if strings.HasPrefix(lower, vcs+"+") {
			hasPrefix = true
			break
		}
	}
	if !hasPrefix {
		if defaultVCS == "" {
			return "", "", nil, nil, errors.New(errors.ErrCodeInvalidEditable,
				"%s is not a valid editable requirement: no VCS prefix and no default VCS", arg)
		}
		url = defaultVCS + "+" + url
	}

	options, err = buildEditableOptions(arg)
	if err != nil {
		return "", "", nil, nil, err
	}
	name = options["egg"]
	return name, url, nil, options, nil
}

// buildEditableOptions collects key=value options from the query and
// fragment of an editable argument. Repeated keys are an error.
func buildEditableOptions(arg string) (map[string]string, error) {
	options := map[string]string{}
	for _, m := range optionRE.FindAllStringSubmatch(arg, -1) {
		key, value := m[1], m[2]
		if _, dup := options[key]; dup {
			return nil, errors.New(errors.ErrCodeInvalidEditable,
				"%s has a duplicate %q option in its URL", arg, key)
		}
		options[key] = value
	}
	return options, nil
}

// pathToURL converts an absolute filesystem path to a file:// URL.
func pathToURL(path string) string {
	return "file://" + filepath.ToSlash(path)
}
