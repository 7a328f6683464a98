package req

import (
	"regexp"
	"strings"
)

// vcsSchemes are the version-control URL prefixes recognized on
// requirement lines and editable arguments.
var vcsSchemes = []string{"git", "svn", "hg", "bzr"}

// eggRE extracts the egg fragment value from a URL. The egg value runs
// to the next "&" so that other fragment options pass through opaquely.
var eggRE = regexp.MustCompile(`[#&]egg=([^&]*)`)

// Link is a source locator for a requirement: a remote URL (possibly
// VCS-prefixed), a file URL, or a bare distribution filename. The
// stored text is byte-identical to the portion of the input that
// denoted it; download and checkout code downstream depends on the
// query and fragment surviving untouched.
type Link struct {
	URL string
}

// NewLink wraps a URL string.
func NewLink(url string) *Link {
	return &Link{URL: url}
}

// String returns the raw URL.
func (l *Link) String() string { return l.URL }

// Scheme returns the URL scheme in lower case, including any VCS prefix
// ("git+http"), or "" when the link has no scheme.
func (l *Link) Scheme() string {
	i := strings.Index(l.URL, "://")
	if i < 0 {
		return ""
	}
	return strings.ToLower(l.URL[:i])
}

// Filename returns the trailing path segment with any query and
// fragment removed. For a bare wheel filename link this is the filename
// itself.
func (l *Link) Filename() string {
	s := l.URL
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// EggFragment returns the value of the #egg= fragment option, or ""
// when absent.
func (l *Link) EggFragment() string {
	m := eggRE.FindStringSubmatch(l.URL)
	if m == nil {
		return ""
	}
	return m[1]
}

// IsWheel reports whether the link points at a wheel file.
func (l *Link) IsWheel() bool {
	return strings.HasSuffix(l.Filename(), ".whl")
}

// IsFile reports whether the link is a file:// URL.
func (l *Link) IsFile() bool {
	return strings.HasPrefix(strings.ToLower(l.URL), "file:")
}

// looksLikeURL reports whether a requirement line denotes a URL rather
// than a name-based requirement: an explicit scheme (including VCS
// prefixes like git+http) or a file: reference.
func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "file:") {
		return true
	}
	i := strings.Index(lower, "://")
	if i < 0 {
		return false
	}
	scheme := lower[:i]
	if j := strings.IndexByte(scheme, '+'); j >= 0 {
		for _, vcs := range vcsSchemes {
			if scheme[:j] == vcs {
				return true
			}
		}
		return false
	}
	// A scheme is a run of letters/digits/+-. before "://".
	for _, r := range scheme {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '+' && r != '-' && r != '.' {
			return false
		}
	}
	return scheme != ""
}
