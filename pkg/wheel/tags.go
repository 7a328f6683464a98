package wheel

import (
	"fmt"
	"runtime"
	"strings"
)

// Tag is a PEP 425 compatibility tag triple. Each field may itself be a
// compressed set joined with ".".
type Tag struct {
	Python   string
	ABI      string
	Platform string
}

// String renders the tag in its hyphen-joined filename form.
func (t Tag) String() string {
	return t.Python + "-" + t.ABI + "-" + t.Platform
}

// Expand produces the cross product of the tag's compressed sets.
func (t Tag) Expand() []Tag {
	var ret []Tag
	for _, py := range strings.Split(t.Python, ".") {
		for _, abi := range strings.Split(t.ABI, ".") {
			for _, plat := range strings.Split(t.Platform, ".") {
				ret = append(ret, Tag{Python: py, ABI: abi, Platform: plat})
			}
		}
	}
	return ret
}

// Intersect reports whether any tag in a matches any tag in b,
// considering compressed tag sets on both sides.
func Intersect(a, b []Tag) bool {
	for _, a1 := range a {
		for _, a2 := range a1.Expand() {
			for _, b1 := range b {
				for _, b2 := range b1.Expand() {
					if a2 == b2 {
						return true
					}
				}
			}
		}
	}
	return false
}

// SupportedTags builds the supported tag list for a CPython interpreter
// of the given version ("3.12") on the host platform, most-preferred
// first. The list follows the shape pip uses: the interpreter-specific
// tags, then abi3 down the minor versions, then the generic pure-Python
// tags ending in py{major}-none-any.
func SupportedTags(pythonVersion string) []Tag {
	major, minor := splitVersion(pythonVersion)
	impl := fmt.Sprintf("cp%d%d", major, minor)
	plats := platformTags(runtime.GOOS, runtime.GOARCH)

	var tags []Tag
	for _, plat := range plats {
		tags = append(tags, Tag{Python: impl, ABI: impl, Platform: plat})
	}
	for m := minor; m >= 2; m-- {
		for _, plat := range plats {
			tags = append(tags, Tag{Python: fmt.Sprintf("cp%d%d", major, m), ABI: "abi3", Platform: plat})
		}
	}
	for _, plat := range plats {
		tags = append(tags, Tag{Python: impl, ABI: "none", Platform: plat})
	}
	tags = append(tags, Tag{Python: impl, ABI: "none", Platform: "any"})
	tags = append(tags, Tag{Python: fmt.Sprintf("py%d", major), ABI: "none", Platform: "any"})
	tags = append(tags, Tag{Python: fmt.Sprintf("py%d%d", major, minor), ABI: "none", Platform: "any"})
	for m := minor - 1; m >= 0; m-- {
		tags = append(tags, Tag{Python: fmt.Sprintf("py%d%d", major, m), ABI: "none", Platform: "any"})
	}
	return tags
}

func splitVersion(v string) (major, minor int) {
	major, minor = 3, 0
	fmt.Sscanf(v, "%d.%d", &major, &minor)
	return major, minor
}

// platformTags returns the host platform tags, most specific first.
func platformTags(goos, goarch string) []string {
	arch := map[string]string{
		"amd64": "x86_64",
		"arm64": "aarch64",
		"386":   "i686",
	}[goarch]
	if arch == "" {
		arch = goarch
	}

	switch goos {
	case "linux":
		return []string{
			"manylinux_2_28_" + arch,
			"manylinux2014_" + arch,
			"manylinux1_" + arch,
			"linux_" + arch,
		}
	case "darwin":
		return []string{"macosx_11_0_" + arch, "macosx_10_9_" + arch}
	case "windows":
		if arch == "x86_64" {
			return []string{"win_amd64"}
		}
		return []string{"win32"}
	default:
		return []string{goos + "_" + arch}
	}
}
