package req

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/habnabit/pip/pkg/errors"
)

// ParseFile reads a requirements file and returns one Requirement per
// effective line. Comments and blank lines are skipped, "-e"/"--editable"
// lines become editable requirements, and "-r"/"--requirement" lines are
// followed recursively relative to the including file. Other option
// lines ("--index-url", "--find-links", ...) are skipped here; the CLI
// layer handles them.
func ParseFile(path string, opts ParseOptions) ([]*Requirement, error) {
	return parseFile(path, opts, make(map[string]bool))
}

func parseFile(path string, opts ParseOptions, seen map[string]bool) ([]*Requirement, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if seen[abs] {
		return nil, errors.New(errors.ErrCodeInvalidRequirementsFile, "recursive reference to %s", path)
	}
	seen[abs] = true

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "could not open requirements file %s", path)
	}
	defer f.Close()

	var reqs []*Requirement
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}
		comesFrom := fmt.Sprintf("-r %s (line %d)", path, lineno)
		lineOpts := opts
		lineOpts.ComesFrom = comesFrom

		switch {
		case hasOption(line, "-e", "--editable"):
			arg := optionValue(line, "-e", "--editable")
			r, err := FromEditable(arg, "", nil, lineOpts)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidRequirementsFile, err,
					"invalid editable requirement at %s:%d", path, lineno)
			}
			reqs = append(reqs, r)
		case hasOption(line, "-r", "--requirement"):
			arg := optionValue(line, "-r", "--requirement")
			nested := arg
			if !filepath.IsAbs(nested) {
				nested = filepath.Join(filepath.Dir(path), nested)
			}
			sub, err := parseFile(nested, opts, seen)
			if err != nil {
				return nil, err
			}
			reqs = append(reqs, sub...)
		case strings.HasPrefix(line, "-"):
			// Index and fetch options are out of scope for the parser.
			continue
		default:
			r, err := FromLine(line, lineOpts)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidRequirementsFile, err,
					"invalid requirement at %s:%d", path, lineno)
			}
			reqs = append(reqs, r)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}

// stripComment removes a trailing " #" comment (or a full-line comment)
// and surrounding whitespace. A '#' inside a URL fragment is preceded
// by a non-space, so it survives.
func stripComment(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return ""
	}
	if i := strings.Index(line, " #"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func hasOption(line string, short, long string) bool {
	return strings.HasPrefix(line, short+" ") || strings.HasPrefix(line, long+" ") ||
		strings.HasPrefix(line, long+"=")
}

func optionValue(line string, short, long string) string {
	line = strings.TrimPrefix(line, short+" ")
	line = strings.TrimPrefix(line, long+"=")
	line = strings.TrimPrefix(line, long+" ")
	return strings.TrimSpace(line)
}
