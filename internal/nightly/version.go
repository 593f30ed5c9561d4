// Package nightly finds, compares and downloads Neovim nightly builds.
package nightly

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoVersion is returned when no version string can be found.
var ErrNoVersion = errors.New("no neovim version found")

// versionPattern matches "NVIM v0.11.0-dev-1234+gabcdef0", "v0.10.0" and
// the older "NVIM v0.10.0-dev-2734" form.
var versionPattern = regexp.MustCompile(`v(\d+)\.(\d+)\.(\d+)(?:-dev-([0-9a-fA-F]+)(?:\+g([0-9a-fA-F]+))?)?`)

// Version is a parsed Neovim version.
type Version struct {
	Major, Minor, Patch int
	Dev                 bool
	Build               int    // dev build number; 0 when unknown
	Commit              string // abbreviated commit hash, if present
	Raw                 string // the matched text, e.g. "v0.11.0-dev-1234+gabcdef0"
}

// ParseVersion extracts the first version in s.
func ParseVersion(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("%w in %q", ErrNoVersion, firstLine(s))
	}
	v := Version{Raw: m[0]}
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	v.Patch, _ = strconv.Atoi(m[3])
	if m[4] == "" {
		return v, nil
	}
	v.Dev = true
	n, err := strconv.Atoi(m[4])
	switch {
	case m[5] != "":
		v.Build = n
		v.Commit = strings.ToLower(m[5])
	case err == nil && len(m[4]) < 7:
		v.Build = n
	default:
		// Old format: the part after -dev- is the commit itself.
		v.Commit = strings.ToLower(m[4])
	}
	return v, nil
}

func (v Version) String() string {
	if v.Raw != "" {
		return v.Raw
	}
	s := fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Dev {
		s += fmt.Sprintf("-dev-%d", v.Build)
		if v.Commit != "" {
			s += "+g" + v.Commit
		}
	}
	return s
}

// Compare orders versions: -1 if v < o, 0 if equal, +1 if v > o. A dev
// build sorts before the release of the same major.minor.patch. Builds
// with the same number but different commits compare equal; use Same to
// detect a different build.
func (v Version) Compare(o Version) int {
	for _, d := range [][2]int{{v.Major, o.Major}, {v.Minor, o.Minor}, {v.Patch, o.Patch}} {
		if d[0] != d[1] {
			return sign(d[0] - d[1])
		}
	}
	if v.Dev != o.Dev {
		if v.Dev {
			return -1
		}
		return 1
	}
	return sign(v.Build - o.Build)
}

// Same reports whether v and o name the same build.
func (v Version) Same(o Version) bool {
	if v.Compare(o) != 0 {
		return false
	}
	if v.Commit != "" && o.Commit != "" {
		return strings.HasPrefix(v.Commit, o.Commit) || strings.HasPrefix(o.Commit, v.Commit)
	}
	return true
}

// Newer reports whether latest should replace installed.
func Newer(installed, latest Version) bool {
	if c := latest.Compare(installed); c != 0 {
		return c > 0
	}
	return !latest.Same(installed)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}
