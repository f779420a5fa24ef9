// Package version handles parsing, comparison, and detection of record
// schema versions.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-embed/internal/types"
)

// Current is the newest schema version this build knows about.
const Current = "2.0.0"

// Version is a parsed semantic version triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

var versionPattern = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

// Parse parses a dotted numeric version string. A missing patch component
// defaults to zero; anything else (prefixes, suffixes, extra components)
// is rejected.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 && len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor or major.minor.patch", s)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (len(p) > 1 && p[0] == '0') {
			return Version{}, fmt.Errorf("invalid version %q: bad component %q", s, p)
		}
		nums[i] = n
	}
	v := Version{Major: nums[0], Minor: nums[1]}
	if len(nums) == 3 {
		v.Patch = nums[2]
	}
	return v, nil
}

// MustParse is Parse for known-good literals; it panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the version as a full major.minor.patch triple.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or +1 ordering v against o.
func (v Version) Compare(o Version) int {
	if v.Major != o.Major {
		return sign(v.Major - o.Major)
	}
	if v.Minor != o.Minor {
		return sign(v.Minor - o.Minor)
	}
	return sign(v.Patch - o.Patch)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Normalize parses s and re-renders it as a full triple, so "1.2" and
// "1.2.0" compare equal as map keys. Unparseable input is returned as-is.
func Normalize(s string) string {
	v, err := Parse(s)
	if err != nil {
		return s
	}
	return v.String()
}

// Detect determines the version a record declares. The checks run in a
// fixed order: the namespaced dotted marker, the legacy flat marker, a
// version pattern inside the declared schema URL, and finally the
// fallback. Detect never fails; absence of signal yields fallback.
func Detect(rec types.Record, fallback string) string {
	if rec == nil {
		return fallback
	}
	if s := rec.SpecVersion(); s != "" {
		if _, err := Parse(s); err == nil {
			return Normalize(s)
		}
	}
	if s := rec.SchemaVersion(); s != "" {
		if _, err := Parse(s); err == nil {
			return Normalize(s)
		}
	}
	if ref := rec.SchemaRef(); ref != "" {
		if m := versionPattern.FindString(ref); m != "" {
			if _, err := Parse(m); err == nil {
				return Normalize(m)
			}
		}
	}
	return fallback
}

// distance maps a version into (minor*100 + patch) space for
// nearest-neighbour search within a major line.
func distance(a, b Version) int {
	d := (a.Minor*100 + a.Patch) - (b.Minor*100 + b.Patch)
	if d < 0 {
		return -d
	}
	return d
}

// Nearest selects the candidate closest to target within the same major
// version, by minimal absolute distance in (minor*100+patch) space, ties
// broken toward the newer candidate. Cross-major candidates are never
// considered; if none share target's major line, ok is false.
func Nearest(target Version, candidates []Version) (Version, bool) {
	var best Version
	found := false
	for _, c := range candidates {
		if c.Major != target.Major {
			continue
		}
		if !found {
			best, found = c, true
			continue
		}
		dc, db := distance(c, target), distance(best, target)
		if dc < db || (dc == db && c.Compare(best) > 0) {
			best = c
		}
	}
	return best, found
}
