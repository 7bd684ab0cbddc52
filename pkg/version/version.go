package version

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalid is returned when a version segment or locator URI does not
// match the expected grammar.
var ErrInvalid = errors.New("invalid version")

// segmentPattern matches MAJOR.MINOR.PATCH with an optional -QUALIFIER-NNNN-
// build suffix. The match may start anywhere in the segment.
var segmentPattern = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)(?:(-.*-)(\d{4})-)?`)

// Version is a parsed artifact version. All fields are non-negative.
// Commit is zero when the version segment carries no build suffix.
type Version struct {
	Major  int
	Minor  int
	Patch  int
	Commit int
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to,
// or after other. Fields are compared in order Major, Minor, Patch, Commit.
func (v Version) Compare(other Version) int {
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Patch, other.Patch); c != 0 {
		return c
	}
	return cmp.Compare(v.Commit, other.Commit)
}

// Less reports whether v sorts strictly before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// String returns a diagnostic form such as "1.2.3" or "1.2.3#42".
// Use [Resolved.Raw] for anything shown to readers.
func (v Version) String() string {
	if v.Commit == 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d.%d#%d", v.Major, v.Minor, v.Patch, v.Commit)
}

// Resolved pairs a parsed Version with the version segment it came from.
type Resolved struct {
	Version Version
	Raw     string // version segment exactly as found in the locator URI
}

// Parse extracts a Version from a version segment such as "1.2.3" or
// "2.0.1-rc-0042-". Returns [ErrInvalid] if no version is present or a
// numeric field does not fit in an int.
func Parse(segment string) (Version, error) {
	m := segmentPattern.FindStringSubmatch(segment)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalid, segment)
	}

	fields := [4]int{}
	for i, s := range []string{m[1], m[2], m[3], m[5]} {
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalid, segment, err)
		}
		fields[i] = n
	}
	return Version{Major: fields[0], Minor: fields[1], Patch: fields[2], Commit: fields[3]}, nil
}

// Max returns the greatest candidate. Among candidates with equal versions the
// last one wins. Returns false if candidates is empty.
func Max(candidates []Resolved) (Resolved, bool) {
	if len(candidates) == 0 {
		return Resolved{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Version.Compare(best.Version) >= 0 {
			best = c
		}
	}
	return best, true
}
