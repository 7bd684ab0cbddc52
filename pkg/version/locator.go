package version

import (
	"fmt"
	"regexp"
)

// LocatorPattern extracts version segments from artifact storage URIs of the
// form ".../org/<group>/<artifact>/<segment>/<file>".
//
// A LocatorPattern is immutable and safe for concurrent use.
type LocatorPattern struct {
	re *regexp.Regexp
}

// NewLocatorPattern compiles the pattern for one artifact. An empty group
// accepts any single path component in the group position.
func NewLocatorPattern(group, artifact string) *LocatorPattern {
	g := `[^/]+`
	if group != "" {
		g = regexp.QuoteMeta(group)
	}
	expr := `^.*/org/` + g + `/` + regexp.QuoteMeta(artifact) + `/(.+)/[^/]*$`
	return &LocatorPattern{re: regexp.MustCompile(expr)}
}

// Segment returns the version segment of uri, or false if uri does not
// belong to the pattern's artifact.
func (p *LocatorPattern) Segment(uri string) (string, bool) {
	m := p.re.FindStringSubmatch(uri)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Parse extracts the version segment from uri and parses it.
func (p *LocatorPattern) Parse(uri string) (Resolved, error) {
	seg, ok := p.Segment(uri)
	if !ok {
		return Resolved{}, fmt.Errorf("%w: unrecognized locator %q", ErrInvalid, uri)
	}
	v, err := Parse(seg)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Version: v, Raw: seg}, nil
}
