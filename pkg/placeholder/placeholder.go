package placeholder

import (
	"bytes"
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Format selects how a document is scanned.
type Format int

const (
	FormatText Format = iota
	FormatHTML
)

func (f Format) String() string {
	if f == FormatHTML {
		return "html"
	}
	return "text"
}

// FormatForPath picks a format from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	}
	return FormatText
}

// FormatForContentType picks a format from a MIME type such as
// "text/html; charset=utf-8".
func FormatForContentType(contentType string) Format {
	mt, _, err := mime.ParseMediaType(contentType)
	if err == nil && (mt == "text/html" || mt == "application/xhtml+xml") {
		return FormatHTML
	}
	return FormatText
}

// Token returns the placeholder token for an artifact name.
func Token(artifact string) string { return "<" + artifact + "-version>" }

// Occurrence is one located placeholder.
type Occurrence struct {
	Artifact string
	Start    int // byte offset of the replaced span in the source
	End      int // exclusive
	Line     int // 1-based line of Start

	// text is the unescaped node text when the span covers a whole HTML text
	// node rather than just the token.
	text   string
	escape bool
}

// Expand returns the bytes that replace the occurrence's span when the token
// resolves to value.
func (o Occurrence) Expand(value string) string {
	s := value
	if o.text != "" {
		s = strings.Replace(o.text, Token(o.Artifact), value, 1)
	}
	if o.escape {
		return html.EscapeString(s)
	}
	return s
}

// Replacement pairs an occurrence with the value substituted for its token.
type Replacement struct {
	Occurrence
	Value string
	Err   error // resolution error; Value then holds the error marker
}

// Scan finds all occurrences in src.
func Scan(src []byte, f Format) ([]Occurrence, error) {
	if f == FormatHTML {
		return ScanHTML(src)
	}
	return ScanText(src), nil
}

var textToken = regexp.MustCompile(`<([\w-]+)-version>|&lt;([\w-]+)-version&gt;`)

// ScanText finds every token in a plain text document.
func ScanText(src []byte) []Occurrence {
	var out []Occurrence
	for _, m := range textToken.FindAllSubmatchIndex(src, -1) {
		var name []byte
		if m[2] >= 0 {
			name = src[m[2]:m[3]]
		} else {
			name = src[m[4]:m[5]]
		}
		out = append(out, Occurrence{
			Artifact: string(name),
			Start:    m[0],
			End:      m[1],
			Line:     lineAt(src, m[0]),
		})
	}
	return out
}

// Apply rewrites src with every replacement in one pass. Replacements may be
// given in any order; overlapping or out-of-range spans are an error.
func Apply(src []byte, reps []Replacement) ([]byte, error) {
	sorted := make([]Replacement, len(reps))
	copy(sorted, reps)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var buf bytes.Buffer
	buf.Grow(len(src))
	pos := 0
	for _, r := range sorted {
		if r.Start < pos || r.End < r.Start || r.End > len(src) {
			return nil, fmt.Errorf("placeholder %s at [%d,%d) overlaps or exceeds document", r.Artifact, r.Start, r.End)
		}
		buf.Write(src[pos:r.Start])
		buf.WriteString(r.Expand(r.Value))
		pos = r.End
	}
	buf.Write(src[pos:])
	return buf.Bytes(), nil
}

func lineAt(src []byte, off int) int {
	return bytes.Count(src[:off], []byte{'\n'}) + 1
}
