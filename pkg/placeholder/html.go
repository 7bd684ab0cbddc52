package placeholder

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// codeToken is matched against the whole text of a code element.
var codeToken = regexp.MustCompile(`^"?<([\w-]+)-version>"?$`)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

type element struct {
	tag      string
	artifact string // data-artifact of a version-lookup element
}

// ScanHTML finds occurrences in an HTML document without altering its bytes.
// Offsets refer to the raw input, so [Apply] preserves all formatting outside
// the replaced spans.
func ScanHTML(src []byte) ([]Occurrence, error) {
	z := html.NewTokenizer(bytes.NewReader(src))

	var (
		out   []Occurrence
		stack []element
		pos   int
	)
	for {
		tt := z.Next()
		// TagName lower-cases the token buffer in place; copy text before
		// anything else touches it.
		raw := string(z.Raw())
		start := pos
		pos += len(raw)

		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return out, nil
			}
			return nil, z.Err()

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if voidElements[tag] {
				continue
			}
			var class, artifact string
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				switch string(k) {
				case "class":
					class = string(v)
				case "data-artifact":
					artifact = string(v)
				}
			}
			el := element{tag: tag}
			if artifact != "" && slices.Contains(strings.Fields(class), "version-lookup") {
				el.artifact = artifact
			}
			stack = append(stack, el)

		case html.EndTagToken:
			name, _ := z.TagName()
			stack = popTo(stack, string(name))

		case html.TextToken:
			if occ, ok := textOccurrence(stack, raw, start); ok {
				occ.Line = lineAt(src, occ.Start)
				out = append(out, occ)
			}
		}
	}
}

func textOccurrence(stack []element, raw string, start int) (Occurrence, bool) {
	text := html.UnescapeString(raw)

	if name := lookupArtifact(stack); name != "" {
		if !strings.Contains(text, Token(name)) {
			return Occurrence{}, false
		}
		return narrow(name, raw, text, start), true
	}

	if !inCode(stack) {
		return Occurrence{}, false
	}
	m := codeToken.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return Occurrence{}, false
	}
	return narrow(m[1], raw, text, start), true
}

// narrow limits the span to the escaped token when it appears verbatim in
// the raw text, and otherwise covers the whole text node.
func narrow(name, raw, text string, start int) Occurrence {
	escaped := "&lt;" + name + "-version&gt;"
	if i := strings.Index(raw, escaped); i >= 0 {
		return Occurrence{
			Artifact: name,
			Start:    start + i,
			End:      start + i + len(escaped),
			escape:   true,
		}
	}
	return Occurrence{
		Artifact: name,
		Start:    start,
		End:      start + len(raw),
		text:     text,
		escape:   true,
	}
}

func lookupArtifact(stack []element) string {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].artifact != "" {
			return stack[i].artifact
		}
	}
	return ""
}

func inCode(stack []element) bool {
	if len(stack) == 0 {
		return false
	}
	switch stack[len(stack)-1].tag {
	case "code":
		return true
	case "span":
		for _, el := range stack[:len(stack)-1] {
			if el.tag == "code" {
				return true
			}
		}
	}
	return false
}

func popTo(stack []element, tag string) []element {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].tag == tag {
			return stack[:i]
		}
	}
	return stack
}
