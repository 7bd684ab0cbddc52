package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestScanFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.html": "<p>&lt;x-version&gt;</p>\n<code>&lt;arachne-core-version&gt;</code>",
		"README.md":  "one <a-version>\ntwo <b-version>",
	})

	hits, err := scanFiles([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]string{}
	for _, h := range hits {
		names[h.occ.Artifact] = filepath.Base(h.file)
	}
	if len(hits) != 3 || names["arachne-core"] != "index.html" || names["a"] != "README.md" || names["b"] != "README.md" {
		t.Errorf("hits = %+v", hits)
	}
	if _, ok := names["x"]; ok {
		t.Error("paragraph text in HTML must not be reported")
	}

	var out bytes.Buffer
	printScan(&out, hits)
	if !strings.Contains(out.String(), "arachne-core") || !strings.Contains(out.String(), "3 placeholders") {
		t.Errorf("output = %q", out.String())
	}
}

func TestPrintScanEmpty(t *testing.T) {
	var out bytes.Buffer
	printScan(&out, nil)
	if !strings.Contains(out.String(), "no placeholders found") {
		t.Errorf("output = %q", out.String())
	}
}
