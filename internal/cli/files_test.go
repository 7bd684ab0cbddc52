package cli

import (
	"path/filepath"
	"sort"
	"testing"
)

func TestCollectFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.html":        "",
		"guide/setup.md":    "",
		"guide/image.png":   "",
		".git/config.txt":   "",
		"api/ref/index.htm": "",
	})

	files, err := collectFiles([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	var rels []string
	for _, f := range files {
		rels = append(rels, filepath.ToSlash(f.rel))
	}
	sort.Strings(rels)

	want := []string{"api/ref/index.htm", "guide/setup.md", "index.html"}
	if len(rels) != len(want) {
		t.Fatalf("got %v, want %v", rels, want)
	}
	for i := range want {
		if rels[i] != want[i] {
			t.Errorf("rels[%d] = %q, want %q", i, rels[i], want[i])
		}
	}
}

func TestCollectFilesExplicitFile(t *testing.T) {
	root := writeTree(t, map[string]string{"notes.custom": ""})
	files, err := collectFiles([]string{filepath.Join(root, "notes.custom")})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].rel != "notes.custom" {
		t.Errorf("got %+v", files)
	}
}

func TestCollectFilesMissing(t *testing.T) {
	if _, err := collectFiles([]string{filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Error("expected error for missing path")
	}
}
