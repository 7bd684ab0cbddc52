package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docver/pkg/pipeline"
)

const testMarker = "<<API ERROR: repo.example.com>>"

// tableResolver answers from a fixed map.
type tableResolver map[string]string

func (r tableResolver) Resolve(_ context.Context, name string) (string, error) {
	if v, ok := r[name]; ok {
		return v, nil
	}
	return "", errors.New("no versions found")
}

func testRunner(res pipeline.VersionResolver) *pipeline.Runner {
	return pipeline.NewRunner(res, testMarker, log.New(io.Discard))
}

// writeTree creates files below a temp dir and returns the dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
