package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	derrors "github.com/matzehuels/docver/pkg/errors"
)

// docExtensions are the file types picked up when walking a directory.
// Files named explicitly are always accepted.
var docExtensions = map[string]bool{
	".html":     true,
	".htm":      true,
	".xhtml":    true,
	".md":       true,
	".markdown": true,
	".txt":      true,
	".adoc":     true,
	".rst":      true,
}

// inputFile is a document to process. rel is its path below the argument it
// was found under and is used for --out targets and display.
type inputFile struct {
	path string
	rel  string
}

// collectFiles expands file and directory arguments into documents.
// Hidden directories are skipped.
func collectFiles(args []string) ([]inputFile, error) {
	var files []inputFile
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, derrors.Wrap(derrors.ErrCodeInvalidPath, err, "%s", arg)
		}
		if !info.IsDir() {
			files = append(files, inputFile{path: arg, rel: filepath.Base(arg)})
			continue
		}

		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !docExtensions[strings.ToLower(filepath.Ext(p))] {
				return nil
			}
			rel, err := filepath.Rel(arg, p)
			if err != nil {
				return err
			}
			files = append(files, inputFile{path: p, rel: rel})
			return nil
		})
		if err != nil {
			return nil, derrors.Wrap(derrors.ErrCodeInvalidPath, err, "walk %s", arg)
		}
	}
	return files, nil
}
