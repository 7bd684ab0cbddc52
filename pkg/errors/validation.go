package errors

import (
	"regexp"
	"strings"
)

// artifactNamePattern matches the names that may appear in a placeholder
// token: word characters and hyphens.
var artifactNamePattern = regexp.MustCompile(`^[\w-]+$`)

// ValidateArtifactName validates an artifact name before it is sent to the
// repository search API.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 256 characters
//   - Only letters, digits, underscores and hyphens
func ValidateArtifactName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidArtifact, "artifact name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidArtifact, "artifact name too long (max 256 characters)")
	}
	if !artifactNamePattern.MatchString(name) {
		return New(ErrCodeInvalidArtifact, "artifact name %q contains invalid characters", name)
	}
	return nil
}

// ValidatePath validates a request path relative to a document root.
// It rejects null bytes, overlong paths and any ".." segment.
func ValidatePath(path string) error {
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidPath, "path contains null byte")
	}
	if len(path) > 1024 {
		return New(ErrCodeInvalidPath, "path too long (max 1024 characters)")
	}
	for _, seg := range strings.FieldsFunc(path, isSeparator) {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path traversal not allowed: %q", path)
		}
	}
	return nil
}

func isSeparator(r rune) bool { return r == '/' || r == '\\' }
