package errors

import (
	"strings"
	"testing"
)

func TestValidateArtifactName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "arachne", false},
		{"valid with dash", "arachne-core", false},
		{"valid with underscore", "arachne_core", false},
		{"valid digits", "http2-client", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"dot", "arachne.core", true},
		{"slash", "org/arachne", true},
		{"query injection", "core&name=x", true},
		{"space", "arachne core", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArtifactName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateArtifactName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidArtifact) {
				t.Errorf("expected INVALID_ARTIFACT code, got %v", GetCode(err))
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"root", "/", false},
		{"page", "/guide/install.html", false},
		{"dots in name", "/release..notes.html", false},
		{"empty", "", false},

		{"traversal", "/../etc/passwd", true},
		{"nested traversal", "/docs/../../secret", true},
		{"backslash traversal", "\\..\\secret", true},
		{"null byte", "/a\x00b", true},
		{"too long", "/" + strings.Repeat("a", 2000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
