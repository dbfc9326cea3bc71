package errors

import (
	"strings"
	"testing"
)

func TestValidateDocumentName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid pdf", "biology.pdf", false},
		{"valid markdown", "notes.md", false},
		{"valid with spaces", "chapter 1.txt", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"with path /", "path/to/file.pdf", true},
		{"with path \\", "path\\to\\file.pdf", true},
		{"hidden file", ".secret.pdf", true},
		{"control char", "foo\x01.pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocumentName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDocument) {
				t.Errorf("ValidateDocumentName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidDocument)
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
		{"simple", "uploads/biology.pdf", false},
		{"nested", "a/b/c.txt", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "uploads/../secret", true},
		{"backslash", "uploads\\file", true},
		{"null byte", "file\x00.txt", true},
		{"too long", strings.Repeat("a", 501), true},
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

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMapTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Biology", false},
		{"unicode", "Biologie – Zellen", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("x", 201), true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMapTitle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMapTitle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"alnum", "user123", false},
		{"email", "ada@example.com", false},
		{"uuid", "3f2b9a4e-1c2d-4e5f-8a9b-0c1d2e3f4a5b", false},

		{"empty", "", true},
		{"space", "a b", true},
		{"slash", "a/b", true},
		{"leading dot", ".user", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUserID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
