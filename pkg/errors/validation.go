package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateDocumentName validates the name of an uploaded document.
// Uploads are stored under their base name, so the name must be a plain
// file name with no directory component.
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidDocument, "document name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidDocument, "document name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDocument, "document name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidDocument, "document name cannot contain path separators")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidDocument, "document name cannot be a hidden file")
	}

	return nil
}

// ValidatePath validates a relative storage path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// mapTitleMaxLen bounds user-supplied map titles.
const mapTitleMaxLen = 200

// ValidateMapTitle validates a user-supplied title for a saved mind map.
func ValidateMapTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return New(ErrCodeInvalidInput, "map title cannot be empty")
	}
	if len([]rune(title)) > mapTitleMaxLen {
		return New(ErrCodeInvalidInput, "map title too long (max %d characters)", mapTitleMaxLen)
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "map title contains invalid control characters")
		}
	}
	return nil
}

// userIDRegex matches the opaque user identifiers the store accepts.
var userIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._@-]{0,127}$`)

// ValidateUserID validates a user identifier.
func ValidateUserID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "user id cannot be empty")
	}
	if !userIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid user id: %q", id)
	}
	return nil
}
