package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateDocumentPath validates a document path for safety and correctness.
// It rejects paths that could be used for traversal attacks when the path is
// resolved against a document root.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters
//   - No path traversal sequences (.., //)
//   - No null bytes
//   - No absolute paths
//   - Maximum length of 500 characters
//
// Format-specific validation (extension, parseability) is done separately by
// the document loaders.
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "document path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "document path too long (max %d characters)", maxPathLength)
	}

	// Check for control characters and null bytes
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "document path contains invalid characters")
		}
	}

	// Must not be absolute
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "document path must be relative (cannot start with /)")
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(path, pattern) {
			return New(ErrCodeInvalidPath, "document path contains invalid sequence: %q", pattern)
		}
	}

	return nil
}

// sessionIDRegex matches canonical UUID session identifiers.
var sessionIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateSessionID validates a viewer session identifier.
// Session IDs are lowercase canonical UUIDs.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session ID cannot be empty")
	}

	if !sessionIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid session ID: %q", id)
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
