package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeID validates a graph node identifier for safety and
// correctness. It rejects identifiers that could be used for path traversal
// or injection when node IDs end up in cache keys and file names.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
//
// Structural graph validation (dangling edges, duplicates) is handled by the
// graph layer itself; this only guards the identifier syntax.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidGraph, "node id too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node id contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidGraph, "node id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates a file path within the workspace for safety.
// It prevents path traversal attacks and ensures reasonable path length.
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

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
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

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// documentIDRegex matches the UUID format used for stored documents.
var documentIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateDocumentID validates a stored document identifier. Document IDs
// are lowercase UUIDs assigned at save time.
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "document id cannot be empty")
	}

	if !documentIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid document id: %q", id)
	}

	return nil
}

// columnNameRegex matches column names that are safe to embed in cache keys
// and DOT port identifiers.
var columnNameRegex = regexp.MustCompile(`^[^\x00-\x1f]{1,256}$`)

// ValidateColumnName validates a column name from an untrusted producer.
func ValidateColumnName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidGraph, "column name cannot be empty")
	}

	if !columnNameRegex.MatchString(name) {
		return New(ErrCodeInvalidGraph, "invalid column name: %q", name)
	}

	return nil
}
