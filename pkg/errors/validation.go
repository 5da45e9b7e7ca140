package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// documentIDRegex matches identifiers safe for filenames and store keys.
var documentIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDocumentID validates a document identifier for safety and
// correctness. IDs become store keys and filenames, so the rules are
// intentionally conservative:
//   - No empty IDs
//   - Maximum length of 128 characters
//   - Leading alphanumeric, then alphanumerics, dots, dashes, underscores
//   - No path separators or control characters
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "document ID cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "document ID too long (max 128 characters)")
	}

	if !documentIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid document ID: %q", id)
	}

	return nil
}

// styleNameRegex matches text style names as exposed over the API.
var styleNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateStyleName validates a typography style name. Semantic checks
// (whether the style exists in the scale) belong to the typography
// package; this only rejects names unsafe to echo or look up.
func ValidateStyleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidStyle, "style name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidStyle, "style name too long (max 64 characters)")
	}

	if !styleNameRegex.MatchString(name) {
		return New(ErrCodeInvalidStyle, "invalid style name: %q", name)
	}

	return nil
}

// ValidateOutputFilename validates an output filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateOutputFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "output filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "output filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "output filename cannot be a hidden file")
	}

	return nil
}

// ValidatePath validates a file path below an output directory for safety.
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

// storeSchemes are the URL prefixes the document store factory accepts.
var storeSchemes = []string{"mem://", "file://", "redis://", "rediss://", "mongodb://", "mongodb+srv://"}

// ValidateStoreURL validates a document store URL. It ensures the URL
// carries one of the supported schemes; dialing and authentication errors
// surface later when the store is opened.
func ValidateStoreURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "store URL cannot be empty")
	}

	for _, scheme := range storeSchemes {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}

	return New(ErrCodeInvalidInput,
		"store URL must use one of the schemes %s", strings.Join(storeSchemes, ", "))
}
