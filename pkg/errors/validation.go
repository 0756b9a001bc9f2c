package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier for safety and correctness.
// It rejects IDs that could collide with internal placeholder names or that
// contain characters unsafe for file-based cache keys.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No internal placeholder prefix
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node ID contains invalid control characters")
		}
	}

	// Double underscores bracket generated cluster placeholder names.
	if strings.HasPrefix(id, "__") && strings.HasSuffix(id, "__") {
		return New(ErrCodeInvalidInput, "node ID %q uses reserved placeholder form", id)
	}

	return nil
}

// ValidateOutputFilename validates an output filename for safety.
// It ensures the filename is a simple basename without path traversal.
func ValidateOutputFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "output filename cannot be empty")
	}

	if strings.Contains(filename, "..") {
		return New(ErrCodeInvalidPath, "output filename must not contain path traversal")
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output filename contains invalid control characters")
		}
	}

	return nil
}
