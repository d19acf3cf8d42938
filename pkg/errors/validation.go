package errors

import (
	"strings"
	"unicode"
)

// MaxPayloadBytes bounds the size of a graph or decomposition submitted as text.
const MaxPayloadBytes = 16 << 20

// MaxWorkers bounds the worker count accepted from configuration or requests.
const MaxWorkers = 1024

// ValidateInputPath validates a local input file path.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 4096 characters
func ValidateInputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidatePayload checks that a textual graph or decomposition is present and
// within size limits. The name is used in the error message only.
func ValidatePayload(name, text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", name)
	}
	if len(text) > MaxPayloadBytes {
		return New(ErrCodeInvalidInput, "%s too large (max %d bytes)", name, MaxPayloadBytes)
	}
	if strings.IndexByte(text, '\x00') >= 0 {
		return New(ErrCodeInvalidInput, "%s contains null bytes", name)
	}
	return nil
}

// ValidateWorkers checks a worker count. Zero means "use the default".
func ValidateWorkers(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "workers must not be negative, got %d", n)
	}
	if n > MaxWorkers {
		return New(ErrCodeInvalidInput, "workers too large (max %d), got %d", MaxWorkers, n)
	}
	return nil
}
