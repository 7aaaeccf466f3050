package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxIDLength bounds node and connection identifiers.
const MaxIDLength = 256

// ValidateID validates a node or connection identifier.
//
// Rules:
//   - No empty ids
//   - No control characters or null bytes
//   - Maximum length of MaxIDLength characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s id %q contains control characters", kind, id)
		}
	}
	return nil
}

// ValidateDimension rejects non-finite or negative sizes and offsets.
// The layout engine does not sanitize its inputs, so hosts call this at
// their boundary.
func ValidateDimension(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite", field)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative (got %g)", field, v)
	}
	return nil
}

// ValidateCoordinate rejects non-finite positions. Negative values are fine.
func ValidateCoordinate(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite", field)
	}
	return nil
}

// ValidatePath validates a user supplied file path for diagram documents.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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

	return nil
}

// ValidateStyle checks a layout style hint against the known presets.
func ValidateStyle(style string, known []string) error {
	if style == "" {
		return nil
	}
	for _, k := range known {
		if strings.EqualFold(style, k) {
			return nil
		}
	}
	return New(ErrCodeInvalidStyle, "unknown style %q (want one of %s)", style, strings.Join(known, ", "))
}
