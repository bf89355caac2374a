package errors

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/matzehuels/seatmap/pkg/layout"
)

// maxLayoutIDLength bounds layout ids, which double as file names and
// Redis keys.
const maxLayoutIDLength = 128

// layoutIDRegex matches ids made of letters, digits, dot, dash and
// underscore, starting with a letter or digit.
var layoutIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateLayoutID validates a layout record id for safety.
// It rejects ids that could be used for path traversal or key injection.
//
// Validation rules:
//   - No empty ids
//   - Maximum length of 128 characters
//   - No control characters or null bytes
//   - No path separators or traversal sequences (.., /, \)
//   - Only letters, digits, '.', '-' and '_', starting with a letter or digit
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "layout id cannot be empty")
	}

	if len(id) > maxLayoutIDLength {
		return New(ErrCodeInvalidInput, "layout id too long (max %d characters)", maxLayoutIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "layout id contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "layout id contains invalid characters: %q", pattern)
		}
	}

	if !layoutIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid layout id: %q", id)
	}

	return nil
}

// ValidateDimensions checks a grid size against the configured bounds.
// The store itself accepts any size of at least 1x1; this check is for
// user-facing inputs.
func ValidateDimensions(rows, cols int, b layout.Bounds) error {
	if rows < b.MinRows || rows > b.MaxRows {
		return New(ErrCodeInvalidDimensions, "rows must be between %d and %d, got %d", b.MinRows, b.MaxRows, rows)
	}
	if cols < b.MinCols || cols > b.MaxCols {
		return New(ErrCodeInvalidDimensions, "columns must be between %d and %d, got %d", b.MinCols, b.MaxCols, cols)
	}
	return nil
}

// ValidateToolSize checks an element size chosen for a placement tool.
// Zero spans mean 1; negative spans and spans above layout.MaxToolSpan
// are rejected.
func ValidateToolSize(s layout.Size) error {
	for _, span := range []struct {
		name  string
		value int
	}{{"row span", s.RowSpan}, {"column span", s.ColSpan}} {
		if span.value < 0 || span.value > layout.MaxToolSpan {
			return New(ErrCodeInvalidSize, "%s must be between 1 and %d, got %d", span.name, layout.MaxToolSpan, span.value)
		}
	}
	return nil
}

// maxSeatNumberLength bounds seat labels.
const maxSeatNumberLength = 16

// ValidateSeatNumber checks a seat label typed by a user. Empty labels
// are allowed and clear the number.
func ValidateSeatNumber(s string) error {
	s = strings.TrimSpace(s)
	if len(s) > maxSeatNumberLength {
		return New(ErrCodeInvalidInput, "seat number too long (max %d characters)", maxSeatNumberLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "seat number contains invalid control characters")
		}
	}
	return nil
}
