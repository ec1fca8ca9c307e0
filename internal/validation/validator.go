package validation

import (
	"quizforge/internal/domain"

	"github.com/oklog/ulid/v2"
)

// IsULID reports whether s is a well-formed ULID string.
func IsULID(s string) bool {
	if len(s) != ulid.EncodedSize {
		return false
	}
	_, err := ulid.ParseStrict(s)
	return err == nil
}

// ULIDParam validates a path parameter that must be a ULID. Malformed IDs are
// rejected up front so storage never sees them.
func ULIDParam(field, value string) error {
	if !IsULID(value) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, value)}
	}
	return nil
}
