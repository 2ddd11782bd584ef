package domain

import "errors"

// Domain errors
var (
	ErrDuplicateBookmark = errors.New("duplicate bookmark")
	ErrBookmarkNotFound  = errors.New("bookmark not found")
	ErrContentNotFound   = errors.New("content not found")
	ErrInvalidContentID  = errors.New("invalid content identifier")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
