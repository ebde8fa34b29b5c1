package domain

import "fmt"

const (
	FieldTitle  = "title"
	FieldURL    = "url"
	FieldRating = "rating"
)

// ValidationError reports the first offending field of a creation payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func requiredError(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("'%s' is required", field),
	}
}

func ratingRangeError() *ValidationError {
	return &ValidationError{
		Field:   FieldRating,
		Message: fmt.Sprintf("'%s' must be a number between %d and %d", FieldRating, MinRating, MaxRating),
	}
}

func invalidURLError() *ValidationError {
	return &ValidationError{
		Field:   FieldURL,
		Message: fmt.Sprintf("'%s' must be a valid URL", FieldURL),
	}
}
