package validation

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func requireText(errs []FieldError, field, value string) []FieldError {
	value = strings.TrimSpace(value)
	if value == "" {
		return append(errs, FieldError{Field: field, Message: field + " is required"})
	}
	if len(value) > 255 {
		return append(errs, FieldError{Field: field, Message: field + " must be at most 255 characters"})
	}
	return errs
}

func requireUUID(errs []FieldError, field, value string) []FieldError {
	if value == "" {
		return append(errs, FieldError{Field: field, Message: field + " is required"})
	}
	if _, err := uuid.Parse(value); err != nil {
		return append(errs, FieldError{Field: field, Message: field + " must be a valid UUID"})
	}
	return errs
}

func optionalUUID(errs []FieldError, field string, value *string) []FieldError {
	if value == nil {
		return errs
	}
	if _, err := uuid.Parse(*value); err != nil {
		return append(errs, FieldError{Field: field, Message: field + " must be a valid UUID"})
	}
	return errs
}

func requireGender(errs []FieldError, field, value string) []FieldError {
	if value != "male" && value != "female" {
		return append(errs, FieldError{Field: field, Message: field + ` must be "male" or "female"`})
	}
	return errs
}
