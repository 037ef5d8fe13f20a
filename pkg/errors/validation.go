package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationCategory identifies the source of a validation error.
type ValidationCategory string

const (
	// ValidationCategoryInput indicates a precondition violation at a call boundary
	// (negative threshold, non-positive tick count, unordered samples).
	ValidationCategoryInput ValidationCategory = "input"

	// ValidationCategoryConfig indicates a configuration file validation error.
	ValidationCategoryConfig ValidationCategory = "config"

	// ValidationCategorySnapshot indicates a malformed telemetry snapshot.
	ValidationCategorySnapshot ValidationCategory = "snapshot"
)

// ValidationError represents an input, configuration or snapshot validation failure.
//
// Fields:
//   - Category: Source of validation ("input", "config", "snapshot")
//   - Field: Name of the invalid field or argument
//   - Message: Description of what's wrong
//   - Expected: What the valid value should look like
//   - ValidKeys: List of valid options (for enum-like fields)
//   - Hint: Actionable hint for fixing the error
//
// Example:
//
//	return &ValidationError{
//	    Category: ValidationCategoryInput,
//	    Field:    "significanceThresholdPct",
//	    Message:  "must not be negative",
//	    Expected: "a percentage >= 0",
//	}
type ValidationError struct {
	// Category identifies the validation source.
	Category ValidationCategory

	// Field is the name of the field or argument that failed validation.
	Field string

	// Message describes what is wrong with the field.
	Message string

	// Expected describes what a valid value should look like.
	Expected string

	// ValidKeys lists valid options for enum-like fields.
	ValidKeys []string

	// Hint provides an actionable suggestion for fixing the error.
	Hint string
}

// Error implements the error interface.
//
// Formats the error as "<category> <field>: <message>", omitting the parts
// that are not set.
//
// Returns:
//   - string: Formatted error message
func (e *ValidationError) Error() string {
	var sb strings.Builder

	if e.Category == ValidationCategorySnapshot {
		sb.WriteString("invalid snapshot: ")
	}

	switch {
	case e.Field != "" && e.Message != "":
		sb.WriteString(fmt.Sprintf("%s: %s", e.Field, e.Message))
	case e.Field != "":
		sb.WriteString(fmt.Sprintf("%s: invalid value", e.Field))
	default:
		sb.WriteString(e.Message)
	}

	return sb.String()
}

// VerboseError returns a detailed error message with expected values and hints.
//
// Returns:
//   - string: Detailed error with expected values and resolution hint
func (e *ValidationError) VerboseError() string {
	var sb strings.Builder

	sb.WriteString(e.Error())

	if e.Expected != "" {
		sb.WriteString(fmt.Sprintf("\n    Expected: %s", e.Expected))
	}

	if len(e.ValidKeys) > 0 {
		sb.WriteString(fmt.Sprintf("\n    Valid keys: %s", strings.Join(e.ValidKeys, ", ")))
	}

	if e.Hint != "" {
		sb.WriteString(fmt.Sprintf("\n    Hint: %s", e.Hint))
	}

	return sb.String()
}

// IsValidationError checks if err is a ValidationError and returns it.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *ValidationError: The ValidationError if err is one, nil otherwise
//   - bool: true if err is a ValidationError
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// NewInputValidationError creates a ValidationError for a precondition violation.
//
// Parameters:
//   - field: The argument name that failed validation
//   - message: Description of the error
//   - expected: What a valid value looks like
//
// Returns:
//   - *ValidationError: New validation error with input category
//
// Example:
//
//	err := errors.NewInputValidationError("desiredTickCount", "must be positive, got 0", "an integer >= 1")
func NewInputValidationError(field, message, expected string) *ValidationError {
	return &ValidationError{
		Category: ValidationCategoryInput,
		Field:    field,
		Message:  message,
		Expected: expected,
	}
}

// NewConfigValidationError creates a ValidationError for configuration issues.
//
// Parameters:
//   - field: The field name that failed validation
//   - message: Description of the error
//
// Returns:
//   - *ValidationError: New validation error with config category
func NewConfigValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Category: ValidationCategoryConfig,
		Field:    field,
		Message:  message,
	}
}

// NewSnapshotValidationError creates a ValidationError for snapshot content issues.
//
// Parameters:
//   - field: The snapshot field path that failed validation (e.g., "groups[0].versions[1].percentage")
//   - message: Description of the error
//
// Returns:
//   - *ValidationError: New validation error with snapshot category
func NewSnapshotValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Category: ValidationCategorySnapshot,
		Field:    field,
		Message:  message,
	}
}
