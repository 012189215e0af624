// Package validator provides a thin wrapper around the go-playground/validator
// library, enabling declarative struct validation with standardized error
// formatting via tags (e.g. `validate:"required"`).
package validator

import (
	"errors"
	"fmt"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed is returned as the first error in a multi-error chain
// when validation fails, so callers can detect validation failures explicitly
// even when multiple field errors are returned.
var ErrValidationFailed = errors.New("struct validation failed")

// validator is a singleton instance of the go-playground validator,
// initialized automatically on package load.
var validator *gvalidator.Validate

func init() {
	validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())
}

// formatError transforms a raw validator error into a structured,
// human-readable multi-error chain rooted at ErrValidationFailed. Errors that
// are not validation errors are returned unchanged.
func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, validationErr := range validationErrors {
		err := fmt.Errorf("'%s': value '%v' does not meet the requirements for the '%s' validation",
			validationErr.Field(),
			validationErr.Value(),
			validationErr.Tag(),
		)

		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Validate checks whether the given struct satisfies its validation tags.
// It returns nil when all fields pass, or a combined error that includes
// ErrValidationFailed and one formatted message per failing field.
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}
