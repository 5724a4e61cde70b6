package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Schema errors: a referenced column does not exist or has the wrong type
	ErrSchema         = errors.New("schema error")
	ErrColumnNotFound = fmt.Errorf("%w: column not found", ErrSchema)
	ErrNotCategorical = fmt.Errorf("%w: column is not categorical", ErrSchema)

	// Fitting errors
	ErrFitFailed        = errors.New("model fit failed")
	ErrSingularDesign   = fmt.Errorf("%w: singular design matrix", ErrFitFailed)
	ErrNoConvergence    = fmt.Errorf("%w: solver did not converge", ErrFitFailed)
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Input errors
	ErrInvalidThreshold = errors.New("threshold must be a positive integer")
	ErrNotFound         = errors.New("resource not found")
)

// Error constructors with context
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, column)
}

func NewNotCategoricalError(column string) error {
	return fmt.Errorf("%w: %q", ErrNotCategorical, column)
}

func NewFitError(outcome string, err error) error {
	return fmt.Errorf("%w for outcome %q: %v", ErrFitFailed, outcome, err)
}

// Error checking helpers
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchema)
}

func IsFitError(err error) bool {
	return errors.Is(err, ErrFitFailed)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
