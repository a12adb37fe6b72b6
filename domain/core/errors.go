package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Precondition errors: the test is not executed
	ErrPrecondition            = errors.New("precondition violated")
	ErrInsufficientData        = fmt.Errorf("%w: insufficient data", ErrPrecondition)
	ErrUnequalSampleSizes      = fmt.Errorf("%w: unequal sample sizes", ErrPrecondition)
	ErrTooFewGroups            = fmt.Errorf("%w: too few groups", ErrPrecondition)
	ErrConstantVariable        = fmt.Errorf("%w: constant variable", ErrPrecondition)
	ErrInvalidContingencyTable = fmt.Errorf("%w: invalid contingency table", ErrPrecondition)
	ErrInvalidFrequencies      = fmt.Errorf("%w: invalid frequencies", ErrPrecondition)
	ErrInvalidParameter        = fmt.Errorf("%w: invalid parameter", ErrPrecondition)

	// Dispatch errors
	ErrUnknownTest = errors.New("unknown statistical test")
)

// Error constructors with context

func NewInsufficientDataError(test string, need, got int) error {
	return fmt.Errorf("%w: %s needs at least %d observations, got %d", ErrInsufficientData, test, need, got)
}

func NewUnequalSampleSizesError(test string, n1, n2 int) error {
	return fmt.Errorf("%w: %s requires equal sample sizes (%d vs %d)", ErrUnequalSampleSizes, test, n1, n2)
}

func NewTooFewGroupsError(test string, got int) error {
	return fmt.Errorf("%w: %s requires at least 2 groups, got %d", ErrTooFewGroups, test, got)
}

// NewPreconditionError attaches a reason to one of the precondition sentinels.
func NewPreconditionError(kind error, reason string) error {
	return fmt.Errorf("%w: %s", kind, reason)
}

// Error checking helpers
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrPrecondition)
}
