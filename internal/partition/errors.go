package partition

import "errors"

var (
	// ErrInvalidBinCount is returned when the requested number of bins is not positive.
	ErrInvalidBinCount = errors.New("number of bins must be a positive integer")

	// ErrEmptyInput is returned when no items are supplied for partitioning.
	ErrEmptyInput = errors.New("at least one item is required")

	// ErrInvalidValue is returned when an item weight is negative or not a finite number.
	ErrInvalidValue = errors.New("item weights must be non-negative finite numbers")
)
