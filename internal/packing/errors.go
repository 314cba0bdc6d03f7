package packing

import "errors"

var (
	// ErrMalformedProblem is returned when a problem instance cannot be searched:
	// missing capacity, empty item set, or invalid item records.
	ErrMalformedProblem = errors.New("malformed problem instance")
	// ErrItemNotFound is returned when an item id is not present in a container.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidWeights is returned when a cost weight is negative or not finite.
	ErrInvalidWeights = errors.New("cost weights must be finite and non-negative")
)
