package ring

import "errors"

var (
	// ErrInvalidCapacity is returned by New when the capacity is not a
	// positive power of two.
	ErrInvalidCapacity = errors.New("ring: capacity must be a positive power of two")

	// ErrAllocation is returned by New when the backing storage cannot be
	// obtained.
	ErrAllocation = errors.New("ring: cannot allocate storage")
)
