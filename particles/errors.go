package particles

import "errors"

var (
	// ErrInvalidDimension is returned for a non-positive particle count.
	ErrInvalidDimension = errors.New("particles: count must be positive")

	// ErrNilSource is returned when no random source is supplied.
	ErrNilSource = errors.New("particles: nil random source")

	// ErrSizeMismatch is returned when a flow field view does not hold
	// exactly N² samples per component.
	ErrSizeMismatch = errors.New("particles: flow field length does not match size")

	// ErrOutOfBounds is returned for a negative flow field size.
	ErrOutOfBounds = errors.New("particles: flow field size out of bounds")
)
