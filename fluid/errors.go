package fluid

import "errors"

var (
	// ErrInvalidDimension is returned for grids too small to have interior cells.
	ErrInvalidDimension = errors.New("fluid: grid size must be at least 3")

	// ErrInvalidParameter is returned for a non-positive dt or negative rates.
	ErrInvalidParameter = errors.New("fluid: invalid simulation parameter")
)
