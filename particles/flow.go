package particles

import "fmt"

// FlowField is a read-only view of a square velocity grid. The zero value
// means no fluid is attached. The slices are borrowed: they must not be
// mutated while Update runs and must not be retained past the frame.
type FlowField struct {
	VX, VY []float32
	N      int
}

// NewFlowField checks that vx and vy each hold exactly n*n samples.
func NewFlowField(vx, vy []float32, n int) (FlowField, error) {
	f := FlowField{VX: vx, VY: vy, N: n}
	if err := f.Validate(); err != nil {
		return FlowField{}, err
	}
	return f, nil
}

// Validate reports whether the view is usable. A zero-sized view is valid
// and disables coupling.
func (f FlowField) Validate() error {
	if f.N < 0 {
		return fmt.Errorf("size %d: %w", f.N, ErrOutOfBounds)
	}
	if f.N == 0 {
		return nil
	}
	want := f.N * f.N
	if len(f.VX) != want || len(f.VY) != want {
		return fmt.Errorf("size %d wants %d samples, got vx=%d vy=%d: %w",
			f.N, want, len(f.VX), len(f.VY), ErrSizeMismatch)
	}
	return nil
}

// Active reports whether the view carries a field.
func (f FlowField) Active() bool {
	return f.N > 0 && len(f.VX) > 0 && len(f.VY) > 0
}

// cell maps a particle-space position onto the grid. The grid's y axis
// points down while particle y points up.
func (f FlowField) cell(x, y, extent float32) (int, bool) {
	span := 2 * extent
	n := float32(f.N)
	// int() truncates toward zero, so slightly negative values land on 0.
	mx := int((x + extent) / span * n)
	my := int((-y + extent) / span * n)
	if mx < 0 || mx >= f.N || my < 0 || my >= f.N {
		return 0, false
	}
	return mx + my*f.N, true
}
