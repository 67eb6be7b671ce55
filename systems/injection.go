package systems

import "math/rand"

// FluidTarget receives density and velocity injections in grid cells.
// fluid.Simulator satisfies it.
type FluidTarget interface {
	Size() int
	AddDensity(x, y int, amount float32)
	AddVelocity(x, y int, dx, dy float32)
}

// PointerInjector turns pointer hover and motion into dye and momentum.
// While the pointer stays inside the grid it deposits density every frame;
// once hovering, the motion since the previous frame becomes velocity.
type PointerInjector struct {
	Density      float32 // Density per frame under the pointer
	VelocityGain float32 // Cell delta to velocity

	hovering     bool
	lastX, lastY int
}

// NewPointerInjector creates an injector with the given density and gain.
func NewPointerInjector(density, velocityGain float32) *PointerInjector {
	return &PointerInjector{Density: density, VelocityGain: velocityGain}
}

// Apply injects at grid cell (x, y). present reports whether the pointer is
// over the canvas at all. Cells on the outer ring do not count as inside.
// Returns true if anything was injected.
func (p *PointerInjector) Apply(t FluidTarget, x, y int, present bool) bool {
	n := t.Size()
	if !present || x <= 0 || y <= 0 || x >= n || y >= n {
		p.hovering = false
		return false
	}

	t.AddDensity(x, y, p.Density)
	if p.hovering {
		dx := float32(x-p.lastX) * p.VelocityGain
		dy := float32(y-p.lastY) * p.VelocityGain
		if dx != 0 || dy != 0 {
			t.AddVelocity(x, y, dx, dy)
		}
	}

	p.lastX, p.lastY = x, y
	p.hovering = true
	return true
}

// Hovering reports whether the last Apply was inside the grid.
func (p *PointerInjector) Hovering() bool { return p.hovering }

// Reset forgets the hover state so the next frame starts fresh.
func (p *PointerInjector) Reset() { p.hovering = false }

// ScrollInjector pushes a sheet of upward velocity along a row near the
// bottom of the grid, sprinkling density into some columns.
type ScrollInjector struct {
	Strength float32 // Scroll delta to velocity
	Density  float32 // Density per unit of |velocity|
	Chance   float32 // Per-column probability of density
	RowInset int     // Row distance from the bottom edge
	Stride   int     // Column step

	rng *rand.Rand
}

// NewScrollInjector creates a scroll injector drawing from rng.
func NewScrollInjector(strength, density, chance float32, rowInset, stride int, rng *rand.Rand) *ScrollInjector {
	if stride < 1 {
		stride = 1
	}
	return &ScrollInjector{
		Strength: strength,
		Density:  density,
		Chance:   chance,
		RowInset: rowInset,
		Stride:   stride,
		rng:      rng,
	}
}

// Apply injects a scroll of the given delta and returns the number of
// columns touched. Deltas with magnitude <= 1 are ignored as wheel noise.
func (s *ScrollInjector) Apply(t FluidTarget, delta float32) int {
	if absf(delta) <= 1 {
		return 0
	}
	n := t.Size()
	strength := delta * s.Strength
	row := n - s.RowInset
	if row < 0 {
		row = 0
	}
	if row > n-1 {
		row = n - 1
	}

	cols := 0
	for x := 0; x < n; x += s.Stride {
		t.AddVelocity(x, row, 0, -strength)
		if s.rng != nil && s.rng.Float32() < s.Chance {
			t.AddDensity(x, row, absf(strength)*s.Density)
		}
		cols++
	}
	return cols
}
