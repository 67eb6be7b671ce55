// Package fluid implements a grid-based stable-fluids solver: implicit
// diffusion, semi-Lagrangian advection and a pressure projection that keeps
// the velocity field incompressible.
package fluid

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas32"
)

// Simulator owns the density and velocity fields of a square N×N grid.
// Cell (x, y) lives at index x + y*N in every buffer.
type Simulator struct {
	size       int
	dt         float32
	diffusion  float32
	viscosity  float32
	iterations int

	density []float32
	source  []float32 // density diffusion scratch
	vx      []float32
	vy      []float32
	vx0     []float32
	vy0     []float32
}

// NewSimulator allocates a zeroed simulator.
func NewSimulator(size int, dt, diffusion, viscosity float32) (*Simulator, error) {
	if size < 3 {
		return nil, fmt.Errorf("size %d: %w", size, ErrInvalidDimension)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("dt %v: %w", dt, ErrInvalidParameter)
	}
	if diffusion < 0 || viscosity < 0 {
		return nil, fmt.Errorf("diffusion %v, viscosity %v: %w", diffusion, viscosity, ErrInvalidParameter)
	}

	n := size * size
	return &Simulator{
		size:       size,
		dt:         dt,
		diffusion:  diffusion,
		viscosity:  viscosity,
		iterations: DefaultIterations,
		density:    make([]float32, n),
		source:     make([]float32, n),
		vx:         make([]float32, n),
		vy:         make([]float32, n),
		vx0:        make([]float32, n),
		vy0:        make([]float32, n),
	}, nil
}

// SetIterations sets the relaxation sweep count used by every solve.
// Values below 1 are raised to 1.
func (s *Simulator) SetIterations(n int) {
	if n < 1 {
		n = 1
	}
	s.iterations = n
}

// Iterations returns the relaxation sweep count.
func (s *Simulator) Iterations() int { return s.iterations }

// Size returns the grid side length.
func (s *Simulator) Size() int { return s.size }

// DT returns the fixed time step.
func (s *Simulator) DT() float32 { return s.dt }

// Diffusion returns the density diffusion rate.
func (s *Simulator) Diffusion() float32 { return s.diffusion }

// Viscosity returns the velocity diffusion rate.
func (s *Simulator) Viscosity() float32 { return s.viscosity }

// index clamps (x, y) into the grid.
func (s *Simulator) index(x, y int) int {
	x = clampi(x, 0, s.size-1)
	y = clampi(y, 0, s.size-1)
	return x + y*s.size
}

// AddDensity adds amount to the cell at (x, y). Out-of-range coordinates
// saturate to the nearest edge cell.
func (s *Simulator) AddDensity(x, y int, amount float32) {
	s.density[s.index(x, y)] += amount
}

// AddVelocity adds (dx, dy) to the velocity at (x, y).
func (s *Simulator) AddVelocity(x, y int, dx, dy float32) {
	i := s.index(x, y)
	s.vx[i] += dx
	s.vy[i] += dy
}

// Step advances the simulation by one dt.
//
// The buffer roles swap between stages: the first projection uses vx/vy as
// pressure and divergence scratch, the second uses vx0/vy0.
func (s *Simulator) Step() {
	n, it, dt := s.size, s.iterations, s.dt

	Diffuse(BoundaryX, s.vx0, s.vx, s.viscosity, dt, n, it)
	Diffuse(BoundaryY, s.vy0, s.vy, s.viscosity, dt, n, it)

	Project(s.vx0, s.vy0, s.vx, s.vy, n, it)

	Advect(BoundaryX, s.vx, s.vx0, s.vx0, s.vy0, dt, n)
	Advect(BoundaryY, s.vy, s.vy0, s.vx0, s.vy0, dt, n)

	Project(s.vx, s.vy, s.vx0, s.vy0, n, it)

	Diffuse(BoundaryScalar, s.source, s.density, s.diffusion, dt, n, it)
	Advect(BoundaryScalar, s.density, s.source, s.vx, s.vy, dt, n)
}

// Reset zeroes every field.
func (s *Simulator) Reset() {
	for _, buf := range [][]float32{s.density, s.source, s.vx, s.vy, s.vx0, s.vy0} {
		clear(buf)
	}
}

// Density returns the density field. The slice aliases simulator memory and
// changes on the next Step or injection.
func (s *Simulator) Density() []float32 { return s.density }

// VX returns the x-velocity field (aliased, see Density).
func (s *Simulator) VX() []float32 { return s.vx }

// VY returns the y-velocity field (aliased, see Density).
func (s *Simulator) VY() []float32 { return s.vy }

// At returns density and velocity of the clamped cell (x, y).
func (s *Simulator) At(x, y int) (density, vx, vy float32) {
	i := s.index(x, y)
	return s.density[i], s.vx[i], s.vy[i]
}

// Mass returns the total density over the grid, edges included.
func (s *Simulator) Mass() float64 {
	var sum float64
	for _, d := range s.density {
		sum += float64(d)
	}
	return sum
}

// KineticEnergy returns ½Σ|v|² over the grid.
func (s *Simulator) KineticEnergy() float64 {
	vx := blas32.Vector{N: len(s.vx), Inc: 1, Data: s.vx}
	vy := blas32.Vector{N: len(s.vy), Inc: 1, Data: s.vy}
	return 0.5 * (float64(blas32.Dot(vx, vx)) + float64(blas32.Dot(vy, vy)))
}

// MaxSpeed returns the largest absolute velocity component on the grid.
func (s *Simulator) MaxSpeed() float32 {
	vx := blas32.Vector{N: len(s.vx), Inc: 1, Data: s.vx}
	vy := blas32.Vector{N: len(s.vy), Inc: 1, Data: s.vy}
	mx := abs32(s.vx[blas32.Iamax(vx)])
	my := abs32(s.vy[blas32.Iamax(vy)])
	if my > mx {
		return my
	}
	return mx
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
