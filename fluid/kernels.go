package fluid

import "math"

// Boundary selects how SetBoundary treats the edge cells of a field.
type Boundary uint8

const (
	BoundaryScalar Boundary = iota // density, pressure: edges copy their neighbor
	BoundaryX                      // x-velocity: left/right edges negate
	BoundaryY                      // y-velocity: top/bottom edges negate
)

// DefaultIterations is the number of relaxation sweeps per LinSolve call.
// Four sweeps are visually stable at interactive frame rates; the solve is
// not checked for convergence.
const DefaultIterations = 4

// SetBoundary overwrites the edge cells of an n×n field so fluid cannot leave
// the grid. Velocity components normal to a wall are reflected; corners take
// the mean of their two edge neighbors.
func SetBoundary(b Boundary, x []float32, n int) {
	if n < 3 {
		return
	}
	for i := 1; i < n-1; i++ {
		top := x[i+n]
		bottom := x[i+(n-2)*n]
		if b == BoundaryY {
			top, bottom = -top, -bottom
		}
		x[i] = top
		x[i+(n-1)*n] = bottom
	}
	for j := 1; j < n-1; j++ {
		left := x[1+j*n]
		right := x[(n-2)+j*n]
		if b == BoundaryX {
			left, right = -left, -right
		}
		x[j*n] = left
		x[(n-1)+j*n] = right
	}

	x[0] = 0.5 * (x[1] + x[n])
	x[(n-1)*n] = 0.5 * (x[1+(n-1)*n] + x[(n-2)*n])
	x[n-1] = 0.5 * (x[n-2] + x[(n-1)+n])
	x[(n-1)+(n-1)*n] = 0.5 * (x[(n-2)+(n-1)*n] + x[(n-1)+(n-2)*n])
}

// LinSolve relaxes x = (x0 + a·Σneighbors(x)) / c over the interior cells
// with a fixed number of Gauss-Seidel sweeps, re-applying the boundary after
// each sweep.
func LinSolve(b Boundary, x, x0 []float32, a, c float32, n, iterations int) {
	if n < 3 {
		return
	}
	cRecip := 1 / c
	for k := 0; k < iterations; k++ {
		for j := 1; j < n-1; j++ {
			row := j * n
			for i := 1; i < n-1; i++ {
				idx := i + row
				x[idx] = (x0[idx] + a*(x[idx+1]+x[idx-1]+x[idx+n]+x[idx-n])) * cRecip
			}
		}
		SetBoundary(b, x, n)
	}
}

// Diffuse spreads x0 into x implicitly, so it stays stable for any dt.
func Diffuse(b Boundary, x, x0 []float32, diff, dt float32, n, iterations int) {
	inner := float32(n - 2)
	a := dt * diff * inner * inner
	LinSolve(b, x, x0, a, 1+6*a, n, iterations)
}

// Project removes the divergent part of (vx, vy). p and div are scratch
// buffers and are overwritten.
func Project(vx, vy, p, div []float32, n, iterations int) {
	if n < 3 {
		return
	}
	nf := float32(n)
	for j := 1; j < n-1; j++ {
		row := j * n
		for i := 1; i < n-1; i++ {
			idx := i + row
			div[idx] = -0.5 * (vx[idx+1] - vx[idx-1] + vy[idx+n] - vy[idx-n]) / nf
			p[idx] = 0
		}
	}
	SetBoundary(BoundaryScalar, div, n)
	SetBoundary(BoundaryScalar, p, n)
	LinSolve(BoundaryScalar, p, div, 1, 6, n, iterations)

	for j := 1; j < n-1; j++ {
		row := j * n
		for i := 1; i < n-1; i++ {
			idx := i + row
			vx[idx] -= 0.5 * (p[idx+1] - p[idx-1]) * nf
			vy[idx] -= 0.5 * (p[idx+n] - p[idx-n]) * nf
		}
	}
	SetBoundary(BoundaryX, vx, n)
	SetBoundary(BoundaryY, vy, n)
}

// Advect moves d0 along (vx, vy) into d by tracing each interior cell
// backwards and sampling bilinearly. There is no CFL limit; large dt only
// adds numerical diffusion.
func Advect(b Boundary, d, d0, vx, vy []float32, dt float32, n int) {
	if n < 3 {
		return
	}
	dt0 := dt * float32(n-2)
	nf := float32(n)

	for j := 1; j < n-1; j++ {
		row := j * n
		for i := 1; i < n-1; i++ {
			idx := i + row
			x := float32(i) - dt0*vx[idx]
			y := float32(j) - dt0*vy[idx]

			x = clampf(x, 0.5, nf+0.5)
			y = clampf(y, 0.5, nf+0.5)

			fi := float32(math.Floor(float64(x)))
			fj := float32(math.Floor(float64(y)))

			s1 := x - fi
			s0 := 1 - s1
			t1 := y - fj
			t0 := 1 - t1

			// The traced point may land past the last cell; saturate the
			// stencil instead of reading outside the grid.
			i0 := clampi(int(fi), 0, n-1)
			i1 := clampi(int(fi)+1, 0, n-1)
			j0 := clampi(int(fj), 0, n-1) * n
			j1 := clampi(int(fj)+1, 0, n-1) * n

			d[idx] = s0*(t0*d0[i0+j0]+t1*d0[i0+j1]) +
				s1*(t0*d0[i1+j0]+t1*d0[i1+j1])
		}
	}
	SetBoundary(b, d, n)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
