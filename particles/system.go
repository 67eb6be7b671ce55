// Package particles animates an orbital particle ensemble. Particles circle
// on flattened rings, drift with an optional fluid velocity field, are pushed
// away from the cursor and pulse in size.
package particles

import (
	"fmt"
	"math"
	"math/rand"
)

// System holds per-particle state in flat arrays ready for upload to a
// renderer: three floats per particle for positions, speeds and colors.
type System struct {
	params Params
	count  int
	time   float32

	positions  []float32 // x, y, z
	velocities []float32 // angular speed, reserved, reserved
	colors     []float32 // r, g, b
	sizes      []float32 // pulsed size, rewritten every update
	baseSizes  []float32 // construction-time size, never modified
	angles     []float32

	// Last update counters
	coupled  int
	repelled int
}

// New lays out count particles on a spiral across the rings. All randomness
// comes from rng so construction is reproducible for a given seed.
func New(count int, rng *rand.Rand, params Params) (*System, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count %d: %w", count, ErrInvalidDimension)
	}
	if rng == nil {
		return nil, ErrNilSource
	}

	s := &System{
		params:     params,
		count:      count,
		positions:  make([]float32, count*3),
		velocities: make([]float32, count*3),
		colors:     make([]float32, count*3),
		sizes:      make([]float32, count),
		baseSizes:  make([]float32, count),
		angles:     make([]float32, count),
	}

	for i := 0; i < count; i++ {
		ring := i % NumRings
		radius := params.BaseRadius + float32(ring)*params.RingSpacing
		angle := float32(i) / float32(count) * 2 * math.Pi * params.SpiralTurns
		s.angles[i] = angle

		idx := i * 3
		s.positions[idx] = cos32(angle) * radius
		s.positions[idx+1] = sin32(angle) * radius * params.Flatten
		s.positions[idx+2] = params.DepthBase - rng.Float32()*params.DepthJitter

		s.velocities[idx] = params.SpeedMin + rng.Float32()*params.SpeedJitter

		c := Palette[ring]
		s.colors[idx] = c[0]
		s.colors[idx+1] = c[1]
		s.colors[idx+2] = c[2]

		size := rng.Float32()*params.SizeJitter + params.SizeMin
		s.sizes[i] = size
		s.baseSizes[i] = size
	}

	return s, nil
}

// Update advances the clock by dt and recomputes every particle. When flow
// is active its velocity displaces particles; cursor coordinates share the
// particle space. An invalid flow view is rejected before any state changes.
func (s *System) Update(dt, cursorX, cursorY float32, flow FlowField) error {
	if err := flow.Validate(); err != nil {
		return err
	}
	coupling := flow.Active()

	p := &s.params
	s.time += dt
	s.coupled = 0
	s.repelled = 0

	cx := cursorX * p.CursorScale
	cy := cursorY * p.CursorScale
	step := dt * p.ReferenceFPS

	for i := 0; i < s.count; i++ {
		idx := i * 3
		ring := float32(i % NumRings)

		s.angles[i] += s.velocities[idx] * step

		radius := p.BaseRadius + ring*p.RingSpacing
		radius += sin32(s.time*p.WaveRate+ring) * p.WaveAmplitude

		angle := s.angles[i]
		x := cos32(angle) * radius
		y := sin32(angle) * radius * p.Flatten

		if coupling {
			if cell, ok := flow.cell(x, y, p.FieldExtent); ok {
				x += flow.VX[cell] * p.CouplingGain
				y -= flow.VY[cell] * p.CouplingGain
				s.coupled++
			}
		}

		z := p.DepthBase - ring*p.DepthRingStep +
			sin32(s.time*p.DepthWaveRate+float32(i)*p.DepthPhaseStep)*p.DepthWave

		dx := x - cx
		dy := y - cy
		dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		if dist < p.RepelMinDist {
			dist = p.RepelMinDist
		}
		if dist < p.RepelRadius {
			push := (p.RepelRadius - dist) / p.RepelRadius * p.RepelStrength
			x += dx / dist * push
			y += dy / dist * push
			s.repelled++
		}

		s.positions[idx] = x
		s.positions[idx+1] = y
		s.positions[idx+2] = z

		pulse := 1 + sin32(s.time*p.PulseRate+float32(i)*p.PulsePhaseStep)*p.PulseAmplitude
		s.sizes[i] = clamp32(s.baseSizes[i]*pulse, p.SizeFloor, p.SizeCeil)
	}

	return nil
}

// Positions returns x, y, z per particle. The slice aliases internal state
// and is rewritten by the next Update.
func (s *System) Positions() []float32 { return s.positions }

// Colors returns r, g, b per particle.
func (s *System) Colors() []float32 { return s.colors }

// Sizes returns the pulsed size per particle.
func (s *System) Sizes() []float32 { return s.sizes }

// Angles returns the accumulated orbital angle per particle.
func (s *System) Angles() []float32 { return s.angles }

// Count returns the number of particles.
func (s *System) Count() int { return s.count }

// Time returns the accumulated simulation time.
func (s *System) Time() float32 { return s.time }

// Params returns the kinematics the system was built with.
func (s *System) Params() Params { return s.params }

// Coupled returns how many particles sampled the flow field in the last update.
func (s *System) Coupled() int { return s.coupled }

// Repelled returns how many particles the cursor pushed in the last update.
func (s *System) Repelled() int { return s.repelled }

func sin32(v float32) float32 { return float32(math.Sin(float64(v))) }
func cos32(v float32) float32 { return float32(math.Cos(float64(v))) }

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
