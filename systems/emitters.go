package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/vortex/components"
)

// EmitterParams configures spawned emitters and how they wander.
type EmitterParams struct {
	Speed      float32 // Cells per second
	Density    float32 // Density per second
	Force      float32 // Velocity per second along heading
	TurnRate   float32 // Max heading change per second (radians)
	NoiseScale float32 // Noise time scale
}

// EmitterSystem moves emitter entities through the grid and injects their
// dye and momentum into the fluid each frame.
type EmitterSystem struct {
	filter *ecs.Filter3[components.Position, components.Velocity, components.Emitter]
	mapper *ecs.Map3[components.Position, components.Velocity, components.Emitter]
	noise  opensimplex.Noise
	params EmitterParams
}

// NewEmitterSystem creates an emitter system over the given world.
func NewEmitterSystem(w *ecs.World, seed int64, params EmitterParams) *EmitterSystem {
	return &EmitterSystem{
		filter: ecs.NewFilter3[components.Position, components.Velocity, components.Emitter](w),
		mapper: ecs.NewMap3[components.Position, components.Velocity, components.Emitter](w),
		noise:  opensimplex.New(seed),
		params: params,
	}
}

// Spawn creates an emitter at grid position (x, y) facing heading.
// noiseSeed offsets the emitter into the shared noise field.
func (s *EmitterSystem) Spawn(x, y, heading float32, noiseSeed float64) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{
		X: cosf(heading) * s.params.Speed,
		Y: sinf(heading) * s.params.Speed,
	}
	em := components.Emitter{
		Heading:   normalizeHeading(heading),
		Speed:     s.params.Speed,
		Density:   s.params.Density,
		Force:     s.params.Force,
		NoiseSeed: noiseSeed,
	}
	return s.mapper.NewEntity(&pos, &vel, &em)
}

// Update advances every emitter by dt and injects into t. Emitters reflect
// off the grid's outer ring. Returns the number of emitters processed.
func (s *EmitterSystem) Update(dt float32, t FluidTarget) int {
	n := t.Size()
	lo := float32(1)
	hi := float32(n - 2)

	count := 0
	query := s.filter.Query()
	for query.Next() {
		pos, vel, em := query.Get()
		em.Age += dt

		wander := float32(s.noise.Eval2(em.NoiseSeed, float64(em.Age*s.params.NoiseScale)))
		em.Heading = normalizeHeading(em.Heading + wander*s.params.TurnRate*dt)

		vel.X = cosf(em.Heading) * em.Speed
		vel.Y = sinf(em.Heading) * em.Speed
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt

		// Reflect off walls
		bounced := false
		if pos.X < lo || pos.X > hi {
			pos.X = clampFloat(pos.X, lo, hi)
			vel.X = -vel.X
			bounced = true
		}
		if pos.Y < lo || pos.Y > hi {
			pos.Y = clampFloat(pos.Y, lo, hi)
			vel.Y = -vel.Y
			bounced = true
		}
		if bounced {
			em.Heading = normalizeHeading(float32(math.Atan2(float64(vel.Y), float64(vel.X))))
		}

		cx, cy := int(pos.X), int(pos.Y)
		t.AddDensity(cx, cy, em.Density*dt)
		t.AddVelocity(cx, cy, cosf(em.Heading)*em.Force*dt, sinf(em.Heading)*em.Force*dt)
		count++
	}
	return count
}

// Count returns the number of live emitters.
func (s *EmitterSystem) Count() int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Clear removes every emitter.
func (s *EmitterSystem) Clear() {
	var toRemove []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		s.mapper.Remove(e)
	}
}
