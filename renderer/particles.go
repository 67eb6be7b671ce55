package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/vortex/camera"
)

// ParticleRenderer draws the orbital particles as additive glowing discs.
type ParticleRenderer struct {
	sizeScale float32 // Particle units per unit of size
	opacity   uint8
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(sizeScale float32) *ParticleRenderer {
	return &ParticleRenderer{sizeScale: sizeScale, opacity: 204}
}

// Draw projects and renders every particle. Buffers are the flat x,y,z /
// r,g,b / size arrays exposed by the particle system.
func (r *ParticleRenderer) Draw(cam *camera.Camera, positions, colors, sizes []float32) {
	count := len(sizes)
	if len(positions) < count*3 || len(colors) < count*3 {
		return
	}

	rl.BeginBlendMode(rl.BlendAdditive)
	for i := 0; i < count; i++ {
		idx := i * 3
		sx, sy, scale, ok := cam.Project(positions[idx], positions[idx+1], positions[idx+2])
		if !ok {
			continue
		}
		if sx < -50 || sy < -50 || sx > cam.ViewportW+50 || sy > cam.ViewportH+50 {
			continue
		}

		radius := sizes[i] * r.sizeScale * scale
		if radius < 0.5 {
			radius = 0.5
		}
		c := rl.Color{
			R: channel(colors[idx]),
			G: channel(colors[idx+1]),
			B: channel(colors[idx+2]),
			A: r.opacity,
		}
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, c)
	}
	rl.EndBlendMode()
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
