package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/vortex/ui"
)

// Update reads raylib input and runs stepsPerUpdate frames unless paused.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}

	in := g.readInput()
	dt := rl.GetFrameTime()
	if dt <= 0 || dt > 0.1 {
		dt = g.cfg.Derived.FrameDT32
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		if err := g.Frame(dt, in); err != nil {
			slog.Error("frame failed", "tick", g.tick, "error", err)
			g.paused = true
			return
		}
		// Scroll is a one-shot impulse
		in.Scroll = 0
	}
}

// Draw renders the fluid, the particles and the overlays.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.background.Draw()

	g.fluidView.Update(g.sim.Density(), g.sim.Size())
	g.fluidView.Draw()

	g.particleView.Draw(g.camera, g.particles.Positions(), g.particles.Colors(), g.particles.Sizes())

	g.hud.Draw(ui.HUDData{
		Title:         "Vortex",
		Tick:          g.tick,
		FPS:           rl.GetFPS(),
		Particles:     g.particles.Count(),
		Emitters:      g.emitters.Count(),
		Mass:          g.sim.Mass(),
		KineticEnergy: g.sim.KineticEnergy(),
		Coupling:      g.coupling,
		EmittersOn:    g.emittersOn,
		Paused:        g.paused,
	})

	if g.showPerf {
		g.drawPerfPanel()
	}
	if g.showProbe {
		d := g.probe()
		if d.Inside {
			x, y, w, h := g.camera.GridToScreen(d.GridX, d.GridY, g.sim.Size())
			rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, 1, rl.White)
		}
		g.probePanel.Draw(d)
	}

	bindings := g.bindings()
	g.controls.SetPosition(10, int32(rl.GetScreenHeight())-g.controls.Height(len(bindings))-10)
	g.controls.Draw(bindings)

	rl.EndDrawing()
}

func (g *Game) drawPerfPanel() {
	g.perfCollector.SampleProcess()
	stats := g.perfCollector.Stats()
	g.perfPanel.Draw(ui.PerfPanelData{
		SystemTimes: stats.PhaseAvg,
		Total:       stats.AvgTickDuration,
		RSSBytes:    stats.RSSBytes,
		CPUPercent:  stats.CPUPercent,
		Registry:    g.registry,
	})
}

// probe samples the fluid cell under the last cursor.
func (g *Game) probe() ui.ProbeData {
	in := g.lastInput
	n := g.sim.Size()
	gx, gy := g.camera.ScreenToGrid(in.CursorX, in.CursorY, n)
	wx, wy := g.camera.ScreenToWorld(in.CursorX, in.CursorY)

	params := g.particles.Params()
	d := ui.ProbeData{
		GridX:       gx,
		GridY:       gy,
		WorldX:      wx,
		WorldY:      wy,
		DT:          g.sim.DT(),
		Diffusion:   g.sim.Diffusion(),
		Viscosity:   g.sim.Viscosity(),
		Iterations:  g.sim.Iterations(),
		FieldExtent: params.FieldExtent,
		RepelRadius: params.RepelRadius,
	}
	if in.Present && gx >= 0 && gy >= 0 && gx < n && gy < n {
		d.Inside = true
		d.Density, d.VX, d.VY = g.sim.At(gx, gy)
	}
	return d
}
