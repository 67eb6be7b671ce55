// Fluid solver preview tool - stir the grid with the mouse and tune the
// solver with sliders.
//
// Usage: go run ./cmd/fluidpreview
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/vortex/fluid"
	"github.com/pthm-cable/vortex/renderer"
	"github.com/pthm-cable/vortex/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

// SolverParams holds the tunable solver settings. Diffusion and viscosity
// are edited as log10 exponents.
type SolverParams struct {
	Size         int
	DT           float32
	DiffusionExp float32
	ViscosityExp float32
	Iterations   int
	HoverDensity float32
	VelocityGain float32
}

func defaultParams() SolverParams {
	return SolverParams{
		Size:         128,
		DT:           0.1,
		DiffusionExp: -4,
		ViscosityExp: -4,
		Iterations:   4,
		HoverDensity: 100,
		VelocityGain: 5,
	}
}

func (p SolverParams) diffusion() float32 { return float32(math.Pow(10, float64(p.DiffusionExp))) }
func (p SolverParams) viscosity() float32 { return float32(math.Pow(10, float64(p.ViscosityExp))) }

// preview owns the simulator and its texture; both are rebuilt when the
// grid size changes.
type preview struct {
	sim     *fluid.Simulator
	pointer *systems.PointerInjector
	tex     rl.Texture2D
	pixels  []color.RGBA
	tint    color.RGBA
}

func newPreview(p SolverParams) (*preview, error) {
	sim, err := fluid.NewSimulator(p.Size, p.DT, p.diffusion(), p.viscosity())
	if err != nil {
		return nil, err
	}
	sim.SetIterations(p.Iterations)

	img := rl.GenImageColor(p.Size, p.Size, rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(tex, rl.FilterBilinear)

	return &preview{
		sim:     sim,
		pointer: systems.NewPointerInjector(p.HoverDensity, p.VelocityGain),
		tex:     tex,
		tint:    color.RGBA{R: 168, G: 85, B: 247, A: 255},
	}, nil
}

func (pv *preview) unload() {
	rl.UnloadTexture(pv.tex)
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Fluid Solver Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	params := defaultParams()
	pv, err := newPreview(params)
	if err != nil {
		slog.Error("failed to create simulator", "error", err)
		os.Exit(1)
	}
	defer func() { pv.unload() }()

	paused := false

	for !rl.WindowShouldClose() {
		// Mouse over the preview stirs the grid
		mouse := rl.GetMousePosition()
		n := pv.sim.Size()
		gx := int(math.Floor(float64((mouse.X - 10) / previewSize * float32(n))))
		gy := int(math.Floor(float64((mouse.Y - 10) / previewSize * float32(n))))
		over := mouse.X >= 10 && mouse.Y >= 10 && mouse.X < 10+previewSize && mouse.Y < 10+previewSize

		if !paused {
			pv.pointer.Apply(pv.sim, gx, gy, over)
			pv.sim.Step()
		}

		pv.pixels = renderer.DensityPixels(pv.pixels, pv.sim.Density(), pv.tint)
		rl.UpdateTexture(pv.tex, pv.pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawRectangle(10, 10, previewSize, previewSize, rl.Black)
		rl.DrawTexturePro(
			pv.tex,
			rl.Rectangle{X: 0, Y: 0, Width: float32(n), Height: float32(n)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Mass: %.2f  Energy: %.4f  Max speed: %.3f",
			pv.sim.Mass(), pv.sim.KineticEnergy(), pv.sim.MaxSpeed()), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("FPS: %d", rl.GetFPS()), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Solver Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rebuild := false
		var v float32

		v, panelY = slider(panelX, panelY, "Grid size (rebuilds)", "16", "256", float32(params.Size), 16, 256, "%.0f")
		if size := int(v) &^ 7; size != params.Size && size >= 16 {
			params.Size = size
			rebuild = true
		}

		v, panelY = slider(panelX, panelY, "Time step", "0.01", "0.5", params.DT, 0.01, 0.5, "%.2f")
		if v != params.DT {
			params.DT = v
			rebuild = true
		}

		v, panelY = slider(panelX, panelY, "Diffusion (log10)", "-7", "-1", params.DiffusionExp, -7, -1, "%.1f")
		if v != params.DiffusionExp {
			params.DiffusionExp = v
			rebuild = true
		}

		v, panelY = slider(panelX, panelY, "Viscosity (log10)", "-7", "-1", params.ViscosityExp, -7, -1, "%.1f")
		if v != params.ViscosityExp {
			params.ViscosityExp = v
			rebuild = true
		}

		v, panelY = slider(panelX, panelY, "Relaxation iterations", "1", "20", float32(params.Iterations), 1, 20, "%.0f")
		if int(v) != params.Iterations {
			params.Iterations = int(v)
			pv.sim.SetIterations(params.Iterations)
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		v, panelY = slider(panelX, panelY, "Hover density", "0", "400", params.HoverDensity, 0, 400, "%.0f")
		if v != params.HoverDensity {
			params.HoverDensity = v
			pv.pointer.Density = v
		}

		v, panelY = slider(panelX, panelY, "Velocity gain", "0", "20", params.VelocityGain, 0, 20, "%.1f")
		if v != params.VelocityGain {
			params.VelocityGain = v
			pv.pointer.VelocityGain = v
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Clear") {
			pv.sim.Reset()
			pv.pointer.Reset()
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			rebuild = true
		}
		panelY += 55

		yaml := fluidYAML(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()

		if rebuild {
			next, err := newPreview(params)
			if err != nil {
				slog.Warn("rejected solver parameters", "error", err)
				continue
			}
			pv.unload()
			pv = next
		}
	}
}

// slider draws a labelled slider and returns its value and the next row's y.
func slider(x, y float32, label, minText, maxText string, value, minVal, maxVal float32, format string) (float32, float32) {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: float32(panelWidth - 80), Height: 20},
		minText, maxText,
		value, minVal, maxVal,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(y+2), 16, rl.DarkGray)
	return v, y + 35
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func fluidYAML(p SolverParams) string {
	return fmt.Sprintf(`fluid:
  size: %d
  dt: %.2f
  diffusion: %.2g
  viscosity: %.2g
  iterations: %d
input:
  hover_density: %.0f
  velocity_gain: %.1f`,
		p.Size, p.DT, p.diffusion(), p.viscosity(), p.Iterations, p.HoverDensity, p.VelocityGain)
}
