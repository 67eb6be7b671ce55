package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/vortex/ui"
)

// Input is one frame of host input. Cursor coordinates are screen pixels.
type Input struct {
	CursorX, CursorY float32
	Present          bool    // Pointer is over the window
	Scroll           float32 // Scroll delta this frame, in pixels
}

// wheelPixels converts one mouse wheel notch into a scroll delta.
const wheelPixels = 40

// readInput samples the raylib pointer state.
func (g *Game) readInput() Input {
	mouse := rl.GetMousePosition()
	return Input{
		CursorX: mouse.X,
		CursorY: mouse.Y,
		Present: rl.IsCursorOnScreen(),
		Scroll:  rl.GetMouseWheelMove() * wheelPixels,
	}
}

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Frames-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyC) {
		g.coupling = !g.coupling
	}
	if rl.IsKeyPressed(rl.KeyE) {
		g.emittersOn = !g.emittersOn
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.Reset()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyI) {
		g.showProbe = !g.showProbe
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.controls.Toggle()
	}

	// Zoom with +/- so the wheel stays free for scroll injection
	if rl.IsKeyPressed(rl.KeyEqual) {
		g.camera.ZoomBy(1.1)
	}
	if rl.IsKeyPressed(rl.KeyMinus) {
		g.camera.ZoomBy(1 / 1.1)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())

	g.camera.Resize(float32(w), float32(h))
	g.background.Resize(w, h)
	g.fluidView.Resize(float32(w), float32(h))
	g.perfPanel.SetPosition(w-230, 10)
	g.probePanel.SetPosition(w-230, h-320)
}

// bindings lists the keyboard controls shown in the controls panel.
func (g *Game) bindings() []ui.Binding {
	return []ui.Binding{
		{Key: "Space", Name: "Pause", Toggle: true, Enabled: g.paused},
		{Key: "C", Name: "Coupling", Toggle: true, Enabled: g.coupling},
		{Key: "E", Name: "Emitters", Toggle: true, Enabled: g.emittersOn},
		{Key: "P", Name: "Perf", Toggle: true, Enabled: g.showPerf},
		{Key: "I", Name: "Probe", Toggle: true, Enabled: g.showProbe},
		{Key: "R", Name: "Reset"},
		{Key: "+/-", Name: "Zoom"},
		{Key: ", .", Name: "Speed"},
		{Key: "F11", Name: "Fullscreen"},
		{Key: "H", Name: "Hide help"},
	}
}
