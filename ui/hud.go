package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/vortex/systems"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Tick          int32
	FPS           int32
	Particles     int
	Emitters      int
	Mass          float64
	KineticEnergy float64
	Coupling      bool
	EmittersOn    bool
	Paused        bool
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d | Emitters: %d | Mass: %.1f | Energy: %.3f",
			data.Particles, data.Emitters, data.Mass, data.KineticEnergy),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Coupling: %s | Emitters: %s",
			data.Tick, data.FPS, onOff(data.Coupling), onOff(data.EmittersOn)),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	SystemTimes map[string]time.Duration
	Total       time.Duration
	RSSBytes    uint64
	CPUPercent  float64
	Registry    *systems.SystemRegistry
}

// PerfPanel renders the per-stage performance panel.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel with stages in registry order.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Total: %s", data.Total.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	if data.RSSBytes > 0 {
		rl.DrawText(fmt.Sprintf("RSS: %d MB | CPU: %.0f%%", data.RSSBytes>>20, data.CPUPercent), x, y, 12, rl.LightGray)
		y += 16
	}

	if data.Registry == nil {
		return
	}
	for _, info := range data.Registry.All() {
		avg := data.SystemTimes[info.ID]
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", info.Name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
