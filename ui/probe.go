package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ProbeData is the fluid cell under the cursor.
type ProbeData struct {
	GridX, GridY int
	Inside       bool
	Density      float32
	VX, VY       float32
	WorldX       float32 // Cursor in particle space
	WorldY       float32

	// Constants the grid and particles were built with
	DT          float32
	Diffusion   float32
	Viscosity   float32
	Iterations  int
	FieldExtent float32
	RepelRadius float32
}

// ProbePanel shows the fluid state at the cursor.
type ProbePanel struct {
	renderer *Renderer
	desc     PanelDescriptor
	x, y     int32
	height   int32
}

// NewProbePanel creates a probe panel.
func NewProbePanel(x, y int32) *ProbePanel {
	return &ProbePanel{
		renderer: NewRenderer(),
		desc:     probeDescriptor(),
		x:        x,
		y:        y,
		height:   260,
	}
}

// SetPosition updates the panel position.
func (p *ProbePanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel.
func (p *ProbePanel) Draw(data ProbeData) {
	bottom := p.renderer.DrawPanelDescriptor(p.x, p.y, p.desc, data, p.height)
	p.height = bottom - p.y
}

func probe(d any) ProbeData {
	pd, _ := d.(ProbeData)
	return pd
}

func probeDescriptor() PanelDescriptor {
	inside := func(d any) bool { return probe(d).Inside }
	return PanelDescriptor{
		ID:    "probe",
		Title: "Probe",
		Width: 220,
		Sections: []SectionDescriptor{
			{
				ID: "position",
				Fields: []FieldDescriptor{
					{ID: "cell", Label: "Cell", Widget: WidgetText, TextGetter: func(d any) string {
						p := probe(d)
						if !p.Inside {
							return "outside"
						}
						return fmt.Sprintf("%d, %d", p.GridX, p.GridY)
					}},
					{ID: "world", Label: "World", Widget: WidgetText, TextGetter: func(d any) string {
						p := probe(d)
						return fmt.Sprintf("%.1f, %.1f", p.WorldX, p.WorldY)
					}},
				},
			},
			{
				ID:      "fluid",
				Title:   "Fluid",
				Visible: inside,
				Fields: []FieldDescriptor{
					{ID: "dye", Label: "Dye", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color {
						a := probe(d).Density * 255
						if a > 255 {
							a = 255
						}
						if a < 0 {
							a = 0
						}
						return rl.Color{R: 168, G: 85, B: 247, A: uint8(a)}
					}},
					{ID: "density", Label: "Density", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float32 { return probe(d).Density }},
					{ID: "vx", Label: "VX", Widget: WidgetCenteredBar, Range: FieldRange{Min: -2, Max: 2}, Getter: func(d any) float32 { return probe(d).VX }},
					{ID: "vy", Label: "VY", Widget: WidgetCenteredBar, Range: FieldRange{Min: -2, Max: 2}, Getter: func(d any) float32 { return probe(d).VY }},
					{ID: "speed", Label: "Speed", Widget: WidgetText, Format: "%.4f", Getter: func(d any) float32 {
						p := probe(d)
						return float32(math.Hypot(float64(p.VX), float64(p.VY)))
					}},
				},
			},
			{
				ID: "constants",
				Fields: []FieldDescriptor{
					{ID: "gap", Widget: WidgetSpacer},
					{ID: "solver", Label: "Solver", Widget: WidgetSection},
					{ID: "dt", Label: "dt", Widget: WidgetText, Format: "%.3f", Getter: func(d any) float32 { return probe(d).DT }},
					{ID: "diffusion", Label: "Diff", Widget: WidgetText, Format: "%.1e", Getter: func(d any) float32 { return probe(d).Diffusion }},
					{ID: "viscosity", Label: "Visc", Widget: WidgetText, Format: "%.1e", Getter: func(d any) float32 { return probe(d).Viscosity }},
					{ID: "iterations", Label: "Iters", Widget: WidgetText, TextGetter: func(d any) string {
						return fmt.Sprintf("%d", probe(d).Iterations)
					}},
					{ID: "gap2", Widget: WidgetSpacer},
					{ID: "particles", Label: "Particles", Widget: WidgetSection},
					{ID: "extent", Label: "Extent", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return probe(d).FieldExtent }},
					{ID: "repel", Label: "Repel", Widget: WidgetText, Format: "%.1f", Getter: func(d any) float32 { return probe(d).RepelRadius }},
				},
			},
		},
	}
}
