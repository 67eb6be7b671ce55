package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Binding describes one keyboard control and its current state.
type Binding struct {
	Key     string
	Name    string
	Toggle  bool // Show an on/off indicator
	Enabled bool
}

// ControlsPanel renders the key legend with toggle indicators.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Height returns the panel height for the given number of bindings.
func (c *ControlsPanel) Height(n int) int32 {
	t := c.renderer.Theme
	return int32(n)*t.LineHeight + t.Padding*2 + t.LineHeight + 4
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(bindings []Binding) {
	if !c.visible {
		return
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	r.DrawPanel(c.x, c.y, c.width, c.Height(len(bindings)))

	y := c.y + padding
	rl.DrawText("Controls", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, b := range bindings {
		c.drawBinding(c.x+padding, y, b, c.width-padding*2)
		y += lineHeight
	}
}

// drawBinding draws a single legend line.
func (c *ControlsPanel) drawBinding(x, y int32, b Binding, width int32) {
	r := c.renderer

	nameColor := r.Theme.LabelColor
	if b.Toggle {
		statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
		if b.Enabled {
			statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
			nameColor = rl.White
		}
		rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	}
	rl.DrawText(b.Name, x+14, y, r.Theme.FontSize, nameColor)

	keyText := fmt.Sprintf("[%s]", b.Key)
	keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
	rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
}
