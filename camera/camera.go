// Package camera maps between screen pixels, the particle coordinate space
// and the fluid grid.
package camera

import "math"

// Camera views the particle space [-Extent, Extent]² (y up) through a
// pinhole placed at EyeZ looking down -z. The fluid canvas always covers
// the whole viewport.
type Camera struct {
	// Eye position in particle space; X and Y drift for parallax
	X, Y float32
	EyeZ float32

	// Vertical field of view in degrees
	FOV float32

	// Zoom level (1.0 = no magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Half-width of the particle space
	Extent float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the origin.
func New(viewportW, viewportH, extent, eyeZ, fov float32) *Camera {
	return &Camera{
		EyeZ:      eyeZ,
		FOV:       fov,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Extent:    extent,
		MinZoom:   0.25,
		MaxZoom:   4.0,
	}
}

// ScreenToWorld converts a screen position to particle space, spanning
// [-Extent, Extent] on each axis with y pointing up.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = (sx/c.ViewportW*2 - 1) * c.Extent
	wy = -(sy/c.ViewportH*2 - 1) * c.Extent
	return wx, wy
}

// WorldToScreen is the inverse of ScreenToWorld.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = (wx/c.Extent + 1) / 2 * c.ViewportW
	sy = (1 - wy/c.Extent) / 2 * c.ViewportH
	return sx, sy
}

// ScreenToGrid maps a screen position onto an n×n grid stretched across the
// viewport. The result may fall outside [0, n) when the point is off screen.
func (c *Camera) ScreenToGrid(sx, sy float32, n int) (gx, gy int) {
	gx = int(math.Floor(float64(sx / c.ViewportW * float32(n))))
	gy = int(math.Floor(float64(sy / c.ViewportH * float32(n))))
	return gx, gy
}

// GridToScreen returns the screen rectangle covered by grid cell (gx, gy).
func (c *Camera) GridToScreen(gx, gy, n int) (x, y, w, h float32) {
	w = c.ViewportW / float32(n)
	h = c.ViewportH / float32(n)
	return float32(gx) * w, float32(gy) * h, w, h
}

// Project applies the pinhole perspective to a particle-space point.
// scale is screen pixels per particle unit at that depth. ok is false for
// points at or behind the eye.
func (c *Camera) Project(x, y, z float32) (sx, sy, scale float32, ok bool) {
	depth := c.EyeZ - z
	if depth <= 0.1 {
		return 0, 0, 0, false
	}
	halfFOV := float64(c.FOV) * math.Pi / 360
	scale = c.ViewportH / 2 / (depth * float32(math.Tan(halfFOV))) * c.Zoom
	sx = c.ViewportW/2 + (x-c.X)*scale
	sy = c.ViewportH/2 - (y-c.Y)*scale
	return sx, sy, scale, true
}

// Follow eases the eye toward (tx, ty) by rate per call.
func (c *Camera) Follow(tx, ty, rate float32) {
	c.X += (tx - c.X) * rate
	c.Y += (ty - c.Y) * rate
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = 0
	c.Y = 0
	c.Zoom = 1.0
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
