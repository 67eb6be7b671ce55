package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/vortex/fluid"
)

// FluidRenderer draws the density field as a tinted, alpha-blended texture
// stretched over the whole screen.
type FluidRenderer struct {
	tex    rl.Texture2D
	n      int
	tint   color.RGBA
	pixels []color.RGBA

	screenW, screenH float32
	initialized      bool
}

// NewFluidRenderer creates a fluid renderer with the given dye color.
func NewFluidRenderer(screenW, screenH int32, tint [3]uint8) *FluidRenderer {
	return &FluidRenderer{
		screenW: float32(screenW),
		screenH: float32(screenH),
		tint:    color.RGBA{R: tint[0], G: tint[1], B: tint[2], A: 255},
	}
}

// Init creates the n×n texture (must be called after raylib window is created).
func (r *FluidRenderer) Init(n int) {
	if r.initialized {
		return
	}
	r.n = n
	r.pixels = make([]color.RGBA, n*n)

	img := rl.GenImageColor(n, n, rl.Blank)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.SetTextureWrap(r.tex, rl.WrapClamp)
	rl.UnloadImage(img)

	r.initialized = true
}

// Resize updates screen dimensions.
func (r *FluidRenderer) Resize(w, h float32) {
	r.screenW = w
	r.screenH = h
}

// Update uploads the density field. Buffers of the wrong size are ignored.
func (r *FluidRenderer) Update(density []float32, n int) {
	if !r.initialized {
		r.Init(n)
	}
	if n != r.n || len(density) != n*n {
		return
	}
	r.pixels = DensityPixels(r.pixels, density, r.tint)
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the fluid layer over the full screen.
func (r *FluidRenderer) Draw() {
	if !r.initialized {
		return
	}
	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.n), Height: float32(r.n)}
	dstRect := rl.Rectangle{X: 0, Y: 0, Width: r.screenW, Height: r.screenH}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *FluidRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}

// DensityPixels converts density to tinted pixels whose alpha is the
// saturated density, reusing dst when large enough.
func DensityPixels(dst []color.RGBA, density []float32, tint color.RGBA) []color.RGBA {
	if cap(dst) < len(density) {
		dst = make([]color.RGBA, len(density))
	}
	dst = dst[:len(density)]
	for i, d := range density {
		dst[i] = color.RGBA{R: tint.R, G: tint.G, B: tint.B, A: fluid.Alpha(d)}
	}
	return dst
}
