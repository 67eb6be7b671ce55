package telemetry

import "math"

// Collector accumulates per-frame observations within time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32
	frames          int

	// Counters for current window
	hoverFrames    int
	scrollEvents   int
	emitterUpdates int
	coupledSum     int
	repelledSum    int
	peakMass       float64
	peakEnergy     float64

	// Scratch buffers reused across flushes
	sizeBuf    []float64
	densityBuf []float64
}

// FrameSample is what the frame driver reports after each frame.
type FrameSample struct {
	Mass          float64
	KineticEnergy float64
	Hovering      bool
	Scrolled      bool
	Emitters      int // Emitters updated this frame
	Coupled       int
	Repelled      int
}

// FieldSnapshot is the state sampled when a window closes.
type FieldSnapshot struct {
	Mass          float64
	KineticEnergy float64
	MaxSpeed      float64
	Density       []float32
	Sizes         []float32
	Emitters      int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record adds one frame's observations to the current window.
func (c *Collector) Record(s FrameSample) {
	c.frames++
	if s.Hovering {
		c.hoverFrames++
	}
	if s.Scrolled {
		c.scrollEvents++
	}
	c.emitterUpdates += s.Emitters
	c.coupledSum += s.Coupled
	c.repelledSum += s.Repelled
	if s.Mass > c.peakMass {
		c.peakMass = s.Mass
	}
	if s.KineticEnergy > c.peakEnergy {
		c.peakEnergy = s.KineticEnergy
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the accumulated frames and the given
// snapshot, then resets counters for the next window.
func (c *Collector) Flush(currentTick int32, snap FieldSnapshot) WindowStats {
	var coupledMean, repelledMean float64
	if c.frames > 0 {
		coupledMean = float64(c.coupledSum) / float64(c.frames)
		repelledMean = float64(c.repelledSum) / float64(c.frames)
	}

	c.sizeBuf = Float32s(c.sizeBuf, snap.Sizes)
	sizes := ComputeDistribution(c.sizeBuf)
	c.densityBuf = Float32s(c.densityBuf, snap.Density)
	density := ComputeDistribution(c.densityBuf)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Mass:          snap.Mass,
		KineticEnergy: snap.KineticEnergy,
		MaxSpeed:      snap.MaxSpeed,

		PeakMass:          max(c.peakMass, snap.Mass),
		PeakKineticEnergy: max(c.peakEnergy, snap.KineticEnergy),

		DensityMean: density.Mean,
		DensityP90:  density.P90,

		HoverFrames:    c.hoverFrames,
		ScrollEvents:   c.scrollEvents,
		EmitterCount:   snap.Emitters,
		EmitterUpdates: c.emitterUpdates,

		CoupledMean:  coupledMean,
		RepelledMean: repelledMean,

		SizeMean: sizes.Mean,
		SizeStd:  sizes.Std,
		SizeP10:  sizes.P10,
		SizeP50:  sizes.P50,
		SizeP90:  sizes.P90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.frames = 0
	c.hoverFrames = 0
	c.scrollEvents = 0
	c.emitterUpdates = 0
	c.coupledSum = 0
	c.repelledSum = 0
	c.peakMass = 0
	c.peakEnergy = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
