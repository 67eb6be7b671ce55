package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindowTicks(t *testing.T) {
	c := NewCollector(10, 1.0/60.0)
	if c.WindowDurationTicks() != 600 {
		t.Errorf("WindowDurationTicks = %d, want 600", c.WindowDurationTicks())
	}
	if c.ShouldFlush(599) {
		t.Error("should not flush before window end")
	}
	if !c.ShouldFlush(600) {
		t.Error("should flush at window end")
	}

	// The frame dt is a float32 just over 1/60, so 10s is 599.99996 ticks
	frame := NewCollector(10, float32(1)/float32(60))
	if frame.WindowDurationTicks() != 600 {
		t.Errorf("WindowDurationTicks at float32 frame dt = %d, want 600", frame.WindowDurationTicks())
	}

	tiny := NewCollector(0.001, 0.1)
	if tiny.WindowDurationTicks() != 1 {
		t.Errorf("window shorter than a tick should clamp to 1, got %d", tiny.WindowDurationTicks())
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1, 0.5)

	c.Record(FrameSample{Mass: 10, KineticEnergy: 3, Hovering: true, Coupled: 100, Repelled: 4, Emitters: 2})
	c.Record(FrameSample{Mass: 40, KineticEnergy: 1, Scrolled: true, Coupled: 50, Repelled: 0, Emitters: 2})

	stats := c.Flush(2, FieldSnapshot{
		Mass:          30,
		KineticEnergy: 0.5,
		MaxSpeed:      1.25,
		Density:       []float32{0, 0, 1, 3},
		Sizes:         []float32{1, 2, 3},
		Emitters:      2,
	})

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 2 {
		t.Errorf("window = [%d,%d], want [0,2]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.SimTimeSec != 1 {
		t.Errorf("SimTimeSec = %v, want 1", stats.SimTimeSec)
	}
	if stats.PeakMass != 40 || stats.PeakKineticEnergy != 3 {
		t.Errorf("peaks = %v/%v, want 40/3", stats.PeakMass, stats.PeakKineticEnergy)
	}
	if stats.HoverFrames != 1 || stats.ScrollEvents != 1 {
		t.Errorf("hover/scroll = %d/%d, want 1/1", stats.HoverFrames, stats.ScrollEvents)
	}
	if stats.EmitterUpdates != 4 || stats.EmitterCount != 2 {
		t.Errorf("emitters = %d updates, %d live", stats.EmitterUpdates, stats.EmitterCount)
	}
	if stats.CoupledMean != 75 || stats.RepelledMean != 2 {
		t.Errorf("coupled/repelled mean = %v/%v, want 75/2", stats.CoupledMean, stats.RepelledMean)
	}
	if stats.DensityMean != 1 {
		t.Errorf("DensityMean = %v, want 1", stats.DensityMean)
	}
	if stats.SizeMean != 2 || math.Abs(stats.SizeStd-math.Sqrt(2.0/3.0)) > 1e-9 {
		t.Errorf("size mean/std = %v/%v", stats.SizeMean, stats.SizeStd)
	}
	if stats.SizeP50 != 2 {
		t.Errorf("SizeP50 = %v, want 2", stats.SizeP50)
	}

	// Counters reset for the next window.
	next := c.Flush(4, FieldSnapshot{})
	if next.WindowStartTick != 2 {
		t.Errorf("next window starts at %d, want 2", next.WindowStartTick)
	}
	if next.HoverFrames != 0 || next.CoupledMean != 0 || next.PeakKineticEnergy != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}
