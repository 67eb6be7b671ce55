package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Fluid state at window end
	Mass          float64 `csv:"mass"`
	KineticEnergy float64 `csv:"kinetic_energy"`
	MaxSpeed      float64 `csv:"max_speed"`

	// Fluid extremes during window
	PeakMass          float64 `csv:"peak_mass"`
	PeakKineticEnergy float64 `csv:"peak_kinetic_energy"`

	// Density distribution over cells (sampled at window end)
	DensityMean float64 `csv:"density_mean"`
	DensityP90  float64 `csv:"density_p90"`

	// Input during window
	HoverFrames    int `csv:"hover_frames"`
	ScrollEvents   int `csv:"scroll_events"`
	EmitterCount   int `csv:"emitters"`
	EmitterUpdates int `csv:"emitter_updates"`

	// Particle interaction (mean per frame)
	CoupledMean  float64 `csv:"coupled_mean"`
	RepelledMean float64 `csv:"repelled_mean"`

	// Particle size distribution (sampled at window end)
	SizeMean float64 `csv:"size_mean"`
	SizeStd  float64 `csv:"size_std"`
	SizeP10  float64 `csv:"size_p10"`
	SizeP50  float64 `csv:"size_p50"`
	SizeP90  float64 `csv:"size_p90"`
}

// Distribution summarizes a set of samples.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates population mean, std and percentiles.
// values is not modified.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// Float32s widens a float32 buffer into dst, growing it as needed.
func Float32s(dst []float64, src []float32) []float64 {
	if cap(dst) < len(src) {
		dst = make([]float64, len(src))
	}
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("mass", s.Mass),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("peak_mass", s.PeakMass),
		slog.Float64("peak_kinetic_energy", s.PeakKineticEnergy),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_p90", s.DensityP90),
		slog.Int("hover_frames", s.HoverFrames),
		slog.Int("scroll_events", s.ScrollEvents),
		slog.Int("emitters", s.EmitterCount),
		slog.Float64("coupled_mean", s.CoupledMean),
		slog.Float64("repelled_mean", s.RepelledMean),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("size_std", s.SizeStd),
		slog.Float64("size_p50", s.SizeP50),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"mass", s.Mass,
		"kinetic_energy", s.KineticEnergy,
		"max_speed", s.MaxSpeed,
		"peak_kinetic_energy", s.PeakKineticEnergy,
		"hover_frames", s.HoverFrames,
		"scroll_events", s.ScrollEvents,
		"emitters", s.EmitterCount,
		"coupled_mean", s.CoupledMean,
		"repelled_mean", s.RepelledMean,
		"size_mean", s.SizeMean,
		"size_p10", s.SizeP10,
		"size_p90", s.SizeP90,
	)
}
