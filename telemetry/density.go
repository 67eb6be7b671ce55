package telemetry

// Upper bounds of the density bands. Cells at or above the last bound count
// as saturated.
var densityBounds = [...]float32{0.01, 1, 10, 100}

// DensityBands counts grid cells by density at the end of a window.
type DensityBands struct {
	WindowEnd int32 `csv:"window_end"`
	Empty     int   `csv:"empty"`     // < 0.01
	Faint     int   `csv:"faint"`     // < 1
	Light     int   `csv:"light"`     // < 10
	Dense     int   `csv:"dense"`     // < 100
	Saturated int   `csv:"saturated"` // >= 100
}

// NewDensityBands bins every cell of density.
func NewDensityBands(windowEnd int32, density []float32) DensityBands {
	var counts [len(densityBounds) + 1]int
	for _, d := range density {
		band := len(densityBounds)
		for i, bound := range densityBounds {
			if d < bound {
				band = i
				break
			}
		}
		counts[band]++
	}
	return DensityBands{
		WindowEnd: windowEnd,
		Empty:     counts[0],
		Faint:     counts[1],
		Light:     counts[2],
		Dense:     counts[3],
		Saturated: counts[4],
	}
}
