package particles

// NumRings is the number of orbital rings. Particle i sits on ring i mod NumRings.
const NumRings = 5

// Palette holds the fixed RGB color of each ring.
var Palette = [NumRings][3]float32{
	{0.6, 0.2, 0.9}, // purple
	{0.9, 0.2, 0.6}, // pink
	{0.2, 0.8, 0.9}, // cyan
	{0.4, 0.2, 0.9}, // blue-purple
	{0.8, 0.4, 0.9}, // light purple
}

// Params holds the tunable constants of the particle kinematics.
type Params struct {
	// Ring layout
	BaseRadius  float32 // radius of ring 0
	RingSpacing float32 // radius step per ring
	SpiralTurns float32 // turns of the initial spiral across all particles
	Flatten     float32 // vertical scale of the orbit ellipse

	// Construction randomness
	DepthBase   float32 // z of the nearest particle
	DepthJitter float32 // random z spread behind DepthBase
	SpeedMin    float32 // angular speed floor (radians per reference frame)
	SpeedJitter float32
	SizeMin     float32
	SizeJitter  float32

	// Motion
	ReferenceFPS   float32 // angular speed is defined per frame at this rate
	WaveAmplitude  float32 // radial breathing amplitude
	WaveRate       float32
	DepthRingStep  float32 // z offset per ring
	DepthWave      float32 // z oscillation amplitude
	DepthWaveRate  float32
	DepthPhaseStep float32 // z phase offset per particle index

	// Fluid coupling
	FieldExtent  float32 // particle space spans [-FieldExtent, FieldExtent]
	CouplingGain float32 // displacement per unit of fluid velocity

	// Cursor repulsion
	CursorScale   float32 // cursor coordinates are scaled by this before use
	RepelRadius   float32
	RepelMinDist  float32 // distance floor to avoid blow-ups at the cursor
	RepelStrength float32

	// Size pulsing
	PulseRate      float32
	PulseAmplitude float32
	PulsePhaseStep float32
	SizeFloor      float32
	SizeCeil       float32
}

// DefaultParams returns the stock kinematics.
func DefaultParams() Params {
	return Params{
		BaseRadius:  35,
		RingSpacing: 12,
		SpiralTurns: 7,
		Flatten:     0.6,

		DepthBase:   -20,
		DepthJitter: 30,
		SpeedMin:    0.01,
		SpeedJitter: 0.005,
		SizeMin:     0.3,
		SizeJitter:  1.5,

		ReferenceFPS:   60,
		WaveAmplitude:  3,
		WaveRate:       0.5,
		DepthRingStep:  5,
		DepthWave:      5,
		DepthWaveRate:  0.3,
		DepthPhaseStep: 0.01,

		FieldExtent:  100,
		CouplingGain: 5,

		CursorScale:   0.5,
		RepelRadius:   30,
		RepelMinDist:  10,
		RepelStrength: 5,

		PulseRate:      1.5,
		PulseAmplitude: 0.15,
		PulsePhaseStep: 0.05,
		SizeFloor:      0.2,
		SizeCeil:       2.5,
	}
}
