// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Particles ParticlesConfig `yaml:"particles"`
	Input     InputConfig     `yaml:"input"`
	Emitters  EmittersConfig  `yaml:"emitters"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Server    ServerConfig    `yaml:"server"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FluidConfig holds the grid solver parameters.
type FluidConfig struct {
	Size       int     `yaml:"size"`       // Grid side length in cells (>= 3)
	DT         float64 `yaml:"dt"`         // Solver time step
	Diffusion  float64 `yaml:"diffusion"`  // Density diffusion rate
	Viscosity  float64 `yaml:"viscosity"`  // Velocity diffusion rate
	Iterations int     `yaml:"iterations"` // Relaxation sweeps per solve
}

// ParticlesConfig holds the orbital particle kinematics.
type ParticlesConfig struct {
	Count    int  `yaml:"count"`
	Coupling bool `yaml:"coupling"` // Read fluid velocity into particle motion

	BaseRadius  float64 `yaml:"base_radius"`
	RingSpacing float64 `yaml:"ring_spacing"`
	SpiralTurns float64 `yaml:"spiral_turns"`
	Flatten     float64 `yaml:"flatten"` // Vertical scale of the orbit ellipse

	DepthBase   float64 `yaml:"depth_base"`
	DepthJitter float64 `yaml:"depth_jitter"`
	SpeedMin    float64 `yaml:"speed_min"`
	SpeedJitter float64 `yaml:"speed_jitter"`
	SizeMin     float64 `yaml:"size_min"`
	SizeJitter  float64 `yaml:"size_jitter"`

	ReferenceFPS   float64 `yaml:"reference_fps"` // Angular speeds are per frame at this rate
	WaveAmplitude  float64 `yaml:"wave_amplitude"`
	WaveRate       float64 `yaml:"wave_rate"`
	DepthRingStep  float64 `yaml:"depth_ring_step"`
	DepthWave      float64 `yaml:"depth_wave"`
	DepthWaveRate  float64 `yaml:"depth_wave_rate"`
	DepthPhaseStep float64 `yaml:"depth_phase_step"`

	FieldExtent  float64 `yaml:"field_extent"`  // Particle space is [-extent, extent]
	CouplingGain float64 `yaml:"coupling_gain"` // Visibility amplifier for fluid drift

	CursorScale   float64 `yaml:"cursor_scale"`
	RepelRadius   float64 `yaml:"repel_radius"`
	RepelMinDist  float64 `yaml:"repel_min_dist"`
	RepelStrength float64 `yaml:"repel_strength"`

	PulseRate      float64 `yaml:"pulse_rate"`
	PulseAmplitude float64 `yaml:"pulse_amplitude"`
	PulsePhaseStep float64 `yaml:"pulse_phase_step"`
	SizeFloor      float64 `yaml:"size_floor"`
	SizeCeil       float64 `yaml:"size_ceil"`
}

// InputConfig holds pointer and scroll injection parameters.
type InputConfig struct {
	HoverDensity   float64 `yaml:"hover_density"`    // Density added per frame under the pointer
	VelocityGain   float64 `yaml:"velocity_gain"`    // Pointer motion (cells) to velocity
	ScrollStrength float64 `yaml:"scroll_strength"`  // Scroll delta to velocity
	ScrollDensity  float64 `yaml:"scroll_density"`   // Density per unit of scroll velocity
	ScrollChance   float64 `yaml:"scroll_chance"`    // Per-column density probability
	ScrollRowInset int     `yaml:"scroll_row_inset"` // Injection row distance from the bottom edge
	ScrollStride   int     `yaml:"scroll_stride"`
}

// EmittersConfig holds the autonomous stirrer parameters.
type EmittersConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Count      int     `yaml:"count"`
	Speed      float64 `yaml:"speed"`       // Cells per second
	Density    float64 `yaml:"density"`     // Density injected per second
	Force      float64 `yaml:"force"`       // Velocity injected per unit heading per second
	TurnRate   float64 `yaml:"turn_rate"`   // Max heading change per second (radians)
	NoiseScale float64 `yaml:"noise_scale"` // Noise time scale for wandering
}

// RenderConfig holds drawing parameters.
type RenderConfig struct {
	FluidTint     [3]uint8 `yaml:"fluid_tint"`
	ParticleScale float64  `yaml:"particle_scale"` // Particle units per unit of size
	EyeZ          float64  `yaml:"eye_z"`          // Camera distance along +z
	FOV           float64  `yaml:"fov"`            // Vertical field of view (degrees)
	Parallax      float64  `yaml:"parallax"`       // Camera drift toward the cursor (particle units)
	FollowRate    float64  `yaml:"follow_rate"`    // Per-frame easing of the drift
	Zoom          float64  `yaml:"zoom"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// ServerConfig holds the websocket stream parameters.
type ServerConfig struct {
	Addr       string `yaml:"addr"`
	FrameRate  int    `yaml:"frame_rate"` // Simulation frames per second
	SendEvery  int    `yaml:"send_every"` // Broadcast every Nth frame
	MaxClients int    `yaml:"max_clients"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FluidDT32        float32 // Fluid.DT as float32
	FluidDiffusion32 float32
	FluidViscosity32 float32
	ScreenW32        float32
	ScreenH32        float32
	FrameDT32        float32 // 1 / Screen.TargetFPS
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	if c.Fluid.Size < 3 {
		return fmt.Errorf("fluid.size %d: must be at least 3", c.Fluid.Size)
	}
	if c.Fluid.DT <= 0 {
		return fmt.Errorf("fluid.dt %v: must be positive", c.Fluid.DT)
	}
	if c.Particles.Count <= 0 {
		return fmt.Errorf("particles.count %d: must be positive", c.Particles.Count)
	}
	if c.Particles.SizeFloor > c.Particles.SizeCeil {
		return fmt.Errorf("particles.size_floor %v exceeds size_ceil %v", c.Particles.SizeFloor, c.Particles.SizeCeil)
	}
	if c.Screen.TargetFPS <= 0 {
		return fmt.Errorf("screen.target_fps %d: must be positive", c.Screen.TargetFPS)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FluidDT32 = float32(c.Fluid.DT)
	c.Derived.FluidDiffusion32 = float32(c.Fluid.Diffusion)
	c.Derived.FluidViscosity32 = float32(c.Fluid.Viscosity)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.FrameDT32 = 1 / float32(c.Screen.TargetFPS)

	if c.Fluid.Iterations < 1 {
		c.Fluid.Iterations = 4
	}
	if c.Input.ScrollStride < 1 {
		c.Input.ScrollStride = 1
	}
	if c.Server.SendEvery < 1 {
		c.Server.SendEvery = 1
	}
	if c.Server.FrameRate < 1 {
		c.Server.FrameRate = c.Screen.TargetFPS
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
