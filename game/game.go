// Package game drives one frame of the simulation: input injection, the
// fluid step, the particle update and telemetry, plus the raylib front end.
package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/vortex/camera"
	"github.com/pthm-cable/vortex/config"
	"github.com/pthm-cable/vortex/fluid"
	"github.com/pthm-cable/vortex/particles"
	"github.com/pthm-cable/vortex/renderer"
	"github.com/pthm-cable/vortex/systems"
	"github.com/pthm-cable/vortex/telemetry"
	"github.com/pthm-cable/vortex/ui"
)

// Options configures a Game beyond what the loaded config provides.
type Options struct {
	Seed           int64
	LogStats       bool    // Emit window stats via slog
	StatsWindowSec float64 // 0 uses telemetry.stats_window
	OutputDir      string  // CSV output directory; empty disables
	Headless       bool    // Skip every raylib resource
	StepsPerUpdate int     // Frames run per Update call
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	rng   *rand.Rand
	world *ecs.World

	sim       *fluid.Simulator
	particles *particles.System
	emitters  *systems.EmitterSystem
	pointer   *systems.PointerInjector
	scroll    *systems.ScrollInjector
	registry  *systems.SystemRegistry
	camera    *camera.Camera

	// Rendering (nil when headless)
	background   *renderer.BackgroundRenderer
	fluidView    *renderer.FluidRenderer
	particleView *renderer.ParticleRenderer
	hud          *ui.HUD
	perfPanel    *ui.PerfPanel
	controls     *ui.ControlsPanel
	probePanel   *ui.ProbePanel

	// Telemetry
	perfCollector    *telemetry.PerfCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)

	// State
	tick           int32
	paused         bool
	headless       bool
	coupling       bool
	emittersOn     bool
	showPerf       bool
	showProbe      bool
	stepsPerUpdate int

	// Last cursor in particle space; kept when the pointer leaves
	cursorX, cursorY float32
	lastInput        Input
}

// NewGame creates a game from the global config with default options.
func NewGame() (*Game, error) {
	return NewGameWithOptions(Options{Seed: 42})
}

// NewGameWithOptions creates a game from the global config.
func NewGameWithOptions(opts Options) (*Game, error) {
	return newGame(config.Cfg(), opts)
}

func newGame(cfg *config.Config, opts Options) (*Game, error) {
	rng := rand.New(rand.NewSource(opts.Seed))

	sim, err := fluid.NewSimulator(cfg.Fluid.Size, cfg.Derived.FluidDT32,
		cfg.Derived.FluidDiffusion32, cfg.Derived.FluidViscosity32)
	if err != nil {
		return nil, fmt.Errorf("creating fluid simulator: %w", err)
	}
	sim.SetIterations(cfg.Fluid.Iterations)

	ps, err := particles.New(cfg.Particles.Count, rng, ParticleParams(cfg))
	if err != nil {
		return nil, fmt.Errorf("creating particle system: %w", err)
	}

	world := ecs.NewWorld()
	in := cfg.Input

	g := &Game{
		cfg:       cfg,
		rng:       rng,
		world:     world,
		sim:       sim,
		particles: ps,
		emitters:  systems.NewEmitterSystem(world, opts.Seed, EmitterParams(cfg)),
		pointer:   systems.NewPointerInjector(float32(in.HoverDensity), float32(in.VelocityGain)),
		scroll: systems.NewScrollInjector(float32(in.ScrollStrength), float32(in.ScrollDensity),
			float32(in.ScrollChance), in.ScrollRowInset, in.ScrollStride, rng),
		registry: systems.NewSystemRegistry(),
		camera: camera.New(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32,
			float32(cfg.Particles.FieldExtent), float32(cfg.Render.EyeZ), float32(cfg.Render.FOV)),

		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,

		headless:       opts.Headless,
		coupling:       cfg.Particles.Coupling,
		emittersOn:     cfg.Emitters.Enabled,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
	}
	g.camera.SetZoom(float32(cfg.Render.Zoom))

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.FrameDT32)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
		g.outputManager = om
		slog.Info("output enabled", "dir", om.Dir())
	}

	g.spawnEmitters()

	if !opts.Headless {
		w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
		tint := cfg.Render.FluidTint
		g.background = renderer.NewBackgroundRenderer(w, h, tint[0]/8, tint[1]/8, tint[2]/8)
		g.fluidView = renderer.NewFluidRenderer(w, h, tint)
		g.particleView = renderer.NewParticleRenderer(float32(cfg.Render.ParticleScale))
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(w-230, 10)
		g.controls = ui.NewControlsPanel(10, h-10, 220)
		g.probePanel = ui.NewProbePanel(w-230, h-320)
	}

	return g, nil
}

// ParticleParams converts the particle section of cfg into kinematics.
func ParticleParams(cfg *config.Config) particles.Params {
	p := cfg.Particles
	return particles.Params{
		BaseRadius:  float32(p.BaseRadius),
		RingSpacing: float32(p.RingSpacing),
		SpiralTurns: float32(p.SpiralTurns),
		Flatten:     float32(p.Flatten),

		DepthBase:   float32(p.DepthBase),
		DepthJitter: float32(p.DepthJitter),
		SpeedMin:    float32(p.SpeedMin),
		SpeedJitter: float32(p.SpeedJitter),
		SizeMin:     float32(p.SizeMin),
		SizeJitter:  float32(p.SizeJitter),

		ReferenceFPS:   float32(p.ReferenceFPS),
		WaveAmplitude:  float32(p.WaveAmplitude),
		WaveRate:       float32(p.WaveRate),
		DepthRingStep:  float32(p.DepthRingStep),
		DepthWave:      float32(p.DepthWave),
		DepthWaveRate:  float32(p.DepthWaveRate),
		DepthPhaseStep: float32(p.DepthPhaseStep),

		FieldExtent:  float32(p.FieldExtent),
		CouplingGain: float32(p.CouplingGain),

		CursorScale:   float32(p.CursorScale),
		RepelRadius:   float32(p.RepelRadius),
		RepelMinDist:  float32(p.RepelMinDist),
		RepelStrength: float32(p.RepelStrength),

		PulseRate:      float32(p.PulseRate),
		PulseAmplitude: float32(p.PulseAmplitude),
		PulsePhaseStep: float32(p.PulsePhaseStep),
		SizeFloor:      float32(p.SizeFloor),
		SizeCeil:       float32(p.SizeCeil),
	}
}

// EmitterParams converts the emitter section of cfg.
func EmitterParams(cfg *config.Config) systems.EmitterParams {
	e := cfg.Emitters
	return systems.EmitterParams{
		Speed:      float32(e.Speed),
		Density:    float32(e.Density),
		Force:      float32(e.Force),
		TurnRate:   float32(e.TurnRate),
		NoiseScale: float32(e.NoiseScale),
	}
}

// spawnEmitters places the configured emitters evenly around the grid center.
func (g *Game) spawnEmitters() {
	n := float32(g.sim.Size())
	count := g.cfg.Emitters.Count
	for i := 0; i < count; i++ {
		a := float64(i) / float64(count) * 2 * math.Pi
		x := n/2 + float32(math.Cos(a))*n/4
		y := n/2 + float32(math.Sin(a))*n/4
		heading := float32(a + math.Pi/2)
		g.emitters.Spawn(x, y, heading, g.rng.Float64()*1000)
	}
}

// Frame advances the simulation by one frame of dt seconds.
// Order: injection, fluid step, particle update, telemetry. Frame makes no
// raylib calls.
func (g *Game) Frame(dt float32, in Input) error {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	n := g.sim.Size()
	gx, gy := g.camera.ScreenToGrid(in.CursorX, in.CursorY, n)
	hovering := g.pointer.Apply(g.sim, gx, gy, in.Present)
	scrolled := g.scroll.Apply(g.sim, in.Scroll) > 0
	if in.Present {
		g.cursorX, g.cursorY = g.camera.ScreenToWorld(in.CursorX, in.CursorY)
	}
	extent := g.camera.Extent
	parallax := float32(g.cfg.Render.Parallax)
	g.camera.Follow(g.cursorX/extent*parallax, g.cursorY/extent*parallax, float32(g.cfg.Render.FollowRate))
	g.lastInput = in

	g.perfCollector.StartPhase(telemetry.PhaseEmitters)
	emitted := 0
	if g.emittersOn {
		emitted = g.emitters.Update(dt, g.sim)
	}

	g.perfCollector.StartPhase(telemetry.PhaseFluid)
	g.sim.Step()

	g.perfCollector.StartPhase(telemetry.PhaseParticles)
	var flow particles.FlowField
	if g.coupling {
		flow = particles.FlowField{VX: g.sim.VX(), VY: g.sim.VY(), N: n}
	}
	if err := g.particles.Update(dt, g.cursorX, g.cursorY, flow); err != nil {
		g.perfCollector.EndTick()
		return fmt.Errorf("updating particles: %w", err)
	}

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Record(telemetry.FrameSample{
		Mass:          g.sim.Mass(),
		KineticEnergy: g.sim.KineticEnergy(),
		Hovering:      hovering,
		Scrolled:      scrolled,
		Emitters:      emitted,
		Coupled:       g.particles.Coupled(),
		Repelled:      g.particles.Repelled(),
	})
	g.flushTelemetry()

	g.perfCollector.EndTick()
	return nil
}

// Reset clears the fluid, re-seeds the emitters and recenters the camera.
func (g *Game) Reset() {
	g.sim.Reset()
	g.pointer.Reset()
	g.emitters.Clear()
	g.spawnEmitters()
	g.camera.Reset()
	g.camera.SetZoom(float32(g.cfg.Render.Zoom))
}

// UpdateHeadless runs stepsPerUpdate frames with no pointer.
func (g *Game) UpdateHeadless() error {
	dt := g.cfg.Derived.FrameDT32
	for i := 0; i < g.stepsPerUpdate; i++ {
		if err := g.Frame(dt, Input{}); err != nil {
			return err
		}
	}
	return nil
}

// SetStatsCallback registers fn to receive every flushed window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// SetCoupling turns fluid drift of particles on or off.
func (g *Game) SetCoupling(on bool) { g.coupling = on }

// SetEmitters turns the autonomous emitters on or off.
func (g *Game) SetEmitters(on bool) { g.emittersOn = on }

// Tick returns the number of frames simulated.
func (g *Game) Tick() int32 { return g.tick }

// Fluid returns the simulator.
func (g *Game) Fluid() *fluid.Simulator { return g.sim }

// Particles returns the particle system.
func (g *Game) Particles() *particles.System { return g.particles }

// Camera returns the view camera.
func (g *Game) Camera() *camera.Camera { return g.camera }

// Emitters returns the number of live emitters.
func (g *Game) Emitters() int { return g.emitters.Count() }

// Unload releases raylib resources and closes output files.
func (g *Game) Unload() {
	if g.fluidView != nil {
		g.fluidView.Unload()
	}
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}
