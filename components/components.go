// Package components defines ECS components for the simulation.
package components

// Position is a location in fluid grid space (cells, origin top-left).
type Position struct {
	X, Y float32
}

// Velocity is a displacement in grid cells per second.
type Velocity struct {
	X, Y float32
}

// Emitter marks an autonomous stirrer that wanders through the fluid,
// depositing dye and momentum along its path.
type Emitter struct {
	Heading float32 // Radians, 0 = +X
	Speed   float32 // Cells per second
	Density float32 // Density injected per second
	Force   float32 // Velocity injected per second along heading

	NoiseSeed float64 // Offset into the shared noise field so emitters decorrelate
	Age       float32 // Seconds since spawn
}
