package systems

// SystemInfo describes a per-frame stage for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this stage does
	Category    string // Grouping (e.g., "input", "solver")
}

// SystemRegistry holds metadata about all frame stages.
// This centralizes naming so the UI and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known stages.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the stages in frame order.
// Update this when adding new stages.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "input", Name: "Input", Description: "Pointer and scroll injection", Category: "input"})
	r.Register(SystemInfo{ID: "emitters", Name: "Emitters", Description: "Autonomous stirrers", Category: "input"})
	r.Register(SystemInfo{ID: "fluid", Name: "Fluid", Description: "Diffuse, project and advect", Category: "solver"})
	r.Register(SystemInfo{ID: "particles", Name: "Particles", Description: "Orbit, coupling, repulsion and pulse", Category: "solver"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Window stats collection", Category: "internal"})
}

// Register adds a stage to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns stage info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a stage ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered stages.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all stage IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
