package systems

// SystemInfo describes a simulation system for logging and perf display.
type SystemInfo struct {
	ID          string // internal identifier (used for perf tracking)
	Name        string // display name
	Description string // what this system does
	Category    string // grouping (e.g. "core", "behavior", "render")
}

// SystemRegistry holds metadata about all systems, centralizing naming so
// logs and the perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	r := &SystemRegistry{byID: make(map[string]SystemInfo)}
	r.registerDefaults()
	return r
}

// registerDefaults adds all known systems in tick order.
// Update this when adding new systems.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "spatialGrid", Name: "Spatial Grid", Description: "Rebuilds the neighbor lookup grid", Category: "core"})
	r.Register(SystemInfo{ID: "current", Name: "Current", Description: "Accumulates ambient current, turbulence, and upwelling forces", Category: "environment"})
	r.Register(SystemInfo{ID: "flocking", Name: "Flocking", Description: "Applies schooling steering", Category: "behavior"})
	r.Register(SystemInfo{ID: "hunting", Name: "Hunting", Description: "Runs the predator/prey state machine", Category: "behavior"})
	r.Register(SystemInfo{ID: "movement", Name: "Movement", Description: "Integrates forces and updates positions", Category: "physics"})
	r.Register(SystemInfo{ID: "renderDispatch", Name: "Render Dispatch", Description: "Updates instance slots and individual meshes", Category: "render"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Collects window statistics", Category: "internal"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// GetName returns the display name for a system ID, falling back to the
// ID itself if unknown.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered systems in tick order.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
