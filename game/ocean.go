// Package game wires the component storage, simulation systems, render
// dispatch, and telemetry into a runnable ocean instance.
package game

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/abyss/components"
	"github.com/pthm-cable/abyss/config"
	"github.com/pthm-cable/abyss/ecs"
	"github.com/pthm-cable/abyss/renderer"
	"github.com/pthm-cable/abyss/systems"
	"github.com/pthm-cable/abyss/telemetry"
)

// Ocean holds the complete simulation state.
type Ocean struct {
	cfg *config.Config
	rng *rand.Rand

	world *ecs.World
	kin   *components.Kinematics
	id    *components.Identity
	mem   *components.TargetMemory
	rlink *components.RenderLink

	bounds   systems.Bounds
	grid     *systems.SpatialGrid
	gridSys  *systems.GridSystem
	current  *systems.CurrentSystem
	flocking *systems.FlockingSystem
	hunting  *systems.HuntingSystem
	movement *systems.MovementSystem
	registry *systems.SystemRegistry

	// dispatcher is nil in headless mode; the simulation runs identically
	// without it.
	dispatcher *renderer.Dispatcher

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	tick         int32
	elapsed      float64
	lastStateLog float64
	logStats     bool
}

// NewOcean creates a simulation from the configuration. A nil backend runs
// headless: no dispatcher, no GPU resources. output may be nil to disable
// CSV logging.
func NewOcean(cfg *config.Config, seed int64, backend renderer.ModelBackend, output *telemetry.OutputManager) (*Ocean, error) {
	world := ecs.NewWorld(cfg.Population.Capacity)
	kin := components.NewKinematics(world)
	id := components.NewIdentity(world)
	mem := components.NewTargetMemory(world)
	rlink := components.NewRenderLink(world)

	bounds := systems.Bounds{
		Width:  float32(cfg.World.Width),
		Length: float32(cfg.World.Length),
		Depth:  float32(cfg.World.Depth),
	}
	grid := systems.NewSpatialGrid(bounds, float32(cfg.Physics.GridCellSize))

	o := &Ocean{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		world:  world,
		kin:    kin,
		id:     id,
		mem:    mem,
		rlink:  rlink,
		bounds: bounds,
		grid:   grid,

		gridSys:  systems.NewGridSystem(grid, kin),
		current:  systems.NewCurrentSystem(cfg.Ocean, seed, kin, id),
		flocking: systems.NewFlockingSystem(cfg.Flocking, kin, id, mem, grid),
		hunting:  systems.NewHuntingSystem(cfg.Hunting, world, kin, id, mem, grid),
		movement: systems.NewMovementSystem(kin, id, float32(cfg.Physics.Drag), bounds),
		registry: systems.NewSystemRegistry(),

		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, 1.0/60.0),
		perf:      telemetry.NewPerfCollector(60),
		output:    output,
	}

	if backend != nil {
		o.dispatcher = renderer.NewDispatcher(cfg.Render, backend, kin, id, rlink)
	}

	if err := o.SpawnPopulation(); err != nil {
		return nil, fmt.Errorf("spawning initial population: %w", err)
	}
	return o, nil
}

// World exposes the entity world for inspection and tests.
func (o *Ocean) World() *ecs.World { return o.world }

// Tick returns the current simulation tick.
func (o *Ocean) Tick() int32 { return o.tick }

// Elapsed returns the total simulated time in seconds.
func (o *Ocean) Elapsed() float64 { return o.elapsed }

// Dispatcher returns the render dispatch layer, nil in headless mode.
func (o *Ocean) Dispatcher() *renderer.Dispatcher { return o.dispatcher }

// Perf returns the performance collector.
func (o *Ocean) Perf() *telemetry.PerfCollector { return o.perf }

// SetStatsLogging enables the human-readable perf dump at each stats
// window flush.
func (o *Ocean) SetStatsLogging(enabled bool) { o.logStats = enabled }
