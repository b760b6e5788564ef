package systems

import (
	"testing"

	"github.com/pthm-cable/abyss/components"
	"github.com/pthm-cable/abyss/config"
	"github.com/pthm-cable/abyss/creatures"
	"github.com/pthm-cable/abyss/ecs"
)

// testEnv bundles a small world with the component columns and spatial grid
// the systems under test share.
type testEnv struct {
	cfg    *config.Config
	world  *ecs.World
	kin    *components.Kinematics
	id     *components.Identity
	mem    *components.TargetMemory
	grid   *SpatialGrid
	bounds Bounds
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	world := ecs.NewWorld(256)
	bounds := Bounds{
		Width:  float32(cfg.World.Width),
		Length: float32(cfg.World.Length),
		Depth:  float32(cfg.World.Depth),
	}
	return &testEnv{
		cfg:    cfg,
		world:  world,
		kin:    components.NewKinematics(world),
		id:     components.NewIdentity(world),
		mem:    components.NewTargetMemory(world),
		grid:   NewSpatialGrid(bounds, float32(cfg.Physics.GridCellSize)),
		bounds: bounds,
	}
}

// spawn creates a fully populated creature at the given position.
func (v *testEnv) spawn(t *testing.T, kind creatures.Kind, x, y, z float32) ecs.Entity {
	t.Helper()
	e, err := v.world.Spawn()
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	v.kin.Add(e, x, y, z)
	v.id.Add(e, kind, 0)
	v.mem.Add(e)
	return e
}

// rebuildGrid refreshes the spatial index from current positions.
func (v *testEnv) rebuildGrid() {
	v.grid.Clear()
	for _, e := range ecs.NewQuery(v.kin.Set).Entities() {
		v.grid.Insert(e, v.kin.PosX[e], v.kin.PosY[e], v.kin.PosZ[e])
	}
}

func absDiff(a, b float32) float32 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
