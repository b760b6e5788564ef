package renderer

import (
	"errors"
	"testing"

	"github.com/pthm-cable/abyss/components"
	"github.com/pthm-cable/abyss/config"
	"github.com/pthm-cable/abyss/creatures"
	"github.com/pthm-cable/abyss/ecs"
)

// fakeBackend counts loads and unloads so dispatch bookkeeping can be
// verified without a GL context.
type fakeBackend struct {
	loads   int
	unloads int
	live    map[uint32]bool
	next    uint32
	fail    bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{live: make(map[uint32]bool)}
}

func (f *fakeBackend) Load(kind creatures.Kind, variant uint8) (uint32, error) {
	if f.fail {
		return 0, errors.New("upload refused")
	}
	f.loads++
	f.next++
	f.live[f.next] = true
	return f.next, nil
}

func (f *fakeBackend) Unload(handle uint32) {
	f.unloads++
	delete(f.live, handle)
}

type dispatchEnv struct {
	world   *ecs.World
	kin     *components.Kinematics
	id      *components.Identity
	rlink   *components.RenderLink
	backend *fakeBackend
	d       *Dispatcher
}

func newDispatchEnv(t *testing.T, poolCapacity int) *dispatchEnv {
	t.Helper()
	world := ecs.NewWorld(64)
	kin := components.NewKinematics(world)
	id := components.NewIdentity(world)
	rlink := components.NewRenderLink(world)
	backend := newFakeBackend()
	cfg := config.RenderConfig{
		InstancePoolCapacity: poolCapacity,
		VelocityWindow:       8,
		PitchLimitDeg:        30,
		RollLimitDeg:         35,
		RollGain:             0.5,
		SmoothRate:           6.0,
		ReportInterval:       5.0,
	}
	return &dispatchEnv{
		world:   world,
		kin:     kin,
		id:      id,
		rlink:   rlink,
		backend: backend,
		d:       NewDispatcher(cfg, backend, kin, id, rlink),
	}
}

func (v *dispatchEnv) spawn(t *testing.T, kind creatures.Kind, x, y, z float32) ecs.Entity {
	t.Helper()
	e, err := v.world.Spawn()
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	v.kin.Add(e, x, y, z)
	v.id.Add(e, kind, 0)
	v.rlink.Add(e, creatures.PaletteColor(kind, 0))
	return e
}

func TestInstancedAdmissionIsIdempotent(t *testing.T) {
	v := newDispatchEnv(t, 16)
	fish := v.spawn(t, creatures.Fish, 10, -20, 10)

	v.d.Update(0.016, 0)
	slot1, ok := v.d.SlotOf(fish)
	if !ok {
		t.Fatal("fish not admitted to the pool")
	}

	v.d.Update(0.016, 0.016)
	slot2, _ := v.d.SlotOf(fish)
	if slot1 != slot2 {
		t.Errorf("slot changed across ticks: %d -> %d", slot1, slot2)
	}
	if v.d.Pool().InUse() != 1 {
		t.Errorf("pool InUse = %d, want 1", v.d.Pool().InUse())
	}
}

func TestIndividualModelLoadedOnce(t *testing.T) {
	v := newDispatchEnv(t, 16)
	v.spawn(t, creatures.Shark, 50, -30, 50)

	v.d.Update(0.016, 0)
	v.d.Update(0.016, 0.016)
	v.d.Update(0.016, 0.032)

	if v.backend.loads != 1 {
		t.Errorf("model loaded %d times, want 1", v.backend.loads)
	}
	if len(v.d.Individuals()) != 1 {
		t.Errorf("expected 1 individual draw, got %d", len(v.d.Individuals()))
	}
}

func TestRemovalReclaimsResources(t *testing.T) {
	v := newDispatchEnv(t, 16)
	fish := v.spawn(t, creatures.Fish, 10, -20, 10)
	shark := v.spawn(t, creatures.Shark, 50, -30, 50)

	v.d.Update(0.016, 0)
	if v.d.Pool().InUse() != 1 || v.backend.loads != 1 {
		t.Fatalf("setup failed: inUse=%d loads=%d", v.d.Pool().InUse(), v.backend.loads)
	}

	v.world.Despawn(fish)
	v.world.Despawn(shark)
	v.d.Update(0.016, 0.016)

	if v.d.Pool().InUse() != 0 {
		t.Errorf("slot not released, InUse = %d", v.d.Pool().InUse())
	}
	if v.backend.unloads != 1 {
		t.Errorf("model unloaded %d times, want 1", v.backend.unloads)
	}
	if len(v.backend.live) != 0 {
		t.Errorf("%d GPU handles still live after removal", len(v.backend.live))
	}
	if _, ok := v.d.SlotOf(fish); ok {
		t.Error("dangling slot reference after removal")
	}
	if v.d.HasModel(shark) {
		t.Error("dangling model reference after removal")
	}
}

func TestPoolExhaustionIsNonFatal(t *testing.T) {
	v := newDispatchEnv(t, 1)
	first := v.spawn(t, creatures.Fish, 10, -20, 10)
	second := v.spawn(t, creatures.Fish, 12, -20, 10)

	v.d.Update(0.016, 0)
	if _, ok := v.d.SlotOf(first); !ok {
		t.Fatal("first fish not admitted")
	}
	if _, ok := v.d.SlotOf(second); ok {
		t.Fatal("second fish admitted past capacity")
	}
	if got := len(v.d.InstanceBatch()); got != 1 {
		t.Errorf("batch size %d, want 1", got)
	}

	// The deferred fish takes the slot once it frees.
	v.world.Despawn(first)
	v.d.Update(0.016, 0.016)
	v.d.Update(0.016, 0.032)
	if _, ok := v.d.SlotOf(second); !ok {
		t.Error("deferred fish never admitted after a slot freed")
	}
}

func TestTransformDefaultsToUnitScale(t *testing.T) {
	v := newDispatchEnv(t, 16)
	v.spawn(t, creatures.Fish, 10, -20, 30)

	v.d.Update(0.016, 0)
	batch := v.d.InstanceBatch()
	if len(batch) != 1 {
		t.Fatalf("batch size %d, want 1", len(batch))
	}
	m := batch[0]
	if m.M12 != 10 || m.M13 != -20 || m.M14 != 30 {
		t.Errorf("translation (%f, %f, %f), want (10, -20, 30)", m.M12, m.M13, m.M14)
	}
	// No explicit scale and no motion: the upper 3x3 stays identity.
	if m.M0 != 1 || m.M5 != 1 || m.M10 != 1 {
		t.Errorf("diagonal (%f, %f, %f), want unit", m.M0, m.M5, m.M10)
	}
}

func TestModelLoadFailureSkipsEntity(t *testing.T) {
	v := newDispatchEnv(t, 16)
	v.backend.fail = true
	shark := v.spawn(t, creatures.Shark, 50, -30, 50)

	v.d.Update(0.016, 0)
	if len(v.d.Individuals()) != 0 {
		t.Error("failed model still produced a draw")
	}

	// Recovery: the backend comes back and the entity loads next tick.
	v.backend.fail = false
	v.d.Update(0.016, 0.016)
	if !v.d.HasModel(shark) {
		t.Error("entity never recovered after a transient load failure")
	}
}

func TestHiddenEntitiesKeepResourcesButSkipDraw(t *testing.T) {
	v := newDispatchEnv(t, 16)
	fish := v.spawn(t, creatures.Fish, 10, -20, 10)

	v.d.Update(0.016, 0)
	v.rlink.Visible[fish] = false
	v.d.Update(0.016, 0.016)

	// Still admitted (the entity is alive), just not drawn this frame.
	if _, ok := v.d.SlotOf(fish); !ok {
		t.Error("hidden entity lost its slot")
	}
	if got := len(v.d.InstanceBatch()); got != 0 {
		t.Errorf("hidden entity still in batch, size %d", got)
	}
}
