package renderer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/abyss/components"
	"github.com/pthm-cable/abyss/config"
	"github.com/pthm-cable/abyss/creatures"
	"github.com/pthm-cable/abyss/ecs"
)

// ModelBackend owns the GPU side of individually rendered creatures. The
// production implementation uploads raylib meshes; tests substitute a
// counting fake so the dispatch bookkeeping runs headless.
type ModelBackend interface {
	// Load uploads the mesh and material for a (kind, variant) pair and
	// returns an opaque handle.
	Load(kind creatures.Kind, variant uint8) (uint32, error)
	// Unload releases the GPU resources behind a handle. Must be called
	// exactly once per successful Load or the GPU memory leaks.
	Unload(handle uint32)
}

// IndividualDraw is one non-instanced creature ready to draw this frame.
type IndividualDraw struct {
	Handle    uint32
	Transform rl.Matrix
	Tint      rl.Color
}

// Dispatcher partitions live renderable entities into the two render
// strategies: a bounded pool of instance slots for the numerically
// dominant simple kind (fish) and individually managed meshes for the
// rest. It owns slot assignments, lazy model creation, per-tick transform
// and animation updates, and resource reclamation for removed entities.
type Dispatcher struct {
	cfg     config.RenderConfig
	params  OrientationParams
	backend ModelBackend

	kin   *components.Kinematics
	id    *components.Identity
	rlink *components.RenderLink
	query *ecs.Query

	pool   *SlotPool
	slots  map[ecs.Entity]int
	models map[ecs.Entity]uint32
	orient map[ecs.Entity]*Orientation
	seen   map[ecs.Entity]uint64
	tick   uint64

	// Per-slot GPU-visible buffers for the instanced path, indexed by
	// slot. Phase and speed feed the vertex-displacement swim shader.
	slotActive    []bool
	slotTransform []rl.Matrix
	slotTint      []rl.Color
	slotPhase     []float32
	slotSpeed     []float32

	// Reused per-frame scratch.
	batchTransforms []rl.Matrix
	batchPhases     []float32
	batchSpeeds     []float32
	individuals     []IndividualDraw

	dropped    int // entities skipped since the last exhaustion report
	lastReport float64
}

// NewDispatcher creates the render dispatch layer.
func NewDispatcher(cfg config.RenderConfig, backend ModelBackend, kin *components.Kinematics, id *components.Identity, rlink *components.RenderLink) *Dispatcher {
	n := cfg.InstancePoolCapacity
	params := NewOrientationParams(cfg)
	return &Dispatcher{
		cfg:             cfg,
		params:          params,
		backend:         backend,
		kin:             kin,
		id:              id,
		rlink:           rlink,
		query:           ecs.NewQuery(rlink.Set, kin.Set, id.Set),
		pool:            NewSlotPool(n),
		slots:           make(map[ecs.Entity]int),
		models:          make(map[ecs.Entity]uint32),
		orient:          make(map[ecs.Entity]*Orientation),
		seen:            make(map[ecs.Entity]uint64),
		slotActive:      make([]bool, n),
		slotTransform:   make([]rl.Matrix, n),
		slotTint:        make([]rl.Color, n),
		slotPhase:       make([]float32, n),
		slotSpeed:       make([]float32, n),
		batchTransforms: make([]rl.Matrix, 0, n),
	}
}

// Pool exposes the slot pool for telemetry.
func (d *Dispatcher) Pool() *SlotPool { return d.pool }

// Update runs one dispatch pass: admission of newly seen entities,
// per-entity transform/orientation/animation updates, and reclamation of
// resources held by entities that left the live query. elapsed is total
// simulation time, used to pace exhaustion reports.
func (d *Dispatcher) Update(dt float32, elapsed float64) {
	d.tick++
	d.individuals = d.individuals[:0]
	for i := range d.slotActive {
		d.slotActive[i] = false
	}

	for _, e := range d.query.Entities() {
		d.seen[e] = d.tick
		if !d.rlink.Visible[e] {
			continue
		}
		if d.id.Kind[e].Profile().Instanced {
			d.updateInstanced(e, dt)
		} else {
			d.updateIndividual(e, dt)
		}
	}

	d.sweep()
	d.reportExhaustion(elapsed)
}

func (d *Dispatcher) updateInstanced(e ecs.Entity, dt float32) {
	slot, ok := d.slots[e]
	if !ok {
		// First sight: admit into the pool. Exhaustion defers rendering
		// for this entity; it retries every tick until a slot frees.
		slot, ok = d.pool.Acquire()
		if !ok {
			d.dropped++
			return
		}
		d.slots[e] = slot
	}

	o := d.orientationFor(e)
	o.Update(d.velocity(e), dt, d.id.Kind[e].Profile().MaxSpeed)

	d.slotActive[slot] = true
	d.slotTransform[slot] = d.transform(e, o)
	d.slotTint[slot] = d.tint(e)
	d.slotPhase[slot] = o.Phase
	d.slotSpeed[slot] = o.SpeedFactor
}

func (d *Dispatcher) updateIndividual(e ecs.Entity, dt float32) {
	handle, ok := d.models[e]
	if !ok {
		var err error
		handle, err = d.backend.Load(d.id.Kind[e], d.id.Variant[e])
		if err != nil {
			// A single entity's model failure never halts the tick.
			slog.Warn("model load failed",
				"kind", d.id.Kind[e].String(), "variant", d.id.Variant[e], "error", err)
			return
		}
		d.models[e] = handle
	}

	o := d.orientationFor(e)
	o.Update(d.velocity(e), dt, d.id.Kind[e].Profile().MaxSpeed)

	d.individuals = append(d.individuals, IndividualDraw{
		Handle:    handle,
		Transform: d.transform(e, o),
		Tint:      d.tint(e),
	})
}

// sweep reclaims resources for entities that were not in this tick's live
// query: slots return to the pool, models are unloaded, smoothing state is
// dropped. No dangling references survive the pass.
func (d *Dispatcher) sweep() {
	for e, tick := range d.seen {
		if tick == d.tick {
			continue
		}
		if slot, ok := d.slots[e]; ok {
			d.slotActive[slot] = false
			d.pool.Release(slot)
			delete(d.slots, e)
		}
		if handle, ok := d.models[e]; ok {
			d.backend.Unload(handle)
			delete(d.models, e)
		}
		delete(d.orient, e)
		delete(d.seen, e)
	}
}

func (d *Dispatcher) reportExhaustion(elapsed float64) {
	if d.dropped == 0 {
		return
	}
	if elapsed-d.lastReport < d.cfg.ReportInterval {
		return
	}
	slog.Warn("instance pool exhausted, rendering deferred",
		"dropped", d.dropped, "capacity", d.pool.Capacity())
	d.dropped = 0
	d.lastReport = elapsed
}

func (d *Dispatcher) orientationFor(e ecs.Entity) *Orientation {
	o, ok := d.orient[e]
	if !ok {
		o = NewOrientation(&d.params)
		d.orient[e] = o
	}
	return o
}

func (d *Dispatcher) velocity(e ecs.Entity) rl.Vector3 {
	return rl.NewVector3(d.kin.VelX[e], d.kin.VelY[e], d.kin.VelZ[e])
}

// transform composes scale, smoothed rotation, and world translation.
// Entities without an explicit scale render at unit scale.
func (d *Dispatcher) transform(e ecs.Entity, o *Orientation) rl.Matrix {
	sx, sy, sz := d.kin.Scale(e)
	m := rl.MatrixScale(sx, sy, sz)
	m = rl.MatrixMultiply(m, rl.QuaternionToMatrix(o.quat))
	return rl.MatrixMultiply(m, rl.MatrixTranslate(d.kin.PosX[e], d.kin.PosY[e], d.kin.PosZ[e]))
}

func (d *Dispatcher) tint(e ecs.Entity) rl.Color {
	return rl.NewColor(
		uint8(clampf(d.rlink.ColorR[e], 0, 1)*255),
		uint8(clampf(d.rlink.ColorG[e], 0, 1)*255),
		uint8(clampf(d.rlink.ColorB[e], 0, 1)*255),
		uint8(clampf(d.rlink.ColorA[e], 0, 1)*255),
	)
}

// InstanceBatch compacts the active slots into a contiguous transform
// buffer for one instanced draw call. The returned slice is reused.
func (d *Dispatcher) InstanceBatch() []rl.Matrix {
	d.batchTransforms = d.batchTransforms[:0]
	for slot, active := range d.slotActive {
		if active {
			d.batchTransforms = append(d.batchTransforms, d.slotTransform[slot])
		}
	}
	return d.batchTransforms
}

// InstanceAnimation compacts the per-slot swim phase and speed factors in
// the same slot order as InstanceBatch, for the vertex-displacement
// shader's per-instance attributes. Both slices are reused.
func (d *Dispatcher) InstanceAnimation() (phases, speeds []float32) {
	d.batchPhases = d.batchPhases[:0]
	d.batchSpeeds = d.batchSpeeds[:0]
	for slot, active := range d.slotActive {
		if active {
			d.batchPhases = append(d.batchPhases, d.slotPhase[slot])
			d.batchSpeeds = append(d.batchSpeeds, d.slotSpeed[slot])
		}
	}
	return d.batchPhases, d.batchSpeeds
}

// Individuals returns this frame's non-instanced draws. The slice is
// reused across frames.
func (d *Dispatcher) Individuals() []IndividualDraw { return d.individuals }

// SlotOf reports the instance slot assigned to e, if any. Intended for
// telemetry and tests.
func (d *Dispatcher) SlotOf(e ecs.Entity) (int, bool) {
	s, ok := d.slots[e]
	return s, ok
}

// HasModel reports whether e currently owns an individual model.
func (d *Dispatcher) HasModel(e ecs.Entity) bool {
	_, ok := d.models[e]
	return ok
}
