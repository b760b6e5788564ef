// Package components defines the column stores for the simulation.
//
// Each component is a group of parallel arrays sized to the world capacity
// and indexed by entity id, paired with the ecs membership set that says
// which slots are live. Systems read and write columns directly; slots of
// entities outside the set hold stale data.
package components

import (
	"github.com/pthm-cable/abyss/creatures"
	"github.com/pthm-cable/abyss/ecs"
)

// Kinematics holds position, velocity, acceleration, and scale columns.
// All values are world-space meters (per second, per second squared).
type Kinematics struct {
	Set *ecs.Set

	PosX, PosY, PosZ []float32
	VelX, VelY, VelZ []float32
	AccX, AccY, AccZ []float32

	// Scale is optional: HasScale[e] false means "render at unit scale".
	ScaleX, ScaleY, ScaleZ []float32
	HasScale               []bool
}

// NewKinematics allocates kinematics columns at world capacity.
func NewKinematics(w *ecs.World) *Kinematics {
	n := w.Capacity()
	return &Kinematics{
		Set:    w.NewSet("kinematics"),
		PosX:   make([]float32, n),
		PosY:   make([]float32, n),
		PosZ:   make([]float32, n),
		VelX:   make([]float32, n),
		VelY:   make([]float32, n),
		VelZ:   make([]float32, n),
		AccX:   make([]float32, n),
		AccY:   make([]float32, n),
		AccZ:   make([]float32, n),
		ScaleX: make([]float32, n),
		ScaleY: make([]float32, n),
		ScaleZ: make([]float32, n),
		HasScale: make([]bool, n),
	}
}

// Add initializes the slot for e at the given position with zero velocity
// and acceleration, and marks e as a member.
func (k *Kinematics) Add(e ecs.Entity, x, y, z float32) {
	k.PosX[e], k.PosY[e], k.PosZ[e] = x, y, z
	k.VelX[e], k.VelY[e], k.VelZ[e] = 0, 0, 0
	k.AccX[e], k.AccY[e], k.AccZ[e] = 0, 0, 0
	k.HasScale[e] = false
	k.Set.Add(e)
}

// SetScale records an explicit per-entity scale.
func (k *Kinematics) SetScale(e ecs.Entity, x, y, z float32) {
	k.ScaleX[e], k.ScaleY[e], k.ScaleZ[e] = x, y, z
	k.HasScale[e] = true
}

// Scale returns the entity scale, defaulting to unit scale when none was
// set rather than exposing a stale slot.
func (k *Kinematics) Scale(e ecs.Entity) (x, y, z float32) {
	if !k.HasScale[e] {
		return 1, 1, 1
	}
	return k.ScaleX[e], k.ScaleY[e], k.ScaleZ[e]
}

// Identity holds the creature kind and species variant columns.
type Identity struct {
	Set     *ecs.Set
	Kind    []creatures.Kind
	Variant []uint8
}

// NewIdentity allocates identity columns at world capacity.
func NewIdentity(w *ecs.World) *Identity {
	n := w.Capacity()
	return &Identity{
		Set:     w.NewSet("identity"),
		Kind:    make([]creatures.Kind, n),
		Variant: make([]uint8, n),
	}
}

// Add assigns kind/variant to e and marks it as a member.
func (id *Identity) Add(e ecs.Entity, kind creatures.Kind, variant uint8) {
	id.Kind[e] = kind
	id.Variant[e] = variant
	id.Set.Add(e)
}

// HuntMode is the discrete predator/prey behavioral state.
type HuntMode uint8

const (
	HuntIdle HuntMode = iota
	HuntPursuing
	HuntAttacking
	HuntFleeing
)

func (m HuntMode) String() string {
	switch m {
	case HuntIdle:
		return "idle"
	case HuntPursuing:
		return "pursuing"
	case HuntAttacking:
		return "attacking"
	case HuntFleeing:
		return "fleeing"
	}
	return "invalid"
}

// TargetMemory holds the hunting state machine columns. Target and the
// last-seen fields are only meaningful while Mode is pursuing or attacking.
type TargetMemory struct {
	Set *ecs.Set

	Mode          []HuntMode
	Target        []ecs.Entity
	LastSeenX     []float32
	LastSeenY     []float32
	LastSeenZ     []float32
	TimeSinceSeen []float32
}

// NewTargetMemory allocates target memory columns at world capacity.
func NewTargetMemory(w *ecs.World) *TargetMemory {
	n := w.Capacity()
	return &TargetMemory{
		Set:           w.NewSet("targetMemory"),
		Mode:          make([]HuntMode, n),
		Target:        make([]ecs.Entity, n),
		LastSeenX:     make([]float32, n),
		LastSeenY:     make([]float32, n),
		LastSeenZ:     make([]float32, n),
		TimeSinceSeen: make([]float32, n),
	}
}

// Add resets the slot for e to idle with no target and marks membership.
func (m *TargetMemory) Add(e ecs.Entity) {
	m.Clear(e)
	m.Set.Add(e)
}

// Clear drops any remembered target and returns the entity to idle.
func (m *TargetMemory) Clear(e ecs.Entity) {
	m.Mode[e] = HuntIdle
	m.Target[e] = ecs.None
	m.LastSeenX[e], m.LastSeenY[e], m.LastSeenZ[e] = 0, 0, 0
	m.TimeSinceSeen[e] = 0
}

// RenderLink holds per-entity render attributes consumed by the dispatcher.
type RenderLink struct {
	Set *ecs.Set

	Visible                        []bool
	ColorR, ColorG, ColorB, ColorA []float32
}

// NewRenderLink allocates render link columns at world capacity.
func NewRenderLink(w *ecs.World) *RenderLink {
	n := w.Capacity()
	return &RenderLink{
		Set:     w.NewSet("renderLink"),
		Visible: make([]bool, n),
		ColorR:  make([]float32, n),
		ColorG:  make([]float32, n),
		ColorB:  make([]float32, n),
		ColorA:  make([]float32, n),
	}
}

// Add marks e renderable with the given tint.
func (r *RenderLink) Add(e ecs.Entity, c creatures.Color) {
	r.Visible[e] = true
	r.ColorR[e], r.ColorG[e], r.ColorB[e], r.ColorA[e] = c.R, c.G, c.B, c.A
	r.Set.Add(e)
}
