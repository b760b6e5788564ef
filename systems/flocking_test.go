package systems

import (
	"testing"

	"github.com/pthm-cable/abyss/components"
	"github.com/pthm-cable/abyss/creatures"
)

func newFlocking(v *testEnv) *FlockingSystem {
	return NewFlockingSystem(v.cfg.Flocking, v.kin, v.id, v.mem, v.grid)
}

func TestCohesionPullsTowardSchool(t *testing.T) {
	v := newTestEnv(t)
	// A straggler to the -x side of a tight pair.
	straggler := v.spawn(t, creatures.Fish, 95, -30, 100)
	v.spawn(t, creatures.Fish, 100, -30, 100)
	v.spawn(t, creatures.Fish, 101, -30, 100)
	v.rebuildGrid()

	f := newFlocking(v)
	f.Update()

	if v.kin.AccX[straggler] <= 0 {
		t.Errorf("expected cohesion pull toward +x, got acc.x=%f", v.kin.AccX[straggler])
	}
}

func TestSeparationPushesApart(t *testing.T) {
	v := newTestEnv(t)
	left := v.spawn(t, creatures.Fish, 100.0, -30, 100)
	right := v.spawn(t, creatures.Fish, 100.5, -30, 100) // inside protected range 1.5
	v.rebuildGrid()

	f := newFlocking(v)
	f.Update()

	// Separation dominates at this distance; the pair accelerates apart.
	if v.kin.AccX[left] >= 0 {
		t.Errorf("left fish should push -x, got %f", v.kin.AccX[left])
	}
	if v.kin.AccX[right] <= 0 {
		t.Errorf("right fish should push +x, got %f", v.kin.AccX[right])
	}
}

func TestAlignmentMatchesSchoolVelocity(t *testing.T) {
	v := newTestEnv(t)
	slow := v.spawn(t, creatures.Fish, 100, -30, 100)
	for i := 0; i < 4; i++ {
		e := v.spawn(t, creatures.Fish, 103+float32(i), -30, 100)
		v.kin.VelZ[e] = 2.0
	}
	v.rebuildGrid()

	f := newFlocking(v)
	f.Update()

	if v.kin.AccZ[slow] <= 0 {
		t.Errorf("expected alignment acceleration along +z, got %f", v.kin.AccZ[slow])
	}
}

func TestNonSchoolingKindsIgnored(t *testing.T) {
	v := newTestEnv(t)
	turtle := v.spawn(t, creatures.Turtle, 100, -30, 100)
	v.spawn(t, creatures.Turtle, 101, -30, 100)
	v.rebuildGrid()

	f := newFlocking(v)
	f.Update()

	if v.kin.AccX[turtle] != 0 {
		t.Errorf("non-schooling kind received flocking force: %f", v.kin.AccX[turtle])
	}
}

func TestFleeingFishSkipsSchooling(t *testing.T) {
	v := newTestEnv(t)
	fleeing := v.spawn(t, creatures.Fish, 100, -30, 100)
	v.spawn(t, creatures.Fish, 101, -30, 100)
	v.mem.Mode[fleeing] = components.HuntFleeing
	v.rebuildGrid()

	f := newFlocking(v)
	f.Update()

	if v.kin.AccX[fleeing] != 0 {
		t.Errorf("fleeing fish received schooling force: %f", v.kin.AccX[fleeing])
	}
}

func TestOnlySameKindFlocks(t *testing.T) {
	v := newTestEnv(t)
	fish := v.spawn(t, creatures.Fish, 100, -30, 100)
	// A dense knot of jellyfish nearby must not attract the fish.
	for i := 0; i < 5; i++ {
		v.spawn(t, creatures.Jellyfish, 104, -30, 100+float32(i))
	}
	v.rebuildGrid()

	f := newFlocking(v)
	f.Update()

	if v.kin.AccX[fish] != 0 {
		t.Errorf("fish flocked with jellyfish: acc.x=%f", v.kin.AccX[fish])
	}
}
