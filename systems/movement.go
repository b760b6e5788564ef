package systems

import (
	"github.com/pthm-cable/abyss/components"
	"github.com/pthm-cable/abyss/ecs"
)

// MovementSystem integrates acceleration into velocity and velocity into
// position using semi-implicit Euler: acceleration is folded into velocity
// before the position step so continuously applied forces stay stable.
// Drag is applied after the velocity step, then acceleration is zeroed —
// forces are transient and recomputed from scratch every tick.
type MovementSystem struct {
	kin    *components.Kinematics
	id     *components.Identity
	query  *ecs.Query
	drag   float32
	bounds Bounds
}

// NewMovementSystem creates the integration system.
func NewMovementSystem(kin *components.Kinematics, id *components.Identity, drag float32, bounds Bounds) *MovementSystem {
	return &MovementSystem{
		kin:    kin,
		id:     id,
		query:  ecs.NewQuery(kin.Set, id.Set),
		drag:   drag,
		bounds: bounds,
	}
}

// Update advances every kinematic entity by dt seconds.
func (s *MovementSystem) Update(dt float32) {
	k := s.kin
	for _, e := range s.query.Entities() {
		prof := s.id.Kind[e].Profile()

		vx := (k.VelX[e] + k.AccX[e]*dt) * s.drag
		vy := (k.VelY[e] + k.AccY[e]*dt) * s.drag
		vz := (k.VelZ[e] + k.AccZ[e]*dt) * s.drag
		k.AccX[e], k.AccY[e], k.AccZ[e] = 0, 0, 0

		// Per-kind hard speed clamp. MaxSpeed is set above the flee
		// multiple of cruise speed, so fleeing prey are not throttled.
		speedSq := vx*vx + vy*vy + vz*vz
		if max := prof.MaxSpeed; speedSq > max*max {
			scale := max / sqrt32(speedSq)
			vx *= scale
			vy *= scale
			vz *= scale
		}

		k.VelX[e], k.VelY[e], k.VelZ[e] = vx, vy, vz
		k.PosX[e] += vx * dt
		k.PosY[e] += vy * dt
		k.PosZ[e] += vz * dt

		s.applyBounds(e, prof.BottomDweller, prof.BaseScale)
	}
}

// applyBounds keeps entities inside the ocean volume with a gentle bounce
// and pins bottom dwellers to the sea floor.
func (s *MovementSystem) applyBounds(e ecs.Entity, bottomDweller bool, baseScale float32) {
	k := s.kin

	if k.PosX[e] < 0 {
		k.PosX[e] = 0
		k.VelX[e] *= -0.3
	} else if k.PosX[e] > s.bounds.Width {
		k.PosX[e] = s.bounds.Width
		k.VelX[e] *= -0.3
	}
	if k.PosZ[e] < 0 {
		k.PosZ[e] = 0
		k.VelZ[e] *= -0.3
	} else if k.PosZ[e] > s.bounds.Length {
		k.PosZ[e] = s.bounds.Length
		k.VelZ[e] *= -0.3
	}

	floor := s.bounds.FloorY()
	if bottomDweller {
		k.PosY[e] = floor + baseScale*0.3
		k.VelY[e] = 0
		return
	}
	if k.PosY[e] > 0 {
		k.PosY[e] = 0
		k.VelY[e] *= -0.3
	} else if k.PosY[e] < floor {
		k.PosY[e] = floor
		k.VelY[e] *= -0.3
	}
}
