package systems

import (
	"github.com/pthm-cable/abyss/components"
	"github.com/pthm-cable/abyss/config"
	"github.com/pthm-cable/abyss/ecs"
)

// VisionCheck decides whether a predator at (px, py, pz) currently sees a
// target at (tx, ty, tz). The rule is a pluggable predicate; the default is
// a plain sensor-range distance check, but callers can install occlusion.
type VisionCheck func(px, py, pz, tx, ty, tz, senseRange float32) bool

// RangeVision is the default visibility rule: visible iff within range.
func RangeVision(px, py, pz, tx, ty, tz, senseRange float32) bool {
	dx, dy, dz := tx-px, ty-py, tz-pz
	return dx*dx+dy*dy+dz*dz <= senseRange*senseRange
}

// HuntingSystem runs the predator/prey state machine.
//
// Predators: idle -> pursuing on prey acquisition, pursuing -> attacking
// inside the strike radius, back to idle when the target is forgotten,
// killed, or turns stale. Pursuit steers toward the live prey position when
// visible, otherwise toward the remembered one.
//
// Prey: any mobile non-predator inside a predator's fear radius flees
// directly away from the nearest threat at the flee speed multiple, and
// reverts to idle once no threat remains in range.
//
// The system writes Velocity/Acceleration steering and TargetMemory; it
// never writes Position. Kills are recorded for the caller to despawn after
// the pass, so query iteration never observes a half-removed entity.
type HuntingSystem struct {
	cfg   config.HuntingConfig
	world *ecs.World
	kin   *components.Kinematics
	id    *components.Identity
	mem   *components.TargetMemory
	grid  *SpatialGrid
	query *ecs.Query

	// Visible is the pursuit visibility rule. Defaults to RangeVision.
	Visible VisionCheck

	neighbors []Neighbor
	kills     []ecs.Entity
}

// NewHuntingSystem creates the hunting system.
func NewHuntingSystem(cfg config.HuntingConfig, world *ecs.World, kin *components.Kinematics, id *components.Identity, mem *components.TargetMemory, grid *SpatialGrid) *HuntingSystem {
	return &HuntingSystem{
		cfg:       cfg,
		world:     world,
		kin:       kin,
		id:        id,
		mem:       mem,
		grid:      grid,
		query:     ecs.NewQuery(mem.Set, kin.Set, id.Set),
		Visible:   RangeVision,
		neighbors: make([]Neighbor, 0, MaxQueryResults),
	}
}

// Kills returns the prey killed during the last Update. The slice is reused
// and may contain duplicates when two predators strike the same prey; the
// despawn path tolerates that.
func (s *HuntingSystem) Kills() []ecs.Entity { return s.kills }

// Update advances every hunting-capable entity by dt seconds. Prey flee
// responses are evaluated in the same pass as predator pursuit, so a prey
// spawned inside a fear radius flees within one tick.
func (s *HuntingSystem) Update(dt float32) {
	s.kills = s.kills[:0]
	for _, e := range s.query.Entities() {
		prof := s.id.Kind[e].Profile()
		switch {
		case prof.Predator:
			s.updatePredator(e, dt)
		case prof.BottomDweller:
			// Bottom dwellers neither hunt nor flee.
		default:
			s.updatePrey(e, prof.CruiseSpeed)
		}
	}
}

func (s *HuntingSystem) updatePrey(e ecs.Entity, cruise float32) {
	px, py, pz := s.kin.PosX[e], s.kin.PosY[e], s.kin.PosZ[e]

	s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], px, py, pz, float32(s.cfg.FearRadius), e, s.kin)

	// Nearest threatening predator wins.
	var threat *Neighbor
	for i := range s.neighbors {
		n := &s.neighbors[i]
		if !s.id.Set.Has(n.E) || !s.id.Kind[n.E].PreysOn(s.id.Kind[e]) {
			continue
		}
		if threat == nil || n.DistSq < threat.DistSq {
			threat = n
		}
	}

	if threat == nil {
		if s.mem.Mode[e] == components.HuntFleeing {
			s.mem.Clear(e)
		}
		return
	}

	s.mem.Mode[e] = components.HuntFleeing
	s.mem.Target[e] = ecs.None

	// Steer directly away from the threat at the flee speed multiple.
	d := sqrt32(threat.DistSq)
	speed := cruise * float32(s.cfg.FleeMultiplier)
	if d < 1e-5 {
		// Degenerate overlap: bolt upward rather than dividing by zero.
		s.kin.VelX[e], s.kin.VelY[e], s.kin.VelZ[e] = 0, speed, 0
		return
	}
	s.kin.VelX[e] = -threat.DX / d * speed
	s.kin.VelY[e] = -threat.DY / d * speed
	s.kin.VelZ[e] = -threat.DZ / d * speed
}

func (s *HuntingSystem) updatePredator(e ecs.Entity, dt float32) {
	mode := s.mem.Mode[e]
	if mode == components.HuntFleeing {
		// Predators never flee; recover from any bad state.
		s.mem.Clear(e)
		mode = components.HuntIdle
	}

	if mode == components.HuntIdle {
		s.acquireTarget(e)
		return
	}

	// pursuing or attacking
	t := s.mem.Target[e]
	if !s.targetValid(e, t) {
		// Remembered prey has been removed or is otherwise stale; fall
		// back to idle rather than dereferencing a dead slot.
		s.mem.Clear(e)
		return
	}

	px, py, pz := s.kin.PosX[e], s.kin.PosY[e], s.kin.PosZ[e]
	tx, ty, tz := s.kin.PosX[t], s.kin.PosY[t], s.kin.PosZ[t]

	visible := s.Visible(px, py, pz, tx, ty, tz, float32(s.cfg.SenseRange))
	if visible {
		s.mem.LastSeenX[e], s.mem.LastSeenY[e], s.mem.LastSeenZ[e] = tx, ty, tz
		s.mem.TimeSinceSeen[e] = 0
	} else {
		s.mem.TimeSinceSeen[e] += dt
	}

	if s.mem.TimeSinceSeen[e] > float32(s.cfg.ForgetTime) {
		// Prey presumed lost.
		s.mem.Clear(e)
		return
	}

	dx, dy, dz := tx-px, ty-py, tz-pz
	dist := sqrt32(dx*dx + dy*dy + dz*dz)

	switch mode {
	case components.HuntPursuing:
		if visible && dist < float32(s.cfg.StrikeRadius) {
			s.mem.Mode[e] = components.HuntAttacking
		}
	case components.HuntAttacking:
		if dist < float32(s.cfg.ContactRadius) {
			// Strike connects: the prey is removed by the caller and the
			// predator goes back to scanning.
			s.kills = append(s.kills, t)
			s.mem.Clear(e)
			return
		}
		if !visible || dist > float32(s.cfg.StrikeRadius)*1.5 {
			s.mem.Mode[e] = components.HuntPursuing
		}
	}

	// Steer toward the live position when visible, else the remembered one.
	ax, ay, az := s.mem.LastSeenX[e], s.mem.LastSeenY[e], s.mem.LastSeenZ[e]
	sx, sy, sz := ax-px, ay-py, az-pz
	sd := sqrt32(sx*sx + sy*sy + sz*sz)
	if sd < 1e-5 {
		return
	}
	prof := s.id.Kind[e].Profile()
	speed := prof.CruiseSpeed * float32(s.cfg.PursuitMultiplier)
	gain := float32(s.cfg.SteerGain)
	s.kin.AccX[e] += (sx/sd*speed - s.kin.VelX[e]) * gain
	s.kin.AccY[e] += (sy/sd*speed - s.kin.VelY[e]) * gain
	s.kin.AccZ[e] += (sz/sd*speed - s.kin.VelZ[e]) * gain
}

// acquireTarget scans for the nearest valid prey inside the acquisition
// radius and, if found, transitions to pursuing with fresh target memory.
func (s *HuntingSystem) acquireTarget(e ecs.Entity) {
	px, py, pz := s.kin.PosX[e], s.kin.PosY[e], s.kin.PosZ[e]
	kind := s.id.Kind[e]

	s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], px, py, pz, float32(s.cfg.AcquireRadius), e, s.kin)

	var best *Neighbor
	for i := range s.neighbors {
		n := &s.neighbors[i]
		if !s.id.Set.Has(n.E) || !kind.PreysOn(s.id.Kind[n.E]) {
			continue
		}
		if best == nil || n.DistSq < best.DistSq {
			best = n
		}
	}
	if best == nil {
		return
	}

	t := best.E
	s.mem.Mode[e] = components.HuntPursuing
	s.mem.Target[e] = t
	s.mem.LastSeenX[e] = s.kin.PosX[t]
	s.mem.LastSeenY[e] = s.kin.PosY[t]
	s.mem.LastSeenZ[e] = s.kin.PosZ[t]
	s.mem.TimeSinceSeen[e] = 0
}

// targetValid reports whether a remembered target may still be chased.
func (s *HuntingSystem) targetValid(e, t ecs.Entity) bool {
	if t == ecs.None || !s.world.Alive(t) {
		return false
	}
	if !s.kin.Set.Has(t) || !s.id.Set.Has(t) {
		return false
	}
	return s.id.Kind[e].PreysOn(s.id.Kind[t])
}
