package systems

import (
	"github.com/pthm-cable/abyss/components"
	"github.com/pthm-cable/abyss/config"
	"github.com/pthm-cable/abyss/ecs"
)

// FlockingSystem applies the three schooling steering forces to every
// schooling-kind entity: separation from neighbors inside the protected
// range, and alignment/cohesion with same-kind neighbors inside the vision
// range. Steering accumulates into Acceleration; fleeing entities are
// skipped so panic overrides the school.
type FlockingSystem struct {
	cfg   config.FlockingConfig
	kin   *components.Kinematics
	id    *components.Identity
	mem   *components.TargetMemory
	grid  *SpatialGrid
	query *ecs.Query

	neighbors []Neighbor
}

// NewFlockingSystem creates the schooling system.
func NewFlockingSystem(cfg config.FlockingConfig, kin *components.Kinematics, id *components.Identity, mem *components.TargetMemory, grid *SpatialGrid) *FlockingSystem {
	return &FlockingSystem{
		cfg:       cfg,
		kin:       kin,
		id:        id,
		mem:       mem,
		grid:      grid,
		query:     ecs.NewQuery(kin.Set, id.Set),
		neighbors: make([]Neighbor, 0, MaxQueryResults),
	}
}

// Update accumulates schooling steering for one tick.
func (s *FlockingSystem) Update() {
	protectedSq := float32(s.cfg.ProtectedRange * s.cfg.ProtectedRange)

	for _, e := range s.query.Entities() {
		kind := s.id.Kind[e]
		if !kind.Profile().Schooling {
			continue
		}
		if s.mem.Set.Has(e) && s.mem.Mode[e] == components.HuntFleeing {
			continue
		}

		px, py, pz := s.kin.PosX[e], s.kin.PosY[e], s.kin.PosZ[e]
		s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], px, py, pz, float32(s.cfg.VisionRange), e, s.kin)

		var sepX, sepY, sepZ float32
		var velX, velY, velZ float32
		var posX, posY, posZ float32
		flock := 0

		for i := range s.neighbors {
			n := &s.neighbors[i]
			if !s.id.Set.Has(n.E) || s.id.Kind[n.E] != kind {
				continue
			}
			if n.DistSq < protectedSq {
				sepX -= n.DX
				sepY -= n.DY
				sepZ -= n.DZ
			}
			velX += s.kin.VelX[n.E]
			velY += s.kin.VelY[n.E]
			velZ += s.kin.VelZ[n.E]
			posX += n.DX
			posY += n.DY
			posZ += n.DZ
			flock++
		}

		steerX := sepX * float32(s.cfg.Separation)
		steerY := sepY * float32(s.cfg.Separation)
		steerZ := sepZ * float32(s.cfg.Separation)

		if flock > 0 {
			inv := 1 / float32(flock)
			// Alignment: match the school's average velocity.
			steerX += (velX*inv - s.kin.VelX[e]) * float32(s.cfg.Alignment)
			steerY += (velY*inv - s.kin.VelY[e]) * float32(s.cfg.Alignment)
			steerZ += (velZ*inv - s.kin.VelZ[e]) * float32(s.cfg.Alignment)
			// Cohesion: drift toward the school centroid. The neighbor
			// deltas are already relative to us, so their mean is the
			// centroid offset.
			steerX += posX * inv * float32(s.cfg.Cohesion)
			steerY += posY * inv * float32(s.cfg.Cohesion)
			steerZ += posZ * inv * float32(s.cfg.Cohesion)
		}

		if max := float32(s.cfg.MaxSteer); max > 0 {
			magSq := steerX*steerX + steerY*steerY + steerZ*steerZ
			if magSq > max*max {
				scale := max / sqrt32(magSq)
				steerX *= scale
				steerY *= scale
				steerZ *= scale
			}
		}

		s.kin.AccX[e] += steerX
		s.kin.AccY[e] += steerY
		s.kin.AccZ[e] += steerZ
	}
}
