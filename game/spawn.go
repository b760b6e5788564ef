package game

import (
	"fmt"
	"math"

	"github.com/pthm-cable/abyss/creatures"
	"github.com/pthm-cable/abyss/ecs"
)

// SpawnCreature creates one creature of the given kind at a position,
// populating every component column. Returns ErrCapacity (wrapped) when
// the world is full.
func (o *Ocean) SpawnCreature(kind creatures.Kind, x, y, z float32) (ecs.Entity, error) {
	e, err := o.world.Spawn()
	if err != nil {
		return ecs.None, fmt.Errorf("spawning %s: %w", kind, err)
	}

	prof := kind.Profile()
	if prof.BottomDweller {
		y = o.bounds.FloorY() + prof.BaseScale*0.3
	}

	o.kin.Add(e, x, y, z)
	if !prof.BottomDweller {
		// Drift off in a random heading at cruise speed.
		heading := o.rng.Float64() * 2 * math.Pi
		o.kin.VelX[e] = prof.CruiseSpeed * float32(math.Cos(heading))
		o.kin.VelZ[e] = prof.CruiseSpeed * float32(math.Sin(heading))
	}

	// Size varies around the profile base.
	s := prof.BaseScale * (0.85 + o.rng.Float32()*0.3)
	o.kin.SetScale(e, s, s, s)

	variant := uint8(0)
	if prof.VariantCount > 1 {
		variant = uint8(o.rng.Intn(prof.VariantCount))
	}
	o.id.Add(e, kind, variant)
	o.mem.Add(e)
	o.rlink.Add(e, creatures.PaletteColor(kind, variant))

	o.collector.RecordSpawn(kind)
	return e, nil
}

// SpawnPopulation seeds the world from the configured initial census.
// Schooling kinds spawn in groups so flocking has structure from the first
// tick; everything else scatters uniformly.
func (o *Ocean) SpawnPopulation() error {
	for _, kind := range creatures.Kinds() {
		count := o.cfg.Population.Initial[kind.String()]
		if count == 0 {
			continue
		}
		if kind.Profile().Schooling {
			if err := o.spawnSchools(kind, count); err != nil {
				return err
			}
			continue
		}
		for i := 0; i < count; i++ {
			x, y, z := o.randomPosition()
			if _, err := o.SpawnCreature(kind, x, y, z); err != nil {
				return err
			}
		}
	}
	return nil
}

// spawnSchools places count creatures in clusters of the configured school
// size, each cluster scattered tightly around a shared center.
func (o *Ocean) spawnSchools(kind creatures.Kind, count int) error {
	schoolSize := o.cfg.Population.SchoolSize
	if schoolSize < 1 {
		schoolSize = 1
	}
	remaining := count
	for remaining > 0 {
		cx, cy, cz := o.randomPosition()
		n := schoolSize
		if n > remaining {
			n = remaining
		}
		for i := 0; i < n; i++ {
			x := cx + (o.rng.Float32()-0.5)*6
			y := cy + (o.rng.Float32()-0.5)*3
			z := cz + (o.rng.Float32()-0.5)*6
			if _, err := o.SpawnCreature(kind, x, y, z); err != nil {
				return err
			}
		}
		remaining -= n
	}
	return nil
}

// Despawn removes a creature and records the event.
func (o *Ocean) Despawn(e ecs.Entity) {
	if !o.world.Alive(e) {
		return
	}
	o.collector.RecordDespawn(o.id.Kind[e])
	o.world.Despawn(e)
}

// randomPosition picks a point inside the volume with a small margin off
// the walls, floor, and surface.
func (o *Ocean) randomPosition() (x, y, z float32) {
	const margin = 2.0
	x = margin + o.rng.Float32()*(o.bounds.Width-2*margin)
	z = margin + o.rng.Float32()*(o.bounds.Length-2*margin)
	y = -margin - o.rng.Float32()*(o.bounds.Depth-2*margin)
	return x, y, z
}
