// Package systems contains the per-tick simulation systems. They all share
// the same component columns and run in a fixed order each tick; there is
// no locking because there is never more than one writer at a time.
package systems

import (
	"github.com/pthm-cable/abyss/components"
	"github.com/pthm-cable/abyss/ecs"
)

// Bounds is the ocean volume: x in [0, Width], z in [0, Length],
// y in [-Depth, 0] with the surface at y = 0.
type Bounds struct {
	Width, Length, Depth float32
}

// FloorY returns the sea floor height.
func (b Bounds) FloorY() float32 { return -b.Depth }

// Neighbor holds a nearby entity with precomputed spatial data, so hot
// loops do not recompute deltas and distances.
type Neighbor struct {
	E          ecs.Entity
	DX, DY, DZ float32 // delta from the query origin to the neighbor
	DistSq     float32
}

// MaxQueryResults caps the number of neighbors returned by spatial queries,
// bounding per-entity work under density spikes.
const MaxQueryResults = 128

// SpatialGrid provides O(1)-ish neighbor lookups over the ocean volume
// using a cell hash. Rebuilt from scratch every tick.
type SpatialGrid struct {
	cellSize float32
	nx, ny, nz int
	bounds   Bounds
	cells    [][]ecs.Entity
}

// NewSpatialGrid creates a grid covering the given bounds.
func NewSpatialGrid(bounds Bounds, cellSize float32) *SpatialGrid {
	nx := int(bounds.Width/cellSize) + 1
	ny := int(bounds.Depth/cellSize) + 1
	nz := int(bounds.Length/cellSize) + 1

	cells := make([][]ecs.Entity, nx*ny*nz)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8)
	}
	return &SpatialGrid{
		cellSize: cellSize,
		nx:       nx,
		ny:       ny,
		nz:       nz,
		bounds:   bounds,
		cells:    cells,
	}
}

// Clear empties every cell, keeping the backing arrays.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y, z float32) {
	idx := g.cellIndex(x, y, z)
	g.cells[idx] = append(g.cells[idx], e)
}

// QueryRadiusInto appends entities within radius of (x, y, z) to dst, up to
// MaxQueryResults, reading positions from the kinematics columns. Reuse dst
// across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, z, radius float32, exclude ecs.Entity, kin *components.Kinematics) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1
	cx, cy, cz := g.cellCoords(x, y, z)
	radiusSq := radius * radius

	for dxi := -cellRadius; dxi <= cellRadius; dxi++ {
		xi := cx + dxi
		if xi < 0 || xi >= g.nx {
			continue
		}
		for dyi := -cellRadius; dyi <= cellRadius; dyi++ {
			yi := cy + dyi
			if yi < 0 || yi >= g.ny {
				continue
			}
			for dzi := -cellRadius; dzi <= cellRadius; dzi++ {
				zi := cz + dzi
				if zi < 0 || zi >= g.nz {
					continue
				}
				for _, e := range g.cells[(xi*g.ny+yi)*g.nz+zi] {
					if e == exclude {
						continue
					}
					dx := kin.PosX[e] - x
					dy := kin.PosY[e] - y
					dz := kin.PosZ[e] - z
					distSq := dx*dx + dy*dy + dz*dz
					if distSq <= radiusSq {
						dst = append(dst, Neighbor{E: e, DX: dx, DY: dy, DZ: dz, DistSq: distSq})
						if len(dst) >= MaxQueryResults {
							return dst
						}
					}
				}
			}
		}
	}
	return dst
}

func (g *SpatialGrid) cellCoords(x, y, z float32) (int, int, int) {
	xi := clampIdx(int(x/g.cellSize), g.nx)
	yi := clampIdx(int((y+g.bounds.Depth)/g.cellSize), g.ny)
	zi := clampIdx(int(z/g.cellSize), g.nz)
	return xi, yi, zi
}

func (g *SpatialGrid) cellIndex(x, y, z float32) int {
	xi, yi, zi := g.cellCoords(x, y, z)
	return (xi*g.ny+yi)*g.nz + zi
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// GridSystem rebuilds the spatial index from the live kinematic entities.
type GridSystem struct {
	grid  *SpatialGrid
	kin   *components.Kinematics
	query *ecs.Query
}

// NewGridSystem creates the rebuild system for the given grid.
func NewGridSystem(grid *SpatialGrid, kin *components.Kinematics) *GridSystem {
	return &GridSystem{
		grid:  grid,
		kin:   kin,
		query: ecs.NewQuery(kin.Set),
	}
}

// Update rebuilds the grid.
func (s *GridSystem) Update() {
	s.grid.Clear()
	for _, e := range s.query.Entities() {
		s.grid.Insert(e, s.kin.PosX[e], s.kin.PosY[e], s.kin.PosZ[e])
	}
}
