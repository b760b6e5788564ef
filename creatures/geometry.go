package creatures

import (
	"log/slog"
	"math"
)

// MeshData is a static mesh description produced by a geometry provider:
// flat position/normal arrays (xyz triples) plus a triangle index list.
// Providers are pure; the renderer uploads the result once per
// (kind, variant) and caches it.
type MeshData struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint16
}

// VertexCount returns the number of vertices described.
func (m *MeshData) VertexCount() int { return len(m.Vertices) / 3 }

// TriangleCount returns the number of triangles described.
func (m *MeshData) TriangleCount() int { return len(m.Indices) / 3 }

// proportions scales the unit ellipsoid body per kind: length along the
// swim axis (z), height (y), and width (x), relative to BaseScale.
type proportions struct {
	length, height, width float32
	rings, segments       int
}

var bodyShapes = [kindCount]proportions{
	Fish:      {1.0, 0.35, 0.20, 6, 8},
	Shark:     {1.0, 0.28, 0.22, 8, 10},
	Dolphin:   {1.0, 0.30, 0.25, 8, 10},
	Jellyfish: {0.6, 0.50, 0.60, 6, 10},
	Ray:       {0.9, 0.12, 1.00, 6, 10},
	Turtle:    {0.9, 0.35, 0.75, 6, 8},
	Crab:      {0.7, 0.30, 1.00, 5, 8},
	Starfish:  {1.0, 0.15, 1.00, 4, 10},
	Urchin:    {0.8, 0.80, 0.80, 6, 10},
	Whale:     {1.0, 0.30, 0.28, 8, 12},
}

// BuildMesh constructs the body mesh for a (kind, variant) pair at the
// given world-space size. Variants perturb the base proportions slightly
// so schools are not perfectly uniform.
func BuildMesh(kind Kind, variant uint8, size float32) MeshData {
	shape := bodyShapes[kind]
	// Per-variant stretch keeps siblings recognizably the same species.
	stretch := 1.0 + 0.08*float32(int(variant)%3-1)
	return buildEllipsoid(
		size*shape.length*stretch,
		size*shape.height,
		size*shape.width,
		shape.rings, shape.segments,
	)
}

// buildEllipsoid generates a lat/long ellipsoid with half-extents
// (w, h, l) on (x, y, z). z is the forward swim axis.
func buildEllipsoid(l, h, w float32, rings, segments int) MeshData {
	var verts, normals []float32
	var faces [][3]int

	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings) // 0 at nose, pi at tail
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			nx := float32(math.Sin(phi) * math.Cos(theta))
			ny := float32(math.Sin(phi) * math.Sin(theta))
			nz := float32(math.Cos(phi))
			verts = append(verts, nx*w, ny*h, nz*l)
			normals = append(normals, nx, ny, nz)
		}
	}

	stride := segments + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := r*stride + s
			b := a + stride
			faces = append(faces, [3]int{a, b, a + 1}, [3]int{a + 1, b, b + 1})
		}
	}

	return assemble(verts, normals, faces)
}

// assemble validates the face list against the vertex count and builds the
// final index buffer. A face referencing a vertex that does not exist is
// skipped rather than aborting the whole mesh.
func assemble(verts, normals []float32, faces [][3]int) MeshData {
	m := MeshData{Vertices: verts, Normals: normals}
	count := len(verts) / 3
	skipped := 0
	for _, f := range faces {
		if f[0] < 0 || f[0] >= count || f[1] < 0 || f[1] >= count || f[2] < 0 || f[2] >= count {
			skipped++
			continue
		}
		m.Indices = append(m.Indices, uint16(f[0]), uint16(f[1]), uint16(f[2]))
	}
	if skipped > 0 {
		slog.Warn("skipped malformed mesh faces", "skipped", skipped, "vertices", count)
	}
	return m
}
