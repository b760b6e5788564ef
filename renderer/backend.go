package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/abyss/creatures"
)

// gpuModel pairs an uploaded mesh with its material. The Go slices backing
// the mesh are pinned here because rl.Mesh holds raw pointers into them.
type gpuModel struct {
	mesh     rl.Mesh
	mat      rl.Material
	vertices []float32
	normals  []float32
	indices  []uint16
}

// RaylibBackend uploads procedural creature meshes to the GPU and draws
// them. It also owns the shared master mesh for the instanced path. All
// methods must run on the thread that owns the GL context.
type RaylibBackend struct {
	models map[uint32]*gpuModel
	nextID uint32

	instMesh   rl.Mesh
	instMat    rl.Material
	instPinned *gpuModel // keeps the master mesh slices alive
	hasInst    bool
}

// NewRaylibBackend creates the GPU backend. Call after rl.InitWindow.
func NewRaylibBackend() *RaylibBackend {
	return &RaylibBackend{
		models: make(map[uint32]*gpuModel),
		nextID: 1,
	}
}

// Load builds and uploads the mesh for a (kind, variant) pair.
func (b *RaylibBackend) Load(kind creatures.Kind, variant uint8) (uint32, error) {
	data := creatures.BuildMesh(kind, variant, kind.Profile().BaseScale)
	if data.VertexCount() == 0 {
		return 0, fmt.Errorf("empty mesh for %s variant %d", kind, variant)
	}

	m := uploadMesh(data)
	id := b.nextID
	b.nextID++
	b.models[id] = m
	return id, nil
}

// Unload releases one model's GPU resources.
func (b *RaylibBackend) Unload(handle uint32) {
	m, ok := b.models[handle]
	if !ok {
		return
	}
	rl.UnloadMesh(&m.mesh)
	rl.UnloadMaterial(m.mat)
	delete(b.models, handle)
}

// DrawIndividual draws one non-instanced creature with its tint.
func (b *RaylibBackend) DrawIndividual(d IndividualDraw) {
	m, ok := b.models[d.Handle]
	if !ok {
		return
	}
	m.mat.GetMap(rl.MapDiffuse).Color = d.Tint
	rl.DrawMesh(m.mesh, m.mat, d.Transform)
}

// DrawInstanced draws the shared fish mesh once for every transform in the
// batch. The master mesh is uploaded lazily on first use.
func (b *RaylibBackend) DrawInstanced(transforms []rl.Matrix, tint rl.Color) {
	if len(transforms) == 0 {
		return
	}
	if !b.hasInst {
		data := creatures.BuildMesh(creatures.Fish, 0, creatures.Fish.Profile().BaseScale)
		m := uploadMesh(data)
		b.instMesh = m.mesh
		b.instMat = m.mat
		b.instPinned = m
		b.hasInst = true
	}
	b.instMat.GetMap(rl.MapDiffuse).Color = tint
	rl.DrawMeshInstanced(b.instMesh, b.instMat, transforms, len(transforms))
}

// Close releases every remaining model and the instanced master mesh.
func (b *RaylibBackend) Close() {
	for id := range b.models {
		b.Unload(id)
	}
	if b.hasInst {
		rl.UnloadMesh(&b.instMesh)
		rl.UnloadMaterial(b.instMat)
		b.instPinned = nil
		b.hasInst = false
	}
}

func uploadMesh(data creatures.MeshData) *gpuModel {
	m := &gpuModel{
		vertices: data.Vertices,
		normals:  data.Normals,
		indices:  data.Indices,
	}
	m.mesh.VertexCount = int32(data.VertexCount())
	m.mesh.TriangleCount = int32(data.TriangleCount())
	m.mesh.Vertices = &m.vertices[0]
	if len(m.normals) > 0 {
		m.mesh.Normals = &m.normals[0]
	}
	if len(m.indices) > 0 {
		m.mesh.Indices = &m.indices[0]
	}
	rl.UploadMesh(&m.mesh, false)
	m.mat = rl.LoadMaterialDefault()
	return m
}
