package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/skelview/internal/engine/shader"
	"github.com/Faultbox/skelview/internal/importer"
)

// StaticModel is a rigid drawable: environment geometry like the
// ground plane, or an imported mesh rendered without skinning.
type StaticModel struct {
	meshes    []*Mesh
	Transform mgl32.Mat4
}

// NewStaticModel wraps uploaded meshes as a rigid drawable.
func NewStaticModel(meshes ...*Mesh) *StaticModel {
	return &StaticModel{
		meshes:    meshes,
		Transform: mgl32.Ident4(),
	}
}

// Draw uploads the model matrix and draws every mesh with skinning
// disabled.
func (m *StaticModel) Draw(prog *shader.Program) {
	prog.SetMat4("uModel", m.Transform)
	prog.SetBool("uAnimated", false)
	for _, mesh := range m.meshes {
		mesh.Draw(prog)
	}
}

// Destroy releases all attached GPU meshes.
func (m *StaticModel) Destroy() {
	for _, mesh := range m.meshes {
		mesh.Destroy()
	}
	m.meshes = nil
}

// PlaneMesh builds a ground plane of the given half-extent, centered at
// the origin in the XZ plane and facing up.
func PlaneMesh(halfExtent float32, color [4]float32) importer.Mesh {
	e := halfExtent
	uv := halfExtent / 2 // tile the texture every 2 units
	return importer.Mesh{
		Vertices: []importer.Vertex{
			{Position: [3]float32{-e, 0, -e}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{0, 0}},
			{Position: [3]float32{e, 0, -e}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{uv, 0}},
			{Position: [3]float32{e, 0, e}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{uv, uv}},
			{Position: [3]float32{-e, 0, e}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{0, uv}},
		},
		Indices:   []uint32{0, 2, 1, 0, 3, 2},
		BaseColor: color,
	}
}

// CubeMesh builds a unit-style cube of the given half-extent centered
// at the origin, with per-face normals.
func CubeMesh(halfExtent float32, color [4]float32) importer.Mesh {
	e := halfExtent
	faces := []struct {
		normal  [3]float32
		corners [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-e, -e, e}, {e, -e, e}, {e, e, e}, {-e, e, e}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{e, -e, -e}, {-e, -e, -e}, {-e, e, -e}, {e, e, -e}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{e, -e, e}, {e, -e, -e}, {e, e, -e}, {e, e, e}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-e, -e, -e}, {-e, -e, e}, {-e, e, e}, {-e, e, -e}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-e, e, e}, {e, e, e}, {e, e, -e}, {-e, e, -e}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-e, -e, -e}, {e, -e, -e}, {e, -e, e}, {-e, -e, e}}},
	}

	mesh := importer.Mesh{BaseColor: color}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for _, f := range faces {
		base := uint32(len(mesh.Vertices))
		for i, c := range f.corners {
			mesh.Vertices = append(mesh.Vertices, importer.Vertex{
				Position: c,
				Normal:   f.normal,
				TexCoord: uvs[i],
			})
		}
		mesh.Indices = append(mesh.Indices,
			base, base+1, base+2,
			base, base+2, base+3)
	}
	return mesh
}
