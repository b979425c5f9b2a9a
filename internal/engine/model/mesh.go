package model

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/skelview/internal/engine/shader"
	"github.com/Faultbox/skelview/internal/importer"
)

// Vertex layout shared by all meshes: position, normal, texcoord,
// joint indices, joint weights. Joints are uploaded as floats and cast
// back to int in the vertex shader.
const (
	vertexFloats = 3 + 3 + 2 + 4 + 4
	vertexStride = vertexFloats * 4
)

// Mesh is a GPU-resident triangle mesh with its material parameters.
type Mesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	texture    uint32
	hasTexture bool
	baseColor  [4]float32
}

// NewMesh uploads mesh data to the GPU. texture may be 0 for untextured
// meshes; the base color factor is then used alone.
func NewMesh(src importer.Mesh, texture uint32) *Mesh {
	m := &Mesh{
		indexCount: int32(len(src.Indices)),
		texture:    texture,
		hasTexture: texture != 0,
		baseColor:  src.BaseColor,
	}

	data := interleave(src.Vertices)

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(src.Indices)*4, gl.Ptr(src.Indices), gl.STATIC_DRAW)

	offset := 0
	for loc, size := range []int32{3, 3, 2, 4, 4} {
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointerWithOffset(uint32(loc), size, gl.FLOAT, false,
			vertexStride, uintptr(offset))
		offset += int(size) * 4
	}

	gl.BindVertexArray(0)

	return m
}

// interleave flattens vertices into the GPU layout.
func interleave(vertices []importer.Vertex) []float32 {
	data := make([]float32, 0, len(vertices)*vertexFloats)
	for _, v := range vertices {
		data = append(data,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.TexCoord[0], v.TexCoord[1],
			float32(v.Joints[0]), float32(v.Joints[1]),
			float32(v.Joints[2]), float32(v.Joints[3]),
			v.Weights[0], v.Weights[1], v.Weights[2], v.Weights[3],
		)
	}
	return data
}

// Draw binds the material and issues the indexed draw call. The caller
// has already set the per-model uniforms.
func (m *Mesh) Draw(prog *shader.Program) {
	prog.SetVec4("uBaseColor", m.baseColor)
	prog.SetBool("uUseTexture", m.hasTexture)
	if m.hasTexture {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, m.texture)
	}

	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Destroy releases the GPU buffers. The texture is owned by the
// texture cache, not the mesh.
func (m *Mesh) Destroy() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
		m.ebo = 0
	}
}
