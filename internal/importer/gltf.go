// Package importer extracts skeleton, animation, and mesh data from glTF
// scenes into neutral structures consumed by the skeleton and animation
// builders. It wraps github.com/qmuntal/gltf and holds no runtime state.
package importer

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/skelview/internal/anim"
)

// ErrImport wraps every scene extraction failure.
var ErrImport = errors.New("import failed")

// Vertex is one skinned mesh vertex. Joints index the packed joint list
// (already remapped from the glTF skin's joint slots), with up to four
// weighted influences.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Joints   [4]uint16
	Weights  [4]float32
}

// Mesh is one triangle mesh with an optional base-color texture, either
// embedded (TextureData) or referenced by path (TexturePath).
type Mesh struct {
	Vertices    []Vertex
	Indices     []uint32
	BaseColor   [4]float32
	TextureData []byte
	TexturePath string
}

// Clip is one animation: a named duration plus one keyframe track per
// joint, matched to the joint list by index.
type Clip struct {
	Name     string
	Duration float32
	Tracks   []anim.Track
}

// Model is the neutral output of scene extraction: a topologically
// ordered joint list with inverse bind poses, animation clips, and mesh
// draw data.
type Model struct {
	Joints      []anim.Joint
	InverseBind []mgl32.Mat4
	Clips       []Clip
	Meshes      []Mesh
}

// Load reads a glTF or GLB file and extracts its contents. Texture paths
// referencing external files are resolved relative to the model's
// directory.
func Load(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrImport, path, err)
	}

	m, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range m.Meshes {
		if m.Meshes[i].TexturePath != "" {
			m.Meshes[i].TexturePath = filepath.Join(dir, m.Meshes[i].TexturePath)
		}
	}
	return m, nil
}

// FromDocument extracts a Model from an in-memory glTF document. The
// document must contain at least one node and one skin; every node in
// the tree becomes a joint, indexed parent-before-child.
func FromDocument(doc *gltf.Document) (*Model, error) {
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("%w: empty scene", ErrImport)
	}
	if len(doc.Skins) == 0 {
		return nil, fmt.Errorf("%w: no skin (missing skeleton)", ErrImport)
	}

	m := &Model{}

	nodeToJoint, err := m.extractJoints(doc)
	if err != nil {
		return nil, err
	}
	skinRemap, err := m.extractInverseBind(doc, doc.Skins[0], nodeToJoint)
	if err != nil {
		return nil, err
	}
	if err := m.extractClips(doc, nodeToJoint); err != nil {
		return nil, err
	}
	if err := m.extractMeshes(doc, skinRemap, nodeToJoint); err != nil {
		return nil, err
	}

	return m, nil
}

// extractJoints walks the node tree depth-first from the scene roots,
// appending joints in visit order so parents always precede children.
func (m *Model) extractJoints(doc *gltf.Document) (map[uint32]int, error) {
	nodeToJoint := make(map[uint32]int, len(doc.Nodes))

	var walk func(nodeIdx uint32, parent int) error
	walk = func(nodeIdx uint32, parent int) error {
		if int(nodeIdx) >= len(doc.Nodes) {
			return fmt.Errorf("%w: node index %d out of range", ErrImport, nodeIdx)
		}
		if _, seen := nodeToJoint[nodeIdx]; seen {
			return fmt.Errorf("%w: node %d reached twice (cycle or shared child)", ErrImport, nodeIdx)
		}

		node := doc.Nodes[nodeIdx]
		jointIdx := len(m.Joints)
		nodeToJoint[nodeIdx] = jointIdx
		m.Joints = append(m.Joints, anim.Joint{
			Name:   node.Name,
			Parent: parent,
			Rest:   nodeTransform(node),
		})

		for _, child := range node.Children {
			if err := walk(child, jointIdx); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range rootNodes(doc) {
		if err := walk(root, -1); err != nil {
			return nil, err
		}
	}
	if len(m.Joints) == 0 {
		return nil, fmt.Errorf("%w: no reachable nodes", ErrImport)
	}
	return nodeToJoint, nil
}

// rootNodes returns the scene's root node indices, falling back to all
// parentless nodes when the document names no scene.
func rootNodes(doc *gltf.Document) []uint32 {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, node := range doc.Nodes {
		for _, child := range node.Children {
			if int(child) < len(hasParent) {
				hasParent[child] = true
			}
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

// nodeTransform converts a node's transform to TRS form. A non-identity
// matrix takes precedence; otherwise the TRS fields are used, with
// zero-valued rotation/scale treated as their identity defaults.
func nodeTransform(node *gltf.Node) anim.Transform {
	if node.Matrix != ([16]float32{}) && node.Matrix != identityMatrix {
		var m mgl32.Mat4
		copy(m[:], node.Matrix[:])
		return anim.DecomposeMat4(m)
	}

	t := anim.Transform{
		Translation: mgl32.Vec3{node.Translation[0], node.Translation[1], node.Translation[2]},
		Rotation: mgl32.Quat{
			W: node.Rotation[3],
			V: mgl32.Vec3{node.Rotation[0], node.Rotation[1], node.Rotation[2]},
		},
		Scale: mgl32.Vec3{node.Scale[0], node.Scale[1], node.Scale[2]},
	}
	if node.Rotation == ([4]float32{}) {
		t.Rotation = mgl32.QuatIdent()
	}
	if node.Scale == ([3]float32{}) {
		t.Scale = mgl32.Vec3{1, 1, 1}
	}
	return t
}

var identityMatrix = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// extractInverseBind reads the skin's inverse bind matrices and spreads
// them over the packed joint order. Joints outside the skin keep an
// identity inverse bind pose. The returned slice remaps a vertex's skin
// joint slot to a packed joint index.
func (m *Model) extractInverseBind(doc *gltf.Document, skin *gltf.Skin, nodeToJoint map[uint32]int) ([]int, error) {
	m.InverseBind = make([]mgl32.Mat4, len(m.Joints))
	for i := range m.InverseBind {
		m.InverseBind[i] = mgl32.Ident4()
	}

	var mats [][4][4]float32
	if skin.InverseBindMatrices != nil {
		if int(*skin.InverseBindMatrices) >= len(doc.Accessors) {
			return nil, fmt.Errorf("%w: inverse bind accessor out of range", ErrImport)
		}
		raw, err := modeler.ReadAccessor(doc, doc.Accessors[*skin.InverseBindMatrices], nil)
		if err != nil {
			return nil, fmt.Errorf("%w: read inverse bind matrices: %v", ErrImport, err)
		}
		var ok bool
		if mats, ok = raw.([][4][4]float32); !ok {
			return nil, fmt.Errorf("%w: inverse bind accessor is not a mat4 array", ErrImport)
		}
		if len(mats) != len(skin.Joints) {
			return nil, fmt.Errorf("%w: %d inverse bind matrices for %d skin joints", ErrImport, len(mats), len(skin.Joints))
		}
	}

	remap := make([]int, len(skin.Joints))
	for slot, nodeIdx := range skin.Joints {
		jointIdx, ok := nodeToJoint[nodeIdx]
		if !ok {
			return nil, fmt.Errorf("%w: skin joint %d references node %d outside the scene", ErrImport, slot, nodeIdx)
		}
		remap[slot] = jointIdx
		if mats != nil {
			m.InverseBind[jointIdx] = flattenMat4(mats[slot])
		}
	}
	return remap, nil
}

// flattenMat4 converts a [4][4] accessor element, indexed [row][col], to
// mgl32's column-major layout.
func flattenMat4(m [4][4]float32) mgl32.Mat4 {
	var out mgl32.Mat4
	idx := 0
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[idx] = m[r][c]
			idx++
		}
	}
	return out
}

func (m *Model) extractClips(doc *gltf.Document, nodeToJoint map[uint32]int) error {
	for i, a := range doc.Animations {
		clip := Clip{
			Name:   a.Name,
			Tracks: make([]anim.Track, len(m.Joints)),
		}
		if clip.Name == "" {
			clip.Name = fmt.Sprintf("clip_%d", i)
		}

		for _, ch := range a.Channels {
			if ch.Sampler == nil || ch.Target.Node == nil {
				continue
			}
			if int(*ch.Sampler) >= len(a.Samplers) {
				return fmt.Errorf("%w: animation %q: sampler index out of range", ErrImport, clip.Name)
			}
			sampler := a.Samplers[*ch.Sampler]
			if sampler.Interpolation == gltf.InterpolationCubicSpline {
				return fmt.Errorf("%w: animation %q: cubic-spline interpolation not supported", ErrImport, clip.Name)
			}

			jointIdx, ok := nodeToJoint[*ch.Target.Node]
			if !ok {
				// Channel on a node outside the scene tree.
				continue
			}

			times, err := readFloats(doc, sampler.Input)
			if err != nil {
				return fmt.Errorf("%w: animation %q: %v", ErrImport, clip.Name, err)
			}
			for _, t := range times {
				if t > clip.Duration {
					clip.Duration = t
				}
			}

			track := &clip.Tracks[jointIdx]
			switch ch.Target.Path {
			case gltf.TRSTranslation:
				values, err := readVec3s(doc, sampler.Output)
				if err != nil {
					return fmt.Errorf("%w: animation %q: %v", ErrImport, clip.Name, err)
				}
				for k := 0; k < len(times) && k < len(values); k++ {
					track.Translations = append(track.Translations, anim.TranslationKey{
						Time:  times[k],
						Value: mgl32.Vec3{values[k][0], values[k][1], values[k][2]},
					})
				}
			case gltf.TRSRotation:
				values, err := readVec4s(doc, sampler.Output)
				if err != nil {
					return fmt.Errorf("%w: animation %q: %v", ErrImport, clip.Name, err)
				}
				for k := 0; k < len(times) && k < len(values); k++ {
					track.Rotations = append(track.Rotations, anim.RotationKey{
						Time: times[k],
						Value: mgl32.Quat{
							W: values[k][3],
							V: mgl32.Vec3{values[k][0], values[k][1], values[k][2]},
						},
					})
				}
			case gltf.TRSScale:
				values, err := readVec3s(doc, sampler.Output)
				if err != nil {
					return fmt.Errorf("%w: animation %q: %v", ErrImport, clip.Name, err)
				}
				for k := 0; k < len(times) && k < len(values); k++ {
					track.Scales = append(track.Scales, anim.ScaleKey{
						Time:  times[k],
						Value: mgl32.Vec3{values[k][0], values[k][1], values[k][2]},
					})
				}
			default:
				// Morph target weights are not handled.
			}
		}

		m.Clips = append(m.Clips, clip)
	}
	return nil
}

func (m *Model) extractMeshes(doc *gltf.Document, skinRemap []int, nodeToJoint map[uint32]int) error {
	for nodeIdx, node := range doc.Nodes {
		if node.Mesh == nil {
			continue
		}
		if int(*node.Mesh) >= len(doc.Meshes) {
			return fmt.Errorf("%w: node %q: mesh index out of range", ErrImport, node.Name)
		}
		jointIdx, ok := nodeToJoint[uint32(nodeIdx)]
		if !ok {
			continue
		}

		for _, prim := range doc.Meshes[*node.Mesh].Primitives {
			mesh, err := m.extractPrimitive(doc, prim, node.Skin != nil, skinRemap, jointIdx)
			if err != nil {
				return fmt.Errorf("%w: node %q: %v", ErrImport, node.Name, err)
			}
			m.Meshes = append(m.Meshes, mesh)
		}
	}

	if len(m.Meshes) == 0 {
		return fmt.Errorf("%w: no meshes", ErrImport)
	}
	return nil
}

func (m *Model) extractPrimitive(doc *gltf.Document, prim *gltf.Primitive, skinned bool, skinRemap []int, ownJoint int) (Mesh, error) {
	var mesh Mesh
	mesh.BaseColor = [4]float32{1, 1, 1, 1}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return mesh, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return mesh, fmt.Errorf("read positions: %v", err)
	}

	var normals [][3]float32
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil); err != nil {
			return mesh, fmt.Errorf("read normals: %v", err)
		}
	}
	var texCoords [][2]float32
	if texIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if texCoords, err = modeler.ReadTextureCoord(doc, doc.Accessors[texIdx], nil); err != nil {
			return mesh, fmt.Errorf("read texture coordinates: %v", err)
		}
	}

	var joints [][4]uint16
	var weights [][4]float32
	if skinned {
		if jIdx, ok := prim.Attributes[gltf.JOINTS_0]; ok {
			if joints, err = modeler.ReadJoints(doc, doc.Accessors[jIdx], nil); err != nil {
				return mesh, fmt.Errorf("read joints: %v", err)
			}
		}
		if wIdx, ok := prim.Attributes[gltf.WEIGHTS_0]; ok {
			if weights, err = modeler.ReadWeights(doc, doc.Accessors[wIdx], nil); err != nil {
				return mesh, fmt.Errorf("read weights: %v", err)
			}
		}
	}

	mesh.Vertices = make([]Vertex, len(positions))
	for i, pos := range positions {
		v := Vertex{Position: pos, Normal: [3]float32{0, 1, 0}}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		if i < len(texCoords) {
			v.TexCoord = texCoords[i]
		}

		switch {
		case i < len(joints) && i < len(weights):
			for g := 0; g < 4; g++ {
				slot := int(joints[i][g])
				if weights[i][g] == 0 {
					continue
				}
				if slot >= len(skinRemap) {
					return mesh, fmt.Errorf("vertex %d references skin joint %d outside the skeleton", i, slot)
				}
				v.Joints[g] = uint16(skinRemap[slot])
				v.Weights[g] = weights[i][g]
			}
		default:
			// Unskinned vertices bind rigidly to the mesh node's joint.
			v.Joints[0] = uint16(ownJoint)
			v.Weights[0] = 1
		}
		mesh.Vertices[i] = v
	}

	if prim.Indices != nil {
		if mesh.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return mesh, fmt.Errorf("read indices: %v", err)
		}
	} else {
		mesh.Indices = make([]uint32, len(positions))
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
	}

	if prim.Material != nil {
		if err := m.extractMaterial(doc, *prim.Material, &mesh); err != nil {
			return mesh, err
		}
	}
	return mesh, nil
}

func (m *Model) extractMaterial(doc *gltf.Document, matIdx uint32, mesh *Mesh) error {
	if int(matIdx) >= len(doc.Materials) {
		return fmt.Errorf("material index %d out of range", matIdx)
	}
	pbr := doc.Materials[matIdx].PBRMetallicRoughness
	if pbr == nil {
		return nil
	}
	if pbr.BaseColorFactor != nil {
		mesh.BaseColor = *pbr.BaseColorFactor
	}
	if pbr.BaseColorTexture == nil {
		return nil
	}

	texIdx := pbr.BaseColorTexture.Index
	if int(texIdx) >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return fmt.Errorf("missing texture %d", texIdx)
	}
	src := *doc.Textures[texIdx].Source
	if int(src) >= len(doc.Images) {
		return fmt.Errorf("missing image %d", src)
	}

	img := doc.Images[src]
	switch {
	case img.BufferView != nil:
		data, err := readBufferView(doc, *img.BufferView)
		if err != nil {
			return fmt.Errorf("read embedded texture: %v", err)
		}
		mesh.TextureData = data
	case img.URI != "":
		mesh.TexturePath = img.URI
	default:
		return fmt.Errorf("image %d has neither buffer view nor URI", src)
	}
	return nil
}

func readBufferView(doc *gltf.Document, idx uint32) ([]byte, error) {
	if int(idx) >= len(doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", idx)
	}
	bv := doc.BufferViews[idx]
	if int(bv.Buffer) >= len(doc.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
	}
	data := doc.Buffers[bv.Buffer].Data
	end := bv.ByteOffset + bv.ByteLength
	if int(end) > len(data) {
		return nil, fmt.Errorf("buffer view %d exceeds buffer size", idx)
	}
	return data[bv.ByteOffset:end], nil
}

func readFloats(doc *gltf.Document, accIdx uint32) ([]float32, error) {
	raw, err := readAccessor(doc, accIdx)
	if err != nil {
		return nil, err
	}
	v, ok := raw.([]float32)
	if !ok {
		return nil, fmt.Errorf("accessor is not a float scalar array")
	}
	return v, nil
}

func readVec3s(doc *gltf.Document, accIdx uint32) ([][3]float32, error) {
	raw, err := readAccessor(doc, accIdx)
	if err != nil {
		return nil, err
	}
	v, ok := raw.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("accessor is not a vec3 array")
	}
	return v, nil
}

func readVec4s(doc *gltf.Document, accIdx uint32) ([][4]float32, error) {
	raw, err := readAccessor(doc, accIdx)
	if err != nil {
		return nil, err
	}
	v, ok := raw.([][4]float32)
	if !ok {
		return nil, fmt.Errorf("accessor is not a vec4 array")
	}
	return v, nil
}

func readAccessor(doc *gltf.Document, accIdx uint32) (any, error) {
	if int(accIdx) >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accIdx)
	}
	return modeler.ReadAccessor(doc, doc.Accessors[accIdx], nil)
}
