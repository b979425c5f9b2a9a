// Package model holds the drawable scene objects: skinned animated
// models driven by the sampling pipeline, and static meshes for the
// environment.
package model

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/skelview/internal/anim"
	"github.com/Faultbox/skelview/internal/engine/shader"
)

// AnimatedModel is a skinned model instance: a skeleton, a set of
// animation clips, and a per-instance playback clock. Each instance
// owns its sampling context and matrix buffers, so several instances
// can share the same skeleton and clips.
type AnimatedModel struct {
	skeleton    *anim.Skeleton
	inverseBind []mgl32.Mat4

	animations []*anim.Animation
	byName     map[string]int

	// Playback state. current is -1 when nothing is selected.
	current int
	clock   float32

	ctx        *anim.Context
	locals     []anim.Transform
	modelSpace []mgl32.Mat4
	palette    []mgl32.Mat4

	meshes    []*Mesh
	Transform mgl32.Mat4
}

// NewAnimatedModel builds an instance around a skeleton and its
// inverse bind matrices. The palette starts as all-identity so the
// model renders in bind pose until an animation is sampled.
func NewAnimatedModel(skeleton *anim.Skeleton, inverseBind []mgl32.Mat4) (*AnimatedModel, error) {
	if skeleton == nil {
		return nil, fmt.Errorf("%w: nil skeleton", anim.ErrValidation)
	}
	n := skeleton.NumJoints()
	if len(inverseBind) != n {
		return nil, fmt.Errorf("%w: %d inverse bind matrices for %d joints",
			anim.ErrValidation, len(inverseBind), n)
	}
	if n > shader.MaxBones {
		return nil, fmt.Errorf("%w: %d joints exceeds the %d bone limit",
			anim.ErrValidation, n, shader.MaxBones)
	}

	m := &AnimatedModel{
		skeleton:    skeleton,
		inverseBind: append([]mgl32.Mat4(nil), inverseBind...),
		byName:      make(map[string]int),
		current:     -1,
		ctx:         anim.NewContext(n),
		locals:      make([]anim.Transform, n),
		modelSpace:  make([]mgl32.Mat4, n),
		palette:     make([]mgl32.Mat4, n),
		Transform:   mgl32.Ident4(),
	}
	for i := range m.palette {
		m.palette[i] = mgl32.Ident4()
	}
	return m, nil
}

// AddAnimation registers a clip. Clip names must be unique per model
// and the clip must target this model's skeleton.
func (m *AnimatedModel) AddAnimation(a *anim.Animation) error {
	if a == nil {
		return fmt.Errorf("%w: nil animation", anim.ErrValidation)
	}
	if a.NumTracks() != m.skeleton.NumJoints() {
		return fmt.Errorf("%w: animation %q has %d tracks, skeleton has %d joints",
			anim.ErrValidation, a.Name(), a.NumTracks(), m.skeleton.NumJoints())
	}
	if _, exists := m.byName[a.Name()]; exists {
		return fmt.Errorf("%w: duplicate animation %q", anim.ErrValidation, a.Name())
	}
	m.byName[a.Name()] = len(m.animations)
	m.animations = append(m.animations, a)
	return nil
}

// HasAnimations reports whether any clip is registered.
func (m *AnimatedModel) HasAnimations() bool {
	return len(m.animations) > 0
}

// AnimationNames returns the registered clip names in index order.
func (m *AnimatedModel) AnimationNames() []string {
	names := make([]string, len(m.animations))
	for i, a := range m.animations {
		names[i] = a.Name()
	}
	return names
}

// CurrentAnimation returns the selected clip name, or false when none
// is selected.
func (m *AnimatedModel) CurrentAnimation() (string, bool) {
	if m.current < 0 {
		return "", false
	}
	return m.animations[m.current].Name(), true
}

// Clock returns the playback position in seconds within the selected
// clip.
func (m *AnimatedModel) Clock() float32 {
	return m.clock
}

// SelectAnimation switches playback to the named clip. On success the
// clock resets to zero and the sampling context is invalidated; on
// failure the playback state is left untouched.
func (m *AnimatedModel) SelectAnimation(name string) error {
	idx, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("%w: animation %q", anim.ErrLookup, name)
	}
	return m.SelectAnimationIndex(idx)
}

// SelectAnimationIndex switches playback to the clip at the given
// index. Selecting is a hard cut: there is no blending from the
// previous pose.
func (m *AnimatedModel) SelectAnimationIndex(idx int) error {
	if idx < 0 || idx >= len(m.animations) {
		return fmt.Errorf("%w: animation index %d of %d", anim.ErrLookup, idx, len(m.animations))
	}
	m.current = idx
	m.clock = 0
	m.ctx.Invalidate()
	return nil
}

// Advance moves the clock by dt seconds, wrapping into [0, duration),
// and resamples the skinning palette. With no clip selected it is a
// no-op. A sampling failure leaves clock and palette from the previous
// frame intact and is returned for the caller to log.
func (m *AnimatedModel) Advance(dt float32) error {
	if m.current < 0 {
		return nil
	}

	a := m.animations[m.current]
	clock := float32(gomath.Mod(float64(m.clock+dt), float64(a.Duration())))
	if clock < 0 {
		clock += a.Duration()
	}
	// float32 rounding of the modulo can land exactly on the duration.
	if clock >= a.Duration() {
		clock = 0
	}

	job := anim.SamplingJob{
		Animation: a,
		Skeleton:  m.skeleton,
		Context:   m.ctx,
		Ratio:     clock / a.Duration(),
		Locals:    m.locals,
		Output:    m.modelSpace,
	}
	if err := job.Run(); err != nil {
		return err
	}
	if err := anim.ResolveSkinning(m.modelSpace, m.inverseBind, m.palette); err != nil {
		return err
	}

	m.clock = clock
	return nil
}

// BoneMatrices returns the current skinning palette. The slice is
// reused across frames; callers must not retain it past the frame.
func (m *AnimatedModel) BoneMatrices() []mgl32.Mat4 {
	return m.palette
}

// NumJoints returns the skeleton joint count.
func (m *AnimatedModel) NumJoints() int {
	return m.skeleton.NumJoints()
}

// AddMesh attaches an uploaded GPU mesh to the instance.
func (m *AnimatedModel) AddMesh(mesh *Mesh) {
	m.meshes = append(m.meshes, mesh)
}

// Draw uploads the model matrix and skinning palette, then draws every
// mesh. Used by both the depth and main passes.
func (m *AnimatedModel) Draw(prog *shader.Program) {
	prog.SetMat4("uModel", m.Transform)
	prog.SetBool("uAnimated", true)
	prog.SetMat4Slice("uBoneMatrices", m.palette)
	for _, mesh := range m.meshes {
		mesh.Draw(prog)
	}
}

// Destroy releases all attached GPU meshes.
func (m *AnimatedModel) Destroy() {
	for _, mesh := range m.meshes {
		mesh.Destroy()
	}
	m.meshes = nil
}
