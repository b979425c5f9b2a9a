package anim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Context is mutable per-animation sampling state: one key cursor per
// track channel, reused across frames so a forward-playing clip resumes
// its bracketing search near the previous frame's keys instead of from
// the start. A Context is owned by a single model and must be resized
// whenever the selected animation's track count changes.
type Context struct {
	cursors []trackCursor
}

type trackCursor struct {
	translation int
	rotation    int
	scale       int
}

// NewContext returns a context sized for numTracks tracks.
func NewContext(numTracks int) *Context {
	c := &Context{}
	c.Resize(numTracks)
	return c
}

// Resize re-sizes the context for an animation with numTracks tracks and
// invalidates all cursors.
func (c *Context) Resize(numTracks int) {
	if cap(c.cursors) >= numTracks {
		c.cursors = c.cursors[:numTracks]
	} else {
		c.cursors = make([]trackCursor, numTracks)
	}
	c.Invalidate()
}

// Invalidate resets all cursors to the start of their key sequences.
func (c *Context) Invalidate() {
	for i := range c.cursors {
		c.cursors[i] = trackCursor{}
	}
}

// NumTracks returns the track count the context is currently sized for.
func (c *Context) NumTracks() int {
	return len(c.cursors)
}

// SamplingJob evaluates an animation at a normalized ratio and converts
// the sampled pose to model space in a single forward pass over the
// skeleton's topological joint order.
//
// Locals and Output must each hold exactly NumJoints entries; both are
// overwritten on success and untouched on failure. Ratio is the playback
// position in [0, 1), pre-wrapped by the caller.
type SamplingJob struct {
	Animation *Animation
	Skeleton  *Skeleton
	Context   *Context
	Ratio     float32

	// Locals receives the per-joint local transforms (step 1).
	Locals []Transform
	// Output receives the per-joint model-space matrices (step 2).
	Output []mgl32.Mat4
}

// Run validates the job and executes both sampling steps. Any validation
// failure is reported before output is written, so a failed job never
// leaves partial results.
func (j *SamplingJob) Run() error {
	if err := j.validate(); err != nil {
		return err
	}

	// Step 1: evaluate each track's channels at time = ratio * duration.
	time := j.Ratio * j.Animation.Duration()
	for i := range j.Animation.tracks {
		track := &j.Animation.tracks[i]
		cursor := &j.Context.cursors[i]
		j.Locals[i] = Transform{
			Translation: evalTranslation(track.Translations, time, &cursor.translation),
			Rotation:    evalRotation(track.Rotations, time, &cursor.rotation),
			Scale:       evalScale(track.Scales, time, &cursor.scale),
		}
	}

	// Step 2: propagate to model space. Parents always precede children,
	// so one forward pass suffices.
	for i := range j.Locals {
		local := j.Locals[i].Mat4()
		if parent := j.Skeleton.Parent(i); parent >= 0 {
			j.Output[i] = j.Output[parent].Mul4(local)
		} else {
			j.Output[i] = local
		}
	}

	return nil
}

func (j *SamplingJob) validate() error {
	if j.Animation == nil || j.Skeleton == nil || j.Context == nil {
		return fmt.Errorf("%w: job missing animation, skeleton, or context", ErrSampling)
	}
	if j.Animation.NumTracks() != j.Skeleton.NumJoints() {
		return fmt.Errorf("%w: animation %q has %d tracks, skeleton has %d joints",
			ErrSampling, j.Animation.Name(), j.Animation.NumTracks(), j.Skeleton.NumJoints())
	}
	if j.Context.NumTracks() != j.Animation.NumTracks() {
		return fmt.Errorf("%w: context sized for %d tracks, animation %q has %d",
			ErrSampling, j.Context.NumTracks(), j.Animation.Name(), j.Animation.NumTracks())
	}
	if len(j.Locals) != j.Skeleton.NumJoints() || len(j.Output) != j.Skeleton.NumJoints() {
		return fmt.Errorf("%w: output sized %d/%d for %d joints",
			ErrSampling, len(j.Locals), len(j.Output), j.Skeleton.NumJoints())
	}
	return nil
}

// bracket advances the cursor to the key pair surrounding time and
// returns the pair's start index together with the clamped interpolation
// factor. Keys are sorted; times past the final key clamp to the last
// pair with factor 1.
func bracket(times func(int) float32, numKeys int, time float32, cursor *int) (int, float32) {
	i := *cursor
	if i > numKeys-2 || times(i) > time {
		i = 0
	}
	for i < numKeys-2 && times(i+1) <= time {
		i++
	}
	*cursor = i

	t0, t1 := times(i), times(i+1)
	f := float32(1)
	if t1 > t0 {
		f = (time - t0) / (t1 - t0)
	}
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return i, f
}

func evalTranslation(keys []TranslationKey, time float32, cursor *int) mgl32.Vec3 {
	switch len(keys) {
	case 0:
		return mgl32.Vec3{0, 0, 0}
	case 1:
		return keys[0].Value
	}
	i, f := bracket(func(k int) float32 { return keys[k].Time }, len(keys), time, cursor)
	return lerpVec3(keys[i].Value, keys[i+1].Value, f)
}

func evalRotation(keys []RotationKey, time float32, cursor *int) mgl32.Quat {
	switch len(keys) {
	case 0:
		return mgl32.QuatIdent()
	case 1:
		return keys[0].Value
	}
	i, f := bracket(func(k int) float32 { return keys[k].Time }, len(keys), time, cursor)
	return slerp(keys[i].Value, keys[i+1].Value, f)
}

func evalScale(keys []ScaleKey, time float32, cursor *int) mgl32.Vec3 {
	switch len(keys) {
	case 0:
		return mgl32.Vec3{1, 1, 1}
	case 1:
		return keys[0].Value
	}
	i, f := bracket(func(k int) float32 { return keys[k].Time }, len(keys), time, cursor)
	return lerpVec3(keys[i].Value, keys[i+1].Value, f)
}
