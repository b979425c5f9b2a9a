package anim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ResolveSkinning computes the skinning matrix palette consumed by the
// vertex shader: out[i] = modelSpace[i] * inverseBind[i]. All three
// slices must have equal length. Pure function, no state.
func ResolveSkinning(modelSpace, inverseBind, out []mgl32.Mat4) error {
	if len(modelSpace) != len(inverseBind) || len(modelSpace) != len(out) {
		return fmt.Errorf("%w: skinning resolve with %d model-space, %d inverse-bind, %d output matrices",
			ErrSampling, len(modelSpace), len(inverseBind), len(out))
	}
	for i := range modelSpace {
		out[i] = modelSpace[i].Mul4(inverseBind[i])
	}
	return nil
}
