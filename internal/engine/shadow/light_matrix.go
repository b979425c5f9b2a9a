package shadow

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB returns an empty box ready to be extended.
func NewAABB() AABB {
	inf := float32(gomath.Inf(1))
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// Extend grows the box to include the given point.
func (b *AABB) Extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Merge grows the box to include another box.
func (b *AABB) Merge(other AABB) {
	b.Extend(other.Min)
	b.Extend(other.Max)
}

// Center returns the center point of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Radius returns the distance from center to corner (half-diagonal).
func (b AABB) Radius() float32 {
	return b.Max.Sub(b.Min).Mul(0.5).Len()
}

// DirectionalLightMatrix computes the view-projection matrix used to
// render the depth pass for a directional light.
// lightDir is the normalized direction TO the light; bounds is the
// world-space box the shadow must cover.
func DirectionalLightMatrix(lightDir mgl32.Vec3, bounds AABB) mgl32.Mat4 {
	center := bounds.Center()
	radius := bounds.Radius()
	if radius <= 0 {
		radius = 1
	}

	// Place the light far enough back to see the whole box.
	lightDistance := radius * 2.0
	lightPos := center.Add(lightDir.Mul(lightDistance))

	// Avoid an up vector parallel to the light direction.
	up := mgl32.Vec3{0, 1, 0}
	if abs32(lightDir.Y()) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}

	view := mgl32.LookAtV(lightPos, center, up)

	// Orthographic volume sized to the box, padded against edge
	// artifacts.
	padding := radius * 0.1
	halfSize := radius + padding
	near := float32(0.1)
	far := lightDistance + radius + padding

	proj := mgl32.Ortho(-halfSize, halfSize, -halfSize, halfSize, near, far)

	return proj.Mul4(view)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
