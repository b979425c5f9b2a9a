// Package camera provides the orbit camera used by the model viewer.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera orbits around a center point using spherical coordinates.
type OrbitCamera struct {
	Center mgl32.Vec3

	Distance float32 // distance from center
	Pitch    float32 // vertical angle, radians
	Yaw      float32 // horizontal angle, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32

	FOV  float32 // vertical field of view, radians
	Near float32
	Far  float32
}

// NewOrbitCamera creates an orbit camera with viewer-scale defaults.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        5.0,
		Pitch:           0.4,
		Yaw:             0.0,
		MinDistance:     0.5,
		MaxDistance:     200.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FOV:             mgl32.DegToRad(45),
		Near:            0.1,
		Far:             500.0,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cosPitch := float32(gomath.Cos(float64(c.Pitch)))
	offset := mgl32.Vec3{
		c.Distance * cosPitch * float32(gomath.Sin(float64(c.Yaw))),
		c.Distance * float32(gomath.Sin(float64(c.Pitch))),
		c.Distance * cosPitch * float32(gomath.Cos(float64(c.Yaw))),
	}
	return c.Center.Add(offset)
}

// ViewMatrix returns the view matrix looking at the center.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection for the given
// viewport aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// HandleDrag updates orientation from a mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity

	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleZoom updates distance from a scroll wheel delta. Zoom speed
// scales with distance for a consistent feel.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// FitToBounds centers the orbit on a bounding box and backs off far
// enough to see all of it.
func (c *OrbitCamera) FitToBounds(min, max mgl32.Vec3) {
	c.Center = min.Add(max).Mul(0.5)

	radius := max.Sub(min).Len() / 2
	if radius <= 0 {
		radius = 1
	}

	// Distance so the bounding sphere fits the vertical FOV.
	c.Distance = radius / float32(gomath.Tan(float64(c.FOV/2)))
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}

	c.Pitch = 0.4
	c.Yaw = 0.0
}
