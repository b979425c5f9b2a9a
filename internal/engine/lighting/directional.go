// Package lighting provides the directional light used by the scene
// and its shadow pass.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Directional is a sun-style light. Direction points TO the light.
type Directional struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Ambient   mgl32.Vec3
}

// NewDirectional creates a light from longitude/latitude angles in
// degrees. Longitude is rotation around the Y axis (0-360), latitude
// is elevation from the horizon (0-90).
func NewDirectional(longitude, latitude float32) *Directional {
	return &Directional{
		Direction: DirectionFromAngles(longitude, latitude),
		Color:     mgl32.Vec3{1, 1, 1},
		Ambient:   mgl32.Vec3{0.25, 0.25, 0.25},
	}
}

// DirectionFromAngles converts longitude/latitude degrees to a
// normalized direction vector pointing towards the light.
func DirectionFromAngles(longitude, latitude float32) mgl32.Vec3 {
	lonRad := float64(longitude) * math.Pi / 180.0
	latRad := float64(latitude) * math.Pi / 180.0

	return mgl32.Vec3{
		float32(math.Cos(latRad) * math.Sin(lonRad)),
		float32(math.Sin(latRad)),
		float32(math.Cos(latRad) * math.Cos(lonRad)),
	}
}
