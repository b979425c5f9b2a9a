package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-4

func near(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < epsilon
}

func TestPositionOnSphere(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = mgl32.Vec3{1, 2, 3}
	c.Distance = 10

	for _, yaw := range []float32{0, 0.5, 1.7, 3.0} {
		for _, pitch := range []float32{-1.0, 0, 0.4, 1.2} {
			c.Yaw = yaw
			c.Pitch = pitch
			d := c.Position().Sub(c.Center).Len()
			if !near(d, 10) {
				t.Errorf("yaw=%v pitch=%v: distance = %v, want 10", yaw, pitch, d)
			}
		}
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()

	c.HandleDrag(0, 10000)
	if c.Pitch > c.MaxPitch {
		t.Errorf("pitch = %v exceeds max %v", c.Pitch, c.MaxPitch)
	}

	c.HandleDrag(0, -20000)
	if c.Pitch < c.MinPitch {
		t.Errorf("pitch = %v below min %v", c.Pitch, c.MinPitch)
	}
}

func TestHandleZoomClampsDistance(t *testing.T) {
	c := NewOrbitCamera()

	for i := 0; i < 100; i++ {
		c.HandleZoom(10)
	}
	if c.Distance < c.MinDistance {
		t.Errorf("distance = %v below min %v", c.Distance, c.MinDistance)
	}

	for i := 0; i < 100; i++ {
		c.HandleZoom(-10)
	}
	if c.Distance > c.MaxDistance {
		t.Errorf("distance = %v exceeds max %v", c.Distance, c.MaxDistance)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	min := mgl32.Vec3{-2, 0, -2}
	max := mgl32.Vec3{2, 4, 2}
	c.FitToBounds(min, max)

	center := c.Center
	if !near(center.X(), 0) || !near(center.Y(), 2) || !near(center.Z(), 0) {
		t.Errorf("center = %v", center)
	}

	// The bounding sphere must fit inside the view cone.
	radius := max.Sub(min).Len() / 2
	if c.Distance < radius {
		t.Errorf("distance %v too close for radius %v", c.Distance, radius)
	}
}
