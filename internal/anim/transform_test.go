package anim

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTransformMat4Order(t *testing.T) {
	// T * R * S: a unit X point under scale 2 then 90 degree Y rotation
	// then translation (0, 0, 0) lands on -Z scaled by 2.
	tr := Transform{
		Translation: mgl32.Vec3{0, 0, 0},
		Rotation:    mgl32.QuatRotate(float32(gomath.Pi/2), mgl32.Vec3{0, 1, 0}),
		Scale:       mgl32.Vec3{2, 2, 2},
	}
	p := tr.Mat4().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	want := mgl32.Vec4{0, 0, -2, 1}
	for i := 0; i < 4; i++ {
		if abs32(p[i]-want[i]) > 1e-5 {
			t.Fatalf("transformed point %v, want %v", p, want)
		}
	}
}

func TestDecomposeMat4RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   Transform
	}{
		{"identity", IdentityTransform()},
		{"translation only", Transform{
			Translation: mgl32.Vec3{1, -2, 3},
			Rotation:    mgl32.QuatIdent(),
			Scale:       mgl32.Vec3{1, 1, 1},
		}},
		{"rotation and scale", Transform{
			Translation: mgl32.Vec3{0.5, 0, -4},
			Rotation:    mgl32.QuatRotate(0.8, mgl32.Vec3{0, 1, 0}),
			Scale:       mgl32.Vec3{2, 3, 0.5},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecomposeMat4(tt.in.Mat4())
			if !vec3Near(got.Translation, tt.in.Translation, 1e-4) {
				t.Errorf("translation %v, want %v", got.Translation, tt.in.Translation)
			}
			if !vec3Near(got.Scale, tt.in.Scale, 1e-4) {
				t.Errorf("scale %v, want %v", got.Scale, tt.in.Scale)
			}
			// q and -q are the same orientation.
			if dot := got.Rotation.Dot(tt.in.Rotation); abs32(abs32(dot)-1) > 1e-4 {
				t.Errorf("rotation %v, want orientation of %v", got.Rotation, tt.in.Rotation)
			}
		})
	}
}
