package shadow

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

func TestAABBExtend(t *testing.T) {
	box := NewAABB()
	box.Extend(mgl32.Vec3{-1, 0, 2})
	box.Extend(mgl32.Vec3{3, -2, 0})

	if !near(box.Min.X(), -1) || !near(box.Min.Y(), -2) || !near(box.Min.Z(), 0) {
		t.Errorf("min = %v", box.Min)
	}
	if !near(box.Max.X(), 3) || !near(box.Max.Y(), 0) || !near(box.Max.Z(), 2) {
		t.Errorf("max = %v", box.Max)
	}

	center := box.Center()
	if !near(center.X(), 1) || !near(center.Y(), -1) || !near(center.Z(), 1) {
		t.Errorf("center = %v", center)
	}
}

func TestAABBMerge(t *testing.T) {
	a := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	b := AABB{Min: mgl32.Vec3{-2, 0, 0}, Max: mgl32.Vec3{0, 3, 1}}
	a.Merge(b)

	if !near(a.Min.X(), -2) || !near(a.Max.Y(), 3) {
		t.Errorf("merged = %+v", a)
	}
}

// The light matrix must map every corner of the scene box inside the
// clip volume, otherwise geometry would be cut out of the shadow map.
func TestDirectionalLightMatrixCoversBounds(t *testing.T) {
	bounds := AABB{
		Min: mgl32.Vec3{-5, 0, -5},
		Max: mgl32.Vec3{5, 4, 5},
	}
	dirs := []mgl32.Vec3{
		{0, 1, 0},
		{0.5, 0.7, 0.2},
		{-0.3, 0.9, -0.3},
	}

	for _, dir := range dirs {
		m := DirectionalLightMatrix(dir.Normalize(), bounds)

		for _, x := range []float32{bounds.Min.X(), bounds.Max.X()} {
			for _, y := range []float32{bounds.Min.Y(), bounds.Max.Y()} {
				for _, z := range []float32{bounds.Min.Z(), bounds.Max.Z()} {
					p := m.Mul4x1(mgl32.Vec4{x, y, z, 1})
					ndc := mgl32.Vec3{p.X() / p.W(), p.Y() / p.W(), p.Z() / p.W()}
					for i := 0; i < 3; i++ {
						if ndc[i] < -1-epsilon || ndc[i] > 1+epsilon {
							t.Fatalf("dir %v: corner (%v,%v,%v) outside clip: %v",
								dir, x, y, z, ndc)
						}
					}
				}
			}
		}
	}
}

// A vertical light direction must not produce a degenerate view
// matrix.
func TestDirectionalLightMatrixVerticalLight(t *testing.T) {
	bounds := AABB{Min: mgl32.Vec3{-1, 0, -1}, Max: mgl32.Vec3{1, 2, 1}}
	m := DirectionalLightMatrix(mgl32.Vec3{0, 1, 0}, bounds)

	for i := range m {
		if m[i] != m[i] { // NaN check
			t.Fatalf("matrix contains NaN: %v", m)
		}
	}
	if m == (mgl32.Mat4{}) {
		t.Fatal("matrix is zero")
	}
}
