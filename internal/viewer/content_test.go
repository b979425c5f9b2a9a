package viewer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/skelview/internal/importer"
)

func TestMeshBounds(t *testing.T) {
	meshes := []importer.Mesh{
		{Vertices: []importer.Vertex{
			{Position: [3]float32{-1, 0, 2}},
			{Position: [3]float32{3, -2, 0}},
		}},
		{Vertices: []importer.Vertex{
			{Position: [3]float32{0, 5, -4}},
		}},
	}

	box := meshBounds(meshes)
	if box.Min != (mgl32.Vec3{-1, -2, -4}) {
		t.Errorf("min = %v", box.Min)
	}
	if box.Max != (mgl32.Vec3{3, 5, 2}) {
		t.Errorf("max = %v", box.Max)
	}
}

func TestMeshBoundsEmptyFallsBack(t *testing.T) {
	box := meshBounds(nil)
	if box.Min.X() >= box.Max.X() {
		t.Errorf("degenerate fallback box: %+v", box)
	}
}
