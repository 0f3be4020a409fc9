package surfacer

import (
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/lamina3d/lamina/pkg/surface"
)

func requireValid(t *testing.T, m *surface.Mesh) {
	t.Helper()
	defects := m.Validate()
	for _, d := range defects {
		t.Errorf("defect: %v", d)
	}
	if len(defects) > 0 {
		t.FailNow()
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o *Options
	if o.cells() != DefaultCells {
		t.Fatalf("nil options cells = %d, want %d", o.cells(), DefaultCells)
	}
	if o.epsilon() != 0 {
		t.Fatalf("nil options epsilon = %v, want 0", o.epsilon())
	}
	if (&Options{}).cells() != DefaultCells {
		t.Fatalf("zero options should fall back to %d cells", DefaultCells)
	}
	if (&Options{Cells: 32}).cells() != 32 {
		t.Fatal("explicit cell count should win")
	}
}

func TestFromTrianglesTetrahedron(t *testing.T) {
	a := v3.Vec{X: 0, Y: 0, Z: 0}
	b := v3.Vec{X: 1, Y: 0, Z: 0}
	c := v3.Vec{X: 0, Y: 1, Z: 0}
	d := v3.Vec{X: 0, Y: 0, Z: 1}
	soup := []*sdf.Triangle3{
		{a, c, b},
		{a, b, d},
		{b, c, d},
		{a, d, c},
	}
	m, res, err := FromTriangles(soup, nil)
	if err != nil {
		t.Fatalf("FromTriangles: %v", err)
	}
	requireValid(t, m)
	if m.VertexCount() != 4 || m.EdgeCount() != 6 || m.FaceCount() != 4 {
		t.Fatalf("got V=%d E=%d F=%d, want 4 6 4",
			m.VertexCount(), m.EdgeCount(), m.FaceCount())
	}
	if res.InputVertices != 12 || res.MergedVertices != 8 {
		t.Fatalf("got %d inputs, %d merged, want 12 and 8",
			res.InputVertices, res.MergedVertices)
	}
	if !res.Clean() {
		t.Fatalf("tetrahedron soup should need no repairs: %+v", res)
	}
}

func TestFromSDFSphere(t *testing.T) {
	s, err := sdf.Sphere3D(1.0)
	if err != nil {
		t.Fatalf("Sphere3D: %v", err)
	}
	m, res, err := FromSDF(s, &Options{Cells: 24})
	if err != nil {
		t.Fatalf("FromSDF: %v", err)
	}
	requireValid(t, m)
	if m.FaceCount() < 100 {
		t.Fatalf("FaceCount = %d, expected a dense sphere", m.FaceCount())
	}
	if res.AddedFaces != m.FaceCount() {
		t.Fatalf("AddedFaces = %d but mesh has %d faces", res.AddedFaces, m.FaceCount())
	}
	// the sphere is watertight
	for _, v := range m.Vertices() {
		if m.IsBoundaryVertex(v) {
			t.Fatalf("vertex %v on boundary of a closed surface", v)
		}
	}
	if res.NonManifoldVertices == 0 {
		ec := m.VertexCount() - m.EdgeCount() + m.FaceCount()
		if ec != 2 {
			t.Fatalf("Euler characteristic = %d, want 2", ec)
		}
	}
	min, max := m.Bounds()
	for k := 0; k < 3; k++ {
		if min[k] < -1.1 || max[k] > 1.1 {
			t.Fatalf("bounds %v %v exceed the unit sphere", min, max)
		}
	}
}
