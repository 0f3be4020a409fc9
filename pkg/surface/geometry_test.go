package surface

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFaceNormal(t *testing.T) {
	m, _ := buildTriangle(t)
	n := m.FaceNormal(m.Faces()[0])
	want := mgl32.Vec3{0, 0, 1}
	if !n.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("FaceNormal() = %v, want %v", n, want)
	}
}

func TestFaceNormalDegenerate(t *testing.T) {
	m := New()
	a := m.AddVertex(mgl32.Vec3{0, 0, 0})
	b := m.AddVertex(mgl32.Vec3{1, 0, 0})
	c := m.AddVertex(mgl32.Vec3{2, 0, 0}) // collinear
	f, err := m.AddTriangle(a, b, c)
	if err != nil {
		t.Fatalf("AddTriangle() error: %v", err)
	}
	if n := m.FaceNormal(f); n != (mgl32.Vec3{}) {
		t.Errorf("FaceNormal(degenerate) = %v, want zero vector", n)
	}
}

func TestVertexNormalFlatPatch(t *testing.T) {
	m := New()
	a := m.AddVertex(mgl32.Vec3{0, 0, 0})
	b := m.AddVertex(mgl32.Vec3{1, 0, 0})
	c := m.AddVertex(mgl32.Vec3{1, 1, 0})
	d := m.AddVertex(mgl32.Vec3{0, 1, 0})
	if _, err := m.AddTriangle(a, b, c); err != nil {
		t.Fatalf("AddTriangle() error: %v", err)
	}
	if _, err := m.AddTriangle(a, c, d); err != nil {
		t.Fatalf("AddTriangle() error: %v", err)
	}

	want := mgl32.Vec3{0, 0, 1}
	for _, v := range m.Vertices() {
		n := m.VertexNormal(v)
		if !n.ApproxEqualThreshold(want, 1e-6) {
			t.Errorf("VertexNormal(%v) = %v, want %v", v, n, want)
		}
	}
}

func TestVertexNormalIsolated(t *testing.T) {
	m := New()
	v := m.AddVertex(mgl32.Vec3{1, 2, 3})
	if n := m.VertexNormal(v); n != (mgl32.Vec3{}) {
		t.Errorf("VertexNormal(isolated) = %v, want zero vector", n)
	}
}

func TestBounds(t *testing.T) {
	m := New()
	m.AddVertex(mgl32.Vec3{-1, 5, 0})
	m.AddVertex(mgl32.Vec3{2, -3, 7})
	m.AddVertex(mgl32.Vec3{0, 0, -2})

	min, max := m.Bounds()
	if min != (mgl32.Vec3{-1, -3, -2}) {
		t.Errorf("min = %v, want (-1, -3, -2)", min)
	}
	if max != (mgl32.Vec3{2, 5, 7}) {
		t.Errorf("max = %v, want (2, 5, 7)", max)
	}
}

func TestBoundsSkipsDeleted(t *testing.T) {
	m, _ := buildTriangle(t)
	far := m.AddVertex(mgl32.Vec3{100, 100, 100})
	m.DeleteVertex(far)

	_, max := m.Bounds()
	if max.X() > 10 {
		t.Errorf("max = %v, deleted vertex still included", max)
	}
}

func TestBoundsEmpty(t *testing.T) {
	m := New()
	min, max := m.Bounds()
	if min != (mgl32.Vec3{}) || max != (mgl32.Vec3{}) {
		t.Errorf("empty bounds = %v, %v, want zero vectors", min, max)
	}
}

func TestRenderBuffersQuad(t *testing.T) {
	m := New()
	a := m.AddVertex(mgl32.Vec3{0, 0, 0})
	b := m.AddVertex(mgl32.Vec3{1, 0, 0})
	c := m.AddVertex(mgl32.Vec3{1, 1, 0})
	d := m.AddVertex(mgl32.Vec3{0, 1, 0})
	if _, err := m.AddQuad(a, b, c, d); err != nil {
		t.Fatalf("AddQuad() error: %v", err)
	}

	rm := m.RenderBuffers()
	if len(rm.Positions) != 12 {
		t.Errorf("len(Positions) = %d, want 12", len(rm.Positions))
	}
	if len(rm.Normals) != 12 {
		t.Errorf("len(Normals) = %d, want 12", len(rm.Normals))
	}
	// one quad fans into two triangles
	if len(rm.Indices) != 6 {
		t.Errorf("len(Indices) = %d, want 6", len(rm.Indices))
	}
	for i := range rm.Indices {
		if rm.Indices[i] > 3 {
			t.Errorf("index %d out of range: %d", i, rm.Indices[i])
		}
	}
	// flat patch: every vertex normal is +z
	for i := 0; i < 4; i++ {
		n := mgl32.Vec3{rm.Normals[3*i], rm.Normals[3*i+1], rm.Normals[3*i+2]}
		if !n.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-6) {
			t.Errorf("normal %d = %v, want +z", i, n)
		}
	}
}

func TestRenderBuffersTetrahedron(t *testing.T) {
	m, _ := buildTetrahedron(t)
	rm := m.RenderBuffers()
	if len(rm.Indices) != 12 {
		t.Errorf("len(Indices) = %d, want 12", len(rm.Indices))
	}
	if len(rm.Positions) != 12 {
		t.Errorf("len(Positions) = %d, want 12", len(rm.Positions))
	}
}

func TestRenderBuffersSkipsDeletedFaces(t *testing.T) {
	m, _, faces := buildStrip(t, 2)
	m.DeleteFace(faces[0])
	rm := m.RenderBuffers()
	if len(rm.Indices) != 3*(len(faces)-1) {
		t.Errorf("len(Indices) = %d, want %d", len(rm.Indices), 3*(len(faces)-1))
	}
}
