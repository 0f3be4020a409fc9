package pick

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lamina3d/lamina/pkg/surface"
)

// Ray is a picking ray in world coordinates. Dir need not be normalized;
// reported distances are in units of Dir.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// PointAt returns the point at parameter t along the ray.
func (r Ray) PointAt(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

const rayEpsilon = 1e-7

// RayTriangle intersects a ray with triangle (a, b, c) using the
// Möller-Trumbore test. Both triangle sides count as hits; only forward
// intersections (t > 0) are reported.
func RayTriangle(r Ray, a, b, c mgl32.Vec3) (float32, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < rayEpsilon {
		return 0, false // ray parallel to the triangle plane
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= rayEpsilon {
		return 0, false
	}
	return t, true
}

// PickFace casts the ray against every live face and returns the nearest
// hit. Faces with more than three sides are fan-triangulated. It reports
// ok false when the ray misses the mesh.
func PickFace(m *surface.Mesh, r Ray) (surface.Face, float32, bool) {
	best := surface.InvalidFace
	bestT := float32(math32.MaxFloat32)
	for _, f := range m.Faces() {
		vs := m.FaceVertices(f)
		for k := 2; k < len(vs); k++ {
			t, ok := RayTriangle(r,
				m.Position(vs[0]), m.Position(vs[k-1]), m.Position(vs[k]))
			if ok && t < bestT {
				best, bestT = f, t
			}
		}
	}
	if !best.Valid() {
		return surface.InvalidFace, 0, false
	}
	return best, bestT, true
}
