package intersect

import "math"

// Triangle-triangle intersection after Möller's interval method, in
// float64 to keep the predicates stable on float32 input. Distances to
// the other triangle's plane below planeEpsilon count as on-plane, which
// routes nearly coplanar pairs through the 2D overlap test.

type vec3 = [3]float64

const planeEpsilon = 1e-9

func sub(a, b vec3) vec3 {
	return vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b vec3) vec3 {
	return vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func clampPlane(d float64) float64 {
	if math.Abs(d) < planeEpsilon {
		return 0
	}
	return d
}

// intervalBasis picks the projection described by the sign pattern of the
// plane distances. coplanar is set when all three distances vanish.
func intervalBasis(vv0, vv1, vv2, d0, d1, d2, d0d1, d0d2 float64) (a, b, c, x0, x1 float64, coplanar bool) {
	switch {
	case d0d1 > 0:
		// d0, d1 on one side, d2 alone
		a, b, c, x0, x1 = vv2, (vv0-vv2)*d2, (vv1-vv2)*d2, d2-d0, d2-d1
	case d0d2 > 0:
		a, b, c, x0, x1 = vv1, (vv0-vv1)*d1, (vv2-vv1)*d1, d1-d0, d1-d2
	case d1*d2 > 0 || d0 != 0:
		a, b, c, x0, x1 = vv0, (vv1-vv0)*d0, (vv2-vv0)*d0, d0-d1, d0-d2
	case d1 != 0:
		a, b, c, x0, x1 = vv1, (vv0-vv1)*d1, (vv2-vv1)*d1, d1-d0, d1-d2
	case d2 != 0:
		a, b, c, x0, x1 = vv2, (vv0-vv2)*d2, (vv1-vv2)*d2, d2-d0, d2-d1
	default:
		coplanar = true
	}
	return
}

func triTriOverlap(v0, v1, v2, u0, u1, u2 vec3) bool {
	n1 := cross(sub(v1, v0), sub(v2, v0))
	if dot(n1, n1) < 1e-30 {
		return false // degenerate triangle
	}
	d1 := -dot(n1, v0)
	du0 := clampPlane(dot(n1, u0) + d1)
	du1 := clampPlane(dot(n1, u1) + d1)
	du2 := clampPlane(dot(n1, u2) + d1)
	du0du1 := du0 * du1
	du0du2 := du0 * du2
	if du0du1 > 0 && du0du2 > 0 {
		return false // all of u strictly on one side
	}

	n2 := cross(sub(u1, u0), sub(u2, u0))
	if dot(n2, n2) < 1e-30 {
		return false
	}
	d2 := -dot(n2, u0)
	dv0 := clampPlane(dot(n2, v0) + d2)
	dv1 := clampPlane(dot(n2, v1) + d2)
	dv2 := clampPlane(dot(n2, v2) + d2)
	dv0dv1 := dv0 * dv1
	dv0dv2 := dv0 * dv2
	if dv0dv1 > 0 && dv0dv2 > 0 {
		return false
	}

	// project onto the largest component of the intersection line
	dir := cross(n1, n2)
	idx := 0
	max := math.Abs(dir[0])
	if b := math.Abs(dir[1]); b > max {
		max, idx = b, 1
	}
	if c := math.Abs(dir[2]); c > max {
		idx = 2
	}
	vp0, vp1, vp2 := v0[idx], v1[idx], v2[idx]
	up0, up1, up2 := u0[idx], u1[idx], u2[idx]

	a, b, c, x0, x1, coplanar := intervalBasis(vp0, vp1, vp2, dv0, dv1, dv2, dv0dv1, dv0dv2)
	if coplanar {
		return coplanarTriTri(n1, v0, v1, v2, u0, u1, u2)
	}
	d, e, f, y0, y1, coplanar := intervalBasis(up0, up1, up2, du0, du1, du2, du0du1, du0du2)
	if coplanar {
		return coplanarTriTri(n1, v0, v1, v2, u0, u1, u2)
	}

	xx := x0 * x1
	yy := y0 * y1
	xxyy := xx * yy

	tmp := a * xxyy
	i10 := tmp + b*x1*yy
	i11 := tmp + c*x0*yy
	tmp = d * xxyy
	i20 := tmp + e*xx*y1
	i21 := tmp + f*xx*y0

	if i10 > i11 {
		i10, i11 = i11, i10
	}
	if i20 > i21 {
		i20, i21 = i21, i20
	}
	return i11 >= i20 && i21 >= i10
}

// coplanarTriTri projects both triangles onto the dominant plane of n and
// tests edges against edges, then containment both ways.
func coplanarTriTri(n, v0, v1, v2, u0, u1, u2 vec3) bool {
	a0, a1, a2 := math.Abs(n[0]), math.Abs(n[1]), math.Abs(n[2])
	var i0, i1 int
	switch {
	case a0 > a1 && a0 > a2:
		i0, i1 = 1, 2 // drop x
	case a1 > a2:
		i0, i1 = 0, 2 // drop y
	default:
		i0, i1 = 0, 1 // drop z
	}

	if edgeAgainstTriEdges(v0, v1, u0, u1, u2, i0, i1) ||
		edgeAgainstTriEdges(v1, v2, u0, u1, u2, i0, i1) ||
		edgeAgainstTriEdges(v2, v0, u0, u1, u2, i0, i1) {
		return true
	}
	return pointInTri(v0, u0, u1, u2, i0, i1) || pointInTri(u0, v0, v1, v2, i0, i1)
}

func edgeAgainstTriEdges(p0, p1, u0, u1, u2 vec3, i0, i1 int) bool {
	ax := p1[i0] - p0[i0]
	ay := p1[i1] - p0[i1]
	return edgeEdge(p0, u0, u1, ax, ay, i0, i1) ||
		edgeEdge(p0, u1, u2, ax, ay, i0, i1) ||
		edgeEdge(p0, u2, u0, ax, ay, i0, i1)
}

func edgeEdge(v, u0, u1 vec3, ax, ay float64, i0, i1 int) bool {
	bx := u0[i0] - u1[i0]
	by := u0[i1] - u1[i1]
	cx := v[i0] - u0[i0]
	cy := v[i1] - u0[i1]
	f := ay*bx - ax*by
	d := by*cx - bx*cy
	if (f > 0 && d >= 0 && d <= f) || (f < 0 && d <= 0 && d >= f) {
		e := ax*cy - ay*cx
		if f > 0 {
			return e >= 0 && e <= f
		}
		return e <= 0 && e >= f
	}
	return false
}

func pointInTri(p, u0, u1, u2 vec3, i0, i1 int) bool {
	a := u1[i1] - u0[i1]
	b := -(u1[i0] - u0[i0])
	c := -a*u0[i0] - b*u0[i1]
	d0 := a*p[i0] + b*p[i1] + c

	a = u2[i1] - u1[i1]
	b = -(u2[i0] - u1[i0])
	c = -a*u1[i0] - b*u1[i1]
	d1 := a*p[i0] + b*p[i1] + c

	a = u0[i1] - u2[i1]
	b = -(u0[i0] - u2[i0])
	c = -a*u2[i0] - b*u2[i1]
	d2 := a*p[i0] + b*p[i1] + c

	return d0*d1 > 0 && d0*d2 > 0
}
