package surface

import "github.com/go-gl/mathgl/mgl32"

// faceNormalRaw returns the Newell normal of f: direction is the face
// normal, length twice the face area. Works for non-planar polygons.
func (m *Mesh) faceNormalRaw(f Face) mgl32.Vec3 {
	var n mgl32.Vec3
	vs := m.FaceVertices(f)
	for i, v := range vs {
		p := m.Position(v)
		q := m.Position(vs[(i+1)%len(vs)])
		n[0] += (p.Y() - q.Y()) * (p.Z() + q.Z())
		n[1] += (p.Z() - q.Z()) * (p.X() + q.X())
		n[2] += (p.X() - q.X()) * (p.Y() + q.Y())
	}
	return n
}

func normalize(n mgl32.Vec3) mgl32.Vec3 {
	if l := n.Len(); l > 1e-12 {
		return n.Mul(1 / l)
	}
	return mgl32.Vec3{}
}

// FaceNormal returns the unit normal of f, or the zero vector for a
// degenerate face.
func (m *Mesh) FaceNormal(f Face) mgl32.Vec3 {
	return normalize(m.faceNormalRaw(f))
}

// VertexNormal returns the area-weighted average normal of the faces
// around v, or the zero vector when v has no faces.
func (m *Mesh) VertexNormal(v Vertex) mgl32.Vec3 {
	var n mgl32.Vec3
	for _, f := range m.VertexFaces(v) {
		n = n.Add(m.faceNormalRaw(f))
	}
	return normalize(n)
}

// Bounds returns the axis-aligned bounding box of the live vertices.
// An empty mesh yields two zero vectors.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	first := true
	for i := 0; i < m.verticesSize(); i++ {
		if m.vdeleted.At(i) {
			continue
		}
		p := m.point.At(i)
		if first {
			min, max = p, p
			first = false
			continue
		}
		for c := 0; c < 3; c++ {
			if p[c] < min[c] {
				min[c] = p[c]
			}
			if p[c] > max[c] {
				max[c] = p[c]
			}
		}
	}
	return min, max
}

// RenderMesh is a flat triangle representation ready for a GPU upload or a
// frontend handoff. Positions and normals are xyz triples indexed by the
// triangle indices; faces with more than three vertices are fanned.
type RenderMesh struct {
	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals"`
	Indices   []uint32  `json:"indices"`
}

// RenderBuffers flattens the mesh into indexed triangle buffers with
// per-vertex normals. Deleted vertices keep their slot (with a zero
// normal) so the indices match the current handles; collect garbage first
// to get tight buffers.
func (m *Mesh) RenderBuffers() *RenderMesh {
	nv := m.verticesSize()
	out := &RenderMesh{
		Positions: make([]float32, 0, 3*nv),
		Normals:   make([]float32, 3*nv),
	}

	normals := make([]mgl32.Vec3, nv)
	for i := 0; i < m.facesSize(); i++ {
		if m.fdeleted.At(i) {
			continue
		}
		f := Face(i)
		n := m.faceNormalRaw(f)
		vs := m.FaceVertices(f)
		for _, v := range vs {
			normals[v] = normals[v].Add(n)
		}
		for k := 2; k < len(vs); k++ {
			out.Indices = append(out.Indices,
				uint32(vs[0]), uint32(vs[k-1]), uint32(vs[k]))
		}
	}

	for i := 0; i < nv; i++ {
		p := m.point.At(i)
		out.Positions = append(out.Positions, p.X(), p.Y(), p.Z())
		n := normalize(normals[i])
		out.Normals[3*i] = n.X()
		out.Normals[3*i+1] = n.Y()
		out.Normals[3*i+2] = n.Z()
	}
	return out
}
