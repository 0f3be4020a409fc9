// Package surface implements a half-edge polygonal mesh.
//
// Every edge is stored as two directed halfedges; edge e owns halfedges 2e
// and 2e+1, so Opposite and EdgeOf are index arithmetic rather than stored
// links. Faces and vertices each point at one of their halfedges, and a
// boundary halfedge is simply one without a face. Vertices on a boundary
// always point at a boundary halfedge, which makes boundary tests O(1).
//
// All element data, including the connectivity itself, lives in props.Set
// attribute arrays, so user-defined properties resize, swap and compact in
// lockstep with the built-in ones.
//
// A Mesh is not safe for concurrent mutation. Concurrent readers are fine
// as long as no writer is active.
package surface

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lamina3d/lamina/pkg/props"
)

// ErrInvalidFace is returned by AddFace when inserting the face would break
// the half-edge structure: fewer than three vertices, a repeated vertex, a
// non-boundary (complex) vertex, an edge that already has a face on the
// requested side, or a boundary patch that cannot be re-linked. The mesh is
// left unchanged when AddFace fails.
var ErrInvalidFace = errors.New("face cannot be added")

// PositionName is the name of the built-in vertex position property.
const PositionName = "v:point"

type vertexConn struct {
	// outgoing halfedge; a boundary one when the vertex lies on a boundary
	halfedge Halfedge
}

type halfedgeConn struct {
	face   Face   // incident face, invalid on boundary halfedges
	vertex Vertex // target vertex
	next   Halfedge
	prev   Halfedge
}

type faceConn struct {
	halfedge Halfedge // one halfedge of the face loop
}

// Mesh is a half-edge polygonal surface mesh.
type Mesh struct {
	vprops *props.Set
	hprops *props.Set
	eprops *props.Set
	fprops *props.Set

	vconn props.Property[vertexConn]
	hconn props.Property[halfedgeConn]
	fconn props.Property[faceConn]
	point props.Property[mgl32.Vec3]

	vdeleted props.Property[bool]
	edeleted props.Property[bool]
	fdeleted props.Property[bool]

	deletedVertices int
	deletedEdges    int
	deletedFaces    int
	garbage         bool
}

// New returns an empty mesh.
func New() *Mesh {
	m := &Mesh{
		vprops: props.NewSet(),
		hprops: props.NewSet(),
		eprops: props.NewSet(),
		fprops: props.NewSet(),
	}
	m.vconn = mustAdd(m.vprops, "v:connectivity", vertexConn{halfedge: InvalidHalfedge})
	m.hconn = mustAdd(m.hprops, "h:connectivity", halfedgeConn{
		face:   InvalidFace,
		vertex: InvalidVertex,
		next:   InvalidHalfedge,
		prev:   InvalidHalfedge,
	})
	m.fconn = mustAdd(m.fprops, "f:connectivity", faceConn{halfedge: InvalidHalfedge})
	m.point = mustAdd(m.vprops, PositionName, mgl32.Vec3{})
	m.vdeleted = mustAdd(m.vprops, "v:deleted", false)
	m.edeleted = mustAdd(m.eprops, "e:deleted", false)
	m.fdeleted = mustAdd(m.fprops, "f:deleted", false)
	return m
}

func mustAdd[T any](s *props.Set, name string, def T) props.Property[T] {
	p, err := props.Add(s, name, def)
	if err != nil {
		// only reachable when a built-in name is registered twice
		panic(fmt.Sprintf("surface: %v", err))
	}
	return p
}

// VertexProps returns the property set shared by all vertices. The built-in
// names "v:connectivity", "v:point" and "v:deleted" are reserved.
func (m *Mesh) VertexProps() *props.Set { return m.vprops }

// HalfedgeProps returns the property set shared by all halfedges.
func (m *Mesh) HalfedgeProps() *props.Set { return m.hprops }

// EdgeProps returns the property set shared by all edges.
func (m *Mesh) EdgeProps() *props.Set { return m.eprops }

// FaceProps returns the property set shared by all faces.
func (m *Mesh) FaceProps() *props.Set { return m.fprops }

// Array sizes include deleted elements until CollectGarbage runs.

func (m *Mesh) verticesSize() int  { return m.vprops.Len() }
func (m *Mesh) halfedgesSize() int { return m.hprops.Len() }
func (m *Mesh) edgesSize() int     { return m.eprops.Len() }
func (m *Mesh) facesSize() int     { return m.fprops.Len() }

// VertexCount returns the number of vertices, not counting deleted ones.
func (m *Mesh) VertexCount() int { return m.verticesSize() - m.deletedVertices }

// EdgeCount returns the number of edges, not counting deleted ones.
func (m *Mesh) EdgeCount() int { return m.edgesSize() - m.deletedEdges }

// HalfedgeCount returns the number of halfedges, not counting deleted ones.
func (m *Mesh) HalfedgeCount() int { return 2 * m.EdgeCount() }

// FaceCount returns the number of faces, not counting deleted ones.
func (m *Mesh) FaceCount() int { return m.facesSize() - m.deletedFaces }

// IsEmpty reports whether the mesh has no live vertices.
func (m *Mesh) IsEmpty() bool { return m.VertexCount() == 0 }

// InRange reports whether v refers to an existing vertex slot, deleted or
// not.
func (m *Mesh) InRange(v Vertex) bool {
	return v.Valid() && int(v) < m.verticesSize()
}

// IsVertexDeleted reports whether v has been deleted but not yet collected.
func (m *Mesh) IsVertexDeleted(v Vertex) bool { return m.vdeleted.At(int(v)) }

// IsEdgeDeleted reports whether e has been deleted but not yet collected.
func (m *Mesh) IsEdgeDeleted(e Edge) bool { return m.edeleted.At(int(e)) }

// IsFaceDeleted reports whether f has been deleted but not yet collected.
func (m *Mesh) IsFaceDeleted(f Face) bool { return m.fdeleted.At(int(f)) }

// HasGarbage reports whether any element is marked deleted and a
// CollectGarbage call is pending.
func (m *Mesh) HasGarbage() bool { return m.garbage }

// --- connectivity accessors ---

// OutgoingHalfedge returns the halfedge leaving v, or InvalidHalfedge for
// an isolated vertex. For boundary vertices it is a boundary halfedge.
func (m *Mesh) OutgoingHalfedge(v Vertex) Halfedge {
	return m.vconn.At(int(v)).halfedge
}

func (m *Mesh) setOutgoing(v Vertex, h Halfedge) {
	m.vconn.SetAt(int(v), vertexConn{halfedge: h})
}

// ToVertex returns the vertex h points at.
func (m *Mesh) ToVertex(h Halfedge) Vertex {
	return m.hconn.At(int(h)).vertex
}

// FromVertex returns the vertex h leaves.
func (m *Mesh) FromVertex(h Halfedge) Vertex {
	return m.ToVertex(m.Opposite(h))
}

func (m *Mesh) setVertex(h Halfedge, v Vertex) {
	c := m.hconn.At(int(h))
	c.vertex = v
	m.hconn.SetAt(int(h), c)
}

// FaceOf returns the face of h, or InvalidFace when h is on the boundary.
func (m *Mesh) FaceOf(h Halfedge) Face {
	return m.hconn.At(int(h)).face
}

func (m *Mesh) setFace(h Halfedge, f Face) {
	c := m.hconn.At(int(h))
	c.face = f
	m.hconn.SetAt(int(h), c)
}

// Next returns the halfedge following h in its face loop, or in the
// boundary cycle when h has no face.
func (m *Mesh) Next(h Halfedge) Halfedge {
	return m.hconn.At(int(h)).next
}

// Prev returns the halfedge preceding h in its face loop or boundary cycle.
func (m *Mesh) Prev(h Halfedge) Halfedge {
	return m.hconn.At(int(h)).prev
}

// setNext links h before next, updating both directions.
func (m *Mesh) setNext(h, next Halfedge) {
	c := m.hconn.At(int(h))
	c.next = next
	m.hconn.SetAt(int(h), c)

	c = m.hconn.At(int(next))
	c.prev = h
	m.hconn.SetAt(int(next), c)
}

// Opposite returns the other halfedge of h's edge.
func (m *Mesh) Opposite(h Halfedge) Halfedge { return h ^ 1 }

// EdgeOf returns the edge h belongs to.
func (m *Mesh) EdgeOf(h Halfedge) Edge { return Edge(h >> 1) }

// Halfedge returns side 0 or 1 of edge e.
func (m *Mesh) Halfedge(e Edge, side int) Halfedge {
	return Halfedge(int(e)<<1 | side&1)
}

// AnchorHalfedge returns the halfedge stored for face f.
func (m *Mesh) AnchorHalfedge(f Face) Halfedge {
	return m.fconn.At(int(f)).halfedge
}

func (m *Mesh) setAnchor(f Face, h Halfedge) {
	m.fconn.SetAt(int(f), faceConn{halfedge: h})
}

// NextAroundFace returns the next halfedge of the same face loop.
func (m *Mesh) NextAroundFace(h Halfedge) Halfedge { return m.Next(h) }

// PrevAroundFace returns the previous halfedge of the same face loop.
func (m *Mesh) PrevAroundFace(h Halfedge) Halfedge { return m.Prev(h) }

// NextAroundVertex rotates an outgoing halfedge counter-clockwise around
// its source vertex.
func (m *Mesh) NextAroundVertex(h Halfedge) Halfedge {
	return m.Opposite(m.Prev(h))
}

// PrevAroundVertex rotates an outgoing halfedge clockwise around its
// source vertex.
func (m *Mesh) PrevAroundVertex(h Halfedge) Halfedge {
	return m.Next(m.Opposite(h))
}

// --- boundary tests ---

// IsBoundaryHalfedge reports whether h has no incident face.
func (m *Mesh) IsBoundaryHalfedge(h Halfedge) bool {
	return !m.FaceOf(h).Valid()
}

// IsBoundaryEdge reports whether either side of e lacks a face.
func (m *Mesh) IsBoundaryEdge(e Edge) bool {
	return m.IsBoundaryHalfedge(m.Halfedge(e, 0)) || m.IsBoundaryHalfedge(m.Halfedge(e, 1))
}

// IsBoundaryVertex reports whether v is isolated or lies on a boundary.
// This is O(1) because the outgoing halfedge of a boundary vertex is kept
// on the boundary.
func (m *Mesh) IsBoundaryVertex(v Vertex) bool {
	h := m.OutgoingHalfedge(v)
	return !h.Valid() || m.IsBoundaryHalfedge(h)
}

// IsBoundaryFace reports whether any edge of f also borders the boundary.
func (m *Mesh) IsBoundaryFace(f Face) bool {
	start := m.AnchorHalfedge(f)
	h := start
	for {
		if m.IsBoundaryHalfedge(m.Opposite(h)) {
			return true
		}
		h = m.Next(h)
		if h == start {
			return false
		}
	}
}

// IsIsolated reports whether v has no incident edges.
func (m *Mesh) IsIsolated(v Vertex) bool {
	return !m.OutgoingHalfedge(v).Valid()
}

// --- element creation ---

func (m *Mesh) newVertex() Vertex {
	m.vprops.Push()
	return Vertex(m.verticesSize() - 1)
}

// newEdge allocates an edge and returns its halfedge from start to end.
func (m *Mesh) newEdge(start, end Vertex) Halfedge {
	m.eprops.Push()
	m.hprops.Push()
	m.hprops.Push()
	h := Halfedge(m.halfedgesSize() - 2)
	o := h + 1
	m.setVertex(h, end)
	m.setVertex(o, start)
	return h
}

func (m *Mesh) newFace() Face {
	m.fprops.Push()
	return Face(m.facesSize() - 1)
}

// AddVertex appends a new isolated vertex at position p.
func (m *Mesh) AddVertex(p mgl32.Vec3) Vertex {
	v := m.newVertex()
	m.point.SetAt(int(v), p)
	return v
}

// Position returns the position of v.
func (m *Mesh) Position(v Vertex) mgl32.Vec3 { return m.point.At(int(v)) }

// SetPosition moves v to p.
func (m *Mesh) SetPosition(v Vertex, p mgl32.Vec3) { m.point.SetAt(int(v), p) }

// Positions returns the backing position array, indexed by vertex handle.
// Until CollectGarbage runs it also contains slots of deleted vertices.
func (m *Mesh) Positions() []mgl32.Vec3 { return m.point.Data() }

// FindHalfedge returns the halfedge from start to end, or InvalidHalfedge
// when the two vertices are not connected.
func (m *Mesh) FindHalfedge(start, end Vertex) Halfedge {
	h := m.OutgoingHalfedge(start)
	if !h.Valid() {
		return InvalidHalfedge
	}
	first := h
	for {
		if m.ToVertex(h) == end {
			return h
		}
		h = m.PrevAroundVertex(h)
		if h == first {
			return InvalidHalfedge
		}
	}
}

// FindEdge returns the edge joining a and b, or InvalidEdge.
func (m *Mesh) FindEdge(a, b Vertex) Edge {
	h := m.FindHalfedge(a, b)
	if !h.Valid() {
		return InvalidEdge
	}
	return m.EdgeOf(h)
}

// AdjustOutgoing resets v's outgoing halfedge to a boundary halfedge when
// its fan contains one. AddFace and DeleteFace maintain this invariant on
// their own; the method is idempotent and cheap to call after rewiring
// connectivity directly.
func (m *Mesh) AdjustOutgoing(v Vertex) {
	start := m.OutgoingHalfedge(v)
	if !start.Valid() {
		return
	}
	h := start
	for {
		if m.IsBoundaryHalfedge(h) {
			m.setOutgoing(v, h)
			return
		}
		h = m.PrevAroundVertex(h)
		if h == start {
			return
		}
	}
}

// AddTriangle adds the triangle (a, b, c).
func (m *Mesh) AddTriangle(a, b, c Vertex) (Face, error) {
	return m.AddFace([]Vertex{a, b, c})
}

// AddQuad adds the quadrilateral (a, b, c, d).
func (m *Mesh) AddQuad(a, b, c, d Vertex) (Face, error) {
	return m.AddFace([]Vertex{a, b, c, d})
}

// AddFace inserts a face over the given vertex cycle. Vertex order defines
// the orientation; neighboring faces must wind consistently so that a
// shared edge is traversed once in each direction.
//
// AddFace fails with ErrInvalidFace when the cycle has fewer than three or
// repeated vertices, when a vertex of the cycle is not on the boundary
// (its fan is closed), when an edge of the cycle already carries a face in
// the same direction, or when the boundary around a vertex cannot be
// re-linked to make room. On failure the mesh is unchanged. Use
// manifold.Builder to load data that may violate these rules.
func (m *Mesh) AddFace(vts []Vertex) (Face, error) {
	n := len(vts)
	if n < 3 {
		return InvalidFace, fmt.Errorf("surface: face with %d vertices: %w", n, ErrInvalidFace)
	}
	for i := 0; i < n; i++ {
		if !m.InRange(vts[i]) {
			return InvalidFace, fmt.Errorf("surface: face references unknown vertex %v: %w", vts[i], ErrInvalidFace)
		}
		for j := i + 1; j < n; j++ {
			if vts[i] == vts[j] {
				return InvalidFace, fmt.Errorf("surface: face repeats vertex %v: %w", vts[i], ErrInvalidFace)
			}
		}
	}

	halfedges := make([]Halfedge, n)
	isNew := make([]bool, n)

	// Every vertex of the cycle must still have room in its fan, and every
	// existing edge of the cycle must be free on the requested side.
	for i := 0; i < n; i++ {
		if !m.IsBoundaryVertex(vts[i]) {
			return InvalidFace, fmt.Errorf("surface: vertex %v has a closed fan: %w", vts[i], ErrInvalidFace)
		}
		h := m.FindHalfedge(vts[i], vts[(i+1)%n])
		halfedges[i] = h
		isNew[i] = !h.Valid()
		if !isNew[i] && !m.IsBoundaryHalfedge(h) {
			return InvalidFace, fmt.Errorf("surface: edge %v-%v already has a face on this side: %w",
				vts[i], vts[(i+1)%n], ErrInvalidFace)
		}
	}

	// Between two consecutive existing halfedges that are not yet linked,
	// the boundary patch in between has to move elsewhere in the vertex
	// fan. Links are recorded first and applied after the last check that
	// can fail, so a failed AddFace leaves no trace.
	var nextCache [][2]Halfedge
	for i := 0; i < n; i++ {
		ii := (i + 1) % n
		if isNew[i] || isNew[ii] {
			continue
		}
		innerPrev := halfedges[i]
		innerNext := halfedges[ii]
		if m.Next(innerPrev) == innerNext {
			continue
		}
		// find a free boundary gap in the fan of vts[ii]
		outerPrev := m.Opposite(innerNext)
		boundaryPrev := outerPrev
		for {
			boundaryPrev = m.Opposite(m.Next(boundaryPrev))
			if m.IsBoundaryHalfedge(boundaryPrev) && boundaryPrev != innerPrev {
				break
			}
		}
		boundaryNext := m.Next(boundaryPrev)
		if boundaryNext == innerNext {
			return InvalidFace, fmt.Errorf("surface: no room to relink boundary at vertex %v: %w",
				vts[ii], ErrInvalidFace)
		}
		patchStart := m.Next(innerPrev)
		patchEnd := m.Prev(innerNext)
		nextCache = append(nextCache,
			[2]Halfedge{boundaryPrev, patchStart},
			[2]Halfedge{patchEnd, boundaryNext},
			[2]Halfedge{innerPrev, innerNext},
		)
	}

	// no more failure paths from here on
	for i := 0; i < n; i++ {
		if isNew[i] {
			halfedges[i] = m.newEdge(vts[i], vts[(i+1)%n])
		}
	}

	f := m.newFace()
	m.setAnchor(f, halfedges[n-1])

	needsAdjust := make([]bool, n)

	for i := 0; i < n; i++ {
		ii := (i + 1) % n
		v := vts[ii]
		innerPrev := halfedges[i]
		innerNext := halfedges[ii]

		id := 0
		if isNew[i] {
			id |= 1
		}
		if isNew[ii] {
			id |= 2
		}

		if id != 0 {
			outerPrev := m.Opposite(innerNext)
			outerNext := m.Opposite(innerPrev)

			switch id {
			case 1: // only innerPrev is new
				boundaryPrev := m.Prev(innerNext)
				nextCache = append(nextCache, [2]Halfedge{boundaryPrev, outerNext})
				m.setOutgoing(v, outerNext)
			case 2: // only innerNext is new
				boundaryNext := m.Next(innerPrev)
				nextCache = append(nextCache, [2]Halfedge{outerPrev, boundaryNext})
				m.setOutgoing(v, boundaryNext)
			case 3: // both are new
				if !m.OutgoingHalfedge(v).Valid() {
					m.setOutgoing(v, outerNext)
					nextCache = append(nextCache, [2]Halfedge{outerPrev, outerNext})
				} else {
					boundaryNext := m.OutgoingHalfedge(v)
					boundaryPrev := m.Prev(boundaryNext)
					nextCache = append(nextCache,
						[2]Halfedge{boundaryPrev, outerNext},
						[2]Halfedge{outerPrev, boundaryNext},
					)
				}
			}
			nextCache = append(nextCache, [2]Halfedge{innerPrev, innerNext})
		} else {
			needsAdjust[ii] = m.OutgoingHalfedge(v) == innerNext
		}

		m.setFace(halfedges[i], f)
	}

	for _, link := range nextCache {
		m.setNext(link[0], link[1])
	}

	for i := 0; i < n; i++ {
		if needsAdjust[i] {
			m.AdjustOutgoing(vts[i])
		}
	}

	return f, nil
}

// --- traversal ---

// Vertices returns the live vertex handles in index order.
func (m *Mesh) Vertices() []Vertex {
	out := make([]Vertex, 0, m.VertexCount())
	for i := 0; i < m.verticesSize(); i++ {
		if !m.vdeleted.At(i) {
			out = append(out, Vertex(i))
		}
	}
	return out
}

// Edges returns the live edge handles in index order.
func (m *Mesh) Edges() []Edge {
	out := make([]Edge, 0, m.EdgeCount())
	for i := 0; i < m.edgesSize(); i++ {
		if !m.edeleted.At(i) {
			out = append(out, Edge(i))
		}
	}
	return out
}

// Halfedges returns the live halfedge handles in index order.
func (m *Mesh) Halfedges() []Halfedge {
	out := make([]Halfedge, 0, m.HalfedgeCount())
	for i := 0; i < m.halfedgesSize(); i++ {
		if !m.edeleted.At(i >> 1) {
			out = append(out, Halfedge(i))
		}
	}
	return out
}

// Faces returns the live face handles in index order.
func (m *Mesh) Faces() []Face {
	out := make([]Face, 0, m.FaceCount())
	for i := 0; i < m.facesSize(); i++ {
		if !m.fdeleted.At(i) {
			out = append(out, Face(i))
		}
	}
	return out
}

// FaceHalfedges returns the halfedge loop of f, starting at its anchor.
func (m *Mesh) FaceHalfedges(f Face) []Halfedge {
	var out []Halfedge
	start := m.AnchorHalfedge(f)
	h := start
	for {
		out = append(out, h)
		h = m.Next(h)
		if h == start {
			return out
		}
	}
}

// FaceVertices returns the vertices of f in face order. For a face created
// by AddFace this matches the insertion order of its vertex cycle.
func (m *Mesh) FaceVertices(f Face) []Vertex {
	var out []Vertex
	start := m.AnchorHalfedge(f)
	h := start
	for {
		out = append(out, m.ToVertex(h))
		h = m.Next(h)
		if h == start {
			return out
		}
	}
}

// FaceValence returns the number of vertices of f.
func (m *Mesh) FaceValence(f Face) int {
	n := 0
	start := m.AnchorHalfedge(f)
	h := start
	for {
		n++
		h = m.Next(h)
		if h == start {
			return n
		}
	}
}

// VertexRing returns the neighbors of v in counter-clockwise order,
// starting with the target of its outgoing halfedge. An isolated vertex
// yields nil.
func (m *Mesh) VertexRing(v Vertex) []Vertex {
	start := m.OutgoingHalfedge(v)
	if !start.Valid() {
		return nil
	}
	var out []Vertex
	h := start
	for {
		out = append(out, m.ToVertex(h))
		h = m.NextAroundVertex(h)
		if h == start {
			return out
		}
	}
}

// VertexFaces returns the faces incident to v in counter-clockwise order.
func (m *Mesh) VertexFaces(v Vertex) []Face {
	start := m.OutgoingHalfedge(v)
	if !start.Valid() {
		return nil
	}
	var out []Face
	h := start
	for {
		if f := m.FaceOf(h); f.Valid() {
			out = append(out, f)
		}
		h = m.NextAroundVertex(h)
		if h == start {
			return out
		}
	}
}

// Valence returns the number of edges incident to v.
func (m *Mesh) Valence(v Vertex) int {
	start := m.OutgoingHalfedge(v)
	if !start.Valid() {
		return 0
	}
	n := 0
	h := start
	for {
		n++
		h = m.NextAroundVertex(h)
		if h == start {
			return n
		}
	}
}
