package surface

import "github.com/lamina3d/lamina"

// Remap records the handle renaming performed by CollectGarbage. Handles
// saved before the collection can be translated to their new values; the
// lookups return the invalid sentinel for elements that were deleted.
type Remap struct {
	vertices  []Vertex
	halfedges []Halfedge
	edges     []Edge
	faces     []Face
}

// Vertex translates a pre-collection vertex handle.
func (r *Remap) Vertex(old Vertex) Vertex {
	if !old.Valid() || int(old) >= len(r.vertices) {
		return InvalidVertex
	}
	return r.vertices[old]
}

// Halfedge translates a pre-collection halfedge handle.
func (r *Remap) Halfedge(old Halfedge) Halfedge {
	if !old.Valid() || int(old) >= len(r.halfedges) {
		return InvalidHalfedge
	}
	return r.halfedges[old]
}

// Edge translates a pre-collection edge handle.
func (r *Remap) Edge(old Edge) Edge {
	if !old.Valid() || int(old) >= len(r.edges) {
		return InvalidEdge
	}
	return r.edges[old]
}

// Face translates a pre-collection face handle.
func (r *Remap) Face(old Face) Face {
	if !old.Valid() || int(old) >= len(r.faces) {
		return InvalidFace
	}
	return r.faces[old]
}

// CollectGarbage compacts the element arrays by swapping live elements
// into the slots of deleted ones, truncates all property arrays and
// rewrites the connectivity for the new handles. Existing handles become
// stale; the returned Remap translates them.
func (m *Mesh) CollectGarbage() *Remap {
	nV := m.verticesSize()
	nE := m.edgesSize()
	nH := m.halfedgesSize()
	nF := m.facesSize()

	// Handle maps live as properties so the compaction swaps move them
	// together with the elements they describe. Each swap exchanges a pair
	// once, so after compaction map[old] is the new index of a live
	// element and an out-of-range index for a deleted one.
	vmap := mustAdd(m.vprops, "v:gc", InvalidVertex)
	hmap := mustAdd(m.hprops, "h:gc", InvalidHalfedge)
	fmap := mustAdd(m.fprops, "f:gc", InvalidFace)
	for i := 0; i < nV; i++ {
		vmap.SetAt(i, Vertex(i))
	}
	for i := 0; i < nH; i++ {
		hmap.SetAt(i, Halfedge(i))
	}
	for i := 0; i < nF; i++ {
		fmap.SetAt(i, Face(i))
	}

	if nV > 0 {
		i0, i1 := 0, nV-1
		for {
			for !m.vdeleted.At(i0) && i0 < i1 {
				i0++
			}
			for m.vdeleted.At(i1) && i0 < i1 {
				i1--
			}
			if i0 >= i1 {
				break
			}
			m.vprops.Swap(i0, i1)
		}
		if m.vdeleted.At(i0) {
			nV = i0
		} else {
			nV = i0 + 1
		}
	}

	if nE > 0 {
		i0, i1 := 0, nE-1
		for {
			for !m.edeleted.At(i0) && i0 < i1 {
				i0++
			}
			for m.edeleted.At(i1) && i0 < i1 {
				i1--
			}
			if i0 >= i1 {
				break
			}
			// move both halfedges with their edge
			m.eprops.Swap(i0, i1)
			m.hprops.Swap(2*i0, 2*i1)
			m.hprops.Swap(2*i0+1, 2*i1+1)
		}
		if m.edeleted.At(i0) {
			nE = i0
		} else {
			nE = i0 + 1
		}
		nH = 2 * nE
	}

	if nF > 0 {
		i0, i1 := 0, nF-1
		for {
			for !m.fdeleted.At(i0) && i0 < i1 {
				i0++
			}
			for m.fdeleted.At(i1) && i0 < i1 {
				i1--
			}
			if i0 >= i1 {
				break
			}
			m.fprops.Swap(i0, i1)
		}
		if m.fdeleted.At(i0) {
			nF = i0
		} else {
			nF = i0 + 1
		}
	}

	// snapshot old-to-new before anything is truncated
	remap := &Remap{
		vertices:  make([]Vertex, m.verticesSize()),
		halfedges: make([]Halfedge, m.halfedgesSize()),
		edges:     make([]Edge, m.edgesSize()),
		faces:     make([]Face, m.facesSize()),
	}
	for i := range remap.vertices {
		if nv := vmap.At(i); int(nv) < nV {
			remap.vertices[i] = nv
		} else {
			remap.vertices[i] = InvalidVertex
		}
	}
	for i := range remap.halfedges {
		if nh := hmap.At(i); int(nh) < nH {
			remap.halfedges[i] = nh
		} else {
			remap.halfedges[i] = InvalidHalfedge
		}
	}
	for i := range remap.edges {
		if nh := hmap.At(2 * i); int(nh) < nH {
			remap.edges[i] = Edge(nh >> 1)
		} else {
			remap.edges[i] = InvalidEdge
		}
	}
	for i := range remap.faces {
		if nf := fmap.At(i); int(nf) < nF {
			remap.faces[i] = nf
		} else {
			remap.faces[i] = InvalidFace
		}
	}

	// rewrite connectivity in terms of the new handles
	for i := 0; i < nV; i++ {
		v := Vertex(i)
		if !m.IsIsolated(v) {
			m.setOutgoing(v, hmap.At(int(m.OutgoingHalfedge(v))))
		}
	}
	for i := 0; i < nH; i++ {
		c := m.hconn.At(i)
		c.vertex = vmap.At(int(c.vertex))
		c.next = hmap.At(int(c.next))
		c.prev = hmap.At(int(c.prev))
		if c.face.Valid() {
			c.face = fmap.At(int(c.face))
		}
		m.hconn.SetAt(i, c)
	}
	for i := 0; i < nF; i++ {
		f := Face(i)
		m.setAnchor(f, hmap.At(int(m.AnchorHalfedge(f))))
	}

	m.vprops.Remove("v:gc")
	m.hprops.Remove("h:gc")
	m.fprops.Remove("f:gc")

	m.vprops.Resize(nV)
	m.hprops.Resize(nH)
	m.eprops.Resize(nE)
	m.fprops.Resize(nF)

	collected := [3]int{m.deletedVertices, m.deletedEdges, m.deletedFaces}
	m.deletedVertices = 0
	m.deletedEdges = 0
	m.deletedFaces = 0
	m.garbage = false

	lamina.Logger().Debug("surface: garbage collected",
		"vertices", collected[0], "edges", collected[1], "faces", collected[2],
		"liveVertices", nV, "liveFaces", nF)

	return remap
}
