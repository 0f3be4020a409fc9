package surface

// DeleteFace marks f deleted, along with any edge that loses both faces
// and any vertex that loses all its edges. The surrounding boundary is
// re-linked so traversal stays consistent. Slots are only reclaimed by
// CollectGarbage.
func (m *Mesh) DeleteFace(f Face) {
	if m.fdeleted.At(int(f)) {
		return
	}
	m.fdeleted.SetAt(int(f), true)
	m.deletedFaces++
	m.garbage = true

	// detach the loop and collect edges left without any face
	var deadEdges []Edge
	var ring []Vertex
	for _, h := range m.FaceHalfedges(f) {
		m.setFace(h, InvalidFace)
		if m.IsBoundaryHalfedge(m.Opposite(h)) {
			deadEdges = append(deadEdges, m.EdgeOf(h))
		}
		ring = append(ring, m.ToVertex(h))
	}

	for _, e := range deadEdges {
		h0 := m.Halfedge(e, 0)
		v0 := m.ToVertex(h0)
		next0 := m.Next(h0)
		prev0 := m.Prev(h0)

		h1 := m.Halfedge(e, 1)
		v1 := m.ToVertex(h1)
		next1 := m.Next(h1)
		prev1 := m.Prev(h1)

		// bridge the boundary cycle around the removed edge
		m.setNext(prev0, next1)
		m.setNext(prev1, next0)

		m.edeleted.SetAt(int(e), true)
		m.deletedEdges++

		if m.OutgoingHalfedge(v0) == h1 {
			if next0 == h1 {
				// last edge at v0
				m.vdeleted.SetAt(int(v0), true)
				m.deletedVertices++
			} else {
				m.setOutgoing(v0, next0)
			}
		}
		if m.OutgoingHalfedge(v1) == h0 {
			if next1 == h0 {
				m.vdeleted.SetAt(int(v1), true)
				m.deletedVertices++
			} else {
				m.setOutgoing(v1, next1)
			}
		}
	}

	for _, v := range ring {
		if !m.vdeleted.At(int(v)) {
			m.AdjustOutgoing(v)
		}
	}
}

// DeleteVertex deletes every face incident to v and then v itself.
// Deleting an isolated vertex just marks it.
func (m *Mesh) DeleteVertex(v Vertex) {
	if m.vdeleted.At(int(v)) {
		return
	}
	faces := m.VertexFaces(v)
	for _, f := range faces {
		m.DeleteFace(f)
	}
	// not already removed as a side effect of losing its last edge
	if !m.vdeleted.At(int(v)) {
		m.vdeleted.SetAt(int(v), true)
		m.deletedVertices++
		m.garbage = true
	}
}
