package surface

// CopyVertex adds a new isolated vertex carrying all vertex properties of
// v, including its position, but none of its connectivity.
func (m *Mesh) CopyVertex(v Vertex) Vertex {
	c := m.newVertex()
	m.vprops.CopySlot(int(v), int(c))
	m.setOutgoing(c, InvalidHalfedge)
	return c
}

// SplitNonManifoldVertex checks whether the fan of v falls apart into more
// than one face sector, i.e. whether rotating around v crosses more than
// one boundary gap. If so, one sector stays on v and every other sector is
// moved onto a fresh copy of v, turning a pinch point like the middle of a
// bowtie into separate manifold vertices. The created copies are returned;
// nil means v was fine.
func (m *Mesh) SplitNonManifoldVertex(v Vertex) []Vertex {
	m.AdjustOutgoing(v)
	start := m.OutgoingHalfedge(v)
	if !start.Valid() || !m.IsBoundaryHalfedge(start) {
		// isolated, or a single closed fan
		return nil
	}

	// walk the rotation orbit once, beginning just after start so the
	// orbit ends on a boundary halfedge
	var orbit []Halfedge
	for h := m.NextAroundVertex(start); ; h = m.NextAroundVertex(h) {
		orbit = append(orbit, h)
		if h == start {
			break
		}
	}

	// Cut into sectors after each boundary halfedge. A sector is one face
	// wedge plus the boundary halfedge closing it; the boundary halfedge
	// opening the wedge is the opposite of the sector's first element.
	var sectors [][]Halfedge
	var cur []Halfedge
	for _, h := range orbit {
		cur = append(cur, h)
		if m.IsBoundaryHalfedge(h) {
			sectors = append(sectors, cur)
			cur = nil
		}
	}
	if len(sectors) <= 1 {
		return nil
	}

	// the last sector contains start and keeps v
	var created []Vertex
	for _, sec := range sectors[:len(sectors)-1] {
		cv := m.CopyVertex(v)
		for _, h := range sec {
			m.setVertex(m.Opposite(h), cv)
		}
		gap := sec[len(sec)-1]
		m.setOutgoing(cv, gap)
		// close the sector's boundary through its own gap
		m.setNext(m.Opposite(sec[0]), gap)
		created = append(created, cv)
	}
	keep := sectors[len(sectors)-1]
	m.setNext(m.Opposite(keep[0]), keep[len(keep)-1])
	m.setOutgoing(v, keep[len(keep)-1])

	return created
}
