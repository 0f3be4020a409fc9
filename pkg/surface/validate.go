package surface

import "fmt"

// DefectSeverity indicates whether a finding breaks the half-edge structure
// or merely flags suspicious geometry.
type DefectSeverity int

const (
	DefectError   DefectSeverity = iota // structure is broken
	DefectWarning                       // advisory
)

func (s DefectSeverity) String() string {
	switch s {
	case DefectError:
		return "error"
	case DefectWarning:
		return "warning"
	default:
		return fmt.Sprintf("DefectSeverity(%d)", int(s))
	}
}

// Defect describes a single finding of Validate.
type Defect struct {
	Element  string // "vertex", "halfedge", "edge", "face" or "mesh"
	Index    int    // handle value, -1 for mesh-level findings
	Message  string
	Severity DefectSeverity
}

func (d Defect) Error() string {
	if d.Index < 0 {
		return fmt.Sprintf("[%s] %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("[%s] %s %d: %s", d.Severity, d.Element, d.Index, d.Message)
}

// Validate checks the half-edge invariants and returns all findings. An
// empty result means the mesh is structurally sound. Deleted elements are
// skipped; run it after CollectGarbage for a full audit. Validate never
// mutates the mesh.
func (m *Mesh) Validate() []Defect {
	var defects []Defect
	defects = append(defects, m.checkSizes()...)
	defects = append(defects, m.checkHalfedges()...)
	defects = append(defects, m.checkFaces()...)
	defects = append(defects, m.checkVertices()...)
	return defects
}

func (m *Mesh) checkSizes() []Defect {
	var defects []Defect
	if m.halfedgesSize() != 2*m.edgesSize() {
		defects = append(defects, Defect{
			Element:  "mesh",
			Index:    -1,
			Message:  fmt.Sprintf("%d halfedges for %d edges, want exactly two per edge", m.halfedgesSize(), m.edgesSize()),
			Severity: DefectError,
		})
	}
	return defects
}

func (m *Mesh) checkHalfedges() []Defect {
	var defects []Defect
	bad := func(h int, format string, args ...any) {
		defects = append(defects, Defect{
			Element:  "halfedge",
			Index:    h,
			Message:  fmt.Sprintf(format, args...),
			Severity: DefectError,
		})
	}

	for i := 0; i < m.halfedgesSize(); i++ {
		if m.edeleted.At(i >> 1) {
			continue
		}
		h := Halfedge(i)

		v := m.ToVertex(h)
		if !v.Valid() || int(v) >= m.verticesSize() {
			bad(i, "target vertex %v out of range", v)
			continue
		}
		if m.vdeleted.At(int(v)) {
			bad(i, "target vertex %v is deleted", v)
		}

		next := m.Next(h)
		if !next.Valid() || int(next) >= m.halfedgesSize() {
			bad(i, "next halfedge %v out of range", next)
			continue
		}
		if m.Prev(next) != h {
			bad(i, "next halfedge %v does not point back", next)
		}
		if m.FaceOf(next) != m.FaceOf(h) {
			bad(i, "next halfedge %v belongs to a different face", next)
		}
		if m.FromVertex(next) != v {
			bad(i, "next halfedge %v does not start at target vertex %v", next, v)
		}

		if f := m.FaceOf(h); f.Valid() {
			if int(f) >= m.facesSize() {
				bad(i, "face %v out of range", f)
			} else if m.fdeleted.At(int(f)) {
				bad(i, "face %v is deleted", f)
			}
		}
	}
	return defects
}

func (m *Mesh) checkFaces() []Defect {
	var defects []Defect
	for i := 0; i < m.facesSize(); i++ {
		if m.fdeleted.At(i) {
			continue
		}
		f := Face(i)

		anchor := m.AnchorHalfedge(f)
		if !anchor.Valid() || int(anchor) >= m.halfedgesSize() {
			defects = append(defects, Defect{
				Element:  "face",
				Index:    i,
				Message:  fmt.Sprintf("anchor halfedge %v out of range", anchor),
				Severity: DefectError,
			})
			continue
		}
		if m.FaceOf(anchor) != f {
			defects = append(defects, Defect{
				Element:  "face",
				Index:    i,
				Message:  fmt.Sprintf("anchor halfedge %v belongs to face %v", anchor, m.FaceOf(anchor)),
				Severity: DefectError,
			})
			continue
		}

		// loop must close within the halfedge count
		n := 0
		h := anchor
		closed := false
		for n <= m.halfedgesSize() {
			n++
			h = m.Next(h)
			if h == anchor {
				closed = true
				break
			}
		}
		if !closed {
			defects = append(defects, Defect{
				Element:  "face",
				Index:    i,
				Message:  "halfedge loop does not close",
				Severity: DefectError,
			})
			continue
		}
		if n < 3 {
			defects = append(defects, Defect{
				Element:  "face",
				Index:    i,
				Message:  fmt.Sprintf("loop has only %d halfedges", n),
				Severity: DefectError,
			})
		}
	}
	return defects
}

func (m *Mesh) checkVertices() []Defect {
	var defects []Defect
	bad := func(v int, severity DefectSeverity, format string, args ...any) {
		defects = append(defects, Defect{
			Element:  "vertex",
			Index:    v,
			Message:  fmt.Sprintf(format, args...),
			Severity: severity,
		})
	}

	for i := 0; i < m.verticesSize(); i++ {
		if m.vdeleted.At(i) {
			continue
		}
		v := Vertex(i)

		h := m.OutgoingHalfedge(v)
		if !h.Valid() {
			continue // isolated is legal
		}
		if int(h) >= m.halfedgesSize() {
			bad(i, DefectError, "outgoing halfedge %v out of range", h)
			continue
		}
		if m.edeleted.At(int(h) >> 1) {
			bad(i, DefectError, "outgoing halfedge %v is deleted", h)
			continue
		}
		if m.FromVertex(h) != v {
			bad(i, DefectError, "outgoing halfedge %v starts at %v", h, m.FromVertex(h))
			continue
		}

		// the fan walk must close, and if it crosses a boundary the stored
		// outgoing halfedge must be a boundary one
		n := 0
		sawBoundary := false
		cur := h
		closed := false
		for n <= m.halfedgesSize() {
			n++
			if m.IsBoundaryHalfedge(cur) {
				sawBoundary = true
			}
			cur = m.NextAroundVertex(cur)
			if cur == h {
				closed = true
				break
			}
		}
		if !closed {
			bad(i, DefectError, "fan walk does not close")
			continue
		}
		if sawBoundary && !m.IsBoundaryHalfedge(h) {
			bad(i, DefectWarning, "on a boundary but outgoing halfedge %v is interior", h)
		}
	}
	return defects
}
