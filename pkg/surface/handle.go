package surface

import "fmt"

// Element handles are indices into the mesh's attribute arrays. They stay
// stable across all operations except CollectGarbage, which compacts the
// arrays and reports the renaming through a Remap. The negative sentinels
// mean "no element"; note that the zero value of a handle refers to
// element 0, not to nothing.

// Vertex identifies a vertex of a Mesh.
type Vertex int

// Halfedge identifies one of the two directed sides of an edge.
type Halfedge int

// Edge identifies an undirected edge. Edge e owns halfedges 2e and 2e+1.
type Edge int

// Face identifies a face of a Mesh.
type Face int

const (
	InvalidVertex   Vertex   = -1
	InvalidHalfedge Halfedge = -1
	InvalidEdge     Edge     = -1
	InvalidFace     Face     = -1
)

// Valid reports whether the handle refers to an element.
func (v Vertex) Valid() bool { return v >= 0 }

// Valid reports whether the handle refers to an element.
func (h Halfedge) Valid() bool { return h >= 0 }

// Valid reports whether the handle refers to an element.
func (e Edge) Valid() bool { return e >= 0 }

// Valid reports whether the handle refers to an element.
func (f Face) Valid() bool { return f >= 0 }

func (v Vertex) String() string {
	if !v.Valid() {
		return "V-"
	}
	return fmt.Sprintf("V%d", int(v))
}

func (h Halfedge) String() string {
	if !h.Valid() {
		return "H-"
	}
	return fmt.Sprintf("H%d", int(h))
}

func (e Edge) String() string {
	if !e.Valid() {
		return "E-"
	}
	return fmt.Sprintf("E%d", int(e))
}

func (f Face) String() string {
	if !f.Valid() {
		return "F-"
	}
	return fmt.Sprintf("F%d", int(f))
}
