// Package pointcloud provides an attribute-carrying point set built on
// the same property-store design as the surface mesh, without
// connectivity. Vertices are deleted lazily and compacted on demand.
package pointcloud

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lamina3d/lamina"
	"github.com/lamina3d/lamina/pkg/props"
)

// PositionName is the built-in vertex position property.
const PositionName = "v:point"

// Vertex indexes a point in the cloud. Handles stay stable until
// CollectGarbage renumbers them.
type Vertex int

// InvalidVertex is the sentinel for no vertex.
const InvalidVertex Vertex = -1

// Valid reports whether the handle refers to an element.
func (v Vertex) Valid() bool { return v >= 0 }

// Cloud is a set of points with per-vertex attributes.
type Cloud struct {
	vprops  *props.Set
	point   props.Property[mgl32.Vec3]
	deleted props.Property[bool]

	deletedVertices int
	garbage         bool
}

// New returns an empty point cloud.
func New() *Cloud {
	c := &Cloud{vprops: props.NewSet()}
	c.point = mustAdd(c.vprops, PositionName, mgl32.Vec3{})
	c.deleted = mustAdd(c.vprops, "v:deleted", false)
	return c
}

func mustAdd[T any](s *props.Set, name string, def T) props.Property[T] {
	p, err := props.Add(s, name, def)
	if err != nil {
		panic(err)
	}
	return p
}

// VertexProps exposes the per-vertex property set for user attributes.
// The built-in "v:" properties belong to the cloud and must not be removed.
func (c *Cloud) VertexProps() *props.Set { return c.vprops }

func (c *Cloud) verticesSize() int { return c.vprops.Len() }

// VertexCount returns the number of live vertices.
func (c *Cloud) VertexCount() int { return c.verticesSize() - c.deletedVertices }

// IsEmpty reports whether the cloud has no live vertices.
func (c *Cloud) IsEmpty() bool { return c.VertexCount() == 0 }

// InRange reports whether v indexes an allocated slot, deleted or not.
func (c *Cloud) InRange(v Vertex) bool { return v >= 0 && int(v) < c.verticesSize() }

// IsVertexDeleted reports whether v has been deleted but not yet collected.
func (c *Cloud) IsVertexDeleted(v Vertex) bool { return c.deleted.At(int(v)) }

// HasGarbage reports whether deleted vertices await collection.
func (c *Cloud) HasGarbage() bool { return c.garbage }

// AddVertex appends a vertex at p.
func (c *Cloud) AddVertex(p mgl32.Vec3) Vertex {
	c.vprops.Push()
	v := Vertex(c.verticesSize() - 1)
	c.point.SetAt(int(v), p)
	return v
}

// Position returns the position of v.
func (c *Cloud) Position(v Vertex) mgl32.Vec3 { return c.point.At(int(v)) }

// SetPosition moves v to p.
func (c *Cloud) SetPosition(v Vertex, p mgl32.Vec3) { c.point.SetAt(int(v), p) }

// Positions returns the backing position slice, indexed by vertex handle.
// It contains slots for deleted vertices until CollectGarbage runs.
func (c *Cloud) Positions() []mgl32.Vec3 { return c.point.Data() }

// DeleteVertex marks v deleted. Storage is reclaimed by CollectGarbage.
func (c *Cloud) DeleteVertex(v Vertex) {
	if c.deleted.At(int(v)) {
		return
	}
	c.deleted.SetAt(int(v), true)
	c.deletedVertices++
	c.garbage = true
}

// Vertices returns the live vertices in ascending handle order.
func (c *Cloud) Vertices() []Vertex {
	out := make([]Vertex, 0, c.VertexCount())
	for i := 0; i < c.verticesSize(); i++ {
		if !c.deleted.At(i) {
			out = append(out, Vertex(i))
		}
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the live vertices. An
// empty cloud yields two zero vectors.
func (c *Cloud) Bounds() (min, max mgl32.Vec3) {
	first := true
	for i := 0; i < c.verticesSize(); i++ {
		if c.deleted.At(i) {
			continue
		}
		p := c.point.At(i)
		if first {
			min, max = p, p
			first = false
			continue
		}
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return min, max
}

// Remap records the handle renumbering of a CollectGarbage call.
type Remap struct {
	vertices []Vertex
}

// Vertex translates a pre-collection handle. Deleted vertices map to
// InvalidVertex.
func (r *Remap) Vertex(old Vertex) Vertex {
	if int(old) < 0 || int(old) >= len(r.vertices) {
		return InvalidVertex
	}
	return r.vertices[old]
}

// CollectGarbage compacts storage over the deleted slots, keeping the
// relative order of the survivors, and resizes every vertex property in
// lockstep. Handles held by the caller are stale afterwards; the returned
// remap translates them.
func (c *Cloud) CollectGarbage() *Remap {
	n := c.verticesSize()
	remap := &Remap{vertices: make([]Vertex, n)}
	next := 0
	for i := 0; i < n; i++ {
		if c.deleted.At(i) {
			remap.vertices[i] = InvalidVertex
			continue
		}
		if next != i {
			c.vprops.CopySlot(i, next)
		}
		remap.vertices[i] = Vertex(next)
		next++
	}
	c.vprops.Resize(next)
	c.deletedVertices = 0
	c.garbage = false

	lamina.Logger().Debug("pointcloud: garbage collected",
		"vertices", next, "removed", n-next)
	return remap
}
