// Package manifold assembles half-edge surface meshes from indexed face
// soup that may be dirty: duplicated positions, degenerate faces, edges
// shared by more than two faces, and pinch vertices joining otherwise
// separate fans.
//
// The builder merges coincident input vertices, drops faces that cannot
// form a polygon, and resolves non-manifold attachments by copying the
// offending vertices so every face finds a locally manifold neighborhood.
// Pinch vertices that remain after all faces are in (for example the
// middle of a bowtie) are split during Finish. The output is always a
// valid half-edge mesh; the Result says how far the input was from one.
package manifold

import (
	"errors"
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lamina3d/lamina"
	"github.com/lamina3d/lamina/pkg/surface"
)

// ErrIndexRange is returned when a face references a vertex index that was
// never added. This is the only input problem the builder treats as fatal.
var ErrIndexRange = errors.New("vertex index out of range")

// Options configure a Builder.
type Options struct {
	// Epsilon merges input vertices closer than this distance. Zero, the
	// default, merges exactly coincident positions only.
	Epsilon float32
}

// Result reports what the builder had to do to turn the input into a
// manifold surface. Indexed soup normally shares corners, so merges alone
// do not mean the input was dirty; copies and dropped faces do.
type Result struct {
	InputVertices int // vertices passed to AddVertex
	InputFaces    int // faces passed to AddFace
	AddedFaces    int // faces that made it into the mesh

	MergedVertices      int // inputs merged into an earlier coincident vertex
	CopiedVertices      int // copies created to pull apart non-manifold attachments
	NonManifoldVertices int // distinct vertices that required copies
	DroppedFaces        int // degenerate faces left out
}

// Clean reports whether the input needed no repairs. Merging coincident
// corners is the expected dedup step and does not count against it.
func (r *Result) Clean() bool {
	return r.CopiedVertices == 0 && r.DroppedFaces == 0
}

type gridKey struct{ x, y, z int32 }

// Builder accumulates vertices and faces and produces a manifold mesh.
// Use NewBuilder, feed AddVertex and AddFace, then call Finish exactly
// once. Build wraps the three steps for slice input.
type Builder struct {
	opts Options
	mesh *surface.Mesh

	verts []surface.Vertex // input index -> merged mesh vertex

	exact  map[mgl32.Vec3]surface.Vertex     // dedup with Epsilon == 0
	grid   map[gridKey][]surface.Vertex      // dedup cells with Epsilon > 0
	origin map[surface.Vertex]surface.Vertex // copy -> source vertex
	sites  map[surface.Vertex]struct{}       // sources that needed copies

	res  Result
	err  error
	done bool
}

// NewBuilder returns a builder for an empty mesh. A nil opts selects the
// defaults.
func NewBuilder(opts *Options) *Builder {
	b := &Builder{
		mesh:   surface.New(),
		origin: make(map[surface.Vertex]surface.Vertex),
		sites:  make(map[surface.Vertex]struct{}),
	}
	if opts != nil {
		b.opts = *opts
	}
	if b.opts.Epsilon > 0 {
		b.grid = make(map[gridKey][]surface.Vertex)
	} else {
		b.exact = make(map[mgl32.Vec3]surface.Vertex)
	}
	return b
}

// Build assembles a mesh from position and face slices. Face entries index
// into positions. It fails only on out-of-range indices or reuse of a
// finished builder; everything else is repaired and reported in Result.
func Build(positions []mgl32.Vec3, faces [][]int, opts *Options) (*surface.Mesh, *Result, error) {
	b := NewBuilder(opts)
	for _, p := range positions {
		b.AddVertex(p)
	}
	for _, f := range faces {
		if err := b.AddFace(f...); err != nil {
			return nil, nil, err
		}
	}
	return b.Finish()
}

// AddVertex registers one input vertex and returns its input index for use
// in AddFace. Coincident positions (within Epsilon) share one mesh vertex.
func (b *Builder) AddVertex(p mgl32.Vec3) int {
	b.res.InputVertices++
	if v, ok := b.lookup(p); ok {
		b.res.MergedVertices++
		b.verts = append(b.verts, v)
		return len(b.verts) - 1
	}
	v := b.mesh.AddVertex(p)
	b.remember(p, v)
	b.verts = append(b.verts, v)
	return len(b.verts) - 1
}

func (b *Builder) cell(p mgl32.Vec3) gridKey {
	e := b.opts.Epsilon
	return gridKey{
		x: cellIndex(p.X() / e),
		y: cellIndex(p.Y() / e),
		z: cellIndex(p.Z() / e),
	}
}

// cellIndex floors a scaled coordinate into a grid index. Coordinates far
// enough from the origin to leave int32 range clamp to the boundary cell;
// the conversion itself is unspecified out of range.
func cellIndex(f float32) int32 {
	f = math32.Floor(f)
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	if f <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(f)
}

func (b *Builder) lookup(p mgl32.Vec3) (surface.Vertex, bool) {
	if b.exact != nil {
		v, ok := b.exact[p]
		return v, ok
	}
	e2 := b.opts.Epsilon * b.opts.Epsilon
	c := b.cell(p)
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				for _, v := range b.grid[gridKey{c.x + dx, c.y + dy, c.z + dz}] {
					d := p.Sub(b.mesh.Position(v))
					if d.Dot(d) <= e2 {
						return v, true
					}
				}
			}
		}
	}
	return surface.InvalidVertex, false
}

func (b *Builder) remember(p mgl32.Vec3, v surface.Vertex) {
	if b.exact != nil {
		b.exact[p] = v
		return
	}
	c := b.cell(p)
	b.grid[c] = append(b.grid[c], v)
}

// copyVertex duplicates v so a face can attach to a fresh, unconnected
// stand-in. Tracking runs back to the first source so chains of copies
// count one non-manifold site.
func (b *Builder) copyVertex(v surface.Vertex) surface.Vertex {
	src := v
	if o, ok := b.origin[v]; ok {
		src = o
	}
	c := b.mesh.CopyVertex(v)
	b.origin[c] = src
	b.sites[src] = struct{}{}
	b.res.CopiedVertices++
	return c
}

func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return err
}

// AddFace registers one face as a cycle of input indices, repairing
// non-manifold attachments as needed. Degenerate faces (fewer than three
// distinct vertices after merging, or a repeated vertex) are counted and
// skipped without error. An out-of-range index is fatal: the error is
// returned and the builder refuses further work.
func (b *Builder) AddFace(indices ...int) error {
	if b.err != nil {
		return b.err
	}
	if b.done {
		return b.fail(errors.New("manifold: builder already finished"))
	}
	faceNo := b.res.InputFaces
	b.res.InputFaces++

	corners := make([]surface.Vertex, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(b.verts) {
			return b.fail(fmt.Errorf("manifold: face %d references vertex %d of %d: %w",
				faceNo, idx, len(b.verts), ErrIndexRange))
		}
		corners[i] = b.verts[idx]
	}

	if degenerate(corners) {
		b.res.DroppedFaces++
		lamina.Logger().Debug("manifold: dropped degenerate face", "face", faceNo, "indices", indices)
		return nil
	}

	// Local repairs. Each face keeps at most one copy per source vertex so
	// its own edges stay connected.
	copied := make(map[surface.Vertex]surface.Vertex)
	fresh := func(v surface.Vertex) surface.Vertex {
		if c, ok := copied[v]; ok {
			return c
		}
		c := b.copyVertex(v)
		copied[v] = c
		return c
	}

	// a closed fan can take no more faces; detach from it
	for i, v := range corners {
		if !b.mesh.IsBoundaryVertex(v) {
			corners[i] = fresh(v)
		}
	}
	// an edge already walked in this direction cannot take this face
	n := len(corners)
	for i := 0; i < n; i++ {
		s, t := corners[i], corners[(i+1)%n]
		h := b.mesh.FindHalfedge(s, t)
		if h.Valid() && !b.mesh.IsBoundaryHalfedge(h) {
			corners[i] = fresh(s)
			corners[(i+1)%n] = fresh(t)
		}
	}

	if _, err := b.mesh.AddFace(corners); err != nil {
		// A boundary tangle the local repairs cannot express. Give the
		// face its own copies of every corner; such a face always inserts.
		detached := make([]surface.Vertex, n)
		for i, v := range corners {
			detached[i] = b.copyVertex(v)
		}
		if _, err := b.mesh.AddFace(detached); err != nil {
			b.res.DroppedFaces++
			lamina.Logger().Warn("manifold: face dropped after failed repair",
				"face", faceNo, "error", err)
			return nil
		}
	}
	b.res.AddedFaces++
	return nil
}

func degenerate(corners []surface.Vertex) bool {
	if len(corners) < 3 {
		return true
	}
	for i := 0; i < len(corners); i++ {
		for j := i + 1; j < len(corners); j++ {
			if corners[i] == corners[j] {
				return true
			}
		}
	}
	return false
}

// Finish splits the pinch vertices that are left, settles boundary links
// and returns the mesh. The builder must not be used afterwards.
func (b *Builder) Finish() (*surface.Mesh, *Result, error) {
	if b.err != nil {
		return nil, nil, b.err
	}
	if b.done {
		return nil, nil, errors.New("manifold: builder already finished")
	}
	b.done = true

	// Faces that met only at a vertex were spliced into multi-fan orbits
	// during insertion; pull those apart now. Copies appended by the split
	// are single-fan by construction and need no revisit.
	for _, v := range b.mesh.Vertices() {
		created := b.mesh.SplitNonManifoldVertex(v)
		if len(created) == 0 {
			continue
		}
		src := v
		if o, ok := b.origin[v]; ok {
			src = o
		}
		b.sites[src] = struct{}{}
		b.res.CopiedVertices += len(created)
		for _, c := range created {
			b.origin[c] = src
		}
	}

	// boundary vertices must expose a boundary halfedge
	for _, v := range b.mesh.Vertices() {
		b.mesh.AdjustOutgoing(v)
	}

	b.res.NonManifoldVertices = len(b.sites)

	log := lamina.Logger()
	log.Debug("manifold: surface assembled",
		"vertices", b.mesh.VertexCount(),
		"edges", b.mesh.EdgeCount(),
		"faces", b.mesh.FaceCount())
	if !b.res.Clean() {
		log.Warn("manifold: input needed repairs",
			"mergedVertices", b.res.MergedVertices,
			"copiedVertices", b.res.CopiedVertices,
			"nonManifoldVertices", b.res.NonManifoldVertices,
			"droppedFaces", b.res.DroppedFaces)
	}

	res := b.res
	return b.mesh, &res, nil
}
