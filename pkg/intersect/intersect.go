// Package intersect detects self-intersections of a surface mesh. An
// r-tree over face bounding boxes narrows the search to overlapping
// candidates; exact triangle-triangle tests confirm them. Faces sharing
// a vertex are adjacent by construction and never reported.
package intersect

import (
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/lamina3d/lamina"
	"github.com/lamina3d/lamina/pkg/surface"
)

// FacePair is an unordered pair of intersecting faces, stored with the
// lower handle first.
type FacePair struct {
	A, B surface.Face
}

type faceEntry struct {
	face  surface.Face
	verts []surface.Vertex
	tris  [][3]vec3
	rect  rtreego.Rect
}

var _ rtreego.Spatial = (*faceEntry)(nil)

func (e *faceEntry) Bounds() rtreego.Rect { return e.rect }

func newEntry(m *surface.Mesh, f surface.Face, pad float64) (*faceEntry, error) {
	verts := m.FaceVertices(f)
	pts := make([]vec3, len(verts))
	for i, v := range verts {
		p := m.Position(v)
		pts[i] = vec3{float64(p[0]), float64(p[1]), float64(p[2])}
	}

	// fan triangulation, same order the render buffers use
	tris := make([][3]vec3, 0, len(pts)-2)
	for k := 2; k < len(pts); k++ {
		tris = append(tris, [3]vec3{pts[0], pts[k-1], pts[k]})
	}

	min, max := pts[0], pts[0]
	for _, p := range pts[1:] {
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	origin := rtreego.Point{min[0] - pad, min[1] - pad, min[2] - pad}
	lengths := []float64{
		max[0] - min[0] + 2*pad,
		max[1] - min[1] + 2*pad,
		max[2] - min[2] + 2*pad,
	}
	rect, err := rtreego.NewRect(origin, lengths)
	if err != nil {
		return nil, fmt.Errorf("intersect: face %v bounds: %w", f, err)
	}
	return &faceEntry{face: f, verts: verts, tris: tris, rect: rect}, nil
}

func sharesVertex(a, b *faceEntry) bool {
	for _, va := range a.verts {
		for _, vb := range b.verts {
			if va == vb {
				return true
			}
		}
	}
	return false
}

func overlap(a, b *faceEntry) bool {
	for _, ta := range a.tris {
		for _, tb := range b.tris {
			if triTriOverlap(ta[0], ta[1], ta[2], tb[0], tb[1], tb[2]) {
				return true
			}
		}
	}
	return false
}

// Detect returns every pair of non-adjacent faces whose triangles
// intersect, ordered by face handles. Faces with more than three sides
// are fan-triangulated for testing.
func Detect(m *surface.Mesh) ([]FacePair, error) {
	faces := m.Faces()
	if len(faces) < 2 {
		return nil, nil
	}

	bmin, bmax := m.Bounds()
	pad := float64(bmax.Sub(bmin).Len())*1e-6 + 1e-9

	entries := make([]*faceEntry, 0, len(faces))
	tree := rtreego.NewTree(3, 25, 50)
	for _, f := range faces {
		e, err := newEntry(m, f, pad)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
		tree.Insert(e)
	}

	var pairs []FacePair
	tested := 0
	for _, e := range entries {
		for _, hit := range tree.SearchIntersect(e.rect) {
			o := hit.(*faceEntry)
			if o.face <= e.face || sharesVertex(e, o) {
				continue
			}
			tested++
			if overlap(e, o) {
				pairs = append(pairs, FacePair{A: e.face, B: o.face})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})

	lamina.Logger().Debug("intersect: detection finished",
		"faces", len(faces), "candidates", tested, "pairs", len(pairs))
	return pairs, nil
}
