// Package surfacer builds half-edge surface meshes from signed-distance
// fields. Marching cubes (github.com/deadsy/sdfx) produces a triangle
// soup with fully duplicated corners; the manifold builder merges the
// soup into a connected mesh and reports what it had to repair.
package surfacer

import (
	"errors"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lamina3d/lamina/pkg/manifold"
	"github.com/lamina3d/lamina/pkg/surface"
)

// DefaultCells is the marching cubes resolution used when Options.Cells
// is unset.
const DefaultCells = 100

// Options configure surfacing. A nil Options selects the defaults.
type Options struct {
	// Cells is the marching cubes grid resolution.
	Cells int
	// Epsilon is the vertex merge tolerance handed to the manifold
	// builder. Zero merges exactly coincident corners, which is what
	// marching cubes emits.
	Epsilon float32
}

func (o *Options) cells() int {
	if o == nil || o.Cells <= 0 {
		return DefaultCells
	}
	return o.Cells
}

func (o *Options) epsilon() float32 {
	if o == nil {
		return 0
	}
	return o.Epsilon
}

// FromSDF evaluates s with marching cubes and assembles the triangles
// into a surface mesh.
func FromSDF(s sdf.SDF3, opts *Options) (*surface.Mesh, *manifold.Result, error) {
	renderer := render.NewMarchingCubesUniform(opts.cells())
	tris := render.ToTriangles(s, renderer)
	if len(tris) == 0 {
		return nil, nil, errors.New("surfacer: marching cubes produced no triangles")
	}
	return FromTriangles(tris, opts)
}

// FromTriangles assembles an already rendered triangle soup into a
// surface mesh.
func FromTriangles(tris []*sdf.Triangle3, opts *Options) (*surface.Mesh, *manifold.Result, error) {
	b := manifold.NewBuilder(&manifold.Options{Epsilon: opts.epsilon()})
	for _, tri := range tris {
		var idx [3]int
		for j := 0; j < 3; j++ {
			idx[j] = b.AddVertex(mgl32.Vec3{
				float32(tri[j].X),
				float32(tri[j].Y),
				float32(tri[j].Z),
			})
		}
		if err := b.AddFace(idx[0], idx[1], idx[2]); err != nil {
			return nil, nil, err
		}
	}
	return b.Finish()
}
