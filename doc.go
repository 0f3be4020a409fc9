// Package lamina is a toolkit for building and repairing polygonal surface
// meshes. The core is a half-edge mesh (pkg/surface) with attribute arrays
// that grow and shrink with the elements they describe (pkg/props), and a
// manifold builder (pkg/manifold) that turns arbitrary triangle soup into a
// valid half-edge surface by merging, copying and splitting vertices as
// needed.
//
// On top of the kernel sit converters and queries: pkg/surfacer meshes
// signed distance fields via marching cubes, pkg/intersect finds
// self-intersecting face pairs, pkg/pick maps screen pixels and rays back
// to mesh elements, and pkg/manip provides camera and trackball math for
// interactive viewers.
//
// The root package only carries the shared logger. Call SetLogger to route
// library logs into the host application; by default everything is
// discarded.
package lamina
