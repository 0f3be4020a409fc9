// Package manip provides the camera-side math of interactive inspection:
// rigid frames, a projective camera, and a manipulated frame that turns
// pointer coordinates into trackball rotations, screen translations and
// zoom. It computes transforms only; event handling belongs to the
// windowing collaborator.
package manip

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Frame is a rigid transform, a rotation followed by a translation.
// Use NewFrame for the identity; the zero value has a zero quaternion.
type Frame struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// NewFrame returns the identity frame.
func NewFrame() *Frame {
	return &Frame{Orientation: mgl32.QuatIdent()}
}

// Translate moves the frame by t in world coordinates.
func (f *Frame) Translate(t mgl32.Vec3) {
	f.Position = f.Position.Add(t)
}

// Rotate composes q onto the orientation in the frame's local space.
func (f *Frame) Rotate(q mgl32.Quat) {
	f.Orientation = f.Orientation.Mul(q).Normalize()
}

// TransformOf maps a world-space vector into frame coordinates.
// Translation does not apply to vectors.
func (f *Frame) TransformOf(v mgl32.Vec3) mgl32.Vec3 {
	return f.Orientation.Inverse().Rotate(v)
}

// InverseTransformOf maps a frame-space vector into world coordinates.
func (f *Frame) InverseTransformOf(v mgl32.Vec3) mgl32.Vec3 {
	return f.Orientation.Rotate(v)
}

// CoordinatesOf maps a world-space point into frame coordinates.
func (f *Frame) CoordinatesOf(p mgl32.Vec3) mgl32.Vec3 {
	return f.Orientation.Inverse().Rotate(p.Sub(f.Position))
}

// InverseCoordinatesOf maps a frame-space point into world coordinates.
func (f *Frame) InverseCoordinatesOf(p mgl32.Vec3) mgl32.Vec3 {
	return f.Orientation.Rotate(p).Add(f.Position)
}

// Matrix returns the frame-to-world transform.
func (f *Frame) Matrix() mgl32.Mat4 {
	p := f.Position
	return mgl32.Translate3D(p.X(), p.Y(), p.Z()).Mul4(f.Orientation.Mat4())
}
