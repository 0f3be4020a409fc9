package manip

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// wheelCoef matches one wheel notch to a short zoom drag.
const wheelCoef = 0.1

// ManipulatedFrame is a frame driven by pointer movement: dragging spins
// it on a deformed trackball, slides it parallel to the screen, or moves
// it along the view axis. Inputs are pixel coordinates with the origin at
// the top-left, matching Camera.ProjectedCoordinatesOf; the frame never
// sees events.
type ManipulatedFrame struct {
	Frame

	RotationSensitivity    float32
	TranslationSensitivity float32
	WheelSensitivity       float32
	ZoomSensitivity        float32
}

// NewManipulatedFrame returns an identity frame with unit sensitivities.
func NewManipulatedFrame() *ManipulatedFrame {
	return &ManipulatedFrame{
		Frame:                  Frame{Orientation: mgl32.QuatIdent()},
		RotationSensitivity:    1,
		TranslationSensitivity: 1,
		WheelSensitivity:       1,
		ZoomSensitivity:        1,
	}
}

// projectOnBall lifts (x, y) onto a unit trackball that blends into a
// hyperbolic sheet away from the center, so the grab point never leaves
// the surface.
func projectOnBall(x, y float32) float32 {
	const size = 1.0
	const size2 = size * size
	const limit = size2 * 0.5
	d := x*x + y*y
	if d < limit {
		return math32.Sqrt(size2 - d)
	}
	return limit / math32.Sqrt(d)
}

// deformedBallQuaternion returns the camera-space rotation between two
// pointer positions, relative to the screen point (cx, cy).
func (f *ManipulatedFrame) deformedBallQuaternion(x, y, prevX, prevY, cx, cy float32, cam *Camera) mgl32.Quat {
	w := float32(cam.Width)
	h := float32(cam.Height)
	px := f.RotationSensitivity * (prevX - cx) / w
	py := f.RotationSensitivity * (cy - prevY) / h
	dx := f.RotationSensitivity * (x - cx) / w
	dy := f.RotationSensitivity * (cy - y) / h

	p1 := mgl32.Vec3{px, py, projectOnBall(px, py)}
	p2 := mgl32.Vec3{dx, dy, projectOnBall(dx, dy)}
	axis := p2.Cross(p1)
	l1 := p1.Dot(p1)
	l2 := p2.Dot(p2)
	a2 := axis.Dot(axis)
	if l1 == 0 || l2 == 0 || a2 == 0 {
		return mgl32.QuatIdent()
	}
	arg := math32.Sqrt(a2 / l1 / l2)
	if arg > 1 {
		arg = 1
	}
	angle := 5 * math32.Asin(arg)
	return mgl32.QuatRotate(angle, axis.Normalize())
}

// RotateTrackball spins the frame about its own origin following a drag
// from (prevX, prevY) to (x, y).
func (f *ManipulatedFrame) RotateTrackball(x, y, prevX, prevY float32, cam *Camera) {
	center := cam.ProjectedCoordinatesOf(f.Position)
	q := f.deformedBallQuaternion(x, y, prevX, prevY, center.X(), center.Y(), cam)
	// bring the camera-space axis into the frame, reversed so the frame
	// follows the pointer
	v := mgl32.Vec3{-q.V.X(), -q.V.Y(), -q.V.Z()}
	v = cam.Frame.Orientation.Rotate(v)
	v = f.TransformOf(v)
	f.Rotate(mgl32.Quat{W: q.W, V: v})
}

// TranslateScreen slides the frame parallel to the screen by a pixel
// delta, scaled so the dragged point stays under the pointer.
func (f *ManipulatedFrame) TranslateScreen(dx, dy float32, cam *Camera) {
	trans := mgl32.Vec3{dx, -dy, 0}
	switch cam.Kind {
	case Orthographic:
		w, h := cam.OrthoWidthHeight()
		trans[0] *= 2 * w / float32(cam.Width)
		trans[1] *= 2 * h / float32(cam.Height)
	default:
		z := cam.Frame.CoordinatesOf(f.Position).Z()
		scale := 2 * math32.Tan(cam.FOV/2) * math32.Abs(z) / float32(cam.Height)
		trans = trans.Mul(scale)
	}
	f.Translate(cam.Frame.Orientation.Rotate(trans.Mul(f.TranslationSensitivity)))
}

// Zoom moves the frame along the camera's view axis, scaled by their
// distance. Positive deltas bring it closer; delta is typically the
// pointer's vertical motion divided by the viewport height.
func (f *ManipulatedFrame) Zoom(delta float32, cam *Camera) {
	dist := cam.Frame.Position.Sub(f.Position).Len()
	trans := mgl32.Vec3{0, 0, dist * delta * f.ZoomSensitivity}
	f.Translate(cam.Frame.Orientation.Rotate(trans))
}

// WheelZoom applies one wheel step, scaled like Zoom.
func (f *ManipulatedFrame) WheelZoom(dy float32, cam *Camera) {
	dist := cam.Frame.Position.Sub(f.Position).Len()
	trans := mgl32.Vec3{0, 0, wheelCoef * dist * dy * f.WheelSensitivity}
	f.Translate(cam.Frame.Orientation.Rotate(trans))
}

// RotateScreen spins the frame about the view axis by the pointer's
// angle change around the frame's projected center.
func (f *ManipulatedFrame) RotateScreen(x, y, prevX, prevY float32, cam *Camera) {
	center := cam.ProjectedCoordinatesOf(f.Position)
	prev := math32.Atan2(prevY-center.Y(), prevX-center.X())
	cur := math32.Atan2(y-center.Y(), x-center.X())
	axis := f.TransformOf(cam.Frame.InverseTransformOf(mgl32.Vec3{0, 0, -1}))
	f.Rotate(mgl32.QuatRotate(cur-prev, axis))
}
