package manip

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lamina3d/lamina/pkg/pick"
)

// ProjectionKind selects the camera projection.
type ProjectionKind int

const (
	Perspective ProjectionKind = iota
	Orthographic
)

// Clipping planes are placed around a sphere of SceneRadius at
// SceneCenter; zClipCoef fits the sphere in the frustum and zNearCoef
// keeps the near plane positive when the camera enters the sphere.
const (
	zClipCoef = 1.732
	zNearCoef = 0.005
)

// Camera is a viewing frame plus projection parameters. The frame's -Z
// axis is the view direction and +Y its up direction. Pixel coordinates
// have their origin at the top-left of the viewport.
type Camera struct {
	Frame       Frame
	Kind        ProjectionKind
	FOV         float32 // vertical field of view, radians
	Width       int     // viewport width, pixels
	Height      int     // viewport height, pixels
	SceneCenter mgl32.Vec3
	SceneRadius float32
}

// NewCamera returns a perspective camera at (0, 0, 3) looking down -Z at
// a unit scene around the origin.
func NewCamera(width, height int) *Camera {
	return &Camera{
		Frame:       Frame{Position: mgl32.Vec3{0, 0, 3}, Orientation: mgl32.QuatIdent()},
		Kind:        Perspective,
		FOV:         math32.Pi / 4,
		Width:       width,
		Height:      height,
		SceneRadius: 1,
	}
}

// ViewDirection returns the world-space direction the camera looks along.
func (c *Camera) ViewDirection() mgl32.Vec3 {
	return c.Frame.InverseTransformOf(mgl32.Vec3{0, 0, -1})
}

// UpVector returns the world-space up direction of the camera.
func (c *Camera) UpVector() mgl32.Vec3 {
	return c.Frame.InverseTransformOf(mgl32.Vec3{0, 1, 0})
}

// RightVector returns the world-space right direction of the camera.
func (c *Camera) RightVector() mgl32.Vec3 {
	return c.Frame.InverseTransformOf(mgl32.Vec3{1, 0, 0})
}

// Aspect returns width over height.
func (c *Camera) Aspect() float32 {
	return float32(c.Width) / float32(c.Height)
}

// DistanceToSceneCenter returns the distance from the camera to the
// scene center.
func (c *Camera) DistanceToSceneCenter() float32 {
	return c.Frame.Position.Sub(c.SceneCenter).Len()
}

// ZNear returns the near clipping distance.
func (c *Camera) ZNear() float32 {
	z := c.DistanceToSceneCenter() - zClipCoef*c.SceneRadius
	if min := zNearCoef * zClipCoef * c.SceneRadius; z < min {
		z = min
	}
	return z
}

// ZFar returns the far clipping distance.
func (c *Camera) ZFar() float32 {
	return c.DistanceToSceneCenter() + zClipCoef*c.SceneRadius
}

// OrthoWidthHeight returns the half extents of the orthographic view
// volume, derived from the fov and the scene distance so that switching
// projections keeps the scene at a similar apparent size.
func (c *Camera) OrthoWidthHeight() (w, h float32) {
	h = c.DistanceToSceneCenter() * math32.Tan(c.FOV/2)
	w = h * c.Aspect()
	return w, h
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	eye := c.Frame.Position
	return mgl32.LookAtV(eye, eye.Add(c.ViewDirection()), c.UpVector())
}

// ProjectionMatrix returns the camera-to-clip transform.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	if c.Kind == Orthographic {
		w, h := c.OrthoWidthHeight()
		return mgl32.Ortho(-w, w, -h, h, c.ZNear(), c.ZFar())
	}
	return mgl32.Perspective(c.FOV, c.Aspect(), c.ZNear(), c.ZFar())
}

// ProjectedCoordinatesOf maps a world point to pixel coordinates. Z is
// the window depth in [0, 1].
func (c *Camera) ProjectedCoordinatesOf(p mgl32.Vec3) mgl32.Vec3 {
	win := mgl32.Project(p, c.ViewMatrix(), c.ProjectionMatrix(), 0, 0, c.Width, c.Height)
	return mgl32.Vec3{win.X(), float32(c.Height) - win.Y(), win.Z()}
}

// UnprojectedCoordinatesOf maps pixel coordinates plus window depth back
// to a world point.
func (c *Camera) UnprojectedCoordinatesOf(p mgl32.Vec3) (mgl32.Vec3, error) {
	win := mgl32.Vec3{p.X(), float32(c.Height) - p.Y(), p.Z()}
	obj, err := mgl32.UnProject(win, c.ViewMatrix(), c.ProjectionMatrix(), 0, 0, c.Width, c.Height)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("manip: unproject (%g, %g): %w", p.X(), p.Y(), err)
	}
	return obj, nil
}

// PixelRay returns the world-space ray under a pixel for CPU picking.
func (c *Camera) PixelRay(x, y float32) (pick.Ray, error) {
	near, err := c.UnprojectedCoordinatesOf(mgl32.Vec3{x, y, 0})
	if err != nil {
		return pick.Ray{}, err
	}
	if c.Kind == Orthographic {
		return pick.Ray{Origin: near, Dir: c.ViewDirection()}, nil
	}
	origin := c.Frame.Position
	return pick.Ray{Origin: origin, Dir: near.Sub(origin).Normalize()}, nil
}
