package manip

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestProjectOnBall(t *testing.T) {
	tests := []struct {
		name string
		x, y float32
		want float32
	}{
		{"center", 0, 0, 1},
		{"on the sphere", 0.3, 0.4, math32.Sqrt(0.75)},
		{"beyond the rim", 1, 1, 0.5 / math32.Sqrt2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := projectOnBall(tc.x, tc.y); math32.Abs(got-tc.want) > 1e-6 {
				t.Fatalf("projectOnBall(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestTrackballNoMovement(t *testing.T) {
	f := NewManipulatedFrame()
	cam := testCamera()
	f.RotateTrackball(400, 300, 400, 300, cam)
	if !f.Orientation.ApproxEqualThreshold(mgl32.QuatIdent(), 1e-6) {
		t.Fatalf("orientation changed without movement: %v", f.Orientation)
	}
}

func TestTrackballDragRight(t *testing.T) {
	f := NewManipulatedFrame()
	cam := testCamera()

	// drag 40 px to the right through the screen center
	f.RotateTrackball(440, 300, 400, 300, cam)

	q := f.Orientation
	if math32.Abs(q.V.X()) > 1e-5 || math32.Abs(q.V.Z()) > 1e-5 {
		t.Fatalf("axis = %v, want pure y", q.V)
	}
	if q.V.Y() <= 0 {
		t.Fatalf("axis y = %v, want positive", q.V.Y())
	}
	wantAngle := 5 * math32.Asin(0.05)
	gotAngle := 2 * math32.Acos(q.W)
	if math32.Abs(gotAngle-wantAngle) > 1e-3 {
		t.Fatalf("angle = %v, want %v", gotAngle, wantAngle)
	}
}

func TestTrackballKeepsUnitOrientation(t *testing.T) {
	f := NewManipulatedFrame()
	cam := testCamera()
	pts := [][4]float32{
		{440, 300, 400, 300},
		{440, 340, 440, 300},
		{380, 320, 440, 340},
		{400, 300, 380, 320},
	}
	for _, p := range pts {
		f.RotateTrackball(p[0], p[1], p[2], p[3], cam)
	}
	n := f.Orientation.Len()
	if math32.Abs(n-1) > 1e-4 {
		t.Fatalf("orientation norm = %v, want 1", n)
	}
}

func TestTranslateScreenPerspective(t *testing.T) {
	f := NewManipulatedFrame()
	cam := testCamera()

	f.TranslateScreen(10, 0, cam)
	scale := 2 * math32.Tan(cam.FOV/2) * 3 / float32(cam.Height)
	want := mgl32.Vec3{10 * scale, 0, 0}
	if !f.Position.ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("position = %v, want %v", f.Position, want)
	}

	g := NewManipulatedFrame()
	g.TranslateScreen(0, 10, cam)
	if g.Position.Y() >= 0 {
		t.Fatalf("dragging down should move the frame down, got %v", g.Position)
	}
}

func TestTranslateScreenOrthographic(t *testing.T) {
	f := NewManipulatedFrame()
	cam := testCamera()
	cam.Kind = Orthographic

	f.TranslateScreen(10, 0, cam)
	w, _ := cam.OrthoWidthHeight()
	want := 10 * 2 * w / float32(cam.Width)
	if math32.Abs(f.Position.X()-want) > 1e-5 {
		t.Fatalf("position x = %v, want %v", f.Position.X(), want)
	}
}

func TestTranslateSensitivityScales(t *testing.T) {
	cam := testCamera()
	a := NewManipulatedFrame()
	a.TranslateScreen(10, 0, cam)
	b := NewManipulatedFrame()
	b.TranslationSensitivity = 2
	b.TranslateScreen(10, 0, cam)
	if math32.Abs(b.Position.X()-2*a.Position.X()) > 1e-6 {
		t.Fatalf("sensitivity 2 moved %v, want twice %v", b.Position.X(), a.Position.X())
	}
}

func TestZoomMovesTowardCamera(t *testing.T) {
	f := NewManipulatedFrame()
	cam := testCamera()

	f.Zoom(0.1, cam)
	want := mgl32.Vec3{0, 0, 3 * 0.1}
	if !f.Position.ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("position = %v, want %v", f.Position, want)
	}
}

func TestWheelZoomUsesWheelCoefficient(t *testing.T) {
	f := NewManipulatedFrame()
	cam := testCamera()

	f.WheelZoom(1, cam)
	want := mgl32.Vec3{0, 0, 3 * wheelCoef}
	if !f.Position.ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("position = %v, want %v", f.Position, want)
	}
}

func TestRotateScreenQuarterTurn(t *testing.T) {
	f := NewManipulatedFrame()
	cam := testCamera()

	// pointer moves from right of the center to below it
	f.RotateScreen(400, 310, 410, 300, cam)

	got := f.InverseTransformOf(mgl32.Vec3{1, 0, 0})
	if got.Sub(mgl32.Vec3{0, -1, 0}).Len() > 1e-4 {
		t.Fatalf("rotated x-axis = %v, want {0 -1 0}", got)
	}
}
