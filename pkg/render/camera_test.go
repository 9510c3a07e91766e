package render

import (
	"math"
	"testing"

	"github.com/taigrr/ott/pkg/math3d"
)

func TestCameraViewingPlaneSize(t *testing.T) {
	tests := []struct {
		name         string
		fov, l, asp  float64
		wantW, wantH float64
	}{
		{"90 deg unit", math.Pi / 2, 1, 1, 2, 2},
		{"90 deg wide", math.Pi / 2, 1, 2, 2, 1},
		{"60 deg focal 3", math.Pi / 3, 3, 1, 6 * math.Tan(math.Pi/6), 6 * math.Tan(math.Pi/6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera()
			c.SetFOV(tt.fov)
			c.SetFocalLength(tt.l)
			c.SetAspectRatio(tt.asp)
			w, h := c.PlaneSize()
			if math.Abs(w-tt.wantW) > 1e-12 || math.Abs(h-tt.wantH) > 1e-12 {
				t.Errorf("PlaneSize() = %v,%v want %v,%v", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

// Every mutator must leave the viewing plane at position + forward*L.
func TestCameraViewingPlaneFollowsPose(t *testing.T) {
	mutators := []struct {
		name string
		fn   func(c *Camera)
	}{
		{"SetPosition", func(c *Camera) { c.SetPosition(math3d.V3(1, 2, 3)) }},
		{"Move", func(c *Camera) { c.Move(math3d.V3(-1, 0, 4)) }},
		{"MoveForward", func(c *Camera) { c.MoveForward(2.5) }},
		{"MoveRight", func(c *Camera) { c.MoveRight(-1) }},
		{"MoveUp", func(c *Camera) { c.MoveUp(0.5) }},
		{"RotateX", func(c *Camera) { c.RotateX(0.3) }},
		{"RotateY", func(c *Camera) { c.RotateY(-0.7) }},
		{"RotateZ", func(c *Camera) { c.RotateZ(1.1) }},
		{"SetRotation", func(c *Camera) { c.SetRotation(0.2, 0.4, 0.1) }},
		{"LookAt", func(c *Camera) { c.LookAt(math3d.V3(5, 1, -2)) }},
		{"SetFocalLength", func(c *Camera) { c.SetFocalLength(4) }},
	}

	for _, m := range mutators {
		t.Run(m.name, func(t *testing.T) {
			c := NewCamera()
			c.SetPosition(math3d.V3(0.5, -0.5, -3))
			c.RotateY(0.25)
			m.fn(c)

			plane := c.ViewingPlane()
			want := c.Position().Add(c.Forward().Scale(c.FocalLength()))
			if !plane.Pos.ApproxEqual(want, 1e-12) {
				t.Errorf("plane.Pos = %v, want %v", plane.Pos, want)
			}
			if !plane.Norm.ApproxEqual(c.Forward(), 1e-12) {
				t.Errorf("plane.Norm = %v, want %v", plane.Norm, c.Forward())
			}
			if !c.Up().Cross(c.Forward()).ApproxEqual(c.Right(), 1e-9) {
				t.Errorf("axes not a left-handed orthonormal basis")
			}
		})
	}
}

func TestCameraLookAt(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math3d.V3(3, 4, -2))
	target := math3d.V3(-1, 0, 5)
	c.LookAt(target)

	want := target.Sub(c.Position()).Normalize()
	if !c.Forward().ApproxEqual(want, 1e-12) {
		t.Errorf("Forward() = %v, want %v", c.Forward(), want)
	}
	if sx, sy, _, ok := c.ProjectPoint(target); !ok || math.Abs(sx) > 1e-9 || math.Abs(sy) > 1e-9 {
		t.Errorf("target projects to %v,%v ok=%v, want screen center", sx, sy, ok)
	}
}

func TestProjectPointRoundTrip(t *testing.T) {
	poses := []struct {
		name   string
		pos    math3d.Vec3
		rot    math3d.Mat3
		fov    float64
		focal  float64
		aspect float64
	}{
		{"default", math3d.V3(0, 0, -5), math3d.Mat3Identity(), math.Pi / 2, 1, 1},
		{"wide", math3d.V3(1, 2, 3), math3d.Mat3FromEuler(0.3, -0.8, 0.1), math.Pi / 3, 2, 16.0 / 9},
		{"tall", math3d.V3(-4, 0, 1), math3d.Mat3RotateY(math.Pi), 1.2, 0.5, 0.5},
	}
	ndc := [][2]float64{{0, 0}, {0.5, -0.5}, {-1, 1}, {1, -1}, {0.123, 0.987}, {-0.75, 0.25}}

	for _, p := range poses {
		c := NewCamera()
		c.SetFOV(p.fov)
		c.SetFocalLength(p.focal)
		c.SetAspectRatio(p.aspect)
		c.SetPosition(p.pos)
		c.SetOrientation(p.rot)
		w, h := c.PlaneSize()
		plane := c.ViewingPlane()

		for _, s := range ndc {
			onPlane := plane.Pos.
				Add(c.Right().Scale(s[0] * w / 2)).
				Add(c.Up().Scale(s[1] * h / 2))

			sx, sy, z, ok := c.ProjectPoint(onPlane)
			if !ok {
				t.Fatalf("%s: ProjectPoint(%v) failed", p.name, onPlane)
			}
			if math.Abs(sx-s[0]) > 1e-4 || math.Abs(sy-s[1]) > 1e-4 {
				t.Errorf("%s: got (%v,%v), want (%v,%v)", p.name, sx, sy, s[0], s[1])
			}
			if math.Abs(z-p.focal) > 1e-9 {
				t.Errorf("%s: z = %v, want focal length %v", p.name, z, p.focal)
			}

			// anything further along the same line of sight lands on the same spot
			far := p.pos.Add(onPlane.Sub(p.pos).Scale(7))
			fx, fy, _, ok := c.ProjectPoint(far)
			if !ok || math.Abs(fx-s[0]) > 1e-4 || math.Abs(fy-s[1]) > 1e-4 {
				t.Errorf("%s: far point got (%v,%v) ok=%v, want (%v,%v)", p.name, fx, fy, ok, s[0], s[1])
			}
		}
	}
}

func TestProjectPointRejects(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math3d.V3(0, 0, -5))

	tests := []struct {
		name string
		p    math3d.Vec3
	}{
		{"behind", math3d.V3(0, 0, -6)},
		{"beside", math3d.V3(3, 0, -5)},
		{"at the eye", math3d.V3(0, 0, -5)},
		{"NaN", math3d.V3(math.NaN(), 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, ok := c.ProjectPoint(tt.p); ok {
				t.Errorf("ProjectPoint(%v) succeeded, want failure", tt.p)
			}
		})
	}
}

// Points between the eye and the near plane still project; a focal length
// shorter than near puts the whole viewing plane there.
func TestProjectPointInsideNearPlane(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math3d.V3(0, 0, -5))
	c.SetFocalLength(0.05)

	w, h := c.PlaneSize()
	p := c.ViewingPlane().Pos.Add(c.Right().Scale(w / 4)).Add(c.Up().Scale(-h / 4))
	sx, sy, z, ok := c.ProjectPoint(p)
	if !ok {
		t.Fatalf("ProjectPoint(%v) failed, z=%v", p, z)
	}
	if math.Abs(sx-0.5) > 1e-4 || math.Abs(sy+0.5) > 1e-4 || math.Abs(z-0.05) > 1e-9 {
		t.Errorf("ProjectPoint = (%v,%v,%v), want (0.5,-0.5,0.05)", sx, sy, z)
	}

	if _, _, _, ok := c.ProjectPoint(math3d.V3(0, 0, -4.99)); !ok {
		t.Error("point 0.01 ahead of the eye rejected")
	}
}

func TestToPixel(t *testing.T) {
	tests := []struct {
		sx, sy, px, py float64
	}{
		{-1, 1, 0, 0},
		{1, -1, 80, 40},
		{0, 0, 40, 20},
	}
	for _, tt := range tests {
		px, py := ToPixel(tt.sx, tt.sy, 80, 40)
		if px != tt.px || py != tt.py {
			t.Errorf("ToPixel(%v,%v) = %v,%v want %v,%v", tt.sx, tt.sy, px, py, tt.px, tt.py)
		}
	}
}

func TestCheckCullingSymmetry(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math3d.V3(0, 0, -5))

	tr := IdentityTransform()
	a := NewVertex(math3d.V3(-1, -1, 0), math3d.Vec3{}, math3d.Vec2{}, &tr)
	b := NewVertex(math3d.V3(0, 1, 0), math3d.Vec3{}, math3d.Vec2{}, &tr)
	d := NewVertex(math3d.V3(1, -1, 0), math3d.Vec3{}, math3d.Vec2{}, &tr)

	front, err := NewPolygon(a, b, d)
	if err != nil {
		t.Fatal(err)
	}
	back, err := NewPolygon(a, d, b)
	if err != nil {
		t.Fatal(err)
	}

	if !c.CheckCulling(front) {
		t.Errorf("clockwise-on-screen triangle should face the camera (normal %v)", front.Normal())
	}
	if c.CheckCulling(back) {
		t.Errorf("reversed winding should face away (normal %v)", back.Normal())
	}
}

func TestProjectVertex(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math3d.V3(0, 0, -5))
	v := NewVertex(math3d.V3(0, 0, 0), math3d.Vec3{}, math3d.Vec2{}, nil)

	if !c.ProjectVertex(v, 100, 50) {
		t.Fatal("vertex in front of camera not visible")
	}
	if v.Proj.PX != 50 || v.Proj.PY != 25 || v.Proj.Z != 5 {
		t.Errorf("Proj = %+v, want center pixel at depth 5", v.Proj)
	}

	c.SetPosition(math3d.V3(0, 0, 5))
	if c.ProjectVertex(v, 100, 50) || v.Proj.Visible {
		t.Errorf("vertex behind camera reported visible")
	}
}
