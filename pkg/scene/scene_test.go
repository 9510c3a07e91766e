package scene

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/ott/pkg/math3d"
	"github.com/taigrr/ott/pkg/render"
)

func newTestScene(pos math3d.Vec3) *Scene {
	cam := render.NewCamera()
	cam.SetPosition(pos)
	s := New(cam)
	s.AddLight(render.NewAmbientLight("ambient", 1, render.White))
	return s
}

func TestCubeSurvivors(t *testing.T) {
	tests := []struct {
		name     string
		pos      math3d.Vec3
		lookAt   bool
		culling  bool
		want     int
		backface int
	}{
		{"head on", math3d.V3(0, 0, -5), false, true, 2, 10},
		{"corner", math3d.V3(3, 3, -5), true, true, 6, 6},
		{"no culling", math3d.V3(0, 0, -5), false, false, 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene(tt.pos)
			if tt.lookAt {
				s.Camera.LookAt(math3d.Zero3())
			}
			s.Culling = tt.culling
			s.Add(NewCube("cube", 1))

			fb := render.NewFramebuffer(64, 64)
			st := s.Render(fb, render.NewDepthBuffer(1, 1))

			assert.Equal(t, 12, st.Triangles)
			assert.Equal(t, tt.want, st.Rasterized)
			assert.Equal(t, tt.backface, st.BackFaces)
			assert.Zero(t, st.Clipped)
			assert.Positive(t, st.Pixels)
			assert.Equal(t, st, s.Stats())
		})
	}
}

func TestCubeNearCornersOnScreen(t *testing.T) {
	s := newTestScene(math3d.V3(0, 0, -5))
	s.Add(NewCube("cube", 1))
	s.Render(render.NewFramebuffer(32, 32), render.NewDepthBuffer(32, 32))

	for _, x := range []float64{-0.5, 0.5} {
		for _, y := range []float64{-0.5, 0.5} {
			sx, sy, z, ok := s.Camera.ProjectPoint(math3d.V3(x, y, -0.5))
			require.True(t, ok)
			assert.InDelta(t, 4.5, z, 1e-9)
			assert.LessOrEqual(t, math.Abs(sx), 1.0)
			assert.LessOrEqual(t, math.Abs(sy), 1.0)
			assert.InDelta(t, x/4.5, sx, 1e-9)
		}
	}
}

func TestPrimitiveNormalsPointOutward(t *testing.T) {
	for _, o := range []*Object{NewCube("cube", 2), NewSphere("sphere", 1, 8, 12)} {
		t.Run(o.Name, func(t *testing.T) {
			require.NoError(t, o.Build())
			require.NotEmpty(t, o.Polygons())
			for i, p := range o.Polygons() {
				assert.Positive(t, p.Normal().Dot(p.Center()), "polygon %d faces inward", i)
			}
		})
	}
}

func TestNearestObjectWins(t *testing.T) {
	red := render.Light{R: 1}
	blue := render.Light{B: 1}

	for _, nearFirst := range []bool{true, false} {
		s := newTestScene(math3d.V3(0, 0, -5))
		near, far := NewCube("near", 1), NewCube("far", 2)
		near.Color, far.Color = red, blue
		far.Local.Offset = math3d.V3(0, 0, 3)
		if nearFirst {
			s.Add(near)
			s.Add(far)
		} else {
			s.Add(far)
			s.Add(near)
		}

		fb := render.NewFramebuffer(64, 64)
		s.Render(fb, render.NewDepthBuffer(64, 64))
		assert.Equal(t, render.RGB(255, 0, 0), fb.GetPixel(32, 32), "near first = %v", nearFirst)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	calls := 0
	o := NewObject("tri")
	o.OnUserBuild = func(o *Object) error {
		calls++
		a := o.AddVertex(math3d.V3(0, 0, 0), math3d.Vec3{}, math3d.Vec2{})
		b := o.AddVertex(math3d.V3(1, 0, 0), math3d.Vec3{}, math3d.Vec2{})
		c := o.AddVertex(math3d.V3(0, 1, 0), math3d.Vec3{}, math3d.Vec2{})
		return o.AddTriangle(a, b, c)
	}

	s := newTestScene(math3d.V3(0, 0, -5))
	s.Add(o)
	require.NoError(t, o.Build())
	require.NoError(t, s.Build())
	fb := render.NewFramebuffer(16, 16)
	s.Render(fb, render.NewDepthBuffer(16, 16))
	s.Render(fb, render.NewDepthBuffer(16, 16))

	assert.Equal(t, 1, calls)
	assert.True(t, o.Built())
	assert.Len(t, o.Vertices(), 3)
	assert.Len(t, o.Polygons(), 1)
}

func TestBuildFailureRollsBack(t *testing.T) {
	boom := errors.New("boom")
	fail := true
	o := NewObject("flaky")
	o.OnUserBuild = func(o *Object) error {
		o.AddVertex(math3d.V3(0, 0, 0), math3d.Vec3{}, math3d.Vec2{})
		if fail {
			return boom
		}
		return nil
	}

	err := o.Build()
	require.ErrorIs(t, err, boom)
	assert.False(t, o.Built())
	assert.Empty(t, o.Vertices())

	fail = false
	require.NoError(t, o.Build())
	assert.Len(t, o.Vertices(), 1)
}

func TestAddTriangleRejectsBadIndex(t *testing.T) {
	o := NewObject("o")
	o.AddVertex(math3d.V3(0, 0, 0), math3d.Vec3{}, math3d.Vec2{})
	err := o.AddTriangle(0, 0, 3)
	require.ErrorIs(t, err, ErrVertexIndex)
	assert.Empty(t, o.Polygons())
}

type triMesh struct{}

func (triMesh) VertexCount() int   { return 3 }
func (triMesh) TriangleCount() int { return 2 }
func (triMesh) GetVertex(i int) (math3d.Vec3, math3d.Vec3, math3d.Vec2) {
	return math3d.V3(float64(i), float64(i%2), 0), math3d.Vec3{}, math3d.Vec2{}
}
func (triMesh) GetFace(i int) [3]int {
	if i == 1 {
		return [3]int{0, 1, 5}
	}
	return [3]int{0, 1, 2}
}

func TestFromMeshPropagatesFaceErrors(t *testing.T) {
	o := FromMesh("mesh", triMesh{})
	err := o.Build()
	require.ErrorIs(t, err, ErrVertexIndex)
	assert.Contains(t, err.Error(), "mesh face 1")
	assert.False(t, o.Built())
}

func TestHandles(t *testing.T) {
	s := New(render.NewCamera())
	root := s.Add(NewObject("root"))
	child, err := s.AddChild(root, NewObject("child"))
	require.NoError(t, err)
	grandchild, err := s.AddChild(child, NewObject("grandchild"))
	require.NoError(t, err)
	other := s.Add(NewObject("other"))
	assert.Equal(t, 4, s.Len())

	r, err := s.Object(root)
	require.NoError(t, err)
	assert.Equal(t, []Handle{child}, r.Children())

	require.NoError(t, s.Remove(child))
	assert.Equal(t, 2, s.Len())
	assert.Empty(t, r.Children())
	for _, h := range []Handle{child, grandchild} {
		_, err := s.Object(h)
		assert.ErrorIs(t, err, ErrStaleHandle)
	}
	assert.ErrorIs(t, s.Remove(child), ErrStaleHandle)

	// Reused slots get a new generation.
	reused := s.Add(NewObject("reused"))
	assert.NotEqual(t, child, reused)
	assert.NotEqual(t, grandchild, reused)
	_, err = s.Object(child)
	assert.ErrorIs(t, err, ErrStaleHandle)

	_, err = s.AddChild(grandchild, NewObject("orphan"))
	assert.ErrorIs(t, err, ErrStaleHandle)
	_, err = s.Object(Handle{})
	assert.ErrorIs(t, err, ErrStaleHandle)

	var names []string
	for _, o := range s.All() {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"root", "other", "reused"}, names)
	_, err = s.Object(other)
	assert.NoError(t, err)
}

func TestParentTransformChain(t *testing.T) {
	s := newTestScene(math3d.V3(0, 0, -10))
	parent := NewCube("parent", 1)
	parent.Local.Offset = math3d.V3(1, 0, 0)
	parent.Local.Rotation = math3d.Mat3RotateY(math.Pi / 2)
	parent.Local.Scale = 2
	ph := s.Add(parent)

	child := NewCube("child", 1)
	child.Local.Offset = math3d.V3(0, 0, 1)
	_, err := s.AddChild(ph, child)
	require.NoError(t, err)

	s.Render(render.NewFramebuffer(32, 32), render.NewDepthBuffer(32, 32))

	want := parent.Local.Apply(math3d.V3(0, 0, 1))
	got := child.World().Offset
	assert.True(t, got.ApproxEqual(want, 1e-9), "child offset %v want %v", got, want)
	assert.InDelta(t, 2, child.World().Scale, 1e-12)
}

func TestHiddenParentHidesSubtree(t *testing.T) {
	s := newTestScene(math3d.V3(0, 0, -5))
	parent := NewCube("parent", 1)
	ph := s.Add(parent)
	_, err := s.AddChild(ph, NewCube("child", 1))
	require.NoError(t, err)
	parent.Hidden = true

	st := s.Render(render.NewFramebuffer(16, 16), render.NewDepthBuffer(16, 16))
	assert.Equal(t, 2, st.ObjectsHidden)
	assert.Zero(t, st.Triangles)
}

func TestObjectBehindCameraIsCulled(t *testing.T) {
	s := newTestScene(math3d.V3(0, 0, -5))
	behind := NewCube("behind", 1)
	behind.Local.Offset = math3d.V3(0, 0, -20)
	s.Add(behind)

	st := s.Render(render.NewFramebuffer(16, 16), render.NewDepthBuffer(16, 16))
	assert.Equal(t, 1, st.ObjectsCulled)
	assert.Zero(t, st.Triangles)
	assert.Zero(t, st.Pixels)
}

func TestMissingTextureFallsBackToChecker(t *testing.T) {
	s := newTestScene(math3d.V3(0, 0, -5))
	o := NewCube("textured", 1)
	o.TexturePath = filepath.Join(t.TempDir(), "missing.png")
	s.Add(o)

	require.NoError(t, s.Build())
	require.NotNil(t, o.Texture)
	assert.Equal(t, 64, o.Texture.Width)
}

func TestWireframeMode(t *testing.T) {
	s := newTestScene(math3d.V3(0, 0, -5))
	s.Wireframe = true
	s.WireColor = render.ColorGreen
	s.Add(NewCube("cube", 1))

	fb := render.NewFramebuffer(64, 64)
	st := s.Render(fb, render.NewDepthBuffer(64, 64))
	assert.Equal(t, 2, st.Rasterized)
	assert.Zero(t, st.Pixels)

	green := 0
	for _, c := range fb.Pixels {
		if c == render.ColorGreen {
			green++
		}
	}
	assert.Positive(t, green)
	assert.Equal(t, render.ColorBlack, fb.GetPixel(30, 30), "interior must stay unfilled")
}

func TestFrameStatsAdd(t *testing.T) {
	a := FrameStats{Objects: 1, Triangles: 12, Rasterized: 2, Pixels: 100}
	b := FrameStats{Objects: 2, BackFaces: 3, Pixels: 5}
	got := a.Add(b)
	assert.Equal(t, FrameStats{Objects: 3, Triangles: 12, BackFaces: 3, Rasterized: 2, Pixels: 105}, got)
}
