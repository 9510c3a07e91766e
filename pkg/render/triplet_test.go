package render

import (
	"math"
	"math/rand"
	"testing"

	"github.com/taigrr/ott/pkg/math3d"
)

// screenTriangle builds a triplet directly in pixel space. The world-space
// geometry is irrelevant to the scanline setup, so vertices only carry a
// projection cache.
func screenTriangle(tb testing.TB, pts [3][3]float64) *PixelTriplet {
	tb.Helper()
	var vs [3]*Vertex
	for i, p := range pts {
		vs[i] = NewVertex(math3d.V3(float64(i), float64(i*i), 0), math3d.Vec3{}, math3d.Vec2{}, nil)
		vs[i].Proj = Projection{PX: p[0], PY: p[1], Z: p[2], Visible: true}
	}
	poly, err := NewPolygon(vs[0], vs[1], vs[2])
	if err != nil {
		tb.Fatal(err)
	}
	return NewPixelTriplet(poly)
}

// edgeCoeffs returns A, B, C for the edge line A*x + B*y + C = 0 through
// (x0,y0) and (x1,y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (a, b, c float64) {
	return y0 - y1, x1 - x0, x0*y1 - x1*y0
}

// exactSpan intersects row y with the triangle using its three edge
// functions and returns the covered x interval.
func exactSpan(pts [3][3]float64, y float64) (lo, hi float64, ok bool) {
	// orientation sign so that the interior is where every edge is >= 0
	a, b, c := edgeCoeffs(pts[0][0], pts[0][1], pts[1][0], pts[1][1])
	sign := 1.0
	if a*pts[2][0]+b*pts[2][1]+c < 0 {
		sign = -1
	}

	lo, hi = math.Inf(-1), math.Inf(1)
	for i := range 3 {
		p, q := pts[i], pts[(i+1)%3]
		a, b, c := edgeCoeffs(p[0], p[1], q[0], q[1])
		a, b, c = a*sign, b*sign, c*sign
		k := b*y + c
		switch {
		case a > 0:
			lo = math.Max(lo, -k/a)
		case a < 0:
			hi = math.Min(hi, -k/a)
		case k < -1e-9:
			return 0, 0, false
		}
	}
	return lo, hi, lo <= hi+1e-9
}

func TestSortVertical(t *testing.T) {
	pts := [3][3]float64{{5, 30, 1}, {20, 2, 1}, {1, 17, 1}}
	tri := screenTriangle(t, pts)
	authored := tri.V

	if !tri.SortVertical(40) {
		t.Fatal("SortVertical rejected an on-screen triangle")
	}
	for i := range 2 {
		if tri.Sorted(i).Proj.PY > tri.Sorted(i+1).Proj.PY {
			t.Errorf("Sorted(%d).PY > Sorted(%d).PY", i, i+1)
		}
	}
	if tri.V != authored {
		t.Error("SortVertical reordered the authored vertices")
	}
	if tri.Sorted(0) != authored[1] || tri.Sorted(2) != authored[0] {
		t.Error("sorted order does not follow pixel Y")
	}
}

func TestSortVerticalRejects(t *testing.T) {
	tests := []struct {
		name string
		pts  [3][3]float64
	}{
		{"zero vertical extent", [3][3]float64{{0, 10, 1}, {5, 10, 1}, {9, 10, 1}}},
		{"above viewport", [3][3]float64{{0, -10, 1}, {5, -3, 1}, {9, -0.5, 1}}},
		{"below viewport", [3][3]float64{{0, 40, 1}, {5, 41, 1}, {9, 60, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if screenTriangle(t, tt.pts).SortVertical(40) {
				t.Error("SortVertical accepted the triangle")
			}
		})
	}
}

func checkSpans(t *testing.T, pts [3][3]float64, width, height int) {
	t.Helper()
	tri := screenTriangle(t, pts)
	if !tri.SortVertical(height) {
		t.Fatalf("SortVertical rejected %v", pts)
	}
	first, last := tri.Rows(height)
	for y := first; y <= last; y++ {
		lo, hi, ok := exactSpan(pts, float64(y))
		xA, xB, got := tri.HorizontalLimits(y, width)
		if !ok {
			continue
		}
		// clip the exact span like the rasterizer does
		lo, hi = math.Max(lo, 0), math.Min(hi, float64(width-1))
		if lo > hi {
			continue
		}
		if !got {
			t.Fatalf("%v row %d: no span, want [%v,%v]", pts, y, lo, hi)
		}
		if float64(xA) > lo+1e-9 || float64(xB) < hi-1e-9 {
			t.Errorf("%v row %d: span [%d,%d] does not contain [%v,%v]", pts, y, xA, xB, lo, hi)
		}
	}
}

func TestHorizontalLimitsContainsExactSpan(t *testing.T) {
	tests := []struct {
		name string
		pts  [3][3]float64
	}{
		{"general", [3][3]float64{{5.5, 2.25, 1}, {30.1, 17.7, 1}, {12.3, 35.9, 1}}},
		{"flat top", [3][3]float64{{2, 4, 1}, {30, 4, 1}, {16, 30, 1}}},
		{"flat bottom", [3][3]float64{{16, 3, 1}, {2, 25, 1}, {30, 25, 1}}},
		{"integer rows", [3][3]float64{{0, 0, 1}, {10, 10, 1}, {0, 20, 1}}},
		{"sliver", [3][3]float64{{1, 1, 1}, {38, 2, 1}, {39, 3, 1}}},
		{"clipped", [3][3]float64{{-20, 5, 1}, {70, 12, 1}, {10, 38, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkSpans(t, tt.pts, 40, 40)
		})
	}
}

func TestHorizontalLimitsRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for range 500 {
		var pts [3][3]float64
		for i := range pts {
			pts[i] = [3]float64{rng.Float64()*80 - 20, rng.Float64()*60 - 10, 1}
		}
		tri := screenTriangle(t, pts)
		if !tri.SortVertical(40) {
			continue
		}
		checkSpans(t, pts, 64, 40)
	}
}

func TestHorizontalLimitsOffscreen(t *testing.T) {
	tri := screenTriangle(t, [3][3]float64{{-30, 0, 1}, {-10, 10, 1}, {-25, 20, 1}})
	if !tri.SortVertical(40) {
		t.Fatal("SortVertical rejected")
	}
	if _, _, ok := tri.HorizontalLimits(10, 40); ok {
		t.Error("span left of the viewport should be rejected")
	}
	if _, _, ok := tri.HorizontalLimits(30, 40); ok {
		t.Error("row below the triangle should be rejected")
	}
}

func TestFinalizeInterpolatesVertexLight(t *testing.T) {
	tri := screenTriangle(t, [3][3]float64{{0, 0, 2}, {20, 5, 4}, {5, 20, 3}})
	tri.SortVertical(40)
	tri.ComputeVertexLighting(NewAmbientLight("amb", 0.5, White))
	albedo := [3]Light{{1, 0, 0}, {0, 1, 0}, {0.5, 0.5, 1}}
	if !tri.Finalize(albedo) {
		t.Fatal("Finalize reported degenerate")
	}

	for i, v := range tri.V {
		got := tri.LightColor(v.Proj.PX, v.Proj.PY)
		want := albedo[i].Scale(0.5)
		if math.Abs(got.R-math.Max(want.R, minChannel)) > 1e-9 ||
			math.Abs(got.G-math.Max(want.G, minChannel)) > 1e-9 ||
			math.Abs(got.B-math.Max(want.B, minChannel)) > 1e-9 {
			t.Errorf("vertex %d: LightColor = %+v, want %+v", i, got, want)
		}
		if z := tri.ZDepth(v.Proj.PX, v.Proj.PY); math.Abs(z-v.Proj.Z) > 1e-9 {
			t.Errorf("vertex %d: ZDepth = %v, want %v", i, z, v.Proj.Z)
		}
	}
}

func TestComputeVertexLightingSkipsDisabled(t *testing.T) {
	tri := screenTriangle(t, [3][3]float64{{0, 0, 2}, {20, 5, 4}, {5, 20, 3}})
	l := NewAmbientLight("off", 1, White)
	l.On = false
	tri.ComputeVertexLighting(l)
	for i := range 3 {
		if tri.VertexLight(i) != (Light{}) {
			t.Errorf("vertex %d lit by a disabled light", i)
		}
	}
}

func filledTriplet(t *testing.T, z float64, c Light) *PixelTriplet {
	t.Helper()
	tri := screenTriangle(t, [3][3]float64{{2, 2, z}, {18, 4, z}, {6, 18, z}})
	if !tri.SortVertical(20) {
		t.Fatal("SortVertical rejected")
	}
	tri.ComputeVertexLighting(NewAmbientLight("amb", 1, c))
	tri.Finalize([3]Light{White, White, White})
	return tri
}

func TestFillNearestWins(t *testing.T) {
	red, blue := Light{1, 0, 0}, Light{0, 0, 1}

	for _, order := range []string{"near first", "far first"} {
		t.Run(order, func(t *testing.T) {
			fb := NewFramebuffer(20, 20)
			depth := NewDepthBuffer(20, 20)
			near, far := filledTriplet(t, 2, red), filledTriplet(t, 5, blue)
			if order == "near first" {
				Fill(near, fb, depth)
				Fill(far, fb, depth)
			} else {
				Fill(far, fb, depth)
				Fill(near, fb, depth)
			}
			if got := fb.GetPixel(8, 8); got != red.Color() {
				t.Errorf("pixel = %v, want the nearer red", got)
			}
			if got := depth.At(8, 8); math.Abs(got-2) > 1e-9 {
				t.Errorf("depth = %v, want 2", got)
			}
		})
	}
}

func TestFillTiesKeepFirst(t *testing.T) {
	fb := NewFramebuffer(20, 20)
	depth := NewDepthBuffer(20, 20)
	first := filledTriplet(t, 3, Light{0, 1, 0})
	second := filledTriplet(t, 3, Light{1, 0, 1})

	if n := Fill(first, fb, depth); n == 0 {
		t.Fatal("first triangle wrote no pixels")
	}
	if n := Fill(second, fb, depth); n != 0 {
		t.Errorf("equal-depth triangle overwrote %d pixels", n)
	}
}

// coverage fills t into a fresh buffer and returns the pixels it wrote.
func coverage(t *testing.T, pts [3][3]float64, size int) map[[2]int]bool {
	t.Helper()
	tri := screenTriangle(t, pts)
	if !tri.SortVertical(size) {
		t.Fatalf("SortVertical rejected %v", pts)
	}
	tri.ComputeVertexLighting(NewAmbientLight("amb", 1, White))
	tri.Finalize([3]Light{White, White, White})

	fb := NewFramebuffer(size, size)
	depth := NewDepthBuffer(size, size)
	n := Fill(tri, fb, depth)
	got := make(map[[2]int]bool)
	for y := range size {
		for x := range size {
			if depth.At(x, y) < math.Inf(1) {
				got[[2]int{x, y}] = true
			}
		}
	}
	if n != len(got) {
		t.Fatalf("Fill reported %d pixels, buffer holds %d", n, len(got))
	}
	return got
}

func TestFillSharedEdgeDrawnOnce(t *testing.T) {
	tests := []struct {
		name string
		a, b [3][3]float64
	}{
		{"diagonal", [3][3]float64{{2, 2, 1}, {18, 2, 1}, {2, 18, 1}}, [3][3]float64{{18, 2, 1}, {18, 18, 1}, {2, 18, 1}}},
		{"vertical", [3][3]float64{{10, 1, 1}, {10, 19, 1}, {1, 7, 1}}, [3][3]float64{{10, 1, 1}, {19, 12, 1}, {10, 19, 1}}},
		{"fractional", [3][3]float64{{1.3, 2.7, 1}, {17.2, 5.1, 1}, {6.6, 18.4, 1}}, [3][3]float64{{17.2, 5.1, 1}, {18.9, 16.3, 1}, {6.6, 18.4, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := coverage(t, tt.a, 20), coverage(t, tt.b, 20)
			for p := range a {
				if b[p] {
					t.Errorf("pixel %v drawn by both triangles", p)
				}
			}
		})
	}

	// the two halves of a square tile it exactly: left and top edges in,
	// right and bottom edges out
	a := coverage(t, tests[0].a, 20)
	b := coverage(t, tests[0].b, 20)
	if len(a)+len(b) != 16*16 {
		t.Errorf("square covered %d pixels, want %d", len(a)+len(b), 16*16)
	}
	for p := range a {
		if p[0] < 2 || p[0] > 17 || p[1] < 2 || p[1] > 17 {
			t.Errorf("pixel %v outside the square", p)
		}
	}
}

func TestFillStaysInsideTriangle(t *testing.T) {
	pts := [3][3]float64{{1.5, 1.2, 2}, {18.7, 6.4, 3}, {4.2, 17.9, 4}}
	for p := range coverage(t, pts, 20) {
		lo, hi, ok := exactSpan(pts, float64(p[1]))
		x := float64(p[0])
		if !ok || x < lo-1e-9 || x > hi+1e-9 {
			t.Errorf("pixel %v lies outside the triangle", p)
		}
	}
}

func BenchmarkFill(b *testing.B) {
	fb := NewFramebuffer(160, 96)
	depth := NewDepthBuffer(160, 96)
	tri := screenTriangle(b, [3][3]float64{{3, 2, 2}, {150, 30, 3}, {40, 90, 4}})
	tri.SortVertical(96)
	tri.ComputeVertexLighting(NewAmbientLight("amb", 1, White))
	tri.Finalize([3]Light{White, White, White})

	for b.Loop() {
		depth.Clear()
		Fill(tri, fb, depth)
	}
}
