package render

import "math"

// minChannel keeps fitted color channels away from 1/0.
const minChannel = 1e-3

// PixelTriplet is the per-frame working state of one visible triangle.
//
// V keeps the authored vertex order for the triangle's lifetime.
// SortVertical only permutes order, so Sorted(0) is the topmost vertex on
// screen while V[0] is still the first authored vertex.
type PixelTriplet struct {
	Poly   *Polygon
	V      [3]*Vertex
	Smooth bool

	order [3]int
	light [3]Light

	z, r, g, b DepthCalc
}

// NewPixelTriplet captures p's vertices. Their projection caches must be
// current for this frame.
func NewPixelTriplet(p *Polygon) *PixelTriplet {
	return &PixelTriplet{
		Poly:  p,
		V:     p.V,
		order: [3]int{0, 1, 2},
	}
}

// Sorted returns the i-th vertex by ascending pixel Y.
func (t *PixelTriplet) Sorted(i int) *Vertex {
	return t.V[t.order[i]]
}

// SortVertical orders the vertices by ascending pixel Y. It rejects triangles
// with zero vertical extent and those entirely above or below a viewport of
// the given height.
func (t *PixelTriplet) SortVertical(height int) bool {
	o := &t.order
	py := func(i int) float64 { return t.V[o[i]].Proj.PY }

	if py(0) > py(1) {
		o[0], o[1] = o[1], o[0]
	}
	if py(1) > py(2) {
		o[1], o[2] = o[2], o[1]
	}
	if py(0) > py(1) {
		o[0], o[1] = o[1], o[0]
	}

	top, bottom := py(0), py(2)
	if top == bottom {
		return false
	}
	if bottom < 0 || top >= float64(height) {
		return false
	}
	return true
}

// Rows returns the inclusive range of pixel rows the sorted triangle covers,
// clipped to the viewport. Call after SortVertical.
func (t *PixelTriplet) Rows(height int) (first, last int) {
	first = int(math.Ceil(math.Max(t.Sorted(0).Proj.PY, 0)))
	last = int(math.Floor(math.Min(t.Sorted(2).Proj.PY, float64(height-1))))
	return first, last
}

// HorizontalLimits returns the pixel span covered on row y, widened to whole
// pixels (floor of the left edge, ceil of the right) and clipped to
// [0, width-1]. It reports false when the row misses the triangle or the
// viewport. Call after SortVertical.
func (t *PixelTriplet) HorizontalLimits(y, width int) (xA, xB int, ok bool) {
	p0, p1, p2 := t.Sorted(0).Proj, t.Sorted(1).Proj, t.Sorted(2).Proj
	fy := float64(y)
	if fy < p0.PY || fy > p2.PY {
		return 0, 0, false
	}

	// the long edge p0→p2 spans every row
	lo := edgeX(p0, p2, fy)
	hi := lo

	switch {
	case fy < p1.PY:
		// upper half; p0.PY < p1.PY here so the edge is not horizontal
		x := edgeX(p0, p1, fy)
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	case p1.PY == p2.PY:
		// flat bottom: the whole p1-p2 edge lies on this row
		lo = math.Min(lo, math.Min(p1.PX, p2.PX))
		hi = math.Max(hi, math.Max(p1.PX, p2.PX))
	default:
		// lower half, including a flat top where p0 and p1 share this row
		x := edgeX(p1, p2, fy)
		lo, hi = math.Min(lo, x), math.Max(hi, x)
		if p0.PY == p1.PY {
			lo, hi = math.Min(lo, p1.PX), math.Max(hi, p1.PX)
		}
	}

	if hi <= -1 || lo >= float64(width) {
		return 0, 0, false
	}
	xA = int(math.Floor(math.Max(lo, 0)))
	xB = int(math.Ceil(math.Min(hi, float64(width-1))))
	return xA, xB, true
}

// edge is the line a→b as a function of pixel position, oriented so the
// triangle interior is positive.
type edge struct {
	ax, ay, dx, dy float64
	owned          bool // samples exactly on the edge belong to this triangle
}

func (e edge) at(x, y float64) float64 {
	return e.dx*(y-e.ay) - e.dy*(x-e.ax)
}

func (e edge) covers(x, y float64) bool {
	w := e.at(x, y)
	return w > 0 || (w == 0 && e.owned)
}

// edges returns the three edge functions with the top-left ownership rule:
// a sample on a shared edge is drawn by exactly one of the two triangles.
func (t *PixelTriplet) edges() [3]edge {
	p := [3]Projection{t.V[0].Proj, t.V[1].Proj, t.V[2].Proj}
	var es [3]edge
	for i := range es {
		a, b := p[i], p[(i+1)%3]
		es[i] = edge{ax: a.PX, ay: a.PY, dx: b.PX - a.PX, dy: b.PY - a.PY}
	}
	if es[0].at(p[2].PX, p[2].PY) < 0 {
		for i := range es {
			a, b := p[(i+1)%3], p[i]
			es[i] = edge{ax: a.PX, ay: a.PY, dx: b.PX - a.PX, dy: b.PY - a.PY}
		}
	}
	for i := range es {
		e := &es[i]
		// pixel Y grows downward: a top edge runs +X, a left edge runs -Y
		e.owned = (e.dy == 0 && e.dx > 0) || e.dy < 0
	}
	return es
}

func edgeX(a, b Projection, y float64) float64 {
	return a.PX + (b.PX-a.PX)*(y-a.PY)/(b.PY-a.PY)
}

// ComputeVertexLighting adds l's contribution to every vertex accumulator.
// The face normal is used unless the triplet is smooth and the vertex has its
// own normal.
func (t *PixelTriplet) ComputeVertexLighting(l LightSource) {
	if !l.Enabled() {
		return
	}
	face := t.Poly.Normal()
	for i, v := range t.V {
		n := face
		if t.Smooth && v.HasNormal {
			n = v.WorldNormal()
		}
		t.light[i] = t.light[i].Add(l.Color(v, n))
	}
}

// VertexLight returns the accumulated light for authored vertex i.
func (t *PixelTriplet) VertexLight(i int) Light {
	return t.light[i]
}

// Finalize fits the depth plane and the three color channel planes. albedo
// is indexed by authored vertex order and multiplies the accumulated light.
// It reports false if the projected triangle is degenerate.
func (t *PixelTriplet) Finalize(albedo [3]Light) bool {
	var c [3]Light
	for i := range c {
		c[i] = t.light[i].Mul(albedo[i])
	}
	p0, p1, p2 := t.V[0].Proj, t.V[1].Proj, t.V[2].Proj

	fit := func(d *DepthCalc, v0, v1, v2 float64) bool {
		return d.Compute(p0.PX, p0.PY, v0, p1.PX, p1.PY, v1, p2.PX, p2.PY, v2)
	}
	ok := fit(&t.z, p0.Z, p1.Z, p2.Z)
	fit(&t.r, floor(c[0].R), floor(c[1].R), floor(c[2].R))
	fit(&t.g, floor(c[0].G), floor(c[1].G), floor(c[2].G))
	fit(&t.b, floor(c[0].B), floor(c[1].B), floor(c[2].B))
	return ok
}

func floor(v float64) float64 {
	return math.Max(v, minChannel)
}

// ZDepth returns the interpolated camera depth at pixel (x, y).
func (t *PixelTriplet) ZDepth(x, y float64) float64 {
	return t.z.Value(x, y)
}

// LightColor returns the interpolated lit color at pixel (x, y).
func (t *PixelTriplet) LightColor(x, y float64) Light {
	return Light{t.r.Value(x, y), t.g.Value(x, y), t.b.Value(x, y)}
}

// Fill rasterizes t into s with a nearest-wins depth test and returns the
// number of pixels written. t must have passed SortVertical and Finalize.
//
// Pixel (x, y) is sampled at (x, y). HorizontalLimits bounds the candidate
// pixels; a candidate is drawn only if its sample lies inside the triangle
// or on an edge it owns, so depth and light are never extrapolated and
// triangles sharing an edge never both draw it. Samples with non-finite or
// non-positive depth are skipped.
func Fill(t *PixelTriplet, s Surface, depth *DepthBuffer) int {
	width, height := depth.Width, depth.Height
	first, last := t.Rows(height)
	es := t.edges()

	written := 0
	for y := first; y <= last; y++ {
		xA, xB, ok := t.HorizontalLimits(y, width)
		if !ok {
			continue
		}
		fy := float64(y)
		for x := xA; x <= xB; x++ {
			fx := float64(x)
			if !es[0].covers(fx, fy) || !es[1].covers(fx, fy) || !es[2].covers(fx, fy) {
				continue
			}
			z := t.ZDepth(fx, fy)
			if !(z > 0) || math.IsInf(z, 1) {
				continue
			}
			if depth.TestAndSet(x, y, z) {
				s.SetPixel(x, y, t.LightColor(fx, fy).Color())
				written++
			}
		}
	}
	return written
}

