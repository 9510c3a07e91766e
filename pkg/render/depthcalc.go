package render

// DepthCalc is a screen-space plane fit of 1/value:
//
//	1/value(x, y) = A·x + B·y + C
//
// Fitting the reciprocal keeps camera depth and lighting perspective
// correct across the projected triangle.
type DepthCalc struct {
	A, B, C float64
}

// Compute fits the plane through three (x, y, value) samples. Values must be
// non-zero.
//
// When the first two samples share a row, samples 1 and 2 are swapped so the
// substitution never divides by dy1 = 0. When the samples are collinear in
// screen space no plane exists: the fit degrades to the constant first value
// and Compute returns false.
func (d *DepthCalc) Compute(x0, y0, v0, x1, y1, v1, x2, y2, v2 float64) bool {
	if y1 == y0 {
		x1, y1, v1, x2, y2, v2 = x2, y2, v2, x1, y1, v1
	}

	w0, w1, w2 := 1/v0, 1/v1, 1/v2
	dx1, dy1, dw1 := x1-x0, y1-y0, w1-w0
	dx2, dy2, dw2 := x2-x0, y2-y0, w2-w0

	det := dx2*dy1 - dx1*dy2
	if det == 0 || dy1 == 0 {
		d.A, d.B, d.C = 0, 0, w0
		return false
	}

	d.A = (dw2*dy1 - dw1*dy2) / det
	d.B = (dw1 - d.A*dx1) / dy1
	d.C = w0 - d.A*x0 - d.B*y0
	return true
}

// Inverse returns the fitted 1/value at (x, y).
func (d DepthCalc) Inverse(x, y float64) float64 {
	return d.A*x + d.B*y + d.C
}

// Value returns the interpolated value at (x, y).
func (d DepthCalc) Value(x, y float64) float64 {
	return 1 / d.Inverse(x, y)
}
