package render

import "math"

// DepthBuffer holds the nearest camera depth written to each pixel this frame.
type DepthBuffer struct {
	Width  int
	Height int
	data   []float64
}

// NewDepthBuffer creates a depth buffer cleared to +Inf.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{Width: width, Height: height, data: make([]float64, width*height)}
	d.Clear()
	return d
}

// Resize reallocates and clears the buffer when the dimensions change.
func (d *DepthBuffer) Resize(width, height int) {
	if width == d.Width && height == d.Height {
		return
	}
	d.Width, d.Height = width, height
	d.data = make([]float64, width*height)
	d.Clear()
}

// Clear resets every pixel to +Inf.
func (d *DepthBuffer) Clear() {
	if len(d.data) == 0 {
		return
	}
	d.data[0] = math.Inf(1)
	for i := 1; i < len(d.data); i *= 2 {
		copy(d.data[i:], d.data[:i])
	}
}

// At returns the stored depth, or +Inf out of bounds.
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return math.Inf(1)
	}
	return d.data[y*d.Width+x]
}

// TestAndSet stores z and reports true when z is strictly nearer than the
// stored depth. Equal depths keep the earlier write.
func (d *DepthBuffer) TestAndSet(x, y int, z float64) bool {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return false
	}
	i := y*d.Width + x
	if !(z < d.data[i]) {
		return false
	}
	d.data[i] = z
	return true
}
