// Package render implements the OTT software rasterizer: camera projection
// onto a viewing plane, per-triangle scanline setup and depth-tested,
// Gouraud-lit pixel fills.
package render

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Surface is the minimal pixel sink the rasterizer writes to.
type Surface interface {
	Clear(c Color)
	SetPixel(x, y int, c Color)
	Size() (width, height int)
}

// Framebuffer is a row-major RGBA pixel buffer.
// For terminal output the height is twice the row count (half-block cells).
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA
}

var _ Surface = (*Framebuffer)(nil)

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Size returns the framebuffer dimensions in pixels.
func (fb *Framebuffer) Size() (width, height int) {
	return fb.Width, fb.Height
}

// Resize reallocates the pixel storage when the dimensions change.
func (fb *Framebuffer) Resize(width, height int) {
	if width == fb.Width && height == fb.Height {
		return
	}
	fb.Width, fb.Height = width, height
	fb.Pixels = make([]color.RGBA, width*height)
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = c
	for i := 1; i < len(fb.Pixels); i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel sets a pixel at (x, y). Out of bounds writes are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y), or transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawSegment draws a line between pixel-space points, clipped to the
// framebuffer first so far off-screen endpoints cost nothing.
func (fb *Framebuffer) DrawSegment(x0, y0, x1, y1 float64, c Color) {
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, float64(fb.Width-1), float64(fb.Height-1))
	if !ok {
		return
	}
	fb.DrawLine(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)), c)
}

// clipSegment clips a segment to [0,maxX]x[0,maxY] (Liang-Barsky).
func clipSegment(x0, y0, x1, y1, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	for _, b := range [4][2]float64{{-dx, x0}, {dx, maxX - x0}, {-dy, y0}, {dy, maxY - y0}} {
		p, q := b[0], b[1]
		if math.IsNaN(p) || math.IsNaN(q) {
			return 0, 0, 0, 0, false
		}
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to an image.RGBA sharing no memory with it.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, p := range fb.Pixels {
		img.Pix[i*4+0] = p.R
		img.Pix[i*4+1] = p.G
		img.Pix[i*4+2] = p.B
		img.Pix[i*4+3] = p.A
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
