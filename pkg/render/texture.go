package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	"github.com/taigrr/ott/pkg/math3d"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// Texture is an RGBA image sampled per vertex for albedo.
type Texture struct {
	Width  int
	Height int
	Pixels []Color
	Wrap   WrapMode
	// Bilinear enables bilinear filtering; nearest neighbor otherwise.
	Bilinear bool
}

// NewTexture creates an empty repeating texture.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture decodes a PNG or JPEG file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage copies img into a texture.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	tex := NewTexture(b.Dx(), b.Dy())
	for y := range tex.Height {
		for x := range tex.Width {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			tex.Pixels[y*tex.Width+x] = Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: uint8(a >> 8)}
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard, used as the fallback
// when an object's texture cannot be loaded.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			c := c2
			if (x/checkSize+y/checkSize)%2 == 0 {
				c = c1
			}
			tex.Pixels[y*width+x] = c
		}
	}
	return tex
}

func (t *Texture) at(x, y int) Color {
	x, y = t.wrapPixel(x, t.Width), t.wrapPixel(y, t.Height)
	return t.Pixels[y*t.Width+x]
}

// Sample returns the color at uv. V runs bottom to top.
func (t *Texture) Sample(uv math3d.Vec2) Color {
	if t.Width == 0 || t.Height == 0 {
		return ColorWhite
	}
	u := t.wrapCoord(uv.X)
	v := 1 - t.wrapCoord(uv.Y)

	if !t.Bilinear {
		return t.at(int(u*float64(t.Width)), int(v*float64(t.Height)))
	}

	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)

	top := lerpColor(t.at(x0, y0), t.at(x0+1, y0), tx)
	bot := lerpColor(t.at(x0, y0+1), t.at(x0+1, y0+1), tx)
	return lerpColor(top, bot, ty)
}

// SampleLight returns the albedo at uv as linear channels.
func (t *Texture) SampleLight(uv math3d.Vec2) Light {
	return LightFromColor(t.Sample(uv))
}

func (t *Texture) wrapCoord(c float64) float64 {
	if t.Wrap == WrapClamp {
		return math.Max(0, math.Min(1, c))
	}
	return c - math.Floor(c)
}

func (t *Texture) wrapPixel(x, size int) int {
	if t.Wrap == WrapClamp {
		return max(0, min(x, size-1))
	}
	x %= size
	if x < 0 {
		x += size
	}
	return x
}

func lerpColor(a, b Color, t float64) Color {
	l := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return Color{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: l(a.A, b.A)}
}
