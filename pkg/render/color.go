package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
	ColorGray  = color.RGBA{128, 128, 128, 255}
)

// RGB creates an opaque color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// Light is a linear color with unbounded float channels. Lighting is
// accumulated in Light and only clamped when written to a Framebuffer.
type Light struct {
	R, G, B float64
}

// White is full intensity on every channel.
var White = Light{1, 1, 1}

// LightFromColor converts an 8-bit color to [0,1] channels.
func LightFromColor(c Color) Light {
	return Light{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

// Add returns the channel-wise sum.
func (a Light) Add(b Light) Light {
	return Light{a.R + b.R, a.G + b.G, a.B + b.B}
}

// Mul returns the channel-wise product.
func (a Light) Mul(b Light) Light {
	return Light{a.R * b.R, a.G * b.G, a.B * b.B}
}

// Scale returns every channel multiplied by s.
func (a Light) Scale(s float64) Light {
	return Light{a.R * s, a.G * s, a.B * s}
}

// Color clamps the channels to [0,1] and converts to an opaque 8-bit color.
func (a Light) Color() Color {
	return Color{R: channel(a.R), G: channel(a.G), B: channel(a.B), A: 255}
}

func channel(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
