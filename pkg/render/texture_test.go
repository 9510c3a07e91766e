package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/ott/pkg/math3d"
)

func TestTextureSample(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, ColorWhite, ColorBlack)

	tests := []struct {
		name string
		uv   math3d.Vec2
		want Color
	}{
		// V runs bottom to top, so v=0.9 is the image's top row
		{"top left", math3d.V2(0.1, 0.9), ColorWhite},
		{"top right", math3d.V2(0.9, 0.9), ColorBlack},
		{"bottom right", math3d.V2(0.9, 0.1), ColorWhite},
		{"repeats", math3d.V2(1.1, 1.9), ColorWhite},
		{"negative repeats", math3d.V2(-0.1, 0.9), ColorBlack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tex.Sample(tt.uv); got != tt.want {
				t.Errorf("Sample(%v) = %v, want %v", tt.uv, got, tt.want)
			}
		})
	}
}

func TestTextureClampAndBilinear(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.Pixels[0] = RGB(0, 0, 0)
	tex.Pixels[1] = RGB(200, 100, 50)
	tex.Wrap = WrapClamp
	tex.Bilinear = true

	mid := tex.Sample(math3d.V2(0.5, 0.5))
	if mid.R != 100 || mid.G != 50 || mid.B != 25 {
		t.Errorf("bilinear midpoint = %v, want (100,50,25)", mid)
	}
	if got := tex.Sample(math3d.V2(5, 0.5)); got != RGB(200, 100, 50) {
		t.Errorf("clamped sample = %v", got)
	}
}

func TestLoadTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 1, color.RGBA{10, 20, 30, 255})
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tex, err := LoadTexture(path)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Width != 3 || tex.Height != 2 || tex.Pixels[5] != (Color{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("texture = %dx%d last=%v", tex.Width, tex.Height, tex.Pixels[5])
	}

	if _, err := LoadTexture(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("missing file loaded without error")
	}
}

func TestLightColorClamps(t *testing.T) {
	tests := []struct {
		in   Light
		want Color
	}{
		{Light{2, -1, 0.5}, Color{R: 255, G: 0, B: 128, A: 255}},
		{Light{0, 1, 0}, Color{R: 0, G: 255, B: 0, A: 255}},
	}
	for _, tt := range tests {
		if got := tt.in.Color(); got != tt.want {
			t.Errorf("%+v.Color() = %v, want %v", tt.in, got, tt.want)
		}
	}
}
