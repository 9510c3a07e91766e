package render

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

type fakeDisplay struct {
	uv.ScreenBuffer
	displays int
}

func (f *fakeDisplay) Display() error {
	f.displays++
	return nil
}

func TestDrawHalfBlocks(t *testing.T) {
	fb := NewFramebuffer(2, 4)
	fb.SetPixel(0, 0, ColorRed)
	fb.SetPixel(0, 1, ColorBlue)
	fb.SetPixel(1, 2, ColorGreen)

	scr := uv.NewScreenBuffer(2, 2)
	DrawHalfBlocks(fb, scr, scr.Bounds())

	tests := []struct {
		name   string
		x, y   int
		fg, bg Color
		fgNil  bool
		bgNil  bool
	}{
		{"top left", 0, 0, ColorRed, ColorBlue, false, false},
		{"bottom right", 1, 1, ColorGreen, Color{}, false, true},
		{"empty", 1, 0, Color{}, Color{}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := scr.CellAt(tt.x, tt.y)
			if cell == nil || cell.Content != "▀" {
				t.Fatalf("cell = %+v, want half block", cell)
			}
			if tt.fgNil != (cell.Style.Fg == nil) || (!tt.fgNil && cell.Style.Fg != tt.fg) {
				t.Errorf("fg = %v, want %v", cell.Style.Fg, tt.fg)
			}
			if tt.bgNil != (cell.Style.Bg == nil) || (!tt.bgNil && cell.Style.Bg != tt.bg) {
				t.Errorf("bg = %v, want %v", cell.Style.Bg, tt.bg)
			}
		})
	}
}

func TestTerminalPresenter(t *testing.T) {
	d := &fakeDisplay{ScreenBuffer: uv.NewScreenBuffer(4, 2)}
	p := NewTerminalPresenter(d)
	overlaid := false
	p.Overlay = func(scr uv.Screen, area uv.Rectangle) { overlaid = true }

	w, h := FramebufferSize(4, 2)
	fb := NewFramebuffer(w, h)
	fb.Clear(ColorWhite)

	if err := p.Present(fb); err != nil {
		t.Fatal(err)
	}
	if d.displays != 1 || !overlaid {
		t.Errorf("displays=%d overlaid=%v", d.displays, overlaid)
	}
	if c := d.CellAt(3, 1); c == nil || c.Style.Fg != ColorWhite {
		t.Errorf("cell(3,1) = %+v, want white", c)
	}
}
