package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Display is a cell screen that can flush itself to the terminal, such as
// *uv.Terminal.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalPresenter shows frames as half-block cells: each cell carries two
// vertically stacked pixels, the top as foreground of "▀" and the bottom as
// background.
type TerminalPresenter struct {
	scr Display

	// Overlay, if set, is drawn over the frame before it is flushed.
	Overlay func(scr uv.Screen, area uv.Rectangle)
}

// NewTerminalPresenter creates a presenter drawing to scr.
func NewTerminalPresenter(scr Display) *TerminalPresenter {
	return &TerminalPresenter{scr: scr}
}

// FramebufferSize returns the pixel size matching a terminal of the given
// cell dimensions.
func FramebufferSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Present implements Presenter.
func (p *TerminalPresenter) Present(fb *Framebuffer) error {
	area := p.scr.Bounds()
	DrawHalfBlocks(fb, p.scr, area)
	if p.Overlay != nil {
		p.Overlay(p.scr, area)
	}
	return p.scr.Display()
}

// DrawHalfBlocks draws fb into area of scr, two pixel rows per cell row.
func DrawHalfBlocks(fb *Framebuffer, scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			x := col - area.Min.X
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, topY)),
					Bg: cellColor(fb.GetPixel(x, topY+1)),
				},
			})
		}
	}
}

// cellColor maps transparent pixels to the terminal default color.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
