package main

import (
	"fmt"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"

	"github.com/taigrr/ott/pkg/clock"
	"github.com/taigrr/ott/pkg/scene"
)

const (
	sgrReset  = "\x1b[0m"
	sgrBold   = "\x1b[1m"
	sgrDim    = "\x1b[2m"
	sgrBg     = "\x1b[40m"
	sgrWhite  = "\x1b[97m"
	sgrGreen  = "\x1b[92m"
	sgrYellow = "\x1b[93m"
	sgrCyan   = "\x1b[96m"
)

// hud is the overlay on the top and bottom rows of the terminal.
type hud struct {
	name      string
	triangles int
}

// lines returns the top and bottom overlay rows for a width-column screen.
// Both are empty when there is nothing to show.
func (h *hud) lines(width int, view *viewState, frame scene.FrameStats, timing clock.Stats) (top, bottom string) {
	if view.LightMode {
		msg := sgrBg + sgrBold + sgrYellow +
			" ◉ LIGHT MODE - move mouse to aim, click to set, Esc to cancel " + sgrReset
		return "", pad(max((width-ansi.StringWidth(msg))/2, 0)) + msg
	}
	if !view.ShowHUD {
		return "", ""
	}

	fps := fmt.Sprintf("%s%s %.0f FPS %s", sgrBg, sgrGreen, timing.FPS, sgrReset)
	title := fmt.Sprintf("%s%s%s %s %s", sgrBold, sgrBg, sgrWhite, h.name, sgrReset)
	polys := fmt.Sprintf("%s%s%s %d/%d tris %s", sgrBg, sgrCyan, sgrBold,
		frame.Rasterized, h.triangles, sgrReset)
	top = spread(width, fps, title, polys)

	check := func(on bool) string {
		if on {
			return "[✓]"
		}
		return "[ ]"
	}
	modes := fmt.Sprintf("%s%s %s Texture  %s X-Ray  %s Culling %s", sgrBg, sgrWhite,
		check(view.Texture), check(view.Wireframe), check(view.Culling), sgrReset)
	hint := fmt.Sprintf("%s%s%s L: position light %s", sgrBg, sgrDim, sgrYellow, sgrReset)
	bottom = spread(width, modes, "", hint)
	return top, bottom
}

// spread places left, center and right segments on one row.
func spread(width int, left, center, right string) string {
	lw, cw, rw := ansi.StringWidth(left), ansi.StringWidth(center), ansi.StringWidth(right)
	var b strings.Builder
	b.WriteString(left)
	col := lw
	if cw > 0 {
		at := max((width-cw)/2, col+1)
		b.WriteString(pad(at - col))
		b.WriteString(center)
		col = at + cw
	}
	at := max(width-rw, col+1)
	b.WriteString(pad(at - col))
	b.WriteString(right)
	return b.String()
}

func pad(n int) string { return strings.Repeat(" ", max(n, 0)) }

// draw renders the overlay rows onto scr.
func (h *hud) draw(scr uv.Screen, area uv.Rectangle, top, bottom string) {
	if top != "" {
		uv.NewStyledString(top).Draw(scr, uv.Rect(area.Min.X, area.Min.Y, area.Dx(), 1))
	}
	if bottom != "" && area.Dy() > 1 {
		uv.NewStyledString(bottom).Draw(scr, uv.Rect(area.Min.X, area.Max.Y-1, area.Dx(), 1))
	}
}
