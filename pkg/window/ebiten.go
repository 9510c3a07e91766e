//go:build cgo

package window

import (
	"errors"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taigrr/ott/pkg/input"
	"github.com/taigrr/ott/pkg/render"
)

// Window is an ebiten game showing the last presented frame.
type Window struct {
	opts Options
	in   *input.State

	pix    []byte
	width  int
	height int
	img    *ebiten.Image

	keys []ebiten.Key
}

var _ render.Presenter = (*Window)(nil)

// New creates a window. Input is written to in.
func New(opts Options, in *input.State) *Window {
	opts = opts.withDefaults()
	return &Window{opts: opts, in: in, width: opts.Width, height: opts.Height}
}

// Size returns the current framebuffer size.
func (w *Window) Size() (width, height int) {
	return w.width, w.height
}

// Present implements render.Presenter. The frame is shown on the next draw.
func (w *Window) Present(fb *render.Framebuffer) error {
	n := len(fb.Pixels) * 4
	if cap(w.pix) < n {
		w.pix = make([]byte, n)
	}
	w.pix = w.pix[:n]
	for i, c := range fb.Pixels {
		j := i * 4
		w.pix[j], w.pix[j+1], w.pix[j+2], w.pix[j+3] = c.R, c.G, c.B, c.A
	}
	if w.img == nil || w.img.Bounds().Dx() != fb.Width || w.img.Bounds().Dy() != fb.Height {
		if w.img != nil {
			w.img.Deallocate()
		}
		w.img = ebiten.NewImage(fb.Width, fb.Height)
	}
	w.img.WritePixels(w.pix)
	return nil
}

// Run opens the window and calls step once per tick until step returns an
// error or the window is closed. ErrQuit ends Run without error.
func (w *Window) Run(step func() error) error {
	ebiten.SetWindowTitle(w.opts.Title)
	ebiten.SetWindowSize(w.opts.Width*w.opts.Scale, w.opts.Height*w.opts.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(w.opts.TPS)
	return ebiten.RunGame(&game{w: w, step: step})
}

type game struct {
	w    *Window
	step func() error
}

func (g *game) Update() error {
	g.w.poll()
	if err := g.step(); err != nil {
		if errors.Is(err, ErrQuit) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.w.img != nil {
		screen.DrawImage(g.w.img, nil)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := g.w
	width := max(outsideWidth/w.opts.Scale, 1)
	height := max(outsideHeight/w.opts.Scale, 1)
	if width != w.width || height != w.height {
		w.width, w.height = width, height
		w.in.Resize(width, height)
	}
	return width, height
}

var keyNames = map[ebiten.Key]string{
	ebiten.KeyA: "a", ebiten.KeyB: "b", ebiten.KeyC: "c", ebiten.KeyD: "d",
	ebiten.KeyE: "e", ebiten.KeyF: "f", ebiten.KeyG: "g", ebiten.KeyH: "h",
	ebiten.KeyI: "i", ebiten.KeyJ: "j", ebiten.KeyK: "k", ebiten.KeyL: "l",
	ebiten.KeyM: "m", ebiten.KeyN: "n", ebiten.KeyO: "o", ebiten.KeyP: "p",
	ebiten.KeyQ: "q", ebiten.KeyR: "r", ebiten.KeyS: "s", ebiten.KeyT: "t",
	ebiten.KeyU: "u", ebiten.KeyV: "v", ebiten.KeyW: "w", ebiten.KeyX: "x",
	ebiten.KeyY: "y", ebiten.KeyZ: "z",

	ebiten.KeyArrowUp:    "up",
	ebiten.KeyArrowDown:  "down",
	ebiten.KeyArrowLeft:  "left",
	ebiten.KeyArrowRight: "right",
	ebiten.KeySpace:      "space",
	ebiten.KeyEscape:     "esc",
	ebiten.KeyEnter:      "enter",
	ebiten.KeyTab:        "tab",
	ebiten.KeyBackspace:  "backspace",
	ebiten.KeyMinus:      "-",
	ebiten.KeyEqual:      "=",
	ebiten.KeyShiftLeft:  "shift",
	ebiten.KeyShiftRight: "shift",
}

var standardAxes = [...]struct {
	axis input.Axis
	std  ebiten.StandardGamepadAxis
}{
	{input.AxisLeftX, ebiten.StandardGamepadAxisLeftStickHorizontal},
	{input.AxisLeftY, ebiten.StandardGamepadAxisLeftStickVertical},
	{input.AxisRightX, ebiten.StandardGamepadAxisRightStickHorizontal},
	{input.AxisRightY, ebiten.StandardGamepadAxisRightStickVertical},
}

func (w *Window) poll() {
	in := w.in

	w.keys = inpututil.AppendJustPressedKeys(w.keys[:0])
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	for _, k := range w.keys {
		name, ok := keyNames[k]
		if !ok {
			continue
		}
		if ctrl {
			in.Trigger("ctrl+" + name)
			continue
		}
		in.PressKey(name)
	}
	w.keys = inpututil.AppendJustReleasedKeys(w.keys[:0])
	for _, k := range w.keys {
		if name, ok := keyNames[k]; ok {
			in.ReleaseKey(name)
		}
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			in.Trigger(string(r))
		}
	}

	x, y := ebiten.CursorPosition()
	in.SetButton(input.ButtonLeft, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	in.SetButton(input.ButtonMiddle, ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle))
	in.SetButton(input.ButtonRight, ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight))
	in.MoveMouse(x, y)
	if _, dy := ebiten.Wheel(); dy > 0 {
		in.Scroll(1)
	} else if dy < 0 {
		in.Scroll(-1)
	}

	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 || !ebiten.IsStandardGamepadLayoutAvailable(ids[0]) {
		return
	}
	for _, a := range standardAxes {
		in.SetAxis(a.axis, ebiten.StandardGamepadAxisValue(ids[0], a.std))
	}
}
