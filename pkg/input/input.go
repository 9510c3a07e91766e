// Package input collects keyboard, mouse and gamepad state from terminal
// events or window polling and hands it to the frame loop once per frame.
package input

import (
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
)

// Key names follow ultraviolet keystrokes: "w", "up", "space", "esc",
// "ctrl+c". Printable keys also match by their text, such as "?" or "+".

// Keyboard reports key state.
type Keyboard interface {
	// Held reports whether the key, ignoring modifiers, is down.
	Held(key string) bool
	// Pressed reports whether the key went down during the last frame.
	Pressed(key string) bool
}

// Button is a mouse button.
type Button int

// Mouse buttons.
const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	numButtons
)

// Mouse reports pointer state in surface cells.
type Mouse interface {
	Position() (x, y int)
	ButtonHeld(b Button) bool
	// Wheel returns scroll steps during the last frame, positive away from
	// the user.
	Wheel() int
	// Drag returns pointer movement with any button held during the last
	// frame.
	Drag() (dx, dy int)
}

// Axis is an analog control in [-1, 1].
type Axis int

// Gamepad axes.
const (
	AxisLeftX Axis = iota
	AxisLeftY
	AxisRightX
	AxisRightY
	numAxes
)

// Gamepad reports analog axes.
type Gamepad interface {
	Axis(a Axis) float64
}

// DefaultHoldTimeout is how long a key counts as held after its last press
// or repeat when the source never reports releases.
const DefaultHoldTimeout = 150 * time.Millisecond

// State accumulates input from any goroutine. The frame loop takes a
// Snapshot once per frame with Frame.
type State struct {
	// HoldTimeout applies until the first key release is seen.
	HoldTimeout time.Duration

	mu       sync.Mutex
	now      func() time.Time
	releases bool
	held     map[string]time.Time
	pressed  map[string]bool
	x, y     int
	buttons  [numButtons]bool
	wheel    int
	dx, dy   int
	axes     [numAxes]float64
	resized  bool
	width    int
	height   int
}

var (
	_ Keyboard = (*State)(nil)
	_ Mouse    = (*State)(nil)
	_ Gamepad  = (*State)(nil)
)

// NewState creates an empty input state.
func NewState() *State {
	return &State{
		HoldTimeout: DefaultHoldTimeout,
		now:         time.Now,
		held:        make(map[string]time.Time),
		pressed:     make(map[string]bool),
	}
}

// HandleEvent ingests an ultraviolet event. Unknown events are ignored.
func (s *State) HandleEvent(ev uv.Event) {
	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		k := uv.Key(ev)
		s.press(baseName(k), k.Keystroke(), k.String())
	case uv.KeyReleaseEvent:
		s.ReleaseKey(baseName(uv.Key(ev)))
	case uv.MouseClickEvent:
		s.mouseButton(ev.Button, ev.X, ev.Y, true)
	case uv.MouseReleaseEvent:
		s.mouseButton(ev.Button, ev.X, ev.Y, false)
	case uv.MouseMotionEvent:
		s.MoveMouse(ev.X, ev.Y)
	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			s.Scroll(1)
		case uv.MouseWheelDown:
			s.Scroll(-1)
		}
	case uv.WindowSizeEvent:
		s.Resize(ev.Width, ev.Height)
	}
}

// baseName is the keystroke without modifiers.
func baseName(k uv.Key) string {
	return uv.Key{Code: k.Code, BaseCode: k.BaseCode, Text: k.Text}.Keystroke()
}

func (s *State) press(base string, names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held[base] = s.now()
	s.pressed[base] = true
	for _, n := range names {
		if n != "" {
			s.pressed[n] = true
		}
	}
}

// PressKey marks a key as pressed and held.
func (s *State) PressKey(key string) { s.press(key) }

// Trigger reports a press edge for name without marking it held. Window
// backends use it for typed characters and shortcuts.
func (s *State) Trigger(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed[name] = true
}

// ReleaseKey marks a key as released. From then on held keys no longer
// time out.
func (s *State) ReleaseKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases = true
	delete(s.held, key)
}

func (s *State) mouseButton(b uv.MouseButton, x, y int, down bool) {
	var btn Button
	switch b {
	case uv.MouseLeft:
		btn = ButtonLeft
	case uv.MouseMiddle:
		btn = ButtonMiddle
	case uv.MouseRight:
		btn = ButtonRight
	default:
		// Release events often carry no button.
		if !down {
			s.mu.Lock()
			s.buttons = [numButtons]bool{}
			s.x, s.y = x, y
			s.mu.Unlock()
		}
		return
	}
	s.MoveMouse(x, y)
	s.SetButton(btn, down)
}

// SetButton sets a mouse button state.
func (s *State) SetButton(b Button, down bool) {
	if b < 0 || b >= numButtons {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buttons[b] = down
}

// MoveMouse moves the pointer, accumulating drag while a button is down.
func (s *State) MoveMouse(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, down := range s.buttons {
		if down {
			s.dx += x - s.x
			s.dy += y - s.y
			break
		}
	}
	s.x, s.y = x, y
}

// Scroll adds wheel steps.
func (s *State) Scroll(steps int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wheel += steps
}

// SetAxis sets an analog axis, clamped to [-1, 1].
func (s *State) SetAxis(a Axis, v float64) {
	if a < 0 || a >= numAxes {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.axes[a] = max(-1, min(1, v))
}

// Resize records a new surface size.
func (s *State) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resized, s.width, s.height = true, width, height
}

func (s *State) heldLocked(key string) bool {
	t, ok := s.held[key]
	if !ok {
		return false
	}
	return s.releases || s.now().Sub(t) <= s.HoldTimeout
}

// Held implements Keyboard on live state.
func (s *State) Held(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heldLocked(key)
}

// Pressed implements Keyboard on live state.
func (s *State) Pressed(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pressed[key]
}

// Position implements Mouse.
func (s *State) Position() (x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.x, s.y
}

// ButtonHeld implements Mouse.
func (s *State) ButtonHeld(b Button) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return b >= 0 && b < numButtons && s.buttons[b]
}

// Wheel implements Mouse.
func (s *State) Wheel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wheel
}

// Drag implements Mouse.
func (s *State) Drag() (dx, dy int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dx, s.dy
}

// Axis implements Gamepad.
func (s *State) Axis(a Axis) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a < 0 || a >= numAxes {
		return 0
	}
	return s.axes[a]
}

// Frame returns the input for the frame that just ended and clears
// per-frame edges: presses, wheel, drag and resize.
func (s *State) Frame() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		held:    make(map[string]bool, len(s.held)),
		pressed: s.pressed,
		x:       s.x,
		y:       s.y,
		buttons: s.buttons,
		wheel:   s.wheel,
		dx:      s.dx,
		dy:      s.dy,
		axes:    s.axes,
	}
	for k := range s.held {
		if s.heldLocked(k) {
			snap.held[k] = true
		} else {
			delete(s.held, k)
		}
	}
	if s.resized {
		snap.Resized, snap.Width, snap.Height = true, s.width, s.height
	}

	s.pressed = make(map[string]bool)
	s.wheel, s.dx, s.dy = 0, 0, 0
	s.resized = false
	return snap
}

// Snapshot is an immutable view of one frame's input.
type Snapshot struct {
	// Resized is set when the surface changed size during the frame.
	Resized       bool
	Width, Height int

	held    map[string]bool
	pressed map[string]bool
	x, y    int
	buttons [numButtons]bool
	wheel   int
	dx, dy  int
	axes    [numAxes]float64
}

var (
	_ Keyboard = Snapshot{}
	_ Mouse    = Snapshot{}
	_ Gamepad  = Snapshot{}
)

// Held implements Keyboard.
func (s Snapshot) Held(key string) bool { return s.held[key] }

// Pressed implements Keyboard.
func (s Snapshot) Pressed(key string) bool { return s.pressed[key] }

// AnyPressed reports whether any of the keys was pressed.
func (s Snapshot) AnyPressed(keys ...string) bool {
	for _, k := range keys {
		if s.pressed[k] {
			return true
		}
	}
	return false
}

// AnyHeld reports whether any of the keys is held.
func (s Snapshot) AnyHeld(keys ...string) bool {
	for _, k := range keys {
		if s.held[k] {
			return true
		}
	}
	return false
}

// Position implements Mouse.
func (s Snapshot) Position() (x, y int) { return s.x, s.y }

// ButtonHeld implements Mouse.
func (s Snapshot) ButtonHeld(b Button) bool {
	return b >= 0 && b < numButtons && s.buttons[b]
}

// Wheel implements Mouse.
func (s Snapshot) Wheel() int { return s.wheel }

// Drag implements Mouse.
func (s Snapshot) Drag() (dx, dy int) { return s.dx, s.dy }

// Axis implements Gamepad.
func (s Snapshot) Axis(a Axis) float64 {
	if a < 0 || a >= numAxes {
		return 0
	}
	return s.axes[a]
}
