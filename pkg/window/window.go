// Package window presents frames in a desktop window and feeds keyboard,
// mouse and gamepad polling into an input.State. The window needs cgo;
// without it Run reports ErrUnavailable.
package window

import "errors"

var (
	// ErrQuit stops Run cleanly when returned from a step function.
	ErrQuit = errors.New("window: quit")

	// ErrUnavailable is returned by builds without window support.
	ErrUnavailable = errors.New("window: requires cgo (build with CGO_ENABLED=1)")
)

// Options configure a window.
type Options struct {
	Title string
	// Width and Height are the framebuffer size in pixels.
	Width, Height int
	// Scale is the number of screen pixels per framebuffer pixel.
	Scale int
	// TPS is the update rate.
	TPS int
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "ott"
	}
	if o.Width <= 0 {
		o.Width = 320
	}
	if o.Height <= 0 {
		o.Height = 240
	}
	if o.Scale <= 0 {
		o.Scale = 2
	}
	if o.TPS <= 0 {
		o.TPS = 60
	}
	return o
}
