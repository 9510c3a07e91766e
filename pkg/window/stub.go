//go:build !cgo

package window

import (
	"github.com/taigrr/ott/pkg/input"
	"github.com/taigrr/ott/pkg/render"
)

// Window is unavailable without cgo.
type Window struct {
	opts Options
}

// New returns a window whose Run always fails.
func New(opts Options, _ *input.State) *Window {
	return &Window{opts: opts.withDefaults()}
}

// Size returns the configured framebuffer size.
func (w *Window) Size() (width, height int) {
	return w.opts.Width, w.opts.Height
}

// Present implements render.Presenter.
func (w *Window) Present(*render.Framebuffer) error { return ErrUnavailable }

// Run reports ErrUnavailable.
func (w *Window) Run(func() error) error { return ErrUnavailable }
