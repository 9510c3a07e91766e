//go:build !gl

package gpu

import (
	"github.com/taigrr/ott/pkg/render"
	"github.com/taigrr/ott/pkg/scene"
)

// Renderer is unavailable without the gl tag.
type Renderer struct{}

// NewRenderer reports ErrUnavailable.
func NewRenderer(Options) (*Renderer, error) { return nil, ErrUnavailable }

// Size returns zero.
func (r *Renderer) Size() (width, height int) { return 0, 0 }

// ShouldClose reports true.
func (r *Renderer) ShouldClose() bool { return true }

// PollEvents does nothing.
func (r *Renderer) PollEvents() {}

// DrawScene reports ErrUnavailable.
func (r *Renderer) DrawScene(*scene.Scene) (int, error) { return 0, ErrUnavailable }

// Present reports ErrUnavailable.
func (r *Renderer) Present(*render.Framebuffer) error { return ErrUnavailable }

// Close does nothing.
func (r *Renderer) Close() {}
