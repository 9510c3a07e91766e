package render

import (
	"fmt"
	"strings"
)

// Presenter shows a finished frame.
type Presenter interface {
	Present(fb *Framebuffer) error
}

// PNGPresenter writes each frame to a PNG file. If Pattern contains a
// format verb it receives the frame number (e.g. "frame-%04d.png");
// otherwise every frame overwrites the same file.
type PNGPresenter struct {
	Pattern string
	frame   int
}

// NewPNGPresenter creates a presenter writing to pattern.
func NewPNGPresenter(pattern string) *PNGPresenter {
	return &PNGPresenter{Pattern: pattern}
}

// Present implements Presenter.
func (p *PNGPresenter) Present(fb *Framebuffer) error {
	path := p.Pattern
	if strings.Contains(path, "%") {
		path = fmt.Sprintf(path, p.frame)
	}
	p.frame++
	if err := fb.SavePNG(path); err != nil {
		return fmt.Errorf("save frame %s: %w", path, err)
	}
	return nil
}

// Frames returns how many frames have been presented.
func (p *PNGPresenter) Frames() int {
	return p.frame
}
