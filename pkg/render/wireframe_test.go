package render

import (
	"testing"

	"github.com/taigrr/ott/pkg/math3d"
)

func TestWireframeDrawLine3D(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math3d.V3(0, 0, -5))
	fb := NewFramebuffer(40, 40)
	w := NewWireframe(c, fb)

	// a horizontal segment through the view center lands on the middle row
	w.DrawLine3D(math3d.V3(-1, 0, 0), math3d.V3(1, 0, 0), ColorWhite)
	if fb.GetPixel(20, 20) != ColorWhite {
		t.Error("center pixel not drawn")
	}
	if fb.GetPixel(20, 5) == ColorWhite {
		t.Error("unexpected pixel off the line")
	}

	// segments crossing behind the camera are skipped
	fb.Clear(ColorBlack)
	w.DrawLine3D(math3d.V3(0, 0, -10), math3d.V3(0, 0, 0), ColorWhite)
	for i, p := range fb.Pixels {
		if p == ColorWhite {
			t.Fatalf("pixel %d drawn for a segment behind the camera", i)
		}
	}
}
