package render

import (
	"github.com/taigrr/ott/pkg/math3d"
)

// Wireframe draws unshaded edges through the same viewing-plane projection
// the rasterizer uses.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{camera: camera, fb: fb}
}

// DrawLine3D draws a world-space segment. Segments with an endpoint at or
// behind the camera are skipped.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, c Color) {
	sx1, sy1, _, ok1 := w.camera.ProjectPoint(p1)
	sx2, sy2, _, ok2 := w.camera.ProjectPoint(p2)
	if !ok1 || !ok2 {
		return
	}
	x1, y1 := ToPixel(sx1, sy1, w.fb.Width, w.fb.Height)
	x2, y2 := ToPixel(sx2, sy2, w.fb.Width, w.fb.Height)
	w.fb.DrawSegment(x1, y1, x2, y2, c)
}

// DrawPolygon outlines p using its vertices' projection caches.
func (w *Wireframe) DrawPolygon(p *Polygon, c Color) {
	for i := range 3 {
		a, b := p.V[i].Proj, p.V[(i+1)%3].Proj
		if !a.Visible || !b.Visible {
			continue
		}
		w.fb.DrawSegment(a.PX, a.PY, b.PX, b.PY, c)
	}
}

// DrawAxes draws the world X, Y and Z axes from the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen)
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)
}

// DrawGrid draws a grid on the XZ plane at y=0.
func (w *Wireframe) DrawGrid(size, step float64, c Color) {
	half := size / 2
	for x := -half; x <= half; x += step {
		w.DrawLine3D(math3d.V3(x, 0, -half), math3d.V3(x, 0, half), c)
	}
	for z := -half; z <= half; z += step {
		w.DrawLine3D(math3d.V3(-half, 0, z), math3d.V3(half, 0, z), c)
	}
}
