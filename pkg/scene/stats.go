package scene

import "log/slog"

// FrameStats counts what happened to objects and triangles in one frame.
type FrameStats struct {
	Objects       int
	ObjectsHidden int
	ObjectsCulled int // whole object outside the view frustum

	Triangles  int // considered for drawing
	Clipped    int // a vertex failed projection
	BackFaces  int
	Degenerate int // no vertical extent, off screen, or a degenerate fit
	Rasterized int
	Pixels     int // depth test passes
}

// LogValue implements slog.LogValuer.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("objects", s.Objects),
		slog.Int("hidden", s.ObjectsHidden),
		slog.Int("culled", s.ObjectsCulled),
		slog.Int("triangles", s.Triangles),
		slog.Int("clipped", s.Clipped),
		slog.Int("backfaces", s.BackFaces),
		slog.Int("degenerate", s.Degenerate),
		slog.Int("rasterized", s.Rasterized),
		slog.Int("pixels", s.Pixels),
	)
}

// Add accumulates o into s.
func (s FrameStats) Add(o FrameStats) FrameStats {
	s.Objects += o.Objects
	s.ObjectsHidden += o.ObjectsHidden
	s.ObjectsCulled += o.ObjectsCulled
	s.Triangles += o.Triangles
	s.Clipped += o.Clipped
	s.BackFaces += o.BackFaces
	s.Degenerate += o.Degenerate
	s.Rasterized += o.Rasterized
	s.Pixels += o.Pixels
	return s
}
