// Package scene owns renderable objects and drives the per-frame software
// pipeline: transform, project, cull, light and fill.
package scene

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/taigrr/ott/pkg/render"
)

// Scene holds the camera, lights and object tree for one view.
type Scene struct {
	Camera *render.Camera
	Lights []render.LightSource

	// Background clears the framebuffer before each frame.
	Background render.Color

	// Culling discards triangles facing away from the camera.
	Culling bool

	// Wireframe outlines triangles instead of filling them.
	Wireframe bool
	WireColor render.Color

	log     *slog.Logger
	objects arena
	order   []Handle
	stats   FrameStats
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the scene logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scene) { s.log = l }
}

// WithBackground sets the clear color.
func WithBackground(c render.Color) Option {
	return func(s *Scene) { s.Background = c }
}

// New creates an empty scene viewed through cam.
func New(cam *render.Camera, opts ...Option) *Scene {
	s := &Scene{
		Camera:     cam,
		Background: render.ColorBlack,
		Culling:    true,
		WireColor:  render.ColorWhite,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddLight appends a light source.
func (s *Scene) AddLight(l render.LightSource) {
	s.Lights = append(s.Lights, l)
}

// Add inserts a root object.
func (s *Scene) Add(o *Object) Handle {
	h := s.objects.insert(o)
	o.handle = h
	o.parent = Handle{}
	s.order = append(s.order, h)
	return h
}

// AddChild inserts o under parent. The child's Local transform is relative
// to the parent's world transform.
func (s *Scene) AddChild(parent Handle, o *Object) (Handle, error) {
	p, ok := s.objects.get(parent)
	if !ok {
		return Handle{}, fmt.Errorf("add child %q: %w", o.Name, ErrStaleHandle)
	}
	h := s.Add(o)
	o.parent = parent
	p.children = append(p.children, h)
	return h, nil
}

// Object resolves a handle.
func (s *Scene) Object(h Handle) (*Object, error) {
	o, ok := s.objects.get(h)
	if !ok {
		return nil, ErrStaleHandle
	}
	return o, nil
}

// Remove deletes the object and its whole subtree. Handles into the subtree
// go stale.
func (s *Scene) Remove(h Handle) error {
	o, ok := s.objects.get(h)
	if !ok {
		return ErrStaleHandle
	}
	if p, ok := s.objects.get(o.parent); ok {
		for i, c := range p.children {
			if c == h {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}

	removed := make(map[Handle]bool)
	var drop func(h Handle)
	drop = func(h Handle) {
		o, ok := s.objects.get(h)
		if !ok {
			return
		}
		for _, c := range o.children {
			drop(c)
		}
		s.objects.remove(h)
		o.handle, o.parent, o.children = Handle{}, Handle{}, nil
		removed[h] = true
	}
	drop(h)

	kept := s.order[:0]
	for _, oh := range s.order {
		if !removed[oh] {
			kept = append(kept, oh)
		}
	}
	s.order = kept
	return nil
}

// Len returns the number of objects in the scene.
func (s *Scene) Len() int { return len(s.order) }

// All yields every object in insertion order. Parents precede children.
func (s *Scene) All() iter.Seq2[Handle, *Object] {
	return func(yield func(Handle, *Object) bool) {
		for _, h := range s.order {
			o, ok := s.objects.get(h)
			if !ok {
				continue
			}
			if !yield(h, o) {
				return
			}
		}
	}
}

// Build builds every object that has not been built yet. Texture paths that
// fail to load fall back to a checker texture with a warning.
func (s *Scene) Build() error {
	for _, o := range s.All() {
		if err := s.build(o); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) build(o *Object) error {
	if o.built {
		return nil
	}
	if err := o.Build(); err != nil {
		return err
	}
	if o.Texture == nil && o.TexturePath != "" {
		tex, err := render.LoadTexture(o.TexturePath)
		if err != nil {
			s.log.Warn("texture load failed, using checker",
				"object", o.Name, "path", o.TexturePath, "error", err)
			tex = render.NewCheckerTexture(64, 64, 8, render.ColorWhite, render.ColorGray)
		}
		o.Texture = tex
	}
	s.log.Debug("object built", "object", o.Name,
		"vertices", len(o.vertices), "triangles", len(o.polygons))
	return nil
}

// Stats returns the counters from the last Render.
func (s *Scene) Stats() FrameStats { return s.stats }

// updateTransforms recomputes world transforms down the parent chain.
func (s *Scene) updateTransforms() {
	for _, o := range s.All() {
		world := o.Local
		hidden := o.Hidden
		if p, ok := s.objects.get(o.parent); ok {
			world = p.world.Compose(o.Local)
			hidden = hidden || p.treeHidden
		}
		o.treeHidden = hidden
		o.setWorld(world)
	}
}

// Update builds pending objects and recomputes world transforms. Objects
// that fail to build are logged and hidden. Render calls it; other
// renderers call it before reading Object.World.
func (s *Scene) Update() {
	for _, o := range s.All() {
		if o.Hidden {
			continue
		}
		if err := s.build(o); err != nil {
			s.log.Error("object build failed, hiding", "object", o.Name, "error", err)
			o.Hidden = true
		}
	}
	s.updateTransforms()
}

// Render draws one frame into fb. depth is resized to match fb and cleared.
// Objects that fail to build are logged and skipped.
func (s *Scene) Render(fb *render.Framebuffer, depth *render.DepthBuffer) FrameStats {
	var st FrameStats
	width, height := fb.Size()
	fb.Clear(s.Background)
	depth.Resize(width, height)
	depth.Clear()

	s.Update()

	frustum := s.Camera.Frustum()
	var wf *render.Wireframe
	if s.Wireframe {
		wf = render.NewWireframe(s.Camera, fb)
	}

	for _, o := range s.All() {
		st.Objects++
		if o.treeHidden {
			st.ObjectsHidden++
			continue
		}
		if len(o.vertices) > 0 && !frustum.IntersectAABB(o.worldBounds()) {
			st.ObjectsCulled++
			continue
		}
		for _, v := range o.vertices {
			s.Camera.ProjectVertex(v, width, height)
		}
		for _, p := range o.polygons {
			st.Triangles++
			s.drawPolygon(o, p, fb, depth, wf, &st)
		}
	}

	s.stats = st
	s.log.Debug("frame rendered", "stats", st)
	return st
}

func (s *Scene) drawPolygon(o *Object, p *render.Polygon, fb *render.Framebuffer, depth *render.DepthBuffer, wf *render.Wireframe, st *FrameStats) {
	for _, v := range p.V {
		if !v.Proj.Visible {
			st.Clipped++
			return
		}
	}
	if s.Culling && !s.Camera.CheckCulling(p) {
		st.BackFaces++
		return
	}
	if wf != nil {
		wf.DrawPolygon(p, s.WireColor)
		st.Rasterized++
		return
	}

	t := render.NewPixelTriplet(p)
	t.Smooth = o.Smooth
	if !t.SortVertical(depth.Height) {
		st.Degenerate++
		return
	}
	for _, l := range s.Lights {
		t.ComputeVertexLighting(l)
	}
	var albedo [3]render.Light
	for i, v := range t.V {
		albedo[i] = o.Albedo(v)
	}
	if !t.Finalize(albedo) {
		st.Degenerate++
		return
	}
	st.Rasterized++
	st.Pixels += render.Fill(t, fb, depth)
}
