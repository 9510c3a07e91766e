package scene

import (
	"fmt"

	"github.com/taigrr/ott/pkg/math3d"
	"github.com/taigrr/ott/pkg/render"
)

// ErrVertexIndex is returned when a triangle references a missing vertex.
var ErrVertexIndex = fmt.Errorf("scene: vertex index out of range")

// MeshSource is any loader output that can populate an Object: a list of
// (position, normal, uv) vertices plus triangle index triples.
type MeshSource interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BuildFunc populates an object's geometry. It runs once, on first Build.
type BuildFunc func(o *Object) error

// Object is a node in the scene: geometry plus a transform relative to its
// parent. The Scene owns objects; an object refers to its parent and
// children only by Handle.
type Object struct {
	Name string

	// Local places the object relative to its parent (or the world for roots).
	Local render.Transform

	// Color is the albedo used when Texture is nil.
	Color render.Light

	// Texture, if set, supplies per-vertex albedo from vertex UVs.
	Texture *render.Texture

	// TexturePath is loaded into Texture when the object is first built.
	TexturePath string

	// Smooth shades with per-vertex normals where the geometry has them.
	Smooth bool

	// Hidden skips the object and its subtree when rendering.
	Hidden bool

	// OnUserBuild populates geometry on first Build.
	OnUserBuild BuildFunc

	vertices []*render.Vertex
	polygons []*render.Polygon
	bounds   render.AABB
	built    bool

	// world is recomputed by the scene every frame; vertices borrow it.
	world      render.Transform
	treeHidden bool

	handle   Handle
	parent   Handle
	children []Handle
}

// NewObject creates an unbuilt, white object at the parent's origin.
func NewObject(name string) *Object {
	return &Object{
		Name:  name,
		Local: render.IdentityTransform(),
		Color: render.White,
		world: render.IdentityTransform(),
	}
}

// FromMesh creates an object that loads m on first Build.
func FromMesh(name string, m MeshSource) *Object {
	o := NewObject(name)
	o.OnUserBuild = func(o *Object) error { return o.LoadMesh(m) }
	return o
}

// AddVertex appends a vertex and returns its index. A zero normal means the
// vertex has none and the face normal is used for lighting.
func (o *Object) AddVertex(pos, normal math3d.Vec3, uv math3d.Vec2) int {
	o.vertices = append(o.vertices, render.NewVertex(pos, normal, uv, &o.world))
	return len(o.vertices) - 1
}

// AddTriangle appends a triangle over three existing vertices. The winding
// should be clockwise when the front face is viewed.
func (o *Object) AddTriangle(a, b, c int) error {
	n := len(o.vertices)
	for _, i := range [3]int{a, b, c} {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: %d (have %d)", ErrVertexIndex, i, n)
		}
	}
	p, err := render.NewPolygon(o.vertices[a], o.vertices[b], o.vertices[c])
	if err != nil {
		return err
	}
	o.polygons = append(o.polygons, p)
	return nil
}

// LoadMesh appends m's vertices and triangles.
func (o *Object) LoadMesh(m MeshSource) error {
	base := len(o.vertices)
	for i := range m.VertexCount() {
		o.AddVertex(m.GetVertex(i))
	}
	for i := range m.TriangleCount() {
		f := m.GetFace(i)
		if err := o.AddTriangle(base+f[0], base+f[1], base+f[2]); err != nil {
			return fmt.Errorf("mesh face %d: %w", i, err)
		}
	}
	return nil
}

// Build runs OnUserBuild once. Later calls are no-ops. If the callback fails
// the geometry it added is discarded and Build may be retried.
func (o *Object) Build() error {
	if o.built {
		return nil
	}
	nv, np := len(o.vertices), len(o.polygons)
	if o.OnUserBuild != nil {
		if err := o.OnUserBuild(o); err != nil {
			o.vertices, o.polygons = o.vertices[:nv], o.polygons[:np]
			return fmt.Errorf("build %s: %w", o.Name, err)
		}
	}

	pts := make([]math3d.Vec3, len(o.vertices))
	for i, v := range o.vertices {
		pts[i] = v.Pos0
	}
	o.bounds = render.BoundPoints(pts...)
	o.built = true
	return nil
}

// Built reports whether Build has completed.
func (o *Object) Built() bool { return o.built }

// Vertices returns the object's vertices. The slice must not be modified.
func (o *Object) Vertices() []*render.Vertex { return o.vertices }

// Polygons returns the object's triangles. The slice must not be modified.
func (o *Object) Polygons() []*render.Polygon { return o.polygons }

// Bounds returns the object-space bounding box computed at Build.
func (o *Object) Bounds() render.AABB { return o.bounds }

// World returns the world transform as of the last rendered frame.
func (o *Object) World() render.Transform { return o.world }

// Visible reports whether neither o nor any ancestor was hidden as of the
// last Scene.Update.
func (o *Object) Visible() bool { return !o.treeHidden }

// Handle returns the object's handle, or the zero Handle if it is not in a
// scene.
func (o *Object) Handle() Handle { return o.handle }

// Parent returns the parent handle and whether the object has one.
func (o *Object) Parent() (Handle, bool) { return o.parent, !o.parent.IsZero() }

// Children returns the handles of the object's direct children.
func (o *Object) Children() []Handle {
	return append([]Handle(nil), o.children...)
}

// setWorld updates the world transform and everything derived from it.
func (o *Object) setWorld(t render.Transform) {
	o.world = t
	for _, v := range o.vertices {
		v.Refresh()
	}
	for _, p := range o.polygons {
		p.Update()
	}
}

// worldBounds returns the world-space box around the transformed object box.
func (o *Object) worldBounds() render.AABB {
	b := o.bounds
	var corners [8]math3d.Vec3
	for i := range corners {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		corners[i] = o.world.Apply(c)
	}
	return render.BoundPoints(corners[:]...)
}

// Albedo returns the surface color at v.
func (o *Object) Albedo(v *render.Vertex) render.Light {
	if o.Texture != nil {
		return o.Texture.SampleLight(v.UV)
	}
	return o.Color
}
