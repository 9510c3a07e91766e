package render

import (
	"errors"

	"github.com/taigrr/ott/pkg/math3d"
)

// ErrNilVertex is returned when a polygon is built from a nil vertex.
var ErrNilVertex = errors.New("render: polygon vertex is nil")

// Transform places geometry in the world: p' = Offset + Rotation·(Scale·p).
type Transform struct {
	Offset   math3d.Vec3
	Rotation math3d.Mat3
	Scale    float64
}

// IdentityTransform leaves geometry where it is.
func IdentityTransform() Transform {
	return Transform{Rotation: math3d.Mat3Identity(), Scale: 1}
}

// Apply transforms a point.
func (t Transform) Apply(p math3d.Vec3) math3d.Vec3 {
	return t.Offset.Add(t.Rotation.MulVec3(p.Scale(t.Scale)))
}

// ApplyDir rotates a direction. Uniform scale does not change directions.
func (t Transform) ApplyDir(n math3d.Vec3) math3d.Vec3 {
	return t.Rotation.MulVec3(n)
}

// Compose returns the transform that applies child first, then t.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		Offset:   t.Apply(child.Offset),
		Rotation: t.Rotation.Mul(child.Rotation),
		Scale:    t.Scale * child.Scale,
	}
}

// Mat4 returns the transform as a model matrix.
func (t Transform) Mat4() math3d.Mat4 {
	return math3d.TRS(t.Offset, t.Rotation, t.Scale)
}

// Projection is a vertex's per-frame screen cache.
type Projection struct {
	PX, PY  float64 // pixel space, origin top left
	SX, SY  float64 // NDC
	Z       float64 // camera depth
	Visible bool
}

// Vertex is an object-space point with optional normal and texture
// coordinate. It borrows its owner's world Transform; the owner outlives it.
type Vertex struct {
	Pos0      math3d.Vec3
	Normal    math3d.Vec3
	HasNormal bool
	UV        math3d.Vec2

	Proj Projection

	transform   *Transform
	world       math3d.Vec3
	worldNormal math3d.Vec3
}

// NewVertex creates a vertex bound to t. A zero normal means "none".
func NewVertex(pos, normal math3d.Vec3, uv math3d.Vec2, t *Transform) *Vertex {
	v := &Vertex{
		Pos0:      pos,
		Normal:    normal.Normalize(),
		HasNormal: normal.LenSq() > 0,
		UV:        uv,
		transform: t,
	}
	v.Refresh()
	return v
}

// Refresh recomputes the cached world position and normal from the bound
// transform. Call after the transform changes.
func (v *Vertex) Refresh() {
	if v.transform == nil {
		v.world, v.worldNormal = v.Pos0, v.Normal
		return
	}
	v.world = v.transform.Apply(v.Pos0)
	v.worldNormal = v.transform.ApplyDir(v.Normal)
}

// World returns the world-space position as of the last Refresh.
func (v *Vertex) World() math3d.Vec3 { return v.world }

// WorldNormal returns the world-space normal as of the last Refresh.
func (v *Vertex) WorldNormal() math3d.Vec3 { return v.worldNormal }

// Polygon is a triangle over three shared vertices plus its supporting plane.
// The normal follows the authored winding: (v1-v0)×(v2-v0), which faces the
// viewer when the vertices appear clockwise on screen.
type Polygon struct {
	V     [3]*Vertex
	plane math3d.Plane
}

// NewPolygon creates a polygon and computes its plane.
func NewPolygon(a, b, c *Vertex) (*Polygon, error) {
	if a == nil || b == nil || c == nil {
		return nil, ErrNilVertex
	}
	p := &Polygon{V: [3]*Vertex{a, b, c}}
	p.Update()
	return p, nil
}

// Update recomputes the supporting plane from the vertices' world positions.
func (p *Polygon) Update() {
	w0, w1, w2 := p.V[0].World(), p.V[1].World(), p.V[2].World()
	center := w0.Add(w1).Add(w2).Scale(1.0 / 3)
	normal := w1.Sub(w0).Cross(w2.Sub(w0)).Normalize()
	p.plane = math3d.Plane{Pos: center, Norm: normal}
}

// Plane returns the supporting plane (center and unit normal).
func (p *Polygon) Plane() math3d.Plane { return p.plane }

// Center returns the centroid in world space.
func (p *Polygon) Center() math3d.Vec3 { return p.plane.Pos }

// Normal returns the unit face normal, or zero for a degenerate triangle.
func (p *Polygon) Normal() math3d.Vec3 { return p.plane.Norm }
