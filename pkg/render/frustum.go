package render

import "github.com/taigrr/ott/pkg/math3d"

// clipPlane is a plane equation n·p + d = 0 with n pointing into the frustum.
type clipPlane struct {
	n math3d.Vec3
	d float64
}

func (p clipPlane) distance(v math3d.Vec3) float64 {
	return p.n.Dot(v) + p.d
}

// Frustum is the six inward-facing planes of a view volume, ordered left,
// right, bottom, top, near, far.
type Frustum struct {
	planes [6]clipPlane
}

// NewFrustumFromMatrix extracts the frustum of a view-projection matrix
// using the Gribb/Hartmann row combinations.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	eqs := [6]math3d.Vec4{
		r3.Add(r0), r3.Sub(r0),
		r3.Add(r1), r3.Sub(r1),
		r3.Add(r2), r3.Sub(r2),
	}

	var f Frustum
	for i, e := range eqs {
		n := e.Vec3()
		l := n.Len()
		if l == 0 {
			continue
		}
		f.planes[i] = clipPlane{n: n.Div(l), d: e.W / l}
	}
	return f
}

// ContainsPoint reports whether p is inside every plane.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, pl := range f.planes {
		if pl.distance(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectAABB reports whether any part of box may be visible. It tests the
// corner furthest along each plane normal, so it can return false positives
// near frustum corners but never false negatives.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, pl := range f.planes {
		pv := math3d.V3(
			pick(pl.n.X >= 0, box.Max.X, box.Min.X),
			pick(pl.n.Y >= 0, box.Max.Y, box.Min.Y),
			pick(pl.n.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if pl.distance(pv) < 0 {
			return false
		}
	}
	return true
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// BoundPoints returns the smallest box containing pts. It is empty (Min > Max)
// when pts is empty.
func BoundPoints(pts ...math3d.Vec3) AABB {
	if len(pts) == 0 {
		return AABB{Min: math3d.V3(1, 1, 1), Max: math3d.V3(-1, -1, -1)}
	}
	box := AABB{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box
}

// Empty reports whether the box contains no points.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Center returns the center of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box dimensions.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}
