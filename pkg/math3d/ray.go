package math3d

// Plane is a point on the plane plus its unit normal.
type Plane struct {
	Pos  Vec3
	Norm Vec3
}

// NewPlane creates a plane through pos, normalizing norm.
func NewPlane(pos, norm Vec3) Plane {
	return Plane{Pos: pos, Norm: norm.Normalize()}
}

// SignedDistance returns the distance from p to the plane, positive on the
// side the normal points to.
func (p Plane) SignedDistance(v Vec3) float64 {
	return v.Sub(p.Pos).Dot(p.Norm)
}

// Ray is an origin plus a unit direction.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// NewRay creates a ray from origin, normalizing dir.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// IntersectPlane intersects the ray's supporting line with p. The hit may lie
// behind the origin (t < 0); ok is false only when the ray is parallel to
// the plane.
func (r Ray) IntersectPlane(p Plane) (hit Vec3, t float64, ok bool) {
	denom := r.Dir.Dot(p.Norm)
	if denom == 0 {
		return Vec3{}, 0, false
	}
	t = p.Pos.Sub(r.Origin).Dot(p.Norm) / denom
	return r.At(t), t, true
}
