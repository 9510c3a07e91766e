package render

import (
	"math"

	"github.com/taigrr/ott/pkg/math3d"
)

// LightSource contributes color to a vertex. Lighting is evaluated once per
// vertex per triangle and interpolated across the triangle's pixels.
type LightSource interface {
	// Enabled reports whether the light is switched on.
	Enabled() bool

	// Color returns the light arriving at v for a surface with unit normal n.
	Color(v *Vertex, n math3d.Vec3) Light
}

// LightBase holds the state every light shares.
type LightBase struct {
	Name string

	// On is whether the light is switched on.
	On bool

	// Brightness multiplies Tint; 1 is full intensity.
	Brightness float64

	// Tint is the light's color at full intensity.
	Tint Light
}

// Enabled reports whether the light is switched on.
func (lb *LightBase) Enabled() bool { return lb.On }

func (lb *LightBase) emit(intensity float64) Light {
	return lb.Tint.Scale(intensity * lb.Brightness)
}

// AmbientLight lights every surface equally regardless of orientation.
type AmbientLight struct {
	LightBase
}

// NewAmbientLight creates an ambient light that is switched on.
func NewAmbientLight(name string, brightness float64, tint Light) *AmbientLight {
	return &AmbientLight{LightBase{Name: name, On: true, Brightness: brightness, Tint: tint}}
}

// Color implements LightSource.
func (l *AmbientLight) Color(*Vertex, math3d.Vec3) Light {
	return l.emit(1)
}

// DirectionalLight shines along Ray.Dir from infinitely far away, like the sun.
// Ray.Origin is unused.
type DirectionalLight struct {
	LightBase
	Ray math3d.Ray
}

// NewDirectionalLight creates a light shining along dir.
func NewDirectionalLight(name string, dir math3d.Vec3, brightness float64, tint Light) *DirectionalLight {
	return &DirectionalLight{
		LightBase: LightBase{Name: name, On: true, Brightness: brightness, Tint: tint},
		Ray:       math3d.NewRay(math3d.Zero3(), dir),
	}
}

// Color implements LightSource: max(0, -dir·n) · brightness.
func (l *DirectionalLight) Color(_ *Vertex, n math3d.Vec3) Light {
	return l.emit(math.Max(0, -l.Ray.Dir.Dot(n)))
}

// PointLight shines in every direction from Ray.Origin with inverse-square
// falloff. Ray.Dir is unused.
type PointLight struct {
	LightBase
	Ray math3d.Ray
}

// NewPointLight creates a light at pos.
func NewPointLight(name string, pos math3d.Vec3, brightness float64, tint Light) *PointLight {
	return &PointLight{
		LightBase: LightBase{Name: name, On: true, Brightness: brightness, Tint: tint},
		Ray:       math3d.Ray{Origin: pos},
	}
}

// pointIntensity returns the inverse-square diffuse term and the unit
// direction from the light to the vertex.
func pointIntensity(origin math3d.Vec3, v *Vertex, n math3d.Vec3) (float64, math3d.Vec3) {
	d := v.World().Sub(origin)
	dist2 := d.LenSq()
	if dist2 == 0 {
		return 0, math3d.Vec3{}
	}
	dir := d.Div(math.Sqrt(dist2))
	return math.Max(0, -dir.Dot(n)) / dist2, dir
}

// Color implements LightSource.
func (l *PointLight) Color(v *Vertex, n math3d.Vec3) Light {
	i, _ := pointIntensity(l.Ray.Origin, v, n)
	return l.emit(i)
}

// ConeLight is a point light restricted to a cone around Ray.Dir. Vertices
// within half the opening angle get full intensity, fading linearly to zero
// at the full opening angle.
type ConeLight struct {
	LightBase
	Ray math3d.Ray

	// Opening is the full falloff angle in radians.
	Opening float64
}

// NewConeLight creates a spotlight at pos shining along dir.
func NewConeLight(name string, pos, dir math3d.Vec3, opening, brightness float64, tint Light) *ConeLight {
	return &ConeLight{
		LightBase: LightBase{Name: name, On: true, Brightness: brightness, Tint: tint},
		Ray:       math3d.NewRay(pos, dir),
		Opening:   opening,
	}
}

// Color implements LightSource.
func (l *ConeLight) Color(v *Vertex, n math3d.Vec3) Light {
	i, dir := pointIntensity(l.Ray.Origin, v, n)
	if i == 0 {
		return Light{}
	}
	return l.emit(i * ConeFactor(l.Ray.Dir.Angle(dir), l.Opening))
}

// ConeFactor is the radial falloff for a vertex theta radians off the cone
// axis.
func ConeFactor(theta, opening float64) float64 {
	half := opening / 2
	switch {
	case theta <= half:
		return 1
	case theta >= opening:
		return 0
	default:
		return (opening - theta) / half
	}
}
