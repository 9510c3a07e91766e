// Package gpu draws scenes with OpenGL 4.1 instead of the software
// rasterizer. Object geometry is uploaded once per object into vertex
// buffers and lit per vertex in the shader with the same light model.
//
// The GL renderer is built with the "gl" tag; other builds return
// ErrUnavailable from NewRenderer. Geometry packing and uniform conversion
// are plain Go and available in every build.
package gpu

import (
	"errors"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/taigrr/ott/pkg/input"
	"github.com/taigrr/ott/pkg/math3d"
	"github.com/taigrr/ott/pkg/render"
	"github.com/taigrr/ott/pkg/scene"
)

// ErrUnavailable is returned by builds without the gl tag.
var ErrUnavailable = errors.New("gpu: not built (build with -tags gl)")

// MaxLights is the number of lights the shader evaluates.
const MaxLights = 8

// Options configure a GL window.
type Options struct {
	Title         string
	Width, Height int
	// Input, if set, receives keyboard and mouse events.
	Input  *input.State
	Logger *slog.Logger
}

// Light kinds as seen by the shader.
const (
	lightAmbient int32 = iota
	lightDirectional
	lightPoint
	lightCone
)

// lightUniform is one entry of the shader's light arrays. Color is the tint
// already scaled by brightness.
type lightUniform struct {
	Kind    int32
	Pos     mgl32.Vec3
	Dir     mgl32.Vec3
	Color   mgl32.Vec3
	Opening float32
}

// lightUniforms converts the enabled lights the shader understands. Extra
// lights beyond MaxLights are dropped.
func lightUniforms(lights []render.LightSource) []lightUniform {
	var out []lightUniform
	for _, l := range lights {
		if len(out) == MaxLights {
			break
		}
		if !l.Enabled() {
			continue
		}
		var u lightUniform
		var base render.LightBase
		switch l := l.(type) {
		case *render.AmbientLight:
			u.Kind, base = lightAmbient, l.LightBase
		case *render.DirectionalLight:
			u.Kind, base = lightDirectional, l.LightBase
			u.Dir = Vec3(l.Ray.Dir)
		case *render.PointLight:
			u.Kind, base = lightPoint, l.LightBase
			u.Pos = Vec3(l.Ray.Origin)
		case *render.ConeLight:
			u.Kind, base = lightCone, l.LightBase
			u.Pos, u.Dir = Vec3(l.Ray.Origin), Vec3(l.Ray.Dir)
			u.Opening = float32(l.Opening)
		default:
			continue
		}
		c := base.Tint.Scale(base.Brightness)
		u.Color = mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}
		out = append(out, u)
	}
	return out
}

// Vec3 converts a vector to single precision.
func Vec3(v math3d.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// Mat4 converts a column-major matrix to single precision.
func Mat4(m math3d.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// Mat3 converts a rotation to single precision.
func Mat3(m math3d.Mat3) mgl32.Mat3 {
	var out mgl32.Mat3
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// normalMatrix returns the inverse transpose of the model matrix's linear
// part, which keeps normals perpendicular to surfaces under any scale. A
// degenerate transform falls back to its rotation.
func normalMatrix(t render.Transform) mgl32.Mat3 {
	inv, ok := t.Mat4().Inverse()
	if !ok {
		return Mat3(t.Rotation)
	}
	return Mat3(inv.Transpose().Mat3())
}

// floatsPerVertex is position, normal and albedo.
const floatsPerVertex = 9

// packObject interleaves o's triangles in object space, three vertices per
// polygon. Flat objects repeat the face normal on every corner.
func packObject(o *scene.Object) []float32 {
	polys := o.Polygons()
	out := make([]float32, 0, len(polys)*3*floatsPerVertex)
	for _, p := range polys {
		a, b, c := p.V[0].Pos0, p.V[1].Pos0, p.V[2].Pos0
		face := b.Sub(a).Cross(c.Sub(a)).Normalize()
		for _, v := range p.V {
			n := face
			if o.Smooth && v.HasNormal {
				n = v.Normal
			}
			al := o.Albedo(v)
			out = append(out,
				float32(v.Pos0.X), float32(v.Pos0.Y), float32(v.Pos0.Z),
				float32(n.X), float32(n.Y), float32(n.Z),
				float32(al.R), float32(al.G), float32(al.B),
			)
		}
	}
	return out
}
