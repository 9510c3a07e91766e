package scene

import (
	"math"

	"github.com/taigrr/ott/pkg/math3d"
)

// addFacing adds triangle (a, b, c), swapping b and c if needed so the face
// normal points along out.
func addFacing(o *Object, a, b, c int, out math3d.Vec3) error {
	pa, pb, pc := o.vertices[a].Pos0, o.vertices[b].Pos0, o.vertices[c].Pos0
	if pb.Sub(pa).Cross(pc.Sub(pa)).Dot(out) < 0 {
		b, c = c, b
	}
	return o.AddTriangle(a, b, c)
}

// NewCube creates an axis-aligned cube of the given edge length centered on
// its origin, with flat per-face normals and per-face UVs.
func NewCube(name string, size float64) *Object {
	o := NewObject(name)
	o.OnUserBuild = func(o *Object) error {
		h := size / 2
		axes := []math3d.Vec3{
			math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 1),
		}
		for i, n := range axes {
			u, w := axes[(i+1)%3], axes[(i+2)%3]
			for _, sign := range [2]float64{1, -1} {
				normal := n.Scale(sign)
				center := normal.Scale(h)
				corner := func(su, sw float64) math3d.Vec3 {
					return center.Add(u.Scale(su * h)).Add(w.Scale(sw * h))
				}
				a := o.AddVertex(corner(-1, -1), normal, math3d.V2(0, 0))
				b := o.AddVertex(corner(1, -1), normal, math3d.V2(1, 0))
				c := o.AddVertex(corner(1, 1), normal, math3d.V2(1, 1))
				d := o.AddVertex(corner(-1, 1), normal, math3d.V2(0, 1))
				if err := addFacing(o, a, b, c, normal); err != nil {
					return err
				}
				if err := addFacing(o, a, c, d, normal); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return o
}

// NewQuad creates a square on the XZ plane facing +Y.
func NewQuad(name string, size float64) *Object {
	o := NewObject(name)
	o.OnUserBuild = func(o *Object) error {
		h := size / 2
		up := math3d.Up()
		a := o.AddVertex(math3d.V3(-h, 0, -h), up, math3d.V2(0, 0))
		b := o.AddVertex(math3d.V3(h, 0, -h), up, math3d.V2(1, 0))
		c := o.AddVertex(math3d.V3(h, 0, h), up, math3d.V2(1, 1))
		d := o.AddVertex(math3d.V3(-h, 0, h), up, math3d.V2(0, 1))
		if err := addFacing(o, a, b, c, up); err != nil {
			return err
		}
		return addFacing(o, a, c, d, up)
	}
	return o
}

// NewSphere creates a UV sphere with per-vertex normals. It is smooth shaded
// by default.
func NewSphere(name string, radius float64, stacks, slices int) *Object {
	stacks, slices = max(stacks, 2), max(slices, 3)
	o := NewObject(name)
	o.Smooth = true
	o.OnUserBuild = func(o *Object) error {
		for i := 0; i <= stacks; i++ {
			theta := math.Pi * float64(i) / float64(stacks)
			for j := 0; j <= slices; j++ {
				phi := 2 * math.Pi * float64(j) / float64(slices)
				n := math3d.V3(math.Sin(theta)*math.Cos(phi), math.Cos(theta), math.Sin(theta)*math.Sin(phi))
				uv := math3d.V2(float64(j)/float64(slices), float64(i)/float64(stacks))
				o.AddVertex(n.Scale(radius), n, uv)
			}
		}
		idx := func(i, j int) int { return i*(slices+1) + j }
		for i := range stacks {
			for j := range slices {
				v00, v01 := idx(i, j), idx(i, j+1)
				v10, v11 := idx(i+1, j), idx(i+1, j+1)
				// Pole rows collapse to a point; skip their degenerate halves.
				if i != stacks-1 {
					out := o.vertices[v00].Pos0.Add(o.vertices[v10].Pos0).Add(o.vertices[v11].Pos0)
					if err := addFacing(o, v00, v10, v11, out); err != nil {
						return err
					}
				}
				if i != 0 {
					out := o.vertices[v00].Pos0.Add(o.vertices[v11].Pos0).Add(o.vertices[v01].Pos0)
					if err := addFacing(o, v00, v11, v01, out); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}
	return o
}
