// Package models loads triangle meshes from GLTF/GLB, Wavefront OBJ and STL
// files into a Mesh that can populate a scene object.
package models

import (
	"image"

	"github.com/taigrr/ott/pkg/math3d"
)

// Mesh is an indexed triangle list with optional materials.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes. A zero Normal means none.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is a triangle with an optional material.
type Face struct {
	V        [3]int // indices into Mesh.Vertices
	Material int    // index into Mesh.Materials, -1 for none
}

// Material is the subset of a surface description the rasterizer uses.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in [0,1]
	BaseMap   image.Image
}

// HasTexture reports whether the material carries a base color image.
func (m Material) HasTexture() bool { return m.BaseMap != nil }

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
		return
	}
	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Faces) }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// HasNormals reports whether any vertex carries a normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.LenSq() > 1e-6 {
			return true
		}
	}
	return false
}

func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// CalculateNormals assigns each vertex the normal of the last face using it.
// Meshes with shared vertices look faceted only if faces do not share them.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		n := m.faceNormal(f).Normalize()
		for _, i := range f.V {
			m.Vertices[i].Normal = n
		}
	}
}

// CalculateSmoothNormals sets each vertex normal to the area-weighted mean of
// the normals of the faces sharing it.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}
	for _, f := range m.Faces {
		n := m.faceNormal(f)
		for _, i := range f.V {
			m.Vertices[i].Normal = m.Vertices[i].Normal.Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// ConvertHandedness converts a right-handed, counter-clockwise mesh to the
// engine's left-handed, clockwise convention: Z is negated on positions and
// normals and every face's winding is reversed. Face normals computed as
// (v1-v0)x(v2-v0) keep pointing outward.
func (m *Mesh) ConvertHandedness() {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position.Z = -v.Position.Z
		v.Normal.Z = -v.Normal.Z
	}
	for i := range m.Faces {
		f := &m.Faces[i]
		f.V[1], f.V[2] = f.V[2], f.V[1]
	}
	m.CalculateBounds()
}

// Transform applies a matrix to all vertices. Normals use the upper 3x3 and
// are renormalized, which is exact for rotations and uniform scale.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = mat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// FitTo centers the mesh on the origin and scales it so its largest
// dimension equals size.
func (m *Mesh) FitTo(size float64) {
	m.CalculateBounds()
	dims := m.Size()
	largest := max(dims.X, dims.Y, dims.Z)
	if largest <= 0 {
		return
	}
	s := size / largest
	m.Transform(math3d.ScaleUniform(s).Mul(math3d.Translate(m.Center().Negate())))
}

// Clone creates a deep copy of the mesh. Texture images are shared.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.Vertices = append([]MeshVertex(nil), m.Vertices...)
	c.Faces = append([]Face(nil), m.Faces...)
	c.Materials = append([]Material(nil), m.Materials...)
	return &c
}

// GetVertex returns the position, normal, and UV for vertex i.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices for face i.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the material index for face i, or -1.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns material i, or nil if out of range.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int { return len(m.Materials) }

// BaseColor returns the first material's base color, or opaque white.
func (m *Mesh) BaseColor() [4]float64 {
	if len(m.Materials) == 0 {
		return [4]float64{1, 1, 1, 1}
	}
	return m.Materials[0].BaseColor
}

// BaseMap returns the first material texture, or nil.
func (m *Mesh) BaseMap() image.Image {
	for _, mat := range m.Materials {
		if mat.BaseMap != nil {
			return mat.BaseMap
		}
	}
	return nil
}
