package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order, matching OpenGL.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Mat4{
		s, 0, 0, 0,
		0, s, 0, 0,
		0, 0, s, 0,
		0, 0, 0, 1,
	}
}

// TRS composes translation, rotation and uniform scale (scale applied first).
func TRS(offset Vec3, rot Mat3, scale float64) Mat4 {
	return Translate(offset).Mul(rot.Mat4()).Mul(ScaleUniform(scale))
}

// ViewFromAxes builds a GL-style view matrix for an eye at pos with the
// orthonormal right/up/forward axes x, y, z. Eye space looks down -Z.
func ViewFromAxes(pos, x, y, z Vec3) Mat4 {
	return Mat4{
		x.X, y.X, -z.X, 0,
		x.Y, y.Y, -z.Y, 0,
		x.Z, y.Z, -z.Z, 0,
		-x.Dot(pos), -y.Dot(pos), z.Dot(pos), 1,
	}
}

// Perspective creates a perspective projection matrix.
// fovy is vertical field of view in radians.
// aspect is width/height.
// near and far are clipping planes.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovy/2)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// Mul returns the matrix product a * b.
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec3 transforms a Vec3 as a point (w=1).
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).PerspectiveDivide()
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Transpose swaps rows and columns.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for col := range 4 {
		for row := range 4 {
			t[col+row*4] = m[row+col*4]
		}
	}
	return t
}

// minors returns the 2x2 determinants of the top two rows (s) and the
// bottom two rows (c) that the Laplace expansion of m is built from.
func (m Mat4) minors() (s, c [6]float64) {
	a := func(row, col int) float64 { return m[row+col*4] }
	s = [6]float64{
		a(0, 0)*a(1, 1) - a(1, 0)*a(0, 1),
		a(0, 0)*a(1, 2) - a(1, 0)*a(0, 2),
		a(0, 0)*a(1, 3) - a(1, 0)*a(0, 3),
		a(0, 1)*a(1, 2) - a(1, 1)*a(0, 2),
		a(0, 1)*a(1, 3) - a(1, 1)*a(0, 3),
		a(0, 2)*a(1, 3) - a(1, 2)*a(0, 3),
	}
	c = [6]float64{
		a(2, 0)*a(3, 1) - a(3, 0)*a(2, 1),
		a(2, 0)*a(3, 2) - a(3, 0)*a(2, 2),
		a(2, 0)*a(3, 3) - a(3, 0)*a(2, 3),
		a(2, 1)*a(3, 2) - a(3, 1)*a(2, 2),
		a(2, 1)*a(3, 3) - a(3, 1)*a(2, 3),
		a(2, 2)*a(3, 3) - a(3, 2)*a(2, 3),
	}
	return s, c
}

// Determinant returns det(m).
func (m Mat4) Determinant() float64 {
	s, c := m.minors()
	return s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
}

// Inverse returns m⁻¹. ok is false when m is singular, in which case the
// identity is returned.
func (m Mat4) Inverse() (inv Mat4, ok bool) {
	s, c := m.minors()
	det := s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
	if det == 0 || math.IsNaN(det) {
		return Identity(), false
	}
	a := func(row, col int) float64 { return m[row+col*4] }
	set := func(row, col int, v float64) { inv[row+col*4] = v / det }

	set(0, 0, a(1, 1)*c[5]-a(1, 2)*c[4]+a(1, 3)*c[3])
	set(0, 1, -a(0, 1)*c[5]+a(0, 2)*c[4]-a(0, 3)*c[3])
	set(0, 2, a(3, 1)*s[5]-a(3, 2)*s[4]+a(3, 3)*s[3])
	set(0, 3, -a(2, 1)*s[5]+a(2, 2)*s[4]-a(2, 3)*s[3])

	set(1, 0, -a(1, 0)*c[5]+a(1, 2)*c[2]-a(1, 3)*c[1])
	set(1, 1, a(0, 0)*c[5]-a(0, 2)*c[2]+a(0, 3)*c[1])
	set(1, 2, -a(3, 0)*s[5]+a(3, 2)*s[2]-a(3, 3)*s[1])
	set(1, 3, a(2, 0)*s[5]-a(2, 2)*s[2]+a(2, 3)*s[1])

	set(2, 0, a(1, 0)*c[4]-a(1, 1)*c[2]+a(1, 3)*c[0])
	set(2, 1, -a(0, 0)*c[4]+a(0, 1)*c[2]-a(0, 3)*c[0])
	set(2, 2, a(3, 0)*s[4]-a(3, 1)*s[2]+a(3, 3)*s[0])
	set(2, 3, -a(2, 0)*s[4]+a(2, 1)*s[2]-a(2, 3)*s[0])

	set(3, 0, -a(1, 0)*c[3]+a(1, 1)*c[1]-a(1, 2)*c[0])
	set(3, 1, a(0, 0)*c[3]-a(0, 1)*c[1]+a(0, 2)*c[0])
	set(3, 2, -a(3, 0)*s[3]+a(3, 1)*s[1]-a(3, 2)*s[0])
	set(3, 3, a(2, 0)*s[3]-a(2, 1)*s[1]+a(2, 2)*s[0])
	return inv, true
}

// Mat3 returns the upper-left 3x3 block.
func (m Mat4) Mat3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Row returns row i as a Vec4.
func (m Mat4) Row(i int) Vec4 {
	return Vec4{m[i], m[i+4], m[i+8], m[i+12]}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Float32 returns the matrix in the single precision layout GL uniforms expect.
func (m Mat4) Float32() [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
