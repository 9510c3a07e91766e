package math3d

import "math"

// Mat3 is a 3x3 rotation matrix stored in column-major order.
//
// Memory layout (indices):
// | 0  3  6 |
// | 1  4  7 |
// | 2  5  8 |
//
// The columns are the rotated X, Y and Z axes.
type Mat3 [9]float64

// Mat3Identity returns the identity rotation.
func Mat3Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mat3FromCols builds a matrix whose columns are x, y and z.
func Mat3FromCols(x, y, z Vec3) Mat3 {
	return Mat3{
		x.X, x.Y, x.Z,
		y.X, y.Y, y.Z,
		z.X, z.Y, z.Z,
	}
}

// Mat3RotateX returns a rotation around the X axis. Positive angles tilt
// +Z toward -Y.
func Mat3RotateX(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		1, 0, 0,
		0, c, s,
		0, -s, c,
	}
}

// Mat3RotateY returns a rotation around the Y axis. Positive angles turn
// +Z toward +X.
func Mat3RotateY(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		c, 0, -s,
		0, 1, 0,
		s, 0, c,
	}
}

// Mat3RotateZ returns a rotation around the Z axis. Positive angles turn
// +X toward +Y.
func Mat3RotateZ(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	}
}

// Mat3FromEuler composes yaw (Y), pitch (X) and roll (Z), applied roll first.
func Mat3FromEuler(pitch, yaw, roll float64) Mat3 {
	return Mat3RotateY(yaw).Mul(Mat3RotateX(pitch)).Mul(Mat3RotateZ(roll))
}

// Mat3Axis returns a rotation of angle radians around an arbitrary axis.
func Mat3Axis(axis Vec3, angle float64) Mat3 {
	a := axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c

	return Mat3{
		t*a.X*a.X + c, t*a.X*a.Y + s*a.Z, t*a.X*a.Z - s*a.Y,
		t*a.X*a.Y - s*a.Z, t*a.Y*a.Y + c, t*a.Y*a.Z + s*a.X,
		t*a.X*a.Z + s*a.Y, t*a.Y*a.Z - s*a.X, t*a.Z*a.Z + c,
	}
}

// Mat3LookAt returns the rotation whose Z axis points along forward and
// whose Y axis is as close to up as possible.
func Mat3LookAt(forward, up Vec3) Mat3 {
	z := forward.Normalize()
	x := up.Cross(z).Normalize()
	if x.LenSq() == 0 {
		// forward is parallel to up
		x = Right().Sub(z.Scale(z.X)).Normalize()
		if x.LenSq() == 0 {
			x = Up().Cross(z).Normalize()
		}
	}
	y := z.Cross(x)
	return Mat3FromCols(x, y, z)
}

// Col returns column i (0 = X axis, 1 = Y axis, 2 = Z axis).
func (m Mat3) Col(i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// Mul returns the matrix product a * b.
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	for col := range 3 {
		for row := range 3 {
			var sum float64
			for k := range 3 {
				sum += a[row+k*3] * b[k+col*3]
			}
			m[row+col*3] = sum
		}
	}
	return m
}

// MulVec3 returns m * v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Transpose returns the transposed matrix, which is the inverse of a rotation.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Orthonormalize re-derives an orthonormal basis from the Z and Y columns.
// Repeated incremental rotations drift; callers apply this after composing.
func (m Mat3) Orthonormalize() Mat3 {
	z := m.Col(2).Normalize()
	x := m.Col(1).Cross(z).Normalize()
	y := z.Cross(x)
	return Mat3FromCols(x, y, z)
}

// Mat4 embeds the rotation in a 4x4 transform with no translation.
func (m Mat3) Mat4() Mat4 {
	return Mat4{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
		0, 0, 0, 1,
	}
}
