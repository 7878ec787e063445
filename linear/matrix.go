// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
)

// M3 is a column-major 3x3 matrix of float32.
type M3 [3]V3

// I makes m an identity matrix.
func (m *M3) I() { *m = M3{{1}, {0, 1}, {0, 0, 1}} }

// At returns the element at the given row and column.
func (m *M3) At(row, col int) float32 { return m[col][row] }

// Mul sets m to contain l ⋅ r.
// m may alias either operand.
func (m *M3) Mul(l, r *M3) {
	var n M3
	for i := range n {
		for j := range n {
			for k := range n {
				n[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = n
}

// Transpose sets m to contain the transpose of n.
func (m *M3) Transpose(n *M3) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
}

// Invert sets m to contain the inverse of n.
// It fails with ErrSingular if n has no inverse, in which
// case m is not modified.
func (m *M3) Invert(n *M3) error {
	a := *n
	s0 := a[1][1]*a[2][2] - a[1][2]*a[2][1]
	s1 := a[1][0]*a[2][2] - a[1][2]*a[2][0]
	s2 := a[1][0]*a[2][1] - a[1][1]*a[2][0]
	det := a[0][0]*s0 - a[0][1]*s1 + a[0][2]*s2
	idet := 1 / det
	if det == 0 || !finite(idet) {
		return ErrSingular
	}
	m[0][0] = s0 * idet
	m[0][1] = -(a[0][1]*a[2][2] - a[0][2]*a[2][1]) * idet
	m[0][2] = (a[0][1]*a[1][2] - a[0][2]*a[1][1]) * idet
	m[1][0] = -s1 * idet
	m[1][1] = (a[0][0]*a[2][2] - a[0][2]*a[2][0]) * idet
	m[1][2] = -(a[0][0]*a[1][2] - a[0][2]*a[1][0]) * idet
	m[2][0] = s2 * idet
	m[2][1] = -(a[0][0]*a[2][1] - a[0][1]*a[2][0]) * idet
	m[2][2] = (a[0][0]*a[1][1] - a[0][1]*a[1][0]) * idet
	return nil
}

// Upper sets m to contain the upper-left 3x3 block of n.
func (m *M3) Upper(n *M4) {
	for i := range m {
		m[i] = V3{n[i][0], n[i][1], n[i][2]}
	}
}

// NormalMatrix sets m to contain the inverse transpose of
// the upper-left 3x3 block of mv.
// This is the matrix that transforms normals when vertices
// are transformed by mv.
// It fails with ErrSingular if the block has no inverse.
func (m *M3) NormalMatrix(mv *M4) error {
	var u M3
	u.Upper(mv)
	if err := u.Invert(&u); err != nil {
		return err
	}
	m.Transpose(&u)
	return nil
}

// M4 is a column-major 4x4 matrix of float32.
type M4 [4]V4

// I makes m an identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// At returns the element at the given row and column.
func (m *M4) At(row, col int) float32 { return m[col][row] }

// Mul sets m to contain l ⋅ r.
// m may alias either operand.
func (m *M4) Mul(l, r *M4) {
	var n M4
	for i := range n {
		for j := range n {
			for k := range n {
				n[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = n
}

// Transpose sets m to contain the transpose of n.
func (m *M4) Transpose(n *M4) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
}

// Invert sets m to contain the inverse of n.
// It fails with ErrSingular if n has no inverse, in which
// case m is not modified.
func (m *M4) Invert(n *M4) error {
	a := *n
	s0 := a[0][0]*a[1][1] - a[0][1]*a[1][0]
	s1 := a[0][0]*a[1][2] - a[0][2]*a[1][0]
	s2 := a[0][0]*a[1][3] - a[0][3]*a[1][0]
	s3 := a[0][1]*a[1][2] - a[0][2]*a[1][1]
	s4 := a[0][1]*a[1][3] - a[0][3]*a[1][1]
	s5 := a[0][2]*a[1][3] - a[0][3]*a[1][2]
	c0 := a[2][0]*a[3][1] - a[2][1]*a[3][0]
	c1 := a[2][0]*a[3][2] - a[2][2]*a[3][0]
	c2 := a[2][0]*a[3][3] - a[2][3]*a[3][0]
	c3 := a[2][1]*a[3][2] - a[2][2]*a[3][1]
	c4 := a[2][1]*a[3][3] - a[2][3]*a[3][1]
	c5 := a[2][2]*a[3][3] - a[2][3]*a[3][2]
	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	idet := 1 / det
	if det == 0 || !finite(idet) {
		return ErrSingular
	}
	m[0][0] = (c5*a[1][1] - c4*a[1][2] + c3*a[1][3]) * idet
	m[0][1] = (-c5*a[0][1] + c4*a[0][2] - c3*a[0][3]) * idet
	m[0][2] = (s5*a[3][1] - s4*a[3][2] + s3*a[3][3]) * idet
	m[0][3] = (-s5*a[2][1] + s4*a[2][2] - s3*a[2][3]) * idet
	m[1][0] = (-c5*a[1][0] + c2*a[1][2] - c1*a[1][3]) * idet
	m[1][1] = (c5*a[0][0] - c2*a[0][2] + c1*a[0][3]) * idet
	m[1][2] = (-s5*a[3][0] + s2*a[3][2] - s1*a[3][3]) * idet
	m[1][3] = (s5*a[2][0] - s2*a[2][2] + s1*a[2][3]) * idet
	m[2][0] = (c4*a[1][0] - c2*a[1][1] + c0*a[1][3]) * idet
	m[2][1] = (-c4*a[0][0] + c2*a[0][1] - c0*a[0][3]) * idet
	m[2][2] = (s4*a[3][0] - s2*a[3][1] + s0*a[3][3]) * idet
	m[2][3] = (-s4*a[2][0] + s2*a[2][1] - s0*a[2][3]) * idet
	m[3][0] = (-c3*a[1][0] + c1*a[1][1] - c0*a[1][2]) * idet
	m[3][1] = (c3*a[0][0] - c1*a[0][1] + c0*a[0][2]) * idet
	m[3][2] = (-s3*a[3][0] + s1*a[3][1] - s0*a[3][2]) * idet
	m[3][3] = (s3*a[2][0] - s1*a[2][1] + s0*a[2][2]) * idet
	return nil
}

// Translate sets m to contain a translation matrix.
func (m *M4) Translate(x, y, z float32) {
	m.I()
	m[3] = V4{x, y, z, 1}
}

// Scale sets m to contain a scale matrix.
func (m *M4) Scale(x, y, z float32) {
	*m = M4{{x}, {1: y}, {2: z}, {3: 1}}
}

// Rotate sets m to contain a rotation of angle radians
// around axis.
// axis is expected to be a unit vector.
func (m *M4) Rotate(angle float32, axis *V3) {
	sin, cos := math.Sincos(float64(angle))
	s, c := float32(sin), float32(cos)
	t := 1 - c
	x, y, z := axis[0], axis[1], axis[2]
	*m = M4{
		{t*x*x + c, t*x*y + z*s, t*x*z - y*s, 0},
		{t*x*y - z*s, t*y*y + c, t*y*z + x*s, 0},
		{t*x*z + y*s, t*y*z - x*s, t*z*z + c, 0},
		{0, 0, 0, 1},
	}
}

// RotateQ sets m to contain the rotation described by q.
// q is expected to be a unit quaternion.
func (m *M4) RotateQ(q *Q) {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.R
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	*m = M4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}

// LookAt sets m to contain a right-handed view matrix.
// It fails with ErrDegenerate if eye and center coincide
// or if up is parallel to the view direction, in which
// case m is not modified.
func (m *M4) LookAt(eye, center, up *V3) error {
	var u, v, w V3
	w.Sub(eye, center)
	if w.Norm(&w) != nil {
		return ErrDegenerate
	}
	u.Cross(up, &w)
	if u.Norm(&u) != nil {
		return ErrDegenerate
	}
	v.Cross(&w, &u)
	if v.Norm(&v) != nil {
		return ErrDegenerate
	}
	*m = M4{
		{u[0], v[0], w[0], 0},
		{u[1], v[1], w[1], 0},
		{u[2], v[2], w[2], 0},
		{-u.Dot(eye), -v.Dot(eye), -w.Dot(eye), 1},
	}
	return nil
}

// Frustum sets m to contain a perspective projection
// matrix for the given clipping planes.
// It fails with ErrDegenerate if the planes do not
// enclose a volume or if near is not positive.
func (m *M4) Frustum(left, right, bottom, top, near, far float32) error {
	switch {
	case left == right, bottom == top, near == far:
	case near <= 0, far <= 0:
	default:
		*m = M4{
			{0: 2 * near / (right - left)},
			{1: 2 * near / (top - bottom)},
			{
				(right + left) / (right - left),
				(top + bottom) / (top - bottom),
				-(far + near) / (far - near),
				-1,
			},
			{2: -2 * far * near / (far - near)},
		}
		return nil
	}
	return ErrDegenerate
}

// Projection sets m to contain a symmetric perspective
// projection matrix.
// fov is the vertical field of view in degrees; width
// and height define the aspect ratio.
func (m *M4) Projection(fov, width, height, near, far float32) error {
	if fov <= 0 || fov >= 180 || width <= 0 || height <= 0 {
		return ErrDegenerate
	}
	hh := float32(math.Tan(float64(fov)*math.Pi/360)) * near
	hw := hh * (width / height)
	return m.Frustum(-hw, hw, -hh, hh, near, far)
}
