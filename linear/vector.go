// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package linear implements math for 3D graphics.
//
// Matrices are column-major: m[i] is the i-th column and
// m[i][j] is the element at row j of that column. This is
// the memory layout that GPU uniforms expect, so a matrix
// can be copied into uniform data as-is.
package linear

import (
	"errors"
	"math"
)

const prefix = "linear: "

// ErrZeroLength means that a vector of zero (or non-finite)
// length could not be normalized.
var ErrZeroLength = errors.New(prefix + "zero-length vector")

// ErrSingular means that a matrix could not be inverted.
var ErrSingular = errors.New(prefix + "singular matrix")

// ErrDegenerate means that the parameters of a view or
// projection transform do not define a valid transform.
var ErrDegenerate = errors.New(prefix + "degenerate transform")

// finite reports whether x is neither NaN nor ±Inf.
func finite(x float32) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// V3 is a 3-component vector of float32.
type V3 [3]float32

// Add sets v to contain l + r.
func (v *V3) Add(l, r *V3) {
	for i := range v {
		v[i] = l[i] + r[i]
	}
}

// Sub sets v to contain l - r.
func (v *V3) Sub(l, r *V3) {
	for i := range v {
		v[i] = l[i] - r[i]
	}
}

// Scale sets v to contain s ⋅ w.
func (v *V3) Scale(s float32, w *V3) {
	for i := range v {
		v[i] = s * w[i]
	}
}

// Dot returns v ⋅ w.
func (v *V3) Dot(w *V3) (d float32) {
	for i := range v {
		d += v[i] * w[i]
	}
	return
}

// Len returns the length of v.
func (v *V3) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Norm sets v to contain w normalized.
// It fails with ErrZeroLength if w cannot be normalized,
// in which case v is not modified.
func (v *V3) Norm(w *V3) error {
	n := w.Len()
	if n == 0 || !finite(n) {
		return ErrZeroLength
	}
	v.Scale(1/n, w)
	return nil
}

// Cross sets v to contain l × r.
func (v *V3) Cross(l, r *V3) {
	*v = V3{
		l[1]*r[2] - l[2]*r[1],
		l[2]*r[0] - l[0]*r[2],
		l[0]*r[1] - l[1]*r[0],
	}
}

// Mul sets v to contain m ⋅ w.
func (v *V3) Mul(m *M3, w *V3) {
	var u V3
	for i := range m {
		for j := range u {
			u[j] += m[i][j] * w[i]
		}
	}
	*v = u
}

// V4 is a 4-component vector of float32.
type V4 [4]float32

// Add sets v to contain l + r.
func (v *V4) Add(l, r *V4) {
	for i := range v {
		v[i] = l[i] + r[i]
	}
}

// Sub sets v to contain l - r.
func (v *V4) Sub(l, r *V4) {
	for i := range v {
		v[i] = l[i] - r[i]
	}
}

// Scale sets v to contain s ⋅ w.
func (v *V4) Scale(s float32, w *V4) {
	for i := range v {
		v[i] = s * w[i]
	}
}

// Dot returns v ⋅ w.
func (v *V4) Dot(w *V4) (d float32) {
	for i := range v {
		d += v[i] * w[i]
	}
	return
}

// Len returns the length of v.
func (v *V4) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Norm sets v to contain w normalized.
// It fails with ErrZeroLength if w cannot be normalized,
// in which case v is not modified.
func (v *V4) Norm(w *V4) error {
	n := w.Len()
	if n == 0 || !finite(n) {
		return ErrZeroLength
	}
	v.Scale(1/n, w)
	return nil
}

// Mul sets v to contain m ⋅ w.
func (v *V4) Mul(m *M4, w *V4) {
	var u V4
	for i := range m {
		for j := range u {
			u[j] += m[i][j] * w[i]
		}
	}
	*v = u
}

// Vec3 returns the first three components of v.
func (v *V4) Vec3() V3 { return V3{v[0], v[1], v[2]} }
