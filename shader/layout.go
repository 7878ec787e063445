// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package shader

import (
	"encoding/binary"
	"unsafe"

	"golang.org/x/mobile/exp/f32"

	"github.com/gviegas/dust/linear"
)

// Uniforms is the layout of per-draw uniform data.
// It is defined as follows:
//
//	[0:16]  | projection matrix
//	[16:32] | model-view matrix
//	[32:44] | normal matrix (three columns padded to vec4)
//	[44:47] | light direction in view space
//	[47]    | (unused)
//
// Matrices are column-major.
type Uniforms [48]float32

// UniformsSize is the size of Uniforms in bytes.
const UniformsSize = int(unsafe.Sizeof(Uniforms{}))

// SetProjection sets the projection matrix.
func (l *Uniforms) SetProjection(m *linear.M4) { copyM4(l[:16], m) }

// SetModelView sets the model-view matrix.
func (l *Uniforms) SetModelView(m *linear.M4) { copyM4(l[16:32], m) }

// SetNormal sets the normal matrix.
func (l *Uniforms) SetNormal(m *linear.M3) {
	for i := range m {
		copy(l[32+i*4:32+i*4+3], m[i][:])
		l[32+i*4+3] = 0
	}
}

// SetLightDir sets the light direction.
func (l *Uniforms) SetLightDir(d *linear.V3) {
	copy(l[44:47], d[:])
	l[47] = 0
}

// Bytes returns l as little-endian bytes.
func (l *Uniforms) Bytes() []byte { return f32.Bytes(binary.LittleEndian, l[:]...) }

func copyM4(dst []float32, m *linear.M4) {
	copy(dst, unsafe.Slice((*float32)(unsafe.Pointer(m)), 16))
}

// LightDir transforms the world-space direction dir by view
// and normalizes the result.
func LightDir(view *linear.M4, dir *linear.V3) (linear.V3, error) {
	var v linear.V4
	v.Mul(view, &linear.V4{dir[0], dir[1], dir[2], 0})
	d := v.Vec3()
	if err := d.Norm(&d); err != nil {
		return linear.V3{}, err
	}
	return d, nil
}
