// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package prim generates primitive meshes.
// All primitives share the layout returned by Layout.
package prim

import (
	"errors"
	"math"
	"sync"

	"github.com/gviegas/dust/mesh"
)

const prefix = "prim: "

// Attribute names of Layout.
const (
	PositionName = "position"
	NormalName   = "normal"
	ColorName    = "color"
	UVName       = "uv"
)

var layout = sync.OnceValue(func() *mesh.AttribArray {
	var b mesh.Builder
	a, err := b.Push(PositionName, 3, mesh.Position).
		Push(NormalName, 3, mesh.Normal).
		Push(ColorName, 3, mesh.ColorRGB).
		Push(UVName, 2, mesh.UV).
		Build()
	if err != nil {
		panic(err)
	}
	return a
})

// Layout returns the attribute layout of every primitive:
// position (3), normal (3), color (3) and uv (2).
func Layout() *mesh.AttribArray { return layout() }

// Cube creates a unit cube centered at the origin.
// Each side has its own four vertices, so normals, colors
// and texture coordinates are not shared between sides.
func Cube() *mesh.Mesh {
	verts := [][]float32{
		// -z
		{0, 0, 0, 0, 0, -1, 1, 0, 0, 1, 0},
		{0, 1, 0, 0, 0, -1, 1, 0, 0, 1, 1},
		{1, 1, 0, 0, 0, -1, 1, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, -1, 1, 0, 0, 0, 0},
		// +z
		{0, 0, 1, 0, 0, 1, 1, 0, 1, 0, 0},
		{1, 0, 1, 0, 0, 1, 1, 0, 1, 0, 1},
		{1, 1, 1, 0, 0, 1, 1, 0, 1, 1, 1},
		{0, 1, 1, 0, 0, 1, 1, 0, 1, 1, 0},
		// -x
		{0, 0, 0, -1, 0, 0, 0, 1, 1, 0, 0},
		{0, 0, 1, -1, 0, 0, 0, 1, 1, 1, 0},
		{0, 1, 1, -1, 0, 0, 0, 1, 1, 1, 1},
		{0, 1, 0, -1, 0, 0, 0, 1, 1, 0, 1},
		// +x
		{1, 0, 0, 1, 0, 0, 1, 1, 0, 0, 0},
		{1, 1, 0, 1, 0, 0, 1, 1, 0, 0, 1},
		{1, 1, 1, 1, 0, 0, 1, 1, 0, 1, 1},
		{1, 0, 1, 1, 0, 0, 1, 1, 0, 1, 0},
		// -y
		{0, 0, 0, 0, -1, 0, 0, 0, 1, 0, 0},
		{1, 0, 0, 0, -1, 0, 0, 0, 1, 0, 1},
		{1, 0, 1, 0, -1, 0, 0, 0, 1, 1, 1},
		{0, 0, 1, 0, -1, 0, 0, 0, 1, 1, 0},
		// +y
		{0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 0},
		{1, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1},
		{1, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		{0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 0},
	}
	faces := make([]mesh.Face, 0, len(verts)/2)
	for i := 0; i < len(verts); i += 4 {
		faces = append(faces, mesh.Face{V1: i, V2: i + 1, V3: i + 2}, mesh.Face{V1: i + 2, V2: i + 3, V3: i})
	}
	m, err := mesh.New(verts, faces, Layout())
	if err != nil {
		panic(err)
	}
	if err := m.Translate(-0.5, -0.5, -0.5); err != nil {
		panic(err)
	}
	return m
}

// Quad creates a unit square on the z = 0 plane, centered
// at the origin and facing +z.
func Quad() *mesh.Mesh {
	verts := [][]float32{
		{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0},
		{1, 0, 0, 0, 0, 1, 1, 0, 0, 1, 0},
		{1, 1, 0, 0, 0, 1, 1, 0, 0, 1, 1},
		{0, 1, 0, 0, 0, 1, 1, 0, 0, 0, 1},
	}
	m, err := mesh.New(verts, []mesh.Face{{V1: 0, V2: 1, V3: 2}, {V1: 2, V2: 3, V3: 0}}, Layout())
	if err != nil {
		panic(err)
	}
	if err := m.Translate(-0.5, -0.5, 0); err != nil {
		panic(err)
	}
	return m
}

// MaxSubdiv is the maximum number of subdivisions that
// Icosphere accepts.
// An icosphere subdivided MaxSubdiv times has 327680 faces.
const MaxSubdiv = 7

// Icosphere creates a unit sphere by subdividing an
// icosahedron n times.
// Normals are equal to positions. Colors are left as given.
func Icosphere(n int) (*mesh.Mesh, error) {
	if n < 0 || n > MaxSubdiv {
		return nil, errors.New(prefix + "subdivision count out of range")
	}
	t := float32((1 + math.Sqrt(5)) / 2)
	verts := [][]float32{
		{-1, t, 0, 0, 0, 0, 1, 0, 0, 0, 0},
		{1, t, 0, 0, 0, 0, 0, 0, 1, 0, 0},
		{-1, -t, 0, 0, 0, 0, 1, 1, 0, 0, 0},
		{1, -t, 0, 0, 0, 0, 0, 1, 0, 0, 0},

		{0, -1, t, 0, 0, 0, 1, 0, 0, 0, 0},
		{0, 1, t, 0, 0, 0, 0, 1, 1, 0, 0},
		{0, -1, -t, 0, 0, 0, 0, 1, 0, 0, 0},
		{0, 1, -t, 0, 0, 0, 0, 1, 1, 0, 0},

		{t, 0, -1, 0, 0, 0, 1, 0, 1, 0, 0},
		{t, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0},
		{-t, 0, -1, 0, 0, 0, 1, 0, 0, 0, 0},
		{-t, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0},
	}
	faces := []mesh.Face{
		{V1: 0, V2: 11, V3: 5},
		{V1: 0, V2: 5, V3: 1},
		{V1: 0, V2: 1, V3: 7},
		{V1: 0, V2: 7, V3: 10},
		{V1: 0, V2: 10, V3: 11},

		{V1: 1, V2: 5, V3: 9},
		{V1: 5, V2: 11, V3: 4},
		{V1: 11, V2: 10, V3: 2},
		{V1: 10, V2: 7, V3: 6},
		{V1: 7, V2: 1, V3: 8},

		{V1: 3, V2: 9, V3: 4},
		{V1: 3, V2: 4, V3: 2},
		{V1: 3, V2: 2, V3: 6},
		{V1: 3, V2: 6, V3: 8},
		{V1: 3, V2: 8, V3: 9},

		{V1: 4, V2: 9, V3: 5},
		{V1: 2, V2: 4, V3: 11},
		{V1: 6, V2: 2, V3: 10},
		{V1: 8, V2: 6, V3: 7},
		{V1: 9, V2: 8, V3: 1},
	}
	m, err := mesh.New(verts, faces, Layout())
	if err != nil {
		return nil, err
	}
	if err := m.Normalize(PositionName); err != nil {
		return nil, err
	}
	for range n {
		if m, err = Subdivide(m); err != nil {
			return nil, err
		}
	}
	pos, _ := Layout().ByType(mesh.Position)
	norm, _ := Layout().ByType(mesh.Normal)
	m.ApplyVertices(func(v []float32) {
		copy(v[norm.Offset():norm.Offset()+3], v[pos.Offset():pos.Offset()+3])
	})
	return m, nil
}

// Subdivide splits every face of m into four, placing the
// new vertices at the midpoints of the face's edges.
// All components of a midpoint are the average of the
// edge's endpoints, except for the position, which is
// then projected onto the unit sphere.
// m is not modified.
func Subdivide(m *mesh.Mesh) (*mesh.Mesh, error) {
	pos, err := m.Attribs().ByType(mesh.Position)
	if err != nil {
		return nil, err
	}
	if pos.Len() < 3 {
		return nil, errors.New(prefix + "position must have 3 components")
	}
	stride := m.Attribs().Stride()
	nv := m.VertexCount()
	sub := mesh.Empty(m.Attribs())
	old := make([][]float32, nv)
	for i := range old {
		old[i] = m.Vertex(i)
	}
	if err := sub.PushVertices(old); err != nil {
		return nil, err
	}
	faces := make([]mesh.Face, 0, len(m.Faces())*4)
	mid := make([]float32, stride*3)
	for _, f := range m.Faces() {
		v1, v2, v3 := m.Vertex(f.V1), m.Vertex(f.V2), m.Vertex(f.V3)
		m01, m12, m20 := mid[:stride], mid[stride:2*stride], mid[2*stride:]
		for i := range stride {
			m01[i] = (v1[i] + v2[i]) / 2
			m12[i] = (v2[i] + v3[i]) / 2
			m20[i] = (v3[i] + v1[i]) / 2
		}
		for _, x := range [3][]float32{m01, m12, m20} {
			p := x[pos.Offset() : pos.Offset()+3]
			l := float32(math.Sqrt(float64(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])))
			if l == 0 {
				return nil, errors.New(prefix + "edge midpoint at the origin")
			}
			p[0] /= l
			p[1] /= l
			p[2] /= l
		}
		if err := sub.PushVertices([][]float32{m01, m12, m20}); err != nil {
			return nil, err
		}
		i01, i12, i20 := nv, nv+1, nv+2
		nv += 3
		faces = append(faces,
			mesh.Face{V1: f.V2, V2: i12, V3: i01},
			mesh.Face{V1: f.V1, V2: i01, V3: i20},
			mesh.Face{V1: i12, V2: f.V3, V3: i20},
			mesh.Face{V1: i01, V2: i12, V3: i20},
		)
	}
	if err := sub.PushFaces(faces); err != nil {
		return nil, err
	}
	return sub, nil
}
