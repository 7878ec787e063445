// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package mesh implements interleaved vertex data described
// by an attribute layout, and its packing into byte blobs
// that can be copied to GPU buffers.
package mesh

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gviegas/dust/linear"
)

const prefix = "mesh: "

// Face is a triangle defined by three vertex indices.
type Face struct {
	V1, V2, V3 int
}

// Mesh is an indexed triangle mesh whose vertices are
// interleaved according to an AttribArray.
// Every vertex has exactly Attribs().Stride() components.
type Mesh struct {
	attrs *AttribArray
	verts []float32
	faces []Face
}

var (
	// ErrVertexLen means that a vertex's length does not
	// match the stride of the mesh's layout.
	ErrVertexLen = errors.New(prefix + "vertex length mismatch")

	// ErrIndexRange means that a face refers to a vertex
	// that does not exist.
	ErrIndexRange = errors.New(prefix + "face index out of range")
)

// Empty creates a mesh with no vertices and no faces.
func Empty(attribs *AttribArray) *Mesh {
	if attribs == nil {
		panic("nil AttribArray")
	}
	return &Mesh{attrs: attribs}
}

// New creates a mesh from the given vertices and faces.
func New(vertices [][]float32, faces []Face, attribs *AttribArray) (m *Mesh, err error) {
	if attribs == nil {
		err = errors.New(prefix + "nil AttribArray")
		return
	}
	m = Empty(attribs)
	if err = m.PushVertices(vertices); err != nil {
		m = nil
		return
	}
	if err = m.PushFaces(faces); err != nil {
		m = nil
	}
	return
}

// Attribs returns the mesh's layout.
func (m *Mesh) Attribs() *AttribArray { return m.attrs }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.verts) / m.attrs.stride }

// Vertex returns the vertex at index i.
// The returned slice aliases the mesh's storage.
func (m *Mesh) Vertex(i int) []float32 {
	n := m.attrs.stride
	return m.verts[i*n : i*n+n : i*n+n]
}

// Vertices returns the interleaved vertex data.
// The returned slice aliases the mesh's storage.
func (m *Mesh) Vertices() []float32 { return m.verts }

// Faces returns the mesh's faces.
// The returned slice aliases the mesh's storage.
func (m *Mesh) Faces() []Face { return m.faces }

// PushVertex appends a vertex.
func (m *Mesh) PushVertex(v []float32) error {
	if len(v) != m.attrs.stride {
		return fmt.Errorf("%w: have %d, want %d", ErrVertexLen, len(v), m.attrs.stride)
	}
	m.verts = append(m.verts, v...)
	return nil
}

// PushVertices appends a number of vertices.
// If it fails, no vertex is appended.
func (m *Mesh) PushVertices(vs [][]float32) error {
	for i, v := range vs {
		if len(v) != m.attrs.stride {
			return fmt.Errorf("%w: vertex %d: have %d, want %d", ErrVertexLen, i, len(v), m.attrs.stride)
		}
	}
	m.verts = slices.Grow(m.verts, len(vs)*m.attrs.stride)
	for _, v := range vs {
		m.verts = append(m.verts, v...)
	}
	return nil
}

func (m *Mesh) checkFace(f Face) error {
	n := m.VertexCount()
	for _, i := range [3]int{f.V1, f.V2, f.V3} {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: %d (vertex count is %d)", ErrIndexRange, i, n)
		}
	}
	return nil
}

// PushFace appends a face.
// Its indices must refer to existing vertices.
func (m *Mesh) PushFace(f Face) error {
	if err := m.checkFace(f); err != nil {
		return err
	}
	m.faces = append(m.faces, f)
	return nil
}

// PushFaces appends a number of faces.
// If it fails, no face is appended.
func (m *Mesh) PushFaces(fs []Face) error {
	for i := range fs {
		if err := m.checkFace(fs[i]); err != nil {
			return fmt.Errorf("face %d: %w", i, err)
		}
	}
	m.faces = append(m.faces, fs...)
	return nil
}

// Clone returns a deep copy of m.
// The layout is shared.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		attrs: m.attrs,
		verts: slices.Clone(m.verts),
		faces: slices.Clone(m.faces),
	}
}

// Apply3 calls f on the three components starting at offset
// of every vertex, replacing them with f's results.
func (m *Mesh) Apply3(offset int, f func(x, y, z float32) (float32, float32, float32)) {
	if offset < 0 || offset+3 > m.attrs.stride {
		panic("offset out of bounds")
	}
	for i := offset; i < len(m.verts); i += m.attrs.stride {
		m.verts[i], m.verts[i+1], m.verts[i+2] = f(m.verts[i], m.verts[i+1], m.verts[i+2])
	}
}

// ApplyVertices calls f on every vertex.
func (m *Mesh) ApplyVertices(f func(v []float32)) {
	for i := range m.VertexCount() {
		f(m.Vertex(i))
	}
}

// vec3At checks that a has at least three components.
func vec3At(a Attrib) error {
	if a.len < 3 {
		return fmt.Errorf("%sattribute %q has fewer than 3 components", prefix, a.name)
	}
	return nil
}

// Translate adds (dx, dy, dz) to the Position attribute of
// every vertex.
func (m *Mesh) Translate(dx, dy, dz float32) error {
	a, err := m.attrs.ByType(Position)
	if err != nil {
		return err
	}
	if err := vec3At(a); err != nil {
		return err
	}
	m.Apply3(a.offset, func(x, y, z float32) (float32, float32, float32) {
		return x + dx, y + dy, z + dz
	})
	return nil
}

// Normalize normalizes the first three components of the
// attribute named name in every vertex.
// If any such vector has zero length, it returns an error
// wrapping linear.ErrZeroLength and m is not modified.
func (m *Mesh) Normalize(name string) error {
	a, err := m.attrs.ByName(name)
	if err != nil {
		return err
	}
	if err := vec3At(a); err != nil {
		return err
	}
	// Check every vertex first so m is left untouched
	// on failure.
	var v linear.V3
	for i := range m.VertexCount() {
		copy(v[:], m.Vertex(i)[a.offset:])
		if err := v.Norm(&v); err != nil {
			return fmt.Errorf("%s%q of vertex %d: %w", prefix, name, i, err)
		}
	}
	m.Apply3(a.offset, func(x, y, z float32) (float32, float32, float32) {
		v := linear.V3{x, y, z}
		v.Norm(&v)
		return v[0], v[1], v[2]
	})
	return nil
}

// Transform applies the model matrix mat to the Position
// attribute (as points) and its inverse transpose to the
// Normal attribute (as directions) of every vertex.
// Normals are renormalized. A mesh with no Normal attribute
// only has its positions transformed.
func (m *Mesh) Transform(mat *linear.M4) error {
	pos, err := m.attrs.ByType(Position)
	if err != nil {
		return err
	}
	if err := vec3At(pos); err != nil {
		return err
	}
	norm, nerr := m.attrs.ByType(Normal)
	var nm linear.M3
	if nerr == nil {
		if err := vec3At(norm); err != nil {
			return err
		}
		if err := nm.NormalMatrix(mat); err != nil {
			return fmt.Errorf("%snormal matrix: %w", prefix, err)
		}
	}
	m.Apply3(pos.offset, func(x, y, z float32) (float32, float32, float32) {
		var v linear.V4
		v.Mul(mat, &linear.V4{x, y, z, 1})
		return v[0], v[1], v[2]
	})
	if nerr == nil {
		m.Apply3(norm.offset, func(x, y, z float32) (float32, float32, float32) {
			var v linear.V3
			v.Mul(&nm, &linear.V3{x, y, z})
			// Zero normals stay zero.
			v.Norm(&v)
			return v[0], v[1], v[2]
		})
	}
	return nil
}
