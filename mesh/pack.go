// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/mobile/exp/f32"

	"github.com/gviegas/dust/driver"
)

// ErrIndexOverflow means that a mesh has too many vertices
// for the requested index format.
var ErrIndexOverflow = errors.New(prefix + "vertex count exceeds index format range")

// MaxIndex16 is the maximum number of vertices that can be
// packed with driver.Index16.
const MaxIndex16 = 1<<16 - 1

// Packed is a mesh packed into byte blobs ready for upload.
// Vertex holds VertexCount interleaved vertices of Stride
// float32 components each, in little-endian order.
// Index is nil for expanded packing.
type Packed struct {
	Vertex      []byte
	Index       []byte
	IndexFmt    driver.IndexFmt
	VertexCount int
	IndexCount  int
	// Stride in bytes.
	Stride int
}

// Indexed returns whether p has index data.
func (p *Packed) Indexed() bool { return p.Index != nil }

// PackExpanded packs m by copying the three vertices of each
// face contiguously, in face order.
// The result has 3 vertices per face and no index data.
func (m *Mesh) PackExpanded() (*Packed, error) {
	if len(m.faces) == 0 {
		return nil, errors.New(prefix + "cannot pack mesh with no faces")
	}
	n := m.attrs.stride
	data := make([]float32, 0, len(m.faces)*3*n)
	for _, f := range m.faces {
		data = append(data, m.Vertex(f.V1)...)
		data = append(data, m.Vertex(f.V2)...)
		data = append(data, m.Vertex(f.V3)...)
	}
	return &Packed{
		Vertex:      f32.Bytes(binary.LittleEndian, data...),
		VertexCount: len(m.faces) * 3,
		Stride:      n * 4,
	}, nil
}

// PackIndexed packs m's vertices once, in mesh order, followed
// by index data in face order using the given format.
func (m *Mesh) PackIndexed(format driver.IndexFmt) (*Packed, error) {
	var reason string
	switch {
	case len(m.faces) == 0:
		reason = "cannot pack mesh with no faces"
	case format != driver.Index16 && format != driver.Index32:
		reason = "invalid index format"
	case format == driver.Index16 && m.VertexCount() > MaxIndex16:
		return nil, fmt.Errorf("%w: %d vertices", ErrIndexOverflow, m.VertexCount())
	default:
		goto validFmt
	}
	return nil, errors.New(prefix + reason)
validFmt:
	idx := make([]byte, 0, len(m.faces)*3*int(format))
	for _, f := range m.faces {
		for _, i := range [3]int{f.V1, f.V2, f.V3} {
			if format == driver.Index16 {
				idx = binary.LittleEndian.AppendUint16(idx, uint16(i))
			} else {
				idx = binary.LittleEndian.AppendUint32(idx, uint32(i))
			}
		}
	}
	return &Packed{
		Vertex:      f32.Bytes(binary.LittleEndian, m.verts...),
		Index:       idx,
		IndexFmt:    format,
		VertexCount: m.VertexCount(),
		IndexCount:  len(m.faces) * 3,
		Stride:      m.attrs.stride * 4,
	}, nil
}
