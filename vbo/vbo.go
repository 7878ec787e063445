// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package vbo uploads packed meshes to GPU buffers and
// records the commands that draw them.
package vbo

import (
	"errors"
	"fmt"

	"github.com/gviegas/dust"
	"github.com/gviegas/dust/driver"
	"github.com/gviegas/dust/mesh"
)

const prefix = "vbo: "

// VertexBuffer is a mesh stored in a single GPU buffer.
// Vertex data starts at offset 0. Index data, if any,
// follows it at a 4-byte aligned offset.
type VertexBuffer struct {
	buf      driver.Buffer
	count    int
	indexed  bool
	indexFmt driver.IndexFmt
	indexOff int64
	stride   int
}

// Upload packs m and copies the result to a new host-visible
// buffer created from gpu.
// If indexed is true, indices are stored as driver.Index16
// when possible and as driver.Index32 otherwise.
// The caller must call Destroy when the buffer is no longer
// needed.
func Upload(gpu driver.GPU, m *mesh.Mesh, indexed bool) (*VertexBuffer, error) {
	var (
		p   *mesh.Packed
		err error
	)
	switch {
	case !indexed:
		p, err = m.PackExpanded()
	case m.VertexCount() > mesh.MaxIndex16:
		p, err = m.PackIndexed(driver.Index32)
	default:
		p, err = m.PackIndexed(driver.Index16)
	}
	if err != nil {
		return nil, err
	}
	return UploadPacked(gpu, p)
}

// UploadPacked copies p to a new host-visible buffer created
// from gpu.
func UploadPacked(gpu driver.GPU, p *mesh.Packed) (*VertexBuffer, error) {
	if p == nil || len(p.Vertex) == 0 || p.Stride <= 0 {
		return nil, errors.New(prefix + "invalid packed mesh")
	}
	size := int64(len(p.Vertex))
	var idxOff int64
	if p.Indexed() {
		idxOff = (size + 3) &^ 3
		size = idxOff + int64(len(p.Index))
	}
	if lim := gpu.Limits().MaxBuffer; size > lim {
		return nil, fmt.Errorf("%sbuffer size %d exceeds limit %d", prefix, size, lim)
	}
	usg := driver.UVertexData
	if p.Indexed() {
		usg |= driver.UIndexData
	}
	buf, err := gpu.NewBuffer(size, true, usg)
	if err != nil {
		return nil, err
	}
	data := buf.Bytes()
	if int64(len(data)) < size {
		buf.Destroy()
		return nil, errors.New(prefix + "buffer is not host visible")
	}
	copy(data, p.Vertex)
	if p.Indexed() {
		copy(data[idxOff:], p.Index)
	}
	vb := &VertexBuffer{
		buf:      buf,
		count:    p.VertexCount,
		indexed:  p.Indexed(),
		indexFmt: p.IndexFmt,
		indexOff: idxOff,
		stride:   p.Stride,
	}
	if vb.indexed {
		vb.count = p.IndexCount
	}
	dust.Logger().Debug("vbo: uploaded mesh",
		"bytes", size,
		"vertices", p.VertexCount,
		"indices", p.IndexCount,
		"indexFmt", int(p.IndexFmt))
	return vb, nil
}

// Buffer returns the underlying buffer.
func (vb *VertexBuffer) Buffer() driver.Buffer { return vb.buf }

// Count returns the number of vertices (if not indexed)
// or indices (if indexed) that Draw draws.
func (vb *VertexBuffer) Count() int { return vb.count }

// Indexed returns whether vb has index data.
func (vb *VertexBuffer) Indexed() bool { return vb.indexed }

// IndexFmt returns the format of vb's index data.
// It is only meaningful if vb.Indexed returns true.
func (vb *VertexBuffer) IndexFmt() driver.IndexFmt { return vb.indexFmt }

// IndexOffset returns the offset of index data in the
// buffer. It is only meaningful if vb.Indexed returns true.
func (vb *VertexBuffer) IndexOffset() int64 { return vb.indexOff }

// Stride returns the size of a vertex in bytes.
func (vb *VertexBuffer) Stride() int { return vb.stride }

// Bind records commands in cb that set vb as the vertex
// buffer (and index buffer, if indexed).
func (vb *VertexBuffer) Bind(cb driver.CmdBuffer) {
	cb.SetVertexBuf(0, []driver.Buffer{vb.buf}, []int64{0})
	if vb.indexed {
		cb.SetIndexBuf(vb.indexFmt, vb.buf, vb.indexOff)
	}
}

// Draw records a draw command in cb.
// vb must have been bound by a previous call to Bind.
func (vb *VertexBuffer) Draw(cb driver.CmdBuffer) {
	if vb.indexed {
		cb.DrawIndexed(vb.count, 1, 0, 0, 0)
	} else {
		cb.Draw(vb.count, 1, 0, 0)
	}
}

// Destroy destroys the underlying buffer.
// It is safe to call Destroy more than once.
func (vb *VertexBuffer) Destroy() {
	if vb.buf != nil {
		vb.buf.Destroy()
		vb.buf = nil
	}
}

// VertexIns describes the vertex inputs of the layout attrs.
// locs maps attribute types to shader locations. Attributes
// whose type is not present in locs are not included.
// Custom attributes are matched by name using names, which
// may be nil.
func VertexIns(attrs *mesh.AttribArray, locs map[mesh.AttribType]int, names map[string]int) []driver.VertexIn {
	var ins []driver.VertexIn
	for i := range attrs.Len() {
		a := attrs.At(i)
		var (
			nr int
			ok bool
		)
		if a.Type() == mesh.Custom {
			nr, ok = names[a.Name()]
		} else {
			nr, ok = locs[a.Type()]
		}
		if !ok {
			continue
		}
		ins = append(ins, driver.VertexIn{
			Format: a.Format(),
			Stride: a.Stride() * 4,
			Offset: a.Offset() * 4,
			Nr:     nr,
			Name:   a.Name(),
		})
	}
	return ins
}
