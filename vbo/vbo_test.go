// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vbo

import (
	"bytes"
	"testing"

	"github.com/gviegas/dust/driver"
	"github.com/gviegas/dust/driver/soft"
	"github.com/gviegas/dust/mesh"
	"github.com/gviegas/dust/prim"
)

var gpu *soft.GPU

func init() {
	g, err := (&soft.Driver{}).Open()
	if err != nil {
		panic("could not obtain a driver.GPU for testing")
	}
	gpu = g.(*soft.GPU)
}

func TestUpload(t *testing.T) {
	live := gpu.Live()
	m := prim.Cube()
	vb, err := Upload(gpu, m, false)
	if err != nil {
		t.Fatalf("Upload failed:\n%#v", err)
	}
	if vb.Indexed() || vb.Count() != 36 || vb.Stride() != 44 {
		t.Fatalf("Upload: unexpected VertexBuffer\nindexed %t count %d stride %d", vb.Indexed(), vb.Count(), vb.Stride())
	}
	p, _ := m.PackExpanded()
	if !bytes.Equal(vb.Buffer().Bytes()[:len(p.Vertex)], p.Vertex) {
		t.Fatal("Upload: buffer contents differ from packed mesh")
	}
	vb.Destroy()
	vb.Destroy()
	if n := gpu.Live(); n != live {
		t.Fatalf("VertexBuffer.Destroy: live resources\nhave %d\nwant %d", n, live)
	}
}

func TestUploadIndexed(t *testing.T) {
	m := prim.Quad()
	// Odd vertex data size forces index alignment.
	var b mesh.Builder
	a, _ := b.Push("position", 3, mesh.Position).Build()
	odd, _ := mesh.New([][]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []mesh.Face{{V1: 0, V2: 1, V3: 2}}, a)

	for _, x := range [...]*mesh.Mesh{m, odd} {
		vb, err := Upload(gpu, x, true)
		if err != nil {
			t.Fatalf("Upload failed:\n%#v", err)
		}
		p, _ := x.PackIndexed(driver.Index16)
		if !vb.Indexed() || vb.Count() != p.IndexCount || vb.IndexFmt() != driver.Index16 {
			t.Fatalf("Upload: unexpected VertexBuffer\nindexed %t count %d", vb.Indexed(), vb.Count())
		}
		data := vb.Buffer().Bytes()
		if !bytes.Equal(data[:len(p.Vertex)], p.Vertex) {
			t.Fatal("Upload: vertex data differs from packed mesh")
		}
		off := (len(p.Vertex) + 3) &^ 3
		if !bytes.Equal(data[off:off+len(p.Index)], p.Index) {
			t.Fatal("Upload: index data differs from packed mesh")
		}
		vb.Destroy()
	}
}

func TestUploadIndex32(t *testing.T) {
	m, err := prim.Icosphere(6)
	if err != nil {
		t.Fatalf("prim.Icosphere failed:\n%#v", err)
	}
	if m.VertexCount() <= mesh.MaxIndex16 {
		t.Skip("mesh too small to require 32-bit indices")
	}
	vb, err := Upload(gpu, m, true)
	if err != nil {
		t.Fatalf("Upload failed:\n%#v", err)
	}
	defer vb.Destroy()
	if vb.IndexFmt() != driver.Index32 {
		t.Fatalf("Upload: IndexFmt\nhave %v\nwant %v", vb.IndexFmt(), driver.Index32)
	}
}

func TestUploadEmpty(t *testing.T) {
	live := gpu.Live()
	if _, err := Upload(gpu, mesh.Empty(prim.Layout()), true); err == nil {
		t.Fatal("Upload: expected error for empty mesh")
	}
	if n := gpu.Live(); n != live {
		t.Fatalf("Upload: resources leaked\nhave %d\nwant %d", n, live)
	}
}

func TestDraw(t *testing.T) {
	vb, err := Upload(gpu, prim.Cube(), true)
	if err != nil {
		t.Fatalf("Upload failed:\n%#v", err)
	}
	defer vb.Destroy()
	cb, err := gpu.NewCmdBuffer()
	if err != nil {
		t.Fatalf("GPU.NewCmdBuffer failed:\n%#v", err)
	}
	defer cb.Destroy()
	cb.Begin()
	vb.Bind(cb)
	vb.Draw(cb)
	if err := cb.End(); err != nil {
		t.Fatalf("CmdBuffer.End failed:\n%#v", err)
	}
	n := len(gpu.Draws())
	if err := gpu.Commit([]driver.CmdBuffer{cb}); err != nil {
		t.Fatalf("GPU.Commit failed:\n%#v", err)
	}
	d := gpu.Draws()[n:]
	if len(d) != 1 {
		t.Fatalf("GPU.Draws: len\nhave %d\nwant 1", len(d))
	}
	if !d[0].Indexed || d[0].Count != 36 || d[0].Index.Buf != vb.Buffer() || d[0].Index.Off != 24*44 {
		t.Fatalf("VertexBuffer.Draw: unexpected draw\n%+v", d[0])
	}
}

func TestVertexIns(t *testing.T) {
	var b mesh.Builder
	a, _ := b.Push("position", 3, mesh.Position).
		Push("normal", 3, mesh.Normal).
		Push("uv", 2, mesh.UV).
		PushCustom("weight", 1).
		Build()
	ins := VertexIns(a, map[mesh.AttribType]int{mesh.Position: 0, mesh.UV: 2}, map[string]int{"weight": 5})
	want := []driver.VertexIn{
		{Format: driver.Float32x3, Stride: 36, Offset: 0, Nr: 0, Name: "position"},
		{Format: driver.Float32x2, Stride: 36, Offset: 24, Nr: 2, Name: "uv"},
		{Format: driver.Float32, Stride: 36, Offset: 32, Nr: 5, Name: "weight"},
	}
	if len(ins) != len(want) {
		t.Fatalf("VertexIns: len\nhave %d\nwant %d", len(ins), len(want))
	}
	for i := range want {
		if ins[i] != want[i] {
			t.Errorf("VertexIns: [%d]\nhave %+v\nwant %+v", i, ins[i], want[i])
		}
	}
}

func TestUploadPacked(t *testing.T) {
	live := gpu.Live()
	p, err := prim.Cube().PackIndexed(driver.Index32)
	if err != nil {
		t.Fatalf("PackIndexed failed:\n%#v", err)
	}
	vb, err := UploadPacked(gpu, p)
	if err != nil {
		t.Fatalf("UploadPacked failed:\n%#v", err)
	}
	defer vb.Destroy()
	if vb.IndexFmt() != driver.Index32 || vb.Count() != 36 {
		t.Fatalf("UploadPacked: unexpected VertexBuffer\nfmt %v count %d", vb.IndexFmt(), vb.Count())
	}
	if off := vb.IndexOffset(); off != int64(len(p.Vertex)) || off%4 != 0 {
		t.Fatalf("VertexBuffer.IndexOffset\nhave %d\nwant %d", off, len(p.Vertex))
	}
	data := vb.Buffer().Bytes()
	if !bytes.Equal(data[vb.IndexOffset():], p.Index) {
		t.Fatal("UploadPacked: index data differs from packed mesh")
	}

	for _, x := range [...]*mesh.Packed{nil, {}, {Vertex: []byte{0, 0, 0, 0}}} {
		if _, err := UploadPacked(gpu, x); err == nil {
			t.Errorf("UploadPacked: expected error for %+v", x)
		}
	}
	vb.Destroy()
	if n := gpu.Live(); n != live {
		t.Fatalf("UploadPacked: live resources\nhave %d\nwant %d", n, live)
	}
}
