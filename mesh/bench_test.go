// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mesh

import (
	"testing"

	"github.com/gviegas/dust/driver"
)

func grid(b *testing.B, n int) *Mesh {
	var bld Builder
	a, err := bld.Push("position", 3, Position).Push("uv", 2, UV).Build()
	if err != nil {
		b.Fatal(err)
	}
	m := Empty(a)
	for y := range n + 1 {
		for x := range n + 1 {
			u, v := float32(x)/float32(n), float32(y)/float32(n)
			m.PushVertex([]float32{u, v, 0, u, v})
		}
	}
	for y := range n {
		for x := range n {
			i := y*(n+1) + x
			m.PushFace(Face{i, i + 1, i + n + 2})
			m.PushFace(Face{i + n + 2, i + n + 1, i})
		}
	}
	return m
}

func BenchmarkPackExpanded(b *testing.B) {
	m := grid(b, 64)
	b.ResetTimer()
	for range b.N {
		if _, err := m.PackExpanded(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPackIndexed(b *testing.B) {
	m := grid(b, 64)
	b.ResetTimer()
	for range b.N {
		if _, err := m.PackIndexed(driver.Index16); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNormalize(b *testing.B) {
	m := grid(b, 64)
	m.Translate(0, 0, 1)
	b.ResetTimer()
	for range b.N {
		m.Normalize("position")
	}
}
