// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package font

import (
	"errors"
	"sync"

	"github.com/gviegas/dust/mesh"
)

var layout = sync.OnceValue(func() *mesh.AttribArray {
	var b mesh.Builder
	a, err := b.Push("position", 3, mesh.Position).Push("uv", 2, mesh.UV).Build()
	if err != nil {
		panic(err)
	}
	return a
})

// Layout returns the attribute layout of meshes created by
// (*Font).Layout: position (3) and uv (2).
func Layout() *mesh.AttribArray { return layout() }

// spaceRef is the character whose advance is used for
// spaces.
const spaceRef = 'a'

// lineHeight returns f.LineHeight or, if that is not set,
// the lowest glyph bottom measured from the top of the line.
func (f *Font) lineHeight() int {
	if f.LineHeight > 0 {
		return f.LineHeight
	}
	var h int
	for _, g := range f.glyphs {
		h = max(h, g.YOffset+g.Height)
	}
	return h
}

// Layout creates a mesh with one quad per character of text,
// laid out left to right on the z = 0 plane. The line
// occupies [0, lineHeight·scale] on the y axis, and glyphs
// are placed using their x and y offsets.
// texW and texH are the size of the font texture in pixels,
// and scale converts pixels to model units.
// Texture coordinates assume a texture whose first row is
// the bottom one, as produced by package texture.
// Spaces produce no quad and advance by the advance of 'a'.
func (f *Font) Layout(text string, texW, texH int, scale float32) (*mesh.Mesh, error) {
	switch {
	case texW < 1 || texH < 1:
		return nil, errors.New(prefix + "invalid texture size")
	case scale <= 0:
		return nil, errors.New(prefix + "scale must be positive")
	}
	m := mesh.Empty(Layout())
	tw, th := float32(texW), float32(texH)
	lh := float32(f.lineHeight())
	var x float32
	for _, c := range text {
		if c == ' ' {
			g, err := f.Glyph(spaceRef)
			if err != nil {
				return nil, err
			}
			x += float32(g.Advance()) * scale
			continue
		}
		g, err := f.Glyph(c)
		if err != nil {
			return nil, err
		}
		if g.X+g.Width > texW || g.Y+g.Height > texH {
			return nil, errors.New(prefix + "glyph outside of texture bounds")
		}
		u0 := float32(g.X) / tw
		v0 := float32(texH-g.Y-g.Height) / th
		u1 := u0 + float32(g.Width)/tw
		v1 := v0 + float32(g.Height)/th
		x0 := x + float32(g.XOffset)*scale
		x1 := x0 + float32(g.Width)*scale
		// y offsets grow downwards.
		y1 := (lh - float32(g.YOffset)) * scale
		y0 := y1 - float32(g.Height)*scale
		n := m.VertexCount()
		if err := m.PushVertices([][]float32{
			{x0, y0, 0, u0, v0},
			{x1, y0, 0, u1, v0},
			{x1, y1, 0, u1, v1},
			{x0, y1, 0, u0, v1},
		}); err != nil {
			return nil, err
		}
		if err := m.PushFaces([]mesh.Face{
			{V1: n, V2: n + 1, V3: n + 2},
			{V1: n + 2, V2: n + 3, V3: n},
		}); err != nil {
			return nil, err
		}
		x += float32(g.Advance()) * scale
	}
	return m, nil
}
