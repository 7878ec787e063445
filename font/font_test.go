// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package font

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fnt = `info face="Test" size=16 bold=0 italic=0
common lineHeight=18 base=14 scaleW=64 scaleH=32 pages=1 packed=0
page id=0 file="font.ppm"
chars count=4
char id=32   x=0    y=0    width=0    height=0    xoffset=0 yoffset=14 xadvance=4  page=0 chnl=15
char id=97   x=0    y=0    width=8    height=10   xoffset=1 yoffset=4  xadvance=9  page=0 chnl=15
char id=98   x=8    y=0    width=8    height=14   xoffset=0 yoffset=0  xadvance=9  page=0 chnl=15
char id=72   x=16   y=16   width=10   height=16
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(fnt))
	if err != nil {
		t.Fatalf("Parse failed:\n%#v", err)
	}
	if f.Len() != 3 {
		t.Fatalf("Font.Len\nhave %d\nwant 3", f.Len())
	}
	if f.LineHeight != 18 || f.ScaleW != 64 || f.ScaleH != 32 {
		t.Fatalf("Parse: common\nhave %d %d %d\nwant 18 64 32", f.LineHeight, f.ScaleW, f.ScaleH)
	}
	g, err := f.Glyph('b')
	if err != nil {
		t.Fatalf("Font.Glyph failed:\n%#v", err)
	}
	want := Glyph{ID: 'b', X: 8, Y: 0, Width: 8, Height: 14, XAdvance: 9}
	if g != want {
		t.Fatalf("Font.Glyph\nhave %+v\nwant %+v", g, want)
	}
	if h, _ := f.Glyph('H'); h.Advance() != 10 {
		t.Fatalf("Glyph.Advance\nhave %d\nwant 10", h.Advance())
	}
	if _, err := f.Glyph(' '); !errors.Is(err, ErrNoGlyph) {
		t.Fatalf("Font.Glyph(' ')\nhave %v\nwant %v", err, ErrNoGlyph)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, x := range [...]struct {
		data string
		line int
	}{
		{"char id=1 x=0 y=0 width=1\n", 1},
		{"info\nchar id=1 x=0 y=0 width=1 height=a\n", 2},
		{"char id=1 x=0 y=0 width=1 height=1\nchar id=2 x\n", 2},
		{"char id=1 x=-1 y=0 width=1 height=1\n", 1},
		{"info\n\n", 2},
		{"", 0},
	} {
		_, err := Parse(strings.NewReader(x.data))
		var serr *SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Parse(%q)\nhave %v\nwant *SyntaxError", x.data, err)
			continue
		}
		if serr.Line != x.line {
			t.Errorf("Parse(%q): SyntaxError.Line\nhave %d\nwant %d", x.data, serr.Line, x.line)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "font.fnt")
	os.WriteFile(path, []byte(fnt), 0o644)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed:\n%#v", err)
	}
	if f.Len() != 3 {
		t.Fatalf("Font.Len\nhave %d\nwant 3", f.Len())
	}
	bad := filepath.Join(dir, "bad.fnt")
	os.WriteFile(bad, []byte("char id=x\n"), 0o644)
	_, err = Load(bad)
	if err == nil || !strings.Contains(err.Error(), bad+":1:") {
		t.Fatalf("Load: expected error with path and line\nhave %v", err)
	}
}

func TestLayout(t *testing.T) {
	f, _ := Parse(strings.NewReader(fnt))
	const scale = 0.5
	m, err := f.Layout("ab a", 64, 32, scale)
	if err != nil {
		t.Fatalf("Font.Layout failed:\n%#v", err)
	}
	if m.VertexCount() != 12 || len(m.Faces()) != 6 {
		t.Fatalf("Font.Layout: counts\nhave %d/%d\nwant 12/6", m.VertexCount(), len(m.Faces()))
	}
	// 'a' starts at xoffset, 'b' after one advance,
	// the second 'a' after three (space uses 'a').
	// Both glyphs sit on the baseline, lineHeight-base above
	// the bottom of the line.
	for i, x0 := range [3]float32{1 * scale, 9 * scale, (27 + 1) * scale} {
		if v := m.Vertex(i * 4); v[0] != x0 || v[1] != 4*scale {
			t.Errorf("Font.Layout: quad %d origin\nhave %v\nwant [%v %v]", i, v[:2], x0, 4*scale)
		}
	}
	if v := m.Vertex(2); v[1] != 14*scale {
		t.Errorf("Font.Layout: top of 'a'\nhave %v\nwant %v", v[1], 14*scale)
	}
	// 'b' is at (8, 0) with size 8x14 in a 64x32 texture
	// whose rows are flipped.
	v := m.Vertex(4)
	u0, v0 := float32(8)/64, float32(32-14)/32
	if v[3] != u0 || v[4] != v0 {
		t.Errorf("Font.Layout: uv of 'b'\nhave %v\nwant %v %v", v[3:], u0, v0)
	}
	v = m.Vertex(6)
	if v[3] != u0+float32(8)/64 || v[4] != v0+float32(14)/32 || v[1] != 18*scale {
		t.Errorf("Font.Layout: top-right of 'b'\nhave %v", v)
	}

	// Without a common line, the line height comes from the
	// glyphs: 'b' reaches 14 and 'H' 16.
	f.LineHeight = 0
	m, err = f.Layout("b", 64, 32, 1)
	if err != nil {
		t.Fatalf("Font.Layout failed:\n%#v", err)
	}
	if y0, y1 := m.Vertex(0)[1], m.Vertex(2)[1]; y0 != 2 || y1 != 16 {
		t.Errorf("Font.Layout: no line height\nhave %v %v\nwant 2 16", y0, y1)
	}

	if _, err := f.Layout("abc", 64, 32, scale); !errors.Is(err, ErrNoGlyph) {
		t.Errorf("Font.Layout\nhave %v\nwant %v", err, ErrNoGlyph)
	}
	if _, err := f.Layout("H", 16, 16, scale); err == nil {
		t.Error("Font.Layout: expected error for glyph outside of texture")
	}
	if _, err := f.Layout("a", 0, 32, scale); err == nil {
		t.Error("Font.Layout: expected error for invalid texture size")
	}
}
