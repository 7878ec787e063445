// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package font reads bitmap font metrics in the text .fnt
// format and lays out strings as textured quads.
package font

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gviegas/dust"
)

const prefix = "font: "

// Glyph describes the sub-rectangle of a font texture that
// contains a character.
// X and Y identify the top-left corner, in pixels, with the
// origin at the top-left corner of the texture.
type Glyph struct {
	ID       rune
	X, Y     int
	Width    int
	Height   int
	XOffset  int
	YOffset  int
	XAdvance int
}

// Advance returns the horizontal distance from g's origin
// to the next glyph's origin.
func (g Glyph) Advance() int {
	if g.XAdvance > 0 {
		return g.XAdvance
	}
	return g.Width
}

// Font is a set of glyphs.
type Font struct {
	glyphs map[rune]Glyph
	// Zero if not present in the source.
	LineHeight int
	ScaleW     int
	ScaleH     int
}

// SyntaxError is the error returned when font data is
// malformed.
type SyntaxError struct {
	// Path is empty if the data was not read from a file.
	Path string
	// Line is 1-based.
	Line   int
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%sline %d: %s", prefix, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s%s:%d: %s", prefix, e.Path, e.Line, e.Reason)
}

// ErrNoGlyph means that a font has no glyph for a given
// character.
var ErrNoGlyph = errors.New(prefix + "glyph not found")

// Keywords.
const (
	charKey   = "char"
	commonKey = "common"
)

// pairs parses the key=value fields of a line.
func pairs(fields []string) (map[string]int, string) {
	kv := make(map[string]int, len(fields))
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok || k == "" {
			return nil, fmt.Sprintf("malformed pair %q", f)
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			// Only integer values are of interest.
			continue
		}
		kv[k] = n
	}
	return kv, ""
}

// Parse reads font metrics from r.
// Lines starting with "char" describe glyphs and must have
// the id, x, y, width and height keys. Glyphs with zero
// width are skipped. Lines starting with "common" may set
// LineHeight, ScaleW and ScaleH. Other lines are ignored.
func Parse(r io.Reader) (*Font, error) {
	f := &Font{glyphs: make(map[rune]Glyph)}
	s := bufio.NewScanner(r)
	var ln int
	for s.Scan() {
		ln++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case charKey:
			kv, reason := pairs(fields[1:])
			if reason != "" {
				return nil, &SyntaxError{Line: ln, Reason: reason}
			}
			for _, k := range [...]string{"id", "x", "y", "width", "height"} {
				if _, ok := kv[k]; !ok {
					return nil, &SyntaxError{Line: ln, Reason: fmt.Sprintf("missing or non-integer %q", k)}
				}
			}
			g := Glyph{
				ID:       rune(kv["id"]),
				X:        kv["x"],
				Y:        kv["y"],
				Width:    kv["width"],
				Height:   kv["height"],
				XOffset:  kv["xoffset"],
				YOffset:  kv["yoffset"],
				XAdvance: kv["xadvance"],
			}
			switch {
			case g.ID < 0, g.X < 0, g.Y < 0, g.Width < 0, g.Height < 0:
				return nil, &SyntaxError{Line: ln, Reason: "negative glyph value"}
			case g.Width == 0:
				dust.Logger().Debug("font: skipped zero-width glyph", "id", g.ID, "line", ln)
				continue
			}
			if _, dup := f.glyphs[g.ID]; dup {
				dust.Logger().Warn("font: glyph redefined", "id", g.ID, "line", ln)
			}
			f.glyphs[g.ID] = g
		case commonKey:
			kv, reason := pairs(fields[1:])
			if reason != "" {
				return nil, &SyntaxError{Line: ln, Reason: reason}
			}
			f.LineHeight = kv["lineHeight"]
			f.ScaleW = kv["scaleW"]
			f.ScaleH = kv["scaleH"]
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(f.glyphs) == 0 {
		return nil, &SyntaxError{Line: ln, Reason: "no glyphs"}
	}
	return f, nil
}

// Load reads font metrics from the file at path.
func Load(path string) (*Font, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	f, err := Parse(file)
	if serr, ok := err.(*SyntaxError); ok {
		serr.Path = path
	}
	return f, err
}

// Len returns the number of glyphs.
func (f *Font) Len() int { return len(f.glyphs) }

// Glyph returns the glyph for character r.
func (f *Font) Glyph(r rune) (Glyph, error) {
	if g, ok := f.glyphs[r]; ok {
		return g, nil
	}
	return Glyph{}, fmt.Errorf("%w: %q", ErrNoGlyph, r)
}
