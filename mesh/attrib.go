// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mesh

import (
	"errors"
	"fmt"

	"github.com/gviegas/dust/driver"
)

// AttribType specifies the intended use of a vertex attribute.
type AttribType int

// Attribute types.
const (
	Position AttribType = iota
	Normal
	ColorRGB
	ColorRGBA
	UV
	// Custom attributes have no predefined meaning.
	// Any number of them can be present in a layout.
	Custom
)

// String implements fmt.Stringer.
func (t AttribType) String() string {
	switch t {
	case Position:
		return "Position"
	case Normal:
		return "Normal"
	case ColorRGB:
		return "ColorRGB"
	case ColorRGBA:
		return "ColorRGBA"
	case UV:
		return "UV"
	case Custom:
		return "Custom"
	default:
		return "[!] invalid AttribType value"
	}
}

// Len returns the natural number of components of t.
// It returns 0 for Custom.
func (t AttribType) Len() int {
	switch t {
	case Position, Normal, ColorRGB:
		return 3
	case ColorRGBA:
		return 4
	case UV:
		return 2
	default:
		return 0
	}
}

// Format returns the driver.VertexFmt for an attribute
// with n float32 components.
// n must be in the range [1, 4].
func Format(n int) driver.VertexFmt {
	if n < 1 || n > 4 {
		panic("invalid attribute length")
	}
	return driver.Float32 + driver.VertexFmt(n-1)
}

// Attrib describes a single vertex attribute.
// Len, Offset and Stride are measured in float32 units.
type Attrib struct {
	name   string
	typ    AttribType
	len    int
	offset int
	stride int
}

// Name returns the attribute's name.
func (a Attrib) Name() string { return a.name }

// Type returns the attribute's type.
func (a Attrib) Type() AttribType { return a.typ }

// Len returns the number of components.
func (a Attrib) Len() int { return a.len }

// Offset returns the position of the first component within
// a vertex.
func (a Attrib) Offset() int { return a.offset }

// Stride returns the length of a whole vertex.
func (a Attrib) Stride() int { return a.stride }

// Format returns the driver.VertexFmt of a.
func (a Attrib) Format() driver.VertexFmt { return Format(a.len) }

// AttribArray is an immutable, ordered vertex layout.
// It is safe to share an AttribArray across meshes.
type AttribArray struct {
	attrs  []Attrib
	byType map[AttribType]int
	stride int
}

// ErrNoAttrib means that a layout has no attribute
// matching a query.
var ErrNoAttrib = errors.New(prefix + "attribute not found")

// Len returns the number of attributes.
func (a *AttribArray) Len() int { return len(a.attrs) }

// Stride returns the number of float32 components of a
// whole vertex.
func (a *AttribArray) Stride() int { return a.stride }

// At returns the attribute at index i.
func (a *AttribArray) At(i int) Attrib { return a.attrs[i] }

// ByName returns the attribute named name.
func (a *AttribArray) ByName(name string) (Attrib, error) {
	for i := range a.attrs {
		if a.attrs[i].name == name {
			return a.attrs[i], nil
		}
	}
	return Attrib{}, fmt.Errorf("%w: %q", ErrNoAttrib, name)
}

// ByType returns the attribute of type t.
// Custom attributes cannot be queried by type.
func (a *AttribArray) ByType(t AttribType) (Attrib, error) {
	if i, ok := a.byType[t]; ok {
		return a.attrs[i], nil
	}
	return Attrib{}, fmt.Errorf("%w: %s", ErrNoAttrib, t)
}

// Builder builds an AttribArray.
// The zero value is ready for use.
type Builder struct {
	attrs []Attrib
}

// Push appends an attribute with n components.
// Errors are reported by Build.
func (b *Builder) Push(name string, n int, typ AttribType) *Builder {
	b.attrs = append(b.attrs, Attrib{name: name, typ: typ, len: n})
	return b
}

// PushCustom appends a Custom attribute with n components.
func (b *Builder) PushCustom(name string, n int) *Builder {
	return b.Push(name, n, Custom)
}

// Build validates the pushed attributes and computes their
// offsets and the layout's stride.
// The Builder can be reused after Build returns.
func (b *Builder) Build() (*AttribArray, error) {
	arr := &AttribArray{
		attrs:  make([]Attrib, len(b.attrs)),
		byType: make(map[AttribType]int),
	}
	names := make(map[string]bool, len(b.attrs))
	var reason string
	for i, x := range b.attrs {
		switch {
		case x.name == "":
			reason = "empty attribute name"
		case x.typ < Position || x.typ > Custom:
			reason = "invalid attribute type"
		case x.len < 1:
			reason = "attribute length must be positive"
		case x.len > 4:
			reason = "attribute length must not exceed 4"
		case names[x.name]:
			reason = "duplicate attribute name"
		default:
			if x.typ != Custom {
				if _, dup := arr.byType[x.typ]; dup {
					reason = "duplicate attribute type"
					break
				}
				arr.byType[x.typ] = i
			}
			names[x.name] = true
			x.offset = arr.stride
			arr.stride += x.len
			arr.attrs[i] = x
			continue
		}
		return nil, fmt.Errorf("%s%s: %q", prefix, reason, x.name)
	}
	if len(arr.attrs) == 0 {
		return nil, errors.New(prefix + "empty layout")
	}
	for i := range arr.attrs {
		arr.attrs[i].stride = arr.stride
	}
	return arr, nil
}
