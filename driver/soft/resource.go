// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"errors"

	"github.com/gviegas/dust/driver"
)

// buffer implements driver.Buffer.
type buffer struct {
	gpu       *GPU
	data      []byte
	visible   bool
	usage     driver.Usage
	destroyed bool
}

// Destroy implements driver.Destroyer.
func (b *buffer) Destroy() {
	if !b.destroyed {
		b.destroyed = true
		b.data = nil
		b.gpu.release()
	}
}

// Visible implements driver.Buffer.
func (b *buffer) Visible() bool { return b.visible }

// Bytes implements driver.Buffer.
func (b *buffer) Bytes() []byte {
	if !b.visible {
		return nil
	}
	return b.data
}

// Cap implements driver.Buffer.
func (b *buffer) Cap() int64 { return int64(len(b.data)) }

// image implements driver.Image.
type image struct {
	gpu       *GPU
	pf        driver.PixelFmt
	size      driver.Dim3D
	data      [][]byte
	views     int
	destroyed bool
}

// Destroy implements driver.Destroyer.
func (m *image) Destroy() {
	if m.destroyed {
		return
	}
	if m.views > 0 {
		panic("soft: image destroyed before its views")
	}
	m.destroyed = true
	m.data = nil
	m.gpu.release()
}

// NewView implements driver.Image.
func (m *image) NewView(typ driver.ViewType, layer, layers, level, levels int) (driver.ImageView, error) {
	var reason string
	switch {
	case m.destroyed:
		reason = "destroyed image"
	case layer < 0, layers < 1, layer+layers > len(m.data):
		reason = "view layers out of bounds"
	case typ == driver.IView2D && layers != 1:
		reason = "2D view of multiple layers"
	case typ != driver.IView2D && typ != driver.IView2DArray:
		reason = "invalid view type"
	case level != 0, levels != 1:
		reason = "view levels out of bounds"
	default:
		m.views++
		m.gpu.live++
		return &imageView{img: m}, nil
	}
	return nil, errors.New(prefix + reason)
}

// imageView implements driver.ImageView.
type imageView struct {
	img       *image
	destroyed bool
}

// Destroy implements driver.Destroyer.
func (v *imageView) Destroy() {
	if !v.destroyed {
		v.destroyed = true
		v.img.views--
		v.img.gpu.release()
	}
}

// sampler implements driver.Sampler.
type sampler struct {
	gpu       *GPU
	spln      driver.Sampling
	destroyed bool
}

// Destroy implements driver.Destroyer.
func (s *sampler) Destroy() {
	if !s.destroyed {
		s.destroyed = true
		s.gpu.release()
	}
}

// shaderCode implements driver.ShaderCode.
type shaderCode struct {
	gpu       *GPU
	data      []byte
	destroyed bool
}

// Destroy implements driver.Destroyer.
func (c *shaderCode) Destroy() {
	if !c.destroyed {
		c.destroyed = true
		c.data = nil
		c.gpu.release()
	}
}
