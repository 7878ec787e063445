// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package texture loads images and uploads them to GPU
// images for sampling.
package texture

import (
	"errors"

	"github.com/gviegas/dust"
	"github.com/gviegas/dust/driver"
)

const prefix = "texture: "

// Texture is a sampled 2D image stored in GPU memory.
type Texture struct {
	img    driver.Image
	view   driver.ImageView
	splr   driver.Sampler
	width  int
	height int
}

// DefaultSampling is used by New when spln is nil.
// It filters linearly and clamps to the edges.
var DefaultSampling = driver.Sampling{
	Min:    driver.FLinear,
	Mag:    driver.FLinear,
	Mipmap: driver.FNoMipmap,
	AddrU:  driver.AClamp,
	AddrV:  driver.AClamp,
	AddrW:  driver.AClamp,
}

// New creates a new texture from img.
// The pixel data is uploaded to an RGBA8 image through a
// staging buffer, and New only returns after the copy
// completes.
func New(gpu driver.GPU, img *Image, spln *driver.Sampling) (t *Texture, err error) {
	var reason string
	switch {
	case img == nil:
		reason = "nil image"
	case img.Width < 1 || img.Height < 1:
		reason = "empty image"
	case len(img.Pix) != img.Width*img.Height*3:
		reason = "pixel data size mismatch"
	case img.Width > gpu.Limits().MaxImage2D || img.Height > gpu.Limits().MaxImage2D:
		reason = "image too big for the GPU"
	default:
		goto validImage
	}
	err = errors.New(prefix + reason)
	return
validImage:
	if spln == nil {
		spln = &DefaultSampling
	}
	t = &Texture{width: img.Width, height: img.Height}
	defer func() {
		if err != nil {
			t.Destroy()
			t = nil
		}
	}()
	size := driver.Dim3D{Width: img.Width, Height: img.Height}
	if t.img, err = gpu.NewImage(driver.RGBA8un, size, 1, 1, 1, driver.UShaderSample); err != nil {
		return
	}
	if t.view, err = t.img.NewView(driver.IView2D, 0, 1, 0, 1); err != nil {
		return
	}
	if t.splr, err = gpu.NewSampler(spln); err != nil {
		return
	}
	data := img.RGBA()
	stg, err := newStaging(gpu, len(data))
	if err != nil {
		return
	}
	defer stg.free()
	off, err := stg.stage(data)
	if err != nil {
		return
	}
	stg.copyToImage(off, t.img, 0, img.Width, img.Height)
	if err = stg.commit(); err != nil {
		return
	}
	dust.Logger().Debug("texture: uploaded image",
		"width", img.Width,
		"height", img.Height,
		"bytes", len(data))
	return
}

// Width returns the width of t in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the height of t in pixels.
func (t *Texture) Height() int { return t.height }

// Image returns the underlying image.
func (t *Texture) Image() driver.Image { return t.img }

// View returns the image view used for sampling.
func (t *Texture) View() driver.ImageView { return t.view }

// Sampler returns the sampler.
func (t *Texture) Sampler() driver.Sampler { return t.splr }

// Destroy destroys the driver resources.
// It is safe to call Destroy more than once.
func (t *Texture) Destroy() {
	if t.splr != nil {
		t.splr.Destroy()
		t.splr = nil
	}
	if t.view != nil {
		t.view.Destroy()
		t.view = nil
	}
	if t.img != nil {
		t.img.Destroy()
		t.img = nil
	}
}
