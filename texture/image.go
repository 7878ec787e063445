// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package texture

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"os"

	// Decoders accepted by Load, besides PNM.
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Image is an 8-bit RGB image whose first row is the bottom
// one, so (0, 0) identifies the bottom-left pixel.
type Image struct {
	Width  int
	Height int
	// Pix has 3 bytes per pixel and no padding.
	Pix []byte
}

// At returns the color of the pixel at (x, y).
func (m *Image) At(x, y int) (r, g, b byte) {
	i := (y*m.Width + x) * 3
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// RGBA returns the pixel data expanded to 4 bytes per pixel,
// with alpha set to 255.
func (m *Image) RGBA() []byte {
	n := m.Width * m.Height
	rgba := make([]byte, n*4)
	for i := range n {
		copy(rgba[i*4:i*4+3], m.Pix[i*3:i*3+3])
		rgba[i*4+3] = 255
	}
	return rgba
}

// FromImage converts img to an Image, flipping it vertically
// since image.Image has its origin at the top-left corner.
// Alpha is discarded.
func FromImage(img image.Image) (*Image, error) {
	bnd := img.Bounds()
	w, h := bnd.Dx(), bnd.Dy()
	switch {
	case w < 1 || h < 1:
		return nil, errors.New(prefix + "empty image")
	case w > MaxSize || h > MaxSize:
		return nil, errors.New(prefix + "image too big")
	}
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(rgba, rgba.Rect, img, bnd.Min, xdraw.Src)
	pix := make([]byte, w*h*3)
	for y := range h {
		src := rgba.Pix[y*rgba.Stride:]
		dst := pix[(h-1-y)*w*3:]
		for x := range w {
			copy(dst[x*3:x*3+3], src[x*4:x*4+3])
		}
	}
	return &Image{Width: w, Height: h, Pix: pix}, nil
}

// Load reads the image file at path.
// Binary PPM (P6) files are decoded with DecodePNM.
// PNG, BMP and TIFF files are decoded with package image.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)
	magic, _ := r.Peek(3)
	if isPNM(magic) {
		img, err := DecodePNM(r)
		if ferr, ok := err.(*FormatError); ok {
			ferr.Path = path
		}
		return img, err
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s%s: %w", prefix, path, err)
	}
	m, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
