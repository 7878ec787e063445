// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package soft implements the driver interfaces on host
// memory.
// It executes copies on the CPU and records draw calls
// instead of rasterizing them, which makes it suitable for
// headless use and for testing code built on driver.GPU.
//
// Importing this package registers a driver named "soft".
package soft

import (
	"errors"

	"github.com/gviegas/dust"
	"github.com/gviegas/dust/driver"
)

const prefix = "soft: "

const driverName = "soft"

func init() { driver.Register(&Driver{}) }

// Driver implements driver.Driver.
type Driver struct {
	gpu *GPU
}

// Open implements driver.Driver.
func (d *Driver) Open() (driver.GPU, error) {
	if d.gpu == nil {
		d.gpu = &GPU{drv: d}
		dust.Logger().Debug("soft: GPU opened")
	}
	return d.gpu, nil
}

// Name implements driver.Driver.
func (d *Driver) Name() string { return driverName }

// Close implements driver.Driver.
func (d *Driver) Close() { d.gpu = nil }

// GPU implements driver.GPU.
type GPU struct {
	drv   *Driver
	live  int
	draws []Draw
}

// Limits of the soft driver.
var limits = driver.Limits{
	MaxImage2D:  16384,
	MaxLayers:   2048,
	MaxBuffer:   1 << 31,
	MaxVertexIn: 16,
}

// Driver implements driver.GPU.
func (g *GPU) Driver() driver.Driver { return g.drv }

// Limits implements driver.GPU.
func (g *GPU) Limits() driver.Limits { return limits }

// Live returns the number of resources created from g
// that were not destroyed yet.
func (g *GPU) Live() int { return g.live }

// Draws returns the draw calls executed so far.
func (g *GPU) Draws() []Draw { return g.draws }

// Binding is a buffer range bound for a draw call.
type Binding struct {
	Buf driver.Buffer
	Off int64
}

// Draw describes an executed draw call.
type Draw struct {
	Vertex    []Binding
	Indexed   bool
	IndexFmt  driver.IndexFmt
	Index     Binding
	Count     int
	InstCount int
	Base      int
	VertOff   int
	BaseInst  int
}

// Commit implements driver.GPU.
func (g *GPU) Commit(cb []driver.CmdBuffer) error {
	for _, x := range cb {
		c, ok := x.(*cmdBuffer)
		switch {
		case !ok || c.gpu != g:
			return errors.New(prefix + "foreign command buffer")
		case c.destroyed:
			return errors.New(prefix + "destroyed command buffer")
		case c.state != cmdEnded:
			return errors.New(prefix + "command buffer not ended")
		}
	}
	var err error
	for _, x := range cb {
		c := x.(*cmdBuffer)
		for _, cmd := range c.cmds {
			if err != nil {
				break
			}
			err = cmd()
		}
		// Executed or not, the commands are consumed.
		c.cmds = c.cmds[:0]
		c.state = cmdInitial
	}
	return err
}

// NewBuffer implements driver.GPU.
func (g *GPU) NewBuffer(size int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	if size <= 0 || size > limits.MaxBuffer {
		return nil, errors.New(prefix + "invalid buffer size")
	}
	g.live++
	return &buffer{gpu: g, data: make([]byte, size), visible: visible, usage: usg}, nil
}

// NewImage implements driver.GPU.
func (g *GPU) NewImage(pf driver.PixelFmt, size driver.Dim3D, layers, levels, samples int, usg driver.Usage) (driver.Image, error) {
	var reason string
	switch {
	case pf.Size() == 0:
		reason = "invalid pixel format"
	case size.Width < 1, size.Height < 1, size.Depth != 0:
		reason = "invalid image size"
	case size.Width > limits.MaxImage2D, size.Height > limits.MaxImage2D:
		reason = "image size too big"
	case layers < 1, layers > limits.MaxLayers:
		reason = "invalid layer count"
	case levels != 1:
		reason = "mipmaps not supported"
	case samples != 1:
		reason = "multisampling not supported"
	default:
		img := &image{gpu: g, pf: pf, size: size, data: make([][]byte, layers)}
		for i := range img.data {
			img.data[i] = make([]byte, size.Width*size.Height*pf.Size())
		}
		g.live++
		return img, nil
	}
	return nil, errors.New(prefix + reason)
}

// NewSampler implements driver.GPU.
func (g *GPU) NewSampler(spln *driver.Sampling) (driver.Sampler, error) {
	if spln == nil {
		return nil, errors.New(prefix + "nil sampling")
	}
	g.live++
	return &sampler{gpu: g, spln: *spln}, nil
}

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// NewShaderCode implements driver.GPU.
func (g *GPU) NewShaderCode(data []byte) (driver.ShaderCode, error) {
	if len(data) < 20 || len(data)%4 != 0 {
		return nil, errors.New(prefix + "invalid SPIR-V length")
	}
	magic := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
	if magic != spirvMagic {
		return nil, errors.New(prefix + "invalid SPIR-V magic")
	}
	g.live++
	return &shaderCode{gpu: g, data: append([]byte(nil), data...)}, nil
}

// ReadImage returns a copy of the pixel data stored in
// layer of img.
func (g *GPU) ReadImage(img driver.Image, layer int) ([]byte, error) {
	m, ok := img.(*image)
	switch {
	case !ok || m.gpu != g:
		return nil, errors.New(prefix + "foreign image")
	case m.destroyed:
		return nil, errors.New(prefix + "destroyed image")
	case layer < 0, layer >= len(m.data):
		return nil, errors.New(prefix + "layer out of bounds")
	}
	return append([]byte(nil), m.data[layer]...), nil
}

// release is called when a resource is destroyed.
func (g *GPU) release() { g.live-- }
