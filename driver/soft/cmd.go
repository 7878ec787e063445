// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"errors"

	"github.com/gviegas/dust/driver"
)

// States of a command buffer.
const (
	cmdInitial = iota
	cmdRecording
	cmdEnded
)

// cmdBuffer implements driver.CmdBuffer.
// Commands are recorded as closures and run in order
// by GPU.Commit.
type cmdBuffer struct {
	gpu       *GPU
	state     int
	blit      bool
	cmds      []func() error
	vert      []Binding
	index     Binding
	indexFmt  driver.IndexFmt
	err       error
	destroyed bool
}

// NewCmdBuffer implements driver.GPU.
func (g *GPU) NewCmdBuffer() (driver.CmdBuffer, error) {
	g.live++
	return &cmdBuffer{gpu: g}, nil
}

// Destroy implements driver.Destroyer.
func (c *cmdBuffer) Destroy() {
	if !c.destroyed {
		c.destroyed = true
		c.cmds = nil
		c.gpu.release()
	}
}

// Begin implements driver.CmdBuffer.
func (c *cmdBuffer) Begin() error {
	switch {
	case c.destroyed:
		return errors.New(prefix + "destroyed command buffer")
	case c.state == cmdRecording:
		return errors.New(prefix + "command buffer already recording")
	}
	c.state = cmdRecording
	c.blit = false
	c.cmds = c.cmds[:0]
	c.vert = nil
	c.index = Binding{}
	c.err = nil
	return nil
}

// fail records the first error found during recording.
// It is reported by End.
func (c *cmdBuffer) fail(reason string) {
	if c.err == nil {
		c.err = errors.New(prefix + reason)
	}
}

// BeginBlit implements driver.CmdBuffer.
func (c *cmdBuffer) BeginBlit() {
	if c.state != cmdRecording || c.blit {
		c.fail("misplaced BeginBlit")
		return
	}
	c.blit = true
}

// EndBlit implements driver.CmdBuffer.
func (c *cmdBuffer) EndBlit() {
	if !c.blit {
		c.fail("misplaced EndBlit")
		return
	}
	c.blit = false
}

// SetVertexBuf implements driver.CmdBuffer.
func (c *cmdBuffer) SetVertexBuf(start int, buf []driver.Buffer, off []int64) {
	if c.state != cmdRecording || c.blit || len(buf) != len(off) || start < 0 {
		c.fail("invalid SetVertexBuf")
		return
	}
	if n := start + len(buf); n > len(c.vert) {
		c.vert = append(c.vert, make([]Binding, n-len(c.vert))...)
	}
	for i := range buf {
		c.vert[start+i] = Binding{buf[i], off[i]}
	}
}

// SetIndexBuf implements driver.CmdBuffer.
func (c *cmdBuffer) SetIndexBuf(format driver.IndexFmt, buf driver.Buffer, off int64) {
	if c.state != cmdRecording || c.blit || off&3 != 0 {
		c.fail("invalid SetIndexBuf")
		return
	}
	c.indexFmt = format
	c.index = Binding{buf, off}
}

// Draw implements driver.CmdBuffer.
func (c *cmdBuffer) Draw(vertCount, instCount, baseVert, baseInst int) {
	if c.state != cmdRecording || c.blit || len(c.vert) == 0 {
		c.fail("invalid Draw")
		return
	}
	d := Draw{
		Vertex:    append([]Binding(nil), c.vert...),
		Count:     vertCount,
		InstCount: instCount,
		Base:      baseVert,
		BaseInst:  baseInst,
	}
	c.cmds = append(c.cmds, func() error {
		c.gpu.draws = append(c.gpu.draws, d)
		return nil
	})
}

// DrawIndexed implements driver.CmdBuffer.
func (c *cmdBuffer) DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int) {
	if c.state != cmdRecording || c.blit || len(c.vert) == 0 || c.index.Buf == nil {
		c.fail("invalid DrawIndexed")
		return
	}
	d := Draw{
		Vertex:    append([]Binding(nil), c.vert...),
		Indexed:   true,
		IndexFmt:  c.indexFmt,
		Index:     c.index,
		Count:     idxCount,
		InstCount: instCount,
		Base:      baseIdx,
		VertOff:   vertOff,
		BaseInst:  baseInst,
	}
	c.cmds = append(c.cmds, func() error {
		c.gpu.draws = append(c.gpu.draws, d)
		return nil
	})
}

// CopyBuffer implements driver.CmdBuffer.
func (c *cmdBuffer) CopyBuffer(param *driver.BufferCopy) {
	if !c.blit {
		c.fail("CopyBuffer outside of data transfer")
		return
	}
	p := *param
	c.cmds = append(c.cmds, func() error {
		from, ok1 := p.From.(*buffer)
		to, ok2 := p.To.(*buffer)
		switch {
		case !ok1, !ok2, from.destroyed, to.destroyed:
			return errors.New(prefix + "invalid CopyBuffer buffers")
		case p.Size < 0, p.FromOff < 0, p.ToOff < 0:
			return errors.New(prefix + "invalid CopyBuffer range")
		case p.FromOff+p.Size > int64(len(from.data)), p.ToOff+p.Size > int64(len(to.data)):
			return errors.New(prefix + "CopyBuffer range out of bounds")
		}
		copy(to.data[p.ToOff:p.ToOff+p.Size], from.data[p.FromOff:])
		return nil
	})
}

// CopyBufToImg implements driver.CmdBuffer.
func (c *cmdBuffer) CopyBufToImg(param *driver.BufImgCopy) {
	if !c.blit {
		c.fail("CopyBufToImg outside of data transfer")
		return
	}
	p := *param
	c.cmds = append(c.cmds, func() error {
		buf, ok1 := p.Buf.(*buffer)
		img, ok2 := p.Img.(*image)
		switch {
		case !ok1, !ok2, buf.destroyed, img.destroyed:
			return errors.New(prefix + "invalid CopyBufToImg resources")
		case p.Layer < 0, p.Layer >= len(img.data), p.Level != 0:
			return errors.New(prefix + "CopyBufToImg subresource out of bounds")
		case p.ImgOff.X < 0, p.ImgOff.Y < 0, p.ImgOff.Z != 0, p.Size.Depth != 0,
			p.ImgOff.X+p.Size.Width > img.size.Width,
			p.ImgOff.Y+p.Size.Height > img.size.Height:
			return errors.New(prefix + "CopyBufToImg region out of bounds")
		case p.Stride < p.Size.Width:
			return errors.New(prefix + "CopyBufToImg stride too small")
		}
		psz := img.pf.Size()
		row := p.Size.Width * psz
		last := p.BufOff + int64(((p.Size.Height-1)*p.Stride)*psz+row)
		if p.BufOff < 0 || (p.Size.Height > 0 && last > int64(len(buf.data))) {
			return errors.New(prefix + "CopyBufToImg buffer range out of bounds")
		}
		dst := img.data[p.Layer]
		for y := 0; y < p.Size.Height; y++ {
			src := p.BufOff + int64(y*p.Stride*psz)
			off := ((p.ImgOff.Y+y)*img.size.Width + p.ImgOff.X) * psz
			copy(dst[off:off+row], buf.data[src:])
		}
		return nil
	})
}

// End implements driver.CmdBuffer.
func (c *cmdBuffer) End() error {
	switch {
	case c.state != cmdRecording:
		c.fail("End without Begin")
	case c.blit:
		c.fail("End during data transfer")
	}
	if c.err != nil {
		err := c.err
		c.state = cmdInitial
		c.cmds = c.cmds[:0]
		return err
	}
	c.state = cmdEnded
	return nil
}

// Reset implements driver.CmdBuffer.
func (c *cmdBuffer) Reset() error {
	if c.destroyed {
		return errors.New(prefix + "destroyed command buffer")
	}
	c.state = cmdInitial
	c.blit = false
	c.cmds = c.cmds[:0]
	c.err = nil
	return nil
}
