// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package texture

import (
	"errors"

	"github.com/gviegas/dust/driver"
)

// stagingBuffer is used to copy image data from the CPU
// to the GPU.
type stagingBuffer struct {
	gpu driver.GPU
	cb  driver.CmdBuffer
	buf driver.Buffer
	// Bytes of buf in use.
	n int64
}

// newStaging creates a new stagingBuffer with capacity for
// n bytes and begins recording copy commands.
func newStaging(gpu driver.GPU, n int) (*stagingBuffer, error) {
	if n <= 0 {
		panic("texture.newStaging: n <= 0")
	}
	cb, err := gpu.NewCmdBuffer()
	if err != nil {
		return nil, err
	}
	// No usage flags necessary; all buffers
	// support copying.
	buf, err := gpu.NewBuffer(int64(n), true, 0)
	if err != nil {
		cb.Destroy()
		return nil, err
	}
	if err = cb.Begin(); err != nil {
		buf.Destroy()
		cb.Destroy()
		return nil, err
	}
	cb.BeginBlit()
	return &stagingBuffer{gpu: gpu, cb: cb, buf: buf}, nil
}

// stage writes CPU data to s's buffer.
// It returns an offset from the start of s.buf identifying
// where data was copied to.
func (s *stagingBuffer) stage(data []byte) (off int64, err error) {
	if s.n+int64(len(data)) > s.buf.Cap() {
		err = errors.New(prefix + "staging buffer is full")
		return
	}
	off = s.n
	copy(s.buf.Bytes()[off:], data)
	// Keep copies 4-byte aligned.
	s.n = (off + int64(len(data)) + 3) &^ 3
	return
}

// copyToImage records a copy of staged data at off to the
// whole of layer of img.
func (s *stagingBuffer) copyToImage(off int64, img driver.Image, layer, width, height int) {
	s.cb.CopyBufToImg(&driver.BufImgCopy{
		Buf:    s.buf,
		BufOff: off,
		Stride: width,
		Img:    img,
		Layer:  layer,
		Size:   driver.Dim3D{Width: width, Height: height},
	})
}

// commit commits the copy commands for execution.
// It blocks until execution completes.
func (s *stagingBuffer) commit() error {
	s.cb.EndBlit()
	if err := s.cb.End(); err != nil {
		return err
	}
	return s.gpu.Commit([]driver.CmdBuffer{s.cb})
}

// free destroys the driver resources.
func (s *stagingBuffer) free() {
	if s.cb != nil {
		s.cb.Destroy()
	}
	if s.buf != nil {
		s.buf.Destroy()
	}
	*s = stagingBuffer{}
}
