// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package texture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FormatError is the error returned when image data is
// malformed.
type FormatError struct {
	// Path is empty if the data was not read from a file.
	Path string
	// Offset is the byte offset at which the problem was
	// found.
	Offset int64
	Reason string
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s%s (offset %d)", prefix, e.Reason, e.Offset)
	}
	return fmt.Sprintf("%s%s: %s (offset %d)", prefix, e.Path, e.Reason, e.Offset)
}

// pnmMagic identifies binary RGB PNM files.
const pnmMagic = "P6"

// MaxSize is the maximum width and height of a decoded image.
const MaxSize = 16384

type pnmReader struct {
	r   *bufio.Reader
	off int64
}

// line reads an ASCII line without its terminator.
func (p *pnmReader) line() (string, error) {
	s, err := p.r.ReadString('\n')
	p.off += int64(len(s))
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// DecodePNM decodes a binary PPM (P6) image whose maximum
// sample value is 255.
// Comment lines (starting with '#') may follow the magic.
// Rows are flipped vertically, so the first pixel of
// the result is the first pixel of the file's last row.
func DecodePNM(r io.Reader) (*Image, error) {
	p := &pnmReader{r: bufio.NewReader(r)}
	fail := func(off int64, reason string) (*Image, error) {
		return nil, &FormatError{Offset: off, Reason: reason}
	}

	off := p.off
	s, err := p.line()
	switch {
	case err != nil:
		return fail(off, "missing magic")
	case s != pnmMagic:
		return fail(off, fmt.Sprintf("magic %q is not %q", s, pnmMagic))
	}

	for {
		off = p.off
		if s, err = p.line(); err != nil {
			return fail(off, "missing size")
		}
		if !strings.HasPrefix(s, "#") {
			break
		}
	}
	dims := strings.Fields(s)
	if len(dims) != 2 {
		return fail(off, fmt.Sprintf("malformed size %q", s))
	}
	w, err1 := strconv.Atoi(dims[0])
	h, err2 := strconv.Atoi(dims[1])
	switch {
	case err1 != nil, err2 != nil:
		return fail(off, fmt.Sprintf("malformed size %q", s))
	case w < 1, h < 1:
		return fail(off, "empty image")
	case w > MaxSize, h > MaxSize:
		return fail(off, "image too big")
	}

	off = p.off
	if s, err = p.line(); err != nil {
		return fail(off, "missing max value")
	}
	if strings.TrimSpace(s) != "255" {
		return fail(off, fmt.Sprintf("max value %q is not 255", s))
	}

	off = p.off
	row := w * 3
	pix := make([]byte, row*h)
	// Row y of the file becomes row h-1-y.
	for y := h - 1; y >= 0; y-- {
		n, err := io.ReadFull(p.r, pix[y*row:y*row+row])
		off += int64(n)
		if err != nil {
			return fail(off, fmt.Sprintf("pixel data too short: want %d bytes", row*h))
		}
	}
	return &Image{Width: w, Height: h, Pix: pix}, nil
}

// isPNM reports whether data starts with the P6 magic.
func isPNM(data []byte) bool {
	return bytes.HasPrefix(data, []byte(pnmMagic)) &&
		(len(data) == 2 || data[2] == '\n' || data[2] == '\r')
}

// EncodePNM writes img to w as a binary PPM, reversing the
// flip done by DecodePNM.
func EncodePNM(w io.Writer, img *Image) error {
	if img.Width < 1 || img.Height < 1 || len(img.Pix) != img.Width*img.Height*3 {
		return errors.New(prefix + "invalid image")
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n# dust\n%d %d\n255\n", pnmMagic, img.Width, img.Height)
	row := img.Width * 3
	for y := img.Height - 1; y >= 0; y-- {
		bw.Write(img.Pix[y*row : y*row+row])
	}
	return bw.Flush()
}
