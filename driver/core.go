// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// GPU is the main interface to an underlying driver
// implementation.
// It is used to create other types and to execute commands.
// A GPU is obtained from a call to Driver.Open.
type GPU interface {
	// Driver returns the Driver that owns the GPU.
	Driver() Driver

	// Commit commits a batch of command buffers to the GPU
	// for execution and waits for it to complete.
	// The order of command buffers in cb is meaningful.
	// Command buffers must have been ended.
	Commit(cb []CmdBuffer) error

	// NewCmdBuffer creates a new command buffer.
	NewCmdBuffer() (CmdBuffer, error)

	// NewShaderCode creates a new shader code from a
	// SPIR-V binary.
	NewShaderCode(data []byte) (ShaderCode, error)

	// NewBuffer creates a new buffer.
	NewBuffer(size int64, visible bool, usg Usage) (Buffer, error)

	// NewImage creates a new image.
	NewImage(pf PixelFmt, size Dim3D, layers, levels, samples int, usg Usage) (Image, error)

	// NewSampler creates a new Sampler.
	NewSampler(spln *Sampling) (Sampler, error)

	// Limits returns the implementation limits.
	// They are immutable for the lifetime of the GPU.
	Limits() Limits
}

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface may allocate external
// memory that is not managed by GC, so Destroy must be
// called explicitly to ensure such memory is deallocated.
type Destroyer interface {
	Destroy()
}

// CmdBuffer is the interface that defines a command buffer.
// Commands are recorded into command buffers and later
// committed to the GPU for execution. The usage is as
// follows:
// First, call Begin to prepare the command buffer for
// recording. Then, if it succeeds:
//
// To record draw commands:
//  1. call SetVertexBuf/SetIndexBuf
//  2. call Draw/DrawIndexed
//  3. repeat 1-2 as needed
//
// To record copy commands:
//  1. call BeginBlit
//  2. call Copy* commands
//  3. call EndBlit
//
// Finally, call End and, if it succeeds, GPU.Commit.
type CmdBuffer interface {
	Destroyer

	// Begin prepares the command buffer for recording.
	// It needs to be called again if the command buffer
	// is executed or reset.
	Begin() error

	// BeginBlit begins data transfer.
	BeginBlit()

	// EndBlit ends the current data transfer.
	EndBlit()

	// SetVertexBuf sets one or more vertex buffers.
	SetVertexBuf(start int, buf []Buffer, off []int64)

	// SetIndexBuf sets the index buffer.
	// off must be aligned to 4 bytes.
	SetIndexBuf(format IndexFmt, buf Buffer, off int64)

	// Draw draws primitives.
	Draw(vertCount, instCount, baseVert, baseInst int)

	// DrawIndexed draws indexed primitives.
	DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int)

	// CopyBuffer copies data between buffers.
	// It must only be called during data transfer.
	CopyBuffer(param *BufferCopy)

	// CopyBufToImg copies data from a buffer to an image.
	// It must only be called during data transfer.
	CopyBufToImg(param *BufImgCopy)

	// End ends command recording.
	End() error

	// Reset discards all recorded commands.
	Reset() error
}

// BufferCopy describes the parameters of a buffer-to-buffer
// copy command.
type BufferCopy struct {
	From    Buffer
	FromOff int64
	To      Buffer
	ToOff   int64
	Size    int64
}

// BufImgCopy describes the parameters of a buffer-to-image
// copy command.
// Stride is the number of pixels between consecutive rows
// in the buffer.
type BufImgCopy struct {
	Buf    Buffer
	BufOff int64
	Stride int
	Img    Image
	ImgOff Off3D
	Layer  int
	Level  int
	Size   Dim3D
}

// ShaderCode is the interface that defines a shader binary
// for execution in a programmable pipeline stage.
type ShaderCode interface {
	Destroyer
}

// ShaderFunc specifies a function within a shader binary.
type ShaderFunc struct {
	Code ShaderCode
	Name string
}

// Stage is the type of programmable pipeline stages.
type Stage int

// Stages.
const (
	SVertex Stage = 1 << iota
	SFragment
)

// String implements fmt.Stringer.
func (s Stage) String() string {
	switch s {
	case SVertex:
		return "vertex"
	case SFragment:
		return "fragment"
	default:
		return "[!] invalid Stage value"
	}
}

// VertexFmt describes the format of a vertex input.
type VertexFmt int

// Vertex formats.
const (
	// Single precision floating-point, 1-4 components.
	Float32 VertexFmt = iota
	Float32x2
	Float32x3
	Float32x4
)

// Size returns the size of f in bytes.
func (f VertexFmt) Size() int { return int(f+1) * 4 }

// VertexIn describes a vertex input.
// Consecutive vertices are fetched Stride bytes apart.
// Inputs sharing a buffer are interleaved, with Offset
// identifying the first byte of the input in a vertex.
// Nr is the shader location and Name is informative.
type VertexIn struct {
	Format VertexFmt
	Stride int
	Offset int
	Nr     int
	Name   string
}

// IndexFmt describes the format of index buffer data.
type IndexFmt int

// Index formats.
const (
	Index16 IndexFmt = 2
	Index32 IndexFmt = 4
)

// Usage is the type of resource usages.
type Usage int

// Usage flags.
const (
	// The resource can be read in shaders.
	UShaderRead Usage = 1 << iota
	// The resource can be used as uniform data.
	UShaderConst
	// The resource can be sampled in shaders.
	UShaderSample
	// The resource can provide vertex data.
	UVertexData
	// The resource can provide index data.
	UIndexData
	// The resource can be used for any purpose.
	UGeneric Usage = 1<<iota - 1
)

// Buffer is the interface that defines a GPU buffer.
// The size of the buffer is fixed.
type Buffer interface {
	Destroyer

	// Visible returns whether the buffer is host visible.
	// Non-visible memory cannot be accessed by the CPU.
	Visible() bool

	// Bytes returns a slice of length Cap referring to the
	// underlying data. If the buffer is not host visible,
	// it returns nil instead.
	// The slice is valid for the lifetime of the buffer.
	Bytes() []byte

	// Cap returns the capacity of the buffer in bytes,
	// which may be greater than the size requested during
	// buffer creation.
	Cap() int64
}

// PixelFmt describes the format of a pixel.
type PixelFmt int

// Pixel formats.
const (
	RGBA8un PixelFmt = iota
	RGBA8sRGB
	R8un
	RGBA32f
)

// Size returns the size of a pixel of format f in bytes.
func (f PixelFmt) Size() int {
	switch f {
	case RGBA8un, RGBA8sRGB:
		return 4
	case R8un:
		return 1
	case RGBA32f:
		return 16
	default:
		return 0
	}
}

// Dim3D is a three-dimensional size.
type Dim3D struct {
	Width, Height, Depth int
}

// Off3D is a three-dimensional offset.
type Off3D struct {
	X, Y, Z int
}

// Image is the interface that defines a GPU image.
// Direct access to image memory is not provided, so copying
// data from the CPU to an image resource requires the use
// of a staging buffer.
type Image interface {
	Destroyer

	// NewView creates a new image view.
	// All views created from a given image must be
	// destroyed before the image itself is destroyed.
	NewView(typ ViewType, layer, layers, level, levels int) (ImageView, error)
}

// ViewType is the type of a resource view.
type ViewType int

// View types.
const (
	IView2D ViewType = iota
	IView2DArray
)

// ImageView is the interface that defines a typed view of
// an Image resource.
type ImageView interface {
	Destroyer
}

// Filter is the type of sampler filters.
type Filter int

// Filters.
const (
	FNearest Filter = iota
	FLinear
	// FNoMipmap forces mip level 0 to be used.
	// It is only valid as the mip filter of a sampler.
	FNoMipmap
)

// AddrMode is the type of sampler address modes.
type AddrMode int

// Address modes.
const (
	AWrap AddrMode = iota
	AMirror
	AClamp
)

// Sampler is the interface that defines an image sampler.
type Sampler interface {
	Destroyer
}

// Sampling describes image sampler state.
type Sampling struct {
	Min    Filter
	Mag    Filter
	Mipmap Filter
	AddrU  AddrMode
	AddrV  AddrMode
	AddrW  AddrMode
	MinLOD float32
	MaxLOD float32
}

// Limits describes implementation limits.
// These may vary across drivers and devices.
type Limits struct {
	// Maximum width and height of 2D images.
	MaxImage2D int
	// Maximum number of layers in an image.
	MaxLayers int
	// Maximum size of a buffer in bytes.
	MaxBuffer int64
	// Maximum number of vertex inputs in a
	// vertex shader.
	MaxVertexIn int
}
