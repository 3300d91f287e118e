// Package texture provides GPU textures and the asynchronous texture loader.
package texture

import (
	"github.com/Faultbox/webgame/internal/engine/gpu"
)

// Format describes how texel storage is specified.
type Format struct {
	Internal gpu.Enum
	Pixel    gpu.Enum
	Type     gpu.Enum
}

// Common storage formats.
var (
	RGBA8   = Format{Internal: gpu.RGBA8, Pixel: gpu.RGBA, Type: gpu.UnsignedByte}
	Depth24 = Format{Internal: gpu.DepthComponent24, Pixel: gpu.DepthComponent, Type: gpu.UnsignedInt}
)

// Texture is a 2D GPU texture with resizable storage.
type Texture struct {
	ctx    gpu.Context
	handle gpu.Texture
	target gpu.Enum
	format Format
	width  int32
	height int32
}

// New allocates a texture with uninitialised storage of the given size.
// Render targets are sampled with linear filtering and clamped edges.
func New(ctx gpu.Context, target gpu.Enum, format Format, width, height int32) *Texture {
	t := &Texture{
		ctx:    ctx,
		handle: ctx.CreateTexture(),
		target: target,
		format: format,
		width:  max(width, 1),
		height: max(height, 1),
	}

	ctx.BindTexture(target, t.handle)
	ctx.TexParameteri(target, gpu.TextureMinFilter, int32(gpu.Linear))
	ctx.TexParameteri(target, gpu.TextureMagFilter, int32(gpu.Linear))
	ctx.TexParameteri(target, gpu.TextureWrapS, int32(gpu.ClampToEdge))
	ctx.TexParameteri(target, gpu.TextureWrapT, int32(gpu.ClampToEdge))
	t.allocate(nil)
	ctx.BindTexture(target, 0)

	return t
}

// FromPixels creates an RGBA8 texture holding the given tightly packed pixels.
func FromPixels(ctx gpu.Context, width, height int32, pixels []byte) *Texture {
	t := &Texture{
		ctx:    ctx,
		handle: ctx.CreateTexture(),
		target: gpu.Texture2D,
		format: RGBA8,
		width:  width,
		height: height,
	}

	ctx.BindTexture(t.target, t.handle)
	ctx.TexParameteri(t.target, gpu.TextureMinFilter, int32(gpu.Linear))
	ctx.TexParameteri(t.target, gpu.TextureMagFilter, int32(gpu.Linear))
	ctx.TexParameteri(t.target, gpu.TextureWrapS, int32(gpu.Repeat))
	ctx.TexParameteri(t.target, gpu.TextureWrapT, int32(gpu.Repeat))
	t.allocate(pixels)
	ctx.BindTexture(t.target, 0)

	return t
}

func (t *Texture) allocate(pixels []byte) {
	t.ctx.TexImage2D(t.target, 0, t.format.Internal, t.width, t.height, t.format.Pixel, t.format.Type, pixels)
}

// Handle returns the GPU texture handle; zero after Dispose or for a nil
// texture.
func (t *Texture) Handle() gpu.Texture {
	if t == nil {
		return 0
	}
	return t.handle
}

// Target returns the bind target.
func (t *Texture) Target() gpu.Enum {
	if t == nil {
		return gpu.Texture2D
	}
	return t.target
}

// Format returns the storage format.
func (t *Texture) Format() Format {
	return t.format
}

// Size returns the texture dimensions.
func (t *Texture) Size() (width, height int32) {
	return t.width, t.height
}

// Resize respecifies storage at the new size, keeping the same handle.
// Existing contents are discarded.
func (t *Texture) Resize(width, height int32) {
	width, height = max(width, 1), max(height, 1)
	if t.handle == 0 || (width == t.width && height == t.height) {
		return
	}

	t.width = width
	t.height = height

	t.ctx.BindTexture(t.target, t.handle)
	t.allocate(nil)
	t.ctx.BindTexture(t.target, 0)
}

// Dispose deletes the GPU texture. Safe to call more than once.
func (t *Texture) Dispose() {
	if t.handle != 0 {
		t.ctx.DeleteTexture(t.handle)
		t.handle = 0
	}
}
