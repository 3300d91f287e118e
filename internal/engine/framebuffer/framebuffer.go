// Package framebuffer provides offscreen render targets.
package framebuffer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/webgame/internal/engine/gpu"
	"github.com/Faultbox/webgame/internal/engine/texture"
	"github.com/Faultbox/webgame/internal/logger"
)

// ErrIncomplete is returned when the GPU rejects an attachment configuration.
var ErrIncomplete = errors.New("framebuffer incomplete")

// FrameBuffer is a render target with an RGBA color texture and an optional
// depth texture. The color texture is always owned; the depth texture is
// owned only when the framebuffer allocated it.
type FrameBuffer struct {
	ctx    gpu.Context
	handle gpu.Framebuffer
	width  int32
	height int32

	color     *texture.Texture
	depth     *texture.Texture
	ownsDepth bool
}

// New creates a framebuffer with a color attachment of the given size.
func New(ctx gpu.Context, width, height int32) (*FrameBuffer, error) {
	fb := &FrameBuffer{
		ctx:    ctx,
		width:  max(width, 1),
		height: max(height, 1),
	}

	fb.color = texture.New(ctx, gpu.Texture2D, texture.RGBA8, fb.width, fb.height)
	fb.handle = ctx.CreateFramebuffer()

	ctx.BindFramebuffer(gpu.FramebufferTarget, fb.handle)
	ctx.FramebufferTexture2D(gpu.FramebufferTarget, gpu.ColorAttachment0, gpu.Texture2D, fb.color.Handle(), 0)

	if err := fb.unbindAndCheck(); err != nil {
		fb.Dispose()
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}

	logger.Debug("framebuffer created",
		zap.Uint32("fbo", uint32(fb.handle)),
		zap.Int32("width", fb.width),
		zap.Int32("height", fb.height),
	)
	return fb, nil
}

// unbindAndCheck reads the status of the bound framebuffer, then restores
// the default framebuffer before reporting.
func (fb *FrameBuffer) unbindAndCheck() error {
	status := fb.ctx.CheckFramebufferStatus(gpu.FramebufferTarget)
	fb.ctx.BindFramebuffer(gpu.FramebufferTarget, 0)

	if status != gpu.FramebufferComplete {
		return fmt.Errorf("%w: %s", ErrIncomplete, status)
	}
	return nil
}

// AddDepthAttachment attaches a depth texture. With existing == nil a new
// depth texture is allocated and owned; otherwise existing is attached and
// left for its owner to dispose.
func (fb *FrameBuffer) AddDepthAttachment(existing *texture.Texture) error {
	if fb.depth != nil && fb.ownsDepth {
		fb.depth.Dispose()
	}

	if existing == nil {
		fb.depth = texture.New(fb.ctx, gpu.Texture2D, texture.Depth24, fb.width, fb.height)
		fb.ownsDepth = true
	} else {
		fb.depth = existing
		fb.ownsDepth = false
	}

	fb.ctx.BindFramebuffer(gpu.FramebufferTarget, fb.handle)
	fb.ctx.FramebufferTexture2D(gpu.FramebufferTarget, gpu.DepthAttachment, gpu.Texture2D, fb.depth.Handle(), 0)

	if err := fb.unbindAndCheck(); err != nil {
		return fmt.Errorf("adding depth attachment: %w", err)
	}
	return nil
}

// ColorTexture returns the color attachment.
func (fb *FrameBuffer) ColorTexture() *texture.Texture {
	return fb.color
}

// DepthTexture returns the depth attachment, or nil.
func (fb *FrameBuffer) DepthTexture() *texture.Texture {
	return fb.depth
}

// Handle returns the underlying framebuffer object; zero after Dispose.
func (fb *FrameBuffer) Handle() gpu.Framebuffer {
	return fb.handle
}

// Size returns the framebuffer dimensions.
func (fb *FrameBuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// Resize updates the attachment sizes if they have changed. The framebuffer
// object and its attachment bindings stay the same.
func (fb *FrameBuffer) Resize(width, height int32) {
	if width == fb.width && height == fb.height {
		return
	}

	fb.width = max(width, 1)
	fb.height = max(height, 1)

	if fb.color != nil {
		fb.color.Resize(fb.width, fb.height)
	}
	if fb.depth != nil {
		fb.depth.Resize(fb.width, fb.height)
	}
}

// Begin makes this framebuffer the current render target.
func (fb *FrameBuffer) Begin() {
	fb.ctx.BindFramebuffer(gpu.FramebufferTarget, fb.handle)
}

// End restores the default framebuffer.
func (fb *FrameBuffer) End() {
	fb.ctx.BindFramebuffer(gpu.FramebufferTarget, 0)
}

// Dispose releases the framebuffer object and owned textures. Safe to call
// more than once.
func (fb *FrameBuffer) Dispose() {
	if fb.handle != 0 {
		fb.ctx.DeleteFramebuffer(fb.handle)
		fb.handle = 0
	}
	if fb.color != nil {
		fb.color.Dispose()
		fb.color = nil
	}
	if fb.depth != nil {
		if fb.ownsDepth {
			fb.depth.Dispose()
		}
		fb.depth = nil
	}
}
