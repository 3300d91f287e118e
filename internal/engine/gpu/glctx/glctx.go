// Package glctx implements gpu.Context on desktop OpenGL 4.1 core.
package glctx

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/webgame/internal/engine/gpu"
	"github.com/Faultbox/webgame/internal/logger"
)

// Context issues calls on the current OpenGL context.
type Context struct {
	// Core profile refuses attribute pointers without a bound vertex array.
	vao uint32
}

var _ gpu.Context = (*Context)(nil)

// New loads GL function pointers and prepares default state.
// IMPORTANT: Must be called AFTER the OpenGL context is current!
func New() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	c := &Context{}
	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)
	return c, nil
}

// Close releases the default vertex array.
func (c *Context) Close() {
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
		c.vao = 0
	}
}

// Viewport sets the GL viewport.
func (c *Context) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

// ClearColor sets the color used by Clear.
func (c *Context) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (c *Context) Clear(mask gpu.Enum)         { gl.Clear(uint32(mask)) }
func (c *Context) Enable(capability gpu.Enum)  { gl.Enable(uint32(capability)) }
func (c *Context) Disable(capability gpu.Enum) { gl.Disable(uint32(capability)) }
func (c *Context) DepthMask(flag bool)         { gl.DepthMask(flag) }

func (c *Context) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha gpu.Enum) {
	gl.BlendFuncSeparate(uint32(srcRGB), uint32(dstRGB), uint32(srcAlpha), uint32(dstAlpha))
}

func (c *Context) UseProgram(p gpu.Program) { gl.UseProgram(uint32(p)) }

func (c *Context) GetUniformLocation(p gpu.Program, name string) gpu.UniformLocation {
	return gpu.UniformLocation(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (c *Context) Uniform1f(loc gpu.UniformLocation, x float32) { gl.Uniform1f(int32(loc), x) }
func (c *Context) Uniform1i(loc gpu.UniformLocation, x int32)   { gl.Uniform1i(int32(loc), x) }

func (c *Context) Uniform2f(loc gpu.UniformLocation, x, y float32) {
	gl.Uniform2f(int32(loc), x, y)
}

func (c *Context) Uniform3f(loc gpu.UniformLocation, x, y, z float32) {
	gl.Uniform3f(int32(loc), x, y, z)
}

func (c *Context) Uniform4f(loc gpu.UniformLocation, x, y, z, w float32) {
	gl.Uniform4f(int32(loc), x, y, z, w)
}

func (c *Context) UniformMatrix4fv(loc gpu.UniformLocation, transpose bool, values []float32) {
	if len(values) < 16 {
		return
	}
	gl.UniformMatrix4fv(int32(loc), int32(len(values)/16), transpose, &values[0])
}

func (c *Context) ActiveTexture(unit gpu.Enum) { gl.ActiveTexture(uint32(unit)) }

func (c *Context) BindTexture(target gpu.Enum, t gpu.Texture) {
	gl.BindTexture(uint32(target), uint32(t))
}

func (c *Context) CreateTexture() gpu.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return gpu.Texture(t)
}

func (c *Context) DeleteTexture(t gpu.Texture) {
	h := uint32(t)
	gl.DeleteTextures(1, &h)
}

func (c *Context) TexImage2D(target gpu.Enum, level int32, internalFormat gpu.Enum, width, height int32, format, dataType gpu.Enum, pixels []byte) {
	var ptr = gl.Ptr(nil)
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(uint32(target), level, int32(internalFormat), width, height, 0, uint32(format), uint32(dataType), ptr)
}

func (c *Context) TexParameteri(target, pname gpu.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (c *Context) CreateBuffer() gpu.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gpu.Buffer(b)
}

func (c *Context) DeleteBuffer(b gpu.Buffer) {
	h := uint32(b)
	gl.DeleteBuffers(1, &h)
}

func (c *Context) BindBuffer(target gpu.Enum, b gpu.Buffer) {
	gl.BindBuffer(uint32(target), uint32(b))
}

func (c *Context) BufferData(target gpu.Enum, data []byte, usage gpu.Enum) {
	if len(data) == 0 {
		gl.BufferData(uint32(target), 0, nil, uint32(usage))
		return
	}
	gl.BufferData(uint32(target), len(data), gl.Ptr(data), uint32(usage))
}

func (c *Context) EnableVertexAttribArray(index uint32)  { gl.EnableVertexAttribArray(index) }
func (c *Context) DisableVertexAttribArray(index uint32) { gl.DisableVertexAttribArray(index) }

func (c *Context) VertexAttribPointer(index uint32, size int32, dataType gpu.Enum, normalized bool, stride, offset int32) {
	gl.VertexAttribPointer(index, size, uint32(dataType), normalized, stride, gl.PtrOffset(int(offset)))
}

func (c *Context) DrawElements(mode gpu.Enum, count int32, dataType gpu.Enum, offset int32) {
	gl.DrawElements(uint32(mode), count, uint32(dataType), gl.PtrOffset(int(offset)))
}

func (c *Context) CreateFramebuffer() gpu.Framebuffer {
	var f uint32
	gl.GenFramebuffers(1, &f)
	return gpu.Framebuffer(f)
}

func (c *Context) DeleteFramebuffer(f gpu.Framebuffer) {
	h := uint32(f)
	gl.DeleteFramebuffers(1, &h)
}

func (c *Context) BindFramebuffer(target gpu.Enum, f gpu.Framebuffer) {
	gl.BindFramebuffer(uint32(target), uint32(f))
}

func (c *Context) FramebufferTexture2D(target, attachment, texTarget gpu.Enum, t gpu.Texture, level int32) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), uint32(t), level)
}

func (c *Context) CheckFramebufferStatus(target gpu.Enum) gpu.Enum {
	return gpu.Enum(gl.CheckFramebufferStatus(uint32(target)))
}
