//go:build js && wasm

// Package webgl implements gpu.Context on a browser WebGL rendering context.
//
// WebGL hands out JavaScript objects instead of integer names, so the context
// keeps a table from gpu handles to js.Value.
package webgl

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/Faultbox/webgame/internal/engine/gpu"
)

// Shader constants not exposed through gpu.Enum.
const (
	glFragmentShader = 0x8B30
	glVertexShader   = 0x8B31
	glCompileStatus  = 0x8B81
	glLinkStatus     = 0x8B82
)

// Context wraps a WebGLRenderingContext.
type Context struct {
	// AttribNames are bound to locations 0..n-1 before each program links,
	// standing in for GLSL layout qualifiers that GLSL ES 1.00 lacks.
	AttribNames []string

	gl         js.Value
	uint8Array js.Value
	f32Array   js.Value

	next     uint32
	objects  map[uint32]js.Value
	uniforms []js.Value
	lookup   map[uniformKey]gpu.UniformLocation
}

type uniformKey struct {
	program gpu.Program
	name    string
}

var _ gpu.Context = (*Context)(nil)

// New obtains a WebGL context from the canvas element with the given id.
func New(canvasID string) (*Context, error) {
	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", canvasID)
	if canvas.IsNull() || canvas.IsUndefined() {
		return nil, errors.New("webgl: canvas " + canvasID + " not found")
	}
	ctx := canvas.Call("getContext", "webgl")
	if ctx.IsNull() {
		return nil, errors.New("webgl: context unavailable")
	}
	// Depth textures need this extension on WebGL 1.
	ctx.Call("getExtension", "WEBGL_depth_texture")
	// 32-bit indices for scenes past 65536 vertices.
	ctx.Call("getExtension", "OES_element_index_uint")

	return &Context{
		gl:         ctx,
		uint8Array: js.Global().Get("Uint8Array"),
		f32Array:   js.Global().Get("Float32Array"),
		objects:    make(map[uint32]js.Value),
		lookup:     make(map[uniformKey]gpu.UniformLocation),
	}, nil
}

func (c *Context) put(v js.Value) uint32 {
	if v.IsNull() || v.IsUndefined() {
		return 0
	}
	c.next++
	c.objects[c.next] = v
	return c.next
}

func (c *Context) get(h uint32) js.Value {
	if h == 0 {
		return js.Null()
	}
	if v, ok := c.objects[h]; ok {
		return v
	}
	return js.Null()
}

func (c *Context) drop(h uint32) js.Value {
	v := c.get(h)
	delete(c.objects, h)
	return v
}

func (c *Context) bytes(data []byte) js.Value {
	arr := c.uint8Array.New(len(data))
	js.CopyBytesToJS(arr, data)
	return arr
}

// Viewport sets the GL viewport.
func (c *Context) Viewport(x, y, width, height int32) {
	c.gl.Call("viewport", x, y, width, height)
}

// DrawingBufferSize returns the canvas backing store size.
func (c *Context) DrawingBufferSize() (int32, int32) {
	return int32(c.gl.Get("drawingBufferWidth").Int()), int32(c.gl.Get("drawingBufferHeight").Int())
}

func (c *Context) Clear(mask gpu.Enum)         { c.gl.Call("clear", int(mask)) }
func (c *Context) Enable(capability gpu.Enum)  { c.gl.Call("enable", int(capability)) }
func (c *Context) Disable(capability gpu.Enum) { c.gl.Call("disable", int(capability)) }
func (c *Context) DepthMask(flag bool)         { c.gl.Call("depthMask", flag) }

func (c *Context) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha gpu.Enum) {
	c.gl.Call("blendFuncSeparate", int(srcRGB), int(dstRGB), int(srcAlpha), int(dstAlpha))
}

func (c *Context) UseProgram(p gpu.Program) { c.gl.Call("useProgram", c.get(uint32(p))) }

// CompileProgram compiles GLSL ES sources and links them into a program.
func (c *Context) CompileProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	vert, err := c.compileShader(vertexSrc, glVertexShader, "vertex")
	if err != nil {
		return 0, err
	}
	defer c.gl.Call("deleteShader", vert)

	frag, err := c.compileShader(fragmentSrc, glFragmentShader, "fragment")
	if err != nil {
		return 0, err
	}
	defer c.gl.Call("deleteShader", frag)

	program := c.gl.Call("createProgram")
	c.gl.Call("attachShader", program, vert)
	c.gl.Call("attachShader", program, frag)
	for i, name := range c.AttribNames {
		c.gl.Call("bindAttribLocation", program, i, name)
	}
	c.gl.Call("linkProgram", program)

	if !c.gl.Call("getProgramParameter", program, glLinkStatus).Bool() {
		info := c.gl.Call("getProgramInfoLog", program).String()
		c.gl.Call("deleteProgram", program)
		return 0, fmt.Errorf("link: %s", info)
	}
	return gpu.Program(c.put(program)), nil
}

// DeleteProgram releases a program created by CompileProgram.
func (c *Context) DeleteProgram(p gpu.Program) {
	c.gl.Call("deleteProgram", c.drop(uint32(p)))
}

func (c *Context) compileShader(source string, shaderType int, name string) (js.Value, error) {
	shader := c.gl.Call("createShader", shaderType)
	c.gl.Call("shaderSource", shader, source)
	c.gl.Call("compileShader", shader)

	if !c.gl.Call("getShaderParameter", shader, glCompileStatus).Bool() {
		info := c.gl.Call("getShaderInfoLog", shader).String()
		c.gl.Call("deleteShader", shader)
		return js.Null(), fmt.Errorf("%s shader: %s", name, info)
	}
	return shader, nil
}

func (c *Context) GetUniformLocation(p gpu.Program, name string) gpu.UniformLocation {
	key := uniformKey{p, name}
	if loc, ok := c.lookup[key]; ok {
		return loc
	}
	v := c.gl.Call("getUniformLocation", c.get(uint32(p)), name)
	loc := gpu.NoUniform
	if !v.IsNull() {
		c.uniforms = append(c.uniforms, v)
		loc = gpu.UniformLocation(len(c.uniforms) - 1)
	}
	c.lookup[key] = loc
	return loc
}

func (c *Context) uniform(loc gpu.UniformLocation) js.Value {
	if loc < 0 || int(loc) >= len(c.uniforms) {
		return js.Null()
	}
	return c.uniforms[loc]
}

func (c *Context) Uniform1f(loc gpu.UniformLocation, x float32) {
	c.gl.Call("uniform1f", c.uniform(loc), x)
}

func (c *Context) Uniform1i(loc gpu.UniformLocation, x int32) {
	c.gl.Call("uniform1i", c.uniform(loc), x)
}

func (c *Context) Uniform2f(loc gpu.UniformLocation, x, y float32) {
	c.gl.Call("uniform2f", c.uniform(loc), x, y)
}

func (c *Context) Uniform3f(loc gpu.UniformLocation, x, y, z float32) {
	c.gl.Call("uniform3f", c.uniform(loc), x, y, z)
}

func (c *Context) Uniform4f(loc gpu.UniformLocation, x, y, z, w float32) {
	c.gl.Call("uniform4f", c.uniform(loc), x, y, z, w)
}

func (c *Context) UniformMatrix4fv(loc gpu.UniformLocation, transpose bool, values []float32) {
	arr := c.f32Array.New(len(values))
	for i, v := range values {
		arr.SetIndex(i, v)
	}
	c.gl.Call("uniformMatrix4fv", c.uniform(loc), transpose, arr)
}

func (c *Context) ActiveTexture(unit gpu.Enum) { c.gl.Call("activeTexture", int(unit)) }

func (c *Context) BindTexture(target gpu.Enum, t gpu.Texture) {
	c.gl.Call("bindTexture", int(target), c.get(uint32(t)))
}

func (c *Context) CreateTexture() gpu.Texture {
	return gpu.Texture(c.put(c.gl.Call("createTexture")))
}

func (c *Context) DeleteTexture(t gpu.Texture) {
	c.gl.Call("deleteTexture", c.drop(uint32(t)))
}

func (c *Context) TexImage2D(target gpu.Enum, level int32, internalFormat gpu.Enum, width, height int32, format, dataType gpu.Enum, pixels []byte) {
	// WebGL 1 requires internalFormat == format.
	var data js.Value
	if len(pixels) == 0 {
		data = js.Null()
	} else {
		data = c.bytes(pixels)
	}
	c.gl.Call("texImage2D", int(target), level, int(format), width, height, 0, int(format), int(dataType), data)
}

func (c *Context) TexParameteri(target, pname gpu.Enum, param int32) {
	c.gl.Call("texParameteri", int(target), int(pname), param)
}

func (c *Context) CreateBuffer() gpu.Buffer {
	return gpu.Buffer(c.put(c.gl.Call("createBuffer")))
}

func (c *Context) DeleteBuffer(b gpu.Buffer) {
	c.gl.Call("deleteBuffer", c.drop(uint32(b)))
}

func (c *Context) BindBuffer(target gpu.Enum, b gpu.Buffer) {
	c.gl.Call("bindBuffer", int(target), c.get(uint32(b)))
}

func (c *Context) BufferData(target gpu.Enum, data []byte, usage gpu.Enum) {
	c.gl.Call("bufferData", int(target), c.bytes(data), int(usage))
}

func (c *Context) EnableVertexAttribArray(index uint32) {
	c.gl.Call("enableVertexAttribArray", index)
}

func (c *Context) DisableVertexAttribArray(index uint32) {
	c.gl.Call("disableVertexAttribArray", index)
}

func (c *Context) VertexAttribPointer(index uint32, size int32, dataType gpu.Enum, normalized bool, stride, offset int32) {
	c.gl.Call("vertexAttribPointer", index, size, int(dataType), normalized, stride, offset)
}

func (c *Context) DrawElements(mode gpu.Enum, count int32, dataType gpu.Enum, offset int32) {
	c.gl.Call("drawElements", int(mode), count, int(dataType), offset)
}

func (c *Context) CreateFramebuffer() gpu.Framebuffer {
	return gpu.Framebuffer(c.put(c.gl.Call("createFramebuffer")))
}

func (c *Context) DeleteFramebuffer(f gpu.Framebuffer) {
	c.gl.Call("deleteFramebuffer", c.drop(uint32(f)))
}

func (c *Context) BindFramebuffer(target gpu.Enum, f gpu.Framebuffer) {
	c.gl.Call("bindFramebuffer", int(target), c.get(uint32(f)))
}

func (c *Context) FramebufferTexture2D(target, attachment, texTarget gpu.Enum, t gpu.Texture, level int32) {
	c.gl.Call("framebufferTexture2D", int(target), int(attachment), int(texTarget), c.get(uint32(t)), level)
}

func (c *Context) CheckFramebufferStatus(target gpu.Enum) gpu.Enum {
	return gpu.Enum(c.gl.Call("checkFramebufferStatus", int(target)).Int())
}
