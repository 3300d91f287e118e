// Package gpu defines the graphics context the engine submits work to.
//
// The interface mirrors the subset of OpenGL ES 2 / WebGL 1 that the command
// buffer, framebuffer and texture resources need. Handles are plain integers;
// zero means "no object" and NoUniform marks a missing uniform location.
package gpu

// Texture is a GPU texture object handle.
type Texture uint32

// Buffer is a GPU buffer object handle.
type Buffer uint32

// Program is a linked shader program handle.
type Program uint32

// Framebuffer is a framebuffer object handle. Zero is the default framebuffer.
type Framebuffer uint32

// UniformLocation is a uniform slot inside a linked program.
type UniformLocation int32

// NoUniform is returned for uniforms that do not exist or were optimised out.
const NoUniform UniformLocation = -1

// Context is the GPU capability consumed by the engine.
type Context interface {
	Viewport(x, y, width, height int32)
	Clear(mask Enum)
	Enable(capability Enum)
	Disable(capability Enum)
	DepthMask(flag bool)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum)

	UseProgram(p Program)
	GetUniformLocation(p Program, name string) UniformLocation
	Uniform1f(loc UniformLocation, x float32)
	Uniform1i(loc UniformLocation, x int32)
	Uniform2f(loc UniformLocation, x, y float32)
	Uniform3f(loc UniformLocation, x, y, z float32)
	Uniform4f(loc UniformLocation, x, y, z, w float32)
	UniformMatrix4fv(loc UniformLocation, transpose bool, values []float32)

	ActiveTexture(unit Enum)
	BindTexture(target Enum, t Texture)
	CreateTexture() Texture
	DeleteTexture(t Texture)
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, dataType Enum, pixels []byte)
	TexParameteri(target, pname Enum, param int32)

	CreateBuffer() Buffer
	DeleteBuffer(b Buffer)
	BindBuffer(target Enum, b Buffer)
	BufferData(target Enum, data []byte, usage Enum)

	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, dataType Enum, normalized bool, stride, offset int32)
	DrawElements(mode Enum, count int32, dataType Enum, offset int32)

	CreateFramebuffer() Framebuffer
	DeleteFramebuffer(f Framebuffer)
	BindFramebuffer(target Enum, f Framebuffer)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int32)
	CheckFramebufferStatus(target Enum) Enum
}
