// Package gputest provides a recording gpu.Context for tests.
//
// Recorder keeps just enough object state (textures, buffers, framebuffer
// attachments) to answer CheckFramebufferStatus realistically, and logs every
// call as a Call so tests can assert on the exact GPU stream.
package gputest

import (
	"fmt"
	"strings"

	"github.com/Faultbox/webgame/internal/engine/gpu"
)

// Call is one recorded GPU call.
type Call struct {
	Op   string
	Args []any
}

// String renders the call as op(arg, arg, ...).
func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Op + "(" + strings.Join(parts, ", ") + ")"
}

// TextureState is the recorder's view of a texture object.
type TextureState struct {
	Target         gpu.Enum
	InternalFormat gpu.Enum
	Width, Height  int32
	// Allocations counts TexImage2D calls that (re)specified level 0 storage.
	Allocations int
	Deleted     bool
}

type framebufferState struct {
	attachments map[gpu.Enum]gpu.Texture
	deleted     bool
}

// Recorder is an in-memory gpu.Context.
type Recorder struct {
	calls []Call

	next         uint32
	textures     map[gpu.Texture]*TextureState
	buffers      map[gpu.Buffer]bool
	framebuffers map[gpu.Framebuffer]*framebufferState
	uniforms     map[string]gpu.UniformLocation

	activeUnit   gpu.Enum
	boundTexture map[gpu.Enum]gpu.Texture
	boundFBO     gpu.Framebuffer

	// ForceStatus, when non-zero, is returned by CheckFramebufferStatus.
	ForceStatus gpu.Enum
}

var _ gpu.Context = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		textures:     make(map[gpu.Texture]*TextureState),
		buffers:      make(map[gpu.Buffer]bool),
		framebuffers: make(map[gpu.Framebuffer]*framebufferState),
		uniforms:     make(map[string]gpu.UniformLocation),
		activeUnit:   gpu.Texture0,
		boundTexture: make(map[gpu.Enum]gpu.Texture),
	}
}

func (r *Recorder) record(op string, args ...any) {
	r.calls = append(r.calls, Call{Op: op, Args: args})
}

func (r *Recorder) alloc() uint32 {
	r.next++
	return r.next
}

// Calls returns every call recorded since the last Reset.
func (r *Recorder) Calls() []Call {
	return r.calls
}

// Ops returns the op names of the recorded calls, in order.
func (r *Recorder) Ops() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Op
	}
	return out
}

// Count returns how many calls with the given op were recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls but keeps object state.
func (r *Recorder) Reset() {
	r.calls = nil
}

// Texture returns the state of a texture object, or nil if it never existed.
func (r *Recorder) Texture(t gpu.Texture) *TextureState {
	return r.textures[t]
}

// FramebufferLive reports whether f was created and not yet deleted.
func (r *Recorder) FramebufferLive(f gpu.Framebuffer) bool {
	fb, ok := r.framebuffers[f]
	return ok && !fb.deleted
}

// Attachment returns the texture attached to f at the given attachment point.
func (r *Recorder) Attachment(f gpu.Framebuffer, attachment gpu.Enum) gpu.Texture {
	if fb, ok := r.framebuffers[f]; ok {
		return fb.attachments[attachment]
	}
	return 0
}

// BoundFramebuffer returns the currently bound framebuffer.
func (r *Recorder) BoundFramebuffer() gpu.Framebuffer {
	return r.boundFBO
}

// DefineUniform makes GetUniformLocation return loc for name.
func (r *Recorder) DefineUniform(name string, loc gpu.UniformLocation) {
	r.uniforms[name] = loc
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("viewport", x, y, width, height)
}

func (r *Recorder) Clear(mask gpu.Enum)         { r.record("clear", mask) }
func (r *Recorder) Enable(capability gpu.Enum)  { r.record("enable", capability) }
func (r *Recorder) Disable(capability gpu.Enum) { r.record("disable", capability) }
func (r *Recorder) DepthMask(flag bool)         { r.record("depthMask", flag) }

func (r *Recorder) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha gpu.Enum) {
	r.record("blendFuncSeparate", srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (r *Recorder) UseProgram(p gpu.Program) { r.record("useProgram", p) }

func (r *Recorder) GetUniformLocation(p gpu.Program, name string) gpu.UniformLocation {
	if loc, ok := r.uniforms[name]; ok {
		return loc
	}
	return gpu.NoUniform
}

func (r *Recorder) Uniform1f(loc gpu.UniformLocation, x float32) { r.record("uniform1f", loc, x) }
func (r *Recorder) Uniform1i(loc gpu.UniformLocation, x int32)   { r.record("uniform1i", loc, x) }

func (r *Recorder) Uniform2f(loc gpu.UniformLocation, x, y float32) {
	r.record("uniform2f", loc, x, y)
}

func (r *Recorder) Uniform3f(loc gpu.UniformLocation, x, y, z float32) {
	r.record("uniform3f", loc, x, y, z)
}

func (r *Recorder) Uniform4f(loc gpu.UniformLocation, x, y, z, w float32) {
	r.record("uniform4f", loc, x, y, z, w)
}

func (r *Recorder) UniformMatrix4fv(loc gpu.UniformLocation, transpose bool, values []float32) {
	cp := make([]float32, len(values))
	copy(cp, values)
	r.record("uniformMatrix4fv", loc, transpose, cp)
}

func (r *Recorder) ActiveTexture(unit gpu.Enum) {
	r.activeUnit = unit
	r.record("activeTexture", unit)
}

func (r *Recorder) BindTexture(target gpu.Enum, t gpu.Texture) {
	r.boundTexture[r.activeUnit] = t
	if st, ok := r.textures[t]; ok && st.Target == 0 {
		st.Target = target
	}
	r.record("bindTexture", target, t)
}

func (r *Recorder) CreateTexture() gpu.Texture {
	t := gpu.Texture(r.alloc())
	r.textures[t] = &TextureState{}
	r.record("createTexture", t)
	return t
}

func (r *Recorder) DeleteTexture(t gpu.Texture) {
	if st, ok := r.textures[t]; ok {
		st.Deleted = true
	}
	r.record("deleteTexture", t)
}

func (r *Recorder) TexImage2D(target gpu.Enum, level int32, internalFormat gpu.Enum, width, height int32, format, dataType gpu.Enum, pixels []byte) {
	if st, ok := r.textures[r.boundTexture[r.activeUnit]]; ok && level == 0 {
		st.InternalFormat = internalFormat
		st.Width, st.Height = width, height
		st.Allocations++
	}
	r.record("texImage2D", target, level, internalFormat, width, height, format, dataType, len(pixels))
}

func (r *Recorder) TexParameteri(target, pname gpu.Enum, param int32) {
	r.record("texParameteri", target, pname, param)
}

func (r *Recorder) CreateBuffer() gpu.Buffer {
	b := gpu.Buffer(r.alloc())
	r.buffers[b] = true
	r.record("createBuffer", b)
	return b
}

func (r *Recorder) DeleteBuffer(b gpu.Buffer) {
	delete(r.buffers, b)
	r.record("deleteBuffer", b)
}

func (r *Recorder) BindBuffer(target gpu.Enum, b gpu.Buffer) { r.record("bindBuffer", target, b) }

func (r *Recorder) BufferData(target gpu.Enum, data []byte, usage gpu.Enum) {
	r.record("bufferData", target, len(data), usage)
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.record("enableVertexAttribArray", index)
}

func (r *Recorder) DisableVertexAttribArray(index uint32) {
	r.record("disableVertexAttribArray", index)
}

func (r *Recorder) VertexAttribPointer(index uint32, size int32, dataType gpu.Enum, normalized bool, stride, offset int32) {
	r.record("vertexAttribPointer", index, size, dataType, normalized, stride, offset)
}

func (r *Recorder) DrawElements(mode gpu.Enum, count int32, dataType gpu.Enum, offset int32) {
	r.record("drawElements", mode, count, dataType, offset)
}

func (r *Recorder) CreateFramebuffer() gpu.Framebuffer {
	f := gpu.Framebuffer(r.alloc())
	r.framebuffers[f] = &framebufferState{attachments: make(map[gpu.Enum]gpu.Texture)}
	r.record("createFramebuffer", f)
	return f
}

func (r *Recorder) DeleteFramebuffer(f gpu.Framebuffer) {
	if fb, ok := r.framebuffers[f]; ok {
		fb.deleted = true
	}
	if r.boundFBO == f {
		r.boundFBO = 0
	}
	r.record("deleteFramebuffer", f)
}

func (r *Recorder) BindFramebuffer(target gpu.Enum, f gpu.Framebuffer) {
	r.boundFBO = f
	r.record("bindFramebuffer", target, f)
}

func (r *Recorder) FramebufferTexture2D(target, attachment, texTarget gpu.Enum, t gpu.Texture, level int32) {
	if fb, ok := r.framebuffers[r.boundFBO]; ok {
		fb.attachments[attachment] = t
	}
	r.record("framebufferTexture2D", target, attachment, texTarget, t, level)
}

// CheckFramebufferStatus reports complete when the bound framebuffer has at
// least one attachment and every attached texture is live, allocated and the
// same size as the others.
func (r *Recorder) CheckFramebufferStatus(target gpu.Enum) gpu.Enum {
	r.record("checkFramebufferStatus", target)
	if r.ForceStatus != 0 {
		return r.ForceStatus
	}
	return r.status()
}

func (r *Recorder) status() gpu.Enum {
	fb, ok := r.framebuffers[r.boundFBO]
	if !ok || fb.deleted {
		return gpu.FramebufferUnsupported
	}
	if len(fb.attachments) == 0 {
		return gpu.FramebufferIncompleteMissing
	}
	var w, h int32 = -1, -1
	for _, t := range fb.attachments {
		st, ok := r.textures[t]
		if !ok || st.Deleted || st.Width <= 0 || st.Height <= 0 {
			return gpu.FramebufferIncompleteAttachment
		}
		if w < 0 {
			w, h = st.Width, st.Height
			continue
		}
		if st.Width != w || st.Height != h {
			return gpu.FramebufferIncompleteDimensions
		}
	}
	return gpu.FramebufferComplete
}

// Status evaluates completeness of f without recording a call.
func (r *Recorder) Status(f gpu.Framebuffer) gpu.Enum {
	prev := r.boundFBO
	r.boundFBO = f
	defer func() { r.boundFBO = prev }()
	return r.status()
}
