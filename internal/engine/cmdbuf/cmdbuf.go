// Package cmdbuf records a frame of GPU work as deferred commands and replays
// it against a gpu.Context.
//
// Recording drops state changes the buffer already knows to be in effect and
// folds contiguous indexed draws into one call. Frame-global values (camera,
// fog, time) are looked up from a parameter table that the render context
// fills at the start of Execute, so commands recorded before the camera is
// final still upload its final state.
package cmdbuf

import (
	"go.uber.org/zap"

	"github.com/Faultbox/webgame/internal/engine/framebuffer"
	"github.com/Faultbox/webgame/internal/engine/gpu"
)

// Program is a linked shader program.
type Program interface {
	Handle() gpu.Program
}

// Uniform is a shader uniform. Location returns gpu.NoUniform when the
// uniform is not active in its program.
type Uniform interface {
	Location() gpu.UniformLocation
}

// Sampler is a uniform bound to a texture unit.
type Sampler interface {
	Uniform
	TexUnit() int32
}

// Texture is a bindable GPU texture.
type Texture interface {
	Handle() gpu.Texture
	Target() gpu.Enum
}

// ParameterProvider writes frame-global values into the parameter table.
type ParameterProvider interface {
	PopulateCommandBufferParameters(cb *CommandBuffer)
}

// Viewport reports the drawable size used by fit-to-view framebuffer binds.
type Viewport interface {
	ViewportSize() (width, height int32)
}

// RenderContext is what Execute needs from the frame being rendered.
type RenderContext interface {
	ParameterProvider
	Viewport
}

// CommandBuffer records commands for one pass. It is not safe for concurrent
// use. Call ClearCommands before recording each pass.
type CommandBuffer struct {
	gl       gpu.Context
	commands []Command

	boundTextures map[int32]gpu.Texture
	boundBuffers  map[gpu.Enum]gpu.Buffer
	capStates     map[gpu.Enum]bool

	params map[Parameter]ParameterValue
}

// New creates an empty command buffer executing against gl.
func New(gl gpu.Context) *CommandBuffer {
	return &CommandBuffer{
		gl:            gl,
		boundTextures: make(map[int32]gpu.Texture),
		boundBuffers:  make(map[gpu.Enum]gpu.Buffer),
		capStates:     make(map[gpu.Enum]bool),
		params:        make(map[Parameter]ParameterValue),
	}
}

// executor carries what commands may read while the buffer runs.
type executor struct {
	gl     gpu.Context
	params map[Parameter]ParameterValue
	view   Viewport
}

// Execute asks rc for the current parameters and issues every recorded
// command in order. The recorded commands are kept; the same buffer can be
// executed again.
func (cb *CommandBuffer) Execute(rc RenderContext) {
	x := &executor{gl: cb.gl, params: cb.params}
	if rc != nil {
		rc.PopulateCommandBufferParameters(cb)
		x.view = rc
	}
	for _, cmd := range cb.commands {
		cmd.execute(x)
	}
}

// ClearCommands drops every recorded command and forgets all cached state.
func (cb *CommandBuffer) ClearCommands() {
	clear(cb.commands)
	cb.commands = cb.commands[:0]
	clear(cb.boundTextures)
	clear(cb.boundBuffers)
	clear(cb.capStates)
}

// Commands returns the recorded commands. The slice is owned by the buffer.
func (cb *CommandBuffer) Commands() []Command {
	return cb.commands
}

// Len returns the number of recorded commands.
func (cb *CommandBuffer) Len() int {
	return len(cb.commands)
}

// LogCommands writes one debug entry per recorded command.
func (cb *CommandBuffer) LogCommands(log *zap.Logger) {
	log.Debug("command buffer", zap.Int("commands", len(cb.commands)))
	for i, cmd := range cb.commands {
		log.Debug("command", zap.Int("index", i), zap.Stringer("kind", cmd.Kind()), zap.Stringer("cmd", cmd))
	}
}

func (cb *CommandBuffer) push(cmd Command) {
	cb.commands = append(cb.commands, cmd)
}

func (cb *CommandBuffer) last() Command {
	if len(cb.commands) == 0 {
		return nil
	}
	return cb.commands[len(cb.commands)-1]
}

// Clear records a clear of the buffers in mask.
func (cb *CommandBuffer) Clear(mask gpu.Enum) {
	cb.push(&ClearCommand{Mask: mask})
}

// Enable records glEnable unless cap is already known to be enabled.
func (cb *CommandBuffer) Enable(capability gpu.Enum) {
	if on, ok := cb.capStates[capability]; ok && on {
		return
	}
	cb.capStates[capability] = true
	cb.push(&EnableCommand{Cap: capability})
}

// Disable records glDisable unless cap is already known to be disabled.
func (cb *CommandBuffer) Disable(capability gpu.Enum) {
	if on, ok := cb.capStates[capability]; ok && !on {
		return
	}
	cb.capStates[capability] = false
	cb.push(&DisableCommand{Cap: capability})
}

// DepthMask records whether depth writes are enabled.
func (cb *CommandBuffer) DepthMask(flag bool) {
	cb.push(&DepthMaskCommand{Flag: flag})
}

// BlendFuncSeparate records separate RGB and alpha blend factors.
func (cb *CommandBuffer) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha gpu.Enum) {
	cb.push(&BlendFuncSeparateCommand{SrcRGB: srcRGB, DstRGB: dstRGB, SrcAlpha: srcAlpha, DstAlpha: dstAlpha})
}

// UseProgram records a program switch. A nil program records nothing.
func (cb *CommandBuffer) UseProgram(p Program) {
	if p == nil {
		return
	}
	cb.push(&UseProgramCommand{Program: p.Handle()})
}

// hasHandle reports whether tex names a GPU texture. A nil pointer stored in
// the interface reports handle 0 and counts as no texture.
func hasHandle(tex Texture) bool {
	return tex != nil && tex.Handle() != 0
}

func location(u Uniform) (gpu.UniformLocation, bool) {
	if u == nil {
		return gpu.NoUniform, false
	}
	loc := u.Location()
	return loc, loc != gpu.NoUniform
}

// SetUniform1F records a float upload to u.
func (cb *CommandBuffer) SetUniform1F(u Uniform, x float32) {
	if loc, ok := location(u); ok {
		cb.push(&Uniform1FCommand{Location: loc, X: x})
	}
}

// SetUniform1I records an int upload to u.
func (cb *CommandBuffer) SetUniform1I(u Uniform, x int32) {
	if loc, ok := location(u); ok {
		cb.push(&Uniform1ICommand{Location: loc, X: x})
	}
}

// SetUniform2F records a vec2 upload to u.
func (cb *CommandBuffer) SetUniform2F(u Uniform, x, y float32) {
	if loc, ok := location(u); ok {
		cb.push(&Uniform2FCommand{Location: loc, X: x, Y: y})
	}
}

// SetUniform3F records a vec3 upload to u.
func (cb *CommandBuffer) SetUniform3F(u Uniform, x, y, z float32) {
	if loc, ok := location(u); ok {
		cb.push(&Uniform3FCommand{Location: loc, X: x, Y: y, Z: z})
	}
}

// SetUniform4F records a vec4 upload to u.
func (cb *CommandBuffer) SetUniform4F(u Uniform, x, y, z, w float32) {
	if loc, ok := location(u); ok {
		cb.push(&Uniform4FCommand{Location: loc, X: x, Y: y, Z: z, W: w})
	}
}

// SetUniformMatrix4 records a matrix upload. values is read at execution
// time, not copied.
func (cb *CommandBuffer) SetUniformMatrix4(u Uniform, transpose bool, values []float32) {
	if loc, ok := location(u); ok {
		cb.push(&UniformMatrix4Command{Location: loc, Transpose: transpose, Values: values})
	}
}

// SetUniformParameter binds a parameter table entry to u. Sampler uniforms
// are also pointed at their texture unit.
func (cb *CommandBuffer) SetUniformParameter(u Uniform, p Parameter) {
	loc, ok := location(u)
	if !ok {
		return
	}

	var unit int32
	if s, isSampler := u.(Sampler); isSampler {
		unit = s.TexUnit()
		cb.SetUniform1I(u, unit)
	}
	cb.push(&UniformParameterCommand{Location: loc, Parameter: p, Unit: unit})
}

// BindTexture records a bind of tex to the given unit unless the unit is
// already known to hold it. Textures without a GPU handle are ignored.
func (cb *CommandBuffer) BindTexture(unit int32, tex Texture) {
	if !hasHandle(tex) {
		return
	}
	handle := tex.Handle()
	if bound, ok := cb.boundTextures[unit]; ok && bound == handle {
		return
	}
	cb.boundTextures[unit] = handle
	cb.push(&BindTextureCommand{Unit: unit, Target: tex.Target(), Texture: handle})
}

// BindBuffer records a buffer bind unless target already holds buf.
func (cb *CommandBuffer) BindBuffer(target gpu.Enum, buf gpu.Buffer) {
	if buf == 0 {
		return
	}
	if bound, ok := cb.boundBuffers[target]; ok && bound == buf {
		return
	}
	cb.boundBuffers[target] = buf
	cb.push(&BindBufferCommand{Target: target, Buffer: buf})
}

// EnableVertexAttribArray records enabling attribute index.
func (cb *CommandBuffer) EnableVertexAttribArray(index uint32) {
	cb.push(&EnableVertexAttribArrayCommand{Index: index})
}

// DisableVertexAttribArray records disabling attribute index.
func (cb *CommandBuffer) DisableVertexAttribArray(index uint32) {
	cb.push(&DisableVertexAttribArrayCommand{Index: index})
}

// VertexAttribPointer records the layout of attribute index in the bound
// array buffer. offset is in bytes.
func (cb *CommandBuffer) VertexAttribPointer(index uint32, size int32, dataType gpu.Enum, normalized bool, stride, offset int32) {
	cb.push(&VertexAttribPointerCommand{
		Index:      index,
		Size:       size,
		Type:       dataType,
		Normalized: normalized,
		Stride:     stride,
		Offset:     offset,
	})
}

// BindFramebuffer records a render target switch. A nil fb selects the
// default framebuffer. With fitView the target is resized to the viewport
// when the command executes.
func (cb *CommandBuffer) BindFramebuffer(fb *framebuffer.FrameBuffer, fitView bool) {
	cb.push(&BindFramebufferCommand{Framebuffer: fb, FitView: fitView})
}

// DrawElements records an indexed draw of count indices starting at byte
// offset. When the previous command draws the range immediately before this
// one with the same mode and index type, it is extended instead.
func (cb *CommandBuffer) DrawElements(mode gpu.Enum, count int32, dataType gpu.Enum, offset int32) {
	if prev, ok := cb.last().(*DrawElementsCommand); ok && gpu.ElementSize(dataType) > 0 &&
		prev.Mode == mode && prev.Type == dataType && prev.end() == offset {
		prev.Count += count
		return
	}
	cb.push(&DrawElementsCommand{Mode: mode, Count: count, Type: dataType, Offset: offset})
}
