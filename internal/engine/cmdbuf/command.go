package cmdbuf

import (
	"fmt"
	"strings"

	"github.com/Faultbox/webgame/internal/engine/framebuffer"
	"github.com/Faultbox/webgame/internal/engine/gpu"
)

// Kind identifies a recorded command.
type Kind uint8

const (
	KindClear Kind = iota
	KindEnable
	KindDisable
	KindDepthMask
	KindBlendFuncSeparate
	KindUseProgram
	KindUniform1F
	KindUniform1I
	KindUniform2F
	KindUniform3F
	KindUniform4F
	KindUniformMatrix4
	KindUniformParameter
	KindBindTexture
	KindBindBuffer
	KindEnableVertexAttribArray
	KindDisableVertexAttribArray
	KindVertexAttribPointer
	KindDrawElements
	KindBindFramebuffer
)

var kindNames = [...]string{
	KindClear:                    "clear",
	KindEnable:                   "enable",
	KindDisable:                  "disable",
	KindDepthMask:                "depthMask",
	KindBlendFuncSeparate:        "blendFuncSeparate",
	KindUseProgram:               "useProgram",
	KindUniform1F:                "uniform1f",
	KindUniform1I:                "uniform1i",
	KindUniform2F:                "uniform2f",
	KindUniform3F:                "uniform3f",
	KindUniform4F:                "uniform4f",
	KindUniformMatrix4:           "uniformMatrix4",
	KindUniformParameter:         "uniformParameter",
	KindBindTexture:              "bindTexture",
	KindBindBuffer:               "bindBuffer",
	KindEnableVertexAttribArray:  "enableVertexAttribArray",
	KindDisableVertexAttribArray: "disableVertexAttribArray",
	KindVertexAttribPointer:      "vertexAttribPointer",
	KindDrawElements:             "drawElements",
	KindBindFramebuffer:          "bindFramebuffer",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Command is one recorded operation. The set of commands is closed; each
// concrete type carries exactly the payload its GPU call needs.
type Command interface {
	Kind() Kind
	String() string
	execute(x *executor)
}

// format renders kind(name: value, ...).
func format(k Kind, fields ...any) string {
	var sb strings.Builder
	sb.WriteString(k.String())
	sb.WriteByte('(')
	for i := 0; i+1 < len(fields); i += 2 {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %v", fields[i], fields[i+1])
	}
	sb.WriteByte(')')
	return sb.String()
}

type ClearCommand struct {
	Mask gpu.Enum
}

func (c *ClearCommand) Kind() Kind          { return KindClear }
func (c *ClearCommand) String() string      { return format(KindClear, "mask", c.Mask) }
func (c *ClearCommand) execute(x *executor) { x.gl.Clear(c.Mask) }

type EnableCommand struct {
	Cap gpu.Enum
}

func (c *EnableCommand) Kind() Kind          { return KindEnable }
func (c *EnableCommand) String() string      { return format(KindEnable, "cap", c.Cap) }
func (c *EnableCommand) execute(x *executor) { x.gl.Enable(c.Cap) }

type DisableCommand struct {
	Cap gpu.Enum
}

func (c *DisableCommand) Kind() Kind          { return KindDisable }
func (c *DisableCommand) String() string      { return format(KindDisable, "cap", c.Cap) }
func (c *DisableCommand) execute(x *executor) { x.gl.Disable(c.Cap) }

type DepthMaskCommand struct {
	Flag bool
}

func (c *DepthMaskCommand) Kind() Kind          { return KindDepthMask }
func (c *DepthMaskCommand) String() string      { return format(KindDepthMask, "flag", c.Flag) }
func (c *DepthMaskCommand) execute(x *executor) { x.gl.DepthMask(c.Flag) }

type BlendFuncSeparateCommand struct {
	SrcRGB, DstRGB, SrcAlpha, DstAlpha gpu.Enum
}

func (c *BlendFuncSeparateCommand) Kind() Kind { return KindBlendFuncSeparate }

func (c *BlendFuncSeparateCommand) String() string {
	return format(KindBlendFuncSeparate,
		"srcRGB", c.SrcRGB, "dstRGB", c.DstRGB, "srcAlpha", c.SrcAlpha, "dstAlpha", c.DstAlpha)
}

func (c *BlendFuncSeparateCommand) execute(x *executor) {
	x.gl.BlendFuncSeparate(c.SrcRGB, c.DstRGB, c.SrcAlpha, c.DstAlpha)
}

type UseProgramCommand struct {
	Program gpu.Program
}

func (c *UseProgramCommand) Kind() Kind          { return KindUseProgram }
func (c *UseProgramCommand) String() string      { return format(KindUseProgram, "program", c.Program) }
func (c *UseProgramCommand) execute(x *executor) { x.gl.UseProgram(c.Program) }

type Uniform1FCommand struct {
	Location gpu.UniformLocation
	X        float32
}

func (c *Uniform1FCommand) Kind() Kind { return KindUniform1F }
func (c *Uniform1FCommand) String() string {
	return format(KindUniform1F, "location", c.Location, "x", c.X)
}
func (c *Uniform1FCommand) execute(x *executor) { x.gl.Uniform1f(c.Location, c.X) }

type Uniform1ICommand struct {
	Location gpu.UniformLocation
	X        int32
}

func (c *Uniform1ICommand) Kind() Kind { return KindUniform1I }
func (c *Uniform1ICommand) String() string {
	return format(KindUniform1I, "location", c.Location, "x", c.X)
}
func (c *Uniform1ICommand) execute(x *executor) { x.gl.Uniform1i(c.Location, c.X) }

type Uniform2FCommand struct {
	Location gpu.UniformLocation
	X, Y     float32
}

func (c *Uniform2FCommand) Kind() Kind { return KindUniform2F }
func (c *Uniform2FCommand) String() string {
	return format(KindUniform2F, "location", c.Location, "x", c.X, "y", c.Y)
}
func (c *Uniform2FCommand) execute(x *executor) { x.gl.Uniform2f(c.Location, c.X, c.Y) }

type Uniform3FCommand struct {
	Location gpu.UniformLocation
	X, Y, Z  float32
}

func (c *Uniform3FCommand) Kind() Kind { return KindUniform3F }
func (c *Uniform3FCommand) String() string {
	return format(KindUniform3F, "location", c.Location, "x", c.X, "y", c.Y, "z", c.Z)
}
func (c *Uniform3FCommand) execute(x *executor) { x.gl.Uniform3f(c.Location, c.X, c.Y, c.Z) }

type Uniform4FCommand struct {
	Location   gpu.UniformLocation
	X, Y, Z, W float32
}

func (c *Uniform4FCommand) Kind() Kind { return KindUniform4F }
func (c *Uniform4FCommand) String() string {
	return format(KindUniform4F, "location", c.Location, "x", c.X, "y", c.Y, "z", c.Z, "w", c.W)
}
func (c *Uniform4FCommand) execute(x *executor) { x.gl.Uniform4f(c.Location, c.X, c.Y, c.Z, c.W) }

// UniformMatrix4Command references Values rather than copying them, so a
// matrix updated after recording is uploaded with its latest contents.
type UniformMatrix4Command struct {
	Location  gpu.UniformLocation
	Transpose bool
	Values    []float32
}

func (c *UniformMatrix4Command) Kind() Kind { return KindUniformMatrix4 }
func (c *UniformMatrix4Command) String() string {
	return format(KindUniformMatrix4, "location", c.Location, "transpose", c.Transpose, "values", c.Values)
}
func (c *UniformMatrix4Command) execute(x *executor) {
	x.gl.UniformMatrix4fv(c.Location, c.Transpose, c.Values)
}

// UniformParameterCommand uploads a parameter table entry, looked up when the
// buffer executes. Unit is the sampler's texture unit for texture parameters.
type UniformParameterCommand struct {
	Location  gpu.UniformLocation
	Parameter Parameter
	Unit      int32
}

func (c *UniformParameterCommand) Kind() Kind { return KindUniformParameter }
func (c *UniformParameterCommand) String() string {
	return format(KindUniformParameter, "location", c.Location, "parameter", c.Parameter, "unit", c.Unit)
}
func (c *UniformParameterCommand) execute(x *executor) {
	v, ok := x.params[c.Parameter]
	if !ok {
		return
	}
	c.Parameter.upload(x.gl, c.Location, c.Unit, v)
}

type BindTextureCommand struct {
	Unit    int32
	Target  gpu.Enum
	Texture gpu.Texture
}

func (c *BindTextureCommand) Kind() Kind { return KindBindTexture }
func (c *BindTextureCommand) String() string {
	return format(KindBindTexture, "unit", c.Unit, "target", c.Target, "texture", c.Texture)
}
func (c *BindTextureCommand) execute(x *executor) {
	x.gl.ActiveTexture(gpu.TextureUnit(c.Unit))
	x.gl.BindTexture(c.Target, c.Texture)
}

type BindBufferCommand struct {
	Target gpu.Enum
	Buffer gpu.Buffer
}

func (c *BindBufferCommand) Kind() Kind { return KindBindBuffer }
func (c *BindBufferCommand) String() string {
	return format(KindBindBuffer, "target", c.Target, "buffer", c.Buffer)
}
func (c *BindBufferCommand) execute(x *executor) { x.gl.BindBuffer(c.Target, c.Buffer) }

type EnableVertexAttribArrayCommand struct {
	Index uint32
}

func (c *EnableVertexAttribArrayCommand) Kind() Kind { return KindEnableVertexAttribArray }
func (c *EnableVertexAttribArrayCommand) String() string {
	return format(KindEnableVertexAttribArray, "index", c.Index)
}
func (c *EnableVertexAttribArrayCommand) execute(x *executor) {
	x.gl.EnableVertexAttribArray(c.Index)
}

type DisableVertexAttribArrayCommand struct {
	Index uint32
}

func (c *DisableVertexAttribArrayCommand) Kind() Kind { return KindDisableVertexAttribArray }
func (c *DisableVertexAttribArrayCommand) String() string {
	return format(KindDisableVertexAttribArray, "index", c.Index)
}
func (c *DisableVertexAttribArrayCommand) execute(x *executor) {
	x.gl.DisableVertexAttribArray(c.Index)
}

type VertexAttribPointerCommand struct {
	Index      uint32
	Size       int32
	Type       gpu.Enum
	Normalized bool
	Stride     int32
	Offset     int32
}

func (c *VertexAttribPointerCommand) Kind() Kind { return KindVertexAttribPointer }
func (c *VertexAttribPointerCommand) String() string {
	return format(KindVertexAttribPointer, "index", c.Index, "size", c.Size, "type", c.Type,
		"normalized", c.Normalized, "stride", c.Stride, "offset", c.Offset)
}
func (c *VertexAttribPointerCommand) execute(x *executor) {
	x.gl.VertexAttribPointer(c.Index, c.Size, c.Type, c.Normalized, c.Stride, c.Offset)
}

// DrawElementsCommand draws Count indices starting at byte Offset of the
// bound element array buffer.
type DrawElementsCommand struct {
	Mode   gpu.Enum
	Count  int32
	Type   gpu.Enum
	Offset int32
}

func (c *DrawElementsCommand) Kind() Kind { return KindDrawElements }
func (c *DrawElementsCommand) String() string {
	return format(KindDrawElements, "mode", c.Mode, "count", c.Count, "type", c.Type, "offset", c.Offset)
}
func (c *DrawElementsCommand) execute(x *executor) {
	x.gl.DrawElements(c.Mode, c.Count, c.Type, c.Offset)
}

// end returns the byte offset just past the last index drawn.
func (c *DrawElementsCommand) end() int32 {
	return c.Offset + c.Count*gpu.ElementSize(c.Type)
}

// BindFramebufferCommand binds Framebuffer, or the default framebuffer when
// it is nil. With FitView the target is first resized to the viewport.
type BindFramebufferCommand struct {
	Framebuffer *framebuffer.FrameBuffer
	FitView     bool
}

func (c *BindFramebufferCommand) Kind() Kind { return KindBindFramebuffer }

func (c *BindFramebufferCommand) String() string {
	var handle gpu.Framebuffer
	if c.Framebuffer != nil {
		handle = c.Framebuffer.Handle()
	}
	return format(KindBindFramebuffer, "framebuffer", handle, "fitView", c.FitView)
}

func (c *BindFramebufferCommand) execute(x *executor) {
	if c.Framebuffer == nil {
		x.gl.BindFramebuffer(gpu.FramebufferTarget, 0)
		return
	}
	if c.FitView && x.view != nil {
		c.Framebuffer.Resize(x.view.ViewportSize())
	}
	x.gl.BindFramebuffer(gpu.FramebufferTarget, c.Framebuffer.Handle())
}
