package gpu

import "fmt"

// Enum is a GL enumerant. Values match the OpenGL / WebGL constants so the
// backends can pass them through unchanged.
type Enum uint32

// Clear masks.
const (
	DepthBufferBit   Enum = 0x0100
	StencilBufferBit Enum = 0x0400
	ColorBufferBit   Enum = 0x4000
)

// Capabilities.
const (
	CullFace    Enum = 0x0B44
	DepthTest   Enum = 0x0B71
	StencilTest Enum = 0x0B90
	Blend       Enum = 0x0BE2
	ScissorTest Enum = 0x0C11
)

// Blend factors.
const (
	Zero             Enum = 0
	One              Enum = 1
	SrcColor         Enum = 0x0300
	OneMinusSrcColor Enum = 0x0301
	SrcAlpha         Enum = 0x0302
	OneMinusSrcAlpha Enum = 0x0303
	DstAlpha         Enum = 0x0304
	OneMinusDstAlpha Enum = 0x0305
)

// Primitive modes.
const (
	Points        Enum = 0x0000
	Lines         Enum = 0x0001
	LineStrip     Enum = 0x0003
	Triangles     Enum = 0x0004
	TriangleStrip Enum = 0x0005
	TriangleFan   Enum = 0x0006
)

// Data types.
const (
	UnsignedByte  Enum = 0x1401
	UnsignedShort Enum = 0x1403
	UnsignedInt   Enum = 0x1405
	Float         Enum = 0x1406
)

// Buffer targets and usages.
const (
	ArrayBuffer        Enum = 0x8892
	ElementArrayBuffer Enum = 0x8893
	StaticDraw         Enum = 0x88E4
	DynamicDraw        Enum = 0x88E8
)

// Texture targets, formats and parameters.
const (
	Texture2D          Enum = 0x0DE1
	TextureCubeMap     Enum = 0x8513
	Texture0           Enum = 0x84C0
	RGBA               Enum = 0x1908
	RGBA8              Enum = 0x8058
	DepthComponent     Enum = 0x1902
	DepthComponent24   Enum = 0x81A6
	TextureMagFilter   Enum = 0x2800
	TextureMinFilter   Enum = 0x2801
	TextureWrapS       Enum = 0x2802
	TextureWrapT       Enum = 0x2803
	Nearest            Enum = 0x2600
	Linear             Enum = 0x2601
	LinearMipmapLinear Enum = 0x2703
	ClampToEdge        Enum = 0x812F
	Repeat             Enum = 0x2901
)

// Framebuffer targets, attachments and status codes.
const (
	FramebufferTarget               Enum = 0x8D40
	ColorAttachment0                Enum = 0x8CE0
	DepthAttachment                 Enum = 0x8D00
	FramebufferComplete             Enum = 0x8CD5
	FramebufferIncompleteAttachment Enum = 0x8CD6
	FramebufferIncompleteMissing    Enum = 0x8CD7
	FramebufferIncompleteDimensions Enum = 0x8CD9
	FramebufferUnsupported          Enum = 0x8CDD
)

var enumNames = map[Enum]string{
	DepthBufferBit:                  "DEPTH_BUFFER_BIT",
	StencilBufferBit:                "STENCIL_BUFFER_BIT",
	ColorBufferBit:                  "COLOR_BUFFER_BIT",
	ColorBufferBit | DepthBufferBit: "COLOR_BUFFER_BIT|DEPTH_BUFFER_BIT",
	CullFace:                        "CULL_FACE",
	DepthTest:                       "DEPTH_TEST",
	StencilTest:                     "STENCIL_TEST",
	Blend:                           "BLEND",
	ScissorTest:                     "SCISSOR_TEST",
	SrcAlpha:                        "SRC_ALPHA",
	OneMinusSrcAlpha:                "ONE_MINUS_SRC_ALPHA",
	Triangles:                       "TRIANGLES",
	TriangleStrip:                   "TRIANGLE_STRIP",
	UnsignedByte:                    "UNSIGNED_BYTE",
	UnsignedShort:                   "UNSIGNED_SHORT",
	UnsignedInt:                     "UNSIGNED_INT",
	Float:                           "FLOAT",
	ArrayBuffer:                     "ARRAY_BUFFER",
	ElementArrayBuffer:              "ELEMENT_ARRAY_BUFFER",
	Texture2D:                       "TEXTURE_2D",
	TextureCubeMap:                  "TEXTURE_CUBE_MAP",
	FramebufferTarget:               "FRAMEBUFFER",
	FramebufferComplete:             "FRAMEBUFFER_COMPLETE",
	FramebufferIncompleteAttachment: "FRAMEBUFFER_INCOMPLETE_ATTACHMENT",
	FramebufferIncompleteMissing:    "FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT",
	FramebufferUnsupported:          "FRAMEBUFFER_UNSUPPORTED",
}

// String returns the GL name for well-known enumerants and hex otherwise.
// Values shared between groups (Zero/One vs. Points/Lines) print as hex.
func (e Enum) String() string {
	if name, ok := enumNames[e]; ok {
		return name
	}
	return fmt.Sprintf("0x%04X", uint32(e))
}

// TextureUnit returns the ACTIVE_TEXTURE enumerant for unit n.
func TextureUnit(n int32) Enum {
	return Texture0 + Enum(n)
}

// ElementSize returns the byte size of an index element type, or 0 for
// types that cannot be used as indices.
func ElementSize(dataType Enum) int32 {
	switch dataType {
	case UnsignedByte:
		return 1
	case UnsignedShort:
		return 2
	case UnsignedInt:
		return 4
	default:
		return 0
	}
}
