// Package renderer draws the demo scene through a command buffer: textured
// tiles into an offscreen target, then a fogged full-screen present pass.
package renderer

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/webgame/internal/engine/cmdbuf"
	"github.com/Faultbox/webgame/internal/engine/framebuffer"
	"github.com/Faultbox/webgame/internal/engine/gpu"
	"github.com/Faultbox/webgame/internal/engine/render"
	"github.com/Faultbox/webgame/internal/engine/shader"
	"github.com/Faultbox/webgame/internal/engine/texture"
	"github.com/Faultbox/webgame/internal/logger"
)

// Vertex layout: position (xyz) + uv, interleaved.
const (
	attribPos    = 0
	attribUV     = 1
	vertexFloats = 5
	vertexStride = vertexFloats * 4
	quadIndices  = 6

	// maxShortVertices is the vertex count addressable with 16-bit indices.
	maxShortVertices = 1 << 16
)

// Attributes lists vertex attribute names in location order.
var Attributes = []string{"aPos", "aUV"}

// TextureSource yields a texture once it is available.
type TextureSource interface {
	Texture() *texture.Texture
}

// Config holds renderer configuration.
type Config struct {
	Width  int32
	Height int32

	Shaders Shaders

	// QuadsPerLayer is the number of tiles drawn with each layer texture.
	QuadsPerLayer int

	// DumpCommands logs the recorded command buffer every frame.
	DumpCommands bool
}

type layer struct {
	source TextureSource
	first  int32
	count  int32
}

// Renderer owns the GPU resources of the demo scene.
type Renderer struct {
	gl  gpu.Context
	cfg Config
	cb  *cmdbuf.CommandBuffer
	log *zap.Logger

	scene        *shader.Program
	uProjection  *shader.Uniform
	uView        *shader.Uniform
	uTime        *shader.Uniform
	sceneTexture *shader.Sampler

	present   *shader.Program
	colorMap  *shader.Sampler
	depthMap  *shader.Sampler
	uClip     *shader.Uniform
	uFog      *shader.Uniform
	uFogColor *shader.Uniform

	target   *framebuffer.FrameBuffer
	vertices gpu.Buffer
	indices  gpu.Buffer
	white    *texture.Texture
	layers   []layer

	indexType gpu.Enum
	indexSize int32
}

// New creates the renderer. One layer of tiles is laid out per source, all
// sharing a single vertex and index buffer.
// IMPORTANT: Must be called AFTER the GL context is current!
func New(gl gpu.Context, compiler shader.Compiler, cfg Config, sources []TextureSource) (*Renderer, error) {
	if cfg.QuadsPerLayer <= 0 {
		cfg.QuadsPerLayer = 1
	}

	r := &Renderer{
		gl:  gl,
		cfg: cfg,
		cb:  cmdbuf.New(gl),
		log: logger.Named("renderer"),
	}

	var err error
	r.scene, err = shader.Compile(gl, compiler, "scene", cfg.Shaders.SceneVertex, cfg.Shaders.SceneFragment)
	if err != nil {
		return nil, err
	}
	r.uProjection = r.scene.Uniform("uProjection")
	r.uView = r.scene.Uniform("uView")
	r.uTime = r.scene.Uniform("uTime")
	r.sceneTexture = r.scene.Sampler("uTexture", 0)

	r.present, err = shader.Compile(gl, compiler, "present", cfg.Shaders.PresentVertex, cfg.Shaders.PresentFragment)
	if err != nil {
		r.Close()
		return nil, err
	}
	r.colorMap = r.present.Sampler("uColor", 0)
	r.depthMap = r.present.Sampler("uDepth", 1)
	r.uClip = r.present.Uniform("uClip")
	r.uFog = r.present.Uniform("uFog")
	r.uFogColor = r.present.Uniform("uFogColor")

	r.target, err = framebuffer.New(gl, cfg.Width, cfg.Height)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("creating scene target: %w", err)
	}
	if err := r.target.AddDepthAttachment(nil); err != nil {
		r.Close()
		return nil, fmt.Errorf("creating scene target: %w", err)
	}

	r.white = texture.FromPixels(gl, 1, 1, []byte{255, 255, 255, 255})
	r.buildGeometry(sources)

	r.log.Info("renderer initialized",
		zap.Int("layers", len(r.layers)),
		zap.Int("quadsPerLayer", cfg.QuadsPerLayer),
		zap.Int32("width", cfg.Width),
		zap.Int32("height", cfg.Height),
	)
	return r, nil
}

// buildGeometry uploads quad 0 as a clip-space full-screen quad followed by
// every layer's tiles on a square grid in the XZ plane.
func (r *Renderer) buildGeometry(sources []TextureSource) {
	per := int32(r.cfg.QuadsPerLayer)
	tiles := int32(len(sources)) * per
	side := int32(math.Ceil(math.Sqrt(float64(tiles))))

	vertices := make([]float32, 0, (tiles+1)*4*vertexFloats)
	vertices = append(vertices,
		-1, -1, 0, 0, 0,
		1, -1, 0, 1, 0,
		1, 1, 0, 1, 1,
		-1, 1, 0, 0, 1,
	)

	const size, gap = 1.0, 0.1
	origin := -float32(side) * (size + gap) / 2
	for t := int32(0); t < tiles; t++ {
		x0 := origin + float32(t%side)*(size+gap)
		z0 := origin + float32(t/side)*(size+gap)
		x1, z1 := x0+size, z0+size
		vertices = append(vertices,
			x0, 0, z1, 0, 0,
			x1, 0, z1, 1, 0,
			x1, 0, z0, 1, 1,
			x0, 0, z0, 0, 1,
		)
	}

	quads := tiles + 1
	r.indexType, r.indexSize = gpu.UnsignedShort, 2
	if quads*4 > maxShortVertices {
		r.indexType, r.indexSize = gpu.UnsignedInt, 4
	}
	indices := make([]uint32, 0, quads*quadIndices)
	for q := int32(0); q < quads; q++ {
		base := uint32(q * 4)
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}

	r.layers = r.layers[:0]
	for i, src := range sources {
		r.layers = append(r.layers, layer{source: src, first: 1 + int32(i)*per, count: per})
	}

	r.vertices = r.gl.CreateBuffer()
	r.gl.BindBuffer(gpu.ArrayBuffer, r.vertices)
	r.gl.BufferData(gpu.ArrayBuffer, gpu.Float32Bytes(vertices), gpu.StaticDraw)

	r.indices = r.gl.CreateBuffer()
	r.gl.BindBuffer(gpu.ElementArrayBuffer, r.indices)
	if r.indexType == gpu.UnsignedInt {
		r.gl.BufferData(gpu.ElementArrayBuffer, gpu.Uint32Bytes(indices), gpu.StaticDraw)
	} else {
		r.gl.BufferData(gpu.ElementArrayBuffer, gpu.Uint16Bytes(narrow(indices)), gpu.StaticDraw)
	}
}

func narrow(indices []uint32) []uint16 {
	out := make([]uint16, len(indices))
	for i, v := range indices {
		out[i] = uint16(v)
	}
	return out
}

// IndexType returns the element type of the shared index buffer: 16-bit
// until the tiles need more vertices than it can address.
func (r *Renderer) IndexType() gpu.Enum {
	return r.indexType
}

// CommandBuffer returns the buffer recorded by Frame.
func (r *Renderer) CommandBuffer() *cmdbuf.CommandBuffer {
	return r.cb
}

// Target returns the offscreen scene target.
func (r *Renderer) Target() *framebuffer.FrameBuffer {
	return r.target
}

// Frame records and executes one frame.
func (r *Renderer) Frame(rc *render.Context) {
	r.cb.ClearCommands()

	rc.RefractColor = r.target.ColorTexture()
	rc.RefractDepth = r.target.DepthTexture()

	r.recordScene()
	r.recordPresent()

	if r.cfg.DumpCommands {
		r.cb.LogCommands(r.log)
	}
	r.cb.Execute(rc)
}

func (r *Renderer) recordScene() {
	cb := r.cb

	cb.BindFramebuffer(r.target, true)
	cb.DepthMask(true)
	cb.Clear(gpu.ColorBufferBit | gpu.DepthBufferBit)
	cb.Enable(gpu.DepthTest)
	cb.Disable(gpu.Blend)

	cb.UseProgram(r.scene)
	cb.SetUniformParameter(r.uProjection, cmdbuf.ProjectionMatrix)
	cb.SetUniformParameter(r.uView, cmdbuf.ViewMatrix)
	cb.SetUniformParameter(r.uTime, cmdbuf.TimeParams)
	cb.SetUniform1I(r.sceneTexture, r.sceneTexture.TexUnit())

	cb.BindBuffer(gpu.ArrayBuffer, r.vertices)
	cb.EnableVertexAttribArray(attribPos)
	cb.VertexAttribPointer(attribPos, 3, gpu.Float, false, vertexStride, 0)
	cb.EnableVertexAttribArray(attribUV)
	cb.VertexAttribPointer(attribUV, 2, gpu.Float, false, vertexStride, 3*4)
	cb.BindBuffer(gpu.ElementArrayBuffer, r.indices)

	// One draw per tile; tiles of a layer are contiguous in the index buffer
	// and collapse into a single draw call.
	for _, l := range r.layers {
		cb.BindTexture(r.sceneTexture.TexUnit(), r.layerTexture(l))
		for q := l.first; q < l.first+l.count; q++ {
			cb.DrawElements(gpu.Triangles, quadIndices, r.indexType, q*quadIndices*r.indexSize)
		}
	}
}

func (r *Renderer) recordPresent() {
	cb := r.cb

	cb.BindFramebuffer(nil, false)
	cb.Disable(gpu.DepthTest)

	cb.UseProgram(r.present)
	cb.SetUniformParameter(r.colorMap, cmdbuf.RefractColorMap)
	cb.SetUniformParameter(r.depthMap, cmdbuf.RefractDepthMap)
	cb.SetUniformParameter(r.uClip, cmdbuf.ClipParams)
	cb.SetUniformParameter(r.uFog, cmdbuf.FogParams)
	cb.SetUniformParameter(r.uFogColor, cmdbuf.FogColor)

	cb.DrawElements(gpu.Triangles, quadIndices, r.indexType, 0)
}

func (r *Renderer) layerTexture(l layer) *texture.Texture {
	if l.source != nil {
		if tex := l.source.Texture(); tex != nil {
			return tex
		}
	}
	return r.white
}

// DrawCalls returns the number of draw commands in the last recorded frame.
func (r *Renderer) DrawCalls() int {
	n := 0
	for _, cmd := range r.cb.Commands() {
		if cmd.Kind() == cmdbuf.KindDrawElements {
			n++
		}
	}
	return n
}

// Close releases all GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")

	if r.scene != nil {
		r.scene.Dispose()
	}
	if r.present != nil {
		r.present.Dispose()
	}
	if r.target != nil {
		r.target.Dispose()
	}
	if r.white != nil {
		r.white.Dispose()
	}
	if r.vertices != 0 {
		r.gl.DeleteBuffer(r.vertices)
		r.vertices = 0
	}
	if r.indices != 0 {
		r.gl.DeleteBuffer(r.indices)
		r.indices = 0
	}
}
