// Package render holds the per-frame state shared by render passes and
// feeds it to command buffers as parameters.
package render

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/webgame/internal/engine/camera"
	"github.com/Faultbox/webgame/internal/engine/cmdbuf"
)

// Fog is distance fog applied by scene shaders.
type Fog struct {
	Enabled bool
	Start   float32
	End     float32
	Density float32
	Color   mgl32.Vec3
}

// Context is the frame being rendered. It implements cmdbuf.RenderContext.
type Context struct {
	Camera *camera.OrbitCamera
	Fog    Fog

	// Refraction inputs for water-like passes; nil when not rendered.
	RefractColor cmdbuf.Texture
	RefractDepth cmdbuf.Texture

	width, height int32

	start   time.Time
	last    time.Time
	elapsed float32
	delta   float32
	frame   uint64
	now     func() time.Time
}

// NewContext creates a render context for a viewport of the given size.
func NewContext(cam *camera.OrbitCamera, width, height int32) *Context {
	c := &Context{
		Camera: cam,
		now:    time.Now,
	}
	c.SetViewport(width, height)
	c.start = c.now()
	c.last = c.start
	return c
}

var _ cmdbuf.RenderContext = (*Context)(nil)

// SetViewport updates the drawable size.
func (c *Context) SetViewport(width, height int32) {
	c.width = max(width, 1)
	c.height = max(height, 1)
}

// ViewportSize implements cmdbuf.Viewport.
func (c *Context) ViewportSize() (int32, int32) {
	return c.width, c.height
}

// Aspect returns width / height.
func (c *Context) Aspect() float32 {
	return float32(c.width) / float32(c.height)
}

// Tick advances the clock by one frame.
func (c *Context) Tick() {
	now := c.now()
	c.delta = float32(now.Sub(c.last).Seconds())
	c.elapsed = float32(now.Sub(c.start).Seconds())
	c.last = now
	c.frame++
}

// Frame returns the number of Ticks so far.
func (c *Context) Frame() uint64 {
	return c.frame
}

// Projection returns the camera projection for the current viewport.
func (c *Context) Projection() mgl32.Mat4 {
	return c.Camera.ProjectionMatrix(c.Aspect())
}

// PopulateCommandBufferParameters implements cmdbuf.ParameterProvider.
func (c *Context) PopulateCommandBufferParameters(cb *cmdbuf.CommandBuffer) {
	proj := c.Projection()
	view := c.Camera.ViewMatrix()
	w, h := float32(c.width), float32(c.height)
	near, far := c.Camera.Near, c.Camera.Far

	cb.SetMatrixParameter(cmdbuf.ProjectionMatrix, proj)
	cb.SetMatrixParameter(cmdbuf.InverseProjectionMatrix, proj.Inv())
	cb.SetMatrixParameter(cmdbuf.ViewMatrix, view)
	cb.SetMatrixParameter(cmdbuf.InverseViewMatrix, view.Inv())
	cb.SetVector3Parameter(cmdbuf.CameraPos, c.Camera.Position())

	cb.SetVectorParameter(cmdbuf.ScreenParams, mgl32.Vec4{w, h, 1 / w, 1 / h})
	cb.SetVectorParameter(cmdbuf.ClipParams, mgl32.Vec4{near, far, 1 / near, 1 / far})
	cb.SetVectorParameter(cmdbuf.TimeParams, mgl32.Vec4{c.elapsed, c.delta, float32(c.frame), 0})

	var enabled float32
	if c.Fog.Enabled {
		enabled = 1
	}
	cb.SetVectorParameter(cmdbuf.FogParams, mgl32.Vec4{c.Fog.Start, c.Fog.End, c.Fog.Density, enabled})
	cb.SetVector3Parameter(cmdbuf.FogColor, c.Fog.Color)

	cb.SetTextureParameter(cmdbuf.RefractColorMap, c.RefractColor)
	cb.SetTextureParameter(cmdbuf.RefractDepthMap, c.RefractDepth)
}
