package renderer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/webgame/internal/engine/camera"
	"github.com/Faultbox/webgame/internal/engine/cmdbuf"
	"github.com/Faultbox/webgame/internal/engine/gpu"
	"github.com/Faultbox/webgame/internal/engine/gpu/gputest"
	"github.com/Faultbox/webgame/internal/engine/render"
	"github.com/Faultbox/webgame/internal/engine/texture"
)

type fakeCompiler struct {
	next    gpu.Program
	fail    string
	deleted int
}

func (c *fakeCompiler) CompileProgram(vs, fs string) (gpu.Program, error) {
	if c.fail != "" && vs == c.fail {
		return 0, errors.New("compile failed")
	}
	c.next++
	return c.next, nil
}

func (c *fakeCompiler) DeleteProgram(gpu.Program) { c.deleted++ }

type staticSource struct{ tex *texture.Texture }

func (s staticSource) Texture() *texture.Texture { return s.tex }

func newRecorder() *gputest.Recorder {
	rec := gputest.NewRecorder()
	for i, name := range []string{"uProjection", "uView", "uTime", "uTexture", "uColor", "uDepth", "uClip", "uFog", "uFogColor"} {
		rec.DefineUniform(name, gpu.UniformLocation(i))
	}
	return rec
}

func draws(cb *cmdbuf.CommandBuffer) []*cmdbuf.DrawElementsCommand {
	var out []*cmdbuf.DrawElementsCommand
	for _, cmd := range cb.Commands() {
		if d, ok := cmd.(*cmdbuf.DrawElementsCommand); ok {
			out = append(out, d)
		}
	}
	return out
}

func newContext() *render.Context {
	return render.NewContext(camera.NewOrbitCamera(), 640, 480)
}

func TestFrameMergesTilesPerLayer(t *testing.T) {
	rec := newRecorder()
	a := texture.FromPixels(rec, 1, 1, []byte{1, 2, 3, 4})
	b := texture.FromPixels(rec, 1, 1, []byte{5, 6, 7, 8})

	r, err := New(rec, &fakeCompiler{}, Config{Width: 320, Height: 240, Shaders: DesktopShaders, QuadsPerLayer: 4},
		[]TextureSource{staticSource{a}, staticSource{b}})
	require.NoError(t, err)
	defer r.Close()

	r.Frame(newContext())

	d := draws(r.CommandBuffer())
	require.Len(t, d, 3, "one draw per layer plus the present quad")
	assert.Equal(t, int32(4*quadIndices), d[0].Count)
	assert.Equal(t, int32(1*quadIndices*2), d[0].Offset)
	assert.Equal(t, int32(4*quadIndices), d[1].Count)
	assert.Equal(t, int32(5*quadIndices*2), d[1].Offset)
	assert.Equal(t, int32(0), d[2].Offset)
	assert.Equal(t, 3, r.DrawCalls())
	assert.Equal(t, 3, rec.Count("drawElements"))
}

func TestFrameSharedFallbackTextureMergesAcrossLayers(t *testing.T) {
	rec := newRecorder()

	// Sources with no texture yet fall back to the same white texture, so the
	// second layer's bind is dropped and its tiles extend the first draw.
	r, err := New(rec, &fakeCompiler{}, Config{Width: 64, Height: 64, Shaders: DesktopShaders, QuadsPerLayer: 3},
		[]TextureSource{staticSource{}, nil})
	require.NoError(t, err)

	r.Frame(newContext())

	d := draws(r.CommandBuffer())
	require.Len(t, d, 2)
	assert.Equal(t, int32(6*quadIndices), d[0].Count)
}

func TestFrameResizesTargetToViewport(t *testing.T) {
	rec := newRecorder()
	r, err := New(rec, &fakeCompiler{}, Config{Width: 64, Height: 64, Shaders: DesktopShaders}, nil)
	require.NoError(t, err)

	rc := newContext()
	rc.SetViewport(1024, 768)
	r.Frame(rc)

	w, h := r.Target().Size()
	assert.Equal(t, int32(1024), w)
	assert.Equal(t, int32(768), h)
	assert.Equal(t, gpu.FramebufferComplete, rec.Status(r.Target().Handle()))
	assert.Equal(t, gpu.Framebuffer(0), rec.BoundFramebuffer(), "present pass ends on the default framebuffer")
}

func TestFrameBindsTargetForPresent(t *testing.T) {
	rec := newRecorder()
	r, err := New(rec, &fakeCompiler{}, Config{Width: 64, Height: 64, Shaders: DesktopShaders}, nil)
	require.NoError(t, err)

	rc := newContext()
	rec.Reset()
	r.Frame(rc)

	assert.Same(t, r.Target().ColorTexture(), rc.RefractColor)
	assert.Same(t, r.Target().DepthTexture(), rc.RefractDepth)

	var bound []gpu.Texture
	for _, c := range rec.Calls() {
		if c.Op == "bindTexture" {
			bound = append(bound, c.Args[1].(gpu.Texture))
		}
	}
	assert.Contains(t, bound, r.Target().ColorTexture().Handle())
	assert.Contains(t, bound, r.Target().DepthTexture().Handle())
}

func TestFrameIsRepeatable(t *testing.T) {
	rec := newRecorder()
	r, err := New(rec, &fakeCompiler{}, Config{Width: 64, Height: 64, Shaders: DesktopShaders, QuadsPerLayer: 2},
		[]TextureSource{nil})
	require.NoError(t, err)

	rc := newContext()
	r.Frame(rc)
	first := r.CommandBuffer().Len()
	r.Frame(rc)

	assert.Equal(t, first, r.CommandBuffer().Len(), "caches reset every frame")
}

func TestNewCleansUpOnShaderError(t *testing.T) {
	rec := newRecorder()
	comp := &fakeCompiler{fail: DesktopShaders.PresentVertex}

	_, err := New(rec, comp, Config{Width: 64, Height: 64, Shaders: DesktopShaders}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "present")
	assert.Equal(t, 1, comp.deleted, "scene program is released")
}

func TestClose(t *testing.T) {
	rec := newRecorder()
	comp := &fakeCompiler{}
	r, err := New(rec, comp, Config{Width: 64, Height: 64, Shaders: DesktopShaders}, nil)
	require.NoError(t, err)

	r.Close()
	assert.Equal(t, 2, comp.deleted)
	assert.Equal(t, 2, rec.Count("deleteBuffer"))
	assert.Equal(t, 1, rec.Count("deleteFramebuffer"))
}

func TestIndexTypeWidensPastShortRange(t *testing.T) {
	tests := []struct {
		name  string
		tiles int
		want  gpu.Enum
	}{
		// Quad 0 is the full-screen quad, so 16383 tiles use all 65536 vertices.
		{"fits 16-bit", 16383, gpu.UnsignedShort},
		{"overflows 16-bit", 16384, gpu.UnsignedInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecorder()
			r, err := New(rec, &fakeCompiler{}, Config{Width: 64, Height: 64, Shaders: DesktopShaders, QuadsPerLayer: tt.tiles},
				[]TextureSource{nil})
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.IndexType())

			size := int32(gpu.ElementSize(tt.want))
			var indexBytes int
			for _, c := range rec.Calls() {
				if c.Op == "bufferData" && c.Args[0] == gpu.ElementArrayBuffer {
					indexBytes = c.Args[1].(int)
				}
			}
			assert.Equal(t, (tt.tiles+1)*quadIndices*int(size), indexBytes)

			r.Frame(newContext())
			d := draws(r.CommandBuffer())
			require.Len(t, d, 2)
			assert.Equal(t, tt.want, d[0].Type)
			assert.Equal(t, int32(tt.tiles*quadIndices), d[0].Count)
			assert.Equal(t, quadIndices*size, d[0].Offset)
		})
	}
}
