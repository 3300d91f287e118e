package framebuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/webgame/internal/engine/gpu"
	"github.com/Faultbox/webgame/internal/engine/gpu/gputest"
	"github.com/Faultbox/webgame/internal/engine/texture"
)

func TestNewIsCompleteAndUnbound(t *testing.T) {
	rec := gputest.NewRecorder()

	fb, err := New(rec, 320, 240)
	require.NoError(t, err)

	assert.Equal(t, gpu.FramebufferComplete, rec.Status(fb.Handle()))
	assert.Equal(t, gpu.Framebuffer(0), rec.BoundFramebuffer())
	assert.Equal(t, fb.ColorTexture().Handle(), rec.Attachment(fb.Handle(), gpu.ColorAttachment0))
	assert.Nil(t, fb.DepthTexture())

	w, h := fb.Size()
	assert.Equal(t, int32(320), w)
	assert.Equal(t, int32(240), h)
}

func TestNewIncompleteReleasesResources(t *testing.T) {
	rec := gputest.NewRecorder()
	rec.ForceStatus = gpu.FramebufferUnsupported

	fb, err := New(rec, 16, 16)
	require.Error(t, err)
	assert.Nil(t, fb)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, err.Error(), gpu.FramebufferUnsupported.String())

	assert.Equal(t, 1, rec.Count("deleteFramebuffer"))
	assert.Equal(t, 1, rec.Count("deleteTexture"))
	assert.Equal(t, gpu.Framebuffer(0), rec.BoundFramebuffer())
}

func TestAddDepthAttachment(t *testing.T) {
	tests := []struct {
		name     string
		borrowed bool
	}{
		{name: "owned", borrowed: false},
		{name: "borrowed", borrowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := gputest.NewRecorder()
			fb, err := New(rec, 64, 64)
			require.NoError(t, err)

			var existing *texture.Texture
			if tt.borrowed {
				existing = texture.New(rec, gpu.Texture2D, texture.Depth24, 64, 64)
			}

			require.NoError(t, fb.AddDepthAttachment(existing))
			depth := fb.DepthTexture()
			require.NotNil(t, depth)
			if tt.borrowed {
				assert.Same(t, existing, depth)
			}
			assert.Equal(t, depth.Handle(), rec.Attachment(fb.Handle(), gpu.DepthAttachment))
			assert.Equal(t, gpu.FramebufferComplete, rec.Status(fb.Handle()))

			depthHandle := depth.Handle()
			fb.Dispose()
			assert.Equal(t, !tt.borrowed, rec.Texture(depthHandle).Deleted)
		})
	}
}

func TestAddDepthAttachmentMismatchedSize(t *testing.T) {
	rec := gputest.NewRecorder()
	fb, err := New(rec, 64, 64)
	require.NoError(t, err)

	err = fb.AddDepthAttachment(texture.New(rec, gpu.Texture2D, texture.Depth24, 32, 32))
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestResizeSameSizeIsNoop(t *testing.T) {
	rec := gputest.NewRecorder()
	fb, err := New(rec, 128, 128)
	require.NoError(t, err)
	require.NoError(t, fb.AddDepthAttachment(nil))

	color := fb.ColorTexture().Handle()
	before := len(rec.Calls())

	fb.Resize(128, 128)

	assert.Len(t, rec.Calls(), before)
	assert.Equal(t, 1, rec.Texture(color).Allocations)
	assert.Equal(t, color, fb.ColorTexture().Handle())
}

func TestResizeKeepsIdentityAndCompleteness(t *testing.T) {
	rec := gputest.NewRecorder()
	fb, err := New(rec, 128, 128)
	require.NoError(t, err)
	require.NoError(t, fb.AddDepthAttachment(nil))

	handle := fb.Handle()
	color := fb.ColorTexture().Handle()
	depth := fb.DepthTexture().Handle()

	fb.Resize(256, 64)

	assert.Equal(t, handle, fb.Handle())
	assert.Equal(t, color, fb.ColorTexture().Handle())
	assert.Equal(t, depth, fb.DepthTexture().Handle())
	assert.Equal(t, int32(256), rec.Texture(color).Width)
	assert.Equal(t, int32(64), rec.Texture(depth).Height)
	assert.Equal(t, gpu.FramebufferComplete, rec.Status(handle))
}

func TestBeginEnd(t *testing.T) {
	rec := gputest.NewRecorder()
	fb, err := New(rec, 8, 8)
	require.NoError(t, err)

	fb.Begin()
	assert.Equal(t, fb.Handle(), rec.BoundFramebuffer())
	fb.End()
	assert.Equal(t, gpu.Framebuffer(0), rec.BoundFramebuffer())
}

func TestDisposeIsIdempotent(t *testing.T) {
	rec := gputest.NewRecorder()
	fb, err := New(rec, 8, 8)
	require.NoError(t, err)
	require.NoError(t, fb.AddDepthAttachment(nil))
	handle := fb.Handle()

	fb.Dispose()
	fb.Dispose()

	assert.Equal(t, 1, rec.Count("deleteFramebuffer"))
	assert.Equal(t, 2, rec.Count("deleteTexture"))
	assert.False(t, rec.FramebufferLive(handle))
	assert.Equal(t, gpu.Framebuffer(0), fb.Handle())
	assert.Nil(t, fb.ColorTexture())
}
