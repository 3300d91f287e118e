// Package scene assembles the demo scene: asset sources, the texture
// streamer, camera, render context and renderer, stepped once per frame.
// It is shared by the desktop and browser front ends.
package scene

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/webgame/internal/assets"
	"github.com/Faultbox/webgame/internal/config"
	"github.com/Faultbox/webgame/internal/engine/camera"
	"github.com/Faultbox/webgame/internal/engine/gpu"
	"github.com/Faultbox/webgame/internal/engine/render"
	"github.com/Faultbox/webgame/internal/engine/renderer"
	"github.com/Faultbox/webgame/internal/engine/shader"
	"github.com/Faultbox/webgame/internal/engine/texture"
	"github.com/Faultbox/webgame/internal/logger"
)

// DefaultTilesPerTexture is the number of tiles drawn with each texture.
const DefaultTilesPerTexture = 16

// Config contains scene configuration options.
type Config struct {
	Width  int32
	Height int32

	Shaders         renderer.Shaders
	TilesPerTexture int

	// Sources override the asset sources built from the engine config.
	Sources []assets.Source
}

// Scene owns everything needed to draw a frame.
type Scene struct {
	gl     gpu.Context
	quota  int
	cancel context.CancelFunc
	log    *zap.Logger

	manager  *assets.Manager
	dispatch *assets.Dispatcher
	textures *texture.Loader
	camera   *camera.OrbitCamera
	rc       *render.Context
	renderer *renderer.Renderer
}

// New creates the scene and queues every configured texture.
// IMPORTANT: Must be called AFTER the GL context is current!
func New(gl gpu.Context, compiler shader.Compiler, engine *config.Config, cfg Config) (*Scene, error) {
	if cfg.TilesPerTexture <= 0 {
		cfg.TilesPerTexture = DefaultTilesPerTexture
	}

	s := &Scene{
		gl:       gl,
		quota:    engine.Assets.LoadQuota,
		log:      logger.Named("scene"),
		manager:  assets.NewManager(),
		dispatch: assets.NewDispatcher(),
	}

	sources := cfg.Sources
	if sources == nil {
		var err error
		if sources, err = Sources(engine.Assets); err != nil {
			return nil, err
		}
	}
	for _, src := range sources {
		s.manager.AddSource(src)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.textures = texture.NewLoader(ctx, gl, s.manager, s.dispatch)

	layers := make([]renderer.TextureSource, 0, len(engine.Assets.Textures))
	for _, name := range engine.Assets.Textures {
		layers = append(layers, s.textures.Load(name))
	}
	if len(layers) == 0 {
		// Nothing configured: one untextured layer.
		layers = append(layers, nil)
	}

	s.camera = Camera(engine.Camera)
	s.rc = render.NewContext(s.camera, cfg.Width, cfg.Height)
	s.rc.Fog = Fog(engine.Fog)

	var err error
	s.renderer, err = renderer.New(gl, compiler, renderer.Config{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Shaders:       cfg.Shaders,
		QuadsPerLayer: cfg.TilesPerTexture,
		DumpCommands:  engine.Graphics.DumpCommands,
	}, layers)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	s.log.Info("scene created",
		zap.Int("textures", len(engine.Assets.Textures)),
		zap.Int("loadQuota", s.quota),
	)
	return s, nil
}

// Sources builds the asset sources for cfg. Directories are added first so
// the HTTP source, when configured, wins.
func Sources(cfg config.AssetsConfig) ([]assets.Source, error) {
	out := make([]assets.Source, 0, len(cfg.Dirs)+1)
	for _, dir := range cfg.Dirs {
		out = append(out, assets.NewDirSource(dir))
	}
	if cfg.BaseURL != "" {
		src, err := assets.NewHTTPSource(cfg.BaseURL, cfg.Timeout())
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

// Camera creates the orbit camera from cfg.
func Camera(cfg config.CameraConfig) *camera.OrbitCamera {
	cam := camera.NewOrbitCamera()
	if cfg.FovY > 0 {
		cam.FovY = cfg.FovY
	}
	if cfg.Near > 0 {
		cam.Near = cfg.Near
	}
	if cfg.Far > cam.Near {
		cam.Far = cfg.Far
	}
	if cfg.Distance > 0 {
		cam.Distance = mgl32.Clamp(cfg.Distance, cam.MinDistance, cam.MaxDistance)
	}
	return cam
}

// Fog converts the fog settings.
func Fog(cfg config.FogConfig) render.Fog {
	return render.Fog{
		Enabled: cfg.Enabled,
		Start:   cfg.Start,
		End:     cfg.End,
		Density: cfg.Density,
		Color:   mgl32.Vec3(cfg.Color),
	}
}

// Step advances texture streaming and draws one frame.
func (s *Scene) Step() {
	s.textures.Update(s.quota)
	s.dispatch.Poll()
	s.rc.Tick()
	s.renderer.Frame(s.rc)
}

// Resize updates the viewport. The offscreen target follows on the next
// frame.
func (s *Scene) Resize(width, height int32) {
	s.gl.Viewport(0, 0, width, height)
	s.rc.SetViewport(width, height)
}

// Camera returns the scene camera.
func (s *Scene) Camera() *camera.OrbitCamera {
	return s.camera
}

// Context returns the render context.
func (s *Scene) Context() *render.Context {
	return s.rc
}

// Renderer returns the scene renderer.
func (s *Scene) Renderer() *renderer.Renderer {
	return s.renderer
}

// Textures returns the texture streamer.
func (s *Scene) Textures() *texture.Loader {
	return s.textures
}

// Dispatcher returns the queue fetch results are delivered through.
func (s *Scene) Dispatcher() *assets.Dispatcher {
	return s.dispatch
}

// Close cancels outstanding fetches and releases GPU resources.
func (s *Scene) Close() {
	s.log.Info("closing scene")

	if s.cancel != nil {
		s.cancel()
	}
	if s.renderer != nil {
		s.renderer.Close()
	}
	if s.textures != nil {
		s.textures.Dispose()
	}
	s.manager.Close()
}
