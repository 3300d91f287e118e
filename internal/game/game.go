// Package game implements the desktop main loop.
package game

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/webgame/internal/config"
	"github.com/Faultbox/webgame/internal/engine/gpu/glctx"
	"github.com/Faultbox/webgame/internal/engine/input"
	"github.com/Faultbox/webgame/internal/engine/renderer"
	"github.com/Faultbox/webgame/internal/engine/scene"
	"github.com/Faultbox/webgame/internal/engine/window"
	"github.com/Faultbox/webgame/internal/logger"
)

// Title is the window title.
const Title = "webgame"

// Game is the main game instance.
type Game struct {
	config  *config.Config
	running bool
	window  *window.Window
	gl      *glctx.Context
	scene   *scene.Scene
	input   *input.Input
	control *input.OrbitControl
}

// New creates a new game instance.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	g := &Game{config: cfg}

	// Create window (this also creates OpenGL context)
	var err error
	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	g.gl, err = glctx.New()
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	w, h := g.window.DrawableSize()
	g.scene, err = scene.New(g.gl, g.gl, cfg, scene.Config{
		Width:   w,
		Height:  h,
		Shaders: renderer.DesktopShaders,
	})
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	g.scene.Resize(w, h)

	g.input = input.New()
	g.control = input.NewOrbitControl(g.scene.Camera())

	logger.Info("game initialized successfully")
	return g, nil
}

// Run starts the main game loop.
func (g *Game) Run() error {
	g.running = true

	var frameBudget time.Duration
	if g.config.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(g.config.Graphics.FPSLimit)
	}

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting game loop")

	for g.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()
		g.control.Apply(g.input.Events())
		g.control.Move(g.input.IsKeyHeld, float32(dt))

		// 2. Stream textures and render
		g.scene.Step()

		// 3. Present
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("drawCalls", g.scene.Renderer().DrawCalls()),
				zap.Int("texturesQueued", g.scene.Textures().QueueCount()),
				zap.Int("texturesLoaded", g.scene.Textures().CompletedCount()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if spent := time.Since(now); spent < frameBudget {
				time.Sleep(frameBudget - spent)
			}
		}
	}

	return nil
}

func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			// Window events carry logical size; the drawable may be larger.
			w, h := g.window.DrawableSize()
			g.scene.Resize(w, h)
		case input.EventKeyDown:
			if event.Key == sdl.SCANCODE_ESCAPE {
				g.running = false
			}
		}
	}
}

// Close cleans up game resources.
func (g *Game) Close() {
	logger.Info("closing game")

	if g.scene != nil {
		g.scene.Close()
	}
	if g.gl != nil {
		g.gl.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
