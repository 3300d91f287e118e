//go:build js && wasm

// Package main is the entry point for the browser build. The page must
// contain a canvas with id "webgame"; settings come from the URL query using
// the same keys as the WEBGAME_ environment variables, e.g.
// ?textures=grass.png,stone.png&fog=false.
package main

import (
	"fmt"
	"net/url"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/Faultbox/webgame/internal/config"
	"github.com/Faultbox/webgame/internal/engine/gpu/webgl"
	"github.com/Faultbox/webgame/internal/engine/renderer"
	"github.com/Faultbox/webgame/internal/engine/scene"
	"github.com/Faultbox/webgame/internal/logger"
)

const canvasID = "webgame"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Println("config error:", err)
		return
	}
	if err := logger.Init(cfg.Logging.Level, ""); err != nil {
		fmt.Println("logger error:", err)
		return
	}

	gl, err := webgl.New(canvasID)
	if err != nil {
		logger.Error("failed to create WebGL context", zap.Error(err))
		return
	}
	gl.AttribNames = renderer.Attributes

	canvas := js.Global().Get("document").Call("getElementById", canvasID)
	w, h := fitCanvas(canvas)

	s, err := scene.New(gl, gl, cfg, scene.Config{
		Width:   w,
		Height:  h,
		Shaders: renderer.WebShaders,
	})
	if err != nil {
		logger.Error("failed to create scene", zap.Error(err))
		return
	}
	s.Resize(w, h)
	bindControls(canvas, s)

	var frame js.Func
	frame = js.FuncOf(func(js.Value, []js.Value) any {
		if nw, nh := fitCanvas(canvas); nw != w || nh != h {
			w, h = nw, nh
			s.Resize(w, h)
		}
		s.Step()
		js.Global().Call("requestAnimationFrame", frame)
		return nil
	})
	js.Global().Call("requestAnimationFrame", frame)

	logger.Info("running in browser", zap.Int32("width", w), zap.Int32("height", h))
	select {}
}

// loadConfig starts from defaults and applies the page's query string.
// Assets are fetched relative to the page unless asset_url is given.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	cfg.Assets.Dirs = nil

	loc := js.Global().Get("location")
	query, err := url.ParseQuery(trimQuery(loc.Get("search").String()))
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(query))
	for k := range query {
		values[k] = query.Get(k)
	}
	if err := cfg.Override(values); err != nil {
		return nil, err
	}

	page, err := url.Parse(loc.Get("href").String())
	if err != nil {
		return nil, err
	}
	base := cfg.Assets.BaseURL
	if base == "" {
		base = "assets/"
	}
	ref, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	cfg.Assets.BaseURL = page.ResolveReference(ref).String()
	return cfg, nil
}

func trimQuery(s string) string {
	if len(s) > 0 && s[0] == '?' {
		return s[1:]
	}
	return s
}

// fitCanvas sizes the drawing buffer to the canvas's CSS size in device
// pixels.
func fitCanvas(canvas js.Value) (int32, int32) {
	dpr := js.Global().Get("devicePixelRatio").Float()
	if dpr <= 0 {
		dpr = 1
	}
	w := int32(canvas.Get("clientWidth").Float() * dpr)
	h := int32(canvas.Get("clientHeight").Float() * dpr)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if int32(canvas.Get("width").Int()) != w {
		canvas.Set("width", w)
	}
	if int32(canvas.Get("height").Int()) != h {
		canvas.Set("height", h)
	}
	return w, h
}

// bindControls drives the camera from the mouse: right drag rotates and the
// wheel zooms.
func bindControls(canvas js.Value, s *scene.Scene) {
	cam := s.Camera()
	canvas.Call("addEventListener", "contextmenu", js.FuncOf(func(_ js.Value, args []js.Value) any {
		args[0].Call("preventDefault")
		return nil
	}))
	canvas.Call("addEventListener", "mousemove", js.FuncOf(func(_ js.Value, args []js.Value) any {
		e := args[0]
		if e.Get("buttons").Int()&2 != 0 {
			cam.HandleDrag(float32(e.Get("movementX").Float()), float32(e.Get("movementY").Float()))
		}
		return nil
	}))
	canvas.Call("addEventListener", "wheel", js.FuncOf(func(_ js.Value, args []js.Value) any {
		e := args[0]
		e.Call("preventDefault")
		switch dy := e.Get("deltaY").Float(); {
		case dy < 0:
			cam.HandleZoom(1)
		case dy > 0:
			cam.HandleZoom(-1)
		}
		return nil
	}))
}
