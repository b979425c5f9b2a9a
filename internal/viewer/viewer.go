// Package viewer wires the window, renderer, scene, and animation
// playback into the main application loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/skelview/internal/config"
	"github.com/Faultbox/skelview/internal/engine/camera"
	"github.com/Faultbox/skelview/internal/engine/input"
	"github.com/Faultbox/skelview/internal/engine/renderer"
	"github.com/Faultbox/skelview/internal/engine/scene"
	"github.com/Faultbox/skelview/internal/engine/window"
	"github.com/Faultbox/skelview/internal/logger"
)

// Viewer is the application instance.
type Viewer struct {
	config   *config.Config
	running  bool
	paused   bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	scene    *scene.Scene
	camera   *camera.OrbitCamera

	content *content
}

// New creates the window, GL state, and scene, then loads the
// configured model.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	v := &Viewer{config: cfg}

	var err error
	v.window, err = window.New(window.Config{
		Title:      "skelview",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window created.
	v.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.scene, err = scene.New(scene.Config{
		ShadowResolution: cfg.Shadow.Resolution,
		ShadowsEnabled:   cfg.Shadow.Enabled,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	v.input = input.New()
	v.camera = camera.NewOrbitCamera()

	v.content, err = loadContent(cfg, v.scene)
	if err != nil {
		v.scene.Destroy()
		v.window.Close()
		return nil, err
	}
	v.camera.FitToBounds(v.scene.Bounds.Min, v.scene.Bounds.Max)

	logger.Log.Info("viewer initialized")
	return v, nil
}

// Run drives the main loop until quit.
func (v *Viewer) Run() error {
	v.running = true
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			break
		}
		v.handleEvents()

		v.update(dt)
		v.render()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handleEvents routes input to the camera and playback controls.
func (v *Viewer) handleEvents() {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			v.renderer.Resize(e.Width, e.Height)

		case input.EventKeyDown:
			v.handleKey(e.Key)

		case input.EventMouseMove:
			if v.input.LeftMouseDown() {
				v.camera.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
			}

		case input.EventMouseWheel:
			v.camera.HandleZoom(float32(e.Scroll))
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false

	case sdl.SCANCODE_SPACE:
		v.paused = !v.paused

	case sdl.SCANCODE_TAB:
		v.content.cycleAnimation()

	case sdl.SCANCODE_H:
		v.scene.SetShadowsEnabled(!v.scene.ShadowsEnabled())
		logger.Log.Info("shadows toggled", zap.Bool("enabled", v.scene.ShadowsEnabled()))

	default:
		// Number keys select clips directly.
		if key >= sdl.SCANCODE_1 && key <= sdl.SCANCODE_9 {
			v.content.selectAnimationIndex(int(key - sdl.SCANCODE_1))
		}
	}
}

// update advances animation playback.
func (v *Viewer) update(dt float32) {
	if v.paused {
		return
	}
	v.content.advance(dt * v.config.Scene.PlaybackSpeed)
}

// render draws both passes for the frame.
func (v *Viewer) render() {
	v.renderer.Begin()

	view := v.camera.ViewMatrix()
	proj := v.camera.ProjectionMatrix(v.window.AspectRatio())
	v.scene.Render(view, proj)
}

// Close releases all resources.
func (v *Viewer) Close() {
	logger.Log.Info("closing viewer")

	if v.content != nil {
		v.content.destroy()
	}
	if v.scene != nil {
		v.scene.Destroy()
	}
	if v.window != nil {
		v.window.Close()
	}
}
