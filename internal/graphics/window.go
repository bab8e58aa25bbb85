// Package graphics owns the raylib window: it paces frames, feeds input to the camera
// controls and the terminal, and draws the scene with the overlays on top.
package graphics

import (
	"context"
	"math"

	"physics-playground/internal/config"
	"physics-playground/internal/debug"
	"physics-playground/internal/fonts"
	"physics-playground/internal/logger"
	"physics-playground/internal/primitives"
	"physics-playground/internal/scene"
	"physics-playground/internal/sim"
	"physics-playground/internal/terminal"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	overlayFontSize = 32
	// zoomStep is the distance factor per mouse wheel notch.
	zoomStep = 0.95
)

// Window is the live frame source and renderer. ESC toggles the terminal, which pauses the
// camera controls while open; the window closes via its close button or the "quit" line.
type Window struct {
	Viewport *Viewport
	Controls *scene.OrbitControls
	Terminal *terminal.Terminal
	Debug    *debug.Debug

	// Stats, if set, feeds the debug stats overlay every frame.
	Stats func() debug.Stats

	scene     *scene.Scene
	prims     *primitives.Registry
	font      rl.Font
	log       *logger.Logger
	quit      bool
	pacer     framePacer
	frameTime float64
	target    rl.RenderTexture2D
}

// framePacer remembers whether the last frame handed out by Next was drawn.
type framePacer struct {
	started bool
	drawn   bool
}

// next starts a frame and reports whether the previous one was skipped.
func (p *framePacer) next() (missed bool) {
	missed = p.started && !p.drawn
	p.started, p.drawn = true, false
	return missed
}

func (p *framePacer) markDrawn() {
	p.drawn = true
}

// Open creates the window. Call from the main goroutine; raylib is not thread safe.
func Open(cfg config.WindowConfig, c *sim.Context, term *terminal.Terminal) *Window {
	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagWindowHighdpi)
	w, h := cfg.Width, cfg.Height
	if cfg.Fullscreen {
		flags |= rl.FlagFullscreenMode
	}
	rl.SetConfigFlags(flags)
	if cfg.Fullscreen {
		rl.InitWindow(0, 0, cfg.Title)
		w, h = rl.GetMonitorWidth(rl.GetCurrentMonitor()), rl.GetMonitorHeight(rl.GetCurrentMonitor())
	} else {
		rl.InitWindow(int32(w), int32(h), cfg.Title)
	}
	rl.SetExitKey(rl.KeyNull) // ESC is used to toggle terminal, not to quit
	rl.SetTargetFPS(int32(cfg.TargetFPS))

	dbg := debug.New()
	dbg.SetShowFPS(cfg.ShowFPS)
	dbg.SetShowMemAlloc(cfg.ShowMemAlloc)
	dbg.SetShowStats(cfg.ShowFPS)

	win := &Window{
		Viewport: NewViewport(c.Camera, w, h, rl.GetWindowScaleDPI().X),
		Controls: c.Controls,
		Terminal: term,
		Debug:    dbg,
		scene:     c.Scene,
		prims:     primitives.NewRegistry(),
		log:       c.Log,
		frameTime: 1.0 / float64(max(cfg.TargetFPS, 1)),
	}
	if term != nil {
		term.OnQuit = win.Close
	}
	if cfg.Font != "" {
		win.loadFont(cfg.Font)
	}
	return win
}

// loadFont finds the overlay font under assets/fonts. On failure the raylib default font is kept.
func (w *Window) loadFont(name string) {
	path, err := fonts.Find(name)
	if err != nil {
		w.log.Warn("font %q not found, using default font", name)
		return
	}
	f := rl.LoadFontEx(path, overlayFontSize, nil, 0)
	if f.Texture.ID == 0 {
		w.log.Warn("font %q failed to load, using default font", path)
		return
	}
	rl.SetTextureFilter(f.Texture, rl.FilterBilinear)
	w.font = f
	w.Debug.SetFont(f)
	if w.Terminal != nil {
		w.Terminal.SetFont(f)
	}
}

// Close makes the next Next call end the loop.
func (w *Window) Close() {
	w.quit = true
}

// Next polls input and window events and returns the time since the window opened.
// It returns sim.ErrNoMoreFrames once the window should close. When the previous frame was not
// drawn, events are polled here instead of by EndDrawing and the last drawn frame stays up.
func (w *Window) Next(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if w.pacer.next() {
		rl.PollInputEvents()
		rl.WaitTime(w.frameTime)
	}
	if w.quit || rl.WindowShouldClose() {
		return 0, sim.ErrNoMoreFrames
	}
	if rl.IsWindowResized() {
		w.Viewport.Resize(rl.GetScreenWidth(), rl.GetScreenHeight(), rl.GetWindowScaleDPI().X)
	}
	if w.Terminal != nil {
		w.Terminal.Update()
	}
	if w.Terminal == nil || !w.Terminal.IsOpen() {
		w.orbitInput()
	}
	return rl.GetTime(), nil
}

// orbitInput turns left-drag into orbit and the wheel into zoom.
func (w *Window) orbitInput() {
	if w.Controls == nil {
		return
	}
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		d := rl.GetMouseDelta()
		h := float32(max(w.Viewport.Height, 1))
		w.Controls.Rotate(-2*math.Pi*d.X/h, -2*math.Pi*d.Y/h)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		w.Controls.Zoom(float32(math.Pow(zoomStep, float64(wheel))))
	}
}

// sceneTarget returns the offscreen target sized to the capped framebuffer, recreating it
// after a resize.
func (w *Window) sceneTarget() rl.RenderTexture2D {
	fw, fh := int32(w.Viewport.FramebufferWidth), int32(w.Viewport.FramebufferHeight)
	if w.target.ID != 0 && w.target.Texture.Width == fw && w.target.Texture.Height == fh {
		return w.target
	}
	if w.target.ID != 0 {
		rl.UnloadRenderTexture(w.target)
	}
	w.target = rl.LoadRenderTexture(fw, fh)
	rl.SetTextureFilter(w.target.Texture, rl.FilterBilinear)
	return w.target
}

// Render draws one frame: backdrop and nodes into the framebuffer target, scaled to the
// window, then the terminal and debug overlays.
func (w *Window) Render(s *scene.Scene, cam *scene.Camera) {
	if w.Stats != nil {
		w.Debug.SetStats(w.Stats())
	}
	target := w.sceneTarget()
	rl.BeginTextureMode(target)
	rl.ClearBackground(s.Background)
	rl.BeginMode3D(cam.Camera3D())
	rl.SetMatrixProjection(cam.Projection())
	s.DrawBackdrop()
	w.prims.SetScene(s, cam)
	w.prims.DrawAll(s)
	rl.EndMode3D()
	rl.EndTextureMode()

	rl.BeginDrawing()
	rl.ClearBackground(s.Background)
	fw, fh := float32(target.Texture.Width), float32(target.Texture.Height)
	rl.DrawTexturePro(target.Texture,
		rl.NewRectangle(0, 0, fw, -fh), // render textures are stored upside down
		rl.NewRectangle(0, 0, float32(w.Viewport.Width), float32(w.Viewport.Height)),
		rl.Vector2{}, 0, rl.White)

	if w.Terminal != nil {
		w.Terminal.Draw()
	}
	w.Debug.Draw()
	rl.EndDrawing()
	w.pacer.markDrawn()
}

// Shutdown frees GPU resources and closes the window.
func (w *Window) Shutdown() {
	w.prims.Unload()
	w.scene.Unload()
	if w.target.ID != 0 {
		rl.UnloadRenderTexture(w.target)
	}
	if w.font.Texture.ID != 0 {
		rl.UnloadFont(w.font)
	}
	rl.CloseWindow()
}
