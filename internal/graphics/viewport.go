package graphics

import (
	"math"

	"physics-playground/internal/scene"
)

// maxPixelRatio caps the framebuffer density on high-DPI screens.
const maxPixelRatio = 2

// Viewport tracks the window size and keeps the camera aspect and framebuffer size in step.
type Viewport struct {
	Camera *scene.Camera

	Width      int
	Height     int
	PixelRatio float32

	FramebufferWidth  int
	FramebufferHeight int
}

// NewViewport returns a viewport sized w x h at the given device pixel ratio.
func NewViewport(cam *scene.Camera, w, h int, dpr float32) *Viewport {
	v := &Viewport{Camera: cam}
	v.Resize(w, h, dpr)
	return v
}

// Resize applies a new window size. It reports whether anything changed; repeating the same
// size is a no-op. Sizes with a zero or negative side are ignored (minimized windows).
func (v *Viewport) Resize(w, h int, dpr float32) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	ratio := min(dpr, maxPixelRatio)
	if !(ratio > 0) {
		ratio = 1
	}
	if w == v.Width && h == v.Height && ratio == v.PixelRatio {
		return false
	}
	v.Width, v.Height, v.PixelRatio = w, h, ratio
	v.FramebufferWidth = int(math.Round(float64(float32(w) * ratio)))
	v.FramebufferHeight = int(math.Round(float64(float32(h) * ratio)))
	if v.Camera != nil {
		v.Camera.Aspect = float32(w) / float32(h)
	}
	return true
}

// Aspect returns width / height.
func (v *Viewport) Aspect() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}
