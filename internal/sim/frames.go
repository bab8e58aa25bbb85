package sim

import (
	"context"

	"physics-playground/internal/scene"
)

// FrameSource blocks until the next frame and returns the host's elapsed time in seconds.
// ErrNoMoreFrames ends the loop normally.
type FrameSource interface {
	Next(ctx context.Context) (elapsed float64, err error)
}

// Renderer draws the scene from the camera.
type Renderer interface {
	Render(s *scene.Scene, cam *scene.Camera)
}

// FixedFrames is a headless frame source: Count frames, each Delta seconds after the previous.
type FixedFrames struct {
	Delta float64
	Count int

	elapsed float64
	served  int
}

func (f *FixedFrames) Next(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if f.served >= f.Count {
		return 0, ErrNoMoreFrames
	}
	f.served++
	f.elapsed += f.Delta
	return f.elapsed, nil
}

// NopRenderer discards frames; used by headless runs.
type NopRenderer struct{}

func (NopRenderer) Render(*scene.Scene, *scene.Camera) {}
