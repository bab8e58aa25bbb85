package sim

import (
	"errors"
	"fmt"

	"physics-playground/internal/assets"
)

// ErrInvalidParameter reports a malformed spawn request. The request is rejected and nothing
// is added to the scene, the world or the registry.
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrNoMoreFrames is returned by a FrameSource that has run out of frames. The loop ends normally.
var ErrNoMoreFrames = errors.New("no more frames")

// ResourceLoadError reports a texture or audio file that was missing or undecodable.
type ResourceLoadError = assets.ResourceLoadError

// FatalFrameError aborts the loop. The last rendered frame stays on screen.
type FatalFrameError struct {
	Frame int
	Err   error
}

func (e *FatalFrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Err)
}

func (e *FatalFrameError) Unwrap() error { return e.Err }
