package sim

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// MaxStepFailures is the number of consecutive failed physics steps after which the loop aborts.
const MaxStepFailures = 30

// Loop drives the simulation one frame at a time: clock, physics step, pose copy,
// collision sounds, controls, render.
type Loop struct {
	ctx      *Context
	frames   FrameSource
	renderer Renderer

	before []func()
	after  []func(frame int)

	frame        int
	stepFailures int
	stopped      atomic.Bool
}

// NewLoop returns a loop over c. A nil renderer discards frames.
func NewLoop(c *Context, frames FrameSource, r Renderer) *Loop {
	if r == nil {
		r = NopRenderer{}
	}
	return &Loop{ctx: c, frames: frames, renderer: r}
}

// BeforeTick registers fn to run at the start of every tick, before the clock advances.
// Queued panel actions are drained here.
func (l *Loop) BeforeTick(fn func()) {
	l.before = append(l.before, fn)
}

// AfterTick registers fn to run after a frame was rendered.
func (l *Loop) AfterTick(fn func(frame int)) {
	l.after = append(l.after, fn)
}

// Frame returns the number of ticks run so far.
func (l *Loop) Frame() int { return l.frame }

// Stop makes Run return before the next tick. Safe to call from any goroutine.
func (l *Loop) Stop() {
	l.stopped.Store(true)
}

// Run ticks until the frame source runs out, Stop is called or ctx is done.
// It returns nil on a normal end, ctx.Err() on cancellation and *FatalFrameError on abort.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if l.stopped.Load() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		elapsed, err := l.frames.Next(ctx)
		if errors.Is(err, ErrNoMoreFrames) {
			return nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return &FatalFrameError{Frame: l.frame, Err: err}
		}
		if err := l.Tick(elapsed); err != nil {
			return err
		}
	}
}

// Tick runs one frame for the given host time. A failed physics step is logged and the frame
// is not rendered, until MaxStepFailures fail in a row. That, and anything else unexpected,
// returns *FatalFrameError.
func (l *Loop) Tick(elapsed float64) error {
	c := l.ctx
	l.frame++
	for _, fn := range l.before {
		fn()
	}

	delta, err := c.Clock.Advance(elapsed)
	if err != nil {
		return &FatalFrameError{Frame: l.frame, Err: err}
	}

	if err := l.step(float32(delta)); err != nil {
		l.stepFailures++
		if l.stepFailures >= MaxStepFailures {
			return &FatalFrameError{Frame: l.frame, Err: fmt.Errorf("%d physics steps failed in a row: %w", l.stepFailures, err)}
		}
		c.Log.Error("frame %d: physics step failed, skipping render: %v", l.frame, err)
		return nil
	}
	l.stepFailures = 0

	if err := l.syncPoses(); err != nil {
		return &FatalFrameError{Frame: l.frame, Err: err}
	}
	c.dispatchSounds()
	if c.Controls != nil {
		c.Controls.Update()
	}
	l.renderer.Render(c.Scene, c.Camera)

	for _, fn := range l.after {
		fn(l.frame)
	}
	return nil
}

// step advances the world and turns a panic inside it into an error.
func (l *Loop) step(delta float32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("physics panic: %v", r)
		}
	}()
	c := l.ctx
	return c.World.Step(c.FixedStep, delta, c.MaxSubSteps)
}

// syncPoses copies every body's position and orientation onto its node.
func (l *Loop) syncPoses() error {
	for i, o := range l.ctx.Registry.All() {
		if o == nil || o.Node == nil || o.Body == nil {
			return fmt.Errorf("registry entry %d is missing its node or body", i)
		}
		o.Node.Position = o.Body.Position
		o.Node.Rotation = o.Body.Quaternion
	}
	return nil
}
