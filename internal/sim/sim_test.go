package sim

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"physics-playground/internal/config"
	"physics-playground/internal/logger"
	"physics-playground/internal/physics"
	"physics-playground/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const frameDelta = 1.0 / 60.0

type fakeRenderer struct {
	frames int
}

func (r *fakeRenderer) Render(*scene.Scene, *scene.Camera) { r.frames++ }

type fakeSound struct {
	played []float32
}

func (s *fakeSound) Play(speed float32) { s.played = append(s.played, speed) }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Scene.EnvironmentMap = nil
	cfg.Spawn.TestSphere = false
	return cfg
}

func newTestContext(t *testing.T, cfg *config.Config) *Context {
	t.Helper()
	return NewContext(cfg, logger.New(""))
}

func TestNewContextBuildsScene(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.EnvironmentMap = nil
	c := newTestContext(t, cfg)

	if c.Floor == nil || !c.Floor.IsStatic() {
		t.Fatal("floor should be a static body")
	}
	n := c.Floor.Shape.(*physics.Plane).Normal(c.Floor.Quaternion)
	if math.Abs(float64(n.Y-1)) > 1e-5 {
		t.Errorf("floor normal = %v, want +Y", n)
	}
	if c.TestSphere == nil || c.TestSphere.Body.Position.Y != 3 {
		t.Fatalf("test sphere missing or misplaced: %+v", c.TestSphere)
	}
	if c.IsSoundEmitter(c.TestSphere.Body) {
		t.Error("test sphere should not emit sounds")
	}
	if c.Registry.Len() != 1 || len(c.World.Bodies) != 2 || len(c.Scene.Nodes) != 2 {
		t.Errorf("registry=%d bodies=%d nodes=%d", c.Registry.Len(), len(c.World.Bodies), len(c.Scene.Nodes))
	}
	if c.Camera.Position != rl.NewVector3(-3, 3, 3) || c.Camera.Fov != 75 {
		t.Errorf("camera = %+v", c.Camera)
	}
	if c.World.DefaultContactMaterial.Friction != 0.1 || c.World.DefaultContactMaterial.Restitution != 0.7 {
		t.Errorf("contact material = %+v", c.World.DefaultContactMaterial)
	}
}

func TestNewContextWarnsOnMissingEnvironmentMap(t *testing.T) {
	cfg := testConfig()
	cfg.Scene.EnvironmentMap = []string{"a.png", "b.png", "c.png", "d.png", "e.png", "f.png"}
	log := logger.New("")
	c := NewContext(cfg, log)
	if c.Scene.HasEnvironmentMap() {
		t.Error("scene should have no environment map")
	}
	lines := strings.Join(log.Lines(), "\n")
	if !strings.Contains(lines, "WARN environment map unavailable") {
		t.Errorf("expected warning, got %q", lines)
	}
}

func TestSpawnSphere(t *testing.T) {
	c := newTestContext(t, testConfig())
	obj, err := c.SpawnSphere(0.3, rl.NewVector3(1, 3, 1))
	if err != nil {
		t.Fatalf("SpawnSphere: %v", err)
	}
	if c.Registry.Len() != 1 || c.Registry.At(0) != obj {
		t.Fatalf("registry len = %d", c.Registry.Len())
	}
	if obj.Node.Scale != rl.NewVector3(0.3, 0.3, 0.3) {
		t.Errorf("scale = %v", obj.Node.Scale)
	}
	if obj.Node.Primitive != scene.PrimitiveSphere || obj.Kind != KindSphere {
		t.Errorf("kind = %v / %v", obj.Node.Primitive, obj.Kind)
	}
	if r := obj.Body.Shape.(*physics.Sphere).Radius; r != 0.3 {
		t.Errorf("body radius = %v", r)
	}
	if obj.Body.Mass != 1 || obj.Body.Material != c.Material {
		t.Errorf("body mass %v material %v", obj.Body.Mass, obj.Body.Material)
	}
	if obj.Body.Position != rl.NewVector3(1, 3, 1) || obj.Node.Position != obj.Body.Position {
		t.Errorf("positions body=%v node=%v", obj.Body.Position, obj.Node.Position)
	}
	if !c.IsSoundEmitter(obj.Body) {
		t.Error("spawned body should emit sounds")
	}
	if !obj.Node.Visible {
		t.Error("spawned node should be visible")
	}
}

func TestSpawnBox(t *testing.T) {
	c := newTestContext(t, testConfig())
	obj, err := c.SpawnBox(0.2, 0.4, 0.6, rl.NewVector3(0, 3, 0))
	if err != nil {
		t.Fatalf("SpawnBox: %v", err)
	}
	if obj.Node.Scale != rl.NewVector3(0.2, 0.4, 0.6) {
		t.Errorf("scale = %v", obj.Node.Scale)
	}
	if h := obj.Body.Shape.(*physics.Box).HalfExtents; h != rl.NewVector3(0.1, 0.2, 0.3) {
		t.Errorf("half extents = %v", h)
	}
	if obj.Node.Primitive != scene.PrimitiveCube || obj.Kind != KindBox {
		t.Errorf("kind = %v / %v", obj.Node.Primitive, obj.Kind)
	}
}

func TestSpawnRejectsInvalidParameters(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	origin := rl.NewVector3(0, 3, 0)
	tests := []struct {
		name  string
		spawn func(c *Context) error
	}{
		{"zero radius", func(c *Context) error { _, err := c.SpawnSphere(0, origin); return err }},
		{"negative radius", func(c *Context) error { _, err := c.SpawnSphere(-1, origin); return err }},
		{"nan radius", func(c *Context) error { _, err := c.SpawnSphere(nan, origin); return err }},
		{"inf radius", func(c *Context) error { _, err := c.SpawnSphere(inf, origin); return err }},
		{"nan position", func(c *Context) error { _, err := c.SpawnSphere(0.3, rl.NewVector3(nan, 0, 0)); return err }},
		{"zero depth", func(c *Context) error { _, err := c.SpawnBox(1, 1, 0, origin); return err }},
		{"negative width", func(c *Context) error { _, err := c.SpawnBox(-0.1, 1, 1, origin); return err }},
		{"inf box position", func(c *Context) error { _, err := c.SpawnBox(1, 1, 1, rl.NewVector3(0, inf, 0)); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t, testConfig())
			bodies, nodes := len(c.World.Bodies), len(c.Scene.Nodes)
			err := tt.spawn(c)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("err = %v, want ErrInvalidParameter", err)
			}
			if c.Registry.Len() != 0 || len(c.World.Bodies) != bodies || len(c.Scene.Nodes) != nodes {
				t.Error("rejected spawn mutated state")
			}
		})
	}
}

func TestHundredBoxesKeepOrder(t *testing.T) {
	c := newTestContext(t, testConfig())
	var spawned []*PairedObject
	for i := 0; i < 100; i++ {
		obj, err := c.SpawnBox(0.3, 0.3, 0.3, rl.NewVector3(float32(i), 3, 0))
		if err != nil {
			t.Fatalf("SpawnBox %d: %v", i, err)
		}
		spawned = append(spawned, obj)
	}
	if c.Registry.Len() != 100 {
		t.Fatalf("registry len = %d, want 100", c.Registry.Len())
	}
	seen := make(map[*PairedObject]bool)
	for i, o := range c.Registry.All() {
		if o != spawned[i] {
			t.Fatalf("entry %d out of order", i)
		}
		if seen[o] {
			t.Fatalf("entry %d duplicated", i)
		}
		seen[o] = true
	}
}

func TestZeroDeltaTickKeepsPose(t *testing.T) {
	c := newTestContext(t, testConfig())
	obj, err := c.SpawnSphere(0.3, rl.NewVector3(1, 3, 1))
	if err != nil {
		t.Fatal(err)
	}
	loop := NewLoop(c, nil, nil)
	if err := loop.Tick(0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if obj.Node.Position != rl.NewVector3(1, 3, 1) {
		t.Errorf("node moved to %v", obj.Node.Position)
	}
	if obj.Node.Rotation != rl.QuaternionIdentity() {
		t.Errorf("node rotated to %v", obj.Node.Rotation)
	}
}

func TestTickCopiesPosesExactly(t *testing.T) {
	c := newTestContext(t, testConfig())
	for i := 0; i < 5; i++ {
		if _, err := c.SpawnBox(0.3, 0.2, 0.4, rl.NewVector3(float32(i)*0.25, 1+float32(i), 0)); err != nil {
			t.Fatal(err)
		}
		if _, err := c.SpawnSphere(0.2, rl.NewVector3(0, 2+float32(i), float32(i)*0.2)); err != nil {
			t.Fatal(err)
		}
	}
	r := &fakeRenderer{}
	loop := NewLoop(c, &FixedFrames{Delta: frameDelta, Count: 90}, r)
	loop.AfterTick(func(frame int) {
		c.Registry.ForEach(func(i int, o *PairedObject) {
			if o.Node.Position != o.Body.Position || o.Node.Rotation != o.Body.Quaternion {
				t.Fatalf("frame %d entry %d: node pose differs from body", frame, i)
			}
		})
	})
	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.frames != 90 || loop.Frame() != 90 {
		t.Errorf("rendered %d frames over %d ticks, want 90", r.frames, loop.Frame())
	}
}

func TestSoundThreshold(t *testing.T) {
	tests := []struct {
		name  string
		vy    float32
		plays int
	}{
		{"fast impact", -2.5, 1},
		{"slow impact", -1.0, 0},
		{"exactly threshold", -2.0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Physics.Gravity = [3]float32{}
			c := newTestContext(t, cfg)
			snd := &fakeSound{}
			c.Sounds = snd
			obj, err := c.SpawnSphere(0.5, rl.NewVector3(0, 0.49, 0))
			if err != nil {
				t.Fatal(err)
			}
			obj.Body.Velocity = rl.NewVector3(0, tt.vy, 0)

			loop := NewLoop(c, nil, nil)
			if err := loop.Tick(frameDelta); err != nil {
				t.Fatalf("Tick: %v", err)
			}
			if len(snd.played) != tt.plays {
				t.Fatalf("played %d sounds, want %d", len(snd.played), tt.plays)
			}
			if tt.plays == 1 && math.Abs(float64(snd.played[0]+tt.vy)) > 1e-4 {
				t.Errorf("impact speed = %v, want %v", snd.played[0], -tt.vy)
			}
		})
	}
}

func TestBoxImpactPlaysOncePerPair(t *testing.T) {
	cfg := testConfig()
	cfg.Physics.Gravity = [3]float32{}
	c := newTestContext(t, cfg)
	snd := &fakeSound{}
	c.Sounds = snd
	obj, err := c.SpawnBox(1, 1, 1, rl.NewVector3(0, 0.49, 0))
	if err != nil {
		t.Fatal(err)
	}
	obj.Body.Velocity = rl.NewVector3(0, -3, 0)
	if err := NewLoop(c, nil, nil).Tick(frameDelta); err != nil {
		t.Fatal(err)
	}
	if len(c.World.Contacts()) < 2 {
		t.Fatalf("box face should touch with several corners, got %d contacts", len(c.World.Contacts()))
	}
	if len(snd.played) != 1 {
		t.Errorf("played %d sounds, want 1", len(snd.played))
	}
}

func TestTestSphereIsSilent(t *testing.T) {
	cfg := testConfig()
	cfg.Spawn.TestSphere = true
	c := newTestContext(t, cfg)
	snd := &fakeSound{}
	c.Sounds = snd
	loop := NewLoop(c, &FixedFrames{Delta: frameDelta, Count: 120}, nil)
	if err := loop.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(snd.played) != 0 {
		t.Errorf("test sphere produced %d sounds", len(snd.played))
	}
}

func TestSphereRestsOnFloor(t *testing.T) {
	cfg := testConfig()
	cfg.Spawn.TestSphere = true
	c := newTestContext(t, cfg)
	loop := NewLoop(c, &FixedFrames{Delta: frameDelta, Count: 600}, nil)
	if err := loop.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	y := c.TestSphere.Node.Position.Y
	if y < testSphereRadius-0.05 || y > testSphereRadius+0.05 {
		t.Errorf("test sphere rests at y=%v, want about %v", y, testSphereRadius)
	}
}

func TestStepErrorSkipsRender(t *testing.T) {
	log := logger.New("")
	c := NewContext(testConfig(), log)
	obj, err := c.SpawnSphere(0.3, rl.NewVector3(0, 3, 0))
	if err != nil {
		t.Fatal(err)
	}
	obj.Body.Velocity = rl.NewVector3(float32(math.NaN()), 0, 0)
	r := &fakeRenderer{}
	loop := NewLoop(c, nil, r)
	if err := loop.Tick(frameDelta); err != nil {
		t.Fatalf("step failure should not abort the loop: %v", err)
	}
	if r.frames != 0 {
		t.Error("frame with a failed step should not render")
	}
	if !strings.Contains(strings.Join(log.Lines(), "\n"), "ERROR frame 1: physics step failed") {
		t.Errorf("missing error log: %v", log.Lines())
	}
}

func TestStepRecoversAfterNonFiniteBody(t *testing.T) {
	c := newTestContext(t, testConfig())
	obj, err := c.SpawnSphere(0.3, rl.NewVector3(0, 3, 0))
	if err != nil {
		t.Fatal(err)
	}
	obj.Body.Velocity = rl.NewVector3(float32(math.NaN()), 0, 0)
	r := &fakeRenderer{}
	loop := NewLoop(c, nil, r)
	for i := 1; i <= 100; i++ {
		if err := loop.Tick(float64(i) * frameDelta); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}
	if r.frames != 99 {
		t.Errorf("rendered %d/100 frames, want 99", r.frames)
	}
	if p := obj.Node.Position; math.IsNaN(float64(p.X)) || math.IsNaN(float64(p.Y)) {
		t.Errorf("node pose = %v after recovery", p)
	}
}

// shapelessBody makes every world step panic inside the broad-phase.
func shapelessBody(c *Context) {
	b := physics.NewBody(1, &physics.Sphere{Radius: 0.1}, rl.NewVector3(0, 1, 0))
	b.Shape = nil
	c.World.AddBody(b)
}

func TestPhysicsPanicSkipsRender(t *testing.T) {
	log := logger.New("")
	c := NewContext(testConfig(), log)
	shapelessBody(c)
	r := &fakeRenderer{}
	loop := NewLoop(c, nil, r)
	if err := loop.Tick(frameDelta); err != nil {
		t.Fatalf("a panicking step should not abort the loop: %v", err)
	}
	if r.frames != 0 {
		t.Error("frame with a panicking step should not render")
	}
	if !strings.Contains(strings.Join(log.Lines(), "\n"), "physics panic") {
		t.Errorf("missing panic log: %v", log.Lines())
	}
}

func TestConsecutiveStepFailuresAreFatal(t *testing.T) {
	c := newTestContext(t, testConfig())
	shapelessBody(c)
	r := &fakeRenderer{}
	loop := NewLoop(c, &FixedFrames{Delta: frameDelta, Count: 1000}, r)
	err := loop.Run(context.Background())
	var ffe *FatalFrameError
	if !errors.As(err, &ffe) {
		t.Fatalf("err = %v, want *FatalFrameError", err)
	}
	if ffe.Frame != MaxStepFailures {
		t.Errorf("aborted at frame %d, want %d", ffe.Frame, MaxStepFailures)
	}
	if r.frames != 0 {
		t.Errorf("rendered %d frames", r.frames)
	}
}

func TestStepFailureCountResetsOnSuccess(t *testing.T) {
	c := newTestContext(t, testConfig())
	obj, err := c.SpawnSphere(0.3, rl.NewVector3(0, 3, 0))
	if err != nil {
		t.Fatal(err)
	}
	loop := NewLoop(c, nil, nil)
	ts := 0.0
	for round := 0; round < 3; round++ {
		for i := 0; i < MaxStepFailures-1; i++ {
			obj.Body.Velocity = rl.NewVector3(float32(math.Inf(1)), 0, 0)
			ts += frameDelta
			if err := loop.Tick(ts); err != nil {
				t.Fatalf("round %d tick %d: %v", round, i, err)
			}
		}
		ts += frameDelta
		if err := loop.Tick(ts); err != nil {
			t.Fatalf("round %d: good tick failed: %v", round, err)
		}
	}
}

func TestMissingHalfIsFatal(t *testing.T) {
	c := newTestContext(t, testConfig())
	c.Registry.Add(&PairedObject{Node: scene.NewNode("orphan", scene.PrimitiveSphere)})
	err := NewLoop(c, nil, nil).Tick(frameDelta)
	var ffe *FatalFrameError
	if !errors.As(err, &ffe) || ffe.Frame != 1 {
		t.Fatalf("err = %v, want *FatalFrameError for frame 1", err)
	}
}

func TestBadHostTimeIsFatal(t *testing.T) {
	tests := []struct {
		name  string
		times []float64
	}{
		{"backwards", []float64{1, 0.5}},
		{"nan", []float64{float64(math.NaN())}},
		{"inf", []float64{math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loop := NewLoop(newTestContext(t, testConfig()), nil, nil)
			var err error
			for _, ts := range tt.times {
				if err = loop.Tick(ts); err != nil {
					break
				}
			}
			var ffe *FatalFrameError
			if !errors.As(err, &ffe) {
				t.Fatalf("err = %v, want *FatalFrameError", err)
			}
		})
	}
}

type failingFrames struct{}

func (failingFrames) Next(context.Context) (float64, error) { return 0, errors.New("window lost") }

func TestRunEndings(t *testing.T) {
	t.Run("exhausted", func(t *testing.T) {
		loop := NewLoop(newTestContext(t, testConfig()), &FixedFrames{Delta: frameDelta, Count: 10}, nil)
		if err := loop.Run(context.Background()); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if loop.Frame() != 10 {
			t.Errorf("ran %d frames, want 10", loop.Frame())
		}
	})
	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		loop := NewLoop(newTestContext(t, testConfig()), &FixedFrames{Delta: frameDelta, Count: 1000}, nil)
		loop.AfterTick(func(frame int) {
			if frame == 5 {
				cancel()
			}
		})
		if err := loop.Run(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
		if loop.Frame() != 5 {
			t.Errorf("ran %d frames after cancel, want 5", loop.Frame())
		}
	})
	t.Run("stopped", func(t *testing.T) {
		loop := NewLoop(newTestContext(t, testConfig()), &FixedFrames{Delta: frameDelta, Count: 1000}, nil)
		loop.AfterTick(func(frame int) {
			if frame == 3 {
				loop.Stop()
			}
		})
		if err := loop.Run(context.Background()); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if loop.Frame() != 3 {
			t.Errorf("ran %d frames, want 3", loop.Frame())
		}
	})
	t.Run("frame source error", func(t *testing.T) {
		loop := NewLoop(newTestContext(t, testConfig()), failingFrames{}, nil)
		var ffe *FatalFrameError
		if err := loop.Run(context.Background()); !errors.As(err, &ffe) {
			t.Fatalf("err = %v, want *FatalFrameError", err)
		}
	})
}

func TestBeforeTickRunsOnFrameThread(t *testing.T) {
	c := newTestContext(t, testConfig())
	loop := NewLoop(c, &FixedFrames{Delta: frameDelta, Count: 3}, nil)
	loop.BeforeTick(func() {
		if _, err := c.SpawnSphere(0.2, rl.NewVector3(0, 3, 0)); err != nil {
			t.Fatal(err)
		}
	})
	if err := loop.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Registry.Len() != 3 {
		t.Errorf("registry len = %d, want 3", c.Registry.Len())
	}
}

func TestRegistryAllStopsEarlyAndRestarts(t *testing.T) {
	r := &Registry{}
	for i := 0; i < 5; i++ {
		r.Add(&PairedObject{Kind: KindBox})
	}
	count := 0
	for i := range r.All() {
		if i == 2 {
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("visited %d before break, want 2", count)
	}
	count = 0
	for range r.All() {
		count++
	}
	if count != 5 {
		t.Errorf("second iteration visited %d, want 5", count)
	}
}

func TestClockAdvance(t *testing.T) {
	var c Clock
	d, err := c.Advance(0.5)
	if err != nil || d != 0.5 {
		t.Fatalf("first advance = %v, %v", d, err)
	}
	d, err = c.Advance(0.75)
	if err != nil || d != 0.25 || c.Elapsed != 0.75 {
		t.Fatalf("second advance = %v, %v (elapsed %v)", d, err, c.Elapsed)
	}
	if _, err := c.Advance(0.1); err == nil {
		t.Fatal("expected error for time going backwards")
	}
	if c.Elapsed != 0.75 {
		t.Errorf("failed advance changed the clock: %v", c.Elapsed)
	}
}
