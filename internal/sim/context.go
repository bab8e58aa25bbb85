package sim

import (
	"math"

	"physics-playground/internal/config"
	"physics-playground/internal/logger"
	"physics-playground/internal/physics"
	"physics-playground/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	testSphereRadius = 0.5
	testSphereHeight = 3
)

var floorColor = rl.NewColor(0x77, 0x77, 0x77, 255)

// Context bundles everything a frame touches. The factory and the loop operate on it;
// there is no package-level state.
type Context struct {
	World    *physics.World
	Scene    *scene.Scene
	Camera   *scene.Camera
	Controls *scene.OrbitControls
	Registry *Registry
	Clock    Clock
	Log      *logger.Logger

	// Material is shared by every spawned body and the floor. Created once, never changed.
	Material *physics.Material

	Sounds         SoundPlayer
	SoundThreshold float32

	FixedStep   float32
	MaxSubSteps int

	Floor      *physics.Body
	TestSphere *PairedObject

	emitters map[*physics.Body]struct{}
}

// NewContext builds the world, the scene, the camera and the initial objects from cfg.
// A missing environment map is logged and the scene renders without it.
func NewContext(cfg *config.Config, log *logger.Logger) *Context {
	if log == nil {
		log = logger.New("")
	}
	pc := cfg.Physics
	world := physics.NewWorld()
	world.SetGravity(rl.NewVector3(pc.Gravity[0], pc.Gravity[1], pc.Gravity[2]))
	world.SolverIterations = pc.SolverIterations
	world.AllowSleep = pc.AllowSleep
	if pc.Broadphase == "sap" {
		world.SetBroadphase(&physics.SAPBroadphase{Axis: 0})
	}
	mat := physics.NewMaterial("default")
	cm := physics.NewContactMaterial(mat, mat, pc.Friction, pc.Restitution)
	world.AddContactMaterial(cm)
	world.DefaultContactMaterial = cm

	sc := scene.New()
	sc.GridVisible = cfg.Window.GridVisible
	sc.Ambient = scene.AmbientLight{Color: rl.White, Intensity: cfg.Scene.AmbientIntensity}
	sp := cfg.Scene.SunPosition
	sc.Sun = scene.DirectionalLight{
		Color:     rl.White,
		Intensity: cfg.Scene.SunIntensity,
		Position:  rl.NewVector3(sp[0], sp[1], sp[2]),
	}
	if len(cfg.Scene.EnvironmentMap) > 0 {
		if err := sc.SetEnvironmentMap(cfg.Scene.EnvironmentMap); err != nil {
			log.Warn("environment map unavailable, rendering without it: %v", err)
		}
	}

	aspect := float32(1)
	if cfg.Window.Height > 0 {
		aspect = float32(cfg.Window.Width) / float32(cfg.Window.Height)
	}
	cam := scene.NewCamera(cfg.Camera.Fov, aspect, cfg.Camera.Near, cfg.Camera.Far)
	cp := cfg.Camera.Position
	cam.Position = rl.NewVector3(cp[0], cp[1], cp[2])
	cam.LookAt(rl.Vector3{})
	controls := scene.NewOrbitControls(cam)
	controls.EnableDamping = cfg.Camera.Damping

	c := &Context{
		World:          world,
		Scene:          sc,
		Camera:         cam,
		Controls:       controls,
		Registry:       &Registry{},
		Log:            log,
		Material:       mat,
		SoundThreshold: cfg.Sound.Threshold,
		FixedStep:      cfg.Physics.FixedStep,
		MaxSubSteps:    cfg.Physics.MaxSubSteps,
		emitters:       make(map[*physics.Body]struct{}),
	}
	c.addFloor(cfg.Scene.FloorSize)
	if cfg.Spawn.TestSphere {
		c.addTestSphere()
	}
	return c
}

// addFloor adds the static plane body (normal +Y) and its visual quad.
func (c *Context) addFloor(size float32) {
	body := physics.NewBody(0, &physics.Plane{}, rl.Vector3{})
	body.Material = c.Material
	body.SetRotation(rl.NewVector3(-1, 0, 0), math.Pi*0.5)
	c.World.AddBody(body)
	c.Floor = body

	node := scene.NewNode("floor", scene.PrimitivePlane)
	node.Scale = rl.NewVector3(size, 1, size)
	node.Surface.Color = floorColor
	c.Scene.Add(node)
}

// addTestSphere adds the sphere that drops onto the floor at startup. It does not emit sounds.
func (c *Context) addTestSphere() {
	body := physics.NewBody(1, &physics.Sphere{Radius: testSphereRadius}, rl.NewVector3(0, testSphereHeight, 0))
	body.Material = c.Material
	c.World.AddBody(body)

	node := scene.NewNode("test sphere", scene.PrimitiveSphere)
	node.Scale = rl.NewVector3(testSphereRadius, testSphereRadius, testSphereRadius)
	node.Position = body.Position
	c.Scene.Add(node)

	c.TestSphere = &PairedObject{Node: node, Body: body, Kind: KindSphere}
	c.Registry.Add(c.TestSphere)
}

// MarkSoundEmitter makes contacts involving b eligible for collision sounds.
func (c *Context) MarkSoundEmitter(b *physics.Body) {
	c.emitters[b] = struct{}{}
}

// IsSoundEmitter reports whether b was marked with MarkSoundEmitter.
func (c *Context) IsSoundEmitter(b *physics.Body) bool {
	_, ok := c.emitters[b]
	return ok
}
