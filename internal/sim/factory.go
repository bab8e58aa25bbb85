package sim

import (
	"fmt"
	"math"

	"physics-playground/internal/physics"
	"physics-playground/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const spawnMass = 1

// SpawnSphere adds a sphere of the given radius at position to the scene, the world and the registry.
// The body is a collision-sound emitter.
func (c *Context) SpawnSphere(radius float32, position rl.Vector3) (*PairedObject, error) {
	if err := checkDimension("radius", radius); err != nil {
		return nil, err
	}
	if err := checkPosition(position); err != nil {
		return nil, err
	}
	node := scene.NewNode(fmt.Sprintf("sphere %d", c.Registry.Len()), scene.PrimitiveSphere)
	node.Scale = rl.NewVector3(radius, radius, radius)
	body := physics.NewBody(spawnMass, &physics.Sphere{Radius: radius}, position)
	return c.spawn(node, body, KindSphere), nil
}

// SpawnBox adds a box of the given width, height and depth at position. The body's half extents
// are half the dimensions; the node is a unit cube scaled to them.
func (c *Context) SpawnBox(width, height, depth float32, position rl.Vector3) (*PairedObject, error) {
	for _, d := range []struct {
		name string
		v    float32
	}{{"width", width}, {"height", height}, {"depth", depth}} {
		if err := checkDimension(d.name, d.v); err != nil {
			return nil, err
		}
	}
	if err := checkPosition(position); err != nil {
		return nil, err
	}
	node := scene.NewNode(fmt.Sprintf("box %d", c.Registry.Len()), scene.PrimitiveCube)
	node.Scale = rl.NewVector3(width, height, depth)
	half := rl.NewVector3(width*0.5, height*0.5, depth*0.5)
	body := physics.NewBody(spawnMass, &physics.Box{HalfExtents: half}, position)
	return c.spawn(node, body, KindBox), nil
}

func (c *Context) spawn(node *scene.Node, body *physics.Body, kind ObjectKind) *PairedObject {
	body.Material = c.Material
	node.Position = body.Position
	node.Rotation = body.Quaternion
	c.MarkSoundEmitter(body)

	c.Scene.Add(node)
	c.World.AddBody(body)
	obj := &PairedObject{Node: node, Body: body, Kind: kind}
	c.Registry.Add(obj)
	return obj
}

func checkDimension(name string, v float32) error {
	if !finite(v) || v <= 0 {
		return fmt.Errorf("%s must be a positive finite number, got %v: %w", name, v, ErrInvalidParameter)
	}
	return nil
}

func checkPosition(p rl.Vector3) error {
	if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
		return fmt.Errorf("position must be finite, got %v: %w", p, ErrInvalidParameter)
	}
	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
