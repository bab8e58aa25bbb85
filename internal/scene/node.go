package scene

import rl "github.com/gen2brain/raylib-go/raylib"

// Primitive names the unit mesh a node draws. Sphere has radius 1, cube side 1, plane 1x1 in XZ.
type Primitive string

const (
	PrimitiveSphere Primitive = "sphere"
	PrimitiveCube   Primitive = "cube"
	PrimitivePlane  Primitive = "plane"
)

// Surface is the look of a node: base color plus the metalness/roughness pair the lit shader
// turns into specular highlights.
type Surface struct {
	Color     rl.Color
	Metalness float32
	Roughness float32
	// EnvIntensity scales how much of the environment map tints the surface.
	EnvIntensity float32
}

// DefaultSurface is the grey metallic look used by spawned objects.
var DefaultSurface = Surface{
	Color:        rl.NewColor(255, 255, 255, 255),
	Metalness:    0.3,
	Roughness:    0.4,
	EnvIntensity: 0.5,
}

// Node is a visual object. Its pose is written by the simulation each frame for paired objects.
type Node struct {
	Name      string
	Primitive Primitive
	Position  rl.Vector3
	Rotation  rl.Quaternion
	Scale     rl.Vector3
	Surface   Surface
	Visible   bool
}

// NewNode returns a visible node at the origin with identity rotation and unit scale.
func NewNode(name string, prim Primitive) *Node {
	return &Node{
		Name:      name,
		Primitive: prim,
		Rotation:  rl.QuaternionIdentity(),
		Scale:     rl.NewVector3(1, 1, 1),
		Surface:   DefaultSurface,
		Visible:   true,
	}
}

// AmbientLight lights every surface evenly.
type AmbientLight struct {
	Color     rl.Color
	Intensity float32
}

// DirectionalLight shines from Position towards the origin.
type DirectionalLight struct {
	Color     rl.Color
	Intensity float32
	Position  rl.Vector3
}

// Direction returns the normalized direction from the origin to the light.
func (l DirectionalLight) Direction() rl.Vector3 {
	if l.Position == (rl.Vector3{}) {
		return rl.NewVector3(0, 1, 0)
	}
	return rl.Vector3Normalize(l.Position)
}
