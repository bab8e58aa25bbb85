package scene

import rl "github.com/gen2brain/raylib-go/raylib"

// Camera is a perspective camera. Fov is the vertical field of view in degrees.
type Camera struct {
	Position rl.Vector3
	Target   rl.Vector3
	Up       rl.Vector3
	Fov      float32
	Aspect   float32
	Near     float32
	Far      float32
}

// NewCamera returns a camera at the origin looking down -Z.
func NewCamera(fov, aspect, near, far float32) *Camera {
	return &Camera{
		Target: rl.NewVector3(0, 0, -1),
		Up:     rl.NewVector3(0, 1, 0),
		Fov:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target rl.Vector3) {
	c.Target = target
}

// Camera3D converts to the raylib camera used between BeginMode3D and EndMode3D.
func (c *Camera) Camera3D() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Position,
		Target:     c.Target,
		Up:         c.Up,
		Fovy:       c.Fov,
		Projection: rl.CameraPerspective,
	}
}

// Projection returns the perspective matrix for the current aspect and clip planes.
func (c *Camera) Projection() rl.Matrix {
	return rl.MatrixPerspective(c.Fov, c.Aspect, c.Near, c.Far)
}
