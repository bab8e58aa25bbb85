package scene

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	defaultDampingFactor = 0.05
	// minPolar keeps the camera off the poles where the up vector degenerates.
	minPolar = 1e-4
)

// OrbitControls orbits a camera around a target. Input adds rotation and zoom deltas;
// Update applies them once per frame. With damping the deltas decay over several frames.
type OrbitControls struct {
	Camera        *Camera
	Target        rl.Vector3
	EnableDamping bool
	DampingFactor float32
	MinDistance   float32
	MaxDistance   float32

	thetaDelta float32 // azimuth, radians
	phiDelta   float32 // polar, radians
	scale      float32
}

// NewOrbitControls returns controls orbiting the origin. Damping is off.
func NewOrbitControls(cam *Camera) *OrbitControls {
	return &OrbitControls{
		Camera:        cam,
		DampingFactor: defaultDampingFactor,
		MaxDistance:   float32(math.Inf(1)),
		scale:         1,
	}
}

// Rotate queues an orbit by the given azimuth and polar angles in radians.
func (o *OrbitControls) Rotate(azimuth, polar float32) {
	o.thetaDelta += azimuth
	o.phiDelta += polar
}

// Zoom scales the camera distance; factors below 1 move closer.
func (o *OrbitControls) Zoom(factor float32) {
	if factor > 0 {
		o.scale *= factor
	}
}

// Update moves the camera by the pending deltas and reports whether it moved.
func (o *OrbitControls) Update() bool {
	cam := o.Camera
	offset := rl.Vector3Subtract(cam.Position, o.Target)
	radius := rl.Vector3Length(offset)
	if radius == 0 {
		cam.LookAt(o.Target)
		return false
	}
	theta := float32(math.Atan2(float64(offset.X), float64(offset.Z)))
	phi := float32(math.Acos(float64(clampf(offset.Y/radius, -1, 1))))

	if o.EnableDamping {
		theta += o.thetaDelta * o.DampingFactor
		phi += o.phiDelta * o.DampingFactor
	} else {
		theta += o.thetaDelta
		phi += o.phiDelta
	}
	phi = clampf(phi, minPolar, math.Pi-minPolar)
	radius = clampf(radius*o.scale, o.MinDistance, o.MaxDistance)

	sinPhi := float32(math.Sin(float64(phi)))
	next := rl.Vector3{
		X: radius * sinPhi * float32(math.Sin(float64(theta))),
		Y: radius * float32(math.Cos(float64(phi))),
		Z: radius * sinPhi * float32(math.Cos(float64(theta))),
	}
	prev := cam.Position
	cam.Position = rl.Vector3Add(o.Target, next)
	cam.LookAt(o.Target)

	if o.EnableDamping {
		o.thetaDelta *= 1 - o.DampingFactor
		o.phiDelta *= 1 - o.DampingFactor
	} else {
		o.thetaDelta, o.phiDelta = 0, 0
	}
	o.scale = 1
	return rl.Vector3Distance(prev, cam.Position) > 1e-4
}

func clampf(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
