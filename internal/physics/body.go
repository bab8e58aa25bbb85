package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BodyType tells the solver whether a body moves.
type BodyType int

const (
	Dynamic BodyType = iota
	Static
)

// SleepState tracks the sleep optimization for a dynamic body.
type SleepState int

const (
	Awake SleepState = iota
	Sleepy
	Sleeping
)

func (s SleepState) String() string {
	switch s {
	case Awake:
		return "awake"
	case Sleepy:
		return "sleepy"
	case Sleeping:
		return "sleeping"
	}
	return "unknown"
}

const (
	defaultLinearDamping   = 0.01
	defaultAngularDamping  = 0.01
	defaultSleepSpeedLimit = 0.1
	defaultSleepTimeLimit  = 1
)

// Body is a 3D rigid body: pose, velocities, one collision shape and a material.
// Mass 0 makes the body static (floors, walls); static bodies never move.
type Body struct {
	ID              int
	Position        rl.Vector3
	Quaternion      rl.Quaternion
	Velocity        rl.Vector3
	AngularVelocity rl.Vector3
	Mass            float32
	Type            BodyType
	Shape           Shape
	Material        *Material

	LinearDamping  float32
	AngularDamping float32

	// SleepSpeedLimit is the speed below which the body counts as resting.
	SleepSpeedLimit float32
	// SleepTimeLimit is how long (seconds) it has to rest before it sleeps.
	SleepTimeLimit float32

	sleepState     SleepState
	timeLastSleepy float32

	invMass    float32
	invInertia rl.Vector3 // body-local principal axes
	force      rl.Vector3

	// last pose that ended a step with finite state
	safePosition   rl.Vector3
	safeQuaternion rl.Quaternion
}

// NewBody returns a body with the given mass, shape and position and an identity orientation.
// Velocity is zero. mass <= 0 produces a static body.
func NewBody(mass float32, shape Shape, position rl.Vector3) *Body {
	b := &Body{
		Position:        position,
		Quaternion:      rl.QuaternionIdentity(),
		Shape:           shape,
		LinearDamping:   defaultLinearDamping,
		AngularDamping:  defaultAngularDamping,
		SleepSpeedLimit: defaultSleepSpeedLimit,
		SleepTimeLimit:  defaultSleepTimeLimit,
	}
	b.SetMass(mass)
	b.saveSafePose()
	return b
}

// SetMass updates mass and the derived inverse mass and inertia.
func (b *Body) SetMass(mass float32) {
	if mass <= 0 || b.Shape == nil || b.Shape.Kind() == KindPlane {
		b.Mass = 0
		b.Type = Static
		b.invMass = 0
		b.invInertia = rl.Vector3{}
		return
	}
	b.Mass = mass
	b.Type = Dynamic
	b.invMass = 1 / mass
	in := b.Shape.Inertia(mass)
	b.invInertia = rl.Vector3{X: inverse(in.X), Y: inverse(in.Y), Z: inverse(in.Z)}
}

func inverse(v float32) float32 {
	if v <= 0 {
		return 0
	}
	return 1 / v
}

// IsStatic reports whether the body is immovable.
func (b *Body) IsStatic() bool { return b.Type == Static }

// InvMass returns 1/mass, or 0 for static bodies.
func (b *Body) InvMass() float32 { return b.invMass }

// SetRotation sets the orientation from an axis and an angle in radians.
func (b *Body) SetRotation(axis rl.Vector3, angle float32) {
	b.Quaternion = rl.QuaternionFromAxisAngle(axis, angle)
}

// ApplyForce adds a world-space force at the center of mass for the next step.
func (b *Body) ApplyForce(f rl.Vector3) {
	b.force = rl.Vector3Add(b.force, f)
}

// ApplyImpulse changes velocity instantly. rel is the application point relative to the
// center of mass, in world space.
func (b *Body) ApplyImpulse(impulse, rel rl.Vector3) {
	if b.IsStatic() {
		return
	}
	b.WakeUp()
	b.Velocity = rl.Vector3Add(b.Velocity, rl.Vector3Scale(impulse, b.invMass))
	b.AngularVelocity = rl.Vector3Add(b.AngularVelocity, b.invInertiaWorld(rl.Vector3CrossProduct(rel, impulse)))
}

// SleepState returns the current sleep state.
func (b *Body) SleepState() SleepState { return b.sleepState }

// WakeUp puts a sleeping or sleepy body back into the simulation.
func (b *Body) WakeUp() {
	b.sleepState = Awake
}

// Sleep freezes the body until something wakes it.
func (b *Body) Sleep() {
	b.sleepState = Sleeping
	b.Velocity = rl.Vector3{}
	b.AngularVelocity = rl.Vector3{}
}

func (b *Body) sleeping() bool { return b.sleepState == Sleeping }

// sleepTick advances the sleep state machine; now is the world time in seconds.
func (b *Body) sleepTick(now float32) {
	if b.IsStatic() {
		return
	}
	speed2 := rl.Vector3DotProduct(b.Velocity, b.Velocity) + rl.Vector3DotProduct(b.AngularVelocity, b.AngularVelocity)
	limit2 := b.SleepSpeedLimit * b.SleepSpeedLimit
	switch {
	case b.sleepState == Awake && speed2 < limit2:
		b.sleepState = Sleepy
		b.timeLastSleepy = now
	case b.sleepState == Sleepy && speed2 > limit2:
		b.WakeUp()
	case b.sleepState == Sleepy && now-b.timeLastSleepy > b.SleepTimeLimit:
		b.Sleep()
	}
}

// movable reports whether the solver may change the body's velocity.
func (b *Body) movable() bool { return !b.IsStatic() && !b.sleeping() }

// solverInvMass is the inverse mass seen by the solver; sleeping bodies act static.
func (b *Body) solverInvMass() float32 {
	if !b.movable() {
		return 0
	}
	return b.invMass
}

// invInertiaWorld applies the world-space inverse inertia tensor to v.
func (b *Body) invInertiaWorld(v rl.Vector3) rl.Vector3 {
	if !b.movable() {
		return rl.Vector3{}
	}
	local := rl.Vector3RotateByQuaternion(v, rl.QuaternionInvert(b.Quaternion))
	local = rl.Vector3Multiply(local, b.invInertia)
	return rl.Vector3RotateByQuaternion(local, b.Quaternion)
}

// velocityAt returns the velocity of the body point at rel (relative to the center).
func (b *Body) velocityAt(rel rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(b.Velocity, rl.Vector3CrossProduct(b.AngularVelocity, rel))
}

// AABB returns the world bounding box of the body's shape.
func (b *Body) AABB() rl.BoundingBox {
	return b.Shape.AABB(b.Position, b.Quaternion)
}

func (b *Body) finite() bool {
	return finite3(b.Position) && finite3(b.Velocity) && finite3(b.AngularVelocity) &&
		finite(b.Quaternion.X) && finite(b.Quaternion.Y) && finite(b.Quaternion.Z) && finite(b.Quaternion.W)
}

func (b *Body) saveSafePose() {
	b.safePosition = b.Position
	b.safeQuaternion = b.Quaternion
}

// restoreSafePose puts a body with NaN or infinite state back at its last finite pose, at rest.
func (b *Body) restoreSafePose() {
	b.Position = b.safePosition
	b.Quaternion = b.safeQuaternion
	if !finite3(b.Position) {
		b.Position = rl.Vector3{}
	}
	q := b.Quaternion
	if !finite(q.X) || !finite(q.Y) || !finite(q.Z) || !finite(q.W) {
		b.Quaternion = rl.QuaternionIdentity()
	}
	b.Velocity = rl.Vector3{}
	b.AngularVelocity = rl.Vector3{}
	b.force = rl.Vector3{}
	b.saveSafePose()
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finite3(v rl.Vector3) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}
