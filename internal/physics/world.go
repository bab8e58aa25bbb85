package physics

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrNonFinite reports a body whose state became NaN or infinite during a step. The body is
// already reset to its last finite pose, at rest, when Step returns it.
var ErrNonFinite = errors.New("physics: non-finite body state")

const (
	defaultSolverIterations = 10
	defaultFriction         = 0.3
	defaultRestitution      = 0.0
)

// World holds a set of bodies and advances them with gravity, contacts and friction.
// Bodies keep insertion order, so IDs are stable and iteration is deterministic.
type World struct {
	Gravity rl.Vector3
	Bodies  []*Body

	// SolverIterations is the number of velocity iterations per internal step.
	SolverIterations int
	// AllowSleep lets resting bodies drop out of the simulation until touched.
	AllowSleep bool
	// DefaultContactMaterial applies to material pairs without a registered profile.
	DefaultContactMaterial *ContactMaterial

	broadphase       Broadphase
	contactMaterials []*ContactMaterial

	time        float32
	accumulator float32
	nextID      int

	pairs       []Pair
	stepContact []Contact
	contacts    []Contact
}

// NewWorld returns a world with gravity (0, -9.82, 0), naive broad-phase and default contact profile.
func NewWorld() *World {
	return &World{
		Gravity:                rl.NewVector3(0, -9.82, 0),
		SolverIterations:       defaultSolverIterations,
		DefaultContactMaterial: NewContactMaterial(nil, nil, defaultFriction, defaultRestitution),
		broadphase:             NaiveBroadphase{},
	}
}

// SetGravity sets the gravity vector.
func (w *World) SetGravity(g rl.Vector3) {
	w.Gravity = g
}

// SetBroadphase replaces the broad-phase. nil restores the naive one.
func (w *World) SetBroadphase(bp Broadphase) {
	if bp == nil {
		bp = NaiveBroadphase{}
	}
	w.broadphase = bp
}

// AddContactMaterial registers a friction/restitution profile for a material pair.
func (w *World) AddContactMaterial(cm *ContactMaterial) {
	w.contactMaterials = append(w.contactMaterials, cm)
}

// AddBody appends a body to the world and assigns its ID. Order is preserved.
func (w *World) AddBody(b *Body) {
	w.nextID++
	b.ID = w.nextID
	w.Bodies = append(w.Bodies, b)
}

// Time returns the simulated time in seconds.
func (w *World) Time() float32 { return w.time }

// Contacts returns the contacts produced by the internal steps of the last Step call.
// The slice is reused by the next Step.
func (w *World) Contacts() []Contact { return w.contacts }

// Step advances the world in fixed increments of fixedStep to cover delta seconds, running at most
// maxSubSteps internal steps. Time that does not fill a whole fixed step is kept for the next call.
// A delta of zero runs no internal step.
func (w *World) Step(fixedStep, delta float32, maxSubSteps int) error {
	if fixedStep <= 0 {
		return fmt.Errorf("physics: fixed step must be positive, got %v", fixedStep)
	}
	w.contacts = w.contacts[:0]
	if delta <= 0 {
		return nil
	}
	if maxSubSteps < 1 {
		maxSubSteps = 1
	}
	w.accumulator += delta
	substeps := 0
	var err error
	for w.accumulator >= fixedStep && substeps < maxSubSteps && err == nil {
		err = w.internalStep(fixedStep)
		w.accumulator -= fixedStep
		substeps++
	}
	// Drop the backlog the sub-step cap (or a failed step) left behind.
	for w.accumulator >= fixedStep {
		w.accumulator -= fixedStep
	}
	return err
}

func (w *World) contactMaterial(a, b *Material) *ContactMaterial {
	for _, cm := range w.contactMaterials {
		if cm.matches(a, b) {
			return cm
		}
	}
	return w.DefaultContactMaterial
}

func (w *World) internalStep(dt float32) error {
	// Forces and gravity
	for _, b := range w.Bodies {
		if b.IsStatic() || b.sleeping() {
			continue
		}
		accel := rl.Vector3Add(w.Gravity, rl.Vector3Scale(b.force, b.invMass))
		b.Velocity = rl.Vector3Add(b.Velocity, rl.Vector3Scale(accel, dt))
		b.force = rl.Vector3{}
	}

	// Collision detection
	w.pairs = w.broadphase.Pairs(w.Bodies, w.pairs[:0])
	w.stepContact = w.stepContact[:0]
	for _, p := range w.pairs {
		start := len(w.stepContact)
		w.stepContact = collide(p.A, p.B, w.stepContact)
		n := len(w.stepContact) - start
		for i := start; i < len(w.stepContact); i++ {
			w.stepContact[i].share = 1 / float32(n)
		}
	}
	for i := range w.stepContact {
		c := &w.stepContact[i]
		prepareContact(c, w.contactMaterial(c.A.Material, c.B.Material))
		w.wakeOnContact(c)
	}

	// Velocity solve
	for it := 0; it < w.SolverIterations; it++ {
		for i := range w.stepContact {
			solveVelocity(&w.stepContact[i])
		}
	}

	// Integration
	for _, b := range w.Bodies {
		if b.IsStatic() || b.sleeping() {
			continue
		}
		damp(b, dt)
		integrate(b, dt)
	}
	for i := range w.stepContact {
		correctPosition(&w.stepContact[i])
	}

	w.time += dt
	w.contacts = append(w.contacts, w.stepContact...)

	var bad []int
	for _, b := range w.Bodies {
		if !b.finite() {
			b.restoreSafePose()
			bad = append(bad, b.ID)
			continue
		}
		b.saveSafePose()
		if w.AllowSleep {
			b.sleepTick(w.time)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: bodies %v at t=%.3f, reset to last finite pose", ErrNonFinite, bad, w.time)
	}
	return nil
}

// wakeOnContact wakes a sleeping body hit by a moving one.
func (w *World) wakeOnContact(c *Contact) {
	a, b := c.A, c.B
	if a.sleeping() && !b.IsStatic() && movingFast(b) {
		a.WakeUp()
	}
	if b.sleeping() && !a.IsStatic() && movingFast(a) {
		b.WakeUp()
	}
}

func movingFast(b *Body) bool {
	if b.sleeping() {
		return false
	}
	limit := b.SleepSpeedLimit
	return rl.Vector3DotProduct(b.Velocity, b.Velocity) >= 2*limit*limit
}
