package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	// restitutionThreshold is the closing speed below which contacts do not bounce,
	// so resting bodies settle instead of jittering.
	restitutionThreshold = 0.5
	// penetrationSlop is the overlap left uncorrected to keep resting contacts alive.
	penetrationSlop = 0.005
	// correctionFactor is the fraction of remaining overlap removed per step.
	correctionFactor = 0.8
)

// prepareContact computes lever arms, effective masses and the restitution target for c.
func prepareContact(c *Contact, cm *ContactMaterial) {
	a, b := c.A, c.B
	c.ra = rl.Vector3Subtract(c.Point, a.Position)
	c.rb = rl.Vector3Subtract(c.Point, b.Position)
	c.friction = cm.Friction
	c.restitution = cm.Restitution
	c.normalImpulse = 0
	c.tangentImpulse = 0

	rel := relativeVelocity(c)
	vn := rl.Vector3DotProduct(rel, c.Normal)
	// vn < 0 means B approaches A along the normal.
	c.ImpactSpeed = max(0, -vn)

	c.normalMass = effectiveMass(c, c.Normal)
	c.targetVelocity = 0
	if -vn > restitutionThreshold {
		c.targetVelocity = -c.restitution * vn
	}

	t := rl.Vector3Subtract(rel, rl.Vector3Scale(c.Normal, vn))
	if l := rl.Vector3Length(t); l > 1e-6 {
		c.tangent = rl.Vector3Scale(t, 1/l)
	} else {
		c.tangent = anyPerpendicular(c.Normal)
	}
	c.tangentMass = effectiveMass(c, c.tangent)
}

// relativeVelocity is the velocity of B's contact point relative to A's.
func relativeVelocity(c *Contact) rl.Vector3 {
	return rl.Vector3Subtract(c.B.velocityAt(c.rb), c.A.velocityAt(c.ra))
}

func effectiveMass(c *Contact, dir rl.Vector3) float32 {
	a, b := c.A, c.B
	k := a.solverInvMass() + b.solverInvMass()
	raXd := rl.Vector3CrossProduct(c.ra, dir)
	rbXd := rl.Vector3CrossProduct(c.rb, dir)
	k += rl.Vector3DotProduct(raXd, a.invInertiaWorld(raXd))
	k += rl.Vector3DotProduct(rbXd, b.invInertiaWorld(rbXd))
	if k <= 0 {
		return 0
	}
	return 1 / k
}

func anyPerpendicular(n rl.Vector3) rl.Vector3 {
	ref := rl.NewVector3(1, 0, 0)
	if abs(n.X) > 0.9 {
		ref = rl.NewVector3(0, 1, 0)
	}
	return rl.Vector3Normalize(rl.Vector3CrossProduct(n, ref))
}

// applyImpulse pushes A by -p and B by +p at the contact point.
func applyImpulse(c *Contact, p rl.Vector3) {
	a, b := c.A, c.B
	if a.movable() {
		a.Velocity = rl.Vector3Subtract(a.Velocity, rl.Vector3Scale(p, a.invMass))
		a.AngularVelocity = rl.Vector3Subtract(a.AngularVelocity, a.invInertiaWorld(rl.Vector3CrossProduct(c.ra, p)))
	}
	if b.movable() {
		b.Velocity = rl.Vector3Add(b.Velocity, rl.Vector3Scale(p, b.invMass))
		b.AngularVelocity = rl.Vector3Add(b.AngularVelocity, b.invInertiaWorld(rl.Vector3CrossProduct(c.rb, p)))
	}
}

// solveVelocity runs one sequential-impulse iteration on c.
func solveVelocity(c *Contact) {
	if c.normalMass == 0 {
		return
	}
	rel := relativeVelocity(c)
	vn := rl.Vector3DotProduct(rel, c.Normal)
	lambda := (c.targetVelocity - vn) * c.normalMass
	old := c.normalImpulse
	c.normalImpulse = max(old+lambda, 0)
	lambda = c.normalImpulse - old
	applyImpulse(c, rl.Vector3Scale(c.Normal, lambda))

	if c.friction <= 0 || c.tangentMass == 0 {
		return
	}
	rel = relativeVelocity(c)
	vt := rl.Vector3DotProduct(rel, c.tangent)
	lambdaT := -vt * c.tangentMass
	limit := c.friction * c.normalImpulse
	oldT := c.tangentImpulse
	c.tangentImpulse = clamp(oldT+lambdaT, -limit, limit)
	lambdaT = c.tangentImpulse - oldT
	applyImpulse(c, rl.Vector3Scale(c.tangent, lambdaT))
}

// correctPosition removes part of the remaining overlap, split by inverse mass. Contacts of one
// manifold each carry their share of the pair's correction.
func correctPosition(c *Contact) {
	a, b := c.A, c.B
	ia, ib := a.solverInvMass(), b.solverInvMass()
	total := ia + ib
	if total == 0 {
		return
	}
	excess := c.Depth - penetrationSlop
	if excess <= 0 {
		return
	}
	move := excess * correctionFactor * c.share / total
	a.Position = rl.Vector3Subtract(a.Position, rl.Vector3Scale(c.Normal, move*ia))
	b.Position = rl.Vector3Add(b.Position, rl.Vector3Scale(c.Normal, move*ib))
}

// integrate advances position and orientation of a dynamic body by dt.
func integrate(b *Body, dt float32) {
	b.Position = rl.Vector3Add(b.Position, rl.Vector3Scale(b.Velocity, dt))

	w := b.AngularVelocity
	if w.X == 0 && w.Y == 0 && w.Z == 0 {
		return
	}
	q := b.Quaternion
	// dq/dt = 0.5 * (w, 0) * q
	half := 0.5 * dt
	dx := w.X*q.W + w.Y*q.Z - w.Z*q.Y
	dy := w.Y*q.W + w.Z*q.X - w.X*q.Z
	dz := w.Z*q.W + w.X*q.Y - w.Y*q.X
	dw := -w.X*q.X - w.Y*q.Y - w.Z*q.Z
	q.X += dx * half
	q.Y += dy * half
	q.Z += dz * half
	q.W += dw * half
	b.Quaternion = rl.QuaternionNormalize(q)
}

// damp applies per-second velocity damping: v *= (1-d)^dt.
func damp(b *Body, dt float32) {
	lin := float32(math.Pow(float64(1-b.LinearDamping), float64(dt)))
	ang := float32(math.Pow(float64(1-b.AngularDamping), float64(dt)))
	b.Velocity = rl.Vector3Scale(b.Velocity, lin)
	b.AngularVelocity = rl.Vector3Scale(b.AngularVelocity, ang)
}
