package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ShapeKind identifies a collision shape for narrow-phase dispatch.
type ShapeKind int

const (
	KindSphere ShapeKind = iota
	KindBox
	KindPlane
)

func (k ShapeKind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	case KindPlane:
		return "plane"
	}
	return "unknown"
}

// planeExtent bounds the otherwise infinite plane so it overlaps every other AABB.
const planeExtent = 1e9

// Shape is a collision volume in body-local space.
type Shape interface {
	Kind() ShapeKind
	// Inertia returns the principal moments of inertia for the given mass.
	Inertia(mass float32) rl.Vector3
	// AABB returns the world bounding box for a body at pos with orientation q.
	AABB(pos rl.Vector3, q rl.Quaternion) rl.BoundingBox
}

// Sphere is a ball centered on the body.
type Sphere struct {
	Radius float32
}

func (s *Sphere) Kind() ShapeKind { return KindSphere }

func (s *Sphere) Inertia(mass float32) rl.Vector3 {
	i := 2 * mass * s.Radius * s.Radius / 5
	return rl.Vector3{X: i, Y: i, Z: i}
}

func (s *Sphere) AABB(pos rl.Vector3, _ rl.Quaternion) rl.BoundingBox {
	r := s.Radius
	return rl.NewBoundingBox(
		rl.NewVector3(pos.X-r, pos.Y-r, pos.Z-r),
		rl.NewVector3(pos.X+r, pos.Y+r, pos.Z+r),
	)
}

// Box is an oriented box given by its half extents.
type Box struct {
	HalfExtents rl.Vector3
}

func (b *Box) Kind() ShapeKind { return KindBox }

func (b *Box) Inertia(mass float32) rl.Vector3 {
	h := b.HalfExtents
	return rl.Vector3{
		X: mass / 3 * (h.Y*h.Y + h.Z*h.Z),
		Y: mass / 3 * (h.X*h.X + h.Z*h.Z),
		Z: mass / 3 * (h.X*h.X + h.Y*h.Y),
	}
}

// Corners returns the eight world-space corners of the box.
func (b *Box) Corners(pos rl.Vector3, q rl.Quaternion) [8]rl.Vector3 {
	var out [8]rl.Vector3
	h := b.HalfExtents
	i := 0
	for _, sx := range []float32{-1, 1} {
		for _, sy := range []float32{-1, 1} {
			for _, sz := range []float32{-1, 1} {
				local := rl.Vector3{X: sx * h.X, Y: sy * h.Y, Z: sz * h.Z}
				out[i] = rl.Vector3Add(pos, rl.Vector3RotateByQuaternion(local, q))
				i++
			}
		}
	}
	return out
}

func (b *Box) AABB(pos rl.Vector3, q rl.Quaternion) rl.BoundingBox {
	corners := b.Corners(pos, q)
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		lo = rl.Vector3{X: min(lo.X, c.X), Y: min(lo.Y, c.Y), Z: min(lo.Z, c.Z)}
		hi = rl.Vector3{X: max(hi.X, c.X), Y: max(hi.Y, c.Y), Z: max(hi.Z, c.Z)}
	}
	return rl.NewBoundingBox(lo, hi)
}

// Plane is an infinite plane through the body position. Its normal is the body's local +Z,
// so a floor is a plane body rotated -90 degrees about X.
type Plane struct{}

func (p *Plane) Kind() ShapeKind { return KindPlane }

func (p *Plane) Inertia(float32) rl.Vector3 { return rl.Vector3{} }

func (p *Plane) AABB(rl.Vector3, rl.Quaternion) rl.BoundingBox {
	return rl.NewBoundingBox(
		rl.NewVector3(-planeExtent, -planeExtent, -planeExtent),
		rl.NewVector3(planeExtent, planeExtent, planeExtent),
	)
}

// Normal returns the world-space plane normal for orientation q.
func (p *Plane) Normal(q rl.Quaternion) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.NewVector3(0, 0, 1), q)
}
