package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Contact is one point of contact found during a step. Normal points from A to B.
type Contact struct {
	A, B   *Body
	Normal rl.Vector3
	Point  rl.Vector3
	Depth  float32
	// ImpactSpeed is the closing speed along Normal measured before the solver ran.
	ImpactSpeed float32

	ra, rb         rl.Vector3
	tangent        rl.Vector3
	normalMass     float32
	tangentMass    float32
	targetVelocity float32
	friction       float32
	restitution    float32
	normalImpulse  float32
	tangentImpulse float32
	// share of the pair's position correction carried by this contact
	share float32
}

func newContact(a, b *Body, normal, point rl.Vector3, depth float32) Contact {
	return Contact{A: a, B: b, Normal: normal, Point: point, Depth: depth, share: 1}
}

// collide appends the contacts between a and b to dst.
func collide(a, b *Body, dst []Contact) []Contact {
	ka, kb := a.Shape.Kind(), b.Shape.Kind()
	if ka > kb {
		return collide(b, a, dst)
	}
	switch {
	case ka == KindSphere && kb == KindSphere:
		return sphereSphere(a, b, dst)
	case ka == KindSphere && kb == KindBox:
		return sphereBox(a, b, dst)
	case ka == KindSphere && kb == KindPlane:
		return spherePlane(a, b, dst)
	case ka == KindBox && kb == KindBox:
		return boxBox(a, b, dst)
	case ka == KindBox && kb == KindPlane:
		return boxPlane(a, b, dst)
	}
	return dst
}

func sphereSphere(a, b *Body, dst []Contact) []Contact {
	ra := a.Shape.(*Sphere).Radius
	rb := b.Shape.(*Sphere).Radius
	if !rl.CheckCollisionSpheres(a.Position, ra, b.Position, rb) {
		return dst
	}
	d := rl.Vector3Subtract(b.Position, a.Position)
	dist := rl.Vector3Length(d)
	n := rl.NewVector3(0, 1, 0)
	if dist > 1e-6 {
		n = rl.Vector3Scale(d, 1/dist)
	}
	point := rl.Vector3Add(a.Position, rl.Vector3Scale(n, ra))
	return append(dst, newContact(a, b, n, point, ra+rb-dist))
}

func spherePlane(s, p *Body, dst []Contact) []Contact {
	r := s.Shape.(*Sphere).Radius
	n := p.Shape.(*Plane).Normal(p.Quaternion)
	dist := rl.Vector3DotProduct(rl.Vector3Subtract(s.Position, p.Position), n)
	if dist >= r {
		return dst
	}
	// Normal from the sphere into the plane.
	normal := rl.Vector3Negate(n)
	point := rl.Vector3Add(s.Position, rl.Vector3Scale(normal, r))
	return append(dst, newContact(s, p, normal, point, r-dist))
}

func sphereBox(s, bx *Body, dst []Contact) []Contact {
	r := s.Shape.(*Sphere).Radius
	h := bx.Shape.(*Box).HalfExtents
	if !rl.CheckCollisionBoxSphere(bx.AABB(), s.Position, r) {
		return dst
	}
	inv := rl.QuaternionInvert(bx.Quaternion)
	local := rl.Vector3RotateByQuaternion(rl.Vector3Subtract(s.Position, bx.Position), inv)
	closest := rl.Vector3{
		X: clamp(local.X, -h.X, h.X),
		Y: clamp(local.Y, -h.Y, h.Y),
		Z: clamp(local.Z, -h.Z, h.Z),
	}
	diff := rl.Vector3Subtract(local, closest)
	dist := rl.Vector3Length(diff)

	var boxToSphere rl.Vector3
	var depth float32
	if dist > 1e-6 {
		if dist >= r {
			return dst
		}
		boxToSphere = rl.Vector3Scale(diff, 1/dist)
		depth = r - dist
	} else {
		// Center inside the box: leave through the nearest face.
		gaps := [3]float32{h.X - abs(local.X), h.Y - abs(local.Y), h.Z - abs(local.Z)}
		axis := 0
		for i := 1; i < 3; i++ {
			if gaps[i] < gaps[axis] {
				axis = i
			}
		}
		switch axis {
		case 0:
			boxToSphere = rl.NewVector3(sign(local.X), 0, 0)
			closest.X = sign(local.X) * h.X
		case 1:
			boxToSphere = rl.NewVector3(0, sign(local.Y), 0)
			closest.Y = sign(local.Y) * h.Y
		case 2:
			boxToSphere = rl.NewVector3(0, 0, sign(local.Z))
			closest.Z = sign(local.Z) * h.Z
		}
		depth = r + gaps[axis]
	}
	worldNormal := rl.Vector3RotateByQuaternion(boxToSphere, bx.Quaternion)
	point := rl.Vector3Add(bx.Position, rl.Vector3RotateByQuaternion(closest, bx.Quaternion))
	// Contact normal points from the sphere (A) to the box (B).
	return append(dst, newContact(s, bx, rl.Vector3Negate(worldNormal), point, depth))
}

func boxPlane(bx, p *Body, dst []Contact) []Contact {
	n := p.Shape.(*Plane).Normal(p.Quaternion)
	normal := rl.Vector3Negate(n)
	for _, c := range bx.Shape.(*Box).Corners(bx.Position, bx.Quaternion) {
		dist := rl.Vector3DotProduct(rl.Vector3Subtract(c, p.Position), n)
		if dist >= 0 {
			continue
		}
		dst = append(dst, newContact(bx, p, normal, c, -dist))
	}
	return dst
}

// An edge/edge axis wins over the best face axis only when it is clearly shallower.
const (
	edgeAxisRelTol = 0.95
	edgeAxisAbsTol = 0.005
)

// boxAxes returns the world-space local X, Y and Z axes of an orientation.
func boxAxes(q rl.Quaternion) [3]rl.Vector3 {
	return [3]rl.Vector3{
		rl.Vector3RotateByQuaternion(rl.NewVector3(1, 0, 0), q),
		rl.Vector3RotateByQuaternion(rl.NewVector3(0, 1, 0), q),
		rl.Vector3RotateByQuaternion(rl.NewVector3(0, 0, 1), q),
	}
}

func component(v rl.Vector3, i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

// projectedRadius is the half length of a box projected on the unit axis l.
func projectedRadius(h rl.Vector3, u [3]rl.Vector3, l rl.Vector3) float32 {
	return h.X*abs(rl.Vector3DotProduct(u[0], l)) +
		h.Y*abs(rl.Vector3DotProduct(u[1], l)) +
		h.Z*abs(rl.Vector3DotProduct(u[2], l))
}

// boxBox runs the separating axis test over the 15 candidate axes of two oriented boxes.
// Face axes produce a manifold by clipping the incident face against the reference face;
// edge axes produce one contact between the closest points of the two edges.
func boxBox(a, b *Body, dst []Contact) []Contact {
	ha := a.Shape.(*Box).HalfExtents
	hb := b.Shape.(*Box).HalfExtents
	ua, ub := boxAxes(a.Quaternion), boxAxes(b.Quaternion)
	d := rl.Vector3Subtract(b.Position, a.Position)

	// overlap returns the penetration along l, oriented from a to b, and false if l separates.
	overlap := func(l rl.Vector3) (float32, rl.Vector3, bool) {
		dist := rl.Vector3DotProduct(d, l)
		if dist < 0 {
			l = rl.Vector3Negate(l)
			dist = -dist
		}
		depth := projectedRadius(ha, ua, l) + projectedRadius(hb, ub, l) - dist
		return depth, l, depth >= 0
	}

	faceDepth := float32(math.MaxFloat32)
	var faceNormal rl.Vector3
	faceOwner, faceAxis := 0, 0
	for owner, axes := range [2][3]rl.Vector3{ua, ub} {
		for i, l := range axes {
			depth, n, ok := overlap(l)
			if !ok {
				return dst
			}
			if depth < faceDepth {
				faceDepth, faceNormal, faceOwner, faceAxis = depth, n, owner, i
			}
		}
	}

	edgeDepth := float32(math.MaxFloat32)
	var edgeNormal rl.Vector3
	edgeA, edgeB := -1, -1
	for i := range ua {
		for j := range ub {
			l := rl.Vector3CrossProduct(ua[i], ub[j])
			length := rl.Vector3Length(l)
			if length < 1e-5 {
				continue // parallel edges: covered by the face axes
			}
			depth, n, ok := overlap(rl.Vector3Scale(l, 1/length))
			if !ok {
				return dst
			}
			if depth < edgeDepth {
				edgeDepth, edgeNormal, edgeA, edgeB = depth, n, i, j
			}
		}
	}

	if edgeA >= 0 && edgeDepth < faceDepth*edgeAxisRelTol-edgeAxisAbsTol {
		return edgeContact(a, b, ha, hb, ua, ub, edgeA, edgeB, edgeNormal, edgeDepth, dst)
	}
	if faceOwner == 0 {
		return faceContacts(a, b, ha, hb, ua, ub, faceAxis, faceNormal, false, dst)
	}
	// b owns the reference face; its normal must point from b towards a.
	return faceContacts(b, a, hb, ha, ub, ua, faceAxis, rl.Vector3Negate(faceNormal), true, dst)
}

// faceContacts clips the incident box's most anti-parallel face against the side planes of
// the reference face (axis i of ref, outward normal n pointing at inc). swapped reports that
// ref is the contact's B body.
func faceContacts(ref, inc *Body, hr, hi rl.Vector3, ur, ui [3]rl.Vector3, i int, n rl.Vector3, swapped bool, dst []Contact) []Contact {
	// Incident face.
	j := 0
	best := float32(-1)
	for k := range ui {
		if v := abs(rl.Vector3DotProduct(ui[k], n)); v > best {
			best, j = v, k
		}
	}
	faceN := ui[j]
	if rl.Vector3DotProduct(faceN, n) > 0 {
		faceN = rl.Vector3Negate(faceN)
	}
	center := rl.Vector3Add(inc.Position, rl.Vector3Scale(faceN, component(hi, j)))
	k1, k2 := (j+1)%3, (j+2)%3
	e1 := rl.Vector3Scale(ui[k1], component(hi, k1))
	e2 := rl.Vector3Scale(ui[k2], component(hi, k2))
	poly := []rl.Vector3{
		rl.Vector3Add(center, rl.Vector3Add(e1, e2)),
		rl.Vector3Add(center, rl.Vector3Subtract(e2, e1)),
		rl.Vector3Subtract(center, rl.Vector3Add(e1, e2)),
		rl.Vector3Add(center, rl.Vector3Subtract(e1, e2)),
	}

	// Side planes of the reference face.
	for _, k := range [2]int{(i + 1) % 3, (i + 2) % 3} {
		side := ur[k]
		c := rl.Vector3DotProduct(ref.Position, side)
		poly = clipPolygon(poly, side, c+component(hr, k))
		poly = clipPolygon(poly, rl.Vector3Negate(side), -c+component(hr, k))
		if len(poly) == 0 {
			return dst
		}
	}

	planeOffset := rl.Vector3DotProduct(ref.Position, n) + component(hr, i)
	for _, v := range poly {
		depth := planeOffset - rl.Vector3DotProduct(v, n)
		if depth <= 0 {
			continue
		}
		point := rl.Vector3Add(v, rl.Vector3Scale(n, depth*0.5))
		if swapped {
			dst = append(dst, newContact(inc, ref, rl.Vector3Negate(n), point, depth))
		} else {
			dst = append(dst, newContact(ref, inc, n, point, depth))
		}
	}
	return dst
}

// clipPolygon keeps the part of poly where dot(p, n) <= offset.
func clipPolygon(poly []rl.Vector3, n rl.Vector3, offset float32) []rl.Vector3 {
	out := make([]rl.Vector3, 0, len(poly)+2)
	for idx, p := range poly {
		q := poly[(idx+1)%len(poly)]
		dp := rl.Vector3DotProduct(p, n) - offset
		dq := rl.Vector3DotProduct(q, n) - offset
		if dp <= 0 {
			out = append(out, p)
		}
		if (dp < 0 && dq > 0) || (dp > 0 && dq < 0) {
			out = append(out, rl.Vector3Lerp(p, q, dp/(dp-dq)))
		}
	}
	return out
}

// edgeContact places one contact halfway between the closest points of edge i of a and edge j
// of b, the edges that lie furthest along n on each box.
func edgeContact(a, b *Body, ha, hb rl.Vector3, ua, ub [3]rl.Vector3, i, j int, n rl.Vector3, depth float32, dst []Contact) []Contact {
	pa := a.Position
	for k := range ua {
		if k != i {
			pa = rl.Vector3Add(pa, rl.Vector3Scale(ua[k], sign(rl.Vector3DotProduct(ua[k], n))*component(ha, k)))
		}
	}
	pb := b.Position
	for k := range ub {
		if k != j {
			pb = rl.Vector3Add(pb, rl.Vector3Scale(ub[k], -sign(rl.Vector3DotProduct(ub[k], n))*component(hb, k)))
		}
	}
	da, db := ua[i], ub[j]
	r := rl.Vector3Subtract(pa, pb)
	bb := rl.Vector3DotProduct(da, db)
	c := rl.Vector3DotProduct(da, r)
	f := rl.Vector3DotProduct(db, r)
	var s, t float32
	if denom := 1 - bb*bb; denom > 1e-6 {
		s = (bb*f - c) / denom
		t = (f - bb*c) / denom
	}
	s = clamp(s, -component(ha, i), component(ha, i))
	t = clamp(t, -component(hb, j), component(hb, j))
	onA := rl.Vector3Add(pa, rl.Vector3Scale(da, s))
	onB := rl.Vector3Add(pb, rl.Vector3Scale(db, t))
	point := rl.Vector3Scale(rl.Vector3Add(onA, onB), 0.5)
	return append(dst, newContact(a, b, n, point, depth))
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}

func abs(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}
