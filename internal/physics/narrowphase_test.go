package physics

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func cube(mass, half float32, pos rl.Vector3) *Body {
	return NewBody(mass, &Box{HalfExtents: rl.NewVector3(half, half, half)}, pos)
}

func TestBoxBoxFaceManifold(t *testing.T) {
	a := cube(0, 0.5, rl.Vector3{})
	b := cube(1, 0.5, rl.NewVector3(0, 0.9, 0))

	contacts := boxBox(a, b, nil)
	if len(contacts) != 4 {
		t.Fatalf("got %d contacts, want 4", len(contacts))
	}
	for _, c := range contacts {
		if c.A != a || c.B != b {
			t.Fatalf("contact bodies swapped")
		}
		if !approx(c.Normal.Y, 1, 1e-5) {
			t.Errorf("normal = %v, want (0,1,0)", c.Normal)
		}
		if !approx(c.Depth, 0.1, 1e-4) {
			t.Errorf("depth = %v, want 0.1", c.Depth)
		}
		if !approx(c.Point.Y, 0.45, 1e-4) {
			t.Errorf("point = %v, want y 0.45", c.Point)
		}
		if !approx(abs(c.Point.X), 0.5, 1e-4) || !approx(abs(c.Point.Z), 0.5, 1e-4) {
			t.Errorf("point = %v, want a corner of the overlap", c.Point)
		}
	}
}

func TestBoxBoxEdgeOnFaceUsesOtherBoxAsReference(t *testing.T) {
	// a stands on one edge, tilted 45 degrees, sunk 0.05 into b.
	y := float32(0.5 + 0.5*math.Sqrt2 - 0.05)
	a := cube(1, 0.5, rl.NewVector3(0, y, 0))
	a.SetRotation(rl.NewVector3(0, 0, 1), math.Pi/4)
	b := cube(0, 0.5, rl.Vector3{})

	contacts := boxBox(a, b, nil)
	if len(contacts) != 2 {
		t.Fatalf("got %d contacts, want 2", len(contacts))
	}
	for _, c := range contacts {
		if c.A != a || c.B != b {
			t.Fatalf("contact bodies swapped")
		}
		if !approx(c.Normal.Y, -1, 1e-4) {
			t.Errorf("normal = %v, want (0,-1,0) from a to b", c.Normal)
		}
		if !approx(c.Depth, 0.05, 1e-3) {
			t.Errorf("depth = %v, want 0.05", c.Depth)
		}
		if !approx(c.Point.X, 0, 1e-3) || !approx(abs(c.Point.Z), 0.5, 1e-3) || !approx(c.Point.Y, 0.475, 1e-3) {
			t.Errorf("point = %v, want on the resting edge", c.Point)
		}
	}
}

func TestBoxBoxRotatedBoxesSeparated(t *testing.T) {
	// The world AABBs overlap, the oriented boxes do not.
	big := cube(0, 0.5, rl.NewVector3(0, 0.5, 0))
	big.SetRotation(rl.NewVector3(0, 1, 0), math.Pi/4)
	small := cube(1, 0.05, rl.NewVector3(0.6, 0.9, 0.6))

	if !rl.CheckCollisionBoxes(big.AABB(), small.AABB()) {
		t.Fatal("setup: AABBs should overlap")
	}
	if contacts := boxBox(big, small, nil); len(contacts) != 0 {
		t.Fatalf("got %d contacts between separated boxes: %+v", len(contacts), contacts[0])
	}
	if contacts := collide(small, big, nil); len(contacts) != 0 {
		t.Fatalf("collide reported %d contacts", len(contacts))
	}
}
