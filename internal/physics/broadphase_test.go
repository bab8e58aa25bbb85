package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func pairIDs(pairs []Pair) map[[2]int]bool {
	out := make(map[[2]int]bool, len(pairs))
	for _, p := range pairs {
		a, b := p.A.ID, p.B.ID
		if a > b {
			a, b = b, a
		}
		out[[2]int{a, b}] = true
	}
	return out
}

func TestBroadphasesAgree(t *testing.T) {
	w := NewWorld()
	w.AddBody(newFloor())
	positions := []rl.Vector3{
		{X: 0, Y: 0.5, Z: 0},
		{X: 0.6, Y: 0.5, Z: 0},
		{X: 5, Y: 3, Z: 5},
		{X: 5.2, Y: 3.1, Z: 5},
		{X: -4, Y: 1, Z: 2},
	}
	for i, p := range positions {
		var shape Shape = &Sphere{Radius: 0.4}
		if i%2 == 1 {
			shape = &Box{HalfExtents: rl.NewVector3(0.3, 0.3, 0.3)}
		}
		w.AddBody(NewBody(1, shape, p))
	}

	naive := pairIDs(NaiveBroadphase{}.Pairs(w.Bodies, nil))
	for axis := 0; axis < 3; axis++ {
		sap := &SAPBroadphase{Axis: axis}
		got := pairIDs(sap.Pairs(w.Bodies, nil))
		if len(got) != len(naive) {
			t.Fatalf("axis %d: sap found %d pairs, naive %d", axis, len(got), len(naive))
		}
		for k := range naive {
			if !got[k] {
				t.Errorf("axis %d: sap missed pair %v", axis, k)
			}
		}
	}
	// The floor overlaps every dynamic body; plus the two close pairs.
	if len(naive) != len(positions)+2 {
		t.Errorf("naive found %d pairs, want %d", len(naive), len(positions)+2)
	}
}

func TestBroadphaseSkipsIdlePairs(t *testing.T) {
	floor := newFloor()
	floor.ID = 1
	sleeper := NewBody(1, &Sphere{Radius: 0.5}, rl.NewVector3(0, 0.5, 0))
	sleeper.ID = 2
	sleeper.Sleep()

	pairs := NaiveBroadphase{}.Pairs([]*Body{floor, sleeper}, nil)
	if len(pairs) != 0 {
		t.Fatalf("static/sleeping pair should be skipped, got %d", len(pairs))
	}
	sleeper.WakeUp()
	pairs = NaiveBroadphase{}.Pairs([]*Body{floor, sleeper}, nil)
	if len(pairs) != 1 {
		t.Fatalf("awake body should pair with the floor, got %d", len(pairs))
	}
}

func TestSphereBoxContactNormal(t *testing.T) {
	s := NewBody(1, &Sphere{Radius: 0.5}, rl.NewVector3(0, 0.9, 0))
	bx := NewBody(1, &Box{HalfExtents: rl.NewVector3(0.5, 0.5, 0.5)}, rl.Vector3{})
	contacts := collide(bx, s, nil)
	if len(contacts) != 1 {
		t.Fatalf("got %d contacts, want 1", len(contacts))
	}
	c := contacts[0]
	if c.A != s {
		t.Fatal("sphere should be body A")
	}
	if !approx(c.Normal.Y, -1, 1e-5) {
		t.Errorf("normal = %v, want pointing from sphere down into box", c.Normal)
	}
	if !approx(c.Depth, 0.1, 1e-5) {
		t.Errorf("depth = %v, want 0.1", c.Depth)
	}
}
