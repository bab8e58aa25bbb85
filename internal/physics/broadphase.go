package physics

import (
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Pair is a candidate body pair produced by the broad-phase.
type Pair struct {
	A, B *Body
}

// Broadphase prunes body pairs that cannot touch before the narrow-phase runs.
type Broadphase interface {
	// Pairs appends candidate pairs for bodies to dst and returns it.
	Pairs(bodies []*Body, dst []Pair) []Pair
}

// needsCollision filters pairs that can never produce a useful contact.
func needsCollision(a, b *Body) bool {
	aIdle := a.IsStatic() || a.sleeping()
	bIdle := b.IsStatic() || b.sleeping()
	return !(aIdle && bIdle)
}

// NaiveBroadphase tests every pair with an AABB overlap check.
type NaiveBroadphase struct{}

func (NaiveBroadphase) Pairs(bodies []*Body, dst []Pair) []Pair {
	for i := 0; i < len(bodies); i++ {
		bi := bodies[i]
		boxI := bi.AABB()
		for j := i + 1; j < len(bodies); j++ {
			bj := bodies[j]
			if !needsCollision(bi, bj) {
				continue
			}
			if !rl.CheckCollisionBoxes(boxI, bj.AABB()) {
				continue
			}
			dst = append(dst, Pair{A: bi, B: bj})
		}
	}
	return dst
}

// SAPBroadphase sorts bodies along one axis and only tests bodies whose intervals overlap
// on that axis (sweep and prune).
type SAPBroadphase struct {
	// Axis is 0 (X), 1 (Y) or 2 (Z).
	Axis int

	boxes []sapEntry
}

type sapEntry struct {
	body *Body
	box  rl.BoundingBox
}

func axisValue(v rl.Vector3, axis int) float32 {
	switch axis {
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	return v.X
}

func (s *SAPBroadphase) Pairs(bodies []*Body, dst []Pair) []Pair {
	s.boxes = s.boxes[:0]
	for _, b := range bodies {
		s.boxes = append(s.boxes, sapEntry{body: b, box: b.AABB()})
	}
	sort.SliceStable(s.boxes, func(i, j int) bool {
		return axisValue(s.boxes[i].box.Min, s.Axis) < axisValue(s.boxes[j].box.Min, s.Axis)
	})
	for i := 0; i < len(s.boxes); i++ {
		ei := s.boxes[i]
		hi := axisValue(ei.box.Max, s.Axis)
		for j := i + 1; j < len(s.boxes); j++ {
			ej := s.boxes[j]
			if axisValue(ej.box.Min, s.Axis) > hi {
				break
			}
			if !needsCollision(ei.body, ej.body) {
				continue
			}
			if !rl.CheckCollisionBoxes(ei.box, ej.box) {
				continue
			}
			dst = append(dst, orderedPair(ei.body, ej.body))
		}
	}
	return dst
}

// orderedPair keeps pairs in insertion order so results do not depend on the sort.
func orderedPair(a, b *Body) Pair {
	if a.ID > b.ID {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}
