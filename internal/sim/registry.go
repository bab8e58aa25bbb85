package sim

import (
	"iter"

	"physics-playground/internal/physics"
	"physics-playground/internal/scene"
)

// ObjectKind is the shape a paired object was spawned with.
type ObjectKind int

const (
	KindSphere ObjectKind = iota
	KindBox
)

func (k ObjectKind) String() string {
	if k == KindBox {
		return "box"
	}
	return "sphere"
}

// PairedObject couples a visual node with the body that drives it. After every tick
// the node pose equals the body pose.
type PairedObject struct {
	Node *scene.Node
	Body *physics.Body
	Kind ObjectKind
}

// Registry is the ordered set of paired objects. There is no removal; it is only touched
// from the frame thread.
type Registry struct {
	objects []*PairedObject
}

// Add appends o.
func (r *Registry) Add(o *PairedObject) {
	r.objects = append(r.objects, o)
}

// Len returns the number of objects.
func (r *Registry) Len() int { return len(r.objects) }

// At returns the i-th object in insertion order.
func (r *Registry) At(i int) *PairedObject { return r.objects[i] }

// ForEach calls fn for every object in insertion order.
func (r *Registry) ForEach(fn func(i int, o *PairedObject)) {
	for i, o := range r.objects {
		fn(i, o)
	}
}

// All iterates the objects in insertion order. Each call starts over.
func (r *Registry) All() iter.Seq2[int, *PairedObject] {
	return func(yield func(int, *PairedObject) bool) {
		for i, o := range r.objects {
			if !yield(i, o) {
				return
			}
		}
	}
}
