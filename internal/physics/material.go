package physics

// Material is a named surface descriptor. Bodies sharing a material get consistent contacts.
type Material struct {
	Name string
}

// NewMaterial returns a material with the given name.
func NewMaterial(name string) *Material {
	return &Material{Name: name}
}

// ContactMaterial is the friction/restitution profile used when bodies with materials A and B touch.
type ContactMaterial struct {
	A, B        *Material
	Friction    float32
	Restitution float32
}

// NewContactMaterial returns the profile for the material pair (a, b).
func NewContactMaterial(a, b *Material, friction, restitution float32) *ContactMaterial {
	return &ContactMaterial{A: a, B: b, Friction: friction, Restitution: restitution}
}

func (cm *ContactMaterial) matches(a, b *Material) bool {
	return (cm.A == a && cm.B == b) || (cm.A == b && cm.B == a)
}
