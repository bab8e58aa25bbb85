package sim

import "physics-playground/internal/physics"

// SoundPlayer plays the collision sound. impactSpeed lets players scale volume.
type SoundPlayer interface {
	Play(impactSpeed float32)
}

// dispatchSounds plays one sound per colliding body pair whose fastest contact in the last
// step exceeded the threshold. At least one body must be an emitter. Returns the number played.
func (c *Context) dispatchSounds() int {
	if c.Sounds == nil {
		return 0
	}
	type pair struct{ a, b *physics.Body }
	var order []pair
	fastest := make(map[pair]float32)
	for _, ct := range c.World.Contacts() {
		if !c.IsSoundEmitter(ct.A) && !c.IsSoundEmitter(ct.B) {
			continue
		}
		if ct.ImpactSpeed <= c.SoundThreshold {
			continue
		}
		p := pair{ct.A, ct.B}
		if ct.A.ID > ct.B.ID {
			p = pair{ct.B, ct.A}
		}
		prev, seen := fastest[p]
		if !seen {
			order = append(order, p)
		}
		if !seen || ct.ImpactSpeed > prev {
			fastest[p] = ct.ImpactSpeed
		}
	}
	for _, p := range order {
		c.Sounds.Play(fastest[p])
	}
	return len(order)
}
