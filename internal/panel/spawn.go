package panel

import (
	"math/rand/v2"

	"physics-playground/internal/sim"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Spawner creates physical objects. *sim.Context implements it.
type Spawner interface {
	SpawnSphere(radius float32, position rl.Vector3) (*sim.PairedObject, error)
	SpawnBox(width, height, depth float32, position rl.Vector3) (*sim.PairedObject, error)
}

// SpawnSettings bounds the random parameters of the spawn actions.
type SpawnSettings struct {
	Height  float32 // y of every spawn
	Range   float32 // x and z are uniform in [-Range, Range)
	MaxSize float32 // radius and box dimensions are uniform in (0, MaxSize]
}

// RegisterSpawnActions adds "spawnSphere" and "spawnBox" to reg.
func RegisterSpawnActions(reg *Registry, s Spawner, set SpawnSettings, rng *rand.Rand) {
	size := func() float32 {
		return set.MaxSize * (1 - rng.Float32())
	}
	position := func() rl.Vector3 {
		return rl.NewVector3(
			(rng.Float32()-0.5)*2*set.Range,
			set.Height,
			(rng.Float32()-0.5)*2*set.Range,
		)
	}
	reg.Register("spawnSphere", "drop a sphere of random radius", func() error {
		_, err := s.SpawnSphere(size(), position())
		return err
	})
	reg.Register("spawnBox", "drop a box of random size", func() error {
		_, err := s.SpawnBox(size(), size(), size(), position())
		return err
	})
}
