package primitives

import (
	"physics-playground/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ambientScale maps scene ambient intensity onto the lit shader's ambient term,
// which expects roughly 0..1.
const ambientScale = 0.25

// Lighting is the per-frame uniform set shared by every lit draw.
type Lighting struct {
	ViewPos        [3]float32
	LightDir       [3]float32 // direction to the light, normalized
	Ambient        [4]float32
	LightColor     [3]float32
	LightIntensity float32
}

// LightingFor derives the frame's lighting from the scene lights and the camera.
func LightingFor(s *scene.Scene, cam *scene.Camera) Lighting {
	dir := s.Sun.Direction()
	ai := s.Ambient.Intensity * ambientScale
	return Lighting{
		ViewPos:  [3]float32{cam.Position.X, cam.Position.Y, cam.Position.Z},
		LightDir: [3]float32{dir.X, dir.Y, dir.Z},
		Ambient: [4]float32{
			unit(s.Ambient.Color.R) * ai,
			unit(s.Ambient.Color.G) * ai,
			unit(s.Ambient.Color.B) * ai,
			1,
		},
		LightColor:     [3]float32{unit(s.Sun.Color.R), unit(s.Sun.Color.G), unit(s.Sun.Color.B)},
		LightIntensity: s.Sun.Intensity,
	}
}

// material is the per-node part of the lit shader input.
type material struct {
	tint             [4]float32
	specularPower    float32
	specularStrength float32
}

// materialFor turns metalness/roughness into the Blinn-Phong terms the shader understands.
// Rough surfaces get a wide dim highlight; metals tint the base color darker.
func materialFor(sf scene.Surface, envTint [3]float32) material {
	rough := clamp01(sf.Roughness)
	metal := clamp01(sf.Metalness)
	base := [3]float32{unit(sf.Color.R), unit(sf.Color.G), unit(sf.Color.B)}
	env := clamp01(sf.EnvIntensity) * metal
	var tint [4]float32
	for i := range base {
		tint[i] = base[i]*(1-0.5*metal) + envTint[i]*env
	}
	tint[3] = unit(sf.Color.A)
	smooth := 1 - rough
	return material{
		tint:             tint,
		specularPower:    2 + 126*smooth*smooth,
		specularStrength: 0.05 + 0.6*smooth,
	}
}

func unit(c uint8) float32 { return float32(c) / 255 }

func clamp01(v float32) float32 { return max(0, min(v, 1)) }

// transform builds scale, then rotation, then translation.
func transform(n *scene.Node) rl.Matrix {
	sx, sy, sz := n.Scale.X, n.Scale.Y, n.Scale.Z
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	if sz == 0 {
		sz = 1
	}
	scaleM := rl.MatrixScale(sx, sy, sz)
	rotM := rl.QuaternionToMatrix(n.Rotation)
	transM := rl.MatrixTranslate(n.Position.X, n.Position.Y, n.Position.Z)
	return rl.MatrixMultiply(rl.MatrixMultiply(scaleM, rotM), transM)
}
