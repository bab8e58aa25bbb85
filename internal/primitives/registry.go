package primitives

import (
	"physics-playground/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// cached holds mesh and material for a primitive. Created lazily on first Draw.
type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
}

// Registry maps primitives to mesh+material. Meshes are created on first use
// so that GPU resources are allocated after the window/OpenGL context exists.
type Registry struct {
	cache    map[scene.Primitive]cached
	shader   rl.Shader
	lighting Lighting
	envTint  [3]float32
}

// NewRegistry returns a registry with no meshes.
func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[scene.Primitive]cached),
	}
}

// defaultSphereRings and defaultSphereSlices control sphere mesh resolution.
const defaultSphereRings = 32
const defaultSphereSlices = 32

// skyTint approximates the average color of the environment map for metallic reflections.
var skyTint = [3]float32{0.55, 0.6, 0.68}

// SetScene captures the lights and camera for this frame. Call once per frame before drawing.
func (r *Registry) SetScene(s *scene.Scene, cam *scene.Camera) {
	r.lighting = LightingFor(s, cam)
	r.envTint = [3]float32{}
	if s.HasEnvironmentMap() {
		r.envTint = skyTint
	}
}

// ensure creates the mesh and material for prim if not yet cached.
// All primitives share one lit shader (directional light + ambient + specular).
func (r *Registry) ensure(prim scene.Primitive) (cached, bool) {
	if c, ok := r.cache[prim]; ok {
		return c, true
	}
	var mesh rl.Mesh
	switch prim {
	case scene.PrimitiveSphere:
		mesh = rl.GenMeshSphere(1, defaultSphereRings, defaultSphereSlices)
	case scene.PrimitiveCube:
		mesh = rl.GenMeshCube(1, 1, 1)
	case scene.PrimitivePlane:
		mesh = rl.GenMeshPlane(1, 1, 1, 1)
	default:
		return cached{}, false
	}
	if !rl.IsShaderValid(r.shader) {
		r.shader = loadLitShader()
	}
	mtl := rl.LoadMaterialDefault()
	if rl.IsShaderValid(r.shader) {
		mtl.Shader = r.shader
	}
	c := cached{mesh: mesh, mtl: mtl}
	r.cache[prim] = c
	return c, true
}

// Draw draws one node with its full pose. Must be called between BeginMode3D and EndMode3D,
// after SetScene. Hidden nodes and unknown primitives are skipped.
func (r *Registry) Draw(n *scene.Node) {
	if !n.Visible {
		return
	}
	c, ok := r.ensure(n.Primitive)
	if !ok {
		return
	}
	m := materialFor(n.Surface, r.envTint)
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rl.NewColor(
			uint8(clamp01(m.tint[0])*255),
			uint8(clamp01(m.tint[1])*255),
			uint8(clamp01(m.tint[2])*255),
			uint8(clamp01(m.tint[3])*255),
		)
	}
	r.setLitShaderUniforms(c.mtl.Shader, m)
	rl.DrawMesh(c.mesh, c.mtl, transform(n))
}

// DrawAll draws every node of the scene in order.
func (r *Registry) DrawAll(s *scene.Scene) {
	for _, n := range s.Nodes {
		r.Draw(n)
	}
}

// Unload frees the cached meshes and the shader.
func (r *Registry) Unload() {
	for k, c := range r.cache {
		rl.UnloadMesh(&c.mesh)
		delete(r.cache, k)
	}
	if rl.IsShaderValid(r.shader) {
		rl.UnloadShader(r.shader)
	}
}

// loadLitShader returns a shader that does simple directional light + ambient.
// Same vertex attributes as raylib meshes: vertexPosition, vertexTexCoord, vertexNormal.
// raylib fills matNormal with transpose(inverse(matModel)) on every DrawMesh.
func loadLitShader() rl.Shader {
	return rl.LoadShaderFromMemory(litVS, litFS)
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
uniform mat4 matNormal;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragTexCoord = vertexTexCoord;
  fragNormal = normalize(vec3(matNormal * vec4(vertexNormal, 0.0)));
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float NdotH = max(dot(N, H), 0.0);
  float spec = pow(NdotH, specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
)

// setLitShaderUniforms sets lighting and specular uniforms on the given shader (cgo-safe: local arrays).
func (r *Registry) setLitShaderUniforms(shader rl.Shader, m material) {
	if !rl.IsShaderValid(shader) {
		return
	}
	l := r.lighting
	viewPos := l.ViewPos
	lightDir := l.LightDir
	amb := l.Ambient
	lightColor := l.LightColor
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightDir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightColor"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightColor[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightIntensity"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{l.LightIntensity}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularPower"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{m.specularPower}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{m.specularStrength}, rl.ShaderUniformFloat)
	}
}
