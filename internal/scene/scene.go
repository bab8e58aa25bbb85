package scene

import (
	"physics-playground/internal/assets"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	gridExtent     = 50
	gridMinorStep  = 1
	gridMajorStep  = 10
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
)

// Scene holds the visual nodes, the lights and the optional environment map.
// Nodes are drawn in insertion order.
type Scene struct {
	Nodes      []*Node
	Ambient    AmbientLight
	Sun        DirectionalLight
	Background rl.Color

	GridVisible bool

	// Environment map: six cube faces composed into one cubemap. GPU load is deferred until
	// the first DrawBackdrop so it runs after the window/GL context exists.
	envFaces   []string
	envPending bool
	envLoaded  bool
	envTex     rl.Texture2D
	envMesh    rl.Mesh
	envMtl     rl.Material
	envShader  rl.Shader
}

// New returns an empty scene with white lights and the grid hidden.
func New() *Scene {
	return &Scene{
		Ambient:    AmbientLight{Color: rl.White, Intensity: 1},
		Sun:        DirectionalLight{Color: rl.White, Intensity: 1, Position: rl.NewVector3(5, 5, 5)},
		Background: rl.Black,
	}
}

// Add appends a node to the scene.
func (s *Scene) Add(n *Node) {
	s.Nodes = append(s.Nodes, n)
}

// SetEnvironmentMap resolves the six cube faces (+X, -X, +Y, -Y, +Z, -Z). A missing face
// returns *assets.ResourceLoadError and leaves the scene without an environment map.
func (s *Scene) SetEnvironmentMap(faces []string) error {
	if len(faces) != 6 {
		return &assets.ResourceLoadError{Kind: "texture", Path: "environment map", Err: errFaceCount}
	}
	found, err := assets.FindAll("texture", faces)
	if err != nil {
		return err
	}
	s.envFaces = found
	s.envPending = true
	return nil
}

// HasEnvironmentMap reports whether a cube map is loaded or waiting for the first draw.
func (s *Scene) HasEnvironmentMap() bool {
	return s.envLoaded || s.envPending
}

// ensureEnvironmentLoaded stacks the faces into a vertical strip and uploads it as a cubemap.
func (s *Scene) ensureEnvironmentLoaded() {
	if !s.envPending {
		return
	}
	s.envPending = false

	var strip *rl.Image
	var size int32
	for i, path := range s.envFaces {
		face := rl.LoadImage(path)
		if face == nil || face.Width <= 0 || face.Height <= 0 {
			if strip != nil {
				rl.UnloadImage(strip)
			}
			return
		}
		if strip == nil {
			size = face.Width
			strip = rl.GenImageColor(int(size), int(size)*6, rl.Black)
		}
		src := rl.NewRectangle(0, 0, float32(face.Width), float32(face.Height))
		dst := rl.NewRectangle(0, float32(int32(i)*size), float32(size), float32(size))
		rl.ImageDraw(strip, face, src, dst, rl.White)
		rl.UnloadImage(face)
	}
	if strip == nil {
		return
	}
	s.envTex = rl.LoadTextureCubemap(strip, rl.CubemapLayoutLineVertical)
	rl.UnloadImage(strip)
	if !rl.IsTextureValid(s.envTex) {
		return
	}
	s.envShader = rl.LoadShaderFromMemory(skyboxVS, skyboxFS)
	if !rl.IsShaderValid(s.envShader) {
		rl.UnloadTexture(s.envTex)
		return
	}
	// DrawMesh binds the cubemap map to the sampler at this location.
	s.envShader.UpdateLocation(rl.ShaderLocMapCubemap, rl.GetShaderLocation(s.envShader, "environmentMap"))
	s.envMesh = rl.GenMeshCube(1, 1, 1)
	s.envMtl = rl.LoadMaterialDefault()
	s.envMtl.Shader = s.envShader
	rl.SetMaterialTexture(&s.envMtl, rl.MapCubemap, s.envTex)
	s.envLoaded = true
}

// Unload frees the environment map. Call before the window closes.
func (s *Scene) Unload() {
	if !s.envLoaded {
		return
	}
	s.envLoaded = false
	rl.UnloadMesh(&s.envMesh)
	rl.UnloadShader(s.envShader)
	rl.UnloadTexture(s.envTex)
}

// DrawBackdrop draws the environment map and the grid. Call between BeginMode3D and EndMode3D,
// before the nodes.
func (s *Scene) DrawBackdrop() {
	s.ensureEnvironmentLoaded()
	if s.envLoaded {
		drawSkybox(s)
	}
	if s.GridVisible {
		drawEditorGrid()
	}
}

// drawSkybox draws the cube map around the camera. The shader drops the view translation,
// so the unit cube never clips or moves.
func drawSkybox(s *Scene) {
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	rl.DrawMesh(s.envMesh, s.envMtl, rl.MatrixIdentity())
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
}

const (
	skyboxVS = `#version 330
in vec3 vertexPosition;
uniform mat4 matProjection;
uniform mat4 matView;
out vec3 fragPosition;
void main() {
  fragPosition = vertexPosition;
  mat4 rotView = mat4(mat3(matView));
  gl_Position = matProjection * rotView * vec4(vertexPosition, 1.0);
}
`
	skyboxFS = `#version 330
in vec3 fragPosition;
uniform samplerCube environmentMap;
out vec4 finalColor;
void main() {
  finalColor = vec4(texture(environmentMap, fragPosition).rgb, 1.0);
}
`
)

// drawEditorGrid draws a grid on the XZ plane with major/minor lines and axis lines.
func drawEditorGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)
	axisX := rl.NewColor(220, 80, 80, axisLineAlpha)
	axisY := rl.NewColor(80, 220, 80, axisLineAlpha)
	axisZ := rl.NewColor(80, 80, 220, axisLineAlpha)

	var start, end rl.Vector3
	for x := -gridExtent; x <= gridExtent; x += gridMinorStep {
		c := major
		if x%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(x), 0, float32(-gridExtent)
		end.X, end.Y, end.Z = float32(x), 0, float32(gridExtent)
		rl.DrawLine3D(start, end, c)
	}
	for z := -gridExtent; z <= gridExtent; z += gridMinorStep {
		c := major
		if z%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(-gridExtent), 0, float32(z)
		end.X, end.Y, end.Z = float32(gridExtent), 0, float32(z)
		rl.DrawLine3D(start, end, c)
	}

	rl.DrawLine3D(rl.NewVector3(-gridExtent, 0, 0), rl.NewVector3(gridExtent, 0, 0), axisX)
	rl.DrawLine3D(rl.NewVector3(0, -gridExtent, 0), rl.NewVector3(0, gridExtent, 0), axisY)
	rl.DrawLine3D(rl.NewVector3(0, 0, -gridExtent), rl.NewVector3(0, 0, gridExtent), axisZ)
}
