// Package config loads the playground settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file path, relative to the process working directory.
const DefaultPath = "config/playground.yaml"

const (
	DefaultFixedStep   = 1.0 / 60.0
	DefaultMaxSubSteps = 3
	DefaultGravityY    = -9.82
	DefaultFriction    = 0.1
	DefaultRestitution = 0.7
	DefaultSpawnHeight = 3.0
	DefaultSpawnRange  = 1.5
	DefaultMaxSize     = 0.5
	DefaultThreshold   = 2.0
)

type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Physics PhysicsConfig `yaml:"physics"`
	Spawn   SpawnConfig   `yaml:"spawn"`
	Sound   SoundConfig   `yaml:"sound"`
	Scene   SceneConfig   `yaml:"scene"`
	Camera  CameraConfig  `yaml:"camera"`
	Remote  RemoteConfig  `yaml:"remote"`
	LogPath string        `yaml:"log_path"`
}

type WindowConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Title        string `yaml:"title"`
	Fullscreen   bool   `yaml:"fullscreen"`
	TargetFPS    int    `yaml:"target_fps"`
	ShowFPS      bool   `yaml:"show_fps"`
	ShowMemAlloc bool   `yaml:"show_memalloc"`
	GridVisible  bool   `yaml:"grid_visible"`
	// Font is a family or file name searched under assets/fonts for the overlays.
	Font string `yaml:"font"`
}

type PhysicsConfig struct {
	Gravity          [3]float32 `yaml:"gravity"`
	FixedStep        float32    `yaml:"fixed_step"`
	MaxSubSteps      int        `yaml:"max_sub_steps"`
	SolverIterations int        `yaml:"solver_iterations"`
	Broadphase       string     `yaml:"broadphase"`
	AllowSleep       bool       `yaml:"allow_sleep"`
	Friction         float32    `yaml:"friction"`
	Restitution      float32    `yaml:"restitution"`
}

type SpawnConfig struct {
	Height     float32 `yaml:"height"`
	Range      float32 `yaml:"range"`
	MaxSize    float32 `yaml:"max_size"`
	Seed       int64   `yaml:"seed"`
	TestSphere bool    `yaml:"test_sphere"`
}

type SoundConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Clip      string  `yaml:"clip"`
	Threshold float32 `yaml:"threshold"`
	Volume    float64 `yaml:"volume"`
}

type SceneConfig struct {
	EnvironmentMap   []string   `yaml:"environment_map"`
	AmbientIntensity float32    `yaml:"ambient_intensity"`
	SunIntensity     float32    `yaml:"sun_intensity"`
	SunPosition      [3]float32 `yaml:"sun_position"`
	FloorSize        float32    `yaml:"floor_size"`
}

type CameraConfig struct {
	Fov      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position [3]float32 `yaml:"position"`
	Damping  bool       `yaml:"damping"`
}

type RemoteConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns the settings of the stock playground scene.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:       1280,
			Height:      720,
			Title:       "physics playground",
			TargetFPS:   60,
			GridVisible: false,
			ShowFPS:     true,
			Font:        "Inter",
		},
		Physics: PhysicsConfig{
			Gravity:          [3]float32{0, DefaultGravityY, 0},
			FixedStep:        DefaultFixedStep,
			MaxSubSteps:      DefaultMaxSubSteps,
			SolverIterations: 10,
			Broadphase:       "naive",
			Friction:         DefaultFriction,
			Restitution:      DefaultRestitution,
		},
		Spawn: SpawnConfig{
			Height:     DefaultSpawnHeight,
			Range:      DefaultSpawnRange,
			MaxSize:    DefaultMaxSize,
			TestSphere: true,
		},
		Sound: SoundConfig{
			Enabled:   true,
			Clip:      "assets/sounds/hit.wav",
			Threshold: DefaultThreshold,
			Volume:    0,
		},
		Scene: SceneConfig{
			EnvironmentMap: []string{
				"assets/textures/environmentMaps/0/px.png",
				"assets/textures/environmentMaps/0/nx.png",
				"assets/textures/environmentMaps/0/py.png",
				"assets/textures/environmentMaps/0/ny.png",
				"assets/textures/environmentMaps/0/pz.png",
				"assets/textures/environmentMaps/0/nz.png",
			},
			AmbientIntensity: 2.1,
			SunIntensity:     0.6,
			SunPosition:      [3]float32{5, 5, 5},
			FloorSize:        10,
		},
		Camera: CameraConfig{
			Fov:      75,
			Near:     0.1,
			Far:      100,
			Position: [3]float32{-3, 3, 3},
			Damping:  true,
		},
		Remote: RemoteConfig{
			Addr: "127.0.0.1:8089",
		},
		LogPath: "logs/playground.txt",
	}
}

// Load reads path on top of Default(). A missing file yields the defaults; invalid YAML or
// values that fail Validate are errors.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if !(c.Physics.FixedStep > 0) || math.IsInf(float64(c.Physics.FixedStep), 0) {
		errs = append(errs, fmt.Errorf("physics.fixed_step must be positive, got %v", c.Physics.FixedStep))
	}
	if c.Physics.MaxSubSteps < 1 {
		errs = append(errs, fmt.Errorf("physics.max_sub_steps must be at least 1, got %d", c.Physics.MaxSubSteps))
	}
	if c.Physics.SolverIterations < 1 {
		errs = append(errs, fmt.Errorf("physics.solver_iterations must be at least 1, got %d", c.Physics.SolverIterations))
	}
	switch c.Physics.Broadphase {
	case "naive", "sap":
	default:
		errs = append(errs, fmt.Errorf("physics.broadphase must be naive or sap, got %q", c.Physics.Broadphase))
	}
	if c.Physics.Friction < 0 || c.Physics.Restitution < 0 {
		errs = append(errs, errors.New("physics.friction and physics.restitution must not be negative"))
	}
	if !(c.Spawn.MaxSize > 0) {
		errs = append(errs, fmt.Errorf("spawn.max_size must be positive, got %v", c.Spawn.MaxSize))
	}
	if c.Spawn.Range < 0 {
		errs = append(errs, fmt.Errorf("spawn.range must not be negative, got %v", c.Spawn.Range))
	}
	if c.Sound.Threshold < 0 {
		errs = append(errs, fmt.Errorf("sound.threshold must not be negative, got %v", c.Sound.Threshold))
	}
	if !(c.Camera.Fov > 0 && c.Camera.Fov < 180) {
		errs = append(errs, fmt.Errorf("camera.fov must be in (0, 180), got %v", c.Camera.Fov))
	}
	if !(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near) {
		errs = append(errs, fmt.Errorf("camera clip planes invalid: near %v far %v", c.Camera.Near, c.Camera.Far))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	return errors.Join(errs...)
}
