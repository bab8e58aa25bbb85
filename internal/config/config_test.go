package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Physics.Gravity != [3]float32{0, -9.82, 0} {
		t.Errorf("gravity = %v", cfg.Physics.Gravity)
	}
	if cfg.Physics.MaxSubSteps != 3 || cfg.Spawn.Height != 3 || cfg.Sound.Threshold != 2 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Camera.Position != [3]float32{-3, 3, 3} || cfg.Camera.Fov != 75 {
		t.Errorf("camera defaults = %+v", cfg.Camera)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Physics.Friction != DefaultFriction {
		t.Errorf("friction = %v, want default", cfg.Physics.Friction)
	}
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playground.yaml")
	data := `
physics:
  broadphase: sap
  allow_sleep: true
spawn:
  seed: 42
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Physics.Broadphase != "sap" || !cfg.Physics.AllowSleep || cfg.Spawn.Seed != 42 {
		t.Errorf("overrides not applied: %+v %+v", cfg.Physics, cfg.Spawn)
	}
	if cfg.Physics.MaxSubSteps != DefaultMaxSubSteps || cfg.Spawn.Height != DefaultSpawnHeight {
		t.Errorf("unset fields should keep defaults: %+v %+v", cfg.Physics, cfg.Spawn)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("physics: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero step", func(c *Config) { c.Physics.FixedStep = 0 }, "fixed_step"},
		{"no sub steps", func(c *Config) { c.Physics.MaxSubSteps = 0 }, "max_sub_steps"},
		{"bad broadphase", func(c *Config) { c.Physics.Broadphase = "grid" }, "broadphase"},
		{"negative restitution", func(c *Config) { c.Physics.Restitution = -1 }, "restitution"},
		{"zero max size", func(c *Config) { c.Spawn.MaxSize = 0 }, "max_size"},
		{"fov", func(c *Config) { c.Camera.Fov = 180 }, "fov"},
		{"clip planes", func(c *Config) { c.Camera.Far = 0.05 }, "clip planes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "playground.yaml")
	cfg := Default()
	cfg.Spawn.Seed = 7
	cfg.Remote.Enabled = true
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Spawn.Seed != 7 || !got.Remote.Enabled || len(got.Scene.EnvironmentMap) != 6 {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestShippedConfigMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", DefaultPath))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Physics != def.Physics || cfg.Spawn != def.Spawn || cfg.Camera != def.Camera {
		t.Errorf("shipped config drifted from defaults:\n%+v\n%+v", cfg.Physics, def.Physics)
	}
	if len(cfg.Scene.EnvironmentMap) != 6 || cfg.Window.Font != def.Window.Font {
		t.Errorf("scene/window = %+v %+v", cfg.Scene, cfg.Window)
	}
}
