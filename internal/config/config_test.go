package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/particlespace/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeCollision {
		t.Errorf("expected mode collision, got %s", cfg.Mode)
	}
	if cfg.Particles.NumParticles != 10 || cfg.Particles.MaxVelocity != 0.015 || cfg.Particles.Radius != 0.1 {
		t.Errorf("unexpected particle defaults %+v", cfg.Particles)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestBounds(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Bounds(); got != dynamo.Symmetric(1) {
		t.Errorf("bound 1: got %+v", got)
	}
	cfg.Arena = ArenaConfig{Width: 4, Height: 3}
	if got := cfg.Bounds(); got != dynamo.Rect(4, 3) {
		t.Errorf("width/height: got %+v", got)
	}
}

func TestGenerateSpec(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.GenerateSpec().NoOverlap {
		t.Error("collision mode should forbid overlapping spawns")
	}
	cfg.Mode = ModeGravity
	if cfg.GenerateSpec().NoOverlap {
		t.Error("gravity mode should allow overlapping spawns")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"unknown mode", func(c *Config) { c.Mode = "fluid" }, "mode"},
		{"negative steps", func(c *Config) { c.Steps = -1 }, "steps"},
		{"zero sample", func(c *Config) { c.SampleEvery = 0 }, "sample_every"},
		{"no arena", func(c *Config) { c.Arena = ArenaConfig{} }, "arena"},
		{"negative bound", func(c *Config) { c.Arena.Bound = -1 }, "bound"},
		{"negative G", func(c *Config) { c.Gravity.GravityConstant = -1 }, "gravity_constant"},
		{"zero scale", func(c *Config) { c.Gravity.VelocityScale = 0 }, "velocity_scale"},
		{"negative theta", func(c *Config) { c.Gravity.Theta = -0.1 }, "theta"},
		{"no particles", func(c *Config) { c.Particles.NumParticles = 0 }, "num_particles"},
		{"zero mass", func(c *Config) { c.Particles.MinMass = 0 }, "min_mass"},
		{"negative radius", func(c *Config) { c.Particles.Radius = -1 }, "radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			var cfgErr *dynamo.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset(ModeGravity, "galaxy")
	cfg.Seed = 7

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "mode: gravity\nparticles:\n  num_particles: 3\ngravity:\n  gravity_constant: 0.1\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != ModeGravity || cfg.Particles.NumParticles != 3 || cfg.Gravity.GravityConstant != 0.1 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Particles.MaxMass != DefaultMaxMass || cfg.Steps != DefaultSteps {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("particle_count: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(ModeGravity, "default")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Gravity.VelocityScale != 0.5 || cfg.Boundary != "wrap" {
		t.Errorf("unexpected gravity default %+v", cfg)
	}

	cfg.Particles.NumParticles = 1
	if again := GetPreset(ModeGravity, "default"); again.Particles.NumParticles == 1 {
		t.Error("GetPreset returned shared state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset(ModeCollision, "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "default"); cfg != nil {
		t.Error("expected nil for nonexistent mode")
	}
}

func TestPresetsValid(t *testing.T) {
	for _, mode := range ListModes() {
		for _, name := range ListPresets(mode) {
			cfg := GetPreset(mode, name)
			if cfg.Mode != mode {
				t.Errorf("%s/%s has mode %s", mode, name, cfg.Mode)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", mode, name, err)
			}
		}
	}
}

func TestListPresets(t *testing.T) {
	if diff := cmp.Diff([]string{"crowded", "default", "heavy"}, ListPresets(ModeCollision)); diff != "" {
		t.Errorf("presets (-want +got):\n%s", diff)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent mode")
	}
	if diff := cmp.Diff([]string{ModeCollision, ModeGravity}, ListModes()); diff != "" {
		t.Errorf("modes (-want +got):\n%s", diff)
	}
}
