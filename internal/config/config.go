package config

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/particlespace/internal/dynamo"
)

const (
	ModeGravity   = "gravity"
	ModeCollision = "collision"
)

const (
	DefaultSeed          = 42
	DefaultSteps         = 1000
	DefaultSampleEvery   = 10
	DefaultNumParticles  = 10
	DefaultMinMass       = 0.25
	DefaultMaxMass       = 1.0
	DefaultMaxVelocity   = 0.015
	DefaultRadius        = 0.1
	DefaultBound         = 1.0
	DefaultG             = 1.0
	DefaultMinDistance   = 0.01
	DefaultVelocityScale = 1.0
	DefaultTheta         = 0.5
	DefaultEpsilon       = 1e-9
)

type Config struct {
	Mode        string          `yaml:"mode"`
	Boundary    string          `yaml:"boundary"`
	Resolver    string          `yaml:"resolver"`
	Solver      string          `yaml:"solver"`
	Integrator  string          `yaml:"integrator"`
	Seed        int64           `yaml:"seed"`
	Steps       int             `yaml:"steps"`
	SampleEvery int             `yaml:"sample_every"`
	Particles   ParticleConfig  `yaml:"particles"`
	Arena       ArenaConfig     `yaml:"arena"`
	Gravity     GravityConfig   `yaml:"gravity"`
	Collision   CollisionConfig `yaml:"collision"`
}

type ParticleConfig struct {
	NumParticles         int     `yaml:"num_particles"`
	MinMass              float64 `yaml:"min_mass"`
	MaxMass              float64 `yaml:"max_mass"`
	MaxVelocity          float64 `yaml:"max_velocity"`
	Radius               float64 `yaml:"radius"`
	VelocityMode         string  `yaml:"velocity_mode"`
	MaxPlacementAttempts int     `yaml:"max_placement_attempts"`
}

// ArenaConfig is either a symmetric square [-bound, bound]² when Bound is
// positive, or [0, width] × [0, height].
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Bound  float64 `yaml:"bound"`
}

type GravityConfig struct {
	GravityConstant float64 `yaml:"gravity_constant"`
	MinDistance     float64 `yaml:"min_distance"`
	VelocityScale   float64 `yaml:"velocity_scale"`
	Theta           float64 `yaml:"theta"`
}

type CollisionConfig struct {
	Epsilon float64 `yaml:"epsilon"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:        ModeCollision,
		Boundary:    "reflect",
		Resolver:    "elastic",
		Solver:      "exact",
		Integrator:  "euler",
		Seed:        DefaultSeed,
		Steps:       DefaultSteps,
		SampleEvery: DefaultSampleEvery,
		Particles: ParticleConfig{
			NumParticles: DefaultNumParticles,
			MinMass:      DefaultMinMass,
			MaxMass:      DefaultMaxMass,
			MaxVelocity:  DefaultMaxVelocity,
			Radius:       DefaultRadius,
			VelocityMode: string(dynamo.VelocitySymmetric),
		},
		Arena: ArenaConfig{Bound: DefaultBound},
		Gravity: GravityConfig{
			GravityConstant: DefaultG,
			MinDistance:     DefaultMinDistance,
			VelocityScale:   DefaultVelocityScale,
			Theta:           DefaultTheta,
		},
		Collision: CollisionConfig{Epsilon: DefaultEpsilon},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Bounds() dynamo.Bounds {
	if c.Arena.Bound > 0 {
		return dynamo.Symmetric(c.Arena.Bound)
	}
	return dynamo.Rect(c.Arena.Width, c.Arena.Height)
}

// GenerateSpec maps the particle section onto the factory. Collision mode
// forbids overlapping spawns.
func (c *Config) GenerateSpec() dynamo.GenerateSpec {
	return dynamo.GenerateSpec{
		Count:        c.Particles.NumParticles,
		MinMass:      c.Particles.MinMass,
		MaxMass:      c.Particles.MaxMass,
		MaxVelocity:  c.Particles.MaxVelocity,
		Radius:       c.Particles.Radius,
		Bounds:       c.Bounds(),
		VelocityMode: dynamo.VelocityMode(c.Particles.VelocityMode),
		NoOverlap:    c.Mode == ModeCollision,
		MaxAttempts:  c.Particles.MaxPlacementAttempts,
	}
}

func (c *Config) RunConfig() dynamo.RunConfig {
	return dynamo.RunConfig{
		Steps:         c.Steps,
		SampleEvery:   c.SampleEvery,
		ValidateState: true,
	}
}

// Validate checks every numeric parameter. Component names are checked by
// the registry that resolves them.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeGravity, ModeCollision:
	default:
		return invalid("mode", "must be %q or %q, got %q", ModeGravity, ModeCollision, c.Mode)
	}
	if c.Steps < 0 {
		return invalid("steps", "must be non-negative, got %d", c.Steps)
	}
	if c.SampleEvery < 1 {
		return invalid("sample_every", "must be at least 1, got %d", c.SampleEvery)
	}
	if c.Arena.Bound < 0 || math.IsInf(c.Arena.Bound, 0) || math.IsNaN(c.Arena.Bound) {
		return invalid("bound", "must be positive, got %g", c.Arena.Bound)
	}
	if c.Arena.Bound == 0 && !(c.Arena.Width > 0 && c.Arena.Height > 0) {
		return invalid("arena", "needs a positive bound or positive width and height")
	}

	g := c.Gravity
	if !finiteNonNeg(g.GravityConstant) {
		return invalid("gravity_constant", "must be finite and non-negative, got %g", g.GravityConstant)
	}
	if !finiteNonNeg(g.MinDistance) {
		return invalid("min_distance", "must be finite and non-negative, got %g", g.MinDistance)
	}
	if !(g.VelocityScale > 0) || math.IsInf(g.VelocityScale, 0) {
		return invalid("velocity_scale", "must be positive, got %g", g.VelocityScale)
	}
	if !finiteNonNeg(g.Theta) {
		return invalid("theta", "must be finite and non-negative, got %g", g.Theta)
	}
	if !finiteNonNeg(c.Collision.Epsilon) {
		return invalid("epsilon", "must be finite and non-negative, got %g", c.Collision.Epsilon)
	}

	return c.GenerateSpec().Validate()
}

func finiteNonNeg(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

func invalid(field, format string, args ...any) error {
	return &dynamo.ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
