package config

import "sort"

// Presets are keyed by mode, then by preset name.
var Presets = map[string]map[string]*Config{
	ModeCollision: {
		"default": DefaultConfig(),
		"crowded": withParticles(DefaultConfig(), ParticleConfig{
			NumParticles: 120, MinMass: 0.25, MaxMass: 1, MaxVelocity: 0.01, Radius: 0.05,
		}),
		"heavy": withParticles(DefaultConfig(), ParticleConfig{
			NumParticles: 20, MinMass: 0.1, MaxMass: 10, MaxVelocity: 0.02, Radius: 0.08,
		}),
	},
	ModeGravity: {
		"default": gravity(100, "wrap", "exact", "euler", 0.5, ParticleConfig{
			NumParticles: 100, MinMass: 0.25, MaxMass: 1, MaxVelocity: 0.015,
		}),
		"cluster": gravity(100, "open", "exact", "leapfrog", 1, ParticleConfig{
			NumParticles: 50, MinMass: 0.5, MaxMass: 2, MaxVelocity: 0.005,
		}),
		"galaxy": gravity(200, "wrap", "barneshut", "leapfrog", 1, ParticleConfig{
			NumParticles: 500, MinMass: 0.1, MaxMass: 1, MaxVelocity: 0.02,
		}),
	},
}

func withParticles(cfg *Config, p ParticleConfig) *Config {
	p.VelocityMode = cfg.Particles.VelocityMode
	cfg.Particles = p
	return cfg
}

func gravity(size float64, boundary, solver, integ string, scale float64, p ParticleConfig) *Config {
	cfg := withParticles(DefaultConfig(), p)
	cfg.Mode = ModeGravity
	cfg.Boundary = boundary
	cfg.Solver = solver
	cfg.Integrator = integ
	cfg.Arena = ArenaConfig{Width: size, Height: size}
	cfg.Gravity.VelocityScale = scale
	cfg.Gravity.MinDistance = 0.5
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(mode, preset string) *Config {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	cfg, ok := modePresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(mode string) []string {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modePresets))
	for name := range modePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListModes() []string {
	modes := make([]string, 0, len(Presets))
	for m := range Presets {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	return modes
}
