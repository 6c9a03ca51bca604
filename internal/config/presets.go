package config

// Presets are ready-made configurations for the common experiment
// setups.
var presets = map[string]*Config{
	"classic": {
		Scenario: "random",
		Tau:      DefaultTau,
		MaxTicks: DefaultMaxTicks,
		Noise:    NoiseConfig{Q: DefaultNoise, Vel: DefaultNoise},
		Limits:   [][2]float64{{0, 180}, {0, 120}},
		Pieces:   3,
	},
	"lockbox": {
		Scenario: "lockbox",
		Tau:      DefaultTau,
		MaxTicks: DefaultMaxTicks,
		Noise:    NoiseConfig{Q: DefaultNoise, Vel: DefaultNoise},
		Joints:   5,
	},
	"noisy": {
		Scenario: "drawer_key",
		Tau:      DefaultTau,
		MaxTicks: DefaultMaxTicks,
		Noise:    NoiseConfig{Q: 0.1, Vel: 0.1},
		Limits:   [][2]float64{{0, 180}, {0, 120}},
	},
}

// GetPreset returns a copy of the named preset, or nil when unknown.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
