package config

// Presets maps named integration scenarios to ready-to-run configs.
var Presets = map[string]*Config{
	"vanderpol-stiff": {
		Problem: "vanderpol", TargetT: 3000, RelTol: 1e-4, AbsTol: 1e-6,
		InitialStep: 1e-6, MaxAttempts: 200000,
		Params: map[string]float64{"mu": 1000},
	},
	"vanderpol-soft": {
		Problem: "vanderpol", TargetT: 20, RelTol: 1e-6, AbsTol: 1e-8,
		InitialStep: 1e-3, MaxAttempts: 20000,
		Params: map[string]float64{"mu": 1},
	},
	"decay": {
		Problem: "decay", TargetT: 1, RelTol: 1e-6, AbsTol: 1e-10,
		InitialStep: 1e-4, MaxAttempts: 10000,
		Params: map[string]float64{"lambda": 10},
	},
	"robertson": {
		Problem: "robertson", TargetT: 1, RelTol: 1e-4, AbsTol: 1e-8,
		InitialStep: 1e-8, MaxAttempts: 50000,
	},
}

// GetPreset returns a named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ListPresets returns every preset name.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
