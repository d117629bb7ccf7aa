package config

import "testing"

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.RelTol <= 0 {
		t.Error("reltol should be positive")
	}
	if cfg.Method != "variable" {
		t.Errorf("expected method variable, got %s", cfg.Method)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("vanderpol-stiff")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Params["mu"] != 1000 {
		t.Errorf("expected mu 1000, got %v", cfg.Params["mu"])
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Error("expected at least one preset")
	}
}
