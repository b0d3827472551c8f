package sic_controllers

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSimulationSettings(t *testing.T) {
	content := `{
		"max_worker_count": 2,
		"block_count": 10,
		"block_lengths": [100],
		"pilot_sizes": [20],
		"user_configs": [2, 4],
		"antenna_configs": [2],
		"snr_configs": [6, 10],
		"iterations": 3,
		"mechanisms": ["ALWAYS", "DRIFT"],
		"drift_threshold": 12.0,
		"modular": true,
		"retrain_period": 5,
		"drift_every": 10,
		"drift_scale": 0.5
	}`
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s := SimulationController{}
	settings, err := s.LoadSimulationSettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if settings.MaxWorkerCount != 2 || settings.BlockCount != 10 {
		t.Errorf("worker/block counts wrong: %d, %d", settings.MaxWorkerCount, settings.BlockCount)
	}
	if len(settings.UserConfigs) != 2 || settings.UserConfigs[1] != 4 {
		t.Errorf("user configs = %v", settings.UserConfigs)
	}
	if len(settings.Mechanisms) != 2 || settings.Mechanisms[1] != "DRIFT" {
		t.Errorf("mechanisms = %v", settings.Mechanisms)
	}
	if settings.DriftThreshold != 12.0 || !settings.Modular {
		t.Errorf("drift settings wrong: %v, %v", settings.DriftThreshold, settings.Modular)
	}
}

func TestLoadSimulationSettingsErrors(t *testing.T) {
	s := SimulationController{}
	if _, err := s.LoadSimulationSettings(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("expected error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadSimulationSettings(path); err == nil {
		t.Errorf("expected error for malformed JSON")
	}
}

func TestGenerateTokenDistinguishesConfigs(t *testing.T) {
	s := SimulationController{}
	now := time.Now()
	a, err := SettingsFactory(100, 20, 2, 2, 3, 10, "ALWAYS", 12, false, 5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := SettingsFactory(100, 20, 4, 2, 3, 10, "ALWAYS", 12, false, 5)
	if err != nil {
		t.Fatal(err)
	}

	if s.generateToken(now, a) != s.generateToken(now, a) {
		t.Errorf("token not deterministic for identical inputs")
	}
	if s.generateToken(now, a) == s.generateToken(now, b) {
		t.Errorf("distinct configs collided")
	}
	if len(s.generateToken(now, a)) != 64 {
		t.Errorf("token length %d, want 64 hex chars", len(s.generateToken(now, a)))
	}
}

func TestAnyEnabled(t *testing.T) {
	if anyEnabled([]bool{false, false}) {
		t.Errorf("all-false slice reported enabled")
	}
	if !anyEnabled([]bool{false, true}) {
		t.Errorf("enabled user not detected")
	}
	if anyEnabled(nil) {
		t.Errorf("nil slice reported enabled")
	}
}
