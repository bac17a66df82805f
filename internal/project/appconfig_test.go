package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SquareFill/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultTimeLimit = 2.5
	cfg.Theme = "dark"
	cfg.DefaultSeed = 99
	cfg.RecentInstances = []string{"/tmp/in/0000.txt", "/tmp/in/0001.txt"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultTimeLimit != 2.5 {
		t.Errorf("expected DefaultTimeLimit=2.5, got %f", loaded.DefaultTimeLimit)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.Theme)
	}
	if loaded.DefaultSeed != 99 {
		t.Errorf("expected DefaultSeed=99, got %d", loaded.DefaultSeed)
	}
	if len(loaded.RecentInstances) != 2 {
		t.Errorf("expected 2 recent instances, got %d", len(loaded.RecentInstances))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultTimeLimit != defaults.DefaultTimeLimit {
		t.Errorf("expected default time limit %f, got %f", defaults.DefaultTimeLimit, cfg.DefaultTimeLimit)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected theme=system, got %s", cfg.Theme)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := []byte(`{"theme":"light","recent_instances":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentInstances == nil {
		t.Error("RecentInstances should not be nil after loading")
	}
	if cfg.DefaultProfile != "default" {
		t.Errorf("expected DefaultProfile=default, got %q", cfg.DefaultProfile)
	}
	if cfg.Theme != "light" {
		t.Errorf("expected Theme=light, got %s", cfg.Theme)
	}
}

func TestResolveSettings(t *testing.T) {
	cfg := model.DefaultAppConfig()
	cfg.DefaultTimeLimit = 0
	cfg.DefaultSeed = 5

	s := ResolveSettings(cfg, "fast")
	if s.TimeLimit != 1.0 {
		t.Errorf("expected fast profile time limit 1.0, got %f", s.TimeLimit)
	}
	if s.Seed != 5 {
		t.Errorf("expected seed from config, got %d", s.Seed)
	}

	cfg.DefaultTimeLimit = 3
	cfg.DefaultProfile = "thorough"
	s = ResolveSettings(cfg, "")
	if s.TimeLimit != 3 {
		t.Errorf("expected config time limit to win, got %f", s.TimeLimit)
	}
	if s.Weights.MultipleAdd != 0.10 {
		t.Errorf("expected thorough weights, got %+v", s.Weights)
	}
}
