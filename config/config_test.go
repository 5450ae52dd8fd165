package config

import "testing"

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("expected info level, got %s", cfg.Logging.Level)
	}
	if cfg.Inspect.Enabled {
		t.Error("inspection surface should be off by default")
	}
	if cfg.Inspect.Addr() != "127.0.0.1:9190" {
		t.Errorf("unexpected default addr: %s", cfg.Inspect.Addr())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOCATOR_LOG_LEVEL", "debug")
	t.Setenv("LOCATOR_INSPECT_ENABLED", "true")
	t.Setenv("LOCATOR_INSPECT_PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
	if !cfg.Inspect.Enabled {
		t.Error("inspection surface should be enabled")
	}
	if cfg.Inspect.Addr() != "127.0.0.1:9999" {
		t.Errorf("unexpected addr: %s", cfg.Inspect.Addr())
	}
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	t.Setenv("LOCATOR_INSPECT_ENABLED", "not-a-bool")

	cfg := LoadOrDefault()
	if cfg.Inspect.Enabled {
		t.Error("malformed env should fall back to defaults")
	}
}
