package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"golox/internal/config"
)

// withWorkingDir chdirs to dir for the duration of the test, restoring
// the original working directory on cleanup.
func withWorkingDir(t *testing.T, dir string) {
	t.Helper()
	original, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(original); err != nil {
			t.Fatalf("restoring Chdir: %v", err)
		}
	})
}

func TestDefaultValues(t *testing.T) {
	cfg := config.Default()
	if !cfg.Color {
		t.Fatalf("expected Color to default to true")
	}
	if cfg.MaxCallDepth != 255 {
		t.Fatalf("expected MaxCallDepth to default to 255, got %d", cfg.MaxCallDepth)
	}
	if cfg.HistoryFile == "" {
		t.Fatalf("expected a non-empty default HistoryFile")
	}
}

func TestLoadWithNoFileOrEnvReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	withWorkingDir(t, dir)
	t.Setenv("HOME", dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := config.Default()
	if cfg.Color != want.Color || cfg.MaxCallDepth != want.MaxCallDepth {
		t.Fatalf("expected defaults when nothing overrides them, got %+v", cfg)
	}
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	withWorkingDir(t, dir)
	t.Setenv("HOME", dir)

	yaml := "historyFile: /tmp/custom_history\ncolor: false\nmaxCallDepth: 100\n"
	if err := os.WriteFile(filepath.Join(dir, ".golox.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing fixture config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HistoryFile != "/tmp/custom_history" {
		t.Fatalf("expected HistoryFile from file, got %q", cfg.HistoryFile)
	}
	if cfg.Color {
		t.Fatalf("expected Color=false from file")
	}
	if cfg.MaxCallDepth != 100 {
		t.Fatalf("expected MaxCallDepth=100 from file, got %d", cfg.MaxCallDepth)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	withWorkingDir(t, dir)
	t.Setenv("HOME", dir)

	yaml := "maxCallDepth: 100\ncolor: true\n"
	if err := os.WriteFile(filepath.Join(dir, ".golox.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing fixture config: %v", err)
	}

	t.Setenv("GOLOX_MAX_CALL_DEPTH", "42")
	t.Setenv("GOLOX_NO_COLOR", "1")
	t.Setenv("GOLOX_HISTORY_FILE", "/tmp/env_history")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxCallDepth != 42 {
		t.Fatalf("expected env to override file's maxCallDepth, got %d", cfg.MaxCallDepth)
	}
	if cfg.Color {
		t.Fatalf("expected GOLOX_NO_COLOR to override file's color:true")
	}
	if cfg.HistoryFile != "/tmp/env_history" {
		t.Fatalf("expected env to override file's historyFile, got %q", cfg.HistoryFile)
	}
}

func TestMalformedMaxCallDepthEnvFallsBackToPreviousValue(t *testing.T) {
	dir := t.TempDir()
	withWorkingDir(t, dir)
	t.Setenv("HOME", dir)

	yaml := "maxCallDepth: 100\n"
	if err := os.WriteFile(filepath.Join(dir, ".golox.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing fixture config: %v", err)
	}
	t.Setenv("GOLOX_MAX_CALL_DEPTH", "not-a-number")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxCallDepth != 100 {
		t.Fatalf("expected a malformed GOLOX_MAX_CALL_DEPTH to be ignored, kept file's 100, got %d", cfg.MaxCallDepth)
	}
}

func TestNonPositiveMaxCallDepthEnvIsIgnored(t *testing.T) {
	dir := t.TempDir()
	withWorkingDir(t, dir)
	t.Setenv("HOME", dir)
	t.Setenv("GOLOX_MAX_CALL_DEPTH", "0")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxCallDepth != config.Default().MaxCallDepth {
		t.Fatalf("expected a non-positive GOLOX_MAX_CALL_DEPTH to be ignored, got %d", cfg.MaxCallDepth)
	}
}
