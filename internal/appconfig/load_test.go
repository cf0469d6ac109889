package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadRejectsUnsupportedConfigVersion(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
control_plane:
  base_url: https://pinacle.dev
workbench:
  base_domain: pinacle.dev
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config_version") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRejectsLegacyScreenshotKey(t *testing.T) {
	path := writeConfig(t, `
config_version: 2
control_plane:
  base_url: https://pinacle.dev
workbench:
  base_domain: pinacle.dev
  screenshot_min_minutes: 5
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "screenshot_min_minutes") {
		t.Fatalf("expected legacy key error, got %v", err)
	}
}

func TestLoadRequiresControlPlaneBaseURL(t *testing.T) {
	path := writeConfig(t, `
config_version: 2
workbench:
  base_domain: pinacle.dev
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "control_plane.base_url") {
		t.Fatalf("expected control plane error, got %v", err)
	}
}

func TestLoadRejectsInvalidHTTPBaseURL(t *testing.T) {
	path := writeConfig(t, `
config_version: 2
control_plane:
  base_url: https://pinacle.dev
workbench:
  base_domain: pinacle.dev
http:
  base_url: example.com
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "http.base_url") {
		t.Fatalf("expected base_url error, got %v", err)
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	path := writeConfig(t, `
config_version: 2
control_plane:
  base_url: https://staging.pinacle.dev
workbench:
  base_domain: staging.pinacle.dev
  local_mode: true
  screenshot_interval_seconds: 60
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Workbench.BaseDomain != "staging.pinacle.dev" {
		t.Fatalf("base domain override lost: %q", cfg.Workbench.BaseDomain)
	}
	if !cfg.Workbench.LocalMode {
		t.Fatal("local mode override lost")
	}
	if cfg.Workbench.ScreenshotIntervalSeconds != 60 {
		t.Fatalf("interval override lost: %d", cfg.Workbench.ScreenshotIntervalSeconds)
	}
	if cfg.Workbench.FocusDelayMillis != 100 {
		t.Fatalf("focus delay default lost: %d", cfg.Workbench.FocusDelayMillis)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOO", "bar")
	value := expandEnv("$FOO/$UID/$GID/$MISSING")
	if !strings.HasPrefix(value, "bar/") {
		t.Fatalf("expected env expansion, got %q", value)
	}
	if strings.Contains(value, "$UID") || strings.Contains(value, "$GID") {
		t.Fatalf("expected UID/GID expansion, got %q", value)
	}
	if !strings.HasSuffix(value, "/$MISSING") {
		t.Fatalf("expected missing vars to remain, got %q", value)
	}
}

func TestWriteDefaultRespectsOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("expected path %q, got %q", path, written)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config to exist: %v", err)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if _, err := WriteDefault(path, true); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
