package appconfig

import "testing"

func TestDefaultConfigLocalMode(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if cfg.Workbench.LocalMode {
		t.Fatalf("expected local mode to default false")
	}
	if cfg.Workbench.ScreenshotIntervalSeconds != 300 {
		t.Fatalf("expected 5 minute capture interval, got %d", cfg.Workbench.ScreenshotIntervalSeconds)
	}
}
