package schema

import (
	"testing"
	"time"
)

func TestNormalizeWorkbenchConfigDefaults(t *testing.T) {
	cfg, err := NormalizeWorkbenchConfig(WorkbenchConfig{})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.ScreenshotWarmup != 2*time.Second {
		t.Fatalf("warmup default: %v", cfg.ScreenshotWarmup)
	}
	if cfg.ScreenshotInterval != 5*time.Minute {
		t.Fatalf("interval default: %v", cfg.ScreenshotInterval)
	}
	if cfg.CaptureTimeout != 10*time.Second {
		t.Fatalf("capture timeout default: %v", cfg.CaptureTimeout)
	}
	if cfg.FocusDelay != 100*time.Millisecond {
		t.Fatalf("focus delay default: %v", cfg.FocusDelay)
	}
	if cfg.RefreshDelay != 10*time.Millisecond {
		t.Fatalf("refresh delay default: %v", cfg.RefreshDelay)
	}
	if cfg.ProxyPath != "/api/proxy-auth" {
		t.Fatalf("proxy path default: %q", cfg.ProxyPath)
	}
	if cfg.BaseDomain == "" || cfg.LocalBaseDomain == "" {
		t.Fatal("base domains must default")
	}
}

func TestNormalizeWorkbenchConfigRejectsTightInterval(t *testing.T) {
	_, err := NormalizeWorkbenchConfig(WorkbenchConfig{
		ScreenshotWarmup:   time.Minute,
		ScreenshotInterval: time.Second,
	})
	if err == nil {
		t.Fatal("expected error when interval is below warmup")
	}
}
