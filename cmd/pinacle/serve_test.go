package main

import (
	"testing"
	"time"

	"pkt.systems/pinacle/internal/appconfig"
)

func TestToWorkbenchConfigConvertsDurations(t *testing.T) {
	cfg := appconfig.WorkbenchConfig{
		BaseDomain:                "pinacle.dev",
		LocalBaseDomain:           "local.pinacle.dev",
		LocalMode:                 true,
		ProxyPath:                 "/api/proxy-auth",
		ScreenshotWarmupMillis:    1500,
		ScreenshotIntervalSeconds: 120,
		CaptureTimeoutSeconds:     5,
		FocusDelayMillis:          250,
		RefreshDelayMillis:        20,
		SyncIntervalSeconds:       30,
		AddressHistoryMax:         10,
	}
	out := toWorkbenchConfig(cfg)
	if out.BaseDomain != "pinacle.dev" || out.LocalBaseDomain != "local.pinacle.dev" {
		t.Fatalf("unexpected domains: %+v", out)
	}
	if !out.LocalMode {
		t.Fatalf("expected local mode to carry over")
	}
	if out.ScreenshotWarmup != 1500*time.Millisecond {
		t.Fatalf("screenshot warmup = %v", out.ScreenshotWarmup)
	}
	if out.ScreenshotInterval != 2*time.Minute {
		t.Fatalf("screenshot interval = %v", out.ScreenshotInterval)
	}
	if out.CaptureTimeout != 5*time.Second {
		t.Fatalf("capture timeout = %v", out.CaptureTimeout)
	}
	if out.FocusDelay != 250*time.Millisecond {
		t.Fatalf("focus delay = %v", out.FocusDelay)
	}
	if out.RefreshDelay != 20*time.Millisecond {
		t.Fatalf("refresh delay = %v", out.RefreshDelay)
	}
	if out.SyncInterval != 30*time.Second {
		t.Fatalf("sync interval = %v", out.SyncInterval)
	}
	if out.AddressHistoryMax != 10 {
		t.Fatalf("address history max = %d", out.AddressHistoryMax)
	}
}

func TestToHTTPConfigCarriesSessionSettings(t *testing.T) {
	cfg := appconfig.Config{
		HTTP: appconfig.HTTPConfig{
			Addr:            ":8080",
			SessionCookie:   "pinacle_session",
			SessionTTLHours: 24,
			SessionFile:     "/var/lib/pinacle/sessions.json",
			BaseURL:         "https://bench.example.com",
			BasePath:        "/bench",
		},
		Logging: appconfig.LoggingConfig{TraceFrameMessages: true},
	}
	out := toHTTPConfig(cfg)
	if out.Addr != ":8080" || out.SessionCookie != "pinacle_session" || out.SessionTTLHours != 24 {
		t.Fatalf("unexpected http config: %+v", out)
	}
	if out.SessionFile != "/var/lib/pinacle/sessions.json" {
		t.Fatalf("session file = %q", out.SessionFile)
	}
	if out.BaseURL != "https://bench.example.com" || out.BasePath != "/bench" {
		t.Fatalf("unexpected base url/path: %+v", out)
	}
	if !out.TraceFrames {
		t.Fatalf("expected trace flag to carry over")
	}
}

func TestFrameOriginsDerivedFromProxyDomains(t *testing.T) {
	cfg := appconfig.Config{
		Workbench: appconfig.WorkbenchConfig{
			BaseDomain:      "pinacle.dev",
			LocalBaseDomain: "local.pinacle.dev",
		},
	}
	got := frameOrigins(cfg)
	want := []string{"pinacle.dev", "*.pinacle.dev", "local.pinacle.dev", "*.local.pinacle.dev"}
	if len(got) != len(want) {
		t.Fatalf("frameOrigins = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frameOrigins[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFrameOriginsExplicitOverrideWins(t *testing.T) {
	cfg := appconfig.Config{
		Workbench: appconfig.WorkbenchConfig{BaseDomain: "pinacle.dev"},
		HTTP:      appconfig.HTTPConfig{FrameOrigins: []string{"frames.example.com"}},
	}
	got := frameOrigins(cfg)
	if len(got) != 1 || got[0] != "frames.example.com" {
		t.Fatalf("frameOrigins = %v, want explicit override only", got)
	}
}

func TestControlPlaneTimeout(t *testing.T) {
	if got := controlPlaneTimeout(appconfig.ControlPlaneConfig{}); got != 15*time.Second {
		t.Fatalf("default timeout = %v", got)
	}
	if got := controlPlaneTimeout(appconfig.ControlPlaneConfig{TimeoutSeconds: 30}); got != 30*time.Second {
		t.Fatalf("timeout = %v", got)
	}
}
