package schema

import (
	"errors"
	"time"
)

// DefaultPort is assumed for custom tabs whose URL names no port.
const DefaultPort = 3000

// WorkbenchConfig defines defaults and limits for the core service.
type WorkbenchConfig struct {
	// BaseDomain hosts proxied frames in production
	// (localhost-<port>-pod-<slug>.<BaseDomain>).
	BaseDomain string
	// LocalBaseDomain replaces BaseDomain when LocalMode is set.
	LocalBaseDomain string
	// LocalMode selects the local-development proxy domain.
	LocalMode bool
	// ProxyPath is the authenticating redirect endpoint frames load through.
	ProxyPath string
	// ScreenshotWarmup delays the first capture after a frame mounts.
	ScreenshotWarmup time.Duration
	// ScreenshotInterval is the minimum spacing between captures per frame.
	ScreenshotInterval time.Duration
	// CaptureTimeout bounds the capture request/response round trip.
	CaptureTimeout time.Duration
	// FocusDelay is the wait before posting focus into a freshly mounted frame.
	FocusDelay time.Duration
	// RefreshDelay is the src-cleared gap that forces a frame re-navigation.
	RefreshDelay time.Duration
	// SyncInterval paces the pod configuration poll loop.
	SyncInterval time.Duration
	// AddressHistoryMax caps per-tab address history.
	AddressHistoryMax int
}

// NormalizeWorkbenchConfig applies defaults and validates the config.
func NormalizeWorkbenchConfig(cfg WorkbenchConfig) (WorkbenchConfig, error) {
	if cfg.BaseDomain == "" {
		cfg.BaseDomain = "pinacle.dev"
	}
	if cfg.LocalBaseDomain == "" {
		cfg.LocalBaseDomain = "local.pinacle.dev"
	}
	if cfg.ProxyPath == "" {
		cfg.ProxyPath = "/api/proxy-auth"
	}
	if cfg.ScreenshotWarmup <= 0 {
		cfg.ScreenshotWarmup = 2 * time.Second
	}
	if cfg.ScreenshotInterval <= 0 {
		cfg.ScreenshotInterval = 5 * time.Minute
	}
	if cfg.CaptureTimeout <= 0 {
		cfg.CaptureTimeout = 10 * time.Second
	}
	if cfg.FocusDelay <= 0 {
		cfg.FocusDelay = 100 * time.Millisecond
	}
	if cfg.RefreshDelay <= 0 {
		cfg.RefreshDelay = 10 * time.Millisecond
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = 45 * time.Second
	}
	if cfg.AddressHistoryMax <= 0 {
		cfg.AddressHistoryMax = 50
	}
	if cfg.ScreenshotInterval <= cfg.ScreenshotWarmup {
		return WorkbenchConfig{}, errors.New("screenshot interval must exceed warmup")
	}
	return cfg, nil
}
