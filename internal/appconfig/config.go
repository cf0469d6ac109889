package appconfig

import (
	"os"
	"path/filepath"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int                `mapstructure:"config_version" yaml:"config_version"`
	CacheDir      string             `mapstructure:"cache_dir" yaml:"cache_dir"`
	Workbench     WorkbenchConfig    `mapstructure:"workbench" yaml:"workbench"`
	ControlPlane  ControlPlaneConfig `mapstructure:"control_plane" yaml:"control_plane"`
	HTTP          HTTPConfig         `mapstructure:"http" yaml:"http"`
	Logging       LoggingConfig      `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 2

// WorkbenchConfig controls the session engine.
type WorkbenchConfig struct {
	BaseDomain                string `mapstructure:"base_domain" yaml:"base_domain"`
	LocalBaseDomain           string `mapstructure:"local_base_domain" yaml:"local_base_domain"`
	LocalMode                 bool   `mapstructure:"local_mode" yaml:"local_mode"`
	ProxyPath                 string `mapstructure:"proxy_path" yaml:"proxy_path"`
	ScreenshotWarmupMillis    int    `mapstructure:"screenshot_warmup_ms" yaml:"screenshot_warmup_ms"`
	ScreenshotIntervalSeconds int    `mapstructure:"screenshot_interval_seconds" yaml:"screenshot_interval_seconds"`
	CaptureTimeoutSeconds     int    `mapstructure:"capture_timeout_seconds" yaml:"capture_timeout_seconds"`
	FocusDelayMillis          int    `mapstructure:"focus_delay_ms" yaml:"focus_delay_ms"`
	RefreshDelayMillis        int    `mapstructure:"refresh_delay_ms" yaml:"refresh_delay_ms"`
	SyncIntervalSeconds       int    `mapstructure:"sync_interval_seconds" yaml:"sync_interval_seconds"`
	AddressHistoryMax         int    `mapstructure:"address_history_max" yaml:"address_history_max"`
}

// ControlPlaneConfig configures the pod control-plane client.
type ControlPlaneConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	TokenFile      string `mapstructure:"token_file" yaml:"token_file"`
	KeyStorePath   string `mapstructure:"key_store_path" yaml:"key_store_path"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr            string   `mapstructure:"addr" yaml:"addr"`
	SessionCookie   string   `mapstructure:"session_cookie" yaml:"session_cookie"`
	SessionTTLHours int      `mapstructure:"session_ttl_hours" yaml:"session_ttl_hours"`
	SessionFile     string   `mapstructure:"session_file" yaml:"session_file"`
	BaseURL         string   `mapstructure:"base_url" yaml:"base_url"`
	BasePath        string   `mapstructure:"base_path" yaml:"base_path"`
	FrameOrigins    []string `mapstructure:"frame_origins" yaml:"frame_origins"`
}

// LoggingConfig controls chatty log paths.
type LoggingConfig struct {
	TraceFrameMessages bool `mapstructure:"trace_frame_messages" yaml:"trace_frame_messages"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		CacheDir:      filepath.Join(home, ".pinacle", "cache"),
		Workbench: WorkbenchConfig{
			BaseDomain:                "pinacle.dev",
			LocalBaseDomain:           "local.pinacle.dev",
			LocalMode:                 false,
			ProxyPath:                 "/api/proxy-auth",
			ScreenshotWarmupMillis:    2000,
			ScreenshotIntervalSeconds: 300,
			CaptureTimeoutSeconds:     10,
			FocusDelayMillis:          100,
			RefreshDelayMillis:        10,
			SyncIntervalSeconds:       45,
			AddressHistoryMax:         50,
		},
		ControlPlane: ControlPlaneConfig{
			BaseURL:        "https://pinacle.dev",
			TokenFile:      filepath.Join(home, ".pinacle", "control-plane.token"),
			KeyStorePath:   filepath.Join(home, ".pinacle", "keys.bundle"),
			TimeoutSeconds: 15,
		},
		HTTP: HTTPConfig{
			Addr:            ":27490",
			SessionCookie:   "pinacle_session",
			SessionTTLHours: 720,
			SessionFile:     filepath.Join(home, ".pinacle", "sessions.json"),
			BaseURL:         "",
			BasePath:        "",
		},
		Logging: LoggingConfig{
			TraceFrameMessages: false,
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pinacle", "config.yaml"), nil
}
