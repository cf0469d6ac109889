package appconfig

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("cache_dir", cfg.CacheDir)
	v.SetDefault("workbench.base_domain", cfg.Workbench.BaseDomain)
	v.SetDefault("workbench.local_base_domain", cfg.Workbench.LocalBaseDomain)
	v.SetDefault("workbench.local_mode", cfg.Workbench.LocalMode)
	v.SetDefault("workbench.proxy_path", cfg.Workbench.ProxyPath)
	v.SetDefault("workbench.screenshot_warmup_ms", cfg.Workbench.ScreenshotWarmupMillis)
	v.SetDefault("workbench.screenshot_interval_seconds", cfg.Workbench.ScreenshotIntervalSeconds)
	v.SetDefault("workbench.capture_timeout_seconds", cfg.Workbench.CaptureTimeoutSeconds)
	v.SetDefault("workbench.focus_delay_ms", cfg.Workbench.FocusDelayMillis)
	v.SetDefault("workbench.refresh_delay_ms", cfg.Workbench.RefreshDelayMillis)
	v.SetDefault("workbench.sync_interval_seconds", cfg.Workbench.SyncIntervalSeconds)
	v.SetDefault("workbench.address_history_max", cfg.Workbench.AddressHistoryMax)
	v.SetDefault("control_plane.base_url", cfg.ControlPlane.BaseURL)
	v.SetDefault("control_plane.token_file", cfg.ControlPlane.TokenFile)
	v.SetDefault("control_plane.key_store_path", cfg.ControlPlane.KeyStorePath)
	v.SetDefault("control_plane.timeout_seconds", cfg.ControlPlane.TimeoutSeconds)
	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.session_cookie", cfg.HTTP.SessionCookie)
	v.SetDefault("http.session_ttl_hours", cfg.HTTP.SessionTTLHours)
	v.SetDefault("http.session_file", cfg.HTTP.SessionFile)
	v.SetDefault("http.base_url", cfg.HTTP.BaseURL)
	v.SetDefault("http.base_path", cfg.HTTP.BasePath)
	v.SetDefault("http.frame_origins", cfg.HTTP.FrameOrigins)
	v.SetDefault("logging.trace_frame_messages", cfg.Logging.TraceFrameMessages)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
		if v.IsSet("workbench.screenshot_min_minutes") {
			return Config{}, fmt.Errorf("workbench.screenshot_min_minutes was replaced by workbench.screenshot_interval_seconds in config_version 2")
		}
		if !v.IsSet("control_plane.base_url") {
			return Config{}, fmt.Errorf("control_plane.base_url is required for config_version %d", CurrentConfigVersion)
		}
		if !v.IsSet("workbench.base_domain") {
			return Config{}, fmt.Errorf("workbench.base_domain is required for config_version %d", CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if err := validateControlPlaneConfig(cfg.ControlPlane); err != nil {
		return Config{}, err
	}
	if err := validateHTTPConfig(cfg.HTTP); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateControlPlaneConfig(cfg ControlPlaneConfig) error {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return fmt.Errorf("control_plane.base_url is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("control_plane.base_url must include scheme and host (e.g. https://pinacle.dev)")
	}
	return nil
}

func validateHTTPConfig(cfg HTTPConfig) error {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("http.base_url must include scheme and host (e.g. https://example.com)")
		}
	}
	basePath := strings.TrimSpace(cfg.BasePath)
	if basePath != "" {
		if strings.Contains(basePath, "://") {
			return fmt.Errorf("http.base_path must be a path prefix, not a URL")
		}
		if strings.ContainsAny(basePath, "?#") {
			return fmt.Errorf("http.base_path must not include query or fragment")
		}
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.CacheDir = expandEnv(cfg.CacheDir)
	cfg.ControlPlane.TokenFile = expandEnv(cfg.ControlPlane.TokenFile)
	cfg.ControlPlane.KeyStorePath = expandEnv(cfg.ControlPlane.KeyStorePath)
	cfg.HTTP.SessionFile = expandEnv(cfg.HTTP.SessionFile)
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
