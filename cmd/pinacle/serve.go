package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/pinacle"
	"pkt.systems/pinacle/httpapi"
	"pkt.systems/pinacle/internal/appconfig"
	"pkt.systems/pinacle/internal/persist"
	"pkt.systems/pinacle/internal/tokenstore"
	"pkt.systems/pinacle/podapi"
	"pkt.systems/pinacle/schema"
	"pkt.systems/pslog"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	var traceFrames bool
	var noSync bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the pinacle workbench host",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if traceFrames {
				cfg.Logging.TraceFrameMessages = true
			}

			tokens, err := tokenstore.NewStoreWithLogger(cfg.ControlPlane.KeyStorePath, cfg.ControlPlane.TokenFile, logger)
			if err != nil {
				return err
			}
			stored, err := tokens.Exists()
			if err != nil {
				return err
			}
			if !stored {
				return fmt.Errorf("no control-plane token stored; run: pinacle token set")
			}

			timeout := controlPlaneTimeout(cfg.ControlPlane)
			pods := podapi.New(cfg.ControlPlane.BaseURL, tokens).WithUnaryTimeout(timeout)
			cache, err := persist.NewStoreWithLogger(cfg.CacheDir, logger)
			if err != nil {
				return err
			}

			serverCfg := pinacle.ServerConfig{
				Workbench:  toWorkbenchConfig(cfg.Workbench),
				HTTP:       toHTTPConfig(cfg),
				HubHistory: 1000,
			}
			serverDeps := pinacle.ServerDeps{
				Pods:   pods,
				Auth:   &pinacle.GrantAuthenticator{Client: pods, Timeout: timeout},
				Cache:  cache,
				Logger: logger,
			}
			options := []pinacle.ServerOption{pinacle.WithHTTP()}
			if !noSync {
				options = append(options, pinacle.WithPodSync())
			}
			server, err := pinacle.New(serverCfg, serverDeps, options...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Stop(stopCtx); err != nil {
					logger.Warn("server stop failed", "err", err)
				}
			}()
			logger.Info("control plane", "base_url", cfg.ControlPlane.BaseURL, "timeout", timeout)
			if err := server.Start(ctx); err != nil {
				return err
			}
			return server.Wait()
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&traceFrames, "trace-frames", false, "log every frame bridge message")
	cmd.Flags().BoolVar(&noSync, "no-sync", false, "disable the periodic pod config poll")
	return cmd
}

func controlPlaneTimeout(cfg appconfig.ControlPlaneConfig) time.Duration {
	if cfg.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

func toWorkbenchConfig(cfg appconfig.WorkbenchConfig) schema.WorkbenchConfig {
	return schema.WorkbenchConfig{
		BaseDomain:         cfg.BaseDomain,
		LocalBaseDomain:    cfg.LocalBaseDomain,
		LocalMode:          cfg.LocalMode,
		ProxyPath:          cfg.ProxyPath,
		ScreenshotWarmup:   time.Duration(cfg.ScreenshotWarmupMillis) * time.Millisecond,
		ScreenshotInterval: time.Duration(cfg.ScreenshotIntervalSeconds) * time.Second,
		CaptureTimeout:     time.Duration(cfg.CaptureTimeoutSeconds) * time.Second,
		FocusDelay:         time.Duration(cfg.FocusDelayMillis) * time.Millisecond,
		RefreshDelay:       time.Duration(cfg.RefreshDelayMillis) * time.Millisecond,
		SyncInterval:       time.Duration(cfg.SyncIntervalSeconds) * time.Second,
		AddressHistoryMax:  cfg.AddressHistoryMax,
	}
}

func toHTTPConfig(cfg appconfig.Config) httpapi.Config {
	return httpapi.Config{
		Addr:            cfg.HTTP.Addr,
		SessionCookie:   cfg.HTTP.SessionCookie,
		SessionTTLHours: cfg.HTTP.SessionTTLHours,
		SessionFile:     cfg.HTTP.SessionFile,
		BaseURL:         cfg.HTTP.BaseURL,
		BasePath:        cfg.HTTP.BasePath,
		FrameOrigins:    frameOrigins(cfg),
		TraceFrames:     cfg.Logging.TraceFrameMessages,
	}
}

// frameOrigins returns the origin patterns the frame bridge accepts.
// Frames load from per-pod subdomains of the proxy domain, so the default
// covers that wildcard; http.frame_origins overrides it entirely.
func frameOrigins(cfg appconfig.Config) []string {
	if len(cfg.HTTP.FrameOrigins) > 0 {
		return cfg.HTTP.FrameOrigins
	}
	var origins []string
	for _, domain := range []string{cfg.Workbench.BaseDomain, cfg.Workbench.LocalBaseDomain} {
		domain = strings.TrimSpace(domain)
		if domain == "" {
			continue
		}
		origins = append(origins, domain, "*."+domain)
	}
	return origins
}
