package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pkt.systems/pinacle/internal/appconfig"
	"pkt.systems/pinacle/internal/persist"
	"pkt.systems/pinacle/internal/tokenstore"
	"pkt.systems/pinacle/podapi"
	"pkt.systems/pinacle/schema"
	"pkt.systems/pslog"
)

func newDoctorCmd() *cobra.Command {
	var cfgPath string
	var pod string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run pinacle diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())

			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			configPath := cfgPath
			if strings.TrimSpace(configPath) == "" {
				path, err := appconfig.DefaultConfigPath()
				if err != nil {
					return err
				}
				configPath = path
			}
			logger.Info("doctor start", "config", configPath)

			report, healthy := runDoctor(cmd.Context(), logger, cfg, configPath, pod, timeout)

			data, err := yaml.Marshal(report)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return err
			}
			if !healthy {
				return fmt.Errorf("doctor found problems")
			}
			logger.Info("doctor complete")
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&pod, "pod", "", "pod slug to probe on the control plane")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "timeout for control-plane probes")
	return cmd
}

type doctorReport struct {
	ConfigPath   string           `yaml:"config_path"`
	Cache        doctorCheck      `yaml:"cache"`
	Token        doctorCheck      `yaml:"token"`
	ControlPlane doctorCheck      `yaml:"control_plane"`
	Pod          *doctorPodReport `yaml:"pod,omitempty"`
}

type doctorCheck struct {
	Status string `yaml:"status"`
	Detail string `yaml:"detail,omitempty"`
}

type doctorPodReport struct {
	Slug     string   `yaml:"slug"`
	ID       string   `yaml:"id,omitempty"`
	Status   string   `yaml:"status,omitempty"`
	Services []string `yaml:"services,omitempty"`
	Tabs     int      `yaml:"tabs"`
}

func checkOK(detail string) doctorCheck {
	return doctorCheck{Status: "ok", Detail: detail}
}

func checkSkipped(detail string) doctorCheck {
	return doctorCheck{Status: "skipped", Detail: detail}
}

func checkFailed(err error) doctorCheck {
	return doctorCheck{Status: "failed", Detail: err.Error()}
}

// runDoctor executes every check even when earlier ones fail, so one
// report covers the whole installation.
func runDoctor(ctx context.Context, logger pslog.Logger, cfg appconfig.Config, configPath, pod string, timeout time.Duration) (doctorReport, bool) {
	report := doctorReport{ConfigPath: configPath}
	healthy := true

	if _, err := persist.NewStoreWithLogger(cfg.CacheDir, logger); err != nil {
		report.Cache = checkFailed(err)
		healthy = false
	} else {
		report.Cache = checkOK(cfg.CacheDir)
		logger.Info("doctor cache ok", "dir", cfg.CacheDir)
	}

	tokens, err := tokenstore.NewStoreWithLogger(cfg.ControlPlane.KeyStorePath, cfg.ControlPlane.TokenFile, logger)
	if err != nil {
		report.Token = checkFailed(err)
		healthy = false
	} else if stored, err := tokens.Exists(); err != nil {
		report.Token = checkFailed(err)
		healthy = false
	} else if !stored {
		report.Token = doctorCheck{Status: "missing", Detail: "run: pinacle token set"}
		healthy = false
	} else {
		report.Token = checkOK(cfg.ControlPlane.TokenFile)
		logger.Info("doctor token ok", "file", cfg.ControlPlane.TokenFile)
	}

	if strings.TrimSpace(pod) == "" {
		report.ControlPlane = checkSkipped("pass --pod to probe " + cfg.ControlPlane.BaseURL)
		return report, healthy
	}
	if tokens == nil {
		report.ControlPlane = checkSkipped("token store unavailable")
		return report, false
	}

	probeCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		probeCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	client := podapi.New(cfg.ControlPlane.BaseURL, tokens).WithUnaryTimeout(timeout)
	record, err := client.GetPod(probeCtx, schema.PodSlug(pod))
	if err != nil {
		report.ControlPlane = checkFailed(err)
		return report, false
	}
	report.ControlPlane = checkOK(cfg.ControlPlane.BaseURL)
	logger.Info("doctor control plane ok", "base_url", cfg.ControlPlane.BaseURL, "pod", pod)

	podReport := &doctorPodReport{
		Slug:   string(record.Slug),
		ID:     string(record.ID),
		Status: record.Status,
	}
	podCfg, err := schema.ParsePodConfig(record.Config)
	if err != nil {
		podCfg = schema.DefaultPodConfig()
	}
	podReport.Services = podCfg.Services
	podReport.Tabs = len(podCfg.Tabs)
	report.Pod = podReport
	return report, healthy
}
