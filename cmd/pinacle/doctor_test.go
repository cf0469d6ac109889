package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pkt.systems/pinacle/internal/appconfig"
	"pkt.systems/pinacle/internal/tokenstore"
	"pkt.systems/pslog"
)

func testLogger() pslog.Logger {
	return pslog.NewWithOptions(&bytes.Buffer{}, pslog.Options{
		Mode:    pslog.ModeStructured,
		NoColor: true,
	})
}

func testConfig(t *testing.T) appconfig.Config {
	t.Helper()
	cfg, err := appconfig.DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg.CacheDir = t.TempDir()
	cfg.ControlPlane.TokenFile = filepath.Join(t.TempDir(), "token.enc")
	cfg.ControlPlane.KeyStorePath = filepath.Join(t.TempDir(), "keys.bundle")
	cfg.HTTP.SessionFile = filepath.Join(t.TempDir(), "sessions.json")
	return cfg
}

func saveTestToken(t *testing.T, cfg appconfig.Config, token string) {
	t.Helper()
	store, err := tokenstore.NewStore(cfg.ControlPlane.KeyStorePath, cfg.ControlPlane.TokenFile)
	if err != nil {
		t.Fatalf("token store: %v", err)
	}
	if err := store.Save(token); err != nil {
		t.Fatalf("save token: %v", err)
	}
}

func TestRunDoctorReportsMissingToken(t *testing.T) {
	cfg := testConfig(t)

	report, healthy := runDoctor(context.Background(), testLogger(), cfg, "config.yaml", "", time.Second)
	if healthy {
		t.Fatalf("expected unhealthy report without a token")
	}
	if report.Cache.Status != "ok" {
		t.Fatalf("cache status = %q (%s)", report.Cache.Status, report.Cache.Detail)
	}
	if report.Token.Status != "missing" {
		t.Fatalf("token status = %q", report.Token.Status)
	}
	if report.ControlPlane.Status != "skipped" {
		t.Fatalf("control plane status = %q", report.ControlPlane.Status)
	}
	if report.Pod != nil {
		t.Fatalf("did not expect pod report without probe")
	}
}

func TestRunDoctorProbesPod(t *testing.T) {
	var gotAuth string
	cp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pods/ardent-otter" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "pod-1",
			"slug": "ardent-otter",
			"status": "running",
			"config": {
				"tabs": [
					{"name": "Editor", "service": "code-server"},
					{"name": "Terminal", "service": "web-terminal"}
				],
				"services": ["code-server", "web-terminal"]
			}
		}`))
	}))
	defer cp.Close()

	cfg := testConfig(t)
	cfg.ControlPlane.BaseURL = cp.URL
	saveTestToken(t, cfg, "pk_live_abc123")

	report, healthy := runDoctor(context.Background(), testLogger(), cfg, "config.yaml", "ardent-otter", time.Second)
	if !healthy {
		t.Fatalf("expected healthy report, got %+v", report)
	}
	if report.Token.Status != "ok" {
		t.Fatalf("token status = %q (%s)", report.Token.Status, report.Token.Detail)
	}
	if report.ControlPlane.Status != "ok" {
		t.Fatalf("control plane status = %q (%s)", report.ControlPlane.Status, report.ControlPlane.Detail)
	}
	if gotAuth != "Bearer pk_live_abc123" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if report.Pod == nil {
		t.Fatalf("expected pod report")
	}
	if report.Pod.Slug != "ardent-otter" || report.Pod.ID != "pod-1" || report.Pod.Status != "running" {
		t.Fatalf("pod report = %+v", report.Pod)
	}
	if report.Pod.Tabs != 2 || len(report.Pod.Services) != 2 {
		t.Fatalf("pod layout = %+v", report.Pod)
	}
}

func TestRunDoctorReportsControlPlaneFailure(t *testing.T) {
	cp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"POD_NOT_FOUND","message":"no such pod"}}`))
	}))
	defer cp.Close()

	cfg := testConfig(t)
	cfg.ControlPlane.BaseURL = cp.URL
	saveTestToken(t, cfg, "pk_live_abc123")

	report, healthy := runDoctor(context.Background(), testLogger(), cfg, "config.yaml", "gone-pod", time.Second)
	if healthy {
		t.Fatalf("expected unhealthy report for missing pod")
	}
	if report.ControlPlane.Status != "failed" {
		t.Fatalf("control plane status = %q", report.ControlPlane.Status)
	}
	if !strings.Contains(report.ControlPlane.Detail, "POD_NOT_FOUND") {
		t.Fatalf("control plane detail = %q", report.ControlPlane.Detail)
	}
}

func TestRunDoctorFallsBackToDefaultLayout(t *testing.T) {
	cp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pod-2","slug":"misty-finch","status":"running","config":"not json"}`))
	}))
	defer cp.Close()

	cfg := testConfig(t)
	cfg.ControlPlane.BaseURL = cp.URL
	saveTestToken(t, cfg, "pk_live_abc123")

	report, healthy := runDoctor(context.Background(), testLogger(), cfg, "config.yaml", "misty-finch", time.Second)
	if !healthy {
		t.Fatalf("expected healthy report, got %+v", report)
	}
	if report.Pod == nil || report.Pod.Tabs == 0 {
		t.Fatalf("expected default layout fallback, got %+v", report.Pod)
	}
}
