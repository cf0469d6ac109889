package podapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pkt.systems/pinacle/schema"
)

func TestGetPodDecodesRecord(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/pods/ardent-otter", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("expected GET, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Fatalf("expected bearer token header, got %q", got)
		}
		_, _ = io.WriteString(w, `{"id":"pod-9f","slug":"ardent-otter","status":"running","config":{"tabs":[{"name":"Editor","service":"code-server"}]}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewWithClient(srv.URL, StaticToken("tok-123"), srv.Client())
	pod, err := client.GetPod(context.Background(), "ardent-otter")
	if err != nil {
		t.Fatalf("get pod: %v", err)
	}
	if pod.ID != "pod-9f" || pod.Status != "running" {
		t.Fatalf("unexpected pod record: %+v", pod)
	}
	cfg, err := schema.ParsePodConfig(pod.Config)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if len(cfg.Tabs) != 1 || cfg.Tabs[0].Service != "code-server" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestUpdateTabsSendsDurableEntries(t *testing.T) {
	var got struct {
		Tabs []schema.PodTabEntry `json:"tabs"`
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/pods/ardent-otter/tabs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Fatalf("expected PATCH, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewWithClient(srv.URL, StaticToken("tok"), srv.Client())
	entries := []schema.PodTabEntry{
		{Name: "Editor", Service: "code-server"},
		{Name: "Docs", URL: "http://localhost:3000/docs"},
	}
	if err := client.UpdateTabs(context.Background(), "ardent-otter", entries); err != nil {
		t.Fatalf("update tabs: %v", err)
	}
	if len(got.Tabs) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got.Tabs))
	}
	if got.Tabs[1].URL != "http://localhost:3000/docs" {
		t.Fatalf("unexpected second entry: %+v", got.Tabs[1])
	}
}

func TestUploadScreenshotPostsPayload(t *testing.T) {
	var got ScreenshotUpload
	mux := http.NewServeMux()
	mux.HandleFunc("/api/screenshots", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewWithClient(srv.URL, StaticToken("tok"), srv.Client())
	upload := ScreenshotUpload{
		PodID:        "pod-9f",
		Port:         8080,
		Path:         "/workspace",
		ImageDataURL: "data:image/png;base64,AAAA",
	}
	if err := client.UploadScreenshot(context.Background(), upload); err != nil {
		t.Fatalf("upload screenshot: %v", err)
	}
	if got != upload {
		t.Fatalf("payload mismatch: got %+v want %+v", got, upload)
	}
}

func TestRequestErrorDecodesEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/pods/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":"E_POD_NOT_FOUND","message":"no such pod"}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewWithClient(srv.URL, StaticToken("tok"), srv.Client())
	_, err := client.GetPod(context.Background(), "gone")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.StatusCode != http.StatusNotFound || reqErr.Code != "E_POD_NOT_FOUND" {
		t.Fatalf("unexpected error: %+v", reqErr)
	}
	if reqErr.Retryable() {
		t.Fatalf("404 should not be retryable")
	}
}

func TestRequestErrorFallsBackToBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/screenshots", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "upstream storage offline")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewWithClient(srv.URL, StaticToken("tok"), srv.Client())
	err := client.UploadScreenshot(context.Background(), ScreenshotUpload{PodID: "pod-9f"})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Code != "HTTP_503" || reqErr.Message != "upstream storage offline" {
		t.Fatalf("unexpected error fields: %+v", reqErr)
	}
	if !reqErr.Retryable() {
		t.Fatalf("503 should be retryable")
	}
}

func TestVerifyGrantPostsAndAcceptsOK(t *testing.T) {
	var got struct {
		Grant string `json:"grant"`
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/workbench-grants/verify", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewWithClient(srv.URL, StaticToken("tok"), srv.Client())
	if err := client.VerifyGrant(context.Background(), "  grant-abc  "); err != nil {
		t.Fatalf("verify grant: %v", err)
	}
	if got.Grant != "grant-abc" {
		t.Fatalf("expected trimmed grant, got %q", got.Grant)
	}
}

func TestVerifyGrantRejectsEmptyWithoutRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("request should not reach server")
	}))
	defer srv.Close()

	client := NewWithClient(srv.URL, StaticToken("tok"), srv.Client())
	err := client.VerifyGrant(context.Background(), "   ")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", reqErr.StatusCode)
	}
}

func TestTokenSourceErrorStopsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("request should not reach server")
	}))
	defer srv.Close()

	client := NewWithClient(srv.URL, failingTokens{}, srv.Client())
	_, err := client.GetPod(context.Background(), "ardent-otter")
	if err == nil || !errors.Is(err, errNoToken) {
		t.Fatalf("expected token error, got %v", err)
	}
}

var errNoToken = errors.New("token store empty")

type failingTokens struct{}

func (failingTokens) Token() (string, error) { return "", errNoToken }
