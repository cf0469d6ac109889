package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"pkt.systems/pinacle/core"
	"pkt.systems/pinacle/httpapi"
	"pkt.systems/pinacle/podapi"
	"pkt.systems/pinacle/schema"
)

const (
	testPod   = "ardent-otter"
	testGrant = "good-grant"
)

// testPodConfig is the tab document the fake control plane serves: the
// default editor/terminal pair plus one extra service for the add-tab menu.
const testPodConfig = `{
  "tabs": [
    {"name": "Editor", "service": "code-server"},
    {"name": "Terminal", "service": "web-terminal"}
  ],
  "services": ["code-server", "web-terminal", "claude"]
}`

type fakePodClient struct {
	mu      sync.Mutex
	pod     podapi.Pod
	updates [][]schema.PodTabEntry
}

func newFakePodClient() *fakePodClient {
	return &fakePodClient{
		pod: podapi.Pod{
			ID:     "pod-1",
			Slug:   testPod,
			Status: "running",
			Config: json.RawMessage(testPodConfig),
		},
	}
}

func (c *fakePodClient) GetPod(ctx context.Context, slug schema.PodSlug) (podapi.Pod, error) {
	if err := ctx.Err(); err != nil {
		return podapi.Pod{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if slug != c.pod.Slug {
		return podapi.Pod{}, fmt.Errorf("unknown pod %q", slug)
	}
	return c.pod, nil
}

func (c *fakePodClient) UpdateTabs(ctx context.Context, slug schema.PodSlug, entries []schema.PodTabEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if slug != c.pod.Slug {
		return fmt.Errorf("unknown pod %q", slug)
	}
	c.updates = append(c.updates, append([]schema.PodTabEntry(nil), entries...))
	return nil
}

func (c *fakePodClient) UploadScreenshot(ctx context.Context, upload podapi.ScreenshotUpload) error {
	return ctx.Err()
}

// lastUpdate returns the most recently persisted tab list, or nil when the
// engine has not written one yet.
func (c *fakePodClient) lastUpdate() []schema.PodTabEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.updates) == 0 {
		return nil
	}
	return append([]schema.PodTabEntry(nil), c.updates[len(c.updates)-1]...)
}

type grantAuth struct {
	grant string
}

func (a grantAuth) Authenticate(grant string) error {
	if grant != a.grant {
		return fmt.Errorf("grant rejected")
	}
	return nil
}

type testServer struct {
	service core.Service
	pods    *fakePodClient
	hub     *httpapi.Hub
	httpSrv *httpapi.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	pods := newFakePodClient()
	hub := httpapi.NewHub(1000)
	relay := httpapi.NewFrameRelay()

	// Long screenshot timers keep captures from firing mid-test; nothing
	// here answers them anyway.
	service, err := core.NewService(schema.WorkbenchConfig{
		LocalMode:          true,
		ScreenshotWarmup:   time.Minute,
		ScreenshotInterval: time.Hour,
	}, core.ServiceDeps{
		Pods:      pods,
		Frames:    relay,
		EventSink: hub,
	})
	if err != nil {
		t.Fatal(err)
	}
	registry, ok := service.(core.FrameRegistry)
	if !ok {
		t.Fatalf("service does not expose the frame registry")
	}

	httpSrv := httpapi.NewServer(httpapi.Config{
		Addr:            "127.0.0.1:0",
		SessionCookie:   "pinacle_session",
		SessionTTLHours: 1,
		SessionFile:     filepath.Join(t.TempDir(), "sessions.json"),
	}, service, registry, grantAuth{grant: testGrant}, hub, relay)

	return &testServer{
		service: service,
		pods:    pods,
		hub:     hub,
		httpSrv: httpSrv,
	}
}

// openSession exchanges the platform grant for a session cookie and returns
// a client carrying it, the way the browser boot sequence does.
func (ts *testServer) openSession(t *testing.T, baseURL string) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{Jar: jar}
	resp := writeJSON(t, client, baseURL+"/api/session", map[string]string{"grant": testGrant})
	readJSON(t, resp, &map[string]any{})
	return client
}

func (ts *testServer) openWorkbench(t *testing.T, client *http.Client, baseURL string) schema.OpenWorkbenchResponse {
	t.Helper()
	resp := writeJSON(t, client, baseURL+"/api/workbench", map[string]string{"pod": testPod})
	var opened schema.OpenWorkbenchResponse
	readJSON(t, resp, &opened)
	return opened
}

func writeJSON(t *testing.T, client *http.Client, url string, payload any) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func readJSON(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode >= 300 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatal(err)
	}
}

// waitForPersistedTabs polls the fake control plane until the engine writes
// a tab list with the given names. Persistence runs on its own goroutine
// after each mutation, so REST responses land before the write does.
func waitForPersistedTabs(t *testing.T, pods *fakePodClient, names []string, timeout time.Duration) []schema.PodTabEntry {
	t.Helper()
	deadline := time.Now().Add(timeout)
	var last []schema.PodTabEntry
	for time.Now().Before(deadline) {
		entries := pods.lastUpdate()
		last = entries
		if matchesNames(entries, names) {
			return entries
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for persisted tabs %v (last=%v)", names, last)
	return nil
}

func matchesNames(entries []schema.PodTabEntry, names []string) bool {
	if len(entries) != len(names) {
		return false
	}
	for i, entry := range entries {
		if entry.Name != names[i] {
			return false
		}
	}
	return true
}

func requireLong(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// requireChrome skips UI tests on machines without a Chrome binary chromedp
// can drive.
func requireChrome(t *testing.T) {
	t.Helper()
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("skipping UI test: no chrome binary found")
}
