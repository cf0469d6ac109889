// Package podapi is a typed HTTP client for the pod control plane. The
// workbench uses it to fetch pod tab configuration, write tab layouts
// back, and upload frame screenshots.
package podapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pkt.systems/pinacle/schema"
)

const defaultUnaryTimeout = 15 * time.Second

// TokenSource supplies the bearer token for control-plane requests.
// Implementations may read it from disk on every call; the client does
// not cache tokens.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource returning a fixed string. Useful in
// tests and for token-on-command-line setups.
type StaticToken string

func (s StaticToken) Token() (string, error) { return string(s), nil }

// Client talks to the pod control plane over HTTPS.
type Client struct {
	baseURL      string
	tokens       TokenSource
	client       *http.Client
	unaryTimeout time.Duration
}

// New returns a client for the control plane at baseURL. The trailing
// slash is trimmed so paths can be joined verbatim.
func New(baseURL string, tokens TokenSource) *Client {
	return NewWithClient(baseURL, tokens, &http.Client{})
}

// NewWithClient is New with a caller-supplied http.Client, for custom
// transports and test servers.
func NewWithClient(baseURL string, tokens TokenSource, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{}
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokens:       tokens,
		client:       client,
		unaryTimeout: defaultUnaryTimeout,
	}
}

// WithUnaryTimeout returns a copy of the client whose per-request
// timeout is capped at timeout. Zero disables the cap.
func (c *Client) WithUnaryTimeout(timeout time.Duration) *Client {
	if c == nil {
		return nil
	}
	clone := *c
	clone.unaryTimeout = timeout
	return &clone
}

// RequestError is a non-2xx control-plane response.
type RequestError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	code := strings.TrimSpace(e.Code)
	message := strings.TrimSpace(e.Message)
	if code != "" && message != "" {
		return fmt.Sprintf("%s: %s", code, message)
	}
	if code != "" {
		if e.StatusCode > 0 {
			return fmt.Sprintf("http %d: %s", e.StatusCode, code)
		}
		return code
	}
	if message != "" {
		if e.StatusCode > 0 {
			return fmt.Sprintf("http %d: %s", e.StatusCode, message)
		}
		return message
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return "http error"
}

// Retryable reports whether the request could plausibly succeed on a
// retry. The workbench engine currently treats every control-plane
// failure as terminal for the triggering operation; this exists for
// callers that poll.
func (e *RequestError) Retryable() bool {
	if e == nil {
		return false
	}
	if e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusRequestTimeout {
		return true
	}
	return e.StatusCode >= 500
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Pod is the control plane's view of a workspace pod.
type Pod struct {
	ID     schema.PodID   `json:"id"`
	Slug   schema.PodSlug `json:"slug"`
	Status string         `json:"status"`
	// Config is the raw tab configuration document. Callers parse it
	// with schema.ParsePodConfig so malformed documents degrade to the
	// default layout instead of failing the fetch.
	Config json.RawMessage `json:"config"`
}

// ScreenshotUpload is the payload for POST /api/screenshots. Field
// names follow the control plane's JSON contract.
type ScreenshotUpload struct {
	PodID        schema.PodID `json:"podId"`
	Port         int          `json:"port"`
	Path         string       `json:"path"`
	ImageDataURL string       `json:"imageDataUrl"`
}

// GetPod fetches the pod record for slug, including its raw tab
// configuration document.
func (c *Client) GetPod(ctx context.Context, slug schema.PodSlug) (Pod, error) {
	body, err := c.request(ctx, http.MethodGet, "/api/pods/"+url.PathEscape(string(slug)), nil)
	if err != nil {
		return Pod{}, err
	}
	var pod Pod
	if err := json.Unmarshal(body, &pod); err != nil {
		return Pod{}, fmt.Errorf("decode pod: %w", err)
	}
	return pod, nil
}

// UpdateTabs persists the pod's tab layout on the control plane. The
// entries carry only durable fields; runtime state never round-trips.
func (c *Client) UpdateTabs(ctx context.Context, slug schema.PodSlug, entries []schema.PodTabEntry) error {
	payload := struct {
		Tabs []schema.PodTabEntry `json:"tabs"`
	}{Tabs: entries}
	_, err := c.request(ctx, http.MethodPatch, "/api/pods/"+url.PathEscape(string(slug))+"/tabs", payload)
	return err
}

// UploadScreenshot sends a captured frame image to the control plane.
func (c *Client) UploadScreenshot(ctx context.Context, upload ScreenshotUpload) error {
	_, err := c.request(ctx, http.MethodPost, "/api/screenshots", upload)
	return err
}

// VerifyGrant checks a workbench handoff grant with the control plane.
// The platform mints the grant when it hands a signed-in user over to the
// workbench host; a rejected grant means no session is created.
func (c *Client) VerifyGrant(ctx context.Context, grant string) error {
	payload := struct {
		Grant string `json:"grant"`
	}{Grant: strings.TrimSpace(grant)}
	if payload.Grant == "" {
		return &RequestError{StatusCode: http.StatusUnauthorized, Code: "EMPTY_GRANT", Message: "missing grant"}
	}
	_, err := c.request(ctx, http.MethodPost, "/api/workbench-grants/verify", payload)
	return err
}

func (c *Client) request(ctx context.Context, method, path string, body any) ([]byte, error) {
	reqCtx := ctx
	if c.unaryTimeout > 0 {
		if deadline, ok := ctx.Deadline(); !ok || time.Until(deadline) > c.unaryTimeout {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, c.unaryTimeout)
			defer cancel()
		}
	}
	var reqBody io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = buf
	}
	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("control plane token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		var er errorResponse
		if err := json.Unmarshal(payload, &er); err == nil && er.Error.Code != "" {
			return nil, &RequestError{
				StatusCode: resp.StatusCode,
				Code:       er.Error.Code,
				Message:    er.Error.Message,
			}
		}
		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			Code:       fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:    strings.TrimSpace(string(payload)),
		}
	}
	return payload, nil
}
