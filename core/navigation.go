package core

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"pkt.systems/pinacle/schema"
)

// navState tracks the synthetic back/forward counters and address bar for a
// process tab. The counters are a heuristic, not a history stack: the frame
// is the only source of truth for where it actually is, and the counters can
// drift when it navigates without posting the expected event.
type navState struct {
	displayURL   string
	currentPort  int
	backSteps    int
	forwardSteps int
	lastAction   schema.NavAction
}

func newNavState(port int, path string) *navState {
	return &navState{
		displayURL:  displayAddress(port, path),
		currentPort: port,
	}
}

// submit applies the optimistic counter change for an address-bar
// navigation. The arriving navigation event nets the back counter out again.
func (n *navState) submit(port int, path string) {
	n.backSteps--
	n.forwardSteps = 0
	n.lastAction = schema.NavActionNavigate
	n.currentPort = port
	n.displayURL = displayAddress(port, path)
}

func (n *navState) requestBack() {
	n.lastAction = schema.NavActionBack
}

func (n *navState) requestForward() {
	n.lastAction = schema.NavActionForward
}

// observe applies a navigation event posted by the frame. The pending
// intent, if any, is consumed; an event without one counts as a fresh
// navigation, as does one completing an address-bar submit.
func (n *navState) observe(port int, path string) {
	switch n.lastAction {
	case schema.NavActionBack:
		n.backSteps = max(0, n.backSteps-1)
		n.forwardSteps++
	case schema.NavActionForward:
		n.forwardSteps = max(0, n.forwardSteps-1)
		n.backSteps++
	default:
		n.backSteps++
		n.forwardSteps = 0
	}
	n.lastAction = schema.NavActionNone
	if port > 0 {
		n.currentPort = port
	}
	n.displayURL = displayAddress(n.currentPort, path)
}

func (n *navState) Snapshot(tabID schema.TabID) schema.NavigationSnapshot {
	return schema.NavigationSnapshot{
		TabID:        tabID,
		DisplayURL:   n.displayURL,
		CurrentPort:  n.currentPort,
		BackSteps:    n.backSteps,
		ForwardSteps: n.forwardSteps,
		LastAction:   n.lastAction,
	}
}

func displayAddress(port int, path string) string {
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("localhost:%d%s", port, path)
}

// proxyHostPattern matches the per-port pod hostnames frames are served
// under, e.g. localhost-8080-pod-ardent-otter.pinacle.dev.
var proxyHostPattern = regexp.MustCompile(`^localhost-(\d+)-pod-`)

// portFromProxyHost extracts the serving port from a proxied frame URL's
// hostname. Returns 0 when the hostname does not follow the pattern.
func portFromProxyHost(raw string) int {
	parsed, err := url.Parse(raw)
	if err != nil {
		return 0
	}
	match := proxyHostPattern.FindStringSubmatch(parsed.Hostname())
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}

// normalizedAddress is the result of validating an address-bar submission.
type normalizedAddress struct {
	// Target is the fully qualified proxied URL the frame should load.
	Target string
	// Path is everything after the host, query and fragment included.
	Path string
	// Port is the serving port named by the address.
	Port int
}

// normalizeAddress converts a user-entered address into a proxied frame URL.
// Only localhost and 127.0.0.1 hosts are accepted; the scheme may be
// omitted. The produced host follows localhost-<port>-pod-<slug>.<domain>.
func normalizeAddress(address string, slug schema.PodSlug, fallbackPort int, domain string) (normalizedAddress, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return normalizedAddress{}, schema.ErrInvalidAddress
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return normalizedAddress{}, fmt.Errorf("%w: %v", schema.ErrInvalidAddress, err)
	}
	host := strings.ToLower(parsed.Hostname())
	if host != "localhost" && host != "127.0.0.1" {
		return normalizedAddress{}, fmt.Errorf("%w: host %q is not localhost", schema.ErrInvalidAddress, parsed.Hostname())
	}
	port := fallbackPort
	if raw := parsed.Port(); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return normalizedAddress{}, fmt.Errorf("%w: port %q", schema.ErrInvalidAddress, raw)
		}
		port = n
	}
	if port <= 0 {
		port = schema.DefaultPort
	}
	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	if parsed.Fragment != "" {
		path += "#" + parsed.Fragment
	}
	target := fmt.Sprintf("http://localhost-%d-pod-%s.%s%s", port, slug, domain, path)
	return normalizedAddress{Target: target, Path: path, Port: port}, nil
}

// pathOfURL returns the path of a stored custom URL, query and fragment
// included, for seeding a fresh address bar.
func pathOfURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "/"
	}
	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	if parsed.Fragment != "" {
		path += "#" + parsed.Fragment
	}
	return path
}

// framePath returns the path component reported in a navigation event,
// query and fragment included.
func framePath(msg schema.FrameMessage) string {
	path := msg.Pathname
	if path == "" {
		path = "/"
	}
	if msg.Search != "" {
		path += msg.Search
	}
	if msg.Hash != "" {
		path += msg.Hash
	}
	return path
}
