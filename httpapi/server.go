package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pkt.systems/pinacle/core"
	"pkt.systems/pinacle/internal/logx"
	"pkt.systems/pinacle/schema"
	"pkt.systems/pslog"
)

// Authenticator validates the platform grant presented when a browser
// session is opened. User identity lives with the platform; the host only
// needs to know the handoff is genuine before minting its session cookie.
type Authenticator interface {
	Authenticate(grant string) error
}

// Server serves the HTTP API, the SSE event stream, the frame bridge and
// the embedded workbench UI.
type Server struct {
	cfg      Config
	service  core.Service
	registry core.FrameRegistry
	auth     Authenticator
	sessions *sessionStore
	hub      *Hub
	relay    *FrameRelay
	basePath string
	baseHref string
}

// NewServer constructs an HTTP server around the workbench service. The
// relay must be the same instance the service was wired with, so commands
// the engine posts reach the sockets this server accepts.
func NewServer(cfg Config, service core.Service, registry core.FrameRegistry, auth Authenticator, hub *Hub, relay *FrameRelay) *Server {
	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 720 * time.Hour
	}
	return &Server{
		cfg:      cfg,
		service:  service,
		registry: registry,
		auth:     auth,
		sessions: newSessionStore(ttl, cfg.SessionFile),
		hub:      hub,
		relay:    relay,
		basePath: normalizeBasePath(cfg.BasePath),
		baseHref: buildBaseHref(cfg.BaseURL, cfg.BasePath),
	}
}

// SetBaseContext sets the parent context for session lifetimes.
func (s *Server) SetBaseContext(ctx context.Context) {
	if s == nil || ctx == nil {
		return
	}
	s.sessions.setBaseContext(ctx)
}

// Handler returns an http.Handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))

	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/api/workbench", s.requireSession(s.handleWorkbench))
	mux.HandleFunc("/api/tabs", s.requireSession(s.handleTabs))
	mux.HandleFunc("/api/tabs/activate", s.requireSession(s.handleActivate))
	mux.HandleFunc("/api/tabs/close", s.requireSession(s.handleCloseTab))
	mux.HandleFunc("/api/tabs/reorder", s.requireSession(s.handleReorder))
	mux.HandleFunc("/api/tabs/rename", s.requireSession(s.handleRename))
	mux.HandleFunc("/api/navigate", s.requireSession(s.handleNavigate))
	mux.HandleFunc("/api/navigate/back", s.requireSession(s.handleNavigateBack))
	mux.HandleFunc("/api/navigate/forward", s.requireSession(s.handleNavigateForward))
	mux.HandleFunc("/api/frame/refresh", s.requireSession(s.handleRefreshFrame))
	mux.HandleFunc("/api/history", s.requireSession(s.handleAddressHistory))
	mux.HandleFunc("/api/shortcut", s.requireSession(s.handleShortcut))
	mux.HandleFunc("/api/window-focus", s.requireSession(s.handleWindowFocus))
	mux.HandleFunc("/api/source-control", s.requireSession(s.handleSourceControl))
	mux.HandleFunc("/api/stream", s.requireSession(s.handleStream))

	// The bridge socket is opened from inside proxied frame content on a
	// different origin; the session cookie never travels with it. Frame
	// tokens gate it instead.
	mux.HandleFunc("/api/frame", s.handleFrameSocket)

	handler := withRequestLogging(mux, s.lookupSession)
	if s.basePath == "" {
		return handler
	}
	prefix := s.basePath
	root := http.NewServeMux()
	root.Handle(prefix+"/", http.StripPrefix(prefix, handler))
	root.HandleFunc(prefix, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != prefix {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, prefix+"/", http.StatusTemporaryRedirect)
	})
	return root
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data, err := fs.ReadFile(assetsFS, "index.html")
	if err != nil {
		http.Error(w, "index not found", http.StatusInternalServerError)
		return
	}
	stat, err := fs.Stat(assetsFS, "index.html")
	if err != nil {
		http.Error(w, "index not found", http.StatusInternalServerError)
		return
	}
	data = applyBaseHref(data, s.baseHref)
	reader := bytes.NewReader(data)
	http.ServeContent(w, r, "index.html", stat.ModTime(), reader)
}

const baseHrefPlaceholder = "<!-- BASE_HREF -->"

func applyBaseHref(data []byte, baseHref string) []byte {
	replacement := ""
	if strings.TrimSpace(baseHref) != "" {
		replacement = fmt.Sprintf(`<base href="%s" />`, html.EscapeString(baseHref))
	}
	return bytes.ReplaceAll(data, []byte(baseHrefPlaceholder), []byte(replacement))
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	log := logx.Ctx(r.Context()).With("remote", clientIP(r))
	switch r.Method {
	case http.MethodPost:
		var payload struct {
			Grant string `json:"grant"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			log.Warn("http session decode failed", "err", err)
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := s.auth.Authenticate(payload.Grant); err != nil {
			log.Warn("http session rejected", "err", err)
			writeError(w, http.StatusUnauthorized, err)
			return
		}
		token, sess := s.sessions.create()
		http.SetCookie(w, &http.Cookie{
			Name:     s.cfg.SessionCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  sess.expiresAt,
		})
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		log.Info("http session created", "http_session", sess.id)
	case http.MethodDelete:
		token := s.sessionToken(r)
		if token != "" {
			if entry, ok := s.sessions.get(token); ok {
				log = log.With("http_session", entry.id)
			}
			s.sessions.delete(token)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     s.cfg.SessionCookie,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		log.Info("http session ended")
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleWorkbench(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		slug := podSlug(r)
		log := logx.WithPod(ctx, slug)
		resp, err := s.service.DescribeWorkbench(ctx, schema.DescribeWorkbenchRequest{Slug: slug})
		if err != nil {
			log.Warn("http workbench describe failed", "err", err)
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		log.Debug("http workbench describe ok", "tabs", len(resp.Workbench.Tabs))
	case http.MethodPost:
		var payload struct {
			Pod   string `json:"pod"`
			PodID string `json:"pod_id"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			logx.Ctx(ctx).Warn("http workbench decode failed", "err", err)
			writeError(w, http.StatusBadRequest, err)
			return
		}
		slug := schema.PodSlug(payload.Pod)
		log := logx.WithPod(ctx, slug)
		resp, err := s.service.OpenWorkbench(ctx, schema.OpenWorkbenchRequest{
			Slug:  slug,
			PodID: schema.PodID(payload.PodID),
		})
		if err != nil {
			log.Warn("http workbench open failed", "err", err)
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		log.Info("http workbench open ok", "tabs", len(resp.Workbench.Tabs), "active", resp.Workbench.ActiveTab)
	case http.MethodDelete:
		slug := podSlug(r)
		log := logx.WithPod(ctx, slug)
		resp, err := s.service.CloseWorkbench(ctx, schema.CloseWorkbenchRequest{Slug: slug})
		if err != nil {
			log.Warn("http workbench close failed", "err", err)
			writeError(w, statusForError(err), err)
			return
		}
		s.hub.Forget(slug)
		writeJSON(w, http.StatusOK, resp)
		log.Info("http workbench close ok")
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleTabs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		slug := podSlug(r)
		log := logx.WithPod(ctx, slug)
		resp, err := s.service.ListTabs(ctx, schema.ListTabsRequest{Slug: slug})
		if err != nil {
			log.Warn("http tabs list failed", "err", err)
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		log.Debug("http tabs list ok", "count", len(resp.Tabs))
	case http.MethodPost:
		var payload struct {
			Pod     string `json:"pod"`
			Name    string `json:"name"`
			Service string `json:"service"`
			URL     string `json:"url"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			logx.Ctx(ctx).Warn("http tabs decode failed", "err", err)
			writeError(w, http.StatusBadRequest, err)
			return
		}
		slug := schema.PodSlug(payload.Pod)
		log := logx.WithPod(ctx, slug)
		resp, err := s.service.CreateTab(ctx, schema.CreateTabRequest{
			Slug:    slug,
			Name:    payload.Name,
			Service: schema.ServiceKey(payload.Service),
			URL:     payload.URL,
		})
		if err != nil {
			log.Warn("http tabs create failed", "err", err)
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		log.Info("http tabs create ok", "tab", resp.Tab.ID, "label", resp.Tab.Label)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	payload, log, ok := s.decodeTabRequest(w, r, "http activate")
	if !ok {
		return
	}
	resp, err := s.service.ActivateTab(r.Context(), schema.ActivateTabRequest{
		Slug:  payload.slug,
		TabID: payload.tabID,
	})
	if err != nil {
		log.Warn("http activate failed", "err", err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	log.Info("http activate ok", "tab", resp.Tab.ID)
}

func (s *Server) handleCloseTab(w http.ResponseWriter, r *http.Request) {
	payload, log, ok := s.decodeTabRequest(w, r, "http tab close")
	if !ok {
		return
	}
	resp, err := s.service.CloseTab(r.Context(), schema.CloseTabRequest{
		Slug:  payload.slug,
		TabID: payload.tabID,
	})
	if err != nil {
		log.Warn("http tab close failed", "err", err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	log.Info("http tab close ok", "tab", payload.tabID, "active", resp.ActiveTab)
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload struct {
		Pod   string   `json:"pod"`
		Order []string `json:"order"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		logx.Ctx(ctx).Warn("http reorder decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	slug := schema.PodSlug(payload.Pod)
	log := logx.WithPod(ctx, slug)
	order := make([]schema.TabID, len(payload.Order))
	for i, id := range payload.Order {
		order[i] = schema.TabID(id)
	}
	resp, err := s.service.ReorderTabs(ctx, schema.ReorderTabsRequest{Slug: slug, Order: order})
	if err != nil {
		log.Warn("http reorder failed", "err", err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	log.Info("http reorder ok", "tabs", len(resp.Tabs))
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload struct {
		Pod   string `json:"pod"`
		TabID string `json:"tab_id"`
		Name  string `json:"name"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		logx.Ctx(ctx).Warn("http rename decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	slug := schema.PodSlug(payload.Pod)
	log := logx.WithPodTab(ctx, slug, schema.TabID(payload.TabID))
	resp, err := s.service.RenameTab(ctx, schema.RenameTabRequest{
		Slug:  slug,
		TabID: schema.TabID(payload.TabID),
		Name:  payload.Name,
	})
	if err != nil {
		log.Warn("http rename failed", "err", err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	log.Info("http rename ok", "tab", resp.Tab.ID, "label", resp.Tab.Label)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload struct {
		Pod     string `json:"pod"`
		TabID   string `json:"tab_id"`
		Address string `json:"address"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		logx.Ctx(ctx).Warn("http navigate decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	slug := schema.PodSlug(payload.Pod)
	log := logx.WithPodTab(ctx, slug, schema.TabID(payload.TabID))
	resp, err := s.service.Navigate(ctx, schema.NavigateRequest{
		Slug:    slug,
		TabID:   schema.TabID(payload.TabID),
		Address: payload.Address,
	})
	if err != nil {
		log.Warn("http navigate failed", "err", err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	log.Info("http navigate ok", "url", resp.Navigation.DisplayURL)
}

func (s *Server) handleNavigateBack(w http.ResponseWriter, r *http.Request) {
	payload, log, ok := s.decodeTabRequest(w, r, "http back")
	if !ok {
		return
	}
	resp, err := s.service.NavigateBack(r.Context(), schema.NavigateBackRequest{
		Slug:  payload.slug,
		TabID: payload.tabID,
	})
	if err != nil {
		log.Warn("http back failed", "err", err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	log.Debug("http back ok")
}

func (s *Server) handleNavigateForward(w http.ResponseWriter, r *http.Request) {
	payload, log, ok := s.decodeTabRequest(w, r, "http forward")
	if !ok {
		return
	}
	resp, err := s.service.NavigateForward(r.Context(), schema.NavigateForwardRequest{
		Slug:  payload.slug,
		TabID: payload.tabID,
	})
	if err != nil {
		log.Warn("http forward failed", "err", err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	log.Debug("http forward ok")
}

func (s *Server) handleRefreshFrame(w http.ResponseWriter, r *http.Request) {
	payload, log, ok := s.decodeTabRequest(w, r, "http refresh")
	if !ok {
		return
	}
	resp, err := s.service.RefreshFrame(r.Context(), schema.RefreshFrameRequest{
		Slug:  payload.slug,
		TabID: payload.tabID,
	})
	if err != nil {
		log.Warn("http refresh failed", "err", err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	log.Info("http refresh ok", "frame", resp.Frame.ID)
}

func (s *Server) handleAddressHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	slug := podSlug(r)
	tabID := schema.TabID(r.URL.Query().Get("tab"))
	log := logx.WithPodTab(ctx, slug, tabID)
	resp, err := s.service.GetAddressHistory(ctx, schema.GetAddressHistoryRequest{
		Slug:  slug,
		TabID: tabID,
	})
	if err != nil {
		log.Warn("http history failed", "err", err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	log.Debug("http history ok", "entries", len(resp.Entries))
}

func (s *Server) handleShortcut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload struct {
		Pod   string `json:"pod"`
		Digit string `json:"digit"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		logx.Ctx(ctx).Warn("http shortcut decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	slug := schema.PodSlug(payload.Pod)
	log := logx.WithPod(ctx, slug)
	resp, err := s.service.PressShortcut(ctx, schema.PressShortcutRequest{
		Slug:  slug,
		Digit: payload.Digit,
	})
	if err != nil {
		log.Warn("http shortcut failed", "err", err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	log.Debug("http shortcut ok", "digit", payload.Digit, "handled", resp.Handled)
}

func (s *Server) handleWindowFocus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload struct {
		Pod string `json:"pod"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		logx.Ctx(ctx).Warn("http window focus decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	slug := schema.PodSlug(payload.Pod)
	log := logx.WithPod(ctx, slug)
	resp, err := s.service.WindowFocus(ctx, schema.WindowFocusRequest{Slug: slug})
	if err != nil {
		log.Warn("http window focus failed", "err", err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	log.Debug("http window focus ok")
}

func (s *Server) handleSourceControl(w http.ResponseWriter, r *http.Request) {
	payload, log, ok := s.decodeTabRequest(w, r, "http source control")
	if !ok {
		return
	}
	resp, err := s.service.OpenSourceControl(r.Context(), schema.OpenSourceControlRequest{
		Slug:  payload.slug,
		TabID: payload.tabID,
	})
	if err != nil {
		log.Warn("http source control failed", "err", err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	log.Info("http source control ok", "tab", payload.tabID)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("stream unsupported"))
		return
	}
	slug := podSlug(r)
	log := logx.WithPod(r.Context(), slug)

	describe, err := s.service.DescribeWorkbench(r.Context(), schema.DescribeWorkbenchRequest{Slug: slug})
	if err != nil {
		log.Warn("http stream rejected", "err", err)
		writeError(w, statusForError(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// EventSource reconnects resend the id header; the UI also passes
	// ?after= when it rebuilds the stream from scratch.
	lastID := parseUint(r.Header.Get("Last-Event-ID"))
	if lastID == 0 {
		lastID = parseUint(r.URL.Query().Get("after"))
	}

	snapshot := describe.Workbench
	_ = writeSSEvent(w, StreamEvent{
		Type:      "snapshot",
		Snapshot:  &snapshot,
		Timestamp: time.Now(),
	})
	flusher.Flush()

	replayCount := 0
	if lastID > 0 {
		replay := s.hub.Replay(slug, lastID)
		replayCount = len(replay)
		for _, event := range replay {
			_ = writeSSEvent(w, event)
		}
		flusher.Flush()
	}

	ch, unsubscribe, _, _ := s.hub.Subscribe(slug)
	defer unsubscribe()

	var sessionDone <-chan struct{}
	if sess, ok := sessionFrom(r.Context()); ok && sess.ctx != nil {
		sessionDone = sess.ctx.Done()
	}

	notify := r.Context().Done()
	log.Info("http stream opened", "last_id", lastID, "replay", replayCount, "tabs", len(snapshot.Tabs))
	for {
		select {
		case <-notify:
			log.Info("http stream closed")
			return
		case <-sessionDone:
			log.Info("http stream closed", "reason", "session ended")
			return
		case event := <-ch:
			_ = writeSSEvent(w, event)
			flusher.Flush()
		}
	}
}

// tabRequest is the common {pod, tab_id} POST body.
type tabRequest struct {
	slug  schema.PodSlug
	tabID schema.TabID
}

func (s *Server) decodeTabRequest(w http.ResponseWriter, r *http.Request, what string) (tabRequest, pslog.Logger, bool) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return tabRequest{}, nil, false
	}
	var payload struct {
		Pod   string `json:"pod"`
		TabID string `json:"tab_id"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		logx.Ctx(ctx).Warn(what+" decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return tabRequest{}, nil, false
	}
	req := tabRequest{
		slug:  schema.PodSlug(payload.Pod),
		tabID: schema.TabID(payload.TabID),
	}
	return req, logx.WithPodTab(ctx, req.slug, req.tabID), true
}

func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logx.Ctx(r.Context()).With("remote", clientIP(r))
		token := s.sessionToken(r)
		if token == "" {
			log.Warn("http session missing")
			writeError(w, http.StatusUnauthorized, errors.New("missing session"))
			return
		}
		entry, ok := s.sessions.get(token)
		if !ok {
			log.Warn("http session invalid")
			writeError(w, http.StatusUnauthorized, errors.New("invalid session"))
			return
		}
		log = log.With("http_session", entry.id)
		ctx := pslog.ContextWithLogger(r.Context(), log)
		ctx = withSession(ctx, entry)
		next(w, r.WithContext(ctx))
	}
}

type sessionContextKey struct{}

func withSession(ctx context.Context, sess session) context.Context {
	if ctx == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

func sessionFrom(ctx context.Context) (session, bool) {
	if ctx == nil {
		return session{}, false
	}
	sess, ok := ctx.Value(sessionContextKey{}).(session)
	return sess, ok
}

func (s *Server) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(s.cfg.SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Server) lookupSession(r *http.Request) string {
	if s == nil || r == nil {
		return ""
	}
	token := s.sessionToken(r)
	if token == "" {
		return ""
	}
	entry, ok := s.sessions.get(token)
	if !ok {
		return ""
	}
	return entry.id
}

func podSlug(r *http.Request) schema.PodSlug {
	return schema.PodSlug(r.URL.Query().Get("pod"))
}

// statusForError maps sentinel service errors onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, schema.ErrWorkbenchNotFound),
		errors.Is(err, schema.ErrTabNotFound):
		return http.StatusNotFound
	case errors.Is(err, schema.ErrDuplicateTab):
		return http.StatusConflict
	case errors.Is(err, schema.ErrInvalidFrameToken):
		return http.StatusUnauthorized
	case errors.Is(err, schema.ErrInvalidSlug),
		errors.Is(err, schema.ErrInvalidRequest),
		errors.Is(err, schema.ErrInvalidTabName),
		errors.Is(err, schema.ErrInvalidAddress),
		errors.Is(err, schema.ErrNotProcessTab),
		errors.Is(err, schema.ErrInvalidOrder),
		errors.Is(err, schema.ErrNoTabs),
		errors.Is(err, schema.ErrInvalidFrameMessage),
		errors.Is(err, schema.ErrUnknownFrameMessage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(body io.Reader, target any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeSSEvent(w http.ResponseWriter, event StreamEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if event.Seq > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", event.Seq)
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", strings.TrimSpace(string(data)))
	return nil
}

func parseUint(value string) uint64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}
