package pinacle

import (
	"context"
	"errors"
	"sync"
	"time"

	"pkt.systems/pinacle/core"
	"pkt.systems/pinacle/httpapi"
	"pkt.systems/pinacle/internal/logx"
	"pkt.systems/pinacle/internal/persist"
	"pkt.systems/pinacle/schema"
	"pkt.systems/pslog"
)

// Server composes the workbench engine, the HTTP API/UI and the pod
// config sync loop.
type Server interface {
	Start(ctx context.Context) error
	Wait() error
	Stop(ctx context.Context) error
}

// ServerConfig configures the compositor.
type ServerConfig struct {
	Workbench  schema.WorkbenchConfig
	HTTP       httpapi.Config
	HubHistory int
}

// ServerDeps captures dependencies required to build the server. Pods is
// required; Cache and EventSink are optional.
type ServerDeps struct {
	Pods      core.PodClient
	Auth      httpapi.Authenticator
	Cache     *persist.Store
	EventSink core.EventSink
	Logger    pslog.Logger
}

// ServerOption toggles compositor components.
type ServerOption func(*serverOptions)

type serverOptions struct {
	enableHTTP bool
	enableSync bool
}

// WithHTTP enables the HTTP API, event stream, frame bridge and UI.
func WithHTTP() ServerOption {
	return func(o *serverOptions) { o.enableHTTP = true }
}

// WithPodSync enables the periodic pod configuration poll for every open
// workbench.
func WithPodSync() ServerOption {
	return func(o *serverOptions) { o.enableSync = true }
}

// New constructs a composable pinacle server.
func New(cfg ServerConfig, deps ServerDeps, opts ...ServerOption) (Server, error) {
	options := serverOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if !options.enableHTTP && !options.enableSync {
		return nil, errors.New("no services enabled")
	}
	if deps.Pods == nil {
		return nil, errors.New("pod client dependency is required")
	}
	if options.enableHTTP && deps.Auth == nil {
		return nil, errors.New("authenticator dependency is required")
	}

	normalized, err := schema.NormalizeWorkbenchConfig(cfg.Workbench)
	if err != nil {
		return nil, err
	}
	cfg.Workbench = normalized

	var hub *httpapi.Hub
	relay := httpapi.NewFrameRelay()
	serviceDeps := core.ServiceDeps{
		Pods:      deps.Pods,
		Frames:    relay,
		Cache:     deps.Cache,
		EventSink: deps.EventSink,
		Logger:    deps.Logger,
	}
	if options.enableHTTP {
		hub = httpapi.NewHub(cfg.HubHistory)
		if serviceDeps.EventSink == nil {
			serviceDeps.EventSink = hub
		} else {
			serviceDeps.EventSink = eventFanout{sinks: []core.EventSink{serviceDeps.EventSink, hub}}
		}
	}

	service, err := core.NewService(cfg.Workbench, serviceDeps)
	if err != nil {
		return nil, err
	}

	var httpSrv *httpapi.Server
	if options.enableHTTP {
		registry, ok := service.(core.FrameRegistry)
		if !ok {
			return nil, errors.New("service does not expose the frame registry")
		}
		httpSrv = httpapi.NewServer(cfg.HTTP, service, registry, deps.Auth, hub, relay)
	}

	var directory core.WorkbenchDirectory
	if options.enableSync {
		dir, ok := service.(core.WorkbenchDirectory)
		if !ok {
			return nil, errors.New("service does not enumerate workbenches")
		}
		directory = dir
	}

	return &compositeServer{
		cfg:       cfg,
		options:   options,
		service:   service,
		directory: directory,
		httpSrv:   httpSrv,
	}, nil
}

type compositeServer struct {
	cfg       ServerConfig
	options   serverOptions
	service   core.Service
	directory core.WorkbenchDirectory
	httpSrv   *httpapi.Server
	logger    pslog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	errCh   chan error
	started bool
}

func (s *compositeServer) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		pslog.Ctx(ctx).Warn("server start rejected", "reason", "already started")
		return errors.New("server already started")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.errCh = make(chan error, 2)
	s.started = true
	s.logger = pslog.Ctx(s.ctx)
	s.mu.Unlock()

	log := s.logger
	log.Info(
		"server start",
		"http", s.options.enableHTTP,
		"sync", s.options.enableSync,
		"http_addr", s.cfg.HTTP.Addr,
		"http_base_url", s.cfg.HTTP.BaseURL,
		"http_base_path", s.cfg.HTTP.BasePath,
		"sync_interval", s.cfg.Workbench.SyncInterval,
	)
	if s.options.enableHTTP && s.httpSrv != nil {
		s.httpSrv.SetBaseContext(s.ctx)
		go func() {
			if err := httpapi.ListenAndServe(s.ctx, s.cfg.HTTP.Addr, s.httpSrv.Handler()); err != nil {
				log.Error("http server failed", "err", err)
				s.errCh <- err
			}
		}()
	}
	if s.options.enableSync {
		go s.runPodSync(s.ctx)
	}
	return nil
}

func (s *compositeServer) Wait() error {
	s.mu.Lock()
	ctx := s.ctx
	errCh := s.errCh
	started := s.started
	s.mu.Unlock()
	if !started {
		return errors.New("server not started")
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if err != nil {
			pslog.Ctx(ctx).Error("server stopped", "err", err)
			_ = s.Stop(context.Background())
			return err
		}
		return nil
	}
}

func (s *compositeServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	started := s.started
	log := s.logger
	s.mu.Unlock()
	if !started {
		return nil
	}
	if log == nil {
		log = pslog.Ctx(context.Background())
	}
	log.Info("server stop requested")
	if cancel != nil {
		cancel()
	}
	if ctx == nil {
		log.Info("server stop completed")
		return nil
	}
	select {
	case <-ctx.Done():
		log.Warn("server stop timed out", "err", ctx.Err())
		return ctx.Err()
	case <-s.ctx.Done():
		log.Info("server stopped")
		return nil
	}
}

// runPodSync polls the control plane for every open workbench so tab
// layout changes made elsewhere show up without a reload.
func (s *compositeServer) runPodSync(ctx context.Context) {
	interval := s.cfg.Workbench.SyncInterval
	if interval <= 0 {
		interval = 45 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncPass(ctx)
		}
	}
}

// syncPass runs one sync sweep. Failures are per-pod: one unreachable pod
// does not stop the others from syncing.
func (s *compositeServer) syncPass(ctx context.Context) {
	if s.directory == nil {
		return
	}
	for _, slug := range s.directory.OpenSlugs() {
		if ctx.Err() != nil {
			return
		}
		log := logx.WithPod(ctx, slug)
		resp, err := s.service.SyncPod(ctx, schema.SyncPodRequest{Slug: slug})
		if err != nil {
			log.Warn("pod sync failed", "err", err)
			continue
		}
		if resp.Changed {
			log.Info("pod sync applied", "tabs", len(resp.Tabs))
		}
	}
}
