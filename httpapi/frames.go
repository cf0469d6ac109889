package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"pkt.systems/pinacle/internal/logx"
	"pkt.systems/pinacle/schema"
	"pkt.systems/pslog"
)

// FrameRelay tracks the bridge socket of every connected frame and
// implements core.FrameTransport on top of them. One socket per frame; a
// reconnect supersedes the previous socket.
type FrameRelay struct {
	mu    sync.Mutex
	conns map[frameKey]*frameConn
}

type frameKey struct {
	slug    schema.PodSlug
	frameID schema.FrameID
}

// frameConn serializes writes to one socket.
type frameConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewFrameRelay constructs an empty relay.
func NewFrameRelay() *FrameRelay {
	return &FrameRelay{conns: make(map[frameKey]*frameConn)}
}

// SendToFrame implements core.FrameTransport.
func (r *FrameRelay) SendToFrame(ctx context.Context, slug schema.PodSlug, frameID schema.FrameID, msg schema.FrameMessage) error {
	data, err := schema.EncodeFrameMessage(msg)
	if err != nil {
		return err
	}
	r.mu.Lock()
	fc := r.conns[frameKey{slug: slug, frameID: frameID}]
	r.mu.Unlock()
	if fc == nil {
		return fmt.Errorf("%w: %s", schema.ErrFrameNotConnected, frameID)
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.conn.Write(ctx, websocket.MessageText, data)
}

// Connected reports whether a frame currently holds a socket.
func (r *FrameRelay) Connected(slug schema.PodSlug, frameID schema.FrameID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conns[frameKey{slug: slug, frameID: frameID}] != nil
}

func (r *FrameRelay) attach(slug schema.PodSlug, frameID schema.FrameID, conn *websocket.Conn) *frameConn {
	key := frameKey{slug: slug, frameID: frameID}
	fc := &frameConn{conn: conn}
	r.mu.Lock()
	old := r.conns[key]
	r.conns[key] = fc
	r.mu.Unlock()
	if old != nil {
		_ = old.conn.Close(websocket.StatusPolicyViolation, "superseded")
	}
	return fc
}

// detach removes the socket if it is still the frame's current one.
// Returns false when a newer socket already replaced it, in which case the
// frame stays connected.
func (r *FrameRelay) detach(slug schema.PodSlug, frameID schema.FrameID, fc *frameConn) bool {
	key := frameKey{slug: slug, frameID: frameID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns[key] != fc {
		return false
	}
	delete(r.conns, key)
	return true
}

// handleFrameSocket accepts a bridge socket from proxied frame content. The
// socket authenticates with the frame's mount token; a stale token (from a
// previous mount) is rejected before the upgrade.
func (s *Server) handleFrameSocket(w http.ResponseWriter, r *http.Request) {
	slug := podSlug(r)
	frameID := schema.FrameID(r.URL.Query().Get("frame"))
	token := r.URL.Query().Get("token")
	log := logx.WithFrame(logx.WithPod(r.Context(), slug), frameID)

	if err := s.registry.VerifyFrameToken(slug, frameID, token); err != nil {
		log.Warn("frame socket rejected", "err", err)
		writeError(w, statusForError(err), err)
		return
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.FrameOrigins,
	})
	if err != nil {
		log.Warn("frame socket accept failed", "err", err)
		return
	}

	// The request context dies with hijacked connections in surprising
	// ways; the read loop owns the socket lifetime instead.
	ctx := pslog.ContextWithLogger(context.Background(), log)
	fc := s.relay.attach(slug, frameID, conn)
	s.registry.FrameConnected(ctx, slug, frameID)
	log.Info("frame socket attached")
	defer func() {
		if s.relay.detach(slug, frameID, fc) {
			s.registry.FrameDisconnected(ctx, slug, frameID)
		}
		_ = conn.Close(websocket.StatusNormalClosure, "")
		log.Info("frame socket detached")
	}()

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			continue
		}
		msg, err := schema.ParseFrameMessage(data)
		if err != nil {
			log.Debug("frame message rejected", "err", err)
			continue
		}
		if s.cfg.TraceFrames {
			log.Debug("frame message", "type", msg.Type)
		}
		if _, err := s.service.FrameInbound(ctx, schema.FrameInboundRequest{
			Slug:    slug,
			FrameID: frameID,
			Message: msg,
		}); err != nil {
			log.Warn("frame message failed", "err", err)
		}
	}
}
