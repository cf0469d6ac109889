package core

import (
	"context"
	"fmt"
	"net/url"

	"pkt.systems/pinacle/schema"
)

// FrameTransport delivers host-to-frame commands. The HTTP layer implements
// it on top of the per-frame bridge sockets; a nil transport drops commands.
type FrameTransport interface {
	SendToFrame(ctx context.Context, slug schema.PodSlug, frameID schema.FrameID, msg schema.FrameMessage) error
}

// frame tracks one tab's isolated content frame. KeepRendered frames stay
// mounted across tab switches with only the Visible flag flipping; other
// frames mount on activation and unmount on switch-away.
type frame struct {
	ID           schema.FrameID
	TabID        schema.TabID
	Src          string
	Token        string
	Mounted      bool
	Visible      bool
	Connected    bool
	KeepRendered bool

	// pendingSrc holds the source during a refresh cycle, while Src sits
	// empty to force the re-navigation.
	pendingSrc string
}

func (f *frame) Snapshot() schema.FrameSnapshot {
	return schema.FrameSnapshot{
		ID:           f.ID,
		TabID:        f.TabID,
		Src:          f.Src,
		Token:        f.Token,
		Mounted:      f.Mounted,
		Visible:      f.Visible,
		Connected:    f.Connected,
		KeepRendered: f.KeepRendered,
	}
}

// frameSrc builds the authenticating proxy URL a frame loads through. The
// target URL is never embedded directly; the proxy validates the session and
// mints a scoped token before forwarding.
func frameSrc(proxyPath string, slug schema.PodSlug, t *tab) string {
	query := url.Values{}
	query.Set("pod", string(slug))
	query.Set("port", fmt.Sprintf("%d", t.Port))
	if path := returnPath(t); path != "" {
		query.Set("return_url", path)
	}
	return proxyPath + "?" + query.Encode()
}

// returnPath picks the optional sub-path the proxy should land on:
// terminal tabs restore their session URL, custom tabs open at their
// configured path, service tabs start at the root.
func returnPath(t *tab) string {
	if t.Terminal {
		return t.ReturnURL
	}
	if t.CustomURL != "" {
		if path := pathOfURL(t.CustomURL); path != "/" {
			return path
		}
	}
	return ""
}
