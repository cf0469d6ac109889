package core

import (
	"pkt.systems/pinacle/internal/persist"
	"pkt.systems/pslog"
)

// ServiceDeps captures the collaborators of the core service. Pods is
// required; everything else degrades gracefully when nil.
type ServiceDeps struct {
	Pods      PodClient
	Frames    FrameTransport
	Cache     *persist.Store
	EventSink EventSink
	Logger    pslog.Logger
}
