package logx

import (
	"context"

	"pkt.systems/pinacle/schema"
	"pkt.systems/pslog"
)

type contextKey int

const (
	podKey contextKey = iota
	tabKey
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithPod annotates the logger with the pod slug if present.
func WithPod(ctx context.Context, slug schema.PodSlug) pslog.Logger {
	log := pslog.Ctx(ctx)
	if slug != "" {
		if current, ok := ctx.Value(podKey).(schema.PodSlug); ok && current == slug {
			return log
		}
		log = log.With("pod", slug)
	}
	return log
}

// WithPodTab annotates the logger with pod and tab identifiers.
func WithPodTab(ctx context.Context, slug schema.PodSlug, tabID schema.TabID) pslog.Logger {
	log := WithPod(ctx, slug)
	if tabID != "" {
		if current, ok := ctx.Value(tabKey).(schema.TabID); ok && current == tabID {
			return log
		}
		log = log.With("tab", tabID)
	}
	return log
}

// WithFrame annotates the logger with a frame id when available.
func WithFrame(log pslog.Logger, frameID schema.FrameID) pslog.Logger {
	if frameID != "" {
		log = log.With("frame", frameID)
	}
	return log
}

// ContextWithPod stores the pod marker on the context for log de-duplication.
func ContextWithPod(ctx context.Context, slug schema.PodSlug) context.Context {
	if ctx == nil || slug == "" {
		return ctx
	}
	return context.WithValue(ctx, podKey, slug)
}

// ContextWithTab stores the tab marker on the context for log de-duplication.
func ContextWithTab(ctx context.Context, tabID schema.TabID) context.Context {
	if ctx == nil || tabID == "" {
		return ctx
	}
	return context.WithValue(ctx, tabKey, tabID)
}

// ContextWithPodTab stores pod/tab markers on the context for log de-duplication.
func ContextWithPodTab(ctx context.Context, slug schema.PodSlug, tabID schema.TabID) context.Context {
	return ContextWithTab(ContextWithPod(ctx, slug), tabID)
}

// ContextWithPodLogger attaches the logger and pod marker to the context.
func ContextWithPodLogger(ctx context.Context, log pslog.Logger, slug schema.PodSlug) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithPod(ctx, slug)
}
