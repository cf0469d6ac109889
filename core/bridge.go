package core

import (
	"context"
	"time"

	"pkt.systems/pinacle/internal/persist"
	"pkt.systems/pinacle/schema"
	"pkt.systems/pslog"
)

// persistTabs writes the full tab layout to the control plane and, on
// success, refreshes the local config cache. Runs detached from the
// triggering operation: the optimistic local mutation stands either way, a
// failure only surfaces a notice, and nothing retries. The next successful
// refetch is the source of truth.
func (s *service) persistTabs(log pslog.Logger, slug schema.PodSlug, podID schema.PodID, entries []schema.PodTabEntry, services []string) {
	if err := s.pods.UpdateTabs(context.Background(), slug, entries); err != nil {
		log.Warn("tab layout save failed", "tabs", len(entries), "err", err)
		s.emitNotice(schema.NoticeEvent{
			Slug:    slug,
			Level:   schema.NoticeError,
			Message: "Failed to save tab layout",
		})
		return
	}
	log.Debug("tab layout saved", "tabs", len(entries))
	s.cacheConfig(log, slug, podID, schema.PodConfig{Tabs: entries, Services: services})
}

// cacheConfig stores the last known good pod configuration for offline
// opens. Cache failures are log-only.
func (s *service) cacheConfig(log pslog.Logger, slug schema.PodSlug, podID schema.PodID, cfg schema.PodConfig) {
	if s.cache == nil {
		return
	}
	snapshot := persist.PodSnapshot{PodID: podID, Config: cfg, FetchedAt: time.Now().UTC()}
	if err := s.cache.Save(slug, snapshot); err != nil {
		log.Warn("config cache refresh failed", "err", err)
	}
}
