package persist

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"pkt.systems/pinacle/schema"
	"pkt.systems/pslog"
)

// PodSnapshot captures the last known-good pod configuration. It backs
// workbench opens when the control plane is unreachable; a malformed remote
// config still falls through to the hardcoded tab pair instead.
type PodSnapshot struct {
	PodID     schema.PodID     `json:"pod_id,omitempty"`
	Config    schema.PodConfig `json:"config"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// Store persists pod snapshots to disk.
type Store struct {
	dir string
	log pslog.Logger
}

// NewStore constructs a persistent store at the given directory.
func NewStore(dir string) (*Store, error) {
	return NewStoreWithLogger(dir, nil)
}

// NewStoreWithLogger constructs a persistent store with logging.
func NewStoreWithLogger(dir string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("cache_dir", dir)
	}
	return &Store{dir: dir, log: logger}, nil
}

// Load reads a pod snapshot from disk.
func (s *Store) Load(slug schema.PodSlug) (PodSnapshot, bool, error) {
	path := s.pathForPod(slug)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if s.log != nil {
				s.log.Debug("config cache miss", "pod", slug)
			}
			return PodSnapshot{}, false, nil
		}
		if s.log != nil {
			s.log.Warn("config cache load failed", "pod", slug, "err", err)
		}
		return PodSnapshot{}, false, err
	}
	var snapshot PodSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		if s.log != nil {
			s.log.Warn("config cache load failed", "pod", slug, "err", err)
		}
		return PodSnapshot{}, false, err
	}
	if s.log != nil {
		s.log.Debug("config cache hit", "pod", slug, "tabs", len(snapshot.Config.Tabs))
	}
	return snapshot, true, nil
}

// Save writes a pod snapshot to disk.
func (s *Store) Save(slug schema.PodSlug, snapshot PodSnapshot) error {
	path := s.pathForPod(slug)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		if s.log != nil {
			s.log.Warn("config cache save failed", "pod", slug, "err", err)
		}
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		if s.log != nil {
			s.log.Warn("config cache save failed", "pod", slug, "err", err)
		}
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "pod-*.json")
	if err != nil {
		if s.log != nil {
			s.log.Warn("config cache save failed", "pod", slug, "err", err)
		}
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("config cache save failed", "pod", slug, "err", err)
		}
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("config cache save failed", "pod", slug, "err", err)
		}
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("config cache save failed", "pod", slug, "err", err)
		}
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("config cache save failed", "pod", slug, "err", err)
		}
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		if s.log != nil {
			s.log.Warn("config cache save failed", "pod", slug, "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Trace("config cache save ok", "pod", slug, "tabs", len(snapshot.Config.Tabs))
	}
	return nil
}

func (s *Store) pathForPod(slug schema.PodSlug) string {
	name := sanitize(string(slug))
	if name == "" {
		name = "unknown"
	}
	return filepath.Join(s.dir, name+".json")
}

func sanitize(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	return b.String()
}
