package tokenstore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/kryptograf"
	"pkt.systems/kryptograf/keymgmt"
	"pkt.systems/pslog"
)

const descriptorName = "pinacle:controlplane"

// ErrNoToken indicates no control-plane token has been stored yet.
var ErrNoToken = errors.New("no control-plane token stored")

// Store keeps the control-plane API token encrypted at rest. Key material
// lives in a keymgmt bundle; the ciphertext is a separate file so the token
// can be cleared without touching the root key.
type Store struct {
	keyStorePath string
	tokenPath    string
	log          pslog.Logger
}

// NewStore initializes the token store and ensures the root key exists.
func NewStore(keyStorePath, tokenPath string) (*Store, error) {
	return NewStoreWithLogger(keyStorePath, tokenPath, nil)
}

// NewStoreWithLogger initializes the token store with logging.
func NewStoreWithLogger(keyStorePath, tokenPath string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(keyStorePath) == "" {
		return nil, fmt.Errorf("key store path is required")
	}
	if strings.TrimSpace(tokenPath) == "" {
		return nil, fmt.Errorf("token path is required")
	}
	if err := os.MkdirAll(filepath.Dir(keyStorePath), 0o700); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(tokenPath), 0o700); err != nil {
		return nil, err
	}
	store, err := keymgmt.LoadProto(keyStorePath)
	if err != nil {
		return nil, err
	}
	if _, err := store.EnsureRootKey(); err != nil {
		return nil, err
	}
	if err := store.Commit(); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("token_file", tokenPath)
	}
	return &Store{keyStorePath: keyStorePath, tokenPath: tokenPath, log: logger}, nil
}

// Save encrypts and stores the token, rotating the data key.
func (s *Store) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is required")
	}
	material, root, err := s.material(true)
	if err != nil {
		if s.log != nil {
			s.log.Warn("token save failed", "err", err)
		}
		return err
	}
	kg := kryptograf.New(root)

	tmp, err := os.CreateTemp(filepath.Dir(s.tokenPath), "token-*.enc")
	if err != nil {
		if s.log != nil {
			s.log.Warn("token save failed", "err", err)
		}
		return err
	}
	tmpPath := tmp.Name()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("token save failed", "err", err)
		}
		return err
	}
	writer, err := kg.EncryptWriter(tmp, material)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("token save failed", "err", err)
		}
		return err
	}
	if _, err := io.Copy(writer, bytes.NewReader([]byte(token))); err != nil {
		_ = writer.Close()
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("token save failed", "err", err)
		}
		return err
	}
	if err := writer.Close(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("token save failed", "err", err)
		}
		return err
	}
	_ = tmp.Close()
	if err := os.Rename(tmpPath, s.tokenPath); err != nil {
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("token save failed", "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Info("token saved")
	}
	return nil
}

// Load decrypts and returns the stored token.
func (s *Store) Load() (string, error) {
	if _, err := os.Stat(s.tokenPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoToken
		}
		if s.log != nil {
			s.log.Warn("token load failed", "err", err)
		}
		return "", err
	}
	material, root, err := s.material(false)
	if err != nil {
		if s.log != nil {
			s.log.Warn("token load failed", "err", err)
		}
		return "", err
	}
	kg := kryptograf.New(root)
	file, err := os.Open(s.tokenPath)
	if err != nil {
		if s.log != nil {
			s.log.Warn("token load failed", "err", err)
		}
		return "", err
	}
	defer func() { _ = file.Close() }()
	reader, err := kg.DecryptReader(file, material)
	if err != nil {
		if s.log != nil {
			s.log.Warn("token load failed", "err", err)
		}
		return "", err
	}
	defer func() { _ = reader.Close() }()
	plain, err := io.ReadAll(reader)
	if err != nil {
		if s.log != nil {
			s.log.Warn("token load failed", "err", err)
		}
		return "", err
	}
	if s.log != nil {
		s.log.Debug("token load ok")
	}
	return strings.TrimSpace(string(plain)), nil
}

// Token implements the control-plane client's token source.
func (s *Store) Token() (string, error) {
	return s.Load()
}

// Exists reports whether a token ciphertext is present.
func (s *Store) Exists() (bool, error) {
	info, err := os.Stat(s.tokenPath)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Clear removes the stored token ciphertext. The key bundle is retained.
func (s *Store) Clear() error {
	if err := os.Remove(s.tokenPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if s.log != nil {
			s.log.Warn("token clear failed", "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Info("token cleared")
	}
	return nil
}

func (s *Store) material(rotate bool) (keymgmt.Material, keymgmt.RootKey, error) {
	store, err := keymgmt.LoadProto(s.keyStorePath)
	if err != nil {
		return keymgmt.Material{}, keymgmt.RootKey{}, err
	}
	root, err := store.EnsureRootKey()
	if err != nil {
		return keymgmt.Material{}, keymgmt.RootKey{}, err
	}
	contextBytes := []byte(descriptorName)
	var material keymgmt.Material
	if rotate {
		material, err = keymgmt.MintDEK(root, contextBytes)
		if err != nil {
			return keymgmt.Material{}, keymgmt.RootKey{}, err
		}
		if err := store.SetDescriptor(descriptorName, material.Descriptor); err != nil {
			return keymgmt.Material{}, keymgmt.RootKey{}, err
		}
	} else {
		material, err = store.EnsureDescriptor(descriptorName, root, contextBytes)
		if err != nil {
			return keymgmt.Material{}, keymgmt.RootKey{}, err
		}
	}
	if err := store.Commit(); err != nil {
		return keymgmt.Material{}, keymgmt.RootKey{}, err
	}
	return material, root, nil
}
