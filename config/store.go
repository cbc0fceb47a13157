package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
)

// Store reads and writes the settings file.
type Store struct {
	path   string
	logger *log.Logger
}

// NewStore returns a store for path. An empty path disables persistence.
func NewStore(path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{path: path, logger: logger}
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

// Load returns the stored settings layered over Default. A missing file is
// not an error; a corrupt file yields defaults and the decode error.
func (s *Store) Load() (*Settings, error) {
	st := Default()
	if s.path == "" {
		return st, nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("read settings: %w", err)
	}
	if _, err := toml.Decode(string(data), st); err != nil {
		return Default(), fmt.Errorf("parse settings %s: %w", s.path, err)
	}
	st.Sanitize()
	st.Changed = false
	s.logger.Debug("settings loaded", "path", s.path)
	return st, nil
}

// Save writes st under an exclusive file lock and clears st.Changed.
func (s *Store) Save(st *Settings) error {
	if s.path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock settings: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(st); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ptoprc-*")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	st.Changed = false
	s.logger.Debug("settings saved", "path", s.path)
	return nil
}
