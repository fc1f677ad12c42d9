// Package store is the host's state container: a YAML file of opaque,
// per-view state blobs kept across runs.
package store

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileVersion = 1

type document struct {
	Version int               `yaml:"version"`
	Views   map[string]string `yaml:"views"`
}

// Store holds view state in memory until Save.
type Store struct {
	path  string
	views map[string][]byte
}

// Open reads the store at path. A missing or empty file is an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, views: map[string][]byte{}}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", path, err)
	}
	if doc.Version == 0 && doc.Views == nil {
		return s, nil
	}
	if doc.Version != fileVersion {
		return nil, fmt.Errorf("state file %s: unsupported version %d", path, doc.Version)
	}
	for name, enc := range doc.Views {
		blob, err := base64.StdEncoding.DecodeString(enc)
		if err != nil {
			return nil, fmt.Errorf("state file %s: view %q: %w", path, name, err)
		}
		s.views[name] = blob
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Get(name string) ([]byte, bool) {
	blob, ok := s.views[name]
	return blob, ok
}

func (s *Store) Put(name string, blob []byte) {
	s.views[name] = blob
}

func (s *Store) Delete(name string) {
	delete(s.views, name)
}

// Save writes the store atomically: a temp file renamed over the target.
func (s *Store) Save() error {
	doc := document{Version: fileVersion, Views: make(map[string]string, len(s.views))}
	for name, blob := range s.views {
		doc.Views[name] = base64.StdEncoding.EncodeToString(blob)
	}
	raw, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir state dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
