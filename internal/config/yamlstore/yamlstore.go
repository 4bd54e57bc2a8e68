// Package yamlstore keeps envedit settings in .envedit/config.yaml.
//
// The file holds flat key/value pairs: "backup.keep" is one literal key,
// not a nested path. Known keys are checked with config.ValidateValue
// before they are written. Writes take the same lock and atomic replace
// that guard .env files.
package yamlstore

import (
	"context"
	"fmt"
	"maps"
	"os"

	"envedit/internal/config"
	"envedit/internal/envfile"

	"github.com/juju/loggo"
	"gopkg.in/yaml.v3"
)

var logger = loggo.GetLogger("envedit.config")

const header = "# envedit settings, see 'envedit config --help'\n"

// YAMLStore implements config.Store on top of a YAML file.
//
// Values set with SetInMemory (defaults, ENVEDIT_* overrides) sit on top
// of the file contents. They are never written and survive reloads.
type YAMLStore struct {
	path      string
	saved     map[string]string
	overrides map[string]string
}

// New opens the settings file at path. A missing file is an empty store;
// it is created by the first Set.
func New(path string) (*YAMLStore, error) {
	s := &YAMLStore{
		path:      path,
		overrides: make(map[string]string),
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the settings file location.
func (s *YAMLStore) Path() string {
	return s.path
}

func (s *YAMLStore) Get(key string) (string, bool) {
	if v, ok := s.overrides[key]; ok {
		return v, true
	}
	v, ok := s.saved[key]
	return v, ok
}

// Set validates value and saves it under key.
func (s *YAMLStore) Set(key, value string) error {
	if err := config.ValidateValue(key, value); err != nil {
		return err
	}
	err := s.update(func(saved map[string]string) {
		saved[key] = value
	})
	if err != nil {
		return err
	}
	logger.Debugf("saved %s = %q in %s", key, value, s.path)
	return nil
}

func (s *YAMLStore) SetInMemory(key, value string) {
	s.overrides[key] = value
}

// Unset removes key from the file. An in-memory value for key stays.
func (s *YAMLStore) Unset(key string) error {
	return s.update(func(saved map[string]string) {
		delete(saved, key)
	})
}

// All returns the saved values merged with in-memory ones.
func (s *YAMLStore) All() map[string]string {
	out := maps.Clone(s.saved)
	maps.Copy(out, s.overrides)
	return out
}

// update re-reads the file under its lock so that settings written by
// other processes are kept, applies fn and writes the result back.
func (s *YAMLStore) update(fn func(saved map[string]string)) error {
	return envfile.WithLock(context.Background(), s.path, func() error {
		if err := s.reload(); err != nil {
			return err
		}
		fn(s.saved)

		raw, err := yaml.Marshal(s.saved)
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		if err := envfile.AtomicWrite(s.path, append([]byte(header), raw...)); err != nil {
			return fmt.Errorf("writing %s: %w", s.path, err)
		}
		return nil
	})
}

// reload replaces the saved values with the file contents.
func (s *YAMLStore) reload() error {
	saved := make(map[string]string)
	raw, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &saved); err != nil {
			return fmt.Errorf("parsing %s: %w", s.path, err)
		}
	}
	if saved == nil {
		saved = make(map[string]string)
	}
	s.saved = saved
	return nil
}

var _ config.Store = (*YAMLStore)(nil)
