// Package settings persists user toggles that way-shell reacts to at runtime.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const keySortAlphabetical = "sort_alphabetical"

// Settings is a point-in-time view of the stored values.
type Settings struct {
	SortAlphabetical bool
}

// Store is a YAML settings file backed by viper.
type Store struct {
	path string

	mu sync.Mutex
	v  *viper.Viper
}

// Open loads the settings file at path. A missing file yields defaults.
func Open(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault(keySortAlphabetical, false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
		slog.Debug("no settings file, using defaults", "path", path)
	}

	return &Store{path: path, v: v}, nil
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the current values.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Settings{
		SortAlphabetical: s.v.GetBool(keySortAlphabetical),
	}
}

// SetSortAlphabetical stores the value and writes the file.
func (s *Store) SetSortAlphabetical(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(keySortAlphabetical, enabled)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Watch calls fn whenever the file changes on disk and a value differs from
// the last one seen. fn runs on viper's watcher goroutine.
func (s *Store) Watch(fn func(Settings)) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	last := s.Get()
	var lastMu sync.Mutex

	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.OnConfigChange(func(e fsnotify.Event) {
		cur := s.Get()
		slog.Debug("settings file changed", "path", e.Name, "op", e.Op.String(), "sort_alphabetical", cur.SortAlphabetical)

		lastMu.Lock()
		changed := cur != last
		last = cur
		lastMu.Unlock()

		if changed {
			fn(cur)
		}
	})
	s.v.WatchConfig()
	return nil
}
