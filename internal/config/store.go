package config

import (
	"fmt"
	"sync"

	"github.com/JohnBasrai/aws-lambda-action-filter/internal/logger"
	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

// Store holds the active configuration and hands out consistent snapshots
// to the rest of the application. Reload swaps in a freshly loaded config
// atomically; request handlers that grabbed the previous snapshot keep
// working against it, so a reload never tears a request in half.
type Store struct {
	mu        sync.RWMutex
	path      string
	current   *models.Config
	listeners []func(*models.Config)
}

// NewStore creates a store seeded with an already-validated configuration.
// The path is remembered for later reloads; it may be empty when the
// application runs on built-in defaults, in which case Reload is a no-op.
func NewStore(path string, initial *models.Config) *Store {
	return &Store{path: path, current: initial}
}

// Snapshot returns the active configuration. The returned value is shared
// and must be treated as read-only; mutate-by-copy if a caller needs a
// variant.
func (s *Store) Snapshot() *models.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Path returns the config file path the store reloads from.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Subscribe registers a callback invoked with the new configuration after
// every successful reload. Callbacks run outside the store's lock, in
// registration order, on the goroutine that triggered the reload.
func (s *Store) Subscribe(fn func(*models.Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Reload loads and validates the config file again. On any failure the
// previous configuration stays active and the error describes what was
// wrong with the new file. On success subscribers are notified with the
// new snapshot.
func (s *Store) Reload() error {
	s.mu.RLock()
	path := s.path
	s.mu.RUnlock()

	if path == "" {
		logger.L().Debug("Config reload requested but no config file is in use")
		return nil
	}

	newConfig, err := LoadConfig(path)
	if err != nil {
		return fmt.Errorf("reloading config from '%s': %w", path, err)
	}

	s.mu.Lock()
	s.current = newConfig
	listeners := make([]func(*models.Config), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	logger.L().Info("Configuration reloaded", "path", path)
	for _, fn := range listeners {
		fn(newConfig)
	}
	return nil
}
