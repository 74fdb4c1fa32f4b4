package storage

import (
	"errors"
	"sync"
)

const (
	maxBins      = 64
	maxItemLimit = 1_000_000
)

var (
	// ErrInvalidSettings indicates the provided settings violate validation rules.
	ErrInvalidSettings = errors.New("default bins must be between 1 and 64 and max items between 1 and 1000000")
)

var defaultSettings = Settings{
	DefaultBins: 2,
	MaxItems:    10_000,
}

// Settings holds the solver defaults applied when a request omits them.
type Settings struct {
	// DefaultBins is the bin count used when a request does not specify one.
	DefaultBins int
	// MaxItems caps the number of items accepted per request.
	MaxItems int
}

// Storage provides access to the solver settings used by the API.
type Storage interface {
	GetSettings() (Settings, error)
	SetSettings(settings Settings) error
}

// MemoryStorage keeps settings in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu       sync.RWMutex
	settings Settings
}

// NewMemoryStorage initialises storage with the default settings.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{settings: defaultSettings}
}

// DefaultSettings returns the built-in solver defaults.
func DefaultSettings() Settings {
	return defaultSettings
}

// GetSettings returns the currently configured settings.
func (s *MemoryStorage) GetSettings() (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings, nil
}

// SetSettings validates and stores the provided settings.
func (s *MemoryStorage) SetSettings(settings Settings) error {
	if err := validateSettings(settings); err != nil {
		return err
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	return nil
}

func validateSettings(settings Settings) error {
	if settings.DefaultBins < 1 || settings.DefaultBins > maxBins {
		return ErrInvalidSettings
	}
	if settings.MaxItems < 1 || settings.MaxItems > maxItemLimit {
		return ErrInvalidSettings
	}
	return nil
}
