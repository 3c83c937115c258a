package pilot_userio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ConfigStore persists the pin configuration. Load returns nil pins when
// nothing has been saved yet, which is also the state Clear leaves behind.
type ConfigStore interface {
	Load(ctx context.Context) ([]Pin, error)
	Save(ctx context.Context, pins []Pin) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the configuration for the life of the process.
type MemoryStore struct {
	mu   sync.Mutex
	pins []Pin
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) ([]Pin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pins == nil {
		return nil, nil
	}
	out := make([]Pin, len(s.pins))
	copy(out, s.pins)
	return out, nil
}

func (s *MemoryStore) Save(ctx context.Context, pins []Pin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pins = make([]Pin, len(pins))
	copy(s.pins, pins)
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pins = nil
	return nil
}

// StoreVersion is the current version of the file format.
const StoreVersion = 1

type storedConfig struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
	Pins    []Pin     `json:"pins"`
}

// FileStore keeps the configuration in a JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Save(ctx context.Context, pins []Pin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	data, err := json.MarshalIndent(storedConfig{
		Version: StoreVersion,
		SavedAt: time.Now(),
		Pins:    pins,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

func (s *FileStore) Load(ctx context.Context) ([]Pin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stored storedConfig
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	for i := range stored.Pins {
		if idx, ok := PinIndex(stored.Pins[i].ID); ok {
			stored.Pins[i].Name = PinNames[idx]
		}
	}
	return stored.Pins, nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Restore loads the stored configuration into bank. A store with nothing
// saved leaves the bank untouched.
func Restore(ctx context.Context, store ConfigStore, bank *Bank) error {
	pins, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load pin configuration: %w", err)
	}
	if pins == nil {
		return nil
	}
	return bank.Apply(pins)
}
