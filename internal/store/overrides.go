package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
)

// OverrideStore holds operator-supplied overrides.
type OverrideStore struct {
	mu sync.RWMutex
	ov match.Overrides
}

// NewOverrideStore returns a store seeded with initial.
func NewOverrideStore(initial match.Overrides) *OverrideStore {
	return &OverrideStore{ov: initial}
}

// Get returns the current overrides.
func (s *OverrideStore) Get() match.Overrides {
	if s == nil {
		return match.Overrides{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ov
}

// Set replaces the overrides, trimming surrounding whitespace from names.
func (s *OverrideStore) Set(ov match.Overrides) match.Overrides {
	ov.HomeName = strings.TrimSpace(ov.HomeName)
	ov.AwayName = strings.TrimSpace(ov.AwayName)
	s.mu.Lock()
	s.ov = ov
	s.mu.Unlock()
	return ov
}

// LoadOverridesFile reads overrides from a YAML file. Unknown keys are rejected.
func LoadOverridesFile(path string) (match.Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return match.Overrides{}, fmt.Errorf("read overrides %s: %w", path, err)
	}
	ov, err := decodeOverrides(data)
	if err != nil {
		return match.Overrides{}, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	return ov, nil
}

func decodeOverrides(data []byte) (match.Overrides, error) {
	var ov match.Overrides
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ov); err != nil && !errors.Is(err, io.EOF) {
		return match.Overrides{}, err
	}
	ov.HomeName = strings.TrimSpace(ov.HomeName)
	ov.AwayName = strings.TrimSpace(ov.AwayName)
	return ov, nil
}
