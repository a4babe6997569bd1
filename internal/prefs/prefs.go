// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package prefs stores the dashboard's per-user toggles in a small JSON file.
//
// The file is read once when opened and rewritten in full on every change.
// Changes made by other processes after Open are not picked up.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// Preference keys
const (
	AutoRefreshEnabled = "autoRefreshEnabled"
	ShowOnlineOnly     = "showOnlineOnly"
	HideUndef          = "hide_undef_state"
	ShowRealIP         = "showRealIP"
	ShowColumns        = "showColumns"
	ChartVisible       = "chartVisible"
	CPUChartVisible    = "cpuChartVisible"
	RememberChoice     = "remember_choice"
)

// Known lists every key the dashboard reads or writes
var Known = []string{
	AutoRefreshEnabled,
	ShowOnlineOnly,
	HideUndef,
	ShowRealIP,
	ShowColumns,
	ChartVisible,
	CPUChartVisible,
	RememberChoice,
}

// ErrUnknownKey is returned by Validate for keys outside Known
var ErrUnknownKey = errors.New("unknown preference key")

const lockTimeout = 5 * time.Second

// Store is a string key/value preference store
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// Open loads the preferences at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read preferences: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.values); err != nil {
			return nil, fmt.Errorf("parse preferences: %w", err)
		}
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}

	return s, nil
}

// Memory returns a store that is never written to disk
func Memory() *Store {
	return &Store{values: make(map[string]string)}
}

// Validate reports whether key is one of the known preference keys
func Validate(key string) error {
	for _, k := range Known {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Get returns the raw value of key
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Bool returns key as a boolean. Only the literal "true" is true;
// def is used when the key was never written.
func (s *Store) Bool(key string, def bool) bool {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	return v == "true"
}

// Set stores value under key and persists the store
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	if s.path == "" {
		return nil
	}
	return s.persist()
}

// SetBool stores a boolean as "true" or "false"
func (s *Store) SetBool(key string, value bool) error {
	return s.Set(key, strconv.FormatBool(value))
}

// Keys returns the stored keys in sorted order
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// persist writes the store under an exclusive file lock (caller holds s.mu)
func (s *Store) persist() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}

	fileLock := flock.New(s.path + ".lock")

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire preferences lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("preferences lock timeout after %v", lockTimeout)
	}
	defer fileLock.Unlock()

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".prefs-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write preferences: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename preferences file: %w", err)
	}

	return nil
}
