package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// StateStore persists the rotation state as a JSON document.
type StateStore struct {
	path string
}

// NewStateStore creates a store backed by the given file path
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Load reads the rotation state. A missing or unreadable file yields the
// first-run defaults rather than an error: the state file is created lazily
// on the first successful publish.
func (s *StateStore) Load() *RotationState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return newRotationState()
	}

	state := newRotationState()
	if err := json.Unmarshal(data, state); err != nil {
		debugLog("ignoring corrupt state file %s: %v", s.path, err)
		return newRotationState()
	}
	return state
}

// Save writes the rotation state to disk.
func (s *StateStore) Save(state *RotationState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

// DraftStore persists the pending draft between the draft and publish phases.
// Single-slot: Save overwrites whatever was there.
type DraftStore struct {
	path string
}

// NewDraftStore creates a store backed by the given file path
func NewDraftStore(path string) *DraftStore {
	return &DraftStore{path: path}
}

// Load reads the pending draft. Returns (nil, nil) if no draft exists.
func (s *DraftStore) Load() (*Draft, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading draft file: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("parsing draft file: %w", err)
	}
	return &draft, nil
}

// Save writes the draft, overwriting any unpublished one.
func (s *DraftStore) Save(draft *Draft) error {
	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling draft: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing draft file: %w", err)
	}
	return nil
}

// Delete removes the draft file after a successful publish.
func (s *DraftStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing draft file: %w", err)
	}
	return nil
}
