package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coursehand/coursehand/settings"
)

const (
	keySettings = "settings"
	keyPending  = "pending"
)

// ErrNoPending is returned by TakePending when no hand-off is in flight.
var ErrNoPending = errors.New("store: no pending hand-off")

// Pending is the ephemeral record bridging one hand-off across page
// contexts. At most one is in flight: a second activation before
// consumption overwrites the first (last write wins).
type Pending struct {
	Prompt string `json:"pendingPrompt"`
	Source string `json:"pendingSource"`
}

// Settings loads the configuration record, creating it with defaults on
// first run and migrating older schema shapes in place.
func (s *Store) Settings() (*settings.Settings, error) {
	raw, ok, err := s.get(keySettings)
	if err != nil {
		return nil, err
	}
	if !ok {
		raw = nil
	}

	cfg, migrated, err := settings.Migrate(raw)
	if err != nil {
		return nil, err
	}
	if migrated {
		if err := s.SaveSettings(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// SaveSettings writes the whole configuration record.
func (s *Store) SaveSettings(cfg *settings.Settings) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("store: encode settings: %w", err)
	}
	return s.set(keySettings, raw)
}

// PutPending records the outbound prompt for the auto-fill agent,
// overwriting any unconsumed hand-off.
func (s *Store) PutPending(p Pending) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("store: encode pending: %w", err)
	}
	return s.set(keyPending, raw)
}

// PeekPending returns the in-flight hand-off without consuming it.
func (s *Store) PeekPending() (Pending, error) {
	raw, ok, err := s.get(keyPending)
	if err != nil {
		return Pending{}, err
	}
	if !ok {
		return Pending{}, ErrNoPending
	}
	var p Pending
	if err := json.Unmarshal(raw, &p); err != nil {
		return Pending{}, fmt.Errorf("store: decode pending: %w", err)
	}
	return p, nil
}

// TakePending consumes the in-flight hand-off: it is deleted before
// being returned, so a record is filled into a provider page at most
// once even if the page reloads mid-flow.
func (s *Store) TakePending() (Pending, error) {
	p, err := s.PeekPending()
	if err != nil {
		return Pending{}, err
	}
	if err := s.delete(keyPending); err != nil {
		return Pending{}, err
	}
	return p, nil
}

// ClearPending drops any in-flight hand-off without acting on it.
func (s *Store) ClearPending() error {
	return s.delete(keyPending)
}
