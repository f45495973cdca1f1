package store

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

const lockTimeout = 5 * time.Second

// MonitorState tracks which uploads have already been reported. SeenIDs is
// append-only; LastCheck is overwritten on every discovery run, including
// runs that find nothing.
type MonitorState struct {
	SeenIDs   []string  `json:"seen_ids"`
	LastCheck time.Time `json:"last_check"`

	seen map[string]struct{}
}

// Seen reports whether the video ID has already been reported as new.
func (m *MonitorState) Seen(id string) bool {
	m.ensureIndex()
	_, ok := m.seen[id]
	return ok
}

// MarkSeen appends the given IDs to the seen set, skipping duplicates.
func (m *MonitorState) MarkSeen(ids ...string) {
	m.ensureIndex()
	for _, id := range ids {
		if _, ok := m.seen[id]; ok {
			continue
		}
		m.SeenIDs = append(m.SeenIDs, id)
		m.seen[id] = struct{}{}
	}
}

func (m *MonitorState) ensureIndex() {
	if m.seen != nil {
		return
	}
	m.seen = make(map[string]struct{}, len(m.SeenIDs))
	for _, id := range m.SeenIDs {
		m.seen[id] = struct{}{}
	}
}

// StateStore persists MonitorState as a single JSON file, guarded by an
// advisory file lock held for the store's lifetime.
type StateStore struct {
	path string
	lock *FileLock
}

// OpenStateStore opens (and locks) the state file at path. The file does not
// need to exist yet.
func OpenStateStore(path string) (*StateStore, error) {
	s := &StateStore{path: path, lock: NewFileLock(path)}
	if err := s.lock.Lock(lockTimeout); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the persisted state. A missing file yields empty state; a
// malformed one is a fatal ErrStorageCorrupt.
func (s *StateStore) Load() (*MonitorState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &MonitorState{}, nil
		}
		return nil, &StorageError{Op: "read", Entity: "state", Err: err}
	}

	state := &MonitorState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, &StorageError{Op: "read", Entity: "state", Err: ErrStorageCorrupt}
	}
	return state, nil
}

// Save persists the state to disk atomically.
func (s *StateStore) Save(state *MonitorState) error {
	if err := writeJSON(s.path, state); err != nil {
		return &StorageError{Op: "write", Entity: "state", Err: err}
	}
	return nil
}

// Close releases the file lock.
func (s *StateStore) Close() error {
	return s.lock.Unlock()
}
