package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStateStore_LoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := OpenStateStore(path)
	if err != nil {
		t.Fatalf("OpenStateStore() error = %v", err)
	}
	defer s.Close()

	state, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(state.SeenIDs) != 0 {
		t.Errorf("Load() SeenIDs = %v, want empty", state.SeenIDs)
	}
	if !state.LastCheck.IsZero() {
		t.Errorf("Load() LastCheck = %v, want zero", state.LastCheck)
	}
}

func TestStateStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := OpenStateStore(path)
	if err != nil {
		t.Fatalf("OpenStateStore() error = %v", err)
	}

	state := &MonitorState{}
	state.MarkSeen("video-one", "video-two")
	state.LastCheck = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := s.Save(state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	s.Close()

	s2, err := OpenStateStore(path)
	if err != nil {
		t.Fatalf("OpenStateStore() reopen error = %v", err)
	}
	defer s2.Close()

	loaded, err := s2.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.SeenIDs) != 2 {
		t.Fatalf("Load() SeenIDs = %v, want 2 entries", loaded.SeenIDs)
	}
	if !loaded.Seen("video-one") || !loaded.Seen("video-two") {
		t.Error("loaded state missing marked IDs")
	}
	if loaded.Seen("video-three") {
		t.Error("Seen() = true for unmarked ID")
	}
	if !loaded.LastCheck.Equal(state.LastCheck) {
		t.Errorf("Load() LastCheck = %v, want %v", loaded.LastCheck, state.LastCheck)
	}
}

func TestMonitorState_MarkSeenDeduplicates(t *testing.T) {
	state := &MonitorState{SeenIDs: []string{"a"}}
	state.MarkSeen("a", "b", "b")

	if len(state.SeenIDs) != 2 {
		t.Errorf("SeenIDs = %v, want [a b]", state.SeenIDs)
	}
	if state.SeenIDs[0] != "a" || state.SeenIDs[1] != "b" {
		t.Errorf("SeenIDs = %v, want append-only order [a b]", state.SeenIDs)
	}
}

func TestStateStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := OpenStateStore(path)
	if err != nil {
		t.Fatalf("OpenStateStore() error = %v", err)
	}
	defer s.Close()

	_, err = s.Load()
	if !errors.Is(err, ErrStorageCorrupt) {
		t.Errorf("Load() error = %v, want ErrStorageCorrupt", err)
	}
}

func TestStateStore_LockHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := OpenStateStore(path)
	if err != nil {
		t.Fatalf("OpenStateStore() error = %v", err)
	}
	defer s.Close()

	lock := NewFileLock(path)
	if err := lock.Lock(50 * time.Millisecond); !errors.Is(err, ErrLockTimeout) {
		if err == nil {
			lock.Unlock()
		}
		t.Errorf("Lock() error = %v, want ErrLockTimeout", err)
	}
}
