package store

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
)

// Episode is one processed upload. Episodes are appended to the catalog once
// per video and never updated in place.
type Episode struct {
	ID          string    `json:"id"` // internal UUID
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	PublishedAt time.Time `json:"published_at"`

	// AudioURL is the public URL of the uploaded audio. Empty when the
	// upload was skipped or failed; the episode still appears in the feed
	// without an enclosure.
	AudioURL string `json:"audio_url,omitempty"`

	// FileSize is the local artifact size in bytes, 0 if unknown.
	FileSize int64 `json:"file_size"`

	ProcessedAt time.Time `json:"processed_at"`
}

// Catalog is the ordered list of processed episodes. Order is insertion
// order; the feed generator sorts its own copy.
type Catalog struct {
	Episodes []Episode

	byVideoID map[string]int
}

// Has reports whether an episode for the given video ID exists.
func (c *Catalog) Has(videoID string) bool {
	c.ensureIndex()
	_, ok := c.byVideoID[videoID]
	return ok
}

// Append adds an episode to the catalog. The episode is assigned an internal
// ID if it has none. Returns ErrAlreadyExists if an episode with the same
// video ID is already present; duplicates are skipped, never merged.
func (c *Catalog) Append(ep Episode) error {
	c.ensureIndex()
	if _, ok := c.byVideoID[ep.VideoID]; ok {
		return &StorageError{Op: "append", Entity: "episode", ID: ep.VideoID, Err: ErrAlreadyExists}
	}
	if ep.ID == "" {
		ep.ID = uuid.NewString()
	}
	c.byVideoID[ep.VideoID] = len(c.Episodes)
	c.Episodes = append(c.Episodes, ep)
	return nil
}

func (c *Catalog) ensureIndex() {
	if c.byVideoID != nil {
		return
	}
	c.byVideoID = make(map[string]int, len(c.Episodes))
	for i, ep := range c.Episodes {
		c.byVideoID[ep.VideoID] = i
	}
}

// CatalogStore persists the episode catalog as a JSON array, guarded by an
// advisory file lock held for the store's lifetime.
type CatalogStore struct {
	path string
	lock *FileLock
}

// OpenCatalogStore opens (and locks) the catalog file at path. The file does
// not need to exist yet.
func OpenCatalogStore(path string) (*CatalogStore, error) {
	s := &CatalogStore{path: path, lock: NewFileLock(path)}
	if err := s.lock.Lock(lockTimeout); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the persisted catalog. A missing file yields an empty catalog; a
// malformed one is a fatal ErrStorageCorrupt.
func (s *CatalogStore) Load() (*Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Catalog{}, nil
		}
		return nil, &StorageError{Op: "read", Entity: "catalog", Err: err}
	}

	var episodes []Episode
	if err := json.Unmarshal(data, &episodes); err != nil {
		return nil, &StorageError{Op: "read", Entity: "catalog", Err: ErrStorageCorrupt}
	}
	return &Catalog{Episodes: episodes}, nil
}

// Save persists the full catalog to disk atomically, overwriting the
// previous contents.
func (s *CatalogStore) Save(catalog *Catalog) error {
	episodes := catalog.Episodes
	if episodes == nil {
		episodes = []Episode{}
	}

	if err := writeJSON(s.path, episodes); err != nil {
		return &StorageError{Op: "write", Entity: "catalog", Err: err}
	}
	return nil
}

// Close releases the file lock.
func (s *CatalogStore) Close() error {
	return s.lock.Unlock()
}
