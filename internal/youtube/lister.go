// Package youtube fetches upload metadata from the YouTube Data API.
package youtube

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for upload listing operations.
var (
	ErrPlaylistNotFound = errors.New("youtube: playlist not found")
	ErrQuotaExceeded    = errors.New("youtube: API quota exceeded")
	ErrRateLimited      = errors.New("youtube: rate limited")
)

// maxDescriptionLen bounds stored descriptions. Full descriptions can run to
// kilobytes of boilerplate; only the lead-in is ever displayed.
const maxDescriptionLen = 200

// UploadLister fetches the most recent uploads for the configured channel.
type UploadLister interface {
	// ListUploads returns up to maxResults uploads in source order
	// (newest first).
	ListUploads(ctx context.Context, maxResults int64) ([]VideoInfo, error)
}

// VideoInfo describes one discovered upload. The JSON field names are the
// wire format consumed by the processing stage; changing them breaks
// new_videos.json compatibility.
type VideoInfo struct {
	// ID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	ID string `json:"id"`

	// Title is the video title.
	Title string `json:"title"`

	// PublishedAt is when the video was published.
	PublishedAt time.Time `json:"published_at"`

	// Description is the video description, truncated for display.
	Description string `json:"description"`
}

// VideoURL returns the full YouTube URL for this video.
func (v VideoInfo) VideoURL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// ListerError wraps errors with context about the listing operation.
type ListerError struct {
	Playlist string // Playlist ID being listed
	Err      error  // Underlying error
}

func (e *ListerError) Error() string {
	return "youtube: listing " + e.Playlist + ": " + e.Err.Error()
}

func (e *ListerError) Unwrap() error { return e.Err }

func truncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDescriptionLen {
		return s
	}
	return string(runes[:maxDescriptionLen])
}
