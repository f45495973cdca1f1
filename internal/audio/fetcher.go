// Package audio resolves uploads to local MP3 artifacts and tags them.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultYtdlpPath    = "yt-dlp"
	defaultYtdlpTimeout = 10 * time.Minute
	defaultQuality      = 128
)

// ErrArtifactMissing indicates yt-dlp reported success but the expected
// output file is absent.
var ErrArtifactMissing = errors.New("audio: artifact missing after fetch")

// Fetcher resolves a video ID to a local audio file.
type Fetcher interface {
	// Fetch returns the path of the local MP3 for the video, extracting it
	// if necessary. An artifact already on disk is reused without
	// re-fetching.
	Fetch(ctx context.Context, videoID string) (string, error)
}

// FetchError wraps a failed fetch with captured diagnostics.
type FetchError struct {
	VideoID string
	Stderr  string
	Err     error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("audio: fetch %s: %v", e.VideoID, e.Err)
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// YtdlpFetcher extracts audio using yt-dlp as a subprocess.
type YtdlpFetcher struct {
	// Path is the path to the yt-dlp executable. Defaults to "yt-dlp".
	Path string

	// Dir is the directory audio files are written to.
	Dir string

	// Quality is the target audio bitrate in kbps. Defaults to 128.
	Quality int

	// Timeout is the maximum time to wait for yt-dlp. Defaults to 10 minutes.
	Timeout time.Duration
}

// NewYtdlpFetcher creates a fetcher writing MP3s into dir.
func NewYtdlpFetcher(dir string) *YtdlpFetcher {
	return &YtdlpFetcher{
		Path:    defaultYtdlpPath,
		Dir:     dir,
		Quality: defaultQuality,
		Timeout: defaultYtdlpTimeout,
	}
}

// ArtifactPath returns the deterministic local path for a video's audio.
func (f *YtdlpFetcher) ArtifactPath(videoID string) string {
	return filepath.Join(f.Dir, videoID+".mp3")
}

// Fetch extracts the video's audio as MP3. If the artifact already exists it
// is reused without invoking yt-dlp, which makes retries after a partial run
// cheap.
func (f *YtdlpFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return "", &FetchError{VideoID: videoID, Err: err}
	}

	outPath := f.ArtifactPath(videoID)
	if _, err := os.Stat(outPath); err == nil {
		return outPath, nil
	}

	timeout := f.Timeout
	if timeout == 0 {
		timeout = defaultYtdlpTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	quality := f.Quality
	if quality <= 0 {
		quality = defaultQuality
	}

	url := "https://www.youtube.com/watch?v=" + videoID
	args := []string{
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", fmt.Sprintf("%dK", quality),
		"-o", filepath.Join(f.Dir, videoID+".%(ext)s"),
		"--no-playlist",
		"--no-warnings",
		url,
	}

	cmd := exec.CommandContext(cmdCtx, f.path(), args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			err = context.DeadlineExceeded
		}
		return "", &FetchError{VideoID: videoID, Stderr: stderr.String(), Err: err}
	}

	if _, err := os.Stat(outPath); err != nil {
		return "", &FetchError{VideoID: videoID, Stderr: stderr.String(), Err: ErrArtifactMissing}
	}
	return outPath, nil
}

func (f *YtdlpFetcher) path() string {
	if f.Path != "" {
		return f.Path
	}
	return defaultYtdlpPath
}
