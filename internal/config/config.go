// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"courtcast/internal/retry"
)

// Config holds all application configuration. A single Config value is
// constructed at startup and passed to each stage; nothing reads it from
// package state.
type Config struct {
	// YouTube settings
	APIKey            string `json:"-"` // from YOUTUBE_API_KEY only, never the config file
	ChannelID         string `json:"channel_id"`
	UploadsPlaylistID string `json:"uploads_playlist_id"`
	MaxResults        int64  `json:"max_results"`

	// File locations
	StateFile     string `json:"state_file"`
	NewVideosFile string `json:"new_videos_file"`
	EpisodesFile  string `json:"episodes_file"`
	FeedFile      string `json:"feed_file"`
	AudioDir      string `json:"audio_dir"`

	// yt-dlp settings
	YtdlpPath    string        `json:"ytdlp_path"`
	YtdlpTimeout time.Duration `json:"ytdlp_timeout"`
	AudioQuality int           `json:"audio_quality"` // kbps

	// Podcast metadata
	PodcastTitle       string `json:"podcast_title"`
	PodcastDescription string `json:"podcast_description"`
	PodcastAuthor      string `json:"podcast_author"`
	PodcastEmail       string `json:"podcast_email"`
	PodcastWebsite     string `json:"podcast_website"`
	PodcastImage       string `json:"podcast_image"`
	PodcastLanguage    string `json:"podcast_language"`
	PodcastCategory    string `json:"podcast_category"`

	// Backblaze B2 settings. Key ID and application key come from the
	// environment only.
	B2KeyID  string `json:"-"`
	B2AppKey string `json:"-"`
	B2Bucket string `json:"b2_bucket"`
	BaseURL  string `json:"base_url"` // public URL prefix for uploaded episodes

	// Retry settings
	MaxRetries        int           `json:"max_retries"`
	InitialBackoff    time.Duration `json:"initial_backoff"`
	MaxBackoff        time.Duration `json:"max_backoff"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`
}

// DefaultConfig returns configuration with safe defaults, pointed at the
// Massachusetts SJC oral arguments channel.
func DefaultConfig() *Config {
	return &Config{
		ChannelID:  "UCOftbmknBche29CG41v19cA",
		MaxResults: 50,

		StateFile:     "state.json",
		NewVideosFile: "new_videos.json",
		EpisodesFile:  "episodes.json",
		FeedFile:      "feed.xml",
		AudioDir:      "audio",

		YtdlpPath:    "yt-dlp",
		YtdlpTimeout: 10 * time.Minute,
		AudioQuality: 128,

		PodcastTitle:       "SJC Oral Arguments",
		PodcastDescription: "Oral argument recordings from the Massachusetts Supreme Judicial Court",
		PodcastAuthor:      "Massachusetts Supreme Judicial Court",
		PodcastEmail:       "sjc@example.com",
		PodcastWebsite:     "https://www.mass.gov/orgs/supreme-judicial-court",
		PodcastLanguage:    "en",
		PodcastCategory:    "Government",

		B2Bucket: "sjc-podcast",
		BaseURL:  "https://f000.backblazeb2.com/file/sjc-podcast",

		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from courtcast.json in the current
// directory or the user config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"courtcast.json",
		filepath.Join(os.Getenv("HOME"), ".config", "courtcast", "courtcast.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables. The credential
// variables keep the names the deployment already uses.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("B2_APPLICATION_KEY_ID"); v != "" {
		c.B2KeyID = v
	}
	if v := os.Getenv("B2_APPLICATION_KEY"); v != "" {
		c.B2AppKey = v
	}
	if v := os.Getenv("B2_BUCKET"); v != "" {
		c.B2Bucket = v
	}
	if v := os.Getenv("PODCAST_BASE_URL"); v != "" {
		c.BaseURL = v
	}

	if v := os.Getenv("COURTCAST_CHANNEL_ID"); v != "" {
		c.ChannelID = v
	}
	if v := os.Getenv("COURTCAST_UPLOADS_PLAYLIST_ID"); v != "" {
		c.UploadsPlaylistID = v
	}
	if v := os.Getenv("COURTCAST_MAX_RESULTS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxResults = n
		}
	}
	if v := os.Getenv("COURTCAST_STATE_FILE"); v != "" {
		c.StateFile = v
	}
	if v := os.Getenv("COURTCAST_NEW_VIDEOS_FILE"); v != "" {
		c.NewVideosFile = v
	}
	if v := os.Getenv("COURTCAST_EPISODES_FILE"); v != "" {
		c.EpisodesFile = v
	}
	if v := os.Getenv("COURTCAST_FEED_FILE"); v != "" {
		c.FeedFile = v
	}
	if v := os.Getenv("COURTCAST_AUDIO_DIR"); v != "" {
		c.AudioDir = v
	}
	if v := os.Getenv("COURTCAST_YTDLP_PATH"); v != "" {
		c.YtdlpPath = v
	}
	if v := os.Getenv("COURTCAST_YTDLP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.YtdlpTimeout = d
		}
	}
	if v := os.Getenv("COURTCAST_AUDIO_QUALITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.AudioQuality = n
		}
	}
	if v := os.Getenv("COURTCAST_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
}

// UploadsPlaylist returns the uploads playlist ID, deriving it from the
// channel ID when not set explicitly. YouTube names a channel's uploads
// playlist by swapping the UC prefix for UU.
func (c *Config) UploadsPlaylist() string {
	if c.UploadsPlaylistID != "" {
		return c.UploadsPlaylistID
	}
	if strings.HasPrefix(c.ChannelID, "UC") {
		return "UU" + c.ChannelID[2:]
	}
	return c.ChannelID
}

// RetryConfig returns the retry configuration for external calls.
func (c *Config) RetryConfig() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxRetries = c.MaxRetries
	cfg.InitialBackoff = c.InitialBackoff
	cfg.MaxBackoff = c.MaxBackoff
	cfg.Multiplier = c.BackoffMultiplier
	return cfg
}

// HasB2Credentials reports whether all settings required for B2 upload are present.
func (c *Config) HasB2Credentials() bool {
	return c.B2KeyID != "" && c.B2AppKey != "" && c.B2Bucket != ""
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.ChannelID == "" {
		return fmt.Errorf("channel_id must be set")
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive")
	}
	if c.YtdlpTimeout <= 0 {
		return fmt.Errorf("ytdlp_timeout must be positive")
	}
	if c.AudioQuality <= 0 {
		return fmt.Errorf("audio_quality must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	return nil
}
