package config

import (
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestUploadsPlaylist(t *testing.T) {
	tests := []struct {
		name     string
		channel  string
		playlist string
		want     string
	}{
		{
			name:    "derived from UC channel",
			channel: "UCOftbmknBche29CG41v19cA",
			want:    "UUOftbmknBche29CG41v19cA",
		},
		{
			name:     "explicit playlist wins",
			channel:  "UCOftbmknBche29CG41v19cA",
			playlist: "PLcustom",
			want:     "PLcustom",
		},
		{
			name:    "non-UC channel passed through",
			channel: "some-handle",
			want:    "some-handle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ChannelID = tt.channel
			cfg.UploadsPlaylistID = tt.playlist
			if got := cfg.UploadsPlaylist(); got != tt.want {
				t.Errorf("UploadsPlaylist() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "env-key")
	t.Setenv("B2_APPLICATION_KEY_ID", "env-key-id")
	t.Setenv("B2_APPLICATION_KEY", "env-app-key")
	t.Setenv("B2_BUCKET", "env-bucket")
	t.Setenv("PODCAST_BASE_URL", "https://cdn.example.com/file/env-bucket")
	t.Setenv("COURTCAST_CHANNEL_ID", "UCenv")
	t.Setenv("COURTCAST_YTDLP_TIMEOUT", "2m")
	t.Setenv("COURTCAST_AUDIO_QUALITY", "192")

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.APIKey)
	}
	if !cfg.HasB2Credentials() {
		t.Error("HasB2Credentials() = false with all env vars set")
	}
	if cfg.B2Bucket != "env-bucket" {
		t.Errorf("B2Bucket = %q, want env-bucket", cfg.B2Bucket)
	}
	if cfg.BaseURL != "https://cdn.example.com/file/env-bucket" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.ChannelID != "UCenv" {
		t.Errorf("ChannelID = %q, want UCenv", cfg.ChannelID)
	}
	if cfg.YtdlpTimeout != 2*time.Minute {
		t.Errorf("YtdlpTimeout = %v, want 2m", cfg.YtdlpTimeout)
	}
	if cfg.AudioQuality != 192 {
		t.Errorf("AudioQuality = %d, want 192", cfg.AudioQuality)
	}
}

func TestHasB2Credentials_Partial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.B2KeyID = "key-id"
	// App key absent: uploads must soft-skip.
	if cfg.HasB2Credentials() {
		t.Error("HasB2Credentials() = true with missing app key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty channel", func(c *Config) { c.ChannelID = "" }},
		{"zero max results", func(c *Config) { c.MaxResults = 0 }},
		{"zero ytdlp timeout", func(c *Config) { c.YtdlpTimeout = 0 }},
		{"zero audio quality", func(c *Config) { c.AudioQuality = 0 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"max backoff below initial", func(c *Config) { c.MaxBackoff = c.InitialBackoff / 2 }},
		{"multiplier not above one", func(c *Config) { c.BackoffMultiplier = 1.0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestRetryConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetries = 7
	cfg.InitialBackoff = 2 * time.Second

	rc := cfg.RetryConfig()
	if rc.MaxRetries != 7 {
		t.Errorf("RetryConfig().MaxRetries = %d, want 7", rc.MaxRetries)
	}
	if rc.InitialBackoff != 2*time.Second {
		t.Errorf("RetryConfig().InitialBackoff = %v, want 2s", rc.InitialBackoff)
	}
}
