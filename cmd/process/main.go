// Command process turns discovered uploads into podcast episodes: it
// downloads audio, tags it, uploads it to B2 and regenerates the RSS feed.
//
// It takes no flags: it reads the new_videos.json file written by
// "monitor -json" and runs to completion.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"courtcast/internal/audio"
	"courtcast/internal/blob"
	"courtcast/internal/config"
	"courtcast/internal/feed"
	"courtcast/internal/pipeline"
	"courtcast/internal/store"
	"courtcast/internal/youtube"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	records, err := readNewVideos(cfg.NewVideosFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if records == nil {
		fmt.Printf("No %s file found\n", cfg.NewVideosFile)
		return
	}
	if len(records) == 0 {
		fmt.Println("No new videos to process")
		return
	}

	fmt.Printf("Processing %d new video(s)...\n", len(records))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catStore, err := store.OpenCatalogStore(cfg.EpisodesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer catStore.Close()

	catalog, err := catStore.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	proc := pipeline.New(
		newFetcher(cfg),
		&audio.ID3Tagger{Artist: cfg.PodcastAuthor, Album: cfg.PodcastTitle},
		newUploader(cfg),
		feed.NewGenerator(cfg),
		cfg.FeedFile,
		os.Stdout,
	)

	sum, err := proc.Run(ctx, records, catalog, catStore)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nDone! Processed %d, skipped %d, failed %d\n", sum.Processed, sum.Skipped, sum.Failed)
}

// readNewVideos loads the discovery output. A missing file returns a nil
// slice and no error; there is simply nothing to do.
func readNewVideos(path string) ([]youtube.VideoInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	records := []youtube.VideoInfo{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

func newFetcher(cfg *config.Config) *audio.YtdlpFetcher {
	f := audio.NewYtdlpFetcher(cfg.AudioDir)
	f.Path = cfg.YtdlpPath
	f.Quality = cfg.AudioQuality
	f.Timeout = cfg.YtdlpTimeout
	return f
}

func newUploader(cfg *config.Config) blob.Uploader {
	if !cfg.HasB2Credentials() {
		fmt.Println("Warning: B2 credentials not set, skipping upload")
		return blob.NopUploader{}
	}
	u := blob.NewB2Uploader(cfg.B2KeyID, cfg.B2AppKey, cfg.B2Bucket, cfg.BaseURL)
	u.RetryConfig = cfg.RetryConfig()
	return u
}
