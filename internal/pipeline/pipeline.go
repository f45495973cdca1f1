// Package pipeline implements the processing stage: turning discovered
// uploads into published podcast episodes.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"courtcast/internal/audio"
	"courtcast/internal/blob"
	"courtcast/internal/feed"
	"courtcast/internal/store"
	"courtcast/internal/youtube"
)

// CatalogSaver persists the full episode catalog. *store.CatalogStore
// satisfies this.
type CatalogSaver interface {
	Save(*store.Catalog) error
}

// Summary reports what a processing run did.
type Summary struct {
	Processed int // episodes appended to the catalog
	Skipped   int // records already in the catalog
	Failed    int // records dropped this run (eligible for retry)
}

// Processor runs each record through fetch, tag, upload and finalize.
// Records are processed sequentially; one record's failure never aborts the
// loop. Tag and upload failures degrade the episode (missing tags, empty
// audio URL) rather than dropping it; only a fetch failure drops the record,
// leaving it eligible for retry on a later run.
type Processor struct {
	Fetcher   audio.Fetcher
	Tagger    audio.Tagger
	Uploader  blob.Uploader
	Generator *feed.Generator
	FeedFile  string

	// Out receives human-readable progress lines.
	Out io.Writer

	// now is stubbed in tests.
	now func() time.Time
}

// New creates a Processor writing progress to out.
func New(fetcher audio.Fetcher, tagger audio.Tagger, uploader blob.Uploader, gen *feed.Generator, feedFile string, out io.Writer) *Processor {
	return &Processor{
		Fetcher:   fetcher,
		Tagger:    tagger,
		Uploader:  uploader,
		Generator: gen,
		FeedFile:  feedFile,
		Out:       out,
		now:       time.Now,
	}
}

// Run processes the records against the catalog, then persists the updated
// catalog and regenerates the feed from the full catalog. Records whose
// video ID is already cataloged are skipped before any side effect, which is
// what makes replayed discovery output safe.
func (p *Processor) Run(ctx context.Context, records []youtube.VideoInfo, catalog *store.Catalog, saver CatalogSaver) (Summary, error) {
	var sum Summary

	for _, v := range records {
		if catalog.Has(v.ID) {
			fmt.Fprintf(p.Out, "Skipping already processed: %s\n", v.ID)
			sum.Skipped++
			continue
		}

		ep, ok := p.process(ctx, v)
		if !ok {
			sum.Failed++
			continue
		}

		if err := catalog.Append(ep); err != nil {
			sum.Skipped++
			continue
		}
		sum.Processed++
	}

	if err := saver.Save(catalog); err != nil {
		return sum, err
	}
	if err := p.Generator.WriteFile(p.FeedFile, catalog.Episodes); err != nil {
		return sum, err
	}
	fmt.Fprintf(p.Out, "Generated feed: %s\n", p.FeedFile)

	return sum, nil
}

// process runs the per-record steps. It returns false only when the fetch
// step fails, so the record stays out of the catalog and gets retried.
func (p *Processor) process(ctx context.Context, v youtube.VideoInfo) (store.Episode, bool) {
	fmt.Fprintf(p.Out, "\nProcessing: %s\n", v.Title)

	path, err := p.Fetcher.Fetch(ctx, v.ID)
	if err != nil {
		fmt.Fprintf(p.Out, "  Failed to fetch audio for %s: %v\n", v.ID, err)
		return store.Episode{}, false
	}

	if err := p.Tagger.Tag(path, v); err != nil {
		// Best-effort: an untagged episode is still publishable.
		fmt.Fprintf(p.Out, "  Warning: tagging failed: %v\n", err)
	} else {
		fmt.Fprintf(p.Out, "  Tagged: %s\n", path)
	}

	// Size is captured before any cleanup so the feed enclosure length
	// survives artifact deletion.
	var fileSize int64
	if info, err := os.Stat(path); err == nil {
		fileSize = info.Size()
	}

	audioURL, err := p.Uploader.Upload(ctx, path, v.ID)
	if err != nil {
		fmt.Fprintf(p.Out, "  Warning: upload failed, episode will have no audio URL: %v\n", err)
		audioURL = ""
	}

	ep := store.Episode{
		VideoID:     v.ID,
		Title:       v.Title,
		Description: v.Description,
		PublishedAt: v.PublishedAt,
		AudioURL:    audioURL,
		FileSize:    fileSize,
		ProcessedAt: p.now().UTC(),
	}

	// Reclaim local storage only once the audio has a durable home;
	// otherwise keep the artifact for a future upload attempt.
	if audioURL != "" {
		if err := os.Remove(path); err == nil {
			fmt.Fprintln(p.Out, "  Cleaned up local file")
		}
	}

	return ep, true
}
