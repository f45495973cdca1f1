// Package feed regenerates the podcast RSS document from the episode catalog.
package feed

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/eduncan911/podcast"

	"courtcast/internal/config"
	"courtcast/internal/docket"
	"courtcast/internal/store"
)

// Generator builds the RSS feed. Generation is a pure transform of the full
// catalog; the feed file is rewritten from scratch every run rather than
// appended to.
type Generator struct {
	Title       string
	Description string
	Link        string
	Language    string
	Author      string
	Email       string
	Image       string
	Category    string

	// now is stubbed in tests to keep output deterministic.
	now func() time.Time
}

// NewGenerator builds a Generator from podcast configuration.
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{
		Title:       cfg.PodcastTitle,
		Description: cfg.PodcastDescription,
		Link:        cfg.PodcastWebsite,
		Language:    cfg.PodcastLanguage,
		Author:      cfg.PodcastAuthor,
		Email:       cfg.PodcastEmail,
		Image:       cfg.PodcastImage,
		Category:    cfg.PodcastCategory,
	}
}

// Generate writes the RSS document for the given episodes. Episodes are
// ordered newest first by publication date; ties keep catalog insertion
// order. Episodes without an audio URL still appear, just without an
// enclosure.
func (g *Generator) Generate(w io.Writer, episodes []store.Episode) error {
	sorted := make([]store.Episode, len(episodes))
	copy(sorted, episodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	now := time.Now()
	if g.now != nil {
		now = g.now()
	}

	p := podcast.New(g.Title, g.Link, g.Description, nil, &now)
	p.Language = g.Language
	p.AddAuthor(g.Author, g.Email)
	p.AddCategory(g.Category, nil)
	p.IExplicit = "no"
	if g.Image != "" {
		p.AddImage(g.Image)
	}

	for _, ep := range sorted {
		description := ep.Description
		if description == "" {
			description = ep.Title
		}

		item := podcast.Item{
			GUID:        ep.VideoID,
			Title:       ep.Title,
			Description: description,
			Link:        "https://www.youtube.com/watch?v=" + ep.VideoID,
		}

		pub := ep.PublishedAt
		item.AddPubDate(&pub)

		if ep.AudioURL != "" {
			item.AddEnclosure(ep.AudioURL, podcast.MP3, ep.FileSize)
		}

		if info := docket.ParseCaseInfo(ep.Title); info.Docket != "" {
			item.ISubtitle = "Docket: " + info.Docket
		}

		if _, err := p.AddItem(item); err != nil {
			return fmt.Errorf("feed: add %s: %w", ep.VideoID, err)
		}
	}

	return p.Encode(w)
}

// WriteFile regenerates the feed at path atomically.
func (g *Generator) WriteFile(path string, episodes []store.Episode) error {
	writer, err := store.NewAtomicWriter(path)
	if err != nil {
		return fmt.Errorf("feed: %w", err)
	}

	if err := g.Generate(writer, episodes); err != nil {
		writer.Abort()
		return err
	}
	if err := writer.Commit(); err != nil {
		return fmt.Errorf("feed: %w", err)
	}
	return nil
}
