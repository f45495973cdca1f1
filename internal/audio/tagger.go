package audio

import (
	"fmt"
	"strconv"

	id3v2 "github.com/bogem/id3v2/v2"

	"courtcast/internal/docket"
	"courtcast/internal/youtube"
)

// Tagger attaches descriptive metadata to a local audio artifact.
type Tagger interface {
	Tag(path string, video youtube.VideoInfo) error
}

// ID3Tagger writes ID3v2 tags so podcast players show case metadata.
type ID3Tagger struct {
	// Artist is written as the track artist (the publishing court).
	Artist string
	// Album is written as the album (the podcast title).
	Album string
}

// Tag writes title, artist, album, genre and year frames, plus a docket
// comment when the title carries a docket number.
func (t *ID3Tagger) Tag(path string, video youtube.VideoInfo) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("audio: open tags %s: %w", path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(video.Title)
	tag.SetArtist(t.Artist)
	tag.SetAlbum(t.Album)
	tag.SetGenre("Podcast")

	if !video.PublishedAt.IsZero() {
		tag.SetYear(strconv.Itoa(video.PublishedAt.Year()))
	}

	if info := docket.ParseCaseInfo(video.Title); info.Docket != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "Docket",
			Text:        info.Docket,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("audio: save tags %s: %w", path, err)
	}
	return nil
}

// NopTagger skips tagging. Substituted when tagging is disabled.
type NopTagger struct{}

func (NopTagger) Tag(string, youtube.VideoInfo) error { return nil }
