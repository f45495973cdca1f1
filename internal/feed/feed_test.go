package feed

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"courtcast/internal/config"
	"courtcast/internal/store"
)

func testGenerator() *Generator {
	g := NewGenerator(config.DefaultConfig())
	g.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return g
}

func day(month, d int) time.Time {
	return time.Date(2024, time.Month(month), d, 14, 0, 0, 0, time.UTC)
}

func TestGenerate_OrderNewestFirst(t *testing.T) {
	episodes := []store.Episode{
		{VideoID: "jan", Title: "January Argument", PublishedAt: day(1, 1)},
		{VideoID: "mar", Title: "March Argument", PublishedAt: day(3, 1)},
		{VideoID: "feb", Title: "February Argument", PublishedAt: day(2, 1)},
	}

	var buf bytes.Buffer
	if err := testGenerator().Generate(&buf, episodes); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	out := buf.String()

	mar := strings.Index(out, "March Argument")
	feb := strings.Index(out, "February Argument")
	jan := strings.Index(out, "January Argument")
	if mar < 0 || feb < 0 || jan < 0 {
		t.Fatalf("feed missing episode titles:\n%s", out)
	}
	if !(mar < feb && feb < jan) {
		t.Errorf("feed order = mar@%d feb@%d jan@%d, want newest first", mar, feb, jan)
	}
}

func TestGenerate_StableTieOrder(t *testing.T) {
	episodes := []store.Episode{
		{VideoID: "first", Title: "First Inserted", PublishedAt: day(1, 1)},
		{VideoID: "second", Title: "Second Inserted", PublishedAt: day(1, 1)},
	}

	var buf bytes.Buffer
	if err := testGenerator().Generate(&buf, episodes); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	out := buf.String()

	if strings.Index(out, "First Inserted") > strings.Index(out, "Second Inserted") {
		t.Error("equal dates did not preserve catalog insertion order")
	}
}

func TestGenerate_EnclosureOnlyWithAudioURL(t *testing.T) {
	episodes := []store.Episode{
		{
			VideoID:     "with-audio",
			Title:       "Commonwealth v. Delarosa, SJC-13444",
			PublishedAt: day(3, 1),
			AudioURL:    "https://cdn.example.com/episodes/with-audio.mp3",
			FileSize:    2048,
		},
		{
			VideoID:     "without-audio",
			Title:       "Annual State of the Judiciary",
			PublishedAt: day(2, 1),
		},
	}

	var buf bytes.Buffer
	if err := testGenerator().Generate(&buf, episodes); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	out := buf.String()

	if strings.Count(out, "<enclosure") != 1 {
		t.Errorf("enclosure count = %d, want 1:\n%s", strings.Count(out, "<enclosure"), out)
	}
	if !strings.Contains(out, "https://cdn.example.com/episodes/with-audio.mp3") {
		t.Error("feed missing enclosure URL")
	}
	if !strings.Contains(out, "Annual State of the Judiciary") {
		t.Error("episode without audio dropped from feed")
	}
}

func TestGenerate_DocketSubtitle(t *testing.T) {
	episodes := []store.Episode{
		{VideoID: "a", Title: "Commonwealth v. Delarosa, SJC-13444", PublishedAt: day(3, 1)},
		{VideoID: "b", Title: "Annual State of the Judiciary", PublishedAt: day(2, 1)},
	}

	var buf bytes.Buffer
	if err := testGenerator().Generate(&buf, episodes); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Docket: SJC-13444") {
		t.Error("feed missing docket subtitle")
	}
	if strings.Count(out, "Docket:") != 1 {
		t.Errorf("docket subtitle count = %d, want 1", strings.Count(out, "Docket:"))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	episodes := []store.Episode{
		{VideoID: "a", Title: "Argument A", PublishedAt: day(1, 5)},
		{VideoID: "b", Title: "Argument B", PublishedAt: day(2, 5)},
	}

	g := testGenerator()
	var first, second bytes.Buffer
	if err := g.Generate(&first, episodes); err != nil {
		t.Fatal(err)
	}
	if err := g.Generate(&second, episodes); err != nil {
		t.Fatal(err)
	}
	if first.String() != second.String() {
		t.Error("Generate() output differs across identical runs")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.xml")
	episodes := []store.Episode{
		{VideoID: "a", Title: "Argument A", PublishedAt: day(1, 5)},
	}

	if err := testGenerator().WriteFile(path, episodes); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<rss") {
		t.Errorf("feed file does not look like RSS:\n%s", data)
	}
}
