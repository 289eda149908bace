package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/newslex/pkg/newslex/analysis"
	"github.com/cognicore/newslex/pkg/newslex/article"
	"github.com/cognicore/newslex/pkg/newslex/internalerr"
	"github.com/cognicore/newslex/pkg/newslex/storage"
)

func sampleBatch() storage.Batch {
	collected := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	raw := article.RawArticle{Title: "Go 1.23 released", Link: "https://example.com/go", Source: article.SourceHackerNews, CollectedAt: collected}

	return storage.Batch{
		RunID:       "01RUNA",
		Source:      article.SourceHackerNews,
		CollectedAt: collected,
		Raw:         []article.RawArticle{raw},
		Processed: []article.ProcessedArticle{
			{Raw: raw, ProcessedTitle: "go released", Tokens: []string{"go", "released"}},
		},
		Summary: analysis.Summary{
			TopWords: []analysis.WordFrequencyEntry{
				{Word: "go", Frequency: 1},
				{Word: "released", Frequency: 1},
			},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

func TestPersistWritesBothFiles(t *testing.T) {
	dir := t.TempDir()
	a, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := a.Persist(context.Background(), sampleBatch())
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if res.Kind != Kind {
		t.Errorf("result kind = %q", res.Kind)
	}

	articles := readCSV(t, filepath.Join(dir, "news_hackernews_20240305_120000.csv"))
	if len(articles) != 2 {
		t.Fatalf("articles file rows = %d", len(articles))
	}
	wantHeader := []string{"title", "processed_title", "link", "source", "collected_at"}
	for i, col := range wantHeader {
		if articles[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, articles[0][i], col)
		}
	}
	row := articles[1]
	if row[0] != "Go 1.23 released" || row[1] != "go released" || row[3] != "hackernews" {
		t.Errorf("article row = %v", row)
	}
	if row[4] != "2024-03-05T12:00:00Z" {
		t.Errorf("collected_at = %q", row[4])
	}

	freqs := readCSV(t, filepath.Join(dir, "word_frequency_hackernews_20240305_120000.csv"))
	if len(freqs) != 3 {
		t.Fatalf("frequency file rows = %d", len(freqs))
	}
	if freqs[0][0] != "word" || freqs[0][1] != "frequency" {
		t.Errorf("frequency header = %v", freqs[0])
	}
	if freqs[1][0] != "go" || freqs[1][1] != "1" {
		t.Errorf("first frequency row = %v", freqs[1])
	}
}

func TestPersistNeverOverwrites(t *testing.T) {
	a, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := a.Persist(context.Background(), sampleBatch()); err != nil {
		t.Fatalf("first persist: %v", err)
	}

	_, err = a.Persist(context.Background(), sampleBatch())
	if err == nil {
		t.Fatal("same stamp should refuse to overwrite")
	}
	if !errors.Is(err, internalerr.ErrArtifactExists) {
		t.Errorf("expected ErrArtifactExists, got %v", err)
	}
	var perr *storage.PersistError
	if !errors.As(err, &perr) || perr.Kind != Kind {
		t.Errorf("expected csv PersistError, got %v", err)
	}
}

func TestPersistEmptyBatch(t *testing.T) {
	dir := t.TempDir()
	a, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	b := storage.Batch{
		RunID:       "01EMPTY",
		Source:      article.SourceG1,
		CollectedAt: time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC),
	}
	if _, err := a.Persist(context.Background(), b); err != nil {
		t.Fatalf("empty batch: %v", err)
	}

	// Header-only files are still written.
	articles := readCSV(t, filepath.Join(dir, "news_g1_20240305_120000.csv"))
	if len(articles) != 1 {
		t.Errorf("expected header-only articles file, got %d rows", len(articles))
	}
}

func TestPersistDifferentSourcesSameStamp(t *testing.T) {
	a, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first := sampleBatch()
	if _, err := a.Persist(context.Background(), first); err != nil {
		t.Fatalf("first source: %v", err)
	}

	// A second source collected in the same second gets its own files.
	second := sampleBatch()
	second.Source = article.SourceBBC
	for i := range second.Raw {
		second.Raw[i].Source = article.SourceBBC
	}
	for i := range second.Processed {
		second.Processed[i].Raw.Source = article.SourceBBC
	}
	if _, err := a.Persist(context.Background(), second); err != nil {
		t.Fatalf("second source: %v", err)
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if _, err := New(dir); err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}
