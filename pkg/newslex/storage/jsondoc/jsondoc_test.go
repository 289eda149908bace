package jsondoc

import (
	"context"
	"errors"
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
			TotalArticles:   1,
			TotalTokens:     2,
			VocabularySize:  2,
			LexicalRichness: 1.0,
			TopWords: []analysis.WordFrequencyEntry{
				{Word: "go", Frequency: 1},
				{Word: "released", Frequency: 1},
			},
		},
	}
}

func TestPersistRoundTrip(t *testing.T) {
	dir := t.TempDir()
	a, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := a.Persist(context.Background(), sampleBatch())
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	want := filepath.Join(dir, "news_analysis_hackernews_20240305_120000.json")
	if res.Location != want {
		t.Errorf("location = %q, want %q", res.Location, want)
	}

	doc, err := Load(res.Location)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if doc.Metadata.RunID != "01RUNA" || doc.Metadata.Source != "hackernews" {
		t.Errorf("metadata = %+v", doc.Metadata)
	}
	if doc.Metadata.Articles != 1 {
		t.Errorf("metadata articles = %d", doc.Metadata.Articles)
	}
	if doc.Metadata.GeneratedAt.IsZero() {
		t.Error("generated_at should be set")
	}

	if len(doc.News) != 1 {
		t.Fatalf("news entries = %d", len(doc.News))
	}
	entry := doc.News[0]
	if entry.Title != "Go 1.23 released" || entry.ProcessedTitle != "go released" {
		t.Errorf("news entry = %+v", entry)
	}
	if len(entry.Tokens) != 2 || entry.Tokens[0] != "go" {
		t.Errorf("tokens = %v", entry.Tokens)
	}

	if doc.Analysis.VocabularySize != 2 || doc.Analysis.LexicalRichness != 1.0 {
		t.Errorf("analysis = %+v", doc.Analysis)
	}
	if len(doc.Analysis.TopWords) != 2 {
		t.Errorf("top words = %v", doc.Analysis.TopWords)
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
	if !errors.Is(err, internalerr.ErrArtifactExists) {
		t.Errorf("expected ErrArtifactExists, got %v", err)
	}
	var perr *storage.PersistError
	if !errors.As(err, &perr) || perr.Kind != Kind {
		t.Errorf("expected json PersistError, got %v", err)
	}
}

func TestPersistDifferentSourcesSameStamp(t *testing.T) {
	a, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := a.Persist(context.Background(), sampleBatch()); err != nil {
		t.Fatalf("first source: %v", err)
	}

	// A second source collected in the same second gets its own document.
	second := sampleBatch()
	second.Source = article.SourceBBC
	res, err := a.Persist(context.Background(), second)
	if err != nil {
		t.Fatalf("second source: %v", err)
	}
	doc, err := Load(res.Location)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Metadata.Source != "bbc" {
		t.Errorf("metadata source = %q", doc.Metadata.Source)
	}
}

func TestPersistEmptyBatch(t *testing.T) {
	a, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	b := storage.Batch{
		RunID:       "01EMPTY",
		Source:      article.SourceBBC,
		CollectedAt: time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC),
	}
	res, err := a.Persist(context.Background(), b)
	if err != nil {
		t.Fatalf("empty batch: %v", err)
	}

	doc, err := Load(res.Location)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.News) != 0 {
		t.Errorf("expected no news entries, got %v", doc.News)
	}
}
