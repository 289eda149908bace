package article

import (
	"errors"
	"testing"
	"time"
)

func TestNewValidArticle(t *testing.T) {
	collected := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.FixedZone("BRT", -3*3600))

	a, err := New("  The Rise of AI  ", "https://example.com/ai", SourceHackerNews, collected)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if a.Title != "The Rise of AI" {
		t.Errorf("title not trimmed: %q", a.Title)
	}
	if a.CollectedAt.Location() != time.UTC {
		t.Errorf("CollectedAt should be UTC, got %v", a.CollectedAt.Location())
	}
	if !a.CollectedAt.Equal(collected) {
		t.Errorf("CollectedAt changed instant: %v vs %v", a.CollectedAt, collected)
	}
}

func TestNewRejectsEmptyFields(t *testing.T) {
	cases := []struct {
		name  string
		title string
		link  string
	}{
		{"empty title", "", "https://example.com"},
		{"whitespace title", "   ", "https://example.com"},
		{"empty link", "Headline", ""},
		{"whitespace link", "Headline", "\t"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.title, tc.link, SourceBBC, time.Now())
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestNewRejectsUnknownSource(t *testing.T) {
	_, err := New("Headline", "https://example.com", Source("reddit"), time.Now())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Field != "source" {
		t.Errorf("expected source field, got %q", verr.Field)
	}
}

func TestNewAssignsTimestampWhenZero(t *testing.T) {
	a, err := New("Headline", "https://example.com", SourceG1, time.Time{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if a.CollectedAt.IsZero() {
		t.Error("zero CollectedAt should have been replaced")
	}
}

func TestSourceLanguageMapping(t *testing.T) {
	cases := map[Source]Language{
		SourceHackerNews: English,
		SourceBBC:        English,
		SourceG1:         Portuguese,
		SourceFolha:      Portuguese,
	}
	for src, want := range cases {
		if got := src.Language(); got != want {
			t.Errorf("%s language = %q, want %q", src, got, want)
		}
	}
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource("  HackerNews ")
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	if src != SourceHackerNews {
		t.Errorf("got %q", src)
	}

	if _, err := ParseSource("mastodon"); err == nil {
		t.Error("unknown source should not parse")
	}
}

func TestValidateConstructedRecord(t *testing.T) {
	a := RawArticle{Title: "Headline", Link: "https://example.com", Source: SourceFolha, CollectedAt: time.Now().UTC()}
	if err := a.Validate(); err != nil {
		t.Errorf("valid record rejected: %v", err)
	}

	a.Link = ""
	if err := a.Validate(); err == nil {
		t.Error("record with empty link should fail validation")
	}
}
