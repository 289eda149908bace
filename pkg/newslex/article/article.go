package article

import (
	"fmt"
	"strings"
	"time"
)

// Language identifies the stopword language used to process a source's titles.
type Language string

const (
	English    Language = "english"
	Portuguese Language = "portuguese"
)

// Source is one of the fixed news origins. The set is closed: adding a source
// means adding a constant here and an entry in sourceLanguages.
type Source string

const (
	SourceHackerNews Source = "hackernews"
	SourceBBC        Source = "bbc"
	SourceG1         Source = "g1"
	SourceFolha      Source = "folha"
)

// sourceLanguages is the static per-source language mapping. Each source
// publishes in exactly one language.
var sourceLanguages = map[Source]Language{
	SourceHackerNews: English,
	SourceBBC:        English,
	SourceG1:         Portuguese,
	SourceFolha:      Portuguese,
}

// Sources returns all known sources in a stable order.
func Sources() []Source {
	return []Source{SourceHackerNews, SourceBBC, SourceG1, SourceFolha}
}

// ParseSource resolves a source name (case-insensitive) to its constant.
func ParseSource(name string) (Source, error) {
	s := Source(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := sourceLanguages[s]; !ok {
		return "", fmt.Errorf("unknown source %q", name)
	}
	return s, nil
}

// Language returns the language this source publishes in.
func (s Source) Language() Language {
	return sourceLanguages[s]
}

// Valid reports whether the source is part of the known set.
func (s Source) Valid() bool {
	_, ok := sourceLanguages[s]
	return ok
}

// ValidationError describes a malformed raw record. Offending records are
// skipped and counted, never fatal for the batch.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid article: %s %s", e.Field, e.Reason)
}

// RawArticle is a news item as collected, before any processing.
// Immutable once constructed; CollectedAt is always UTC so items from
// different sources compare cleanly.
type RawArticle struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      Source    `json:"source"`
	CollectedAt time.Time `json:"collected_at"`
}

// New validates and constructs a RawArticle. The collection timestamp is
// normalized to UTC; a zero timestamp is replaced with the current time.
func New(title, link string, source Source, collectedAt time.Time) (RawArticle, error) {
	title = strings.TrimSpace(title)
	link = strings.TrimSpace(link)

	if title == "" {
		return RawArticle{}, &ValidationError{Field: "title", Reason: "is empty"}
	}
	if link == "" {
		return RawArticle{}, &ValidationError{Field: "link", Reason: "is empty"}
	}
	if !source.Valid() {
		return RawArticle{}, &ValidationError{Field: "source", Reason: fmt.Sprintf("%q is unknown", string(source))}
	}
	if collectedAt.IsZero() {
		collectedAt = time.Now()
	}

	return RawArticle{
		Title:       title,
		Link:        link,
		Source:      source,
		CollectedAt: collectedAt.UTC(),
	}, nil
}

// Validate re-checks an already constructed record, for callers that build
// RawArticle values directly (e.g. when decoding persisted batches).
func (a RawArticle) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return &ValidationError{Field: "title", Reason: "is empty"}
	}
	if strings.TrimSpace(a.Link) == "" {
		return &ValidationError{Field: "link", Reason: "is empty"}
	}
	if !a.Source.Valid() {
		return &ValidationError{Field: "source", Reason: fmt.Sprintf("%q is unknown", string(a.Source))}
	}
	return nil
}

// ProcessedArticle is a RawArticle plus its normalized title and tokens.
// Derived deterministically from the raw record given a language setting;
// never mutated after creation. Each processed article traces to exactly
// one raw article.
type ProcessedArticle struct {
	Raw            RawArticle `json:"raw"`
	ProcessedTitle string     `json:"processed_title"`
	Tokens         []string   `json:"tokens"`
}
