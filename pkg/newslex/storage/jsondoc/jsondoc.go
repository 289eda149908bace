package jsondoc

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cognicore/newslex/pkg/newslex/analysis"
	"github.com/cognicore/newslex/pkg/newslex/internalerr"
	"github.com/cognicore/newslex/pkg/newslex/storage"
)

// Kind identifies this adapter in results and configuration.
const Kind = "json"

// Metadata describes the run the document belongs to.
type Metadata struct {
	RunID       string    `json:"run_id"`
	Source      string    `json:"source"`
	CollectedAt time.Time `json:"collected_at"`
	GeneratedAt time.Time `json:"generated_at"`
	Articles    int       `json:"articles"`
}

// NewsEntry is one article as it appears in the document.
type NewsEntry struct {
	Title          string    `json:"title"`
	ProcessedTitle string    `json:"processed_title"`
	Tokens         []string  `json:"tokens"`
	Link           string    `json:"link"`
	Source         string    `json:"source"`
	CollectedAt    time.Time `json:"collected_at"`
}

// Document is the full JSON artifact of one run.
type Document struct {
	Metadata Metadata         `json:"metadata"`
	News     []NewsEntry      `json:"news"`
	Analysis analysis.Summary `json:"analysis"`
}

// Adapter writes one indented JSON document per run into its directory.
// Existing files are never overwritten.
type Adapter struct {
	dir string
	now func() time.Time
}

// New creates an adapter writing into dir, creating it if needed.
func New(dir string) (*Adapter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Adapter{dir: dir, now: time.Now}, nil
}

// Kind implements storage.Adapter.
func (a *Adapter) Kind() string { return Kind }

// Persist serializes the batch into news_analysis_<source>_<stamp>.json.
func (a *Adapter) Persist(ctx context.Context, b storage.Batch) (storage.Result, error) {
	path := filepath.Join(a.dir, fmt.Sprintf("news_analysis_%s_%s.json", b.Source, b.Stamp()))

	doc := Document{
		Metadata: Metadata{
			RunID:       b.RunID,
			Source:      string(b.Source),
			CollectedAt: b.CollectedAt.UTC(),
			GeneratedAt: a.now().UTC(),
			Articles:    len(b.Processed),
		},
		News:     make([]NewsEntry, 0, len(b.Processed)),
		Analysis: b.Summary,
	}
	for _, p := range b.Processed {
		doc.News = append(doc.News, NewsEntry{
			Title:          p.Raw.Title,
			ProcessedTitle: p.ProcessedTitle,
			Tokens:         p.Tokens,
			Link:           p.Raw.Link,
			Source:         string(p.Raw.Source),
			CollectedAt:    p.Raw.CollectedAt.UTC(),
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return storage.Result{}, &storage.PersistError{Kind: Kind, Err: err}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			err = fmt.Errorf("%w: %s", internalerr.ErrArtifactExists, path)
		}
		return storage.Result{}, &storage.PersistError{Kind: Kind, Err: err}
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return storage.Result{}, &storage.PersistError{Kind: Kind, Err: err}
	}
	if err := f.Close(); err != nil {
		return storage.Result{}, &storage.PersistError{Kind: Kind, Err: err}
	}

	return storage.Result{Kind: Kind, Location: path}, nil
}

// Load reads a document back from disk.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}
