package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cognicore/newslex/pkg/newslex/internalerr"
	"github.com/cognicore/newslex/pkg/newslex/storage"
)

// Kind identifies this adapter in results and configuration.
const Kind = "csv"

// Adapter writes two CSV files per run into its directory: one with the
// articles (raw and processed title side by side) and one with the ranked
// word frequencies. Files are named by source and run timestamp and never
// overwritten.
type Adapter struct {
	dir string
}

// New creates an adapter writing into dir, creating it if needed.
func New(dir string) (*Adapter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Adapter{dir: dir}, nil
}

// Kind implements storage.Adapter.
func (a *Adapter) Kind() string { return Kind }

// Persist writes the articles file and the frequency file for this run.
func (a *Adapter) Persist(ctx context.Context, b storage.Batch) (storage.Result, error) {
	articlesPath := filepath.Join(a.dir, fmt.Sprintf("news_%s_%s.csv", b.Source, b.Stamp()))
	freqPath := filepath.Join(a.dir, fmt.Sprintf("word_frequency_%s_%s.csv", b.Source, b.Stamp()))

	if err := a.writeArticles(articlesPath, b); err != nil {
		return storage.Result{}, &storage.PersistError{Kind: Kind, Err: err}
	}
	if err := a.writeFrequencies(freqPath, b); err != nil {
		return storage.Result{}, &storage.PersistError{Kind: Kind, Err: err}
	}

	return storage.Result{Kind: Kind, Location: articlesPath}, nil
}

// createExclusive refuses to clobber an artifact from a previous run with the
// same stamp.
func createExclusive(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if os.IsExist(err) {
		return nil, fmt.Errorf("%w: %s", internalerr.ErrArtifactExists, path)
	}
	return f, err
}

func (a *Adapter) writeArticles(path string, b storage.Batch) error {
	f, err := createExclusive(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"title", "processed_title", "link", "source", "collected_at"}); err != nil {
		return err
	}
	for _, p := range b.Processed {
		record := []string{
			p.Raw.Title,
			p.ProcessedTitle,
			p.Raw.Link,
			string(p.Raw.Source),
			p.Raw.CollectedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func (a *Adapter) writeFrequencies(path string, b storage.Batch) error {
	f, err := createExclusive(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"word", "frequency"}); err != nil {
		return err
	}
	for _, entry := range b.Summary.TopWords {
		if err := w.Write([]string{entry.Word, strconv.Itoa(entry.Frequency)}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
