package parquet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/cognicore/newslex/pkg/newslex/internalerr"
	"github.com/cognicore/newslex/pkg/newslex/storage"
)

// Kind identifies this adapter in results and configuration.
const Kind = "parquet"

// Row is the columnar schema for one processed article.
type Row struct {
	Title          string    `parquet:"title"`
	ProcessedTitle string    `parquet:"processed_title"`
	Link           string    `parquet:"link"`
	Source         string    `parquet:"source"`
	CollectedAt    time.Time `parquet:"collected_at,timestamp(nanosecond)"`
}

// Adapter writes one snappy-compressed parquet file per run into its
// directory. Existing files are never overwritten.
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

// Persist writes every processed article of the batch as one row group.
func (a *Adapter) Persist(ctx context.Context, b storage.Batch) (storage.Result, error) {
	path := filepath.Join(a.dir, fmt.Sprintf("news_%s_%s.parquet", b.Source, b.Stamp()))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			err = fmt.Errorf("%w: %s", internalerr.ErrArtifactExists, path)
		}
		return storage.Result{}, &storage.PersistError{Kind: Kind, Err: err}
	}
	defer f.Close()

	rows := make([]Row, 0, len(b.Processed))
	for _, p := range b.Processed {
		rows = append(rows, Row{
			Title:          p.Raw.Title,
			ProcessedTitle: p.ProcessedTitle,
			Link:           p.Raw.Link,
			Source:         string(p.Raw.Source),
			CollectedAt:    p.Raw.CollectedAt.UTC(),
		})
	}

	if err := parquet.Write(f, rows, parquet.Compression(&parquet.Snappy)); err != nil {
		return storage.Result{}, &storage.PersistError{Kind: Kind, Err: err}
	}
	if err := f.Close(); err != nil {
		return storage.Result{}, &storage.PersistError{Kind: Kind, Err: err}
	}

	return storage.Result{Kind: Kind, Location: path}, nil
}
