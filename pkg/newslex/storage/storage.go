package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cognicore/newslex/pkg/newslex/analysis"
	"github.com/cognicore/newslex/pkg/newslex/article"
)

// Batch is the unit of persistence: everything one pipeline run produced for
// one source. Adapters treat it as read-only.
type Batch struct {
	RunID       string
	Source      article.Source
	CollectedAt time.Time
	Raw         []article.RawArticle
	Processed   []article.ProcessedArticle
	Summary     analysis.Summary
}

// Stamp renders the batch's run timestamp the way artifact files are named.
func (b Batch) Stamp() string {
	return b.CollectedAt.UTC().Format("20060102_150405")
}

// Result reports where one adapter put its artifact.
type Result struct {
	Kind     string `json:"kind"`
	Location string `json:"location"`
}

// Adapter persists a batch into one concrete format. Implementations must
// accept empty batches (a run with zero articles is valid) and must not
// mutate the batch.
type Adapter interface {
	Kind() string
	Persist(ctx context.Context, b Batch) (Result, error)
}

// PersistError wraps an adapter-scoped I/O or encoding failure. It never
// aborts sibling adapters.
type PersistError struct {
	Kind string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Kind, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Outcome is the per-adapter entry of a run report: either a Result or a
// *PersistError, never both.
type Outcome struct {
	Result Result
	Err    error
}

// MarshalJSON renders the error as its message, so serialized run reports
// carry the failure text instead of an empty object.
func (o Outcome) MarshalJSON() ([]byte, error) {
	var msg string
	if o.Err != nil {
		msg = o.Err.Error()
	}
	return json.Marshal(struct {
		Result Result `json:"result"`
		Error  string `json:"error,omitempty"`
	}{o.Result, msg})
}

// PersistAll fans the batch out to every adapter concurrently and collects
// one outcome per adapter, in adapter order. A failing adapter only marks
// its own slot; the others run to completion regardless.
func PersistAll(ctx context.Context, adapters []Adapter, b Batch) []Outcome {
	outcomes := make([]Outcome, len(adapters))

	var wg sync.WaitGroup
	for i, ad := range adapters {
		wg.Add(1)
		go func(i int, ad Adapter) {
			defer wg.Done()
			outcomes[i] = persistOne(ctx, ad, b)
		}(i, ad)
	}
	wg.Wait()

	return outcomes
}

func persistOne(ctx context.Context, ad Adapter, b Batch) (out Outcome) {
	// An adapter panic must not take down the run or its siblings.
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: &PersistError{Kind: ad.Kind(), Err: fmt.Errorf("panic: %v", r)}}
		}
	}()

	res, err := ad.Persist(ctx, b)
	if err != nil {
		if _, ok := err.(*PersistError); !ok {
			err = &PersistError{Kind: ad.Kind(), Err: err}
		}
		return Outcome{Err: err}
	}
	if res.Kind == "" {
		res.Kind = ad.Kind()
	}
	return Outcome{Result: res}
}
