// Package newslex wires collection, normalization, frequency analysis, and
// persistence into a single pipeline over news titles.
package newslex

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/newslex/pkg/newslex/analysis"
	"github.com/cognicore/newslex/pkg/newslex/article"
	"github.com/cognicore/newslex/pkg/newslex/ingest"
	"github.com/cognicore/newslex/pkg/newslex/storage"
)

// Options configures a Pipeline instance.
type Options struct {
	// Ingest tunes tokenization; the language is taken from each run's source.
	Ingest ingest.Options
	// TopWords limits the ranked word list. Non-positive means the analyzer
	// default.
	TopWords int
	// Adapters receive every batch. A run with no adapters analyzes but
	// persists nothing.
	Adapters []storage.Adapter
	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Pipeline is the main facade: one Run call takes a slice of collected titles
// through validation, normalization, analysis, and storage fan-out.
type Pipeline struct {
	opts     Options
	analyzer *analysis.Analyzer
	log      *slog.Logger
	entropy  *ulid.MonotonicEntropy
	now      func() time.Time
}

// New creates a Pipeline with the given dependencies.
func New(opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		opts:     opts,
		analyzer: analysis.NewAnalyzer(opts.TopWords),
		log:      log,
		entropy:  ulid.Monotonic(rand.Reader, 0),
		now:      time.Now,
	}
}

// SkippedArticle records one input that was dropped before analysis, with the
// reason it failed validation or normalization.
type SkippedArticle struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// RunReport summarizes everything one Run produced.
type RunReport struct {
	RunID     string            `json:"run_id"`
	Source    article.Source    `json:"source"`
	Collected int               `json:"collected"`
	Skipped   []SkippedArticle  `json:"skipped,omitempty"`
	Summary   analysis.Summary  `json:"summary"`
	Storage   []storage.Outcome `json:"storage,omitempty"`
}

// Failed reports whether any storage adapter failed for this run.
func (r RunReport) Failed() bool {
	for _, out := range r.Storage {
		if out.Err != nil {
			return true
		}
	}
	return false
}

// Run pushes one collected batch through the pipeline. Invalid articles are
// skipped and reported, never fatal; a source whose language has no stopword
// list skips the whole batch the same way. The returned error covers only
// setup-level problems (an unknown source); per-adapter storage failures are
// carried in the report.
func (p *Pipeline) Run(ctx context.Context, source article.Source, raws []article.RawArticle) (RunReport, error) {
	if !source.Valid() {
		return RunReport{}, &article.ValidationError{Field: "source", Reason: "unknown source " + string(source)}
	}

	report := RunReport{
		RunID:  ulid.MustNew(ulid.Now(), p.entropy).String(),
		Source: source,
	}
	collectedAt := p.now().UTC()

	log := p.log.With("run_id", report.RunID, "source", source)
	log.Info("run started", "articles", len(raws))

	normalizer, err := ingest.NewNormalizer(source.Language(), p.opts.Ingest)
	if err != nil {
		// No stopword list for this language: every article is skipped but
		// the run still completes with an empty batch.
		var unsupported *ingest.UnsupportedLanguageError
		if !errors.As(err, &unsupported) {
			return RunReport{}, err
		}
		log.Warn("language not supported, skipping batch", "language", source.Language())
		for _, raw := range raws {
			report.Skipped = append(report.Skipped, SkippedArticle{Title: raw.Title, Reason: err.Error()})
		}
	}

	var kept []article.RawArticle
	var processed []article.ProcessedArticle
	if normalizer != nil {
		for _, raw := range raws {
			if raw.Source == "" {
				raw.Source = source
			}
			if raw.CollectedAt.IsZero() {
				raw.CollectedAt = collectedAt
			}
			if err := raw.Validate(); err != nil {
				log.Warn("article skipped", "title", raw.Title, "reason", err)
				report.Skipped = append(report.Skipped, SkippedArticle{Title: raw.Title, Reason: err.Error()})
				continue
			}
			kept = append(kept, raw)
			processed = append(processed, normalizer.Normalize(raw))
		}
	}
	report.Collected = len(kept)

	report.Summary = p.analyzer.Analyze(processed)
	log.Info("analysis complete",
		"collected", report.Collected,
		"skipped", len(report.Skipped),
		"vocabulary", report.Summary.VocabularySize)

	batch := storage.Batch{
		RunID:       report.RunID,
		Source:      source,
		CollectedAt: collectedAt,
		Raw:         kept,
		Processed:   processed,
		Summary:     report.Summary,
	}
	report.Storage = storage.PersistAll(ctx, p.opts.Adapters, batch)
	for _, out := range report.Storage {
		if out.Err != nil {
			log.Error("storage adapter failed", "error", out.Err)
			continue
		}
		log.Info("artifact written", "kind", out.Result.Kind, "location", out.Result.Location)
	}

	return report, nil
}
