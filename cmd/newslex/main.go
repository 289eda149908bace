// Command newslex collects news titles from the supported sources, runs
// word-frequency analysis, and persists the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cognicore/newslex/internal/replay"
	"github.com/cognicore/newslex/internal/scrape"
	"github.com/cognicore/newslex/pkg/newslex"
	"github.com/cognicore/newslex/pkg/newslex/article"
	"github.com/cognicore/newslex/pkg/newslex/config"
	"github.com/cognicore/newslex/pkg/newslex/ingest"
	"github.com/cognicore/newslex/pkg/newslex/storage"
	"github.com/cognicore/newslex/pkg/newslex/storage/csvfile"
	"github.com/cognicore/newslex/pkg/newslex/storage/jsondoc"
	"github.com/cognicore/newslex/pkg/newslex/storage/parquet"
	"github.com/cognicore/newslex/pkg/newslex/storage/sqlite"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to YAML config file")
		sourceFlag  = flag.String("source", "", "source to collect: hackernews, bbc, g1, folha, or all; overrides config")
		storageFlag = flag.String("storage", "", "comma-separated storage kinds, overrides config")
		dataDir     = flag.String("data", "", "artifact directory, overrides config")
		topWords    = flag.Int("top", 0, "top words per run, overrides config")
		replayPath  = flag.String("replay", "", "load titles from a JSONL file instead of the network")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if err := run(log, *configPath, *sourceFlag, *storageFlag, *dataDir, *topWords, *replayPath); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, configPath, sourceFlag, storageFlag, dataDir string, topWords int, replayPath string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if storageFlag != "" {
		cfg.Storage = strings.Split(storageFlag, ",")
	}
	if topWords > 0 {
		cfg.TopWords = topWords
	}

	sources := cfg.SourceList()
	if sourceFlag != "" {
		var err error
		sources, err = resolveSources(sourceFlag)
		if err != nil {
			return err
		}
	}

	ctx := context.Background()
	adapters, cleanup, err := buildAdapters(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	for _, source := range sources {
		raws, err := collect(ctx, log, cfg, source, replayPath, timeout)
		if err != nil {
			log.Error("collection failed", "source", source, "error", err)
			continue
		}

		pipeline := newslex.New(newslex.Options{
			Ingest: ingest.Options{
				KeepDigits:      cfg.KeepDigits,
				MinTokenLength:  cfg.MinTokenLength,
				CustomStopwords: cfg.CustomStopwords[string(source.Language())],
			},
			TopWords: cfg.TopWords,
			Adapters: adapters,
			Logger:   log,
		})

		report, err := pipeline.Run(ctx, source, raws)
		if err != nil {
			log.Error("pipeline failed", "source", source, "error", err)
			continue
		}

		log.Info("run complete",
			"run_id", report.RunID,
			"source", report.Source,
			"collected", report.Collected,
			"skipped", len(report.Skipped),
			"vocabulary", report.Summary.VocabularySize,
			"storage_failures", countFailures(report))

		for _, entry := range report.Summary.TopWords {
			fmt.Printf("%-20s %d\n", entry.Word, entry.Frequency)
		}
	}

	return nil
}

func resolveSources(flagValue string) ([]article.Source, error) {
	if strings.EqualFold(flagValue, "all") {
		return article.Sources(), nil
	}

	var out []article.Source
	for _, name := range strings.Split(flagValue, ",") {
		source, err := article.ParseSource(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, source)
	}
	return out, nil
}

func collect(ctx context.Context, log *slog.Logger, cfg config.Config, source article.Source, replayPath string, timeout time.Duration) ([]article.RawArticle, error) {
	if replayPath != "" {
		items, err := replay.LoadFromJSONL(replayPath, log)
		if err != nil {
			return nil, err
		}
		// Replay files may mix sources; keep only the requested one.
		var out []article.RawArticle
		for _, item := range items {
			if item.Source == source {
				out = append(out, item)
			}
		}
		return out, nil
	}

	scraper, err := scrape.New(source, scrape.Options{MaxItems: cfg.MaxItems})
	if err != nil {
		return nil, err
	}

	fetchCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return scraper.Fetch(fetchCtx)
}

func buildAdapters(ctx context.Context, cfg config.Config) ([]storage.Adapter, func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, err
	}

	var adapters []storage.Adapter
	var closers []func() error

	for _, kind := range cfg.StorageKinds() {
		switch kind {
		case sqlite.Kind:
			db, err := sqlite.Open(ctx, cfg.SQLiteFile())
			if err != nil {
				return nil, nil, err
			}
			adapters = append(adapters, db)
			closers = append(closers, db.Close)
		case csvfile.Kind:
			a, err := csvfile.New(cfg.DataDir)
			if err != nil {
				return nil, nil, err
			}
			adapters = append(adapters, a)
		case parquet.Kind:
			a, err := parquet.New(cfg.DataDir)
			if err != nil {
				return nil, nil, err
			}
			adapters = append(adapters, a)
		case jsondoc.Kind:
			a, err := jsondoc.New(cfg.DataDir)
			if err != nil {
				return nil, nil, err
			}
			adapters = append(adapters, a)
		}
	}

	cleanup := func() {
		for _, fn := range closers {
			fn()
		}
	}
	return adapters, cleanup, nil
}

func countFailures(report newslex.RunReport) int {
	n := 0
	for _, out := range report.Storage {
		if out.Err != nil {
			n++
		}
	}
	return n
}
