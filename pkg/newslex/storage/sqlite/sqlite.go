package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/newslex/pkg/newslex/article"
	"github.com/cognicore/newslex/pkg/newslex/storage"
)

// Kind identifies this adapter in results and configuration.
const Kind = "sqlite"

// Adapter persists batches into a SQLite database. Rows from earlier runs are
// never touched: every run appends under its own run_id, so the same database
// accumulates history across invocations.
type Adapter struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path with WAL mode enabled
// and the schema initialized.
func Open(ctx context.Context, path string) (*Adapter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL keeps concurrent adapter fan-out from serializing on the writer.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Adapter{db: db, path: path}, nil
}

// Close closes the database connection.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Kind implements storage.Adapter.
func (a *Adapter) Kind() string { return Kind }

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS raw_articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	source TEXT NOT NULL,
	title TEXT NOT NULL,
	link TEXT NOT NULL,
	collected_at TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
	UNIQUE(run_id, link)
);

CREATE TABLE IF NOT EXISTS processed_articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	source TEXT NOT NULL,
	title TEXT NOT NULL,
	processed_title TEXT NOT NULL,
	tokens TEXT NOT NULL,
	link TEXT NOT NULL,
	collected_at TEXT NOT NULL,
	UNIQUE(run_id, link)
);

CREATE TABLE IF NOT EXISTS word_frequency (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	source TEXT NOT NULL,
	word TEXT NOT NULL,
	frequency INTEGER NOT NULL,
	rank INTEGER NOT NULL,
	analyzed_at TEXT NOT NULL,
	UNIQUE(run_id, word)
);

CREATE INDEX IF NOT EXISTS idx_raw_source ON raw_articles(source, collected_at);
CREATE INDEX IF NOT EXISTS idx_freq_word ON word_frequency(word);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Persist appends the batch's raw articles, processed articles, and word
// frequencies in a single transaction. Empty batches commit an empty run,
// which is valid.
func (a *Adapter) Persist(ctx context.Context, b storage.Batch) (storage.Result, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Result{}, &storage.PersistError{Kind: Kind, Err: err}
	}
	defer tx.Rollback()

	stamp := b.CollectedAt.UTC().Format(time.RFC3339)

	for _, raw := range b.Raw {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO raw_articles (run_id, source, title, link, collected_at)
			 VALUES (?, ?, ?, ?, ?)`,
			b.RunID, string(raw.Source), raw.Title, raw.Link, raw.CollectedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return storage.Result{}, &storage.PersistError{Kind: Kind, Err: err}
		}
	}

	for _, p := range b.Processed {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO processed_articles (run_id, source, title, processed_title, tokens, link, collected_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.RunID, string(p.Raw.Source), p.Raw.Title, p.ProcessedTitle,
			strings.Join(p.Tokens, " "), p.Raw.Link, p.Raw.CollectedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return storage.Result{}, &storage.PersistError{Kind: Kind, Err: err}
		}
	}

	for rank, entry := range b.Summary.TopWords {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO word_frequency (run_id, source, word, frequency, rank, analyzed_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			b.RunID, string(b.Source), entry.Word, entry.Frequency, rank+1, stamp)
		if err != nil {
			return storage.Result{}, &storage.PersistError{Kind: Kind, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.Result{}, &storage.PersistError{Kind: Kind, Err: err}
	}

	return storage.Result{Kind: Kind, Location: a.path}, nil
}

// RecentArticles returns up to limit raw articles, newest insert first.
func (a *Adapter) RecentArticles(ctx context.Context, limit int) ([]article.RawArticle, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT title, link, source, collected_at FROM raw_articles ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []article.RawArticle
	for rows.Next() {
		var title, link, source, collected string
		if err := rows.Scan(&title, &link, &source, &collected); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, collected)
		if err != nil {
			return nil, err
		}
		out = append(out, article.RawArticle{
			Title:       title,
			Link:        link,
			Source:      article.Source(source),
			CollectedAt: ts,
		})
	}
	return out, rows.Err()
}

// WordFrequencies returns the ranked word list stored for one run.
func (a *Adapter) WordFrequencies(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT word, frequency FROM word_frequency WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var word string
		var freq int
		if err := rows.Scan(&word, &freq); err != nil {
			return nil, err
		}
		out[word] = freq
	}
	return out, rows.Err()
}

// RunCount returns how many distinct runs have been persisted.
func (a *Adapter) RunCount(ctx context.Context) (int, error) {
	var n int
	err := a.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT run_id) FROM raw_articles`).Scan(&n)
	return n, err
}
