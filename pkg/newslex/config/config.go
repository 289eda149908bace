// Package config loads pipeline configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/newslex/pkg/newslex/article"
	"github.com/cognicore/newslex/pkg/newslex/internalerr"
)

// KnownStorageKinds lists every adapter kind a config may name.
var KnownStorageKinds = []string{"sqlite", "csv", "parquet", "json"}

// Config holds everything tunable about a pipeline run.
type Config struct {
	// DataDir is the root for file-based artifacts (csv, parquet, json).
	DataDir string `yaml:"data_dir"`

	// SQLitePath is the database file. Empty means <data_dir>/newslex.db.
	SQLitePath string `yaml:"sqlite_path"`

	// Sources lists the source names to collect from. "all" expands to
	// every known source.
	Sources []string `yaml:"sources"`

	// Storage lists the adapter kinds to write to. "all" expands to every
	// known kind.
	Storage []string `yaml:"storage"`

	// TopWords limits the ranked frequency list per run.
	TopWords int `yaml:"top_words"`

	// KeepDigits retains numeric characters during tokenization.
	KeepDigits bool `yaml:"keep_digits"`

	// MinTokenLength discards shorter tokens. Zero keeps the default.
	MinTokenLength int `yaml:"min_token_length"`

	// CustomStopwords extends the standard list per language
	// ("english", "portuguese").
	CustomStopwords map[string][]string `yaml:"custom_stopwords"`

	// TimeoutSeconds bounds each source fetch.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// MaxItems caps how many titles are collected per source.
	MaxItems int `yaml:"max_items"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DataDir:        "data",
		Sources:        []string{"all"},
		Storage:        []string{"all"},
		TopWords:       20,
		TimeoutSeconds: 30,
		MaxItems:       30,
	}
}

// Load reads a YAML config file and fills unset fields from Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	for _, name := range c.Sources {
		if strings.EqualFold(name, "all") {
			continue
		}
		if _, err := article.ParseSource(name); err != nil {
			return fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
		}
	}
	for _, kind := range c.Storage {
		if kind == "all" {
			continue
		}
		if !knownKind(kind) {
			return fmt.Errorf("%w: unknown storage kind %q", internalerr.ErrInvalidConfig, kind)
		}
	}
	if c.TopWords < 0 {
		return fmt.Errorf("%w: top_words must not be negative", internalerr.ErrInvalidConfig)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: timeout_seconds must not be negative", internalerr.ErrInvalidConfig)
	}
	return nil
}

func knownKind(kind string) bool {
	for _, k := range KnownStorageKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// StorageKinds resolves the configured storage list, expanding "all" and
// dropping duplicates while keeping order.
func (c Config) StorageKinds() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(kind string) {
		if !seen[kind] {
			seen[kind] = true
			out = append(out, kind)
		}
	}

	for _, kind := range c.Storage {
		if strings.EqualFold(kind, "all") {
			for _, k := range KnownStorageKinds {
				add(k)
			}
			continue
		}
		add(kind)
	}
	return out
}

// SourceList resolves the configured sources, expanding "all" and dropping
// duplicates while keeping order. Unknown names were rejected at load time.
func (c Config) SourceList() []article.Source {
	var out []article.Source
	seen := make(map[article.Source]bool)
	add := func(s article.Source) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, name := range c.Sources {
		if strings.EqualFold(name, "all") {
			for _, s := range article.Sources() {
				add(s)
			}
			continue
		}
		if s, err := article.ParseSource(name); err == nil {
			add(s)
		}
	}
	return out
}

// SQLiteFile returns the configured database path, defaulting under DataDir.
func (c Config) SQLiteFile() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return c.DataDir + string(os.PathSeparator) + "newslex.db"
}
