// Package replay loads previously collected titles from JSONL files, so a
// pipeline run can be repeated without touching the network.
package replay

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cognicore/newslex/pkg/newslex/article"
)

// LoadFromJSONL reads one raw article per line. Malformed lines are logged
// and skipped; a file with no valid entries is an error.
func LoadFromJSONL(path string, log *slog.Logger) ([]article.RawArticle, error) {
	if log == nil {
		log = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var items []article.RawArticle
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item article.RawArticle
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			log.Warn("skipping malformed line", "file", path, "line", i+1, "error", err)
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid articles found in %s", path)
	}
	return items, nil
}
