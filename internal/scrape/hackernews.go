package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cognicore/newslex/pkg/newslex/article"
)

const hackerNewsAPIBase = "https://hacker-news.firebaseio.com/v0"

// hnItem is the Firebase API item payload; only story fields are used.
type hnItem struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Time  int64  `json:"time"`
}

// HackerNews collects top-story titles from the official Firebase API.
type HackerNews struct {
	client   *http.Client
	apiBase  string
	maxItems int
	// workers bounds concurrent item fetches.
	workers int
}

// NewHackerNews builds the Hacker News scraper.
func NewHackerNews(opts Options) *HackerNews {
	return &HackerNews{
		client:   opts.client(),
		apiBase:  hackerNewsAPIBase,
		maxItems: opts.maxItems(),
		workers:  8,
	}
}

// Source implements Scraper.
func (h *HackerNews) Source() article.Source { return article.SourceHackerNews }

// Fetch lists the top story IDs, then resolves each item concurrently.
// Items that fail or turn out not to be stories are dropped silently; the
// rest keep their front-page order.
func (h *HackerNews) Fetch(ctx context.Context) ([]article.RawArticle, error) {
	ids, err := h.topStories(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) > h.maxItems {
		ids = ids[:h.maxItems]
	}

	items := make([]*hnItem, len(ids))
	sem := make(chan struct{}, h.workers)
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			item, err := h.item(ctx, id)
			if err != nil {
				return
			}
			items[i] = item
		}(i, id)
	}
	wg.Wait()

	collected := time.Now().UTC()
	var out []article.RawArticle
	for _, item := range items {
		if item == nil || item.Type != "story" || item.Title == "" {
			continue
		}
		link := item.URL
		if link == "" {
			// Ask HN and similar text posts have no external URL.
			link = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", item.ID)
		}
		out = append(out, article.RawArticle{
			Title:       item.Title,
			Link:        link,
			Source:      article.SourceHackerNews,
			CollectedAt: collected,
		})
	}
	return out, nil
}

func (h *HackerNews) topStories(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := h.getJSON(ctx, h.apiBase+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("top stories: %w", err)
	}
	return ids, nil
}

func (h *HackerNews) item(ctx context.Context, id int64) (*hnItem, error) {
	var item hnItem
	if err := h.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", h.apiBase, id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (h *HackerNews) getJSON(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
