// Package scrape collects news titles from the supported sources.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/cognicore/newslex/pkg/newslex/article"
)

const userAgent = "newslex/1.0"

// Scraper fetches raw article titles for one source.
type Scraper interface {
	Source() article.Source
	Fetch(ctx context.Context) ([]article.RawArticle, error)
}

// Options tunes scraper construction.
type Options struct {
	// Client defaults to an http.Client with a 30s timeout.
	Client *http.Client
	// MaxItems caps how many titles each scraper returns. Non-positive
	// means DefaultMaxItems.
	MaxItems int
}

// DefaultMaxItems bounds a single collection run.
const DefaultMaxItems = 30

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (o Options) maxItems() int {
	if o.MaxItems > 0 {
		return o.MaxItems
	}
	return DefaultMaxItems
}

// New builds the scraper for a source.
func New(source article.Source, opts Options) (Scraper, error) {
	switch source {
	case article.SourceHackerNews:
		return NewHackerNews(opts), nil
	case article.SourceBBC:
		return NewBBC(opts), nil
	case article.SourceG1:
		return NewG1(opts), nil
	case article.SourceFolha:
		return NewFolha(opts), nil
	default:
		return nil, fmt.Errorf("no scraper for source %q", source)
	}
}

// All builds one scraper per supported source, in registry order.
func All(opts Options) []Scraper {
	sources := article.Sources()
	out := make([]Scraper, 0, len(sources))
	for _, s := range sources {
		sc, err := New(s, opts)
		if err != nil {
			continue
		}
		out = append(out, sc)
	}
	return out
}

// fetchDocument GETs a page and parses it for selector queries.
func fetchDocument(ctx context.Context, client *http.Client, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// stripTags flattens an HTML fragment to its text content. Some sources
// embed markup inside title fields.
func stripTags(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return strings.TrimSpace(fragment)
	}

	node, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	return strings.TrimSpace(strings.Join(strings.Fields(b.String()), " "))
}
