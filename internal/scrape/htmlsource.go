package scrape

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/cognicore/newslex/pkg/newslex/article"
)

// htmlSource is the shared shape of the selector-driven scrapers: fetch one
// page, run a CSS selector, take the text as title and the href as link.
type htmlSource struct {
	source   article.Source
	pageURL  string
	selector string
	client   *http.Client
	maxItems int
}

func (s *htmlSource) Source() article.Source { return s.source }

// Fetch scrapes the front page. Entries without a resolvable title or link
// are dropped; duplicates (the same link listed twice) keep their first
// occurrence.
func (s *htmlSource) Fetch(ctx context.Context) ([]article.RawArticle, error) {
	doc, err := fetchDocument(ctx, s.client, s.pageURL)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(s.pageURL)
	if err != nil {
		return nil, err
	}

	collected := time.Now().UTC()
	seen := make(map[string]struct{})
	var out []article.RawArticle

	doc.Find(s.selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(out) >= s.maxItems {
			return false
		}

		title := stripTags(sel.Text())
		link := resolveLink(base, sel)
		if title == "" || link == "" {
			return true
		}
		if _, dup := seen[link]; dup {
			return true
		}
		seen[link] = struct{}{}

		out = append(out, article.RawArticle{
			Title:       title,
			Link:        link,
			Source:      s.source,
			CollectedAt: collected,
		})
		return true
	})

	return out, nil
}

// resolveLink finds the href on the selection itself or its nearest anchor,
// resolved against the page URL.
func resolveLink(base *url.URL, sel *goquery.Selection) string {
	href, ok := sel.Attr("href")
	if !ok {
		href, ok = sel.Find("a").First().Attr("href")
	}
	if !ok {
		href, ok = sel.Closest("a").Attr("href")
	}
	if !ok || strings.TrimSpace(href) == "" {
		return ""
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// NewBBC scrapes headline cards from the BBC News front page.
func NewBBC(opts Options) Scraper {
	return &htmlSource{
		source:   article.SourceBBC,
		pageURL:  "https://www.bbc.com/news",
		selector: "h2[data-testid]",
		client:   opts.client(),
		maxItems: opts.maxItems(),
	}
}

// NewG1 scrapes feed post links from the G1 front page.
func NewG1(opts Options) Scraper {
	return &htmlSource{
		source:   article.SourceG1,
		pageURL:  "https://g1.globo.com",
		selector: "a.feed-post-link",
		client:   opts.client(),
		maxItems: opts.maxItems(),
	}
}

// NewFolha scrapes headline links from the Folha de S.Paulo front page.
func NewFolha(opts Options) Scraper {
	return &htmlSource{
		source:   article.SourceFolha,
		pageURL:  "https://www.folha.uol.com.br",
		selector: "a.c-headline__url",
		client:   opts.client(),
		maxItems: opts.maxItems(),
	}
}
