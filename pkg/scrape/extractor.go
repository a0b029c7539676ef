// Package scrape pulls human-readable marketing text out of a website for
// reuse in completion prompts. Scraping is best-effort enrichment: every
// failure degrades to an empty result, never an error.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// MinFragmentLen filters out navigation and boilerplate snippets.
	MinFragmentLen = 30
	// MaxFragments bounds the excerpt so one page cannot starve the prompt budget.
	MaxFragments = 30
	// maxKeywords bounds the keyword list taken from the title and headings.
	maxKeywords = 10

	defaultTimeout = 10 * time.Second
	userAgent      = "pitchmail/1.0 (+https://github.com/reelforge/pitchmail)"
)

// Result is what an extraction pass produced. Err carries a short diagnostic
// when the fetch or parse failed; Summary and Keywords are then empty. The
// caller can always concatenate Summary into a prompt without nil checks.
type Result struct {
	Summary  string
	Keywords []string
	Err      string
}

// Empty reports whether the pass produced no usable content.
func (r Result) Empty() bool {
	return r.Summary == "" && len(r.Keywords) == 0
}

// Extractor fetches a page and distills it into a bounded text excerpt.
type Extractor struct {
	client *http.Client
}

// Option configures the extractor.
type Option func(*Extractor)

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.client.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) {
		e.client = c
	}
}

// NewExtractor creates an extractor with a bounded-timeout client.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches url and collects heading, paragraph, list and
// meta-description text in document order. An empty url returns a zero Result
// without any network call. Fetch and parse failures are reported through
// Result.Err, never as an error.
func (e *Extractor) Extract(ctx context.Context, url string) Result {
	url = strings.TrimSpace(url)
	if url == "" {
		return Result{}
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Err: fmt.Sprintf("invalid url: %v", err)}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := e.client.Do(req)
	if err != nil {
		return Result{Err: fmt.Sprintf("fetch failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Err: fmt.Sprintf("fetch failed: status %d", resp.StatusCode)}
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return Result{Err: fmt.Sprintf("not an HTML page: %s", ct)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Result{Err: fmt.Sprintf("parse failed: %v", err)}
	}

	return extractDoc(doc)
}

func extractDoc(doc *goquery.Document) Result {
	// Strip noisy nodes before collecting text.
	doc.Find("script, style, nav, header, footer, aside, noscript").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	var fragments []string
	seen := make(map[string]bool)

	add := func(text string) {
		if len(fragments) >= MaxFragments {
			return
		}
		text = collapseSpace(text)
		if len(text) < MinFragmentLen || seen[text] {
			return
		}
		seen[text] = true
		fragments = append(fragments, text)
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		add(desc)
	}

	doc.Find("h1, h2, h3, h4, p, li").Each(func(_ int, s *goquery.Selection) {
		add(s.Text())
	})

	var keywords []string
	if title := collapseSpace(doc.Find("title").First().Text()); title != "" {
		keywords = append(keywords, title)
	}
	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if len(keywords) >= maxKeywords {
			return
		}
		text := collapseSpace(s.Text())
		if text != "" && len(text) <= 80 {
			keywords = append(keywords, text)
		}
	})

	return Result{
		Summary:  strings.Join(fragments, "\n\n"),
		Keywords: keywords,
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
