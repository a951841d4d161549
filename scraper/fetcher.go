// Package scraper extracts announcement entries from the exams dashboard page.
package scraper

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// DefaultSelector matches the anchor inside each announcement list item on
// the dashboard page.
const DefaultSelector = "li.news-item a"

// Entry is one scraped (text, url) pair. It carries no identity of its own
// and lives only for the duration of a single reconciliation pass.
type Entry struct {
	Text string
	URL  string
}

type Fetcher struct {
	client   *http.Client
	pageURL  string
	baseURL  string
	selector string
	log      zerolog.Logger
}

func NewFetcher(pageURL, baseURL, selector string, timeout time.Duration, log zerolog.Logger) *Fetcher {
	if selector == "" {
		selector = DefaultSelector
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		pageURL:  pageURL,
		baseURL:  baseURL,
		selector: selector,
		log:      log,
	}
}

// Fetch retrieves the dashboard page and returns the announcements found on
// it. A non-200 response yields an empty list, not an error; the scrape pass
// simply becomes a no-op.
func (f *Fetcher) Fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.pageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.log.Warn().Int("status", resp.StatusCode).Str("url", f.pageURL).Msg("announcement page returned non-200, skipping pass")
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	doc.Find(f.selector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		entries = append(entries, Entry{Text: text, URL: Normalize(f.baseURL, href)})
	})
	return entries, nil
}
