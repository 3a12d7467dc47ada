package web_fetch

import (
	"context"
	"net/http"
	"time"

	"github.com/Mahesh1735/research-agent-core/tools/web_fetch/chromedp"
	"github.com/Mahesh1735/research-agent-core/tools/web_fetch/models"
	"github.com/Mahesh1735/research-agent-core/tools/web_fetch/scraper"
)

const (
	DefaultTimeout  = 15 * time.Second
	MaxCharsDefault = 20000
)

// WebFetcher returns readable page text for each url, in input order.
// Pages that cannot be fetched come back with a non-200 Status.
type WebFetcher interface {
	Exec(ctx context.Context, urls []string) ([]models.Result, error)
}

type FetcherType string

const (
	ChromedpFetcherType FetcherType = "chromedp"
	ScraperFetcherType  FetcherType = "scraper"
)

type Error struct{ msg string }

func (e *Error) Error() string { return "web_fetch: " + e.msg }

type Options struct {
	Timeout    time.Duration
	MaxChars   int
	ScraperURL string
}

func NewWebFetcher(fetcherType FetcherType, opts Options) (WebFetcher, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = MaxCharsDefault
	}

	switch fetcherType {
	case ChromedpFetcherType:
		return &chromedp.Fetch{Timeout: opts.Timeout, MaxChars: opts.MaxChars}, nil
	case ScraperFetcherType:
		if opts.ScraperURL == "" {
			return nil, &Error{"scraper url is required"}
		}
		return &scraper.Client{ServiceURL: opts.ScraperURL, MaxChars: opts.MaxChars, HTTPClient: &http.Client{Timeout: opts.Timeout}}, nil
	default:
		return nil, &Error{"unsupported fetcher type"}
	}
}
