package web_search

import (
	"context"
	"net/http"
	"time"

	"github.com/Mahesh1735/research-agent-core/models"
	"github.com/Mahesh1735/research-agent-core/tools/web_search/brave"
	"github.com/Mahesh1735/research-agent-core/tools/web_search/serper"
	"github.com/Mahesh1735/research-agent-core/tools/web_search/tavily"
)

// WebSearcher runs a web query and returns at most k hits.
type WebSearcher interface {
	Discover(ctx context.Context, q string, k int) ([]models.Result, error)
}

type Provider string

const (
	TavilyProvider Provider = "tavily"
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

const DefaultTimeout = 20 * time.Second

type Error struct{ msg string }

func (e *Error) Error() string { return "web_search: " + e.msg }

var (
	ErrUnsupportedProvider = &Error{"unsupported provider"}
	ErrMissingAPIKey       = &Error{"api key is required"}
)

// Options configures a provider. Endpoint is only overridden in tests.
type Options struct {
	APIKey            string
	Endpoint          string
	Timeout           time.Duration
	IncludeRawContent bool
}

func NewWebSearcher(provider Provider, opts Options) (WebSearcher, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	client := &http.Client{Timeout: opts.Timeout}
	switch provider {
	case TavilyProvider:
		return tavily.Search{ApiKey: opts.APIKey, Endpoint: opts.Endpoint, Client: client, IncludeRawContent: opts.IncludeRawContent}, nil
	case SerperProvider:
		return serper.Search{ApiKey: opts.APIKey, Endpoint: opts.Endpoint, Client: client}, nil
	case BraveProvider:
		return brave.Search{ApiKey: opts.APIKey, Endpoint: opts.Endpoint, Client: client}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
