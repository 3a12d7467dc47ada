package agent

import (
	"context"
	"strings"

	"github.com/Mahesh1735/research-agent-core/models"
)

const DefaultExpertResults = 2

// Searcher is the web search backing the expert capability.
type Searcher interface {
	Discover(ctx context.Context, q string, k int) ([]models.Result, error)
}

// Expert answers knowledge lookups with web search snippets.
type Expert struct {
	Search     Searcher
	MaxResults int
}

func (e Expert) Lookup(ctx context.Context, query string) ([]string, error) {
	k := e.MaxResults
	if k <= 0 {
		k = DefaultExpertResults
	}
	results, err := e.Search.Discover(ctx, query, k)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(results))
	for _, r := range results {
		if s := strings.TrimSpace(r.Snippet); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
