package page_rank

import (
	"context"
	"errors"
	"time"

	"github.com/Mahesh1735/research-agent-core/tools/page_rank/openpagerank"
	"github.com/Mahesh1735/research-agent-core/utils"
)

// Ranker scores URLs by the popularity of their domain. The result has the
// same length and order as urls, each score in [0,1].
type Ranker interface {
	Ranks(ctx context.Context, urls []string) ([]float64, error)
}

// RankerFunc adapts a function to Ranker.
type RankerFunc func(ctx context.Context, urls []string) ([]float64, error)

func (f RankerFunc) Ranks(ctx context.Context, urls []string) ([]float64, error) { return f(ctx, urls) }

type Provider string

const OpenPageRankProvider Provider = "openpagerank"

var ErrUnsupportedProvider = errors.New("page_rank: unsupported provider")

type Options struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

func NewRanker(provider Provider, opts Options) (Ranker, error) {
	switch provider {
	case OpenPageRankProvider, "":
		return openpagerank.NewClient(opts.APIKey, opts.Endpoint, opts.Timeout), nil
	default:
		return nil, ErrUnsupportedProvider
	}
}

// WithRetry wraps r so failures are retried and, once exhausted, degrade to
// policy.Default (an empty slice for ranking).
func WithRetry(r Ranker, policy utils.RetryPolicy[[]float64], observers ...utils.RetryObserver) Ranker {
	return RankerFunc(utils.Retry("page_rank", r.Ranks, policy, observers...))
}
