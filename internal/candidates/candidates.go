package candidates

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Mahesh1735/research-agent-core/internal/helpers"
	"github.com/Mahesh1735/research-agent-core/internal/telemetry"
	"github.com/Mahesh1735/research-agent-core/models"
)

// ProductSearch finds raw product hits for a web query.
type ProductSearch interface {
	Discover(ctx context.Context, q string, k int) ([]models.Result, error)
}

// Ranker scores urls; an empty result means ranking is unavailable.
type Ranker interface {
	Ranks(ctx context.Context, urls []string) ([]float64, error)
}

// Enricher may attach page content to candidates. It must not fail the search.
type Enricher interface {
	Enrich(ctx context.Context, list []models.Candidate) []models.Candidate
}

const DefaultMaxResults = 10

// Pipeline turns a search query into a ranked, deduplicated candidate list.
type Pipeline struct {
	search     ProductSearch
	ranker     Ranker
	enricher   Enricher
	maxResults int
	logger     *zap.Logger
	metrics    *telemetry.Metrics
}

type Option func(*Pipeline)

func WithEnricher(e Enricher) Option { return func(p *Pipeline) { p.enricher = e } }

func WithMaxResults(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxResults = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithMetrics(m *telemetry.Metrics) Option { return func(p *Pipeline) { p.metrics = m } }

func NewPipeline(search ProductSearch, ranker Ranker, opts ...Option) *Pipeline {
	p := &Pipeline{search: search, ranker: ranker, maxResults: DefaultMaxResults, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Find searches, deduplicates, ranks and sorts. A blank query yields an
// empty list without searching. Search errors are returned; ranking
// failures leave every score at 0 and keep dedup order.
func (p *Pipeline) Find(ctx context.Context, query string) (models.CandidateList, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.CandidateList{}, nil
	}
	log := p.logger.With(zap.String("query", query))

	done := p.metrics.TimeCall("product_search")
	results, err := p.search.Discover(ctx, query, p.maxResults)
	done(err)
	if err != nil {
		return nil, err
	}

	list := Deduplicate(fromResults(results))
	if p.enricher != nil {
		list = p.enricher.Enrich(ctx, list)
	}

	urls := make([]string, len(list))
	for i, c := range list {
		urls[i] = c.URL
	}
	var scores []float64
	if p.ranker != nil && len(urls) > 0 {
		done = p.metrics.TimeCall("page_rank")
		scores, err = p.ranker.Ranks(ctx, urls)
		done(err)
		if err != nil {
			// only reachable when the ranker is not retry-wrapped
			log.Warn("ranking failed", zap.Error(err))
			scores = nil
		}
	}
	if len(scores) == len(list) {
		for i := range list {
			list[i].Score = scores[i]
		}
	} else if len(list) > 0 {
		log.Info("ranking unavailable, keeping search order", zap.Int("scores", len(scores)), zap.Int("candidates", len(list)))
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].Score > list[j].Score })

	log.Debug("candidates found", zap.Int("results", len(results)), zap.Int("candidates", len(list)))
	p.metrics.ObserveCandidates(len(list))
	return models.CandidateList(list), nil
}

func fromResults(results []models.Result) []models.Candidate {
	out := make([]models.Candidate, 0, len(results))
	for _, r := range results {
		u := strings.TrimSpace(r.URL)
		if canonical, err := helpers.CanonicalURL(u); err == nil {
			u = canonical
		}
		out = append(out, models.Candidate{
			Title:      helpers.CleanText(r.Title),
			URL:        u,
			Overview:   helpers.CleanText(r.Snippet),
			RawContent: r.RawContent,
		})
	}
	return out
}
