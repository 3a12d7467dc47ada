package candidates

import (
	"context"

	"go.uber.org/zap"

	"github.com/Mahesh1735/research-agent-core/models"
	"github.com/Mahesh1735/research-agent-core/tools/web_fetch"
)

// FetchEnricher fills RawContent for candidates the search left without it.
type FetchEnricher struct {
	Fetcher web_fetch.WebFetcher
	Logger  *zap.Logger
}

func (e FetchEnricher) Enrich(ctx context.Context, list []models.Candidate) []models.Candidate {
	var (
		urls []string
		idx  []int
	)
	for i, c := range list {
		if c.RawContent == "" {
			urls = append(urls, c.URL)
			idx = append(idx, i)
		}
	}
	if len(urls) == 0 || e.Fetcher == nil {
		return list
	}
	pages, err := e.Fetcher.Exec(ctx, urls)
	if err != nil {
		if e.Logger != nil {
			e.Logger.Warn("page fetch failed, continuing without raw content", zap.Error(err))
		}
	}
	for n, page := range pages {
		if n >= len(idx) {
			break
		}
		if page.OK() {
			list[idx[n]].RawContent = page.Text
		}
	}
	return list
}
