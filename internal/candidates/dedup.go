package candidates

import (
	"github.com/Mahesh1735/research-agent-core/internal/helpers"
	"github.com/Mahesh1735/research-agent-core/models"
)

// Deduplicate collapses candidates that share a domain into the first one
// seen, appending later overviews to it with a single space. Output keeps
// first-occurrence order. A candidate whose URL has no parseable domain is
// kept on its own and never merged with anything.
func Deduplicate(in []models.Candidate) []models.Candidate {
	out := make([]models.Candidate, 0, len(in))
	index := make(map[string]int, len(in))
	for _, c := range in {
		domain, err := helpers.Domain(c.URL)
		if err != nil || domain == "" {
			out = append(out, c)
			continue
		}
		if i, ok := index[domain]; ok {
			out[i].Overview += " " + c.Overview
			continue
		}
		index[domain] = len(out)
		out = append(out, models.Candidate{
			Title:      c.Title,
			URL:        c.URL,
			Overview:   c.Overview,
			RawContent: c.RawContent,
		})
	}
	return out
}
