package candidates

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahesh1735/research-agent-core/models"
	fetchmodels "github.com/Mahesh1735/research-agent-core/tools/web_fetch/models"
)

type fakeSearch struct {
	results []models.Result
	err     error
	queries []string
	k       int
}

func (f *fakeSearch) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	f.queries = append(f.queries, q)
	f.k = k
	return f.results, f.err
}

type fakeRanker struct {
	scores []float64
	err    error
	urls   []string
}

func (f *fakeRanker) Ranks(ctx context.Context, urls []string) ([]float64, error) {
	f.urls = urls
	return f.scores, f.err
}

type fakeFetcher struct {
	pages []fetchmodels.Result
	err   error
	urls  []string
}

func (f *fakeFetcher) Exec(ctx context.Context, urls []string) ([]fetchmodels.Result, error) {
	f.urls = urls
	return f.pages, f.err
}

func searchResults() []models.Result {
	return []models.Result{
		{Title: "Trello", URL: "https://trello.com/?utm_source=ads", Snippet: "Boards"},
		{Title: "Asana", URL: "https://asana.com", Snippet: "<b>Work</b> management"},
		{Title: "Trello templates", URL: "https://trello.com/templates", Snippet: "Templates"},
		{Title: "Monday", URL: "https://monday.com", Snippet: "Work OS"},
		{Title: "Basecamp", URL: "https://basecamp.com", Snippet: "Projects"},
	}
}

func TestPipelineFindRanksAndSorts(t *testing.T) {
	search := &fakeSearch{results: searchResults()}
	ranker := &fakeRanker{scores: []float64{0.5, 0.8, 0.8, 0.2}}
	p := NewPipeline(search, ranker, WithMaxResults(7))

	got, err := p.Find(context.Background(), "  kanban tool  ")
	require.NoError(t, err)

	assert.Equal(t, []string{"kanban tool"}, search.queries)
	assert.Equal(t, 7, search.k)
	assert.Equal(t, []string{"https://trello.com/", "https://asana.com/", "https://monday.com/", "https://basecamp.com/"}, ranker.urls)

	require.Len(t, got, 4)
	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Score > got[j].Score }))
	// equal scores keep dedup order
	assert.Equal(t, []string{"Asana", "Monday", "Trello", "Basecamp"}, titles(got))
	assert.Equal(t, "Work management", got[0].Overview)
	assert.Equal(t, "Boards Templates", got[2].Overview)
}

func TestPipelineFindWithoutRanking(t *testing.T) {
	search := &fakeSearch{results: searchResults()}
	p := NewPipeline(search, &fakeRanker{scores: []float64{}})

	got, err := p.Find(context.Background(), "kanban tool")
	require.NoError(t, err)
	assert.Equal(t, []string{"Trello", "Asana", "Monday", "Basecamp"}, titles(got))
	for _, c := range got {
		assert.Zero(t, c.Score)
	}
}

func TestPipelineFindRankerError(t *testing.T) {
	p := NewPipeline(&fakeSearch{results: searchResults()}, &fakeRanker{err: errors.New("down")})
	got, err := p.Find(context.Background(), "kanban tool")
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestPipelineFindSearchError(t *testing.T) {
	p := NewPipeline(&fakeSearch{err: errors.New("quota")}, &fakeRanker{})
	_, err := p.Find(context.Background(), "kanban tool")
	assert.EqualError(t, err, "quota")
}

func TestPipelineFindBlankQuery(t *testing.T) {
	search := &fakeSearch{}
	got, err := NewPipeline(search, nil).Find(context.Background(), "   ")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, search.queries)
}

func TestPipelineEnrichesMissingContent(t *testing.T) {
	search := &fakeSearch{results: []models.Result{
		{Title: "A", URL: "https://a.com", Snippet: "a", RawContent: "already"},
		{Title: "B", URL: "https://b.com", Snippet: "b"},
		{Title: "C", URL: "https://c.com", Snippet: "c"},
	}}
	fetcher := &fakeFetcher{pages: []fetchmodels.Result{
		{URL: "https://b.com/", Text: "b page", Status: 200},
		{URL: "https://c.com/", Status: 504},
	}}
	p := NewPipeline(search, nil, WithEnricher(FetchEnricher{Fetcher: fetcher}))

	got, err := p.Find(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://b.com/", "https://c.com/"}, fetcher.urls)
	assert.Equal(t, "already", got[0].RawContent)
	assert.Equal(t, "b page", got[1].RawContent)
	assert.Empty(t, got[2].RawContent)
}

func TestFetchEnricherToleratesErrors(t *testing.T) {
	list := []models.Candidate{{Title: "A", URL: "https://a.com"}}
	got := FetchEnricher{Fetcher: &fakeFetcher{err: errors.New("chrome missing")}}.Enrich(context.Background(), list)
	assert.Equal(t, list, got)
}

func titles(list models.CandidateList) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Title
	}
	return out
}
