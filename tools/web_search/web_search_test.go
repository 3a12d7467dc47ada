package web_search_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahesh1735/research-agent-core/tools/web_search"
)

func TestNewWebSearcherValidation(t *testing.T) {
	_, err := web_search.NewWebSearcher(web_search.TavilyProvider, web_search.Options{})
	assert.ErrorIs(t, err, web_search.ErrMissingAPIKey)

	_, err = web_search.NewWebSearcher("bing", web_search.Options{APIKey: "k"})
	assert.ErrorIs(t, err, web_search.ErrUnsupportedProvider)
}

func TestTavilyDiscover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tvly-key", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "project management tool", body["query"])
		assert.Equal(t, float64(2), body["max_results"])
		assert.Equal(t, true, body["include_raw_content"])
		_, _ = w.Write([]byte(`{"results":[
			{"title":"Linear","url":"https://linear.app","content":"Issue tracking","raw_content":"Linear is..."},
			{"title":"Jira","url":"https://www.atlassian.com/software/jira","content":"Plan and track","raw_content":null},
			{"title":"Extra","url":"https://extra.io","content":"ignored"}
		]}`))
	}))
	defer srv.Close()

	s, err := web_search.NewWebSearcher(web_search.TavilyProvider, web_search.Options{APIKey: "tvly-key", Endpoint: srv.URL, IncludeRawContent: true})
	require.NoError(t, err)
	got, err := s.Discover(context.Background(), "project management tool", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Linear", got[0].Title)
	assert.Equal(t, "Issue tracking", got[0].Snippet)
	assert.Equal(t, "Linear is...", got[0].RawContent)
	assert.Empty(t, got[1].RawContent)
}

func TestSerperDiscover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "serper-key", r.Header.Get("X-API-KEY"))
		_, _ = w.Write([]byte(`{"organic":[{"title":"Notion","link":"https://notion.so","snippet":"All-in-one workspace"}]}`))
	}))
	defer srv.Close()

	s, err := web_search.NewWebSearcher(web_search.SerperProvider, web_search.Options{APIKey: "serper-key", Endpoint: srv.URL})
	require.NoError(t, err)
	got, err := s.Discover(context.Background(), "notes app", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://notion.so", got[0].URL)
	assert.Equal(t, "All-in-one workspace", got[0].Snippet)
}

func TestBraveDiscover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "brave-key", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "crm for startups", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("count"))
		_, _ = w.Write([]byte(`{"web":{"results":[{"title":"HubSpot","url":"https://hubspot.com","description":"Free CRM"}]}}`))
	}))
	defer srv.Close()

	s, err := web_search.NewWebSearcher(web_search.BraveProvider, web_search.Options{APIKey: "brave-key", Endpoint: srv.URL})
	require.NoError(t, err)
	got, err := s.Discover(context.Background(), "crm for startups", 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Free CRM", got[0].Snippet)
}

func TestDiscoverNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	for _, p := range []web_search.Provider{web_search.TavilyProvider, web_search.SerperProvider, web_search.BraveProvider} {
		s, err := web_search.NewWebSearcher(p, web_search.Options{APIKey: "k", Endpoint: srv.URL})
		require.NoError(t, err)
		_, err = s.Discover(context.Background(), "q", 1)
		assert.Error(t, err, string(p))
	}
}
