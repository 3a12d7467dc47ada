package web_fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWebFetcher(t *testing.T) {
	f, err := NewWebFetcher(ChromedpFetcherType, Options{})
	require.NoError(t, err)
	assert.NotNil(t, f)

	_, err = NewWebFetcher(ScraperFetcherType, Options{})
	assert.Error(t, err)

	f, err = NewWebFetcher(ScraperFetcherType, Options{ScraperURL: "http://scraper.local/scrape"})
	require.NoError(t, err)
	assert.NotNil(t, f)

	_, err = NewWebFetcher("curl", Options{})
	assert.Error(t, err)
}
