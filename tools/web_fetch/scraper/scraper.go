package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Mahesh1735/research-agent-core/internal/helpers"
	"github.com/Mahesh1735/research-agent-core/tools/web_fetch/models"
	"github.com/Mahesh1735/research-agent-core/utils"
)

// Client talks to an external scraping service that accepts a batch of
// URLs and answers with their text.
type Client struct {
	ServiceURL string
	MaxChars   int
	HTTPClient *http.Client
}

type request struct {
	URLs       []string `json:"urls"`
	WithTavily bool     `json:"with_tavily"`
}

type response struct {
	Results []struct {
		URL        string `json:"url"`
		Title      string `json:"title"`
		Content    string `json:"content"`
		RawContent string `json:"raw_content"`
	} `json:"results"`
}

func (c *Client) Exec(ctx context.Context, urls []string) ([]models.Result, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	t0 := time.Now()
	body, err := json.Marshal(request{URLs: urls, WithTavily: false})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ServiceURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("scrape: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	var raw response
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("scrape: decode: %w", err)
	}

	byURL := make(map[string]models.Result, len(raw.Results))
	ms := int(time.Since(t0) / time.Millisecond)
	for _, r := range raw.Results {
		text := r.RawContent
		if text == "" {
			text = r.Content
		}
		byURL[matchKey(r.URL)] = models.Result{
			URL:      r.URL,
			Title:    strings.TrimSpace(r.Title),
			Text:     utils.Truncate(strings.TrimSpace(text), c.MaxChars),
			Status:   200,
			RenderMS: ms,
		}
	}
	out := make([]models.Result, len(urls))
	for i, u := range urls {
		res, ok := byURL[matchKey(u)]
		if !ok {
			res = models.Result{URL: u, Status: 404, RenderMS: ms}
		}
		res.URL = u
		out[i] = res
	}
	return out, nil
}

// matchKey compares requested and echoed URLs after canonicalisation, ignoring
// a trailing slash on the path.
func matchKey(raw string) string {
	u, err := helpers.CanonicalURL(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	if !strings.Contains(u, "?") {
		u = strings.TrimSuffix(u, "/")
	}
	return u
}
