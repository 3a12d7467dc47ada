package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Mahesh1735/research-agent-core/models"
)

const defaultEndpoint = "https://api.tavily.com/search"

type Search struct {
	ApiKey            string
	Endpoint          string
	Client            *http.Client
	IncludeRawContent bool
}

func (s Search) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	// https://docs.tavily.com/documentation/api-reference/endpoint/search
	payload := map[string]any{
		"query":               q,
		"max_results":         k,
		"search_depth":        "basic",
		"include_raw_content": s.IncludeRawContent,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tavily search: %s: %s", resp.Status, bytes.TrimSpace(b))
	}

	var raw struct {
		Results []struct {
			Title      string  `json:"title"`
			URL        string  `json:"url"`
			Content    string  `json:"content"`
			RawContent *string `json:"raw_content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tavily search: decode: %w", err)
	}
	out := make([]models.Result, 0, len(raw.Results))
	for i, r := range raw.Results {
		if k > 0 && i >= k {
			break
		}
		res := models.Result{Title: r.Title, URL: r.URL, Snippet: r.Content}
		if r.RawContent != nil {
			res.RawContent = *r.RawContent
		}
		out = append(out, res)
	}
	return out, nil
}
