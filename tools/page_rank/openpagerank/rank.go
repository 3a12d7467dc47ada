package openpagerank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Mahesh1735/research-agent-core/internal/helpers"
)

const (
	defaultEndpoint = "https://openpagerank.com/api/v1.0/getPageRank"
	defaultTimeout  = 10 * time.Second
	// MaxRank is the top of the service's page_rank_decimal scale.
	MaxRank = 10.0
)

// Client queries Open PageRank in a single batched request per call.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewClient(apiKey, endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{apiKey: apiKey, endpoint: endpoint, httpClient: &http.Client{Timeout: timeout}}
}

// Normalize maps a page_rank_decimal onto (0,1]: (rank+1)/11.
func Normalize(rank float64) float64 {
	return (rank + 1) / (MaxRank + 1)
}

type response struct {
	StatusCode int `json:"status_code"`
	Response   []struct {
		StatusCode      int             `json:"status_code"`
		Domain          string          `json:"domain"`
		PageRankDecimal json.RawMessage `json:"page_rank_decimal"`
	} `json:"response"`
}

// Ranks returns one normalized score per url. Domains the service does not
// know score 0. Any transport error, non-200 status or a response whose
// length differs from the request is an error.
func (c *Client) Ranks(ctx context.Context, urls []string) ([]float64, error) {
	if len(urls) == 0 {
		return []float64{}, nil
	}
	params := url.Values{}
	for _, u := range urls {
		domain, err := helpers.Domain(u)
		if err != nil {
			domain = strings.TrimSpace(u)
		}
		params.Add("domains[]", domain)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("API-OPR", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page ranks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("error fetching page ranks: %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode page ranks: %w", err)
	}
	if len(body.Response) != len(urls) {
		return nil, fmt.Errorf("page rank response has %d entries for %d domains", len(body.Response), len(urls))
	}

	scores := make([]float64, len(body.Response))
	for i, item := range body.Response {
		rank, ok := parseRank(item.PageRankDecimal)
		if !ok {
			continue
		}
		scores[i] = Normalize(rank)
	}
	return scores, nil
}

// parseRank accepts the decimal as a JSON number or numeric string; the
// service sends "" for unknown domains.
func parseRank(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
