package chromedp

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/go-shiori/go-readability"

	"github.com/Mahesh1735/research-agent-core/tools/web_fetch/models"
	"github.com/Mahesh1735/research-agent-core/utils"
)

// Fetch renders pages in headless Chrome and extracts the article text.
type Fetch struct {
	Timeout  time.Duration // per page
	MaxChars int
}

func (f Fetch) Exec(ctx context.Context, urls []string) ([]models.Result, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent("ResearchAgent/1.0"),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()
	if err := chromedp.Run(bctx); err != nil {
		return nil, err
	}

	out := make([]models.Result, 0, len(urls))
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out = append(out, f.page(bctx, u))
	}
	return out, nil
}

func (f Fetch) page(bctx context.Context, raw string) models.Result {
	t0 := time.Now()
	elapsed := func() int { return int(time.Since(t0) / time.Millisecond) }
	if strings.TrimSpace(raw) == "" {
		return models.Result{URL: raw, Status: 400}
	}
	pageURL, err := url.Parse(raw)
	if err != nil {
		return models.Result{URL: raw, Status: 400}
	}

	tctx, cancel := chromedp.NewContext(bctx)
	defer cancel()
	tctx, cancelTimeout := context.WithTimeout(tctx, f.Timeout)
	defer cancelTimeout()

	var html string
	err = chromedp.Run(tctx,
		chromedp.Navigate(raw),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		status := 599
		if errors.Is(err, context.DeadlineExceeded) {
			status = 504
		}
		return models.Result{URL: raw, Status: status, RenderMS: elapsed()}
	}

	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err != nil {
		return models.Result{URL: raw, Status: 422, RenderMS: elapsed()}
	}
	return models.Result{
		URL:      raw,
		Title:    strings.TrimSpace(article.Title),
		Text:     utils.Truncate(strings.TrimSpace(article.TextContent), f.MaxChars),
		Status:   200,
		RenderMS: elapsed(),
	}
}
