package rawg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gamecatalog/internal/config"
	"gamecatalog/internal/retry"
)

// Client issues paginated requests against the RAWG API. One client is
// constructed per process run and passed into the passes that need it.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	pageSize   int
	pageDelay  time.Duration
	retry      retry.Policy
}

func NewClient(cfg config.RAWGConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		pageSize:   cfg.PageSize,
		pageDelay:  cfg.PageDelay,
		retry: retry.Policy{
			MaxAttempts: cfg.MaxAttempts,
			Delay:       cfg.RetryDelay,
			Backoff:     2.0,
		},
	}
}

// pageResponse is the envelope of one /games listing page.
type pageResponse struct {
	Count   int64             `json:"count"`
	Next    string            `json:"next"`
	Results []json.RawMessage `json:"results"`
}

// FetchStats summarizes one bulk fetch pass.
type FetchStats struct {
	Pages   int
	Records int
	Elapsed time.Duration
}

// FetchAllGames walks the /games listing from page 1 until the API stops
// advertising a next page and returns the union of all result records in
// order. A malformed page body degrades to an empty page; with no next
// cursor to follow, that also ends the pass.
func (c *Client) FetchAllGames(ctx context.Context, datesFrom string) ([]json.RawMessage, *FetchStats, error) {
	startTime := time.Now()
	dates := fmt.Sprintf("%s,%s", datesFrom, time.Now().Format("2006-01-02"))

	var allResults []json.RawMessage
	page := 1
	for {
		body, err := c.getWithRetry(ctx, c.listURL(dates, page))
		if err != nil {
			log.Printf("Page %d failed after retries, stopping pagination: %v", page, err)
			break
		}

		log.Printf("Getting data from page: %d", page)

		var data pageResponse
		if err := json.Unmarshal(body, &data); err != nil {
			log.Printf("Response was not valid JSON, treating page %d as empty: %v", page, err)
			data = pageResponse{}
		}

		allResults = append(allResults, data.Results...)

		if data.Count > 0 {
			log.Printf("Total games for this query: %d, remaining: %d", data.Count, data.Count-int64(len(allResults)))
		}

		if data.Next == "" {
			break
		}
		page++

		select {
		case <-ctx.Done():
			return allResults, nil, ctx.Err()
		case <-time.After(c.pageDelay):
		}
	}

	stats := &FetchStats{
		Pages:   page,
		Records: len(allResults),
		Elapsed: time.Since(startTime),
	}
	return allResults, stats, nil
}

// FetchGameDetail fetches the detail record for a single game id. The detail
// endpoint has no batch form, so callers loop over ids one at a time.
func (c *Client) FetchGameDetail(ctx context.Context, gameID int64) ([]byte, error) {
	u := fmt.Sprintf("%s/games/%d?key=%s", c.baseURL, gameID, url.QueryEscape(c.apiKey))

	body, err := c.getWithRetry(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch detail for game %d: %w", gameID, err)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("detail response for game %d is not valid JSON", gameID)
	}

	return body, nil
}

func (c *Client) listURL(dates string, page int) string {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("page_size", strconv.Itoa(c.pageSize))
	params.Set("dates", dates)
	params.Set("page", strconv.Itoa(page))
	return fmt.Sprintf("%s/games?%s", c.baseURL, params.Encode())
}

func (c *Client) getWithRetry(ctx context.Context, u string) ([]byte, error) {
	var body []byte
	err := c.retry.Do(ctx, func() error {
		var opErr error
		body, opErr = c.doGET(ctx, u)
		return opErr
	})
	return body, err
}

func (c *Client) doGET(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return body, nil
}
