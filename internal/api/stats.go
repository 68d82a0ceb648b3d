package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"pyball/internal/config"
	"pyball/internal/constants"
	"pyball/internal/domain"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

// StatsClient talks to the upstream stats API that owns all player data.
type StatsClient struct {
	baseURL string
	client  *fasthttp.Client

	statsMu sync.RWMutex
	stats   RequestStats
}

type RequestStats struct {
	Requests  int       `json:"requests"`
	Failures  int       `json:"failures"`
	LastError string    `json:"last_error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewStatsClient(cfg *config.Config) *StatsClient {
	return newStatsClient(cfg.StatsAPIURL, &fasthttp.Client{
		MaxConnsPerHost:     100,
		ReadTimeout:         constants.ExternalAPITimeout,
		WriteTimeout:        constants.ExternalAPITimeout,
		MaxIdleConnDuration: 1 * time.Minute,
	})
}

func newStatsClient(baseURL string, client *fasthttp.Client) *StatsClient {
	return &StatsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		stats:   RequestStats{UpdatedAt: time.Now()},
	}
}

func (c *StatsClient) GetRequestStats() RequestStats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	return c.stats
}

func (c *StatsClient) record(err error) {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()

	c.stats.Requests++
	if err != nil {
		c.stats.Failures++
		c.stats.LastError = err.Error()
	}
	c.stats.UpdatedAt = time.Now()
}

// GetPlayer fetches the result object for an accepted "first last" query.
func (c *StatsClient) GetPlayer(ctx context.Context, query string) (domain.PlayerResult, error) {
	u := fmt.Sprintf("%s/%s/%s", c.baseURL, constants.PlayerQueryPrefix, url.PathEscape(query))
	result, err := doRequest[domain.PlayerResult](ctx, c, u)
	if err != nil {
		return nil, err
	}
	if *result == nil {
		return domain.PlayerResult{}, nil
	}
	return *result, nil
}

// GetPosition fetches every player record for a position. The API keys the
// records by player; they come back in body order.
func (c *StatsClient) GetPosition(ctx context.Context, position string) ([]domain.PlayerStatRecord, error) {
	u := fmt.Sprintf("%s/%s/%s", c.baseURL, constants.PositionQueryPrefix, url.PathEscape(position))
	byPlayer, err := doRequest[PositionResponse](ctx, c, u)
	if err != nil {
		return nil, err
	}
	return byPlayer.Records, nil
}

func doRequest[T any](ctx context.Context, client *StatsClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	var err error
	deadline, ok := ctx.Deadline()
	if ok {
		err = client.client.DoDeadline(req, resp, deadline)
	} else {
		err = client.client.Do(req, resp)
	}
	if err != nil {
		client.record(err)
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		err := fmt.Errorf("stats API error: %d", resp.StatusCode())
		client.record(err)
		return nil, err
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		err = fmt.Errorf("failed to decode stats API response: %w", err)
		client.record(err)
		return nil, err
	}
	client.record(nil)
	return &result, nil
}
