// Package marketdata pulls daily OHLCV candles and symbol listings from the
// Finnhub REST API, with a token-bucket rate limit shared across calls.
package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"Condor/internal/domain/models"
	"Condor/internal/service/ratelimit"
	"Condor/pkg/http"
	"Condor/pkg/logger"
)

const (
	defaultBaseURL = "https://finnhub.io/api/v1"
	limiterKey     = "marketdata"
)

// Client implements repository.MarketData and repository.SymbolDirectory.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *ratelimit.Limiter
	log     *logger.Logger

	// token bucket: burst capacity and steady refill per second
	burst  float64
	perSec float64
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithRateLimit sets the burst capacity and refill rate of the limiter.
func WithRateLimit(burst, perSec float64) Option {
	return func(c *Client) { c.burst, c.perSec = burst, perSec }
}

// WithLogger attaches a structured logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a rate-limited market data client.
func New(apiKey string, httpClient *http.Client, limiter *ratelimit.Limiter, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    httpClient,
		limiter: limiter,
		burst:   30,
		perSec:  0.5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type candleResponse struct {
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Close  []float64 `json:"c"`
	Volume []float64 `json:"v"`
	Times  []int64   `json:"t"`
	Status string    `json:"s"`
}

// History fetches daily candles for symbol over [from, to].
func (c *Client) History(ctx context.Context, symbol string, from, to time.Time) (models.PriceHistory, error) {
	if err := c.waitForToken(ctx); err != nil {
		return models.PriceHistory{}, err
	}

	var resp candleResponse
	err := c.http.SendAndParse(ctx, &http.RequestOptions{
		Method: http.MethodGet,
		URL:    c.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {"D"},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(to.Unix(), 10)},
			"token":      {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return models.PriceHistory{}, fmt.Errorf("fetch candles for %s: %w", symbol, err)
	}
	if resp.Status == "no_data" {
		return models.PriceHistory{Symbol: symbol}, nil
	}
	if resp.Status != "ok" {
		return models.PriceHistory{}, fmt.Errorf("candle response for %s: status %q", symbol, resp.Status)
	}

	n := len(resp.Times)
	if len(resp.Close) != n || len(resp.Open) != n || len(resp.High) != n ||
		len(resp.Low) != n || len(resp.Volume) != n {
		return models.PriceHistory{}, fmt.Errorf("candle response for %s: ragged columns", symbol)
	}

	h := models.PriceHistory{Symbol: symbol, Bars: make([]models.PriceBar, n)}
	for i := 0; i < n; i++ {
		h.Bars[i] = models.PriceBar{
			Date:   time.Unix(resp.Times[i], 0).UTC(),
			Open:   resp.Open[i],
			High:   resp.High[i],
			Low:    resp.Low[i],
			Close:  resp.Close[i],
			Volume: resp.Volume[i],
		}
	}
	if c.log != nil {
		c.log.Debug("fetched daily candles",
			logger.String("symbol", symbol), logger.Int("bars", n))
	}
	return h, nil
}

type listedSymbol struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Mic         string `json:"mic"`
}

// Symbols lists tradable symbols for the given exchanges, optionally
// restricted to ETFs.
func (c *Client) Symbols(ctx context.Context, exchanges []string, etfOnly bool) ([]models.AssetInfo, error) {
	var out []models.AssetInfo
	for _, exchange := range exchanges {
		if err := c.waitForToken(ctx); err != nil {
			return nil, err
		}

		var listed []listedSymbol
		err := c.http.SendAndParse(ctx, &http.RequestOptions{
			Method: http.MethodGet,
			URL:    c.baseURL + "/stock/symbol",
			QueryParams: map[string][]string{
				"exchange": {exchange},
				"token":    {c.apiKey},
			},
		}, &listed)
		if err != nil {
			return nil, fmt.Errorf("list symbols for %s: %w", exchange, err)
		}

		for _, s := range listed {
			isETF := s.Type == "ETP" || s.Type == "ETF"
			if etfOnly && !isETF {
				continue
			}
			out = append(out, models.AssetInfo{
				Symbol:          s.Symbol,
				SecurityName:    s.Description,
				MarketCategory:  s.Type,
				ListingExchange: exchange,
				IsETF:           isETF,
			})
		}
	}
	return out, nil
}

// waitForToken blocks until the rate limiter grants a token or the context
// is cancelled.
func (c *Client) waitForToken(ctx context.Context) error {
	for {
		if c.limiter == nil || c.limiter.Allow(limiterKey, c.burst, c.perSec) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}
