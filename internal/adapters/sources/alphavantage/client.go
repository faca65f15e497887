package alphavantage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"hypewatch/internal/adapters/config"
	"hypewatch/internal/domain/market"
	"hypewatch/pkg/errors"
	"hypewatch/pkg/logger"
)

const defaultAPIURL = "https://www.alphavantage.co/query"

// Client fetches delayed quotes from Alpha Vantage. Without an API key
// the client is disabled and yields an empty quote. Numeric payload
// fields arrive as strings; anything unparsable coerces to zero.
type Client struct {
	cfg     config.AlphaVantageConfig
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
	apiURL  string
}

// NewClient creates an Alpha Vantage client
func NewClient(cfg config.AlphaVantageConfig) *Client {
	log := logger.Get().With("component", "alphavantage")
	if cfg.APIKey == "" {
		log.Warn("alpha vantage API key missing, quotes will be empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		// Free tier allows 5 requests per minute
		limiter: rate.NewLimiter(rate.Every(12*time.Second), 1),
		log:     log,
		apiURL:  defaultAPIURL,
	}
}

// Enabled reports whether an API key is configured
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

// Quote fetches the global quote for a symbol. A disabled client
// returns an empty quote with no error; price and volume default to 0
// when the upstream payload is absent or malformed.
func (c *Client) Quote(ctx context.Context, symbol string) (market.Quote, error) {
	if !c.Enabled() {
		return market.Quote{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return market.Quote{}, errors.Wrap(err, "rate limiter wait")
	}

	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)
	params.Set("apikey", c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return market.Quote{}, errors.Wrap(err, "build quote request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return market.Quote{}, errors.Wrap(err, "quote request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return market.Quote{}, errors.Wrapf(errors.ErrUpstreamStatus, "alpha vantage returned %d", resp.StatusCode)
	}

	var body struct {
		GlobalQuote map[string]string `json:"Global Quote"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return market.Quote{}, errors.Wrap(err, "decode quote response")
	}

	q := body.GlobalQuote
	quote := market.Quote{
		Symbol:        q["01. symbol"],
		Price:         parseFloat(q["05. price"]),
		Volume:        parseVolume(q["06. volume"]),
		ChangePercent: q["10. change percent"],
	}

	c.log.Debugf("quote for %s: price=%.2f volume=%d", symbol, quote.Price, quote.Volume)
	return quote, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseVolume(s string) int64 {
	// Volume occasionally arrives with a decimal point
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return int64(v)
}
