package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"hypewatch/internal/adapters/config"
	"hypewatch/internal/domain/social"
	"hypewatch/pkg/errors"
	"hypewatch/pkg/logger"
)

const defaultAPIURL = "https://api.twitter.com"

// Client fetches recent tweets mentioning a ticker via the v2 search
// API. Without a bearer token the client is disabled and yields empty
// results.
type Client struct {
	cfg     config.TwitterConfig
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
	apiURL  string
}

// NewClient creates a twitter client
func NewClient(cfg config.TwitterConfig) *Client {
	log := logger.Get().With("component", "twitter_source")
	if cfg.BearerToken == "" {
		log.Warn("twitter bearer token missing, twitter source disabled")
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		log:     log,
		apiURL:  defaultAPIURL,
	}
}

// Enabled reports whether a bearer token is configured
func (c *Client) Enabled() bool {
	return c.cfg.BearerToken != ""
}

// FetchMentions searches recent english-language tweets for the ticker,
// excluding retweets. Rate-limit and permission responses degrade to an
// empty result rather than an error; other failures are returned.
func (c *Client) FetchMentions(ctx context.Context, ticker string) ([]social.Post, error) {
	if !c.Enabled() {
		return []social.Post{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter wait")
	}

	limit := c.cfg.Limit
	if limit > 100 {
		limit = 100
	}

	params := url.Values{}
	params.Set("query", fmt.Sprintf("(%s OR $%s) -is:retweet lang:en", ticker, ticker))
	params.Set("max_results", fmt.Sprintf("%d", limit))
	params.Set("tweet.fields", "created_at,author_id,public_metrics")

	endpoint := c.apiURL + "/2/tweets/search/recent?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build search request")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "twitter search")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		c.log.Warnf("twitter rate limit reached for %s, returning empty result", ticker)
		return []social.Post{}, nil
	case http.StatusForbidden:
		c.log.Warnf("twitter access forbidden for %s, check credentials", ticker)
		return []social.Post{}, nil
	default:
		return nil, errors.Wrapf(errors.ErrUpstreamStatus, "twitter search returned %d", resp.StatusCode)
	}

	var body struct {
		Data []struct {
			ID            string `json:"id"`
			Text          string `json:"text"`
			AuthorID      string `json:"author_id"`
			CreatedAt     string `json:"created_at"`
			PublicMetrics struct {
				RetweetCount int `json:"retweet_count"`
				LikeCount    int `json:"like_count"`
			} `json:"public_metrics"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode twitter response")
	}

	posts := make([]social.Post, 0, len(body.Data))
	for _, tw := range body.Data {
		createdAt, _ := time.Parse(time.RFC3339, tw.CreatedAt)
		posts = append(posts, social.Post{
			ID:        tw.ID,
			Source:    "twitter",
			Text:      tw.Text,
			Author:    tw.AuthorID,
			Score:     tw.PublicMetrics.LikeCount,
			Comments:  tw.PublicMetrics.RetweetCount,
			CreatedAt: createdAt,
		})
	}

	c.log.Debugf("twitter fetched %d tweets for %s", len(posts), ticker)
	return posts, nil
}
