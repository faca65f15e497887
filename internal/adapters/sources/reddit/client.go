package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"hypewatch/internal/adapters/config"
	"hypewatch/internal/domain/social"
	"hypewatch/pkg/errors"
	"hypewatch/pkg/logger"
)

const (
	defaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	defaultAPIURL   = "https://oauth.reddit.com"
)

// Client fetches ticker mentions from a subreddit via the reddit API.
// Uses application-only OAuth; without credentials the client is
// disabled and silently yields empty results.
type Client struct {
	cfg      config.RedditConfig
	http     *http.Client
	limiter  *rate.Limiter
	log      *logger.Logger
	tokenURL string
	apiURL   string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a reddit client
func NewClient(cfg config.RedditConfig) *Client {
	log := logger.Get().With("component", "reddit_source")
	if cfg.ClientID == "" {
		log.Warn("reddit credentials missing, reddit source disabled")
	}

	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: 10 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 2),
		log:      log,
		tokenURL: defaultTokenURL,
		apiURL:   defaultAPIURL,
	}
}

// Enabled reports whether credentials are configured
func (c *Client) Enabled() bool {
	return c.cfg.ClientID != "" && c.cfg.ClientSecret != ""
}

// FetchMentions searches the configured subreddit for recent posts
// mentioning the ticker. A disabled client returns an empty slice, not
// an error; upstream failures surface as errors for the caller to
// degrade on.
func (c *Client) FetchMentions(ctx context.Context, ticker string) ([]social.Post, error) {
	if !c.Enabled() {
		return []social.Post{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter wait")
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reddit auth")
	}

	params := url.Values{}
	params.Set("q", ticker)
	params.Set("restrict_sr", "1")
	params.Set("sort", "new")
	params.Set("limit", fmt.Sprintf("%d", c.cfg.Limit))

	endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", c.apiURL, c.cfg.Subreddit, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build search request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "reddit search")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.Wrapf(errors.ErrRateLimited, "reddit search for %s", ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrUpstreamStatus, "reddit search returned %d", resp.StatusCode)
	}

	var listing struct {
		Data struct {
			Children []struct {
				Data struct {
					ID          string  `json:"id"`
					Title       string  `json:"title"`
					SelfText    string  `json:"selftext"`
					Author      string  `json:"author"`
					Score       int     `json:"score"`
					NumComments int     `json:"num_comments"`
					CreatedUTC  float64 `json:"created_utc"`
					Permalink   string  `json:"permalink"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, errors.Wrap(err, "decode reddit listing")
	}

	posts := make([]social.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		posts = append(posts, social.Post{
			ID:        d.ID,
			Source:    "reddit",
			Title:     d.Title,
			SelfText:  d.SelfText,
			Author:    d.Author,
			Score:     d.Score,
			Comments:  d.NumComments,
			CreatedAt: time.Unix(int64(d.CreatedUTC), 0).UTC(),
			URL:       "https://www.reddit.com" + d.Permalink,
		})
	}

	c.log.Debugf("reddit fetched %d posts for %s", len(posts), ticker)
	return posts, nil
}

// token returns a cached application-only access token, refreshing it
// shortly before expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, form)
	if err != nil {
		return "", errors.Wrap(err, "build token request")
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "token request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Wrapf(errors.ErrUpstreamStatus, "token endpoint returned %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "decode token response")
	}
	if body.AccessToken == "" {
		return "", errors.Wrap(errors.ErrUpstreamStatus, "empty access token")
	}

	c.accessToken = body.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - time.Minute)
	return c.accessToken, nil
}
