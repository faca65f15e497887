package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypewatch/internal/adapters/config"
)

func newTestClient(t *testing.T, searchHandler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "test-id", user)
		w.Write([]byte(`{"access_token": "test-token", "expires_in": 3600}`))
	})
	mux.HandleFunc("/r/wallstreetbets/search.json", searchHandler)

	server := httptest.NewServer(mux)
	client := NewClient(config.RedditConfig{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		UserAgent:    "hypewatch-test",
		Subreddit:    "wallstreetbets",
		Limit:        50,
	})
	client.tokenURL = server.URL + "/api/v1/access_token"
	client.apiURL = server.URL
	return client, server
}

func TestClient_FetchMentions(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "GME", r.URL.Query().Get("q"))
		w.Write([]byte(`{"data": {"children": [
			{"data": {"id": "abc", "title": "GME to the moon", "selftext": "diamond hands",
			          "author": "ape42", "score": 1000, "num_comments": 250,
			          "created_utc": 1705312800, "permalink": "/r/wallstreetbets/abc"}}
		]}}`))
	})
	defer server.Close()

	posts, err := client.FetchMentions(context.Background(), "GME")
	require.NoError(t, err)
	require.Len(t, posts, 1)

	assert.Equal(t, "reddit", posts[0].Source)
	assert.Equal(t, "GME to the moon", posts[0].Title)
	assert.Equal(t, "diamond hands", posts[0].SelfText)
	assert.Equal(t, 1000, posts[0].Score)
	assert.Equal(t, 250, posts[0].Comments)
	assert.Empty(t, posts[0].Text)
}

func TestClient_TokenReused(t *testing.T) {
	searches := 0
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		searches++
		w.Write([]byte(`{"data": {"children": []}}`))
	})
	defer server.Close()

	_, err := client.FetchMentions(context.Background(), "GME")
	require.NoError(t, err)
	first := client.accessToken

	_, err = client.FetchMentions(context.Background(), "AMC")
	require.NoError(t, err)

	assert.Equal(t, first, client.accessToken)
	assert.Equal(t, 2, searches)
}

func TestClient_SearchError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	_, err := client.FetchMentions(context.Background(), "GME")
	assert.Error(t, err)
}

func TestClient_Disabled(t *testing.T) {
	client := NewClient(config.RedditConfig{})

	posts, err := client.FetchMentions(context.Background(), "GME")
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.False(t, client.Enabled())
}
