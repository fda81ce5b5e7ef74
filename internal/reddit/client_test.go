package reddit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingFixture = `{
	"kind": "Listing",
	"data": {
		"after": "t3_next",
		"before": null,
		"children": [
			{
				"kind": "t3",
				"data": {
					"id": "abc123",
					"name": "t3_abc123",
					"title": "First &amp; foremost",
					"author": "alice",
					"subreddit": "golang",
					"score": 412,
					"num_comments": 37,
					"url": "https://example.com/article",
					"permalink": "/r/golang/comments/abc123/first/",
					"thumbnail": "https://thumbs.example.com/abc123.jpg",
					"selftext": "",
					"created_utc": 1700000000
				}
			},
			{
				"kind": "t3",
				"data": {
					"id": "def456",
					"name": "t3_def456",
					"title": "A self post",
					"author": "bob",
					"subreddit": "golang",
					"score": 9,
					"num_comments": 2,
					"url": "https://reddit.com/r/golang/comments/def456",
					"permalink": "/r/golang/comments/def456/a_self_post/",
					"thumbnail": "self",
					"selftext": "body text",
					"is_self": true,
					"created_utc": 1700001000
				}
			}
		]
	}
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{
		BaseURL:    server.URL,
		AuthURL:    server.URL,
		HTTPClient: server.Client(),
		UserAgent:  "test-agent",
	})
	require.NoError(t, err)
	return client, server
}

func TestClientFrontPage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "t3_prev", r.URL.Query().Get("after"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte(listingFixture))
	}))

	posts, after, err := client.FrontPage(context.Background(), "t3_prev", 25)
	require.NoError(t, err)
	assert.Equal(t, "t3_next", after)
	require.Len(t, posts, 2)

	assert.Equal(t, "abc123", posts[0].ID)
	assert.Equal(t, "First & foremost", posts[0].Title)
	assert.Equal(t, "https://thumbs.example.com/abc123.jpg", posts[0].ThumbnailURL)
	assert.Equal(t, 412, posts[0].Score)

	// "self" is a keyword, not a URL, so the row renders no thumbnail.
	assert.Equal(t, "", posts[1].ThumbnailURL)
	assert.Equal(t, "body text", posts[1].SelfText)
}

func TestClientSubredditPosts(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/golang", r.URL.Path)
		w.Write([]byte(listingFixture))
	}))

	posts, after, err := client.SubredditPosts(context.Background(), "golang", "", 25)
	require.NoError(t, err)
	assert.Equal(t, "t3_next", after)
	assert.Len(t, posts, 2)
}

func TestClientUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, _, err := client.FrontPage(context.Background(), "", 25)
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestClientMalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"kind": "Listing", "data": {`))
	}))

	_, _, err := client.FrontPage(context.Background(), "", 25)
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestClientServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, _, err := client.FrontPage(context.Background(), "", 25)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.False(t, IsRetryable(err))
}

// failOnceTransport fails the first request at the transport level, then
// delegates to the real transport.
type failOnceTransport struct {
	inner http.RoundTripper
	calls atomic.Int32
}

func (f *failOnceTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if f.calls.Add(1) == 1 {
		return nil, errors.New("connection reset")
	}
	return f.inner.RoundTrip(req)
}

func TestClientRetriesTransportErrorOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingFixture))
	}))
	t.Cleanup(server.Close)

	transport := &failOnceTransport{inner: server.Client().Transport}
	client, err := NewClient(&Config{
		BaseURL:    server.URL,
		AuthURL:    server.URL,
		HTTPClient: &http.Client{Transport: transport},
	})
	require.NoError(t, err)

	posts, _, err := client.FrontPage(context.Background(), "", 25)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, int32(2), transport.calls.Load())
}

func TestClientSubscribedSubreddits(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subreddits/mine/subscriber", r.URL.Path)
		w.Write([]byte(`{
			"kind": "Listing",
			"data": {
				"after": null,
				"children": [
					{"kind": "t5", "data": {"display_name": "golang", "title": "The Go Programming Language", "subscribers": 250000}},
					{"kind": "t5", "data": {"display_name": "programming", "title": "Programming", "subscribers": 6000000}}
				]
			}
		}`))
	}))

	subs, err := client.SubscribedSubreddits(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "golang", subs[0].Name)
	assert.Equal(t, int64(250000), subs[0].Subscribers)
}

func TestClientAuthenticate(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/access_token" {
			w.Write([]byte(`{"access_token":"tok-456","token_type":"bearer"}`))
			return
		}
		assert.Equal(t, "Bearer tok-456", r.Header.Get("Authorization"))
		w.Write([]byte(listingFixture))
	}))

	assert.False(t, client.IsAuthenticated())
	require.NoError(t, client.Authenticate(context.Background(), testCreds()))
	assert.True(t, client.IsAuthenticated())

	_, _, err := client.FrontPage(context.Background(), "", 25)
	require.NoError(t, err)
}
