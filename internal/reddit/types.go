package reddit

import "encoding/json"

// Wire DTOs for the Reddit JSON API. Every API object arrives wrapped in a
// "thing" envelope carrying a kind tag ("Listing", "t1" comment, "t3" link,
// "t5" subreddit) and the raw payload, which is decoded per kind.

type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listingData struct {
	After    string   `json:"after"`
	Before   string   `json:"before"`
	Children []*thing `json:"children"`
}

type postData struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Author      string       `json:"author"`
	Subreddit   string       `json:"subreddit"`
	Score       int          `json:"score"`
	NumComments int          `json:"num_comments"`
	URL         string       `json:"url"`
	Permalink   string       `json:"permalink"`
	Thumbnail   string       `json:"thumbnail"`
	SelfText    string       `json:"selftext"`
	IsSelf      bool         `json:"is_self"`
	Over18      bool         `json:"over_18"`
	CreatedUTC  float64      `json:"created_utc"`
	Preview     *previewData `json:"preview"`
}

type previewData struct {
	Images []previewImage `json:"images"`
}

type previewImage struct {
	Source      imageSource   `json:"source"`
	Resolutions []imageSource `json:"resolutions"`
}

type imageSource struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type commentData struct {
	ID         string  `json:"id"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	// Replies is a nested Listing thing, or the empty string "" when the
	// comment has no replies.
	Replies json.RawMessage `json:"replies"`
}

type subredditData struct {
	DisplayName string `json:"display_name"`
	Title       string `json:"title"`
	Subscribers int64  `json:"subscribers"`
}

type accountData struct {
	Name string `json:"name"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}
