package reddit

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/reddish-app/reddish/internal/model"
)

const (
	kindListing   = "Listing"
	kindComment   = "t1"
	kindLink      = "t3"
	kindSubreddit = "t5"

	// previewTargetHeight is the preview resolution we aim for. Post rows
	// render thumbnails around 100px tall, so the closest match wastes the
	// least bandwidth.
	previewTargetHeight = 100
)

func decodeListing(operation string, t *thing) (*listingData, error) {
	if t.Kind != kindListing {
		return nil, &ParseError{Operation: operation, Err: fmt.Errorf("expected Listing, got kind %q", t.Kind)}
	}

	var listing listingData
	if err := json.Unmarshal(t.Data, &listing); err != nil {
		return nil, &ParseError{Operation: operation, Err: fmt.Errorf("failed to unmarshal listing: %w", err)}
	}
	return &listing, nil
}

// extractPosts unwraps a Listing thing into posts plus the pagination cursor
// for the next page. Non-link children are skipped rather than failing the
// whole page.
func extractPosts(operation string, t *thing) ([]model.Post, string, error) {
	listing, err := decodeListing(operation, t)
	if err != nil {
		return nil, "", err
	}

	posts := make([]model.Post, 0, len(listing.Children))
	for _, child := range listing.Children {
		if child == nil || child.Kind != kindLink {
			continue
		}

		var pd postData
		if err := json.Unmarshal(child.Data, &pd); err != nil {
			return nil, "", &ParseError{Operation: operation, Err: fmt.Errorf("failed to unmarshal post: %w", err)}
		}
		posts = append(posts, mapPost(&pd))
	}

	return posts, listing.After, nil
}

func mapPost(pd *postData) model.Post {
	return model.Post{
		ID:           pd.ID,
		Fullname:     pd.Name,
		Title:        html.UnescapeString(pd.Title),
		Author:       pd.Author,
		Subreddit:    pd.Subreddit,
		Score:        pd.Score,
		NumComments:  pd.NumComments,
		URL:          pd.URL,
		Permalink:    pd.Permalink,
		ThumbnailURL: pickPreviewURL(pd),
		SelfText:     pd.SelfText,
		CreatedUTC:   time.Unix(int64(pd.CreatedUTC), 0).UTC(),
		NSFW:         pd.Over18,
	}
}

// pickPreviewURL selects the preview resolution whose height is closest to
// previewTargetHeight. Preview URLs arrive HTML-escaped ("&amp;" in query
// strings) and must be unescaped before fetching. Posts without a preview
// block fall back to the legacy thumbnail field, which holds keywords like
// "self" or "default" instead of a URL for non-image posts.
func pickPreviewURL(pd *postData) string {
	if pd.Preview != nil && len(pd.Preview.Images) > 0 {
		img := pd.Preview.Images[0]

		best := img.Source
		bestDelta := heightDelta(best.Height)
		for _, res := range img.Resolutions {
			if delta := heightDelta(res.Height); delta < bestDelta {
				best = res
				bestDelta = delta
			}
		}
		if best.URL != "" {
			return html.UnescapeString(best.URL)
		}
	}

	if strings.HasPrefix(pd.Thumbnail, "http") {
		return pd.Thumbnail
	}
	return ""
}

func heightDelta(h int) int {
	d := h - previewTargetHeight
	if d < 0 {
		return -d
	}
	return d
}

// extractPostAndComments unwraps the two-element response of a comments
// endpoint: the first Listing holds the post itself, the second its
// top-level comments.
func extractPostAndComments(operation string, things []*thing) (model.Post, *model.CommentTree, error) {
	if len(things) < 2 {
		return model.Post{}, nil, &ParseError{
			Operation: operation,
			Err:       fmt.Errorf("expected 2 listings in comments response, got %d", len(things)),
		}
	}

	posts, _, err := extractPosts(operation, things[0])
	if err != nil {
		return model.Post{}, nil, err
	}
	if len(posts) == 0 {
		return model.Post{}, nil, &ParseError{Operation: operation, Err: fmt.Errorf("comments response contained no post")}
	}

	commentListing, err := decodeListing(operation, things[1])
	if err != nil {
		return model.Post{}, nil, err
	}

	tree := model.NewCommentTree()
	if err := appendComments(operation, tree, -1, commentListing.Children); err != nil {
		return model.Post{}, nil, err
	}

	return posts[0], tree, nil
}

// appendComments walks a listing's children depth-first, adding each comment
// under parent and recursing into its replies. "more" stubs are skipped; the
// app shows only comments already present in the response.
func appendComments(operation string, tree *model.CommentTree, parent int, children []*thing) error {
	for _, child := range children {
		if child == nil || child.Kind != kindComment {
			continue
		}

		var cd commentData
		if err := json.Unmarshal(child.Data, &cd); err != nil {
			return &ParseError{Operation: operation, Err: fmt.Errorf("failed to unmarshal comment: %w", err)}
		}

		idx := tree.Add(parent, model.Comment{
			ID:         cd.ID,
			Author:     cd.Author,
			Body:       html.UnescapeString(cd.Body),
			Score:      cd.Score,
			CreatedUTC: time.Unix(int64(cd.CreatedUTC), 0).UTC(),
		})

		replies, err := decodeReplies(operation, cd.Replies)
		if err != nil {
			return err
		}
		if replies != nil {
			if err := appendComments(operation, tree, idx, replies.Children); err != nil {
				return err
			}
		}
	}

	return nil
}

// decodeReplies handles the replies field's two shapes: a nested Listing
// thing, or the empty string "" when a comment has no replies.
func decodeReplies(operation string, raw json.RawMessage) (*listingData, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == `""` || trimmed == "null" {
		return nil, nil
	}

	var t thing
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, &ParseError{Operation: operation, Err: fmt.Errorf("failed to unmarshal replies: %w", err)}
	}
	if t.Kind != kindListing {
		return nil, nil
	}

	return decodeListing(operation, &t)
}

func extractSubreddits(operation string, t *thing) ([]model.Subreddit, error) {
	listing, err := decodeListing(operation, t)
	if err != nil {
		return nil, err
	}

	subs := make([]model.Subreddit, 0, len(listing.Children))
	for _, child := range listing.Children {
		if child == nil || child.Kind != kindSubreddit {
			continue
		}

		var sd subredditData
		if err := json.Unmarshal(child.Data, &sd); err != nil {
			return nil, &ParseError{Operation: operation, Err: fmt.Errorf("failed to unmarshal subreddit: %w", err)}
		}
		subs = append(subs, model.Subreddit{
			Name:        sd.DisplayName,
			Title:       sd.Title,
			Subscribers: sd.Subscribers,
		})
	}

	return subs, nil
}
