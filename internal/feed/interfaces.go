package feed

import (
	"context"

	"github.com/reddish-app/reddish/internal/model"
	"github.com/reddish-app/reddish/internal/secrets"
)

// Browser is the slice of the Reddit client the feed service depends on.
type Browser interface {
	Authenticate(ctx context.Context, creds *secrets.Credentials) error
	FrontPage(ctx context.Context, after string, limit int) ([]model.Post, string, error)
	SubredditPosts(ctx context.Context, subreddit, after string, limit int) ([]model.Post, string, error)
	Comments(ctx context.Context, subreddit, postID string) (model.Post, *model.CommentTree, error)
	SubscribedSubreddits(ctx context.Context) ([]model.Subreddit, error)
}
