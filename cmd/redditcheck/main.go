// Command redditcheck is a headless smoke test for the Reddit client: it
// authenticates with credentials from the environment and prints the front
// page. Useful for verifying script-app credentials without starting the GUI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/reddish-app/reddish/internal/reddit"
	"github.com/reddish-app/reddish/internal/secrets"
)

const requestTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	creds := &secrets.Credentials{
		ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		Username:     os.Getenv("REDDIT_USERNAME"),
		Password:     os.Getenv("REDDIT_PASSWORD"),
	}
	if !creds.Complete() {
		logger.Error("set REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET, REDDIT_USERNAME and REDDIT_PASSWORD")
		os.Exit(1)
	}

	client, err := reddit.NewClient(&reddit.Config{Logger: logger})
	if err != nil {
		logger.Error("failed to create client", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := client.Authenticate(ctx, creds); err != nil {
		logger.Error("authentication failed", "err", err)
		os.Exit(1)
	}

	name, err := client.Me(ctx)
	if err != nil {
		logger.Error("failed to fetch account", "err", err)
		os.Exit(1)
	}
	logger.Info("authenticated", "user", name)

	posts, after, err := client.FrontPage(ctx, "", 10)
	if err != nil {
		logger.Error("failed to fetch front page", "err", err)
		os.Exit(1)
	}

	for i, post := range posts {
		fmt.Printf("%2d. [%s] %s (r/%s, %s, %s)\n",
			i+1, post.ScoreString(), post.DisplayTitle(), post.Subreddit, post.CommentsString(), post.Age())
	}
	logger.Info("front page fetched", "posts", len(posts), "after", after)

	subs, err := client.SubscribedSubreddits(ctx)
	if err != nil {
		logger.Error("failed to fetch subscriptions", "err", err)
		os.Exit(1)
	}
	logger.Info("subscriptions fetched", "count", len(subs))
}
