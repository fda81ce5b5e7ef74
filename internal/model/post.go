package model

import (
	"fmt"
	"strings"
	"time"
)

// FeedHome is the pseudo feed name for the authenticated front page.
const FeedHome = "home"

// Post represents a single listing entry as shown in the feed.
// Posts are immutable once fetched; a fresh fetch replaces them wholesale.
type Post struct {
	ID           string
	Fullname     string // e.g. "t3_abc123", used as the pagination cursor
	Title        string
	Author       string
	Subreddit    string
	Score        int
	NumComments  int
	URL          string // link target, or permalink for self posts
	Permalink    string
	ThumbnailURL string // best preview resolution, empty when none usable
	SelfText     string
	CreatedUTC   time.Time
	NSFW         bool
}

// Subreddit represents one of the user's subscribed communities.
type Subreddit struct {
	Name        string // display name without the /r/ prefix
	Title       string
	Subscribers int64
}

// DisplayMeta returns the "Posted by u/author in r/subreddit" byline.
func (p *Post) DisplayMeta() string {
	return fmt.Sprintf("Posted by u/%s in r/%s", p.Author, p.Subreddit)
}

// DisplayTitle returns the title cleaned of control characters that would
// break single-line rendering.
func (p *Post) DisplayTitle() string {
	title := strings.ReplaceAll(p.Title, "\n", " ")
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\t", " ")
	return strings.TrimSpace(title)
}

// ScoreString returns the score compacted the way Reddit renders it,
// e.g. 999 -> "999", 12345 -> "12.3k".
func (p *Post) ScoreString() string {
	score := p.Score
	neg := score < 0
	if neg {
		score = -score
	}

	var s string
	switch {
	case score >= 1000000:
		s = fmt.Sprintf("%.1fm", float64(score)/1000000)
	case score >= 1000:
		s = fmt.Sprintf("%.1fk", float64(score)/1000)
	default:
		s = fmt.Sprintf("%d", score)
	}

	if neg {
		return "-" + s
	}
	return s
}

// CommentsString returns the comment count with its label, compacted the
// same way as scores.
func (p *Post) CommentsString() string {
	n := p.NumComments
	if n >= 1000 {
		return fmt.Sprintf("%.1fk comments", float64(n)/1000)
	}
	if n == 1 {
		return "1 comment"
	}
	return fmt.Sprintf("%d comments", n)
}

// Age returns a coarse human-readable age relative to now, e.g. "3h".
func (p *Post) Age() string {
	if p.CreatedUTC.IsZero() {
		return "—"
	}

	d := time.Since(p.CreatedUTC)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// HasThumbnail returns true when the post carries a fetchable preview image.
func (p *Post) HasThumbnail() bool {
	return strings.HasPrefix(p.ThumbnailURL, "http")
}
