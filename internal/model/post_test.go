package model

import (
	"testing"
	"time"
)

func TestScoreString(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		expected string
	}{
		{"zero", 0, "0"},
		{"small", 999, "999"},
		{"thousands", 12345, "12.3k"},
		{"exact thousand", 1000, "1.0k"},
		{"millions", 2500000, "2.5m"},
		{"negative", -1500, "-1.5k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{Score: tt.score}
			if got := p.ScoreString(); got != tt.expected {
				t.Errorf("ScoreString() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCommentsString(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		expected string
	}{
		{"zero", 0, "0 comments"},
		{"one", 1, "1 comment"},
		{"several", 37, "37 comments"},
		{"thousands", 1234, "1.2k comments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{NumComments: tt.count}
			if got := p.CommentsString(); got != tt.expected {
				t.Errorf("CommentsString() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDisplayTitle(t *testing.T) {
	p := &Post{Title: "  line one\nline two\ttabbed  "}
	got := p.DisplayTitle()
	expected := "line one line two tabbed"
	if got != expected {
		t.Errorf("DisplayTitle() = %q, want %q", got, expected)
	}
}

func TestDisplayMeta(t *testing.T) {
	p := &Post{Author: "spez", Subreddit: "golang"}
	expected := "Posted by u/spez in r/golang"
	if got := p.DisplayMeta(); got != expected {
		t.Errorf("DisplayMeta() = %q, want %q", got, expected)
	}
}

func TestAge(t *testing.T) {
	tests := []struct {
		name     string
		created  time.Time
		expected string
	}{
		{"unknown", time.Time{}, "—"},
		{"seconds", time.Now().Add(-30 * time.Second), "now"},
		{"minutes", time.Now().Add(-5 * time.Minute), "5m"},
		{"hours", time.Now().Add(-3 * time.Hour), "3h"},
		{"days", time.Now().Add(-49 * time.Hour), "2d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{CreatedUTC: tt.created}
			if got := p.Age(); got != tt.expected {
				t.Errorf("Age() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHasThumbnail(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{"https url", "https://preview.redd.it/abc.jpg", true},
		{"http url", "http://example.com/a.png", true},
		{"self marker", "self", false},
		{"default marker", "default", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{ThumbnailURL: tt.url}
			if got := p.HasThumbnail(); got != tt.expected {
				t.Errorf("HasThumbnail() = %v, want %v", got, tt.expected)
			}
		})
	}
}
