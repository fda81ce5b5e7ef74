// Package feed owns the browsing state machine: which feed is open, the
// posts loaded so far, and the transitions between logged out, loading,
// ready, and error. All Reddit calls run on background goroutines; the UI
// observes the service through snapshot callbacks.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/reddish-app/reddish/internal/model"
	"github.com/reddish-app/reddish/internal/reddit"
	"github.com/reddish-app/reddish/internal/secrets"
)

// Snapshot is an immutable copy of the service state handed to the update
// callback. The posts slice is copied, so the UI may hold it across frames.
type Snapshot struct {
	// Seq orders snapshots. Deliveries run outside the service lock and can
	// arrive out of order; consumers must keep the highest Seq they have
	// seen and drop the rest.
	Seq uint64

	State       model.FeedState
	Feed        string
	Posts       []model.Post
	Subreddits  []model.Subreddit
	HasMore     bool
	LoadingMore bool

	// ErrMessage is a user-facing description, set only in StateError
	ErrMessage string
	// AuthRequired marks errors that need new credentials, not a retry
	AuthRequired bool
}

// Service coordinates feed browsing on top of a Browser. Every mutating call
// starts a background fetch tagged with the generation current at launch;
// completions whose generation has since moved on are discarded, so the most
// recently issued navigation always wins.
type Service struct {
	client   Browser
	pageSize int
	logger   *slog.Logger

	mu            sync.Mutex
	state         model.FeedState
	feed          string
	posts         []model.Post
	after         string
	subs          []model.Subreddit
	errMessage    string
	authRequired  bool
	loadingMore   bool
	gen           uint64
	seq           uint64
	creds         *secrets.Credentials
	authenticated bool
	onUpdate      func(Snapshot)
}

func NewService(client Browser, pageSize int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:   client,
		pageSize: pageSize,
		logger:   logger,
		state:    model.StateLoggedOut,
		feed:     model.FeedHome,
	}
}

// SetUpdateCallback registers the function invoked after every state change.
// The callback runs outside the service lock and may arrive from any
// goroutine, so UI implementations must hop to the render thread themselves.
func (s *Service) SetUpdateCallback(cb func(Snapshot)) {
	s.mu.Lock()
	s.onUpdate = cb
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state, for the initial render.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Login authenticates with the given credentials, loads the subscribed
// subreddits, and opens the home feed. Any in-flight fetch is superseded.
func (s *Service) Login(creds *secrets.Credentials) {
	s.mu.Lock()
	gen := s.nextGenLocked()
	s.state = model.StateLoading
	s.feed = model.FeedHome
	s.resetListingLocked()
	s.subs = nil
	s.creds = creds
	s.authenticated = false
	s.mu.Unlock()
	s.notify()

	go func() {
		requestID := uuid.NewString()
		ctx := context.Background()
		s.logger.Info("logging in", "request_id", requestID, "user", creds.Username)

		if err := s.client.Authenticate(ctx, creds); err != nil {
			s.failIfCurrent(gen, requestID, err)
			return
		}

		// The bearer token is session-global, so a later navigation
		// superseding this login does not invalidate it.
		s.mu.Lock()
		s.authenticated = true
		s.mu.Unlock()

		// Subscriptions populate the navigation bar; losing them is not
		// worth failing the login over.
		if subs, err := s.client.SubscribedSubreddits(ctx); err != nil {
			s.logger.Warn("failed to load subscriptions", "request_id", requestID, "err", err)
		} else {
			s.mu.Lock()
			if gen == s.gen {
				s.subs = subs
			}
			s.mu.Unlock()
			s.notify()
		}

		s.fetchFeed(ctx, gen, model.FeedHome, requestID)
	}()
}

// Open navigates to a feed: model.FeedHome for the front page, otherwise a
// subreddit name. Ignored while logged out or mid-login.
func (s *Service) Open(feed string) {
	s.mu.Lock()
	if !s.state.CanNavigate() {
		s.mu.Unlock()
		return
	}
	gen := s.nextGenLocked()
	s.state = model.StateLoading
	s.feed = feed
	s.resetListingLocked()
	s.mu.Unlock()
	s.notify()

	go s.fetchFeed(context.Background(), gen, feed, uuid.NewString())
}

// Refresh reloads the current feed from the top.
func (s *Service) Refresh() {
	s.mu.Lock()
	feed := s.feed
	s.mu.Unlock()
	s.Open(feed)
}

// Retry re-runs the fetch that produced the current error. When the error
// struck before a session was established, e.g. the network dropped during
// login, the whole login flow runs again; a plain re-fetch would go out
// without a bearer token and turn the transient failure into an auth error.
// A no-op outside StateError, and for auth failures, which need new
// credentials instead.
func (s *Service) Retry() {
	s.mu.Lock()
	retryable := s.state == model.StateError && !s.authRequired
	needLogin := !s.authenticated
	creds := s.creds
	feed := s.feed
	s.mu.Unlock()

	if !retryable {
		return
	}
	if needLogin && creds != nil {
		s.Login(creds)
		return
	}
	s.Open(feed)
}

// LoadMore appends the next page of the current feed. A no-op unless the
// listing is ready, has a cursor, and no page fetch is already running.
func (s *Service) LoadMore() {
	s.mu.Lock()
	if s.state != model.StateReady || s.after == "" || s.loadingMore {
		s.mu.Unlock()
		return
	}
	gen := s.gen
	feed := s.feed
	after := s.after
	s.loadingMore = true
	s.mu.Unlock()
	s.notify()

	go func() {
		requestID := uuid.NewString()
		s.logger.Info("loading more", "request_id", requestID, "feed", feed, "after", after)

		posts, next, err := s.fetchPage(context.Background(), feed, after)

		s.mu.Lock()
		if gen != s.gen {
			s.mu.Unlock()
			s.logger.Info("discarding stale page", "request_id", requestID, "feed", feed)
			return
		}
		s.loadingMore = false
		if err != nil {
			s.logger.Error("failed to load more", "request_id", requestID, "feed", feed, "err", err)
			s.state = model.StateError
			s.errMessage = userMessage(err)
			s.authRequired = reddit.IsAuthError(err)
		} else {
			s.posts = append(s.posts, posts...)
			s.after = next
		}
		s.mu.Unlock()
		s.notify()
	}()
}

// LoadComments fetches a post's comment tree and delivers it through done,
// which may be called from any goroutine. Comment fetches are tied to the
// dialog that asked for them, not to the listing generation.
func (s *Service) LoadComments(post model.Post, done func(model.Post, *model.CommentTree, error)) {
	go func() {
		requestID := uuid.NewString()
		s.logger.Info("loading comments", "request_id", requestID, "post", post.ID)

		full, tree, err := s.client.Comments(context.Background(), post.Subreddit, post.ID)
		if err != nil {
			s.logger.Error("failed to load comments", "request_id", requestID, "post", post.ID, "err", err)
		}
		done(full, tree, err)
	}()
}

// Logout drops the session state and supersedes any in-flight fetch.
func (s *Service) Logout() {
	s.mu.Lock()
	s.nextGenLocked()
	s.state = model.StateLoggedOut
	s.feed = model.FeedHome
	s.resetListingLocked()
	s.subs = nil
	s.creds = nil
	s.authenticated = false
	s.mu.Unlock()
	s.notify()
}

func (s *Service) fetchFeed(ctx context.Context, gen uint64, feed, requestID string) {
	s.logger.Info("loading feed", "request_id", requestID, "feed", feed)

	posts, after, err := s.fetchPage(ctx, feed, "")
	if err != nil {
		s.failIfCurrent(gen, requestID, err)
		return
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.logger.Info("discarding stale feed", "request_id", requestID, "feed", feed)
		return
	}
	s.state = model.StateReady
	s.posts = posts
	s.after = after
	s.mu.Unlock()
	s.notify()
}

func (s *Service) fetchPage(ctx context.Context, feed, after string) ([]model.Post, string, error) {
	if feed == model.FeedHome {
		return s.client.FrontPage(ctx, after, s.pageSize)
	}
	return s.client.SubredditPosts(ctx, feed, after, s.pageSize)
}

func (s *Service) failIfCurrent(gen uint64, requestID string, err error) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.logger.Info("discarding stale failure", "request_id", requestID, "err", err)
		return
	}
	s.state = model.StateError
	s.errMessage = userMessage(err)
	s.authRequired = reddit.IsAuthError(err)
	s.mu.Unlock()

	s.logger.Error("feed request failed", "request_id", requestID, "err", err)
	s.notify()
}

// nextGenLocked bumps the generation counter, invalidating every fetch
// launched before this call. Callers must hold s.mu.
func (s *Service) nextGenLocked() uint64 {
	s.gen++
	return s.gen
}

func (s *Service) resetListingLocked() {
	s.posts = nil
	s.after = ""
	s.errMessage = ""
	s.authRequired = false
	s.loadingMore = false
}

func (s *Service) snapshotLocked() Snapshot {
	posts := make([]model.Post, len(s.posts))
	copy(posts, s.posts)
	subs := make([]model.Subreddit, len(s.subs))
	copy(subs, s.subs)

	return Snapshot{
		Seq:          s.seq,
		State:        s.state,
		Feed:         s.feed,
		Posts:        posts,
		Subreddits:   subs,
		HasMore:      s.after != "",
		LoadingMore:  s.loadingMore,
		ErrMessage:   s.errMessage,
		AuthRequired: s.authRequired,
	}
}

func (s *Service) notify() {
	s.mu.Lock()
	s.seq++
	cb := s.onUpdate
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
}

func userMessage(err error) string {
	var authErr *reddit.AuthError
	var reqErr *reddit.RequestError
	var parseErr *reddit.ParseError
	var apiErr *reddit.APIError

	switch {
	case errors.As(err, &authErr):
		return "Authentication failed. Check your Reddit credentials."
	case errors.As(err, &reqErr):
		return "Could not reach Reddit. Check your connection and retry."
	case errors.As(err, &parseErr):
		return "Reddit returned an unexpected response."
	case errors.As(err, &apiErr):
		return "Reddit is having trouble right now. Try again in a moment."
	default:
		return "Something went wrong. Try again."
	}
}
