// Package memory provides an in-memory implementation of the posts
// collection API. It backs the demo mode of the TUI, the serve
// command, and most tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"postdeck/internal/api"
	apperrors "postdeck/internal/errors"
	"postdeck/pkg/types"
)

type account struct {
	id       int
	username string
	email    string
	password string
}

// Store is a process-local posts collection. It implements
// api.Backend so the console can run against it directly, and exposes
// token helpers for the HTTP server.
type Store struct {
	mu       sync.RWMutex
	posts    map[int]*types.Post
	nextID   int
	accounts map[string]account
	tokens   map[string]int
	current  *api.User
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store with the two built-in demo accounts.
func New(opts ...Option) *Store {
	s := &Store{
		posts:  make(map[int]*types.Post),
		nextID: 1,
		accounts: map[string]account{
			"admin@example.com": {id: 1, username: "admin", email: "admin@example.com", password: "admin123"},
			"test@example.com":  {id: 2, username: "test", email: "test@example.com", password: "test123"},
		},
		tokens: make(map[string]int),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSeeded creates a store pre-populated with sample posts covering
// every status, so the console has something to show out of the box.
func NewSeeded(opts ...Option) *Store {
	s := New(opts...)
	now := s.now()

	seed := []types.Post{
		{
			Title:        "AI-generated launch teaser",
			Content:      "A machine-drafted announcement with rich marketing copy and a strong call to action.",
			Status:       types.StatusPublished,
			CreatedTime:  now.Add(-2 * time.Hour),
			UpdatedTime:  now.Add(-2 * time.Hour),
			AuthorID:     1,
			RemotePostID: "fb_123456789",
			Engagement:   &types.EngagementStats{Likes: 156, Comments: 23, Shares: 12, Views: 1250},
		},
		{
			Title:         "Automation pipeline test",
			Content:       "Exercising the scheduling path end to end, including live monitoring.",
			Status:        types.StatusScheduled,
			ScheduledTime: timePtr(now.Add(2 * time.Hour)),
			CreatedTime:   now.Add(-4 * time.Hour),
			UpdatedTime:   now.Add(-4 * time.Hour),
			AuthorID:      1,
		},
		{
			Title:       "Marketing strategy notes",
			Content:     "Collected tactics for raising follower engagement this quarter.",
			Status:      types.StatusDraft,
			CreatedTime: now.Add(-24 * time.Hour),
			UpdatedTime: now.Add(-24 * time.Hour),
			AuthorID:    1,
		},
		{
			Title:        "Product release announcement",
			Content:      "We are excited to announce the official launch. Thanks to everyone who supported us.",
			Status:       types.StatusPublished,
			CreatedTime:  now.Add(-48 * time.Hour),
			UpdatedTime:  now.Add(-48 * time.Hour),
			AuthorID:     1,
			RemotePostID: "fb_987654321",
			Engagement:   &types.EngagementStats{Likes: 89, Comments: 15, Shares: 8, Views: 892},
		},
		{
			Title:         "Weekend event preview",
			Content:       "Join our online event this weekend, everyone is welcome.",
			Status:        types.StatusFailed,
			ScheduledTime: timePtr(now.Add(-6 * time.Hour)),
			CreatedTime:   now.Add(-72 * time.Hour),
			UpdatedTime:   now.Add(-6 * time.Hour),
			AuthorID:      1,
		},
	}

	for i := range seed {
		p := seed[i]
		p.ID = s.nextID
		s.posts[p.ID] = &p
		s.nextID++
	}
	return s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// IssueToken verifies credentials and mints a bearer token for the
// HTTP server path.
func (s *Store) IssueToken(email, password string) (string, *api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[email]
	if !ok {
		return "", nil, apperrors.NewRemoteError("login", "user does not exist", apperrors.Unauthorized, nil)
	}
	if acct.password != password {
		return "", nil, apperrors.NewRemoteError("login", "incorrect password", apperrors.Unauthorized, nil)
	}

	token := uuid.NewString()
	s.tokens[token] = acct.id
	return token, &api.User{ID: acct.id, Username: acct.username, Email: acct.email}, nil
}

// ValidateToken reports whether token belongs to a live session.
func (s *Store) ValidateToken(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok
}

// UserForToken resolves a live session token to its account.
func (s *Store) UserForToken(token string) (*api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	for _, acct := range s.accounts {
		if acct.id == id {
			return &api.User{ID: acct.id, Username: acct.username, Email: acct.email}, true
		}
	}
	return nil, false
}

// RevokeToken forgets a token. Unknown tokens are a no-op.
func (s *Store) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// Login implements the in-process authentication boundary for demo
// mode.
func (s *Store) Login(_ context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[email]
	if !ok {
		return apperrors.NewRemoteError("login", "user does not exist", apperrors.Unauthorized, nil)
	}
	if acct.password != password {
		return apperrors.NewRemoteError("login", "incorrect password", apperrors.Unauthorized, nil)
	}

	// One in-process session at a time.
	s.current = &api.User{ID: acct.id, Username: acct.username, Email: acct.email}
	return nil
}

// Register creates a new account. The confirmation must match the
// password and the email must be unused; registering does not sign
// the new account in.
func (s *Store) Register(_ context.Context, username, email, password, confirm string) error {
	if password != confirm {
		return apperrors.NewRemoteError("register", "password confirmation does not match", apperrors.InvalidInput, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[email]; exists {
		return apperrors.NewRemoteError("register", "user already exists", apperrors.InvalidInput, nil)
	}
	s.accounts[email] = account{
		id:       len(s.accounts) + 1,
		username: username,
		email:    email,
		password: password,
	}
	return nil
}

// Logout ends the in-process session.
func (s *Store) Logout(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	return nil
}

// Authenticated reports whether an in-process session is active.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// CurrentUser returns the in-process session account, or nil.
func (s *Store) CurrentUser() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// List returns one page of posts, newest first, honoring status and
// search filters.
func (s *Store) List(_ context.Context, params api.ListParams) (*api.ListResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage < 1 {
		perPage = 10
	}

	var filtered []*types.Post
	needle := strings.ToLower(params.Search)
	for _, p := range s.posts {
		if params.Status != "" && p.Status != params.Status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Content), needle) {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].CreatedTime.Equal(filtered[j].CreatedTime) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].CreatedTime.After(filtered[j].CreatedTime)
	})

	total := len(filtered)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	items := make([]types.Post, 0, end-start)
	for _, p := range filtered[start:end] {
		items = append(items, *p)
	}

	return &api.ListResult{
		Items: items,
		Pagination: types.Pagination{
			Page:       page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// Get returns a single post by id.
func (s *Store) Get(_ context.Context, id int) (*types.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, apperrors.NewRemoteError("get", "post not found", apperrors.NotFound, nil)
	}
	out := *p
	return &out, nil
}

// Create stores a new post.
func (s *Store) Create(_ context.Context, cmd types.CreatePost) (*types.Post, error) {
	now := s.now()
	if err := cmd.Validate(now); err != nil {
		return nil, apperrors.NewRemoteError("create", err.Error(), apperrors.InvalidInput, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	status := cmd.Status
	if status == "" {
		status = types.StatusDraft
	}

	p := &types.Post{
		ID:            s.nextID,
		Title:         cmd.Title,
		Content:       cmd.Content,
		Status:        status,
		ScheduledTime: cmd.ScheduledTime,
		CreatedTime:   now,
		UpdatedTime:   now,
		AuthorID:      1,
	}
	s.posts[p.ID] = p
	s.nextID++

	out := *p
	return &out, nil
}

// Update applies non-nil fields of cmd to an existing post.
func (s *Store) Update(_ context.Context, id int, cmd types.UpdatePost) (*types.Post, error) {
	now := s.now()
	if err := cmd.Validate(now); err != nil {
		return nil, apperrors.NewRemoteError("update", err.Error(), apperrors.InvalidInput, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, apperrors.NewRemoteError("update", "post not found", apperrors.NotFound, nil)
	}

	if cmd.Title != nil {
		p.Title = *cmd.Title
	}
	if cmd.Content != nil {
		p.Content = *cmd.Content
	}
	if cmd.Status != nil {
		p.Status = *cmd.Status
	}
	if cmd.ScheduledTime != nil {
		p.ScheduledTime = cmd.ScheduledTime
	}
	p.UpdatedTime = now

	out := *p
	return &out, nil
}

// Delete removes a post.
func (s *Store) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return apperrors.NewRemoteError("delete", "post not found", apperrors.NotFound, nil)
	}
	delete(s.posts, id)
	return nil
}

// Publish transitions a post to published, assigning it a remote post
// id. Publishing twice is a failure the caller surfaces verbatim.
func (s *Store) Publish(_ context.Context, id int) (*types.Post, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, apperrors.NewRemoteError("publish", "post not found", apperrors.NotFound, nil)
	}
	if p.Status == types.StatusPublished {
		return nil, apperrors.NewRemoteError("publish", "post already published", apperrors.RemoteFailed, nil)
	}

	p.Status = types.StatusPublished
	p.RemotePostID = uuid.NewString()
	p.UpdatedTime = now

	out := *p
	return &out, nil
}

// StatsSummary computes the per-status counts over the whole
// collection.
func (s *Store) StatsSummary(_ context.Context) (*api.StatsSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := s.now().Truncate(24 * time.Hour)
	stats := &api.StatsSummary{TotalPosts: len(s.posts)}
	for _, p := range s.posts {
		switch p.Status {
		case types.StatusDraft:
			stats.DraftPosts++
		case types.StatusScheduled:
			stats.ScheduledPosts++
		case types.StatusPublished:
			stats.PublishedPosts++
			if !p.CreatedTime.Before(today) {
				stats.TodayPosts++
			}
		case types.StatusFailed:
			stats.FailedPosts++
		}
		if p.Engagement != nil {
			stats.TotalEngagement += p.Engagement.Total()
		}
	}
	return stats, nil
}

// DashboardStats computes the headline figures for the dashboard page.
func (s *Store) DashboardStats(_ context.Context) (*api.DashboardStats, error) {
	summary, err := s.StatsSummary(nil)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &api.DashboardStats{
		TotalPosts:      summary.TotalPosts,
		TodayPosts:      summary.TodayPosts,
		TotalEngagement: summary.TotalEngagement,
	}
	for _, p := range s.posts {
		if p.Engagement != nil {
			stats.TotalViews += p.Engagement.Views
		}
	}
	return stats, nil
}
