// Package api defines the remote collection interface the console
// consumes, plus the HTTP client that implements it. Every call
// reports success or failure through a message envelope so callers can
// route outcomes to the notification queue without inspecting
// transport-level status codes.
package api

import (
	"context"
	"encoding/json"

	"postdeck/pkg/types"
)

// Envelope is the response wrapper every API endpoint uses.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ListParams narrows a post listing. Zero values mean "no filter".
type ListParams struct {
	Page    int
	PerPage int
	Status  types.Status
	Search  string
}

// ListResult is one page of posts plus its pagination metadata.
type ListResult struct {
	Items      []types.Post     `json:"posts"`
	Pagination types.Pagination `json:"pagination"`
}

// StatsSummary is the per-status post count breakdown.
type StatsSummary struct {
	TotalPosts      int `json:"total_posts"`
	DraftPosts      int `json:"draft_posts"`
	ScheduledPosts  int `json:"scheduled_posts"`
	PublishedPosts  int `json:"published_posts"`
	FailedPosts     int `json:"failed_posts"`
	TodayPosts      int `json:"today_posts"`
	TotalEngagement int `json:"total_engagement"`
}

// DashboardStats is the headline figures shown on the dashboard page.
type DashboardStats struct {
	TotalPosts      int `json:"total_posts"`
	TodayPosts      int `json:"today_posts"`
	TotalViews      int `json:"total_views"`
	TotalEngagement int `json:"total_engagement"`
}

// User identifies the authenticated account.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginData is the payload of a successful login response.
type LoginData struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// PostsAPI is the remote collection of posts. Implementations must
// return a *RemoteError-compatible application error on any
// non-success response so the server message survives to the UI.
type PostsAPI interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Get(ctx context.Context, id int) (*types.Post, error)
	Create(ctx context.Context, cmd types.CreatePost) (*types.Post, error)
	Update(ctx context.Context, id int, cmd types.UpdatePost) (*types.Post, error)
	Delete(ctx context.Context, id int) error
	Publish(ctx context.Context, id int) (*types.Post, error)
	StatsSummary(ctx context.Context) (*StatsSummary, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

// Backend is the full surface the console wires against: the posts
// collection plus the authentication boundary the router consults.
type Backend interface {
	PostsAPI
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Authenticated() bool
	CurrentUser() *User
}
