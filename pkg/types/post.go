package types

import (
	"fmt"
	"time"
)

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
	StatusFailed    Status = "failed"
)

// Statuses returns every valid post status in display order.
func Statuses() []Status {
	return []Status{StatusDraft, StatusScheduled, StatusPublished, StatusFailed}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished, StatusFailed:
		return true
	}
	return false
}

// EngagementStats holds the interaction counters reported for a
// published post.
type EngagementStats struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
	Views    int `json:"views"`
}

// Total returns the sum of all interaction counters.
func (e EngagementStats) Total() int {
	return e.Likes + e.Comments + e.Shares + e.Views
}

// Post is a single social-media post as the remote collection reports
// it. The console never persists posts itself; it holds one page of
// these at a time.
type Post struct {
	ID             int              `json:"id"`
	Title          string           `json:"title"`
	Content        string           `json:"content"`
	Status         Status           `json:"status"`
	ScheduledTime  *time.Time       `json:"scheduled_time,omitempty"`
	CreatedTime    time.Time        `json:"created_time"`
	UpdatedTime    time.Time        `json:"updated_time"`
	AuthorID       int              `json:"author_id"`
	RemotePostID   string           `json:"remote_post_id,omitempty"`
	Engagement     *EngagementStats `json:"engagement_stats,omitempty"`
}

// Pagination describes one page of a filtered post listing. It is
// replaced wholesale on every list reload.
type Pagination struct {
	Page       int `json:"current_page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"pages"`
}

// CreatePost is a validated command for creating a new post. Commands
// are checked client-side before any network call is made.
type CreatePost struct {
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Status        Status     `json:"status"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
}

// Validate checks the command against the rules the console enforces
// before submission: title and content must be non-empty, and a
// scheduled post needs a scheduled time in the future relative to now.
func (c CreatePost) Validate(now time.Time) error {
	if c.Title == "" {
		return fmt.Errorf("title is required")
	}
	if c.Content == "" {
		return fmt.Errorf("content is required")
	}
	if c.Status != "" && !c.Status.Valid() {
		return fmt.Errorf("invalid status: %s", c.Status)
	}
	if c.Status == StatusScheduled {
		if c.ScheduledTime == nil || c.ScheduledTime.IsZero() {
			return fmt.Errorf("scheduled posts require a scheduled time")
		}
		if !c.ScheduledTime.After(now) {
			return fmt.Errorf("scheduled time must be in the future")
		}
	}
	return nil
}

// UpdatePost is a partial-update command; nil fields are left
// untouched by the remote collection.
type UpdatePost struct {
	Title         *string    `json:"title,omitempty"`
	Content       *string    `json:"content,omitempty"`
	Status        *Status    `json:"status,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
}

// Validate applies the same submission rules as CreatePost to the
// fields the update actually carries.
func (u UpdatePost) Validate(now time.Time) error {
	if u.Title != nil && *u.Title == "" {
		return fmt.Errorf("title is required")
	}
	if u.Content != nil && *u.Content == "" {
		return fmt.Errorf("content is required")
	}
	if u.Status != nil {
		if !u.Status.Valid() {
			return fmt.Errorf("invalid status: %s", *u.Status)
		}
		if *u.Status == StatusScheduled {
			if u.ScheduledTime == nil || u.ScheduledTime.IsZero() {
				return fmt.Errorf("scheduled posts require a scheduled time")
			}
			if !u.ScheduledTime.After(now) {
				return fmt.Errorf("scheduled time must be in the future")
			}
		}
	}
	return nil
}
