package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses() {
		assert.True(t, s.Valid(), "status %q should be valid", s)
	}
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("").Valid())
}

func TestCreatePostValidate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(2 * time.Hour)
	past := now.Add(-2 * time.Hour)

	tests := []struct {
		name    string
		cmd     CreatePost
		wantErr string
	}{
		{
			name:    "missing title",
			cmd:     CreatePost{Content: "body"},
			wantErr: "title is required",
		},
		{
			name:    "missing content",
			cmd:     CreatePost{Title: "hello"},
			wantErr: "content is required",
		},
		{
			name:    "valid draft",
			cmd:     CreatePost{Title: "hello", Content: "body", Status: StatusDraft},
			wantErr: "",
		},
		{
			name:    "scheduled without time",
			cmd:     CreatePost{Title: "hello", Content: "body", Status: StatusScheduled},
			wantErr: "scheduled posts require a scheduled time",
		},
		{
			name:    "scheduled in the past",
			cmd:     CreatePost{Title: "hello", Content: "body", Status: StatusScheduled, ScheduledTime: &past},
			wantErr: "scheduled time must be in the future",
		},
		{
			name:    "scheduled in the future",
			cmd:     CreatePost{Title: "hello", Content: "body", Status: StatusScheduled, ScheduledTime: &future},
			wantErr: "",
		},
		{
			name:    "unknown status",
			cmd:     CreatePost{Title: "hello", Content: "body", Status: Status("archived")},
			wantErr: "invalid status: archived",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate(now)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestUpdatePostValidate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)

	empty := ""
	title := "new title"
	scheduled := StatusScheduled
	published := StatusPublished

	assert.NoError(t, UpdatePost{}.Validate(now))
	assert.NoError(t, UpdatePost{Title: &title}.Validate(now))
	assert.Error(t, UpdatePost{Title: &empty}.Validate(now))
	assert.Error(t, UpdatePost{Status: &scheduled}.Validate(now))
	assert.NoError(t, UpdatePost{Status: &scheduled, ScheduledTime: &future}.Validate(now))
	assert.NoError(t, UpdatePost{Status: &published}.Validate(now))
}

func TestEngagementTotal(t *testing.T) {
	e := EngagementStats{Likes: 156, Comments: 23, Shares: 12, Views: 1250}
	assert.Equal(t, 1441, e.Total())
}
