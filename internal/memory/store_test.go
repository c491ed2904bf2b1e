package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postdeck/internal/api"
	apperrors "postdeck/internal/errors"
	"postdeck/pkg/types"
)

func fixedClock() func() time.Time {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestSeededStore(t *testing.T) {
	s := NewSeeded(WithClock(fixedClock()))
	ctx := context.Background()

	result, err := s.List(ctx, api.ListParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, result.Items, 5)
	assert.Equal(t, 5, result.Pagination.Total)
	assert.Equal(t, 1, result.Pagination.TotalPages)

	// Newest first.
	for i := 1; i < len(result.Items); i++ {
		assert.False(t, result.Items[i].CreatedTime.After(result.Items[i-1].CreatedTime))
	}
}

func TestListFiltering(t *testing.T) {
	s := NewSeeded(WithClock(fixedClock()))
	ctx := context.Background()

	t.Run("by status", func(t *testing.T) {
		result, err := s.List(ctx, api.ListParams{Status: types.StatusPublished})
		require.NoError(t, err)
		assert.Len(t, result.Items, 2)
		for _, p := range result.Items {
			assert.Equal(t, types.StatusPublished, p.Status)
		}
	})

	t.Run("by search", func(t *testing.T) {
		result, err := s.List(ctx, api.ListParams{Search: "marketing"})
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
	})

	t.Run("search matches content too", func(t *testing.T) {
		result, err := s.List(ctx, api.ListParams{Search: "everyone is welcome"})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Weekend event preview", result.Items[0].Title)
	})

	t.Run("pagination", func(t *testing.T) {
		result, err := s.List(ctx, api.ListParams{Page: 2, PerPage: 2})
		require.NoError(t, err)
		assert.Len(t, result.Items, 2)
		assert.Equal(t, 3, result.Pagination.TotalPages)
		assert.Equal(t, 5, result.Pagination.Total)

		// Past the last page yields an empty page, not an error.
		result, err = s.List(ctx, api.ListParams{Page: 9, PerPage: 2})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
	})
}

func TestCreateUpdateDelete(t *testing.T) {
	s := New(WithClock(fixedClock()))
	ctx := context.Background()

	created, err := s.Create(ctx, types.CreatePost{Title: "hello", Content: "world"})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, types.StatusDraft, created.Status)

	// Server-side validation rejects an empty title.
	_, err = s.Create(ctx, types.CreatePost{Content: "no title"})
	require.Error(t, err)
	assert.True(t, apperrors.IsRemote(err))
	assert.Equal(t, "title is required", apperrors.UserMessage(err))

	title := "renamed"
	updated, err := s.Update(ctx, created.ID, types.UpdatePost{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "world", updated.Content)

	_, err = s.Update(ctx, 99, types.UpdatePost{Title: &title})
	require.Error(t, err)
	assert.Equal(t, "post not found", apperrors.UserMessage(err))

	require.NoError(t, s.Delete(ctx, created.ID))
	err = s.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, "post not found", apperrors.UserMessage(err))
}

func TestPublish(t *testing.T) {
	s := New(WithClock(fixedClock()))
	ctx := context.Background()

	created, err := s.Create(ctx, types.CreatePost{Title: "t", Content: "c"})
	require.NoError(t, err)

	published, err := s.Publish(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPublished, published.Status)
	assert.NotEmpty(t, published.RemotePostID)

	_, err = s.Publish(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, "post already published", apperrors.UserMessage(err))
}

func TestStats(t *testing.T) {
	s := NewSeeded(WithClock(fixedClock()))
	ctx := context.Background()

	stats, err := s.StatsSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalPosts)
	assert.Equal(t, 1, stats.DraftPosts)
	assert.Equal(t, 1, stats.ScheduledPosts)
	assert.Equal(t, 2, stats.PublishedPosts)
	assert.Equal(t, 1, stats.FailedPosts)
	assert.Equal(t, 1441+1004, stats.TotalEngagement)

	dash, err := s.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, dash.TotalPosts)
	assert.Equal(t, 1250+892, dash.TotalViews)
}

func TestAuth(t *testing.T) {
	s := New()
	ctx := context.Background()

	assert.False(t, s.Authenticated())
	assert.Nil(t, s.CurrentUser())

	err := s.Login(ctx, "admin@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "incorrect password", apperrors.UserMessage(err))
	assert.False(t, s.Authenticated())

	err = s.Login(ctx, "nobody@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, "user does not exist", apperrors.UserMessage(err))

	require.NoError(t, s.Login(ctx, "admin@example.com", "admin123"))
	assert.True(t, s.Authenticated())
	assert.Equal(t, "admin", s.CurrentUser().Username)

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.Authenticated())
}

func TestTokens(t *testing.T) {
	s := New()

	token, user, err := s.IssueToken("test@example.com", "test123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "test", user.Username)

	assert.True(t, s.ValidateToken(token))
	s.RevokeToken(token)
	assert.False(t, s.ValidateToken(token))
	assert.False(t, s.ValidateToken("made-up"))
}
